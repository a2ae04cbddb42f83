package report

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	observedColor = color.RGBA{R: 220, A: 255}
	modelColor    = color.RGBA{B: 220, A: 255}
)

// ImageFormats lists the file extensions SaveImage accepts.
var ImageFormats = []string{"eps", "jpg", "jpeg", "pdf", "png", "svg", "tif", "tiff"}

// IsImageFormat reports whether format (with or without a leading dot)
// is a supported static image format.
func IsImageFormat(format string) bool {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	for _, f := range ImageFormats {
		if f == format {
			return true
		}
	}
	return false
}

// buildPlot draws the observations as red dots and the model as a blue line.
func buildPlot(o *Overlay) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = o.Title
	if o.Params != "" {
		p.Title.Text = fmt.Sprintf("%s\n%s: %s", o.Title, o.ModelLabel, o.Params)
	}
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	p.Add(plotter.NewGrid())

	if len(o.Points) > 0 {
		scatter, err := plotter.NewScatter(toXYs(o.Points))
		if err != nil {
			return nil, fmt.Errorf("observed points: %w", err)
		}
		scatter.GlyphStyle.Color = observedColor
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add("observed", scatter)
	}

	if len(o.Model) > 0 {
		line, err := plotter.NewLine(toXYs(o.Model))
		if err != nil {
			return nil, fmt.Errorf("model curve: %w", err)
		}
		line.Color = modelColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(o.ModelLabel, line)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10
	return p, nil
}

func toXYs(pts []Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for k, pt := range pts {
		xys[k] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

// SaveImage writes the overlay to path; the extension picks the format.
// Width and height are in inches.
func SaveImage(path string, o *Overlay, width, height float64) error {
	if !IsImageFormat(filepath.Ext(path)) {
		return fmt.Errorf("unsupported image format %q (valid: %s)", filepath.Ext(path), strings.Join(ImageFormats, ", "))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	p, err := buildPlot(o)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// WriteImage renders the overlay in the given format to w.
func WriteImage(w io.Writer, format string, o *Overlay, width, height float64) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if !IsImageFormat(format) {
		return fmt.Errorf("unsupported image format %q (valid: %s)", format, strings.Join(ImageFormats, ", "))
	}
	p, err := buildPlot(o)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

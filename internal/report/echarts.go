package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes an interactive go-echarts page of the overlay.
func RenderHTML(w io.Writer, o *Overlay) error {
	points := make([]opts.ScatterData, 0, len(o.Points))
	for _, pt := range o.Points {
		points = append(points, opts.ScatterData{Value: []interface{}{pt.X, pt.Y}})
	}

	subtitle := fmt.Sprintf("points=%d", len(o.Points))
	if o.Params != "" {
		subtitle = fmt.Sprintf("%s: %s", o.ModelLabel, o.Params)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: "1000px", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: o.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: o.YLabel, NameLocation: "middle", NameGap: 40}),
	)
	scatter.AddSeries("observed", points,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
	)

	if len(o.Model) > 0 {
		curve := make([]opts.LineData, 0, len(o.Model))
		for _, pt := range o.Model {
			curve = append(curve, opts.LineData{Value: []interface{}{pt.X, pt.Y}})
		}
		line := charts.NewLine()
		line.AddSeries(o.ModelLabel, curve,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "blue"}),
		)
		scatter.Overlap(line)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

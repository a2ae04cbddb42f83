package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/banshee-data/diodeplot/internal/config"
	"github.com/banshee-data/diodeplot/internal/report"
)

// Chart output flags shared by fit and plot.
var (
	outputPath  string
	listenAddr  string
	imageFormat string
)

func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVarP(&outputPath, "output", "o", "",
		"chart file; .html for an interactive page, otherwise an image (.png, .svg, .pdf, ...)")
	c.Flags().StringVar(&listenAddr, "listen", "",
		"serve the interactive chart on this address instead of writing a file")
	c.Flags().StringVar(&imageFormat, "format", "png",
		"format of the default chart file when --output is not given")
}

// emitOverlay serves the chart when --listen is set, otherwise writes it
// to --output or a name derived from the capture.
func emitOverlay(cmd *cobra.Command, cfg *config.FitConfig, o *report.Overlay, title, source string) error {
	out := cmd.OutOrStdout()
	if listenAddr != "" {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(out, "serving chart on http://%s/ (interrupt to stop)\n", listenAddr)
		return report.Serve(ctx, listenAddr, o)
	}

	path := outputPath
	if path == "" {
		path = report.DefaultImageName(title, source, imageFormat)
	}
	if err := writeOverlay(path, cfg, o); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func writeOverlay(path string, cfg *config.FitConfig, o *report.Overlay) (err error) {
	if !strings.EqualFold(filepath.Ext(path), ".html") {
		return report.SaveImage(path, o, cfg.GetPlotWidthInches(), cfg.GetPlotHeightInches())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return report.RenderHTML(f, o)
}

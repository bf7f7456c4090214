package render

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FileSink saves each chart as <Dir>/<Name>.png.
type FileSink struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
}

// NewFileSink returns a FileSink writing 10x5 inch images under dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir, Width: 10 * vg.Inch, Height: 5 * vg.Inch}
}

var (
	barColor  = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	histColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// Render draws c and saves it. The output directory is created on demand.
// Empty charts are skipped.
func (s *FileSink) Render(ctx context.Context, c Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Empty() {
		return nil
	}
	if c.Name == "" {
		return fmt.Errorf("render: chart without name")
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	switch c.Kind {
	case Histogram:
		h, err := plotter.NewHist(plotter.Values(c.Samples), binCount(c.Bins, len(c.Samples)))
		if err != nil {
			return fmt.Errorf("render %s: %w", c.Name, err)
		}
		h.FillColor = histColor
		p.Add(h)
	default:
		bars, err := plotter.NewBarChart(plotter.Values(c.Values), vg.Points(20))
		if err != nil {
			return fmt.Errorf("render %s: %w", c.Name, err)
		}
		bars.Color = barColor
		bars.Horizontal = c.Horizontal
		p.Add(bars)
		if c.Horizontal {
			p.NominalY(c.Labels...)
		} else {
			p.NominalX(c.Labels...)
		}
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("render: create %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, c.Name+".png")
	if err := p.Save(s.Width, s.Height, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// Package render draws aggregate series. A Sink either shows a chart
// (interactive), saves it as an image (file) or discards it (none).
package render

import (
	"context"
	"fmt"
	"io"
	"math"
)

// Kind is the chart shape.
type Kind int

const (
	// Bar draws one bar per label.
	Bar Kind = iota
	// Histogram bins raw samples.
	Histogram
)

// Chart is a named, labeled series ready to draw.
type Chart struct {
	// Name is a stable identifier; the file sink uses it as the file stem.
	Name   string
	Title  string
	XLabel string
	YLabel string
	Kind   Kind

	// Bar data.
	Labels     []string
	Values     []float64
	Horizontal bool

	// Histogram data. Bins <= 0 picks a bin count from the sample size.
	Samples []float64
	Bins    int
}

// binCount resolves a requested bin count for n samples: bins when
// positive, otherwise ceil(sqrt(n)) with a minimum of 1.
func binCount(bins, n int) int {
	if bins > 0 {
		return bins
	}
	if b := int(math.Ceil(math.Sqrt(float64(n)))); b > 1 {
		return b
	}
	return 1
}

// Empty reports whether c has nothing to draw.
func (c Chart) Empty() bool {
	if c.Kind == Histogram {
		return len(c.Samples) == 0
	}
	return len(c.Values) == 0
}

// Sink receives charts.
type Sink interface {
	Render(ctx context.Context, c Chart) error
}

// Mode selects a Sink implementation.
type Mode string

const (
	ModeFile        Mode = "file"
	ModeInteractive Mode = "interactive"
	ModeNone        Mode = "none"
)

// NewSink builds the sink for mode. dir is used by the file sink; w by the
// interactive sink.
func NewSink(mode Mode, dir string, w io.Writer) (Sink, error) {
	switch mode {
	case ModeFile:
		return NewFileSink(dir), nil
	case ModeInteractive:
		return NewConsoleSink(w), nil
	case ModeNone, "":
		return NopSink{}, nil
	default:
		return nil, fmt.Errorf("render: unsupported mode %q", string(mode))
	}
}

// NopSink discards charts.
type NopSink struct{}

func (NopSink) Render(context.Context, Chart) error { return nil }

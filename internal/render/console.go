package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// ConsoleSink shows charts as text bars on a terminal.
type ConsoleSink struct {
	W     io.Writer
	Width int // longest bar in cells
}

// NewConsoleSink writes to w, or stdout when w is nil.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{W: w, Width: 50}
}

// Render prints c. Histograms are binned first.
func (s *ConsoleSink) Render(ctx context.Context, c Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	labels, values := c.Labels, c.Values
	if c.Kind == Histogram {
		labels, values = binSamples(c.Samples, c.Bins)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n%s\n", c.Title, strings.Repeat("=", len(c.Title)))
	if len(values) == 0 {
		sb.WriteString("(no data)\n")
		_, err := io.WriteString(s.W, sb.String())
		return err
	}

	label := func(i int) string {
		if i < len(labels) {
			return labels[i]
		}
		return fmt.Sprint(i)
	}

	width := 0
	peak := 0.0
	for i, v := range values {
		if l := len(label(i)); l > width {
			width = l
		}
		peak = math.Max(peak, v)
	}
	for i, v := range values {
		n := 0
		if peak > 0 {
			n = int(math.Round(v / peak * float64(s.Width)))
		}
		fmt.Fprintf(&sb, "%-*s | %s %s\n", width, label(i), strings.Repeat("#", n), formatValue(v))
	}
	if c.XLabel != "" || c.YLabel != "" {
		fmt.Fprintf(&sb, "(%s / %s)\n", c.XLabel, c.YLabel)
	}

	_, err := io.WriteString(s.W, sb.String())
	return err
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}

// binSamples groups samples into equal-width bins labeled by range.
func binSamples(samples []float64, bins int) ([]string, []float64) {
	if len(samples) == 0 {
		return nil, nil
	}
	bins = binCount(bins, len(samples))
	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return []string{fmt.Sprintf("%g", lo)}, []float64{float64(len(samples))}
	}

	step := (hi - lo) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range samples {
		i := int((v - lo) / step)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	labels := make([]string, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.2f-%.2f", lo+float64(i)*step, lo+float64(i+1)*step)
	}
	return labels, counts
}

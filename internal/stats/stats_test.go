package stats

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	if !reflect.DeepEqual(got, []float64{1, 1.5, 2.5, 3.5}) {
		t.Fatalf("unexpected average %v", got)
	}
	in := []float64{5, 7}
	got = MovingAverage(in, 1)
	got[0] = 0
	if in[0] != 5 {
		t.Fatalf("expected a copy for window 1")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{1, 1}); got != "++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderTrends(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTrends(&buf, []string{"24/01/01", "24/01/02"}, []string{"hi", "missing"},
		map[string][]float64{"hi": {20, 50}}, TrendOptions{Title: "Terms", TotalWidth: 60, Height: 4, Percent: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Terms", "hi (solid)", "Dates: 24/01/01 .. 24/01/02 (2, percent)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %s", want, out)
		}
	}
	if strings.Contains(out, "missing") {
		t.Fatalf("expected unknown names to be skipped")
	}
}

func TestRenderTrendsNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTrends(&buf, nil, []string{"hi"}, nil, TrendOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "Nothing to plot.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

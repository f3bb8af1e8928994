package figure

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/dataset"
)

func readTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return tbl
}

func TestGroupRows_Numeric(t *testing.T) {
	tbl := readTable(t, "w,v\n512,1\n256,2\n256.0,3\n1024,4\n")

	groups, rowGroup, err := groupRows(tbl, "w")
	if err != nil {
		t.Fatalf("groupRows: %v", err)
	}
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	if got := strings.Join(labels, ","); got != "256,512,1024" {
		t.Errorf("labels = %q, want 256,512,1024", got)
	}
	if len(groups[0].Rows) != 2 {
		t.Errorf("256 group has %d rows, want 2", len(groups[0].Rows))
	}
	wantRowGroup := []int{1, 0, 0, 2}
	for r, g := range wantRowGroup {
		if rowGroup[r] != g {
			t.Errorf("rowGroup[%d] = %d, want %d", r, rowGroup[r], g)
		}
	}
}

func TestGroupRows_Text(t *testing.T) {
	tbl := readTable(t, "k\nb\na\n10\n")

	groups, _, err := groupRows(tbl, "k")
	if err != nil {
		t.Fatalf("groupRows: %v", err)
	}
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	if got := strings.Join(labels, ","); got != "10,a,b" {
		t.Errorf("labels = %q, want 10,a,b", got)
	}
}

func TestGroupRows_NoColumn(t *testing.T) {
	tbl := readTable(t, "k\n1\n2\n3\n")

	groups, _, err := groupRows(tbl, "")
	if err != nil {
		t.Fatalf("groupRows: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Rows) != 3 || groups[0].Label != "" {
		t.Errorf("groups = %+v, want one unlabelled group of 3 rows", groups)
	}

	if _, _, err := groupRows(tbl, "missing"); err == nil {
		t.Error("expected error for missing column")
	}
}

func TestAggregate(t *testing.T) {
	nan := math.NaN()
	xs := []float64{2, 1, 1, 1, 3, nan}
	ys := []float64{5, 1, 2, 3, math.Inf(1), 7}

	pts := aggregate(xs, ys, []int{0, 1, 2, 3, 4, 5})
	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2: %+v", len(pts), pts)
	}

	one := pts[0]
	if one.X != 1 || one.N != 3 || one.Mean != 2 {
		t.Errorf("x=1 point = %+v, want mean 2 of 3", one)
	}
	// sample std of {1,2,3} is 1
	half := ciZ / math.Sqrt(3)
	if math.Abs(one.Hi-(2+half)) > 1e-12 || math.Abs(one.Lo-(2-half)) > 1e-12 {
		t.Errorf("x=1 band = [%v, %v], want 2±%v", one.Lo, one.Hi, half)
	}

	two := pts[1]
	if two.X != 2 || two.Mean != 5 || two.Lo != 5 || two.Hi != 5 {
		t.Errorf("x=2 point = %+v, want single observation 5", two)
	}
}

func TestConfidenceBand(t *testing.T) {
	flat := []point{{X: 1, Mean: 1, Lo: 1, Hi: 1}, {X: 2, Mean: 2, Lo: 2, Hi: 2}}
	if band := confidenceBand(flat); band != nil {
		t.Errorf("band for single observations = %v, want nil", band)
	}

	pts := []point{{X: 1, Lo: 0, Hi: 2}, {X: 2, Lo: 1, Hi: 3}}
	band := confidenceBand(pts)
	want := []struct{ x, y float64 }{{1, 2}, {2, 3}, {2, 1}, {1, 0}}
	if len(band) != len(want) {
		t.Fatalf("band = %v, want %d vertices", band, len(want))
	}
	for i, w := range want {
		if band[i].X != w.x || band[i].Y != w.y {
			t.Errorf("band[%d] = %v, want (%v, %v)", i, band[i], w.x, w.y)
		}
	}
}

func TestSummarize(t *testing.T) {
	ys := []float64{1, math.NaN(), 3}

	pt := summarize(ys, []int{0, 1, 2})
	if pt.Mean != 2 || pt.N != 2 {
		t.Errorf("summarize = %+v, want mean 2 of 2", pt)
	}
	if !(pt.Lo < 2 && pt.Hi > 2) {
		t.Errorf("summarize interval = [%v, %v], want around 2", pt.Lo, pt.Hi)
	}
	if got := summarize(ys, []int{1}); got != (point{}) {
		t.Errorf("summarize(all NaN) = %+v, want zero", got)
	}
	if got := summarize(ys, nil); got != (point{}) {
		t.Errorf("summarize(none) = %+v, want zero", got)
	}
}

func TestConfidenceBand_Overflow(t *testing.T) {
	xs := []float64{1, 1, 1, 2, 2}
	ys := []float64{1e200, -1e200, 1e200, 1, 2}

	pts := aggregate(xs, ys, []int{0, 1, 2, 3, 4})
	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2: %+v", len(pts), pts)
	}
	if !finite(pts[0].Mean) {
		t.Errorf("mean = %v, want finite", pts[0].Mean)
	}
	if band := confidenceBand(pts); band != nil {
		t.Errorf("band with an overflowing edge = %v, want nil", band)
	}
}

func TestAggregate_OverflowingMean(t *testing.T) {
	xs := []float64{1, 1, 2}
	ys := []float64{math.MaxFloat64, math.MaxFloat64, 3}

	pts := aggregate(xs, ys, []int{0, 1, 2})
	if len(pts) != 1 || pts[0].X != 2 {
		t.Errorf("aggregate = %+v, want only x=2", pts)
	}
}

func TestBarWidth(t *testing.T) {
	slot := vg.Length(100)
	if got := barWidth(slot, 4, 2); math.Abs(float64(got)-7) > 1e-9 {
		t.Errorf("barWidth(100, 4, 2) = %v, want 7", got)
	}
	if got := barWidth(slot, 0, 0); math.Abs(float64(got)-56) > 1e-9 {
		t.Errorf("barWidth(100, 0, 0) = %v, want 56", got)
	}
}

func TestFitAspect(t *testing.T) {
	c := draw.Canvas{Rectangle: vg.Rectangle{Max: vg.Point{X: 200, Y: 100}}}

	tests := []struct {
		name  string
		ratio float64
		want  vg.Rectangle
	}{
		{"square in wide", 1, vg.Rectangle{Min: vg.Point{X: 50}, Max: vg.Point{X: 150, Y: 100}}},
		{"wider than canvas", 4, vg.Rectangle{Min: vg.Point{Y: 25}, Max: vg.Point{X: 200, Y: 75}}},
		{"same ratio", 2, vg.Rectangle{Max: vg.Point{X: 200, Y: 100}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fitAspect(c, tt.ratio).Rectangle
			if got != tt.want {
				t.Errorf("fitAspect(%v) = %+v, want %+v", tt.ratio, got, tt.want)
			}
		})
	}
}

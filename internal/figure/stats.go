package figure

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/dataset"
)

// ciZ is the normal quantile for the 95% confidence band.
const ciZ = 1.96

// group is the set of rows sharing one value of a column.
type group struct {
	Label string
	Rows  []int
}

// groupRows splits the rows of t by the value of col. Groups are ordered
// numerically when every value is a number, lexically otherwise. Numeric
// labels are normalised, so "256" and "256.0" share a group. rowGroup maps
// each row to its group index. An empty col yields a single unlabelled group.
func groupRows(t *dataset.Table, col string) (groups []group, rowGroup []int, err error) {
	rowGroup = make([]int, t.Len())
	if col == "" {
		all := group{Rows: make([]int, t.Len())}
		for r := range all.Rows {
			all.Rows[r] = r
		}
		return []group{all}, rowGroup, nil
	}

	keys, err := t.Strings(col)
	if err != nil {
		return nil, nil, err
	}

	numeric := true
	nums := make([]float64, len(keys))
	for r, k := range keys {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[r] = v
	}

	labels := keys
	if numeric {
		labels = make([]string, len(keys))
		for r, v := range nums {
			labels[r] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}

	byLabel := make(map[string]*group)
	sortKey := make(map[string]float64)
	var order []string
	for r, l := range labels {
		g, ok := byLabel[l]
		if !ok {
			g = &group{Label: l}
			byLabel[l] = g
			order = append(order, l)
			if numeric {
				sortKey[l] = nums[r]
			}
		}
		g.Rows = append(g.Rows, r)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if numeric {
			return sortKey[order[i]] < sortKey[order[j]]
		}
		return order[i] < order[j]
	})

	index := make(map[string]int, len(order))
	for i, l := range order {
		groups = append(groups, *byLabel[l])
		index[l] = i
	}
	for r, l := range labels {
		rowGroup[r] = index[l]
	}
	return groups, rowGroup, nil
}

// point is the aggregate of every y observed at one x.
type point struct {
	X, Mean float64
	Lo, Hi  float64
	N       int
}

// aggregate averages ys per distinct xs value over rows, ignoring non-finite
// values, and returns the points ordered by x. Lo and Hi bound the 95%
// confidence interval of the mean; they equal Mean for single observations.
func aggregate(xs, ys []float64, rows []int) []point {
	byX := make(map[float64][]float64)
	for _, r := range rows {
		x, y := xs[r], ys[r]
		if !finite(x) || !finite(y) {
			continue
		}
		byX[x] = append(byX[x], y)
	}

	pts := make([]point, 0, len(byX))
	for x, vals := range byX {
		pt, ok := estimate(vals)
		if !ok {
			continue
		}
		pt.X = x
		pts = append(pts, pt)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return pts
}

// summarize estimates the mean of the finite ys selected by rows. It returns
// the zero point when there are none.
func summarize(ys []float64, rows []int) point {
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		if finite(ys[r]) {
			vals = append(vals, ys[r])
		}
	}
	if len(vals) == 0 {
		return point{}
	}
	pt, _ := estimate(vals)
	return pt
}

// estimate returns the mean of vals with its confidence interval. It fails
// when the mean overflows. An interval that overflows is left non-finite.
func estimate(vals []float64) (point, bool) {
	mean, std := stat.MeanStdDev(vals, nil)
	if !finite(mean) {
		return point{}, false
	}
	half := 0.0
	if len(vals) > 1 {
		half = ciZ * std / math.Sqrt(float64(len(vals)))
	}
	return point{Mean: mean, Lo: mean - half, Hi: mean + half, N: len(vals)}, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

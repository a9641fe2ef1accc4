// Package align puts the metric histories of two videos on a shared time axis
// and downsamples that axis for charting.
package align

import (
	"slices"
	"strings"
	"time"
)

// Point is one metric snapshot.
type Point struct {
	At       time.Time
	Views    int64
	Likes    int64
	Comments int64
}

// Strategy selects how an oversized axis is downsampled.
type Strategy string

const (
	// Even spaces the selected points uniformly over the whole axis.
	Even Strategy = "even"

	// CoverBoth reserves part of the budget for each series so that a sparse
	// series keeps visible points next to a dense one.
	CoverBoth Strategy = "cover_both"
)

// ParseStrategy maps a user-supplied name to a Strategy. Unknown and empty
// names fall back to CoverBoth.
func ParseStrategy(s string) Strategy {
	if Strategy(strings.ToLower(strings.TrimSpace(s))) == Even {
		return Even
	}
	return CoverBoth
}

// Series holds the values of one video aligned to Result.Timestamps.
// A nil entry means the video has no snapshot at that timestamp.
type Series struct {
	Views    []*int64
	Likes    []*int64
	Comments []*int64
}

// Delta is latest B minus latest A.
type Delta struct {
	Views    int64
	Likes    int64
	Comments int64
}

// Result is the output of Align.
type Result struct {
	// Timestamps is the selected subsequence of the union axis, ascending.
	Timestamps []time.Time

	// Indices are the positions of Timestamps within the union axis.
	Indices []int

	// UnionLength is the size of the axis before downsampling.
	UnionLength int

	A, B Series

	// LatestA and LatestB come from the full series, never the sampled one.
	LatestA, LatestB *Point

	// Delta is nil unless both series are non-empty.
	Delta *Delta
}

// Align builds the union timestamp axis of a and b, selects at most maxPoints
// of it using strategy, and returns both series aligned to the selection.
// maxPoints <= 0 disables downsampling. Timestamps are matched exactly.
// Within one series a later point replaces an earlier one at the same instant.
func Align(a, b []Point, maxPoints int, strategy Strategy) *Result {
	byA := index(a)
	byB := index(b)

	axis := unionAxis(a, b)
	n := len(axis)

	var selected []int
	if maxPoints > 0 && n > maxPoints {
		presentA := presence(axis, byA)
		presentB := presence(axis, byB)
		if strategy == Even {
			selected = evenSampleRange(n, maxPoints, nil)
		} else {
			selected = coverBoth(n, maxPoints, presentA, presentB)
		}
	} else {
		selected = make([]int, n)
		for i := range selected {
			selected[i] = i
		}
	}

	res := &Result{
		Timestamps:  make([]time.Time, len(selected)),
		Indices:     selected,
		UnionLength: n,
		A:           newSeries(len(selected)),
		B:           newSeries(len(selected)),
	}
	for i, idx := range selected {
		key := axis[idx]
		res.Timestamps[i] = time.Unix(0, key).UTC()
		fill(&res.A, i, byA[key])
		fill(&res.B, i, byB[key])
	}

	res.LatestA = latest(a)
	res.LatestB = latest(b)
	if res.LatestA != nil && res.LatestB != nil {
		res.Delta = &Delta{
			Views:    res.LatestB.Views - res.LatestA.Views,
			Likes:    res.LatestB.Likes - res.LatestA.Likes,
			Comments: res.LatestB.Comments - res.LatestA.Comments,
		}
	}
	return res
}

func index(points []Point) map[int64]*Point {
	m := make(map[int64]*Point, len(points))
	for i := range points {
		m[points[i].At.UnixNano()] = &points[i]
	}
	return m
}

// unionAxis returns the sorted, deduplicated timestamps of both series as
// Unix nanoseconds.
func unionAxis(a, b []Point) []int64 {
	axis := make([]int64, 0, len(a)+len(b))
	for _, p := range a {
		axis = append(axis, p.At.UnixNano())
	}
	for _, p := range b {
		axis = append(axis, p.At.UnixNano())
	}
	slices.Sort(axis)
	return slices.Compact(axis)
}

// presence lists the axis positions at which a series has a snapshot.
func presence(axis []int64, series map[int64]*Point) []int {
	var idx []int
	for i, key := range axis {
		if _, ok := series[key]; ok {
			idx = append(idx, i)
		}
	}
	return idx
}

// coverBoth samples up to half the budget from A's positions and the rest
// from B's, always keeps both ends of the axis, then trims or tops up the
// merged set to exactly limit positions.
func coverBoth(n, limit int, presentA, presentB []int) []int {
	half := limit / 2
	partA := evenSampleFromList(presentA, min(half, len(presentA)))
	partB := evenSampleFromList(presentB, min(limit-len(partA), len(presentB)))

	merged := make([]int, 0, len(partA)+len(partB)+2)
	merged = append(merged, 0, n-1)
	merged = append(merged, partA...)
	merged = append(merged, partB...)
	slices.Sort(merged)
	merged = slices.Compact(merged)

	switch {
	case len(merged) > limit:
		positions := make([]int, len(merged))
		for i := range positions {
			positions[i] = i
		}
		picks := evenSampleFromList(positions, limit)
		out := make([]int, len(picks))
		for i, p := range picks {
			out[i] = merged[p]
		}
		return out
	case len(merged) < limit:
		existing := make(map[int]bool, len(merged))
		for _, i := range merged {
			existing[i] = true
		}
		out := append(merged, evenSampleRange(n, limit-len(merged), existing)...)
		slices.Sort(out)
		return slices.Compact(out)
	default:
		return merged
	}
}

// evenSampleFromList picks k entries of idx at proportional positions
// floor(i*(len-1)/(k-1)). Collisions are made up by scanning idx in order.
// idx must be ascending and free of duplicates.
func evenSampleFromList(idx []int, k int) []int {
	switch {
	case k <= 0:
		return nil
	case k >= len(idx):
		return slices.Clone(idx)
	case k == 1:
		return []int{idx[0]}
	}

	seen := make(map[int]bool, k)
	res := make([]int, 0, k)
	last := len(idx) - 1
	for i := 0; i < k; i++ {
		c := idx[i*last/(k-1)]
		if !seen[c] {
			seen[c] = true
			res = append(res, c)
		}
	}
	for _, c := range idx {
		if len(res) == k {
			break
		}
		if !seen[c] {
			seen[c] = true
			res = append(res, c)
		}
	}
	slices.Sort(res)
	return res
}

// evenSampleRange picks k positions of [0, n) at floor(i*(n-1)/(k-1)),
// skipping positions in existing. Shortfalls are topped up with the lowest
// free positions, so collisions cluster near the start of the axis.
func evenSampleRange(n, k int, existing map[int]bool) []int {
	if k <= 0 {
		return nil
	}
	if k >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	taken := make(map[int]bool, k)
	selected := make([]int, 0, k)
	last := n - 1
	for i := 0; i < k && len(selected) < k; i++ {
		c := 0
		if k > 1 {
			c = i * last / (k - 1)
		}
		if !existing[c] && !taken[c] {
			taken[c] = true
			selected = append(selected, c)
		}
	}
	for j := 0; j < n && len(selected) < k; j++ {
		if !existing[j] && !taken[j] {
			taken[j] = true
			selected = append(selected, j)
		}
	}
	slices.Sort(selected)
	return selected
}

func newSeries(n int) Series {
	return Series{
		Views:    make([]*int64, n),
		Likes:    make([]*int64, n),
		Comments: make([]*int64, n),
	}
}

func fill(s *Series, i int, p *Point) {
	if p == nil {
		return
	}
	views, likes, comments := p.Views, p.Likes, p.Comments
	s.Views[i] = &views
	s.Likes[i] = &likes
	s.Comments[i] = &comments
}

// latest returns the snapshot with the greatest timestamp. Ties go to the
// later element.
func latest(points []Point) *Point {
	if len(points) == 0 {
		return nil
	}
	best := points[0]
	for _, p := range points[1:] {
		if !p.At.Before(best.At) {
			best = p
		}
	}
	return &best
}

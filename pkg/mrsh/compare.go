// pkg/mrsh/compare.go
package mrsh

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxScore is the score of two identical inputs. Scores range over
// [0, MaxScore]; higher means more similar, 0 means unrelated.
const MaxScore = 100

// Compare scores the similarity of a and b.
//
// Bit-sets are aligned by position. For each position i shared by both
// chains, with popcounts pa and pb, intersection c and width W, the overlap
// expected by chance is e = pa*pb/W and the best possible overlap is
// m = min(pa, pb). The position scores s = (c-e)/(m-e) clamped to [0, 1]
// (0 when m <= e). The result is the m-weighted mean of s scaled to MaxScore
// and rounded. Trailing bit-sets of the longer chain are ignored.
//
// Fingerprints from different profiles score 0. Compare is symmetric and
// panics with a KindProgramming Error if either fingerprint was not built.
func Compare(a, b *Fingerprint) uint8 {
	ca, cb := a.mustChain("compare"), b.mustChain("compare")
	if a.profile != b.profile || ca.Params() != cb.Params() {
		return 0
	}

	n := min(ca.Len(), cb.Len())
	width := float64(ca.Params().WidthBits)
	var num, den float64
	for i := 0; i < n; i++ {
		pa, pb := float64(ca.Popcount(i)), float64(cb.Popcount(i))
		m := math.Min(pa, pb)
		if m == 0 {
			continue
		}
		den += m
		e := pa * pb / width
		if m <= e {
			continue
		}
		s := (float64(ca.Overlap(i, cb, i)) - e) / (m - e)
		num += m * math.Max(0, math.Min(1, s))
	}
	if den == 0 {
		return 0
	}
	return uint8(math.Round(MaxScore * num / den))
}

// CompareAll scores every unordered pair (i < j) of c and keeps results with
// Score >= threshold, ordered by i then j.
func CompareAll(c *Collection, threshold uint8) []ComparisonResult {
	res, _ := CompareAllContext(context.Background(), c, threshold, 1)
	return res
}

// CompareAcross scores every pair (a[i], b[j]) and keeps results with
// Score >= threshold, ordered by i then j.
func CompareAcross(a, b *Collection, threshold uint8) []ComparisonResult {
	res, _ := CompareAcrossContext(context.Background(), a, b, threshold, 1)
	return res
}

// CompareOneVsCollection scores fp against every member of c and keeps
// results with Score >= threshold, in collection order.
func CompareOneVsCollection(fp *Fingerprint, c *Collection, threshold uint8) []ComparisonResult {
	res, _ := CompareOneVsCollectionContext(context.Background(), fp, c, threshold, 1)
	return res
}

// CompareAllContext is CompareAll with rows scored by up to workers goroutines
// (runtime.GOMAXPROCS when workers <= 0). Output order is the same as
// CompareAll. ctx is checked before each row.
func CompareAllContext(ctx context.Context, c *Collection, threshold uint8, workers int) ([]ComparisonResult, error) {
	fps := c.fps
	return compareRows(ctx, len(fps), workers, func(i int) []ComparisonResult {
		var row []ComparisonResult
		for j := i + 1; j < len(fps); j++ {
			row = appendIfAbove(row, fps[i], fps[j], i, j, threshold)
		}
		return row
	})
}

// CompareAcrossContext is CompareAcross with rows scored concurrently.
func CompareAcrossContext(ctx context.Context, a, b *Collection, threshold uint8, workers int) ([]ComparisonResult, error) {
	left, right := a.fps, b.fps
	return compareRows(ctx, len(left), workers, func(i int) []ComparisonResult {
		var row []ComparisonResult
		for j := range right {
			row = appendIfAbove(row, left[i], right[j], i, j, threshold)
		}
		return row
	})
}

// CompareOneVsCollectionContext is CompareOneVsCollection with the
// collection split into rows scored concurrently.
func CompareOneVsCollectionContext(ctx context.Context, fp *Fingerprint, c *Collection, threshold uint8, workers int) ([]ComparisonResult, error) {
	fp.mustChain("compare")
	fps := c.fps
	return compareRows(ctx, len(fps), workers, func(j int) []ComparisonResult {
		return appendIfAbove(nil, fp, fps[j], 0, j, threshold)
	})
}

func appendIfAbove(dst []ComparisonResult, a, b *Fingerprint, i, j int, threshold uint8) []ComparisonResult {
	score := Compare(a, b)
	if score < threshold {
		return dst
	}
	return append(dst, ComparisonResult{
		LabelA: a.label,
		LabelB: b.label,
		IndexA: i,
		IndexB: j,
		Score:  score,
	})
}

// compareRows scores rows [0, n) and concatenates them in row order.
func compareRows(ctx context.Context, n, workers int, row func(i int) []ComparisonResult) ([]ComparisonResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rows := make([][]ComparisonResult, n)

	if workers == 1 || n < 2 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows[i] = row(i)
		}
		return flatten(rows), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = row(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return flatten(rows), nil
}

func flatten(rows [][]ComparisonResult) []ComparisonResult {
	total := 0
	for _, r := range rows {
		total += len(r)
	}
	out := make([]ComparisonResult, 0, total)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

package search

import "sort"

// PostFilter sorts loops by descending quality, drops any failing
// worth-keeping, truncates to 3*floor(networkKM/5) when that limit is
// positive, then removes near duplicates via FilterSimilar. For networks
// under 5 km the limit is 0 and no truncation is applied. Returns nil if loops is empty; panics if
// loops was non-empty but nothing survives (an invariant violation the
// caller should never be able to trigger, since every loop reaching this
// function already passed worth-keeping at yield time).
func PostFilter(loops []Subpath, networkKM float64, repeatWeight int) []Subpath {
	if len(loops) == 0 {
		return nil
	}

	sorted := make([]Subpath, len(loops))
	copy(sorted, loops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Quality(repeatWeight) > sorted[j].Quality(repeatWeight)
	})

	kept := sorted[:0]
	for _, p := range sorted {
		if p.WorthKeeping(repeatWeight) {
			kept = append(kept, p)
		}
	}

	limit := 3 * int(networkKM/5)
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	result := FilterSimilar(kept, 0.75)
	if len(result) == 0 {
		panic("search: post-filter dropped every candidate loop")
	}
	return result
}

// FilterSimilar marks b for removal whenever, for ordered pair (a, b) with
// a appearing before b, the two are within 20% of each other's length and
// their similarity exceeds threshold. Returns a subset of loops in
// original relative order.
func FilterSimilar(loops []Subpath, threshold float64) []Subpath {
	drop := make([]bool, len(loops))
	for i := range loops {
		if drop[i] {
			continue
		}
		for j := i + 1; j < len(loops); j++ {
			if drop[j] {
				continue
			}
			b := loops[j]
			if b.LengthM == 0 {
				continue
			}
			if absF(b.LengthM-loops[i].LengthM)/b.LengthM >= 0.2 {
				continue
			}
			if Similarity(loops[i], b) > threshold {
				drop[j] = true
			}
		}
	}
	var kept []Subpath
	for i, p := range loops {
		if !drop[i] {
			kept = append(kept, p)
		}
	}
	return kept
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

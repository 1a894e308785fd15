package driver

import "github.com/greenbelt/trailcore/internal/search"

// computeMeta summarizes loops for one trailhead, per spec.md §4.9:
// loop_quality is the mean quality across loops; loop_diversity is the
// mean of (1 - similarity) over all unordered pairs, or 1 for a single
// loop. With no loops, only NetworkLengthKM and IngestTimeS are set and
// every other field (LoopDiversity included) is zero.
func computeMeta(loops []search.Subpath, networkLengthKM, ingestTimeS float64, repeatWeight int) TrailheadMeta {
	if len(loops) == 0 {
		return TrailheadMeta{NetworkLengthKM: networkLengthKM, IngestTimeS: ingestTimeS}
	}

	qualitySum := 0.0
	longest, shortest := loops[0].LengthM, loops[0].LengthM
	for _, l := range loops {
		qualitySum += l.Quality(repeatWeight)
		if l.LengthM > longest {
			longest = l.LengthM
		}
		if l.LengthM < shortest {
			shortest = l.LengthM
		}
	}

	diversity := 1.0
	pairCount := 0
	diversitySum := 0.0
	for i := 0; i < len(loops); i++ {
		for j := i + 1; j < len(loops); j++ {
			diversitySum += 1 - search.Similarity(loops[i], loops[j])
			pairCount++
		}
	}
	if pairCount > 0 {
		diversity = diversitySum / float64(pairCount)
	}

	return TrailheadMeta{
		NumLoops:        len(loops),
		LoopDiversity:   diversity,
		LoopQuality:     qualitySum / float64(len(loops)),
		LongestLoopM:    longest,
		ShortestLoopM:   shortest,
		NetworkLengthKM: networkLengthKM,
		IngestTimeS:     ingestTimeS,
	}
}

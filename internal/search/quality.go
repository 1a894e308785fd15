package search

// ShortestLoopM is the minimum length of a loop worth keeping.
const ShortestLoopM = 3000.0

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Quality scores p in [0,1]. repeatWeight weights the repeat_quality term
// (IngestSettings.quality_settings.repeat_node_weight in the external
// interface).
func (p *Subpath) Quality(repeatWeight int) float64 {
	if p.qualityCache != nil {
		return *p.qualityCache
	}

	repeatQuality := 1.0
	if p.LengthM != 0 {
		repeatQuality = p.UniqueLengthM / p.LengthM
	}

	spurQuality := float64(p.NumSpurs()) * -0.1

	graphComplexity := 0.0
	for _, trails := range p.Intersections() {
		if len(trails) > 2 {
			graphComplexity += -0.1 * float64(len(trails)-2)
		}
	}
	if graphComplexity < 0 {
		graphComplexity += 0.3
		if graphComplexity > 0 {
			graphComplexity = 0
		}
	}

	total := repeatQuality*float64(repeatWeight) + spurQuality + graphComplexity
	if total > 1 {
		panic("search: quality exceeds 1")
	}
	total = clamp01(total)
	p.qualityCache = &total
	return total
}

// IsPureOutAndBack reports whether the trail-id sequence is a palindrome
// and quality is meaningfully positive.
func (p *Subpath) IsPureOutAndBack(repeatWeight int) bool {
	n := len(p.Segments)
	for i := 0; i < n/2; i++ {
		if p.Segments[i].ID != p.Segments[n-1-i].ID {
			return false
		}
	}
	return p.Quality(repeatWeight) > 0.49
}

// WorthKeeping reports whether p meets the minimum length and either the
// out-and-back or high-quality-low-spur bar.
func (p *Subpath) WorthKeeping(repeatWeight int) bool {
	if p.LengthM < ShortestLoopM {
		return false
	}
	if p.IsPureOutAndBack(repeatWeight) {
		return true
	}
	return p.Quality(repeatWeight) > 0.7 && p.NumSpurs() < 1
}

// Similarity is 1 minus the multiset symmetric difference of per-trail-id
// distance, normalized by combined length. Symmetric and self-similarity
// is 1.
func Similarity(a, b Subpath) float64 {
	ids := make(map[string]bool, len(a.SegmentDist)+len(b.SegmentDist))
	for id := range a.SegmentDist {
		ids[id] = true
	}
	for id := range b.SegmentDist {
		ids[id] = true
	}
	diff := 0.0
	for id := range ids {
		da := a.SegmentDist[id]
		db := b.SegmentDist[id]
		if da > db {
			diff += da - db
		} else {
			diff += db - da
		}
	}
	total := a.LengthM + b.LengthM
	if total == 0 {
		return 1
	}
	return clamp01(1 - diff/total)
}

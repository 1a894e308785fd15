package ingest

// SliceSource is an in-memory RawSource backed by plain slices, used by
// tests in place of a real raw-map-file reader.
type SliceSource struct {
	WaysData  []RawWay
	AreasData []RawArea
}

// Ways implements RawSource.
func (s SliceSource) Ways(yield func(RawWay) bool) {
	for _, w := range s.WaysData {
		if !yield(w) {
			return
		}
	}
}

// Areas implements RawSource.
func (s SliceSource) Areas(yield func(RawArea) bool) {
	for _, a := range s.AreasData {
		if !yield(a) {
			return
		}
	}
}

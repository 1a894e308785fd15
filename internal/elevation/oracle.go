// Package elevation provides the opaque elevation oracle the core consults
// during post-processing, plus a null implementation and an HTTP-backed
// one with an optional Redis cache in front of it.
package elevation

import (
	"context"

	"github.com/greenbelt/trailcore/internal/models"
)

// Oracle answers elevation questions about a sequence of nodes. The core
// never parses elevation source data itself; it treats this as opaque.
type Oracle interface {
	ElevationGainLoss(ctx context.Context, nodes []models.Node) (gainM, lossM float64, err error)
	Elevations(ctx context.Context, nodes []models.Node) ([]float64, error)
}

// poisonElevation is assigned to a point when the oracle cannot be
// consulted for it, even after one retry.
const poisonElevation = -1.0

// gainLossFromHeights sums positive and negative deltas between
// consecutive elevation samples, shared by every Oracle implementation
// that derives gain/loss from a raw elevation profile.
func gainLossFromHeights(heights []float64) (gainM, lossM float64) {
	for i := 1; i < len(heights); i++ {
		delta := heights[i] - heights[i-1]
		if delta > 0 {
			gainM += delta
		} else {
			lossM += -delta
		}
	}
	return gainM, lossM
}

// NullOracle answers -1 for every point and never errors. It is the
// default when no elevation service is configured.
type NullOracle struct{}

// ElevationGainLoss implements Oracle.
func (NullOracle) ElevationGainLoss(ctx context.Context, nodes []models.Node) (float64, float64, error) {
	return 0, 0, nil
}

// Elevations implements Oracle.
func (NullOracle) Elevations(ctx context.Context, nodes []models.Node) ([]float64, error) {
	out := make([]float64, len(nodes))
	for i := range out {
		out[i] = poisonElevation
	}
	return out, nil
}

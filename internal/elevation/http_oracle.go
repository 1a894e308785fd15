package elevation

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/greenbelt/trailcore/internal/models"
)

// HTTPOracle queries a configurable elevation HTTP service (a Valhalla
// /height-shaped endpoint) for a batch of points, retrying once on
// failure before poisoning the batch to -1.
type HTTPOracle struct {
	Endpoint   string
	httpClient *fasthttp.Client
	RetryDelay time.Duration
}

// NewHTTPOracle returns an HTTPOracle against endpoint.
func NewHTTPOracle(endpoint string) *HTTPOracle {
	return &HTTPOracle{
		Endpoint:   endpoint,
		httpClient: &fasthttp.Client{Name: "trailcore-elevation-client"},
		RetryDelay: 200 * time.Millisecond,
	}
}

type elevationShapePoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type elevationRequest struct {
	Shape []elevationShapePoint `json:"shape"`
}

type elevationResponse struct {
	Height []float64 `json:"height"`
}

// Elevations implements Oracle.
func (o *HTTPOracle) Elevations(ctx context.Context, nodes []models.Node) ([]float64, error) {
	heights, err := o.query(nodes)
	if err != nil {
		select {
		case <-time.After(o.RetryDelay):
		case <-ctx.Done():
			return poisonAll(len(nodes)), nil
		}
		heights, err = o.query(nodes)
		if err != nil {
			return poisonAll(len(nodes)), nil
		}
	}
	return heights, nil
}

// ElevationGainLoss implements Oracle by summing positive/negative deltas
// between consecutive elevations.
func (o *HTTPOracle) ElevationGainLoss(ctx context.Context, nodes []models.Node) (float64, float64, error) {
	heights, err := o.Elevations(ctx, nodes)
	if err != nil {
		return 0, 0, err
	}
	gain, loss := gainLossFromHeights(heights)
	return gain, loss, nil
}

func (o *HTTPOracle) query(nodes []models.Node) ([]float64, error) {
	shape := make([]elevationShapePoint, len(nodes))
	for i, n := range nodes {
		shape[i] = elevationShapePoint{Lat: n.Lat, Lon: n.Lon}
	}

	body, err := json.Marshal(elevationRequest{Shape: shape})
	if err != nil {
		return nil, fmt.Errorf("elevation: marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(o.Endpoint + "/height")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := o.httpClient.Do(req, resp); err != nil {
		return nil, fmt.Errorf("elevation: request failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("elevation: service returned status %d", resp.StatusCode())
	}

	var out elevationResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("elevation: decode response: %w", err)
	}
	if len(out.Height) != len(nodes) {
		return nil, fmt.Errorf("elevation: expected %d heights, got %d", len(nodes), len(out.Height))
	}
	return out.Height, nil
}

func poisonAll(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = poisonElevation
	}
	return out
}

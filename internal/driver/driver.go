package driver

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/greenbelt/trailcore/internal/config"
	"github.com/greenbelt/trailcore/internal/elevation"
	"github.com/greenbelt/trailcore/internal/graph"
	"github.com/greenbelt/trailcore/internal/models"
	"github.com/greenbelt/trailcore/internal/search"
	"github.com/greenbelt/trailcore/internal/status"
)

// Run schedules one task per network across a pool of workers, each task
// running the §4.7/§4.8 search and post-filter for every trailhead in its
// network. Networks are processed biggest-first to reduce tail latency.
// Results stream out on the returned channel as each network completes;
// the channel is closed once every network has been processed.
//
// workers<=1 runs single-threaded, processing networks in order, for
// deterministic output — required by test runners and reproducible runs.
//
// tracker may be nil; when set, it is updated as each network completes so
// a concurrently running status server can report progress.
func Run(ctx context.Context, networks []*graph.TrailNetwork, settings config.IngestSettings, oracle elevation.Oracle, workers int, tracker *status.Tracker) <-chan NetworkResult {
	ordered := make([]*graph.TrailNetwork, len(networks))
	copy(ordered, networks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalLengthKM > ordered[j].TotalLengthKM
	})

	out := make(chan NetworkResult, len(ordered))

	emit := func(net *graph.TrailNetwork) NetworkResult {
		result := processNetwork(ctx, net, settings, oracle)
		if tracker != nil {
			loopCount := 0
			for _, tr := range result.Loops {
				loopCount += len(tr.Loops)
			}
			tracker.MarkNetworkComplete(loopCount)
		}
		return result
	}

	if workers <= 1 {
		go func() {
			defer close(out)
			for _, net := range ordered {
				select {
				case <-ctx.Done():
					return
				default:
				}
				out <- emit(net)
			}
		}()
		return out
	}

	jobs := make(chan *graph.TrailNetwork, len(ordered))
	for _, net := range ordered {
		jobs <- net
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for net := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				out <- emit(net)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// processNetwork runs the loop search and post-filter for every trailhead
// in net, in its clustered-insertion order, and attaches elevation gain/loss
// to each surviving loop.
func processNetwork(ctx context.Context, net *graph.TrailNetwork, settings config.IngestSettings, oracle elevation.Oracle) NetworkResult {
	log.Printf("driver: processing network %s (%.1f km)", net.UniqueID(), net.TotalLengthKM)

	repeatWeight := settings.Quality.RepeatNodeWeight
	if repeatWeight == 0 {
		repeatWeight = 1
	}

	results := make(map[models.Trailhead]TrailheadResult, len(net.Trailheads))
	for _, trailhead := range net.Trailheads {
		start := time.Now()

		raw := search.Run(net, trailhead.Node, settings)
		loops := search.PostFilter(raw, net.TotalLengthKM, repeatWeight)
		for i := range loops {
			loops[i] = withElevation(ctx, loops[i], oracle)
		}

		results[trailhead] = TrailheadResult{
			Loops: loops,
			Meta:  computeMeta(loops, net.TotalLengthKM, time.Since(start).Seconds(), repeatWeight),
		}
	}

	return NetworkResult{Network: net, Loops: results}
}

func withElevation(ctx context.Context, loop search.Subpath, oracle elevation.Oracle) search.Subpath {
	if oracle == nil {
		return loop
	}
	gainM, lossM, err := oracle.ElevationGainLoss(ctx, loop.Nodes())
	if err != nil {
		log.Printf("driver: elevation lookup failed for loop %q: %v", loop.Name(), err)
		return loop
	}
	return loop.WithElevation(gainM, lossM)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/greenbelt/trailcore/internal/config"
	"github.com/greenbelt/trailcore/internal/dedupe"
	"github.com/greenbelt/trailcore/internal/driver"
	"github.com/greenbelt/trailcore/internal/elevation"
	"github.com/greenbelt/trailcore/internal/graph"
	"github.com/greenbelt/trailcore/internal/ingest"
	"github.com/greenbelt/trailcore/internal/models"
	"github.com/greenbelt/trailcore/internal/segment"
	"github.com/greenbelt/trailcore/internal/status"
)

func main() {
	inputPath := flag.String("input", "", "Path to a JSON raw-map fixture (required)")
	workers := flag.Int("workers", 1, "Number of concurrent driver workers (1 = deterministic)")
	statusAddr := flag.String("status-addr", ":8090", "Address for the ops status server")
	elevationEndpoint := flag.String("elevation-endpoint", "", "Elevation oracle HTTP endpoint (empty disables elevation lookups)")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: trailcore-ingest --input=<fixture.json> [--workers=4] [--elevation-endpoint=http://...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Println("Starting trail network ingest...")

	settings := config.LoadConfigFromEnv()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Received shutdown signal, cancelling in-flight work...")
		cancel()
	}()

	if err := run(ctx, *inputPath, settings, *workers, *statusAddr, *elevationEndpoint); err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}

	log.Println("Ingest completed successfully!")
}

func run(ctx context.Context, inputPath string, settings config.IngestSettings, workers int, statusAddr, elevationEndpoint string) error {
	startTime := time.Now()

	log.Println("Step 1/6: Reading raw map fixture...")
	src, err := loadFixture(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	log.Println("Step 2/6: Loading trails, roads, and parks...")
	loaded, err := ingest.Load(src, settings.LocationFilter)
	if err != nil {
		return fmt.Errorf("failed to load raw map data: %w", err)
	}
	log.Printf("Loaded %d trails, %d road nodes, %d parks", len(loaded.Trails), len(loaded.NonTrailNodes), len(loaded.Parks))

	log.Println("Step 3/6: Segmenting and disconnecting road crossings...")
	roadNodes := make(map[int64]bool, len(loaded.NonTrailNodes))
	for id := range loaded.NonTrailNodes {
		roadNodes[id] = true
	}
	segmented := segment.Split(loaded.Trails, roadNodes)
	disconnected := segment.Disconnect(segmented, roadNodes, nil)

	log.Println("Step 4/6: Assembling the trail graph and extracting networks...")
	trailNodeSet := make(map[models.NodeID]bool, len(loaded.TrailNodes))
	for id := range loaded.TrailNodes {
		trailNodeSet[id] = true
	}
	g := graph.New()
	for _, trail := range disconnected {
		g.AddSegment(trail, true, trailNodeSet)
	}

	dedupeStore := dedupe.NewMemoryStore()
	parks := make([]models.Park, 0, len(loaded.Parks))
	for _, park := range loaded.Parks {
		parks = append(parks, park)
	}
	networks := graph.Extract(g, graph.ExtractOptions{
		AlreadyProcessed:         dedupeStore.Snapshot(),
		Parks:                    parks,
		NonTrailNodes:            loaded.NonTrailNodes,
		TrailheadDistanceThreshM: settings.TrailheadDistanceThresholdM,
	})
	for _, net := range networks {
		if err := dedupeStore.MarkProcessed(net.Digest); err != nil {
			log.Printf("Warning: failed to record processed digest: %v", err)
		}
	}
	log.Printf("Extracted %d trail networks", len(networks))

	log.Println("Step 5/6: Starting ops status server...")
	oracle := buildOracle(elevationEndpoint)
	tracker := status.NewTracker(len(networks))
	statusApp := status.NewServer(tracker)
	go func() {
		if err := statusApp.Listen(statusAddr); err != nil {
			log.Printf("status server stopped: %v", err)
		}
	}()
	defer statusApp.Shutdown()

	log.Println("Step 6/6: Searching for loops across all networks...")
	results := driver.Run(ctx, networks, settings, oracle, workers, tracker)

	totalLoops := 0
	for result := range results {
		networkLoops := 0
		for _, tr := range result.Loops {
			networkLoops += len(tr.Loops)
		}
		totalLoops += networkLoops
		log.Printf("Network %q (%.1f km, digest %s...): %d trailheads, %d loops",
			result.Network.Name, result.Network.TotalLengthKM, result.Network.Digest[:8],
			len(result.Network.Trailheads), networkLoops)
	}

	log.Printf("Processed %d networks, %d total loops, in %s", len(networks), totalLoops, time.Since(startTime))
	return nil
}

// buildOracle returns a NullOracle when no elevation endpoint is configured,
// otherwise an HTTP oracle optionally fronted by a Redis cache.
func buildOracle(endpoint string) elevation.Oracle {
	if endpoint == "" {
		log.Println("No elevation endpoint configured; elevation samples will read -1 and gain/loss 0")
		return elevation.NullOracle{}
	}

	base := elevation.NewHTTPOracle(endpoint)
	client, err := elevation.GetRedisClient()
	if err != nil {
		log.Printf("Warning: elevation cache unavailable, proceeding uncached: %v", err)
		return base
	}
	cacheCfg := elevation.LoadCacheConfigFromEnv()
	return elevation.NewCachedOracle(base, client, cacheCfg.TTL)
}

type fixtureFile struct {
	Ways  []ingest.RawWay  `json:"ways"`
	Areas []ingest.RawArea `json:"areas"`
}

func loadFixture(path string) (ingest.RawSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return ingest.SliceSource{WaysData: f.Ways, AreasData: f.Areas}, nil
}

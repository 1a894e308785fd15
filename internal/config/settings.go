// Package config loads the ingest pipeline's tunables from the environment,
// in the same getEnv/LoadConfigFromEnv shape used for database and cache
// configuration elsewhere in this codebase.
package config

import (
	"os"
	"strconv"

	"github.com/greenbelt/trailcore/internal/ingest"
)

// QualitySettings tunes the §4.8 scoring formula.
type QualitySettings struct {
	// RepeatNodeWeight weights repeat_quality in the quality formula.
	// Values above 1 can push the quality total over 1, which Quality
	// treats as an invariant violation and panics on; the field is an int
	// per the external interface.
	RepeatNodeWeight int
	// MinQuality is reserved for future use; the core does not consult it.
	MinQuality float64
}

// IngestSettings configures one ingest run end to end.
type IngestSettings struct {
	MaxDistanceM                float64
	MaxSegments                 int
	MaxConcurrent               int
	Quality                     QualitySettings
	LocationFilter              *ingest.LocationFilter
	TrailheadDistanceThresholdM float64
	TimeoutS                    int
	StopSearchingCutoffM        float64
}

const (
	metersPerMile           = 1609.34
	defaultMaxDistanceKM    = 20.0
	defaultMaxSegments      = 150
	defaultMaxConcurrent    = 25
	defaultTrailheadThreshM = 300.0
	defaultTimeoutS         = 10
	defaultStopSearchMiles  = 8.0
)

// LoadConfigFromEnv reads TRAILCORE_* environment variables, falling back
// to the defaults spec.md §6 names for each option.
func LoadConfigFromEnv() IngestSettings {
	return IngestSettings{
		MaxDistanceM:                getEnvFloat("TRAILCORE_MAX_DISTANCE_KM", defaultMaxDistanceKM) * 1000,
		MaxSegments:                 getEnvInt("TRAILCORE_MAX_SEGMENTS", defaultMaxSegments),
		MaxConcurrent:               getEnvInt("TRAILCORE_MAX_CONCURRENT", defaultMaxConcurrent),
		Quality:                     QualitySettings{RepeatNodeWeight: getEnvInt("TRAILCORE_REPEAT_NODE_WEIGHT", 1), MinQuality: getEnvFloat("TRAILCORE_MIN_QUALITY", 0.8)},
		TrailheadDistanceThresholdM: getEnvFloat("TRAILCORE_TRAILHEAD_DISTANCE_M", defaultTrailheadThreshM),
		TimeoutS:                    getEnvInt("TRAILCORE_TIMEOUT_S", defaultTimeoutS),
		StopSearchingCutoffM:        getEnvFloat("TRAILCORE_STOP_SEARCH_CUTOFF_MILES", defaultStopSearchMiles) * metersPerMile,
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64)), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

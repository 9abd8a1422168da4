package constants

import (
	"os"
	"strconv"

	"github.com/jsphweid/notegrid/logger"
	"github.com/jsphweid/notegrid/model"
)

const (
	DefaultTempo         = 120.0
	DefaultTimeSignature = "4/4"
	DefaultQuantum       = 0.25

	// onsets closer than this to the cursor don't get a rest
	GapTolerance = 1e-6

	// time mode pre-floor before quantizing a duration, in beats
	MinRawDuration = 0.01

	// MusicXML divisions and SMF ticks per quarter note
	Divisions      = 480
	TicksPerBeat   = 960
	DefaultOutBase = "partition"
)

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

func GetCatalogEndpoint() string {
	endpoint := os.Getenv("CATALOG_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetCatalogTable() string {
	table := os.Getenv("CATALOG_TABLE")
	if table != "" {
		return table
	}
	return "notegrid-scores"
}

// GetDefaultConfig builds the conversion config from NOTEGRID_* environment
// variables, falling back to the hardcoded defaults. Flags override it later.
func GetDefaultConfig() model.Config {
	return model.Config{
		Tempo:         getFloatEnv("NOTEGRID_BPM", DefaultTempo),
		TimeSignature: getEnv("NOTEGRID_TIMESIG", DefaultTimeSignature),
		Quantum:       getFloatEnv("NOTEGRID_QUANTUM", DefaultQuantum),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		logger.Warn("Ignoring invalid environment value", logger.Fields{"key": key, "value": value})
		return defaultValue
	}
	return f
}

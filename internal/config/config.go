// Package config defines evaluation configuration and its loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file, then environment variables.
// - Loader errors wrap this package's sentinel errors.
package config

// Default values.
const (
	DefaultWindowSize = 24
	DefaultDataPath   = "data/processed.csv"
	DefaultModelDir   = "models"
)

// DefaultTargets returns the targets evaluated when none are configured.
func DefaultTargets() []string {
	return []string{"powerDemand", "price", "carbonIntensity"}
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Targets lists the predicted quantities to evaluate, in report order.
	Targets []string `koanf:"targets"`

	// WindowSize is the number of trailing rows scored per target.
	WindowSize int `koanf:"window_size"`

	// DataPath points at the preprocessed CSV dataset.
	DataPath string `koanf:"data_path"`

	// ModelDir holds <target>.json models and feature_cols.json.
	ModelDir string `koanf:"model_dir"`

	// MetricsFile, when set, receives a Prometheus textfile after a run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Targets:    DefaultTargets(),
		WindowSize: DefaultWindowSize,
		DataPath:   DefaultDataPath,
		ModelDir:   DefaultModelDir,
	}
}

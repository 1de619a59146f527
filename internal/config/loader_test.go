package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/gridcast/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Targets, convey.ShouldResemble, config.DefaultTargets())
				convey.So(cfg.WindowSize, convey.ShouldEqual, 24)
				convey.So(cfg.ModelDir, convey.ShouldEqual, "models")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GRIDCAST_WINDOW_SIZE", "48")
			_ = os.Setenv("GRIDCAST_TARGETS", "price, carbonIntensity")
			_ = os.Setenv("GRIDCAST_MODEL_DIR", "/srv/models")
			_ = os.Setenv("GRIDCAST_METRICS_FILE", "/var/lib/node_exporter/gridcast.prom")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WindowSize, convey.ShouldEqual, 48)
				convey.So(cfg.Targets, convey.ShouldResemble, []string{"price", "carbonIntensity"})
				convey.So(cfg.ModelDir, convey.ShouldEqual, "/srv/models")
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/var/lib/node_exporter/gridcast.prom")
				convey.So(cfg.DataPath, convey.ShouldEqual, "data/processed.csv")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
log_level: debug
targets:
  - powerDemand
window_size: 12
data_path: /data/grid.csv
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("GRIDCAST_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Targets, convey.ShouldResemble, []string{"powerDemand"})
				convey.So(cfg.WindowSize, convey.ShouldEqual, 12)
				convey.So(cfg.DataPath, convey.ShouldEqual, "/data/grid.csv")
				convey.So(cfg.ModelDir, convey.ShouldEqual, "models")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
window_size: 12
data_path: /data/grid.csv
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("GRIDCAST_CONFIG", tmpFile)
			_ = os.Setenv("GRIDCAST_WINDOW_SIZE", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WindowSize, convey.ShouldEqual, 6)            // Overridden by env
				convey.So(cfg.DataPath, convey.ShouldEqual, "/data/grid.csv") // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("GRIDCAST_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("GRIDCAST_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("GRIDCAST_WINDOW_SIZE", "a day")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		cases := []struct {
			name  string
			key   string
			value string
			want  string
		}{
			{"zero window", "GRIDCAST_WINDOW_SIZE", "0", "window_size must be positive"},
			{"negative window", "GRIDCAST_WINDOW_SIZE", "-3", "window_size must be positive"},
			{"empty targets", "GRIDCAST_TARGETS", " , ", "targets must not be empty"},
			{"duplicate targets", "GRIDCAST_TARGETS", "price,price", "duplicate target"},
			{"empty model dir", "GRIDCAST_MODEL_DIR", "", "model_dir must not be empty"},
			{"empty data path", "GRIDCAST_DATA_PATH", "", "data_path must not be empty"},
		}
		for _, tc := range cases {
			convey.Convey("When "+tc.name+" is configured", func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"GRIDCAST_CONFIG",
		"GRIDCAST_LOG_LEVEL",
		"GRIDCAST_TARGETS",
		"GRIDCAST_WINDOW_SIZE",
		"GRIDCAST_DATA_PATH",
		"GRIDCAST_MODEL_DIR",
		"GRIDCAST_METRICS_FILE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "gridcast-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}

package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"odrfit/domain/model"
	"odrfit/internal"
	"odrfit/internal/errors"
)

// DefaultFiles are searched in order when no config path is given.
var DefaultFiles = []string{"odrfit.yaml", "odrfit.yml"}

// Config represents the complete application configuration
type Config struct {
	Fit      FitConfig    `yaml:"fit"`
	Solver   SolverConfig `yaml:"solver"`
	Plot     PlotConfig   `yaml:"plot"`
	LogLevel string       `yaml:"log_level"`
}

// FitConfig selects the model and presentation labels.
type FitConfig struct {
	Model          string `yaml:"model"`
	Degree         int    `yaml:"degree"`
	Title          string `yaml:"title"`
	XLabel         string `yaml:"xlabel"`
	YLabel         string `yaml:"ylabel"`
	SuppressPlot   bool   `yaml:"suppress_plot"`
	SuppressOutput bool   `yaml:"suppress_output"`
}

// SolverConfig tunes the regression engine. Zero values keep the engine defaults.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	SumSquaresTol float64 `yaml:"sum_squares_tol"`
	ParamTol      float64 `yaml:"param_tol"`
	Damping       float64 `yaml:"damping"`
}

// PlotConfig holds the renderer output settings
type PlotConfig struct {
	Output string  `yaml:"output"`
	Width  float64 `yaml:"width_in"`
	Height float64 `yaml:"height_in"`
}

// DefaultConfig returns the defaults of the fit routine: a linear model,
// plotting on, generic labels.
func DefaultConfig() *Config {
	return &Config{
		Fit: FitConfig{
			Model:  string(model.KindLinear),
			Degree: 1,
			Title:  "Plot with fit",
			XLabel: "x-axis",
			YLabel: "y-axis",
		},
		Plot: PlotConfig{
			Output: "fit.png",
			Width:  9,
			Height: 7,
		},
		LogLevel: "WARN",
	}
}

// Load reads an optional .env file, then the YAML config at path (or the
// first of DefaultFiles that exists), then ODRFIT_* environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to read .env")
	}

	cfg := DefaultConfig()

	data, source, err := readConfigFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config %s", path)
	}
	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to parse config file %s", source)
		}
	}

	applyEnv(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		return data, path, err
	}
	for _, name := range DefaultFiles {
		data, err := os.ReadFile(name)
		if err == nil {
			return data, name, nil
		}
	}
	return nil, "", nil
}

func applyEnv(cfg *Config) {
	cfg.Fit.Model = getEnvOrDefault("ODRFIT_MODEL", cfg.Fit.Model)
	cfg.Fit.Degree = getEnvIntOrDefault("ODRFIT_DEGREE", cfg.Fit.Degree)
	cfg.Fit.SuppressPlot = getEnvBoolOrDefault("ODRFIT_SUPPRESS_PLOT", cfg.Fit.SuppressPlot)
	cfg.Solver.MaxIterations = getEnvIntOrDefault("ODRFIT_MAX_ITERATIONS", cfg.Solver.MaxIterations)
	cfg.Solver.SumSquaresTol = getEnvFloatOrDefault("ODRFIT_SUM_SQUARES_TOL", cfg.Solver.SumSquaresTol)
	cfg.Solver.ParamTol = getEnvFloatOrDefault("ODRFIT_PARAM_TOL", cfg.Solver.ParamTol)
	cfg.Plot.Output = getEnvOrDefault("ODRFIT_PLOT_OUTPUT", cfg.Plot.Output)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
}

func validateConfig(config *Config) error {
	if _, err := model.Parse(config.Fit.Model, config.Fit.Degree); err != nil {
		return errors.Wrap(err, "fit.model")
	}
	if config.Solver.MaxIterations < 0 {
		return errors.ConfigInvalid("solver.max_iterations must not be negative")
	}
	if config.Solver.SumSquaresTol < 0 || config.Solver.ParamTol < 0 || config.Solver.Damping < 0 {
		return errors.ConfigInvalid("solver tolerances must not be negative")
	}
	if !config.Fit.SuppressPlot && config.Plot.Output == "" {
		return errors.ConfigInvalid("plot.output is required unless plotting is suppressed")
	}
	if config.Plot.Width <= 0 || config.Plot.Height <= 0 {
		return errors.ConfigInvalid("plot size must be positive")
	}
	if _, ok := internal.ParseLogLevel(config.LogLevel); !ok {
		return errors.ConfigInvalid("log_level must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

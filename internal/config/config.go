package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shizukutanaka/hashbench/internal/logging"
	"github.com/shizukutanaka/hashbench/internal/report"
	"github.com/shizukutanaka/hashbench/internal/workload"
)

// EnvPrefix prefixes environment overrides, e.g. HASHBENCH_ITERATIONS.
const EnvPrefix = "HASHBENCH"

// DefaultIterations is the iteration count used when none is configured.
const DefaultIterations = 6500

var (
	// ErrInvalidIterations is returned when the iteration count is not positive.
	ErrInvalidIterations = errors.New("iterations must be a positive integer")
	// ErrInvalidProgressMode is returned for progress modes other than auto, always and never.
	ErrInvalidProgressMode = errors.New("invalid progress mode")
)

// Progress display modes.
const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

// Config is the validated configuration of one run. It is not modified
// after Load returns.
type Config struct {
	Iterations int      `mapstructure:"iterations"`
	Intensity  string   `mapstructure:"intensity"`
	Omit       []string `mapstructure:"omit"`

	Workload WorkloadConfig `mapstructure:"workload"`
	Log      logging.Config `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
	Progress ProgressConfig `mapstructure:"progress"`
	System   SystemConfig   `mapstructure:"system"`

	// Resolved by Load.
	IntensityLevel workload.Intensity `mapstructure:"-"`
	Digests        []*workload.Digest `mapstructure:"-"`
	Sections       report.SectionSet  `mapstructure:"-"`
	Format         report.Format      `mapstructure:"-"`
}

// WorkloadConfig selects the digest chain.
type WorkloadConfig struct {
	Chain []string `mapstructure:"chain"`
}

// OutputConfig controls where the report goes.
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	Path        string `mapstructure:"path"`
	MetricsFile string `mapstructure:"metrics_file"`
}

// ProgressConfig controls the repaint loops.
type ProgressConfig struct {
	Mode         string        `mapstructure:"mode"`
	SpinInterval time.Duration `mapstructure:"spin_interval"`
	BarInterval  time.Duration `mapstructure:"bar_interval"`
	Width        int           `mapstructure:"width"`
}

// SystemConfig tunes the system statistics probes.
type SystemConfig struct {
	DiskPath     string        `mapstructure:"disk_path"`
	CPUSample    time.Duration `mapstructure:"cpu_sample"`
	TopProcesses int           `mapstructure:"top_processes"`
}

// flagKeys maps configuration keys to the command line flags that override them.
var flagKeys = map[string]string{
	"iterations":          "iterations",
	"intensity":           "intensity",
	"omit":                "omit",
	"workload.chain":      "chain",
	"output.format":       "format",
	"output.path":         "output",
	"output.metrics_file": "metrics-file",
	"progress.mode":       "progress",
	"log.level":           "log-level",
	"log.file":            "log-file",
}

// Load resolves the configuration from defaults, an optional YAML file,
// HASHBENCH_* environment variables and the given flags, in increasing
// order of precedence.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("iterations", DefaultIterations)
	v.SetDefault("intensity", string(workload.DefaultIntensity))
	v.SetDefault("omit", []string{})

	v.SetDefault("workload.chain", workload.DefaultChain)

	logDefaults := logging.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.encoding", logDefaults.Encoding)
	v.SetDefault("log.file", "")
	v.SetDefault("log.rotation.max_size_mb", logDefaults.Rotation.MaxSize)
	v.SetDefault("log.rotation.max_age_days", logDefaults.Rotation.MaxAge)
	v.SetDefault("log.rotation.max_backups", logDefaults.Rotation.MaxBackups)
	v.SetDefault("log.rotation.compress", logDefaults.Rotation.Compress)

	v.SetDefault("output.format", string(report.FormatText))
	v.SetDefault("output.path", "")
	v.SetDefault("output.metrics_file", "")

	v.SetDefault("progress.mode", ProgressAuto)
	v.SetDefault("progress.spin_interval", "100ms")
	v.SetDefault("progress.bar_interval", "200ms")
	v.SetDefault("progress.width", 40)

	v.SetDefault("system.disk_path", "")
	v.SetDefault("system.cpu_sample", "1s")
	v.SetDefault("system.top_processes", 5)
}

// validate checks every setting and fills in the resolved fields.
func validate(cfg *Config) error {
	if cfg.Iterations < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidIterations, cfg.Iterations)
	}

	intensity, err := workload.ParseIntensity(cfg.Intensity)
	if err != nil {
		return err
	}
	cfg.IntensityLevel = intensity

	digests, err := workload.Chain(cfg.Workload.Chain)
	if err != nil {
		return err
	}
	cfg.Digests = digests

	sections, err := report.ParseOmit(cfg.Omit)
	if err != nil {
		return err
	}
	cfg.Sections = sections

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	cfg.Format = format

	switch cfg.Progress.Mode {
	case ProgressAuto, ProgressAlways, ProgressNever:
	default:
		return fmt.Errorf("%w: %q (want auto, always or never)", ErrInvalidProgressMode, cfg.Progress.Mode)
	}
	if cfg.Progress.SpinInterval <= 0 || cfg.Progress.BarInterval <= 0 {
		return fmt.Errorf("progress intervals must be positive")
	}
	if cfg.Progress.Width < 1 {
		return fmt.Errorf("progress.width must be at least 1")
	}

	if cfg.System.TopProcesses < 0 {
		return fmt.Errorf("system.top_processes cannot be negative")
	}

	return nil
}

// ShowProgress decides whether the repaint loops run. interactive reports
// whether stdout is a terminal.
func (c *Config) ShowProgress(interactive bool) bool {
	switch c.Progress.Mode {
	case ProgressAlways:
		return true
	case ProgressNever:
		return false
	default:
		return interactive
	}
}

package logging

// Config defines all settings for logging.
type Config struct {
	// Level is the minimum level written: debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`

	// Encoding of the stderr stream, "console" or "json".
	Encoding string `mapstructure:"encoding" yaml:"encoding"`

	// File, when set, additionally writes JSON logs to a rotated file.
	File string `mapstructure:"file" yaml:"file"`

	Rotation RotationConfig `mapstructure:"rotation" yaml:"rotation"`
}

// RotationConfig defines the settings for log file rotation.
type RotationConfig struct {
	// MaxSize is the maximum size in megabytes of the log file before it gets rotated.
	MaxSize int `mapstructure:"max_size_mb" yaml:"max_size_mb"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `mapstructure:"max_age_days" yaml:"max_age_days"`

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`

	// Compress determines if the rotated log files should be compressed.
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// DefaultConfig returns a new Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Encoding: "console",
		Rotation: RotationConfig{
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

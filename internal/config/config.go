package config

import "time"

type Config struct {
	Source      SourceConfig      `yaml:"source"`
	Destination DestinationConfig `yaml:"destination"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Lock        LockConfig        `yaml:"lock"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type SourceConfig struct {
	Path  string      `yaml:"path"`
	Watch WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	Mode            string        `yaml:"mode"`           // "auto", "poll", "fsnotify"
	PollInterval    time.Duration `yaml:"pollInterval"`   // e.g. 5s
	DebounceWindow  time.Duration `yaml:"debounceWindow"` // e.g. 500ms
	StabilityWindow time.Duration `yaml:"stabilityWindow"`
}

type DestinationConfig struct {
	Root     string `yaml:"root"`
	BudgetKB int64  `yaml:"budgetKB"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"` // standard 5-field cron expression
}

type LockConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // defaults to <root>/.dirkeep.lock
}

type LoggingConfig struct {
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format     string `yaml:"format"` // "text", "json"
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Watch: WatchConfig{
				Mode:            "auto",
				PollInterval:    5 * time.Second,
				DebounceWindow:  500 * time.Millisecond,
				StabilityWindow: 2 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

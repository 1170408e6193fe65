package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"studymate/internal/task"
	"studymate/internal/view"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "studymate.db"
	DefaultReminder       = "30s"
	EnvConfigPath         = "STUDYMATE_CONFIG"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	Edit     string `toml:"edit"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
	Search   string `toml:"search"`
	Filter   string `toml:"filter"`
	Timeline string `toml:"timeline"`
}

type Config struct {
	DBPath           string `toml:"db_path"`
	StorageKey       string `toml:"storage_key"`
	DefaultFilter    string `toml:"default_filter"`
	ReminderInterval string `toml:"reminder_interval"`
	LogPath          string `toml:"log_path"`
	Keys             Keymap `toml:"keys"`
}

// ResolveConfigPath prefers $STUDYMATE_CONFIG, then the user config dir,
// then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "studymate", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = task.DefaultKey
	}
	if cfg.ReminderInterval == "" {
		cfg.ReminderInterval = DefaultReminder
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultConfig().Keys)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(path), nil
}

// resolve anchors relative file paths at the config file's directory.
func (c Config) resolve(configPath string) Config {
	dir := filepath.Dir(configPath)
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func (c Config) Validate() error {
	if _, err := view.ParseStatusFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	return nil
}

func (c Config) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.ReminderInterval)
	if err != nil {
		return 0, fmt.Errorf("reminder_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("reminder_interval must be positive, got %s", c.ReminderInterval)
	}
	return d, nil
}

func (c Config) Filter() view.StatusFilter {
	f, err := view.ParseStatusFilter(c.DefaultFilter)
	if err != nil {
		return view.FilterAll
	}
	return f
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Edit, d.Edit)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.Search, d.Search)
	fill(&k.Filter, d.Filter)
	fill(&k.Timeline, d.Timeline)
	return k
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:           DefaultDBName,
		StorageKey:       task.DefaultKey,
		DefaultFilter:    string(view.FilterAll),
		ReminderInterval: DefaultReminder,
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Delete:   "d",
			Edit:     "e",
			Confirm:  "enter",
			Cancel:   "esc",
			Search:   "/",
			Filter:   "f",
			Timeline: "t",
		},
	}
}

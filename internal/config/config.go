package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mdjournal/internal/journal"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogFile      = "daily_log.md"
	defaultPreviewStyle = "auto"
)

// Config holds the unified application configuration
type Config struct {
	LogFile          string
	AutoPairParens   bool
	AutoPairBrackets bool
	Preview          bool
	ConfirmCreate    bool
	LineCeiling      int
	PreviewStyle     string // glamour style name, or "auto"
}

// Settings represents the config file structure. Pointers distinguish an
// unset key from an explicit false.
type Settings struct {
	LogFile          string `yaml:"log_file,omitempty"`
	AutoPairParens   *bool  `yaml:"auto_pair_parens,omitempty"`
	AutoPairBrackets *bool  `yaml:"auto_pair_brackets,omitempty"`
	Preview          *bool  `yaml:"preview,omitempty"`
	ConfirmCreate    *bool  `yaml:"confirm_create,omitempty"`
	LineCeiling      int    `yaml:"line_ceiling,omitempty"`
	PreviewStyle     string `yaml:"preview_style,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	LogFile       string
	ConfirmCreate bool
	NoPreview     bool
	NoBrackets    bool
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	opts := journal.DefaultOptions()
	cfg := &Config{
		AutoPairParens:   opts.AutoPairParens,
		AutoPairBrackets: opts.AutoPairBrackets,
		Preview:          opts.Preview,
		ConfirmCreate:    opts.ConfirmCreate,
		LineCeiling:      opts.LineCeiling,
		PreviewStyle:     defaultPreviewStyle,
	}

	// Try loading config file first for base values
	configPath, err := GetConfigPath()
	if err == nil {
		settings, err := loadConfigFile(configPath)
		if err == nil {
			cfg.apply(settings)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s: %w", configPath, err)
		}
	}

	// Priority 2: Environment variables override config file
	if envFile := os.Getenv("MDJOURNAL_FILE"); envFile != "" {
		cfg.LogFile = expandPath(envFile)
	}
	if envConfirm := os.Getenv("MDJOURNAL_CONFIRM_CREATE"); envConfirm != "" {
		if v, err := strconv.ParseBool(envConfirm); err == nil {
			cfg.ConfirmCreate = v
		}
	}

	// Priority 1: CLI flags override everything
	if flags.LogFile != "" {
		cfg.LogFile = expandPath(flags.LogFile)
	}
	if flags.ConfirmCreate {
		cfg.ConfirmCreate = true
	}
	if flags.NoPreview {
		cfg.Preview = false
	}
	if flags.NoBrackets {
		cfg.AutoPairBrackets = false
	}

	// Default log file if nothing configured
	if cfg.LogFile == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.LogFile = filepath.Join(homeDir, defaultLogFile)
	}

	return cfg, nil
}

func (c *Config) apply(s *Settings) {
	if s.LogFile != "" {
		c.LogFile = expandPath(s.LogFile)
	}
	if s.AutoPairParens != nil {
		c.AutoPairParens = *s.AutoPairParens
	}
	if s.AutoPairBrackets != nil {
		c.AutoPairBrackets = *s.AutoPairBrackets
	}
	if s.Preview != nil {
		c.Preview = *s.Preview
	}
	if s.ConfirmCreate != nil {
		c.ConfirmCreate = *s.ConfirmCreate
	}
	if s.LineCeiling > 0 {
		c.LineCeiling = s.LineCeiling
	}
	if s.PreviewStyle != "" {
		c.PreviewStyle = s.PreviewStyle
	}
}

// JournalOptions converts the config into controller options
func (c *Config) JournalOptions() journal.Options {
	return journal.Options{
		AutoPairParens:   c.AutoPairParens,
		AutoPairBrackets: c.AutoPairBrackets,
		Preview:          c.Preview,
		ConfirmCreate:    c.ConfirmCreate,
		LineCeiling:      c.LineCeiling,
	}
}

// GetConfigDir returns the directory holding the config file and debug log
func GetConfigDir() (string, error) {
	if dir := os.Getenv("MDJOURNAL_CONFIG_DIR"); dir != "" {
		return expandPath(dir), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "mdjournal"), nil
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	opts := journal.DefaultOptions()
	settings := Settings{
		LogFile:          "~/" + defaultLogFile,
		AutoPairParens:   &opts.AutoPairParens,
		AutoPairBrackets: &opts.AutoPairBrackets,
		Preview:          &opts.Preview,
		ConfirmCreate:    &opts.ConfirmCreate,
		LineCeiling:      opts.LineCeiling,
		PreviewStyle:     defaultPreviewStyle,
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

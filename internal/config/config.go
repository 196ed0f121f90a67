package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Forms    FormsConfig    `mapstructure:"forms"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds the defaults every masked field starts from.
type UIConfig struct {
	Locale          string `mapstructure:"locale"`
	PromptChar      string `mapstructure:"prompt_char"`
	ClearPromptChar bool   `mapstructure:"clear_prompt_char"`
	UnmaskOnPost    bool   `mapstructure:"unmask_on_post"`
}

type FormsConfig struct {
	Path string `mapstructure:"path"`
}

// Dir returns the jaskmask config directory under XDG_CONFIG_HOME, or
// ~/.config when unset.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "jaskmask"), nil
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "jaskmask")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "jaskmask")
}

// Flags returns the command-line flags that override configuration keys.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("jaskmask", pflag.ContinueOnError)
	fs.String("db", "", "path to the submissions database")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("locale", "", "locale for separators and currency symbols")
	fs.String("forms", "", "path to forms.toml")
	return fs
}

var flagKeys = map[string]string{
	"db":        "database.path",
	"log-level": "log.level",
	"locale":    "ui.locale",
	"forms":     "forms.path",
}

// Load reads configuration from file, env and flags. Env var overrides use
// prefix JASKMASK_. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "jaskmask.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "jaskmask.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.locale", "en-US")
	v.SetDefault("ui.prompt_char", "_")
	v.SetDefault("ui.clear_prompt_char", false)
	v.SetDefault("ui.unmask_on_post", false)

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	v.SetDefault("forms.path", filepath.Join(dir, "forms.toml"))

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("JASKMASK_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKMASK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, k := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(k, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("JASKMASK_CONFIG")
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.prompt_char", cfg.UI.PromptChar)
	v.Set("ui.clear_prompt_char", cfg.UI.ClearPromptChar)
	v.Set("ui.unmask_on_post", cfg.UI.UnmaskOnPost)
	v.Set("forms.path", cfg.Forms.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

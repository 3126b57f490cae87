package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	// ConfigFile is an explicit config file path. When empty, the loader
	// searches ConfigPaths for a file named FileName.
	ConfigFile  string
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from file and environment variables.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "review-notes"
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "REVIEWNOTES"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		for _, path := range opts.ConfigPaths {
			v.AddConfigPath(path)
		}
		if err := v.ReadInConfig(); err != nil {
			// A missing config file is fine: everything can come from env.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Scalar keys need a registered default for env-only values to survive
	// Unmarshal.
	v.SetDefault("github.token", "")
	v.SetDefault("youtube.apiKey", "")
	v.SetDefault("sendgrid.apiKey", "")
	v.SetDefault("sendgrid.fromAddress", "")
	v.SetDefault("sendgrid.replyTo", "")
	v.SetDefault("notes.owner", "")
	v.SetDefault("notes.repo", "")

	v.SetDefault("labels.ready", "api-ready-for-review")
	v.SetDefault("labels.blocking", "blocking")
	v.SetDefault("labels.approved", "api-approved")
	v.SetDefault("labels.needsWork", "api-needs-work")
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("github.token is required")
	}
	if c.Notes.Owner == "" || c.Notes.Repo == "" {
		return fmt.Errorf("notes.owner and notes.repo are required")
	}
	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one repository group must be configured")
	}
	for name, group := range c.Groups {
		if group.Suffix == "" {
			return fmt.Errorf("group %q: suffix is required", name)
		}
		if len(group.Repos) == 0 {
			return fmt.Errorf("group %q: at least one repo is required", name)
		}
		for _, repo := range group.Repos {
			if !strings.Contains(repo, "/") {
				return fmt.Errorf("group %q: repo %q must be in owner/repo form", name, repo)
			}
		}
	}
	return nil
}

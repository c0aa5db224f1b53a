// Package config loads the user-level craterepo settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds user identity values consumed by release operations.
// The zero value is valid; every field is optional.
type Settings struct {
	Author      string
	AuthorEmail string
	GithubUser  string
}

// Load reads settings from path, or from ~/.config/craterepo/config.toml
// when path is empty. A missing default file yields zero Settings; a
// missing explicit file is an error. Environment variables prefixed with
// CRATEREPO_ override file values (CRATEREPO_AUTHOR_EMAIL overrides
// author-email).
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, fmt.Errorf("locating home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".config", "craterepo"))
		v.SetConfigName("config")
	}
	v.SetEnvPrefix("CRATEREPO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			// No settings file is fine; env vars may still apply.
		} else {
			return Settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	return Settings{
		Author:      v.GetString("author"),
		AuthorEmail: v.GetString("author-email"),
		GithubUser:  v.GetString("github-user"),
	}, nil
}

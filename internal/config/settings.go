/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/neoforge"
	"github.com/lexfrei/mcx/pkg/paper"
	"github.com/lexfrei/mcx/pkg/resolver"
	"github.com/lexfrei/mcx/pkg/vanilla"
)

const (
	// AppName names the config directory and env prefix.
	AppName = "mcx"
	// EnvPrefix prefixes environment overrides, e.g. MCX_JAVA_PATH.
	EnvPrefix = "MCX"
	// DefaultMemory is the heap size passed to the server JVM.
	DefaultMemory = "2G"
)

// Setting keys.
const (
	KeyHTTPTimeout       = "http.timeout"
	KeyHTTPHeaderTimeout = "http.header-timeout"
	KeyJavaPath          = "java.path"
	KeyJavaMemory        = "java.memory"
	KeyVanillaManifest   = "endpoints.vanilla-manifest"
	KeyNeoForgeMaven     = "endpoints.neoforge-maven"
	KeyPaperAPI          = "endpoints.paper-api"
)

// Settings are the global mcx settings.
type Settings struct {
	HTTPTimeout       time.Duration
	HTTPHeaderTimeout time.Duration
	JavaPath          string
	JavaMemory        string
	VanillaManifest   string
	NeoForgeMaven     string
	PaperAPI          string
}

// Dir returns $XDG_CONFIG_HOME/mcx, defaulting to ~/.config/mcx.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	return filepath.Join(home, ".config", AppName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyHTTPTimeout, artifact.DefaultMetadataTimeout)
	v.SetDefault(KeyHTTPHeaderTimeout, artifact.DefaultHeaderTimeout)
	v.SetDefault(KeyJavaPath, neoforge.DefaultJava)
	v.SetDefault(KeyJavaMemory, DefaultMemory)
	v.SetDefault(KeyVanillaManifest, vanilla.DefaultManifestURL)
	v.SetDefault(KeyNeoForgeMaven, neoforge.DefaultMavenURL)
	v.SetDefault(KeyPaperAPI, paper.DefaultAPIURL)
}

// LoadSettings reads settings from path, or from config.toml in Dir when
// path is empty. A missing default file is not an error; a missing explicit
// file is. Environment variables override file values.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrapf(err, "failed to read config %s", path)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return Settings{}, err
		}

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, errors.Wrap(err, "failed to read config")
			}
		}
	}

	s := Settings{
		HTTPTimeout:       v.GetDuration(KeyHTTPTimeout),
		HTTPHeaderTimeout: v.GetDuration(KeyHTTPHeaderTimeout),
		JavaPath:          v.GetString(KeyJavaPath),
		JavaMemory:        v.GetString(KeyJavaMemory),
		VanillaManifest:   v.GetString(KeyVanillaManifest),
		NeoForgeMaven:     v.GetString(KeyNeoForgeMaven),
		PaperAPI:          v.GetString(KeyPaperAPI),
	}

	if s.HTTPTimeout <= 0 || s.HTTPHeaderTimeout <= 0 {
		return Settings{}, errors.Newf("%s and %s must be positive", KeyHTTPTimeout, KeyHTTPHeaderTimeout)
	}

	return s, nil
}

// ResolverOptions maps settings onto resolver options.
func (s Settings) ResolverOptions() resolver.Options {
	return resolver.Options{
		HTTP: artifact.Options{
			MetadataTimeout: s.HTTPTimeout,
			HeaderTimeout:   s.HTTPHeaderTimeout,
		},
		VanillaManifestURL: s.VanillaManifest,
		NeoForgeMavenURL:   s.NeoForgeMaven,
		PaperAPIURL:        s.PaperAPI,
		Java:               s.JavaPath,
	}
}

// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides components for interacting with external services.
// This file contains the hierarchical configuration loader and the startup
// validation helpers.
//
// Functions:
//   - LoadConfig: reads a base TOML file and overlays an environment-specific
//     file (e.g., .env.local.toml, .env.test.toml) selected by GCP_RUNTIME.
//   - ResolveAPIKey: reads the Gemini API key from the configured environment
//     variable, failing fast when it is absent.
//   - ValidateConfig: applies defaults and rejects configurations the rest of
//     the program cannot run with.
package cloud

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Configuration constants for file naming and environment lookups.
const (
	ConfigFileBaseName  = ".env"              // Base name for configuration files (".env.toml").
	ConfigFileExtension = ".toml"             // Extension for configuration files.
	ConfigSeparator     = "."                 // Separator in override file names (".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // Environment variable naming the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // Environment variable naming the runtime ("local", "test", ...).

	DefaultAPIKeyEnvVar   = "GEMINI_API_KEY" // Where the API key is read from unless configured otherwise.
	FallbackAPIKeyEnvVar  = "GOOGLE_API_KEY" // Secondary key location, for parity with Google tooling.
	DefaultTimeoutSeconds = 300              // Per-call deadline applied when the config does not set one.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides hierarchical configuration loading. The base file is
// read first and an environment-specific file overwrites its values. The
// directory and runtime name come from the GCP_CONFIG_PREFIX and GCP_RUNTIME
// environment variables; the runtime defaults to "test" so that accidental
// runs never pick up production settings.
//
// Inputs:
//   - baseConfig: a pointer to the target configuration struct to populate.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Values in the runtime file overwrite the base values.
	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// ResolveAPIKey reads the Gemini API key from the process environment. The
// variable name comes from the configuration, defaulting to GEMINI_API_KEY
// with GOOGLE_API_KEY as a fallback. The key is treated as a runtime-provided
// configuration value and is never read from a file or a literal.
func ResolveAPIKey(config *Config) (string, error) {
	envVar := config.Application.APIKeyEnvVar
	if envVar == "" {
		envVar = DefaultAPIKeyEnvVar
	}
	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return key, nil
	}
	if envVar == DefaultAPIKeyEnvVar {
		if key := strings.TrimSpace(os.Getenv(FallbackAPIKeyEnvVar)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("missing API key: set %s in the environment", envVar)
}

// ValidateConfig applies defaults and verifies the configuration is usable.
// It must be called once at startup, before any client is constructed.
func ValidateConfig(config *Config) error {
	if config.Application.TimeoutInSeconds <= 0 {
		config.Application.TimeoutInSeconds = DefaultTimeoutSeconds
	}
	if config.Application.APIKeyEnvVar == "" {
		config.Application.APIKeyEnvVar = DefaultAPIKeyEnvVar
	}
	if len(config.GeminiModels) == 0 {
		return errors.New("configuration defines no gemini models")
	}
	if config.Application.DefaultModel == "" {
		return errors.New("application.default_model is not set")
	}
	if _, ok := config.GeminiModels[config.Application.DefaultModel]; !ok {
		return fmt.Errorf("application.default_model %q has no matching [gemini_models] entry", config.Application.DefaultModel)
	}
	return nil
}

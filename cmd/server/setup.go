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

// This file wires the shared state for the HTTP server: configuration
// loading and the external service clients. The pattern matches the CLI:
// one config, one ServiceClients container, created once at startup.
package main

import (
	"context"
	"log"
	"os"

	"github.com/jaycherian/gcp-go-video-quiz/internal/cloud"
)

// StateManager holds the shared components for the server process.
type StateManager struct {
	config *cloud.Config
	cloud  *cloud.ServiceClients
}

var state = &StateManager{}

// SetupOS applies the conventional local configuration location when the
// environment does not already select one.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads and caches the application configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		if err := cloud.ValidateConfig(config); err != nil {
			log.Fatalf("invalid configuration: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// InitState initializes the external service clients. Fails fast: a missing
// API key aborts startup rather than surfacing on the first request.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		log.Fatalf("failed to initialize service clients: %v\n", err)
	}
	state.cloud = cloudClients
}

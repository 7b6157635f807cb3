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
// This file initializes and holds the client objects the application needs:
// the Generative AI client and the Cloud Storage client. It acts as a small
// dependency injection container: one ServiceClients struct is created at
// startup and passed to whatever needs a connection.
//
// Logic Flow:
//  1. NewCloudServiceClients is called once with the loaded configuration.
//  2. The API key is resolved from the environment (never from the config
//     files themselves); a missing key aborts startup.
//  3. A genai client is created against the Gemini API backend, and a GCS
//     client for gs:// inputs. The GCS client is optional: when no Google
//     Cloud credentials are present it stays nil and only gs:// sources
//     are unavailable.
//  4. Each configured model gets a deadline-aware generation wrapper.
//
// Structs:
//   - ServiceClients: container holding all initialized clients and model
//     wrappers.
//
// Functions:
//   - NewCloudServiceClients: factory for the container.
//   - Close: releases the client connections.
package cloud

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/genai"
)

// ServiceClients is a container for all clients that talk to external
// services. One instance is shared across the application.
type ServiceClients struct {
	StorageClient *storage.Client                            // Client for Google Cloud Storage; nil when no GCP credentials are available.
	GenAIClient   *genai.Client                              // Client for the Gemini API (file service and models).
	GeminiModels  map[string]*DeadlineAwareGenerativeAIModel // Configured generation wrappers, keyed by logical name.
}

// Close releases the client connections. The genai client holds no
// long-lived connection of its own.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
}

// NewCloudServiceClients initializes all required service clients from the
// provided configuration. It is the single place a credential is read.
//
// Inputs:
//   - ctx: the root context for the application.
//   - config: the loaded and validated application configuration.
//
// Outputs:
//   - *ServiceClients: the fully initialized container.
//   - error: when the API key is absent or the genai client fails to
//     initialize. A storage client failure is not fatal.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	apiKey, err := ResolveAPIKey(config)
	if err != nil {
		return nil, err
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	// The storage client needs Application Default Credentials, which a
	// machine running with just an API key will not have. gs:// staging is
	// optional, so a failure here only disables bucket sources; local-file
	// runs proceed with the API key alone.
	sc, err := storage.NewClient(ctx)
	if err != nil {
		slog.Warn("cloud storage client unavailable, gs:// sources disabled", "error", err)
		sc = nil
	}

	timeout := time.Duration(config.Application.TimeoutInSeconds) * time.Second

	// Build a deadline-aware wrapper for each configured model, applying its
	// generation settings and the shared safety posture.
	models := make(map[string]*DeadlineAwareGenerativeAIModel)
	for key, values := range config.GeminiModels {
		genConfig := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](values.Temperature),
			TopP:            genai.Ptr[float32](values.TopP),
			TopK:            genai.Ptr[float32](values.TopK),
			MaxOutputTokens: values.MaxTokens,
			SafetySettings:  DefaultSafetySettings,
		}
		if values.SystemInstructions != "" {
			genConfig.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: values.SystemInstructions}},
			}
		}
		models[key] = NewDeadlineAwareModel(genConfig, values.Model, gc.Models, timeout)
	}

	return &ServiceClients{
		StorageClient: sc,
		GenAIClient:   gc,
		GeminiModels:  models,
	}, nil
}

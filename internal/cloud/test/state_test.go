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

// Package cloud_test contains unit tests for the service client container.
package cloud_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-video-quiz/internal/cloud"
)

// TestNewCloudServiceClientsAPIKeyOnly verifies that the container starts
// with just the API key in the environment. The key is the only required
// credential: a machine without Application Default Credentials must still
// initialize, only losing the optional gs:// staging.
func TestNewCloudServiceClientsAPIKeyOnly(t *testing.T) {
	t.Setenv(cloud.DefaultAPIKeyEnvVar, "test-api-key")

	config := cloud.NewConfig()
	config.Application.Name = "video-quiz-test"
	config.Application.DefaultModel = "creative-flash"
	config.Application.TimeoutInSeconds = 10
	config.GeminiModels["creative-flash"] = cloud.GeminiModel{
		Model:       "gemini-2.0-flash",
		Temperature: 1.0,
		MaxTokens:   8192,
	}

	clients, err := cloud.NewCloudServiceClients(context.Background(), config)
	require.NoError(t, err)
	defer clients.Close()

	assert.NotNil(t, clients.GenAIClient)
	wrapper := clients.GeminiModels["creative-flash"]
	require.NotNil(t, wrapper)
	assert.Equal(t, "gemini-2.0-flash", wrapper.ModelName)
	assert.NotNil(t, wrapper.GenerativeContentConfig)
}

// TestNewCloudServiceClientsMissingKey verifies startup fails fast when no
// API key variable is set.
func TestNewCloudServiceClientsMissingKey(t *testing.T) {
	t.Setenv(cloud.DefaultAPIKeyEnvVar, "")
	t.Setenv(cloud.FallbackAPIKeyEnvVar, "")

	config := cloud.NewConfig()
	config.GeminiModels["creative-flash"] = cloud.GeminiModel{Model: "gemini-2.0-flash"}

	clients, err := cloud.NewCloudServiceClients(context.Background(), config)
	assert.Error(t, err)
	assert.Nil(t, clients)
}

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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients used to reach external services.
// This file centralizes the configuration structs.
//
// Credentials are never stored in the TOML files: the configuration only
// names the environment variable the API key is read from, and the loader
// fails fast at startup when the variable is unset.
//
// Structs:
//   - PromptTemplates: text templates for the prompts sent to the model.
//   - GeminiModel: settings for a single named generative model.
//   - Storage: optional GCS staging configuration for gs:// inputs.
//   - Config: the top-level struct aggregating everything above.
//
// Functions:
//   - NewConfig: constructor that initializes a Config with empty maps.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the content safety thresholds applied to all
// generation requests. They are non-restrictive: the input media is supplied
// by the operator, not by untrusted users.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// PromptTemplates holds the text templates used to build prompts. The summary
// template is a Go text/template; see commands.SummaryQuizCreator for the
// parameters it is executed with.
type PromptTemplates struct {
	SummaryQuiz string `toml:"summary_quiz"` // Template for the combined summary-and-quiz prompt.
}

// GeminiModel represents the configuration for a single generative model,
// keyed by a logical name (e.g., "creative-flash") in the Config.
type GeminiModel struct {
	Model              string  `toml:"model"`               // The model identifier the remote service recognizes (e.g., "gemini-2.0-flash").
	SystemInstructions string  `toml:"system_instructions"` // System instructions prepended to every request.
	Temperature        float32 `toml:"temperature"`         // Sampling temperature.
	TopP               float32 `toml:"top_p"`               // Nucleus sampling parameter.
	TopK               float32 `toml:"top_k"`               // Top-k sampling parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // Maximum output tokens.
}

// Storage represents the optional GCS configuration used when the input video
// is addressed by a gs:// URI instead of a local path.
type Storage struct {
	StagingPrefix string `toml:"staging_prefix"` // Prefix for the temp files objects are staged into.
}

// Config represents the overall configuration for the application, loaded
// from TOML files via LoadConfig.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name             string `toml:"name"`               // The application name, used as the telemetry service name.
		GoogleProjectId  string `toml:"google_project_id"`  // Google Cloud project id; only needed when exporting telemetry.
		APIKeyEnvVar     string `toml:"api_key_env_var"`    // Environment variable the Gemini API key is read from.
		DefaultModel     string `toml:"default_model"`      // Logical name of the model used when none is requested.
		TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Per-call deadline for upload and generation requests.
	} `toml:"application"`
	Storage         Storage                `toml:"storage"`          // GCS staging configuration.
	PromptTemplates PromptTemplates        `toml:"prompt_templates"` // Prompt templates.
	GeminiModels    map[string]GeminiModel `toml:"gemini_models"`    // Generative models, keyed by logical name.
}

// NewConfig creates a new, initialized Config instance. The map fields must
// be non-nil before the TOML decoder populates them.
func NewConfig() *Config {
	return &Config{
		GeminiModels: make(map[string]GeminiModel),
	}
}

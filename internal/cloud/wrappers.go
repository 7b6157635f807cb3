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
// This file implements a decorator around the Generative AI models handle.
// The wrapper adds exactly one behavior to every GenerateContent call: an
// explicit deadline. The underlying SDK will happily block for as long as
// the transport allows; a production client must not be able to hang
// forever, so the decorator derives a context.WithTimeout child for each
// request. There is deliberately no retry and no rate limiting here; a
// failed call is a terminal, classified failure for this workflow.
//
// Structs:
//   - DeadlineAwareGenerativeAIModel: wraps *genai.Models with a per-call
//     deadline and a fixed generation config.
//
// Functions:
//   - NewDeadlineAwareModel: constructor for the wrapper.
//   - GenerateContent: the decorated call.
package cloud

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// DeadlineAwareGenerativeAIModel decorates the SDK models handle so that
// every generation request carries the configured generation settings and an
// explicit deadline. The struct is safe for concurrent use; it holds no
// per-call state.
type DeadlineAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Generation settings (temperature, safety, system instructions).
	ModelName               string                       // Default model identifier used when the caller does not name one.
	ModelHandle             *genai.Models                // The wrapped SDK models handle.
	Timeout                 time.Duration                // Deadline applied to each call; <= 0 disables it.
}

// NewDeadlineAwareModel creates a new wrapper around the models handle.
//
// Inputs:
//   - wrapped: the generation config applied to every request.
//   - name: the default model identifier (e.g., "gemini-2.0-flash").
//   - modelHandle: the SDK models handle to call through.
//   - timeout: the per-call deadline.
//
// Outputs:
//   - *DeadlineAwareGenerativeAIModel: the configured wrapper.
func NewDeadlineAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, timeout time.Duration) *DeadlineAwareGenerativeAIModel {
	return &DeadlineAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		Timeout:                 timeout,
	}
}

// GenerateContent forwards a generation request to the wrapped handle under
// the configured deadline. An empty modelName selects the wrapper's default
// model. When the deadline expires the SDK returns an error wrapping
// context.DeadlineExceeded, which callers classify as a timeout failure.
func (d *DeadlineAwareGenerativeAIModel) GenerateContent(ctx context.Context, modelName string, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if modelName == "" {
		modelName = d.ModelName
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	return d.ModelHandle.GenerateContent(ctx, modelName, content, d.GenerativeContentConfig)
}

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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// generation step of the pipeline.
//
// Logic Flow:
//  1. The upload handle produced by the previous command is read from the
//     context.
//  2. The prompt is rendered from a Go template, populated with metadata of
//     the uploaded file.
//  3. One multimodal request, the file reference followed by the prompt
//     text, is sent through services.Client.Generate. A single synchronous
//     call, no retry.
//  4. The resulting model.GenerationResult is placed in the context for the
//     writer command, and its token counts feed the OTel counters.
package commands

import (
	"bytes"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
)

// SummaryQuizCreator is a command that asks the generative model for a
// summary of the uploaded video plus a quiz with an answer key.
type SummaryQuizCreator struct {
	cor.BaseCommand
	client                   *services.Client    // The generation client.
	modelName                string              // Model identifier the remote service recognizes.
	template                 *template.Template  // Prompt template.
	geminiInputTokenCounter  metric.Int64Counter // OTel counter for prompt tokens.
	geminiOutputTokenCounter metric.Int64Counter // OTel counter for response tokens.
}

// NewSummaryQuizCreator creates the generation command.
//
// Inputs:
//   - name: the command name for logging and telemetry.
//   - client: the client wrapping the generative model.
//   - modelName: the model identifier to generate with.
//   - template: the parsed prompt template.
func NewSummaryQuizCreator(name string, client *services.Client, modelName string, template *template.Template) *SummaryQuizCreator {
	out := &SummaryQuizCreator{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		modelName:   modelName,
		template:    template,
	}

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))

	return out
}

// GenerateParams builds the substitution map for the prompt template from
// the uploaded file's metadata.
func (t *SummaryQuizCreator) GenerateParams(file *model.UploadedFile) map[string]interface{} {
	params := make(map[string]interface{})
	params["DISPLAY_NAME"] = file.DisplayName
	params["MIME_TYPE"] = file.MIMEType
	return params
}

// Execute renders the prompt and issues the generation request.
func (t *SummaryQuizCreator) Execute(context cor.Context) {
	mediaFile := context.Get(t.GetInputParam()).(*model.UploadedFile)

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, t.GenerateParams(mediaFile)); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	// Ordered contents: the file reference first, then the instruction text.
	parts := []model.PromptPart{
		model.NewFilePart(mediaFile),
		model.NewTextPart(buffer.String()),
	}

	result, err := t.client.Generate(context.GetContext(), t.modelName, parts)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	t.geminiInputTokenCounter.Add(context.GetContext(), int64(result.InputTokens))
	t.geminiOutputTokenCounter.Add(context.GetContext(), int64(result.OutputTokens))

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), result)
}

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

// Package workflow defines the high-level orchestrations that combine
// commands into coherent pipelines. This file implements the one pipeline of
// this application: stage the source, verify it, upload it to the Gemini
// file service, request a summary-plus-quiz completion, and write the text.
package workflow

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/jaycherian/gcp-go-video-quiz/internal/cloud"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/commands"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
)

// DefaultSummaryQuizPrompt is used when the configuration does not supply a
// prompt template. It is the canonical instruction of this workflow.
const DefaultSummaryQuizPrompt = "Summarize this video. Then create a quiz with an answer key based on the information in this video."

// VideoSummaryWorkflow orchestrates the end-to-end summarize run. It is a
// Chain of Responsibility: each step is an atomic command and the chain stops
// at the first failure, so a failed run produces no partial output.
type VideoSummaryWorkflow struct {
	cor.BaseCommand
	client *services.Client // The upload-and-generate client shared by the commands.
	chain  cor.Chain        // The underlying chain of commands.
}

// NewVideoSummaryPipeline builds the pipeline for the given logical model.
//
// Inputs:
//   - config: the loaded application configuration.
//   - serviceClients: the initialized external service clients.
//   - modelKey: logical name of the [gemini_models] entry to use.
//   - writer: destination for the generated text.
//
// Outputs:
//   - *VideoSummaryWorkflow: the ready-to-execute pipeline.
//   - error: when the model key is unknown or the prompt template is invalid.
func NewVideoSummaryPipeline(config *cloud.Config, serviceClients *cloud.ServiceClients, modelKey string, writer io.Writer) (*VideoSummaryWorkflow, error) {
	generator, ok := serviceClients.GeminiModels[modelKey]
	if !ok {
		return nil, services.NewError(services.KindConfiguration, "pipeline",
			fmt.Errorf("no [gemini_models] entry named %q", modelKey))
	}

	promptText := config.PromptTemplates.SummaryQuiz
	if promptText == "" {
		promptText = DefaultSummaryQuizPrompt
	}
	promptTemplate, err := template.New("summary-quiz-prompt").Parse(promptText)
	if err != nil {
		return nil, services.NewError(services.KindConfiguration, "pipeline",
			fmt.Errorf("invalid summary_quiz prompt template: %w", err))
	}

	timeout := time.Duration(config.Application.TimeoutInSeconds) * time.Second
	client := services.NewClient(serviceClients.GenAIClient, generator, timeout)

	out := &VideoSummaryWorkflow{
		BaseCommand: *cor.NewBaseCommand("video-summary-workflow"),
		client:      client,
	}
	out.initializeChain(serviceClients, promptTemplate, generator.ModelName, writer)
	return out, nil
}

// Execute runs the pipeline by invoking the underlying chain. The initial
// source string (local path or gs:// URI) must be present under cor.CtxIn.
func (m *VideoSummaryWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// IsExecutable requires only a valid Go context; the chain's own commands
// validate the source.
func (m *VideoSummaryWorkflow) IsExecutable(context cor.Context) bool {
	return context.GetContext() != nil
}

// initializeChain assembles the command sequence. The output of each command
// is piped as the input of the next.
func (m *VideoSummaryWorkflow) initializeChain(serviceClients *cloud.ServiceClients, promptTemplate *template.Template, modelName string, writer io.Writer) {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Resolve the source string to a local file. gs:// objects are
	// streamed into a temp file that the context removes at Close.
	out.AddCommand(commands.NewSourceStager("stage-video-source", serviceClients.StorageClient, "video-stage-"))

	// Step 2: Stat and sniff the local file. A missing path fails here with
	// a not-found classification before anything touches the network.
	out.AddCommand(commands.NewVideoFileLocator("locate-video-file"))

	// Step 3: Upload the file to the Gemini file service. One blocking call,
	// no retry, no readiness polling.
	out.AddCommand(commands.NewMediaUpload("media-upload", m.client))

	// Step 4: Ask the model for the summary and quiz in a single multimodal
	// request referencing the uploaded file.
	out.AddCommand(commands.NewSummaryQuizCreator("generate-summary-quiz", m.client, modelName, promptTemplate))

	// Step 5: Write the generated text verbatim.
	out.AddCommand(commands.NewResultWriter("write-result", writer))

	m.chain = out
}

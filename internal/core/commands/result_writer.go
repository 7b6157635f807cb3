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
// terminal command of the pipeline: write the generated text, verbatim and
// unframed, to the configured writer. Because the chain stops at the first
// error, this command never runs on a failed execution; nothing is ever
// printed for a run that did not produce a result.
package commands

import (
	"fmt"
	"io"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/model"
)

// ResultWriter is a command that emits the generation result's text.
type ResultWriter struct {
	cor.BaseCommand
	writer io.Writer // Destination for the generated text; stdout in the CLI.
}

// NewResultWriter creates the writer command.
func NewResultWriter(name string, writer io.Writer) *ResultWriter {
	return &ResultWriter{BaseCommand: *cor.NewBaseCommand(name), writer: writer}
}

// GetResultParameterName returns the canonical context key the final
// model.GenerationResult is stored under.
func GetResultParameterName() string {
	return "__GENERATION_RESULT__"
}

// Execute writes the result text followed by a newline, with no framing.
func (c *ResultWriter) Execute(context cor.Context) {
	result := context.Get(c.GetInputParam()).(*model.GenerationResult)

	if _, err := fmt.Fprintln(c.writer, result.Text); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to write result: %w", err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetResultParameterName(), result)
	context.Add(c.GetOutputParam(), result)
}

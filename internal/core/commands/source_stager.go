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
// command that turns the user-supplied source string into a local file path.
//
// Logic Flow:
// A source may be a local path or a gs://bucket/object URI. Local paths pass
// through untouched. For GCS sources the command streams the object into a
// temporary file with io.Copy (the data is never held in memory whole) and
// registers the file with the context so it is removed when the workflow
// finishes. Either way, the next command receives a plain local path.
package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"cloud.google.com/go/storage"

	"github.com/jaycherian/gcp-go-video-quiz/internal/cloud"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
)

// SourceStager is a command that resolves the source string to a local file,
// downloading it from Cloud Storage when necessary.
type SourceStager struct {
	cor.BaseCommand
	client         *storage.Client // GCS client; may be nil, in which case gs:// sources are rejected.
	tempFilePrefix string          // Prefix for staged temporary files.
}

// NewSourceStager creates the staging command.
//
// Inputs:
//   - name: the command name for logging and telemetry.
//   - client: an initialized Cloud Storage client.
//   - tempFilePrefix: prefix for temporary file names (e.g., "video-stage-").
func NewSourceStager(name string, client *storage.Client, tempFilePrefix string) *SourceStager {
	return &SourceStager{
		BaseCommand:    *cor.NewBaseCommand(name),
		client:         client,
		tempFilePrefix: tempFilePrefix,
	}
}

// Execute resolves the input source string to a local path and places it in
// the output parameter.
func (c *SourceStager) Execute(context cor.Context) {
	source := context.Get(c.GetInputParam()).(string)

	if !cloud.IsGCSURI(source) {
		context.Add(c.GetOutputParam(), source)
		return
	}

	if c.client == nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), services.NewError(services.KindConfiguration, c.GetName(),
			fmt.Errorf("gs:// source %q requires Google Cloud credentials, none are configured", source)))
		return
	}

	obj, err := cloud.ParseGCSURI(source)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	reader, err := c.client.Bucket(obj.Bucket).Object(obj.Name).NewReader(context.GetContext())
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to create GCS reader for gs://%s/%s: %w", obj.Bucket, obj.Name, err))
		return
	}
	defer func(reader *storage.Reader) {
		if err := reader.Close(); err != nil {
			log.Printf("failed to close GCS reader: %v\n", err)
		}
	}(reader)

	tempFile, err := os.CreateTemp("", c.tempFilePrefix)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("could not create temp file: %w", err))
		return
	}

	written, err := io.Copy(tempFile, reader)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to stage gs://%s/%s locally: %w", obj.Bucket, obj.Name, err))
		_ = tempFile.Close()
		return
	}
	_ = tempFile.Close()

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	log.Printf("staged gs://%s/%s to %s (%d bytes)", obj.Bucket, obj.Name, tempFile.Name(), written)

	// Track for cleanup at the end of the workflow.
	context.AddTempFile(tempFile.Name())
	context.Add(c.GetOutputParam(), tempFile.Name())
}

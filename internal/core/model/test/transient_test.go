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

// Package model_test contains unit tests for the transient data models,
// covering the prompt part constructors and their union behavior.
package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/model"
)

// TestNewFilePart verifies that a file part carries the upload handle and
// reports itself as a file.
func TestNewFilePart(t *testing.T) {
	file := &model.UploadedFile{
		Name:     "files/abc123",
		URI:      "https://generativelanguage.googleapis.com/v1beta/files/abc123",
		MIMEType: "video/mp4",
	}

	part := model.NewFilePart(file)

	assert.True(t, part.IsFile())
	assert.Same(t, file, part.File)
	assert.Empty(t, part.Text)
}

// TestNewTextPart verifies that a text part carries the text and does not
// report itself as a file.
func TestNewTextPart(t *testing.T) {
	part := model.NewTextPart("Summarize this video.")

	assert.False(t, part.IsFile())
	assert.Nil(t, part.File)
	assert.Equal(t, "Summarize this video.", part.Text)
}

// TestPromptPartZeroValue verifies the zero value is a non-file part, so an
// accidentally un-initialized part is treated as (empty) text and rejected
// by validation rather than dereferenced.
func TestPromptPartZeroValue(t *testing.T) {
	var part model.PromptPart
	assert.False(t, part.IsFile())
}

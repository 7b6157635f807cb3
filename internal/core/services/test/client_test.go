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

// Package services_test contains unit tests for the Client. Everything here
// runs offline. The validation tests construct the client with nil service
// handles: if a validation path ever reached the network, the test would
// panic on the nil client instead of returning the expected classified
// error. The generation tests substitute a fake ContentGenerator for the
// remote call.
package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
	test "github.com/jaycherian/gcp-go-video-quiz/internal/testutil"
)

// offlineClient returns a client with no SDK handles. Valid for exercising
// the local validation paths only.
func offlineClient() *services.Client {
	return services.NewClient(nil, nil, 0)
}

// fakeGenerator returns a canned response or error instead of calling the
// remote service.
type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	return f.resp, f.err
}

// uploadedFile returns a valid handle for building file parts.
func uploadedFile() *model.UploadedFile {
	return &model.UploadedFile{
		Name:     "files/abc123",
		URI:      "https://generativelanguage.googleapis.com/v1beta/files/abc123",
		MIMEType: "video/mp4",
	}
}

// TestUploadMissingFile verifies that uploading a path that does not exist
// fails locally with a not-found classification.
func TestUploadMissingFile(t *testing.T) {
	client := offlineClient()

	file, err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "no-such-video.mp4"))

	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
	assert.Nil(t, file)
}

// TestUploadBlankPath verifies that an empty or whitespace path is rejected
// as an invalid argument before any filesystem or network access.
func TestUploadBlankPath(t *testing.T) {
	client := offlineClient()

	for _, path := range []string{"", "   "} {
		file, err := client.Upload(context.Background(), path)
		require.Error(t, err)
		assert.True(t, services.IsInvalidArgument(err))
		assert.Nil(t, file)
	}
}

// TestUploadDirectory verifies that a directory path is rejected as an
// invalid argument rather than handed to the file service.
func TestUploadDirectory(t *testing.T) {
	client := offlineClient()

	file, err := client.Upload(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.True(t, services.IsInvalidArgument(err))
	assert.Nil(t, file)
}

// TestGenerateBlankModel verifies that a blank model name is rejected
// locally.
func TestGenerateBlankModel(t *testing.T) {
	client := offlineClient()
	parts := []model.PromptPart{model.NewTextPart("Summarize this video.")}

	result, err := client.Generate(context.Background(), "  ", parts)

	require.Error(t, err)
	assert.True(t, services.IsInvalidArgument(err))
	assert.Nil(t, result)
}

// TestGenerateEmptyContents verifies that a request with no parts is
// rejected locally, before any network call.
func TestGenerateEmptyContents(t *testing.T) {
	client := offlineClient()

	result, err := client.Generate(context.Background(), "gemini-2.0-flash", nil)

	require.Error(t, err)
	assert.True(t, services.IsInvalidArgument(err))
	assert.Nil(t, result)
}

// TestGenerateEmptyTextPart verifies that a whitespace-only text part fails
// validation.
func TestGenerateEmptyTextPart(t *testing.T) {
	client := offlineClient()
	parts := []model.PromptPart{model.NewTextPart("  \n")}

	result, err := client.Generate(context.Background(), "gemini-2.0-flash", parts)

	require.Error(t, err)
	assert.True(t, services.IsInvalidArgument(err))
	assert.Nil(t, result)
}

// TestGenerateFilePartWithoutURI verifies that a file part whose handle
// carries no URI is rejected locally. This catches a caller that skipped
// the upload step.
func TestGenerateFilePartWithoutURI(t *testing.T) {
	client := offlineClient()
	parts := []model.PromptPart{
		model.NewFilePart(&model.UploadedFile{Name: "files/abc", MIMEType: "video/mp4"}),
		model.NewTextPart("Summarize this video."),
	}

	result, err := client.Generate(context.Background(), "gemini-2.0-flash", parts)

	require.Error(t, err)
	assert.True(t, services.IsInvalidArgument(err))
	assert.Nil(t, result)
}

// TestGenerateEmptyResponse verifies that a structurally successful call
// whose response carries no text classifies as a remote-service failure.
// Generate never returns empty success.
func TestGenerateEmptyResponse(t *testing.T) {
	generator := &fakeGenerator{resp: &genai.GenerateContentResponse{}}
	client := services.NewClient(nil, generator, 0)
	parts := []model.PromptPart{
		model.NewFilePart(uploadedFile()),
		model.NewTextPart("Summarize this video."),
	}

	result, err := client.Generate(context.Background(), "gemini-2.0-flash", parts)

	require.Error(t, err)
	assert.True(t, services.IsRemoteService(err))
	assert.Nil(t, result)
}

// TestGenerateReturnsText verifies the happy path through the generator
// seam: the response text, finish reason, and token counts flow into the
// result.
func TestGenerateReturnsText(t *testing.T) {
	generator := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: "Summary.\n\nQuiz: 1. What happened?"}}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     1200,
			CandidatesTokenCount: 180,
		},
	}}
	client := services.NewClient(nil, generator, 0)
	parts := []model.PromptPart{
		model.NewFilePart(uploadedFile()),
		model.NewTextPart("Summarize this video."),
	}

	result, err := client.Generate(context.Background(), "gemini-2.0-flash", parts)

	require.NoError(t, err)
	assert.Equal(t, "Summary.\n\nQuiz: 1. What happened?", result.Text)
	assert.Equal(t, "gemini-2.0-flash", result.ModelName)
	assert.Equal(t, string(genai.FinishReasonStop), result.FinishReason)
	assert.Equal(t, int32(1200), result.InputTokens)
	assert.Equal(t, int32(180), result.OutputTokens)
}

// TestGenerateDeadlineClassifiesAsTimeout verifies an expired deadline
// surfacing from the generation call maps to the timeout kind.
func TestGenerateDeadlineClassifiesAsTimeout(t *testing.T) {
	generator := &fakeGenerator{err: context.DeadlineExceeded}
	client := services.NewClient(nil, generator, 0)
	parts := []model.PromptPart{model.NewTextPart("Summarize this video.")}

	result, err := client.Generate(context.Background(), "gemini-2.0-flash", parts)

	require.Error(t, err)
	assert.True(t, services.IsTimeout(err))
	assert.Nil(t, result)
}

// TestSniffMIMETypeByContent verifies content sniffing recognizes the ISO
// media header regardless of the file's extension.
func TestSniffMIMETypeByContent(t *testing.T) {
	path := test.WriteTempVideo(t, "clip.bin")
	assert.Equal(t, "video/mp4", services.SniffMIMEType(path))
}

// TestSniffMIMETypeFallback verifies that a file with unrecognizable
// content and an unknown extension falls back to the video default.
func TestSniffMIMETypeFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mystery.zzz")
	require.NoError(t, os.WriteFile(path, []byte("not a media header"), 0o644))
	assert.Equal(t, services.DefaultMIMEType, services.SniffMIMEType(path))
}

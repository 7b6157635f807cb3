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

// Package services provides the thin client contract against the remote
// generative-content API. This file implements the Client, the one reusable
// abstraction of the system: upload a local file to the Gemini file service,
// then generate content from a prompt that references the resulting handle.
//
// The client is stateless per call. Each operation is a single blocking
// request with exactly two outcomes: success, or a terminal classified
// failure (see errors.go). There is no retry, no backoff, no rate limiting,
// and no polling for file readiness: "upload returned" is the only
// availability guarantee the workflow relies on. Every network call carries
// an explicit deadline so a silent remote cannot hang the process.
//
// Both operations validate their inputs before any network activity:
//   - Upload on a missing path fails with a not-found error locally.
//   - Generate with a blank model or empty contents fails with an
//     invalid-argument error locally.
package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"google.golang.org/genai"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/model"
)

// DefaultMIMEType is used when neither content sniffing nor the file
// extension identifies the media type. The remote service still performs its
// own validation, so a wrong guess surfaces as an upload error.
const DefaultMIMEType = "video/mp4"

// ContentGenerator is the seam the client issues generation calls through.
// In production it is the deadline-aware decorator from the cloud package.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, modelName string, content []*genai.Content) (*genai.GenerateContentResponse, error)
}

// Client is a thin, stateless-per-call wrapper around the remote
// generative-content API. It owns no credential state of its own (the
// underlying genai client was constructed from configuration) and caches
// nothing between calls.
type Client struct {
	genaiClient *genai.Client    // Root SDK client; the file service lives on it.
	generator   ContentGenerator // Deadline-enforcing decorator for generation calls.
	timeout     time.Duration    // Per-call deadline for upload transfers.
}

// NewClient constructs a Client from an initialized genai SDK client and the
// generation decorator. A non-positive timeout disables the upload deadline
// (generation deadlines are owned by the decorator).
func NewClient(genaiClient *genai.Client, generator ContentGenerator, timeout time.Duration) *Client {
	return &Client{
		genaiClient: genaiClient,
		generator:   generator,
		timeout:     timeout,
	}
}

// Upload transfers the file at localPath to the remote file service and
// returns the opaque handle the service assigned. This is a billable,
// network-visible action. The handle may be referenced by Generate in the
// same session; this program never deletes it.
//
// Failure kinds: not-found when the path does not exist (checked locally, no
// network call is made), invalid-argument for a blank path or a directory,
// timeout when the transfer exceeds the configured deadline, upload for
// every remote rejection or transport failure.
func (c *Client) Upload(ctx context.Context, localPath string) (*model.UploadedFile, error) {
	const op = "upload"

	if strings.TrimSpace(localPath) == "" {
		return nil, NewError(KindInvalidArgument, op, errors.New("local path must not be empty"))
	}
	stat, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewError(KindNotFound, op, fmt.Errorf("no such file: %s", localPath))
		}
		return nil, NewError(KindNotFound, op, err)
	}
	if stat.IsDir() {
		return nil, NewError(KindInvalidArgument, op, fmt.Errorf("path is a directory: %s", localPath))
	}

	mimeType := SniffMIMEType(localPath)
	displayName := filepath.Base(localPath)

	uploadCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	file, err := c.genaiClient.Files.UploadFromPath(uploadCtx, localPath, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, Classify(op, KindUpload, err)
	}
	if file == nil || file.URI == "" {
		return nil, NewError(KindUpload, op, errors.New("file service returned an empty handle"))
	}

	return &model.UploadedFile{
		Name:        file.Name,
		URI:         file.URI,
		MIMEType:    mimeType,
		DisplayName: displayName,
		SizeBytes:   stat.Size(),
		SourcePath:  localPath,
	}, nil
}

// Generate issues a single synchronous prompt-completion request against the
// named model. The parts are sent in order; file parts must reference a
// handle returned by a completed Upload in the same session.
//
// Failure kinds: invalid-argument for a blank model, empty contents, or a
// file part without a URI (all checked locally, no network call is made),
// timeout when the remote does not answer within the configured duration,
// remote-service for network, auth, or quota failures. A successful response
// with no text is reported as a remote-service failure; Generate never
// silently returns empty success.
func (c *Client) Generate(ctx context.Context, modelName string, parts []model.PromptPart) (*model.GenerationResult, error) {
	const op = "generate"

	if strings.TrimSpace(modelName) == "" {
		return nil, NewError(KindInvalidArgument, op, errors.New("model name must not be empty"))
	}
	if len(parts) == 0 {
		return nil, NewError(KindInvalidArgument, op, errors.New("contents must not be empty"))
	}

	genaiParts := make([]*genai.Part, 0, len(parts))
	for i, part := range parts {
		if part.IsFile() {
			if part.File.URI == "" {
				return nil, NewError(KindInvalidArgument, op, fmt.Errorf("content part %d references a file with no URI", i))
			}
			genaiParts = append(genaiParts, genai.NewPartFromURI(part.File.URI, part.File.MIMEType))
			continue
		}
		if strings.TrimSpace(part.Text) == "" {
			return nil, NewError(KindInvalidArgument, op, fmt.Errorf("content part %d is empty", i))
		}
		genaiParts = append(genaiParts, genai.NewPartFromText(part.Text))
	}

	contents := []*genai.Content{genai.NewContentFromParts(genaiParts, genai.RoleUser)}

	resp, err := c.generator.GenerateContent(ctx, modelName, contents)
	if err != nil {
		return nil, Classify(op, KindRemoteService, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, NewError(KindRemoteService, op, errors.New("model returned an empty response"))
	}

	result := &model.GenerationResult{
		Text:      text,
		ModelName: modelName,
	}
	if len(resp.Candidates) > 0 {
		result.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		result.InputTokens = resp.UsageMetadata.PromptTokenCount
		result.OutputTokens = resp.UsageMetadata.CandidatesTokenCount
	}
	return result, nil
}

// SniffMIMEType determines the MIME type of a local file, preferring content
// sniffing over the extension. Unknown types fall back to the video default
// since the remote service only accepts media in this workflow.
func SniffMIMEType(path string) string {
	if kind, err := filetype.MatchFile(path); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if m := mime.TypeByExtension(ext); m != "" {
			if i := strings.IndexByte(m, ';'); i >= 0 {
				m = m[:i]
			}
			return m
		}
	}
	return DefaultMIMEType
}

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

// Package services_test contains unit tests for the client error taxonomy:
// the classified Error type, the kind predicates, and the mapping from SDK
// and context errors onto the taxonomy.
package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
)

// TestErrorFormatting verifies the rendered message carries the operation,
// the kind name, and the underlying cause.
func TestErrorFormatting(t *testing.T) {
	cause := errors.New("connection reset")
	err := services.NewError(services.KindRemoteService, "generate", cause)

	assert.Equal(t, "generate: remote_service error: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	// Without a cause the message still names the operation and kind.
	bare := services.NewError(services.KindNotFound, "upload", nil)
	assert.Equal(t, "upload: not_found error", bare.Error())
}

// TestKindPredicates walks the taxonomy and checks each predicate matches
// exactly its own kind, including through wrapping.
func TestKindPredicates(t *testing.T) {
	cases := []struct {
		kind  services.Kind
		match func(error) bool
	}{
		{services.KindConfiguration, services.IsConfiguration},
		{services.KindNotFound, services.IsNotFound},
		{services.KindInvalidArgument, services.IsInvalidArgument},
		{services.KindUpload, services.IsUpload},
		{services.KindRemoteService, services.IsRemoteService},
		{services.KindTimeout, services.IsTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := services.NewError(tc.kind, "op", errors.New("boom"))
			assert.True(t, tc.match(err))
			// The predicate must still see the kind through a wrap.
			wrapped := fmt.Errorf("run failed: %w", err)
			assert.True(t, tc.match(wrapped))
			assert.Equal(t, tc.kind, services.KindOf(wrapped))
			// Every other predicate must reject it.
			for _, other := range cases {
				if other.kind != tc.kind {
					assert.False(t, other.match(err))
				}
			}
		})
	}
}

// TestKindOfForeignError verifies that errors not produced by the client
// report the zero kind and match no predicate.
func TestKindOfForeignError(t *testing.T) {
	err := errors.New("plain error")
	assert.Equal(t, services.Kind(0), services.KindOf(err))
	assert.False(t, services.IsTimeout(err))
	assert.Equal(t, services.Kind(0), services.KindOf(nil))
}

// TestClassifyDeadline verifies that deadline expiry maps to the timeout
// kind regardless of the fallback the caller supplied.
func TestClassifyDeadline(t *testing.T) {
	err := services.Classify("upload", services.KindUpload, context.DeadlineExceeded)
	assert.True(t, services.IsTimeout(err))

	wrapped := fmt.Errorf("rpc failed: %w", context.DeadlineExceeded)
	err = services.Classify("generate", services.KindRemoteService, wrapped)
	assert.True(t, services.IsTimeout(err))
}

// TestClassifyAPIError verifies the status-code mapping on the generate
// path: client-side rejections become invalid-argument, server-side
// failures take the caller's fallback kind.
func TestClassifyAPIError(t *testing.T) {
	badRequest := genai.APIError{Code: 400, Message: "invalid content"}
	err := services.Classify("generate", services.KindRemoteService, badRequest)
	assert.True(t, services.IsInvalidArgument(err))

	missingModel := genai.APIError{Code: 404, Message: "model not found"}
	err = services.Classify("generate", services.KindRemoteService, missingModel)
	assert.True(t, services.IsInvalidArgument(err))

	quota := genai.APIError{Code: 429, Message: "resource exhausted"}
	err = services.Classify("generate", services.KindRemoteService, quota)
	assert.True(t, services.IsRemoteService(err))
}

// TestClassifyUploadRejection verifies that on the upload path every remote
// rejection is an upload failure: when the file service turns the file away
// for its format, that is the upload going wrong, whatever status code the
// service picked.
func TestClassifyUploadRejection(t *testing.T) {
	for _, apiErr := range []genai.APIError{
		{Code: 400, Message: "unsupported mime type"},
		{Code: 404, Message: "not found"},
		{Code: 413, Message: "file too large"},
		{Code: 500, Message: "internal"},
	} {
		err := services.Classify("upload", services.KindUpload, apiErr)
		assert.True(t, services.IsUpload(err))
		assert.False(t, services.IsInvalidArgument(err))
	}
}

// TestClassifyNil verifies a nil error passes through unclassified.
func TestClassifyNil(t *testing.T) {
	assert.NoError(t, services.Classify("upload", services.KindUpload, nil))
}

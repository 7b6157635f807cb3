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
// generative-content API. This file defines the error taxonomy for that
// contract. Failures are never recovered locally (they propagate to the
// process boundary and abort the run), but every failure is classified by
// kind so that an embedding caller (the CLI, the HTTP handlers, a test) can
// branch on it with errors.As or the predicate helpers.
//
// Kinds:
//   - KindConfiguration: required configuration (e.g., the API key) is absent.
//   - KindNotFound: the local source file does not exist.
//   - KindInvalidArgument: a malformed request (empty contents, blank model).
//   - KindUpload: the remote service rejected the file or the transfer failed.
//   - KindRemoteService: network, auth, or quota failure during generation.
//   - KindTimeout: the remote service did not answer within the deadline.
package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Kind classifies a client failure. The zero value is deliberately unused so
// that an uninitialized Kind never matches a real one.
type Kind int

const (
	// KindConfiguration indicates required runtime configuration is missing
	// or invalid. Raised at startup, before any network activity.
	KindConfiguration Kind = iota + 1
	// KindNotFound indicates the local path handed to Upload does not exist.
	KindNotFound
	// KindInvalidArgument indicates a malformed request that was rejected
	// before or by the remote service.
	KindInvalidArgument
	// KindUpload indicates the remote service rejected the file (size,
	// format, quota) or the network call failed during the transfer.
	KindUpload
	// KindRemoteService indicates a network, authentication, or quota
	// failure during a generation call.
	KindRemoteService
	// KindTimeout indicates the remote service did not respond within the
	// configured duration.
	KindTimeout
)

// String returns the human-readable name of the kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUpload:
		return "upload"
	case KindRemoteService:
		return "remote_service"
	case KindTimeout:
		return "timeout"
	}
	return "unknown"
}

// Error is the single error type returned by the client. Op names the
// operation that failed ("upload", "generate", ...), Err holds the underlying
// cause when one exists.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError constructs a classified client error.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the kind of a classified error, or zero when the error was
// not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsConfiguration reports whether err is a configuration failure.
func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }

// IsNotFound reports whether err is a missing local file failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidArgument reports whether err is a malformed-request failure.
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsUpload reports whether err is an upload failure.
func IsUpload(err error) bool { return KindOf(err) == KindUpload }

// IsRemoteService reports whether err is a remote service failure.
func IsRemoteService(err error) bool { return KindOf(err) == KindRemoteService }

// IsTimeout reports whether err is a deadline failure.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// Classify maps an error returned by the genai SDK onto the taxonomy.
// Deadline expiry always wins. On the generate path, API status codes 400
// and 404 are client-side rejections (malformed request, unknown model) and
// become invalid-argument failures. On the upload path every remote
// rejection, including a 400 for an unsupported format, is an upload
// failure: the file service turning the file away is the upload going
// wrong, not the request being malformed. Everything else takes the
// fallback kind supplied by the caller.
func Classify(op string, fallback Kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, op, err)
	}
	if fallback != KindUpload {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case 400, 404:
				return NewError(KindInvalidArgument, op, err)
			}
		}
	}
	return NewError(fallback, op, err)
}

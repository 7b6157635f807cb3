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

// Package model defines the core data structures for the application.
// Every type in this file is transient: it exists only for the lifetime of a
// single summarize run and is never persisted. The structs act as the typed
// hand-off points between the commands of the workflow chain: a local file
// is located, becomes a remote upload handle, and finally yields a
// generation result that is printed and discarded.
package model

// LocalVideo describes a video file on the local filesystem after it has been
// located and sniffed. It is the input contract for the upload step.
type LocalVideo struct {
	Path      string // Absolute or relative path to the file on disk.
	MIMEType  string // Detected MIME type (e.g., "video/mp4").
	SizeBytes int64  // Size of the file in bytes, taken from os.Stat.
}

// UploadedFile is the server-side handle for a binary asset that has been
// transferred to the generative-content service. The URI is the only part the
// model ever sees; the rest is kept for diagnostics. The remote service owns
// the asset for an implementation-defined retention window; this program
// never deletes it.
type UploadedFile struct {
	Name        string // Opaque resource name assigned by the file service.
	URI         string // The URI used to reference the file in a prompt.
	MIMEType    string // MIME type the file was uploaded with.
	DisplayName string // Human-readable name, defaults to the local base name.
	SizeBytes   int64  // Size of the source file in bytes.
	SourcePath  string // The local path the handle was created from.
}

// GenerationResult carries the text response of a single prompt-completion
// request along with the usage metadata the service reports. It is created by
// one generation call, consumed once, and never cached or reused.
type GenerationResult struct {
	Text         string // The model's text output, verbatim.
	ModelName    string // The model that produced the output.
	FinishReason string // Why generation stopped (e.g., "STOP", "MAX_TOKENS").
	InputTokens  int32  // Prompt tokens billed for the request.
	OutputTokens int32  // Candidate tokens billed for the response.
}

// PromptPart is one element of the ordered contents of a generation request.
// Exactly one of File or Text is set.
type PromptPart struct {
	File *UploadedFile
	Text string
}

// NewFilePart wraps an upload handle as a prompt part.
func NewFilePart(file *UploadedFile) PromptPart {
	return PromptPart{File: file}
}

// NewTextPart wraps free text as a prompt part.
func NewTextPart(text string) PromptPart {
	return PromptPart{Text: text}
}

// IsFile reports whether the part references an uploaded file.
func (p PromptPart) IsFile() bool {
	return p.File != nil
}

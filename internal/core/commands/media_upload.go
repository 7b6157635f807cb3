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
// command that transfers the located local video to the Gemini file service.
//
// The upload is a single blocking call through services.Client: a billable,
// network-visible action with no retry. The resulting handle is stored both
// in the default output parameter (for the next command in the pipe) and
// under a canonical key so later commands can reach it regardless of their
// position in the chain. "Upload returned successfully" is the only
// availability guarantee the rest of the workflow relies on; there is no
// readiness polling.
package commands

import (
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
)

// MediaUpload is a command that uploads the located file to the remote file
// service and emits the upload handle.
type MediaUpload struct {
	cor.BaseCommand
	client *services.Client // The client wrapping the remote file service.
}

// NewMediaUpload creates the upload command.
func NewMediaUpload(name string, client *services.Client) *MediaUpload {
	return &MediaUpload{BaseCommand: *cor.NewBaseCommand(name), client: client}
}

// GetVideoUploadFileParameterName returns the canonical context key the
// resulting model.UploadedFile handle is stored under.
func GetVideoUploadFileParameterName() string {
	return "__VIDEO_UPLOAD_FILE__"
}

// Execute uploads the input LocalVideo and stores the resulting handle.
func (v *MediaUpload) Execute(context cor.Context) {
	video := context.Get(v.GetInputParam()).(*model.LocalVideo)

	uploaded, err := v.client.Upload(context.GetContext(), video.Path)
	if err != nil {
		v.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(v.GetName(), err)
		return
	}

	v.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetVideoUploadFileParameterName(), uploaded)
	context.Add(v.GetOutputParam(), uploaded)
}

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
// command that verifies the local source file before anything is billed:
// a missing path must fail here, locally, with a not-found classification
// and no network traffic.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
)

// VideoFileLocator is a command that stats the local path and sniffs the
// media type, producing the model.LocalVideo the upload step consumes.
type VideoFileLocator struct {
	cor.BaseCommand
}

// NewVideoFileLocator creates the locator command.
func NewVideoFileLocator(name string) *VideoFileLocator {
	return &VideoFileLocator{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute validates the input path and emits a LocalVideo descriptor.
func (c *VideoFileLocator) Execute(context cor.Context) {
	path := context.Get(c.GetInputParam()).(string)

	stat, err := os.Stat(path)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		if errors.Is(err, os.ErrNotExist) {
			context.AddError(c.GetName(), services.NewError(services.KindNotFound, c.GetName(), fmt.Errorf("no such file: %s", path)))
			return
		}
		context.AddError(c.GetName(), services.NewError(services.KindNotFound, c.GetName(), err))
		return
	}
	if stat.IsDir() {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), services.NewError(services.KindInvalidArgument, c.GetName(), fmt.Errorf("path is a directory: %s", path)))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), &model.LocalVideo{
		Path:      path,
		MIMEType:  services.SniffMIMEType(path),
		SizeBytes: stat.Size(),
	})
}

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

// Package test provides utility functions and fixtures that support the test
// suite: a cached test configuration, environment plumbing for the
// hierarchical config loader, and a helper for creating throwaway video
// files on disk.
package test

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/gcp-go-video-quiz/internal/cloud"
)

// StateManager caches the test configuration so it is loaded from the TOML
// files only once per test run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. Convenience to cut
// boilerplate in tests.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS points the configuration loader at the test TOML files
// (configs/.env.toml overlaid with configs/.env.test.toml).
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is the singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// WriteTempVideo writes a small file with a valid MP4 header into the test's
// temp directory and returns its path. The content is enough for MIME
// sniffing; it is not a playable video.
func WriteTempVideo(t *testing.T, name string) string {
	t.Helper()
	// Minimal ISO base media file header: size + "ftyp" + "isom" brand.
	header := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
		'i', 's', 'o', 'm', 'm', 'p', '4', '1',
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, header, 0o644); err != nil {
		t.Fatalf("failed to write temp video: %v", err)
	}
	return path
}

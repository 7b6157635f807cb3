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

// Package cloud contains data structures and utilities for interacting with
// external services. This file defines a minimal model for Google Cloud
// Storage objects and the parser for gs:// URIs, used when the input video
// lives in a bucket rather than on the local disk.
package cloud

import (
	"fmt"
	"strings"
)

// GCSURIScheme is the URI scheme identifying a Cloud Storage object.
const GCSURIScheme = "gs://"

// GCSObject is a simplified, internal representation of a Cloud Storage
// object, just enough to fetch it.
type GCSObject struct {
	Bucket string // The name of the GCS bucket.
	Name   string // The name of the object within the bucket.
}

// IsGCSURI reports whether the given source string addresses a Cloud Storage
// object rather than a local file.
func IsGCSURI(source string) bool {
	return strings.HasPrefix(source, GCSURIScheme)
}

// ParseGCSURI splits a gs://bucket/object URI into its parts. The object
// name may itself contain slashes.
func ParseGCSURI(uri string) (*GCSObject, error) {
	if !IsGCSURI(uri) {
		return nil, fmt.Errorf("not a gs:// URI: %s", uri)
	}
	rest := strings.TrimPrefix(uri, GCSURIScheme)
	bucket, name, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || name == "" {
		return nil, fmt.Errorf("malformed gs:// URI, want gs://bucket/object: %s", uri)
	}
	return &GCSObject{Bucket: bucket, Name: name}, nil
}

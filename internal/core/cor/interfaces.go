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

// Package cor (Chain of Responsibility) provides the building blocks for
// expressing a workflow as an ordered sequence of commands. This file defines
// the interfaces that govern the pattern: a Command is an atomic unit of
// work, a Chain is a Command composed of other Commands, and a Context is the
// shared property bag a single execution flows through.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys used to pipe data between commands: a
// BaseChain moves each command's CtxOut value into CtxIn before running the
// next command.
const (
	// CtxIn is the default key for a command's primary input.
	CtxIn = "__IN__"
	// CtxOut is the default key where a command places its primary output.
	CtxOut = "__OUT__"
)

// Context is the shared state for one workflow execution. It carries
// arbitrary keyed data, the errors any command has raised, the Go context
// (for cancellation and tracing), and the list of temporary files to remove
// when the execution finishes.
type Context interface {
	// SetContext sets the standard Go context used for cancellation,
	// deadlines, and trace propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records a failure, keyed by the command that produced it.
	AddError(key string, err error)

	// GetErrors returns every error recorded during the execution.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has failed.
	HasErrors() bool

	// AddTempFile tracks a temporary file for cleanup at Close.
	AddTempFile(file string)

	// GetTempFiles lists all tracked temporary files.
	GetTempFiles() []string

	// Close removes tracked temporary files. Defer it at workflow start.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	// Execute runs the business logic, reading inputs from and writing
	// outputs to the shared Context.
	Execute(context Context)
}

// Command is an atomic, traceable unit of work within a chain.
type Command interface {
	Executable

	// GetName returns the command's name for logging and telemetry.
	GetName() string

	// GetInputParam returns the context key holding this command's input.
	GetInputParam() string

	// GetOutputParam returns the context key this command writes to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command composed of other Commands, executed in order. Being a
// Command itself, a Chain can be nested inside another Chain.
type Chain interface {
	Command

	// ContinueOnFailure controls whether the chain keeps running commands
	// after one of them records an error. The default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}

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

// Package cor_test contains unit tests for the Chain of Responsibility
// engine: context plumbing, output-to-input piping, stop-on-first-error
// semantics, and temp-file cleanup.
package cor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
)

// appendCommand is a test command that appends its suffix to the string it
// receives from the chain's input parameter.
type appendCommand struct {
	cor.BaseCommand
	suffix string
}

func newAppendCommand(name string, suffix string) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix}
}

func (c *appendCommand) Execute(ctx cor.Context) {
	in := ctx.Get(c.GetInputParam()).(string)
	ctx.Add(c.GetOutputParam(), in+c.suffix)
}

// failingCommand is a test command that always records an error.
type failingCommand struct {
	cor.BaseCommand
	err error
}

func newFailingCommand(name string, err error) *failingCommand {
	return &failingCommand{BaseCommand: *cor.NewBaseCommand(name), err: err}
}

func (c *failingCommand) IsExecutable(ctx cor.Context) bool {
	return ctx.GetContext() != nil
}

func (c *failingCommand) Execute(ctx cor.Context) {
	ctx.AddError(c.GetName(), c.err)
}

// countingCommand records whether it ran at all.
type countingCommand struct {
	cor.BaseCommand
	executions int
}

func newCountingCommand(name string) *countingCommand {
	return &countingCommand{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *countingCommand) IsExecutable(ctx cor.Context) bool {
	return ctx.GetContext() != nil
}

func (c *countingCommand) Execute(ctx cor.Context) {
	c.executions++
}

// newChainContext builds a ready-to-run context seeded with the given input.
func newChainContext(input interface{}) cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	if input != nil {
		ctx.Add(cor.CtxIn, input)
	}
	return ctx
}

// TestChainPipesOutputs verifies that each command's output becomes the next
// command's input. After the last command the pipe step has moved the final
// output into CtxIn and cleared CtxOut.
func TestChainPipesOutputs(t *testing.T) {
	chain := cor.NewBaseChain("pipe-test")
	chain.AddCommand(newAppendCommand("first", "-a"))
	chain.AddCommand(newAppendCommand("second", "-b"))

	ctx := newChainContext("start")
	chain.Execute(ctx)

	require.False(t, ctx.HasErrors())
	assert.Equal(t, "start-a-b", ctx.Get(cor.CtxIn))
	assert.Nil(t, ctx.Get(cor.CtxOut))
}

// TestChainStopsOnFirstError verifies the default fail-fast behavior:
// commands after a failure never run.
func TestChainStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	tail := newCountingCommand("tail")

	chain := cor.NewBaseChain("fail-fast-test")
	chain.AddCommand(newFailingCommand("exploder", boom))
	chain.AddCommand(tail)

	ctx := newChainContext("start")
	chain.Execute(ctx)

	require.True(t, ctx.HasErrors())
	assert.ErrorIs(t, ctx.GetErrors()["exploder"], boom)
	assert.Equal(t, 0, tail.executions)
}

// TestChainContinueOnFailure verifies that a chain configured to continue
// still runs later commands after a failure.
func TestChainContinueOnFailure(t *testing.T) {
	tail := newCountingCommand("tail")

	chain := cor.NewBaseChain("continue-test")
	chain.ContinueOnFailure(true)
	chain.AddCommand(newFailingCommand("exploder", errors.New("boom")))
	chain.AddCommand(tail)

	ctx := newChainContext("start")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Equal(t, 1, tail.executions)
}

// TestChainSkipsNonExecutableCommand verifies that a command whose
// precondition fails is skipped without poisoning the chain.
func TestChainSkipsNonExecutableCommand(t *testing.T) {
	// appendCommand requires an input value; seed no input so the default
	// IsExecutable check fails.
	chain := cor.NewBaseChain("skip-test")
	chain.AddCommand(newAppendCommand("needs-input", "-a"))

	ctx := newChainContext(nil)
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Nil(t, ctx.Get(cor.CtxIn))
}

// TestContextTempFileCleanup verifies that Close removes every tracked
// temporary file.
func TestContextTempFileCleanup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged.tmp")
	require.NoError(t, os.WriteFile(path, []byte("scratch"), 0o644))

	ctx := cor.NewBaseContext()
	ctx.AddTempFile(path)
	assert.Equal(t, []string{path}, ctx.GetTempFiles())

	ctx.Close()

	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// TestContextDataRoundTrip verifies Add, Get, and Remove on the property
// bag.
func TestContextDataRoundTrip(t *testing.T) {
	ctx := cor.NewBaseContext()
	ctx.Add("key", 42)
	assert.Equal(t, 42, ctx.Get("key"))

	ctx.Remove("key")
	assert.Nil(t, ctx.Get("key"))
	assert.False(t, ctx.HasErrors())
}

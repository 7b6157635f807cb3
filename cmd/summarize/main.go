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

// The summarize command uploads a video to the Gemini API and prints a
// generated summary plus quiz to stdout. One invocation performs one run:
// upload, generate, print, exit. On success the generated text, and nothing
// else, is written to stdout and the process exits 0. On any failure no
// text is printed, a diagnostic goes to stderr, and the exit code is
// non-zero.
//
// Usage:
//
//	summarize -video <path-or-gs-uri> [-model <key>] [-prompt <text>] [-timeout <seconds>]
//
// The API key is read from the environment (GEMINI_API_KEY by default);
// configuration files are resolved through GCP_CONFIG_PREFIX / GCP_RUNTIME.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jaycherian/gcp-go-video-quiz/internal/cloud"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/commands"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/workflow"
	"github.com/jaycherian/gcp-go-video-quiz/internal/telemetry"
	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/jaycherian/gcp-go-video-quiz/cmd/summarize"

func main() {
	telemetry.SetupLogging()

	var (
		video   = flag.String("video", "", "Path to a local video file or a gs://bucket/object URI (required)")
		model   = flag.String("model", "", "Logical model key from [gemini_models]; defaults to application.default_model")
		prompt  = flag.String("prompt", "", "Override for the summary-and-quiz prompt")
		timeout = flag.Int("timeout", 0, "Per-call deadline in seconds; overrides the configured value")
	)
	flag.Parse()

	if *video == "" {
		fmt.Fprintln(os.Stderr, "error: -video is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*video, *model, *prompt, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one summarize invocation end to end.
func run(video, modelKey, prompt string, timeoutSeconds int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := getConfig()
	if err := cloud.ValidateConfig(config); err != nil {
		return services.NewError(services.KindConfiguration, "startup", err)
	}
	if timeoutSeconds > 0 {
		config.Application.TimeoutInSeconds = timeoutSeconds
	}
	if prompt != "" {
		config.PromptTemplates.SummaryQuiz = prompt
	}
	if modelKey == "" {
		modelKey = config.Application.DefaultModel
	}

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	serviceClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return services.NewError(services.KindConfiguration, "startup", err)
	}
	defer serviceClients.Close()

	pipeline, err := workflow.NewVideoSummaryPipeline(config, serviceClients, modelKey, os.Stdout)
	if err != nil {
		return err
	}

	traceCtx, span := otel.Tracer(tracerName).Start(ctx, "summarize-run")
	defer span.End()

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(traceCtx)
	chainCtx.Add(cor.CtxIn, video)

	pipeline.Execute(chainCtx)

	if chainCtx.HasErrors() {
		// Fail fast: report the first classified failure; there is no
		// partial state to roll back.
		for name, err := range chainCtx.GetErrors() {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	result := chainCtx.Get(commands.GetResultParameterName())
	if result == nil {
		return services.NewError(services.KindRemoteService, "summarize", fmt.Errorf("workflow produced no result"))
	}
	return nil
}

// getConfig loads the hierarchical TOML configuration. When the environment
// does not select a config location or runtime, the conventional local
// defaults apply.
func getConfig() *cloud.Config {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		_ = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		_ = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	config := cloud.NewConfig()
	cloud.LoadConfig(&config)
	return config
}

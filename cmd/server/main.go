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

// The server command exposes the summarize workflow over HTTP. A client
// POSTs a video file and receives the generated summary-plus-quiz text as
// JSON. Each request runs the same pipeline the CLI runs; nothing is cached
// or persisted between requests.
package main

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/gcp-go-video-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/services"
	"github.com/jaycherian/gcp-go-video-quiz/internal/core/workflow"
	"github.com/jaycherian/gcp-go-video-quiz/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware("video-quiz-server"))
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		SummaryRouter(apiV1)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed", "error", err)
	}
	if err := shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown telemetry", "error", err)
	}

	log.Println("Server exiting")
}

// SummaryRouter sets up the summarize endpoint.
func SummaryRouter(r *gin.RouterGroup) {
	summaries := r.Group("/summaries")
	{
		summaries.POST("", func(c *gin.Context) {
			file, err := c.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "a 'file' form field with the video is required"})
				return
			}

			// One temp file per request, removed when the run is done.
			requestID := uuid.NewString()
			localPath := filepath.Join(os.TempDir(), requestID+"-"+filepath.Base(file.Filename))
			if err := c.SaveUploadedFile(file, localPath); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
				return
			}
			defer func() {
				if err := os.Remove(localPath); err != nil {
					slog.Warn("failed to remove request temp file", "path", localPath, "error", err)
				}
			}()

			modelKey := c.DefaultPostForm("model", state.config.Application.DefaultModel)

			// Copy the config so a per-request prompt never leaks into the
			// shared state.
			requestConfig := *state.config
			if prompt := c.PostForm("prompt"); prompt != "" {
				requestConfig.PromptTemplates.SummaryQuiz = prompt
			}

			var out bytes.Buffer
			pipeline, err := workflow.NewVideoSummaryPipeline(&requestConfig, state.cloud, modelKey, &out)
			if err != nil {
				c.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}

			chainCtx := cor.NewBaseContext()
			defer chainCtx.Close()
			chainCtx.SetContext(c.Request.Context())
			chainCtx.Add(cor.CtxIn, localPath)

			pipeline.Execute(chainCtx)

			if chainCtx.HasErrors() {
				for name, execErr := range chainCtx.GetErrors() {
					slog.Error("summarize request failed", "command", name, "error", execErr)
					c.JSON(statusForError(execErr), gin.H{"error": execErr.Error()})
					return
				}
			}

			c.JSON(http.StatusOK, gin.H{
				"id":    requestID,
				"model": modelKey,
				"text":  out.String(),
			})
		})
	}
}

// statusForError maps the client error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch services.KindOf(err) {
	case services.KindInvalidArgument:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindTimeout:
		return http.StatusGatewayTimeout
	case services.KindConfiguration:
		return http.StatusInternalServerError
	case services.KindUpload, services.KindRemoteService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

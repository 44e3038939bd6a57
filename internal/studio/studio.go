// Package studio orchestrates single request/response cycles against the
// generative endpoints: validate, build the prompt, call, extract.
package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"thumbstudio-ai/internal/gemini"
	"thumbstudio-ai/internal/thumbnail"
)

// GenerativeClient is the remote surface the studio depends on. It is
// satisfied by *gemini.Client and mocked in tests.
type GenerativeClient interface {
	GenerateImage(ctx context.Context, prompt string, ref gemini.ImageInput) ([]byte, string, error)
	GenerateJSON(ctx context.Context, prompt string, schema *gemini.Schema) (string, error)
}

// ValidationError reports missing user input. It is raised before any
// remote call is issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

type Options struct {
	Client GenerativeClient
	Logger *slog.Logger

	// GenerateInterval spaces out remote calls; zero disables limiting.
	GenerateInterval time.Duration
}

type Studio struct {
	client  GenerativeClient
	limiter *rate.Limiter
	logger  *slog.Logger
}

func New(opts Options) (*Studio, error) {
	if opts.Client == nil {
		return nil, errors.New("generative client is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.GenerateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.GenerateInterval), 1)
	}

	return &Studio{
		client:  opts.Client,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Result is one generated thumbnail.
type Result struct {
	Data     []byte
	MimeType string
}

// Generate runs one generation pass. Missing required fields fail with a
// ValidationError without touching the network; remote failures surface the
// distinct extraction errors from the gemini package.
func (s *Studio) Generate(ctx context.Context, req thumbnail.Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}

	prompt, err := thumbnail.BuildPrompt(req)
	if err != nil {
		return Result{}, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	start := time.Now()
	data, mimeType, err := s.client.GenerateImage(ctx, prompt, gemini.ImageInput{
		Data:     req.Image.Data,
		MimeType: req.Image.MimeType,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generate thumbnail: %w", err)
	}

	s.logger.Info("thumbnail generated",
		"bytes", len(data),
		"mime", mimeType,
		"refinement", req.Refinements != nil,
		"dur_ms", time.Since(start).Milliseconds())

	return Result{Data: data, MimeType: mimeType}, nil
}

// Suggest brainstorms thumbnail ideas for a free-text video description.
func (s *Studio) Suggest(ctx context.Context, videoDescription string) ([]thumbnail.Suggestion, error) {
	if strings.TrimSpace(videoDescription) == "" {
		return nil, &ValidationError{Message: "please describe your video first"}
	}

	prompt := thumbnail.BuildSuggestionPrompt(videoDescription)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	raw, err := s.client.GenerateJSON(ctx, prompt, thumbnail.SuggestionSchema())
	if err != nil {
		return nil, fmt.Errorf("brainstorm suggestions: %w", err)
	}

	suggestions, err := thumbnail.ParseSuggestions(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Info("suggestions generated", "count", len(suggestions))
	return suggestions, nil
}

func validateRequest(req thumbnail.Request) error {
	switch {
	case len(req.Image.Data) == 0:
		return &ValidationError{Message: "please upload an image first"}
	case strings.TrimSpace(req.Title) == "":
		return &ValidationError{Message: "title is required"}
	case strings.TrimSpace(req.Concept) == "":
		return &ValidationError{Message: "core concept is required"}
	case strings.TrimSpace(req.BackgroundConcept) == "":
		return &ValidationError{Message: "background concept is required"}
	}
	return nil
}

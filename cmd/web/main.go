package main

import (
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"thumbstudio-ai/internal/config"
	"thumbstudio-ai/internal/gemini"
	"thumbstudio-ai/internal/httpclient"
	"thumbstudio-ai/internal/imgutil"
	"thumbstudio-ai/internal/studio"
	"thumbstudio-ai/internal/thumbnail"
)

//go:embed static/*
var staticFS embed.FS

type server struct {
	studio  *studio.Studio
	logger  *slog.Logger
	timeout time.Duration
}

type apiError struct {
	Error string `json:"error"`
}

type generateResponse struct {
	Image string `json:"image"`
}

type optionsResponse struct {
	Moods      []thumbnail.NamedOption `json:"moods"`
	Reactions  []thumbnail.NamedOption `json:"reactions"`
	Styles     []thumbnail.NamedOption `json:"styles"`
	Brightness []thumbnail.NamedOption `json:"brightness"`
	Defaults   defaultValues           `json:"defaults"`
}

type defaultValues struct {
	Title             string `json:"title"`
	Concept           string `json:"concept"`
	BackgroundConcept string `json:"backgroundConcept"`
}

type suggestRequest struct {
	Description string `json:"description"`
}

type suggestResponse struct {
	Suggestions []thumbnail.Suggestion `json:"suggestions"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gem := gemini.New(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		ImageModel: cfg.ImageModel,
		TextModel:  cfg.TextModel,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	st, err := studio.New(studio.Options{
		Client:           gem,
		Logger:           logger,
		GenerateInterval: cfg.GenerateInterval,
	})
	if err != nil {
		logger.Error("studio init failed", "err", err)
		os.Exit(1)
	}

	s := &server{
		studio:  st,
		logger:  logger,
		timeout: cfg.RequestTimeout,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/options", s.handleOptions).Methods(http.MethodGet)
	r.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/suggest", s.handleSuggest).Methods(http.MethodPost)
	r.HandleFunc("/api/export", s.handleExport).Methods(http.MethodPost)

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/").Handler(http.FileServer(http.FS(staticSub)))

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           withLogging(r, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("web started", "addr", cfg.WebAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}

func (s *server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		Moods:      thumbnail.MoodOptions(),
		Reactions:  thumbnail.ReactionOptions(),
		Styles:     thumbnail.StyleOptions(),
		Brightness: thumbnail.BrightnessOptions(),
		Defaults: defaultValues{
			Title:             thumbnail.DefaultTitle,
			Concept:           thumbnail.DefaultConcept,
			BackgroundConcept: thumbnail.DefaultBackgroundConcept,
		},
	})
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	const maxUploadBytes = 25 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "please upload an image first"})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "failed to read image"})
		return
	}

	normalized, err := imgutil.Normalize(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unsupported image format"})
		return
	}

	req := thumbnail.Request{
		Image: thumbnail.Image{
			Data:     normalized,
			MimeType: imgutil.MimeJPEG,
		},
		Title:             strings.TrimSpace(r.FormValue("title")),
		Concept:           strings.TrimSpace(r.FormValue("concept")),
		BackgroundConcept: strings.TrimSpace(r.FormValue("background_concept")),
		Mood:              thumbnail.Mood(strings.TrimSpace(r.FormValue("mood"))),
		ImageReaction:     thumbnail.ImageReaction(strings.TrimSpace(r.FormValue("image_reaction"))),
		ThumbnailStyle:    thumbnail.ThumbnailStyle(strings.TrimSpace(r.FormValue("thumbnail_style"))),
	}

	if parseBool(r.FormValue("refine")) {
		req.Refinements = &thumbnail.Refinements{
			Brightness: thumbnail.Brightness(strings.TrimSpace(r.FormValue("brightness"))),
			Color:      strings.TrimSpace(r.FormValue("color")),
			Layout:     strings.TrimSpace(r.FormValue("layout")),
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.studio.Generate(ctx, req)
	if err != nil {
		writeJSON(w, statusFor(err), apiError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Image: fmt.Sprintf("data:%s;base64,%s", result.MimeType, base64.StdEncoding.EncodeToString(result.Data)),
	})
}

func (s *server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	suggestions, err := s.studio.Suggest(ctx, req.Description)
	if err != nil {
		writeJSON(w, statusFor(err), apiError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}

// handleExport converts a generated result for download: "png" passes the
// bytes through, "jpeg" flattens onto the black canvas at maximum quality.
func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	const maxUploadBytes = 25 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing image"})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "failed to read image"})
		return
	}

	switch strings.ToLower(strings.TrimSpace(r.FormValue("format"))) {
	case "jpeg", "jpg":
		data, err := imgutil.ExportJPEG(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "unsupported image format"})
			return
		}
		w.Header().Set("content-type", imgutil.MimeJPEG)
		w.Header().Set("content-disposition", `attachment; filename="thumbnail.jpg"`)
		_, _ = w.Write(data)
	default:
		w.Header().Set("content-type", "image/png")
		w.Header().Set("content-disposition", `attachment; filename="thumbnail.png"`)
		_, _ = w.Write(raw)
	}
}

func statusFor(err error) int {
	if studio.IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseBool(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		next.ServeHTTP(w, r)
		logger.Info("http",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"dur_ms", time.Since(start).Milliseconds())
	})
}

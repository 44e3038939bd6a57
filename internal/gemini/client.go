package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com"
	defaultAPIVersion = "v1beta"
	defaultImageModel = "gemini-2.5-flash-image"
	defaultTextModel  = "gemini-2.5-flash"
)

// Extraction failures, ordered by how far into the response the scan got.
var (
	// ErrEmptyResponse means the model returned no candidates at all,
	// commonly because a safety filter rejected the input upstream.
	ErrEmptyResponse = errors.New("model returned no candidates (the input may have been rejected by safety filters)")
	// ErrMalformedResponse means a candidate arrived without content parts.
	ErrMalformedResponse = errors.New("candidate has no content parts")
	// ErrNoImageData means the response was well-formed but carried no
	// inline image part.
	ErrNoImageData = errors.New("no image data found in response")
)

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	ImageModel string
	TextModel  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// ImageInput is a reference image attached inline to a generation request.
type ImageInput struct {
	Data     []byte
	MimeType string
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	imageModel string
	textModel  string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = defaultImageModel
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = defaultTextModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		imageModel: imageModel,
		textModel:  textModel,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// GenerateImage sends one image-modality request carrying the reference
// image and the prompt text, and returns the bytes and mime type of the
// first inline-image part of the first candidate. Exactly one remote call is
// issued; retries are the caller's concern.
func (c *Client) GenerateImage(ctx context.Context, prompt string, ref ImageInput) ([]byte, string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, "", errors.New("prompt is empty")
	}
	if len(ref.Data) == 0 {
		return nil, "", errors.New("reference image is empty")
	}

	req := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &blob{
					Data:     base64.StdEncoding.EncodeToString(ref.Data),
					MimeType: ref.MimeType,
				}},
				{Text: prompt},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &imageConfig{AspectRatio: "16:9"},
		},
	}

	resp, err := c.generateContent(ctx, c.imageModel, req)
	if err != nil {
		return nil, "", err
	}

	return extractImage(resp)
}

// GenerateJSON sends one text request constrained by a structured-output
// schema and returns the concatenated text of the first candidate.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is empty")
	}

	req := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:      0.7,
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}

	resp, err := c.generateContent(ctx, c.textModel, req)
	if err != nil {
		return "", err
	}

	return extractText(resp)
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (generateContentResponse, error) {
	if c.httpClient == nil {
		return generateContentResponse{}, errors.New("http client is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Debug("gemini request", "model", model, "bytes", len(body))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return generateContentResponse{}, fmt.Errorf("gemini API %s: %s", httpResp.Status, strings.TrimSpace(string(rawBody)))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return generateContentResponse{}, fmt.Errorf("decode response: %w", err)
	}

	return decoded, nil
}

// extractImage scans the first candidate's parts in order and returns the
// first inline image. Each missing stage has its own failure so the caller
// can tell "nothing came back" from "something came back without an image".
func extractImage(resp generateContentResponse) ([]byte, string, error) {
	if len(resp.Candidates) == 0 {
		return nil, "", ErrEmptyResponse
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return nil, "", ErrMalformedResponse
	}

	for _, p := range parts {
		if p.InlineData == nil || p.InlineData.Data == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			return nil, "", fmt.Errorf("decode inline image: %w", err)
		}
		mimeType := p.InlineData.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		return data, mimeType, nil
	}

	return nil, "", ErrNoImageData
}

func extractText(resp generateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", ErrMalformedResponse
	}

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

package studio

import (
	"context"

	"thumbstudio-ai/internal/gemini"
)

// mockClient records calls and plays back canned results.
type mockClient struct {
	imageCalls int
	jsonCalls  int

	lastPrompt string
	lastRef    gemini.ImageInput
	lastSchema *gemini.Schema

	imageData []byte
	imageMime string
	imageErr  error

	jsonText string
	jsonErr  error
}

func (m *mockClient) GenerateImage(_ context.Context, prompt string, ref gemini.ImageInput) ([]byte, string, error) {
	m.imageCalls++
	m.lastPrompt = prompt
	m.lastRef = ref
	if m.imageErr != nil {
		return nil, "", m.imageErr
	}
	return m.imageData, m.imageMime, nil
}

func (m *mockClient) GenerateJSON(_ context.Context, prompt string, schema *gemini.Schema) (string, error) {
	m.jsonCalls++
	m.lastPrompt = prompt
	m.lastSchema = schema
	if m.jsonErr != nil {
		return "", m.jsonErr
	}
	return m.jsonText, nil
}

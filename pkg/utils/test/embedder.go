package testutils

import (
	"context"
	"fmt"
	"strings"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	// Embeddings maps exact input text to a fixed vector.
	Embeddings map[string][]float32

	// Default is returned for any text without an explicit entry.
	Default []float32

	// FailOn causes Embed to return an error when the input text contains
	// the given substring.
	FailOn string

	// Calls accumulates every text passed to Embed.
	Calls []string
}

func NewMockEmbedder(defaultVec []float32) *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
		Default:    defaultVec,
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Calls = append(m.Calls, text)

	if m.FailOn != "" && strings.Contains(text, m.FailOn) {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	return m.Default, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}

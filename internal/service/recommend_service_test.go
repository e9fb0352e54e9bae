package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func TestRecommendService_Suggest(t *testing.T) {
	gen := &stubGenerator{text: "1. The Pragmatic Programmer - timeless advice"}
	svc := NewRecommendService(gen)

	got := svc.Suggest(context.Background(), []string{"Clean Code", "Refactoring"})
	assert.Equal(t, gen.text, got)
	assert.Contains(t, gen.prompt, "Clean Code, Refactoring")
}

func TestRecommendService_SuggestDegradesToFallback(t *testing.T) {
	tests := []struct {
		name   string
		svc    RecommendService
		titles []string
	}{
		{"nil generator", NewRecommendService(nil), []string{"Dune"}},
		{"no titles", NewRecommendService(&stubGenerator{text: "unused"}), nil},
		{"generator error", NewRecommendService(&stubGenerator{err: errors.New("upstream down")}), []string{"Dune"}},
		{"empty response", NewRecommendService(&stubGenerator{}), []string{"Dune"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.svc.Suggest(context.Background(), tt.titles)
			assert.Equal(t, FallbackRecommendation, got)
		})
	}
}

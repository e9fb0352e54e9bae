package service

import (
	"context"
	"fmt"
	"strings"

	"libroflow/internal/recommend"
)

// FallbackRecommendation is returned whenever the text generation
// collaborator is unavailable or fails.
const FallbackRecommendation = "Unable to fetch recommendations at this time."

// TextGenerator produces free-form text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Compile-time check that the HTTP client satisfies the interface.
var _ TextGenerator = (*recommend.Client)(nil)

// RecommendService suggests further reading based on a list of titles.
// The collaborator is best-effort: failures degrade to a neutral fallback
// message and never surface as errors.
type RecommendService interface {
	Suggest(ctx context.Context, titles []string) string
}

type recommendService struct {
	generator TextGenerator
}

// NewRecommendService creates a new recommendation service. A nil generator
// disables the feature; Suggest then always returns the fallback.
func NewRecommendService(generator TextGenerator) RecommendService {
	return &recommendService{generator: generator}
}

// Suggest asks the collaborator for book suggestions matching the given
// titles.
func (s *recommendService) Suggest(ctx context.Context, titles []string) string {
	if s.generator == nil || len(titles) == 0 {
		return FallbackRecommendation
	}

	prompt := fmt.Sprintf(
		"As a world-class librarian, suggest 3 more books for someone who likes: %s. "+
			"Provide the response in a brief list with a short 'why' for each. "+
			"Keep it friendly and professional.",
		strings.Join(titles, ", "),
	)

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil || text == "" {
		return FallbackRecommendation
	}
	return text
}

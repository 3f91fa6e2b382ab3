// Package gemini rewrites raw consultation notes through the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"coop_crm/internal/apperr"
	"coop_crm/internal/model"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// The labeled-line response format the prompt asks for.
const (
	prefixPolished = "정제:"
	prefixSummary  = "요약:"
	prefixTags     = "태그:"
)

type Refiner struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func New(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*Refiner, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Refiner{client: client, model: modelName, logger: logger}, nil
}

// Refine issues one completion for the note and parses the labeled lines.
// One shot, no retry; the pipeline treats failure as non-fatal.
func (r *Refiner) Refine(ctx context.Context, raw string) (model.Refinement, error) {
	prompt := fmt.Sprintf(
		"역할:비서. 내용:%s. 1.정제(격식), 2.요약(한줄), 3.태그(최대 3개, 쉼표 구분). "+
			"각 항목을 정제:, 요약:, 태그: 로 시작하는 한 줄로 답하세요.", raw)

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
	if err != nil {
		return model.Refinement{}, apperr.Wrap(apperr.RemoteUnavailable, "gemini call failed", err)
	}

	ref := ParseRefinement(resp.Text())
	r.logger.Debug("note refined",
		zap.Bool("polished", ref.Polished != ""),
		zap.String("tags", ref.Tags),
	)
	return ref, nil
}

// ParseRefinement scans response lines for the three label prefixes. A label
// the model skipped leaves that field empty.
func ParseRefinement(text string) model.Refinement {
	var ref model.Refinement
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, prefixPolished):
			ref.Polished = strings.TrimSpace(strings.TrimPrefix(line, prefixPolished))
		case strings.HasPrefix(line, prefixSummary):
			ref.Summary = strings.TrimSpace(strings.TrimPrefix(line, prefixSummary))
		case strings.HasPrefix(line, prefixTags):
			ref.Tags = strings.TrimSpace(strings.TrimPrefix(line, prefixTags))
		}
	}
	return ref
}

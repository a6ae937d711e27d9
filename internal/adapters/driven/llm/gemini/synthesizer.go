// Package gemini provides an answer synthesiser on the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Synthesizer implements the interface.
var _ driven.AnswerSynthesizer = (*Synthesizer)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// passageSeparator divides passages in the prompt.
const passageSeparator = "\n---\n"

// generator is the part of the genai client the synthesiser uses.
type generator interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Synthesizer asks Gemini for a structured answer grounded in passages.
type Synthesizer struct {
	models  generator
	model   string
	prompts driven.PromptStore
}

// New creates a synthesiser from LLM settings. Returns
// domain.ErrLLMUnavailable when no API key is set.
func New(ctx context.Context, cfg domain.LLMSettings, prompts driven.PromptStore) (*Synthesizer, error) {
	if !cfg.IsConfigured() {
		return nil, domain.ErrLLMUnavailable
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newSynthesizer(client.Models, cfg.Model, prompts), nil
}

func newSynthesizer(models generator, model string, prompts driven.PromptStore) *Synthesizer {
	if model == "" {
		model = DefaultModel
	}
	return &Synthesizer{models: models, model: model, prompts: prompts}
}

// ModelName returns the model in use.
func (s *Synthesizer) ModelName() string {
	return s.model
}

// Synthesize answers query from passages.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, passages []domain.Passage) (*domain.Answer, error) {
	if len(passages) == 0 {
		return nil, fmt.Errorf("%w: no passages to answer from", domain.ErrInvalidInput)
	}

	system, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}
	frame, err := s.prompts.Load(driven.PromptAnswerQuery)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    answerSchema(),
		Temperature:       genai.Ptr[float32](0.2),
	}

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(buildPrompt(frame, query, passages)), config)
	if err != nil {
		return nil, classify(err)
	}

	answer, err := parseAnswer(resp.Text())
	if err != nil {
		return nil, err
	}
	attributeSources(answer, passages)
	return answer, nil
}

// buildPrompt fills the query frame with the labelled passages.
func buildPrompt(frame, query string, passages []domain.Passage) string {
	blocks := make([]string, 0, len(passages))
	for _, p := range passages {
		blocks = append(blocks, fmt.Sprintf("[source: %s | file: %s]\ncontent: %s", p.SourceLabel, p.FileName, p.Text))
	}
	return fmt.Sprintf(frame, query, strings.Join(blocks, passageSeparator))
}

// answerSchema mirrors domain.Answer.
func answerSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	finding := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"group": str(),
			"item":  str(),
			"limit": str(),
			"note":  str(),
		},
		Required: []string{"group", "item", "limit"},
	}
	source := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":      str(),
			"url":        str(),
			"sourceType": str(),
			"snippet":    str(),
		},
		Required: []string{"title"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic":    str(),
			"category": str(),
			"summary":  str(),
			"findings": {Type: genai.TypeArray, Items: finding},
			"sources":  {Type: genai.TypeArray, Items: source},
		},
		Required: []string{"topic", "category", "summary", "findings", "sources"},
	}
}

// parseAnswer decodes the model's JSON, tolerating a markdown code fence.
func parseAnswer(text string) (*domain.Answer, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	var answer domain.Answer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return nil, fmt.Errorf("decode answer: %w", err)
	}
	if answer.Findings == nil {
		answer.Findings = []domain.Finding{}
	}
	if answer.Sources == nil {
		answer.Sources = []domain.AnswerSource{}
	}
	return &answer, nil
}

// attributeSources fills missing source types from the passage labels.
func attributeSources(answer *domain.Answer, passages []domain.Passage) {
	labels := make(map[string]domain.DocSource, len(passages))
	for _, p := range passages {
		labels[p.FileName] = p.SourceLabel
	}
	for i := range answer.Sources {
		src := &answer.Sources[i]
		if src.SourceType != "" {
			continue
		}
		if label, ok := labels[src.Title]; ok {
			src.SourceType = string(label)
		}
	}
}

// classify maps Gemini API errors to domain errors.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("generate answer: %w: %s", domain.ErrRateLimited, apiErr.Message)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("generate answer: %w: %s", domain.ErrLLMUnavailable, apiErr.Message)
		}
	}
	return fmt.Errorf("generate answer: %w", err)
}

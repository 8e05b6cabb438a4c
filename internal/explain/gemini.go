package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mentorflow/mentor-match/internal/utils"
)

const defaultModel = "gemini-2.5-flash"

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Generator wraps the Google GenAI client to provide simple prompt-based
// interactions.
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt to Gemini and returns the joined textual
// response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// Model returns the model name in use.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiExplainer renders the embedded prompt template and asks the
// generator for a short plain-text explanation.
type GeminiExplainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewGeminiExplainer builds an Explainer over a content generator.
func NewGeminiExplainer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *GeminiExplainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiExplainer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Explain renders the prompt for one pair and returns the model's text.
func (e *GeminiExplainer) Explain(ctx context.Context, req Request) (string, error) {
	prompt := buildPrompt(req)

	e.logger.Debug("explanation request",
		zap.String("mentee_id", req.MenteeID),
		zap.String("mentor_id", req.MentorID),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	e.logger.Debug("explanation response",
		zap.String("mentee_id", req.MenteeID),
		zap.String("mentor_id", req.MentorID),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

func buildPrompt(req Request) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Mentee: {{MENTEE}}\nMentor: {{MENTOR}}\nScore: {{SCORE}}\nSignals:\n{{REASONS}}"
	}

	mentee := summaryLine(req.MenteeName, req.MenteeSummary)
	mentor := summaryLine(req.MentorName, req.MentorSummary)

	reasons := "- none recorded"
	if len(req.Reasons) > 0 {
		reasons = "- " + strings.Join(req.Reasons, "\n- ")
	}

	prompt := strings.ReplaceAll(template, "{{MENTEE}}", mentee)
	prompt = strings.ReplaceAll(prompt, "{{MENTOR}}", mentor)
	prompt = strings.ReplaceAll(prompt, "{{SCORE}}", fmt.Sprintf("%.0f", req.TotalScore))
	prompt = strings.ReplaceAll(prompt, "{{REASONS}}", reasons)
	return prompt
}

func summaryLine(name, summary string) string {
	name = strings.TrimSpace(name)
	summary = strings.TrimSpace(summary)
	switch {
	case name == "":
		return summary
	case summary == "":
		return name
	default:
		return name + " — " + summary
	}
}

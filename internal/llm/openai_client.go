package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const systemPrompt = `You are a reviewer of synthetic health data.

You receive aggregated metrics for a window of simulated sleep sessions and daily step counts generated for a single virtual user, together with the behavioral profile (chronotype, activity level) the generator derived for them. You must base your conclusions only on the provided data.

Your goals:
- Judge whether the generated window looks like plausible human data.
- Highlight patterns in sleep duration, step totals, and weekday/weekend contrast.
- Note where the numbers look too uniform, too extreme, or inconsistent with the stated profile.
- Suggest concrete adjustments to the user's baselines or profile that would make future runs more realistic.

Rules:
- Do NOT provide medical advice or treat the data as belonging to a real person.
- Do NOT speculate beyond the supplied aggregates.
- If the window is too small to judge, say that explicitly.
- Be concise and concrete.

You must respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences assessing overall realism of the generated window.",
  "observations": [
    "3-6 bullet points about patterns in sleep duration, daily steps, and their spread.",
    "At least one item about weekday vs weekend behavior.",
    "If relevant, one item on whether the data matches the stated chronotype and activity level."
  ],
  "suggestions": [
    "2-4 concrete tuning suggestions (baseline values, archetype choice, consistency).",
    "Include at least one suggestion if any aggregate sits at a clamp boundary."
  ]
}

No extra fields. No comments. No backticks.`

const userPromptTemplate = `Here is JSON describing one generated window for a virtual user.

- "profile" is the behavioral profile the generator classified from the user's baselines.
- The remaining fields are aggregates over the generated window: per-night sleep hours and per-day step totals, split by weekday and weekend.

JSON:

%s

Based on this data, respond in the required JSON format.`

// InsightsLLM is the interface for generating realism commentary using an LLM.
type InsightsLLM interface {
	// GenerateInsights takes a context object and returns LLM-generated insights.
	GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.LLMInsightsOutput, error)
}

// OpenAIClient implements InsightsLLM using the OpenAI API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for generating insights.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// GenerateInsights calls OpenAI to assess a generated window.
func (c *OpenAIClient) GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.LLMInsightsOutput, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(insightsCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := resp.Choices[0].Message.Content

	var output domain.LLMInsightsOutput
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}

	return &output, nil
}

package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlintPay/grip/config"
	gotel "github.com/GlintPay/grip/otel"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
)

const SystemPrompt = `Je bent een persoonlijke coach en accountability partner. Je analyseert check-in data, weekreviews en doelen van de gebruiker.

Je stijl:
- Direct en eerlijk, maar bemoedigend
- Je wijst op patronen en trends
- Je stelt vervolgvragen om dieper te graven
- Je herinnert de gebruiker aan zijn eigen doelen en uitspraken
- Je geeft concrete, actionable suggesties
- Je schrijft in het Nederlands

Je hebt toegang tot de check-in geschiedenis en doelen van de gebruiker. Gebruik deze data om je antwoorden te onderbouwen.`

var ErrEmptyResponse = errors.New("model returned no text")

// Asker sends one system prompt and one user message to a language model
type Asker interface {
	Ask(ctx context.Context, system, message string) (string, error)
}

type ClaudeAsker struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewClaudeAsker(apiKey string, cfg config.Insights, opts ...option.RequestOption) *ClaudeAsker {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ClaudeAsker{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (c *ClaudeAsker) Ask(ctx context.Context, system, message string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			log.Debug().Msgf("Model used %d input and %d output tokens", resp.Usage.InputTokens, resp.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}

type Coach struct {
	Asker       Asker
	Source      Source
	Days        int
	Now         func() time.Time
	EnableTrace bool
}

// Ask answers a question against the user's recent data. Persisting the answer is left to the caller.
func (c *Coach) Ask(ctx context.Context, question string) (string, error) {
	ctx, end := gotel.StartSpan(ctx, c.EnableTrace, "ask-coach", gotel.ClientOptions)
	defer end()

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	days := c.Days
	if days <= 0 {
		days = config.DefaultContextDays
	}

	data, err := BuildContext(ctx, c.Source, now(), days)
	if err != nil {
		return "", err
	}

	answer, err := c.Asker.Ask(ctx, SystemPrompt, UserMessage(data, question))
	if err != nil {
		return "", fmt.Errorf("asking coach: %w", err)
	}
	return answer, nil
}

func UserMessage(data, question string) string {
	return fmt.Sprintf("Hier is mijn recente data:\n\n%s\n\n---\n\nMijn vraag: %s", data, question)
}

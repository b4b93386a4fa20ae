// Package llm holds the direct Anthropic API calls made outside the agent
// loop, currently just the relevance classifier, plus quota error typing.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"cargoquery/internal/cache"
)

const classifierPromptTemplate = `Determine if this question is about company finance or cargo operations.
Answer only 'yes' or 'no':

Question: %s
Answer:`

// Classifier decides whether a question is in-domain by asking the model for
// a yes/no judgement. Answers are memoized by a hash of the full classification
// prompt, so the same question never costs a second API call.
type Classifier struct {
	client *anthropic.Client
	model  anthropic.Model
	cache  *cache.Cache
	logger *slog.Logger
}

// NewClassifier creates a relevance classifier. The cache is owned by the
// caller and shared across requests.
func NewClassifier(apiKey string, answers *cache.Cache, logger *slog.Logger) (*Classifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Classifier{
		client: &client,
		model:  anthropic.ModelClaudeHaiku4_5_20251001,
		cache:  answers,
		logger: logger,
	}, nil
}

// Relevant reports whether the question concerns company finance or cargo
// operations. Errors are returned typed (see WrapQuota); the caller decides
// how to degrade.
func (c *Classifier) Relevant(ctx context.Context, question string) (bool, error) {
	prompt := fmt.Sprintf(classifierPromptTemplate, question)
	key := cache.Key(prompt)

	if answer, ok := c.cache.Get(key); ok {
		if c.logger != nil {
			c.logger.Info("Relevance answer served from cache", "answer", answer)
		}
		return answer == "yes", nil
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 8,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("Relevance check API call failed", "error", err)
		}
		return false, WrapQuota(err)
	}

	responseText := ""
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			responseText += textBlock.Text
		}
	}

	answer := strings.ToLower(strings.TrimSpace(responseText))
	c.cache.Set(key, answer)

	if c.logger != nil {
		c.logger.Info("Relevance check completed", "answer", answer)
	}

	return answer == "yes", nil
}

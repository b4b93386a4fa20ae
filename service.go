package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"cargoquery/internal/agent"
	"cargoquery/internal/cache"
	"cargoquery/internal/llm"
)

// Pipeline outcomes, used for logging, metrics and HTTP status mapping.
const (
	OutcomeCacheHit = "cache_hit"
	OutcomeGreeting = "greeting"
	OutcomeDeclined = "declined"
	OutcomeAnswered = "answered"
	OutcomeQuota    = "quota_error"
	OutcomeError    = "error"
)

// Fixed user-facing responses.
const (
	greetingResponse = "Hello! How can I help you with questions about company finance or cargo operations?"
	declineResponse  = "I'm sorry, I can only answer questions about company finance and cargo operations."
	quotaResponse    = "I'm sorry, the service is temporarily out of capacity. Please try again in a little while."
	genericResponse  = "I'm sorry, I wasn't able to answer that question. Please try rephrasing it."
)

// greetingWords is the vocabulary used for short-message greeting detection.
var greetingWords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "good": true,
	"morning": true, "afternoon": true, "evening": true,
	"thanks": true, "thank": true,
}

// RelevanceClassifier decides whether a question is in-domain.
type RelevanceClassifier interface {
	Relevant(ctx context.Context, question string) (bool, error)
}

// AgentRunner answers a question through the SQL agent loop.
type AgentRunner interface {
	Ask(ctx context.Context, question string) (*agent.Result, error)
}

// QueryResult is the outcome of one pipeline run.
type QueryResult struct {
	Text    string
	Outcome string
}

// QueryService runs the question pipeline: cache lookup, greeting check,
// relevance check, agent run, answer post-processing. All error paths still
// produce a natural-language sentence; the outcome field tells callers what
// happened.
type QueryService struct {
	classifier RelevanceClassifier
	agent      AgentRunner
	responses  *cache.Cache
	group      singleflight.Group
	logger     *slog.Logger
}

// NewQueryService wires the pipeline together. The response cache is owned by
// the service; the relevance cache lives inside the classifier.
func NewQueryService(classifier RelevanceClassifier, runner AgentRunner, responses *cache.Cache, logger *slog.Logger) *QueryService {
	if responses == nil {
		responses = cache.New(0, 0)
	}
	return &QueryService{
		classifier: classifier,
		agent:      runner,
		responses:  responses,
		logger:     logger,
	}
}

// Answer runs one question through the pipeline. Identical questions arriving
// concurrently are coalesced into a single agent run.
func (s *QueryService) Answer(ctx context.Context, question string) QueryResult {
	question = strings.TrimSpace(question)
	if question == "" {
		return QueryResult{Text: genericResponse, Outcome: OutcomeError}
	}

	key := cache.Key(question)
	if text, ok := s.responses.Get(key); ok {
		cacheHitsTotal.Inc()
		questionsTotal.WithLabelValues(OutcomeCacheHit).Inc()
		if s.logger != nil {
			s.logger.Info("Response served from cache", "question", question)
		}
		return QueryResult{Text: text, Outcome: OutcomeCacheHit}
	}
	cacheMissesTotal.Inc()

	if isGreeting(question) {
		questionsTotal.WithLabelValues(OutcomeGreeting).Inc()
		if s.logger != nil {
			s.logger.Info("Greeting detected", "question", question)
		}
		s.responses.Set(key, greetingResponse)
		return QueryResult{Text: greetingResponse, Outcome: OutcomeGreeting}
	}

	v, _, _ := s.group.Do(key, func() (any, error) {
		return s.answerUncached(ctx, question, key), nil
	})
	result := v.(QueryResult)

	questionsTotal.WithLabelValues(result.Outcome).Inc()
	return result
}

// answerUncached runs the relevance check and agent loop for one question and
// stores the final text (including error sentences) in the response cache.
func (s *QueryService) answerUncached(ctx context.Context, question, key string) QueryResult {
	llmCallsTotal.WithLabelValues("classify").Inc()
	relevant, err := s.classifier.Relevant(ctx, question)
	if err != nil {
		// The classifier is advisory: on failure, assume the question is
		// in-domain and let the agent try.
		if s.logger != nil {
			s.logger.Warn("Relevance check failed, assuming relevant", "error", err, "question", question)
		}
		relevant = true
	}

	if !relevant {
		if s.logger != nil {
			s.logger.Info("Question declined as off-topic", "question", question)
		}
		s.responses.Set(key, declineResponse)
		return QueryResult{Text: declineResponse, Outcome: OutcomeDeclined}
	}

	llmCallsTotal.WithLabelValues("agent").Inc()
	result, err := s.agent.Ask(ctx, question)
	if err != nil {
		if llm.IsQuota(err) {
			if s.logger != nil {
				s.logger.Warn("Agent run hit quota limit", "error", err, "question", question)
			}
			s.responses.Set(key, quotaResponse)
			return QueryResult{Text: quotaResponse, Outcome: OutcomeQuota}
		}
		if s.logger != nil {
			s.logger.Error("Agent run failed", "error", err, "question", question)
		}
		s.responses.Set(key, genericResponse)
		return QueryResult{Text: genericResponse, Outcome: OutcomeError}
	}

	if sql, ok := agent.ExtractSQL(result.Steps); ok && s.logger != nil {
		s.logger.Info("Agent executed SQL", "question", question, "sql", sql, "tool_calls", len(result.Steps))
	}

	text := finalizeAnswer(result.Text)
	if text == "" {
		s.responses.Set(key, genericResponse)
		return QueryResult{Text: genericResponse, Outcome: OutcomeError}
	}

	s.responses.Set(key, text)
	return QueryResult{Text: text, Outcome: OutcomeAnswered}
}

// isGreeting reports whether the message is a short greeting rather than a
// question: at most three words, at least one from the greeting vocabulary.
func isGreeting(message string) bool {
	words := strings.Fields(strings.ToLower(message))
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		w = strings.Trim(w, ".,!?")
		if greetingWords[w] {
			return true
		}
	}
	return false
}

// finalizeAnswer wraps bare numeric answers in a sentence so the response
// reads naturally; anything else passes through trimmed.
func finalizeAnswer(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if isNumericAnswer(trimmed) {
		return fmt.Sprintf("The result is %s.", trimmed)
	}
	return trimmed
}

// isNumericAnswer reports whether the text is a bare number once commas and
// spaces are stripped. Plain decimal notation only; exponent forms are treated
// as text.
func isNumericAnswer(text string) bool {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(text)
	if cleaned == "" {
		return false
	}
	for _, r := range cleaned {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' {
			return false
		}
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}

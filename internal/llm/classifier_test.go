package llm

import (
	"context"
	"fmt"
	"testing"

	"cargoquery/internal/cache"
)

func TestNewClassifierRequiresKey(t *testing.T) {
	if _, err := NewClassifier("", cache.New(0, 0), nil); err == nil {
		t.Fatal("Expected error for empty API key")
	}
}

func TestRelevantServesCachedAnswer(t *testing.T) {
	answers := cache.New(0, 0)
	classifier, err := NewClassifier("test-key", answers, nil)
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	// Pre-seed the answer cache so no API call is made
	question := "What was the net profit in 2024-25?"
	prompt := fmt.Sprintf(classifierPromptTemplate, question)
	answers.Set(cache.Key(prompt), "yes")

	relevant, err := classifier.Relevant(context.Background(), question)
	if err != nil {
		t.Fatalf("Expected cached answer, got error: %v", err)
	}
	if !relevant {
		t.Error("Expected cached 'yes' to report relevant")
	}

	answers.Set(cache.Key(prompt), "no")
	relevant, err = classifier.Relevant(context.Background(), question)
	if err != nil {
		t.Fatalf("Expected cached answer, got error: %v", err)
	}
	if relevant {
		t.Error("Expected cached 'no' to report not relevant")
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/llm"
	"github.com/octobees/place-finder/internal/service/scoring"
)

const (
	defaultNarrativeTimeout   = 30 * time.Second
	defaultNarrativeMaxTokens = 400
	defaultNarrativeTemp      = 0.7

	summaryInstruction = `You are a friendly local guide. Write a short summary (2-4 sentences) of the places found for the user's request.
Highlight standout attributes: rating, review volume, whether a place is open now, and which options look most suitable.
Do not list names, addresses, phone numbers or links verbatim; they are shown separately.
Answer in the same language and tone as the user's request.`

	emptyInstruction = `You are a friendly local guide. No places matched the user's request.
Apologize briefly, explain that nothing was found, and suggest how to rephrase or widen the search (another area, a broader category).
Keep it to 1-3 sentences. Answer in the same language and tone as the user's request.`
)

// ErrEmptyNarrative is returned when the backend produces no text.
var ErrEmptyNarrative = errors.New("narrative generation returned no text")

// NarrativeGenerator writes the natural-language part of a response.
type NarrativeGenerator interface {
	Summarize(ctx context.Context, places []entity.Place, prompt string) (string, error)
}

// NarratorOptions tunes the generation call.
type NarratorOptions struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Narrator implements NarrativeGenerator on a text-generation backend.
type Narrator struct {
	gen         llm.Generator
	timeout     time.Duration
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// NewNarrator wires a narrator.
func NewNarrator(gen llm.Generator, opts NarratorOptions, logger *zap.Logger) *Narrator {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultNarrativeTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultNarrativeMaxTokens
	}
	if opts.Temperature < 0 {
		opts.Temperature = defaultNarrativeTemp
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Narrator{
		gen:         gen,
		timeout:     opts.Timeout,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		logger:      logger.Named("narrator"),
	}
}

// Summarize describes places for prompt. An empty list produces the
// not-found apology instead. Every failure is returned to the caller.
func (n *Narrator) Summarize(ctx context.Context, places []entity.Place, prompt string) (string, error) {
	if n.gen == nil {
		return "", errors.New("no text generation backend configured")
	}

	req := llm.Request{
		Temperature: n.temperature,
		MaxTokens:   n.maxTokens,
	}
	if len(places) == 0 {
		req.System = emptyInstruction
		req.Prompt = "User request: " + strings.TrimSpace(prompt)
	} else {
		req.System = summaryInstruction
		req.Prompt = summaryPrompt(places, prompt)
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	text, err := n.gen.Generate(callCtx, req)
	if err != nil {
		return "", fmt.Errorf("generate narrative: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyNarrative
	}
	loggerFrom(ctx, n.logger).Debug("narrative generated",
		zap.Int("places", len(places)),
		zap.Int("length", len(text)),
	)
	return text, nil
}

// summaryPrompt lists the attributes worth summarizing, with suitability
// scores as relative hints.
func summaryPrompt(places []entity.Place, prompt string) string {
	var b strings.Builder
	b.WriteString("User request: ")
	b.WriteString(strings.TrimSpace(prompt))
	b.WriteString("\n\nPlaces found (in relevance order):\n")

	for i, p := range places {
		fmt.Fprintf(&b, "%d. %s", i+1, p.Name)
		if len(p.Categories) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(p.Categories, ", "))
		}
		if p.Rating != nil {
			b.WriteString("; rating ")
			b.WriteString(strconv.FormatFloat(*p.Rating, 'f', 1, 64))
		} else {
			b.WriteString("; no rating")
		}
		if p.RatingCount != nil {
			fmt.Fprintf(&b, " from %d reviews", *p.RatingCount)
		}
		fmt.Fprintf(&b, "; open now: %s", p.OpenState())
		if p.PriceLevel != nil {
			fmt.Fprintf(&b, "; price level %d/4", *p.PriceLevel)
		}
		score := scoring.Suitability(p)
		fmt.Fprintf(&b, "; suitability %d/100\n", score.Total)
	}
	return b.String()
}

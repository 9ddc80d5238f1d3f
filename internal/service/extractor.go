package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/lexicon"
	"github.com/octobees/place-finder/internal/llm"
)

const (
	defaultExtractTimeout   = 8 * time.Second
	defaultExtractMaxTokens = 256

	extractionInstruction = `You extract place-search intent from a user request.
Respond with exactly one JSON object and nothing else, using this shape:
{"place_names": [], "place_types": [], "locations": []}
- place_names: specific business or landmark names mentioned by the user.
- place_types: categories of places, in English where possible (e.g. "restaurant", "cafe", "pharmacy").
- locations: cities, districts or areas, lower-case.
Use empty arrays when nothing applies. Do not add explanations or markdown.`
)

// EntityExtractor turns free text into structured place intent.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) entity.ExtractedEntities
}

// ExtractorOptions tunes the generation call.
type ExtractorOptions struct {
	Timeout   time.Duration
	MaxTokens int
}

// Extractor asks a text-generation backend for entities and falls back to
// the lexicon heuristics when the call or the parse fails.
type Extractor struct {
	gen       llm.Generator
	lex       *lexicon.Lexicon
	timeout   time.Duration
	maxTokens int
	logger    *zap.Logger
}

// NewExtractor wires an extractor. A nil lexicon uses the defaults.
func NewExtractor(gen llm.Generator, lex *lexicon.Lexicon, opts ExtractorOptions, logger *zap.Logger) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultExtractTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultExtractMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		gen:       gen,
		lex:       lex,
		timeout:   opts.Timeout,
		maxTokens: opts.MaxTokens,
		logger:    logger.Named("extractor"),
	}
}

// Extract never fails: any backend or parse error yields the deterministic
// fallback result.
func (e *Extractor) Extract(ctx context.Context, text string) entity.ExtractedEntities {
	logger := loggerFrom(ctx, e.logger)

	if e.gen == nil {
		return FallbackExtract(text, e.lex)
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	out, err := e.gen.Generate(callCtx, llm.Request{
		System:      extractionInstruction,
		Prompt:      text,
		Temperature: 0,
		MaxTokens:   e.maxTokens,
		JSON:        true,
	})
	if err != nil {
		logger.Warn("entity extraction call failed, using fallback", zap.String("backend", e.gen.Name()), zap.Error(err))
		return FallbackExtract(text, e.lex)
	}

	obj, strategy, err := parseJSONObject(out)
	if err != nil {
		logger.Warn("entity extraction output unparseable, using fallback", zap.Int("output_len", len(out)), zap.Error(err))
		return FallbackExtract(text, e.lex)
	}
	logger.Debug("entity extraction parsed", zap.String("strategy", strategy))

	return entitiesFromObject(obj).normalize(e.lex)
}

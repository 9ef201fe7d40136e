package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoProviderConfigured means no AI provider key is available. Formatting
// is an optional enhancement; callers surface this and carry on.
var ErrNoProviderConfigured = errors.New("no AI provider key configured")

const (
	anthropicModel  = "claude-3-haiku-20240307"
	openAIModel     = "gpt-4o-mini"
	formatMaxTokens = 4096
)

const formatInstructions = `Format this raw text into clean, readable HTML for a blog post. Apply these rules:

1. Use <h2> for main section headings
2. Use <h3> for sub-sections
3. Use <strong> for important terms and labels (e.g., <strong>Location:</strong>)
4. Use <em> for emphasis and quotes
5. Wrap paragraphs in <p> tags
6. Format lists properly:
   - Use <ul><li>...</li></ul> for bullet lists
   - Use <ol><li>...</li></ol> for numbered lists
7. Use <blockquote><p>...</p></blockquote> for quotes
8. Use <hr> for section dividers where appropriate
9. Keep content concise and scannable
10. Preserve all original information
11. For links use <a href="url">text</a>
12. Do NOT include <html>, <head>, <body> tags - just the content HTML

Return ONLY the formatted HTML, no explanations or code blocks.

Raw text to format:
`

// FormatterSettings selects and authenticates the formatting providers.
type FormatterSettings struct {
	AnthropicKey      string
	OpenAIKey         string
	PreferredProvider string // "anthropic" or "openai"; anthropic by default
}

// Formatter is the optional AI text-formatting collaborator. It is strictly
// best-effort: a failure is reported to the caller and the original content
// is left untouched; saving a post never depends on it.
type Formatter struct {
	primary      llms.Model
	fallback     llms.Model
	primaryName  string
	fallbackName string
	logger       zerolog.Logger
}

// NewFormatter builds a formatter from whichever provider keys are present,
// trying the preferred provider first and falling back to the other.
func NewFormatter(settings FormatterSettings, logger zerolog.Logger) (*Formatter, error) {
	var (
		anthropicLLM llms.Model
		openAILLM    llms.Model
		err          error
	)

	if settings.AnthropicKey != "" {
		anthropicLLM, err = anthropic.New(
			anthropic.WithToken(settings.AnthropicKey),
			anthropic.WithModel(anthropicModel),
		)
		if err != nil {
			return nil, err
		}
	}
	if settings.OpenAIKey != "" {
		openAILLM, err = openai.New(
			openai.WithToken(settings.OpenAIKey),
			openai.WithModel(openAIModel),
		)
		if err != nil {
			return nil, err
		}
	}

	if anthropicLLM == nil && openAILLM == nil {
		return nil, ErrNoProviderConfigured
	}

	if settings.PreferredProvider == "openai" && openAILLM != nil {
		return newFormatter(openAILLM, "openai", anthropicLLM, "anthropic", logger), nil
	}
	if anthropicLLM != nil {
		return newFormatter(anthropicLLM, "anthropic", openAILLM, "openai", logger), nil
	}
	return newFormatter(openAILLM, "openai", nil, "", logger), nil
}

func newFormatter(primary llms.Model, primaryName string, fallback llms.Model, fallbackName string, logger zerolog.Logger) *Formatter {
	return &Formatter{
		primary:      primary,
		fallback:     fallback,
		primaryName:  primaryName,
		fallbackName: fallbackName,
		logger:       logger,
	}
}

// Format sends the raw content through the fixed instruction template and
// returns the formatted markup. On primary failure the other provider is
// tried once; there are no retries beyond that.
func (f *Formatter) Format(ctx context.Context, content string) (string, error) {
	prompt := formatInstructions + content

	out, err := llms.GenerateFromSinglePrompt(ctx, f.primary, prompt, llms.WithMaxTokens(formatMaxTokens))
	if err != nil && f.fallback != nil {
		f.logger.Warn().Err(err).
			Str("provider", f.primaryName).
			Str("fallback", f.fallbackName).
			Msg("preferred formatting provider failed, trying fallback")
		out, err = llms.GenerateFromSinglePrompt(ctx, f.fallback, prompt, llms.WithMaxTokens(formatMaxTokens))
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

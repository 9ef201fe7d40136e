package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.lastPrompt = text.Text
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func TestFormatUsesPrimary(t *testing.T) {
	primary := &fakeModel{reply: "  <p>formatted</p>\n"}
	fallback := &fakeModel{reply: "<p>other</p>"}
	f := newFormatter(primary, "anthropic", fallback, "openai", zerolog.Nop())

	out, err := f.Format(context.Background(), "raw words")
	require.NoError(t, err)

	assert.Equal(t, "<p>formatted</p>", out, "output is trimmed")
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls, "fallback untouched when primary succeeds")
	assert.True(t, strings.HasSuffix(primary.lastPrompt, "raw words"), "content goes at the end of the instruction template")
	assert.Contains(t, primary.lastPrompt, "Format this raw text")
}

func TestFormatFallsBackOnce(t *testing.T) {
	primary := &fakeModel{err: errors.New("rate limited")}
	fallback := &fakeModel{reply: "<p>rescued</p>"}
	f := newFormatter(primary, "anthropic", fallback, "openai", zerolog.Nop())

	out, err := f.Format(context.Background(), "raw")
	require.NoError(t, err)

	assert.Equal(t, "<p>rescued</p>", out)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestFormatBothProvidersFail(t *testing.T) {
	primaryErr := errors.New("primary down")
	fallbackErr := errors.New("fallback down")
	f := newFormatter(&fakeModel{err: primaryErr}, "anthropic", &fakeModel{err: fallbackErr}, "openai", zerolog.Nop())

	_, err := f.Format(context.Background(), "raw")
	assert.ErrorIs(t, err, fallbackErr, "the last failure is reported")
}

func TestFormatNoFallbackConfigured(t *testing.T) {
	primaryErr := errors.New("primary down")
	f := newFormatter(&fakeModel{err: primaryErr}, "anthropic", nil, "", zerolog.Nop())

	_, err := f.Format(context.Background(), "raw")
	assert.ErrorIs(t, err, primaryErr)
}

func TestNewFormatterRequiresAKey(t *testing.T) {
	_, err := NewFormatter(FormatterSettings{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoProviderConfigured)
}

package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatQuoteNumber(t *testing.T) {
	at := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	number, err := FormatQuoteNumber(DefaultQuoteNumberTemplate, at, 7)
	require.NoError(t, err)
	assert.Equal(t, "Q-2026-0007", number)

	number, err = FormatQuoteNumber(DefaultQuoteNumberTemplate, at, 12345)
	require.NoError(t, err)
	assert.Equal(t, "Q-2026-12345", number, "sequence wider than the pad is not truncated")
}

func TestFormatQuoteNumberRejectsBadInput(t *testing.T) {
	at := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, err := FormatQuoteNumber("", at, 1)
	assert.Error(t, err)

	_, err = FormatQuoteNumber(DefaultQuoteNumberTemplate, at, 0)
	assert.Error(t, err)

	_, err = FormatQuoteNumber("Q-{NOPE}", at, 1)
	assert.Error(t, err)
}

package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatWorkerContext_RendersRoleLines(t *testing.T) {
	logs := []WorkerLog{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
	}

	got := FormatWorkerContext(logs, 10, 1000)

	assert.Equal(t, "[user]: a\n[assistant]: b", got)
}

func TestFormatWorkerContext_KeepsOnlyTail(t *testing.T) {
	logs := []WorkerLog{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "second"},
		{Role: "assistant", Content: "third"},
	}

	got := FormatWorkerContext(logs, 2, 1000)

	assert.Equal(t, "[assistant]: second\n[assistant]: third", got)
}

func TestFormatWorkerContext_TruncatesLongMessages(t *testing.T) {
	logs := []WorkerLog{
		{Role: "assistant", Content: strings.Repeat("x", 50)},
	}

	got := FormatWorkerContext(logs, 10, 20)

	assert.Equal(t, "[assistant]: "+strings.Repeat("x", 20), got)
}

func TestFormatWorkerContext_TruncationKeepsValidUTF8(t *testing.T) {
	logs := []WorkerLog{
		{Role: "assistant", Content: strings.Repeat("é", 10)},
	}

	// The cap lands in the middle of a two-byte rune.
	got := FormatWorkerContext(logs, 10, 5)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "[assistant]: éé", got)
}

func TestFormatWorkerContext_Empty(t *testing.T) {
	assert.Equal(t, "", FormatWorkerContext(nil, 10, 1000))
}

func TestFormatWorkerContext_ZeroCapsFallBackToDefaults(t *testing.T) {
	logs := []WorkerLog{{Role: "user", Content: "hello"}}

	got := FormatWorkerContext(logs, 0, 0)

	assert.Equal(t, "[user]: hello", got)
}

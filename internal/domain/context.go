package domain

import (
	"strings"
	"unicode/utf8"
)

// Defaults for worker context formatting.
const (
	DefaultContextMessages = 10   // Last N messages carried into the next spawn
	DefaultContextCharCap  = 1000 // Per-message truncation cap
)

// FormatWorkerContext renders the tail of a worker transcript as a linear
// "[role]: content" text block, one message per line. The result seeds the
// prompt of the next worker spawned for the same task after a pause or
// respawn. Messages beyond charCap bytes are cut at the nearest rune boundary
// at or below the cap, so truncation never produces invalid UTF-8.
func FormatWorkerContext(logs []WorkerLog, messages, charCap int) string {
	if len(logs) == 0 {
		return ""
	}
	if messages <= 0 {
		messages = DefaultContextMessages
	}
	if charCap <= 0 {
		charCap = DefaultContextCharCap
	}
	if len(logs) > messages {
		logs = logs[len(logs)-messages:]
	}

	lines := make([]string, 0, len(logs))
	for _, entry := range logs {
		content := entry.Content
		if len(content) > charCap {
			cut := charCap
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut]
		}
		lines = append(lines, "["+entry.Role+"]: "+content)
	}
	return strings.Join(lines, "\n")
}

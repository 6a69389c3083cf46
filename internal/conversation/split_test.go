package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "fits",
			text:  "short",
			limit: 10,
			want:  []string{"short"},
		},
		{
			name:  "splits on lines",
			text:  "aaaa\nbbbb\ncccc",
			limit: 10,
			want:  []string{"aaaa\nbbbb", "cccc"},
		},
		{
			name:  "hard splits a long line",
			text:  "abcdefghij",
			limit: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:  "counts astral runes twice",
			text:  "😀😀😀",
			limit: 4,
			want:  []string{"😀😀", "😀"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitMessage(tt.text, tt.limit))
		})
	}
}

func TestSplitMessage_RespectsLimit(t *testing.T) {
	text := strings.Repeat("🔹 Заказ #1 ━━━━━━━━━━\n", 500)

	chunks := splitMessage(text, maxMessageLen)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf16Len(c), maxMessageLen)
	}
	assert.Equal(t, strings.TrimRight(text, "\n"), strings.Join(chunks, "\n"))
}

package conversation

import "strings"

// maxMessageLen stays under Telegram's 4096 UTF-16 unit limit
const maxMessageLen = 4000

// utf16Len counts UTF-16 code units, which is how Telegram measures length
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// cutUTF16 splits s so that head holds at most limit UTF-16 units
func cutUTF16(s string, limit int) (head, rest string) {
	n := 0
	for i, r := range s {
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		if n+w > limit {
			return s[:i], s[i:]
		}
		n += w
	}
	return s, ""
}

// splitMessage breaks text into chunks of at most limit units, preferring line
// boundaries. Lines longer than limit are cut mid-line.
func splitMessage(text string, limit int) []string {
	if utf16Len(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if chunk := strings.TrimRight(cur.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf16Len(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			var head string
			head, line = cutUTF16(line, limit)
			chunks = append(chunks, head)
			n = utf16Len(line)
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()

	return chunks
}

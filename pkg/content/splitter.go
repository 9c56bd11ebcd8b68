package content

import "strings"

// SplitText splits a long string into chunks of approximately chunkSize runes,
// repeating overlap runes at each boundary to preserve context.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if chunkSize <= 0 || totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == totalLen {
			break
		}
	}

	return chunks
}

// SplitParagraphs breaks text on blank lines and packs consecutive paragraphs
// into chunks of at most maxRunes. A paragraph longer than maxRunes is cut with
// SplitText. Empty input yields no chunks.
func SplitParagraphs(text string, maxRunes int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, p := range paragraphs {
		n := len([]rune(p))
		if maxRunes > 0 && n > maxRunes {
			flush()
			chunks = append(chunks, SplitText(p, maxRunes, 0)...)
			continue
		}
		if maxRunes > 0 && size > 0 && size+2+n > maxRunes {
			flush()
		}
		if size > 0 {
			current.WriteString("\n\n")
			size += 2
		}
		current.WriteString(p)
		size += n
	}
	flush()

	return chunks
}

package gtts

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxChunkRunes is the longest text the translate_tts endpoint accepts per request.
const maxChunkRunes = 100

func isBoundary(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '\n', '¡', '¿', '。', '，', '、', '！', '？', '；', '：', '…':
		return true
	}
	return false
}

// tokenize splits text into request-sized chunks, preferring punctuation and then whitespace.
func tokenize(text string, max int) []string {
	var chunks []string
	for _, piece := range splitOnPunctuation(text) {
		for utf8.RuneCountInString(piece) > max {
			head, tail := splitAtWhitespace(piece, max)
			if head = strings.TrimSpace(head); head != "" {
				chunks = append(chunks, head)
			}
			piece = strings.TrimSpace(tail)
		}
		if piece = strings.TrimSpace(piece); piece != "" && !onlyPunctuation(piece) {
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

func splitOnPunctuation(text string) []string {
	var pieces []string
	start := 0
	for i, r := range text {
		if isBoundary(r) {
			end := i + utf8.RuneLen(r)
			pieces = append(pieces, text[start:end])
			start = end
		}
	}
	if start < len(text) {
		pieces = append(pieces, text[start:])
	}
	return pieces
}

// splitAtWhitespace cuts s at the last space within the first max runes, or hard at max.
func splitAtWhitespace(s string, max int) (string, string) {
	cut, lastSpace, n := len(s), -1, 0
	for i, r := range s {
		if n == max {
			cut = i
			break
		}
		if unicode.IsSpace(r) {
			lastSpace = i
		}
		n++
	}
	if lastSpace > 0 {
		return s[:lastSpace], s[lastSpace:]
	}
	return s[:cut], s[cut:]
}

func onlyPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

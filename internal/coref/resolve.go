package coref

import (
	"strings"
	"unicode"
)

// Token is a word of the document as tokenized by the coreference backend
type Token struct {
	Text string `json:"text"`
	Pos  string `json:"pos"`
}

// Chain is one coreference chain: the antecedent mention plus every other
// mention referring to it. Mentions are groups of token indices into the
// document token slice.
type Chain struct {
	Main     []int   `json:"main"`
	Mentions [][]int `json:"mentions"`
}

// Apply rewrites the document text with pronoun mentions replaced by their
// chain's antecedent text. Only PRON tokens are replaced. The replacement's
// case follows the pronoun's case class: title-case pronoun gets a
// capitalized antecedent, all-upper pronoun an upper-cased one, anything
// else is left as-is.
func Apply(tokens []Token, chains []Chain) string {
	replacements := make(map[int]string)

	for _, chain := range chains {
		main := mentionText(tokens, chain.Main)
		if main == "" {
			continue
		}
		for _, mention := range chain.Mentions {
			for _, idx := range mention {
				if idx < 0 || idx >= len(tokens) {
					continue
				}
				if tokens[idx].Pos == "PRON" {
					replacements[idx] = matchCase(tokens[idx].Text, main)
				}
			}
		}
	}

	var b strings.Builder
	for i, tok := range tokens {
		text := tok.Text
		if repl, ok := replacements[i]; ok {
			text = repl
		}
		if i > 0 && gluesLeft(text) {
			// possessives and closing punctuation attach to the previous token
			trimmed := strings.TrimRight(b.String(), " ")
			b.Reset()
			b.WriteString(trimmed)
		} else if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String())
}

func mentionText(tokens []Token, mention []int) string {
	parts := make([]string, 0, len(mention))
	for _, idx := range mention {
		if idx >= 0 && idx < len(tokens) {
			parts = append(parts, tokens[idx].Text)
		}
	}
	return strings.Join(parts, " ")
}

// matchCase transforms the replacement to the pronoun's case class
func matchCase(pronoun, replacement string) string {
	switch {
	case isTitle(pronoun):
		return capitalize(replacement)
	case isUpper(pronoun):
		return strings.ToUpper(replacement)
	default:
		return replacement
	}
}

func isTitle(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func gluesLeft(text string) bool {
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, "'") || strings.HasPrefix(text, "’") {
		return true
	}
	switch text {
	case ".", ",", "!", "?", ";", ":", ")", "%":
		return true
	}
	return false
}

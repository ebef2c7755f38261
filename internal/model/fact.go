package model

import "strings"

// Fact represents a subject–predicate–object assertion extracted from a
// dependency parse. Facts coming out of the extractor may still bundle
// several pieces of information (multiple prepositional fragments, comma
// lists); the atomic splitter reduces them to one piece each.
type Fact struct {
	Subject       string   `json:"subject"`
	Predicate     string   `json:"predicate"`
	Object        string   `json:"object,omitempty"`         // direct-object fragment
	PrepFragments []string `json:"prep_fragments,omitempty"` // "<Prep> <expanded object>" fragments
	Sentence      int      `json:"sentence"`                 // sentence index in source (0-based)
}

// IsValid reports whether the fact carries the minimum structure required
// for it to survive the atomicity gate.
func (f Fact) IsValid() bool {
	return f.Subject != "" && f.Predicate != ""
}

// Clone returns a copy of the fact with its own prep fragment slice, so
// split passes never alias the original.
func (f Fact) Clone() Fact {
	c := f
	if len(f.PrepFragments) > 0 {
		c.PrepFragments = make([]string, len(f.PrepFragments))
		copy(c.PrepFragments, f.PrepFragments)
	}
	return c
}

// Render builds the claim text from the fact components: subject, predicate,
// object fragment and prepositional fragments, space-joined, with trailing
// punctuation trimmed. The rendering is deterministic.
func (f Fact) Render() string {
	parts := make([]string, 0, 3+len(f.PrepFragments))
	parts = append(parts, f.Subject, f.Predicate)
	if f.Object != "" {
		parts = append(parts, f.Object)
	}
	for _, p := range f.PrepFragments {
		if p != "" {
			parts = append(parts, p)
		}
	}
	text := strings.Join(parts, " ")
	text = strings.TrimRight(text, " .,;:!?")
	return strings.TrimSpace(text)
}

// Claim is an atomic claim rendered from a fact, immutable once produced.
type Claim struct {
	Text     string  `json:"text"`               // the claim text itself
	Sentence int     `json:"sentence"`           // source sentence index (0-based)
	Weight   float64 `json:"weight"`             // informativeness weight (set by the scorer)
	Selected bool    `json:"selected,omitempty"` // whether the core-set selector retained it
}

// NewClaim renders a fact into a claim, preserving its source sentence index.
func NewClaim(f Fact) Claim {
	return Claim{Text: f.Render(), Sentence: f.Sentence}
}

package atomic

import (
	"strings"

	"github.com/CogNetSys/dndscore/internal/model"
)

// relative markers that introduce a trailing relative clause inside an
// object fragment
var relativeMarkers = []string{" that ", " which "}

// auxiliaries recognized when re-analyzing a trailing relative clause
var auxiliaries = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "has": true, "have": true, "had": true,
	"will": true, "would": true, "can": true, "could": true, "may": true,
	"might": true, "must": true, "should": true, "shall": true, "did": true,
	"does": true, "do": true,
}

// Splitter reduces raw facts to atomic form: one subject, one predicate, at
// most one object fragment and at most one prepositional fragment per fact,
// with no comma lists, " and " coordinations, or relative markers left in
// any fragment. Pure function; facts are replaced, never edited in place.
type Splitter struct{}

// NewSplitter creates a new atomicity splitter
func NewSplitter() *Splitter {
	return &Splitter{}
}

// Split applies the recursive splitting passes to every fact and discards
// any result with an empty subject or predicate (the final atomicity gate).
func (s *Splitter) Split(facts []model.Fact) []model.Fact {
	var out []model.Fact
	for _, f := range facts {
		for _, atom := range s.splitFact(f) {
			if atom.IsValid() {
				out = append(out, atom)
			}
		}
	}
	return out
}

// splitFact recursively splits one fact. Each branch strictly reduces the
// count of split markers (comma segments, extra prep fragments, " and "
// occurrences, relative markers), so the recursion terminates.
func (s *Splitter) splitFact(f model.Fact) []model.Fact {
	// 1. comma-separated object fragment
	if segments := commaSegments(f.Object); len(segments) > 1 {
		var out []model.Fact
		for _, seg := range segments {
			next := f.Clone()
			next.Object = seg
			out = append(out, s.splitFact(next)...)
		}
		return out
	}

	// 1b. comma-separated prepositional fragment
	for i, frag := range f.PrepFragments {
		if segments := commaSegments(frag); len(segments) > 1 {
			var out []model.Fact
			for _, seg := range segments {
				next := f.Clone()
				next.PrepFragments[i] = seg
				out = append(out, s.splitFact(next)...)
			}
			return out
		}
	}

	// 2. multiple prepositional fragments
	if len(f.PrepFragments) > 1 {
		var out []model.Fact
		for _, frag := range f.PrepFragments {
			next := f.Clone()
			next.PrepFragments = []string{frag}
			out = append(out, s.splitFact(next)...)
		}
		return out
	}

	// 3. literal " and " coordination, object fragment first
	if strings.Contains(f.Object, " and ") {
		var out []model.Fact
		for _, part := range splitAnd(f.Object) {
			next := f.Clone()
			next.Object = part
			out = append(out, s.splitFact(next)...)
		}
		return out
	}
	if len(f.PrepFragments) == 1 && strings.Contains(f.PrepFragments[0], " and ") {
		var out []model.Fact
		for _, part := range splitAnd(f.PrepFragments[0]) {
			next := f.Clone()
			next.PrepFragments = []string{part}
			out = append(out, s.splitFact(next)...)
		}
		return out
	}

	// 4. trailing relative clause in the object fragment
	if head, trailing, ok := splitRelative(f.Object); ok {
		main := f.Clone()
		main.Object = head

		out := s.splitFact(main)
		if secondary, ok := s.relativeClauseFact(f, head, trailing); ok {
			out = append(out, s.splitFact(secondary)...)
		}
		return out
	}

	// 5. already atomic
	return []model.Fact{f}
}

// relativeClauseFact re-analyzes the trailing segment of a relative clause
// as an independent clause: the head segment becomes the subject, the
// leading verb (plus auxiliary) the predicate, the remainder the object.
func (s *Splitter) relativeClauseFact(src model.Fact, head, trailing string) (model.Fact, bool) {
	words := strings.Fields(trailing)
	if len(words) == 0 {
		return model.Fact{}, false
	}

	predicate := words[0]
	rest := words[1:]
	if auxiliaries[strings.ToLower(words[0])] && len(words) > 1 {
		predicate = words[0] + " " + words[1]
		rest = words[2:]
	}

	fact := model.Fact{
		Subject:   strings.TrimSpace(head),
		Predicate: strings.ToLower(predicate),
		Object:    strings.Join(rest, " "),
		Sentence:  src.Sentence,
	}
	return fact, fact.IsValid()
}

// commaSegments splits a fragment on commas and returns the trimmed
// non-empty segments
func commaSegments(fragment string) []string {
	if !strings.Contains(fragment, ",") {
		return nil
	}
	var segments []string
	for _, seg := range strings.Split(fragment, ",") {
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

// splitAnd splits a fragment on the literal coordinator. This is
// syntax-blind: a proper name containing " and " is split too (known
// limitation, inherited from the extraction heuristic).
func splitAnd(fragment string) []string {
	var parts []string
	for _, part := range strings.Split(fragment, " and ") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// splitRelative splits an object fragment at the first relative marker,
// returning the head segment and the trailing clause
func splitRelative(fragment string) (head, trailing string, ok bool) {
	idx := -1
	width := 0
	for _, marker := range relativeMarkers {
		if i := strings.Index(fragment, marker); i >= 0 && (idx == -1 || i < idx) {
			idx = i
			width = len(marker)
		}
	}
	if idx < 0 {
		return "", "", false
	}
	head = strings.TrimSpace(fragment[:idx])
	trailing = strings.TrimSpace(fragment[idx+width:])
	if head == "" || trailing == "" {
		// degenerate marker position; drop the marker rather than loop
		return strings.TrimSpace(strings.Replace(fragment, fragment[idx:idx+width], " ", 1)), "", false
	}
	return head, trailing, true
}

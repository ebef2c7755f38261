package extract

import (
	"strings"

	"github.com/CogNetSys/dndscore/internal/model"
	"github.com/CogNetSys/dndscore/internal/parse"
)

// nominal POS tags allowed as prepositional object heads
func isNominal(pos string) bool {
	switch pos {
	case "NOUN", "PROPN", "ADJ", "PRON":
		return true
	}
	return false
}

func isVerbal(pos string) bool {
	return pos == "VERB" || pos == "AUX"
}

// relative pronouns that stand in for the clause's antecedent
func isRelativePronoun(text string) bool {
	switch strings.ToLower(text) {
	case "that", "which", "who", "whom":
		return true
	}
	return false
}

// FactExtractor turns dependency parse trees into raw (possibly non-atomic)
// subject–predicate–object facts. It is stateless and side-effect-free; the
// subject carry-over for serial clauses is threaded through each call, never
// stored on the extractor.
type FactExtractor struct{}

// NewFactExtractor creates a new fact extractor
func NewFactExtractor() *FactExtractor {
	return &FactExtractor{}
}

// Extract walks the clause trees of one sentence and returns its raw facts
// in discovery order. A sentence whose root is not a finite verb contributes
// zero facts; that is a normal outcome, not an error.
func (e *FactExtractor) Extract(tree *parse.Tree, sentence int) []model.Fact {
	var facts []model.Fact
	lastSubject := ""

	for _, root := range tree.Roots() {
		if !isVerbal(tree.Token(root).Pos) {
			continue
		}
		facts, lastSubject = e.clause(tree, root, sentence, lastSubject, facts)
	}
	return facts
}

// clause extracts the fact rooted at a finite verb, plus facts for its
// relative clauses and conjunct verbs. Returns the grown fact list and the
// updated subject carry-over.
func (e *FactExtractor) clause(tree *parse.Tree, verb, sentence int, lastSubject string, facts []model.Fact) ([]model.Fact, string) {
	predicate := e.predicate(tree, verb)

	subject := e.subject(tree, verb)
	if subject == "" {
		subject = lastSubject
	}
	if subject != "" {
		lastSubject = subject
	}

	main := model.Fact{
		Subject:       strings.Trim(subject, ","),
		Predicate:     predicate,
		Object:        e.objectFragment(tree, verb),
		PrepFragments: e.prepFragments(tree, verb),
		Sentence:      sentence,
	}
	if main.IsValid() {
		facts = append(facts, main)
	}

	// relative clauses attached to the verb yield secondary facts
	for _, rel := range tree.ChildrenByDep(verb, "relcl") {
		if fact, ok := e.relativeFact(tree, rel, sentence, lastSubject); ok {
			facts = append(facts, fact)
		}
	}

	// conjunct verbs share the clause's subject; it is inherited, not re-derived
	for _, conj := range tree.ChildrenByDep(verb, "conj") {
		if !isVerbal(tree.Token(conj).Pos) {
			continue
		}
		facts, lastSubject = e.conjunctClause(tree, conj, sentence, lastSubject, facts)
	}

	return facts, lastSubject
}

// conjunctClause re-runs predicate/object/prep extraction at a conjunct verb
// with the carried subject, then follows further conjuncts in the chain.
func (e *FactExtractor) conjunctClause(tree *parse.Tree, verb, sentence int, lastSubject string, facts []model.Fact) ([]model.Fact, string) {
	// a conjunct with its own explicit subject starts a fresh clause
	if subj := e.subject(tree, verb); subj != "" {
		return e.clause(tree, verb, sentence, lastSubject, facts)
	}

	fact := model.Fact{
		Subject:       strings.Trim(lastSubject, ","),
		Predicate:     e.predicate(tree, verb),
		Object:        e.objectFragment(tree, verb),
		PrepFragments: e.prepFragments(tree, verb),
		Sentence:      sentence,
	}
	if fact.IsValid() {
		facts = append(facts, fact)
	}

	for _, rel := range tree.ChildrenByDep(verb, "relcl") {
		if relFact, ok := e.relativeFact(tree, rel, sentence, lastSubject); ok {
			facts = append(facts, relFact)
		}
	}

	for _, conj := range tree.ChildrenByDep(verb, "conj") {
		if !isVerbal(tree.Token(conj).Pos) {
			continue
		}
		facts, lastSubject = e.conjunctClause(tree, conj, sentence, lastSubject, facts)
	}

	return facts, lastSubject
}

// relativeFact extracts a secondary fact from a relative clause. A relative
// pronoun subject ("that", "which") stands in for the clause's antecedent,
// so the carried subject replaces it.
func (e *FactExtractor) relativeFact(tree *parse.Tree, verb, sentence int, lastSubject string) (model.Fact, bool) {
	subject := ""
	for _, s := range tree.ChildrenByDep(verb, "nsubj", "nsubjpass") {
		if isRelativePronoun(tree.Token(s).Text) {
			subject = lastSubject
		} else {
			subject = e.withLeftModifiers(tree, s)
		}
		break
	}
	if subject == "" {
		subject = lastSubject
	}

	fact := model.Fact{
		Subject:       strings.Trim(subject, ","),
		Predicate:     e.predicate(tree, verb),
		Object:        e.objectFragment(tree, verb),
		PrepFragments: e.prepFragments(tree, verb),
		Sentence:      sentence,
	}
	return fact, fact.IsValid()
}

// predicate is the verb plus its auxiliary children in surface order,
// lower-cased
func (e *FactExtractor) predicate(tree *parse.Tree, verb int) string {
	var parts []string
	for _, aux := range tree.ChildrenByDep(verb, "aux", "auxpass") {
		parts = append(parts, tree.Token(aux).Text)
	}
	parts = append(parts, tree.Token(verb).Text)
	return strings.ToLower(strings.Join(parts, " "))
}

// subject is the nearest nominal-subject child with its left modifiers, or
// empty when the clause has no explicit subject
func (e *FactExtractor) subject(tree *parse.Tree, verb int) string {
	for _, s := range tree.ChildrenByDep(verb, "nsubj", "nsubjpass") {
		return e.withLeftModifiers(tree, s)
	}
	return ""
}

// withLeftModifiers prefixes a head token with its determiner, adjectival,
// compound and appositive left modifiers in left-to-right order
func (e *FactExtractor) withLeftModifiers(tree *parse.Tree, head int) string {
	var mods []string
	for _, l := range tree.Lefts(head) {
		switch tree.Token(l).Dep {
		case "det", "amod", "compound", "appos":
			mods = append(mods, tree.Token(l).Text)
		}
	}
	if len(mods) == 0 {
		return tree.Token(head).Text
	}
	return strings.Join(mods, " ") + " " + tree.Token(head).Text
}

// objectFragment joins the expanded direct-object-like children of the verb.
// Multiple objects are comma-joined; the atomic splitter takes them apart.
func (e *FactExtractor) objectFragment(tree *parse.Tree, verb int) string {
	var objects []string
	for _, obj := range tree.ChildrenByDep(verb, "dobj", "attr", "oprd", "iobj") {
		objects = append(objects, e.expandPhrase(tree, obj))
	}
	return strings.Join(objects, ", ")
}

// prepFragments builds one "<Capitalized preposition> <expanded object>"
// fragment per prepositional child of the verb
func (e *FactExtractor) prepFragments(tree *parse.Tree, verb int) []string {
	var frags []string
	for _, prep := range tree.ChildrenByDep(verb, "prep") {
		for _, pobj := range tree.ChildrenByDep(prep, "pobj") {
			if isNominal(tree.Token(pobj).Pos) {
				frags = append(frags, capitalizeFirst(tree.Token(prep).Text)+" "+e.expandPhrase(tree, pobj))
			}
		}
	}
	return frags
}

// expandPhrase recursively extends a head token into its full noun phrase:
// left modifiers first, then each nested prepositional complement. Recursion
// depth is bounded by the parse tree depth.
func (e *FactExtractor) expandPhrase(tree *parse.Tree, head int) string {
	phrase := e.withLeftModifiers(tree, head)
	for _, prep := range tree.ChildrenByDep(head, "prep") {
		for _, pobj := range tree.ChildrenByDep(prep, "pobj") {
			if isNominal(tree.Token(pobj).Pos) {
				phrase += " " + tree.Token(prep).Text + " " + e.expandPhrase(tree, pobj)
			}
		}
	}
	return phrase
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package parse

import "fmt"

// Token is one node of a dependency parse. Tokens live in a per-sentence
// arena and reference each other by integer index, never by pointer.
type Token struct {
	ID   int    `json:"id"`   // index in the sentence, starting at 0
	Text string `json:"text"` // the unmodified word
	Pos  string `json:"pos"`  // coarse POS tag (VERB, NOUN, PROPN, ADJ, PRON, AUX, ...)
	Tag  string `json:"tag"`  // detailed POS tag, optional
	Dep  string `json:"dep"`  // dependency relation label (ROOT, nsubj, dobj, prep, ...)
	Head int    `json:"head"` // parent index; -1 for a root (a head equal to the
	// token's own index is also treated as a root)
}

// Tree is a dependency parse for one sentence, backed by a token arena with
// precomputed ordered child lists.
type Tree struct {
	tokens   []Token
	children [][]int
	roots    []int
}

// NewTree builds a tree from an arena of tokens, validating head indices and
// normalizing self-referencing heads to -1.
func NewTree(tokens []Token) (*Tree, error) {
	t := &Tree{
		tokens:   make([]Token, len(tokens)),
		children: make([][]int, len(tokens)),
	}
	copy(t.tokens, tokens)

	for i := range t.tokens {
		t.tokens[i].ID = i
		head := t.tokens[i].Head
		if head == i {
			head = -1
			t.tokens[i].Head = -1
		}
		if head < -1 || head >= len(t.tokens) {
			return nil, fmt.Errorf("token %d (%q): head %d out of range", i, t.tokens[i].Text, head)
		}
		if head == -1 {
			t.roots = append(t.roots, i)
		} else {
			t.children[head] = append(t.children[head], i)
		}
	}
	return t, nil
}

// Len returns the number of tokens in the tree.
func (t *Tree) Len() int { return len(t.tokens) }

// Token returns the token at the given index.
func (t *Tree) Token(id int) Token { return t.tokens[id] }

// Roots returns the root token indices in surface order.
func (t *Tree) Roots() []int { return t.roots }

// Children returns the ordered child indices of a token. Token indices follow
// surface order, so the child list is in surface order too.
func (t *Tree) Children(id int) []int { return t.children[id] }

// ChildrenByDep returns the children of a token whose dependency label
// matches any of the given labels, in surface order.
func (t *Tree) ChildrenByDep(id int, deps ...string) []int {
	var out []int
	for _, c := range t.children[id] {
		for _, d := range deps {
			if t.tokens[c].Dep == d {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Lefts returns the children of a token that precede it in surface order.
func (t *Tree) Lefts(id int) []int {
	var out []int
	for _, c := range t.children[id] {
		if c < id {
			out = append(out, c)
		}
	}
	return out
}

// HasFiniteRoot reports whether the tree has a verbal root, i.e. whether it
// forms a well-formed clause the extractor can work with.
func (t *Tree) HasFiniteRoot() bool {
	for _, r := range t.roots {
		if t.tokens[r].Pos == "VERB" || t.tokens[r].Pos == "AUX" {
			return true
		}
	}
	return false
}

package parse

import "testing"

func TestNewTreeValidation(t *testing.T) {
	_, err := NewTree([]Token{
		{Text: "a", Head: 5},
	})
	if err == nil {
		t.Error("expected error for out-of-range head")
	}

	_, err = NewTree([]Token{
		{Text: "a", Head: -2},
	})
	if err == nil {
		t.Error("expected error for head below -1")
	}
}

func TestNewTreeSelfHeadIsRoot(t *testing.T) {
	tree, err := NewTree([]Token{
		{Text: "runs", Pos: "VERB", Dep: "ROOT", Head: 0},
		{Text: "fast", Pos: "ADV", Dep: "advmod", Head: 0},
	})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	roots := tree.Roots()
	if len(roots) != 1 || roots[0] != 0 {
		t.Errorf("roots = %v, want [0]", roots)
	}
	if tree.Token(0).Head != -1 {
		t.Errorf("self-referencing head not normalized: %d", tree.Token(0).Head)
	}
}

func TestChildrenByDep(t *testing.T) {
	tree, err := NewTree([]Token{
		{Text: "She", Pos: "PRON", Dep: "nsubj", Head: 1},
		{Text: "gave", Pos: "VERB", Dep: "ROOT", Head: -1},
		{Text: "him", Pos: "PRON", Dep: "iobj", Head: 1},
		{Text: "books", Pos: "NOUN", Dep: "dobj", Head: 1},
	})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	objs := tree.ChildrenByDep(1, "dobj", "iobj")
	if len(objs) != 2 || objs[0] != 2 || objs[1] != 3 {
		t.Errorf("ChildrenByDep = %v, want [2 3]", objs)
	}

	if subj := tree.ChildrenByDep(1, "nsubj"); len(subj) != 1 || subj[0] != 0 {
		t.Errorf("nsubj children = %v, want [0]", subj)
	}

	if none := tree.ChildrenByDep(1, "prep"); len(none) != 0 {
		t.Errorf("unexpected prep children: %v", none)
	}
}

func TestLefts(t *testing.T) {
	tree, err := NewTree([]Token{
		{Text: "the", Pos: "DET", Dep: "det", Head: 2},
		{Text: "old", Pos: "ADJ", Dep: "amod", Head: 2},
		{Text: "house", Pos: "NOUN", Dep: "ROOT", Head: -1},
		{Text: "there", Pos: "ADV", Dep: "advmod", Head: 2},
	})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	lefts := tree.Lefts(2)
	if len(lefts) != 2 || lefts[0] != 0 || lefts[1] != 1 {
		t.Errorf("Lefts = %v, want [0 1]", lefts)
	}
}

func TestHasFiniteRoot(t *testing.T) {
	verbal, _ := NewTree([]Token{
		{Text: "runs", Pos: "VERB", Dep: "ROOT", Head: -1},
	})
	if !verbal.HasFiniteRoot() {
		t.Error("verbal root not recognized")
	}

	aux, _ := NewTree([]Token{
		{Text: "is", Pos: "AUX", Dep: "ROOT", Head: -1},
	})
	if !aux.HasFiniteRoot() {
		t.Error("auxiliary root not recognized")
	}

	nominal, _ := NewTree([]Token{
		{Text: "door", Pos: "NOUN", Dep: "ROOT", Head: -1},
	})
	if nominal.HasFiniteRoot() {
		t.Error("nominal root treated as finite")
	}
}

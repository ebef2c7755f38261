package ingest

import (
	"strings"
	"testing"
)

func TestVisibleText(t *testing.T) {
	html := `<html><head>
		<title>Bio</title>
		<style>body { color: red; }</style>
		<script>alert("hi");</script>
	</head><body>
		<h1>Al Pacino</h1>
		<p>Al Pacino is an American actor.</p>
		<noscript>Enable JavaScript.</noscript>
		<iframe src="x"></iframe>
	</body></html>`

	text, err := VisibleText(html)
	if err != nil {
		t.Fatalf("VisibleText: %v", err)
	}

	if !strings.Contains(text, "Al Pacino is an American actor.") {
		t.Errorf("body text missing: %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color: red") {
		t.Errorf("script or style text leaked: %q", text)
	}
	if strings.Contains(text, "Enable JavaScript") {
		t.Errorf("noscript text leaked: %q", text)
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Al Pacino is an actor. He was born in New York City. What a career!"
	sentences := SplitSentences(text)

	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "Al Pacino is an actor." {
		t.Errorf("sentence 0 = %q", sentences[0])
	}
	if sentences[2] != "What a career!" {
		t.Errorf("sentence 2 = %q", sentences[2])
	}
}

func TestSplitSentencesAbbreviations(t *testing.T) {
	// a period not followed by a space does not terminate the sentence
	text := "The constant is about 3.14 in value. The crowd cheered."
	sentences := SplitSentences(text)

	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if !strings.HasPrefix(sentences[0], "The constant is about 3.14") {
		t.Errorf("sentence 0 = %q", sentences[0])
	}
}

func TestSplitSentencesNoTerminator(t *testing.T) {
	sentences := SplitSentences("a trailing fragment without punctuation")
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %v", len(sentences), sentences)
	}
}

func TestSplitSentencesDropsFragments(t *testing.T) {
	// single-word fragments are not sentences
	sentences := SplitSentences("Menu. Home. Al Pacino is an actor.")
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "Al Pacino is an actor." {
		t.Errorf("sentence = %q", sentences[0])
	}
}

func TestSplitSentencesNewlines(t *testing.T) {
	sentences := SplitSentences("First line stops here.\nSecond line continues on.")
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
}

func TestSplitSentencesEmpty(t *testing.T) {
	if sentences := SplitSentences(""); len(sentences) != 0 {
		t.Errorf("expected no sentences, got %v", sentences)
	}
}

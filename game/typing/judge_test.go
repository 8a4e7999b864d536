package typing

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func typeKeys(s State, keys ...string) State {
	at := t0
	for _, k := range keys {
		at = at.Add(100 * time.Millisecond)
		s = Apply(s, k, at)
	}
	return s
}

func TestApply_RoundTrip(t *testing.T) {
	s := NewState(ModeMultiplayer, []string{"the", "cat"}, t0)
	s = typeKeys(s, "t", "h", "e", " ", "c", "a", "t", " ")

	if !s.Finished {
		t.Fatal("expected race to be finished")
	}
	if s.WordIndex != 2 {
		t.Errorf("expected word index 2, got %d", s.WordIndex)
	}
	if s.Errors != 0 {
		t.Errorf("expected 0 errors, got %d", s.Errors)
	}
	for i, row := range s.Chars {
		for j, c := range row {
			if c != Correct {
				t.Errorf("expected chars[%d][%d] correct, got %s", i, j, c)
			}
		}
	}
}

func TestApply_SkipAhead(t *testing.T) {
	s := NewState(ModeMultiplayer, []string{"cat", "dog"}, t0)
	s = typeKeys(s, "c", " ")

	if s.WordIndex != 1 || s.CharIndex != 0 {
		t.Errorf("expected cursor at word 1 char 0, got word %d char %d", s.WordIndex, s.CharIndex)
	}
	if s.Errors != 2 {
		t.Errorf("expected 2 errors from skipped characters, got %d", s.Errors)
	}
	if s.Chars[0][1] != Incorrect || s.Chars[0][2] != Incorrect {
		t.Errorf("expected skipped characters marked incorrect, got %v", s.Chars[0])
	}
	if s.Chars[0][0] != Correct {
		t.Errorf("expected typed character to stay correct, got %s", s.Chars[0][0])
	}
}

func TestApply_Backspace(t *testing.T) {
	t.Run("no-op at word start", func(t *testing.T) {
		s := NewState(ModeMultiplayer, []string{"cat"}, t0)
		next := Apply(s, KeyBackspace, t0)
		if next.CharIndex != 0 || next.Keystrokes != 0 {
			t.Errorf("expected state unchanged, got char %d keystrokes %d", next.CharIndex, next.Keystrokes)
		}
	})

	t.Run("resets character to pending", func(t *testing.T) {
		s := NewState(ModeMultiplayer, []string{"cat"}, t0)
		s = typeKeys(s, "x", KeyBackspace)
		if s.CharIndex != 0 {
			t.Errorf("expected char index 0, got %d", s.CharIndex)
		}
		if s.Chars[0][0] != Pending {
			t.Errorf("expected character reset to pending, got %s", s.Chars[0][0])
		}
		// The original mistake still counts.
		if s.Errors != 1 {
			t.Errorf("expected error count preserved, got %d", s.Errors)
		}
	})

	t.Run("does not cross word boundary", func(t *testing.T) {
		s := NewState(ModeMultiplayer, []string{"a", "b"}, t0)
		s = typeKeys(s, "a", " ", KeyBackspace)
		if s.WordIndex != 1 || s.CharIndex != 0 {
			t.Errorf("expected cursor at word 1 char 0, got word %d char %d", s.WordIndex, s.CharIndex)
		}
	})
}

func TestApply_LeadingSpaceIgnored(t *testing.T) {
	s := NewState(ModeMultiplayer, []string{"cat"}, t0)
	next := Apply(s, KeySpace, t0)
	if next.WordIndex != 0 || next.Keystrokes != 0 || next.Errors != 0 {
		t.Errorf("expected state unchanged, got %+v", next)
	}
}

func TestApply_ExtraCharsAfterWordIgnored(t *testing.T) {
	s := NewState(ModeMultiplayer, []string{"at", "on"}, t0)
	s = typeKeys(s, "a", "t", "z", "z")
	if s.CharIndex != 2 {
		t.Errorf("expected cursor held at end of word, got %d", s.CharIndex)
	}
	if s.Errors != 0 {
		t.Errorf("expected overflow characters ignored, got %d errors", s.Errors)
	}
}

func TestApply_InstantDeath(t *testing.T) {
	s := NewState(ModeInstantDeath, []string{"the", "cat", "dog"}, t0)
	s = typeKeys(s, "t", "x")

	if !s.Finished {
		t.Fatal("expected race finished on first incorrect character")
	}
	if s.Errors != 1 {
		t.Errorf("expected 1 error, got %d", s.Errors)
	}
	if s.FinishedAt.IsZero() {
		t.Error("expected FinishedAt set")
	}
}

func TestApply_WordCountFinishesOnLastChar(t *testing.T) {
	s := NewState(ModeWordCount, []string{"hi", "go"}, t0)
	s = typeKeys(s, "h", "i", " ", "g", "o")
	if !s.Finished {
		t.Fatal("expected word-count race finished without trailing space")
	}

	// Multiplayer needs the trailing space.
	m := NewState(ModeMultiplayer, []string{"hi", "go"}, t0)
	m = typeKeys(m, "h", "i", " ", "g", "o")
	if m.Finished {
		t.Fatal("expected multiplayer race to wait for trailing space")
	}
}

func TestApply_SkipAheadOnLastWordFinishes(t *testing.T) {
	s := NewState(ModeMultiplayer, []string{"cat"}, t0)
	s = typeKeys(s, "c", " ")
	if !s.Finished {
		t.Fatal("expected race finished by skipping the last word")
	}
	if s.Errors != 2 {
		t.Errorf("expected 2 errors, got %d", s.Errors)
	}
}

func TestApply_Purity(t *testing.T) {
	s := NewState(ModeMultiplayer, []string{"cat"}, t0)
	typed := Apply(s, "c", t0)
	if s.Chars[0][0] != Pending {
		t.Error("Apply mutated its input state")
	}
	if typed.Chars[0][0] != Correct {
		t.Error("Apply result missing judgment")
	}
}

func TestApply_CursorNeverOutOfRange(t *testing.T) {
	words := []string{"ab", "c", "def"}
	keys := []string{
		"a", "b", " ", " ", KeyBackspace, "x", "y", "z", " ",
		"d", KeyBackspace, KeyBackspace, " ", "q", "q", "q", "q", " ", " ", "a",
	}
	s := NewState(ModeMultiplayer, words, t0)
	for _, k := range keys {
		s = Apply(s, k, t0)
		if s.WordIndex > len(words) {
			t.Fatalf("word index %d beyond word list", s.WordIndex)
		}
		if s.WordIndex < len(words) {
			if wl := len([]rune(words[s.WordIndex])); s.CharIndex > wl {
				t.Fatalf("char index %d beyond word %q", s.CharIndex, words[s.WordIndex])
			}
		}
	}
}

func TestApply_MultiRuneKeyIgnored(t *testing.T) {
	s := NewState(ModeMultiplayer, []string{"cat"}, t0)
	next := Apply(s, "Shift", t0)
	if next.Keystrokes != 0 || next.CharIndex != 0 {
		t.Errorf("expected non-printable key ignored, got %+v", next)
	}
}

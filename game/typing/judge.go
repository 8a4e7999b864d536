package typing

import (
	"time"
	"unicode/utf8"
)

// Apply advances the race state by one keystroke and returns the new state.
// It is pure: the input state is never modified. The at timestamp is recorded
// as FinishedAt only when this keystroke completes the race.
//
// Transition rules:
//   - Backspace steps the cursor back one character within the current word
//     and resets that character to Pending. At word start it is a no-op;
//     there is no cross-word backspace.
//   - Space on a fully typed word advances to the next word. Space on a
//     partially typed word skips ahead: the untyped remainder is marked
//     Incorrect and counted as errors. Leading space is a no-op.
//   - A printable character is judged against the target character under the
//     cursor. Once a word is fully typed, further characters are ignored
//     until Space.
//
// The race completes when the cursor advances past the last word, when an
// instant-death race sees its first incorrect character, or when a
// word-count race types the final character of the final word.
func Apply(s State, key string, at time.Time) State {
	if s.Finished {
		return s
	}
	if s.WordIndex >= len(s.Words) {
		return finish(s, at)
	}

	switch key {
	case KeyBackspace:
		return applyBackspace(s)
	case KeySpace:
		return applySpace(s, at)
	default:
		if utf8.RuneCountInString(key) != 1 {
			return s
		}
		return applyChar(s, []rune(key)[0], at)
	}
}

func applyBackspace(s State) State {
	if s.CharIndex == 0 {
		return s
	}
	s.Chars = cloneRow(s.Chars, s.WordIndex)
	s.CharIndex--
	s.Chars[s.WordIndex][s.CharIndex] = Pending
	return s
}

func applySpace(s State, at time.Time) State {
	word := s.currentWord()

	switch {
	case s.CharIndex == len(word):
		// Word fully typed, advance.
		s.Keystrokes++
		s.WordIndex++
		s.CharIndex = 0
	case s.CharIndex > 0:
		// Skip-ahead: the rest of the word counts as errors.
		s.Chars = cloneRow(s.Chars, s.WordIndex)
		for i := s.CharIndex; i < len(word); i++ {
			s.Chars[s.WordIndex][i] = Incorrect
		}
		s.Errors += len(word) - s.CharIndex
		s.Keystrokes++
		s.WordIndex++
		s.CharIndex = 0
	default:
		// Leading space is ignored.
		return s
	}

	if s.WordIndex >= len(s.Words) {
		return finish(s, at)
	}
	return s
}

func applyChar(s State, key rune, at time.Time) State {
	word := s.currentWord()
	if s.CharIndex >= len(word) {
		// Word already complete; Space is required to advance.
		return s
	}

	correct := key == word[s.CharIndex]
	s.Chars = cloneRow(s.Chars, s.WordIndex)
	if correct {
		s.Chars[s.WordIndex][s.CharIndex] = Correct
	} else {
		s.Chars[s.WordIndex][s.CharIndex] = Incorrect
		s.Errors++
	}
	s.CharIndex++
	s.Keystrokes++

	if s.Mode == ModeInstantDeath && !correct {
		return finish(s, at)
	}
	if s.Mode == ModeWordCount && s.WordIndex == len(s.Words)-1 && s.CharIndex == len(word) {
		return finish(s, at)
	}
	return s
}

func finish(s State, at time.Time) State {
	s.Finished = true
	s.FinishedAt = at
	return s
}

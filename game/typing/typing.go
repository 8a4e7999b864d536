package typing

import "time"

// CharState is the judgment of a single target character.
type CharState string

const (
	Pending   CharState = "pending"
	Correct   CharState = "correct"
	Incorrect CharState = "incorrect"
)

// Mode selects the race variant. Only InstantDeath and WordCount change the
// judge's termination behavior; the rest differ in word count and timing,
// which callers control.
type Mode string

const (
	ModeTimed        Mode = "timed"
	ModeWordCount    Mode = "word-count"
	ModeZen          Mode = "zen"
	ModeInstantDeath Mode = "instant-death"
	ModeMultiplayer  Mode = "multiplayer"
)

// Special keys understood by Apply. Any other accepted key is a single
// printable character.
const (
	KeyBackspace = "Backspace"
	KeySpace     = " "
)

// State is one race attempt as seen by the judge. Values of this type are
// treated as immutable; Apply returns a new State and never mutates its
// input.
type State struct {
	Mode       Mode          `json:"mode"`
	Words      []string      `json:"words"`
	WordIndex  int           `json:"current_word_index"`
	CharIndex  int           `json:"current_char_index"`
	Chars      [][]CharState `json:"character_states"`
	Errors     int           `json:"errors"`
	Keystrokes int           `json:"keystrokes"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Finished   bool          `json:"finished"`
}

// NewState returns a fresh State over the given word list with every
// character pending.
func NewState(mode Mode, words []string, startedAt time.Time) State {
	chars := make([][]CharState, len(words))
	for i, w := range words {
		row := make([]CharState, len([]rune(w)))
		for j := range row {
			row[j] = Pending
		}
		chars[i] = row
	}
	return State{
		Mode:      mode,
		Words:     words,
		Chars:     chars,
		StartedAt: startedAt,
	}
}

// currentWord returns the runes of the word under the cursor.
func (s State) currentWord() []rune {
	return []rune(s.Words[s.WordIndex])
}

// cloneRow copies the character grid shallowly and the given row deeply, so
// the returned grid can be written at that row without aliasing the input.
func cloneRow(chars [][]CharState, row int) [][]CharState {
	next := make([][]CharState, len(chars))
	copy(next, chars)
	dup := make([]CharState, len(chars[row]))
	copy(dup, chars[row])
	next[row] = dup
	return next
}

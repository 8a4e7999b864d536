package typing

import (
	"math"
	"time"
)

// Stats are the metrics derived from a race state. They are computed on
// demand and never stored in the state itself.
type Stats struct {
	WPM        int   `json:"wpm"`
	RawWPM     int   `json:"raw_wpm"`
	Accuracy   int   `json:"accuracy"`
	ElapsedMs  int64 `json:"elapsed_ms"`
	WordsTyped int   `json:"words_typed"`
	TotalWords int   `json:"total_words"`
	Errors     int   `json:"errors"`
}

// minElapsedMinutes floors the elapsed time used for WPM so the figures do
// not spike toward infinity in the first instants of a race.
const minElapsedMinutes = 0.01

// ComputeStats derives WPM, raw WPM and accuracy from a state. For a
// finished race the elapsed time is fixed at FinishedAt; otherwise now is
// used. WPM counts correct characters in standard five-character words;
// accuracy is keystrokes net of errors, 100 when nothing has been typed.
func ComputeStats(s State, now time.Time) Stats {
	end := now
	if s.Finished {
		end = s.FinishedAt
	}
	elapsedMs := end.Sub(s.StartedAt).Milliseconds()
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	elapsedMinutes := math.Max(float64(elapsedMs)/60000, minElapsedMinutes)

	correct, typed := 0, 0
	for _, row := range s.Chars {
		for _, c := range row {
			switch c {
			case Correct:
				correct++
				typed++
			case Incorrect:
				typed++
			}
		}
	}

	wpm := int(math.Round(float64(correct) / 5 / elapsedMinutes))
	rawWPM := int(math.Round(float64(typed) / 5 / elapsedMinutes))
	accuracy := 100
	if s.Keystrokes > 0 {
		accuracy = int(math.Round(float64(s.Keystrokes-s.Errors) / float64(s.Keystrokes) * 100))
	}

	return Stats{
		WPM:        max(wpm, 0),
		RawWPM:     max(rawWPM, 0),
		Accuracy:   min(max(accuracy, 0), 100),
		ElapsedMs:  elapsedMs,
		WordsTyped: s.WordIndex,
		TotalWords: len(s.Words),
		Errors:     s.Errors,
	}
}

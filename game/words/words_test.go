package words

import "testing"

func TestGenerate(t *testing.T) {
	t.Run("returns requested count", func(t *testing.T) {
		got := Generate(RaceWordCount)
		if len(got) != RaceWordCount {
			t.Errorf("expected %d words, got %d", RaceWordCount, len(got))
		}
	})

	t.Run("words are distinct and from the corpus", func(t *testing.T) {
		inCorpus := make(map[string]bool, len(corpus))
		for _, w := range corpus {
			inCorpus[w] = true
		}

		seen := make(map[string]bool)
		for _, w := range Generate(RaceWordCount) {
			if !inCorpus[w] {
				t.Errorf("word %q not in corpus", w)
			}
			if seen[w] {
				t.Errorf("word %q drawn twice", w)
			}
			seen[w] = true
		}
	})

	t.Run("caps at corpus size", func(t *testing.T) {
		got := Generate(len(corpus) * 2)
		if len(got) != len(corpus) {
			t.Errorf("expected cap at %d, got %d", len(corpus), len(got))
		}
	})

	t.Run("negative count", func(t *testing.T) {
		if got := Generate(-1); len(got) != 0 {
			t.Errorf("expected empty list, got %d words", len(got))
		}
	})
}

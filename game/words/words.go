// Package words provides the shared word corpus that race word lists are
// drawn from.
package words

import "math/rand/v2"

// corpus is the set of common English words used for every race. Draws are
// shuffles of this list, so a single race never repeats a word.
var corpus = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "I",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
	"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
	"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
	"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
	"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
	"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
	"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
	"world", "very", "through", "form", "much", "great", "where", "help",
	"long", "things", "place", "point", "right", "down", "same", "another", "found",
	"study", "still", "learn", "should", "system", "every", "city", "tree", "cross", "farm",
	"hard", "start", "might", "story", "being", "left", "once", "book", "heard", "white",
	"without", "second", "later", "miss", "idea", "enough", "eat", "face", "watch", "last",
	"door", "between", "never", "really", "almost", "along", "let", "father", "keep", "food",
	"important", "young", "those", "seem", "name", "nothing", "example", "paper", "group", "always",
	"music", "quickly", "write", "move", "run", "feet", "read", "hand", "such", "old",
	"too", "under", "home", "away", "here", "part", "add", "did", "each", "body",
	"school", "area", "house", "turn", "water", "high", "air", "against", "answer", "while",
}

// RaceWordCount is the fixed word list length for multiplayer races.
const RaceWordCount = 50

// Generate returns count distinct words drawn at random from the corpus.
// Requests larger than the corpus are capped at its size.
func Generate(count int) []string {
	if count < 0 {
		count = 0
	}
	if count > len(corpus) {
		count = len(corpus)
	}
	shuffled := make([]string, len(corpus))
	copy(shuffled, corpus)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

package passage

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/verte-zerg/typemaster/internal/model"
)

// DefaultWordCount is the number of words in a generated passage.
const DefaultWordCount = 15

// DefaultWords is the built-in list for generated passages.
var DefaultWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "and", "runs",
	"through", "forest", "near", "river", "under", "bright", "sun", "while", "birds",
	"sing", "beautiful", "songs", "in", "tall", "trees", "with", "green", "leaves",
	"that", "dance", "gentle", "breeze", "across", "peaceful", "meadow", "where",
	"flowers", "bloom", "colorful", "garden", "beside", "crystal", "clear", "water",
	"flowing", "towards", "distant", "mountains", "covered", "white", "snow",
}

const wordPunctSet = ",;:"

type wordStyle struct {
	capsPct  float64
	punctPct float64
}

// Harder tiers sprinkle capitals and punctuation between words.
var wordStyles = map[model.Difficulty]wordStyle{
	model.Easy:   {},
	model.Medium: {capsPct: 0.2},
	model.Hard:   {capsPct: 0.3, punctPct: 0.25},
}

// WordSource generates passages from random words. The first letter is
// capitalized and the passage ends with a period.
type WordSource struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	words []string
	count int
}

// NewWordSource returns a generator over words. A zero seed uses the
// current time; a non-positive count uses DefaultWordCount.
func NewWordSource(words []string, count int, seed int64) (*WordSource, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	if count <= 0 {
		count = DefaultWordCount
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &WordSource{
		rnd:   rand.New(rand.NewSource(seed)),
		words: words,
		count: count,
	}, nil
}

// Next implements Source.
func (g *WordSource) Next(d model.Difficulty) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	style := wordStyles[d]
	result := make([]string, 0, g.count)
	for i := 0; i < g.count; i++ {
		word := g.words[g.rnd.Intn(len(g.words))]
		word = applyCaps(g.rnd, word, style.capsPct)
		if i < g.count-1 {
			word = applyPunct(g.rnd, word, style.punctPct, []rune(wordPunctSet))
		}
		result = append(result, word)
	}
	text := capitalizeFirst(strings.Join(result, " ")) + "."
	return Normalize(text), nil
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	return capitalizeFirst(word)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}

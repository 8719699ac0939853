// Package moderation inspects message text before it is stored.
package moderation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter masks banned words, including leet spellings and words split by
// punctuation ("b.4.d"), while leaving the rest of the text untouched.
type Filter struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// NewFilter builds the automaton from the normalized word list.
func NewFilter(words []string, replacement rune) (*Filter, error) {
	var patterns [][]rune
	for _, word := range words {
		if p := fold([]rune(word)); len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no banned words to load")
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{machine: m, replacement: replacement}, nil
}

// LoadWords reads one banned word per line, blank lines and # comments skipped.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

// Mask returns text with every match replaced, and the number of matches.
func (f *Filter) Mask(text string) (string, int) {
	original := []rune(text)
	folded := make([]rune, 0, len(original))
	positions := make([]int, 0, len(original))
	for i, r := range original {
		clean := unleet(r)
		if isNoise(clean) {
			continue
		}
		folded = append(folded, unicode.ToLower(clean))
		positions = append(positions, i)
	}
	if len(folded) == 0 {
		return text, 0
	}

	terms := f.machine.MultiPatternSearch(folded, false)
	if len(terms) == 0 {
		return text, 0
	}
	for _, term := range terms {
		start, end := term.Pos, term.Pos+len(term.Word)
		if start < 0 || end > len(positions) {
			continue
		}
		for i := positions[start]; i <= positions[end-1]; i++ {
			original[i] = f.replacement
		}
	}
	return string(original), len(terms)
}

func fold(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := unleet(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// unleet maps common leet characters back to letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}

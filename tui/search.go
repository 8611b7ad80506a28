// Full-text search over task previews, based on an inverted index with
// snowball stemming.
package tui

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"

	"github.com/RooCodeInc/RooVersation/task"
)

// index maps a processed token to the positions of tasks containing it.
type index map[string][]int

func buildIndex(tasks []task.Task) index {
	idx := make(index)
	for i, t := range tasks {
		for _, token := range analyze(t.FirstMessage) {
			if containsInt(idx[token], i) {
				continue
			}
			idx[token] = append(idx[token], i)
		}
	}
	return idx
}

// search returns positions of tasks containing ALL query terms.
func (idx index) search(text string) []int {
	var r []int
	for _, token := range analyze(text) {
		ids, ok := idx[token]
		if !ok {
			return nil
		}
		if r == nil {
			r = ids
		} else {
			r = intersection(r, ids)
		}
	}
	return r
}

func analyze(text string) []string {
	tokens := tokenize(text)
	tokens = toLower(tokens)
	tokens = removeCommonWords(tokens)
	return stem(tokens)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func toLower(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = strings.ToLower(token)
	}
	return r
}

var stopWords = map[string]struct{}{
	"a":    {},
	"and":  {},
	"be":   {},
	"have": {},
	"i":    {},
	"in":   {},
	"of":   {},
	"that": {},
	"the":  {},
	"to":   {},
}

func removeCommonWords(tokens []string) []string {
	r := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := stopWords[token]; !ok {
			r = append(r, token)
		}
	}
	return r
}

func stem(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = snowballeng.Stem(token, false)
	}
	return r
}

func containsInt(slice []int, val int) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}

// intersection of two sorted posting lists.
func intersection(a, b []int) []int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	r := make([]int, 0, maxLen)
	var i, j int
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			i++
		} else if a[i] > b[j] {
			j++
		} else {
			r = append(r, a[i])
			i++
			j++
		}
	}
	return r
}

package faq

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// isSpace reports word separators: Unicode white space plus the ASCII
// information separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// keepRune drops everything that is neither a word character nor whitespace.
func keepRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || isSpace(r) {
		return r
	}
	return -1
}

// turkishFolds maps the letters Turkish adds to basic Latin onto their base letter.
var turkishFolds = strings.NewReplacer(
	"ı", "i",
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ö", "o",
	"ç", "c",
)

// StopWords reports whether a token carries no meaning for matching.
type StopWords interface {
	Contains(word string) bool
}

// Normalizer canonicalizes raw text into the token form fed to the vectorizer.
// It holds no mutable state and may be shared between goroutines.
type Normalizer struct {
	lang  language.Tag
	folds *strings.Replacer
	stop  StopWords
}

// NewNormalizer returns a Turkish normalizer dropping the given stop words.
// A nil set keeps every token.
func NewNormalizer(stop StopWords) *Normalizer {
	return &Normalizer{
		lang:  language.Turkish,
		folds: turkishFolds,
		stop:  stop,
	}
}

// Normalize lowercases, folds diacritics, strips punctuation, removes stop
// words and rejoins the surviving tokens with single spaces.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	// cases.Caser is stateful, so one is built per call.
	lowered := cases.Lower(n.lang).String(text)
	folded := n.folds.Replace(lowered)
	stripped := strings.Map(keepRune, folded)

	tokens := strings.FieldsFunc(stripped, isSpace)
	kept := tokens[:0]
	for _, token := range tokens {
		if n.stop != nil && n.stop.Contains(token) {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}

// Normalize is a convenience wrapper around a throwaway Normalizer.
func Normalize(text string, stop StopWords) string {
	return NewNormalizer(stop).Normalize(text)
}

// Package tokenize implements the tokenizer contract the indexer and query
// engine both rely on: lower-case, apostrophe removal, word-boundary
// split, stop-word filtering, and Porter stemming. It is deterministic and
// side-effect-free, grounded on original_source/shared/tokenizer.py.
package tokenize

import (
	"regexp"
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// wordPattern splits on runs of letters and digits; everything else
// (punctuation, whitespace) is a separator and never produces a token.
var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords is a fixed English stop-word/symbol set. It intentionally
// mirrors the scope of NLTK's "english" list used by the original
// implementation: closed-class words that carry no retrieval signal.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {},
	"at": {}, "be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {}, "can": {},
	"did": {}, "do": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "few": {}, "for": {}, "from": {}, "further": {}, "had": {},
	"has": {}, "have": {}, "having": {}, "he": {}, "her": {}, "here": {},
	"hers": {}, "herself": {}, "him": {}, "himself": {}, "his": {}, "how": {},
	"i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {},
	"itself": {}, "just": {}, "me": {}, "more": {}, "most": {}, "my": {},
	"myself": {}, "no": {}, "nor": {}, "not": {}, "now": {}, "of": {}, "off": {},
	"on": {}, "once": {}, "only": {}, "or": {}, "other": {}, "our": {}, "ours": {},
	"ourselves": {}, "out": {}, "over": {}, "own": {}, "s": {}, "same": {},
	"she": {}, "should": {}, "so": {}, "some": {}, "such": {}, "t": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "theirs": {}, "them": {}, "themselves": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {}, "under": {}, "until": {}, "up": {},
	"very": {}, "was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "you": {}, "your": {}, "yours": {}, "yourself": {}, "yourselves": {},
}

// IsStopWord reports whether a raw (pre-stem) token should be dropped.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Preprocess lower-cases text and removes apostrophes, the document-wide
// pass applied before splitting into words.
func Preprocess(text string) string {
	return strings.ReplaceAll(strings.ToLower(text), "'", "")
}

// Stem applies Porter stemming to a single lower-cased word.
func Stem(word string) string {
	return porterstemmer.StemString(word)
}

// Tokenize lower-cases, strips apostrophes, splits on word boundaries,
// drops stop words and punctuation, and stems what remains.
func Tokenize(text string) []string {
	processed := Preprocess(text)
	raw := wordPattern.FindAllString(processed, -1)

	tokens := make([]string, 0, len(raw))
	for _, word := range raw {
		if IsStopWord(word) {
			continue
		}
		tokens = append(tokens, Stem(word))
	}

	return tokens
}

// Package query implements the boolean and free-text query engines that
// run against an index.TermDictionary, grounded line-for-line on
// original_source/querying/boolean/boolean_query_tokenizer.py and
// boolean_query.py.
package query

import (
	"regexp"
	"strings"

	"github.com/BenjaminSRussell/wibot/internal/tokenize"
)

// TokenType classifies one token of a boolean query.
type TokenType int

const (
	TokenAND TokenType = iota
	TokenOR
	TokenLParen
	TokenRParen
	TokenNOT
	TokenString
	tokenEOF
)

var splitPattern = regexp.MustCompile(`(\bAND\b|\bOR\b|NOT|\(|\))`)

// Tokenizer splits a boolean query string into typed tokens, stemming
// and stop-word-filtering every STRING token while preserving operator
// tokens verbatim.
type Tokenizer struct {
	tokens      []string
	types       []TokenType
	index       int
	searchTerms map[string]struct{}
}

// NewTokenizer tokenizes query. Operator keywords (AND, OR, NOT) are
// matched case-sensitively on the raw query, matching the fixture
// queries in practice; operand segments are lower-cased and stemmed
// independently.
func NewTokenizer(query string) *Tokenizer {
	clean := strings.ReplaceAll(query, "\n", " ")
	raw := splitPattern.Split(clean, -1)
	ops := splitPattern.FindAllString(clean, -1)

	t := &Tokenizer{searchTerms: make(map[string]struct{})}

	// Interleave raw (operand) segments and ops (operator matches) back
	// into original order, matching Python's re.split semantics: split
	// always alternates [text, match, text, match, ..., text].
	segments := make([]string, 0, len(raw)+len(ops))
	for i, seg := range raw {
		segments = append(segments, strings.TrimSpace(seg))
		if i < len(ops) {
			segments = append(segments, strings.TrimSpace(ops[i]))
		}
	}

	for _, tok := range segments {
		if tok == "" {
			continue
		}

		switch strings.ToUpper(tok) {
		case "AND":
			t.tokens = append(t.tokens, tok)
			t.types = append(t.types, TokenAND)
		case "OR":
			t.tokens = append(t.tokens, tok)
			t.types = append(t.types, TokenOR)
		case "NOT":
			t.tokens = append(t.tokens, tok)
			t.types = append(t.types, TokenNOT)
		case "(":
			t.tokens = append(t.tokens, tok)
			t.types = append(t.types, TokenLParen)
		case ")":
			t.tokens = append(t.tokens, tok)
			t.types = append(t.types, TokenRParen)
		default:
			stemmed := tokenize.Stem(strings.ToLower(tok))
			if tokenize.IsStopWord(stemmed) {
				continue
			}
			t.tokens = append(t.tokens, stemmed)
			t.types = append(t.types, TokenString)
			t.searchTerms[stemmed] = struct{}{}
		}
	}

	return t
}

// SearchTerms returns the set of stemmed operand terms the query
// mentioned, used by the content ranker to build the query vector.
func (t *Tokenizer) SearchTerms() map[string]struct{} {
	return t.searchTerms
}

// HasNext reports whether another token remains.
func (t *Tokenizer) HasNext() bool {
	return t.index < len(t.tokens)
}

// Next consumes and returns the next token, or "" if exhausted.
func (t *Tokenizer) Next() string {
	if !t.HasNext() {
		return ""
	}
	tok := t.tokens[t.index]
	t.index++
	return tok
}

// PeekType returns the type of the next unconsumed token, or tokenEOF.
func (t *Tokenizer) PeekType() TokenType {
	if !t.HasNext() {
		return tokenEOF
	}
	return t.types[t.index]
}

// IsNextOperand reports whether the next token is AND or OR.
func (t *Tokenizer) IsNextOperand() bool {
	pt := t.PeekType()
	return pt == TokenAND || pt == TokenOR
}

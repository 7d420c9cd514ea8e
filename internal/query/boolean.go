package query

import (
	"fmt"

	"github.com/BenjaminSRussell/wibot/internal/index"
)

// SyntaxError reports a malformed boolean query: an unmatched
// parenthesis, a right paren with no matching left, or an operator with
// no following operand.
type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string { return e.msg }

func syntaxErrorf(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{msg: fmt.Sprintf(format, args...)}
}

type docSet map[int]struct{}

func newDocSet(ids []int) docSet {
	s := make(docSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s docSet) intersect(other docSet) docSet {
	out := make(docSet)
	for id := range s {
		if _, ok := other[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func (s docSet) union(other docSet) docSet {
	out := make(docSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

func (s docSet) difference(other docSet) docSet {
	out := make(docSet)
	for id := range s {
		if _, ok := other[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func (s docSet) ids() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// BooleanQuery parses and evaluates a boolean query (AND/OR/NOT with
// parentheses) against a term dictionary, grounded line-for-line on
// original_source/querying/boolean/boolean_query.py.
type BooleanQuery struct {
	terms       *index.TermDictionary
	tokenizer   *Tokenizer
	searchTerms map[string]struct{}
	matches     []int
}

// NewBooleanQuery parses raw against vocabulary/terms and evaluates it
// immediately; parse errors are returned rather than panicking.
func NewBooleanQuery(vocabulary *index.URLVocabulary, terms *index.TermDictionary, raw string) (*BooleanQuery, error) {
	q := &BooleanQuery{
		terms:     terms,
		tokenizer: NewTokenizer(raw),
	}
	q.searchTerms = q.tokenizer.SearchTerms()

	universe := newDocSet(vocabulary.DocumentIDs())
	matches, err := q.parseExpression(universe)
	if err != nil {
		return nil, err
	}
	if q.tokenizer.HasNext() {
		if q.tokenizer.PeekType() == TokenRParen {
			return nil, syntaxErrorf("unexpected right parenthesis")
		}
		return nil, syntaxErrorf("unexpected token %q", q.tokenizer.Next())
	}

	q.matches = matches.ids()
	return q, nil
}

// SearchTerms returns the stemmed operand terms mentioned in the query.
func (q *BooleanQuery) SearchTerms() map[string]struct{} {
	return q.searchTerms
}

// Matches returns the document IDs the query evaluated to.
func (q *BooleanQuery) Matches() []int {
	return q.matches
}

func (q *BooleanQuery) parseExpression(universe docSet) (docSet, error) {
	negate := q.tokenizer.PeekType() == TokenNOT
	if negate {
		q.tokenizer.Next()
	}

	current, err := q.parseTerm(universe)
	if err != nil {
		return nil, err
	}
	if negate {
		current = universe.difference(current)
	}

	for q.tokenizer.IsNextOperand() {
		operand := q.tokenizer.PeekType()
		if q.tokenizer.Next() == "" {
			return nil, syntaxErrorf("expected expression after operand")
		}

		next, err := q.parseTerm(universe)
		if err != nil {
			return nil, err
		}

		switch operand {
		case TokenAND:
			current = current.intersect(next)
		case TokenOR:
			current = current.union(next)
		default:
			return nil, syntaxErrorf("unknown operand")
		}
	}

	return current, nil
}

func (q *BooleanQuery) parseTerm(universe docSet) (docSet, error) {
	switch q.tokenizer.PeekType() {
	case TokenString:
		term := q.tokenizer.Next()
		if !q.terms.Has(term) {
			return docSet{}, nil
		}
		return newDocSet(q.terms.DocsWithTerm(term)), nil

	case TokenLParen:
		q.tokenizer.Next()
		expr, err := q.parseExpression(universe)
		if err != nil {
			return nil, err
		}
		if q.tokenizer.PeekType() != TokenRParen {
			return nil, syntaxErrorf("expected right parenthesis")
		}
		q.tokenizer.Next()
		return expr, nil

	case TokenRParen:
		return nil, syntaxErrorf("unexpected right parenthesis")

	case TokenAND, TokenOR, tokenEOF:
		return nil, syntaxErrorf("expected expression after operand")

	default:
		return q.parseExpression(universe)
	}
}

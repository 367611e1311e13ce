// Copyright (c) 2026, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

// tokenIter wraps a lexer with one token of lookahead. Once the lexer
// fails, every later call returns the same error.
type tokenIter struct {
	lex *lexer
	buf Token
	has bool
	err error
}

func newTokenIter(lex *lexer) *tokenIter { return &tokenIter{lex: lex} }

// Peek returns the next token without consuming it.
func (it *tokenIter) Peek() (Token, error) {
	if it.err != nil {
		return Token{}, it.err
	}
	if !it.has {
		tok, err := it.lex.next()
		if err != nil {
			it.err = err
			return Token{}, err
		}
		it.buf, it.has = tok, true
	}
	return it.buf, nil
}

// Next consumes and returns the next token.
func (it *tokenIter) Next() (Token, error) {
	tok, err := it.Peek()
	if err == nil {
		it.has = false
	}
	return tok, err
}

// NextIf consumes the next token only if ok(tok) holds. The token is
// returned either way.
func (it *tokenIter) NextIf(ok func(Token) bool) (Token, bool, error) {
	tok, err := it.Peek()
	if err != nil {
		return Token{}, false, err
	}
	if !ok(tok) {
		return tok, false, nil
	}
	it.has = false
	return tok, true, nil
}

// SkipIfSpace consumes a Space token, reporting whether it did.
func (it *tokenIter) SkipIfSpace() (bool, error) {
	_, ok, err := it.NextIf(isKind(Space))
	return ok, err
}

// SkipIfSpaceOrNewline consumes a Space or NewLine token, reporting
// whether it did.
func (it *tokenIter) SkipIfSpaceOrNewline() (bool, error) {
	_, ok, err := it.NextIf(isKind(Space, NewLine))
	return ok, err
}

// Location returns the location of the next token.
func (it *tokenIter) Location() Location {
	if it.has {
		return it.buf.Loc
	}
	return it.lex.r.location()
}

func isKind(kinds ...TokenKind) func(Token) bool {
	return func(tok Token) bool {
		for _, k := range kinds {
			if tok.Kind == k {
				return true
			}
		}
		return false
	}
}

// Copyright (c) 2026, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "fmt"

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	Eof ErrorKind = iota
	UnexpectedToken
	UnterminatedString
	InvalidUtf8Sequence
	InvalidFd
	InvalidIdentifier
	Unimplemented
	AmbiguousRedirect
)

func (k ErrorKind) String() string {
	switch k {
	case Eof:
		return "Eof"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnterminatedString:
		return "UnterminatedString"
	case InvalidUtf8Sequence:
		return "InvalidUtf8Sequence"
	case InvalidFd:
		return "InvalidFd"
	case InvalidIdentifier:
		return "InvalidIdentifier"
	case Unimplemented:
		return "Unimplemented"
	case AmbiguousRedirect:
		return "AmbiguousRedirect"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is the error returned for any input that cannot be turned
// into a syntax tree. Token is set for UnexpectedToken; Text holds the
// offending literal for InvalidFd and InvalidIdentifier, and the feature
// name for Unimplemented.
type ParseError struct {
	Kind     ErrorKind
	Loc      Location
	Token    TokenKind
	Text     string
	Filename string
}

func (e *ParseError) Error() string {
	prefix := ""
	if e.Filename != "" {
		prefix = e.Filename + ": "
	}
	var msg string
	switch e.Kind {
	case Eof:
		msg = "unexpected end of input"
	case UnexpectedToken:
		if e.Text != "" {
			msg = fmt.Sprintf("unexpected token %s %q", e.Token, e.Text)
		} else {
			msg = fmt.Sprintf("unexpected token %q", e.Token.String())
		}
	case UnterminatedString:
		msg = "unterminated string"
	case InvalidUtf8Sequence:
		msg = "invalid UTF-8 sequence"
	case InvalidFd:
		msg = fmt.Sprintf("invalid file descriptor %q", e.Text)
	case InvalidIdentifier:
		msg = fmt.Sprintf("invalid identifier %q", e.Text)
	case Unimplemented:
		msg = fmt.Sprintf("%s is not supported", e.Text)
	case AmbiguousRedirect:
		msg = "ambiguous redirect"
	default:
		msg = e.Kind.String()
	}
	return fmt.Sprintf("%s%s at line %d column %d", prefix, msg, e.Loc.Line, e.Loc.Column)
}

// Incomplete reports whether the error was caused by the input ending too
// early, meaning that more input could make it valid.
func (e *ParseError) Incomplete() bool {
	return e.Kind == Eof || e.Kind == UnterminatedString
}

func errAt(kind ErrorKind, loc Location) *ParseError {
	return &ParseError{Kind: kind, Loc: loc}
}

func unexpected(tok Token) *ParseError {
	if tok.Kind == EOF {
		return errAt(Eof, tok.Loc)
	}
	perr := &ParseError{Kind: UnexpectedToken, Loc: tok.Loc, Token: tok.Kind}
	switch tok.Kind {
	case WordTok, Number:
		perr.Text = tok.Text
	}
	return perr
}

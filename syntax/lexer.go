// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"log/slog"
	"strings"
)

// runes that end a bare word
func wordEnd(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\'', '"', '`', '<', '>', '(', ')', '$', ';', '|', '&':
		return true
	}
	return false
}

// runes that may follow a reserved word
func keywordBreak(r rune) bool {
	switch r {
	case eofRune, ' ', '\t', '\n', ';', '&', '|', ')', '<', '>':
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameRune(r rune) bool {
	return r == '_' || isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80
}

type keyword struct {
	text    string
	kind    TokenKind
	rubyish bool
}

var keywords = [...]keyword{
	{"{", GroupStart, false},
	{"}", GroupEnd, false},
	{"!", Bang, false},
	{"if", If, false},
	{"then", Then, false},
	{"else", Else, false},
	{"elif", ElIf, false},
	{"fi", Fi, false},
	{"while", While, false},
	{"until", Until, false},
	{"do", Do, false},
	{"done", Done, false},
	{"for", For, false},
	{"select", Select, false},
	{"case", Case, false},
	{"esac", Esac, false},
	{"function", Function, false},
	{"elsif", ElsIf, true},
	{"end", End, true},
	{"unless", Unless, true},
	{"when", When, true},
}

// lexer turns source text into tokens. Whether a run of characters is a
// reserved word, a file descriptor or part of a word depends on what was
// emitted before, so the lexer keeps a little context:
//
//   - head: the next token starts a statement
//   - before: the kind of the previous token
//   - stmt: the enclosing for, select, case, when or function header, if
//     any
//   - quote: the lexer is inside double quotes
type lexer struct {
	r       *reader
	rubyish bool
	trace   *slog.Logger

	head   bool
	before TokenKind
	stmt   TokenKind

	quote        bool
	quoteLoc     Location
	quoteEmitted bool
}

func newLexer(src string, start Location, rubyish bool, trace *slog.Logger) *lexer {
	return &lexer{
		r:       newReader(src, start),
		rubyish: rubyish,
		trace:   trace,
		head:    true,
	}
}

// next returns the following token. At the end of input it keeps returning
// an EOF token.
func (l *lexer) next() (Token, error) {
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	if l.trace != nil {
		l.trace.Debug("token", "tok", tok.String(), "at", tok.Loc.String())
	}
	l.update(tok)
	return tok, nil
}

func (l *lexer) update(tok Token) {
	switch tok.Kind {
	case Space, EOF:
	case NewLine, Termination:
		l.head = true
		l.stmt = illegalTok
	case And, Or, Pipe, PipeBoth, BackgroundTok, LeftParen, RightParen,
		CaseBreak, CaseFallThrough, CaseTestNext:
		l.head = true
	case In:
		// a for list holds plain words, case patterns may be reserved words
		l.head = l.stmt == Case
	case WordTok:
		// the body of "function name" follows the name directly
		l.head = l.stmt == Function
	default:
		l.head = tok.Kind.IsKeyword()
	}
	switch tok.Kind {
	case For, Select, Case, When, Function:
		l.stmt = tok.Kind
	case In, Do:
		l.stmt = illegalTok
	case WordTok:
		if l.stmt == Function {
			l.stmt = illegalTok
		}
	case Then:
		if l.stmt == When {
			l.stmt = illegalTok
		}
	}
	l.before = tok.Kind
}

func (l *lexer) scan() (Token, error) {
	if l.quote {
		return l.scanQuoted()
	}
	loc := l.r.location()
	r := l.r.peek()
	switch {
	case r == eofRune:
		return Token{Kind: EOF, Loc: loc}, nil
	case r == ' ', r == '\t', r == '\\' && l.r.peekN(1) == '\n':
		l.skipBlanks()
		return Token{Kind: Space, Loc: loc}, nil
	case r == '\n':
		for l.r.peek() == '\n' {
			l.r.next()
		}
		return Token{Kind: NewLine, Loc: loc}, nil
	case isDigit(r):
		if tok, ok := l.number(loc); ok {
			return tok, nil
		}
		return l.bareWord(loc)
	case r == '\'':
		return l.singleQuoted(loc)
	case r == '`':
		return l.backQuoted(loc)
	}
	if kind, ok := l.keyword(); ok {
		return Token{Kind: kind, Text: kind.String(), Loc: loc}, nil
	}
	switch r {
	case ';', '&', '|', '<', '>', '(', ')':
		return Token{Kind: l.regToken(), Loc: loc}, nil
	case '#':
		if l.before != WordTok {
			return l.comment(loc), nil
		}
	case '-':
		if l.before == Number {
			l.r.next()
			return Token{Kind: Hyphen, Loc: loc}, nil
		}
	case '"':
		l.r.next()
		l.quote = true
		l.quoteLoc = loc
		l.quoteEmitted = false
		return l.scanQuoted()
	case '$':
		return l.dollar(loc)
	}
	return l.bareWord(loc)
}

func (l *lexer) skipBlanks() {
	for {
		switch r := l.r.peek(); {
		case r == ' ', r == '\t':
			l.r.next()
		case r == '\\' && l.r.peekN(1) == '\n':
			l.r.skip(2)
		default:
			return
		}
	}
}

// number reads a run of digits as a file descriptor when it is directly
// followed by a redirection operator, or when it is the operand of a
// descriptor copy.
func (l *lexer) number(loc Location) (Token, bool) {
	n := 0
	for isDigit(l.r.peekN(n)) {
		n++
	}
	after := l.r.peekN(n)
	if after != '<' && after != '>' && l.before != ReadCopy && l.before != WriteCopy {
		return Token{}, false
	}
	text := l.r.rest()[:n]
	l.r.skip(n)
	return Token{Kind: Number, Text: text, Loc: loc}, true
}

// keyword reports whether a reserved word starts at the current position,
// consuming it if so.
func (l *lexer) keyword() (TokenKind, bool) {
	match := func(text string) bool {
		if !l.r.startsWith(text) {
			return false
		}
		return keywordBreak(l.r.peekN(len(text)))
	}
	if l.head {
		for _, kw := range keywords {
			if kw.rubyish && !l.rubyish {
				continue
			}
			if match(kw.text) {
				l.r.skip(len(kw.text))
				return kw.kind, true
			}
		}
	}
	switch l.stmt {
	case For, Select, Case:
		if match("in") {
			l.r.skip(2)
			return In, true
		}
		if l.stmt == Case && l.rubyish && match("when") {
			l.r.skip(4)
			return When, true
		}
	case When:
		if match("then") {
			l.r.skip(4)
			return Then, true
		}
	}
	return illegalTok, false
}

func (l *lexer) regToken() TokenKind {
	switch l.r.next() {
	case ';':
		if l.r.peek() == ';' {
			l.r.next()
			if l.r.peek() == '&' {
				l.r.next()
				return CaseTestNext
			}
			return CaseBreak
		}
		if l.r.peek() == '&' {
			l.r.next()
			return CaseFallThrough
		}
		return Termination
	case '&':
		switch l.r.peek() {
		case '&':
			l.r.next()
			return And
		case '>':
			l.r.next()
			if l.r.peek() == '>' {
				l.r.next()
				return AppendBoth
			}
			return WriteBoth
		}
		return BackgroundTok
	case '|':
		switch l.r.peek() {
		case '|':
			l.r.next()
			return Or
		case '&':
			l.r.next()
			return PipeBoth
		}
		return Pipe
	case '<':
		switch l.r.peek() {
		case '<':
			l.r.next()
			if l.r.peek() == '<' {
				l.r.next()
				return HereString
			}
			return HereDocument
		case '>':
			l.r.next()
			return ReadWrite
		case '&':
			l.r.next()
			if l.r.peek() == '-' {
				l.r.next()
				return ReadClose
			}
			return ReadCopy
		}
		return ReadFrom
	case '>':
		switch l.r.peek() {
		case '&':
			if l.r.peekN(1) == '-' {
				l.r.skip(2)
				return WriteClose
			}
			l.r.next()
			if isDigit(l.r.peek()) || l.before == Number {
				return WriteCopy
			}
			return WriteBoth
		case '|':
			l.r.next()
			return ForceWriteTo
		case '>':
			l.r.next()
			return Append
		}
		return WriteTo
	case '(':
		return LeftParen
	default: // ')'
		return RightParen
	}
}

func (l *lexer) comment(loc Location) Token {
	l.r.next() // #
	var sb strings.Builder
	for r := l.r.peek(); r != eofRune && r != '\n'; r = l.r.peek() {
		sb.WriteRune(l.r.next())
	}
	return Token{Kind: Comment, Text: sb.String(), Loc: loc}
}

func (l *lexer) invalidRune() error {
	return errAt(InvalidUtf8Sequence, l.r.location())
}

func (l *lexer) bareWord(loc Location) (Token, error) {
	var sb strings.Builder
	for {
		r := l.r.peek()
		if r == eofRune || wordEnd(r) {
			break
		}
		if l.r.invalid() {
			return Token{}, l.invalidRune()
		}
		l.r.next()
		if r == '\\' {
			switch l.r.peek() {
			case eofRune:
				sb.WriteByte('\\')
			case '\n':
				l.r.next()
			default:
				if l.r.invalid() {
					return Token{}, l.invalidRune()
				}
				sb.WriteRune(l.r.next())
			}
			continue
		}
		sb.WriteRune(r)
	}
	return Token{Kind: WordTok, Text: sb.String(), WordKind: Normal, Loc: loc}, nil
}

func (l *lexer) singleQuoted(loc Location) (Token, error) {
	l.r.next() // '
	var sb strings.Builder
	for {
		if l.r.invalid() {
			return Token{}, l.invalidRune()
		}
		switch r := l.r.next(); r {
		case eofRune:
			return Token{}, errAt(UnterminatedString, loc)
		case '\'':
			return Token{Kind: WordTok, Text: sb.String(), WordKind: Quote, Loc: loc}, nil
		case '\\':
			if next := l.r.peek(); l.rubyish && (next == '\'' || next == '\\') {
				sb.WriteRune(l.r.next())
				continue
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) backQuoted(loc Location) (Token, error) {
	l.r.next() // `
	var sb strings.Builder
	for {
		switch r := l.r.next(); r {
		case eofRune:
			return Token{}, errAt(Eof, loc)
		case '`':
			return Token{
				Kind: WordTok, Text: sb.String(), WordKind: Command,
				Quoted: l.quote, Backquoted: true, Loc: loc,
			}, nil
		case '\\':
			switch next := l.r.peek(); next {
			case '`', '\\', '$':
				sb.WriteRune(l.r.next())
			default:
				sb.WriteRune(r)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// scanQuoted continues inside a double-quoted string. Literal runs become
// Normal words marked as quoted; expansions are lexed as they would be
// outside the quotes.
func (l *lexer) scanQuoted() (Token, error) {
	loc := l.r.location()
	if !l.quoteEmitted {
		loc = l.quoteLoc
	}
	switch l.r.peek() {
	case eofRune:
		return Token{}, errAt(UnterminatedString, l.quoteLoc)
	case '"':
		l.r.next()
		l.quote = false
		if !l.quoteEmitted {
			return Token{Kind: WordTok, WordKind: Normal, Quoted: true, Loc: l.quoteLoc}, nil
		}
		return l.scan()
	case '$':
		tok, err := l.dollar(l.r.location())
		if err == nil {
			l.quoteEmitted = true
		}
		return tok, err
	case '`':
		tok, err := l.backQuoted(l.r.location())
		if err == nil {
			l.quoteEmitted = true
		}
		return tok, err
	}
	var sb strings.Builder
	for {
		r := l.r.peek()
		switch r {
		case eofRune:
			return Token{}, errAt(UnterminatedString, l.quoteLoc)
		case '"', '$', '`':
			l.quoteEmitted = true
			return Token{Kind: WordTok, Text: sb.String(), WordKind: Normal, Quoted: true, Loc: loc}, nil
		}
		if l.r.invalid() {
			return Token{}, l.invalidRune()
		}
		l.r.next()
		if r == '\\' {
			switch next := l.r.peek(); next {
			case '"', '\\', '`', '$':
				sb.WriteRune(l.r.next())
				continue
			case '\n':
				l.r.next()
				continue
			}
		}
		sb.WriteRune(r)
	}
}

func (l *lexer) dollar(loc Location) (Token, error) {
	l.r.next() // $
	word := func(kind WordKind, text string) Token {
		return Token{Kind: WordTok, Text: text, WordKind: kind, Quoted: l.quote, Loc: loc}
	}
	r := l.r.peek()
	switch {
	case r == '{':
		l.r.next()
		var sb strings.Builder
		for {
			switch r := l.r.next(); r {
			case eofRune:
				return Token{}, errAt(Eof, loc)
			case '}':
				return word(Parameter, sb.String()), nil
			case '\\':
				if l.r.peek() == '}' {
					sb.WriteRune(l.r.next())
					continue
				}
				sb.WriteRune(r)
			default:
				sb.WriteRune(r)
			}
		}
	case r == '(':
		if l.r.peekN(1) == '(' {
			saved := *l.r
			l.r.skip(2)
			if text, ok := l.arithm(); ok {
				return word(Arithm, text), nil
			}
			// not closed by "))", such as $((a) | (b))
			*l.r = saved
		}
		l.r.next()
		text, err := l.balanced(loc)
		if err != nil {
			return Token{}, err
		}
		return word(Command, text), nil
	case r == '\'' && !l.quote && l.rubyish:
		l.r.next()
		var sb strings.Builder
		for {
			if l.r.invalid() {
				return Token{}, l.invalidRune()
			}
			switch r := l.r.next(); r {
			case eofRune:
				return Token{}, errAt(UnterminatedString, loc)
			case '\'':
				return word(Quote, ExpandANSIC(sb.String())), nil
			case '\\':
				sb.WriteRune(r)
				if next := l.r.next(); next != eofRune {
					sb.WriteRune(next)
				}
			default:
				sb.WriteRune(r)
			}
		}
	case r == '"' && !l.quote:
		return Token{}, &ParseError{Kind: Unimplemented, Loc: loc, Text: "locale string"}
	case strings.ContainsRune("*@#?-$!0", r):
		l.r.next()
		return word(Variable, string(r)), nil
	case isDigit(r):
		var sb strings.Builder
		for isDigit(l.r.peek()) {
			sb.WriteRune(l.r.next())
		}
		return word(Variable, sb.String()), nil
	case r != eofRune && isNameRune(r):
		var sb strings.Builder
		for r := l.r.peek(); r != eofRune && isNameRune(r); r = l.r.peek() {
			if l.r.invalid() {
				return Token{}, l.invalidRune()
			}
			sb.WriteRune(l.r.next())
		}
		return word(Variable, sb.String()), nil
	}
	return word(Normal, "$"), nil
}

// arithm reads the body of a $((...)) expansion, with the reader just
// past the opening "$((". It reports false if the parentheses are not
// closed by "))".
func (l *lexer) arithm() (string, bool) {
	start := l.r.off
	depth := 0
	for {
		switch l.r.next() {
		case eofRune:
			return "", false
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
				continue
			}
			if l.r.peek() != ')' {
				return "", false
			}
			text := l.r.src[start : l.r.off-1]
			l.r.next()
			return text, true
		}
	}
}

// balanced reads the body of a $(...) substitution up to its matching
// closing parenthesis. The body is scanned by a nested lexer sharing the
// reader, so that quotes, comments and the closing parentheses of case
// patterns are skipped over.
func (l *lexer) balanced(loc Location) (string, error) {
	start := l.r.off
	sub := &lexer{r: l.r, rubyish: l.rubyish, head: true}
	depth := 0
	var patterns []int // depth of each open "case ... in"
	caseHeader := false
	for {
		tok, err := sub.next()
		if err != nil {
			return "", err
		}
		switch tok.Kind {
		case EOF:
			return "", errAt(Eof, loc)
		case Space, WordTok:
		case Case:
			caseHeader = true
			continue
		case In:
			if caseHeader {
				patterns = append(patterns, depth)
			}
		case Esac:
			if len(patterns) > 0 {
				patterns = patterns[:len(patterns)-1]
			}
		case LeftParen:
			depth++
		case RightParen:
			switch {
			case len(patterns) > 0 && patterns[len(patterns)-1] == depth:
				// ends a case pattern
			case depth == 0:
				return l.r.src[start : l.r.off-1], nil
			default:
				depth--
			}
		}
		if tok.Kind != Space && tok.Kind != WordTok {
			caseHeader = false
		}
	}
}

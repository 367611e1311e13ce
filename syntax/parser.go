// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"io"
	"log/slog"
	"strings"
)

// ParserOption is a function which can be passed to NewParser
// to alter its behaviour. To apply option to existing Parser
// call it directly, for example syntax.Rubyish(true)(parser).
type ParserOption func(*Parser)

// Rubyish changes whether the Ruby-inspired dialect is accepted on top of
// the classic syntax. It adds the end, elsif, unless and when keywords,
// the short forms of if, while and for, escapes in single quotes, and
// $'...' strings.
func Rubyish(enabled bool) ParserOption {
	return func(p *Parser) { p.rubyish = enabled }
}

// LineOffset is added to every line number, for sources that are part of
// a larger input.
func LineOffset(n int) ParserOption {
	return func(p *Parser) { p.lineOffset = n }
}

// Trace makes the parser write to w a trace of the tokens it reads and
// the grammar rules it tries.
func Trace(w io.Writer) ParserOption {
	return func(p *Parser) { p.traceOut = w }
}

// Parser holds the configuration used to parse shell programs. A Parser
// can be reused, but not by multiple goroutines at once.
type Parser struct {
	rubyish    bool
	lineOffset int
	traceOut   io.Writer
}

// NewParser allocates a new Parser and applies any number of options.
func NewParser(options ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Parse reads and parses a shell program with an optional name. It
// returns the parsed program if no issues were encountered. Otherwise, a
// *ParseError is returned.
func (p *Parser) Parse(r io.Reader, name string) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.ParseString(string(src), name)
}

// ParseString is like Parse, but takes the source as a string.
func (p *Parser) ParseString(src, name string) (*File, error) {
	f := &File{
		Name:       name,
		HistIgnore: strings.HasPrefix(src, " ") || strings.HasPrefix(src, "\t"),
	}
	var trace *slog.Logger
	if p.traceOut != nil {
		trace = newTraceLogger(p.traceOut)
		trace.Info("[PEG_INPUT_START]")
		io.WriteString(p.traceOut, src+"\n")
		trace.Info("[PEG_TRACE_START]")
	}
	start := Location{Line: 1 + p.lineOffset, Column: 1}
	stmts, err := parseProgram(src, start, p.rubyish, trace)
	if trace != nil {
		trace.Info("[PEG_TRACE_STOP]")
	}
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			perr.Filename = name
		}
		return nil, err
	}
	f.Stmts = stmts
	return f, nil
}

// Parse parses src as a complete program in either dialect.
func Parse(src string, rubyish bool) ([]Stmt, error) {
	f, err := NewParser(Rubyish(rubyish)).ParseString(src, "")
	if err != nil {
		return nil, err
	}
	return f.Stmts, nil
}

func newTraceLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func parseProgram(src string, start Location, rubyish bool, trace *slog.Logger) ([]Stmt, error) {
	p := &parser{
		it:      newTokenIter(newLexer(src, start, rubyish, trace)),
		rubyish: rubyish,
		trace:   trace,
	}
	stmts, err := p.stmts()
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != EOF {
		return nil, unexpected(tok)
	}
	return stmts, nil
}

type parser struct {
	it      *tokenIter
	rubyish bool
	trace   *slog.Logger
}

func (p *parser) peek() (Token, error) { return p.it.Peek() }
func (p *parser) next() (Token, error) { return p.it.Next() }

// got consumes the next token if it is of the given kind.
func (p *parser) got(kind TokenKind) (bool, error) {
	_, ok, err := p.it.NextIf(isKind(kind))
	return ok, err
}

func (p *parser) skipWhile(kinds ...TokenKind) error {
	for {
		_, ok, err := p.it.NextIf(isKind(kinds...))
		if err != nil || !ok {
			return err
		}
	}
}

func (p *parser) skipSpace() error { return p.skipWhile(Space) }

// skipBlank skips whitespace, newlines and comments, as allowed after an
// operator such as && or |.
func (p *parser) skipBlank() error { return p.skipWhile(Space, NewLine, Comment) }

func (p *parser) skipSeparators() error {
	return p.skipWhile(Space, NewLine, Termination, Comment)
}

// expect consumes a token of one of the given kinds, failing otherwise.
func (p *parser) expect(kinds ...TokenKind) (Token, error) {
	tok, ok, err := p.it.NextIf(isKind(kinds...))
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{}, unexpected(tok)
	}
	return tok, nil
}

// traced logs the attempt to match a grammar rule; the returned func logs
// the outcome and is meant to be deferred.
func (p *parser) traced(rule string) func(*error) {
	if p.trace == nil {
		return func(*error) {}
	}
	at := p.it.Location().String()
	p.trace.Debug("attempt", "rule", rule, "at", at)
	return func(errp *error) {
		if *errp != nil {
			p.trace.Debug("fail", "rule", rule, "at", at)
			return
		}
		p.trace.Debug("match", "rule", rule, "at", at, "to", p.it.Location().String())
	}
}

func (p *parser) keywordEnd(kinds ...TokenKind) []TokenKind {
	if !p.rubyish {
		return kinds
	}
	return append(kinds, End)
}

// stmts parses statements up to the end of input or one of the stop
// tokens, which are not consumed.
func (p *parser) stmts(stops ...TokenKind) (list []Stmt, err error) {
	defer p.traced("statements")(&err)
	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == EOF || isKind(stops...)(tok) {
			return list, nil
		}
		s, err := p.statement(stops)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
}

// body is stmts for the bodies of compound commands, which cannot be
// empty.
func (p *parser) body(stops ...TokenKind) ([]Stmt, error) {
	list, err := p.stmts(stops...)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		return nil, unexpected(tok)
	}
	return list, nil
}

func (p *parser) statement(stops []TokenKind) (s Stmt, err error) {
	defer p.traced("statement")(&err)
	if s, err = p.commandList(); err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case BackgroundTok:
		p.next()
		bg := &Background{AmpPos: tok.Loc, X: s}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if tok, err = p.peek(); err != nil {
			return nil, err
		}
		switch tok.Kind {
		case EOF, NewLine, Termination, Comment:
			return bg, nil
		}
		if isKind(stops...)(tok) {
			return bg, nil
		}
		if bg.Y, err = p.statement(stops); err != nil {
			return nil, err
		}
		return bg, nil
	case EOF, NewLine, Termination, Comment:
		return s, nil
	}
	if isKind(stops...)(tok) {
		return s, nil
	}
	return nil, unexpected(tok)
}

func (p *parser) commandList() (s Stmt, err error) {
	defer p.traced("command_list")(&err)
	if s, err = p.pipelineCommand(); err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	tok, ok, err := p.it.NextIf(isKind(And, Or))
	if err != nil || !ok {
		return s, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	b := &BinaryCmd{OpPos: tok.Loc, Op: BinCmdOperator(tok.Kind), X: s}
	if b.Y, err = p.commandList(); err != nil {
		return nil, err
	}
	return b, nil
}

func startsCommand(kind TokenKind) bool {
	switch kind {
	case WordTok, Number, LeftParen, GroupStart, If, Unless, While, Until,
		For, Select, Case, Function:
		return true
	}
	return kind.isRedirect()
}

func (p *parser) pipelineCommand() (s Stmt, err error) {
	defer p.traced("pipeline_command")(&err)
	tok, ok, err := p.it.NextIf(isKind(Bang))
	if err != nil {
		return nil, err
	}
	if !ok {
		return p.pipeline()
	}
	inv := &InvertReturn{Position: tok.Loc}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if tok, err = p.peek(); err != nil {
		return nil, err
	}
	if !startsCommand(tok.Kind) {
		return inv, nil
	}
	if inv.Body, err = p.pipeline(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (p *parser) pipeline() (s Stmt, err error) {
	defer p.traced("pipeline")(&err)
	if s, err = p.simpleCommand(); err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	tok, ok, err := p.it.NextIf(isKind(Pipe, PipeBoth))
	if err != nil || !ok {
		return s, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	b := &BinaryCmd{OpPos: tok.Loc, Op: BinCmdOperator(tok.Kind), X: s}
	if b.Y, err = p.pipeline(); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *parser) simpleCommand() (Stmt, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case If:
		return p.ifClause()
	case Unless:
		return p.unlessClause()
	case While, Until:
		return p.whileClause()
	case For, Select:
		return p.forClause()
	case Case:
		return p.caseClause()
	case GroupStart:
		return p.group()
	case LeftParen:
		return p.subshell()
	case Function:
		return p.function()
	case WordTok, Number:
		return p.command()
	}
	if tok.Kind.isRedirect() {
		return p.command()
	}
	return nil, unexpected(tok)
}

// trailingRedirs parses the redirections after a compound command.
func (p *parser) trailingRedirs() ([]*Redirect, error) {
	var redirs []*Redirect
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		r, err := p.redirect()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return redirs, nil
		}
		redirs = append(redirs, r)
	}
}

// condition parses a test followed by the keyword that introduces its
// body, such as then or do, and the body itself. The rubyish dialect may
// leave the keyword out after a line break.
func (p *parser) condition(kw TokenKind, stops []TokenKind) (cond Condition, err error) {
	defer p.traced("condition")(&err)
	if err := p.skipBlank(); err != nil {
		return cond, err
	}
	if cond.Test, err = p.commandList(); err != nil {
		return cond, err
	}
	if err := p.skipSpace(); err != nil {
		return cond, err
	}
	if _, err := p.expect(NewLine, Termination, Comment); err != nil {
		return cond, err
	}
	if err := p.skipSeparators(); err != nil {
		return cond, err
	}
	ok, err := p.got(kw)
	if err != nil {
		return cond, err
	}
	if !ok && !p.rubyish {
		tok, err := p.peek()
		if err != nil {
			return cond, err
		}
		return cond, unexpected(tok)
	}
	cond.Body, err = p.body(stops...)
	return cond, err
}

func (p *parser) ifClause() (_ Stmt, err error) {
	defer p.traced("if_command")(&err)
	tok, _ := p.next()
	ic := &IfClause{Position: tok.Loc}
	stops := p.keywordEnd(ElIf, ElsIf, Else, Fi)
	if ic.Cond, err = p.condition(Then, stops); err != nil {
		return nil, err
	}
	for {
		ok, err := p.got(ElIf)
		if err != nil {
			return nil, err
		}
		if !ok {
			if ok, err = p.got(ElsIf); err != nil {
				return nil, err
			}
		}
		if !ok {
			break
		}
		elif, err := p.condition(Then, stops)
		if err != nil {
			return nil, err
		}
		ic.Elifs = append(ic.Elifs, elif)
	}
	ok, err := p.got(Else)
	if err != nil {
		return nil, err
	}
	if ok {
		if ic.Else, err = p.body(p.keywordEnd(Fi)...); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(p.keywordEnd(Fi)...); err != nil {
		return nil, err
	}
	if ic.Redirs, err = p.trailingRedirs(); err != nil {
		return nil, err
	}
	return ic, nil
}

func (p *parser) unlessClause() (_ Stmt, err error) {
	defer p.traced("unless_command")(&err)
	tok, _ := p.next()
	uc := &UnlessClause{Position: tok.Loc}
	if uc.Cond, err = p.condition(Then, []TokenKind{Else, End}); err != nil {
		return nil, err
	}
	ok, err := p.got(Else)
	if err != nil {
		return nil, err
	}
	if ok {
		if uc.Else, err = p.body(End); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(End); err != nil {
		return nil, err
	}
	if uc.Redirs, err = p.trailingRedirs(); err != nil {
		return nil, err
	}
	return uc, nil
}

func (p *parser) whileClause() (_ Stmt, err error) {
	defer p.traced("while_command")(&err)
	tok, _ := p.next()
	wc := &WhileClause{Position: tok.Loc, Until: tok.Kind == Until}
	stops := p.keywordEnd(Done)
	if wc.Cond, err = p.condition(Do, stops); err != nil {
		return nil, err
	}
	if _, err := p.expect(stops...); err != nil {
		return nil, err
	}
	if wc.Redirs, err = p.trailingRedirs(); err != nil {
		return nil, err
	}
	return wc, nil
}

// gotIn consumes the "in" of a for or case header. After a line break the
// lexer no longer treats it as a reserved word, so a bare "in" word is
// accepted too.
func (p *parser) gotIn() (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	switch {
	case tok.Kind == In:
	case tok.Kind == WordTok && !tok.Quoted && tok.WordKind == Normal && tok.Text == "in":
	default:
		return false, nil
	}
	p.next()
	if tok.Kind == WordTok {
		// "in" must be the whole word
		if next, err := p.peek(); err != nil {
			return false, err
		} else if next.Kind == WordTok {
			return false, unexpected(next)
		}
	}
	return true, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r != '_' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(i > 0 && isDigit(r)) {
			return false
		}
	}
	return true
}

func (p *parser) forClause() (_ Stmt, err error) {
	defer p.traced("for_command")(&err)
	tok, _ := p.next()
	fc := &ForClause{Position: tok.Loc, Select: tok.Kind == Select}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if tok, err = p.peek(); err != nil {
		return nil, err
	}
	if tok.Kind != WordTok {
		return nil, unexpected(tok)
	}
	name, err := p.word()
	if err != nil {
		return nil, err
	}
	if fc.Name = name.Lit(); !isIdent(fc.Name) {
		return nil, &ParseError{Kind: InvalidIdentifier, Loc: tok.Loc, Text: wordString(&name)}
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	if fc.InList, err = p.gotIn(); err != nil {
		return nil, err
	}
	if fc.InList {
		for {
			if err := p.skipSpace(); err != nil {
				return nil, err
			}
			if tok, err = p.peek(); err != nil {
				return nil, err
			}
			if tok.Kind != WordTok {
				break
			}
			w, err := p.word()
			if err != nil {
				return nil, err
			}
			fc.Items = append(fc.Items, w)
		}
		if _, err := p.expect(NewLine, Termination, Comment); err != nil {
			return nil, err
		}
	}
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	ok, err := p.got(Do)
	if err != nil {
		return nil, err
	}
	stops := []TokenKind{End}
	if ok {
		stops = p.keywordEnd(Done)
	} else if !p.rubyish {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		return nil, unexpected(tok)
	}
	if fc.Body, err = p.body(stops...); err != nil {
		return nil, err
	}
	if _, err := p.expect(stops...); err != nil {
		return nil, err
	}
	if fc.Redirs, err = p.trailingRedirs(); err != nil {
		return nil, err
	}
	return fc, nil
}

// patternWord parses a case pattern. Reserved words are allowed as
// patterns and taken literally.
func (p *parser) patternWord() (Word, error) {
	tok, err := p.peek()
	if err != nil {
		return Word{}, err
	}
	switch {
	case tok.Kind == WordTok:
		return p.word()
	case tok.Kind.IsKeyword() && tok.Kind != Esac && tok.Kind != End:
		p.next()
		return Word{Parts: []WordPart{{Pos: tok.Loc, Kind: Normal, Value: tok.Kind.String()}}}, nil
	}
	return Word{}, unexpected(tok)
}

func (p *parser) patterns(arm *CaseArm) error {
	for {
		w, err := p.patternWord()
		if err != nil {
			return err
		}
		arm.Patterns = append(arm.Patterns, w)
		if err := p.skipSpace(); err != nil {
			return err
		}
		ok, err := p.got(Pipe)
		if err != nil || !ok {
			return err
		}
		if err := p.skipSpace(); err != nil {
			return err
		}
	}
}

func (p *parser) caseClause() (_ Stmt, err error) {
	defer p.traced("case_command")(&err)
	tok, _ := p.next()
	cc := &CaseClause{Position: tok.Loc}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if tok, err = p.peek(); err != nil {
		return nil, err
	}
	if tok.Kind != WordTok {
		return nil, unexpected(tok)
	}
	if cc.Word, err = p.word(); err != nil {
		return nil, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	ok, err := p.gotIn()
	if err != nil {
		return nil, err
	}
	switch {
	case ok:
		err = p.caseArms(cc)
	case p.rubyish:
		err = p.whenArms(cc)
	default:
		tok, err = p.peek()
		if err == nil {
			err = unexpected(tok)
		}
	}
	if err != nil {
		return nil, err
	}
	if cc.Redirs, err = p.trailingRedirs(); err != nil {
		return nil, err
	}
	return cc, nil
}

func (p *parser) caseArms(cc *CaseClause) error {
	for {
		if err := p.skipSeparators(); err != nil {
			return err
		}
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind == Esac {
			p.next()
			return nil
		}
		arm := &CaseArm{Position: tok.Loc, Next: CaseEnd}
		if _, err := p.got(LeftParen); err != nil {
			return err
		}
		if err := p.skipSpace(); err != nil {
			return err
		}
		if err := p.patterns(arm); err != nil {
			return err
		}
		if _, err := p.expect(RightParen); err != nil {
			return err
		}
		if arm.Body, err = p.body(CaseBreak, CaseFallThrough, CaseTestNext, Esac); err != nil {
			return err
		}
		tok, ok, err := p.it.NextIf(isKind(CaseBreak, CaseFallThrough, CaseTestNext))
		if err != nil {
			return err
		}
		if ok {
			arm.Next = CaseNext(tok.Kind)
		}
		cc.Arms = append(cc.Arms, arm)
	}
}

func (p *parser) whenArms(cc *CaseClause) error {
	for {
		if err := p.skipSeparators(); err != nil {
			return err
		}
		tok, err := p.peek()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case End, Esac:
			p.next()
			return nil
		case When:
		default:
			return unexpected(tok)
		}
		p.next()
		arm := &CaseArm{Position: tok.Loc, Next: CaseEnd}
		if err := p.skipSpace(); err != nil {
			return err
		}
		if err := p.patterns(arm); err != nil {
			return err
		}
		if _, err := p.expect(Then, NewLine, Termination, Comment); err != nil {
			return err
		}
		if arm.Body, err = p.body(When, End, Esac); err != nil {
			return err
		}
		cc.Arms = append(cc.Arms, arm)
	}
}

func (p *parser) group() (_ Stmt, err error) {
	defer p.traced("brace_group")(&err)
	tok, _ := p.next()
	g := &Group{Position: tok.Loc}
	if g.Body, err = p.body(GroupEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(GroupEnd); err != nil {
		return nil, err
	}
	if g.Redirs, err = p.trailingRedirs(); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *parser) subshell() (_ Stmt, err error) {
	defer p.traced("subshell")(&err)
	tok, _ := p.next()
	s := &Subshell{Position: tok.Loc}
	if s.Body, err = p.body(RightParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(RightParen); err != nil {
		return nil, err
	}
	if s.Redirs, err = p.trailingRedirs(); err != nil {
		return nil, err
	}
	return s, nil
}

func isCompound(kind TokenKind) bool {
	switch kind {
	case If, Unless, While, Until, For, Select, Case, GroupStart, LeftParen:
		return true
	}
	return false
}

// funcBody parses what follows the name of a function: the parentheses,
// if not already consumed, and a compound command.
func (p *parser) funcBody(fd *FuncDecl) (err error) {
	if err := p.skipBlank(); err != nil {
		return err
	}
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if !isCompound(tok.Kind) {
		return unexpected(tok)
	}
	fd.Body, err = p.simpleCommand()
	return err
}

func (p *parser) function() (_ Stmt, err error) {
	defer p.traced("function")(&err)
	tok, _ := p.next()
	fd := &FuncDecl{Position: tok.Loc}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if tok, err = p.peek(); err != nil {
		return nil, err
	}
	if tok.Kind != WordTok {
		return nil, unexpected(tok)
	}
	name, err := p.word()
	if err != nil {
		return nil, err
	}
	if fd.Name = name.Lit(); fd.Name == "" {
		return nil, &ParseError{Kind: InvalidIdentifier, Loc: tok.Loc, Text: wordString(&name)}
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	ok, err := p.got(LeftParen)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if _, err := p.expect(RightParen); err != nil {
			return nil, err
		}
	}
	if err := p.funcBody(fd); err != nil {
		return nil, err
	}
	return fd, nil
}

// assign splits a word of the form name=value into an assignment.
func assign(w Word) (*Assign, bool) {
	first := w.Parts[0]
	if first.Kind != Normal || first.Quoted {
		return nil, false
	}
	name, rest, ok := strings.Cut(first.Value, "=")
	if !ok || !isIdent(name) {
		return nil, false
	}
	as := &Assign{Position: first.Pos, Name: name}
	var value Word
	if rest != "" {
		pos := first.Pos
		pos.Column += len(name) + 1
		value.Parts = append(value.Parts, WordPart{Pos: pos, Kind: Normal, Value: rest})
	}
	value.Parts = append(value.Parts, w.Parts[1:]...)
	if len(value.Parts) > 0 {
		as.Value = &value
	}
	return as, true
}

// command parses a simple command, a block of assignments, or a function
// declared as "name()".
func (p *parser) command() (_ Stmt, err error) {
	defer p.traced("command")(&err)
	start := p.it.Location()
	ce := &CallExpr{Position: start}
	for {
		r, err := p.redirect()
		if err != nil {
			return nil, err
		}
		if r != nil {
			ce.Redirs = append(ce.Redirs, r)
			if err := p.skipSpace(); err != nil {
				return nil, err
			}
			continue
		}
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != WordTok {
			if len(ce.Assigns) > 0 && len(ce.Redirs) == 0 {
				return &Assignments{Position: start, Assigns: ce.Assigns}, nil
			}
			return nil, unexpected(tok)
		}
		w, err := p.word()
		if err != nil {
			return nil, err
		}
		if as, ok := assign(w); ok {
			ce.Assigns = append(ce.Assigns, as)
			if err := p.skipSpace(); err != nil {
				return nil, err
			}
			continue
		}
		ce.Name = w
		break
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if len(ce.Assigns) == 0 && len(ce.Redirs) == 0 {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == LeftParen {
			return p.funcDecl(ce.Name)
		}
	}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		r, err := p.redirect()
		if err != nil {
			return nil, err
		}
		if r != nil {
			ce.Redirs = append(ce.Redirs, r)
			continue
		}
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != WordTok {
			return ce, nil
		}
		w, err := p.word()
		if err != nil {
			return nil, err
		}
		ce.Args = append(ce.Args, w)
	}
}

func (p *parser) funcDecl(name Word) (_ Stmt, err error) {
	defer p.traced("function")(&err)
	fd := &FuncDecl{Position: name.Pos(), Name: name.Lit()}
	if fd.Name == "" {
		return nil, &ParseError{Kind: InvalidIdentifier, Loc: name.Pos(), Text: wordString(&name)}
	}
	p.next() // (
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if _, err := p.expect(RightParen); err != nil {
		return nil, err
	}
	if err := p.funcBody(fd); err != nil {
		return nil, err
	}
	return fd, nil
}

// word joins adjacent word tokens into a single word. Command
// substitutions are parsed recursively. Adjacent unquoted literal
// fragments, such as "a" and "$%" in a$%, are merged into one, as a
// printed word would read back.
func (p *parser) word() (w Word, err error) {
	for {
		tok, ok, err := p.it.NextIf(isKind(WordTok))
		if err != nil {
			return Word{}, err
		}
		if !ok {
			return w, nil
		}
		part := WordPart{
			Pos:        tok.Loc,
			Kind:       tok.WordKind,
			Value:      tok.Text,
			Quoted:     tok.Quoted,
			Backquoted: tok.Backquoted,
		}
		if part.Kind == Command {
			if part.Stmts, err = p.substitution(tok); err != nil {
				return Word{}, err
			}
		}
		if n := len(w.Parts); n > 0 && bareLit(part) && bareLit(w.Parts[n-1]) {
			w.Parts[n-1].Value += part.Value
			continue
		}
		w.Parts = append(w.Parts, part)
	}
}

func bareLit(part WordPart) bool { return part.Kind == Normal && !part.Quoted }

func (p *parser) substitution(tok Token) ([]Stmt, error) {
	start := tok.Loc
	if tok.Backquoted {
		start.Column++
	} else {
		start.Column += 2
	}
	return parseProgram(tok.Text, start, p.rubyish, p.trace)
}

// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"
)

// PrintConfig controls how the printing of an AST node will behave.
type PrintConfig struct {
	Spaces int // 0 (default) for tabs, >0 for number of spaces

	// Rubyish allows the printer to rely on rubyish escapes in single
	// quotes. Unless clauses are always printed in rubyish syntax.
	Rubyish bool
}

var printerFree = sync.Pool{
	New: func() any {
		return &printer{Writer: bufio.NewWriter(nil)}
	},
}

// Fprint "pretty-prints" the given AST file to the given writer.
func (c PrintConfig) Fprint(w io.Writer, f *File) error {
	p := printerFree.Get().(*printer)
	p.c, p.level = c, 0
	p.Reset(w)
	p.stmtList(f.Stmts)
	if len(f.Stmts) > 0 {
		p.WriteByte('\n')
	}
	err := p.Flush()
	printerFree.Put(p)
	return err
}

// Fprint "pretty-prints" the given AST file to the given writer. It
// calls PrintConfig.Fprint with its default settings.
func Fprint(w io.Writer, f *File) error {
	return PrintConfig{}.Fprint(w, f)
}

type printer struct {
	*bufio.Writer

	c PrintConfig

	// level is the current level of indentation.
	level int
}

func (p *printer) newline() {
	p.WriteByte('\n')
	if p.c.Spaces == 0 {
		for i := 0; i < p.level; i++ {
			p.WriteByte('\t')
		}
		return
	}
	p.WriteString(strings.Repeat(" ", p.c.Spaces*p.level))
}

func (p *printer) stmtList(list []Stmt) {
	for i, s := range list {
		if i > 0 {
			p.newline()
		}
		p.stmt(s)
	}
}

// body prints an indented statement list on its own lines, leaving the
// output at the start of a new line at the outer level.
func (p *printer) body(list []Stmt) {
	p.level++
	p.newline()
	p.stmtList(list)
	p.level--
	p.newline()
}

func (p *printer) cond(c Condition, kw string) {
	p.stmt(c.Test)
	p.WriteString("; ")
	p.WriteString(kw)
	p.body(c.Body)
}

func (p *printer) stmt(s Stmt) {
	switch x := s.(type) {
	case *CallExpr:
		for _, as := range x.Assigns {
			p.assign(as)
			p.WriteByte(' ')
		}
		p.word(x.Name, true)
		for _, arg := range x.Args {
			p.WriteByte(' ')
			p.word(arg, false)
		}
		p.redirs(x.Redirs)
	case *Assignments:
		for i, as := range x.Assigns {
			if i > 0 {
				p.WriteByte(' ')
			}
			p.assign(as)
		}
	case *IfClause:
		p.WriteString("if ")
		p.cond(x.Cond, "then")
		for _, elif := range x.Elifs {
			p.WriteString("elif ")
			p.cond(elif, "then")
		}
		if len(x.Else) > 0 {
			p.WriteString("else")
			p.body(x.Else)
		}
		p.WriteString("fi")
		p.redirs(x.Redirs)
	case *UnlessClause:
		p.WriteString("unless ")
		p.cond(x.Cond, "then")
		if len(x.Else) > 0 {
			p.WriteString("else")
			p.body(x.Else)
		}
		p.WriteString("end")
		p.redirs(x.Redirs)
	case *WhileClause:
		if x.Until {
			p.WriteString("until ")
		} else {
			p.WriteString("while ")
		}
		p.cond(x.Cond, "do")
		p.WriteString("done")
		p.redirs(x.Redirs)
	case *ForClause:
		if x.Select {
			p.WriteString("select ")
		} else {
			p.WriteString("for ")
		}
		p.WriteString(x.Name)
		if x.InList {
			p.WriteString(" in")
			for _, w := range x.Items {
				p.WriteByte(' ')
				p.word(w, false)
			}
		}
		p.WriteString("; do")
		p.body(x.Body)
		p.WriteString("done")
		p.redirs(x.Redirs)
	case *CaseClause:
		p.WriteString("case ")
		p.word(x.Word, true)
		p.WriteString(" in")
		for _, arm := range x.Arms {
			p.newline()
			for i, pat := range arm.Patterns {
				if i > 0 {
					p.WriteString(" | ")
				}
				p.word(pat, true)
			}
			p.WriteByte(')')
			p.level++
			p.newline()
			p.stmtList(arm.Body)
			p.newline()
			p.WriteString(arm.Next.String())
			p.level--
		}
		p.newline()
		p.WriteString("esac")
		p.redirs(x.Redirs)
	case *FuncDecl:
		p.WriteString(x.Name)
		p.WriteString("() ")
		p.stmt(x.Body)
	case *Group:
		p.WriteByte('{')
		p.body(x.Body)
		p.WriteByte('}')
		p.redirs(x.Redirs)
	case *Subshell:
		p.WriteByte('(')
		p.body(x.Body)
		p.WriteByte(')')
		p.redirs(x.Redirs)
	case *BinaryCmd:
		p.stmt(x.X)
		p.WriteByte(' ')
		p.WriteString(x.Op.String())
		p.WriteByte(' ')
		p.stmt(x.Y)
	case *InvertReturn:
		p.WriteByte('!')
		if x.Body != nil {
			p.WriteByte(' ')
			p.stmt(x.Body)
		}
	case *Background:
		p.stmt(x.X)
		p.WriteString(" &")
		if x.Y != nil {
			p.WriteByte(' ')
			p.stmt(x.Y)
		}
	}
}

func (p *printer) assign(as *Assign) {
	p.WriteString(as.Name)
	p.WriteByte('=')
	if as.Value != nil {
		p.word(*as.Value, false)
	}
}

func (p *printer) redirs(redirs []*Redirect) {
	for _, r := range redirs {
		p.WriteByte(' ')
		p.redirect(r)
	}
}

func (p *printer) redirect(r *Redirect) {
	def := redirDefaultFd[TokenKind(r.Op)]
	if r.N != def {
		p.WriteString(strconv.Itoa(r.N))
	}
	switch {
	case r.Force:
		p.WriteString(">|")
	default:
		p.WriteString(r.Op.String())
	}
	switch r.Op {
	case DplIn, DplOut:
		p.WriteString(strconv.Itoa(r.Dest))
		if r.Close {
			p.WriteByte('-')
		}
	case CloseIn, CloseOut:
	default:
		if r.Word != nil {
			p.word(*r.Word, false)
		}
	}
}

var (
	sglQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	bckQuoteEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", `$`, `\$`)
)

// reserved lists the words that must be escaped where the lexer could
// read them as keywords.
var reserved = func() map[string]bool {
	m := map[string]bool{"in": true}
	for _, kw := range keywords {
		m[kw.text] = true
	}
	return m
}()

func bareSpecial(r rune) bool {
	return wordEnd(r) || r == '\\'
}

func (p *printer) word(w Word, head bool) {
	var quoted bool // inside a double-quoted run
	closeQuote := func() {
		if quoted {
			p.WriteByte('"')
			quoted = false
		}
	}
	for i, part := range w.Parts {
		var prev *WordPart
		if i > 0 {
			prev = &w.Parts[i-1]
		}
		// a variable name would swallow a following name character
		glued := prev != nil && prev.Kind == Variable && part.Kind == Normal && isNameStart(part.Value)
		split := !part.Quoted || glued ||
			(part.Kind == Normal && (part.Value == "" || (prev != nil && prev.Kind == Normal))) ||
			(prev != nil && prev.Kind == Normal && prev.Quoted && prev.Value == "")
		if split {
			closeQuote()
		}
		if part.Quoted && !quoted {
			p.WriteByte('"')
			quoted = true
		}
		switch part.Kind {
		case Normal:
			switch {
			case quoted:
				p.dquoted(part.Value)
			case strings.Contains(part.Value, "\n"):
				p.WriteByte('"')
				p.dquoted(part.Value)
				p.WriteByte('"')
			default:
				p.bare(part.Value, i == 0 && head && reserved[part.Value], i == 0, glued)
			}
		case Quote:
			p.WriteByte('\'')
			if p.c.Rubyish {
				sglQuoteEscaper.WriteString(p, part.Value)
			} else {
				p.WriteString(part.Value)
			}
			p.WriteByte('\'')
		case Command:
			if part.Backquoted {
				p.WriteByte('`')
				bckQuoteEscaper.WriteString(p, part.Value)
				p.WriteByte('`')
			} else {
				p.WriteString("$(")
				p.WriteString(part.Value)
				p.WriteByte(')')
			}
		case Variable:
			p.WriteByte('$')
			p.WriteString(part.Value)
		case Arithm:
			p.WriteString("$((")
			p.WriteString(part.Value)
			p.WriteString("))")
		case Parameter:
			p.WriteString("${")
			p.WriteString(strings.ReplaceAll(part.Value, "}", `\}`))
			p.WriteByte('}')
		}
	}
	closeQuote()
}

func isNameStart(s string) bool {
	return s != "" && isNameRune(rune(s[0]))
}

func (p *printer) dquoted(s string) {
	for _, r := range s {
		switch r {
		case '"', '\\', '`', '$':
			p.WriteByte('\\')
		}
		p.WriteRune(r)
	}
}

// bare writes an unquoted word fragment, escaping the characters that
// would otherwise end it or change its meaning.
func (p *printer) bare(s string, keyword, first, glued bool) {
	for i, r := range s {
		switch {
		case i == 0 && (keyword || glued):
			p.WriteByte('\\')
		case bareSpecial(r):
			p.WriteByte('\\')
		case i == 0 && first && r == '#':
			p.WriteByte('\\')
		}
		p.WriteRune(r)
	}
}

// wordString renders w as it would appear in a printed program.
func wordString(w *Word) string {
	var sb strings.Builder
	p := printerFree.Get().(*printer)
	p.c, p.level = PrintConfig{}, 0
	p.Reset(&sb)
	p.word(*w, false)
	p.Flush()
	printerFree.Put(p)
	return sb.String()
}

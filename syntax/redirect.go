// Copyright (c) 2026, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"strconv"
	"strings"
)

// default file descriptors per operator; -1 stands for both stdout and
// stderr
var redirDefaultFd = map[TokenKind]int{
	ReadFrom:     0,
	WriteTo:      1,
	ForceWriteTo: 1,
	WriteBoth:    -1,
	ReadCopy:     0,
	WriteCopy:    1,
	Append:       1,
	AppendBoth:   -1,
	ReadClose:    0,
	WriteClose:   1,
	ReadWrite:    0,
	HereString:   0,
}

func parseFd(text string, loc Location) (int, error) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, &ParseError{Kind: InvalidFd, Loc: loc, Text: text}
	}
	return int(n), nil
}

// redirect parses a redirection if the next tokens start one. It returns
// nil and no error otherwise, leaving the input untouched.
func (p *parser) redirect() (_ *Redirect, err error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != Number && !tok.Kind.isRedirect() {
		return nil, nil
	}
	defer p.traced("redirect")(&err)

	r := &Redirect{Position: tok.Loc}
	explicitFd := tok.Kind == Number
	if explicitFd {
		p.next()
		if r.N, err = parseFd(tok.Text, tok.Loc); err != nil {
			return nil, err
		}
		if tok, err = p.peek(); err != nil {
			return nil, err
		}
		if !tok.Kind.isRedirect() {
			return nil, unexpected(tok)
		}
	}
	p.next()
	r.OpPos = tok.Loc
	if tok.Kind == HereDocument {
		return nil, &ParseError{Kind: Unimplemented, Loc: tok.Loc, Text: "here-document"}
	}
	if !explicitFd {
		r.N = redirDefaultFd[tok.Kind]
	}
	switch tok.Kind {
	case ReadClose, WriteClose:
		r.Op = RedirOperator(tok.Kind)
		return r, nil
	case ReadCopy, WriteCopy:
		r.Op = RedirOperator(tok.Kind)
		return r, p.copyDest(r)
	case ForceWriteTo:
		r.Op, r.Force = RdrOut, true
	default:
		r.Op = RedirOperator(tok.Kind)
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if tok, err = p.peek(); err != nil {
		return nil, err
	}
	if tok.Kind != WordTok {
		return nil, unexpected(tok)
	}
	w, err := p.word()
	if err != nil {
		return nil, err
	}
	r.Word = &w
	return r, nil
}

// copyDest parses the operand of "<&" and ">&": a descriptor, optionally
// followed by "-" to close it after copying, or a lone "-".
func (p *parser) copyDest(r *Redirect) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	tok, err := p.peek()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case Number:
		p.next()
		if r.Dest, err = parseFd(tok.Text, tok.Loc); err != nil {
			return err
		}
		if r.Close, err = p.got(Hyphen); err != nil {
			return err
		}
	case WordTok:
		w, err := p.word()
		if err != nil {
			return err
		}
		text := w.Lit()
		if text == "-" {
			if r.Op == DplIn {
				r.Op = CloseIn
			} else {
				r.Op = CloseOut
			}
			return nil
		}
		digits, dash := strings.CutSuffix(text, "-")
		if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			return errAt(AmbiguousRedirect, tok.Loc)
		}
		if r.Dest, err = parseFd(digits, tok.Loc); err != nil {
			return err
		}
		r.Close = dash
		return nil
	default:
		return unexpected(tok)
	}
	if next, err := p.peek(); err != nil {
		return err
	} else if next.Kind == WordTok {
		return errAt(AmbiguousRedirect, next.Loc)
	}
	return nil
}

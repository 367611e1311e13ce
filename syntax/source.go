// Copyright (c) 2026, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Location describes a position within a source file. Both fields start
// at 1; columns count runes, not bytes.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string { return fmt.Sprintf("%d:%d", l.Line, l.Column) }

// IsValid reports whether the location has been set.
func (l Location) IsValid() bool { return l.Line > 0 && l.Column > 0 }

// Before reports whether l comes strictly before o.
func (l Location) Before(o Location) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}

const eofRune = -1

// reader walks a source string one rune at a time, tracking the location
// of the next rune.
type reader struct {
	src string
	off int
	loc Location
}

func newReader(src string, start Location) *reader {
	return &reader{src: src, loc: start}
}

func (r *reader) eof() bool { return r.off >= len(r.src) }

func (r *reader) location() Location { return r.loc }

func (r *reader) rest() string { return r.src[r.off:] }

func (r *reader) startsWith(s string) bool { return strings.HasPrefix(r.rest(), s) }

func (r *reader) peek() rune { return r.peekN(0) }

// peekN returns the rune n positions ahead without consuming anything, or
// eofRune if the input ends first.
func (r *reader) peekN(n int) rune {
	s := r.rest()
	for {
		if s == "" {
			return eofRune
		}
		c, size := utf8.DecodeRuneInString(s)
		if n == 0 {
			return c
		}
		s = s[size:]
		n--
	}
}

// invalid reports whether the next rune is not valid UTF-8.
func (r *reader) invalid() bool {
	c, size := utf8.DecodeRuneInString(r.rest())
	return c == utf8.RuneError && size == 1
}

func (r *reader) next() rune {
	if r.eof() {
		return eofRune
	}
	c, size := utf8.DecodeRuneInString(r.rest())
	r.off += size
	if c == '\n' {
		r.loc.Line++
		r.loc.Column = 1
	} else {
		r.loc.Column++
	}
	return c
}

func (r *reader) nextIf(f func(rune) bool) (rune, bool) {
	c := r.peek()
	if c == eofRune || !f(c) {
		return c, false
	}
	return r.next(), true
}

func (r *reader) skip(n int) {
	for ; n > 0 && !r.eof(); n-- {
		r.next()
	}
}

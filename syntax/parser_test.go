// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
)

var cmpOpt = cmp.FilterValues(func(l1, l2 Location) bool { return true }, cmp.Ignore())

func lit(s string) Word {
	return Word{Parts: []WordPart{{Kind: Normal, Value: s}}}
}

func litWords(strs ...string) []Word {
	var l []Word
	for _, s := range strs {
		l = append(l, lit(s))
	}
	return l
}

func call(name string, args ...string) *CallExpr {
	return &CallExpr{Name: lit(name), Args: litWords(args...)}
}

func varWord(name string) Word {
	return Word{Parts: []WordPart{{Kind: Variable, Value: name}}}
}

var parseTests = []struct {
	in      string
	rubyish bool
	want    []Stmt
}{
	{in: "echo foo bar", want: []Stmt{call("echo", "foo", "bar")}},
	{in: "echo foo;", want: []Stmt{call("echo", "foo")}},
	{in: "\n\necho foo\n\n", want: []Stmt{call("echo", "foo")}},
	{in: "echo if", want: []Stmt{call("echo", "if")}},
	{in: "a; b\nc", want: []Stmt{call("a"), call("b"), call("c")}},
	{in: "echo foo # bar", want: []Stmt{call("echo", "foo")}},
	{in: "echo a#b", want: []Stmt{call("echo", "a#b")}},
	{in: `echo a\ b`, want: []Stmt{call("echo", "a b")}},
	{
		in: "foo 2>&1 | bar",
		want: []Stmt{&BinaryCmd{
			Op: PipeStmt,
			X: &CallExpr{
				Name:   lit("foo"),
				Redirs: []*Redirect{{Op: DplOut, N: 2, Dest: 1}},
			},
			Y: call("bar"),
		}},
	},
	{
		in: "a |& b | c",
		want: []Stmt{&BinaryCmd{
			Op: PipeAll,
			X:  call("a"),
			Y:  &BinaryCmd{Op: PipeStmt, X: call("b"), Y: call("c")},
		}},
	},
	{
		in: "a && b ||\n\tc",
		want: []Stmt{&BinaryCmd{
			Op: AndStmt,
			X:  call("a"),
			Y:  &BinaryCmd{Op: OrStmt, X: call("b"), Y: call("c")},
		}},
	},
	{
		in:   "a & b",
		want: []Stmt{&Background{X: call("a"), Y: call("b")}},
	},
	{
		in:   "a &\nb",
		want: []Stmt{&Background{X: call("a")}, call("b")},
	},
	{
		in:   "!;hoge",
		want: []Stmt{&InvertReturn{}, call("hoge")},
	},
	{
		in:   "! a | b",
		want: []Stmt{&InvertReturn{Body: &BinaryCmd{Op: PipeStmt, X: call("a"), Y: call("b")}}},
	},
	{
		in: "a=1 b= foo x=y",
		want: []Stmt{&CallExpr{
			Assigns: []*Assign{
				{Name: "a", Value: &Word{Parts: []WordPart{{Kind: Normal, Value: "1"}}}},
				{Name: "b"},
			},
			Name: lit("foo"),
			Args: litWords("x=y"),
		}},
	},
	{
		in: "a=1 b=$x",
		want: []Stmt{&Assignments{Assigns: []*Assign{
			{Name: "a", Value: &Word{Parts: []WordPart{{Kind: Normal, Value: "1"}}}},
			{Name: "b", Value: &Word{Parts: []WordPart{{Kind: Variable, Value: "x"}}}},
		}}},
	},
	{
		in: "echo $* $@ $# $? $- $$ $! $_ $0 $1 $10",
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			varWord("*"), varWord("@"), varWord("#"), varWord("?"),
			varWord("-"), varWord("$"), varWord("!"), varWord("_"),
			varWord("0"), varWord("1"), varWord("10"),
		}}},
	},
	{
		in: "echo $09",
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{{Parts: []WordPart{
			{Kind: Variable, Value: "0"},
			{Kind: Normal, Value: "9"},
		}}}}},
	},
	{
		in: `echo "a $b ${c}d" 'e\f' $ x`,
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{
				{Kind: Normal, Value: "a ", Quoted: true},
				{Kind: Variable, Value: "b", Quoted: true},
				{Kind: Normal, Value: " ", Quoted: true},
				{Kind: Parameter, Value: "c", Quoted: true},
				{Kind: Normal, Value: "d", Quoted: true},
			}},
			{Parts: []WordPart{{Kind: Quote, Value: `e\f`}}},
			lit("$"),
			lit("x"),
		}}},
	},
	{
		in: `echo "" "\"\$\\\a"`,
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{{Kind: Normal, Quoted: true}}},
			{Parts: []WordPart{{Kind: Normal, Value: `"$\\a`, Quoted: true}}},
		}}},
	},
	{
		in:      `echo 'it\'s' $'a\tb'`,
		rubyish: true,
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{{Kind: Quote, Value: "it's"}}},
			{Parts: []WordPart{{Kind: Quote, Value: "a\tb"}}},
		}}},
	},
	{
		in: "echo $(date) `pwd`",
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{{Kind: Command, Value: "date", Stmts: []Stmt{call("date")}}}},
			{Parts: []WordPart{{Kind: Command, Value: "pwd", Backquoted: true, Stmts: []Stmt{call("pwd")}}}},
		}}},
	},
	{
		in: "echo $(echo $(a) ')')",
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{{
				Kind:  Command,
				Value: "echo $(a) ')'",
				Stmts: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
					{Parts: []WordPart{{Kind: Command, Value: "a", Stmts: []Stmt{call("a")}}}},
					{Parts: []WordPart{{Kind: Quote, Value: ")"}}},
				}}},
			}}},
		}}},
	},
	{
		in: "cat <in >out 2>>err &>all &>>all2 3<>rw >|force <<<str",
		want: []Stmt{&CallExpr{Name: lit("cat"), Redirs: []*Redirect{
			{Op: RdrIn, N: 0, Word: &Word{Parts: lit("in").Parts}},
			{Op: RdrOut, N: 1, Word: &Word{Parts: lit("out").Parts}},
			{Op: AppOut, N: 2, Word: &Word{Parts: lit("err").Parts}},
			{Op: RdrAll, N: -1, Word: &Word{Parts: lit("all").Parts}},
			{Op: AppAll, N: -1, Word: &Word{Parts: lit("all2").Parts}},
			{Op: RdrInOut, N: 3, Word: &Word{Parts: lit("rw").Parts}},
			{Op: RdrOut, N: 1, Force: true, Word: &Word{Parts: lit("force").Parts}},
			{Op: WordHdoc, N: 0, Word: &Word{Parts: lit("str").Parts}},
		}}},
	},
	{
		in: "a <&- >&- 3>&4- 5<&6 >&2 1>& -",
		want: []Stmt{&CallExpr{Name: lit("a"), Redirs: []*Redirect{
			{Op: CloseIn, N: 0},
			{Op: CloseOut, N: 1},
			{Op: DplOut, N: 3, Dest: 4, Close: true},
			{Op: DplIn, N: 5, Dest: 6},
			{Op: DplOut, N: 1, Dest: 2},
			{Op: CloseOut, N: 1},
		}}},
	},
	{
		in: ">out echo foo",
		want: []Stmt{&CallExpr{
			Name:   lit("echo"),
			Args:   litWords("foo"),
			Redirs: []*Redirect{{Op: RdrOut, N: 1, Word: &Word{Parts: lit("out").Parts}}},
		}},
	},
	{
		in:      "if true; then echo OK; else echo NG; end",
		rubyish: true,
		want: []Stmt{&IfClause{
			Cond: Condition{Test: call("true"), Body: []Stmt{call("echo", "OK")}},
			Else: []Stmt{call("echo", "NG")},
		}},
	},
	{
		in: "if a; then b; elif c; then d; else e; fi >out",
		want: []Stmt{&IfClause{
			Cond:   Condition{Test: call("a"), Body: []Stmt{call("b")}},
			Elifs:  []Condition{{Test: call("c"), Body: []Stmt{call("d")}}},
			Else:   []Stmt{call("e")},
			Redirs: []*Redirect{{Op: RdrOut, N: 1, Word: &Word{Parts: lit("out").Parts}}},
		}},
	},
	{
		in:      "if a\n  b\nelsif c\n  d\nend",
		rubyish: true,
		want: []Stmt{&IfClause{
			Cond:  Condition{Test: call("a"), Body: []Stmt{call("b")}},
			Elifs: []Condition{{Test: call("c"), Body: []Stmt{call("d")}}},
		}},
	},
	{
		in:      "unless a; then b; else c; end",
		rubyish: true,
		want: []Stmt{&UnlessClause{
			Cond: Condition{Test: call("a"), Body: []Stmt{call("b")}},
			Else: []Stmt{call("c")},
		}},
	},
	{
		in: "while a; do b; done; until c; do d; done",
		want: []Stmt{
			&WhileClause{Cond: Condition{Test: call("a"), Body: []Stmt{call("b")}}},
			&WhileClause{Until: true, Cond: Condition{Test: call("c"), Body: []Stmt{call("d")}}},
		},
	},
	{
		in:      "while a\n  b\nend",
		rubyish: true,
		want: []Stmt{
			&WhileClause{Cond: Condition{Test: call("a"), Body: []Stmt{call("b")}}},
		},
	},
	{
		in: "for x in a b; do echo $x; done",
		want: []Stmt{&ForClause{
			Name:   "x",
			InList: true,
			Items:  litWords("a", "b"),
			Body:   []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{varWord("x")}}},
		}},
	},
	{
		in: "for x\ndo a; done",
		want: []Stmt{&ForClause{
			Name: "x",
			Body: []Stmt{call("a")},
		}},
	},
	{
		in: "for x in; do a; done",
		want: []Stmt{&ForClause{
			Name:   "x",
			InList: true,
			Body:   []Stmt{call("a")},
		}},
	},
	{
		in:      "for x in a b\n  echo $x\nend",
		rubyish: true,
		want: []Stmt{&ForClause{
			Name:   "x",
			InList: true,
			Items:  litWords("a", "b"),
			Body:   []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{varWord("x")}}},
		}},
	},
	{
		in: "select x in a; do break; done",
		want: []Stmt{&ForClause{
			Select: true,
			Name:   "x",
			InList: true,
			Items:  litWords("a"),
			Body:   []Stmt{call("break")},
		}},
	},
	{
		in: "case $x in a|b) one ;; c) two ;;& esac",
		want: []Stmt{&CaseClause{
			Word: varWord("x"),
			Arms: []*CaseArm{
				{Patterns: litWords("a", "b"), Body: []Stmt{call("one")}, Next: CaseEnd},
				{Patterns: litWords("c"), Body: []Stmt{call("two")}, Next: CaseTest},
			},
		}},
	},
	{
		in: "case x in\n(a) one;&\nif) two\nesac",
		want: []Stmt{&CaseClause{
			Word: lit("x"),
			Arms: []*CaseArm{
				{Patterns: litWords("a"), Body: []Stmt{call("one")}, Next: CaseFall},
				{Patterns: litWords("if"), Body: []Stmt{call("two")}, Next: CaseEnd},
			},
		}},
	},
	{
		in:      "case $x\nwhen a | b then one\nwhen c\n  two\nend",
		rubyish: true,
		want: []Stmt{&CaseClause{
			Word: varWord("x"),
			Arms: []*CaseArm{
				{Patterns: litWords("a", "b"), Body: []Stmt{call("one")}, Next: CaseEnd},
				{Patterns: litWords("c"), Body: []Stmt{call("two")}, Next: CaseEnd},
			},
		}},
	},
	{
		in: "foo(){ bar; } >log",
		want: []Stmt{&FuncDecl{
			Name: "foo",
			Body: &Group{
				Body:   []Stmt{call("bar")},
				Redirs: []*Redirect{{Op: RdrOut, N: 1, Word: &Word{Parts: lit("log").Parts}}},
			},
		}},
	},
	{
		in: "function foo\n(a)",
		want: []Stmt{&FuncDecl{
			Name: "foo",
			Body: &Subshell{Body: []Stmt{call("a")}},
		}},
	},
	{
		in: "function foo() {\n\tbar\n}",
		want: []Stmt{&FuncDecl{
			Name: "foo",
			Body: &Group{Body: []Stmt{call("bar")}},
		}},
	},
	{
		in: "function foo { bar; }",
		want: []Stmt{&FuncDecl{
			Name: "foo",
			Body: &Group{Body: []Stmt{call("bar")}},
		}},
	},
	{
		in: "function foo if a; then b; fi",
		want: []Stmt{&FuncDecl{
			Name: "foo",
			Body: &IfClause{Cond: Condition{Test: call("a"), Body: []Stmt{call("b")}}},
		}},
	},
	{
		in: "for x in if fi; do echo; done",
		want: []Stmt{&ForClause{
			Name:   "x",
			InList: true,
			Items:  litWords("if", "fi"),
			Body:   []Stmt{call("echo")},
		}},
	},
	{
		in: "echo $((2*(3+4))) $(( (1+2)*3 ))",
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{{Kind: Arithm, Value: "2*(3+4)"}}},
			{Parts: []WordPart{{Kind: Arithm, Value: " (1+2)*3 "}}},
		}}},
	},
	{
		in: "echo $((a) | (b))",
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{{
				Kind:  Command,
				Value: "(a) | (b)",
				Stmts: []Stmt{&BinaryCmd{
					Op: PipeStmt,
					X:  &Subshell{Body: []Stmt{call("a")}},
					Y:  &Subshell{Body: []Stmt{call("b")}},
				}},
			}}},
		}}},
	},
	{
		in: "echo $(case a in a) b;; esac)",
		want: []Stmt{&CallExpr{Name: lit("echo"), Args: []Word{
			{Parts: []WordPart{{
				Kind:  Command,
				Value: "case a in a) b;; esac",
				Stmts: []Stmt{&CaseClause{
					Word: lit("a"),
					Arms: []*CaseArm{{Patterns: litWords("a"), Body: []Stmt{call("b")}, Next: CaseEnd}},
				}},
			}}},
		}}},
	},
	{in: "echo $%00 a$%", want: []Stmt{call("echo", "$%00", "a$%")}},
	{
		in: "{ a; b; } | (c)",
		want: []Stmt{&BinaryCmd{
			Op: PipeStmt,
			X:  &Group{Body: []Stmt{call("a"), call("b")}},
			Y:  &Subshell{Body: []Stmt{call("c")}},
		}},
	},
}

func TestParse(t *testing.T) {
	t.Parallel()
	for _, test := range parseTests {
		test := test
		t.Run("", func(t *testing.T) {
			t.Parallel()
			t.Logf("input: %s", test.in)
			got, err := Parse(test.in, test.rubyish)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !cmp.Equal(got, test.want, cmpOpt) {
				t.Fatalf("AST mismatch:\n%s",
					strings.Join(pretty.Diff(test.want, got), "\n"))
			}
		})
	}
}

var errorTests = []struct {
	in      string
	rubyish bool
	want    string
}{
	{in: "foo <", want: "unexpected end of input at line 1 column 6"},
	{in: "foo |", want: "unexpected end of input at line 1 column 6"},
	{in: `"abc`, want: "unterminated string at line 1 column 1"},
	{in: "echo 'abc", want: "unterminated string at line 1 column 6"},
	{in: "echo $(a", want: "unexpected end of input at line 1 column 6"},
	{in: "echo `a", want: "unexpected end of input at line 1 column 6"},
	{in: "echo ${a", want: "unexpected end of input at line 1 column 6"},
	{in: "for $x; do :; done", want: `invalid identifier "$x" at line 1 column 5`},
	{in: "for a-b in c; do :; done", want: `invalid identifier "a-b" at line 1 column 5`},
	{in: "12345678901234567890< f", want: `invalid file descriptor "12345678901234567890" at line 1 column 1`},
	{in: "a 2>&3x", want: "ambiguous redirect at line 1 column 7"},
	{in: "a 1>&x", want: "ambiguous redirect at line 1 column 6"},
	{
		in:      "case foo when bar baz; esac",
		rubyish: true,
		want:    `unexpected token word "baz" at line 1 column 19`,
	},
	{in: "cat <<EOF", want: "here-document is not supported at line 1 column 5"},
	{in: `echo $"x"`, want: "locale string is not supported at line 1 column 6"},
	{in: "if a; then b; end", want: `unexpected end of input at line 1 column 18`},
	{in: "if a; then; fi", want: `unexpected token "fi" at line 1 column 13`},
	{in: "a ;; b", want: `unexpected token ";;" at line 1 column 3`},
	{in: "echo \xff", want: "invalid UTF-8 sequence at line 1 column 6"},
	{in: ")", want: `unexpected token ")" at line 1 column 1`},
	{in: "a=b >c", want: `unexpected end of input at line 1 column 7`},
	// a brace after a word is part of a word
	{in: "{ echo a }", want: `unexpected end of input at line 1 column 11`},
	{in: "echo $(case a in a) b;;", want: `unexpected end of input at line 1 column 6`},
}

func TestParseErr(t *testing.T) {
	t.Parallel()
	for _, test := range errorTests {
		test := test
		t.Run("", func(t *testing.T) {
			t.Parallel()
			t.Logf("input: %s", test.in)
			_, err := Parse(test.in, test.rubyish)
			if err == nil {
				t.Fatalf("Expected error: %v", test.want)
			}
			qt.Assert(t, err.Error(), qt.Equals, test.want)
		})
	}
}

func TestParseErrKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want *ParseError
	}{
		{"foo <", &ParseError{Kind: Eof, Loc: Location{1, 6}}},
		{`"abc`, &ParseError{Kind: UnterminatedString, Loc: Location{1, 1}}},
		{"for $x; do :; done", &ParseError{Kind: InvalidIdentifier, Loc: Location{1, 5}, Text: "$x"}},
		{"99999999999> f", &ParseError{Kind: InvalidFd, Loc: Location{1, 1}, Text: "99999999999"}},
		{"a )", &ParseError{Kind: UnexpectedToken, Loc: Location{1, 3}, Token: RightParen}},
	}
	for _, test := range tests {
		_, err := Parse(test.in, false)
		var perr *ParseError
		qt.Assert(t, errors.As(err, &perr), qt.IsTrue)
		qt.Assert(t, perr, qt.DeepEquals, test.want)
	}
}

func TestIncomplete(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want bool
	}{
		{"if a; then", true},
		{"echo 'foo", true},
		{`echo "foo`, true},
		{"foo |", true},
		{"a )", false},
		{"for $x; do :; done", false},
	}
	for _, test := range tests {
		_, err := Parse(test.in, false)
		var perr *ParseError
		qt.Assert(t, errors.As(err, &perr), qt.IsTrue)
		qt.Assert(t, perr.Incomplete(), qt.Equals, test.want, qt.Commentf("input: %q", test.in))
	}
}

func TestParserOptions(t *testing.T) {
	t.Parallel()
	p := NewParser(LineOffset(9))
	f, err := p.ParseString("  a\nb", "in.sh")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, f.Name, qt.Equals, "in.sh")
	qt.Assert(t, f.HistIgnore, qt.IsTrue)
	qt.Assert(t, f.Stmts[0].Pos(), qt.Equals, Location{10, 3})
	qt.Assert(t, f.Stmts[1].Pos(), qt.Equals, Location{11, 1})

	f, err = p.Parse(strings.NewReader("a"), "")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, f.HistIgnore, qt.IsFalse)

	_, err = p.ParseString("a |", "in.sh")
	qt.Assert(t, err, qt.ErrorMatches, `in.sh: unexpected end of input at line 10 column 4`)
}

func TestRubyishKeywords(t *testing.T) {
	t.Parallel()
	// outside the rubyish dialect these are plain commands
	stmts, err := Parse("end; unless; when", false)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stmts, qt.CmpEquals(cmpOpt), []Stmt{call("end"), call("unless"), call("when")})

	_, err = Parse("end", true)
	qt.Assert(t, err, qt.ErrorMatches, `unexpected token "end" at line 1 column 1`)
}

func TestPositions(t *testing.T) {
	t.Parallel()
	stmts, err := Parse("a 2>&1 \"x $y\"\n  $(b c)", false)
	qt.Assert(t, err, qt.IsNil)
	ce := stmts[0].(*CallExpr)
	qt.Assert(t, ce.Pos(), qt.Equals, Location{1, 1})
	qt.Assert(t, ce.Redirs[0].Pos(), qt.Equals, Location{1, 3})
	qt.Assert(t, ce.Redirs[0].OpPos, qt.Equals, Location{1, 4})
	qt.Assert(t, ce.Args[0].Parts[0].Pos, qt.Equals, Location{1, 8})
	qt.Assert(t, ce.Args[0].Parts[1].Pos, qt.Equals, Location{1, 11})

	sub := stmts[1].(*CallExpr).Name.Parts[0]
	qt.Assert(t, sub.Pos, qt.Equals, Location{2, 3})
	inner := sub.Stmts[0].(*CallExpr)
	qt.Assert(t, inner.Pos(), qt.Equals, Location{2, 5})
	qt.Assert(t, inner.Args[0].Pos(), qt.Equals, Location{2, 7})
}

func TestLexerLocationsMonotonic(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"echo \"a $b `c` d\" 'e' >f 2>&1 | g && h\n",
		"case x in a) b;; esac\nfor i in 1 2; do :; done",
		"a\\\nb \"c\\\nd\" $(e\nf)",
	}
	for _, in := range inputs {
		l := newLexer(in, Location{1, 1}, true, nil)
		var prev Location
		for {
			tok, err := l.next()
			qt.Assert(t, err, qt.IsNil)
			qt.Assert(t, tok.Loc.Before(prev), qt.IsFalse,
				qt.Commentf("%s at %s after %s in %q", tok, tok.Loc, prev, in))
			prev = tok.Loc
			if tok.Kind == EOF {
				break
			}
		}
	}
}

func TestTrace(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := NewParser(Trace(&buf))
	_, err := p.ParseString("echo foo", "")
	qt.Assert(t, err, qt.IsNil)
	out := buf.String()
	qt.Assert(t, out, qt.Matches, `(?s)msg=\[PEG_INPUT_START\]\necho foo\nmsg=\[PEG_TRACE_START\]\n.*msg=\[PEG_TRACE_STOP\]\n`)
	qt.Assert(t, out, qt.Contains, `msg=attempt rule=command at=1:1`)
	qt.Assert(t, out, qt.Contains, `msg=match rule=command at=1:1 to=1:9`)
	qt.Assert(t, out, qt.Not(qt.Contains), "time=")
	qt.Assert(t, out, qt.Not(qt.Contains), "level=")

	// tracing must not change the result
	buf.Reset()
	_, err = p.ParseString("a |", "")
	qt.Assert(t, err, qt.ErrorMatches, `unexpected end of input .*`)
	qt.Assert(t, buf.String(), qt.Contains, "msg=fail rule=pipeline")
}

func FuzzParse(f *testing.F) {
	for _, test := range parseTests {
		f.Add(test.in, test.rubyish)
	}
	for _, test := range errorTests {
		f.Add(test.in, test.rubyish)
	}
	f.Fuzz(func(t *testing.T, src string, rubyish bool) {
		stmts, err := Parse(src, rubyish)
		if err != nil {
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("non-ParseError: %T %v", err, err)
			}
			return
		}
		// printing must give an equivalent program
		var buf bytes.Buffer
		c := PrintConfig{Rubyish: rubyish}
		if err := c.Fprint(&buf, &File{Stmts: stmts}); err != nil {
			t.Fatal(err)
		}
		stmts2, err := Parse(buf.String(), rubyish)
		if err != nil {
			t.Fatalf("printed program does not parse: %v\n%s", err, buf.String())
		}
		if !cmp.Equal(stmts, stmts2, cmpOpt) {
			t.Fatalf("printed program differs:\n%s\n%s", buf.String(),
				strings.Join(pretty.Diff(stmts, stmts2), "\n"))
		}
	})
}

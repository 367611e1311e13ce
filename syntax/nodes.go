// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

// Node represents an AST node.
type Node interface {
	// Pos returns the location of the first character of the node.
	Pos() Location
}

// File is a parsed shell program.
type File struct {
	Name string

	Stmts []Stmt

	// HistIgnore is set when the source starts with a space or a tab,
	// which interactive shells take as a request to keep the line out of
	// the history.
	HistIgnore bool
}

func (f *File) Pos() Location {
	if len(f.Stmts) == 0 {
		return Location{}
	}
	return f.Stmts[0].Pos()
}

// Stmt represents all nodes that can stand as a statement: simple and
// compound commands, and the lists and pipelines built from them.
type Stmt interface {
	Node
	stmtNode()
}

func (*CallExpr) stmtNode()     {}
func (*Assignments) stmtNode()  {}
func (*IfClause) stmtNode()     {}
func (*UnlessClause) stmtNode() {}
func (*WhileClause) stmtNode()  {}
func (*ForClause) stmtNode()    {}
func (*CaseClause) stmtNode()   {}
func (*FuncDecl) stmtNode()     {}
func (*Group) stmtNode()        {}
func (*Subshell) stmtNode()     {}
func (*BinaryCmd) stmtNode()    {}
func (*InvertReturn) stmtNode() {}
func (*Background) stmtNode()   {}

// Assign represents a variable assignment such as "foo=bar". Value is nil
// for "foo=".
type Assign struct {
	Position Location
	Name     string
	Value    *Word
}

func (a *Assign) Pos() Location { return a.Position }

// Redirect represents an input/output redirection.
//
// N is the file descriptor being redirected; it is -1 for the operators
// that redirect both standard output and standard error. For DplIn and
// DplOut, Dest is the descriptor being copied and Close is set when the
// copy is followed by "-". Word is the redirection target for the other
// operators, and is nil for CloseIn and CloseOut.
type Redirect struct {
	Position Location
	OpPos    Location
	Op       RedirOperator
	N        int
	Dest     int
	Close    bool
	Force    bool // >|
	Word     *Word
}

func (r *Redirect) Pos() Location { return r.Position }

// CallExpr represents a simple command, with optional leading
// assignments and redirections anywhere around its words.
type CallExpr struct {
	Position Location
	Assigns  []*Assign
	Name     Word
	Args     []Word
	Redirs   []*Redirect
}

func (c *CallExpr) Pos() Location { return c.Position }

// Assignments represents a statement made only of assignments, such as
// "a=1 b=2".
type Assignments struct {
	Position Location
	Assigns  []*Assign
}

func (a *Assignments) Pos() Location { return a.Position }

// Condition is a test and the body run when the test succeeds.
type Condition struct {
	Test Stmt
	Body []Stmt
}

// IfClause represents an if statement.
type IfClause struct {
	Position Location
	Cond     Condition
	Elifs    []Condition
	Else     []Stmt
	Redirs   []*Redirect
}

func (c *IfClause) Pos() Location { return c.Position }

// UnlessClause represents an unless statement, an if with the test
// negated.
type UnlessClause struct {
	Position Location
	Cond     Condition
	Else     []Stmt
	Redirs   []*Redirect
}

func (c *UnlessClause) Pos() Location { return c.Position }

// WhileClause represents a while or an until loop.
type WhileClause struct {
	Position Location
	Until    bool
	Cond     Condition
	Redirs   []*Redirect
}

func (w *WhileClause) Pos() Location { return w.Position }

// ForClause represents a for or a select loop. InList tells whether the
// header had an "in" list, which may be empty; without one the loop runs
// over the positional parameters.
type ForClause struct {
	Position Location
	Select   bool
	Name     string
	InList   bool
	Items    []Word
	Body     []Stmt
	Redirs   []*Redirect
}

func (f *ForClause) Pos() Location { return f.Position }

// CaseClause represents a case statement.
type CaseClause struct {
	Position Location
	Word     Word
	Arms     []*CaseArm
	Redirs   []*Redirect
}

func (c *CaseClause) Pos() Location { return c.Position }

// CaseArm represents a pattern list and its body within a case statement.
type CaseArm struct {
	Position Location
	Patterns []Word
	Body     []Stmt
	Next     CaseNext
}

func (a *CaseArm) Pos() Location { return a.Position }

// FuncDecl represents a function declaration. Body is always a compound
// command.
type FuncDecl struct {
	Position Location
	Name     string
	Body     Stmt
}

func (f *FuncDecl) Pos() Location { return f.Position }

// Group represents a list of statements in braces.
type Group struct {
	Position Location
	Body     []Stmt
	Redirs   []*Redirect
}

func (g *Group) Pos() Location { return g.Position }

// Subshell represents a list of statements in parentheses.
type Subshell struct {
	Position Location
	Body     []Stmt
	Redirs   []*Redirect
}

func (s *Subshell) Pos() Location { return s.Position }

// BinaryCmd represents a binary expression between two statements. Both
// lists and pipelines nest to the right.
type BinaryCmd struct {
	OpPos Location
	Op    BinCmdOperator
	X, Y  Stmt
}

func (b *BinaryCmd) Pos() Location { return b.X.Pos() }

// InvertReturn represents a statement preceded by "!". Body is nil for a
// lone "!".
type InvertReturn struct {
	Position Location
	Body     Stmt
}

func (i *InvertReturn) Pos() Location { return i.Position }

// Background represents X run asynchronously, followed by Y if present.
type Background struct {
	AmpPos Location
	X, Y   Stmt
}

func (b *Background) Pos() Location { return b.X.Pos() }

// Word represents a shell word made of adjacent fragments, such as
// foo"bar"$baz.
type Word struct {
	Parts []WordPart
}

func (w *Word) Pos() Location {
	if len(w.Parts) == 0 {
		return Location{}
	}
	return w.Parts[0].Pos
}

// Lit returns the word's literal value if it is a single bare fragment,
// and an empty string otherwise.
func (w *Word) Lit() string {
	if len(w.Parts) != 1 {
		return ""
	}
	if part := w.Parts[0]; part.Kind == Normal && !part.Quoted {
		return part.Value
	}
	return ""
}

// WordPart is a fragment of a word. Value is the fragment's text; for
// Command fragments it is the raw source of the substitution and Stmts
// holds the parsed statements.
type WordPart struct {
	Pos        Location
	Kind       WordKind
	Value      string
	Quoted     bool
	Backquoted bool
	Stmts      []Stmt
}

// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "fmt"

// TokenKind is the kind of a lexical token.
type TokenKind int

// The list of all possible tokens and reserved words.
const (
	illegalTok TokenKind = iota
	EOF

	Space       // blanks and line continuations
	NewLine     // \n
	Termination // ;
	Number      // fd before a redirection
	WordTok
	Comment // #...

	BackgroundTok // &
	And           // &&
	Pipe          // |
	Or            // ||
	PipeBoth      // |&

	ReadFrom     // <
	WriteTo      // >
	ForceWriteTo // >|
	WriteBoth    // &>
	ReadCopy     // <&
	WriteCopy    // >&
	Append       // >>
	AppendBoth   // &>>
	ReadClose    // <&-
	WriteClose   // >&-
	ReadWrite    // <>
	HereDocument // <<
	HereString   // <<<
	Hyphen       // -

	LeftParen       // (
	RightParen      // )
	CaseBreak       // ;;
	CaseFallThrough // ;&
	CaseTestNext    // ;;&

	// reserved words
	GroupStart // {
	GroupEnd   // }
	Bang       // !
	If
	Then
	Else
	ElIf
	ElsIf
	Fi
	End
	Unless
	While
	Do
	Done
	Until
	For
	Select
	In
	Case
	Esac
	When
	Function
)

var tokNames = [...]string{
	illegalTok: "illegal",
	EOF:        "EOF",

	Space:       "space",
	NewLine:     "newline",
	Termination: ";",
	Number:      "number",
	WordTok:     "word",
	Comment:     "comment",

	BackgroundTok: "&",
	And:           "&&",
	Pipe:          "|",
	Or:            "||",
	PipeBoth:      "|&",

	ReadFrom:     "<",
	WriteTo:      ">",
	ForceWriteTo: ">|",
	WriteBoth:    "&>",
	ReadCopy:     "<&",
	WriteCopy:    ">&",
	Append:       ">>",
	AppendBoth:   "&>>",
	ReadClose:    "<&-",
	WriteClose:   ">&-",
	ReadWrite:    "<>",
	HereDocument: "<<",
	HereString:   "<<<",
	Hyphen:       "-",

	LeftParen:       "(",
	RightParen:      ")",
	CaseBreak:       ";;",
	CaseFallThrough: ";&",
	CaseTestNext:    ";;&",

	GroupStart: "{",
	GroupEnd:   "}",
	Bang:       "!",
	If:         "if",
	Then:       "then",
	Else:       "else",
	ElIf:       "elif",
	ElsIf:      "elsif",
	Fi:         "fi",
	End:        "end",
	Unless:     "unless",
	While:      "while",
	Do:         "do",
	Done:       "done",
	Until:      "until",
	For:        "for",
	Select:     "select",
	In:         "in",
	Case:       "case",
	Esac:       "esac",
	When:       "when",
	Function:   "function",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return tokNames[k]
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool { return k >= GroupStart && k <= Function }

func (k TokenKind) isRedirect() bool { return k >= ReadFrom && k <= HereString }

// WordKind tells how a word fragment was written.
type WordKind int

const (
	Normal    WordKind = iota // bare or double-quoted text
	Quote                     // single-quoted text, or $'...' after expansion
	Command                   // `...` or $(...)
	Variable                  // $name
	Parameter                 // ${...}
	Arithm                    // $((...)), kept unevaluated
)

func (k WordKind) String() string {
	switch k {
	case Normal:
		return "Normal"
	case Quote:
		return "Quote"
	case Command:
		return "Command"
	case Variable:
		return "Variable"
	case Parameter:
		return "Parameter"
	case Arithm:
		return "Arithm"
	}
	return fmt.Sprintf("WordKind(%d)", int(k))
}

// Token is a single lexical token. Text holds the literal content of
// Number, WordTok and Comment tokens; Backquoted marks a Command word written
// with back-ticks.
type Token struct {
	Kind       TokenKind
	Text       string
	WordKind   WordKind
	Quoted     bool
	Backquoted bool
	Loc        Location
}

func (t Token) String() string {
	switch t.Kind {
	case WordTok, Number, Comment:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return t.Kind.String()
}

type RedirOperator TokenKind

const (
	RdrIn    = RedirOperator(ReadFrom)     // <
	RdrOut   = RedirOperator(WriteTo)      // >
	RdrAll   = RedirOperator(WriteBoth)    // &>
	DplIn    = RedirOperator(ReadCopy)     // <&
	DplOut   = RedirOperator(WriteCopy)    // >&
	AppOut   = RedirOperator(Append)       // >>
	AppAll   = RedirOperator(AppendBoth)   // &>>
	CloseIn  = RedirOperator(ReadClose)    // <&-
	CloseOut = RedirOperator(WriteClose)   // >&-
	RdrInOut = RedirOperator(ReadWrite)    // <>
	WordHdoc = RedirOperator(HereString)   // <<<
	Hdoc     = RedirOperator(HereDocument) // <<
)

type BinCmdOperator TokenKind

const (
	AndStmt  = BinCmdOperator(And)
	OrStmt   = BinCmdOperator(Or)
	PipeStmt = BinCmdOperator(Pipe)
	PipeAll  = BinCmdOperator(PipeBoth)
)

// CaseNext tells what happens after a case arm's body runs.
type CaseNext TokenKind

const (
	CaseEnd  = CaseNext(CaseBreak)       // ;;
	CaseFall = CaseNext(CaseFallThrough) // ;&
	CaseTest = CaseNext(CaseTestNext)    // ;;&
)

func (o RedirOperator) String() string  { return TokenKind(o).String() }
func (o BinCmdOperator) String() string { return TokenKind(o).String() }
func (o CaseNext) String() string       { return TokenKind(o).String() }

// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"io"
	"reflect"
)

// Walk traverses a syntax tree in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Walk invokes f
// recursively for each of the non-nil children of node, followed by
// f(nil). The statements of command substitutions are visited as children
// of the word containing them.
func Walk(node Node, f func(Node) bool) {
	if !f(node) {
		return
	}

	switch node := node.(type) {
	case *File:
		walkList(node.Stmts, f)
	case *Assign:
		if node.Value != nil {
			Walk(node.Value, f)
		}
	case *Redirect:
		if node.Word != nil {
			Walk(node.Word, f)
		}
	case *CallExpr:
		walkList(node.Assigns, f)
		Walk(&node.Name, f)
		walkWords(node.Args, f)
		walkList(node.Redirs, f)
	case *Assignments:
		walkList(node.Assigns, f)
	case *IfClause:
		walkCond(node.Cond, f)
		for _, elif := range node.Elifs {
			walkCond(elif, f)
		}
		walkList(node.Else, f)
		walkList(node.Redirs, f)
	case *UnlessClause:
		walkCond(node.Cond, f)
		walkList(node.Else, f)
		walkList(node.Redirs, f)
	case *WhileClause:
		walkCond(node.Cond, f)
		walkList(node.Redirs, f)
	case *ForClause:
		walkWords(node.Items, f)
		walkList(node.Body, f)
		walkList(node.Redirs, f)
	case *CaseClause:
		Walk(&node.Word, f)
		walkList(node.Arms, f)
		walkList(node.Redirs, f)
	case *CaseArm:
		walkWords(node.Patterns, f)
		walkList(node.Body, f)
	case *FuncDecl:
		Walk(node.Body, f)
	case *Group:
		walkList(node.Body, f)
		walkList(node.Redirs, f)
	case *Subshell:
		walkList(node.Body, f)
		walkList(node.Redirs, f)
	case *BinaryCmd:
		Walk(node.X, f)
		Walk(node.Y, f)
	case *InvertReturn:
		if node.Body != nil {
			Walk(node.Body, f)
		}
	case *Background:
		Walk(node.X, f)
		if node.Y != nil {
			Walk(node.Y, f)
		}
	case *Word:
		for _, part := range node.Parts {
			walkList(part.Stmts, f)
		}
	default:
		panic(fmt.Sprintf("syntax.Walk: unexpected node type %T", node))
	}

	f(nil)
}

func walkList[N Node](list []N, f func(Node) bool) {
	for _, node := range list {
		Walk(node, f)
	}
}

func walkWords(list []Word, f func(Node) bool) {
	// []Word holds values, so take the address of each element.
	for i := range list {
		Walk(&list[i], f)
	}
}

func walkCond(cond Condition, f func(Node) bool) {
	Walk(cond.Test, f)
	walkList(cond.Body, f)
}

// DebugPrint prints the provided syntax tree, spanning multiple lines and with
// indentation. Can be useful to investigate the content of a syntax tree.
func DebugPrint(w io.Writer, node Node) error {
	p := debugPrinter{out: w}
	p.print(reflect.ValueOf(node))
	p.printf("\n")
	return p.err
}

type debugPrinter struct {
	out   io.Writer
	level int
	err   error
}

func (p *debugPrinter) printf(format string, args ...any) {
	_, err := fmt.Fprintf(p.out, format, args...)
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *debugPrinter) newline() {
	p.printf("\n")
	for i := 0; i < p.level; i++ {
		p.printf(".  ")
	}
}

func (p *debugPrinter) print(x reflect.Value) {
	switch x.Kind() {
	case reflect.Interface:
		if x.IsNil() {
			p.printf("nil")
			return
		}
		p.print(x.Elem())
	case reflect.Ptr:
		if x.IsNil() {
			p.printf("nil")
			return
		}
		p.printf("*")
		p.print(x.Elem())
	case reflect.Slice:
		p.printf("%s (len = %d) {", x.Type(), x.Len())
		if x.Len() > 0 {
			p.level++
			p.newline()
			for i := 0; i < x.Len(); i++ {
				p.printf("%d: ", i)
				p.print(x.Index(i))
				if i == x.Len()-1 {
					p.level--
				}
				p.newline()
			}
		}
		p.printf("}")

	case reflect.Struct:
		if loc, ok := x.Interface().(Location); ok {
			p.printf("%s", loc)
			return
		}
		t := x.Type()
		p.printf("%s {", t)
		p.level++
		p.newline()
		for i := 0; i < t.NumField(); i++ {
			p.printf("%s: ", t.Field(i).Name)
			p.print(x.Field(i))
			if i == x.NumField()-1 {
				p.level--
			}
			p.newline()
		}
		p.printf("}")
	default:
		if s, ok := x.Interface().(fmt.Stringer); ok && !x.IsZero() {
			p.printf("%#v (%s)", x.Interface(), s)
		} else {
			p.printf("%#v", x.Interface())
		}
	}
}

package syntax

import "strings"

// Script is the parsed form of a .jdl file.
type Script struct {
	Statements []Statement
}

// Statement is one top-level script statement.
type Statement interface {
	statementNode()
	Position() Pos
}

// Input declares the JSONL file records are read from.
type Input struct {
	Path string
	Pos  Pos
}

// Output declares the JSONL file transformed records are written to.
type Output struct {
	Path string
	Pos  Pos
}

// Transform holds the ordered field assignments applied to every record.
type Transform struct {
	Assignments []Assignment
	Pos         Pos
}

// PrintLine echoes a single output line after the record loop.
type PrintLine struct {
	Line int
	Pos  Pos
}

// PrintAll echoes every output line after the record loop.
type PrintAll struct {
	Pos Pos
}

// Let binds a name to an expression evaluated once per record.
type Let struct {
	Name  string
	Value Expr
	Pos   Pos
}

func (*Input) statementNode()     {}
func (*Output) statementNode()    {}
func (*Transform) statementNode() {}
func (*PrintLine) statementNode() {}
func (*PrintAll) statementNode()  {}
func (*Let) statementNode()       {}

func (s *Input) Position() Pos     { return s.Pos }
func (s *Output) Position() Pos    { return s.Pos }
func (s *Transform) Position() Pos { return s.Pos }
func (s *PrintLine) Position() Pos { return s.Pos }
func (s *PrintAll) Position() Pos  { return s.Pos }
func (s *Let) Position() Pos       { return s.Pos }

// Assignment sets one output field.
type Assignment struct {
	Field string
	Value Expr
	Pos   Pos
}

// Expr is an expression node. The set of implementations is closed.
type Expr interface {
	exprNode()
	Position() Pos
}

// FieldAccess selects a possibly nested value from the current record.
type FieldAccess struct {
	Path []string
	Pos  Pos
}

// StringLiteral is a double-quoted string.
type StringLiteral struct {
	Text string
	Pos  Pos
}

// Call invokes a built-in function with no arguments.
type Call struct {
	Name string
	Pos  Pos
}

// Variable refers to a let binding.
type Variable struct {
	Name string
	Pos  Pos
}

// MethodChain applies operations to Base left to right.
type MethodChain struct {
	Base Expr
	Ops  []Operation
	Pos  Pos
}

// Concat joins two expressions as strings.
type Concat struct {
	Left  Expr
	Right Expr
	Pos   Pos
}

func (*FieldAccess) exprNode()   {}
func (*StringLiteral) exprNode() {}
func (*Call) exprNode()          {}
func (*Variable) exprNode()      {}
func (*MethodChain) exprNode()   {}
func (*Concat) exprNode()        {}

func (e *FieldAccess) Position() Pos   { return e.Pos }
func (e *StringLiteral) Position() Pos { return e.Pos }
func (e *Call) Position() Pos          { return e.Pos }
func (e *Variable) Position() Pos      { return e.Pos }
func (e *MethodChain) Position() Pos   { return e.Pos }
func (e *Concat) Position() Pos        { return e.Pos }

// DottedPath returns the field path joined with dots.
func (e *FieldAccess) DottedPath() string {
	return strings.Join(e.Path, ".")
}

// OpKind identifies a method chain operation.
type OpKind int

const (
	OpPrefix OpKind = iota
	OpSuffix
	OpDefault
)

// Methods lists the method names accepted in a method chain.
var Methods = []string{"prefix", "suffix", "default"}

var opNames = map[OpKind]string{
	OpPrefix:  "prefix",
	OpSuffix:  "suffix",
	OpDefault: "default",
}

func (k OpKind) String() string {
	return opNames[k]
}

func opKindOf(name string) (OpKind, bool) {
	for kind, n := range opNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Operation is a single .method("text") step.
type Operation struct {
	Kind OpKind
	Text string
}

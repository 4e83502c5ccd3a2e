package bytecode

import (
	"encoding/json"
	"fmt"
)

// LiteralKind tags the payload carried by a Literal - the nested tagged
// union a DynamicConstant (or StringConstant/BoolConstant/...) decodes to
// in the constant pool.
type LiteralKind byte

const (
	LiteralUnit LiteralKind = iota
	LiteralBool
	LiteralInteger
	LiteralFloat
	LiteralChar
	LiteralString
	LiteralArray
	LiteralRange
)

// literalTags mirrors the U, B, I, F, C, S, A, R wire tags fixed for the
// dynamic-constant payload.
var literalTags = map[LiteralKind]string{
	LiteralUnit:    "U",
	LiteralBool:    "B",
	LiteralInteger: "I",
	LiteralFloat:   "F",
	LiteralChar:    "C",
	LiteralString:  "S",
	LiteralArray:   "A",
	LiteralRange:   "R",
}

var literalTagsInverse = func() map[string]LiteralKind {
	m := make(map[string]LiteralKind, len(literalTags))
	for k, v := range literalTags {
		m[v] = k
	}
	return m
}()

// Literal is a compile-time constant value carried in a Program's constant
// pool. It exists independently of the host Value contract: the compiler
// builds one out of whatever the AST's constant-bearing nodes hand it, and
// the VM's Factory turns it into a host Value at run time.
type Literal struct {
	Kind       LiteralKind
	Bool       bool
	Int        int64
	Float      float64
	Char       rune
	Str        string
	Array      []Literal
	RangeStart int64
	RangeLen   int64
}

func UnitLiteral() Literal               { return Literal{Kind: LiteralUnit} }
func BoolLiteral(v bool) Literal         { return Literal{Kind: LiteralBool, Bool: v} }
func IntegerLiteral(v int64) Literal     { return Literal{Kind: LiteralInteger, Int: v} }
func FloatLiteral(v float64) Literal     { return Literal{Kind: LiteralFloat, Float: v} }
func CharLiteral(v rune) Literal         { return Literal{Kind: LiteralChar, Char: v} }
func StringLiteral(v string) Literal     { return Literal{Kind: LiteralString, Str: v} }
func ArrayLiteral(elems []Literal) Literal {
	return Literal{Kind: LiteralArray, Array: elems}
}

// RangeLiteral constructs a start/length range literal, rejecting a
// negative length at the point of construction rather than deferring the
// failure to run time.
func RangeLiteral(start, length int64) (Literal, error) {
	if length < 0 {
		return Literal{}, fmt.Errorf("bytecode: range literal has negative length %d", length)
	}
	return Literal{Kind: LiteralRange, RangeStart: start, RangeLen: length}, nil
}

type wireLiteral struct {
	Tag        string        `json:"tag"`
	Bool       bool          `json:"bool,omitempty"`
	Int        int64         `json:"int,omitempty"`
	Float      float64       `json:"float,omitempty"`
	Char       rune          `json:"char,omitempty"`
	Str        string        `json:"str,omitempty"`
	Array      []Literal     `json:"array,omitempty"`
	RangeStart int64         `json:"rangeStart,omitempty"`
	RangeLen   int64         `json:"rangeLen,omitempty"`
}

// MarshalJSON renders the literal as a short-tagged object, e.g.
// {"tag":"I","int":14}, matching the wire vocabulary fixed for the
// dynamic-constant payload.
func (l Literal) MarshalJSON() ([]byte, error) {
	tag, ok := literalTags[l.Kind]
	if !ok {
		return nil, fmt.Errorf("bytecode: unknown literal kind %d", l.Kind)
	}
	w := wireLiteral{
		Tag: tag, Bool: l.Bool, Int: l.Int, Float: l.Float, Char: l.Char,
		Str: l.Str, Array: l.Array, RangeStart: l.RangeStart, RangeLen: l.RangeLen,
	}
	return json.Marshal(w)
}

func (l *Literal) UnmarshalJSON(data []byte) error {
	var w wireLiteral
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, ok := literalTagsInverse[w.Tag]
	if !ok {
		return fmt.Errorf("bytecode: unknown literal tag %q", w.Tag)
	}
	if kind == LiteralRange && w.RangeLen < 0 {
		return fmt.Errorf("bytecode: range literal has negative length %d", w.RangeLen)
	}
	*l = Literal{
		Kind: kind, Bool: w.Bool, Int: w.Int, Float: w.Float, Char: w.Char,
		Str: w.Str, Array: w.Array, RangeStart: w.RangeStart, RangeLen: w.RangeLen,
	}
	return nil
}

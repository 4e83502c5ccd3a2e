// Package bytecode defines the opcode vocabulary, the flat instruction
// encoding the compiler emits and the VM executes, and the constant-pool
// literal representation carried alongside it.
package bytecode

import (
	"encoding/binary"
	"fmt"
)

var byteOrder = binary.BigEndian

// Opcode identifies one bytecode instruction. The ~20 variants below match
// the vocabulary fixed by the external bytecode contract; their relative
// order has no significance beyond matching the table each was grounded
// on.
type Opcode byte

const (
	OpDynamicConstant Opcode = iota
	OpUnitConstant
	OpBoolConstant
	OpIntegerConstant
	OpFloatConstant
	OpCharConstant
	OpStringConstant
	OpInterpolatedString
	OpConstructArray
	OpVariable
	OpFnCall
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	OpJumpIfNotNull
	OpVarInit
	OpIndex
	OpIter
	OpReturn
	OpPopStack
)

// OpDefinition describes one opcode's wire tag, human name, and the byte
// width of each operand it carries, in emission order.
type OpDefinition struct {
	Name          string
	Tag           string
	OperandWidths []int
}

// definitions is the single source of truth for how an opcode is packed
// and unpacked; Get, MakeInstruction, ReadOperands and Disassemble all
// read from it so the encoding only needs to change in one place.
var definitions = map[Opcode]*OpDefinition{
	OpDynamicConstant:   {"DynamicConstant", "DC", []int{sizeWidth}},
	OpUnitConstant:      {"UnitConstant", "UC", []int{}},
	OpBoolConstant:      {"BoolConstant", "BC", []int{1}},
	OpIntegerConstant:   {"IntegerConstant", "IC", []int{8}},
	OpFloatConstant:     {"FloatConstant", "FC", []int{8}},
	OpCharConstant:      {"CharConstant", "CC", []int{4}},
	OpStringConstant:    {"StringConstant", "SC", []int{sizeWidth}},
	OpInterpolatedString: {"InterpolatedString", "IS", []int{sizeWidth}},
	OpConstructArray:    {"ConstructArray", "CA", []int{sizeWidth}},
	OpVariable:          {"Variable", "V", []int{sizeWidth}},
	OpFnCall:            {"FnCall", "F", []int{sizeWidth, sizeWidth}},
	OpJump:              {"Jump", "J", []int{sizeWidth}},
	OpJumpIfTrue:        {"JumpIfTrue", "JT", []int{sizeWidth}},
	OpJumpIfFalse:       {"JumpIfFalse", "JF", []int{sizeWidth}},
	OpJumpIfNotNull:     {"JumpIfNotNull", "JNN", []int{sizeWidth}},
	OpVarInit:           {"VarInit", "VI", []int{sizeWidth}},
	OpIndex:             {"Index", "I", []int{}},
	OpIter:              {"Iter", "IT", []int{sizeWidth, sizeWidth, sizeWidth, sizeWidth}},
	OpReturn:            {"Return", "R", []int{}},
	OpPopStack:          {"PopStack", "P", []int{}},
}

var tagToOpcode = func() map[string]Opcode {
	m := make(map[string]Opcode, len(definitions))
	for op, def := range definitions {
		m[def.Tag] = op
	}
	return m
}()

// Get looks up an opcode's definition, failing for unknown byte values
// (e.g. data decoded from a corrupt or foreign instruction stream).
func Get(op Opcode) (*OpDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("bytecode: unknown opcode %d", op)
	}
	return def, nil
}

// OpcodeByTag resolves a wire tag (e.g. "JF") back to its Opcode, the
// inverse of OpDefinition.Tag, used when decoding the serialised shape.
func OpcodeByTag(tag string) (Opcode, error) {
	op, ok := tagToOpcode[tag]
	if !ok {
		return 0, fmt.Errorf("bytecode: unknown wire tag %q", tag)
	}
	return op, nil
}

func (op Opcode) String() string {
	if def, err := Get(op); err == nil {
		return def.Name
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

package bytecode

import (
	"fmt"
	"strings"
)

// Instructions is a flat, linear byte-packed instruction stream. Jump
// targets are byte offsets into this slice, not instruction indices.
type Instructions []byte

// Program is a fully compiled, immutable bytecode unit: an instruction
// stream plus the constant pool it indexes into. It is the unit the
// compiler produces and the VM consumes.
type Program struct {
	Code      Instructions
	Constants []Literal
}

// MakeInstruction packs one opcode and its operands into their wire
// encoding, BigEndian, width-per-operand as declared in the opcode's
// OpDefinition.
func MakeInstruction(op Opcode, operands ...uint64) ([]byte, error) {
	def, err := Get(op)
	if err != nil {
		return nil, err
	}
	if len(operands) != len(def.OperandWidths) {
		return nil, fmt.Errorf("bytecode: %s expects %d operand(s), got %d", def.Name, len(def.OperandWidths), len(operands))
	}
	total := 1
	for _, w := range def.OperandWidths {
		total += w
	}
	out := make([]byte, total)
	out[0] = byte(op)
	offset := 1
	for i, width := range def.OperandWidths {
		encodeOperand(out[offset:offset+width], width, operands[i])
		offset += width
	}
	return out, nil
}

func encodeOperand(dst []byte, width int, v uint64) {
	switch width {
	case 1:
		dst[0] = byte(v)
	case 4:
		byteOrder.PutUint32(dst, uint32(v))
	case 8:
		byteOrder.PutUint64(dst, v)
	case sizeWidth:
		putSize(dst, Size(v))
	default:
		panic(fmt.Sprintf("bytecode: unsupported operand width %d", width))
	}
}

func decodeOperand(src []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(src[0])
	case 4:
		return uint64(byteOrder.Uint32(src))
	case 8:
		return byteOrder.Uint64(src)
	case sizeWidth:
		return uint64(getSize(src))
	default:
		panic(fmt.Sprintf("bytecode: unsupported operand width %d", width))
	}
}

// ReadOperands decodes the operands of the instruction at offset, returning
// them alongside the total byte length of the instruction (opcode byte
// included).
func ReadOperands(ins Instructions, offset int) (Opcode, []uint64, int, error) {
	if offset >= len(ins) {
		return 0, nil, 0, fmt.Errorf("bytecode: offset %d out of range (len %d)", offset, len(ins))
	}
	op := Opcode(ins[offset])
	def, err := Get(op)
	if err != nil {
		return 0, nil, 0, err
	}
	pos := offset + 1
	operands := make([]uint64, len(def.OperandWidths))
	for i, width := range def.OperandWidths {
		if pos+width > len(ins) {
			return 0, nil, 0, fmt.Errorf("bytecode: truncated operand for %s at offset %d", def.Name, offset)
		}
		operands[i] = decodeOperand(ins[pos:pos+width], width)
		pos += width
	}
	return op, operands, pos - offset, nil
}

// PatchOperand overwrites the first operand of the instruction at pos with
// a new value - the backpatch primitive forward jumps rely on.
func PatchOperand(ins Instructions, pos int, value uint64) error {
	return PatchOperandAt(ins, pos, 0, value)
}

// PatchOperandAt overwrites the operandIndex'th operand of the instruction
// at pos with a new value. Jump-family opcodes backpatch their sole
// operand (index 0); Iter backpatches its 4th operand (index 3) in place
// once the loop's exit position is known.
func PatchOperandAt(ins Instructions, pos int, operandIndex int, value uint64) error {
	op := Opcode(ins[pos])
	def, err := Get(op)
	if err != nil {
		return err
	}
	if operandIndex < 0 || operandIndex >= len(def.OperandWidths) {
		return fmt.Errorf("bytecode: %s has no operand at index %d", def.Name, operandIndex)
	}
	offset := pos + 1
	for i := 0; i < operandIndex; i++ {
		offset += def.OperandWidths[i]
	}
	width := def.OperandWidths[operandIndex]
	encodeOperand(ins[offset:offset+width], width, value)
	return nil
}

// InstructionWidth returns the total byte length (opcode + operands) of the
// instruction starting at pos.
func InstructionWidth(ins Instructions, pos int) (int, error) {
	_, _, width, err := ReadOperands(ins, pos)
	return width, err
}

// Disassemble renders the whole program as a human-readable listing, one
// instruction per line, for debugging and golden-file tests.
func (p Program) Disassemble() string {
	var b strings.Builder
	offset := 0
	for offset < len(p.Code) {
		op, operands, width, err := ReadOperands(p.Code, offset)
		if err != nil {
			fmt.Fprintf(&b, "%04d ERROR %s\n", offset, err)
			break
		}
		def, _ := Get(op)
		fmt.Fprintf(&b, "%04d %-20s", offset, def.Name)
		for _, o := range operands {
			fmt.Fprintf(&b, " %d", o)
		}
		b.WriteByte('\n')
		offset += width
	}
	return b.String()
}

package bytecode

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// WireOp is Program's serialisable form: one entry per instruction, tagged
// with the opcode's short wire tag (spec's DC/UC/BC/.../P vocabulary) and
// carrying only the operand fields that opcode actually uses.
type WireOp struct {
	Op       string   `json:"op" cbor:"op"`
	Operands []uint64 `json:"operands,omitempty" cbor:"operands,omitempty"`
}

// WireProgram is the serialisable shape of a Program: the decoded
// instruction list plus the constant pool it indexes into.
type WireProgram struct {
	Code      []WireOp  `json:"code" cbor:"code"`
	Constants []Literal `json:"constants" cbor:"constants"`
}

// ToWire decodes Code into the tagged WireOp form, for serialisation.
func (p Program) ToWire() (WireProgram, error) {
	wp := WireProgram{Constants: p.Constants}
	offset := 0
	for offset < len(p.Code) {
		op, operands, width, err := ReadOperands(p.Code, offset)
		if err != nil {
			return WireProgram{}, err
		}
		def, err := Get(op)
		if err != nil {
			return WireProgram{}, err
		}
		wp.Code = append(wp.Code, WireOp{Op: def.Tag, Operands: operands})
		offset += width
	}
	return wp, nil
}

// FromWire re-assembles a Program from its decoded wire form, the inverse
// of ToWire.
func FromWire(wp WireProgram) (Program, error) {
	p := Program{Constants: wp.Constants}
	for _, wop := range wp.Code {
		op, err := OpcodeByTag(wop.Op)
		if err != nil {
			return Program{}, err
		}
		chunk, err := MakeInstruction(op, wop.Operands...)
		if err != nil {
			return Program{}, fmt.Errorf("bytecode: re-assembling %s: %w", wop.Op, err)
		}
		p.Code = append(p.Code, chunk...)
	}
	return p, nil
}

// MarshalJSON serialises the program to the human-readable tagged-union
// shape described by the external bytecode contract.
func (p Program) MarshalJSON() ([]byte, error) {
	wp, err := p.ToWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(wp)
}

func (p *Program) UnmarshalJSON(data []byte) error {
	var wp WireProgram
	if err := json.Unmarshal(data, &wp); err != nil {
		return err
	}
	decoded, err := FromWire(wp)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// MarshalCBOR serialises the program to a compact binary form carrying the
// same tagged-union shape as MarshalJSON.
func (p Program) MarshalCBOR() ([]byte, error) {
	wp, err := p.ToWire()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(wp)
}

func (p *Program) UnmarshalCBOR(data []byte) error {
	var wp WireProgram
	if err := cbor.Unmarshal(data, &wp); err != nil {
		return err
	}
	decoded, err := FromWire(wp)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

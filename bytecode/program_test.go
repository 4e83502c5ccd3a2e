package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeInstruction(t *testing.T) {
	tests := []struct {
		name     string
		op       Opcode
		operands []uint64
		wantLen  int
	}{
		{"jump", OpJump, []uint64{12}, 1 + sizeWidth},
		{"fncall", OpFnCall, []uint64{3, 2}, 1 + 2*sizeWidth},
		{"iter", OpIter, []uint64{0, 1, 2, 99}, 1 + 4*sizeWidth},
		{"return", OpReturn, []uint64{}, 1},
		{"bool", OpBoolConstant, []uint64{1}, 2},
		{"integer", OpIntegerConstant, []uint64{42}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := MakeInstruction(tt.op, tt.operands...)
			require.NoError(t, err)
			assert.Len(t, ins, tt.wantLen)
			assert.Equal(t, byte(tt.op), ins[0])
		})
	}
}

func TestMakeInstructionArityMismatch(t *testing.T) {
	_, err := MakeInstruction(OpJump)
	assert.Error(t, err)
}

func TestReadOperandsRoundTrip(t *testing.T) {
	ins, err := MakeInstruction(OpFnCall, 7, 2)
	require.NoError(t, err)
	op, operands, width, err := ReadOperands(Instructions(ins), 0)
	require.NoError(t, err)
	assert.Equal(t, OpFnCall, op)
	assert.Equal(t, []uint64{7, 2}, operands)
	assert.Equal(t, len(ins), width)
}

func TestPatchOperand(t *testing.T) {
	ins, err := MakeInstruction(OpJump, 0)
	require.NoError(t, err)
	require.NoError(t, PatchOperand(Instructions(ins), 0, 17))
	_, operands, _, err := ReadOperands(Instructions(ins), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{17}, operands)
}

func TestProgramWireRoundTripJSON(t *testing.T) {
	constJump, _ := MakeInstruction(OpIntegerConstant, 14)
	ret, _ := MakeInstruction(OpReturn)
	p := Program{
		Code:      append(append(Instructions{}, constJump...), ret...),
		Constants: []Literal{IntegerLiteral(14)},
	}

	data, err := p.MarshalJSON()
	require.NoError(t, err)

	var restored Program
	require.NoError(t, restored.UnmarshalJSON(data))
	assert.Equal(t, p.Code, restored.Code)
	assert.Equal(t, p.Constants, restored.Constants)
}

func TestProgramWireRoundTripCBOR(t *testing.T) {
	jumpIns, _ := MakeInstruction(OpJump, 5)
	p := Program{Code: Instructions(jumpIns)}

	data, err := p.MarshalCBOR()
	require.NoError(t, err)

	var restored Program
	require.NoError(t, restored.UnmarshalCBOR(data))
	assert.Equal(t, p.Code, restored.Code)
}

func TestRangeLiteralRejectsNegativeLength(t *testing.T) {
	_, err := RangeLiteral(0, -1)
	assert.Error(t, err)
}

func TestLiteralJSONRoundTrip(t *testing.T) {
	lit := ArrayLiteral([]Literal{IntegerLiteral(1), BoolLiteral(true), StringLiteral("hi")})
	data, err := lit.MarshalJSON()
	require.NoError(t, err)
	var restored Literal
	require.NoError(t, restored.UnmarshalJSON(data))
	assert.Equal(t, lit, restored)
}

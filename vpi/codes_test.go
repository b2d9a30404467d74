package vpi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/vpi"
)

func TestObjectType_Bijective(t *testing.T) {
	seen := make(map[int32]vpi.ObjectType)
	for _, typ := range vpi.ObjectTypes() {
		code := typ.Code()
		prev, dup := seen[code]
		require.False(t, dup, "%s and %s share code %d", typ, prev, code)
		seen[code] = typ

		got, err := vpi.DecodeObjectType(code)
		require.NoError(t, err)
		assert.Equal(t, typ, got)
		assert.NotEqual(t, "ObjectType(?)", typ.String())
	}
	assert.Len(t, seen, 90)
	assert.Equal(t, int32(32), vpi.ObjModule.Code())
	assert.Equal(t, int32(36), vpi.ObjNet.Code())
	assert.Equal(t, int32(48), vpi.ObjReg.Code())
	assert.Equal(t, int32(134), vpi.ObjGenScope.Code())
}

func TestObjectProperty_Bijective(t *testing.T) {
	seen := make(map[int32]vpi.ObjectProperty)
	for _, p := range vpi.ObjectProperties() {
		code := p.Code()
		prev, dup := seen[code]
		require.False(t, dup, "%s and %s share code %d", p, prev, code)
		seen[code] = p

		got, err := vpi.DecodeObjectProperty(code)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	assert.Equal(t, int32(-1), vpi.PropUndefined.Code())
	assert.Equal(t, int32(3), vpi.PropFullName.Code())
}

func TestCallbackReason_Bijective(t *testing.T) {
	reasons := vpi.CallbackReasons()
	require.Len(t, reasons, 31)
	for i, r := range reasons {
		assert.Equal(t, int32(i+1), r.Code())
		got, err := vpi.DecodeCallbackReason(r.Code())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestDecode_UnknownCodes(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
		enum   string
		value  int32
	}{
		{"object type zero", func() error { _, err := vpi.DecodeObjectType(0); return err }, "ObjectType", 0},
		{"object type gap", func() error { _, err := vpi.DecodeObjectType(71); return err }, "ObjectType", 71},
		{"property gap", func() error { _, err := vpi.DecodeObjectProperty(47); return err }, "ObjectProperty", 47},
		{"object type code as property", func() error { _, err := vpi.DecodeObjectProperty(vpi.ObjModuleArray.Code()); return err }, "ObjectProperty", 112},
		{"reason", func() error { _, err := vpi.DecodeCallbackReason(32); return err }, "CallbackReason", 32},
		{"format", func() error { _, err := vpi.DecodeValueFormat(14); return err }, "ValueFormat", 14},
		{"scalar", func() error { _, err := vpi.DecodeScalar(7); return err }, "Scalar", 7},
		{"time kind", func() error { _, err := vpi.DecodeTimeKind(0); return err }, "TimeKind", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindEnumConversion})

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.enum, e.Enum)
			assert.Equal(t, tt.value, e.Value)
		})
	}
}

func TestValueFormat_Roundtrip(t *testing.T) {
	for code := int32(1); code <= 13; code++ {
		f, err := vpi.DecodeValueFormat(code)
		require.NoError(t, err)
		assert.Equal(t, code, f.Code())
	}
	for code := int32(0); code <= 6; code++ {
		s, err := vpi.DecodeScalar(code)
		require.NoError(t, err)
		assert.Equal(t, code, s.Code())
	}
}

package vpi

import (
	"github.com/wippyai/sim-vpi/errors"
)

// ValueFormat is the representation requested from vpi_get_value.
type ValueFormat int32

const (
	FormatBinStr   ValueFormat = 1
	FormatOctStr   ValueFormat = 2
	FormatDecStr   ValueFormat = 3
	FormatHexStr   ValueFormat = 4
	FormatScalar   ValueFormat = 5
	FormatInt      ValueFormat = 6
	FormatReal     ValueFormat = 7
	FormatString   ValueFormat = 8
	FormatVector   ValueFormat = 9
	FormatStrength ValueFormat = 10
	FormatTime     ValueFormat = 11
	FormatObjType  ValueFormat = 12
	FormatSuppress ValueFormat = 13
)

var formatNames = map[ValueFormat]string{
	FormatBinStr:   "BinStr",
	FormatOctStr:   "OctStr",
	FormatDecStr:   "DecStr",
	FormatHexStr:   "HexStr",
	FormatScalar:   "Scalar",
	FormatInt:      "Int",
	FormatReal:     "Real",
	FormatString:   "String",
	FormatVector:   "Vector",
	FormatStrength: "Strength",
	FormatTime:     "Time",
	FormatObjType:  "ObjType",
	FormatSuppress: "Suppress",
}

// DecodeValueFormat maps a native code to its ValueFormat.
func DecodeValueFormat(code int32) (ValueFormat, error) {
	f := ValueFormat(code)
	if _, ok := formatNames[f]; !ok {
		return 0, errors.EnumConversion(errors.OpDecode, code, "ValueFormat")
	}
	return f, nil
}

// Code returns the native integer constant.
func (f ValueFormat) Code() int32 { return int32(f) }

func (f ValueFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "ValueFormat(?)"
}

// Scalar is a four-state logic value with the two weak levels and don't-care.
type Scalar int32

const (
	Scalar0        Scalar = 0
	Scalar1        Scalar = 1
	ScalarZ        Scalar = 2
	ScalarX        Scalar = 3
	ScalarH        Scalar = 4
	ScalarL        Scalar = 5
	ScalarDontCare Scalar = 6
)

var scalarNames = map[Scalar]string{
	Scalar0:        "0",
	Scalar1:        "1",
	ScalarZ:        "z",
	ScalarX:        "x",
	ScalarH:        "h",
	ScalarL:        "l",
	ScalarDontCare: "?",
}

// DecodeScalar maps a native code to its Scalar.
func DecodeScalar(code int32) (Scalar, error) {
	s := Scalar(code)
	if _, ok := scalarNames[s]; !ok {
		return 0, errors.EnumConversion(errors.OpDecode, code, "Scalar")
	}
	return s, nil
}

// Code returns the native integer constant.
func (s Scalar) Code() int32 { return int32(s) }

func (s Scalar) String() string {
	if name, ok := scalarNames[s]; ok {
		return name
	}
	return "Scalar(?)"
}

// VectorWord holds 32 bits of a four-state vector: a bit is 0 (a=0,b=0),
// 1 (a=1,b=0), z (a=0,b=1) or x (a=1,b=1).
type VectorWord struct {
	Aval uint32
	Bval uint32
}

// Strength is the logic value and drive strengths of one bit.
type Strength struct {
	Logic Scalar
	S0    int32
	S1    int32
}

// Value is a decoded simulator value. Format says which field is meaningful.
type Value struct {
	Str      string
	Vector   []VectorWord
	Strength []Strength
	Time     Time
	Real     float64
	Format   ValueFormat
	Scalar   Scalar
	Int      int32
}

// Bits expands the first n bits of a vector value, least significant first.
// It returns nil for non-vector values.
func (v *Value) Bits(n int) []Scalar {
	if v.Format != FormatVector || n <= 0 {
		return nil
	}
	if limit := len(v.Vector) * 32; n > limit {
		n = limit
	}
	bits := make([]Scalar, n)
	for i := range bits {
		w := v.Vector[i/32]
		a := w.Aval >> (i % 32) & 1
		b := w.Bval >> (i % 32) & 1
		switch {
		case a == 0 && b == 0:
			bits[i] = Scalar0
		case a == 1 && b == 0:
			bits[i] = Scalar1
		case a == 0:
			bits[i] = ScalarZ
		default:
			bits[i] = ScalarX
		}
	}
	return bits
}

// decodeValue copies a native value record into an owned Value.
func decodeValue(op errors.Op, raw *RawValue) (Value, error) {
	format, err := DecodeValueFormat(raw.Format)
	if err != nil {
		return Value{}, errors.EnumConversion(op, raw.Format, "ValueFormat")
	}
	v := Value{Format: format}
	switch format {
	case FormatBinStr, FormatOctStr, FormatDecStr, FormatHexStr, FormatString:
		v.Str = string(raw.Str)
	case FormatScalar:
		s, err := DecodeScalar(raw.Scalar)
		if err != nil {
			return Value{}, errors.EnumConversion(op, raw.Scalar, "Scalar")
		}
		v.Scalar = s
	case FormatInt:
		v.Int = raw.Integer
	case FormatReal:
		v.Real = raw.Real
	case FormatVector:
		v.Vector = make([]VectorWord, len(raw.Vector))
		for i, w := range raw.Vector {
			v.Vector[i] = VectorWord{Aval: w.Aval, Bval: w.Bval}
		}
	case FormatStrength:
		v.Strength = make([]Strength, len(raw.Strength))
		for i, st := range raw.Strength {
			logic, err := DecodeScalar(st.Logic)
			if err != nil {
				return Value{}, errors.EnumConversion(op, st.Logic, "Scalar")
			}
			v.Strength[i] = Strength{Logic: logic, S0: st.S0, S1: st.S1}
		}
	case FormatTime:
		t, err := timeFromRaw(raw.Time)
		if err != nil {
			return Value{}, errors.EnumConversion(op, raw.Time.Type, "TimeKind")
		}
		v.Time = t
	case FormatObjType:
		// vpiObjTypeVal is replaced by the simulator with the object's
		// natural format; seeing it back means the request was not served.
		return Value{}, errors.UnknownSimulator(op, "simulator left the value format as ObjType")
	}
	return v, nil
}

package vpi

import "github.com/wippyai/sim-vpi/errors"

// ObjectProperty identifies a property queried with vpi_get, vpi_get64 or
// vpi_get_str. Its codes form a namespace independent of ObjectType.
type ObjectProperty int32

const (
	PropUndefined             ObjectProperty = -1
	PropType                  ObjectProperty = 1
	PropName                  ObjectProperty = 2
	PropFullName              ObjectProperty = 3
	PropSize                  ObjectProperty = 4
	PropFile                  ObjectProperty = 5
	PropLineNo                ObjectProperty = 6
	PropTopModule             ObjectProperty = 7
	PropCellInstance          ObjectProperty = 8
	PropDefName               ObjectProperty = 9
	PropProtected             ObjectProperty = 10
	PropTimeUnit              ObjectProperty = 11
	PropTimePrecision         ObjectProperty = 12
	PropDefNetType            ObjectProperty = 13
	PropUnconnDrive           ObjectProperty = 14
	PropDefFile               ObjectProperty = 15
	PropDefLineNo             ObjectProperty = 16
	PropScalar                ObjectProperty = 17
	PropVector                ObjectProperty = 18
	PropExplicitName          ObjectProperty = 19
	PropDirection             ObjectProperty = 20
	PropConnByName            ObjectProperty = 21
	PropNetType               ObjectProperty = 22
	PropExplicitScalared      ObjectProperty = 23
	PropExplicitVectored      ObjectProperty = 24
	PropExpanded              ObjectProperty = 25
	PropImplicitDecl          ObjectProperty = 26
	PropChargeStrength        ObjectProperty = 27
	PropArray                 ObjectProperty = 28
	PropPortIndex             ObjectProperty = 29
	PropTermIndex             ObjectProperty = 30
	PropStrength0             ObjectProperty = 31
	PropStrength1             ObjectProperty = 32
	PropPrimType              ObjectProperty = 33
	PropPolarity              ObjectProperty = 34
	PropDataPolarity          ObjectProperty = 35
	PropEdge                  ObjectProperty = 36
	PropPathType              ObjectProperty = 37
	PropTchkType              ObjectProperty = 38
	PropOpType                ObjectProperty = 39
	PropConstType             ObjectProperty = 40
	PropBlocking              ObjectProperty = 41
	PropCaseType              ObjectProperty = 42
	PropFuncType              ObjectProperty = 43
	PropNetDeclAssign         ObjectProperty = 44
	PropUserDefn              ObjectProperty = 45
	PropScheduled             ObjectProperty = 46
	PropActive                ObjectProperty = 49
	PropAutomatic             ObjectProperty = 50
	PropCell                  ObjectProperty = 51
	PropConfig                ObjectProperty = 52
	PropConstantSelect        ObjectProperty = 53
	PropDecompile             ObjectProperty = 54
	PropDefAttribute          ObjectProperty = 55
	PropDelayType             ObjectProperty = 56
	PropIteratorType          ObjectProperty = 57
	PropLibrary               ObjectProperty = 58
	PropOffset                ObjectProperty = 60
	PropResolvedNetType       ObjectProperty = 61
	PropSaveRestartID         ObjectProperty = 62
	PropSaveRestartLocation   ObjectProperty = 63
	PropValid                 ObjectProperty = 64
	PropSigned                ObjectProperty = 65
	PropLocalParam            ObjectProperty = 70
	PropModPathHasIfNone      ObjectProperty = 71
	PropIndexedPartSelectType ObjectProperty = 72
	PropIsMemory              ObjectProperty = 73
	PropIsProtected           ObjectProperty = 74
)

var propertyNames = map[ObjectProperty]string{
	PropUndefined:             "Undefined",
	PropType:                  "Type",
	PropName:                  "Name",
	PropFullName:              "FullName",
	PropSize:                  "Size",
	PropFile:                  "File",
	PropLineNo:                "LineNo",
	PropTopModule:             "TopModule",
	PropCellInstance:          "CellInstance",
	PropDefName:               "DefName",
	PropProtected:             "Protected",
	PropTimeUnit:              "TimeUnit",
	PropTimePrecision:         "TimePrecision",
	PropDefNetType:            "DefNetType",
	PropUnconnDrive:           "UnconnDrive",
	PropDefFile:               "DefFile",
	PropDefLineNo:             "DefLineNo",
	PropScalar:                "Scalar",
	PropVector:                "Vector",
	PropExplicitName:          "ExplicitName",
	PropDirection:             "Direction",
	PropConnByName:            "ConnByName",
	PropNetType:               "NetType",
	PropExplicitScalared:      "ExplicitScalared",
	PropExplicitVectored:      "ExplicitVectored",
	PropExpanded:              "Expanded",
	PropImplicitDecl:          "ImplicitDecl",
	PropChargeStrength:        "ChargeStrength",
	PropArray:                 "Array",
	PropPortIndex:             "PortIndex",
	PropTermIndex:             "TermIndex",
	PropStrength0:             "Strength0",
	PropStrength1:             "Strength1",
	PropPrimType:              "PrimType",
	PropPolarity:              "Polarity",
	PropDataPolarity:          "DataPolarity",
	PropEdge:                  "Edge",
	PropPathType:              "PathType",
	PropTchkType:              "TchkType",
	PropOpType:                "OpType",
	PropConstType:             "ConstType",
	PropBlocking:              "Blocking",
	PropCaseType:              "CaseType",
	PropFuncType:              "FuncType",
	PropNetDeclAssign:         "NetDeclAssign",
	PropUserDefn:              "UserDefn",
	PropScheduled:             "Scheduled",
	PropActive:                "Active",
	PropAutomatic:             "Automatic",
	PropCell:                  "Cell",
	PropConfig:                "Config",
	PropConstantSelect:        "ConstantSelect",
	PropDecompile:             "Decompile",
	PropDefAttribute:          "DefAttribute",
	PropDelayType:             "DelayType",
	PropIteratorType:          "IteratorType",
	PropLibrary:               "Library",
	PropOffset:                "Offset",
	PropResolvedNetType:       "ResolvedNetType",
	PropSaveRestartID:         "SaveRestartID",
	PropSaveRestartLocation:   "SaveRestartLocation",
	PropValid:                 "Valid",
	PropSigned:                "Signed",
	PropLocalParam:            "LocalParam",
	PropModPathHasIfNone:      "ModPathHasIfNone",
	PropIndexedPartSelectType: "IndexedPartSelectType",
	PropIsMemory:              "IsMemory",
	PropIsProtected:           "IsProtected",
}

var properties = []ObjectProperty{
	PropUndefined, PropType, PropName, PropFullName, PropSize, PropFile, PropLineNo,
	PropTopModule, PropCellInstance, PropDefName, PropProtected, PropTimeUnit,
	PropTimePrecision, PropDefNetType, PropUnconnDrive, PropDefFile, PropDefLineNo,
	PropScalar, PropVector, PropExplicitName, PropDirection, PropConnByName, PropNetType,
	PropExplicitScalared, PropExplicitVectored, PropExpanded, PropImplicitDecl,
	PropChargeStrength, PropArray, PropPortIndex, PropTermIndex, PropStrength0,
	PropStrength1, PropPrimType, PropPolarity, PropDataPolarity, PropEdge, PropPathType,
	PropTchkType, PropOpType, PropConstType, PropBlocking, PropCaseType, PropFuncType,
	PropNetDeclAssign, PropUserDefn, PropScheduled, PropActive, PropAutomatic, PropCell,
	PropConfig, PropConstantSelect, PropDecompile, PropDefAttribute, PropDelayType,
	PropIteratorType, PropLibrary, PropOffset, PropResolvedNetType, PropSaveRestartID,
	PropSaveRestartLocation, PropValid, PropSigned, PropLocalParam, PropModPathHasIfNone,
	PropIndexedPartSelectType, PropIsMemory, PropIsProtected,
}

// ObjectProperties lists every member of the closed set.
func ObjectProperties() []ObjectProperty {
	return append([]ObjectProperty(nil), properties...)
}

// DecodeObjectProperty maps a native code to its ObjectProperty.
func DecodeObjectProperty(code int32) (ObjectProperty, error) {
	p := ObjectProperty(code)
	if _, ok := propertyNames[p]; !ok {
		return 0, errors.EnumConversion(errors.OpDecode, code, "ObjectProperty")
	}
	return p, nil
}

// Code returns the native integer constant.
func (p ObjectProperty) Code() int32 { return int32(p) }

func (p ObjectProperty) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return "ObjectProperty(?)"
}

package vpi

import "github.com/wippyai/sim-vpi/errors"

// ObjectType is a category of simulator object. Each member is bound to the
// IEEE 1364 vpi_user.h constant of the same name.
type ObjectType int32

const (
	ObjAlways            ObjectType = 1
	ObjAssignStmt        ObjectType = 2
	ObjAssignment        ObjectType = 3
	ObjBegin             ObjectType = 4
	ObjCase              ObjectType = 5
	ObjCaseItem          ObjectType = 6
	ObjConstant          ObjectType = 7
	ObjContAssign        ObjectType = 8
	ObjDeassign          ObjectType = 9
	ObjDefParam          ObjectType = 10
	ObjDelayControl      ObjectType = 11
	ObjDisable           ObjectType = 12
	ObjEventControl      ObjectType = 13
	ObjEventStmt         ObjectType = 14
	ObjFor               ObjectType = 15
	ObjForce             ObjectType = 16
	ObjForever           ObjectType = 17
	ObjFork              ObjectType = 18
	ObjFuncCall          ObjectType = 19
	ObjFunction          ObjectType = 20
	ObjGate              ObjectType = 21
	ObjIf                ObjectType = 22
	ObjIfElse            ObjectType = 23
	ObjInitial           ObjectType = 24
	ObjIntegerVar        ObjectType = 25
	ObjInterModPath      ObjectType = 26
	ObjIterator          ObjectType = 27
	ObjIODecl            ObjectType = 28
	ObjMemory            ObjectType = 29
	ObjMemoryWord        ObjectType = 30
	ObjModPath           ObjectType = 31
	ObjModule            ObjectType = 32
	ObjNamedBegin        ObjectType = 33
	ObjNamedEvent        ObjectType = 34
	ObjNamedFork         ObjectType = 35
	ObjNet               ObjectType = 36
	ObjNetBit            ObjectType = 37
	ObjNullStmt          ObjectType = 38
	ObjOperation         ObjectType = 39
	ObjParamAssign       ObjectType = 40
	ObjParameter         ObjectType = 41
	ObjPartSelect        ObjectType = 42
	ObjPathTerm          ObjectType = 43
	ObjPort              ObjectType = 44
	ObjPortBit           ObjectType = 45
	ObjPrimTerm          ObjectType = 46
	ObjRealVar           ObjectType = 47
	ObjReg               ObjectType = 48
	ObjRegBit            ObjectType = 49
	ObjRelease           ObjectType = 50
	ObjRepeat            ObjectType = 51
	ObjRepeatControl     ObjectType = 52
	ObjSchedEvent        ObjectType = 53
	ObjSpecParam         ObjectType = 54
	ObjSwitch            ObjectType = 55
	ObjSysFuncCall       ObjectType = 56
	ObjSysTaskCall       ObjectType = 57
	ObjTableEntry        ObjectType = 58
	ObjTask              ObjectType = 59
	ObjTaskCall          ObjectType = 60
	ObjTchk              ObjectType = 61
	ObjTchkTerm          ObjectType = 62
	ObjTimeVar           ObjectType = 63
	ObjTimeQueue         ObjectType = 64
	ObjUdp               ObjectType = 65
	ObjUdpDefn           ObjectType = 66
	ObjUserSystf         ObjectType = 67
	ObjVarSelect         ObjectType = 68
	ObjWait              ObjectType = 69
	ObjWhile             ObjectType = 70
	ObjAttribute         ObjectType = 105
	ObjBitSelect         ObjectType = 106
	ObjCallback          ObjectType = 107
	ObjDelayTerm         ObjectType = 108
	ObjDelayDevice       ObjectType = 109
	ObjFrame             ObjectType = 110
	ObjGateArray         ObjectType = 111
	ObjModuleArray       ObjectType = 112
	ObjPrimitiveArray    ObjectType = 113
	ObjNetArray          ObjectType = 114
	ObjRange             ObjectType = 115
	ObjRegArray          ObjectType = 116
	ObjSwitchArray       ObjectType = 117
	ObjUdpArray          ObjectType = 118
	ObjContAssignBit     ObjectType = 128
	ObjNamedEventArray   ObjectType = 129
	ObjIndexedPartSelect ObjectType = 130
	ObjGenScopeArray     ObjectType = 133
	ObjGenScope          ObjectType = 134
	ObjGenVar            ObjectType = 135
)

var objectTypeNames = map[ObjectType]string{
	ObjAlways:            "Always",
	ObjAssignStmt:        "AssignStmt",
	ObjAssignment:        "Assignment",
	ObjBegin:             "Begin",
	ObjCase:              "Case",
	ObjCaseItem:          "CaseItem",
	ObjConstant:          "Constant",
	ObjContAssign:        "ContAssign",
	ObjDeassign:          "Deassign",
	ObjDefParam:          "DefParam",
	ObjDelayControl:      "DelayControl",
	ObjDisable:           "Disable",
	ObjEventControl:      "EventControl",
	ObjEventStmt:         "EventStmt",
	ObjFor:               "For",
	ObjForce:             "Force",
	ObjForever:           "Forever",
	ObjFork:              "Fork",
	ObjFuncCall:          "FuncCall",
	ObjFunction:          "Function",
	ObjGate:              "Gate",
	ObjIf:                "If",
	ObjIfElse:            "IfElse",
	ObjInitial:           "Initial",
	ObjIntegerVar:        "IntegerVar",
	ObjInterModPath:      "InterModPath",
	ObjIterator:          "Iterator",
	ObjIODecl:            "IODecl",
	ObjMemory:            "Memory",
	ObjMemoryWord:        "MemoryWord",
	ObjModPath:           "ModPath",
	ObjModule:            "Module",
	ObjNamedBegin:        "NamedBegin",
	ObjNamedEvent:        "NamedEvent",
	ObjNamedFork:         "NamedFork",
	ObjNet:               "Net",
	ObjNetBit:            "NetBit",
	ObjNullStmt:          "NullStmt",
	ObjOperation:         "Operation",
	ObjParamAssign:       "ParamAssign",
	ObjParameter:         "Parameter",
	ObjPartSelect:        "PartSelect",
	ObjPathTerm:          "PathTerm",
	ObjPort:              "Port",
	ObjPortBit:           "PortBit",
	ObjPrimTerm:          "PrimTerm",
	ObjRealVar:           "RealVar",
	ObjReg:               "Reg",
	ObjRegBit:            "RegBit",
	ObjRelease:           "Release",
	ObjRepeat:            "Repeat",
	ObjRepeatControl:     "RepeatControl",
	ObjSchedEvent:        "SchedEvent",
	ObjSpecParam:         "SpecParam",
	ObjSwitch:            "Switch",
	ObjSysFuncCall:       "SysFuncCall",
	ObjSysTaskCall:       "SysTaskCall",
	ObjTableEntry:        "TableEntry",
	ObjTask:              "Task",
	ObjTaskCall:          "TaskCall",
	ObjTchk:              "Tchk",
	ObjTchkTerm:          "TchkTerm",
	ObjTimeVar:           "TimeVar",
	ObjTimeQueue:         "TimeQueue",
	ObjUdp:               "Udp",
	ObjUdpDefn:           "UdpDefn",
	ObjUserSystf:         "UserSystf",
	ObjVarSelect:         "VarSelect",
	ObjWait:              "Wait",
	ObjWhile:             "While",
	ObjAttribute:         "Attribute",
	ObjBitSelect:         "BitSelect",
	ObjCallback:          "Callback",
	ObjDelayTerm:         "DelayTerm",
	ObjDelayDevice:       "DelayDevice",
	ObjFrame:             "Frame",
	ObjGateArray:         "GateArray",
	ObjModuleArray:       "ModuleArray",
	ObjPrimitiveArray:    "PrimitiveArray",
	ObjNetArray:          "NetArray",
	ObjRange:             "Range",
	ObjRegArray:          "RegArray",
	ObjSwitchArray:       "SwitchArray",
	ObjUdpArray:          "UdpArray",
	ObjContAssignBit:     "ContAssignBit",
	ObjNamedEventArray:   "NamedEventArray",
	ObjIndexedPartSelect: "IndexedPartSelect",
	ObjGenScopeArray:     "GenScopeArray",
	ObjGenScope:          "GenScope",
	ObjGenVar:            "GenVar",
}

// objectTypes is every member in code order.
var objectTypes = []ObjectType{
	ObjAlways, ObjAssignStmt, ObjAssignment, ObjBegin, ObjCase, ObjCaseItem, ObjConstant,
	ObjContAssign, ObjDeassign, ObjDefParam, ObjDelayControl, ObjDisable, ObjEventControl,
	ObjEventStmt, ObjFor, ObjForce, ObjForever, ObjFork, ObjFuncCall, ObjFunction, ObjGate,
	ObjIf, ObjIfElse, ObjInitial, ObjIntegerVar, ObjInterModPath, ObjIterator, ObjIODecl,
	ObjMemory, ObjMemoryWord, ObjModPath, ObjModule, ObjNamedBegin, ObjNamedEvent,
	ObjNamedFork, ObjNet, ObjNetBit, ObjNullStmt, ObjOperation, ObjParamAssign,
	ObjParameter, ObjPartSelect, ObjPathTerm, ObjPort, ObjPortBit, ObjPrimTerm, ObjRealVar,
	ObjReg, ObjRegBit, ObjRelease, ObjRepeat, ObjRepeatControl, ObjSchedEvent, ObjSpecParam,
	ObjSwitch, ObjSysFuncCall, ObjSysTaskCall, ObjTableEntry, ObjTask, ObjTaskCall, ObjTchk,
	ObjTchkTerm, ObjTimeVar, ObjTimeQueue, ObjUdp, ObjUdpDefn, ObjUserSystf, ObjVarSelect,
	ObjWait, ObjWhile, ObjAttribute, ObjBitSelect, ObjCallback, ObjDelayTerm,
	ObjDelayDevice, ObjFrame, ObjGateArray, ObjModuleArray, ObjPrimitiveArray, ObjNetArray,
	ObjRange, ObjRegArray, ObjSwitchArray, ObjUdpArray, ObjContAssignBit,
	ObjNamedEventArray, ObjIndexedPartSelect, ObjGenScopeArray, ObjGenScope, ObjGenVar,
}

// ObjectTypes lists every member of the closed set.
func ObjectTypes() []ObjectType {
	return append([]ObjectType(nil), objectTypes...)
}

// DecodeObjectType maps a native code to its ObjectType. Codes outside the
// set are an enum conversion error.
func DecodeObjectType(code int32) (ObjectType, error) {
	t := ObjectType(code)
	if _, ok := objectTypeNames[t]; !ok {
		return 0, errors.EnumConversion(errors.OpDecode, code, "ObjectType")
	}
	return t, nil
}

// Code returns the native integer constant.
func (t ObjectType) Code() int32 { return int32(t) }

func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "ObjectType(?)"
}

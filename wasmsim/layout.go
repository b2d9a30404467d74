package wasmsim

// wasm32 layouts of the vpi_user.h records exchanged with the guest.
const (
	// t_cb_data
	cbDataSize    = 28
	cbReasonOff   = 0
	cbRoutineOff  = 4
	cbObjOff      = 8
	cbTimeOff     = 12
	cbValueOff    = 16
	cbIndexOff    = 20
	cbUserDataOff = 24

	// s_vpi_time
	timeSize    = 24
	timeTypeOff = 0
	timeHighOff = 4
	timeLowOff  = 8
	timeRealOff = 16

	// s_vpi_error_info
	errorInfoSize = 28
	errStateOff   = 0
	errLevelOff   = 4
	errMessageOff = 8
	errProductOff = 12
	errCodeOff    = 16
	errFileOff    = 20
	errLineOff    = 24

	// s_vpi_vlog_info
	vlogInfoSize   = 16
	vlogArgcOff    = 0
	vlogArgvOff    = 4
	vlogProductOff = 8
	vlogVersionOff = 12

	// s_vpi_value: format, then the union aligned for a double.
	valueSize      = 16
	valueFormatOff = 0
	valueUnionOff  = 8

	// s_vpi_vecval and s_vpi_strengthval elements
	vecvalSize      = 8
	strengthvalSize = 12
)

// scratch holds the records the host fills on every call. They are read
// back before the next call, so one block serves all of them.
const (
	scratchErrorOff = 0
	scratchValueOff = 32
	scratchVlogOff  = 48
	scratchSize     = 64
)

// Native codes the host needs to interpret values.
const (
	propSize = 4

	formatBinStr   = 1
	formatOctStr   = 2
	formatDecStr   = 3
	formatHexStr   = 4
	formatScalar   = 5
	formatInt      = 6
	formatReal     = 7
	formatString   = 8
	formatVector   = 9
	formatStrength = 10
	formatTime     = 11

	stateRun   = 3
	levelError = 3
)

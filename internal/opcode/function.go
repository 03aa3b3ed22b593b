package opcode

import "fmt"

// FunctionCode identifies a machine function called by a Function command.
// The code values are listed in the PLK-A0804F controller manual.
type FunctionCode uint16

const (
	FuncThreadTrimming     FunctionCode = 0x0002
	FuncFeed               FunctionCode = 0x0003
	FuncHalt               FunctionCode = 0x0004
	FuncReverseRotation    FunctionCode = 0x0005
	FuncSecondHomePosition FunctionCode = 0x0006
	FuncBasting            FunctionCode = 0x0007
	FuncEndData            FunctionCode = 0x0031
)

var functionNames = map[FunctionCode]string{
	FuncThreadTrimming:     "Thread Trimming",
	FuncFeed:               "Feed",
	FuncHalt:               "Halt",
	FuncReverseRotation:    "Reverse Rotation",
	FuncSecondHomePosition: "Second Home Position",
	FuncBasting:            "Basting",
	FuncEndData:            "End Data",
}

// Name returns the manual name of the function code, or a hex placeholder
// for codes not listed in the manual.
func (f FunctionCode) Name() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function 0x%04X", uint16(f))
}

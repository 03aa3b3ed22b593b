// Package opcode defines the command kinds, confidence tiers and the
// descriptor table that maps opcode bytes to their parameter layouts.
//
// The table is the single place that encodes knowledge about the pattern
// format. Supporting a new opcode means adding one table entry; the decode
// loop never changes.
package opcode

import "fmt"

// Kind classifies a decoded command.
type Kind uint8

// Command kinds of the pattern format.
const (
	KindUnknown Kind = iota
	KindPoint
	KindLinearMove
	KindCircular
	KindArc
	KindCurve
	KindSpeed
	KindFunction
	KindSeparator
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindPoint:      "point",
	KindLinearMove: "linear_move",
	KindCircular:   "circular",
	KindArc:        "arc",
	KindCurve:      "curve",
	KindSpeed:      "speed",
	KindFunction:   "function",
	KindSeparator:  "separator",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", k)
}

// KindFromString returns the kind matching name, used by config file parsing.
func KindFromString(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindUnknown, false
}

// HasCoordinates returns true for kinds whose parameters are an absolute x,y pair.
func (k Kind) HasCoordinates() bool {
	switch k {
	case KindPoint, KindLinearMove, KindCircular:
		return true
	default:
		return false
	}
}

// Tier is the trust classification of a reverse-engineered opcode
// interpretation. Tiers are ordered: Verified > Probable > Speculative.
type Tier uint8

const (
	// TierSpeculative marks interpretations that are guessed from observed
	// data and have never been confirmed against known-good hardware.
	TierSpeculative Tier = iota
	// TierProbable marks interpretations consistent with all observed
	// patterns but lacking external confirmation.
	TierProbable
	// TierVerified marks interpretations validated against reference
	// patterns or the controller manual.
	TierVerified
)

var tierNames = map[Tier]string{
	TierSpeculative: "speculative",
	TierProbable:    "probable",
	TierVerified:    "verified",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", t)
}

// TierFromString returns the tier matching name, used by config file parsing.
func TierFromString(name string) (Tier, bool) {
	for t, n := range tierNames {
		if n == name {
			return t, true
		}
	}
	return TierSpeculative, false
}

// Width describes the wire encoding of a single parameter.
type Width uint8

const (
	U8 Width = iota
	S8
	U16
	S16
	U32
	S32
)

var widthNames = map[Width]string{
	U8:  "u8",
	S8:  "s8",
	U16: "u16",
	S16: "s16",
	U32: "u32",
	S32: "s32",
}

func (w Width) String() string {
	if name, ok := widthNames[w]; ok {
		return name
	}
	return fmt.Sprintf("width(%d)", w)
}

// WidthFromString returns the width matching name, used by config file parsing.
func WidthFromString(name string) (Width, bool) {
	for w, n := range widthNames {
		if n == name {
			return w, true
		}
	}
	return U8, false
}

// Bytes returns the encoded size of the parameter in bytes.
func (w Width) Bytes() int {
	switch w {
	case U8, S8:
		return 1
	case U16, S16:
		return 2
	default:
		return 4
	}
}

// Descriptor declares how commands with a given opcode byte are decoded.
type Descriptor struct {
	Kind   Kind
	Layout []Width // parameter widths in wire order, nil for unknown opcodes
	Tier   Tier
}

// Size returns the total encoded command size: opcode byte plus parameters.
func (d Descriptor) Size() int {
	size := 1
	for _, w := range d.Layout {
		size += w.Bytes()
	}
	return size
}

// unknownDescriptor is returned for opcodes absent from the table. It declares
// no layout; the decoder's resynchronization policy determines the length.
var unknownDescriptor = Descriptor{Kind: KindUnknown, Tier: TierSpeculative}

// Table maps opcode bytes to descriptors.
type Table struct {
	entries map[byte]Descriptor
}

// NewTable returns a table preloaded with the opcodes recovered from the
// PLK controller patterns. Confidence tiers reflect the validation state of
// the reverse-engineering notes:
//
//   - 0x61 coordinates were validated against a known 20x20mm envelope pattern.
//   - 0x1F is followed by function codes listed in the controller manual.
//   - 0x03 is flagged as possibly tagging coordinate data instead of being a
//     move command; it stays speculative until verified on hardware.
func NewTable() *Table {
	return &Table{entries: map[byte]Descriptor{
		0x61: {Kind: KindPoint, Layout: []Width{S32, S32}, Tier: TierVerified},
		0x03: {Kind: KindLinearMove, Layout: []Width{S32, S32}, Tier: TierSpeculative},
		0xE1: {Kind: KindCircular, Layout: []Width{S32, S32}, Tier: TierProbable},
		0x82: {Kind: KindArc, Layout: []Width{U8, U8, U8}, Tier: TierSpeculative},
		0x83: {Kind: KindCurve, Layout: []Width{U8, U8, U8}, Tier: TierSpeculative},
		0x02: {Kind: KindSpeed, Layout: []Width{U8, U8, U8}, Tier: TierProbable},
		0x1F: {Kind: KindFunction, Layout: []Width{U16, U8}, Tier: TierVerified},
		0x01: {Kind: KindSeparator, Layout: []Width{U8}, Tier: TierProbable},
	}}
}

// Lookup returns the descriptor for an opcode byte. Opcodes absent from the
// table yield the unknown descriptor at speculative confidence.
func (t *Table) Lookup(op byte) Descriptor {
	if d, ok := t.entries[op]; ok {
		return d
	}
	return unknownDescriptor
}

// IsKnown returns whether the opcode byte has a table entry.
func (t *Table) IsKnown(op byte) bool {
	_, ok := t.entries[op]
	return ok
}

// Register adds or replaces a descriptor entry.
func (t *Table) Register(op byte, d Descriptor) {
	t.entries[op] = d
}

// MinSize returns the smallest encoded command size in the table, used as the
// plausibility bound during resynchronization.
func (t *Table) MinSize() int {
	minSize := 0
	for _, d := range t.entries {
		if size := d.Size(); minSize == 0 || size < minSize {
			minSize = size
		}
	}
	if minSize == 0 {
		minSize = 1
	}
	return minSize
}

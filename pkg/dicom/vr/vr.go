// Package vr defines DICOM Value Representations and their encoding rules.
package vr

// VR is a two letter Value Representation code
type VR string

const (
	AE VR = "AE"
	AS VR = "AS"
	AT VR = "AT"
	CS VR = "CS"
	DA VR = "DA"
	DS VR = "DS"
	DT VR = "DT"
	FL VR = "FL"
	FD VR = "FD"
	IS VR = "IS"
	LO VR = "LO"
	LT VR = "LT"
	OB VR = "OB"
	OD VR = "OD"
	OF VR = "OF"
	OL VR = "OL"
	OW VR = "OW"
	PN VR = "PN"
	SH VR = "SH"
	SL VR = "SL"
	SQ VR = "SQ"
	SS VR = "SS"
	ST VR = "ST"
	TM VR = "TM"
	UC VR = "UC"
	UI VR = "UI"
	UL VR = "UL"
	UN VR = "UN"
	UR VR = "UR"
	US VR = "US"
	UT VR = "UT"
)

type class uint8

const (
	// long VRs carry 2 reserved bytes and a 32 bit length in explicit VR
	long class = 1 << iota
	// str VRs hold character data
	str
	// text VRs are subject to Specific Character Set
	text
	// nul VRs pad with 0x00 rather than a space
	nul
)

type rule struct {
	class class
	max   int // bytes per value, 0 when unbounded
}

var rules = map[VR]rule{
	AE: {str, 16},
	AS: {str, 4},
	AT: {0, 0},
	CS: {str, 16},
	DA: {str, 8},
	DS: {str, 16},
	DT: {str, 26},
	FL: {0, 0},
	FD: {0, 0},
	IS: {str, 12},
	LO: {str | text, 64},
	LT: {str | text, 10240},
	OB: {long | nul, 0},
	OD: {long, 0},
	OF: {long, 0},
	OL: {long, 0},
	OW: {long, 0},
	PN: {str | text, 64},
	SH: {str | text, 16},
	SL: {0, 0},
	SQ: {long, 0},
	SS: {0, 0},
	ST: {str | text, 1024},
	TM: {str, 16},
	UC: {long | str | text, 0},
	UI: {str | nul, 64},
	UL: {0, 0},
	UN: {long | nul, 0},
	UR: {long | str, 0},
	US: {0, 0},
	UT: {long | str | text, 0},
}

func (v VR) is(c class) bool {
	return rules[v].class&c != 0
}

// IsLong reports whether the VR is written with a 4 byte length
func (v VR) IsLong() bool { return v.is(long) }

// IsString reports whether the VR holds character data
func (v VR) IsString() bool { return v.is(str) }

// IsText reports whether the VR is encoded with the Specific Character Set.
// The remaining string VRs are limited to the default repertoire.
func (v VR) IsText() bool { return v.is(text) }

// MaxLength is the maximum length of a single value, or 0 when unbounded
func (v VR) MaxLength() int { return rules[v].max }

// Padding is the byte that pads an odd length value
func (v VR) Padding() byte {
	if v.is(nul) {
		return 0x00
	}
	return ' '
}

// Known reports whether v is a defined VR
func (v VR) Known() bool {
	_, ok := rules[v]
	return ok
}

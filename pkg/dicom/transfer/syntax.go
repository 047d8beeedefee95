// Package transfer identifies the transfer syntax a file declares.
package transfer

// Syntax is a transfer syntax UID
type Syntax string

const (
	ImplicitVRLittleEndian Syntax = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian Syntax = "1.2.840.10008.1.2.1"
	DeflatedExplicitVRLE   Syntax = "1.2.840.10008.1.2.1.99"
	ExplicitVRBigEndian    Syntax = "1.2.840.10008.1.2.2"
	JPEGBaseline8Bit       Syntax = "1.2.840.10008.1.2.4.50"
	JPEGLosslessSV1        Syntax = "1.2.840.10008.1.2.4.70"
	JPEGLSLossless         Syntax = "1.2.840.10008.1.2.4.80"
	JPEG2000Lossless       Syntax = "1.2.840.10008.1.2.4.90"
	RLELossless            Syntax = "1.2.840.10008.1.2.5"
)

var names = map[Syntax]string{
	ImplicitVRLittleEndian: "Implicit VR Little Endian",
	ExplicitVRLittleEndian: "Explicit VR Little Endian",
	DeflatedExplicitVRLE:   "Deflated Explicit VR Little Endian",
	ExplicitVRBigEndian:    "Explicit VR Big Endian (Retired)",
	JPEGBaseline8Bit:       "JPEG Baseline (Process 1)",
	JPEGLosslessSV1:        "JPEG Lossless, First-Order Prediction",
	JPEGLSLossless:         "JPEG-LS Lossless",
	JPEG2000Lossless:       "JPEG 2000 Lossless",
	RLELossless:            "RLE Lossless",
}

// String is the registered name, or the UID itself when unknown
func (s Syntax) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return string(s)
}

// Known reports whether s is one of the syntaxes named above
func (s Syntax) Known() bool {
	_, ok := names[s]
	return ok
}

// Encapsulated reports whether pixel data is stored as compressed fragments
func (s Syntax) Encapsulated() bool {
	switch s {
	case JPEGBaseline8Bit, JPEGLosslessSV1, JPEGLSLossless, JPEG2000Lossless, RLELossless:
		return true
	}
	return false
}

// Native reports whether the dataset body can be read without inflating or
// decompressing, i.e. explicit VR little endian with native pixel data.
func (s Syntax) Native() bool {
	return s == ExplicitVRLittleEndian
}

package dicom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
	"github.com/jpfielding/img2dcm/pkg/dicom/transfer"
	"github.com/jpfielding/img2dcm/pkg/dicom/vr"
)

var (
	// ErrNotDICOM is returned when the stream lacks the DICM prefix
	ErrNotDICOM = errors.New("invalid DICOM file: missing DICM magic")
	// ErrUnsupportedSyntax is returned for data sets not in Explicit VR Little Endian
	ErrUnsupportedSyntax = errors.New("unsupported transfer syntax")
)

// Reader reads Explicit VR Little Endian Part 10 streams
type Reader struct {
	r              io.Reader
	transferSyntax transfer.Syntax
	charset        Charset
}

// NewReader creates a new DICOM reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:       r,
		charset: LookupCharset(""),
	}
}

// Parse reads a complete DICOM stream
func Parse(r io.Reader) (*Dataset, error) {
	return NewReader(r).ReadDataset()
}

// ReadDataset reads the complete dataset
func (r *Reader) ReadDataset() (*Dataset, error) {
	ds := &Dataset{
		Elements: make(map[Tag]*Element),
	}

	preamble := make([]byte, 128)
	if _, err := io.ReadFull(r.r, preamble); err != nil {
		return nil, fmt.Errorf("failed to read preamble: %w", err)
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r.r, magic); err != nil {
		return nil, fmt.Errorf("failed to read DICM magic: %w", err)
	}
	if string(magic) != "DICM" {
		return nil, ErrNotDICOM
	}

	for {
		t, err := r.readTag()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tag: %w", err)
		}

		// leaving the meta group, which is always Explicit VR Little Endian
		if !t.IsGroup0002() && !r.transferSyntax.Native() {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedSyntax, r.transferSyntax, string(r.transferSyntax))
		}

		elem, err := r.readElementWithTag(t)
		if err != nil {
			return nil, fmt.Errorf("failed to read element %v: %w", t, err)
		}
		ds.Elements[elem.Tag] = elem

		switch elem.Tag {
		case tag.TransferSyntaxUID:
			if s, ok := elem.Value.(string); ok {
				r.transferSyntax = transfer.Syntax(s)
			}
		case tag.SpecificCharacterSet:
			if s, ok := elem.Value.(string); ok {
				r.charset = LookupCharset(s)
			}
		}
	}
	return ds, nil
}

func (r *Reader) readElementWithTag(t Tag) (*Element, error) {
	vrBytes := make([]byte, 2)
	if _, err := io.ReadFull(r.r, vrBytes); err != nil {
		return nil, err
	}
	v := vr.VR(vrBytes)
	if !v.Known() {
		return nil, fmt.Errorf("unknown VR %q", vrBytes)
	}

	var vl uint32
	if v.IsLong() {
		reserved := make([]byte, 2)
		if _, err := io.ReadFull(r.r, reserved); err != nil {
			return nil, err
		}
		if err := binary.Read(r.r, binary.LittleEndian, &vl); err != nil {
			return nil, err
		}
	} else {
		var vl16 uint16
		if err := binary.Read(r.r, binary.LittleEndian, &vl16); err != nil {
			return nil, err
		}
		vl = uint32(vl16)
	}
	if vl == 0xFFFFFFFF {
		return nil, fmt.Errorf("undefined length not supported for %s", v)
	}

	// the declared length is untrusted, so only what the stream holds is allocated
	data, err := io.ReadAll(io.LimitReader(r.r, int64(vl)))
	if err != nil {
		return nil, err
	}
	if uint32(len(data)) < vl {
		return nil, fmt.Errorf("value length %d exceeds remaining %d bytes: %w", vl, len(data), io.ErrUnexpectedEOF)
	}
	return &Element{
		Tag:   t,
		VR:    v,
		Value: r.parseValue(t, v, data),
	}, nil
}

func (r *Reader) readTag() (Tag, error) {
	var group, element uint16
	if err := binary.Read(r.r, binary.LittleEndian, &group); err != nil {
		return Tag{}, err
	}
	if err := binary.Read(r.r, binary.LittleEndian, &element); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Tag{}, err
	}
	return Tag{Group: group, Element: element}, nil
}

// parseValue converts raw bytes by VR, trimming value padding
func (r *Reader) parseValue(t Tag, v vr.VR, data []byte) interface{} {
	if t == tag.PixelData {
		return &PixelData{Frames: []Frame{{Data: data}}}
	}
	switch {
	case v == vr.US:
		if len(data) == 2 {
			return binary.LittleEndian.Uint16(data)
		}
		vals := make([]uint16, len(data)/2)
		for i := range vals {
			vals[i] = binary.LittleEndian.Uint16(data[i*2:])
		}
		return vals
	case v == vr.UL && len(data) == 4:
		return binary.LittleEndian.Uint32(data)
	case v.IsString():
		s := string(data)
		if v.IsText() {
			s = r.charset.Decode(data)
		}
		if v == vr.UI {
			return strings.TrimRight(s, "\x00")
		}
		return strings.TrimRight(s, " \x00")
	}
	return data
}

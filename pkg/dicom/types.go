package dicom

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
	"github.com/jpfielding/img2dcm/pkg/dicom/vr"
)

// Dataset represents a complete DICOM dataset
type Dataset struct {
	Elements map[Tag]*Element
}

// Element represents a single DICOM element
type Element struct {
	Tag   Tag
	VR    vr.VR       // Value Representation
	Value interface{} // Parsed value
}

// Tag alias to avoid duplication
type Tag = tag.Tag

// PixelData holds native 8-bit pixel data
type PixelData struct {
	Frames []Frame
}

// Frame represents a single frame of pixel data
type Frame struct {
	Data []byte
}

// NumFrames returns the number of frames
func (pd *PixelData) NumFrames() int {
	return len(pd.Frames)
}

// GetFrame returns a frame by index
func (pd *PixelData) GetFrame(i int) (*Frame, error) {
	if i < 0 || i >= len(pd.Frames) {
		return nil, fmt.Errorf("frame index %d out of range [0,%d)", i, len(pd.Frames))
	}
	return &pd.Frames[i], nil
}

// GetFlatData returns all frames concatenated into a single slice
func (pd *PixelData) GetFlatData() []byte {
	var total int
	for _, f := range pd.Frames {
		total += len(f.Data)
	}
	res := make([]byte, 0, total)
	for _, f := range pd.Frames {
		res = append(res, f.Data...)
	}
	return res
}

// FindElement returns an element by tag
func (ds *Dataset) FindElement(t Tag) (*Element, bool) {
	elem, ok := ds.Elements[t]
	return elem, ok
}

// GetString returns the string value of an element, or "" when absent
func (ds *Dataset) GetString(t Tag) string {
	elem, ok := ds.Elements[t]
	if !ok {
		return ""
	}
	s, _ := elem.GetString()
	return s
}

// GetInt returns the integer value of an element
func (ds *Dataset) GetInt(t Tag) (int, bool) {
	elem, ok := ds.Elements[t]
	if !ok {
		return 0, false
	}
	return elem.GetInt()
}

// GetPixelData returns the pixel data element's value
func (ds *Dataset) GetPixelData() (*PixelData, error) {
	elem, ok := ds.Elements[tag.PixelData]
	if !ok {
		return nil, fmt.Errorf("pixel data not found")
	}
	pd, ok := elem.GetPixelData()
	if !ok {
		return nil, fmt.Errorf("unexpected pixel data value %T", elem.Value)
	}
	return pd, nil
}

// GetString returns a string value from an element
func (elem *Element) GetString() (string, bool) {
	switch v := elem.Value.(type) {
	case string:
		return v, true
	case []string:
		return strings.Join(v, "\\"), true
	}
	return "", false
}

// GetUint16 returns a uint16 value from an element
func (elem *Element) GetUint16() (uint16, bool) {
	if u, ok := elem.Value.(uint16); ok {
		return u, true
	}
	return 0, false
}

// GetUint32 returns a uint32 value from an element
func (elem *Element) GetUint32() (uint32, bool) {
	if u, ok := elem.Value.(uint32); ok {
		return u, true
	}
	return 0, false
}

// GetInt returns an int value from an element
func (elem *Element) GetInt() (int, bool) {
	switch v := elem.Value.(type) {
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case int:
		return v, true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i, true
		}
	case []byte:
		if len(v) == 2 {
			return int(binary.LittleEndian.Uint16(v)), true
		}
		if len(v) == 4 {
			return int(binary.LittleEndian.Uint32(v)), true
		}
	}
	return 0, false
}

// GetPixelData returns pixel data from an element
func (elem *Element) GetPixelData() (*PixelData, bool) {
	if pd, ok := elem.Value.(*PixelData); ok {
		return pd, true
	}
	return nil, false
}

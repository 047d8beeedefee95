package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
	"github.com/jpfielding/img2dcm/pkg/dicom/vr"
)

// Write writes a dataset as a Part 10 stream using Explicit VR Little Endian.
// The group 0002 length is computed from the meta elements present.
func Write(w io.Writer, ds *Dataset) (int64, error) {
	cw := &CountingWriter{Writer: w}

	// 1. Preamble (128 bytes 0x00)
	preamble := make([]byte, 128)
	if _, err := cw.Write(preamble); err != nil {
		return cw.Count.Load(), err
	}

	// 2. DICM magic
	if _, err := cw.Write([]byte("DICM")); err != nil {
		return cw.Count.Load(), err
	}

	cs := LookupCharset(ds.GetString(tag.SpecificCharacterSet))
	meta, body := splitMeta(ds)

	// 3. File meta group, prefixed by its length
	var metaBuf bytes.Buffer
	if err := writeElements(&metaBuf, meta, cs); err != nil {
		return cw.Count.Load(), err
	}
	groupLength := &Element{
		Tag:   tag.FileMetaInformationGroupLength,
		VR:    vr.UL,
		Value: uint32(metaBuf.Len()),
	}
	if err := writeElement(cw, groupLength, cs); err != nil {
		return cw.Count.Load(), err
	}
	if _, err := cw.Write(metaBuf.Bytes()); err != nil {
		return cw.Count.Load(), err
	}

	// 4. Data set
	if err := writeElements(cw, body, cs); err != nil {
		return cw.Count.Load(), err
	}
	return cw.Count.Load(), nil
}

// splitMeta separates group 0002 from the rest, each sorted by tag.
// Any stored group length is dropped since it is recomputed.
func splitMeta(ds *Dataset) (meta, body []*Element) {
	for _, elem := range ds.Elements {
		switch {
		case elem.Tag == tag.FileMetaInformationGroupLength:
		case elem.Tag.IsGroup0002():
			meta = append(meta, elem)
		default:
			body = append(body, elem)
		}
	}
	sortElements(meta)
	sortElements(body)
	return meta, body
}

func sortElements(elements []*Element) {
	sort.Slice(elements, func(i, j int) bool {
		return elements[i].Tag.Less(elements[j].Tag)
	})
}

func writeElements(w io.Writer, elements []*Element, cs Charset) error {
	for _, elem := range elements {
		if err := writeElement(w, elem, cs); err != nil {
			return fmt.Errorf("failed to write element %v: %w", elem.Tag, err)
		}
	}
	return nil
}

func writeElement(w io.Writer, elem *Element, cs Charset) error {
	v := elem.VR
	if len(v) != 2 {
		slog.Warn("Invalid VR length, defaulting to UN", "vr", v, "tag", elem.Tag)
		v = vr.UN
	}

	valBytes, err := encodeValue(elem.Value, v, cs)
	if err != nil {
		return err
	}

	header := make([]byte, 0, 12)
	header = binary.LittleEndian.AppendUint16(header, elem.Tag.Group)
	header = binary.LittleEndian.AppendUint16(header, elem.Tag.Element)
	header = append(header, v...)
	if v.IsLong() {
		if uint64(len(valBytes)) >= math.MaxUint32 {
			return fmt.Errorf("value of %d bytes too long for %s", len(valBytes), v)
		}
		header = append(header, 0, 0) // reserved
		header = binary.LittleEndian.AppendUint32(header, uint32(len(valBytes)))
	} else {
		if len(valBytes) > math.MaxUint16 {
			return fmt.Errorf("value of %d bytes too long for %s", len(valBytes), v)
		}
		header = binary.LittleEndian.AppendUint16(header, uint16(len(valBytes)))
	}

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(valBytes)
	return err
}

// encodeValue returns the little endian encoding of v padded to an even length
func encodeValue(v interface{}, r vr.VR, cs Charset) ([]byte, error) {
	var b []byte
	switch val := v.(type) {
	case nil:
		return []byte{}, nil
	case *PixelData:
		b = val.GetFlatData()
	case string:
		b = encodeString(val, r, cs)
	case []string:
		b = encodeString(strings.Join(val, "\\"), r, cs)
	case uint16:
		b = binary.LittleEndian.AppendUint16(nil, val)
	case []uint16:
		for _, u := range val {
			b = binary.LittleEndian.AppendUint16(b, u)
		}
	case uint32:
		b = binary.LittleEndian.AppendUint32(nil, val)
	case int:
		switch r {
		case vr.US, vr.SS:
			if val < 0 || val > math.MaxUint16 {
				return nil, fmt.Errorf("value %d out of range for %s", val, r)
			}
			b = binary.LittleEndian.AppendUint16(nil, uint16(val))
		case vr.UL, vr.SL:
			b = binary.LittleEndian.AppendUint32(nil, uint32(val))
		case vr.IS:
			b = encodeString(fmt.Sprintf("%d", val), r, cs)
		default:
			return nil, fmt.Errorf("int for VR %s not implemented", r)
		}
	case []byte:
		b = val
	default:
		return nil, fmt.Errorf("unsupported value type %T for VR %s", v, r)
	}
	if len(b)%2 != 0 {
		padded := make([]byte, len(b), len(b)+1)
		copy(padded, b)
		b = append(padded, r.Padding())
	}
	return b, nil
}

func encodeString(s string, r vr.VR, cs Charset) []byte {
	if r.IsText() {
		return cs.Encode(s)
	}
	return []byte(s)
}

type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	c.Count.Add(int64(n))
	return n, err
}

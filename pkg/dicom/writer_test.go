package dicom

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/img2dcm/pkg/dicom/module"
	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
	"github.com/jpfielding/img2dcm/pkg/dicom/vr"
)

type rawElement struct {
	Tag    tag.Tag
	VR     vr.VR
	Offset int
	Value  []byte
}

// walk splits an explicit VR little endian stream (after the 132 byte prefix)
// into its elements
func walk(t *testing.T, b []byte) []rawElement {
	t.Helper()
	var out []rawElement
	pos := 132
	for pos < len(b) {
		require.GreaterOrEqual(t, len(b)-pos, 8, "truncated header at %d", pos)
		el := rawElement{
			Tag:    tag.New(binary.LittleEndian.Uint16(b[pos:]), binary.LittleEndian.Uint16(b[pos+2:])),
			VR:     vr.VR(b[pos+4 : pos+6]),
			Offset: pos,
		}
		var n int
		if el.VR.IsLong() {
			n = int(binary.LittleEndian.Uint32(b[pos+8:]))
			pos += 12
		} else {
			n = int(binary.LittleEndian.Uint16(b[pos+6:]))
			pos += 8
		}
		require.LessOrEqual(t, pos+n, len(b))
		el.Value = b[pos : pos+n]
		pos += n
		out = append(out, el)
	}
	return out
}

func testSCImage(t *testing.T) *SCImage {
	t.Helper()
	sc := NewSCImage(time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC))
	sc.Patient.PatientName = module.ParsePersonName("DOE^JOHN")
	sc.Patient.PatientID = "12345"
	sc.Patient.PatientSex = "M"
	sc.Study.StudyInstanceUID = "1.2.3.4"
	sc.Series.SeriesInstanceUID = "1.2.3.5"
	sc.Series.Modality = "OT"
	sc.SOPCommon.SOPInstanceUID = "1.2.3.6"
	require.NoError(t, sc.SetPixelData(2, 2, []byte{10, 20, 30, 40}))
	return sc
}

func TestWrite_PreambleAndMagic(t *testing.T) {
	var buf bytes.Buffer
	n, err := testSCImage(t).WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	b := buf.Bytes()
	assert.Equal(t, make([]byte, 128), b[:128])
	assert.Equal(t, "DICM", string(b[128:132]))
}

func TestWrite_GroupLengthAndOrder(t *testing.T) {
	var buf bytes.Buffer
	_, err := testSCImage(t).WriteTo(&buf)
	require.NoError(t, err)

	elements := walk(t, buf.Bytes())
	require.NotEmpty(t, elements)

	first := elements[0]
	assert.Equal(t, tag.FileMetaInformationGroupLength, first.Tag)
	assert.Equal(t, vr.UL, first.VR)
	groupLength := int(binary.LittleEndian.Uint32(first.Value))

	// the first non meta element starts exactly group length bytes after (0002,0000)
	metaEnd := first.Offset + 12 + groupLength
	for _, el := range elements[1:] {
		if el.Tag.IsGroup0002() {
			assert.Less(t, el.Offset, metaEnd, "%v", el.Tag)
		} else {
			assert.GreaterOrEqual(t, el.Offset, metaEnd, "%v", el.Tag)
		}
	}

	for i := 1; i < len(elements); i++ {
		assert.True(t, elements[i-1].Tag.Less(elements[i].Tag), "%v before %v", elements[i-1].Tag, elements[i].Tag)
	}
	assert.Equal(t, tag.PixelData, elements[len(elements)-1].Tag)
}

func TestWrite_ElementEncoding(t *testing.T) {
	var buf bytes.Buffer
	_, err := testSCImage(t).WriteTo(&buf)
	require.NoError(t, err)

	byTag := map[tag.Tag]rawElement{}
	for _, el := range walk(t, buf.Bytes()) {
		byTag[el.Tag] = el
	}

	assert.Equal(t, []byte{0x00, 0x01}, byTag[tag.FileMetaInformationVersion].Value)
	assert.Equal(t, vr.OB, byTag[tag.FileMetaInformationVersion].VR)
	// UI pads with NUL
	assert.Equal(t, "1.2.840.10008.5.1.4.1.1.7\x00", string(byTag[tag.MediaStorageSOPClassUID].Value))
	assert.Equal(t, "1.2.840.10008.1.2.1\x00", string(byTag[tag.TransferSyntaxUID].Value))
	assert.Equal(t, "1.2.3.6\x00", string(byTag[tag.SOPInstanceUID].Value))
	// strings pad with space
	assert.Equal(t, "DOE^JOHN", string(byTag[tag.PatientName].Value))
	assert.Equal(t, "12345 ", string(byTag[tag.PatientID].Value))
	assert.Equal(t, "ORIGINAL\\PRIMARY", string(byTag[tag.ImageType].Value))
	assert.Equal(t, "20240305", string(byTag[tag.StudyDate].Value))
	assert.Equal(t, "070809", string(byTag[tag.StudyTime].Value))
	assert.Equal(t, "ISO_IR 100", string(byTag[tag.SpecificCharacterSet].Value))
	// binary
	assert.Equal(t, []byte{2, 0}, byTag[tag.Rows].Value)
	assert.Equal(t, []byte{8, 0}, byTag[tag.BitsAllocated].Value)
	assert.Equal(t, vr.OB, byTag[tag.PixelData].VR)
	assert.Equal(t, []byte{10, 20, 30, 40}, byTag[tag.PixelData].Value)

	_, hasBirthDate := byTag[tag.PatientBirthDate]
	assert.True(t, hasBirthDate, "type 2 elements are written even when empty")
	assert.Empty(t, byTag[tag.PatientBirthDate].Value)
}

func TestWrite_OddPixelDataPadded(t *testing.T) {
	sc := testSCImage(t)
	require.NoError(t, sc.SetPixelData(1, 1, []byte{0xAB}))

	var buf bytes.Buffer
	_, err := sc.WriteTo(&buf)
	require.NoError(t, err)

	elements := walk(t, buf.Bytes())
	last := elements[len(elements)-1]
	require.Equal(t, tag.PixelData, last.Tag)
	assert.Equal(t, []byte{0xAB, 0x00}, last.Value)
}

func TestWrite_Latin1Text(t *testing.T) {
	sc := testSCImage(t)
	sc.Patient.PatientName = module.ParsePersonName("MÜLLER^JÖRG")
	sc.Study.StudyDescription = "Études 日本"

	var buf bytes.Buffer
	_, err := sc.WriteTo(&buf)
	require.NoError(t, err)

	byTag := map[tag.Tag]rawElement{}
	for _, el := range walk(t, buf.Bytes()) {
		byTag[el.Tag] = el
	}
	assert.Equal(t, []byte("M\xDCLLER^J\xD6RG "), byTag[tag.PatientName].Value)
	assert.Equal(t, []byte("\xC9tudes ?? "), byTag[tag.StudyDescription].Value)
}

func TestWrite_ShortValueTooLong(t *testing.T) {
	ds, err := NewDataset(WithElement(tag.ImageComments, string(make([]byte, 70000))))
	require.NoError(t, err)
	// LT is clipped by WithElement, so bypass the builder
	ds.Elements[tag.ImageComments].Value = string(make([]byte, 70000))

	_, err = Write(&bytes.Buffer{}, ds)
	assert.Error(t, err)
}

func TestWrite_UnsupportedValue(t *testing.T) {
	ds := &Dataset{Elements: map[Tag]*Element{
		tag.PatientID: {Tag: tag.PatientID, VR: vr.LO, Value: 3.14},
	}}
	_, err := Write(&bytes.Buffer{}, ds)
	assert.ErrorContains(t, err, "unsupported value type")
}

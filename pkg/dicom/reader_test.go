package dicom

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/img2dcm/pkg/dicom/module"
	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
)

func TestParse_RoundTrip(t *testing.T) {
	sc := testSCImage(t)
	sc.Patient.PatientName = module.ParsePersonName("MÜLLER^JÖRG")

	var buf bytes.Buffer
	_, err := sc.WriteTo(&buf)
	require.NoError(t, err)

	ds, err := Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, "MÜLLER^JÖRG", ds.GetString(tag.PatientName))
	assert.Equal(t, "12345", ds.GetString(tag.PatientID))
	assert.Equal(t, "1.2.3.6", ds.GetString(tag.SOPInstanceUID))
	assert.Equal(t, "1.2.3.6", ds.GetString(tag.MediaStorageSOPInstanceUID))
	assert.Equal(t, SecondaryCaptureImageStorageUID, ds.GetString(tag.SOPClassUID))
	assert.Equal(t, "ORIGINAL\\PRIMARY", ds.GetString(tag.ImageType))
	assert.Equal(t, "DI", ds.GetString(tag.ConversionType))

	rows, ok := ds.GetInt(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, 2, rows)
	n, ok := ds.GetInt(tag.InstanceNumber)
	require.True(t, ok)
	assert.Equal(t, 1, n)

	elem, ok := ds.FindElement(tag.FileMetaInformationGroupLength)
	require.True(t, ok)
	_, ok = elem.GetUint32()
	assert.True(t, ok)

	pd, err := ds.GetPixelData()
	require.NoError(t, err)
	assert.Equal(t, 1, pd.NumFrames())
	assert.Equal(t, []byte{10, 20, 30, 40}, pd.GetFlatData())

	assert.True(t, ValidateSecondaryCapture(ds).IsValid())
}

func TestParse_NotDICOM(t *testing.T) {
	_, err := Parse(bytes.NewReader(make([]byte, 200)))
	assert.ErrorIs(t, err, ErrNotDICOM)

	_, err = Parse(bytes.NewReader([]byte("short")))
	assert.Error(t, err)
}

func TestParse_UnsupportedSyntax(t *testing.T) {
	ds, err := NewDataset(
		WithFileMeta(SecondaryCaptureImageStorageUID, "1.2.3", "1.2.840.10008.1.2", "1.2.3.4", "TEST"),
		WithElement(tag.PatientID, "X"),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = Write(&buf, ds)
	require.NoError(t, err)

	_, err = Parse(&buf)
	assert.ErrorIs(t, err, ErrUnsupportedSyntax)
}

func TestParse_Truncated(t *testing.T) {
	var buf bytes.Buffer
	_, err := testSCImage(t).WriteTo(&buf)
	require.NoError(t, err)

	b := buf.Bytes()
	_, err = Parse(bytes.NewReader(b[:len(b)-3]))
	assert.Error(t, err)
}

func TestParse_DeclaredLengthBeyondInput(t *testing.T) {
	b := make([]byte, 128, 160)
	b = append(b, "DICM"...)
	b = binary.LittleEndian.AppendUint16(b, 0x0002)
	b = binary.LittleEndian.AppendUint16(b, 0x0001)
	b = append(b, "OB"...)
	b = append(b, 0, 0)
	b = binary.LittleEndian.AppendUint32(b, 0xFFFFFFF0)
	b = append(b, 0, 1)

	_, err := Parse(bytes.NewReader(b))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
	"github.com/jpfielding/img2dcm/pkg/dicom/vr"
)

func TestPixelData_GetFrame(t *testing.T) {
	pd := &PixelData{
		Frames: []Frame{
			{Data: []byte{1, 2, 3, 4}},
			{Data: []byte{5, 6, 7, 8}},
		},
	}

	frame, err := pd.GetFrame(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6, 7, 8}, frame.Data)

	_, err = pd.GetFrame(-1)
	assert.Error(t, err)
	_, err = pd.GetFrame(2)
	assert.Error(t, err)

	assert.Equal(t, 2, pd.NumFrames())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, pd.GetFlatData())
	assert.Equal(t, 0, (&PixelData{}).NumFrames())
}

func TestElement_Getters(t *testing.T) {
	s := &Element{Value: "42 "}
	i, ok := s.GetInt()
	assert.True(t, ok)
	assert.Equal(t, 42, i)

	multi := &Element{Value: []string{"A", "B"}}
	str, ok := multi.GetString()
	assert.True(t, ok)
	assert.Equal(t, "A\\B", str)

	u := &Element{Value: uint16(7)}
	v, ok := u.GetUint16()
	assert.True(t, ok)
	assert.Equal(t, uint16(7), v)
	i, ok = u.GetInt()
	assert.True(t, ok)
	assert.Equal(t, 7, i)

	_, ok = (&Element{Value: 1.5}).GetInt()
	assert.False(t, ok)
}

func TestWithElement(t *testing.T) {
	ds, err := NewDataset(
		WithElement(tag.PatientID, "12345"),
		WithElement(tag.Modality, "ABCDEFGHIJKLMNOPQRSTU"),
		WithElement(tag.ImageType, "ORIGINAL\\PRIMARY"),
	)
	require.NoError(t, err)

	elem, ok := ds.FindElement(tag.PatientID)
	require.True(t, ok)
	assert.Equal(t, vr.LO, elem.VR)

	// CS values are clipped to 16 characters, each value separately
	assert.Equal(t, "ABCDEFGHIJKLMNOP", ds.GetString(tag.Modality))
	assert.Equal(t, "ORIGINAL\\PRIMARY", ds.GetString(tag.ImageType))

	_, err = NewDataset(WithElement(tag.New(0x0009, 0x0010), "x"))
	assert.Error(t, err)
}

func TestWithPixelData(t *testing.T) {
	ds, err := NewDataset(WithPixelData(2, 2, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, err)
	pd, err := ds.GetPixelData()
	require.NoError(t, err)
	assert.Equal(t, 2, pd.NumFrames())

	_, err = NewDataset(WithPixelData(2, 2, []byte{1, 2, 3}))
	assert.Error(t, err)
	_, err = NewDataset(WithPixelData(0, 2, []byte{1, 2}))
	assert.Error(t, err)
}

func TestDataset_String(t *testing.T) {
	ds, err := testSCImage(t).GetDataset()
	require.NoError(t, err)

	s := ds.String()
	assert.Contains(t, s, "(0010,0010) PN PatientName: DOE^JOHN\n")
	assert.Contains(t, s, "(7FE0,0010) OB PixelData: 1 frames, 4 bytes")
	assert.Contains(t, s, "(0008,0008) CS ImageType: ORIGINAL\\PRIMARY")

	b, err := ds.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tag":"(0010,0020)"`)
}

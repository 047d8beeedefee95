package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
)

func TestValidateSecondaryCapture_Valid(t *testing.T) {
	ds, err := testSCImage(t).GetDataset()
	require.NoError(t, err)

	result := ValidateSecondaryCapture(ds)
	assert.True(t, result.IsValid(), "%v", result.Errors)
	assert.False(t, result.HasWarnings())
}

func TestValidateSecondaryCapture_MissingType1(t *testing.T) {
	ds, err := testSCImage(t).GetDataset()
	require.NoError(t, err)
	delete(ds.Elements, tag.Modality)

	result := ValidateSecondaryCapture(ds)
	assert.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, tag.Modality, result.Errors[0].Tag)
	assert.Contains(t, result.Errors[0].Error(), "Type 1")
}

func TestValidateSecondaryCapture_EmptyType1(t *testing.T) {
	ds, err := testSCImage(t).GetDataset()
	require.NoError(t, err)
	ds.Elements[tag.ConversionType].Value = ""

	result := ValidateSecondaryCapture(ds)
	assert.False(t, result.IsValid())
}

func TestValidateSecondaryCapture_MissingType2IsWarning(t *testing.T) {
	ds, err := testSCImage(t).GetDataset()
	require.NoError(t, err)
	delete(ds.Elements, tag.PatientBirthDate)

	result := ValidateSecondaryCapture(ds)
	assert.True(t, result.IsValid())
	assert.True(t, result.HasWarnings())
	assert.Equal(t, tag.PatientBirthDate, result.Warnings[0].Tag)
}

func TestValidateSecondaryCapture_BadUID(t *testing.T) {
	sc := testSCImage(t)
	sc.Study.StudyInstanceUID = "1.02.3"
	ds, err := sc.GetDataset()
	require.NoError(t, err)

	result := ValidateSecondaryCapture(ds)
	assert.False(t, result.IsValid())
	assert.Equal(t, tag.StudyInstanceUID, result.Errors[0].Tag)
}

func TestValidateSecondaryCapture_MetaMismatch(t *testing.T) {
	ds, err := testSCImage(t).GetDataset()
	require.NoError(t, err)
	ds.Elements[tag.MediaStorageSOPInstanceUID].Value = "1.2.3.99"

	result := ValidateSecondaryCapture(ds)
	assert.False(t, result.IsValid())
}

func TestValidateSecondaryCapture_PixelLength(t *testing.T) {
	ds, err := testSCImage(t).GetDataset()
	require.NoError(t, err)
	ds.Elements[tag.Rows].Value = uint16(3)

	result := ValidateSecondaryCapture(ds)
	assert.False(t, result.IsValid())
	assert.Equal(t, tag.PixelData, result.Errors[0].Tag)
}

func TestValidateDataset_Conditional(t *testing.T) {
	ds, err := NewDataset(WithElement(tag.Modality, "OT"))
	require.NoError(t, err)
	isOT := func(ds *Dataset) bool { return ds.GetString(tag.Modality) == "OT" }
	never := func(*Dataset) bool { return false }

	result := ValidateDataset(ds, []IODRequirement{
		{Tag: tag.BodyPartExamined, Type: Type1C, Condition: isOT},
		{Tag: tag.StudyID, Type: Type1C, Condition: never},
		{Tag: tag.SeriesDescription, Type: Type2C, Condition: isOT},
		{Tag: tag.ImageComments, Type: Type3},
	})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, tag.BodyPartExamined, result.Errors[0].Tag)
	assert.Contains(t, result.Errors[0].Error(), "Type 1C: conditional attribute missing")
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, tag.SeriesDescription, result.Warnings[0].Tag)
	assert.False(t, result.IsValid())
}

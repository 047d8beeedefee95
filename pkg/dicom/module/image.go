package module

import (
	"time"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
)

// GeneralImageModule represents the General Image Module (PS3.3 C.7.6.1)
type GeneralImageModule struct {
	ImageType      []string // ORIGINAL\PRIMARY
	InstanceNumber int
	ContentDate    Date
	ContentTime    Time
	ImageComments  string
}

func NewGeneralImageModule(t time.Time) GeneralImageModule {
	return GeneralImageModule{
		ImageType:      []string{"ORIGINAL", "PRIMARY"},
		InstanceNumber: 1,
		ContentDate:    NewDate(t),
		ContentTime:    NewTime(t),
	}
}

func (m *GeneralImageModule) ToTags() []IODElement {
	elements := []IODElement{
		{Tag: tag.ImageType, Value: formatMultiValue(m.ImageType)},
		{Tag: tag.InstanceNumber, Value: formatIS(m.InstanceNumber)},
		{Tag: tag.ContentDate, Value: m.ContentDate.String()},
		{Tag: tag.ContentTime, Value: m.ContentTime.String()},
	}
	if m.ImageComments != "" {
		elements = append(elements, IODElement{Tag: tag.ImageComments, Value: m.ImageComments})
	}
	return elements
}

// ImagePixelModule represents the Image Pixel Module (PS3.3 C.7.6.3)
// restricted to single sample grayscale data
type ImagePixelModule struct {
	SamplesPerPixel     uint16
	PhotometricInterp   string
	Rows                uint16
	Columns             uint16
	BitsAllocated       uint16
	BitsStored          uint16
	HighBit             uint16
	PixelRepresentation uint16
}

// NewImagePixelModule creates an 8-bit unsigned MONOCHROME2 description
func NewImagePixelModule(rows, cols uint16) ImagePixelModule {
	return ImagePixelModule{
		SamplesPerPixel:     1,
		PhotometricInterp:   "MONOCHROME2",
		Rows:                rows,
		Columns:             cols,
		BitsAllocated:       8,
		BitsStored:          8,
		HighBit:             7,
		PixelRepresentation: 0,
	}
}

func (m *ImagePixelModule) ToTags() []IODElement {
	return []IODElement{
		{Tag: tag.SamplesPerPixel, Value: m.SamplesPerPixel},
		{Tag: tag.PhotometricInterpretation, Value: m.PhotometricInterp},
		{Tag: tag.Rows, Value: m.Rows},
		{Tag: tag.Columns, Value: m.Columns},
		{Tag: tag.BitsAllocated, Value: m.BitsAllocated},
		{Tag: tag.BitsStored, Value: m.BitsStored},
		{Tag: tag.HighBit, Value: m.HighBit},
		{Tag: tag.PixelRepresentation, Value: m.PixelRepresentation},
	}
}

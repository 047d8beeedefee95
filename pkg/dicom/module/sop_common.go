package module

import (
	"time"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
)

// DefaultCharacterSet is ISO 8859-1, declared by every converted image
const DefaultCharacterSet = "ISO_IR 100"

// SOPCommonModule identifies one Secondary Capture instance (PS3.3 C.12.1).
//
// SOPClassUID is filled in as Secondary Capture Image Storage when the data
// set is built, and SOPInstanceUID must be a fresh UID per image; the file
// meta header repeats both. SpecificCharacterSet selects how PN and other
// text values are encoded.
type SOPCommonModule struct {
	SOPClassUID          string
	SOPInstanceUID       string
	SpecificCharacterSet string
	InstanceCreationDate Date
	InstanceCreationTime Time
}

// NewSOPCommonModule stamps the instance creation date and time with t,
// the same instant used for the content date and time of the image.
func NewSOPCommonModule(t time.Time) SOPCommonModule {
	return SOPCommonModule{
		SpecificCharacterSet: DefaultCharacterSet,
		InstanceCreationDate: NewDate(t),
		InstanceCreationTime: NewTime(t),
	}
}

func (m *SOPCommonModule) ToTags() []IODElement {
	return []IODElement{
		{Tag: tag.SpecificCharacterSet, Value: m.SpecificCharacterSet},
		{Tag: tag.InstanceCreationDate, Value: m.InstanceCreationDate.String()},
		{Tag: tag.InstanceCreationTime, Value: m.InstanceCreationTime.String()},
		{Tag: tag.SOPClassUID, Value: m.SOPClassUID},
		{Tag: tag.SOPInstanceUID, Value: m.SOPInstanceUID},
	}
}

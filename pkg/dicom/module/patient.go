package module

import "github.com/jpfielding/img2dcm/pkg/dicom/tag"

// PatientModule holds the Patient Module (PS3.3 C.7.1.1) of a Secondary
// Capture image. Every attribute is Type 2 for SC, so each is written even
// when blank. The converter fills blanks from its defaults before encoding,
// which keeps every file of a batch on the same patient.
type PatientModule struct {
	PatientName      PersonName
	PatientID        string
	PatientBirthDate Date   // zero value encodes as an empty DA
	PatientSex       string // M, F or O
}

// ToTags lists the patient attributes in tag order
func (m *PatientModule) ToTags() []IODElement {
	return []IODElement{
		{Tag: tag.PatientName, Value: m.PatientName.String()},
		{Tag: tag.PatientID, Value: m.PatientID},
		{Tag: tag.PatientBirthDate, Value: m.PatientBirthDate.String()},
		{Tag: tag.PatientSex, Value: m.PatientSex},
	}
}

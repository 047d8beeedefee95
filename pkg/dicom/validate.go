package dicom

import (
	"fmt"
	"slices"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
)

// AttributeType represents DICOM attribute type requirements
type AttributeType int

const (
	// Type1 - Required, must have value
	Type1 AttributeType = 1
	// Type1C - Conditionally required, must have value if present
	Type1C AttributeType = 2
	// Type2 - Required, may be empty
	Type2 AttributeType = 3
	// Type2C - Conditionally required, may be empty if present
	Type2C AttributeType = 4
	// Type3 - Optional
	Type3 AttributeType = 5
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Tag        tag.Tag
	Type       AttributeType
	Message    string
	IsCritical bool // Type 1 and 1C violations are critical
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Tag, e.typeName(), e.Message)
}

func (e ValidationError) typeName() string {
	switch e.Type {
	case Type1:
		return "Type 1"
	case Type1C:
		return "Type 1C"
	case Type2:
		return "Type 2"
	case Type2C:
		return "Type 2C"
	case Type3:
		return "Type 3"
	default:
		return "Unknown"
	}
}

// ValidationResult contains all validation errors for a dataset
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no critical errors
func (r ValidationResult) IsValid() bool {
	for _, err := range r.Errors {
		if err.IsCritical {
			return false
		}
	}
	return true
}

// HasWarnings returns true if there are any warnings
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// IODRequirement defines a required attribute for an IOD
type IODRequirement struct {
	Tag       tag.Tag
	Type      AttributeType
	Condition func(*Dataset) bool // For Type 1C/2C, returns true if attribute is required
}

// ValidateDataset checks ds against requirements. Type 1 violations are
// critical errors; Type 2 attributes that are absent are warnings.
func ValidateDataset(ds *Dataset, requirements []IODRequirement) ValidationResult {
	var result ValidationResult
	for _, req := range requirements {
		if !req.applies(ds) {
			continue
		}
		elem, exists := ds.FindElement(req.Tag)
		valued := req.Type == Type1 || req.Type == Type1C
		switch {
		case !exists && valued:
			result.Errors = append(result.Errors, req.violation("attribute missing"))
		case !exists:
			result.Warnings = append(result.Warnings, req.violation("attribute missing (may be empty)"))
		case valued && isEmpty(elem):
			result.Errors = append(result.Errors, req.violation("attribute is empty"))
		}
	}
	return result
}

func (req IODRequirement) applies(ds *Dataset) bool {
	switch req.Type {
	case Type3:
		return false
	case Type1C, Type2C:
		return req.Condition != nil && req.Condition(ds)
	}
	return true
}

func (req IODRequirement) violation(msg string) ValidationError {
	critical := req.Type == Type1 || req.Type == Type1C
	if req.Type == Type1C || req.Type == Type2C {
		msg = "conditional " + msg
	}
	return ValidationError{Tag: req.Tag, Type: req.Type, Message: msg, IsCritical: critical}
}

func isEmpty(elem *Element) bool {
	if elem == nil || elem.Value == nil {
		return true
	}
	switch v := elem.Value.(type) {
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	case []uint16:
		return len(v) == 0
	case *PixelData:
		return len(v.GetFlatData()) == 0
	default:
		return false
	}
}

// FileMetaRequirements defines required attributes for the File Meta Information
var FileMetaRequirements = []IODRequirement{
	{Tag: tag.FileMetaInformationVersion, Type: Type1},
	{Tag: tag.MediaStorageSOPClassUID, Type: Type1},
	{Tag: tag.MediaStorageSOPInstanceUID, Type: Type1},
	{Tag: tag.TransferSyntaxUID, Type: Type1},
	{Tag: tag.ImplementationClassUID, Type: Type1},
}

// PatientModuleRequirements defines required attributes for Patient Module
var PatientModuleRequirements = []IODRequirement{
	{Tag: tag.PatientName, Type: Type2},
	{Tag: tag.PatientID, Type: Type2},
	{Tag: tag.PatientBirthDate, Type: Type2},
	{Tag: tag.PatientSex, Type: Type2},
}

// GeneralStudyModuleRequirements defines required attributes for General Study Module
var GeneralStudyModuleRequirements = []IODRequirement{
	{Tag: tag.StudyInstanceUID, Type: Type1},
	{Tag: tag.StudyDate, Type: Type2},
	{Tag: tag.StudyTime, Type: Type2},
	{Tag: tag.ReferringPhysicianName, Type: Type2},
	{Tag: tag.StudyID, Type: Type2},
	{Tag: tag.AccessionNumber, Type: Type2},
}

// GeneralSeriesModuleRequirements defines required attributes for General Series Module
var GeneralSeriesModuleRequirements = []IODRequirement{
	{Tag: tag.Modality, Type: Type1},
	{Tag: tag.SeriesInstanceUID, Type: Type1},
	{Tag: tag.SeriesNumber, Type: Type2},
}

// GeneralImageModuleRequirements defines required attributes for General Image Module
var GeneralImageModuleRequirements = []IODRequirement{
	{Tag: tag.InstanceNumber, Type: Type2},
}

// SCEquipmentModuleRequirements defines required attributes for SC Equipment Module
var SCEquipmentModuleRequirements = []IODRequirement{
	{Tag: tag.ConversionType, Type: Type1},
}

// ImagePixelModuleRequirements defines required attributes for Image Pixel Module
var ImagePixelModuleRequirements = []IODRequirement{
	{Tag: tag.SamplesPerPixel, Type: Type1},
	{Tag: tag.PhotometricInterpretation, Type: Type1},
	{Tag: tag.Rows, Type: Type1},
	{Tag: tag.Columns, Type: Type1},
	{Tag: tag.BitsAllocated, Type: Type1},
	{Tag: tag.BitsStored, Type: Type1},
	{Tag: tag.HighBit, Type: Type1},
	{Tag: tag.PixelRepresentation, Type: Type1},
	{Tag: tag.PixelData, Type: Type1},
}

// SOPCommonModuleRequirements defines required attributes for SOP Common Module
var SOPCommonModuleRequirements = []IODRequirement{
	{Tag: tag.SOPClassUID, Type: Type1},
	{Tag: tag.SOPInstanceUID, Type: Type1},
}

// SecondaryCaptureRequirements combines all requirements for the SC Image IOD
var SecondaryCaptureRequirements = slices.Concat(
	FileMetaRequirements,
	PatientModuleRequirements,
	GeneralStudyModuleRequirements,
	GeneralSeriesModuleRequirements,
	GeneralImageModuleRequirements,
	SCEquipmentModuleRequirements,
	ImagePixelModuleRequirements,
	SOPCommonModuleRequirements,
)

var uidTags = []tag.Tag{
	tag.MediaStorageSOPClassUID,
	tag.MediaStorageSOPInstanceUID,
	tag.TransferSyntaxUID,
	tag.ImplementationClassUID,
	tag.SOPClassUID,
	tag.SOPInstanceUID,
	tag.StudyInstanceUID,
	tag.SeriesInstanceUID,
}

// ValidateSecondaryCapture validates an SC Image dataset: attribute presence,
// UID syntax, agreement between the file meta and SOP Common UIDs, and the
// pixel data length against Rows x Columns.
func ValidateSecondaryCapture(ds *Dataset) ValidationResult {
	result := ValidateDataset(ds, SecondaryCaptureRequirements)

	for _, t := range uidTags {
		s := ds.GetString(t)
		if s == "" {
			continue
		}
		if err := uid.Validate(s); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Tag:        t,
				Type:       Type1,
				Message:    err.Error(),
				IsCritical: true,
			})
		}
	}

	if ds.GetString(tag.MediaStorageSOPInstanceUID) != ds.GetString(tag.SOPInstanceUID) {
		result.Errors = append(result.Errors, ValidationError{
			Tag:        tag.MediaStorageSOPInstanceUID,
			Type:       Type1,
			Message:    "does not match SOP Instance UID",
			IsCritical: true,
		})
	}

	rows, rok := ds.GetInt(tag.Rows)
	cols, cok := ds.GetInt(tag.Columns)
	if pd, err := ds.GetPixelData(); err == nil && rok && cok {
		// odd lengths carry one byte of padding
		n := len(pd.GetFlatData())
		if want := rows * cols; n != want && n != want+1 {
			result.Errors = append(result.Errors, ValidationError{
				Tag:        tag.PixelData,
				Type:       Type1,
				Message:    fmt.Sprintf("length %d does not match %dx%d", n, cols, rows),
				IsCritical: true,
			})
		}
	}
	return result
}

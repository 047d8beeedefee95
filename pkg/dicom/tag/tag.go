// Package tag defines the DICOM tags written by Secondary Capture objects
package tag

import "github.com/jpfielding/img2dcm/pkg/dicom/vr"

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// Less orders tags ascending by group, then element
func (t Tag) Less(other Tag) bool {
	if t.Group != other.Group {
		return t.Group < other.Group
	}
	return t.Element < other.Element
}

// IsGroup0002 returns true if this tag is in the File Meta Information group
func (t Tag) IsGroup0002() bool {
	return t.Group == 0x0002
}

// File Meta Information (Group 0002)
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
)

// SOP Common Module
var (
	SpecificCharacterSet = Tag{0x0008, 0x0005}
	InstanceCreationDate = Tag{0x0008, 0x0012}
	InstanceCreationTime = Tag{0x0008, 0x0013}
	SOPClassUID          = Tag{0x0008, 0x0016}
	SOPInstanceUID       = Tag{0x0008, 0x0018}
)

// Patient Module (Group 0010)
var (
	PatientName      = Tag{0x0010, 0x0010}
	PatientID        = Tag{0x0010, 0x0020}
	PatientBirthDate = Tag{0x0010, 0x0030}
	PatientSex       = Tag{0x0010, 0x0040}
)

// General Study Module (Group 0008, 0020)
var (
	StudyDate              = Tag{0x0008, 0x0020}
	StudyTime              = Tag{0x0008, 0x0030}
	AccessionNumber        = Tag{0x0008, 0x0050}
	ReferringPhysicianName = Tag{0x0008, 0x0090}
	StudyDescription       = Tag{0x0008, 0x1030}
	StudyInstanceUID       = Tag{0x0020, 0x000D}
	StudyID                = Tag{0x0020, 0x0010}
)

// General Series Module
var (
	SeriesDate        = Tag{0x0008, 0x0021}
	SeriesTime        = Tag{0x0008, 0x0031}
	Modality          = Tag{0x0008, 0x0060}
	SeriesDescription = Tag{0x0008, 0x103E}
	BodyPartExamined  = Tag{0x0018, 0x0015}
	SeriesInstanceUID = Tag{0x0020, 0x000E}
	SeriesNumber      = Tag{0x0020, 0x0011}
)

// General Equipment Module
var (
	Manufacturer          = Tag{0x0008, 0x0070}
	InstitutionName       = Tag{0x0008, 0x0080}
	StationName           = Tag{0x0008, 0x1010}
	ManufacturerModelName = Tag{0x0008, 0x1090}
	SoftwareVersions      = Tag{0x0018, 0x1020}
)

// General Image Module
var (
	ImageType      = Tag{0x0008, 0x0008}
	ContentDate    = Tag{0x0008, 0x0023}
	ContentTime    = Tag{0x0008, 0x0033}
	InstanceNumber = Tag{0x0020, 0x0013}
	ImageComments  = Tag{0x0020, 0x4000}
)

// SC Equipment Module
var (
	ConversionType = Tag{0x0008, 0x0064}
)

// Image Pixel Module (Group 0028)
var (
	SamplesPerPixel           = Tag{0x0028, 0x0002}
	PhotometricInterpretation = Tag{0x0028, 0x0004}
	Rows                      = Tag{0x0028, 0x0010}
	Columns                   = Tag{0x0028, 0x0011}
	BitsAllocated             = Tag{0x0028, 0x0100}
	BitsStored                = Tag{0x0028, 0x0101}
	HighBit                   = Tag{0x0028, 0x0102}
	PixelRepresentation       = Tag{0x0028, 0x0103}
	PixelData                 = Tag{0x7FE0, 0x0010}
)

// Info is the dictionary entry for a tag
type Info struct {
	Name string
	VR   vr.VR
}

var dictionary = map[Tag]Info{
	FileMetaInformationGroupLength: {"FileMetaInformationGroupLength", vr.UL},
	FileMetaInformationVersion:     {"FileMetaInformationVersion", vr.OB},
	MediaStorageSOPClassUID:        {"MediaStorageSOPClassUID", vr.UI},
	MediaStorageSOPInstanceUID:     {"MediaStorageSOPInstanceUID", vr.UI},
	TransferSyntaxUID:              {"TransferSyntaxUID", vr.UI},
	ImplementationClassUID:         {"ImplementationClassUID", vr.UI},
	ImplementationVersionName:      {"ImplementationVersionName", vr.SH},

	SpecificCharacterSet: {"SpecificCharacterSet", vr.CS},
	InstanceCreationDate: {"InstanceCreationDate", vr.DA},
	InstanceCreationTime: {"InstanceCreationTime", vr.TM},
	SOPClassUID:          {"SOPClassUID", vr.UI},
	SOPInstanceUID:       {"SOPInstanceUID", vr.UI},

	PatientName:      {"PatientName", vr.PN},
	PatientID:        {"PatientID", vr.LO},
	PatientBirthDate: {"PatientBirthDate", vr.DA},
	PatientSex:       {"PatientSex", vr.CS},

	StudyDate:              {"StudyDate", vr.DA},
	StudyTime:              {"StudyTime", vr.TM},
	AccessionNumber:        {"AccessionNumber", vr.SH},
	ReferringPhysicianName: {"ReferringPhysicianName", vr.PN},
	StudyDescription:       {"StudyDescription", vr.LO},
	StudyInstanceUID:       {"StudyInstanceUID", vr.UI},
	StudyID:                {"StudyID", vr.SH},

	SeriesDate:        {"SeriesDate", vr.DA},
	SeriesTime:        {"SeriesTime", vr.TM},
	Modality:          {"Modality", vr.CS},
	SeriesDescription: {"SeriesDescription", vr.LO},
	BodyPartExamined:  {"BodyPartExamined", vr.CS},
	SeriesInstanceUID: {"SeriesInstanceUID", vr.UI},
	SeriesNumber:      {"SeriesNumber", vr.IS},

	Manufacturer:          {"Manufacturer", vr.LO},
	InstitutionName:       {"InstitutionName", vr.LO},
	StationName:           {"StationName", vr.SH},
	ManufacturerModelName: {"ManufacturerModelName", vr.LO},
	SoftwareVersions:      {"SoftwareVersions", vr.LO},

	ImageType:      {"ImageType", vr.CS},
	ContentDate:    {"ContentDate", vr.DA},
	ContentTime:    {"ContentTime", vr.TM},
	InstanceNumber: {"InstanceNumber", vr.IS},
	ImageComments:  {"ImageComments", vr.LT},

	ConversionType: {"ConversionType", vr.CS},

	SamplesPerPixel:           {"SamplesPerPixel", vr.US},
	PhotometricInterpretation: {"PhotometricInterpretation", vr.CS},
	Rows:                      {"Rows", vr.US},
	Columns:                   {"Columns", vr.US},
	BitsAllocated:             {"BitsAllocated", vr.US},
	BitsStored:                {"BitsStored", vr.US},
	HighBit:                   {"HighBit", vr.US},
	PixelRepresentation:       {"PixelRepresentation", vr.US},
	PixelData:                 {"PixelData", vr.OB},
}

// Find returns the dictionary entry for a tag
func Find(t Tag) (Info, bool) {
	info, ok := dictionary[t]
	return info, ok
}

// LookupName returns a human-readable name for known tags
func (t Tag) LookupName() string {
	return dictionary[t].Name
}

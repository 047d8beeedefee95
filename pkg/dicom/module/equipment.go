package module

import "github.com/jpfielding/img2dcm/pkg/dicom/tag"

// GeneralEquipmentModule represents the General Equipment Module (PS3.3 C.7.5.1)
type GeneralEquipmentModule struct {
	Manufacturer      string
	InstitutionName   string
	StationName       string
	ManufacturerModel string
	SoftwareVersions  string
}

func (m *GeneralEquipmentModule) ToTags() []IODElement {
	return []IODElement{
		{Tag: tag.Manufacturer, Value: m.Manufacturer},
		{Tag: tag.InstitutionName, Value: m.InstitutionName},
		{Tag: tag.StationName, Value: m.StationName},
		{Tag: tag.ManufacturerModelName, Value: m.ManufacturerModel},
		{Tag: tag.SoftwareVersions, Value: m.SoftwareVersions},
	}
}

// SCEquipmentModule represents the SC Equipment Module (PS3.3 C.8.6.1)
type SCEquipmentModule struct {
	ConversionType string // DI digitized image, WSD workstation, ...
}

func (m *SCEquipmentModule) ToTags() []IODElement {
	return []IODElement{
		{Tag: tag.ConversionType, Value: m.ConversionType},
	}
}

package module

import (
	"time"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
)

// GeneralSeriesModule represents the General Series Module (PS3.3 C.7.3.1)
type GeneralSeriesModule struct {
	Modality          string
	SeriesInstanceUID string
	SeriesNumber      int
	SeriesDate        Date
	SeriesTime        Time
	SeriesDescription string
	BodyPartExamined  string
}

func NewGeneralSeriesModule(t time.Time) GeneralSeriesModule {
	return GeneralSeriesModule{
		SeriesNumber: 1,
		SeriesDate:   NewDate(t),
		SeriesTime:   NewTime(t),
	}
}

func (m *GeneralSeriesModule) ToTags() []IODElement {
	return []IODElement{
		{Tag: tag.Modality, Value: m.Modality},
		{Tag: tag.SeriesInstanceUID, Value: m.SeriesInstanceUID},
		{Tag: tag.SeriesNumber, Value: formatIS(m.SeriesNumber)},
		{Tag: tag.SeriesDate, Value: m.SeriesDate.String()},
		{Tag: tag.SeriesTime, Value: m.SeriesTime.String()},
		{Tag: tag.SeriesDescription, Value: m.SeriesDescription},
		{Tag: tag.BodyPartExamined, Value: m.BodyPartExamined},
	}
}

func (m *GeneralSeriesModule) SetSeriesInstanceUID(uid string) {
	m.SeriesInstanceUID = uid
}

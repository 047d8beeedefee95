package convert

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/jpfielding/img2dcm/pkg/dicom"
	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
	"github.com/jpfielding/img2dcm/pkg/dicom/vr"
)

// Metadata is the patient/study/series record attached to every image of a batch
type Metadata struct {
	PatientName        string `json:"patient_name"`
	PatientID          string `json:"patient_id"`
	PatientBirthDate   string `json:"patient_birth_date"`
	PatientSex         string `json:"patient_sex"`
	StudyInstanceUID   string `json:"study_instance_uid"`
	SeriesInstanceUID  string `json:"series_instance_uid"`
	StudyDescription   string `json:"study_description"`
	SeriesDescription  string `json:"series_description"`
	Modality           string `json:"modality"`
	InstitutionName    string `json:"institution_name"`
	Manufacturer       string `json:"manufacturer"`
	AccessionNumber    string `json:"accession_number"`
	ReferringPhysician string `json:"referring_physician"`
	BodyPartExamined   string `json:"body_part_examined"`
}

// Defaults holds the values used for absent or blank metadata fields
type Defaults struct {
	PatientName       string `yaml:"patient_name"`
	PatientID         string `yaml:"patient_id"`
	PatientSex        string `yaml:"patient_sex"`
	StudyDescription  string `yaml:"study_description"`
	SeriesDescription string `yaml:"series_description"`
	Modality          string `yaml:"modality"`
	InstitutionName   string `yaml:"institution_name"`
	Manufacturer      string `yaml:"manufacturer"`
	AccessionPrefix   string `yaml:"accession_prefix"`
}

// NewDefaults returns the stock defaults
func NewDefaults() Defaults {
	return Defaults{
		PatientName:       "UNKNOWN^PATIENT",
		PatientID:         "UNKNOWN",
		PatientSex:        "O",
		StudyDescription:  "Uploaded Image Study",
		SeriesDescription: "Uploaded Image Series",
		Modality:          "OT",
		InstitutionName:   "XCENTIC Medical Center",
		Manufacturer:      "XCENTIC",
		AccessionPrefix:   "ACC",
	}
}

// formFields maps multipart form keys onto Metadata fields
var formFields = map[string]func(*Metadata) *string{
	"patientName":        func(m *Metadata) *string { return &m.PatientName },
	"patientId":          func(m *Metadata) *string { return &m.PatientID },
	"patientBirthDate":   func(m *Metadata) *string { return &m.PatientBirthDate },
	"patientSex":         func(m *Metadata) *string { return &m.PatientSex },
	"studyInstanceUID":   func(m *Metadata) *string { return &m.StudyInstanceUID },
	"seriesInstanceUID":  func(m *Metadata) *string { return &m.SeriesInstanceUID },
	"studyDescription":   func(m *Metadata) *string { return &m.StudyDescription },
	"seriesDescription":  func(m *Metadata) *string { return &m.SeriesDescription },
	"modality":           func(m *Metadata) *string { return &m.Modality },
	"institutionName":    func(m *Metadata) *string { return &m.InstitutionName },
	"manufacturer":       func(m *Metadata) *string { return &m.Manufacturer },
	"accessionNumber":    func(m *Metadata) *string { return &m.AccessionNumber },
	"referringPhysician": func(m *Metadata) *string { return &m.ReferringPhysician },
	"bodyPartExamined":   func(m *Metadata) *string { return &m.BodyPartExamined },
}

// FormKeys lists the form keys understood by MetadataFromForm
func FormKeys() []string {
	keys := make([]string, 0, len(formFields))
	for k := range formFields {
		keys = append(keys, k)
	}
	return keys
}

// MetadataFromForm reads the metadata fields through get, typically url.Values.Get
func MetadataFromForm(get func(key string) string) Metadata {
	var m Metadata
	for key, field := range formFields {
		*field(&m) = strings.TrimSpace(get(key))
	}
	return m
}

// Resolve fills blank fields from d, normalizes values to their VRs and
// generates study/series UIDs that are missing or malformed.
func (m Metadata) Resolve(d Defaults, gen *uid.Generator, now time.Time) (Metadata, error) {
	or := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return strings.TrimSpace(v)
	}

	m.PatientName = dicom.Clip(or(m.PatientName, d.PatientName), vr.PN)
	m.PatientID = dicom.Clip(or(m.PatientID, d.PatientID), vr.LO)
	m.PatientBirthDate = NormalizeDate(m.PatientBirthDate)
	m.PatientSex = NormalizeSex(or(m.PatientSex, d.PatientSex))
	m.StudyDescription = dicom.Clip(or(m.StudyDescription, d.StudyDescription), vr.LO)
	m.SeriesDescription = dicom.Clip(or(m.SeriesDescription, d.SeriesDescription), vr.LO)
	m.Modality = NormalizeCodeString(or(m.Modality, d.Modality))
	if m.Modality == "" {
		m.Modality = NormalizeCodeString(d.Modality)
	}
	m.InstitutionName = dicom.Clip(or(m.InstitutionName, d.InstitutionName), vr.LO)
	m.Manufacturer = dicom.Clip(or(m.Manufacturer, d.Manufacturer), vr.LO)
	m.AccessionNumber = dicom.Clip(or(m.AccessionNumber, fmt.Sprintf("%s%d", d.AccessionPrefix, now.Unix())), vr.SH)
	m.ReferringPhysician = dicom.Clip(strings.TrimSpace(m.ReferringPhysician), vr.PN)
	m.BodyPartExamined = NormalizeCodeString(m.BodyPartExamined)

	var err error
	if m.StudyInstanceUID, err = resolveUID("study_instance_uid", m.StudyInstanceUID, gen); err != nil {
		return m, err
	}
	if m.SeriesInstanceUID, err = resolveUID("series_instance_uid", m.SeriesInstanceUID, gen); err != nil {
		return m, err
	}
	return m, nil
}

func resolveUID(field, v string, gen *uid.Generator) (string, error) {
	v = strings.TrimSpace(v)
	if v != "" {
		err := uid.Validate(v)
		if err == nil {
			return v, nil
		}
		slog.Warn("replacing invalid uid", "field", field, "value", v, "error", err)
	}
	u, err := gen.New()
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return u, nil
}

// NormalizeSex maps a free form value onto M, F or O
func NormalizeSex(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "M", "MALE":
		return "M"
	case "F", "FEMALE":
		return "F"
	default:
		return "O"
	}
}

// NormalizeDate returns v as YYYYMMDD, or "" when it is not a recognizable date
func NormalizeDate(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '-', '/', '.', ' ':
			return -1
		}
		return r
	}, v)
	if t, err := time.Parse("20060102", compact); err == nil {
		return t.Format("20060102")
	}
	t, err := dateparse.ParseAny(v)
	if err != nil {
		slog.Debug("dropping unparseable date", "value", v, "error", err)
		return ""
	}
	return t.Format("20060102")
}

// NormalizeCodeString upper-cases v, replaces characters outside the CS
// repertoire with '_' and clips it to 16 characters
func NormalizeCodeString(v string) string {
	v = strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '_':
			return r
		}
		return '_'
	}, strings.ToUpper(strings.TrimSpace(v)))
	return dicom.Clip(v, vr.CS)
}

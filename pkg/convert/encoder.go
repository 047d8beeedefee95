package convert

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/jpfielding/img2dcm/pkg/dicom"
	"github.com/jpfielding/img2dcm/pkg/dicom/module"
	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
)

// EncoderConfig holds the fixed equipment and implementation identity
// written into every object
type EncoderConfig struct {
	ImplementationClassUID    string `yaml:"implementation_class_uid"`
	ImplementationVersionName string `yaml:"implementation_version_name"`
	ManufacturerModelName     string `yaml:"manufacturer_model_name"`
	StationName               string `yaml:"station_name"`
	SoftwareVersions          string `yaml:"software_versions"`
	ConverterName             string `yaml:"converter_name"`
}

// DefaultEncoderConfig returns the stock identity
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		ImplementationClassUID:    dicom.DefaultImplementationClassUID,
		ImplementationVersionName: dicom.DefaultImplementationVersionName,
		ManufacturerModelName:     "XCENTIC_UPLOADER",
		StationName:               "XCENTIC_STATION",
		SoftwareVersions:          "v1.0",
		ConverterName:             "XCENTIC Go DICOM Converter",
	}
}

// Encoder turns grayscale rasters into Secondary Capture Part 10 streams.
// It holds no mutable state and is safe for concurrent use.
type Encoder struct {
	cfg EncoderConfig
	now func() time.Time
}

// EncoderOption configures an Encoder
type EncoderOption func(*Encoder)

// WithEncoderClock overrides the time source used for dates and times
func WithEncoderClock(now func() time.Time) EncoderOption {
	return func(e *Encoder) {
		e.now = now
	}
}

// NewEncoder creates an Encoder; blank config fields take their defaults
func NewEncoder(cfg EncoderConfig, opts ...EncoderOption) *Encoder {
	def := DefaultEncoderConfig()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&cfg.ImplementationClassUID, def.ImplementationClassUID)
	fill(&cfg.ImplementationVersionName, def.ImplementationVersionName)
	fill(&cfg.ManufacturerModelName, def.ManufacturerModelName)
	fill(&cfg.StationName, def.StationName)
	fill(&cfg.SoftwareVersions, def.SoftwareVersions)
	fill(&cfg.ConverterName, def.ConverterName)

	e := &Encoder{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration
func (e *Encoder) Config() EncoderConfig {
	return e.cfg
}

// Encode builds the complete DICOM byte stream for one image. Defaults are
// not applied here (see Metadata.Resolve), but sex, birth date and code
// strings are normalized to their VRs.
func (e *Encoder) Encode(img DecodedImage, meta Metadata, instanceNumber int, sopInstanceUID, sourceFilenameHint string) ([]byte, error) {
	if img.Width <= 0 || img.Height <= 0 || img.Width > math.MaxUint16 || img.Height > math.MaxUint16 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelData, len(img.Pix), img.Width, img.Height)
	}
	if err := uid.Validate(sopInstanceUID); err != nil {
		return nil, fmt.Errorf("%w: sop instance uid: %v", ErrEncoding, err)
	}
	birthDate, err := module.ParseDate(NormalizeDate(meta.PatientBirthDate))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	sc := dicom.NewSCImage(e.now())
	sc.ImplementationClassUID = e.cfg.ImplementationClassUID
	sc.ImplementationVersionName = e.cfg.ImplementationVersionName

	sc.Patient.PatientName = module.ParsePersonName(meta.PatientName)
	sc.Patient.PatientID = meta.PatientID
	sc.Patient.PatientBirthDate = birthDate
	sc.Patient.PatientSex = NormalizeSex(meta.PatientSex)

	sc.Study.StudyInstanceUID = meta.StudyInstanceUID
	sc.Study.AccessionNumber = meta.AccessionNumber
	sc.Study.StudyDescription = meta.StudyDescription
	sc.Study.ReferringPhysicianName = module.ParsePersonName(meta.ReferringPhysician)

	sc.Series.SetSeriesInstanceUID(meta.SeriesInstanceUID)
	sc.Series.Modality = NormalizeCodeString(meta.Modality)
	sc.Series.SeriesDescription = meta.SeriesDescription
	sc.Series.BodyPartExamined = NormalizeCodeString(meta.BodyPartExamined)

	sc.Equipment = module.GeneralEquipmentModule{
		Manufacturer:      meta.Manufacturer,
		InstitutionName:   meta.InstitutionName,
		StationName:       e.cfg.StationName,
		ManufacturerModel: e.cfg.ManufacturerModelName,
		SoftwareVersions:  e.cfg.SoftwareVersions,
	}

	sc.Image.InstanceNumber = instanceNumber
	sc.Image.ImageComments = fmt.Sprintf("Converted from %s using %s", sourceFilenameHint, e.cfg.ConverterName)
	sc.SOPCommon.SOPInstanceUID = sopInstanceUID

	if err := sc.SetPixelData(img.Height, img.Width, img.Pix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPixelData, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(img.Pix) + 2048)
	if _, err := sc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

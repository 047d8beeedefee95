package dicom

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/jpfielding/img2dcm/pkg/dicom/module"
	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
)

// SCImage represents a single frame Secondary Capture Image IOD
type SCImage struct {
	// Modules
	Patient     module.PatientModule
	Study       module.GeneralStudyModule
	Series      module.GeneralSeriesModule
	Equipment   module.GeneralEquipmentModule
	Image       module.GeneralImageModule
	SOPCommon   module.SOPCommonModule
	SCEquipment module.SCEquipmentModule
	Pixel       module.ImagePixelModule

	// File meta
	ImplementationClassUID    string
	ImplementationVersionName string

	// Pixel Data, 8 bits per sample
	PixelData []byte
}

// NewSCImage creates an SC Image whose dates and times are all taken from t
func NewSCImage(t time.Time) *SCImage {
	return &SCImage{
		Study:                     module.NewGeneralStudyModule(t),
		Series:                    module.NewGeneralSeriesModule(t),
		Image:                     module.NewGeneralImageModule(t),
		SOPCommon:                 module.NewSOPCommonModule(t),
		SCEquipment:               module.SCEquipmentModule{ConversionType: "DI"},
		ImplementationClassUID:    DefaultImplementationClassUID,
		ImplementationVersionName: DefaultImplementationVersionName,
	}
}

// SetPixelData sets 8-bit grayscale pixels in row-major order.
// len(data) must equal rows*cols.
func (sc *SCImage) SetPixelData(rows, cols int, data []byte) error {
	if rows <= 0 || cols <= 0 || rows > math.MaxUint16 || cols > math.MaxUint16 {
		return fmt.Errorf("invalid dimensions %dx%d", cols, rows)
	}
	if len(data) != rows*cols {
		return fmt.Errorf("pixel data length %d does not match %dx%d", len(data), cols, rows)
	}
	sc.Pixel = module.NewImagePixelModule(uint16(rows), uint16(cols))
	sc.PixelData = data
	return nil
}

// GetDataset builds and returns the DICOM Dataset
func (sc *SCImage) GetDataset() (*Dataset, error) {
	if sc.PixelData == nil {
		return nil, fmt.Errorf("pixel data not set")
	}
	if err := uid.Validate(sc.SOPCommon.SOPInstanceUID); err != nil {
		return nil, fmt.Errorf("sop instance uid: %w", err)
	}
	sc.SOPCommon.SOPClassUID = SecondaryCaptureImageStorageUID

	opts := []Option{
		WithFileMeta(SecondaryCaptureImageStorageUID, sc.SOPCommon.SOPInstanceUID,
			string(ExplicitVRLittleEndian), sc.ImplementationClassUID, sc.ImplementationVersionName),
		WithModule(sc.Patient.ToTags()),
		WithModule(sc.Study.ToTags()),
		WithModule(sc.Series.ToTags()),
		WithModule(sc.Equipment.ToTags()),
		WithModule(sc.Image.ToTags()),
		WithModule(sc.SOPCommon.ToTags()),
		WithModule(sc.SCEquipment.ToTags()),
		WithModule(sc.Pixel.ToTags()),
		WithPixelData(int(sc.Pixel.Rows), int(sc.Pixel.Columns), sc.PixelData),
	}
	return NewDataset(opts...)
}

// WriteTo writes the SC Image to any io.Writer
func (sc *SCImage) WriteTo(w io.Writer) (int64, error) {
	dataset, err := sc.GetDataset()
	if err != nil {
		return 0, err
	}
	return Write(w, dataset)
}

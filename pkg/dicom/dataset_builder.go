package dicom

import (
	"fmt"
	"strings"

	"github.com/jpfielding/img2dcm/pkg/dicom/module"
	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
	"github.com/jpfielding/img2dcm/pkg/dicom/vr"
)

// Option configures a Dataset during construction
type Option func(*Dataset) error

// NewDataset creates a Dataset with the given options
func NewDataset(opts ...Option) (*Dataset, error) {
	ds := &Dataset{Elements: make(map[Tag]*Element)}
	for _, opt := range opts {
		if err := opt(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// WithElement adds a single element using the dictionary VR for the tag.
// String values longer than the VR allows are clipped.
func WithElement(t tag.Tag, value interface{}) Option {
	return func(ds *Dataset) error {
		info, ok := tag.Find(t)
		if !ok {
			return fmt.Errorf("tag %v not in dictionary", t)
		}
		if s, ok := value.(string); ok {
			value = Clip(s, info.VR)
		}
		ds.Elements[t] = &Element{
			Tag:   t,
			VR:    info.VR,
			Value: value,
		}
		return nil
	}
}

// WithFileMeta adds the file meta information elements.
// The group length is computed when the dataset is written.
func WithFileMeta(sopClassUID, sopInstanceUID, transferSyntax, implClassUID, implVersion string) Option {
	return func(ds *Dataset) error {
		opts := []Option{
			WithElement(tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
			WithElement(tag.MediaStorageSOPClassUID, sopClassUID),
			WithElement(tag.MediaStorageSOPInstanceUID, sopInstanceUID),
			WithElement(tag.TransferSyntaxUID, transferSyntax),
			WithElement(tag.ImplementationClassUID, implClassUID),
			WithElement(tag.ImplementationVersionName, implVersion),
		}
		for _, opt := range opts {
			if err := opt(ds); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithModule adds all elements from a module's ToTags() result
func WithModule(tags []module.IODElement) Option {
	return func(ds *Dataset) error {
		for _, el := range tags {
			if err := WithElement(el.Tag, el.Value)(ds); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithPixelData adds native 8-bit pixel data, one frame per rows*cols bytes
func WithPixelData(rows, cols int, data []byte) Option {
	return func(ds *Dataset) error {
		pixelsPerFrame := rows * cols
		if pixelsPerFrame <= 0 {
			return fmt.Errorf("invalid frame size %dx%d", cols, rows)
		}
		if len(data) == 0 || len(data)%pixelsPerFrame != 0 {
			return fmt.Errorf("pixel data length %d is not a multiple of %d", len(data), pixelsPerFrame)
		}
		numFrames := len(data) / pixelsPerFrame
		pd := &PixelData{Frames: make([]Frame, numFrames)}
		for i := 0; i < numFrames; i++ {
			fData := make([]byte, pixelsPerFrame)
			copy(fData, data[i*pixelsPerFrame:])
			pd.Frames[i] = Frame{Data: fData}
		}
		ds.Elements[tag.PixelData] = &Element{
			Tag:   tag.PixelData,
			VR:    vr.OB,
			Value: pd,
		}
		return nil
	}
}

// Clip shortens each value of s to the maximum length of v, in characters
func Clip(s string, v vr.VR) string {
	max := v.MaxLength()
	if max == 0 {
		return s
	}
	if v == vr.ST || v == vr.LT {
		return clipValue(s, max)
	}
	values := strings.Split(s, "\\")
	for i := range values {
		values[i] = clipValue(values[i], max)
	}
	return strings.Join(values, "\\")
}

func clipValue(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

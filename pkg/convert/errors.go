package convert

import "errors"

var (
	// ErrInvalidImage is returned for rasters with unusable dimensions
	ErrInvalidImage = errors.New("invalid image")
	// ErrPixelData is returned when the pixel buffer does not match the dimensions
	ErrPixelData = errors.New("pixel buffer does not match dimensions")
	// ErrEncoding is returned when the DICOM stream cannot be serialized
	ErrEncoding = errors.New("dicom encoding failed")
	// ErrDecode is returned when an upload is not a decodable image
	ErrDecode = errors.New("image decode failed")
	// ErrNoImages is returned when a batch has no inputs
	ErrNoImages = errors.New("no images provided")
	// ErrAllFailed is returned when no image in a batch converted
	ErrAllFailed = errors.New("failed to convert any images")
)

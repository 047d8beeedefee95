// Package dicom writes and reads DICOM Part 10 files holding Secondary
// Capture images.
//
// Data sets are assembled from modules with functional options and written
// in Explicit VR Little Endian:
//
//	sc := dicom.NewSCImage(time.Now())
//	sc.Patient.PatientID = "12345"
//	if err := sc.SetPixelData(rows, cols, pix); err != nil {
//		return err
//	}
//	_, err := sc.WriteTo(w)
package dicom

import (
	"github.com/jpfielding/img2dcm/pkg/dicom/transfer"
)

// TransferSyntax represents a DICOM transfer syntax
type TransferSyntax = transfer.Syntax

const (
	// SecondaryCaptureImageStorageUID is the SC Image Storage SOP Class
	SecondaryCaptureImageStorageUID = "1.2.840.10008.5.1.4.1.1.7"

	// ExplicitVRLittleEndian is the only syntax written by this package
	ExplicitVRLittleEndian = transfer.ExplicitVRLittleEndian

	// DefaultImplementationClassUID identifies this writer in the file meta
	DefaultImplementationClassUID = "1.2.826.0.1.3680043.8.498.1"
	// DefaultImplementationVersionName fits the 16 character SH limit
	DefaultImplementationVersionName = "XCENTIC_DCM_v1.0"
)

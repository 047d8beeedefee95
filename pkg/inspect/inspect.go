// Package inspect reads DICOM files back for verification. Attribute values
// come from an independent conformant parser; structural checks come from
// the in-house reader and validator.
package inspect

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	sdicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	stag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/jpfielding/img2dcm/pkg/dicom"
	"github.com/jpfielding/img2dcm/pkg/dicom/transfer"
)

// Summary is the key content of one DICOM object
type Summary struct {
	SOPClassUID               string   `json:"sop_class_uid"`
	SOPInstanceUID            string   `json:"sop_instance_uid"`
	TransferSyntaxUID         string   `json:"transfer_syntax_uid"`
	TransferSyntax            string   `json:"transfer_syntax"`
	PatientName               string   `json:"patient_name"`
	PatientID                 string   `json:"patient_id"`
	Modality                  string   `json:"modality"`
	StudyInstanceUID          string   `json:"study_instance_uid"`
	SeriesInstanceUID         string   `json:"series_instance_uid"`
	InstanceNumber            int      `json:"instance_number"`
	Rows                      int      `json:"rows"`
	Columns                   int      `json:"columns"`
	BitsAllocated             int      `json:"bits_allocated"`
	PhotometricInterpretation string   `json:"photometric_interpretation"`
	Frames                    int      `json:"frames"`
	PixelBytes                int      `json:"pixel_bytes"`
	Elements                  int      `json:"elements"`
	Valid                     bool     `json:"valid"`
	Problems                  []string `json:"problems,omitempty"`
}

// Summarize parses b and reports its key attributes and any conformance problems
func Summarize(b []byte) (*Summary, error) {
	ds, err := sdicom.Parse(bytes.NewReader(b), int64(len(b)), nil)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	s := &Summary{
		SOPClassUID:               str(ds, stag.SOPClassUID),
		SOPInstanceUID:            str(ds, stag.SOPInstanceUID),
		TransferSyntaxUID:         str(ds, stag.TransferSyntaxUID),
		PatientName:               str(ds, stag.PatientName),
		PatientID:                 str(ds, stag.PatientID),
		Modality:                  str(ds, stag.Modality),
		StudyInstanceUID:          str(ds, stag.StudyInstanceUID),
		SeriesInstanceUID:         str(ds, stag.SeriesInstanceUID),
		Rows:                      num(ds, stag.Rows),
		Columns:                   num(ds, stag.Columns),
		BitsAllocated:             num(ds, stag.BitsAllocated),
		PhotometricInterpretation: str(ds, stag.PhotometricInterpretation),
		Elements:                  len(ds.Elements),
	}
	s.TransferSyntax = transfer.Syntax(s.TransferSyntaxUID).String()
	s.InstanceNumber, _ = strconv.Atoi(str(ds, stag.InstanceNumber))

	if el, err := ds.FindElementByTag(stag.PixelData); err == nil {
		info := sdicom.MustGetPixelDataInfo(el.Value)
		s.Frames = len(info.Frames)
		for _, fr := range info.Frames {
			if nf, ok := fr.NativeData.(*frame.NativeFrame[uint8]); ok {
				s.PixelBytes += len(nf.RawData)
			}
		}
	}

	own, err := dicom.Parse(bytes.NewReader(b))
	if err != nil {
		s.Problems = append(s.Problems, err.Error())
		return s, nil
	}
	result := dicom.ValidateSecondaryCapture(own)
	for _, e := range result.Errors {
		s.Problems = append(s.Problems, e.Error())
	}
	for _, w := range result.Warnings {
		s.Problems = append(s.Problems, w.Error())
	}
	s.Valid = result.IsValid()
	return s, nil
}

// String renders the summary as aligned key/value lines
func (s *Summary) String() string {
	var b strings.Builder
	line := func(k string, v interface{}) {
		fmt.Fprintf(&b, "%-20s %v\n", k+":", v)
	}
	line("SOPClassUID", s.SOPClassUID)
	line("SOPInstanceUID", s.SOPInstanceUID)
	line("TransferSyntax", fmt.Sprintf("%s (%s)", s.TransferSyntax, s.TransferSyntaxUID))
	line("PatientName", s.PatientName)
	line("PatientID", s.PatientID)
	line("Modality", s.Modality)
	line("StudyInstanceUID", s.StudyInstanceUID)
	line("SeriesInstanceUID", s.SeriesInstanceUID)
	line("InstanceNumber", s.InstanceNumber)
	line("Dimensions", fmt.Sprintf("%dx%d", s.Columns, s.Rows))
	line("BitsAllocated", s.BitsAllocated)
	line("Photometric", s.PhotometricInterpretation)
	line("Frames", s.Frames)
	line("PixelBytes", s.PixelBytes)
	line("Elements", s.Elements)
	line("Valid", s.Valid)
	for _, p := range s.Problems {
		line("Problem", p)
	}
	return b.String()
}

func str(ds sdicom.Dataset, t stag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	if v, ok := el.Value.GetValue().([]string); ok && len(v) > 0 {
		return strings.TrimRight(v[0], " \x00")
	}
	return ""
}

func num(ds sdicom.Dataset, t stag.Tag) int {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0
	}
	if v, ok := el.Value.GetValue().([]int); ok && len(v) > 0 {
		return v[0]
	}
	return 0
}

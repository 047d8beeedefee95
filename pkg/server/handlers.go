package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jpfielding/img2dcm/pkg/convert"
	"github.com/jpfielding/img2dcm/pkg/inspect"
)

// multipart parts beyond this are spooled to disk
const maxFormMemory = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type convertResponse struct {
	Success    bool             `json:"success"`
	Files      []convert.File   `json:"files"`
	TotalFiles int              `json:"total_files"`
	Metadata   convert.Metadata `json:"metadata"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

type testConvertResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Size    int              `json:"size"`
	Summary *inspect.Summary `json:"summary"`
}

// testMetadata is the fixed record used by the self test
var testMetadata = convert.Metadata{
	PatientName:       "TEST^PATIENT",
	PatientID:         "TEST123",
	PatientBirthDate:  "19900101",
	PatientSex:        "O",
	StudyDescription:  "Test Study",
	SeriesDescription: "Test Series",
	Modality:          "OT",
	InstitutionName:   "Test Institution",
	Manufacturer:      "XCENTIC",
	AccessionNumber:   "TEST001",
}

// ConvertToDICOM converts the multipart "images" files using the form metadata
func (s *Server) ConvertToDICOM(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.cfg.MaxUploadBytes > 0 {
		if r.ContentLength > s.cfg.MaxUploadBytes {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.log.WarnContext(ctx, "unreadable upload", "error", err)
		writeError(w, http.StatusBadRequest, "No images provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No images provided")
		return
	}

	inputs := make([]convert.Input, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			s.log.ErrorContext(ctx, "reading upload", "filename", fh.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
			return
		}
		inputs = append(inputs, convert.Input{Filename: fh.Filename, Data: data})
	}

	meta := convert.MetadataFromForm(r.PostFormValue)
	batch, err := s.conv.Convert(ctx, meta, inputs)
	switch {
	case errors.Is(err, convert.ErrNoImages):
		writeError(w, http.StatusBadRequest, "No images provided")
		return
	case errors.Is(err, convert.ErrAllFailed):
		writeError(w, http.StatusInternalServerError, "Failed to convert any images")
		return
	case err != nil:
		s.log.ErrorContext(ctx, "conversion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Success:    true,
		Files:      batch.Files,
		TotalFiles: len(batch.Files),
		Metadata:   batch.Metadata,
	})
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Service:   "DICOM Conversion Server",
		Timestamp: s.now().Format(time.RFC3339),
	})
}

// TestConvert converts a synthetic gray image and reads the result back
func (s *Server) TestConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fail := func(err error) {
		s.log.ErrorContext(ctx, "test conversion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Test conversion failed: "+err.Error())
	}

	data, err := testImage(100, 100, 128)
	if err != nil {
		fail(err)
		return
	}
	batch, err := s.conv.Convert(ctx, testMetadata, []convert.Input{{Filename: "test.png", Data: data}})
	if err != nil {
		fail(err)
		return
	}
	f := batch.Files[0]
	summary, err := inspect.Summarize(f.Buffer)
	if err != nil {
		fail(err)
		return
	}

	writeJSON(w, http.StatusOK, testConvertResponse{
		Success: true,
		Message: fmt.Sprintf("Test DICOM created successfully - Size: %d bytes", f.Size),
		Size:    f.Size,
		Summary: summary,
	})
}

func testImage(w, h int, level uint8) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

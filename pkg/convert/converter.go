package convert

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
)

// Input is one uploaded image
type Input struct {
	Filename string
	Data     []byte
}

// Image is an already decoded raster and the name it is reported under
type Image struct {
	Filename string
	Raster   DecodedImage
}

// File is one converted DICOM object
type File struct {
	Filename         string `json:"filename"`
	Buffer           []byte `json:"buffer"`
	Size             int    `json:"size"`
	SOPInstanceUID   string `json:"sop_instance_uid"`
	OriginalFilename string `json:"original_filename"`
	InstanceNumber   int    `json:"-"`
}

// Failure records why an input did not convert
type Failure struct {
	Index    int
	Filename string
	Err      error
}

// Batch is the outcome of converting a set of inputs with shared metadata
type Batch struct {
	Metadata Metadata
	Files    []File // submission order
	Failures []Failure
	Skipped  int
}

// Converter decodes and encodes batches on a bounded worker pool
type Converter struct {
	enc       *Encoder
	gen       *uid.Generator
	defaults  Defaults
	workers   int
	maxPixels int
	now       func() time.Time
	log       *slog.Logger
}

// ConverterOption configures a Converter
type ConverterOption func(*Converter)

// WithWorkers bounds the number of concurrent conversions
func WithWorkers(n int) ConverterOption {
	return func(c *Converter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMaxPixels rejects images larger than n pixels before decoding them
func WithMaxPixels(n int) ConverterOption {
	return func(c *Converter) {
		c.maxPixels = n
	}
}

// WithDefaults sets the values used for blank metadata fields
func WithDefaults(d Defaults) ConverterOption {
	return func(c *Converter) {
		c.defaults = d
	}
}

// WithClock overrides the time source used for default accession numbers
func WithClock(now func() time.Time) ConverterOption {
	return func(c *Converter) {
		c.now = now
	}
}

// WithLogger sets the logger used for per-image progress
func WithLogger(l *slog.Logger) ConverterOption {
	return func(c *Converter) {
		c.log = l
	}
}

// NewConverter creates a Converter
func NewConverter(enc *Encoder, gen *uid.Generator, opts ...ConverterOption) *Converter {
	c := &Converter{
		enc:      enc,
		gen:      gen,
		defaults: NewDefaults(),
		workers:  runtime.NumCPU(),
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type task struct {
	index    int
	filename string
	decode   func() (DecodedImage, error)
}

type result struct {
	index int
	file  File
	err   error
}

// Convert resolves meta once, then decodes and encodes every input.
// Inputs with an empty filename are skipped. Individual failures are
// recorded in the Batch; ErrAllFailed is returned only when nothing converted.
func (c *Converter) Convert(ctx context.Context, meta Metadata, inputs []Input) (*Batch, error) {
	tasks := make([]task, 0, len(inputs))
	for i, in := range inputs {
		if in.Filename == "" {
			continue
		}
		data := in.Data
		tasks = append(tasks, task{
			index:    i,
			filename: in.Filename,
			decode:   func() (DecodedImage, error) { return DecodeImage(data, c.maxPixels) },
		})
	}
	return c.run(ctx, meta, len(inputs), tasks)
}

// ConvertImages is Convert for rasters that are already decoded
func (c *Converter) ConvertImages(ctx context.Context, meta Metadata, images []Image) (*Batch, error) {
	tasks := make([]task, 0, len(images))
	for i, im := range images {
		raster := im.Raster
		tasks = append(tasks, task{
			index:    i,
			filename: im.Filename,
			decode:   func() (DecodedImage, error) { return raster, nil },
		})
	}
	return c.run(ctx, meta, len(images), tasks)
}

func (c *Converter) run(ctx context.Context, meta Metadata, total int, tasks []task) (*Batch, error) {
	if total == 0 {
		return nil, ErrNoImages
	}
	resolved, err := meta.Resolve(c.defaults, c.gen, c.now())
	if err != nil {
		return nil, err
	}
	batch := &Batch{Metadata: resolved, Skipped: total - len(tasks)}
	c.log.InfoContext(ctx, "converting images", "count", len(tasks), "patient_name", resolved.PatientName)

	numWorkers := c.workers
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}

	taskChan := make(chan task)
	resultChan := make(chan result, len(tasks))
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskChan {
				f, err := c.convertOne(ctx, resolved, t, total)
				resultChan <- result{index: t.index, file: f, err: err}
			}
		}()
	}

feed:
	for _, t := range tasks {
		select {
		case <-ctx.Done():
			break feed
		case taskChan <- t:
		}
	}
	close(taskChan)
	wg.Wait()
	close(resultChan)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// assemble by submission index, never by completion order
	byIndex := make(map[int]result, len(tasks))
	for r := range resultChan {
		byIndex[r.index] = r
	}
	for _, t := range tasks {
		r := byIndex[t.index]
		if r.err != nil {
			batch.Failures = append(batch.Failures, Failure{Index: t.index, Filename: t.filename, Err: r.err})
			continue
		}
		batch.Files = append(batch.Files, r.file)
	}

	if len(batch.Files) == 0 {
		return batch, ErrAllFailed
	}
	c.log.InfoContext(ctx, "converted images", "converted", len(batch.Files), "failed", len(batch.Failures), "skipped", batch.Skipped)
	return batch, nil
}

func (c *Converter) convertOne(ctx context.Context, meta Metadata, t task, total int) (File, error) {
	log := c.log.With("index", t.index+1, "total", total, "filename", t.filename)
	log.DebugContext(ctx, "processing file")

	img, err := t.decode()
	if err != nil {
		log.ErrorContext(ctx, "decode failed", "error", err)
		return File{}, err
	}
	sop, err := c.gen.New()
	if err != nil {
		log.ErrorContext(ctx, "uid generation failed", "error", err)
		return File{}, err
	}
	buf, err := c.enc.Encode(img, meta, t.index+1, sop, t.filename)
	if err != nil {
		log.ErrorContext(ctx, "encode failed", "error", err)
		return File{}, err
	}
	log.InfoContext(ctx, "file converted", "size", len(buf))
	return File{
		Filename:         fmt.Sprintf("image_%d_%s.dcm", t.index+1, sop),
		Buffer:           buf,
		Size:             len(buf),
		SOPInstanceUID:   sop,
		OriginalFilename: t.filename,
		InstanceNumber:   t.index + 1,
	}, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpfielding/img2dcm/pkg/convert"
)

// metadataFlags maps flag names onto Metadata fields
var metadataFlags = []struct {
	name  string
	usage string
	field func(*convert.Metadata) *string
}{
	{"patient-name", "patient name, Family^Given", func(m *convert.Metadata) *string { return &m.PatientName }},
	{"patient-id", "patient ID", func(m *convert.Metadata) *string { return &m.PatientID }},
	{"birth-date", "patient birth date", func(m *convert.Metadata) *string { return &m.PatientBirthDate }},
	{"sex", "patient sex (M, F, O)", func(m *convert.Metadata) *string { return &m.PatientSex }},
	{"study-uid", "study instance UID, generated when blank", func(m *convert.Metadata) *string { return &m.StudyInstanceUID }},
	{"series-uid", "series instance UID, generated when blank", func(m *convert.Metadata) *string { return &m.SeriesInstanceUID }},
	{"study-description", "study description", func(m *convert.Metadata) *string { return &m.StudyDescription }},
	{"series-description", "series description", func(m *convert.Metadata) *string { return &m.SeriesDescription }},
	{"modality", "modality code", func(m *convert.Metadata) *string { return &m.Modality }},
	{"institution", "institution name", func(m *convert.Metadata) *string { return &m.InstitutionName }},
	{"manufacturer", "manufacturer", func(m *convert.Metadata) *string { return &m.Manufacturer }},
	{"accession", "accession number", func(m *convert.Metadata) *string { return &m.AccessionNumber }},
	{"referring-physician", "referring physician name", func(m *convert.Metadata) *string { return &m.ReferringPhysician }},
	{"body-part", "body part examined", func(m *convert.Metadata) *string { return &m.BodyPartExamined }},
}

// NewConvertCmd converts image files into DICOM files on disk
func NewConvertCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [flags] image...",
		Short: "convert images to DICOM files",
		Long:  "Converts every image argument into one series of Secondary Capture files written to --out.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
				a.cfg.Conversion.Workers = workers
			}

			var meta convert.Metadata
			for _, f := range metadataFlags {
				*f.field(&meta), _ = cmd.Flags().GetString(f.name)
			}

			inputs := make([]convert.Input, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				inputs = append(inputs, convert.Input{Filename: filepath.Base(path), Data: data})
			}

			conv, err := a.converter()
			if err != nil {
				return err
			}
			batch, err := conv.Convert(ctx, meta, inputs)
			if batch != nil {
				for _, f := range batch.Failures {
					fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", f.Filename, f.Err)
				}
			}
			if err != nil {
				return err
			}

			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			for _, f := range batch.Files {
				path := filepath.Join(out, f.Filename)
				if err := os.WriteFile(path, f.Buffer, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d bytes\n", f.OriginalFilename, path, f.Size)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d of %d images, study %s\n",
				len(batch.Files), len(inputs), batch.Metadata.StudyInstanceUID)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringP("out", "o", ".", "output directory")
	fs.Int("workers", 0, "worker count, overrides conversion.workers")
	for _, f := range metadataFlags {
		fs.String(f.name, "", f.usage)
	}
	return cmd
}

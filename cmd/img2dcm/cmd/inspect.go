package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpfielding/img2dcm/pkg/dicom"
	"github.com/jpfielding/img2dcm/pkg/inspect"
)

// NewInspectCmd summarizes or dumps a DICOM file
func NewInspectCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [flags] file.dcm",
		Short: "summarize a DICOM file",
		Long:  "Prints the key attributes and conformance problems of a DICOM file, or every element with --elements.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			elements, _ := cmd.Flags().GetBool("elements")

			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var v fmt.Stringer
			if elements {
				ds, err := dicom.Parse(bytes.NewReader(b))
				if err != nil {
					return fmt.Errorf("parse error: %w", err)
				}
				v = ds
			} else {
				s, err := inspect.Summarize(b)
				if err != nil {
					return err
				}
				v = s
			}

			w := cmd.OutOrStdout()
			switch format {
			case "text":
				fmt.Fprint(w, v.String())
			case "json":
				j, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(j))
			default:
				return fmt.Errorf("unknown format %q, want text or json", format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text|json)")
	cmd.Flags().Bool("elements", false, "dump every element instead of the summary")
	return cmd
}

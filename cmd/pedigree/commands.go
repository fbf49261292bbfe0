package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/OFFIS-RIT/pedigree/backend/internal/config"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/analysis"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/export"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/extract"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	lio "github.com/OFFIS-RIT/pedigree/backend/pkg/loader/io"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

type options struct {
	backend      string
	pseudonymize bool
}

func rootCmd(cfg config.Config, stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "pedigree",
		Short:         "Family history pedigree tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.PersistentFlags().StringVar(&opts.backend, "backend", cfg.GraphBackend, "Graph backend (gonum, dfs)")
	cmd.PersistentFlags().BoolVar(&opts.pseudonymize, "pseudonymize", false, "Replace names with pseudonyms")

	cmd.AddCommand(
		validateCmd(cfg, opts),
		analyzeCmd(cfg, opts),
		exportCmd(cfg, opts),
	)
	return cmd
}

// loadFile extracts the pedigree of a local file. Images need a configured
// AI adapter unless they carry a QR code.
func loadFile(ctx context.Context, cfg config.Config, opts *options, path string) (pedigree.Pedigree, error) {
	aiClient, err := config.NewAIClient(cfg)
	if err != nil {
		return pedigree.Pedigree{}, err
	}

	file, err := loader.NewUploadFile(loader.NewUploadFileParams{
		ID:       path,
		FilePath: path,
		Loader:   lio.NewIOFileLoader(""),
	})
	if err != nil {
		return pedigree.Pedigree{}, err
	}

	extractor := extract.NewExtractor(extract.NewExtractorParams{
		AIClient:    aiClient,
		Model:       cfg.ExtractModel,
		MaxRetries:  cfg.MaxRetries,
		OCRParallel: cfg.OCRParallel,
	})
	res, err := extractor.FromUpload(ctx, file)
	if err != nil {
		return pedigree.Pedigree{}, err
	}

	if opts.pseudonymize {
		return pedigree.Pseudonymize(res.Pedigree), nil
	}
	return res.Pedigree, nil
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func validateCmd(cfg config.Config, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Print the normalized pedigree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadFile(cmd.Context(), cfg, opts, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
}

func analyzeCmd(cfg config.Config, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Run the risk analysis on a pedigree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := analysis.ParseBackend(opts.backend)
			if err != nil {
				return err
			}
			p, err := loadFile(cmd.Context(), cfg, opts, args[0])
			if err != nil {
				return err
			}
			engine := analysis.NewEngine(analysis.NewEngineParams{Backend: backend})
			return writeJSON(cmd.OutOrStdout(), engine.Analyze(p))
		},
	}
}

func exportCmd(cfg config.Config, opts *options) *cobra.Command {
	var (
		format string
		out    string
		notes  string
		size   int
		withQR bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a pedigree as GEDCOM, DOT, QR code or PDF report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadFile(cmd.Context(), cfg, opts, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "gedcom":
				_, err = io.WriteString(w, export.ToGEDCOM(p))
			case "dot":
				_, err = io.WriteString(w, export.ToDOT(p))
			case "json":
				err = writeJSON(w, p)
			case "qr":
				var png []byte
				png, err = export.ToQRCode(p, size)
				if err == nil {
					_, err = w.Write(png)
				}
			case "pdf":
				backend, perr := analysis.ParseBackend(opts.backend)
				if perr != nil {
					return perr
				}
				result := analysis.NewEngine(analysis.NewEngineParams{Backend: backend}).Analyze(p)
				err = export.WritePDFReport(w, export.ReportParams{
					Pedigree:  p,
					Result:    &result,
					Notes:     notes,
					IncludeQR: withQR,
				})
			default:
				return fmt.Errorf("unknown export format %q", format)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "gedcom", "Export format (gedcom, dot, json, qr, pdf)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, stdout when empty")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the PDF report")
	cmd.Flags().IntVar(&size, "size", export.DefaultQRSize, "QR code size in pixels")
	cmd.Flags().BoolVar(&withQR, "qr", false, "Embed a QR code in the PDF report")
	return cmd
}

package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/service"
	"github.com/dukerupert/nursery/internal/tabular"
)

func (a *app) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [csv]",
		Short: "Build a new catalog from an editable spreadsheet",
		Long: "Decode an editable spreadsheet and replace the catalog with it.\n" +
			"Without an argument the latest plant_catalog* file in the working directory is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "convert", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.Convert(ctx, optionalArg(args))
				return err
			})
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [catalog]",
		Short: "Write the catalog to an editable spreadsheet with data-quality columns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			a.catalogArg(args)
			return a.run(cmd, "export", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.Export(ctx, f)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "spreadsheet format: csv or xlsx")
	return cmd
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [sheet]",
		Short: "Merge an edited spreadsheet back into the catalog",
		Long: "Merge an editable spreadsheet into the catalog, creating it when missing.\n" +
			"Images already in the catalog are kept. Without an argument the latest\n" +
			"product_catalog_editable_* file in the working directory is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "import", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.Import(ctx, optionalArg(args))
				return err
			})
		},
	}
}

func (a *app) analyzeCommand() *cobra.Command {
	var report string
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Report missing data and price statistics",
		Long: "Analyze the catalog, or the given catalog JSON or editable spreadsheet,\n" +
			"and print completeness, missing fields, price distribution and image categories.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "analyze", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.Analyze(ctx, optionalArg(args), report)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&report, "report", "missing_data_report.txt", "detailed missing-data report file (empty to skip)")
	return cmd
}

// catalogArg lets a positional catalog file override the configured one.
func (a *app) catalogArg(args []string) {
	if len(args) > 0 {
		a.v.Set("catalog_path", args[0])
	}
}

func parseFormat(s string) (tabular.Format, error) {
	switch f := tabular.Format(strings.ToLower(s)); f {
	case tabular.FormatCSV, tabular.FormatXLSX:
		return f, nil
	}
	return "", domain.Errorf(domain.EINVALID, "cli.parse_format", "unknown format %q (want csv or xlsx)", s)
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/service"
)

// =============================================================================
// PRIORITY
// =============================================================================

func (a *app) priorityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Work through the products that need attention",
	}

	var format string
	create := &cobra.Command{
		Use:   "create",
		Short: "Write a priority spreadsheet of incomplete products, highest score first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			return a.run(cmd, "priority create", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.PriorityCreate(ctx, f)
				return err
			})
		},
	}
	create.Flags().StringVar(&format, "format", "csv", "spreadsheet format: csv or xlsx")

	imp := &cobra.Command{
		Use:   "import [sheet]",
		Short: "Apply the filled-in new_* columns of a priority spreadsheet",
		Long: "Apply a priority spreadsheet as sparse updates. Only non-blank new_* cells\n" +
			"are written and ids missing from the catalog are skipped. Without an argument\n" +
			"the latest priority_products_* file in the working directory is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "priority import", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.PriorityImport(ctx, optionalArg(args))
				return err
			})
		},
	}

	cmd.AddCommand(create, imp)
	return cmd
}

// =============================================================================
// MASTER
// =============================================================================

func (a *app) masterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "master",
		Short: "Work with the supplier's master inventory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import [csv]",
		Short: "Merge the master inventory export into the catalog",
		Long: "Decode the master inventory, map supplier categories and merge it into the\n" +
			"catalog, keeping curated images. Without an argument the latest\n" +
			"master_plant_catalog* file in the working directory is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "master import", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.MasterImport(ctx, optionalArg(args))
				return err
			})
		},
	})
	return cmd
}

// =============================================================================
// MIRROR
// =============================================================================

func (a *app) mirrorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy the catalog into a database",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "postgres",
		Short: "Upsert the catalog into Postgres, running migrations first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "mirror postgres", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.MirrorPostgres(ctx)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sqlite <path>",
		Short: "Write a SQLite snapshot of the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "mirror sqlite", func(ctx context.Context, svc *service.Service) error {
				return svc.MirrorSQLite(ctx, args[0])
			})
		},
	})
	return cmd
}

// =============================================================================
// ASSETS
// =============================================================================

func (a *app) cardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage product cards",
	}

	var sku string
	files := make(map[string]*string, len(domain.CardKinds))
	add := &cobra.Command{
		Use:   "add",
		Short: "Publish card files for a product and record them in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make(map[string]string, len(files))
			for kind, p := range files {
				if *p != "" {
					paths[kind] = *p
				}
			}
			return a.run(cmd, "card add", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.AddCard(ctx, sku, paths)
				return err
			})
		},
	}
	add.Flags().StringVar(&sku, "sku", "", "product SKU")
	_ = add.MarkFlagRequired("sku")
	files[domain.CardImage] = add.Flags().String("card-image", "", "card image file")
	files[domain.CardHTML] = add.Flags().String("card-html", "", "card HTML file")
	files[domain.CardSpinAnimation] = add.Flags().String("spin-animation", "", "spin animation file")
	files[domain.CardRounded] = add.Flags().String("rounded-card", "", "rounded card image file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the products that have product cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "card list", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.ListCards(ctx)
				return err
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (a *app) imagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Publish and organize plant photos",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "standardize <dir>...",
		Short: "Copy plant photos into the plants folder under standardized names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "images standardize", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.StandardizeImages(ctx, args)
				return err
			})
		},
	})

	var metadata string
	organize := &cobra.Command{
		Use:   "organize [catalog]",
		Short: "Copy product images into per-category folders and write image metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.catalogArg(args)
			return a.run(cmd, "images organize", func(ctx context.Context, svc *service.Service) error {
				_, err := svc.OrganizeImages(ctx, metadata)
				return err
			})
		},
	}
	organize.Flags().StringVar(&metadata, "metadata", "image_metadata.json", "image metadata file (empty to skip)")

	cmd.AddCommand(organize)
	return cmd
}

package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/bollhav/internal/catalog"
	"github.com/leapstack-labs/bollhav/internal/cli/output"
	"github.com/leapstack-labs/bollhav/pkg/model"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Publish models to and read them from the catalog",
		Long: `The catalog is a database of published model metadata for discovery and
governance. It is SQLite by default (--catalog sets the file) and can be
PostgreSQL via catalog.driver in bollhav.yaml or BOLLHAV_CATALOG_DRIVER.

Source DSNs are never stored.`,
	}

	cmd.AddCommand(newCatalogPublishCommand())
	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogShowCommand())
	cmd.AddCommand(newCatalogDeleteCommand())

	return cmd
}

func newCatalogPublishCommand() *cobra.Command {
	var skipInvalid bool

	cmd := &cobra.Command{
		Use:   "publish [model...]",
		Short: "Publish models to the catalog",
		Long: `Validate the models directory and publish models to the catalog in one
transaction. Models already in the catalog are replaced.

Nothing is published when any definition is invalid, unless --skip-invalid
is set. With model names only those models are published.`,
		Example: `  # Publish every model
  bollhav catalog publish

  # Publish two models to a specific catalog file
  bollhav catalog publish orders events --catalog ./catalog.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogPublish(cmd, args, skipInvalid)
		},
	}

	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Publish valid models even when others are invalid")

	return cmd
}

func runCatalogPublish(cmd *cobra.Command, names []string, skipInvalid bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	ctx := cmd.Context()

	res, err := cmdCtx.LoadModels(ctx, "")
	if res == nil {
		return err
	}
	if err != nil {
		if !skipInvalid {
			return fmt.Errorf("refusing to publish, run 'bollhav validate' for details: %w", err)
		}
		r.Warning(fmt.Sprintf("%d invalid definition(s) skipped", len(collectIssues(err))))
	}

	models := res.Models
	if len(names) > 0 {
		models = make([]*model.Model, 0, len(names))
		for _, name := range names {
			m, ok := res.Find(name)
			if !ok {
				return fmt.Errorf("model %q not found", name)
			}
			models = append(models, m)
		}
	}

	cat, err := cmdCtx.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	if err := cat.Publish(ctx, models...); err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		published := make([]string, len(models))
		for i, m := range models {
			published[i] = m.Name()
		}
		return r.JSON(map[string]any{"published": published})
	}
	for _, m := range models {
		r.StatusLine(m.Name(), "success", "")
	}
	r.Success(fmt.Sprintf("Published %d models to the %s catalog", len(models), cmdCtx.Cfg.Catalog.Driver))
	return nil
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			cat, err := cmdCtx.OpenCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cat.Close() }()

			entries, err := cat.List(cmd.Context())
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				if entries == nil {
					entries = []*catalog.Entry{}
				}
				return r.JSON(entries)
			}

			r.Header(1, fmt.Sprintf("Published models (%d total)", len(entries)))
			if len(entries) == 0 {
				r.Muted("Catalog is empty")
				return nil
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					e.Name,
					e.ModelType,
					e.WriteMode,
					orDash(e.Database),
					batchLabel(e.BatchSize),
					strconv.Itoa(len(e.Columns)),
					output.FormatList(e.Tags),
					e.PublishedAt.Local().Format(time.DateTime),
				}
			}
			r.Table([]string{"Name", "Type", "Write Mode", "Database", "Batch Size", "Columns", "Tags", "Published"}, rows)
			return nil
		},
	}
}

func newCatalogShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <model>",
		Short: "Show a published model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			cat, err := cmdCtx.OpenCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cat.Close() }()

			e, err := cat.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(e)
			case output.ModeMarkdown:
				r.Header(1, e.Name)
				r.Println(output.FormatKeyValue("ID", e.ID))
				r.Println(output.FormatKeyValue("Published", e.PublishedAt.UTC().Format(time.RFC3339)))
				r.Println("")
				r.Println(output.FormatCodeBlock("", e.Definition))
			default:
				r.Header(1, e.Name)
				r.Printf("  %s %s\n", r.Styles().Muted.Render("id:"), r.ID(e.ID))
				r.Printf("  %s %s\n", r.Styles().Muted.Render("published:"), e.PublishedAt.Local().Format(time.DateTime))
				r.Println("")
				r.Println(e.Definition)
			}
			return nil
		},
	}
}

func newCatalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <model>",
		Aliases: []string{"rm"},
		Short:   "Remove a model from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			cat, err := cmdCtx.OpenCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cat.Close() }()

			if err := cat.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Removed %s from the catalog", args[0]))
			return nil
		},
	}
}

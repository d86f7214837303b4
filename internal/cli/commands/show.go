package commands

import (
	"fmt"

	"github.com/leapstack-labs/bollhav/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <model>",
		Short: "Show a model definition",
		Long: `Show every field of a model, its columns and resolved extra metadata.

The source DSN is never printed; only whether one is set.`,
		Example: `  # Show a model
  bollhav show orders

  # Show a model as JSON
  bollhav show orders --output json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return modelNames(cmd), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, name string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	res, err := cmdCtx.LoadModels(cmd.Context(), "")
	if res == nil {
		return err
	}
	m, ok := res.Find(name)
	if !ok {
		if err != nil {
			return fmt.Errorf("model %q not found or invalid: %w", name, err)
		}
		return fmt.Errorf("model %q not found", name)
	}

	v := newModelView(m, res.Sources[name])
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(v)
	case output.ModeMarkdown:
		showMarkdown(r, v)
	default:
		showText(r, v)
	}
	return nil
}

func showMarkdown(r *output.Renderer, v modelView) {
	r.Header(1, v.Name)
	showFields(r, v, func(k, val string) { r.Println(output.FormatKeyValue(k, val)) })
	r.Println("")
	showColumns(r, v)
}

func showText(r *output.Renderer, v modelView) {
	styles := r.Styles()
	r.Header(1, v.Name)
	showFields(r, v, func(k, val string) {
		r.Printf("  %s %s\n", styles.Muted.Render(fmt.Sprintf("%-14s", k+":")), val)
	})
	if v.Sensitive {
		r.Println(styles.Sensitive.Render("  contains sensitive columns"))
	}
	r.Println("")
	showColumns(r, v)
}

func showFields(r *output.Renderer, v modelView, kv func(k, val string)) {
	kv("Source", v.SourceEntity)
	kv("Destination", destination(v))
	kv("Type", r.Title(v.ModelType))
	kv("Write mode", r.Title(v.WriteMode))
	kv("Schedule", scheduleLine(v))
	kv("Enabled", yesNo(v.Enabled))
	kv("Debug", yesNo(v.Debug))
	kv("Sensitive", yesNo(v.Sensitive))
	kv("Tags", output.FormatList(v.Tags))
	kv("Partitioned", output.FormatList(v.PartitionedBy))
	if v.HasSourceDSN {
		kv("Source DSN", "set")
	}
	if v.SourceQuery != "" {
		kv("Source query", v.SourceQuery)
	}
	if v.Description != "" {
		kv("Description", v.Description)
	}
	if len(v.Extra) > 0 {
		kv("Extra", v.extraText)
	}
	if v.File != "" {
		kv("File", v.File)
	}
}

func showColumns(r *output.Renderer, v modelView) {
	if len(v.Columns) == 0 {
		return
	}
	r.Header(2, fmt.Sprintf("Columns (%s)", v.Database))
	rows := make([][]string, len(v.Columns))
	for i, c := range v.Columns {
		rows[i] = []string{c.Name, c.Type, yesNo(c.Nullable), yesNo(c.Sensitive), orDash(c.Attributes), orDash(c.Description)}
	}
	r.Table([]string{"Name", "Type", "Nullable", "Sensitive", "Attributes", "Description"}, rows)
}

func destination(v modelView) string {
	dest := v.Table
	if v.Schema != "" && dest != "" {
		dest = v.Schema + "." + dest
	}
	dest = orDash(dest)
	if v.Database != "" {
		dest += " (" + v.Database + ")"
	}
	return dest
}

func scheduleLine(v modelView) string {
	if v.Cron == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", v.Cron, batchLabel(v.BatchSize))
}

// modelNames completes model names from the configured models directory.
func modelNames(cmd *cobra.Command) []string {
	cmdCtx := NewCommandContext(cmd)
	res, _ := cmdCtx.Loader().Load(cmd.Context(), cmdCtx.Cfg.ModelsDir)
	if res == nil {
		return nil
	}
	names := make([]string, len(res.Models))
	for i, m := range res.Models {
		names[i] = m.Name()
	}
	return names
}

package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bollhav/internal/cli/output"
	"github.com/leapstack-labs/bollhav/internal/loader"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all models",
		Long: `List all valid models with their type, write mode, storage and schedule.

Invalid model files are skipped with a warning; run 'bollhav validate' for
details.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all models (auto-detect output format)
  bollhav list

  # List models tagged "finance" as JSON
  bollhav list --tag finance --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, tag)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only list models with this tag")

	return cmd
}

func runList(cmd *cobra.Command, tag string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	res, err := cmdCtx.LoadModels(cmd.Context(), "")
	if res == nil {
		return err
	}
	if err != nil {
		r.Warning(fmt.Sprintf("%d invalid definition(s) skipped", len(collectIssues(err))))
	}

	views := listViews(res, tag)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(views)
	}
	r.Header(1, fmt.Sprintf("Models (%d total)", len(views)))

	if len(views) == 0 {
		r.Muted("No models found")
		return nil
	}

	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			v.Name,
			v.ModelType,
			v.WriteMode,
			orDash(v.Database),
			orDash(v.BatchSize),
			yesNo(v.Sensitive),
			output.FormatList(v.Tags),
		}
	}
	r.Table([]string{"Name", "Type", "Write Mode", "Database", "Batch Size", "Sensitive", "Tags"}, rows)
	return nil
}

func listViews(res *loader.Result, tag string) []modelView {
	views := []modelView{}
	for _, m := range res.Models {
		v := newModelView(m, res.Sources[m.Name()])
		if tag != "" && !hasTag(v.Tags, tag) {
			continue
		}
		views = append(views, v)
	}
	return views
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

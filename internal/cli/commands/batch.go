package commands

import (
	"strings"

	"github.com/leapstack-labs/bollhav/internal/cli/output"
	"github.com/leapstack-labs/bollhav/pkg/batching"
	"github.com/spf13/cobra"
)

// unclassified labels a cron expression no batch size applies to.
const unclassified = "unclassified"

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <cron>",
		Short: "Show the batch size inferred from a cron expression",
		Long: `Classify a five-field cron expression (minute hour day month weekday) as
HOURLY, DAILY, WEEKLY, MONTHLY or YEARLY.

Expressions that fit none of these print "unclassified". Invalid expressions
fail. The fields may be passed as one quoted argument or as five arguments.`,
		Example: `  bollhav batch "0 3 * * *"
  bollhav batch 0 0 1 '*' '*'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, strings.Join(args, " "))
		},
	}
}

type batchResult struct {
	Cron       string `json:"cron"`
	BatchSize  string `json:"batch_size"`
	Classified bool   `json:"classified"`
}

func runBatch(cmd *cobra.Command, expr string) error {
	r := NewCommandContext(cmd).Renderer

	size, err := batching.Infer(expr)
	if err != nil {
		return err
	}

	res := batchResult{Cron: expr, BatchSize: batchLabel(string(size)), Classified: size != ""}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(res)
	case output.ModeMarkdown:
		r.Println(output.FormatKeyValue("Cron", "`"+res.Cron+"`"))
		r.Println(output.FormatKeyValue("Batch size", res.BatchSize))
	default:
		r.Printf("%s %s %s\n", r.ID(res.Cron), r.Styles().Muted.Render("->"), res.BatchSize)
	}
	return nil
}

func batchLabel(size string) string {
	if size == "" {
		return unclassified
	}
	return size
}

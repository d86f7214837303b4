package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/bollhav/internal/cli/output"
	"github.com/leapstack-labs/bollhav/internal/loader"
	"github.com/leapstack-labs/bollhav/pkg/core"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Load and validate model definitions",
		Long: `Load every *.yaml and *.yml model file and validate it.

All files are checked; every failure is reported with its file, model and
rule. The command exits non-zero when any model is invalid.

With --watch the directory is re-validated whenever a model file changes.`,
		Example: `  # Validate the configured models directory
  bollhav validate

  # Validate another directory and report as JSON
  bollhav validate ./pipelines --output json

  # Re-validate on every change
  bollhav validate --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			if watch {
				return runValidateWatch(cmd, dir)
			}
			return runValidate(cmd, dir)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate when model files change")

	return cmd
}

// validationReport is the result of validating a models directory.
type validationReport struct {
	Valid  bool              `json:"valid"`
	Models int               `json:"models"`
	Files  int               `json:"files"`
	Errors []validationIssue `json:"errors"`
}

// validationIssue is one failure found while loading.
type validationIssue struct {
	File    string `json:"file,omitempty"`
	Model   string `json:"model,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

func runValidate(cmd *cobra.Command, dir string) error {
	cmdCtx := NewCommandContext(cmd)

	res, err := cmdCtx.LoadModels(cmd.Context(), dir)
	if res == nil {
		return err
	}

	report := newValidationReport(res, err)
	if rerr := renderValidation(cmdCtx.Renderer, report); rerr != nil {
		return rerr
	}
	if !report.Valid {
		return fmt.Errorf("validation failed: %d error(s)", len(report.Errors))
	}
	return nil
}

func runValidateWatch(cmd *cobra.Command, dir string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if dir == "" {
		if err := cmdCtx.Cfg.ValidateDirectories(); err != nil {
			return err
		}
		dir = cmdCtx.Cfg.ModelsDir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", dir))

	err := cmdCtx.Loader().Watch(ctx, dir, func(res *loader.Result, err error) {
		if res == nil {
			r.Error(err.Error())
			return
		}
		if rerr := renderValidation(r, newValidationReport(res, err)); rerr != nil {
			cmdCtx.Logger.Error("failed to render report", slog.Any("error", rerr))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newValidationReport(res *loader.Result, err error) *validationReport {
	report := &validationReport{
		Models: len(res.Models),
		Files:  len(res.Files),
		Errors: collectIssues(err),
	}
	report.Valid = len(report.Errors) == 0
	return report
}

// collectIssues flattens the errors returned by the loader.
func collectIssues(err error) []validationIssue {
	issues := []validationIssue{}
	if err == nil {
		return issues
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			issues = append(issues, collectIssues(e)...)
		}
		return issues
	}

	issue := validationIssue{Message: err.Error()}

	var fileErr *loader.FileError
	if errors.As(err, &fileErr) {
		issue.File = fileErr.Path
		issue.Message = fileErr.Err.Error()
	}

	var (
		dupErr      *loader.DuplicateModelError
		validErr    *core.ValidationError
		columnErr   *core.ColumnValidationError
		scheduleErr *core.InvalidScheduleError
		parseErr    *loader.ParseError
	)
	switch {
	case errors.As(err, &dupErr):
		issue.Model = dupErr.Name
		issue.Rule = "duplicate_model"
	case errors.As(err, &columnErr):
		issue.Model = columnErr.Model
		issue.Rule = string(columnErr.Rule)
	case errors.As(err, &validErr):
		issue.Model = validErr.Model
		issue.Rule = string(validErr.Rule)
	case errors.As(err, &scheduleErr):
		issue.Rule = "invalid_schedule"
	case errors.As(err, &parseErr):
		issue.Rule = "parse_error"
	case errors.Is(err, loader.ErrNameRequired):
		issue.Rule = "name_required"
	}
	return append(issues, issue)
}

func renderValidation(r *output.Renderer, report *validationReport) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeMarkdown:
		r.Header(1, "Validation")
		r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", report.Files)))
		r.Println(output.FormatKeyValue("Models", fmt.Sprintf("%d", report.Models)))
		r.Println(output.FormatKeyValue("Errors", fmt.Sprintf("%d", len(report.Errors))))
		if len(report.Errors) > 0 {
			r.Println("")
			rows := make([][]string, len(report.Errors))
			for i, issue := range report.Errors {
				rows[i] = []string{orDash(issue.File), orDash(issue.Model), orDash(issue.Rule), issue.Message}
			}
			r.Table([]string{"File", "Model", "Rule", "Message"}, rows)
		}
		return nil
	default:
		for _, issue := range report.Errors {
			name := issue.File
			if name == "" {
				name = issue.Model
			}
			r.StatusLine(name, "failed", issue.Message)
		}
		summary := fmt.Sprintf("%d models in %d files", report.Models, report.Files)
		if report.Valid {
			r.Success(summary + " are valid")
		} else {
			r.Println(r.Styles().Error.Render(fmt.Sprintf("%s, %d error(s)", summary, len(report.Errors))))
		}
		return nil
	}
}

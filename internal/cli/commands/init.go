package commands

import (
	"fmt"
	"os"
	"path/filepath"

	sharedcfg "github.com/leapstack-labs/bollhav/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bollhav project",
		Long: `Initialize a new bollhav project with a configuration file and a models
directory holding one example model.

Use --example to create a larger project with Postgres and Parquet models,
views, multi-document files and expression-valued extra metadata.`,
		Example: `  # Initialize in current directory
  bollhav init

  # Initialize a new directory with the full example
  bollhav init my-pipelines --example

  # Force overwrite existing files
  bollhav init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(cmd, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create a full example project")

	return cmd
}

func runInit(cmd *cobra.Command, dir, template string, force bool) error {
	r := NewCommandContext(cmd).Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, sharedcfg.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", sharedcfg.ConfigFileName)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles(template)
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("bollhav project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Describe your models in models/")
	r.Println("  2. Run 'bollhav validate' to check them")
	r.Println("  3. Run 'bollhav list' to see all models")
	r.Println("  4. Run 'bollhav catalog publish' to publish them")

	return nil
}

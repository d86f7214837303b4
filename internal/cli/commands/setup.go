package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/bollhav/internal/catalog"
	"github.com/leapstack-labs/bollhav/internal/cli/config"
	"github.com/leapstack-labs/bollhav/internal/cli/output"
	"github.com/leapstack-labs/bollhav/internal/loader"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		mode = output.ModeAuto
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Loader returns a model loader using the command's logger.
func (c *CommandContext) Loader() *loader.Loader {
	return loader.New(c.Logger)
}

// LoadModels loads dir, or the configured models directory when dir is
// empty. The result may be partial when an error is returned.
func (c *CommandContext) LoadModels(ctx context.Context, dir string) (*loader.Result, error) {
	if dir == "" {
		if err := c.Cfg.ValidateDirectories(); err != nil {
			return nil, err
		}
		dir = c.Cfg.ModelsDir
	}
	c.Logger.Debug("loading models", slog.String("dir", dir))
	return c.Loader().Load(ctx, dir)
}

// OpenCatalog opens and migrates the configured catalog. The caller closes it.
func (c *CommandContext) OpenCatalog(ctx context.Context) (*catalog.Catalog, error) {
	opts := c.Cfg.Catalog.CatalogOptions()
	if opts.Driver == catalog.DriverSQLite && opts.DSN != ":memory:" {
		// Ensure catalog directory exists
		if dir := filepath.Dir(opts.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory: %w", err)
			}
		}
	}

	cat, err := catalog.Open(ctx, opts, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := cat.Migrate(ctx); err != nil {
		_ = cat.Close()
		return nil, err
	}
	return cat, nil
}

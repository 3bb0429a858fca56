package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/accumap/pkg/buildinfo"
	"github.com/matzehuels/accumap/pkg/cache"
	"github.com/matzehuels/accumap/pkg/config"
	"github.com/matzehuels/accumap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "accumap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty selects config.DefaultPath.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "accumap plots read length against accuracy as a heatmap",
		Long: `accumap reads SAM, BAM or FASTQ files and renders a 601x601 PNG heatmap
of read length (log scale, x) against read accuracy (y). Up to three datasets
can be overlaid in different colours.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/accumap/config.toml)")

	root.AddCommand(c.plotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags are the cache overrides shared by commands.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Cache, flags cacheFlags, logger *log.Logger) (*pipeline.Runner, error) {
	ttl, err := cfg.TTLDuration()
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg, flags, logger)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, newKeyer(cfg), logger)
	r.TTL = ttl
	return r, nil
}

// newCache selects the cache backend: none when disabled, Redis when a URL is
// configured, otherwise files under the cache directory. An unreachable Redis
// degrades to no caching rather than failing the run.
func newCache(ctx context.Context, cfg config.Cache, flags cacheFlags, logger *log.Logger) (cache.Cache, error) {
	if flags.noCache || !cfg.Enabled {
		return cache.NewNullCache(), nil
	}

	url := cfg.RedisURL
	if flags.redisURL != "" {
		url = flags.redisURL
	}
	if url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}

	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newKeyer prefixes keys with the configured namespace.
func newKeyer(cfg config.Cache) cache.Keyer {
	if cfg.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Namespace+":")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the per-user default.
func cacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}

package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/accumap/pkg/config"
	"github.com/matzehuels/accumap/pkg/pipeline"
	"github.com/matzehuels/accumap/pkg/render"
	"github.com/matzehuels/accumap/pkg/transform"
)

// plotFlags holds the flag values of the plot command.
type plotFlags struct {
	output     string
	colors     []string
	background string
	accuracy   string
	normalize  bool
	basecall   bool
	threads    int
	refresh    bool
	quiet      bool
	cache      cacheFlags
}

// inputExtensions are the file extensions offered for plot arguments.
var inputExtensions = []string{"bam", "sam", "fastq", "fq", "gz"}

// fixedCompletion completes a flag from a fixed list of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// paletteNames lists the colour names accepted by --color.
func paletteNames() []string {
	names := make([]string, len(render.Palette))
	for i, c := range render.Palette {
		names[i] = c.Name
	}
	return names
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	var f plotFlags

	cmd := &cobra.Command{
		Use:   "plot [flags] <input>...",
		Short: "Render datasets as a length/accuracy heatmap",
		Long: `Render one to three SAM, BAM or FASTQ datasets as a length/accuracy heatmap.

Each dataset is drawn in its own colour. Use "-" to read a SAM or BAM stream
from standard input. FASTQ inputs require --basecall, which estimates accuracy
from base qualities instead of alignments.`,
		Example: `  # One BAM, default red on black
  accumap plot run1.bam

  # Two runs in contrasting colours on a white background
  accumap plot -c red -c cyan --background white run1.bam run2.bam -o compare.png

  # Phred scale, log2 counts
  accumap plot --accuracy phred --normalize run1.bam

  # Basecall accuracy straight from FASTQ
  accumap plot --basecall reads.fastq.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := f.options(cmd, cfg.Plot, args)
			return c.runPlot(cmd, opts, cfg.Cache, f)
		},
	}

	f.register(cmd)

	cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return inputExtensions, cobra.ShellCompDirectiveFilterFileExt
	}
	_ = cmd.RegisterFlagCompletionFunc("color", fixedCompletion(paletteNames()...))
	_ = cmd.RegisterFlagCompletionFunc("background", fixedCompletion("black", "white"))
	_ = cmd.RegisterFlagCompletionFunc("accuracy", fixedCompletion(transform.ScalePercent, transform.ScalePhred, transform.ScaleRaw))

	return cmd
}

// register binds the plot flags to cmd.
func (f *plotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", config.DefaultOutput, "output PNG path")
	cmd.Flags().StringSliceVarP(&f.colors, "color", "c", nil, "colour per input, in order (red, green, blue, purple, yellow, cyan)")
	cmd.Flags().StringVar(&f.background, "background", "black", "background: black or white")
	cmd.Flags().StringVar(&f.accuracy, "accuracy", "percent", "accuracy scale: percent, phred or raw")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "plot log2 of bin counts")
	cmd.Flags().BoolVar(&f.basecall, "basecall", false, "estimate accuracy from base qualities")
	cmd.Flags().IntVar(&f.threads, "threads", pipeline.DefaultThreads, "BAM decompression threads per input")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rebuild histograms even when cached")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "print only the output path")
	cmd.Flags().BoolVar(&f.cache.noCache, "no-cache", false, "disable the histogram cache")
	cmd.Flags().StringVar(&f.cache.redisURL, "redis", "", "cache histograms in Redis at this URL")
}

// options merges the config file with flags. A flag given on the command line
// always wins; otherwise a non-empty file value replaces the flag default.
func (f *plotFlags) options(cmd *cobra.Command, p config.Plot, inputs []string) pipeline.Options {
	changed := cmd.Flags().Changed
	pick := func(name, flag, file string) string {
		if !changed(name) && file != "" {
			return file
		}
		return flag
	}

	opts := pipeline.Options{
		Inputs:     inputs,
		Colors:     f.colors,
		Background: pick("background", f.background, p.Background),
		Accuracy:   pick("accuracy", f.accuracy, p.Accuracy),
		Output:     pick("output", f.output, p.Output),
		Normalize:  f.normalize || (!changed("normalize") && p.Normalize),
		Basecall:   f.basecall || (!changed("basecall") && p.Basecall),
		Threads:    f.threads,
		Refresh:    f.refresh,
	}
	if !changed("color") && len(p.Colors) > 0 {
		opts.Colors = p.Colors
		// Config colours are a palette; use as many as there are inputs.
		if len(opts.Colors) > len(inputs) {
			opts.Colors = opts.Colors[:len(inputs)]
		}
	}
	if !changed("threads") && p.Threads > 0 {
		opts.Threads = p.Threads
	}
	return opts
}

func (c *CLI) runPlot(cmd *cobra.Command, opts pipeline.Options, cfg config.Cache, f plotFlags) error {
	ctx := cmd.Context()
	logger := c.Logger.With("run", uuid.NewString()[:8])
	ctx = withLogger(ctx, logger)
	opts.Logger = logger

	defer installHooks()()

	runner, err := c.newRunner(ctx, cfg, f.cache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spin *Spinner
	if !f.quiet && logger.GetLevel() > LogDebug {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Plotting %d dataset(s)...", len(opts.Inputs)))
		spin.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if spin != nil {
		if spin.Cancelled() {
			logger.Warn("plot interrupted")
		}
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Plotted %d dataset(s)", len(result.Datasets)))

	if f.quiet {
		fmt.Println(result.Output)
		return nil
	}
	printSummary(result)
	return nil
}

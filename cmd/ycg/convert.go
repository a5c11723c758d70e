package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ycg/internal/backends/scip"
	"ycg/internal/config"
	ycgerrors "ycg/internal/errors"
	"ycg/internal/metrics"
	"ycg/internal/output"
	"ycg/internal/pipeline"
	"ycg/internal/storage"
	"ycg/internal/watcher"
)

const defaultIndex = "index.scip"

var (
	convertRoot                 string
	convertOutput               string
	convertFormat               string
	convertCompact              bool
	convertGranularity          int
	convertLOD                  string
	convertInclude              []string
	convertExclude              []string
	convertNoGitignore          bool
	convertIgnoreFrameworkNoise bool
	convertLogicStrategy        string
	convertStrict               bool
	convertWatch                bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [index.scip]",
	Short: "Convert a SCIP index into a compact graph",
	Long: `Convert a SCIP index into a compact symbol graph.

The index path is resolved against --root and defaults to index.scip.
Settings come from ycg.config.{json,yaml,toml} in the root; flags override them.

Examples:
  ycg convert                                  # YAML to stdout
  ycg convert --compact -o graph.yaml          # adjacency form to a file
  ycg convert --format adhoc --granularity 2   # ad-hoc with inline logic
  ycg convert -o graph.yaml.zst --watch        # compressed, re-run on change`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&convertRoot, "root", ".", "Project root (config file and source files)")
	f.StringVarP(&convertOutput, "output", "o", "", "Output file (.gz and .zst compress); stdout when empty")
	f.StringVar(&convertFormat, "format", "yaml", "Output format: yaml or adhoc")
	f.BoolVar(&convertCompact, "compact", false, "Emit the adjacency form of the YAML graph")
	f.IntVar(&convertGranularity, "granularity", 0, "Ad-hoc granularity: 0 default, 1 signatures, 2 logic")
	f.StringVar(&convertLOD, "lod", "low", "Level of detail: low, medium or high")
	f.StringSliceVar(&convertInclude, "include", nil, "Only convert documents matching these globs")
	f.StringSliceVar(&convertExclude, "exclude", nil, "Skip documents matching these globs")
	f.BoolVar(&convertNoGitignore, "no-gitignore", false, "Do not apply .gitignore rules")
	f.BoolVar(&convertIgnoreFrameworkNoise, "ignore-framework-noise", false, "Drop DI-only constructors and strip decorators")
	f.StringVar(&convertLogicStrategy, "logic-strategy", "guards", "Logic extraction strategy: none or guards")
	f.BoolVar(&convertStrict, "strict", false, "Fail on dangling edges instead of warning")
	f.BoolVar(&convertWatch, "watch", false, "Re-run the conversion whenever the index changes")
	rootCmd.AddCommand(convertCmd)
}

// overridesFromFlags returns only the flags the user actually set, so that
// unset flags leave configuration file values alone.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	f := cmd.Flags()
	if f.Changed("format") {
		o.Format = &convertFormat
	}
	if f.Changed("compact") {
		o.Compact = &convertCompact
	}
	if f.Changed("ignore-framework-noise") {
		o.IgnoreFrameworkNoise = &convertIgnoreFrameworkNoise
	}
	if f.Changed("granularity") {
		o.Granularity = &convertGranularity
	}
	if f.Changed("lod") {
		o.LOD = &convertLOD
	}
	if f.Changed("output") {
		o.OutputPath = &convertOutput
	}
	if f.Changed("logic-strategy") {
		o.LogicStrategy = &convertLogicStrategy
	}
	o.Include = convertInclude
	o.Exclude = convertExclude
	o.NoGitignore = convertNoGitignore
	return o
}

func runConvert(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(convertRoot)
	if err != nil {
		return err
	}
	cfg := fileCfg.Merge(overridesFromFlags(cmd))
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer closeLog()

	indexArg := defaultIndex
	if len(args) == 1 {
		indexArg = args[0]
	}
	indexPath := scip.GetIndexPath(convertRoot, indexArg)

	opts, err := pipeline.FromConfig(cfg, indexPath, convertRoot)
	if err != nil {
		return err
	}
	opts.Strict = convertStrict
	opts.Logger = logger

	c, err := newConverter(cmd, cfg, opts, logger)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !convertWatch {
		return c.convert(ctx)
	}
	return c.watch(ctx, indexPath)
}

// converter runs conversions and records their outcome.
type converter struct {
	cmd        *cobra.Command
	opts       pipeline.Options
	outputPath string
	logger     *slog.Logger

	history  *storage.DB
	recorder *metrics.Recorder
	textfile string
}

func newConverter(cmd *cobra.Command, cfg *config.Config, opts pipeline.Options, logger *slog.Logger) (*converter, error) {
	c := &converter{
		cmd:        cmd,
		opts:       opts,
		outputPath: cfg.Output.Path,
		logger:     logger,
	}
	// A configured path is relative to the project root, a flag to the
	// working directory.
	if cfg.Output.Path != "" && !cmd.Flags().Changed("output") {
		c.outputPath = resolvePath(convertRoot, cfg.Output.Path)
	}

	if cfg.History.Enabled {
		db, err := storage.Open(resolvePath(convertRoot, cfg.History.Path), logger)
		if err != nil {
			return nil, ycgerrors.New(ycgerrors.ConfigInvalid, "failed to open run history", err)
		}
		c.history = db
	}
	if cfg.Metrics.Textfile != "" {
		c.recorder = metrics.NewRecorder()
		c.textfile = resolvePath(convertRoot, cfg.Metrics.Textfile)
	}
	return c, nil
}

func (c *converter) close() {
	if c.history != nil {
		_ = c.history.Close()
	}
}

// convert runs one conversion, writes the document and records the run.
func (c *converter) convert(ctx context.Context) error {
	started := time.Now()
	res, err := pipeline.Run(ctx, c.opts)
	if err == nil {
		err = c.emit(res.Body)
	}
	c.record(started, res, err)
	return err
}

func (c *converter) emit(body []byte) error {
	if c.outputPath == "" {
		if _, err := c.cmd.OutOrStdout().Write(body); err != nil {
			return ycgerrors.New(ycgerrors.OutputFailed, "failed to write to stdout", err)
		}
		return nil
	}
	if err := output.WriteFile(c.outputPath, body); err != nil {
		return ycgerrors.New(ycgerrors.OutputFailed, "failed to write "+c.outputPath, err)
	}
	c.logger.Info("Wrote output", "path", c.outputPath, "bytes", len(body))
	return nil
}

// record stores history and metrics. Failures here are logged, never
// returned.
func (c *converter) record(started time.Time, res *pipeline.Result, runErr error) {
	if c.history != nil {
		if err := c.history.RecordRun(pipeline.HistoryRun(c.opts, c.outputPath, started, res, runErr)); err != nil {
			c.logger.Warn("Failed to record run history", "error", err)
		}
	}
	if c.recorder != nil {
		c.recorder.Observe(pipeline.Sample(c.opts, res, runErr))
		if err := c.recorder.WriteTextfile(c.textfile); err != nil {
			c.logger.Warn("Failed to write metrics textfile", "path", c.textfile, "error", err)
		}
	}
}

// watch converts once, then again after every debounced index change,
// until interrupted. Conversion errors are logged and do not stop watching.
func (c *converter) watch(ctx context.Context, indexPath string) error {
	if err := c.convert(ctx); err != nil {
		c.logger.Error("Conversion failed", "error", err)
	}

	w, err := watcher.New(watcher.Config{
		Files:  []string{indexPath},
		Logger: c.logger,
	}, func(ctx context.Context, events []watcher.Event) {
		c.logger.Info("Index changed, converting", "events", len(events))
		if err := c.convert(ctx); err != nil {
			c.logger.Error("Conversion failed", "error", err)
		}
	})
	if err != nil {
		return ycgerrors.New(ycgerrors.InternalError, "failed to start watcher", err)
	}
	return w.Run(ctx)
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

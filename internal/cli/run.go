package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-palimpsest/internal/config"
	"github.com/teslashibe/go-palimpsest/internal/log"
	"github.com/teslashibe/go-palimpsest/pkg/capture"
	"github.com/teslashibe/go-palimpsest/pkg/detection"
	"github.com/teslashibe/go-palimpsest/pkg/display"
	"github.com/teslashibe/go-palimpsest/pkg/generator"
	"github.com/teslashibe/go-palimpsest/pkg/memory"
	"github.com/teslashibe/go-palimpsest/pkg/metrics"
	"github.com/teslashibe/go-palimpsest/pkg/render"
	"github.com/teslashibe/go-palimpsest/pkg/session"
)

var runOpts struct {
	configPath  string
	preset      string
	camera      string
	logLevel    string
	corpusDir   string
	record      string
	metricsFile string
	headless    bool
	async       bool
	seed        uint64
	dumpConfig  bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the camera and start overlaying",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runOpts.configPath, "config", "c", "", "YAML config file")
	f.StringVarP(&runOpts.preset, "preset", "p", "", "preset name (see 'palimpsest presets')")
	f.StringVar(&runOpts.camera, "camera", "", "camera index, video file or stream URL")
	f.StringVar(&runOpts.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&runOpts.corpusDir, "corpus-dir", "", "directory of <emotion>.txt corpora")
	f.StringVar(&runOpts.record, "record", "", "also write the composed video to this file")
	f.StringVar(&runOpts.metricsFile, "metrics-file", "", "write metrics in textfile format on exit")
	f.BoolVar(&runOpts.headless, "headless", false, "do not open a preview window")
	f.BoolVar(&runOpts.async, "async", false, "classify off the frame loop")
	f.Uint64Var(&runOpts.seed, "seed", 0, "random seed (0 picks one)")
	f.BoolVar(&runOpts.dumpConfig, "dump-config", false, "print the resolved config and exit")
}

// loadConfig resolves preset, file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(runOpts.configPath, runOpts.preset)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("camera") {
		cfg.Capture.Target = runOpts.camera
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runOpts.logLevel
	}
	if flags.Changed("corpus-dir") {
		cfg.Generator.CorpusDir = runOpts.corpusDir
	}
	if flags.Changed("record") {
		cfg.Output.Record = runOpts.record
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = runOpts.metricsFile
	}
	if flags.Changed("headless") {
		cfg.Output.Window = !runOpts.headless
	}
	if flags.Changed("async") {
		cfg.Classifier.Async = runOpts.async
	}
	if flags.Changed("seed") {
		cfg.Seed = runOpts.seed
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if runOpts.dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	log.Init(cfg.LogLevel)
	logger := log.L()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	rng := newRand(cfg.Seed)

	gen, err := buildGenerator(cfg, rng, logger)
	if err != nil {
		return err
	}

	classifier, err := detection.NewONNX(cfg.DetectionParams(log.Component("detection")))
	if err != nil {
		return fmt.Errorf("load classifier: %w", err)
	}
	defer classifier.Close()

	rc, err := cfg.RenderParams()
	if err != nil {
		return err
	}

	src, err := capture.Open(cfg.CaptureParams(log.Component("capture")))
	if err != nil {
		return err
	}

	m := metrics.New()
	sess, err := newSession(cfg.SessionParams(logger), session.Deps{
		Source:     src,
		Classifier: classifier,
		Generator:  gen,
		Composer:   render.New(rc, rng),
		Memory:     memory.New(cfg.MemoryParams(), rng),
		Sink:       buildSink(cfg),
		Metrics:    m,
		Rand:       rng,
	})
	if err != nil {
		return err
	}

	logger.Info("palimpsest starting",
		"preset", cfg.Preset,
		"camera", cfg.Capture.Target,
		"generator", cfg.Generator.Kind,
		"window", cfg.Output.Window,
		"record", cfg.Output.Record)

	err = sess.Run(ctx)

	if cfg.Output.MetricsFile != "" {
		if werr := m.WriteTextfile(cfg.Output.MetricsFile); werr != nil {
			logger.Warn("metrics not written", "error", werr)
		}
	}

	if errors.Is(err, capture.ErrFrameUnavailable) {
		logger.Info("capture ended", "error", err)
		return nil
	}
	return err
}

// buildGenerator returns the configured generator. Markov voices are backed by
// the static lines when a voice cannot be produced at all.
func buildGenerator(cfg *config.Config, rng *rand.Rand, logger *slog.Logger) (generator.Generator, error) {
	static := generator.NewStatic(cfg.StaticLines(), rng)
	if cfg.Generator.Kind == config.GeneratorStatic {
		return static, nil
	}

	corpora, err := generator.LoadCorpora(cfg.Generator.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("load corpora: %w", err)
	}
	markov, err := generator.NewMarkov(corpora, cfg.MarkovParams(logger))
	if err != nil {
		return nil, fmt.Errorf("build markov voices: %w", err)
	}
	logger.Info("markov voices ready", "voices", markov.Voices())

	chain, err := generator.NewChainWithLogger(logger, markov, static)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// newSession creates the session. On failure it closes the source and sink,
// which Run would otherwise own.
func newSession(cfg session.Config, d session.Deps) (*session.Session, error) {
	sess, err := session.New(cfg, d)
	if err != nil {
		if d.Source != nil {
			d.Source.Close()
		}
		if d.Sink != nil {
			d.Sink.Close()
		}
		return nil, err
	}
	return sess, nil
}

// buildSink returns the configured outputs, nil when there are none.
func buildSink(cfg *config.Config) session.Sink {
	var sinks display.Multi
	if cfg.Output.Window {
		sinks = append(sinks, display.NewWindow(cfg.Output.Title))
	}
	if cfg.Output.Record != "" {
		sinks = append(sinks, display.NewWriter(display.WriterConfig{
			Path:  cfg.Output.Record,
			Codec: cfg.Output.Codec,
			FPS:   cfg.Output.RecordFPS,
		}))
	}

	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return sinks
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

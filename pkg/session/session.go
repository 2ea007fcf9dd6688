// Package session runs the overlay frame loop.
//
// A Session owns one observation: it reads frames from a capture source,
// classifies them, debounces the emotion, decides whether to generate a new
// fragment, advances the fragment memory and composes the result onto the
// frame before handing it to a sink.
//
// Example usage:
//
//	s, err := session.New(session.DefaultConfig(), session.Deps{
//		Source:     src,
//		Classifier: classifier,
//		Generator:  gen,
//		Sink:       window,
//	})
//	if err != nil {
//		return err
//	}
//	err = s.Run(ctx) // closes src on return
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/teslashibe/go-palimpsest/pkg/capture"
	"github.com/teslashibe/go-palimpsest/pkg/detection"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/generator"
	"github.com/teslashibe/go-palimpsest/pkg/memory"
	"github.com/teslashibe/go-palimpsest/pkg/metrics"
	"github.com/teslashibe/go-palimpsest/pkg/pacing"
	"github.com/teslashibe/go-palimpsest/pkg/render"
)

// Sink receives every composed frame.
type Sink interface {
	// Show displays or stores f. It must not retain f after returning.
	// Returning ErrQuit ends the session cleanly.
	Show(f frame.Frame) error

	Close() error
}

// Deps are the collaborators of a session. Source, Classifier and Generator
// are required; the rest default when nil.
type Deps struct {
	Source     capture.Source
	Classifier detection.Classifier
	Generator  generator.Generator

	Composer *render.Composer
	Memory   *memory.Memory
	Sink     Sink
	Metrics  *metrics.Metrics
	Clock    Clock
	Rand     *rand.Rand
}

// Report describes what happened on one frame.
type Report struct {
	Frame          int
	Watch          time.Duration
	Classification detection.Outcome
	Fresh          bool // Classification came from this step (always true when synchronous)
	Emotion        emotions.Label
	Transitioned   bool
	ShowFace       bool
	Distance       int
	Generated      *memory.Fragment
	Fallback       bool
	Live           int
}

// Session is one observation run. It is not safe for concurrent use.
type Session struct {
	cfg    Config
	logger *slog.Logger

	src        capture.Source
	classifier detection.Classifier
	gen        generator.Generator
	composer   *render.Composer
	mem        *memory.Memory
	sink       Sink
	metrics    *metrics.Metrics
	clock      Clock

	debouncer emotions.Debouncer
	scheduler *pacing.Scheduler
	budget    pacing.Budgeter
	gate      pacing.TrustGate
	worker    *Worker[frame.Frame, detection.Result]

	state  *State
	frames int
}

// New wires a session. The trust clock starts now.
func New(cfg Config, d Deps) (*Session, error) {
	switch {
	case d.Source == nil:
		return nil, fmt.Errorf("%w: source", ErrMissingDependency)
	case d.Classifier == nil:
		return nil, fmt.Errorf("%w: classifier", ErrMissingDependency)
	case d.Generator == nil:
		return nil, fmt.Errorf("%w: generator", ErrMissingDependency)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Fallbacks == nil {
		cfg.Fallbacks = generator.DefaultFallbacks()
	}
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if d.Composer == nil {
		d.Composer = render.New(render.DefaultConfig(), d.Rand)
	}
	if d.Memory == nil {
		d.Memory = memory.New(memory.DefaultConfig(), d.Rand)
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	d.Memory.SetClock(d.Clock.Now)

	s := &Session{
		cfg:        cfg,
		logger:     cfg.Logger.With("component", "session"),
		src:        d.Source,
		classifier: d.Classifier,
		gen:        d.Generator,
		composer:   d.Composer,
		mem:        d.Memory,
		sink:       d.Sink,
		metrics:    d.Metrics,
		clock:      d.Clock,
		debouncer:  emotions.NewDebouncer(cfg.Debounce),
		scheduler:  pacing.NewScheduler(cfg.Pacing),
		budget:     pacing.NewBudgeter(cfg.Pacing),
		gate:       pacing.NewTrustGate(cfg.Pacing),
		state:      NewState(d.Clock.Now()),
	}

	if cfg.AsyncClassify {
		s.worker = NewWorker(func(ctx context.Context, f frame.Frame) (res detection.Result) {
			defer f.Close()
			// Step's recover does not cover the worker goroutine.
			defer func() {
				if r := recover(); r != nil {
					s.metrics.FrameErrors.WithLabelValues("panic").Inc()
					res = detection.FailedResult(fmt.Errorf("%w: %v", ErrPanic, r))
				}
			}()
			return s.classifier.Classify(ctx, f)
		})
	}

	s.logger = s.logger.With("session_id", s.state.ID.String())
	return s, nil
}

// State returns the session state.
func (s *Session) State() *State {
	return s.state
}

// Metrics returns the session collectors.
func (s *Session) Metrics() *metrics.Metrics {
	return s.metrics
}

// Memory returns the fragment memory.
func (s *Session) Memory() *memory.Memory {
	return s.mem
}

// Run processes frames until the source runs dry, the sink asks to quit or ctx
// is cancelled. The source and sink are closed on every exit path.
//
// A canceled context and ErrQuit return nil. A lost source returns an error
// wrapping capture.ErrFrameUnavailable. Per-frame errors are logged and
// counted, and only skip that frame's overlay.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		if err := s.src.Close(); err != nil {
			s.logger.Warn("close source", "error", err)
		}
	}()
	if s.sink != nil {
		defer s.sink.Close()
	}
	if s.worker != nil {
		defer s.worker.Wait()
	}

	s.logger.Info("session started",
		"trigger", s.cfg.Pacing.Trigger,
		"trust_threshold", s.cfg.Pacing.TrustThreshold,
		"async_classify", s.cfg.AsyncClassify)

	for {
		if ctx.Err() != nil {
			s.logEnd("context done")
			return nil
		}

		f, err := s.src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logEnd("context done")
				return nil
			}
			s.logEnd("capture ended")
			if errors.Is(err, capture.ErrFrameUnavailable) {
				return err
			}
			return fmt.Errorf("%w: %v", capture.ErrFrameUnavailable, err)
		}

		quit := s.process(ctx, f)
		f.Close()
		if quit {
			s.logEnd("quit requested")
			return nil
		}
	}
}

// process steps one frame and shows it. It reports whether the sink asked to quit.
func (s *Session) process(ctx context.Context, f frame.Frame) bool {
	rep, err := s.Step(ctx, f)
	if err != nil {
		s.metrics.FrameErrors.WithLabelValues("render").Inc()
		s.logger.Warn("frame skipped", "frame", rep.Frame, "error", err)
	}

	if s.sink == nil {
		return false
	}

	start := time.Now()
	err = s.sink.Show(f)
	s.metrics.ObserveStage("sink", start)
	switch {
	case errors.Is(err, ErrQuit):
		return true
	case err != nil:
		s.metrics.FrameErrors.WithLabelValues("sink").Inc()
		s.logger.Warn("sink failed", "frame", rep.Frame, "error", err)
	}
	return false
}

func (s *Session) logEnd(reason string) {
	s.logger.Info("session ended",
		"reason", reason,
		"frames", s.frames,
		"watch", s.state.Watch(s.clock.Now()).Round(time.Second),
		"live_fragments", s.mem.Len(),
		"evicted", s.mem.Evicted())
}

// Step runs the engine on one frame and draws the overlay onto it in place.
// The returned error only concerns drawing; classifier and generator problems
// are absorbed into the report.
func (s *Session) Step(ctx context.Context, f frame.Frame) (rep Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.FrameErrors.WithLabelValues("panic").Inc()
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	s.frames++
	s.metrics.Frames.Inc()

	now := s.clock.Now()
	watch := s.state.Watch(now)
	rep = Report{Frame: s.frames, Watch: watch, Distance: s.cfg.DefaultDistance}

	res, fresh := s.classify(ctx, f)
	rep.Classification = res.Outcome
	rep.Fresh = fresh

	var face *detection.FaceRegion
	transitioned := false

	switch res.Outcome {
	case detection.Found:
		region := res.Face
		face = &region
		rep.Distance = region.Distance(s.cfg.DistanceScale)
		if fresh {
			_, transitioned = s.debouncer.Update(&s.state.Track, res.Emotion, now)
		}
	case detection.NoFace:
		if fresh {
			_, transitioned = s.debouncer.Update(&s.state.Track, emotions.None, now)
		}
	default:
		switch {
		case !fresh || res.Err == nil:
		case errors.Is(res.Err, ErrPanic):
			s.logger.Warn("classifier panicked", "frame", s.frames, "error", res.Err)
		default:
			s.metrics.FrameErrors.WithLabelValues("classify").Inc()
			s.logger.Debug("classification failed", "frame", s.frames, "error", res.Err)
		}
	}

	rep.Emotion = s.state.Current()
	rep.Transitioned = transitioned
	if transitioned {
		s.metrics.Transitions.WithLabelValues(rep.Emotion.String()).Inc()
		s.logger.Debug("emotion changed", "emotion", rep.Emotion, "watch", watch)
	}

	rep.ShowFace = s.gate.ShowFaceDecoration(watch)

	if s.scheduler.Due(now, &s.state.Timeline, transitioned) {
		frag, fallback := s.generate(ctx, rep.Emotion, rep.Distance, watch, f)
		rep.Generated = &frag
		rep.Fallback = fallback
	}

	live := s.mem.AdvanceAndPrune()
	rep.Live = len(live)
	s.metrics.LiveFragments.Set(float64(len(live)))

	view := render.View{
		ShowFace:  rep.ShowFace,
		Face:      face,
		Emotion:   rep.Emotion,
		Fragments: live,
	}

	start := time.Now()
	err = s.composer.Compose(f, view)
	s.metrics.ObserveStage("render", start)
	return rep, err
}

// classify returns this frame's classification. In async mode it submits the
// frame if the worker is idle and returns the most recent completed result.
func (s *Session) classify(ctx context.Context, f frame.Frame) (detection.Result, bool) {
	if s.worker == nil {
		start := time.Now()
		res := s.classifier.Classify(ctx, f)
		s.metrics.ObserveStage("classify", start)
		s.metrics.Classifications.WithLabelValues(res.Outcome.String()).Inc()
		return res, true
	}

	if !s.worker.Busy() {
		clone, err := f.Clone()
		if err != nil {
			s.metrics.FrameErrors.WithLabelValues("classify").Inc()
			s.logger.Debug("clone for classifier", "error", err)
		} else if !s.worker.Submit(ctx, clone) {
			clone.Close()
		}
	}

	res, fresh, ok := s.worker.Poll()
	if !ok {
		return detection.FailedResult(nil), false
	}
	if fresh {
		s.metrics.Classifications.WithLabelValues(res.Outcome.String()).Inc()
	}
	return res, fresh
}

// generate produces one fragment and inserts it into memory. It reports
// whether the fallback line was used.
func (s *Session) generate(ctx context.Context, emotion emotions.Label, distance int, watch time.Duration, f frame.Frame) (memory.Fragment, bool) {
	maxLen := s.budget.MaxLength(distance, watch)

	start := time.Now()
	res := s.gen.Generate(ctx, emotion, maxLen)
	s.metrics.ObserveStage("generate", start)
	s.metrics.Generations.WithLabelValues(res.Outcome.String()).Inc()

	if res.Outcome == generator.Failed {
		s.metrics.FrameErrors.WithLabelValues("generate").Inc()
		s.logger.Warn("generation failed", "emotion", emotion, "error", res.Err)
	}

	text := s.cfg.Fallbacks.Resolve(res, emotion)
	fallback := !res.OK()
	if fallback {
		s.metrics.Fallbacks.Inc()
	}

	before := s.mem.Evicted()
	frag := s.mem.Insert(text, emotion, f.Bounds())
	if n := s.mem.Evicted() - before; n > 0 {
		s.metrics.Evictions.Add(float64(n))
	}

	s.logger.Debug("fragment generated",
		"fragment_id", frag.ID.String(),
		"emotion", emotion,
		"max_len", maxLen,
		"distance", distance,
		"fallback", fallback)
	return frag, fallback
}

package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/teslashibe/go-palimpsest/internal/log"
	"github.com/teslashibe/go-palimpsest/pkg/capture"
	"github.com/teslashibe/go-palimpsest/pkg/detection"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/generator"
	"github.com/teslashibe/go-palimpsest/pkg/pacing"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	shows     int
	quitAfter int // 0 never quits
	closed    bool
}

func (s *recordingSink) Show(f frame.Frame) error {
	s.shows++
	if s.quitAfter > 0 && s.shows >= s.quitAfter {
		return ErrQuit
	}
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = log.Discard()
	return cfg
}

func newTestSession(t *testing.T, cfg Config, d Deps) (*Session, *ManualClock) {
	t.Helper()
	clock := NewManualClock(t0, 0)
	if d.Source == nil {
		d.Source = capture.NewStatic(0)
	}
	if d.Classifier == nil {
		d.Classifier = detection.NewMock()
	}
	if d.Generator == nil {
		d.Generator = generator.NewMock()
	}
	d.Clock = clock
	d.Rand = rand.New(rand.NewPCG(1, 2))

	s, err := New(cfg, d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, clock
}

func step(t *testing.T, s *Session) Report {
	t.Helper()
	rep, err := s.Step(context.Background(), frame.NewFake(640, 480))
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	return rep
}

func found(label emotions.Label, face detection.FaceRegion) detection.Result {
	return detection.FoundResult(label, face, 0.9)
}

var smallFace = detection.FaceRegion{X: 100, Y: 100, W: 20, H: 20} // distance 250

func TestNewMissingDependency(t *testing.T) {
	tests := []struct {
		name string
		deps Deps
	}{
		{"source", Deps{Classifier: detection.NewMock(), Generator: generator.NewMock()}},
		{"classifier", Deps{Source: capture.NewStatic(0), Generator: generator.NewMock()}},
		{"generator", Deps{Source: capture.NewStatic(0), Classifier: detection.NewMock()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(testConfig(), tt.deps); !errors.Is(err, ErrMissingDependency) {
				t.Errorf("err = %v, want ErrMissingDependency", err)
			}
		})
	}
}

func TestStepDebounceScenario(t *testing.T) {
	classifier := detection.NewScripted(
		found(emotions.Happy, smallFace),
		found(emotions.Happy, smallFace),
		found(emotions.Sad, smallFace),
	)
	s, clock := newTestSession(t, testConfig(), Deps{Classifier: classifier})

	want := []struct {
		at      time.Duration
		emotion emotions.Label
		changed bool
	}{
		{0, emotions.Happy, true},
		{500 * time.Millisecond, emotions.Happy, false},
		{3 * time.Second, emotions.Sad, true},
	}

	for i, w := range want {
		clock.Set(t0.Add(w.at))
		rep := step(t, s)
		if rep.Emotion != w.emotion || rep.Transitioned != w.changed {
			t.Errorf("frame %d: emotion=%s changed=%v, want %s/%v",
				i, rep.Emotion, rep.Transitioned, w.emotion, w.changed)
		}
	}

	if got := testutil.ToFloat64(s.Metrics().Transitions.WithLabelValues("sad")); got != 1 {
		t.Errorf("sad transitions = %v, want 1", got)
	}
}

func TestStepFlickerHeld(t *testing.T) {
	labels := []emotions.Label{emotions.Happy, emotions.Sad, emotions.Angry, emotions.Fear, emotions.Sad}
	results := make([]detection.Result, len(labels))
	for i, l := range labels {
		results[i] = found(l, smallFace)
	}
	s, clock := newTestSession(t, testConfig(), Deps{Classifier: detection.NewScripted(results...)})

	for i := range labels {
		clock.Set(t0.Add(time.Duration(i) * 300 * time.Millisecond))
		if rep := step(t, s); rep.Emotion != emotions.Happy {
			t.Fatalf("frame %d: emotion = %s, want happy held", i, rep.Emotion)
		}
	}
}

func TestStepCadence(t *testing.T) {
	gen := generator.NewMock()
	s, clock := newTestSession(t, testConfig(), Deps{Generator: gen})

	steps := []struct {
		at  time.Duration
		due bool
	}{
		{0, true},
		{time.Second, false},
		{8 * time.Second, false},
		{8*time.Second + time.Millisecond, true},
		{12 * time.Second, false},
	}

	for _, st := range steps {
		clock.Set(t0.Add(st.at))
		rep := step(t, s)
		if (rep.Generated != nil) != st.due {
			t.Errorf("at %v: generated = %v, want %v", st.at, rep.Generated != nil, st.due)
		}
	}

	calls := gen.Calls()
	if len(calls) != 2 {
		t.Fatalf("generator calls = %d, want 2", len(calls))
	}
	if calls[0].MaxLen != 50 || calls[0].Emotion != emotions.Neutral {
		t.Errorf("first call = %+v, want neutral/50", calls[0])
	}
}

func TestStepLengthBudgetScenario(t *testing.T) {
	gen := generator.NewMock()
	near := detection.FaceRegion{X: 0, Y: 0, W: 40, H: 25} // area 1000, distance 100
	s, clock := newTestSession(t, testConfig(), Deps{
		Generator:  gen,
		Classifier: detection.NewScripted(found(emotions.Sad, near)),
	})

	clock.Set(t0.Add(45 * time.Second))
	rep := step(t, s)

	if rep.Distance != 100 {
		t.Errorf("distance = %d, want 100", rep.Distance)
	}
	if calls := gen.Calls(); len(calls) != 1 || calls[0].MaxLen != 143 {
		t.Errorf("calls = %+v, want one with max len 143", calls)
	}
}

func TestStepClassificationFailed(t *testing.T) {
	gen := generator.NewMock()
	classifier := detection.NewScripted(
		found(emotions.Angry, smallFace),
		detection.FailedResult(errors.New("model exploded")),
	)
	s, clock := newTestSession(t, testConfig(), Deps{Generator: gen, Classifier: classifier})

	step(t, s)

	clock.Set(t0.Add(10 * time.Second))
	rep := step(t, s)

	if rep.Classification != detection.Failed {
		t.Fatalf("classification = %s", rep.Classification)
	}
	if rep.Emotion != emotions.Angry || rep.Transitioned {
		t.Errorf("emotion = %s changed=%v, want angry held", rep.Emotion, rep.Transitioned)
	}
	if rep.Generated == nil {
		t.Fatal("generation should still happen after a failed classification")
	}
	if rep.Distance != DefaultDistance {
		t.Errorf("distance = %d, want default %d", rep.Distance, DefaultDistance)
	}
	if calls := gen.Calls(); calls[1].Emotion != emotions.Angry {
		t.Errorf("second call emotion = %s, want angry", calls[1].Emotion)
	}
	if got := testutil.ToFloat64(s.Metrics().FrameErrors.WithLabelValues("classify")); got != 1 {
		t.Errorf("classify errors = %v, want 1", got)
	}
}

func TestStepNoFaceCountsAsNeutral(t *testing.T) {
	classifier := detection.NewScripted(
		found(emotions.Fear, smallFace),
		detection.NoFaceResult(),
	)
	s, clock := newTestSession(t, testConfig(), Deps{Classifier: classifier})

	step(t, s)
	clock.Set(t0.Add(3 * time.Second))
	rep := step(t, s)

	if rep.Emotion != emotions.Neutral || !rep.Transitioned {
		t.Errorf("emotion = %s changed=%v, want neutral transition", rep.Emotion, rep.Transitioned)
	}
}

func TestStepFallback(t *testing.T) {
	s, _ := newTestSession(t, testConfig(), Deps{
		Generator:  generator.WithResult(generator.EmptyResult()),
		Classifier: detection.NewScripted(found(emotions.Fear, smallFace)),
	})

	rep := step(t, s)
	if rep.Generated == nil || !rep.Fallback {
		t.Fatalf("rep = %+v, want fallback fragment", rep)
	}
	if rep.Generated.Text != "Something moves too quickly to hold." {
		t.Errorf("text = %q", rep.Generated.Text)
	}
	if got := testutil.ToFloat64(s.Metrics().Fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestStepFragmentDecay(t *testing.T) {
	s, clock := newTestSession(t, testConfig(), Deps{})

	rep := step(t, s)
	if rep.Live != 1 {
		t.Fatalf("live = %d, want 1", rep.Live)
	}
	if got := s.Memory().Snapshot()[0].Alpha; got != 254 {
		t.Errorf("alpha after first frame = %d, want 254", got)
	}

	for i := 0; i < 253; i++ {
		clock.Set(t0.Add(time.Millisecond * time.Duration(i+1)))
		step(t, s)
	}
	if got := s.Memory().Len(); got != 1 {
		t.Fatalf("live after 254 frames = %d, want 1", got)
	}
	step(t, s)
	if got := s.Memory().Len(); got != 0 {
		t.Errorf("live after 255 frames = %d, want 0", got)
	}
}

func TestStepTrustGate(t *testing.T) {
	classifier := detection.NewScripted(found(emotions.Angry, smallFace))
	s, clock := newTestSession(t, testConfig(), Deps{Classifier: classifier})

	tests := []struct {
		at    time.Duration
		rects int
	}{
		{0, 4},
		{24 * time.Second, 4},
		{25 * time.Second, 0},
		{60 * time.Second, 0},
	}
	for _, tt := range tests {
		clock.Set(t0.Add(tt.at))
		f := frame.NewFake(640, 480)
		rep, err := s.Step(context.Background(), f)
		if err != nil {
			t.Fatal(err)
		}
		if rep.ShowFace != (tt.rects > 0) {
			t.Errorf("at %v: ShowFace = %v", tt.at, rep.ShowFace)
		}
		if got := f.Count(frame.OpRect); got != tt.rects {
			t.Errorf("at %v: rects = %d, want %d", tt.at, got, tt.rects)
		}
	}
}

func TestStepTransitionTrigger(t *testing.T) {
	cfg := testConfig()
	cfg.Pacing.Trigger = pacing.TriggerTransition
	gen := generator.NewMock()
	classifier := detection.NewScripted(
		found(emotions.Happy, smallFace),
		found(emotions.Happy, smallFace),
		found(emotions.Sad, smallFace),
		found(emotions.Sad, smallFace),
	)
	s, clock := newTestSession(t, cfg, Deps{Generator: gen, Classifier: classifier})

	for i, at := range []time.Duration{0, 20 * time.Second, 30 * time.Second, 60 * time.Second} {
		clock.Set(t0.Add(at))
		rep := step(t, s)
		wantGen := i == 0 || i == 2
		if (rep.Generated != nil) != wantGen {
			t.Errorf("frame %d: generated = %v, want %v", i, rep.Generated != nil, wantGen)
		}
	}
	if len(gen.Calls()) != 2 {
		t.Errorf("generator calls = %d, want 2", len(gen.Calls()))
	}
}

func TestStepRecoversPanic(t *testing.T) {
	classifier := &detection.Mock{
		ClassifyFunc: func(ctx context.Context, f frame.Frame) detection.Result {
			panic("boom")
		},
	}
	s, _ := newTestSession(t, testConfig(), Deps{Classifier: classifier})

	_, err := s.Step(context.Background(), frame.NewFake(640, 480))
	if !errors.Is(err, ErrPanic) {
		t.Errorf("err = %v, want ErrPanic", err)
	}
}

func TestStepRenderError(t *testing.T) {
	s, _ := newTestSession(t, testConfig(), Deps{})
	f := frame.NewFake(640, 480)
	f.DrawErr = errors.New("no ink")

	rep, err := s.Step(context.Background(), f)
	if err == nil {
		t.Fatal("expected render error")
	}
	if rep.Generated == nil {
		t.Error("state should still advance when drawing fails")
	}
}

func TestRunUntilSourceEnds(t *testing.T) {
	src := capture.NewStatic(0, frame.NewFake(640, 480), frame.NewFake(640, 480), frame.NewFake(640, 480))
	sink := &recordingSink{}
	s, _ := newTestSession(t, testConfig(), Deps{Source: src, Sink: sink})

	err := s.Run(context.Background())
	if !errors.Is(err, capture.ErrFrameUnavailable) {
		t.Fatalf("err = %v, want ErrFrameUnavailable", err)
	}
	if sink.shows != 3 {
		t.Errorf("shows = %d, want 3", sink.shows)
	}
	if !src.Closed() || !sink.closed {
		t.Errorf("closed: source=%v sink=%v", src.Closed(), sink.closed)
	}
	if got := testutil.ToFloat64(s.Metrics().Frames); got != 3 {
		t.Errorf("frames = %v, want 3", got)
	}
}

func TestRunQuit(t *testing.T) {
	src := capture.NewStatic(-1, frame.NewFake(640, 480))
	sink := &recordingSink{quitAfter: 2}
	s, _ := newTestSession(t, testConfig(), Deps{Source: src, Sink: sink})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sink.shows != 2 {
		t.Errorf("shows = %d, want 2", sink.shows)
	}
	if !src.Closed() {
		t.Error("source not closed")
	}
}

func TestRunCanceled(t *testing.T) {
	src := capture.NewStatic(-1, frame.NewFake(640, 480))
	s, _ := newTestSession(t, testConfig(), Deps{Source: src})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !src.Closed() {
		t.Error("source not closed")
	}
	if src.Reads() != 0 {
		t.Errorf("reads = %d, want 0", src.Reads())
	}
}

func TestStepAsyncClassify(t *testing.T) {
	cfg := testConfig()
	cfg.AsyncClassify = true
	release := make(chan struct{})
	classifier := &detection.Mock{
		ClassifyFunc: func(ctx context.Context, f frame.Frame) detection.Result {
			<-release
			return found(emotions.Surprise, smallFace)
		},
	}
	s, clock := newTestSession(t, cfg, Deps{Classifier: classifier})

	rep := step(t, s)
	if rep.Fresh || rep.Classification != detection.Failed {
		t.Errorf("first frame = %+v, want no result yet", rep)
	}
	if rep.Emotion != emotions.Neutral {
		t.Errorf("emotion = %s, want neutral before any result", rep.Emotion)
	}
	if !s.worker.Busy() {
		t.Error("worker should still be classifying the first frame")
	}
	step(t, s)
	if classifier.Calls() != 1 {
		t.Errorf("classify calls = %d, want 1 while busy", classifier.Calls())
	}

	close(release)
	s.worker.Wait()
	clock.Set(t0.Add(time.Second))
	rep = step(t, s)
	if !rep.Fresh || rep.Emotion != emotions.Surprise {
		t.Errorf("second frame = %+v, want fresh surprise", rep)
	}

	s.worker.Wait()
	clock.Set(t0.Add(2 * time.Second))
	step(t, s)
	s.worker.Wait()
	rep = step(t, s)
	if rep.Classification != detection.Found {
		t.Errorf("classification = %s, want last result reused", rep.Classification)
	}
}

func TestStepAsyncClassifyPanic(t *testing.T) {
	cfg := testConfig()
	cfg.AsyncClassify = true
	classifier := &detection.Mock{
		ClassifyFunc: func(ctx context.Context, f frame.Frame) detection.Result {
			panic("model exploded")
		},
	}
	s, clock := newTestSession(t, cfg, Deps{Classifier: classifier})

	step(t, s)
	s.worker.Wait()

	clock.Set(t0.Add(time.Second))
	rep := step(t, s)
	if !rep.Fresh || rep.Classification != detection.Failed {
		t.Errorf("frame after panic = %+v, want fresh failed classification", rep)
	}
	if rep.Emotion != emotions.Neutral {
		t.Errorf("emotion = %s, want neutral to hold", rep.Emotion)
	}

	s.worker.Wait()
	if s.worker.Busy() {
		t.Error("worker still busy after a panicking job")
	}
	if classifier.Calls() != 2 {
		t.Errorf("classify calls = %d, want 2", classifier.Calls())
	}
	if got := testutil.ToFloat64(s.Metrics().FrameErrors.WithLabelValues("panic")); got != 2 {
		t.Errorf("panic errors = %v, want 2", got)
	}
}

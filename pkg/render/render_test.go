package render

import (
	"errors"
	"image"
	"testing"

	"github.com/teslashibe/go-palimpsest/pkg/detection"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/memory"
)

// fixedRand always returns n-1, the top of every range.
type fixedRand struct{ calls int }

func (r *fixedRand) IntN(n int) int {
	r.calls++
	return n - 1
}

func face() *detection.FaceRegion {
	return &detection.FaceRegion{X: 100, Y: 50, W: 80, H: 90}
}

func TestComposeFaceDecoration(t *testing.T) {
	rng := &fixedRand{}
	c := New(DefaultConfig(), rng)
	base := frame.NewFake(640, 480)

	err := c.Compose(base, View{ShowFace: true, Face: face(), Emotion: emotions.Angry})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	ops := base.Ops()
	if len(ops) != 6 {
		t.Fatalf("got %d ops, want 4 rects + label + blend", len(ops))
	}

	want := face().Rect().Add(image.Pt(6, 6))
	for i := 0; i < 4; i++ {
		if ops[i].Kind != frame.OpRect {
			t.Fatalf("op %d = %s, want rect", i, ops[i].Kind)
		}
		if ops[i].Rect != want {
			t.Errorf("rect %d = %v, want %v", i, ops[i].Rect, want)
		}
		if ops[i].Color != frame.Gray(200) || ops[i].Thickness != 1 {
			t.Errorf("rect %d color/thickness = %v/%d", i, ops[i].Color, ops[i].Thickness)
		}
	}
	if rng.calls != 8 {
		t.Errorf("rand calls = %d, want 8", rng.calls)
	}

	label := ops[4]
	if label.Kind != frame.OpText || label.Text != "ANGRY" {
		t.Fatalf("label op = %+v", label)
	}
	if label.Origin != image.Pt(100, 50+90+20) {
		t.Errorf("label origin = %v", label.Origin)
	}
	if label.Style.Font != frame.FontDuplex || label.Style.Thickness != 2 {
		t.Errorf("label style = %+v, want angry typography", label.Style)
	}
}

func TestComposeNeutralHasNoJitter(t *testing.T) {
	rng := &fixedRand{}
	c := New(DefaultConfig(), rng)
	base := frame.NewFake(640, 480)

	if err := c.Compose(base, View{ShowFace: true, Face: face(), Emotion: emotions.Neutral}); err != nil {
		t.Fatal(err)
	}
	for _, op := range base.Ops() {
		if op.Kind == frame.OpRect && op.Rect != face().Rect() {
			t.Errorf("rect = %v, want unjittered %v", op.Rect, face().Rect())
		}
	}
	if rng.calls != 0 {
		t.Errorf("rand calls = %d, want 0", rng.calls)
	}
}

func TestJitterFor(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		emotion emotions.Label
		want    int
	}{
		{emotions.Angry, 6},
		{emotions.Fear, 4},
		{emotions.Sad, 2},
		{emotions.Happy, 1},
		{emotions.Neutral, 0},
		{emotions.Surprise, 1},
		{emotions.Disgust, 6},
		{emotions.Contempt, 0},
	}
	for _, tt := range tests {
		if got := cfg.JitterFor(tt.emotion); got != tt.want {
			t.Errorf("JitterFor(%s) = %d, want %d", tt.emotion, got, tt.want)
		}
	}
}

func TestComposeGateClosed(t *testing.T) {
	tests := []struct {
		name string
		view View
	}{
		{"gate closed", View{ShowFace: false, Face: face(), Emotion: emotions.Sad}},
		{"no face", View{ShowFace: true, Face: nil, Emotion: emotions.Sad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := frame.NewFake(640, 480)
			if err := New(DefaultConfig(), &fixedRand{}).Compose(base, tt.view); err != nil {
				t.Fatal(err)
			}
			if n := base.Count(frame.OpRect); n != 0 {
				t.Errorf("drew %d rects", n)
			}
			if n := base.Count(frame.OpText); n != 0 {
				t.Errorf("drew %d labels", n)
			}
			if n := base.Count(frame.OpBlend); n != 1 {
				t.Errorf("blends = %d, want 1", n)
			}
		})
	}
}

func TestComposeFragments(t *testing.T) {
	c := New(DefaultConfig(), &fixedRand{})
	base := frame.NewFake(640, 480)
	frags := []memory.Fragment{
		{Text: "old", X: 40, Y: 100, Alpha: 10, Emotion: emotions.Fear},
		{Text: "new", X: 60, Y: 200, Alpha: 254, Emotion: emotions.Surprise},
	}

	if err := c.Compose(base, View{Emotion: emotions.Happy, Fragments: frags}); err != nil {
		t.Fatal(err)
	}

	ops := base.Ops()
	if len(ops) != 1 || ops[0].Kind != frame.OpBlend {
		t.Fatalf("base ops = %+v, want a single blend", ops)
	}
	blend := ops[0]
	if blend.OverlayWeight != 0.85 || blend.BaseWeight != 0.15 {
		t.Errorf("weights = %v/%v", blend.OverlayWeight, blend.BaseWeight)
	}
	if len(blend.Layer) != 2 {
		t.Fatalf("layer = %+v, want 2 fragments", blend.Layer)
	}

	first := blend.Layer[0]
	if first.Text != "old" || first.Origin != image.Pt(40, 100) {
		t.Errorf("first fragment = %+v", first)
	}
	if first.Color != frame.Gray(10) {
		t.Errorf("first color = %v, want intensity 10", first.Color)
	}
	if first.Style.Font != frame.FontPlain {
		t.Errorf("fear font = %s", first.Style.Font)
	}
	if second := blend.Layer[1]; second.Style != DefaultConfig().DefaultStyle {
		t.Errorf("surprise style = %+v, want default", second.Style)
	}
}

func TestComposeBanner(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Banner.Enabled = true
	base := frame.NewFake(640, 480)

	if err := New(cfg, &fixedRand{}).Compose(base, View{Emotion: emotions.Fear}); err != nil {
		t.Fatal(err)
	}
	op := base.Ops()[0]
	if op.Kind != frame.OpText || op.Text != "FEAR" || op.Origin != image.Pt(30, 40) {
		t.Errorf("banner op = %+v", op)
	}
}

func TestComposeDrawError(t *testing.T) {
	boom := errors.New("boom")
	base := frame.NewFake(640, 480)
	base.DrawErr = boom

	err := New(DefaultConfig(), &fixedRand{}).Compose(base, View{ShowFace: true, Face: face(), Emotion: emotions.Sad})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestValidate(t *testing.T) {
	if errs := DefaultConfig().Validate(); len(errs) != 0 {
		t.Errorf("default config invalid: %v", errs)
	}

	cfg := DefaultConfig()
	cfg.JitterPasses = 0
	cfg.OverlayWeight = 0
	cfg.BaseWeight = 0
	cfg.Jitter[emotions.Sad] = -1
	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("got %d problems (%v), want 3", len(errs), errs)
	}
}

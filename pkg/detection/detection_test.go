package detection

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
)

func TestFaceRegion_Distance(t *testing.T) {
	tests := []struct {
		name   string
		face   FaceRegion
		scale  int
		expect int
	}{
		{"large close face", FaceRegion{W: 400, H: 400}, 0, 0},
		{"near tier", FaceRegion{W: 30, H: 30}, 0, 111},
		{"mid tier", FaceRegion{W: 25, H: 25}, 0, 160},
		{"far face", FaceRegion{W: 10, H: 10}, 0, 1000},
		{"zero area clamps", FaceRegion{}, 0, 100000},
		{"custom scale", FaceRegion{W: 10, H: 10}, 5000, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.face.Distance(tc.scale); got != tc.expect {
				t.Errorf("Distance: got %d, want %d", got, tc.expect)
			}
		})
	}
}

func TestFaceRegion_DistanceShrinksWithArea(t *testing.T) {
	prev := math.MaxInt
	for side := 1; side <= 500; side++ {
		d := FaceRegion{W: side, H: side}.Distance(0)
		if d > prev {
			t.Fatalf("distance grew at side %d", side)
		}
		prev = d
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name      string
		cands     []candidate
		expectOK  bool
		expectIdx int
	}{
		{
			name:     "empty list",
			cands:    nil,
			expectOK: false,
		},
		{
			name: "single face",
			cands: []candidate{
				{Face: FaceRegion{W: 20, H: 20}, Confidence: 0.9},
			},
			expectOK:  true,
			expectIdx: 0,
		},
		{
			name: "high confidence beats larger area",
			cands: []candidate{
				{Face: FaceRegion{W: 40, H: 40}, Confidence: 0.5},
				{Face: FaceRegion{X: 50, W: 20, H: 20}, Confidence: 0.95},
			},
			expectOK:  true,
			expectIdx: 1,
		},
		{
			name: "similar confidence picks larger",
			cands: []candidate{
				{Face: FaceRegion{W: 50, H: 50}, Confidence: 0.8},
				{Face: FaceRegion{X: 60, W: 10, H: 10}, Confidence: 0.8},
			},
			expectOK:  true,
			expectIdx: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			best, ok := selectBest(tc.cands)
			if ok != tc.expectOK {
				t.Fatalf("ok = %v, want %v", ok, tc.expectOK)
			}
			if ok && best != tc.cands[tc.expectIdx] {
				t.Errorf("got %+v, want %+v", best, tc.cands[tc.expectIdx])
			}
		})
	}
}

func TestSoftmaxArgmax(t *testing.T) {
	p := softmax([]float64{1, 3, 2})

	var sum float64
	for _, v := range p {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("softmax sums to %v", sum)
	}
	if argmax(p) != 1 {
		t.Errorf("argmax = %d, want 1", argmax(p))
	}
	if argmax(nil) != -1 {
		t.Error("argmax(nil) should be -1")
	}
	if softmax(nil) != nil {
		t.Error("softmax(nil) should be nil")
	}
}

func TestResultConstructors(t *testing.T) {
	face := FaceRegion{X: 1, Y: 2, W: 3, H: 4}
	r := FoundResult(emotions.Fear, face, 0.7)
	if !r.HasFace() || r.Emotion != emotions.Fear || r.Face != face {
		t.Errorf("unexpected found result %+v", r)
	}

	if NoFaceResult().HasFace() {
		t.Error("NoFace result should have no face")
	}

	boom := errors.New("boom")
	f := FailedResult(boom)
	if f.Outcome != Failed || !errors.Is(f.Err, boom) || f.HasFace() {
		t.Errorf("unexpected failed result %+v", f)
	}
	if f.Outcome.String() != "failed" || Found.String() != "found" || NoFace.String() != "no_face" {
		t.Error("outcome names changed")
	}
}

func TestNewONNX_MissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FaceModel = "/nonexistent/face.onnx"

	_, err := NewONNX(cfg)
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestScriptedMock(t *testing.T) {
	ctx := context.Background()
	f := frame.NewFake(10, 10)
	m := NewScripted(
		FoundResult(emotions.Happy, FaceRegion{W: 1, H: 1}, 1),
		NoFaceResult(),
	)

	if got := m.Classify(ctx, f); got.Emotion != emotions.Happy {
		t.Errorf("first result = %+v", got)
	}
	for i := 0; i < 3; i++ {
		if got := m.Classify(ctx, f); got.Outcome != NoFace {
			t.Errorf("repeat %d = %+v", i, got)
		}
	}
	if m.Calls() != 4 {
		t.Errorf("Calls = %d, want 4", m.Calls())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FaceModel == "" || cfg.EmotionModel == "" {
		t.Error("DefaultConfig: model paths should not be empty")
	}
	if cfg.ConfidenceThresh <= 0 || cfg.ConfidenceThresh > 1 {
		t.Errorf("DefaultConfig: ConfidenceThresh should be 0-1, got %f", cfg.ConfidenceThresh)
	}
	if len(cfg.Labels) != 8 {
		t.Errorf("DefaultConfig: expected 8 FER+ labels, got %d", len(cfg.Labels))
	}
}

package detection

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"gocv.io/x/gocv"
)

// ONNX finds the face with OpenCV's FaceDetectorYN (YuNet) and classifies its
// emotion with an ONNX network run through OpenCV DNN.
type ONNX struct {
	faces  gocv.FaceDetectorYN
	net    gocv.Net
	config Config
	logger *slog.Logger
	mu     sync.Mutex // Protects inference
}

// NewONNX loads both models.
func NewONNX(cfg Config) (*ONNX, error) {
	for _, path := range []string{cfg.FaceModel, cfg.EmotionModel} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = FERPlusLabels
	}
	if cfg.EmotionInput <= 0 {
		cfg.EmotionInput = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	net := gocv.ReadNetFromONNX(cfg.EmotionModel)
	if net.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrModelLoad, cfg.EmotionModel)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	// Input size is updated per frame in Classify.
	faces := gocv.NewFaceDetectorYNWithParams(
		cfg.FaceModel,
		"",
		image.Pt(320, 320),
		float32(cfg.ConfidenceThresh),
		float32(cfg.NMSThresh),
		cfg.TopK,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &ONNX{
		faces:  faces,
		net:    net,
		config: cfg,
		logger: logger.With("component", "detection.onnx"),
	}, nil
}

// Classify finds the best face in f and returns its dominant emotion.
func (c *ONNX) Classify(ctx context.Context, f frame.Frame) Result {
	if err := ctx.Err(); err != nil {
		return FailedResult(err)
	}

	mf, ok := f.(*frame.Mat)
	if !ok {
		return FailedResult(fmt.Errorf("%w: %T", ErrUnsupportedFrame, f))
	}
	img := mf.Mat()
	if img.Empty() {
		return FailedResult(ErrEmptyFrame)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	best, found := c.detectFace(img)
	if !found {
		return NoFaceResult()
	}

	scores, err := c.scoreEmotion(img, best.Face)
	if err != nil {
		return FailedResult(err)
	}

	probs := softmax(scores)
	i := argmax(probs)
	if i < 0 || i >= len(c.config.Labels) {
		return FailedResult(fmt.Errorf("detection: emotion output has %d classes, %d labels configured",
			len(probs), len(c.config.Labels)))
	}

	label := c.config.Labels[i]
	c.logger.Debug("face classified",
		"emotion", label,
		"confidence", probs[i],
		"face_score", best.Confidence,
		"region", best.Face.Rect(),
	)
	return FoundResult(label, best.Face, probs[i])
}

// detectFace runs YuNet on img and returns the best face clipped to the frame.
func (c *ONNX) detectFace(img gocv.Mat) (candidate, bool) {
	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	c.faces.SetInputSize(bounds.Size())

	out := gocv.NewMat()
	defer out.Close()
	c.faces.Detect(img, &out)

	var cands []candidate
	for r := 0; r < out.Rows(); r++ {
		// YuNet output row (15 columns):
		// 0-3: x, y, w, h in pixels
		// 4-13: five landmarks
		// 14: face score
		box := image.Rect(
			int(out.GetFloatAt(r, 0)),
			int(out.GetFloatAt(r, 1)),
			int(out.GetFloatAt(r, 0)+out.GetFloatAt(r, 2)),
			int(out.GetFloatAt(r, 1)+out.GetFloatAt(r, 3)),
		).Intersect(bounds)
		if box.Empty() {
			continue
		}
		cands = append(cands, candidate{
			Face:       FaceRegion{X: box.Min.X, Y: box.Min.Y, W: box.Dx(), H: box.Dy()},
			Confidence: float64(out.GetFloatAt(r, 14)),
		})
	}

	return selectBest(cands)
}

// scoreEmotion runs the emotion network on the face crop and returns raw scores.
func (c *ONNX) scoreEmotion(img gocv.Mat, face FaceRegion) ([]float64, error) {
	roi := img.Region(face.Rect())
	defer roi.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	if roi.Channels() == 1 {
		roi.CopyTo(&gray)
	} else {
		gocv.CvtColor(roi, &gray, gocv.ColorBGRToGray)
	}
	if gray.Empty() {
		return nil, ErrEmptyFrame
	}

	size := c.config.EmotionInput
	blob := gocv.BlobFromImage(gray, 1.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	defer out.Close()

	n := out.Total()
	if n == 0 {
		return nil, fmt.Errorf("detection: emotion network returned no scores")
	}
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = float64(out.GetFloatAt(0, i))
	}
	return scores, nil
}

// Close releases both models.
func (c *ONNX) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faces.Close()
	return c.net.Close()
}

var _ Classifier = (*ONNX)(nil)

package detection

import (
	"log/slog"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

// Config holds classifier configuration.
type Config struct {
	FaceModel    string // YuNet ONNX face detector
	EmotionModel string // FER+ style ONNX emotion network

	ConfidenceThresh float64 // Minimum face score (0-1)
	NMSThresh        float64 // Face NMS overlap threshold
	TopK             int     // Faces kept before NMS

	EmotionInput int              // Square input size of the emotion network
	Labels       []emotions.Label // Emotion network output order

	Logger *slog.Logger
}

// FERPlusLabels is the output order of the ONNX model zoo FER+ network.
var FERPlusLabels = []emotions.Label{
	emotions.Neutral,
	emotions.Happy,
	emotions.Surprise,
	emotions.Sad,
	emotions.Angry,
	emotions.Disgust,
	emotions.Fear,
	emotions.Contempt,
}

// DefaultConfig returns production defaults for YuNet + FER+.
func DefaultConfig() Config {
	return Config{
		FaceModel:        "models/face_detection_yunet.onnx",
		EmotionModel:     "models/emotion-ferplus-8.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.3,
		TopK:             5000,
		EmotionInput:     64,
		Labels:           FERPlusLabels,
		Logger:           slog.Default(),
	}
}

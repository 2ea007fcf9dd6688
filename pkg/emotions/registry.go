package emotions

import (
	"fmt"
	"strings"
)

// synonyms maps the spellings used by common emotion models onto labels.
var synonyms = map[string]Label{
	"happy":     Happy,
	"happiness": Happy,
	"joy":       Happy,
	"sad":       Sad,
	"sadness":   Sad,
	"angry":     Angry,
	"anger":     Angry,
	"fear":      Fear,
	"fearful":   Fear,
	"scared":    Fear,
	"surprise":  Surprise,
	"surprised": Surprise,
	"neutral":   Neutral,
	"calm":      Neutral,
	"disgust":   Disgust,
	"disgusted": Disgust,
	"contempt":  Contempt,
}

// Parse converts classifier output into a Label.
// Empty input yields None. Unknown names return ErrUnknownLabel.
func Parse(s string) (Label, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return None, nil
	}
	if l, ok := synonyms[key]; ok {
		return l, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

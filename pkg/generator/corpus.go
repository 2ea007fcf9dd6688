package generator

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

//go:embed corpus/*.txt
var embeddedCorpora embed.FS

// Corpora maps an emotion voice to its source text.
type Corpora map[emotions.Label]string

// Labels returns the labels with a corpus, sorted.
func (c Corpora) Labels() []emotions.Label {
	out := make([]emotions.Label, 0, len(c))
	for l := range c {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LoadCorpora reads one corpus per emotion from dir. Files are named
// "<emotion>.txt" or "corpus_<emotion>.txt". An empty dir loads the corpora
// compiled into the binary.
func LoadCorpora(dir string) (Corpora, error) {
	if dir == "" {
		sub, err := fs.Sub(embeddedCorpora, "corpus")
		if err != nil {
			return nil, fmt.Errorf("open embedded corpora: %w", err)
		}
		return loadFS(sub)
	}
	return loadFS(os.DirFS(dir))
}

func loadFS(fsys fs.FS) (Corpora, error) {
	names, err := fs.Glob(fsys, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}

	out := make(Corpora)
	for _, name := range names {
		stem := strings.TrimPrefix(strings.TrimSuffix(filepath.Base(name), ".txt"), "corpus_")
		label, err := emotions.Parse(stem)
		if err != nil || label == emotions.None {
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read corpus %s: %w", name, err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			out[label] = text
		}
	}

	if len(out) == 0 {
		return nil, ErrNoCorpus
	}
	return out, nil
}

// SplitSentences breaks text into sentences on ., ! and ? and on blank lines.
// Terminal punctuation is kept.
func SplitSentences(text string) []string {
	var out []string
	var b strings.Builder

	flush := func() {
		s := strings.Join(strings.Fields(b.String()), " ")
		if s != "" {
			out = append(out, s)
		}
		b.Reset()
	}

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		for _, r := range line {
			b.WriteRune(r)
			if r == '.' || r == '!' || r == '?' {
				flush()
			}
		}
		b.WriteRune(' ')
	}
	flush()
	return out
}

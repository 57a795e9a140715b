// Package sentiment scores financial news text on a -1 (bearish) to +1
// (bullish) scale.
//
// A Scorer normalizes and chunks article text, asks a Model for a score per
// chunk, averages the results and optionally blends in a fixed
// financial-keyword lexicon.
package sentiment

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/pkg/models"
)

// Model returns a raw sentiment score in [-1, 1] for a piece of text.
type Model interface {
	Name() string
	Score(ctx context.Context, text string) (float64, error)
}

// DefaultChunkSize is the longest chunk, in characters, handed to a Model.
const DefaultChunkSize = 512

// Blend weights applied when financial keywords are found.
const (
	BaseWeight      = 0.7
	FinancialWeight = 0.3
)

var urlPattern = regexp.MustCompile(`http\S+`)

// Scorer turns article text into a single sentiment score.
type Scorer struct {
	model     Model
	logger    arbor.ILogger
	blend     bool
	chunkSize int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithBlend enables or disables the financial-keyword blend (enabled by default).
func WithBlend(enabled bool) Option {
	return func(s *Scorer) { s.blend = enabled }
}

// WithChunkSize overrides DefaultChunkSize. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// NewScorer creates a Scorer over model. A nil model falls back to the
// lexicon model.
func NewScorer(model Model, logger arbor.ILogger, opts ...Option) *Scorer {
	if model == nil {
		model = NewLexiconModel()
	}
	s := &Scorer{
		model:     model,
		logger:    logger,
		blend:     true,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the underlying scoring model.
func (s *Scorer) Model() Model { return s.model }

// Score returns the sentiment of text in [-1, 1]. Empty text scores 0
// without consulting the model. Chunks the model fails on are logged and
// left out of the average.
func (s *Scorer) Score(ctx context.Context, text string) float64 {
	text = Normalize(text)
	if text == "" {
		return 0
	}

	var sum float64
	var n int
	for i, chunk := range Chunk(text, s.chunkSize) {
		if err := ctx.Err(); err != nil {
			break
		}
		v, err := s.model.Score(ctx, chunk)
		if err != nil {
			cerr := &models.CollaboratorError{
				Collaborator: "model:" + s.model.Name(),
				Item:         fmt.Sprintf("chunk %d", i),
				Err:          err,
			}
			s.logger.Warn().Err(cerr).Msg("Sentiment scoring failed for chunk")
			continue
		}
		sum += clamp(v)
		n++
	}

	base := 0.0
	if n > 0 {
		base = sum / float64(n)
	}
	if !s.blend {
		return clamp(base)
	}
	return clamp(Blend(base, text))
}

// Blend combines a base model score with the financial lexicon score of
// text. When no lexicon term occurs the base score is returned unchanged.
func Blend(base float64, text string) float64 {
	fin, matches := FinancialScore(text)
	if matches == 0 {
		return base
	}
	return BaseWeight*base + FinancialWeight*fin
}

// Normalize strips URLs and collapses whitespace.
func Normalize(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Chunk splits normalized text into pieces of at most size characters.
// Sentences are packed greedily; a sentence longer than size is sliced.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return slice(text, size)
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, sent := range sentences {
		n := utf8.RuneCountInString(sent)
		if n > size {
			flush()
			chunks = append(chunks, slice(sent, size)...)
			continue
		}
		extra := n
		if curLen > 0 {
			extra++ // joining space
		}
		if curLen+extra > size {
			flush()
			extra = n
		}
		if curLen > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(sent)
		curLen += extra
	}
	flush()
	return chunks
}

// punkt is the English Punkt sentence tokenizer, built on first use.
var punkt = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// splitSentences tokenizes text with Punkt, so abbreviations such as
// "Inc." or "U.S." do not end a sentence. It returns nil when the
// tokenizer is unavailable and the caller slices instead.
func splitSentences(text string) []string {
	tok, err := punkt()
	if err != nil {
		return nil
	}
	var out []string
	for _, sent := range tok.Tokenize(text) {
		if s := strings.TrimSpace(sent.Text); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// slice cuts text into fixed-size pieces of size runes.
func slice(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// Package tokens counts tokens for the density metrics logged after a
// conversion. Counting is informational; it never affects output.
package tokens

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding is the BPE encoding used for counts.
const Encoding = "cl100k_base"

// BytesPerToken is the estimate used when the encoding is unavailable.
const BytesPerToken = 4

// Counter counts tokens in text.
type Counter interface {
	Count(text string) int
}

// Estimate counts one token per BytesPerToken bytes.
type Estimate struct{}

// Count implements Counter.
func (Estimate) Count(text string) int {
	return len(text) / BytesPerToken
}

// BPE counts with the cl100k_base encoding. The encoding is loaded on first
// use; if loading fails the counter falls back to Estimate for the rest of
// its life.
type BPE struct {
	once     sync.Once
	enc      *tiktoken.Tiktoken
	logger   *slog.Logger
	fallback Estimate
}

// NewBPE creates a BPE counter.
func NewBPE(logger *slog.Logger) *BPE {
	return &BPE{logger: logger}
}

func (b *BPE) load() {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("Token encoding unavailable, estimating from byte length",
				"encoding", Encoding,
				"error", err,
			)
		}
		return
	}
	b.enc = enc
}

// Exact reports whether counts come from the BPE encoding.
func (b *BPE) Exact() bool {
	b.once.Do(b.load)
	return b.enc != nil
}

// Count implements Counter.
func (b *BPE) Count(text string) int {
	if text == "" {
		return 0
	}
	b.once.Do(b.load)
	if b.enc == nil {
		return b.fallback.Count(text)
	}
	return len(b.enc.Encode(text, []string{"all"}, nil))
}

// Ratio returns input/output, or 0 when either side is zero.
func Ratio(input, output int) float64 {
	if input <= 0 || output <= 0 {
		return 0
	}
	return float64(input) / float64(output)
}

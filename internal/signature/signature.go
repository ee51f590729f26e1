// Package signature fingerprints response bodies and recognises generic
// "not found" pages by comparing them against a calibrated baseline.
package signature

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"
)

// Signature summarises a response body as (lines, words, chars).
type Signature struct {
	Lines int
	Words int
	Chars int
}

func (s Signature) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.Lines, s.Words, s.Chars)
}

// FromBody computes the signature of a response body. A trailing newline does
// not open a new line and an empty body has zero lines. Chars counts each
// maximal ill-formed UTF-8 subpart as a single replacement character.
func FromBody(body []byte) Signature {
	return Signature{
		Lines: countLines(body),
		Words: len(bytes.Fields(body)),
		Chars: countChars(body),
	}
}

func countChars(body []byte) int {
	n := 0
	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		if r == utf8.RuneError && size == 1 {
			size = invalidPrefix(body)
		}
		body = body[size:]
		n++
	}
	return n
}

// invalidPrefix returns the length of the truncated sequence at the start of
// b, whose first byte does not begin a complete rune.
func invalidPrefix(b []byte) int {
	lo, hi := byte(0x80), byte(0xBF)
	var need int
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 2
	case c == 0xE0:
		need, lo = 3, 0xA0
	case c == 0xED:
		need, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 3
	case c == 0xF0:
		need, lo = 4, 0x90
	case c == 0xF4:
		need, hi = 4, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 4
	default:
		return 1
	}
	i := 1
	for ; i < need && i < len(b); i++ {
		if b[i] < lo || b[i] > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return i
}

func countLines(body []byte) int {
	if len(body) == 0 {
		return 0
	}
	n := bytes.Count(body, []byte{'\n'})
	if body[len(body)-1] != '\n' {
		n++
	}
	return n
}

// Matches reports whether at least two of the three components are equal.
func Matches(a, b Signature) bool {
	equal := 0
	if a.Lines == b.Lines {
		equal++
	}
	if a.Words == b.Words {
		equal++
	}
	if a.Chars == b.Chars {
		equal++
	}
	return equal >= 2
}

// Baseline is a frozen set of signatures. The zero value is an empty baseline.
type Baseline struct {
	sigs []Signature
}

// Len returns the number of distinct signatures.
func (b Baseline) Len() int {
	return len(b.sigs)
}

// Signatures returns a copy of the baseline members, sorted.
func (b Baseline) Signatures() []Signature {
	out := make([]Signature, len(b.sigs))
	copy(out, b.sigs)
	return out
}

// NewBaseline builds a baseline from sigs, collapsing duplicates.
func NewBaseline(sigs ...Signature) Baseline {
	var builder BaselineBuilder
	for _, s := range sigs {
		builder.Add(s)
	}
	return builder.Freeze()
}

// IsNoise reports whether sig structurally matches any baseline member.
func IsNoise(sig Signature, baseline Baseline) bool {
	for _, b := range baseline.sigs {
		if Matches(b, sig) {
			return true
		}
	}
	return false
}

// BaselineBuilder collects signatures during calibration. It is safe for
// concurrent use.
type BaselineBuilder struct {
	mu   sync.Mutex
	seen map[Signature]struct{}
}

// Add inserts sig and reports whether it was new.
func (b *BaselineBuilder) Add(sig Signature) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen == nil {
		b.seen = make(map[Signature]struct{})
	}
	if _, ok := b.seen[sig]; ok {
		return false
	}
	b.seen[sig] = struct{}{}
	return true
}

// Freeze returns an immutable snapshot of the collected signatures.
func (b *BaselineBuilder) Freeze() Baseline {
	b.mu.Lock()
	defer b.mu.Unlock()
	sigs := make([]Signature, 0, len(b.seen))
	for s := range b.seen {
		sigs = append(sigs, s)
	}
	sort.Slice(sigs, func(i, j int) bool {
		if sigs[i].Lines != sigs[j].Lines {
			return sigs[i].Lines < sigs[j].Lines
		}
		if sigs[i].Words != sigs[j].Words {
			return sigs[i].Words < sigs[j].Words
		}
		return sigs[i].Chars < sigs[j].Chars
	})
	return Baseline{sigs: sigs}
}

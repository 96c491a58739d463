package schema

import (
	"fmt"
	mathrand "math/rand/v2"
	"regexp/syntax"
	"strings"
	"unicode"
)

// maxPatternRepeat bounds unbounded repetition such as `*`, `+` and `{n,}`.
const maxPatternRepeat = 8

// Printable ASCII, preferred when a class allows it.
const (
	printableLo = 0x20
	printableHi = 0x7e
)

// Pattern generates strings matching a regular expression.
type Pattern struct {
	source string
	re     *syntax.Regexp
}

// CompilePattern parses a pattern in the syntax accepted by package regexp.
func CompilePattern(source string) (*Pattern, error) {
	re, err := syntax.Parse(source, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %w", ErrInvalidSchema, source, err)
	}
	return &Pattern{source: source, re: re}, nil
}

// String returns the pattern source.
func (p *Pattern) String() string { return p.source }

// Generate returns a random string matching the pattern. Anchors and word
// boundaries are not enforced, so the result is a match rather than a
// full-string match for unanchored patterns.
func (p *Pattern) Generate(rng *mathrand.Rand) string {
	var b strings.Builder
	writePattern(&b, p.re, rng)
	return b.String()
}

func writePattern(b *strings.Builder, re *syntax.Regexp, rng *mathrand.Rand) {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if re.Flags&syntax.FoldCase != 0 && rng.IntN(2) == 0 {
				r = unicode.SimpleFold(r)
			}
			b.WriteRune(r)
		}
	case syntax.OpCharClass:
		b.WriteRune(pickRune(re.Rune, rng))
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		b.WriteRune(rune(printableLo + rng.IntN(printableHi-printableLo+1)))
	case syntax.OpCapture:
		writePattern(b, re.Sub[0], rng)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			writePattern(b, sub, rng)
		}
	case syntax.OpAlternate:
		writePattern(b, re.Sub[rng.IntN(len(re.Sub))], rng)
	case syntax.OpStar:
		repeatPattern(b, re.Sub[0], 0, maxPatternRepeat, rng)
	case syntax.OpPlus:
		repeatPattern(b, re.Sub[0], 1, 1+maxPatternRepeat, rng)
	case syntax.OpQuest:
		repeatPattern(b, re.Sub[0], 0, 1, rng)
	case syntax.OpRepeat:
		hi := re.Max
		if hi < 0 {
			hi = re.Min + maxPatternRepeat
		}
		repeatPattern(b, re.Sub[0], re.Min, hi, rng)
	default:
		// empty match, anchors and word boundaries produce no text
	}
}

func repeatPattern(b *strings.Builder, re *syntax.Regexp, lo, hi int, rng *mathrand.Rand) {
	n := lo
	if hi > lo {
		n += rng.IntN(hi - lo + 1)
	}
	for range n {
		writePattern(b, re, rng)
	}
}

// pickRune chooses a rune from a class given as [lo, hi] pairs. Printable
// ASCII members are preferred so negated classes stay readable.
func pickRune(ranges []rune, rng *mathrand.Rand) rune {
	if len(ranges) == 0 {
		return 'x'
	}
	if printable := clipRanges(ranges, printableLo, printableHi); len(printable) > 0 {
		ranges = printable
	}

	total := 0
	for i := 0; i < len(ranges); i += 2 {
		total += int(ranges[i+1]-ranges[i]) + 1
	}
	k := rng.IntN(total)
	for i := 0; i < len(ranges); i += 2 {
		size := int(ranges[i+1]-ranges[i]) + 1
		if k < size {
			return ranges[i] + rune(k)
		}
		k -= size
	}
	return ranges[0]
}

func clipRanges(ranges []rune, lo, hi rune) []rune {
	var out []rune
	for i := 0; i < len(ranges); i += 2 {
		a, z := max(ranges[i], lo), min(ranges[i+1], hi)
		if a <= z {
			out = append(out, a, z)
		}
	}
	return out
}

package analyzer

import (
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/ludo-technologies/refakt/domain"
)

// structuralKeywords are the control/declaration keywords preserved when a
// line is abstracted into its structural shape. Covers the Python-like,
// JS-like and Go-like families the scanner produces candidates for.
var structuralKeywords = map[string]bool{
	"if": true, "else": true, "elif": true, "for": true, "while": true,
	"switch": true, "case": true, "break": true, "continue": true,
	"return": true, "yield": true, "try": true, "catch": true,
	"except": true, "finally": true, "raise": true, "throw": true,
	"def": true, "func": true, "function": true, "class": true,
	"struct": true, "interface": true, "import": true, "from": true,
	"var": true, "let": true, "const": true, "with": true,
	"async": true, "await": true, "defer": true, "go": true,
	"range": true, "in": true, "not": true, "and": true, "or": true,
}

// Fingerprinter computes coarse structural hashes used for bucketing.
// Two similar fragments may still land in different buckets; the hash is a
// performance aid, never a correctness guarantee.
type Fingerprinter struct{}

// NewFingerprinter creates a new fingerprinter
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// Fingerprint computes the structural hash of a candidate's text.
func (f *Fingerprinter) Fingerprint(text string) uint64 {
	lines := NormalizeBlock(text)
	h := fnv.New64a()
	for _, line := range lines {
		_, _ = h.Write([]byte(structuralShape(line)))
		_, _ = h.Write([]byte{'\n'})
	}
	return h.Sum64()
}

// Bucket groups candidates sharing a structural hash.
func (f *Fingerprinter) Bucket(candidates []*domain.CodeCandidate) map[uint64][]*domain.CodeCandidate {
	buckets := make(map[uint64][]*domain.CodeCandidate)
	for _, c := range candidates {
		key := f.Fingerprint(c.Text)
		buckets[key] = append(buckets[key], c)
	}
	return buckets
}

// structuralShape abstracts one line into its keyword/identifier shape:
// keywords survive, identifiers collapse to "$", numbers to "0", and quoted
// strings to `""`. Punctuation is kept since it carries structure.
func structuralShape(line string) string {
	var shape strings.Builder
	var token strings.Builder
	inString := false
	var quote rune

	flush := func() {
		if token.Len() == 0 {
			return
		}
		word := token.String()
		switch {
		case structuralKeywords[word]:
			shape.WriteString(word)
		case isNumericToken(word):
			shape.WriteString("0")
		default:
			shape.WriteString("$")
		}
		token.Reset()
	}

	for _, r := range line {
		if inString {
			if r == quote {
				inString = false
				shape.WriteString(`""`)
			}
			continue
		}
		switch {
		case r == '"' || r == '\'':
			flush()
			inString = true
			quote = r
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			token.WriteRune(r)
		case r == ' ' || r == '\t':
			flush()
		default:
			flush()
			shape.WriteRune(r)
		}
	}
	flush()
	if inString {
		// Unterminated string literal; treat the remainder as one literal.
		shape.WriteString(`""`)
	}

	return shape.String()
}

func isNumericToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

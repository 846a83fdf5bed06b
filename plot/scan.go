package plot

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// glyphs maps display glyphs to the ASCII spelling the compiler accepts.
var glyphs = strings.NewReplacer(
	"θ", "theta",
	"π", "pi",
	"≤", "<=",
	"≥", ">=",
	"−", "-",
	"×", "*",
	"·", "*",
	"÷", "/",
)

// normalize folds full-width forms (pasted from CJK input methods),
// composes combining sequences and rewrites display glyphs.
func normalize(s string) string {
	s = width.Fold.String(s)
	s = norm.NFC.String(s)
	return strings.TrimSpace(glyphs.Replace(s))
}

// splitTop splits s on any rune in seps that is not nested inside
// parentheses, brackets or braces. Parts are trimmed.
func splitTop(s, seps string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch {
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.ContainsRune(seps, r):
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + len(string(r))
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// opMatch is one comparison operator occurrence in a source line.
type opMatch struct {
	op         Op
	start, end int
}

// findOps returns the top-level comparison operators of s, left to right.
// Operators nested inside function arguments (piecewise(x<0, ...)) belong
// to the argument, not to the line.
func findOps(s string) []opMatch {
	var ops []opMatch
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '<', '>':
			if depth > 0 {
				continue
			}
			m := opMatch{start: i, end: i + 1}
			if i+1 < len(s) && s[i+1] == '=' {
				m.end = i + 2
				m.op = OpLE
				if c == '>' {
					m.op = OpGE
				}
			} else {
				m.op = OpLT
				if c == '>' {
					m.op = OpGT
				}
			}
			ops = append(ops, m)
			i = m.end - 1
		}
	}
	return ops
}

// equalsPositions returns the byte offsets of '=' signs that are not part
// of <=, >=, == or !=.
func equalsPositions(s string) []int {
	var pos []int
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		if i > 0 && strings.IndexByte("<>!=", s[i-1]) >= 0 {
			continue
		}
		if i+1 < len(s) && s[i+1] == '=' {
			continue
		}
		pos = append(pos, i)
	}
	return pos
}

package drawing

import (
	"fmt"
	"strconv"
	"strings"
)

// scanner reads SVG number and flag tokens from attribute values where
// numbers may be packed without separators ("10-5.5.5" is 10, -5.5, .5).
type scanner struct {
	s   string
	pos int
}

func isSep(c byte) bool {
	return c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (sc *scanner) skipSeps() {
	for sc.pos < len(sc.s) && isSep(sc.s[sc.pos]) {
		sc.pos++
	}
}

func (sc *scanner) done() bool {
	sc.skipSeps()
	return sc.pos >= len(sc.s)
}

// atNumber reports whether the next token starts a number.
func (sc *scanner) atNumber() bool {
	sc.skipSeps()
	if sc.pos >= len(sc.s) {
		return false
	}
	c := sc.s[sc.pos]
	return isDigit(c) || c == '-' || c == '+' || c == '.'
}

func (sc *scanner) number() (float64, error) {
	sc.skipSeps()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '-' || sc.s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(sc.s) && isDigit(sc.s[i]) {
		i++
		digits++
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && isDigit(sc.s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("expected number at offset %d in %q", start, sc.s)
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '-' || sc.s[j] == '+') {
			j++
		}
		if j < len(sc.s) && isDigit(sc.s[j]) {
			for j < len(sc.s) && isDigit(sc.s[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %v", sc.s[start:i], err)
	}
	sc.pos = i
	return v, nil
}

// flag reads an arc flag, which may be packed against the next token.
func (sc *scanner) flag() (bool, error) {
	sc.skipSeps()
	if sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case '0':
			sc.pos++
			return false, nil
		case '1':
			sc.pos++
			return true, nil
		}
	}
	return false, fmt.Errorf("expected arc flag at offset %d in %q", sc.pos, sc.s)
}

// parseNumberList parses a separator-delimited list of numbers.
func parseNumberList(s string) ([]float64, error) {
	sc := &scanner{s: s}
	var out []float64
	for !sc.done() {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseLength parses a length attribute in user units. A "px" suffix is
// accepted; other units are rejected.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

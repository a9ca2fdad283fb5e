package protocol

import (
	"strconv"
	"strings"
)

// Tokenizer walks the space separated tokens of a command line. Double
// quotes group spaces into a single token and are stripped; a quote may
// start mid-token, so `name:"two words"` is one token `name:two words`.
type Tokenizer struct {
	tokens []string
	pos    int
}

// Tokenize splits line into tokens.
func Tokenize(line string) *Tokenizer {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	quoted := false

	flush := func() {
		if cur.Len() > 0 || quoted {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
		quoted = false
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			quoted = true
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return &Tokenizer{tokens: tokens}
}

// Count returns the total number of tokens.
func (t *Tokenizer) Count() int { return len(t.tokens) }

// Left returns the number of unconsumed tokens.
func (t *Tokenizer) Left() int { return len(t.tokens) - t.pos }

// Next consumes and returns the next token.
func (t *Tokenizer) Next() (string, bool) {
	if t.pos >= len(t.tokens) {
		return "", false
	}
	tok := t.tokens[t.pos]
	t.pos++
	return tok, true
}

// NextInt consumes the next token and parses it as a decimal integer.
func (t *Tokenizer) NextInt() (int, bool) {
	tok, ok := t.Next()
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Peek returns the next token without consuming it.
func (t *Tokenizer) Peek() (string, bool) {
	if t.pos >= len(t.tokens) {
		return "", false
	}
	return t.tokens[t.pos], true
}

// Rest consumes and returns all remaining tokens joined by single spaces.
func (t *Tokenizer) Rest() string {
	rest := strings.Join(t.tokens[t.pos:], " ")
	t.pos = len(t.tokens)
	return rest
}

// Pair splits a key:value token at the first colon.
func Pair(tok string) (key, value string, ok bool) {
	i := strings.IndexByte(tok, ':')
	if i < 0 {
		return tok, "", false
	}
	return tok[:i], tok[i+1:], true
}

// Quote wraps s in double quotes for transmission. Embedded quotes are
// dropped since the wire format has no escape sequence.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "") + `"`
}

package protocol

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain tokens",
			line: "REGISTER 17 secret",
			want: []string{"REGISTER", "17", "secret"},
		},
		{
			name: "collapses runs of whitespace",
			line: "  ACTION \t 3   call ",
			want: []string{"ACTION", "3", "call"},
		},
		{
			name: "quoted string is one token",
			line: `CHAT -1 "hello there world"`,
			want: []string{"CHAT", "-1", "hello there world"},
		},
		{
			name: "quote starting mid-token",
			line: `CREATE type:holdem name:"my first game" stake:1500`,
			want: []string{"CREATE", "type:holdem", "name:my first game", "stake:1500"},
		},
		{
			name: "empty quoted string survives",
			line: `INFO name:""`,
			want: []string{"INFO", "name:"},
		},
		{
			name: "unterminated quote runs to end of line",
			line: `CHAT 5 "no closing`,
			want: []string{"CHAT", "5", "no closing"},
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok := Tokenize(tt.line)
			var got []string
			for {
				s, ok := tok.Next()
				if !ok {
					break
				}
				got = append(got, s)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTokenizerNextInt(t *testing.T) {
	t.Parallel()

	tok := Tokenize("ACTION 3 bet 250 nan")
	if s, _ := tok.Next(); s != "ACTION" {
		t.Fatalf("Next() = %q, want ACTION", s)
	}
	if n, ok := tok.NextInt(); !ok || n != 3 {
		t.Errorf("NextInt() = %d, %v, want 3, true", n, ok)
	}
	if _, ok := tok.NextInt(); ok {
		t.Error("NextInt() on non-numeric token should fail")
	}
	if n, ok := tok.NextInt(); !ok || n != 250 {
		t.Errorf("NextInt() = %d, %v, want 250, true", n, ok)
	}
	if _, ok := tok.NextInt(); ok {
		t.Error("NextInt() on 'nan' should fail")
	}
	if _, ok := tok.NextInt(); ok {
		t.Error("NextInt() past end should fail")
	}
}

func TestTokenizerRest(t *testing.T) {
	t.Parallel()

	tok := Tokenize("CHAT 12 this is the message")
	tok.Next()
	tok.Next()
	if rest := tok.Rest(); rest != "this is the message" {
		t.Errorf("Rest() = %q", rest)
	}
	if tok.Left() != 0 {
		t.Errorf("Left() after Rest() = %d, want 0", tok.Left())
	}
}

func TestPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tok   string
		key   string
		value string
		ok    bool
	}{
		{"type:holdem", "type", "holdem", true},
		{"name:my first game", "name", "my first game", true},
		{"password:", "password", "", true},
		{"blinds:10:20", "blinds", "10:20", true},
		{"naked", "naked", "", false},
	}

	for _, tt := range tests {
		key, value, ok := Pair(tt.tok)
		if key != tt.key || value != tt.value || ok != tt.ok {
			t.Errorf("Pair(%q) = %q, %q, %v, want %q, %q, %v",
				tt.tok, key, value, ok, tt.key, tt.value, tt.ok)
		}
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	if got := Quote(`say "hi"`); got != `"say hi"` {
		t.Errorf("Quote() = %q", got)
	}
}

package bundle

import "testing"

// spanOf runs bodySpan over src, which must start at the opening brace, and
// returns the extracted inner body.
func spanOf(t *testing.T, src string) (string, bool) {
	t.Helper()
	end, terminated := bodySpan([]byte(src), 0)
	if !terminated {
		return src[1:], false
	}
	return src[1:end-1], true
}

func TestBodySpanSimple(t *testing.T) {
	body, ok := spanOf(t, `{ return 1; } trailing`)
	if !ok {
		t.Fatal("span should terminate")
	}
	if body != " return 1; " {
		t.Errorf("body: got %q", body)
	}
}

func TestBodySpanNestedBraces(t *testing.T) {
	body, ok := spanOf(t, `{ if (x) { y = { a: 1 }; } } rest`)
	if !ok {
		t.Fatal("span should terminate")
	}
	if body != ` if (x) { y = { a: 1 }; } ` {
		t.Errorf("body: got %q", body)
	}
}

func TestBodySpanBraceInString(t *testing.T) {
	// The correctness-critical case: a close brace inside a string literal
	// must not terminate the body.
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"double quoted", `{ var s = "}"; done(); }`, ` var s = "}"; done(); `},
		{"single quoted", `{ var s = '}'; done(); }`, ` var s = '}'; done(); `},
		{"escaped quote", `{ var s = "a\"}"; done(); }`, ` var s = "a\"}"; done(); `},
		{"open brace in string", `{ var s = "{{{"; }`, ` var s = "{{{"; `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ok := spanOf(t, tt.src)
			if !ok {
				t.Fatal("span should terminate")
			}
			if body != tt.want {
				t.Errorf("body: got %q, want %q", body, tt.want)
			}
		})
	}
}

func TestBodySpanBraceInComment(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"line comment", "{ x(); // } not the end\n}"},
		{"block comment", `{ x(); /* } */ }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, terminated := bodySpan([]byte(tt.src), 0)
			if !terminated {
				t.Fatal("span should terminate")
			}
			if end != len(tt.src) {
				t.Errorf("end: got %d, want %d", end, len(tt.src))
			}
		})
	}
}

func TestBodySpanBraceInRegex(t *testing.T) {
	src := `{ var re = /}/; x(); }`
	body, ok := spanOf(t, src)
	if !ok {
		t.Fatal("span should terminate")
	}
	if body != ` var re = /}/; x(); ` {
		t.Errorf("body: got %q", body)
	}
}

func TestBodySpanRegexCharClass(t *testing.T) {
	// A slash inside a character class does not end the regex.
	src := `{ var re = /[/}]/g; }`
	body, ok := spanOf(t, src)
	if !ok {
		t.Fatal("span should terminate")
	}
	if body != ` var re = /[/}]/g; ` {
		t.Errorf("body: got %q", body)
	}
}

func TestBodySpanDivisionNotRegex(t *testing.T) {
	// After a value a slash is division; the close brace after it is real.
	src := `{ x = a / 2; } rest`
	body, ok := spanOf(t, src)
	if !ok {
		t.Fatal("span should terminate")
	}
	if body != ` x = a / 2; ` {
		t.Errorf("body: got %q", body)
	}
}

func TestBodySpanTemplateLiteral(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain template", "{ var s = `}`; }", " var s = `}`; "},
		{"interpolation", "{ var s = `a${ {b: 1}.b }c`; }", " var s = `a${ {b: 1}.b }c`; "},
		{"nested template", "{ var s = `x${ `y${z}` }`; }", " var s = `x${ `y${z}` }`; "},
		{"dollar without brace", "{ var s = `$5`; }", " var s = `$5`; "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ok := spanOf(t, tt.src)
			if !ok {
				t.Fatal("span should terminate")
			}
			if body != tt.want {
				t.Errorf("body: got %q, want %q", body, tt.want)
			}
		})
	}
}

func TestBodySpanUnterminated(t *testing.T) {
	end, terminated := bodySpan([]byte(`{ var x = 1; { nested`), 0)
	if terminated {
		t.Error("span should not terminate")
	}
	if end != len(`{ var x = 1; { nested`) {
		t.Errorf("end: got %d", end)
	}
}

func TestBodySpanUnterminatedString(t *testing.T) {
	// An unterminated string at end-of-input must not loop forever.
	end, terminated := bodySpan([]byte(`{ var s = "abc`), 0)
	if terminated {
		t.Error("span should not terminate")
	}
	if end != len(`{ var s = "abc`) {
		t.Errorf("end: got %d", end)
	}
}

func TestRegexAllowed(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`x = /`, true},
		{`return /`, true},
		{`case /`, true},
		{`f(/`, true},
		{`a /`, false},
		{`a) /`, false},
		{`a] /`, false},
		{`"s" /`, false},
		{`5 /`, false},
	}
	for _, tt := range tests {
		data := []byte(tt.src)
		got := regexAllowed(data, len(data)-1)
		if got != tt.want {
			t.Errorf("regexAllowed(%q): got %v, want %v", tt.src, got, tt.want)
		}
	}
}

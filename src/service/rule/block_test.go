package rule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockEnd(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantEnd int
		wantOK  bool
	}{
		{
			name:    "multi-line",
			lines:   []string{"func a() {", "    if b {", "    }", "}"},
			wantEnd: 3,
			wantOK:  true,
		},
		{
			name:    "single line",
			lines:   []string{"func a() { return 1 }"},
			wantEnd: 0,
			wantOK:  true,
		},
		{
			name:    "braces in strings and comments",
			lines:   []string{`func a() {`, `    let s = "}}"`, `    // }`, `}`},
			wantEnd: 3,
			wantOK:  true,
		},
		{
			name:    "closure in loop header",
			lines:   []string{"for x in xs.filter({ $0 > 1 }) {", "    use(x)", "}"},
			wantEnd: 2,
			wantOK:  true,
		},
		{
			name:   "never balances",
			lines:  []string{"func a() {", "    if b {", "    }"},
			wantOK: false,
		},
		{
			name:   "no opening brace",
			lines:  []string{"func a()", "{", "}"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := blockEnd(tt.lines, 0)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}

func TestBlockBody(t *testing.T) {
	body, ok := blockBody([]string{"for x in xs {", "    a()", "    b()", "}"}, 0)
	assert.True(t, ok)
	assert.Equal(t, "    a()\n    b()", body)

	body, ok = blockBody([]string{"for x in xs { if x { y() } }"}, 0)
	assert.True(t, ok)
	assert.Equal(t, " if x { y() } ", body)

	body, ok = blockBody([]string{"for x in xs.map({ $0 }) { z() }"}, 0)
	assert.True(t, ok)
	assert.Equal(t, " z() ", body)

	_, ok = blockBody([]string{"for x in xs {"}, 0)
	assert.False(t, ok)
}

func TestCodeOnly(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"if a { b() }", "if a { b() }"},
		{`let s = "if {"`, `let s = "    "`},
		{`let s = "a\"b" + x`, `let s = "    " + x`},
		{"x += 1 // for each", "x += 1" + strings.Repeat(" ", 12)},
		{`print("//") // if`, `print("  ")` + strings.Repeat(" ", 6)},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := codeOnly(tt.line)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.line))
		})
	}
}

// Copyright (c) 2026, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"
	"unicode/utf8"

	qt "github.com/frankban/quicktest"
)

func TestExpandANSIC(t *testing.T) {
	t.Parallel()
	tests := [...]struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{`\a\b\e\E\f\n\r\t\v`, "\a\b\x1b\x1b\f\n\r\t\v"},
		{`\\ \' \"`, `\ ' "`},
		{`\0`, "\x00"},
		{`\101\1012`, "AA2"},
		{`\x41\x4g\x`, "A\x04g\\x"},
		{`é\U0001F600`, "é\U0001F600"},
		{`\u`, `\u`},
		{`\ca\cA\c?\c[`, "\x01\x01\x7f\x1b"},
		{`\c`, `\c`},
		{`\z\s`, "zs"},
		{"a\\\nb", "a\nb"},
		{`trailing\`, `trailing\`},
	}
	for _, test := range tests {
		got := ExpandANSIC(test.in)
		qt.Assert(t, got, qt.Equals, test.want, qt.Commentf("input: %q", test.in))
	}
}

func TestExpandExtended(t *testing.T) {
	t.Parallel()
	tests := [...]struct {
		in, want string
	}{
		{`a\sb`, "a b"},
		{`\C-a\C-?`, "\x01\x7f"},
		{`\M-a`, "\xe1"},
		{`\M-\C-a`, "\x81"},
		{`\u{41 42 1F600}`, "AB\U0001F600"},
		{`\u{41`, `\u{41`},
		{"a\\\nb", "ab"},
		{`\C`, "C"},
		{`\t\x41`, "\tA"},
	}
	for _, test := range tests {
		got := ExpandExtended(test.in)
		qt.Assert(t, got, qt.Equals, test.want, qt.Commentf("input: %q", test.in))
	}
}

// Each escape sequence stands for exactly one code point.
func TestExpandANSICLength(t *testing.T) {
	t.Parallel()
	in := `x\té\U0001F600\\\'`
	got := ExpandANSIC(in)
	qt.Assert(t, utf8.RuneCountInString(got), qt.Equals, 6)
}

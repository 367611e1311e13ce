// Copyright (c) 2026, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"strconv"
	"strings"
)

// ExpandANSIC expands the backslash escapes allowed in $'...' strings.
// Octal and \x escapes produce single bytes, while \u and \U produce
// UTF-8 encoded runes. Unknown escapes such as \z yield the escaped
// character.
func ExpandANSIC(s string) string {
	return expandEscapes(s, false)
}

// ExpandExtended is like ExpandANSIC, but also understands \s, the \C-x
// and \M-x key notations, \u{...} with space-separated code points, and
// drops backslash-newline pairs.
func ExpandExtended(s string) string {
	return expandEscapes(s, true)
}

func isOctal(b byte) bool { return b >= '0' && b <= '7' }

func isHex(b byte) bool {
	return isDigit(rune(b)) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// takeRun returns the longest prefix of s of at most max bytes all
// satisfying ok.
func takeRun(s string, max int, ok func(byte) bool) string {
	n := 0
	for n < len(s) && n < max && ok(s[n]) {
		n++
	}
	return s[:n]
}

// control maps the X of \cX to its control character.
func control(b byte) (byte, bool) {
	switch {
	case b == '?':
		return 0x7f, true
	case b >= 0x20 && b <= 0x7e:
		return b & 0x1f, true
	}
	return 0, false
}

func expandEscapes(s string, extended bool) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		c := s[i]
		rest := s[i+1:]
		switch c {
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'e', 'E':
			sb.WriteByte(0x1b)
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			digits := takeRun(s[i:], 3, isOctal)
			n, _ := strconv.ParseUint(digits, 8, 16)
			sb.WriteByte(byte(n))
			i += len(digits) - 1
		case 'x':
			digits := takeRun(rest, 2, isHex)
			if digits == "" {
				sb.WriteString(`\x`)
				break
			}
			n, _ := strconv.ParseUint(digits, 16, 8)
			sb.WriteByte(byte(n))
			i += len(digits)
		case 'u', 'U':
			if extended && c == 'u' && strings.HasPrefix(rest, "{") {
				if body, _, ok := strings.Cut(rest[1:], "}"); ok {
					for _, field := range strings.Fields(body) {
						if n, err := strconv.ParseUint(field, 16, 32); err == nil {
							sb.WriteRune(rune(n))
						}
					}
					i += len(body) + 2
					break
				}
			}
			max := 4
			if c == 'U' {
				max = 8
			}
			digits := takeRun(rest, max, isHex)
			if digits == "" {
				sb.WriteByte('\\')
				sb.WriteByte(c)
				break
			}
			n, _ := strconv.ParseUint(digits, 16, 32)
			sb.WriteRune(rune(n))
			i += len(digits)
		case 'c':
			if rest != "" {
				if b, ok := control(rest[0]); ok {
					sb.WriteByte(b)
					i++
					break
				}
			}
			sb.WriteString(`\c`)
		case 's':
			if extended {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte('s')
			}
		case 'C':
			if extended && len(rest) >= 2 && rest[0] == '-' {
				if b, ok := control(rest[1]); ok {
					sb.WriteByte(b)
					i += 2
					break
				}
			}
			sb.WriteByte(c)
		case 'M':
			if extended && len(rest) >= 2 && rest[0] == '-' {
				if strings.HasPrefix(rest, `-\C-`) && len(rest) >= 5 {
					if b, ok := control(rest[4]); ok {
						sb.WriteByte(b | 0x80)
						i += 5
						break
					}
				}
				sb.WriteByte(rest[1] | 0x80)
				i += 2
				break
			}
			sb.WriteByte(c)
		case '\n':
			if !extended {
				sb.WriteByte('\n')
			}
		default:
			// \\, \', \" and unknown escapes
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

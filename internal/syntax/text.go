package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// StringValue returns the value of a string literal.
func StringValue(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	raw := n.Text()
	switch n.Kind {
	case KindVerbatimStringLiteral:
		if !strings.HasPrefix(raw, `@"`) || !strings.HasSuffix(raw, `"`) || len(raw) < 3 {
			return "", false
		}
		return strings.ReplaceAll(raw[2:len(raw)-1], `""`, `"`), true
	case KindStringLiteral:
		if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
			return "", false
		}
		return unescape(raw[1 : len(raw)-1]), true
	}
	return "", false
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case 'u':
			if i+4 < len(s) {
				if r, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			b.WriteString(`\u`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Quote renders s as a regular C# string literal.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Indentation returns the whitespace between the start of the node's line and the node.
func Indentation(n *Node) string {
	if n == nil || n.File == nil {
		return ""
	}
	src := n.File.Source
	lineStart := n.Start
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	prefix := src[lineStart:n.Start]
	for i, c := range prefix {
		if c != ' ' && c != '\t' {
			return string(prefix[:i])
		}
	}
	return string(prefix)
}

// LineEnding returns the line ending used by the file.
func LineEnding(f *File) string {
	if f != nil && strings.Contains(string(f.Source), "\r\n") {
		return "\r\n"
	}
	return "\n"
}

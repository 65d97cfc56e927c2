package rewrite

import (
	"strings"

	"contractfix/internal/syntax"
)

const defaultIndentUnit = "    "

// StatementIndent returns the indentation for statements inside block.
func StatementIndent(block *syntax.Node) string {
	for _, stmt := range block.NamedChildren() {
		if !stmt.Is(syntax.KindComment) {
			return syntax.Indentation(stmt)
		}
	}
	return syntax.Indentation(block) + IndentUnit(block)
}

// IndentUnit guesses one level of indentation for the file containing n.
func IndentUnit(n *syntax.Node) string {
	if n != nil && n.File != nil && strings.Contains(string(n.File.Source), "\n\t") {
		return "\t"
	}
	return defaultIndentUnit
}

// Reindent moves the continuation lines of text from one indentation to another.
func Reindent(text, from, to string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		cr := len(line) != len(lines[i])
		if strings.HasPrefix(line, from) {
			line = to + strings.TrimPrefix(line, from)
		}
		if cr {
			line += "\r"
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// InsertStatements returns the edit adding stmts at the top of block, one per line.
// A block written on one line is opened up so every statement and the closing brace
// get lines of their own.
func InsertStatements(block *syntax.Node, stmts []*syntax.Node) Edit {
	open, closing := braces(block)
	oneLine := open != nil && closing != nil && open.StartPos.Row == closing.StartPos.Row

	indent := StatementIndent(block)
	if oneLine {
		indent = syntax.Indentation(block) + IndentUnit(block)
	}
	eol := syntax.LineEnding(block.File)
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(eol)
		b.WriteString(indent)
		b.WriteString(Reindent(s.Text(), syntax.Indentation(s), indent))
	}
	if !oneLine {
		pos := block.Start + 1
		if open != nil {
			pos = open.End
		}
		return Insert(pos, b.String())
	}

	src := block.File.Source
	if rest := strings.TrimSpace(string(src[open.End:closing.Start])); rest != "" {
		b.WriteString(eol)
		b.WriteString(indent)
		b.WriteString(rest)
	}
	b.WriteString(eol)
	b.WriteString(syntax.Indentation(block))
	return Edit{Start: open.End, End: closing.Start, NewText: b.String()}
}

func braces(block *syntax.Node) (open, closing *syntax.Node) {
	for _, ch := range block.Children {
		if ch.Named {
			continue
		}
		switch ch.Text() {
		case "{":
			if open == nil {
				open = ch
			}
		case "}":
			closing = ch
		}
	}
	return open, closing
}

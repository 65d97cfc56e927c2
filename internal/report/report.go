// Package report renders findings for people and tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"contractfix/internal/rules"
)

// Format is an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts text, markdown (or md) and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

type RuleCount struct {
	Rule    rules.ID `json:"rule"`
	Title   string   `json:"title"`
	Count   int      `json:"count"`
	Fixable int      `json:"fixable"`
}

type Summary struct {
	Findings int         `json:"findings"`
	Files    int         `json:"files"`
	Fixable  int         `json:"fixable"`
	ByRule   []RuleCount `json:"by_rule"`
}

// Summarize counts findings per rule, in rule order.
func Summarize(findings []rules.Finding) Summary {
	s := Summary{Findings: len(findings)}
	files := make(map[string]bool)
	counts := make(map[rules.ID]*RuleCount)
	for _, f := range findings {
		files[f.Path] = true
		rc, ok := counts[f.Rule]
		if !ok {
			rc = &RuleCount{Rule: f.Rule, Title: f.Rule.Rule().Title}
			counts[f.Rule] = rc
		}
		rc.Count++
		if f.Fixable() {
			rc.Fixable++
			s.Fixable++
		}
	}
	s.Files = len(files)
	for _, rc := range counts {
		s.ByRule = append(s.ByRule, *rc)
	}
	sort.Slice(s.ByRule, func(i, j int) bool { return s.ByRule[i].Rule < s.ByRule[j].Rule })
	return s
}

// Write renders findings to w.
func Write(w io.Writer, format Format, findings []rules.Finding) error {
	switch format {
	case FormatText, "":
		return writeText(w, findings)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(findings))
		return err
	case FormatJSON:
		return writeJSON(w, findings)
	}
	return fmt.Errorf("unknown report format %q", format)
}

func writeText(w io.Writer, findings []rules.Finding) error {
	for _, f := range findings {
		if _, err := fmt.Fprintln(w, hangingIndent(f.String())); err != nil {
			return err
		}
	}
	s := Summarize(findings)
	_, err := fmt.Fprintf(w, "%d finding(s) in %d file(s), %d fixable\n", s.Findings, s.Files, s.Fixable)
	return err
}

// Markdown renders a findings table per file followed by a rule summary.
func Markdown(findings []rules.Finding) string {
	var sb strings.Builder
	sb.WriteString("# Contract findings\n\n")
	if len(findings) == 0 {
		sb.WriteString("No findings.\n")
		return sb.String()
	}

	byFile := make(map[string][]rules.Finding)
	var paths []string
	for _, f := range findings {
		if _, ok := byFile[f.Path]; !ok {
			paths = append(paths, f.Path)
		}
		byFile[f.Path] = append(byFile[f.Path], f)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fmt.Fprintf(&sb, "## `%s`\n\n", p)
		sb.WriteString("| Line | Rule | Message | Fix |\n")
		sb.WriteString("| :--- | :--- | :--- | :--- |\n")
		for _, f := range byFile[p] {
			fix := "no"
			if f.Fixable() {
				fix = "yes"
			}
			fmt.Fprintf(&sb, "| %d:%d | %s | %s | %s |\n", f.Line, f.Column, f.Rule, cell(f.Message), fix)
		}
		sb.WriteString("\n")
	}

	s := Summarize(findings)
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Rule | Title | Findings | Fixable |\n")
	sb.WriteString("| :--- | :--- | ---: | ---: |\n")
	for _, rc := range s.ByRule {
		fmt.Fprintf(&sb, "| %s | %s | %d | %d |\n", rc.Rule, rc.Title, rc.Count, rc.Fixable)
	}
	fmt.Fprintf(&sb, "\n%d finding(s) in %d file(s).\n", s.Findings, s.Files)
	return sb.String()
}

type jsonFinding struct {
	Rule    rules.ID `json:"rule"`
	Path    string   `json:"path"`
	Line    int      `json:"line"`
	Column  int      `json:"column"`
	Message string   `json:"message"`
	Fixable bool     `json:"fixable"`
}

type jsonReport struct {
	Findings []jsonFinding `json:"findings"`
	Summary  Summary       `json:"summary"`
}

func writeJSON(w io.Writer, findings []rules.Finding) error {
	out := jsonReport{Findings: make([]jsonFinding, 0, len(findings)), Summary: Summarize(findings)}
	for _, f := range findings {
		out.Findings = append(out.Findings, jsonFinding{
			Rule:    f.Rule,
			Path:    f.Path,
			Line:    f.Line,
			Column:  f.Column,
			Message: f.Message,
			Fixable: f.Fixable(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// cell flattens text for a table cell.
func cell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// hangingIndent indents continuation lines of multi-line messages.
func hangingIndent(s string) string {
	lines := strings.Split(strings.TrimRight(s, " \r\n"), "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if i > 0 {
			l = "    " + l
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}

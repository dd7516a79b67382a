// Package scriptlet implements the markdown scriptlet engine (C7): it
// parses a markdown file where each level-2 heading defines one scriptlet,
// extracts metadata/tool/inputs, templates the body, and executes it
// through the tool-appropriate backend.
package scriptlet

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// Scriptlet is one parsed `## Heading` section of a markdown file (§4.7).
type Scriptlet struct {
	Name     string
	Metadata map[string]string
	Tool     string // fenced block's info string, e.g. "bash", "python", "open", "type"
	Body     string

	NamedInputs     []string // {{name}} placeholders, first-occurrence order
	PositionalArgs  bool     // body references $1.. or $@
}

var metaLineRe = regexp.MustCompile(`^\s*<!--\s*([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.*?)\s*-->\s*$`)
var namedPlaceholderRe = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)
var positionalRe = regexp.MustCompile(`\$(?:[1-9]|@)`)

// Parse extracts every scriptlet from a markdown document.
func Parse(doc []byte) ([]Scriptlet, error) {
	root := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions)).Parse(doc)

	var scriptlets []Scriptlet
	var current *Scriptlet
	var metaLines []string

	flush := func() {
		if current == nil {
			return
		}
		current.Metadata = parseMetadata(metaLines)
		current.NamedInputs = extractNamedInputs(current.Body)
		current.PositionalArgs = positionalRe.MatchString(current.Body)
		scriptlets = append(scriptlets, *current)
		current = nil
		metaLines = nil
	}

	root.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			return blackfriday.GoToNext
		}
		switch n.Type {
		case blackfriday.Heading:
			if n.HeadingData.Level == 2 {
				flush()
				current = &Scriptlet{Name: headingText(n)}
			}
		case blackfriday.HTMLBlock:
			if current != nil && current.Tool == "" {
				for _, line := range strings.Split(string(n.Literal), "\n") {
					if metaLineRe.MatchString(line) {
						metaLines = append(metaLines, line)
					}
				}
			}
		case blackfriday.CodeBlock:
			if current != nil && current.Tool == "" {
				current.Tool = strings.TrimSpace(string(n.CodeBlockData.Info))
				current.Body = string(n.Literal)
			}
		}
		return blackfriday.GoToNext
	})
	flush()

	return scriptlets, nil
}

func headingText(n *blackfriday.Node) string {
	var sb strings.Builder
	n.Walk(func(c *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && c.Type == blackfriday.Text {
			sb.Write(c.Literal)
		}
		return blackfriday.GoToNext
	})
	return sb.String()
}

func parseMetadata(lines []string) map[string]string {
	m := make(map[string]string)
	for _, line := range lines {
		match := metaLineRe.FindStringSubmatch(line)
		if match != nil {
			m[match[1]] = match[2]
		}
	}
	return m
}

// extractNamedInputs returns {{name}} placeholders in first-occurrence
// order, deduplicated (§4.7 Inputs).
func extractNamedInputs(body string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range namedPlaceholderRe.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// shellFamily lists tool names whose substitution policy is shell-escaped
// (§4.7 templating policy).
var shellFamily = map[string]bool{
	"bash": true, "sh": true, "zsh": true, "fish": true,
}

// IsShellTool reports whether tool belongs to the shell family.
func IsShellTool(tool string) bool { return shellFamily[tool] }

package scriptlet

import (
	"regexp"
	"strconv"
	"strings"
)

// conditionalRe mirrors promptengine's {{#if name}}...{{/if}} syntax; kept
// as its own regexp here since scriptlet has no dependency on promptengine.
var conditionalRe = regexp.MustCompile(`(?s)\{\{#if ([A-Za-z_][A-Za-z0-9_]*)\}\}(.*?)\{\{/if\}\}`)

// shellQuote wraps s in single quotes, escaping embedded single quotes via
// the standard '\'' sequence, defeating shell metacharacter injection
// (§4.7 testable property 7, scenario S5).
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Render substitutes named {{name}} placeholders and positional $1..$9/$@
// arguments into body, applying tool-appropriate escaping: shell-family
// tools get every value single-quoted, non-shell tools get raw substitution.
func Render(body, tool string, named map[string]string, positional []string) string {
	quote := func(v string) string { return v }
	if IsShellTool(tool) {
		quote = shellQuote
	}

	out := namedPlaceholderRe.ReplaceAllStringFunc(body, func(m string) string {
		name := namedPlaceholderRe.FindStringSubmatch(m)[1]
		v, ok := named[name]
		if !ok {
			return m
		}
		return quote(v)
	})

	out = substitutePositional(out, positional, quote)
	return out
}

// substitutePositional replaces $1..$9 with the corresponding element of
// args (1-indexed) and $@ with every argument, quoted individually and
// joined by a space (§4.7).
func substitutePositional(body string, args []string, quote func(string) string) string {
	var sb strings.Builder
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '$' || i+1 >= len(runes) {
			sb.WriteRune(r)
			continue
		}
		next := runes[i+1]
		if next == '@' {
			parts := make([]string, len(args))
			for j, a := range args {
				parts[j] = quote(a)
			}
			sb.WriteString(strings.Join(parts, " "))
			i++
			continue
		}
		if next >= '1' && next <= '9' {
			idx, _ := strconv.Atoi(string(next))
			if idx-1 < len(args) {
				sb.WriteString(quote(args[idx-1]))
			}
			i++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ResolveConditionals resolves {{#if name}}...{{/if}} blocks against the
// supplied named values, sharing syntax with the prompt engine's template
// resolution (truthiness: present and non-empty).
func ResolveConditionals(body string, named map[string]string) string {
	return conditionalRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := conditionalRe.FindStringSubmatch(m)
		name, inner := sub[1], sub[2]
		if v, ok := named[name]; ok && v != "" {
			return inner
		}
		return ""
	})
}

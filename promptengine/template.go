package promptengine

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// placeholderCache memoizes ExtractPlaceholders by body text, so opening a
// template prompt whose body was seen before skips the regex scan (the
// engine extracts placeholders once per opened template). Carried forward
// from the teacher's own use of golang-lru for its regex cache.
var placeholderCache, _ = lru.New[string, []string](256)

// ExtractPlaceholders returns `{{name}}` placeholders in first-occurrence
// order with duplicates removed (§4.5 Template).
func ExtractPlaceholders(body string) []string {
	if cached, ok := placeholderCache.Get(body); ok {
		return cached
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	placeholderCache.Add(body, out)
	return out
}

// FillTemplate substitutes every placeholder occurrence (not just the
// first) with values[name], leaving unknown placeholders untouched
// (testable property 10: idempotence when there are no placeholders, and
// substitution count equals total occurrences).
func FillTemplate(body string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}

// conditionalRe matches {{#if name}} ... {{/if}} blocks (§4.7 scriptlet
// templating shares this conditional syntax).
var conditionalRe = regexp.MustCompile(`(?s)\{\{#if ([A-Za-z_][A-Za-z0-9_]*)\}\}(.*?)\{\{/if\}\}`)

// ResolveConditionals strips {{#if name}}...{{/if}} blocks, keeping the
// inner body only when values[name] is a non-empty, non-"false" string.
func ResolveConditionals(body string, values map[string]string) string {
	return conditionalRe.ReplaceAllStringFunc(body, func(block string) string {
		m := conditionalRe.FindStringSubmatch(block)
		name, inner := m[1], m[2]
		v := values[name]
		if v != "" && !strings.EqualFold(v, "false") {
			return inner
		}
		return ""
	})
}

// Package web renders the portal's HTML: placeholder substitution over static
// templates plus the embedded default index page.
package web

import "strings"

// Render substitutes ${key} placeholders in tmpl with values from messages.
// The scan is a single left-to-right pass: substituted values are never
// re-scanned, so a message containing ${...} cannot trigger recursive
// substitution. Unknown keys resolve to the empty string, never to the
// literal placeholder.
func Render(tmpl string, messages map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))
	for {
		start := strings.Index(tmpl, "${")
		if start < 0 {
			b.WriteString(tmpl)
			break
		}
		end := strings.Index(tmpl[start+2:], "}")
		if end < 0 {
			b.WriteString(tmpl)
			break
		}
		b.WriteString(tmpl[:start])
		key := tmpl[start+2 : start+2+end]
		b.WriteString(messages[key])
		tmpl = tmpl[start+2+end+1:]
	}
	return b.String()
}

// Interpolate replaces one {name} variable inside an already-selected message,
// e.g. the allowed-suffix list in a rejection body. It deliberately does not
// feed the result back through Render.
func Interpolate(message, name, value string) string {
	return strings.ReplaceAll(message, "{"+name+"}", value)
}

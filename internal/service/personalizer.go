// internal/service/personalizer.go
package service

import (
	"regexp"
	"strings"

	"github.com/pitchkit/outreach-backend/internal/model"
)

// Merge tags come in two forms:
//
//	{{field}}           resolved against the contact, then tenant fallbacks
//	{{field|fallback}}  resolved against the contact, else the literal fallback
//
// Field lookup is case-insensitive and ignores spaces, underscores and
// hyphens, so {{First Name}}, {{first_name}} and {{firstName}} are the
// same tag.
var mergeTagPattern = regexp.MustCompile(`\{\{\s*([^{}|]+?)\s*(?:\|\s*([^{}]*?)\s*)?\}\}`)

// PersonalizationResult is the outcome of rendering one template.
// A non-empty Unresolved list means the text still contains literal
// {{...}} tags and must never be sent.
type PersonalizationResult struct {
	Text       string
	Unresolved []string
}

// Personalize fills merge tags in template from the contact's canonical
// field map and the tenant's fallback values. Tags that resolve nowhere
// are left verbatim in the output and reported in Unresolved.
func Personalize(template string, fields, fallbacks map[string]string) PersonalizationResult {
	unresolved := []string{}

	text := mergeTagPattern.ReplaceAllStringFunc(template, func(tag string) string {
		groups := mergeTagPattern.FindStringSubmatch(tag)
		rawField := groups[1]
		key := model.NormalizeFieldKey(rawField)

		if v, ok := fields[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}

		// {{field|fallback}}: the pipe form always resolves, even to an
		// empty fallback string.
		if strings.Contains(tag, "|") {
			return groups[2]
		}

		// Tenant fallbacks cover the legacy aliases ({{firstName}},
		// {{company}}) because lookup keys are normalized the same way.
		if v, ok := fallbacks[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}

		unresolved = append(unresolved, rawField)
		return tag
	})

	return PersonalizationResult{Text: text, Unresolved: unresolved}
}

// NormalizeFallbacks rebuilds a tenant fallback map with canonical keys.
func NormalizeFallbacks(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[model.NormalizeFieldKey(k)] = v
	}
	return out
}

package outreach

import "strings"

// Template placeholders replaced with the profile's displayed name.
const (
	PlaceholderFullName  = "[FULL NAME]"
	PlaceholderFirstName = "[FIRST NAME]"
)

// MaxMessageLength is the longest note the site accepts with an invitation.
const MaxMessageLength = 300

var honorifics = map[string]struct{}{
	"dr": {}, "dr.": {},
	"mr": {}, "mr.": {},
	"mrs": {}, "mrs.": {},
	"ms": {}, "ms.": {},
	"prof": {}, "prof.": {},
}

// FirstName returns the first token of fullName, skipping a leading honorific.
func FirstName(fullName string) string {
	tokens := strings.Fields(fullName)
	if len(tokens) == 0 {
		return ""
	}
	if _, ok := honorifics[strings.ToLower(tokens[0])]; ok && len(tokens) > 1 {
		return tokens[1]
	}
	return tokens[0]
}

// ComposeMessage substitutes the name placeholders in template.
func ComposeMessage(template, fullName string) string {
	fullName = strings.TrimSpace(fullName)
	msg := strings.ReplaceAll(template, PlaceholderFullName, fullName)
	return strings.ReplaceAll(msg, PlaceholderFirstName, FirstName(fullName))
}

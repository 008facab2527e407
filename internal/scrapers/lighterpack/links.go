package lighterpack

import (
	"regexp"
)

// lighterpack links are usually pasted without a scheme, so only the host and
// path are matched. trailing punctuation that happens to be a word character
// stays in the match.
var linkRegex = regexp.MustCompile(`lighterpack\.com/[\w/]+`)

// ExtractLinks returns every distinct lighterpack link in text, in order of
// first appearance, with https:// prepended.
func ExtractLinks(text string) []string {
	var links []string
	seen := make(map[string]struct{})
	for _, match := range linkRegex.FindAllString(text, -1) {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		links = append(links, "https://"+match)
	}
	return links
}

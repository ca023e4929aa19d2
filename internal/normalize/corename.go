package normalize

import (
	"regexp"
	"strings"
)

var (
	// Codes embedded in parentheses: "ar-740", "ar-825h" style, and compact
	// "pq0015066" style.
	hyphenCodeRe  = regexp.MustCompile(`\(([a-z]{2,3}-?\d+[a-z]*)\)`)
	compactCodeRe = regexp.MustCompile(`\(([a-z]{2}\d+)\)`)
	parenGroupRe  = regexp.MustCompile(`\([^)]*\)`)
	leadingWordRe = regexp.MustCompile(`^[a-z]+\s*[a-z]*`)
)

// CoreName derives a stable core identity string from a noisy product label:
// the first two tokens of the label with parenthesized descriptions removed,
// plus the most specific product code recovered from those parentheses.
// Empty input yields an empty string.
func CoreName(label string) string {
	text := strings.ToLower(strings.TrimSpace(label))
	if text == "" {
		return ""
	}

	var codes []string
	for _, m := range hyphenCodeRe.FindAllStringSubmatch(text, -1) {
		codes = append(codes, m[1])
	}
	for _, m := range compactCodeRe.FindAllStringSubmatch(text, -1) {
		codes = append(codes, m[1])
	}

	text = parenGroupRe.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")

	var base string
	if leadingWordRe.MatchString(text) {
		words := strings.Fields(text)
		switch {
		case len(words) >= 2:
			base = words[0] + " " + words[1]
		case len(words) == 1:
			base = words[0]
		}
	} else {
		base = text
	}

	if len(codes) > 0 {
		code := codes[0]
		// Codes carrying both a hyphen and a letter are more specific.
		for _, c := range codes {
			if strings.Contains(c, "-") && hasAlpha(c) {
				code = c
				break
			}
		}
		return strings.TrimSpace(base + " " + code)
	}
	return base
}

package security

import "strings"

// PIIDetector scans prompts for keywords suggesting the user is pasting
// credentials or personal data. Matching is case-insensitive substring; an
// empty keyword list disables the check entirely.
type PIIDetector struct {
	keywords []string
}

func NewPIIDetector(keywords []string) *PIIDetector {
	d := &PIIDetector{keywords: make([]string, 0, len(keywords))}
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw != "" {
			d.keywords = append(d.keywords, kw)
		}
	}
	return d
}

// Detect returns the first matched keyword, or "" when the text is clean
func (d *PIIDetector) Detect(text string) string {
	if len(d.keywords) == 0 {
		return ""
	}
	haystack := strings.ToLower(text)
	for _, kw := range d.keywords {
		if strings.Contains(haystack, kw) {
			return kw
		}
	}
	return ""
}

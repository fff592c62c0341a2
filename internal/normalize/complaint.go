package normalize

import (
	"regexp"
	"strings"
)

var (
	// complaintPrefixRE matches a leading "<digit>." service marker.
	complaintPrefixRE = regexp.MustCompile(`^\s*([1-4])\.\s*`)

	// incidentNumberRE matches incident numbers like "01.AAC4685/26".
	incidentNumberRE = regexp.MustCompile(`^\d{2}\.[A-Z0-9]{6,8}/\d{2}$`)

	digitRunRE      = regexp.MustCompile(`\d+`)
	serviceSepRE    = regexp.MustCompile(`[;,/|\s]+`)
	prefixToService = map[string]string{"1": "101", "2": "102", "3": "103", "4": "104"}
)

// ComplaintPrefix splits a leading "<digit>." marker off a complaint and maps
// it to its service code (1→101 … 4→104). Repeated leading markers are all
// stripped; the first one decides the service. Without a marker the service
// is "" and the text is returned trimmed.
func ComplaintPrefix(s string) (service, text string) {
	text = Clean(s)
	for {
		m := complaintPrefixRE.FindStringSubmatch(text)
		if m == nil {
			break
		}
		if service == "" {
			service = prefixToService[m[1]]
		}
		text = strings.TrimSpace(text[len(m[0]):])
	}
	return service, text
}

// HasComplaintPrefix reports whether s still begins with a service marker.
func HasComplaintPrefix(s string) bool {
	return complaintPrefixRE.MatchString(s)
}

// IsIncidentNumber reports whether s is shaped like a 112 incident number.
func IsIncidentNumber(s string) bool {
	return incidentNumberRE.MatchString(strings.TrimSpace(s))
}

// ServiceList extracts service codes from free text. Digit runs equal to
// 101-104 are returned in first-seen order without duplicates. When no code is
// present the text is split on ; , / | and whitespace and the non-empty tokens
// are returned as raw labels.
func ServiceList(s string) []string {
	s = Clean(s)
	if s == "" {
		return nil
	}

	var codes []string
	seen := make(map[string]bool)
	for _, run := range digitRunRE.FindAllString(s, -1) {
		if _, ok := serviceCodeSet[run]; ok && !seen[run] {
			seen[run] = true
			codes = append(codes, run)
		}
	}
	if len(codes) > 0 {
		return codes
	}

	var labels []string
	for _, tok := range serviceSepRE.Split(s, -1) {
		if tok != "" {
			labels = append(labels, tok)
		}
	}
	return labels
}

var serviceCodeSet = map[string]struct{}{"101": {}, "102": {}, "103": {}, "104": {}}

// ServiceCode coerces a 112 service cell to its string code. Float
// serialization ("102.0") is undone; absent values return "".
func ServiceCode(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}
	if head, tail, ok := strings.Cut(s, "."); ok && strings.Trim(tail, "0") == "" && head != "" {
		return head
	}
	return s
}

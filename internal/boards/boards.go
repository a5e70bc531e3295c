package boards

import (
	"net/url"
	"strings"
)

// Site pairs a host substring with a board's display name.
type Site struct {
	HostPattern string
	DisplayName string
}

// registry order is load-bearing: Classify returns the first entry whose
// pattern appears anywhere in the lowercased host. Containment is not
// suffix-safe, so the table has to be curated to avoid collisions; a few
// entries carry a path segment or a space and can never match a bare host.
var registry = []Site{
	// North American boards
	{"linkedin.com", "LinkedIn"},
	{"indeed.com", "Indeed"},
	{"indeed.ca", "Indeed"},
	{"glassdoor.com", "Glassdoor"},
	{"glassdoor.ca", "Glassdoor"},
	{"monster.com", "Monster"},
	{"monster.ca", "Monster"},
	{"ziprecruiter.com", "ZipRecruiter"},
	{"careerbuilder.com", "CareerBuilder"},

	// Canadian
	{"jobbank.gc.ca", "Job Bank Canada"},
	{"workopolis.com", "Workopolis"},
	{"eluta.ca", "Eluta"},
	{"charity village.com", "CharityVillage"},
	{"canadajobs.com", "CanadaJobs"},

	// Tech focused
	{"stackoverflow.com/jobs", "Stack Overflow Jobs"},
	{"github.com/jobs", "GitHub Jobs"},
	{"angel.co", "AngelList"},
	{"wellfound.com", "Wellfound"},
	{"dice.com", "Dice"},
	{"hired.com", "Hired"},
	{"triplebyte.com", "Triplebyte"},

	// International
	{"seek.com.au", "Seek"},
	{"seek.co.nz", "Seek"},
	{"totaljobs.com", "TotalJobs"},
	{"reed.co.uk", "Reed"},
	{"cv-library.co.uk", "CV-Library"},

	// ATS platforms
	{"greenhouse.io", "Greenhouse"},
	{"lever.co", "Lever"},
	{"myworkdayjobs.com", "Workday"},
	{"workday.com", "Workday"},
	{"taleo.net", "Taleo"},
	{"icims.com", "iCIMS"},
	{"successfactors.com", "SuccessFactors"},
	{"brassring.com", "BrassRing"},
	{"ultipro.com", "UltiPro"},
	{"paylocity.com", "Paylocity"},
	{"bamboohr.com", "BambooHR"},
}

// Classify maps a URL to a known board. First table match wins.
func Classify(raw string) (Site, bool) {
	host := Host(raw)
	if host == "" {
		return Site{}, false
	}
	for _, s := range registry {
		if strings.Contains(host, strings.ToLower(s.HostPattern)) {
			return s, true
		}
	}
	return Site{}, false
}

func IsKnown(raw string) bool {
	_, ok := Classify(raw)
	return ok
}

// DisplayName returns the board name, or "" for an unknown host.
func DisplayName(raw string) string {
	s, ok := Classify(raw)
	if !ok {
		return ""
	}
	return s.DisplayName
}

// Host returns the lowercased host of raw, or "" if raw does not parse.
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Host)
}

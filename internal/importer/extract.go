package importer

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Fields is one extraction stage's proposal. Stages never overwrite each
// other; the orchestrator merges stage outputs first-non-empty-wins, so the
// order of the strategy table below decides precedence.
type Fields struct {
	Title       string
	Company     string
	Location    string
	Salary      string
	Description string
	Notes       string
}

func (f Fields) merge(next Fields) Fields {
	if f.Title == "" {
		f.Title = next.Title
	}
	if f.Company == "" {
		f.Company = next.Company
	}
	if f.Location == "" {
		f.Location = next.Location
	}
	if f.Salary == "" {
		f.Salary = next.Salary
	}
	if f.Description == "" {
		f.Description = next.Description
	}
	if f.Notes == "" {
		f.Notes = next.Notes
	}
	return f
}

// Marker patterns are contracts against a specific site's markup. They stay
// textual regexes on purpose: a tree parser would normalize the malformed
// HTML these pages actually serve and change what gets extracted.
var (
	// LinkedIn logged-out job pages, "top card" layout.
	linkedinTitleRE    = regexp.MustCompile(`(?is)<h1[^>]*class="[^"]*top-card-layout__title[^"]*"[^>]*>(.*?)</h1>`)
	linkedinCompanyRE  = regexp.MustCompile(`(?is)<a[^>]*class="[^"]*topcard__org-name-link[^"]*"[^>]*>(.*?)</a>`)
	linkedinLocationRE = regexp.MustCompile(`(?is)<span[^>]*class="[^"]*topcard__flavor[^"]*"[^>]*>(.*?)</span>`)
	linkedinDescRE     = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*description__text[^"]*"[^>]*>(.*?)</div>`)

	// Indeed viewjob pages, jobsearch-* class scheme.
	indeedTitleRE    = regexp.MustCompile(`(?is)<h1[^>]*class="[^"]*jobsearch-JobInfoHeader-title[^"]*"[^>]*>(.*?)</h1>`)
	indeedCompanyRE  = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*jobsearch-InlineCompanyRating[^"]*"[^>]*>.*?<a[^>]*>(.*?)</a>`)
	indeedLocationRE = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*jobsearch-JobInfoHeader-subtitle[^"]*"[^>]*>.*?<div[^>]*>(.*?)</div>`)
	indeedSalaryRE   = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*salary-snippet[^"]*"[^>]*>(.*?)</div>`)

	// Glassdoor job listing pages.
	glassdoorTitleRE    = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*jobTitle[^"]*"[^>]*>(.*?)</div>`)
	glassdoorCompanyRE  = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*employerName[^"]*"[^>]*>(.*?)</div>`)
	glassdoorLocationRE = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*location[^"]*"[^>]*>(.*?)</div>`)
	glassdoorSalaryRE   = regexp.MustCompile(`(?is)<span[^>]*class="[^"]*salary[^"]*"[^>]*>(.*?)</span>`)

	// Government of Canada Job Bank postings.
	jobbankTitleRE   = regexp.MustCompile(`(?is)<h1[^>]*id="jb-jobtitle"[^>]*>(.*?)</h1>`)
	jobbankCompanyRE = regexp.MustCompile(`(?is)<span[^>]*class="[^"]*noc-no-wrap[^"]*"[^>]*>(.*?)</span>`)

	// Greenhouse hosted boards.
	greenhouseTitleRE    = regexp.MustCompile(`(?is)<h1[^>]*class="[^"]*app-title[^"]*"[^>]*>(.*?)</h1>`)
	greenhouseLocationRE = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*location[^"]*"[^>]*>(.*?)</div>`)

	// Lever hosted postings.
	leverTitleRE    = regexp.MustCompile(`(?is)<h2[^>]*class="[^"]*posting-headline[^"]*"[^>]*>(.*?)</h2>`)
	leverLocationRE = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*location[^"]*"[^>]*>(.*?)</div>`)

	// Workday job postings (data-automation-id markers survive their SPA shell).
	workdayTitleRE = regexp.MustCompile(`(?is)<h1[^>]*data-automation-id="jobPostingHeader"[^>]*>(.*?)</h1>`)
)

// Generic title candidates, tried in order. A match shorter than the
// threshold is skipped and the next pattern gets a chance.
var genericTitleREs = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`),
	regexp.MustCompile(`(?is)<title>(.*?)</title>`),
	regexp.MustCompile(`(?is)<meta[^>]*property="og:title"[^>]*content="([^"]*)"`),
}

// minTitleLen keeps nav fragments and icon glyphs from winning the generic pass.
const minTitleLen = 5

// maxDescriptionLen caps imported descriptions; the form is for skimming,
// not the full posting.
const maxDescriptionLen = 500

type strategy struct {
	name     string
	match    func(host string) bool
	fromHTML func(html string) Fields
	fromURL  func(u *url.URL) Fields
}

// strategies runs in declared order; the first host match wins. URL-only
// rules (fromURL) need no page content and apply even when the fetch failed.
var strategies = []strategy{
	{name: "linkedin", match: hostHas("linkedin.com"), fromHTML: extractLinkedIn, fromURL: linkedInFromURL},
	{name: "indeed", match: hostHasAny("indeed.com", "indeed.ca"), fromHTML: extractIndeed},
	{name: "glassdoor", match: hostHasAny("glassdoor.com", "glassdoor.ca"), fromHTML: extractGlassdoor},
	{name: "jobbank", match: hostHas("jobbank.gc.ca"), fromHTML: extractJobBank},
	{name: "greenhouse", match: hostHas("greenhouse.io"), fromHTML: extractGreenhouse, fromURL: greenhouseFromURL},
	{name: "lever", match: hostHas("lever.co"), fromHTML: extractLever, fromURL: leverFromURL},
	{name: "workday", match: hostHasAny("myworkdayjobs.com", "workday.com"), fromHTML: extractWorkday, fromURL: workdayFromURL},
}

func hostHas(pattern string) func(string) bool {
	return func(host string) bool { return strings.Contains(host, pattern) }
}

func hostHasAny(patterns ...string) func(string) bool {
	return func(host string) bool {
		for _, p := range patterns {
			if strings.Contains(host, p) {
				return true
			}
		}
		return false
	}
}

// extract runs the full chain for a matched board: site strategy, then the
// generic title pass, then the URL-derived company backstop when the page
// was unreachable. Misses leave fields empty; nothing here errors.
func extract(html string, u *url.URL) Fields {
	host := strings.ToLower(u.Host)

	var out Fields
	for _, s := range strategies {
		if !s.match(host) {
			continue
		}
		if html != "" && s.fromHTML != nil {
			out = out.merge(s.fromHTML(html))
		}
		if s.fromURL != nil {
			out = out.merge(s.fromURL(u))
		}
		break
	}

	if html != "" {
		out = out.merge(Fields{Title: genericTitle(html)})
	} else {
		out = out.merge(Fields{Company: companyFromDomain(u)})
	}
	return out
}

func firstMatch(re *regexp.Regexp, html string) string {
	m := re.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return Clean(m[1])
}

func extractLinkedIn(html string) Fields {
	f := Fields{
		Title:    firstMatch(linkedinTitleRE, html),
		Company:  firstMatch(linkedinCompanyRE, html),
		Location: firstMatch(linkedinLocationRE, html),
	}
	if desc := firstMatch(linkedinDescRE, html); desc != "" {
		f.Description = truncate(desc, maxDescriptionLen) + "..."
	}
	return f
}

// linkedInFromURL pulls the numeric job ID out of /jobs/view/<id> paths so a
// failed fetch still leaves something traceable in the notes.
func linkedInFromURL(u *url.URL) Fields {
	segs := pathSegments(u)
	for i, s := range segs {
		if s == "view" && i+1 < len(segs) {
			return Fields{Notes: "Job ID: " + segs[i+1]}
		}
	}
	return Fields{}
}

func extractIndeed(html string) Fields {
	return Fields{
		Title:    firstMatch(indeedTitleRE, html),
		Company:  firstMatch(indeedCompanyRE, html),
		Location: firstMatch(indeedLocationRE, html),
		Salary:   firstMatch(indeedSalaryRE, html),
	}
}

func extractGlassdoor(html string) Fields {
	return Fields{
		Title:    firstMatch(glassdoorTitleRE, html),
		Company:  firstMatch(glassdoorCompanyRE, html),
		Location: firstMatch(glassdoorLocationRE, html),
		Salary:   firstMatch(glassdoorSalaryRE, html),
	}
}

func extractJobBank(html string) Fields {
	return Fields{
		Title:   firstMatch(jobbankTitleRE, html),
		Company: firstMatch(jobbankCompanyRE, html),
		// Job Bank only lists Canadian postings.
		Location: "Canada",
	}
}

func extractGreenhouse(html string) Fields {
	return Fields{
		Title:    firstMatch(greenhouseTitleRE, html),
		Location: firstMatch(greenhouseLocationRE, html),
	}
}

// greenhouseFromURL: company boards live on <company>.greenhouse.io; the
// shared boards.greenhouse.io host carries the company as the first path
// segment instead.
func greenhouseFromURL(u *url.URL) Fields {
	labels := hostLabels(u)
	if len(labels) == 0 {
		return Fields{}
	}
	first := labels[0]
	if first == "boards" || first == "job-boards" || first == "www" {
		if segs := pathSegments(u); len(segs) > 0 {
			return Fields{Company: humanizeSlug(segs[0])}
		}
		return Fields{}
	}
	return Fields{Company: humanizeSlug(first)}
}

func extractLever(html string) Fields {
	return Fields{
		Title:    firstMatch(leverTitleRE, html),
		Location: firstMatch(leverLocationRE, html),
	}
}

// leverFromURL: postings live at jobs.lever.co/<company>/<posting-id>, so
// the company is always the first path segment.
func leverFromURL(u *url.URL) Fields {
	if segs := pathSegments(u); len(segs) > 0 {
		return Fields{Company: humanizeSlug(segs[0])}
	}
	return Fields{}
}

// workdayFromURL: tenant hosts look like <company>.wd5.myworkdayjobs.com.
func workdayFromURL(u *url.URL) Fields {
	labels := hostLabels(u)
	if len(labels) == 0 {
		return Fields{}
	}
	return Fields{Company: humanizeSlug(labels[0])}
}

func extractWorkday(html string) Fields {
	return Fields{Title: firstMatch(workdayTitleRE, html)}
}

func genericTitle(html string) string {
	for _, re := range genericTitleREs {
		m := re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		cleaned := Clean(m[1])
		if len(cleaned) > minTitleLen {
			return cleaned
		}
	}
	return ""
}

// companyFromDomain guesses a company from the second-to-last host label
// ("company" out of "jobs.company.com"). Known-wrong for multi-part public
// suffixes like .co.uk; the simple split is kept because saved records
// depend on its exact output.
func companyFromDomain(u *url.URL) string {
	labels := hostLabels(u)
	if len(labels) < 2 {
		return ""
	}
	return titleCase(labels[len(labels)-2])
}

func hostLabels(u *url.URL) []string {
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil
	}
	return strings.Split(host, ".")
}

func pathSegments(u *url.URL) []string {
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// humanizeSlug turns an ATS slug into a display name: "acme-corp" -> "Acme Corp".
func humanizeSlug(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return titleCase(s)
}

// titleCase uppercases the first letter of every word-ish run and lowercases
// the rest, leaving non-letters in place.
func titleCase(s string) string {
	out := []rune(s)
	prevLetter := false
	for i, r := range out {
		if unicode.IsLetter(r) {
			if prevLetter {
				out[i] = unicode.ToLower(r)
			} else {
				out[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r[:n]))
}

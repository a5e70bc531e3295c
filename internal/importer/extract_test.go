package importer

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtract_LinkedIn(t *testing.T) {
	html := `
<html><head><title>ignore me</title></head><body>
<h1 class="top-card-layout__title">Senior Backend Engineer</h1>
<a class="topcard__org-name-link" href="/company/acme">Acme Corp</a>
<span class="topcard__flavor">Toronto, ON</span>
<div class="description__text">We build <b>things</b> that matter.</div>
</body></html>`
	u := mustParse(t, "https://www.linkedin.com/jobs/view/3912345678")

	f := extract(html, u)
	assert.Equal(t, "Senior Backend Engineer", f.Title)
	assert.Equal(t, "Acme Corp", f.Company)
	assert.Equal(t, "Toronto, ON", f.Location)
	assert.Equal(t, "We build things that matter....", f.Description)
	assert.Equal(t, "Job ID: 3912345678", f.Notes)
}

func TestExtract_LinkedInDescriptionTruncated(t *testing.T) {
	long := strings.Repeat("a", 600)
	html := `<div class="description__text">` + long + `</div>`
	u := mustParse(t, "https://www.linkedin.com/jobs/view/1")

	f := extract(html, u)
	assert.Equal(t, strings.Repeat("a", 500)+"...", f.Description)
}

func TestExtract_Indeed(t *testing.T) {
	html := `
<h1 class="jobsearch-JobInfoHeader-title">Data Engineer</h1>
<div class="jobsearch-InlineCompanyRating"><a href="/cmp/acme">Acme</a></div>
<div class="jobsearch-JobInfoHeader-subtitle"><div>Remote in Vancouver, BC</div></div>
<div class="salary-snippet">$120,000 - $150,000 a year</div>`
	f := extract(html, mustParse(t, "https://ca.indeed.com/viewjob?jk=abc"))

	assert.Equal(t, "Data Engineer", f.Title)
	assert.Equal(t, "Acme", f.Company)
	assert.Equal(t, "Remote in Vancouver, BC", f.Location)
	assert.Equal(t, "$120,000 - $150,000 a year", f.Salary)
}

func TestExtract_Glassdoor(t *testing.T) {
	html := `
<div class="jobTitle">Platform Engineer</div>
<div class="employerName">Acme Corp</div>
<div class="location">Calgary, AB</div>
<span class="salary">$130K</span>`
	f := extract(html, mustParse(t, "https://www.glassdoor.com/job-listing/x"))

	assert.Equal(t, "Platform Engineer", f.Title)
	assert.Equal(t, "Acme Corp", f.Company)
	assert.Equal(t, "Calgary, AB", f.Location)
	assert.Equal(t, "$130K", f.Salary)
}

func TestExtract_JobBankLocationHardcoded(t *testing.T) {
	html := `
<h1 id="jb-jobtitle">Heavy Duty Mechanic</h1>
<span class="noc-no-wrap">Northern Mining Ltd</span>`
	f := extract(html, mustParse(t, "https://www.jobbank.gc.ca/jobsearch/jobposting/39201"))

	assert.Equal(t, "Heavy Duty Mechanic", f.Title)
	assert.Equal(t, "Northern Mining Ltd", f.Company)
	assert.Equal(t, "Canada", f.Location)
}

func TestExtract_GreenhouseCompanyFromSubdomain(t *testing.T) {
	// No page content needed: the URL-structure rule runs regardless.
	f := extract("", mustParse(t, "https://acme-corp.greenhouse.io/jobs/123"))
	assert.Equal(t, "Acme Corp", f.Company)
}

func TestExtract_GreenhouseSharedBoardHost(t *testing.T) {
	html := `<h1 class="app-title">Site Reliability Engineer</h1>
<div class="location">Remote - Canada</div>`
	f := extract(html, mustParse(t, "https://boards.greenhouse.io/acme-corp/jobs/123"))

	assert.Equal(t, "Site Reliability Engineer", f.Title)
	assert.Equal(t, "Acme Corp", f.Company)
	assert.Equal(t, "Remote - Canada", f.Location)
}

func TestExtract_LeverCompanyFromPath(t *testing.T) {
	f := extract("", mustParse(t, "https://jobs.lever.co/stripe/29b1a6c0"))
	assert.Equal(t, "Stripe", f.Company)

	html := `<h2 class="posting-headline">Infrastructure Engineer</h2>
<div class="location">Montreal, QC</div>`
	f = extract(html, mustParse(t, "https://jobs.lever.co/stripe/29b1a6c0"))
	assert.Equal(t, "Infrastructure Engineer", f.Title)
	assert.Equal(t, "Stripe", f.Company)
	assert.Equal(t, "Montreal, QC", f.Location)
}

func TestExtract_WorkdayTenantHost(t *testing.T) {
	html := `<h1 data-automation-id="jobPostingHeader">Cloud Architect</h1>`
	f := extract(html, mustParse(t, "https://acme.wd5.myworkdayjobs.com/en-US/careers/job/x"))

	assert.Equal(t, "Cloud Architect", f.Title)
	assert.Equal(t, "Acme", f.Company)
}

func TestExtract_GenericTitleFallback(t *testing.T) {
	// Known board, markers absent: the generic pass supplies the title.
	html := `<html><head><title>Machine Learning Engineer - Acme</title></head>
<body><h1>Jobs</h1></body></html>`
	f := extract(html, mustParse(t, "https://www.linkedin.com/jobs/view/1"))

	// The h1 is too short, so the <title> wins.
	assert.Equal(t, "Machine Learning Engineer - Acme", f.Title)
}

func TestGenericTitle_SkipsShortMatches(t *testing.T) {
	html := `<h1>Menu</h1><title>Senior Developer</title>`
	assert.Equal(t, "Senior Developer", genericTitle(html))

	// Everything too short: no title at all.
	assert.Equal(t, "", genericTitle(`<h1>Hi</h1><title>Jobs</title>`))
}

func TestGenericTitle_OGTitleLast(t *testing.T) {
	html := `<meta property="og:title" content="Staff Engineer at Acme">`
	assert.Equal(t, "Staff Engineer at Acme", genericTitle(html))
}

func TestCompanyFromDomain(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://careers.myco.com/postings/1", "Myco"},
		{"https://www.example.com/x", "Example"},
		{"https://apply.smart-hire.io/x", "Smart-Hire"},
		// Known-wrong on two-part public suffixes; pinned behavior.
		{"https://jobs.acme.co.uk/x", "Co"},
		{"https://localhost/x", ""},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.want, companyFromDomain(mustParse(t, tc.url)))
		})
	}
}

func TestHumanizeSlug(t *testing.T) {
	assert.Equal(t, "Acme Corp", humanizeSlug("acme-corp"))
	assert.Equal(t, "Acme Corp", humanizeSlug("acme_corp"))
	assert.Equal(t, "Acme", humanizeSlug("ACME"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Acme Corp", titleCase("acme corp"))
	assert.Equal(t, "Smart-Hire", titleCase("smart-hire"))
	assert.Equal(t, "A1 Labs", titleCase("a1 labs"))
}

func TestFieldsMerge_FirstNonEmptyWins(t *testing.T) {
	a := Fields{Title: "Engineer", Company: ""}
	b := Fields{Title: "Other", Company: "Acme", Location: "Remote"}

	m := a.merge(b)
	assert.Equal(t, "Engineer", m.Title)
	assert.Equal(t, "Acme", m.Company)
	assert.Equal(t, "Remote", m.Location)
}

package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeCompanyForSearch(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Acme, Inc.", "Acme"},
		{"Acme Inc", "Acme"},
		{"Globex LLC", "Globex"},
		{"Initech, Ltd.", "Initech"},
		{"TopTalent Staffing", "TopTalent"},
		{"  Plain   Name  ", "Plain Name"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeCompanyForSearch(tc.in), "input %q", tc.in)
	}
}

func TestDecodeDDGRedirect(t *testing.T) {
	direct := "https://acme.com/about"
	assert.Equal(t, direct, decodeDDGRedirect(direct))

	wrapped := "https://duckduckgo.com/l/?uddg=https%3A%2F%2Facme.com%2F&rut=abc"
	assert.Equal(t, "https://acme.com/", decodeDDGRedirect(wrapped))
}

func TestIsBlockedDomain(t *testing.T) {
	assert.True(t, isBlockedDomain("linkedin.com"))
	assert.True(t, isBlockedDomain("jobs.linkedin.com"))
	assert.True(t, isBlockedDomain("boards.greenhouse.io"))
	assert.False(t, isBlockedDomain("acme.com"))
	assert.False(t, isBlockedDomain("notlinkedin.example"))
}

package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPostingJSONLD = `{
	"@context": "https://schema.org",
	"@type": "JobPosting",
	"title": "Senior Backend Engineer",
	"description": "<p>Build services. Responsibilities include owning the job requirements for the platform team. Candidates apply with relevant experience and skills.</p>",
	"hiringOrganization": {"@type": "Organization", "name": "Acme Corp"},
	"jobLocation": {"@type": "Place", "address": {"@type": "PostalAddress", "addressLocality": "Denver", "addressRegion": "CO"}},
	"employmentType": "FULL_TIME"
}`

// selectorBody passes the quality gate: well over 100 chars with several
// vocabulary words.
const selectorBody = `We are hiring for this position. Responsibilities include building and
operating distributed systems. Requirements: five years of experience with Go.
Qualifications: strong skills in concurrent programming. Apply today to join
the team at our company.`

func TestContentPrefersStructuredData(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">` + jobPostingJSONLD + `</script>
	</head><body>
		<div class="jobs-description__content">` + selectorBody + `</div>
	</body></html>`

	got := Content(html, "https://www.linkedin.com/jobs/view/12345")
	require.NotEmpty(t, got)
	assert.Contains(t, got, "Title: Senior Backend Engineer")
	assert.Contains(t, got, "Company: Acme Corp")
	assert.NotContains(t, got, "We are hiring for this position")
}

func TestContentFallsBackToSiteSelectors(t *testing.T) {
	html := `<html><body>
		<nav>Sign in</nav>
		<div class="jobs-description__content">` + selectorBody + `</div>
	</body></html>`

	got := Content(html, "https://www.linkedin.com/jobs/view/12345")
	assert.Contains(t, got, "Responsibilities include building")
	assert.NotContains(t, got, "Sign in")
}

func TestContentPooledSelectorsForUnknownBoard(t *testing.T) {
	html := `<html><body>
		<div id="jobDescriptionText">` + selectorBody + `</div>
	</body></html>`

	// indeed's selector, but an unrelated domain: the pooled fallback
	// should still find it.
	got := Content(html, "https://jobs.example.org/posting/9")
	assert.Contains(t, got, "Requirements: five years of experience")
}

func TestContentGenericSelectorFallback(t *testing.T) {
	filler := strings.Repeat("Quarterly update for stakeholders. ", 10)
	html := `<html><body><article>` + filler + `</article></body></html>`

	got := Content(html, "https://blog.example.com/post")
	assert.Contains(t, got, "Quarterly update")
}

func TestContentBodyFallback(t *testing.T) {
	html := `<html><body><p>Short note.</p></body></html>`
	got := Content(html, "https://example.com")
	assert.Equal(t, "Short note.", got)
}

func TestQualityGate(t *testing.T) {
	t.Run("short text with one keyword rejected", func(t *testing.T) {
		text := strings.Repeat("x", 70) + " job posted"
		require.Len(t, text, 81)
		assert.False(t, PassesQualityGate(text))
	})

	t.Run("long text with one keyword rejected", func(t *testing.T) {
		text := strings.Repeat("lorem ipsum dolor ", 10) + "job"
		assert.False(t, PassesQualityGate(text))
	})

	t.Run("long text with four keywords accepted", func(t *testing.T) {
		text := strings.Repeat("filler text here ", 8) +
			"responsibilities requirements experience skills"
		require.Greater(t, len(text), 140)
		assert.True(t, PassesQualityGate(text))
	})
}

func TestContentTruncation(t *testing.T) {
	long := strings.Repeat("responsibilities requirements experience apply team work ", 400)
	html := `<html><body><div class="job-description">` + long + `</div></body></html>`

	got := Content(html, "https://example.com/careers/1")
	assert.True(t, strings.HasSuffix(got, truncationMarker))
	assert.LessOrEqual(t, len(got), MaxContentLength+len(truncationMarker))
}

func TestContentStripsBoilerplate(t *testing.T) {
	html := `<html><body>
		<div class="job-description">
			<p>We use cookies to improve your experience.</p>
			<p>` + selectorBody + `</p>
			<p>Share this job with a friend</p>
		</div>
	</body></html>`

	got := Content(html, "https://example.com/jobs/1")
	assert.NotContains(t, got, "cookies")
	assert.NotContains(t, got, "Share this job")
	assert.Contains(t, got, "Responsibilities include")
}

func TestContentDropsScriptsAndStyles(t *testing.T) {
	html := `<html><head><style>.a{color:red}</style></head><body>
		<script>var tracking = "analytics payload";</script>
		<div class="job-description">` + selectorBody + `</div>
	</body></html>`

	got := Content(html, "https://example.com/jobs/2")
	assert.NotContains(t, got, "tracking")
	assert.NotContains(t, got, "color:red")
}

func TestTitle(t *testing.T) {
	html := `<html><head><title>  Staff Engineer - Acme  </title></head><body></body></html>`
	assert.Equal(t, "Staff Engineer - Acme", Title(html))
}

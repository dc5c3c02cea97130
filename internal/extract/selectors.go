package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// siteSelectors maps known job-board domains to ordered selector lists known
// to contain the posting body. Domains are matched by substring on the URL.
var siteSelectors = map[string][]string{
	"linkedin.com": {
		".jobs-description__content",
		".description__text",
		"[data-testid='job-description']",
		".jobs-box__html-content",
	},
	"indeed.com": {
		"#jobDescriptionText",
		".jobsearch-JobComponent-description",
		".jobsearch-jobDescriptionText",
	},
	"glassdoor.com": {
		"[data-test='jobDescriptionContainer']",
		".jobDescriptionContent",
		"#JobDescriptionContainer",
	},
	"greenhouse.io": {
		".job__description.body",
		".job__description",
		"#content",
	},
	"lever.co": {
		".posting-description",
		".posting-page",
		".section-wrapper.page-full-width",
	},
	"myworkdayjobs.com": {
		"[data-automation-id='jobPostingDescription']",
		"[data-automation-id='jobDescription']",
	},
	"ziprecruiter.com": {
		".job_description",
		"[data-testid='job-description']",
	},
	"monster.com": {
		".job-description",
		"[data-testid='svx-description-container']",
	},
}

// genericSelectors are tried when no site strategy matched; acceptance is by
// length alone.
var genericSelectors = []string{
	".job-description",
	".description",
	".job-details",
	".posting-content",
	"#job-description",
	"#job-content",
	"main",
	"article",
	".content",
	"#content",
	".post-content",
	".entry-content",
}

// minSelectorContentLength is the quality-gate length floor for
// site-specific matches.
const minSelectorContentLength = 100

// minJobKeywords is the quality-gate floor for distinct vocabulary hits.
const minJobKeywords = 3

// jobKeywords is the fixed vocabulary used by the quality gate.
var jobKeywords = []string{
	"responsibilities", "requirements", "qualifications", "experience",
	"skills", "position", "role", "job", "candidate", "apply",
	"salary", "benefits", "company", "team", "work", "employment",
}

// fromSiteSelectors tries the selector table for the URL's domain; matches
// must pass the quality gate. With no domain match, every known selector is
// tried as a pooled fallback.
func fromSiteSelectors(doc *goquery.Document, sourceURL string) string {
	url := strings.ToLower(sourceURL)

	for domain, selectors := range siteSelectors {
		if !strings.Contains(url, domain) {
			continue
		}
		return firstQualityMatch(doc, selectors)
	}

	// Unknown board: pool all known selectors.
	var pooled []string
	for _, selectors := range siteSelectors {
		pooled = append(pooled, selectors...)
	}
	return firstQualityMatch(doc, pooled)
}

// firstQualityMatch returns the first selector whose text passes the quality
// gate.
func firstQualityMatch(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		text := nodeText(sel.First())
		if PassesQualityGate(text) {
			return text
		}
	}
	return ""
}

// PassesQualityGate reports whether text looks like an actual job posting:
// at least minSelectorContentLength characters and at least minJobKeywords
// distinct vocabulary words, case-insensitively.
func PassesQualityGate(text string) bool {
	if len(text) < minSelectorContentLength {
		return false
	}
	lower := strings.ToLower(text)
	distinct := 0
	for _, keyword := range jobKeywords {
		if strings.Contains(lower, keyword) {
			distinct++
			if distinct >= minJobKeywords {
				return true
			}
		}
	}
	return false
}

// fromGenericSelectors tries generic container selectors, accepting the
// first match longer than minSelectorContentLength.
func fromGenericSelectors(doc *goquery.Document) string {
	for _, selector := range genericSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		text := nodeText(sel.First())
		if len(text) > minSelectorContentLength {
			return text
		}
	}
	return ""
}

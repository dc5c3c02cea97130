package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fromStructuredData scans embedded JSON-LD blocks for a schema.org
// JobPosting object and assembles a normalized text block from it. Job boards
// that render postings client-side still ship this block for search engines,
// which makes it the most reliable source when present.
func fromStructuredData(doc *goquery.Document) string {
	var result string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true // malformed block, keep scanning
		}
		if posting := findJobPosting(payload); posting != nil {
			result = renderJobPosting(posting)
			return result == ""
		}
		return true
	})
	return result
}

// findJobPosting walks a decoded JSON-LD payload (object, array, or @graph)
// looking for a JobPosting node.
func findJobPosting(payload any) map[string]any {
	switch node := payload.(type) {
	case map[string]any:
		if typeOf(node) == "JobPosting" {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findJobPosting(graph)
		}
	case []any:
		for _, item := range node {
			if posting := findJobPosting(item); posting != nil {
				return posting
			}
		}
	}
	return nil
}

func typeOf(node map[string]any) string {
	switch t := node["@type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "JobPosting" {
				return s
			}
		}
	}
	return ""
}

// renderJobPosting assembles the posting fields into a text block, one
// non-empty field per line.
func renderJobPosting(posting map[string]any) string {
	var lines []string

	add := func(label, value string) {
		value = strings.TrimSpace(value)
		if value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", label, value))
		}
	}

	add("Title", stringField(posting, "title"))

	if org, ok := posting["hiringOrganization"].(map[string]any); ok {
		add("Company", stringField(org, "name"))
	}
	add("Location", locationOf(posting))
	add("Employment Type", employmentTypeOf(posting))
	add("Salary", salaryOf(posting))

	if desc := stringField(posting, "description"); desc != "" {
		lines = append(lines, "Description:", htmlToText(desc))
	}
	add("Qualifications", htmlToText(stringField(posting, "qualifications")))

	return strings.Join(lines, "\n")
}

func stringField(node map[string]any, key string) string {
	if s, ok := node[key].(string); ok {
		return s
	}
	return ""
}

// locationOf digs out the address locality from jobLocation, which may be an
// object or an array of objects.
func locationOf(posting map[string]any) string {
	loc := posting["jobLocation"]
	if list, ok := loc.([]any); ok && len(list) > 0 {
		loc = list[0]
	}
	place, ok := loc.(map[string]any)
	if !ok {
		return ""
	}
	address, ok := place["address"].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(address, "addressLocality")
}

func employmentTypeOf(posting map[string]any) string {
	switch t := posting["employmentType"].(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, v := range t {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// salaryOf renders baseSalary.value, which schema.org nests as a
// QuantitativeValue.
func salaryOf(posting map[string]any) string {
	salary, ok := posting["baseSalary"].(map[string]any)
	if !ok {
		return ""
	}
	switch v := salary["value"].(type) {
	case map[string]any:
		if s := stringField(v, "value"); s != "" {
			return s
		}
		min := numberField(v, "minValue")
		max := numberField(v, "maxValue")
		if min != "" && max != "" {
			return min + " - " + max
		}
		return numberField(v, "value")
	case string:
		return v
	case float64:
		return trimFloat(v)
	}
	return ""
}

func numberField(node map[string]any, key string) string {
	if f, ok := node[key].(float64); ok {
		return trimFloat(f)
	}
	return stringField(node, key)
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.2f", f), ".00")
}

// htmlToText strips markup from description fields, which are usually HTML.
func htmlToText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("br, p, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return collapseLines(doc.Text())
}

package render

import (
	"bytes"
	"fmt"
	"strings"
)

// Page geometry for the builtin renderer: US Letter with 1in margins,
// Helvetica 11pt on a 14pt leading.
const (
	pdfPageWidth  = 612
	pdfPageHeight = 792
	pdfMargin     = 72
	pdfFontSize   = 11
	pdfLeading    = 14
	pdfWrapWidth  = 88
	pdfLinesPage  = (pdfPageHeight - 2*pdfMargin) / pdfLeading
)

// renderBasicPDF builds a plain-paragraph PDF by hand. It exists so the save
// path still produces a readable document on hosts without Chrome.
func renderBasicPDF(text string) []byte {
	pages := paginate(wrapLines(text))
	if len(pages) == 0 {
		pages = [][]string{{""}}
	}

	// Fixed objects: 1 catalog, 2 pages, 3 font. Then a page and content
	// object per page.
	objectCount := 3 + 2*len(pages)
	offsets := make([]int, objectCount+1)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, lines := range pages {
		pageNum := 4 + 2*i
		contentNum := pageNum + 1

		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pdfPageWidth, pdfPageHeight, contentNum))

		var content strings.Builder
		fmt.Fprintf(&content, "BT\n/F1 %d Tf\n%d TL\n%d %d Td\n",
			pdfFontSize, pdfLeading, pdfMargin, pdfPageHeight-pdfMargin)
		for _, line := range lines {
			fmt.Fprintf(&content, "(%s) Tj\nT*\n", escapePDFText(line))
		}
		content.WriteString("ET")

		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream",
			len(content.String()), content.String()))
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", objectCount+1)
	for num := 1; num <= objectCount; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		objectCount+1, xrefStart)

	return buf.Bytes()
}

// escapePDFText escapes the characters that delimit PDF string literals.
func escapePDFText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

// wrapLines breaks text into lines no wider than pdfWrapWidth characters,
// wrapping on word boundaries.
func wrapLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if len(line) <= pdfWrapWidth {
			out = append(out, line)
			continue
		}

		var current string
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= pdfWrapWidth:
				current += " " + word
			default:
				out = append(out, current)
				current = word
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return out
}

// paginate splits lines into page-sized chunks.
func paginate(lines []string) [][]string {
	var pages [][]string
	for start := 0; start < len(lines); start += pdfLinesPage {
		end := start + pdfLinesPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	return pages
}

// stripMarkdown reduces markdown to plain paragraphs for the builtin
// renderer: headings, emphasis, and code markers removed, links reduced to
// their text.
func stripMarkdown(markdown string) string {
	lines := strings.Split(markdown, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.TrimLeft(trimmed, "#")
		trimmed = strings.TrimSpace(trimmed)
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		trimmed = strings.ReplaceAll(trimmed, "__", "")
		trimmed = strings.ReplaceAll(trimmed, "`", "")
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

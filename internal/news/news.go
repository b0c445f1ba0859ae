// Package news finds recent articles about a company and labels each with a
// coarse sentiment. NewsAPI is the primary source; a set of scraped Indian
// financial sites is the fallback.
package news

import (
	"strings"

	"equity-advisor/internal/symbols"
)

// Legal suffixes dropped from company names before searching. Only the first
// match is removed.
var legalSuffixes = []string{
	" limited", " ltd", " public limited company", " pvt ltd", " private limited",
	" inc", " corp", " corporation", " sa", " ag", " nv", " plc",
}

// CleanCompanyName lowercases name and strips one trailing legal suffix.
func CleanCompanyName(name string) string {
	clean := strings.ToLower(name)
	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(clean, suffix) {
			clean = strings.TrimSuffix(clean, suffix)
			break
		}
	}
	return strings.TrimSpace(clean)
}

// BaseSymbol returns the upper-case ticker without any exchange suffix.
func BaseSymbol(symbol string) string {
	return symbols.Base(symbol)
}

// Query builds the search expression for a symbol and optional company name.
func Query(symbol, companyName string) string {
	base := BaseSymbol(symbol)
	if companyName == "" {
		return base + " stock"
	}
	return `("` + CleanCompanyName(companyName) + `" OR ` + base + `) AND stock`
}

// relevance matches article text against the company's search terms.
type relevance struct {
	terms []string
}

func newRelevance(symbol, companyName string) relevance {
	seen := map[string]bool{}
	var r relevance
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		r.terms = append(r.terms, t)
	}
	if companyName != "" {
		add(companyName)
		cleaned := CleanCompanyName(companyName)
		add(cleaned)
		for _, w := range strings.Fields(cleaned) {
			if len(w) > 3 {
				add(w)
			}
		}
	}
	add(BaseSymbol(symbol))
	return r
}

func (r relevance) match(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	for _, t := range r.terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

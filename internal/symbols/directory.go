package symbols

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"equity-advisor/internal/types"
)

type entry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Directory is the local symbol table. It is built once at startup and never
// mutated, so it is safe to share between concurrent requests.
type Directory struct {
	entries []entry
}

// LoadDirectory reads a JSON array of {"symbol", "name"} objects.
func LoadDirectory(path string) (*Directory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbol directory: %w", err)
	}
	return ParseDirectory(b)
}

func ParseDirectory(b []byte) (*Directory, error) {
	var entries []entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse symbol directory: %w", err)
	}
	return &Directory{entries: entries}, nil
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Search returns every entry whose symbol, bare symbol or name starts with
// query, case-insensitively, in file order.
func (d *Directory) Search(query string) []types.SymbolMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if d == nil || q == "" {
		return nil
	}

	var matches []types.SymbolMatch
	for _, e := range d.entries {
		sym := strings.ToLower(e.Symbol)
		bare := sym
		if i := strings.Index(sym, "."); i >= 0 {
			bare = sym[:i]
		}
		if strings.HasPrefix(sym, q) || strings.HasPrefix(bare, q) || strings.HasPrefix(strings.ToLower(e.Name), q) {
			matches = append(matches, types.SymbolMatch{
				Symbol:   e.Symbol,
				Name:     e.Name,
				Type:     "Equity",
				Region:   "India",
				Currency: "INR",
			})
		}
	}
	return matches
}

// Name looks up the company name for any variant of symbol.
func (d *Directory) Name(symbol string) (string, bool) {
	if d == nil {
		return "", false
	}
	base := Base(symbol)
	for _, e := range d.entries {
		if Base(e.Symbol) == base {
			return e.Name, true
		}
	}
	return "", false
}

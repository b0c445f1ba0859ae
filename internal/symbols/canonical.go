package symbols

import "strings"

type Exchange string

const (
	BSE Exchange = "BSE"
	NSE Exchange = "NSE"
)

// Short exchange suffixes are rewritten to their canonical form.
var suffixAliases = map[string]Exchange{
	".NS":  NSE,
	".NSE": NSE,
	".BO":  BSE,
	".BSE": BSE,
}

// ResolveCanonicalSymbols returns the ordered, de-duplicated symbol variants to
// try for a user ticker. A bare ticker tries BSE then NSE; a suffixed ticker
// tries its own exchange first and the other one second.
func ResolveCanonicalSymbols(ticker string) []string {
	base, exch, ok := Split(ticker)
	if base == "" {
		return nil
	}

	var candidates []string
	if !ok {
		candidates = []string{Join(base, BSE), Join(base, NSE)}
	} else {
		candidates = []string{Join(base, exch), Join(base, Opposite(exch))}
	}
	return dedupe(candidates)
}

// Split uppercases ticker and separates a recognised exchange suffix. A
// ticker that is only a suffix (".NS") has an empty base.
func Split(ticker string) (base string, exch Exchange, ok bool) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if i := strings.LastIndex(t, "."); i >= 0 {
		if e, found := suffixAliases[t[i:]]; found {
			return t[:i], e, true
		}
	}
	return t, "", false
}

// Base strips any recognised exchange suffix.
func Base(ticker string) string {
	base, _, _ := Split(ticker)
	return base
}

func Join(base string, exch Exchange) string {
	return base + "." + string(exch)
}

func Opposite(exch Exchange) Exchange {
	if exch == NSE {
		return BSE
	}
	return NSE
}

// YahooTicker maps a canonical symbol to Yahoo's ".NS"/".BO" convention.
func YahooTicker(symbol string) string {
	base, exch, ok := Split(symbol)
	if !ok {
		return base
	}
	if exch == NSE {
		return base + ".NS"
	}
	return base + ".BO"
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

package catalog

import "strings"

// Suggest returns the candidates that contain query (ignoring case, spaces
// included) or share at least one whitespace-separated word with it. The result
// is deduplicated and sorted; a blank query suggests nothing.
func Suggest(query string, candidates []string) []string {
	if strings.TrimSpace(query) == "" {
		return []string{}
	}
	q := strings.ToLower(query)
	words := strings.Fields(q)

	seen := make(map[string]struct{})
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if strings.Contains(lc, q) || sharesWord(words, strings.Fields(lc)) {
			seen[c] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sharesWord(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (s *Store) SuggestProducts(query string) []string {
	return Suggest(query, s.ListBrands())
}

func (s *Store) SuggestShops(query string) []string {
	return Suggest(query, s.ShopNames())
}

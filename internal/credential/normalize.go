package credential

import "strings"

const apiSuffix = "Api"

// staticLookup finds a credential id in the static config map, tolerating the
// engine's inconsistent "Api" suffix: an exact key wins, otherwise the key
// with the suffix stripped or appended is tried, so "gmailOAuth2" and
// "gmailOAuth2Api" cross-match. Heuristic string matching, deliberately kept
// in one place.
func staticLookup(static map[string]string, credType string) (string, bool) {
	if id, ok := static[credType]; ok {
		return id, true
	}
	if stripped, ok := strings.CutSuffix(credType, apiSuffix); ok {
		if id, ok := static[stripped]; ok {
			return id, true
		}
	} else if id, ok := static[credType+apiSuffix]; ok {
		return id, true
	}
	return "", false
}

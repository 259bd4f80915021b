package common

import "strings"

// FirstContained returns the first of subs found in s, in the order given.
func FirstContained(s string, subs ...string) (string, bool) {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return sub, true
		}
	}
	return "", false
}

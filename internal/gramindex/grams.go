package gramindex

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Grams returns the distinct grams of body, sorted. Grams are counted in
// runes; a body shorter than gramLength has none.
func Grams(body string, gramLength int, normalize bool) []string {
	if normalize {
		body = norm.NFC.String(body)
	}
	runes := []rune(body)
	if gramLength < 1 || len(runes) < gramLength {
		return nil
	}
	grams := make([]string, 0, len(runes)-gramLength+1)
	for i := 0; i+gramLength <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+gramLength]))
	}
	slices.Sort(grams)
	return slices.Compact(grams)
}

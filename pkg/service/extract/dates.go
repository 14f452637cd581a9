package extract

import "regexp"

// datePattern matches D[/-]D[/-]D shapes: 1-2 digit day and month, 2 or 4
// digit year
var datePattern = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-](?:\d{4}|\d{2})\b`)

// extractDates returns all date-shaped substrings in order of appearance,
// duplicates included
func extractDates(text string) []string {
	return datePattern.FindAllString(text, -1)
}

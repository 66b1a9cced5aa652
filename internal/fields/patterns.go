package fields

import "regexp"

var (
	reBullet = regexp.MustCompile(`^[\-\x{2022}*]\s+`)
	reYear   = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// a line with any year (or year span) is a date line
	reDateLine = regexp.MustCompile(`\b(?:19|20)\d{2}(?:\s*[-–—]\s*(?:19|20)\d{2})?\b`)

	// month prefixes are optional on both ends: 01/2019 - 03/2022, Jan 2019 – Present, 2018-2020
	reDateRange = regexp.MustCompile(`(?i)\b` + monthPrefix + `(?:19|20)\d{2}\s*(?:[-–—]|to|until)\s*(?:` + monthPrefix + `(?:19|20)\d{2}|present|current|now|today)\b`)

	reRoleKeyword = regexp.MustCompile(`(?i)\b(?:Manager|Engineer|Developer|Lead|Consultant|Analyst|Architect|Head|Officer)\b`)
	reAtSplit     = regexp.MustCompile(`(?i)\s+at\s+`)
	reDashSplit   = regexp.MustCompile(`[—–\-]`)

	reListDelims      = regexp.MustCompile(`[\n•\-*;|,]`)
	reInlineSkills    = regexp.MustCompile(`(?i)skills?:\s*(.+)`)
	reInlineLanguages = regexp.MustCompile(`(?i)languages?:\s*(.+)`)

	rePostalCode = regexp.MustCompile(`\b\d{5,6}\b`)
)

const monthPrefix = `(?:\d{1,2}[/.-]|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?`

// AddressKeywords mark a line as part of a postal address.
var AddressKeywords = []string{"address", "location", "city", "state", "country", "pin", "zipcode", "postal"}

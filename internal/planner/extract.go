package planner

import (
	"encoding/json"
	"regexp"
	"strings"
)

/* =================================================================================
							RESPONSE EXTRACTION
	Generative models do not reliably honor "JSON only" instructions, so the raw
	response text is run through an ordered chain of recovery strategies.
=================================================================================*/

var (
	// fencedObjectPattern matches the first markdown code fence (optionally
	// tagged "json") that wraps a top-level object.
	fencedObjectPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

	// braceSpanPattern is the last-resort scrape: the first opening brace
	// through the last closing brace in the whole text.
	braceSpanPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers a JSON value (object or array) from arbitrary model
// output. Strategies are tried in order, each swallowing its own failure:
//
//  1. parse the whole trimmed text as JSON
//  2. parse the first fenced code block containing an object
//  3. parse the first greedy brace-delimited span
//
// If nothing parses, an empty object is returned. ExtractJSON never fails;
// callers detect the empty-object case through their own schema validation.
//
// Only the first match of strategies 2 and 3 is considered. Text that mixes
// several unrelated brace spans will resolve to whichever comes first.
func ExtractJSON(text string) interface{} {
	var value interface{}

	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &value); err == nil {
		return value
	}

	if m := fencedObjectPattern.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &value); err == nil {
			return value
		}
	}

	if span := braceSpanPattern.FindString(text); span != "" {
		if err := json.Unmarshal([]byte(span), &value); err == nil {
			return value
		}
	}

	return map[string]interface{}{}
}

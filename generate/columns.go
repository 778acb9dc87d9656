// ABOUTME: Column-name parsing and cell coercion shared by the payload generators
// ABOUTME: Holds the component kind table, bracket index parsing, and number/switch coercion
package generate

import (
	"regexp"
	"strconv"
	"strings"
)

// componentKind maps a column-name pattern to the component field it fills.
type componentKind struct {
	token   string
	pattern *regexp.Regexp
	field   string
	coerce  func(string) any
}

// componentKinds is evaluated in order and the first match wins.
var componentKinds = []componentKind{
	{token: "on_off", pattern: regexp.MustCompile(`on_off`), field: "enabled", coerce: func(v string) any { return parseSwitch(v) }},
	{token: "metered", pattern: regexp.MustCompile(`metered`), field: "unit_balance", coerce: func(v string) any { return parseNumber(v) }},
	{token: "quantity", pattern: regexp.MustCompile(`quantity`), field: "allocated_quantity", coerce: func(v string) any { return parseNumber(v) }},
}

var (
	componentColumn = regexp.MustCompile(`component_id|^component\[`)
	bracketToken    = regexp.MustCompile(`\[([^\[\]]*)\]`)
	leadingNumber   = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
)

// offTokens are the case-insensitive values that switch an on/off component off.
var offTokens = map[string]bool{
	"0":     true,
	"false": true,
	"off":   true,
}

// matchKind returns the first component kind whose pattern matches name.
func matchKind(name string) (componentKind, bool) {
	for _, k := range componentKinds {
		if k.pattern.MatchString(name) {
			return k, true
		}
	}
	return componentKind{}, false
}

// bracketIndices returns the non-empty bracketed tokens of name, skipping
// any token that names the component kind itself.
func bracketIndices(name, kindToken string) []string {
	var out []string
	for _, m := range bracketToken.FindAllStringSubmatch(name, -1) {
		tok := strings.TrimSpace(m[1])
		if tok == "" || (kindToken != "" && strings.Contains(tok, kindToken)) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// metafieldKey returns the text between the first '[' and the last ']'.
func metafieldKey(name string) (string, bool) {
	start := strings.Index(name, "[")
	end := strings.LastIndex(name, "]")
	if start < 0 || end <= start+1 {
		return "", false
	}
	key := strings.TrimSpace(name[start+1 : end])
	return key, key != ""
}

func parseSwitch(v string) bool {
	return !offTokens[strings.ToLower(strings.TrimSpace(v))]
}

// parseNumber reads the leading decimal number of v. Text without one, and
// values that overflow, become 0.
func parseNumber(v string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(v))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

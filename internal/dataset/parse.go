package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMissingValues are the cell spellings treated as missing, compared
// case-insensitively after trimming. The empty cell is always missing.
var DefaultMissingValues = []string{"NA", "N/A", "NaN", "-NaN", "null", "None", "#N/A", "<NA>"}

type numberFormat struct {
	decimal   rune
	thousands rune
}

// parseNumeric parses s as a number. With a zero decimal separator the
// separator is detected per value: the rightmost of ',' and '.' is decimal.
func parseNumeric(s string, nf numberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec, thou := nf.decimal, nf.thousands
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec, thou = ',', '.'
		case cpos >= 0 && dpos >= 0:
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	// ParseFloat accepts "Inf" and "NaN"; neither is a measurement.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func missingSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values)+1)
	set[""] = struct{}{}
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func isMissing(cell string, set map[string]struct{}) bool {
	_, ok := set[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`),  // Weight (kg)
	regexp.MustCompile(`^(.*?)\s*\[([^\]]+)\]\s*$`), // Mass [mg/L]
}

// splitUnit extracts the unit suffix of a header, e.g. "Height (m)" -> "m".
func splitUnit(name string) string {
	s := strings.TrimSpace(name)
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(s); len(m) == 3 {
			base := strings.TrimSpace(m[1])
			unit := strings.TrimSpace(m[2])
			if base != "" && unit != "" {
				return unit
			}
		}
	}
	return ""
}

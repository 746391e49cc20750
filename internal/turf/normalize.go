package turf

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// integralDecimal matches "12.0" and "0100.00", not "2900E10" or "0x1p1".
var integralDecimal = regexp.MustCompile(`^[+-]?[0-9]+\.0+$`)

// KeyString coerces a join-key value to its canonical string form.
// Integer 1, float 1.0 and the strings "1" and "1.0" all become "1".
// Leading zeros in textual keys are significant and kept ("0100.0" becomes
// "0100"). Only Go numeric values are coerced numerically.
func KeyString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return canonicalText(x)
	case []byte:
		return canonicalText(string(x))
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case fmt.Stringer:
		return canonicalText(x.String())
	default:
		return canonicalText(fmt.Sprint(x))
	}
}

// canonicalText trims s and drops an all-zero fraction. Anything else,
// including exponent and hex forms, is an opaque code and kept verbatim.
func canonicalText(s string) string {
	s = strings.TrimSpace(s)
	if !integralDecimal.MatchString(s) {
		return s
	}
	return s[:strings.IndexByte(s, '.')]
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeKey returns a copy of t with every value of column rewritten by
// KeyString.
func NormalizeKey(t Table, column string) (Table, error) {
	idx := t.Index(column)
	if idx < 0 {
		return Table{}, fmt.Errorf("normalize key: %w: %s", ErrMissingColumn, column)
	}

	out := t.clone()
	for _, r := range out.Rows {
		if idx < len(r) {
			r[idx] = KeyString(r[idx])
		}
	}
	return out, nil
}

// NormalizeGeometryKeys applies the KeyString rule to every record's GEOID.
func NormalizeGeometryKeys(g GeometrySet) GeometrySet {
	out := GeometrySet{CRS: g.CRS, Records: make([]GeometryRecord, len(g.Records))}
	for i, r := range g.Records {
		r.GEOID = KeyString(r.GEOID)
		out.Records[i] = r
	}
	return out
}

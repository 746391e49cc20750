package turf

import "fmt"

// Join left-joins attribute rows to geometry on GEOID. Both inputs should
// already be normalized. Every attribute row yields exactly one JoinedRow, in
// input order; rows without a match carry a nil geometry.
//
// The geometry side is assumed unique per GEOID. When it is not, the first
// record wins.
func Join(attrs Table, geoms GeometrySet) (Joined, error) {
	idx := attrs.Index(ColGEOID)
	if idx < 0 {
		return Joined{}, fmt.Errorf("join: %w: %s", ErrMissingColumn, ColGEOID)
	}

	byKey := make(map[string]int, len(geoms.Records))
	for i, g := range geoms.Records {
		if _, dup := byKey[g.GEOID]; dup {
			LogDuplicateKey(g.GEOID)
			continue
		}
		byKey[g.GEOID] = i
	}

	out := Joined{
		Columns: append([]string(nil), attrs.Columns...),
		Rows:    make([]JoinedRow, 0, len(attrs.Rows)),
		CRS:     geoms.CRS,
	}
	matched := 0
	for _, r := range attrs.Rows {
		jr := JoinedRow{Values: append([]string(nil), r...)}
		if gi, ok := byKey[cell(r, idx)]; ok {
			jr.Geometry = geoms.Records[gi].Geometry
		}
		if jr.Geometry != nil {
			matched++
		}
		out.Rows = append(out.Rows, jr)
	}

	LogJoin(len(attrs.Rows), matched)
	return out, nil
}

// Unmatched returns the GEOIDs of rows that found no geometry, in row order.
func Unmatched(j Joined) []string {
	idx := j.Index(ColGEOID)
	var out []string
	for _, r := range j.Rows {
		if r.Geometry == nil {
			out = append(out, cell(r.Values, idx))
		}
	}
	return out
}

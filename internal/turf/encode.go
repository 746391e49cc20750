package turf

import "github.com/paulmach/orb/encoding/wkt"

// Encode stamps crs on the dataset and recomputes the WKT of every row.
// Rows without geometry get an empty WKT.
func Encode(j Joined, crs string) Joined {
	out := Joined{
		Columns: append([]string(nil), j.Columns...),
		Rows:    make([]JoinedRow, len(j.Rows)),
		CRS:     crs,
	}
	for i, r := range j.Rows {
		r.Values = append([]string(nil), r.Values...)
		r.WKT = ""
		if r.Geometry != nil {
			r.WKT = wkt.MarshalString(r.Geometry)
		}
		out.Rows[i] = r
	}
	return out
}

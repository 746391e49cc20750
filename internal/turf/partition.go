package turf

import (
	"iter"
	"slices"
)

// TurfGroup is the rows of one fo_name within a region.
type TurfGroup struct {
	Name string
	Rows []JoinedRow
}

// RegionGroup is the rows of one Region, subdivided by turf.
type RegionGroup struct {
	Name  string
	Rows  []JoinedRow
	Turfs []TurfGroup
}

// Groups yields (key, rows) for each distinct non-empty value of column, in
// ascending key order. Rows keep their input order within a group. Rows whose
// key is empty are not yielded. An unknown column yields nothing.
func Groups(columns []string, rows []JoinedRow, column string) iter.Seq2[string, []JoinedRow] {
	idx := Table{Columns: columns}.Index(column)
	return func(yield func(string, []JoinedRow) bool) {
		if idx < 0 {
			return
		}
		byKey := map[string][]JoinedRow{}
		for _, r := range rows {
			k := cell(r.Values, idx)
			if k == "" {
				continue
			}
			byKey[k] = append(byKey[k], r)
		}
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if !yield(k, byKey[k]) {
				return
			}
		}
	}
}

// Partition groups the dataset by Region, then by fo_name within each region.
func Partition(j Joined) []RegionGroup {
	var out []RegionGroup
	for region, rows := range Groups(j.Columns, j.Rows, ColRegion) {
		g := RegionGroup{Name: region, Rows: rows}
		for turf, trows := range Groups(j.Columns, rows, ColTurf) {
			g.Turfs = append(g.Turfs, TurfGroup{Name: turf, Rows: trows})
		}
		out = append(out, g)
	}
	return out
}

package turf

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RegionSummary rolls up one Region.
type RegionSummary struct {
	Region    string
	Precincts int // rows with a van_precinct_id
	Voters    float64
	Doors     float64
	Targets   float64
}

// TurfSummary counts the rows of one (Region, fo_name) pair.
type TurfSummary struct {
	Region    string
	Turf      string
	Precincts int
}

// Summary is the rollup printed at the end of a run.
type Summary struct {
	Regions        []RegionSummary
	Turfs          []TurfSummary
	TotalTurfs     int
	TotalPrecincts int
}

// Summarize aggregates the dataset per Region and per (Region, fo_name).
// Empty metric cells are skipped; non-numeric ones are an error.
func Summarize(j Joined) (Summary, error) {
	if err := (Table{Columns: j.Columns}).Require(ColRegion, ColTurf, ColPrecinctID, ColVoters, ColDoors, ColTargets); err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	pid := j.Index(ColPrecinctID)
	metrics := []int{j.Index(ColVoters), j.Index(ColDoors), j.Index(ColTargets)}

	s := Summary{TotalPrecincts: len(j.Rows)}
	for region, rows := range Groups(j.Columns, j.Rows, ColRegion) {
		rs := RegionSummary{Region: region}
		for _, r := range rows {
			if cell(r.Values, pid) != "" {
				rs.Precincts++
			}
			var vals [3]float64
			for k, mi := range metrics {
				v, err := parseMetric(cell(r.Values, mi))
				if err != nil {
					return Summary{}, fmt.Errorf("summarize region %q: column %s: %w", region, j.Columns[mi], err)
				}
				vals[k] = v
			}
			rs.Voters += vals[0]
			rs.Doors += vals[1]
			rs.Targets += vals[2]
		}
		s.Regions = append(s.Regions, rs)

		for turf, trows := range Groups(j.Columns, rows, ColTurf) {
			s.Turfs = append(s.Turfs, TurfSummary{Region: region, Turf: turf, Precincts: len(trows)})
		}
	}
	s.TotalTurfs = len(s.Turfs)
	return s, nil
}

func parseMetric(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Render prints the summary table and totals. withTurfs adds the per-turf
// breakdown.
func Render(w io.Writer, s Summary, withTurfs bool) error {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\n=== SUMMARY ===\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "Region\tprecincts\tvoters\tdoors\ttargets\t\n")
	for _, r := range s.Regions {
		p.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t\n",
			r.Region, r.Precincts, number(p, r.Voters), number(p, r.Doors), number(p, r.Targets))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if withTurfs {
		p.Fprintf(w, "\n")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		p.Fprintf(tw, "Region\tfo_name\tprecincts\n")
		for _, t := range s.Turfs {
			p.Fprintf(tw, "%s\t%s\t%d\n", t.Region, t.Turf, t.Precincts)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	p.Fprintf(w, "\nTotal turfs across all regions: %d\n", s.TotalTurfs)
	_, err := p.Fprintf(w, "Total precincts across all regions: %d\n", s.TotalPrecincts)
	return err
}

func number(p *message.Printer, f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return p.Sprintf("%d", int64(f))
	}
	return p.Sprintf("%.2f", f)
}

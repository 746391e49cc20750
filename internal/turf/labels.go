package turf

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MasterFileName holds every row regardless of region or turf.
const MasterFileName = "all_regions_turf_shapes.csv"

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// SanitizeLabel turns a turf label into a file-system-safe base name:
// spaces become underscores, hyphens are dropped, the result is lower-cased
// and stripped of leading and trailing underscores.
//
// "Oak-Grove Team" -> "oak_grove_team". Sanitizing twice is a no-op.
func SanitizeLabel(label string) string {
	s := strings.ReplaceAll(label, " ", "_")
	s = strings.ReplaceAll(s, "-", "")
	return strings.Trim(lower(s), "_")
}

// RegionFileName is the per-region file: the lower-cased label, unsanitized.
func RegionFileName(region string) string {
	return lower(region) + "_turf_shapes.csv"
}

// TurfFileName is the per-turf file. Turf files share one directory across
// regions.
func TurfFileName(turf string) string {
	return SanitizeLabel(turf) + ".csv"
}

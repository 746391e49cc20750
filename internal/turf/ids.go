package turf

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultNamespace seeds turf ids when no namespace is configured.
var DefaultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://empowered.vote/turf-shapes"))

func v5(ns uuid.UUID, name string) uuid.UUID {
	return uuid.NewSHA1(ns, []byte(name))
}

func canon(s string) string {
	return lower(strings.Join(strings.Fields(strings.TrimSpace(s)), " "))
}

// RegionID is stable for a region label across runs.
func RegionID(ns uuid.UUID, region string) uuid.UUID {
	return v5(ns, "region:"+canon(region))
}

// TurfID is stable for a (region, turf) pair across runs.
func TurfID(ns uuid.UUID, region, turf string) uuid.UUID {
	return v5(ns, "turf:"+RegionID(ns, region).String()+":"+canon(turf))
}

package turf

import (
	"log"
	"time"
)

// LogJoin logs how many attribute rows found a shape.
func LogJoin(rows, matched int) {
	log.Printf("[join] %d rows, %d matched geometry, %d without", rows, matched, rows-matched)
}

// LogDuplicateKey logs a GEOID that appears more than once on the geometry side.
func LogDuplicateKey(geoid string) {
	log.Printf("[join] duplicate geometry GEOID %q; keeping first record", geoid)
}

// LogCollision logs two labels that sanitize to the same file name.
func LogCollision(name, previous, label string) {
	log.Printf("[export] %s: %q overwrites output of %q", name, label, previous)
}

// LogStage logs a finished pipeline stage.
func LogStage(stage string, count int, duration time.Duration) {
	log.Printf("[pipeline] %s: %d records in %dms", stage, count, duration.Milliseconds())
}

package source

import (
	"log"
	"time"
)

// LogQuery logs a warehouse query being made.
func LogQuery(source, query string, params map[string]interface{}) {
	if len(params) > 0 {
		log.Printf("[%s] %s params=%v", source, query, params)
	} else {
		log.Printf("[%s] %s", source, query)
	}
}

// LogPage logs one page of warehouse results.
func LogPage(source string, offset, count int, duration time.Duration) {
	log.Printf("[%s] page offset=%d rows=%d duration=%dms",
		source, offset, count, duration.Milliseconds())
}

// LogLoad logs a finished load.
func LogLoad(source, from string, count int, duration time.Duration) {
	log.Printf("[%s] loaded %d records from %s in %dms",
		source, count, from, duration.Milliseconds())
}

// LogError logs an error from a source operation.
func LogError(source, operation string, err error) {
	log.Printf("[%s] %s error: %v", source, operation, err)
}

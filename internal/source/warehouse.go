package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Warehouse pages the attribute table out of Postgres. Pages are throttled
// to stay inside the warehouse's query quota.
type Warehouse struct {
	db       *gorm.DB
	table    string
	regions  []string
	pageSize int
	limiter  *rate.Limiter
}

// NewWarehouse creates a warehouse attribute source. table may be
// schema-qualified ("turf.all_regions_turfs").
func NewWarehouse(db *gorm.DB, table string, regions []string, pageSize int, qps float64) *Warehouse {
	return &Warehouse{
		db:       db,
		table:    table,
		regions:  regions,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(rate.Limit(qps), 1),
	}
}

// QuoteTable quotes a possibly schema-qualified table name.
func QuoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// PageQuery builds the paged SELECT and its leading arguments. LIMIT and
// OFFSET are appended by the caller. Attribute rows may repeat on
// (GEOID, van_precinct_id), so ctid breaks ties and keeps pages disjoint.
func PageQuery(table string, regions []string) (string, []interface{}) {
	var (
		where string
		args  []interface{}
	)
	if len(regions) > 0 {
		where = fmt.Sprintf(" WHERE %s = ANY(?)", pgx.Identifier{turf.ColRegion}.Sanitize())
		args = append(args, pq.Array(regions))
	}
	order := pgx.Identifier{turf.ColGEOID}.Sanitize() + ", " + pgx.Identifier{turf.ColPrecinctID}.Sanitize() + ", ctid"
	return fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s LIMIT ? OFFSET ?", QuoteTable(table), where, order), args
}

func (w *Warehouse) FetchAttributes(ctx context.Context) (turf.Table, error) {
	start := time.Now()
	query, args := PageQuery(w.table, w.regions)
	LogQuery("warehouse", query, map[string]interface{}{"regions": w.regions, "page_size": w.pageSize})

	var out turf.Table
	for offset := 0; ; offset += w.pageSize {
		if err := w.limiter.Wait(ctx); err != nil {
			return turf.Table{}, err
		}
		pageStart := time.Now()
		cols, rows, err := w.page(ctx, query, append(args, w.pageSize, offset))
		if err != nil {
			LogError("warehouse", "query", err)
			return turf.Table{}, err
		}
		LogPage("warehouse", offset, len(rows), time.Since(pageStart))

		if out.Columns == nil {
			out.Columns = cols
		}
		out.Rows = append(out.Rows, rows...)
		if len(rows) < w.pageSize {
			break
		}
	}

	if err := out.Require(turf.RequiredColumns...); err != nil {
		return turf.Table{}, fmt.Errorf("%s: %w", w.table, err)
	}
	LogLoad("warehouse", w.table, out.Len(), time.Since(start))
	return out, nil
}

func (w *Warehouse) page(ctx context.Context, query string, args []interface{}) ([]string, [][]string, error) {
	rows, err := w.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, nil, fmt.Errorf("warehouse query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("warehouse columns: %w", err)
	}

	var out [][]string
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan warehouse row: %w", err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = cellString(v)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("warehouse rows: %w", err)
	}
	return cols, out, nil
}

// cellString renders a scanned value. Numbers use the join-key rule so an
// integral float prints without a fraction.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case string:
		return x
	case []byte:
		return string(x)
	}
	return turf.KeyString(v)
}

package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const rowQuery = `
SELECT
    vc.thumbnail AS thumbnail_cid,
    a.action_name
FROM "VideoClip" vc
INNER JOIN "VideoClipAction" vca ON vc.clip_id = vca.clip_id
INNER JOIN "Action" a ON vca.action_id = a.action_id
WHERE vc.thumbnail IS NOT NULL AND vc.thumbnail <> ''`

const groupedQuery = `
SELECT
    vc.thumbnail AS thumbnail_cid,
    array_agg(a.action_name ORDER BY vca.confidence DESC) AS actions
FROM "VideoClip" vc
INNER JOIN "VideoClipAction" vca ON vc.clip_id = vca.clip_id
INNER JOIN "Action" a ON vca.action_id = a.action_id
WHERE vc.thumbnail IS NOT NULL AND vc.thumbnail <> ''
  AND vca.confidence >= $1
GROUP BY vc.thumbnail`

// Postgres reads clip records from the clip/action schema.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Rows returns one ClipRecord per (thumbnail, action) join row.
func (p *Postgres) Rows(ctx context.Context) ([]ClipRecord, error) {
	rows, err := p.pool.Query(ctx, rowQuery)
	if err != nil {
		return nil, fmt.Errorf("query clip actions: %w", err)
	}
	defer rows.Close()

	var records []ClipRecord
	for rows.Next() {
		var cid, action string
		if err := rows.Scan(&cid, &action); err != nil {
			return nil, fmt.Errorf("scan clip action row: %w", err)
		}
		records = append(records, ClipRecord{CID: cid, Actions: []string{action}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read clip action rows: %w", err)
	}
	return records, nil
}

// Grouped returns one ClipRecord per thumbnail with its actions ordered by
// descending confidence. Actions below minConfidence are filtered in the
// query, so a thumbnail whose actions all fall below the threshold is
// omitted entirely.
func (p *Postgres) Grouped(ctx context.Context, minConfidence float64) ([]ClipRecord, error) {
	rows, err := p.pool.Query(ctx, groupedQuery, minConfidence)
	if err != nil {
		return nil, fmt.Errorf("query grouped clip actions: %w", err)
	}
	defer rows.Close()

	var records []ClipRecord
	for rows.Next() {
		var rec ClipRecord
		if err := rows.Scan(&rec.CID, &rec.Actions); err != nil {
			return nil, fmt.Errorf("scan grouped clip row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read grouped clip rows: %w", err)
	}
	return records, nil
}

// Package postgres implements every component's Store interface against a
// single PostgreSQL schema (db/migrations), using pgx directly: one
// repository type per aggregate, explicit SQL, no ORM — the shape grounded
// throughout on opentrusty-opentrusty-core's store/postgres package.
// Connection pooling, retry, and migrations are handled by pkg/pg; these
// repositories only ever see the resulting *pgxpool.Pool.
package postgres

import "time"

func secondsToDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}

func durationPtrToSecondsPtr(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	seconds := int64(d.Seconds())
	return &seconds
}

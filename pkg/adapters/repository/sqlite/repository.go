package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

const (
	Backend         = "sql"
	DefaultCapacity = 1000
)

type SQLiteRepository struct {
	db       *sql.DB
	capacity int
}

func NewSQLiteRepository(dbURL string, capacity int) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &SQLiteRepository{db: db, capacity: capacity}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS visitors (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		guest_name TEXT NOT NULL,
		visited_at TEXT NOT NULL,
		ip TEXT,
		city TEXT,
		region TEXT,
		country TEXT,
		device_type TEXT,
		user_agent TEXT,
		referrer TEXT
	);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) Backend() string { return Backend }

func (r *SQLiteRepository) Append(ctx context.Context, visit domain.Visit) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// 1. Insert Visit Record
	insert := `INSERT INTO visitors (id, guest_name, visited_at, ip, city, region, country, device_type, user_agent, referrer)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, insert,
		visit.ID, visit.GuestName, visit.Timestamp.UTC().Format(time.RFC3339Nano), visit.OriginAddress,
		visit.Location.City, visit.Location.Region, visit.Location.Country,
		string(visit.DeviceType), visit.UserAgent, visit.Referrer,
	)
	if err != nil {
		return "", err
	}

	// 2. Evict everything older than the newest `capacity` rows
	evict := `DELETE FROM visitors WHERE seq NOT IN (SELECT seq FROM visitors ORDER BY seq DESC LIMIT ?)`
	if _, err = tx.ExecContext(ctx, evict, r.capacity); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return Backend, nil
}

func (r *SQLiteRepository) ReadAll(ctx context.Context) (domain.Snapshot, error) {
	query := `SELECT id, guest_name, visited_at, ip, city, region, country, device_type, user_agent, referrer
			  FROM visitors ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer rows.Close()

	visits := []domain.Visit{}
	for rows.Next() {
		var v domain.Visit
		var visitedAt, deviceType string
		var ip, city, region, country, userAgent, referrer sql.NullString
		if err := rows.Scan(&v.ID, &v.GuestName, &visitedAt, &ip, &city, &region, &country, &deviceType, &userAgent, &referrer); err != nil {
			return domain.Snapshot{}, err
		}
		if v.Timestamp, err = time.Parse(time.RFC3339Nano, visitedAt); err != nil {
			return domain.Snapshot{}, fmt.Errorf("visitor %s: bad visited_at %q: %w", v.ID, visitedAt, err)
		}
		v.OriginAddress = ip.String
		v.Location = domain.Location{City: city.String, Region: region.String, Country: country.String}
		v.DeviceType = domain.DeviceType(deviceType)
		v.UserAgent = userAgent.String
		v.Referrer = referrer.String
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	return domain.Snapshot{Backend: Backend, Visits: visits, Queryable: true}, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM visitors`)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ensure interface compliance
var _ ports.VisitorStore = (*SQLiteRepository)(nil)

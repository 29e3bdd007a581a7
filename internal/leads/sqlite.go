package leads

import (
	"context"
	"database/sql"
	"fmt"

	"zapbot/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

const leadsSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	phone         TEXT NOT NULL,
	name          TEXT NOT NULL,
	contact_phone TEXT NOT NULL,
	profile       TEXT NOT NULL,
	company       TEXT NOT NULL,
	tax_id        TEXT NOT NULL,
	address       TEXT NOT NULL,
	email         TEXT NOT NULL,
	mode          TEXT NOT NULL,
	order_code    TEXT NOT NULL DEFAULT '',
	items         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_phone ON leads(phone);
CREATE INDEX IF NOT EXISTS idx_leads_mode ON leads(mode);
`

// SQLiteSink is the durable lead store, swappable for the CSV appender
// via configuration.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the SQLite lead database at path.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, fmt.Errorf("invalid database path")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(leadsSchema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Save(ctx context.Context, lead *models.Lead) error {
	const query = `
		INSERT INTO leads (
			id, phone, name, contact_phone, profile, company,
			tax_id, address, email, mode, order_code, items, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		lead.ID,
		lead.Phone,
		lead.Name,
		lead.ContactPhone,
		lead.Profile,
		lead.Company,
		lead.TaxID,
		lead.Address,
		lead.Email,
		string(lead.Mode),
		lead.OrderCode,
		lead.ItemsString(),
		lead.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

// CountByMode returns how many leads were captured per flow mode.
func (s *SQLiteSink) CountByMode(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mode, COUNT(*) FROM leads GROUP BY mode`)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mode string
		var count int
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, fmt.Errorf("failed to scan lead count: %w", err)
		}
		counts[mode] = count
	}
	return counts, rows.Err()
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

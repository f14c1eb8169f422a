package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/scoutline/leadscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given DSN and enables WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	industry     TEXT NOT NULL DEFAULT '',
	country_code TEXT NOT NULL,
	instagram    TEXT NOT NULL DEFAULT '',
	tiktok       TEXT NOT NULL DEFAULT '',
	twitter      TEXT NOT NULL DEFAULT '',
	linkedin     TEXT NOT NULL DEFAULT '',
	followers    TEXT NOT NULL DEFAULT '',
	added_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	brief      TEXT NOT NULL,
	contacts   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS leads (
	id      TEXT PRIMARY KEY,
	run_id  TEXT NOT NULL REFERENCES runs(id),
	name    TEXT NOT NULL,
	score   INTEGER NOT NULL,
	payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_country ON contacts(country_code);
CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ContactsByMarket(ctx context.Context, countryCode string) ([]Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, company, title, industry, country_code,
		        instagram, tiktok, twitter, linkedin, followers, added_at
		 FROM contacts WHERE country_code = ? ORDER BY added_at`,
		countryCode,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query contacts %s", countryCode)
	}
	defer rows.Close() //nolint:errcheck

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Title, &c.Industry,
			&c.CountryCode, &c.Instagram, &c.TikTok, &c.Twitter, &c.LinkedIn,
			&c.Followers, &c.AddedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "sqlite: iterate contacts")
}

func (s *SQLiteStore) AddContact(ctx context.Context, c Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.AddedAt.IsZero() {
		c.AddedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, company, title, industry, country_code,
		                       instagram, tiktok, twitter, linkedin, followers, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Company, c.Title, c.Industry, c.CountryCode,
		c.Instagram, c.TikTok, c.Twitter, c.LinkedIn, c.Followers, c.AddedAt,
	)
	return eris.Wrap(err, "sqlite: insert contact")
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	briefJSON, err := json.Marshal(run.Brief)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal brief")
	}
	contactsJSON, err := json.Marshal(run.Contacts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal contacts")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, brief, contacts, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, string(briefJSON), string(contactsJSON), run.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run          Run
		briefJSON    string
		contactsJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, brief, contacts, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &briefJSON, &contactsJSON, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: run %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}

	if err := json.Unmarshal([]byte(briefJSON), &run.Brief); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal brief")
	}
	if err := json.Unmarshal([]byte(contactsJSON), &run.Contacts); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal contacts")
	}
	return &run, nil
}

func (s *SQLiteStore) SaveLeads(ctx context.Context, runID string, leads []model.QualifiedLead) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, lead := range leads {
		payload, err := json.Marshal(lead)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal lead")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO leads (id, run_id, name, score, payload) VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, lead.Name, lead.QualityScore, string(payload),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert lead")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit leads")
}

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/model"
)

// pgxPool abstracts pgxpool.Pool so tests can substitute pgxmock.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgres connects to Postgres with the given connection string.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool pgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
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
	added_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	brief      JSONB NOT NULL,
	contacts   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id      TEXT PRIMARY KEY,
	run_id  TEXT NOT NULL REFERENCES runs(id),
	name    TEXT NOT NULL,
	score   INTEGER NOT NULL,
	payload JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_country ON contacts(country_code);
CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ContactsByMarket(ctx context.Context, countryCode string) ([]Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, company, title, industry, country_code,
		        instagram, tiktok, twitter, linkedin, followers, added_at
		 FROM contacts WHERE country_code = $1 ORDER BY added_at`,
		countryCode,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query contacts %s", countryCode)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Title, &c.Industry,
			&c.CountryCode, &c.Instagram, &c.TikTok, &c.Twitter, &c.LinkedIn,
			&c.Followers, &c.AddedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "postgres: iterate contacts")
}

func (s *PostgresStore) AddContact(ctx context.Context, c Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.AddedAt.IsZero() {
		c.AddedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, name, email, company, title, industry, country_code,
		                       instagram, tiktok, twitter, linkedin, followers, added_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.Name, c.Email, c.Company, c.Title, c.Industry, c.CountryCode,
		c.Instagram, c.TikTok, c.Twitter, c.LinkedIn, c.Followers, c.AddedAt,
	)
	return eris.Wrap(err, "postgres: insert contact")
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *Run) error {
	briefJSON, err := json.Marshal(run.Brief)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal brief")
	}
	contactsJSON, err := json.Marshal(run.Contacts)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal contacts")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, brief, contacts, created_at) VALUES ($1, $2, $3, $4)`,
		run.ID, briefJSON, contactsJSON, run.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert run")
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run          Run
		briefJSON    []byte
		contactsJSON []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, brief, contacts, created_at FROM runs WHERE id = $1`, id,
	).Scan(&run.ID, &briefJSON, &contactsJSON, &run.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, eris.Errorf("postgres: run %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}

	if err := json.Unmarshal(briefJSON, &run.Brief); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal brief")
	}
	if err := json.Unmarshal(contactsJSON, &run.Contacts); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal contacts")
	}
	return &run, nil
}

func (s *PostgresStore) SaveLeads(ctx context.Context, runID string, leads []model.QualifiedLead) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, lead := range leads {
		payload, err := json.Marshal(lead)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal lead")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO leads (id, run_id, name, score, payload) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), runID, lead.Name, lead.QualityScore, payload,
		); err != nil {
			return eris.Wrap(err, "postgres: insert lead")
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit leads")
}

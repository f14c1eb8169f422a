// Package store persists the local contact book, discovery runs and
// qualified leads. Two backends are provided: SQLite for single-user CLI
// use and Postgres for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/model"
)

// Contact is a row in the local contact book, the Tier 1 internal source.
type Contact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Company     string    `json:"company,omitempty"`
	Title       string    `json:"title,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	CountryCode string    `json:"country_code"`
	Instagram   string    `json:"instagram,omitempty"`
	TikTok      string    `json:"tiktok,omitempty"`
	Twitter     string    `json:"twitter,omitempty"`
	LinkedIn    string    `json:"linkedin,omitempty"`
	Followers   string    `json:"followers,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// Run is a persisted discovery result, addressable by ID for later
// qualification.
type Run struct {
	ID        string            `json:"id"`
	Brief     model.Brief       `json:"brief"`
	Contacts  []model.Candidate `json:"contacts"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store is the persistence interface for the lead pipeline.
type Store interface {
	ContactsByMarket(ctx context.Context, countryCode string) ([]Contact, error)
	AddContact(ctx context.Context, c Contact) error

	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	SaveLeads(ctx context.Context, runID string, leads []model.QualifiedLead) error

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a store for the given driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		if dsn == "" {
			dsn = "leadscout.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	}
	return nil, eris.Errorf("store: unknown driver %q", driver)
}

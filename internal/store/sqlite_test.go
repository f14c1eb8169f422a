package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/leadscout/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s
}

func TestSQLite_Contacts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddContact(ctx, Contact{
		Name:        "Thandi Mokoena",
		Email:       "thandi@yanoblog.example",
		Industry:    "music blogging",
		CountryCode: "ZA",
		Instagram:   "thandi_m",
	}))
	require.NoError(t, s.AddContact(ctx, Contact{
		Name:        "Kwame Mensah",
		CountryCode: "GH",
	}))

	za, err := s.ContactsByMarket(ctx, "ZA")
	require.NoError(t, err)
	require.Len(t, za, 1)
	assert.Equal(t, "Thandi Mokoena", za[0].Name)
	assert.NotEmpty(t, za[0].ID)

	none, err := s.ContactsByMarket(ctx, "NG")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_RunRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{
		ID: "run-1",
		Brief: model.Brief{
			ContactTypes: []string{"bloggers"},
			Markets:      []string{"South Africa"},
			TargetCount:  5,
			SearchDepth:  model.DepthQuick,
		},
		Contacts: []model.Candidate{
			{Name: "Thandi Mokoena", Email: "thandi@yanoblog.example", Source: "Local Store", Confidence: model.ConfidenceHigh},
		},
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Brief, got.Brief)
	assert.Equal(t, run.Contacts, got.Contacts)

	_, err = s.GetRun(ctx, "missing")
	assert.Error(t, err)
}

func TestSQLite_SaveLeads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, &Run{ID: "run-2", Contacts: []model.Candidate{}}))

	leads := []model.QualifiedLead{
		{Candidate: model.Candidate{Name: "Thandi Mokoena"}, QualityScore: 80, WasVerified: true},
		{Candidate: model.Candidate{Name: "Kwame Mensah"}, QualityScore: 20},
	}
	require.NoError(t, s.SaveLeads(ctx, "run-2", leads))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	assert.Error(t, err)
}

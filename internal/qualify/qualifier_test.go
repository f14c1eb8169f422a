package qualify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/source"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	platform string
	profile  *source.Profile
	err      error
	calls    atomic.Int32
}

func (f *fakeFetcher) Platform() string { return f.platform }

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*source.Profile, error) {
	f.calls.Add(1)
	return f.profile, f.err
}

func newQualifier(t *testing.T, fetchers ...source.ProfileFetcher) *Qualifier {
	t.Helper()
	return New(fetchers, loadDefaults(t)).WithNow(func() time.Time { return testNow })
}

// Scenario: a TikTok dancer with 15k followers, a post ten days ago and a
// bio naming both niche and location scores well above the threshold.
func TestQualify_VerifiedHighQualityLead(t *testing.T) {
	fetcher := &fakeFetcher{
		platform: "tiktok",
		profile: &source.Profile{
			Handle:    "thandi.m",
			Name:      "Thandi Mokoena",
			Bio:       "Amapiano dance vibes from Soweto 🇿🇦",
			Followers: 15_000,
			Posts: []source.Post{
				{
					PostedAt: testNow.AddDate(0, 0, -10),
					Caption:  "new routine",
					Hashtags: []string{"#amapiano", "#dance"},
					Likes:    100,
					Comments: 10,
					Views:    2000,
				},
			},
		},
	}

	q := newQualifier(t, fetcher)
	res, err := q.Qualify(context.Background(), []model.Candidate{
		{Name: "Thandi Mokoena", TikTok: "thandi.m", Confidence: model.ConfidenceMedium},
	}, Config{EntityType: "dancer", Niche: "amapiano", TargetLocation: "Soweto", Platform: "tiktok"}, nil)
	require.NoError(t, err)
	require.Len(t, res.Qualified, 1)

	lead := res.Qualified[0]
	assert.True(t, lead.WasVerified)
	assert.True(t, lead.IsActive)
	assert.Equal(t, 15_000, lead.VerifiedFollowers)
	assert.Contains(t, lead.DetectedNiche, "amapiano")
	assert.Equal(t, "Soweto", lead.DetectedLocation)
	assert.GreaterOrEqual(t, lead.QualityScore, 80)
	assert.LessOrEqual(t, lead.QualityScore, 100)
	assert.Contains(t, lead.QualityReasons, "verified profile")
	assert.Contains(t, lead.QualityReasons, "niche matches target")
	assert.Contains(t, lead.QualityReasons, "location matches target")
}

func TestQualify_ActivityBoundary(t *testing.T) {
	cases := []struct {
		name     string
		lastPost time.Time
		active   bool
	}{
		{"sixty days ago is active", testNow.Add(-60 * 24 * time.Hour), true},
		{"sixty-one days ago is inactive", testNow.Add(-61 * 24 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &fakeFetcher{
				platform: "instagram",
				profile: &source.Profile{
					Followers: 500,
					Posts:     []source.Post{{PostedAt: tc.lastPost}},
				},
			}

			q := newQualifier(t, fetcher)
			res, err := q.Qualify(context.Background(), []model.Candidate{
				{Name: "X", Instagram: "x"},
			}, Config{}, nil)
			require.NoError(t, err)
			require.Len(t, res.Qualified, 1)
			assert.Equal(t, tc.active, res.Qualified[0].IsActive)
			require.NotNil(t, res.Qualified[0].LastPostAt)
		})
	}
}

// Every additive bonus at once must still cap at 100.
func TestScoreVerified_CappedAtHundred(t *testing.T) {
	lead := model.QualifiedLead{
		Candidate:         model.Candidate{Name: "Max"},
		WasVerified:       true,
		VerifiedFollowers: 50_000,
		IsActive:          true,
		Bio:               "amapiano dance all day from Soweto",
		DetectedNiche:     "amapiano, dance",
		DetectedLocation:  "Soweto",
		WebsiteURL:        "https://max.example",
		EngagementRate:    8.2,
	}
	scoreVerified(&lead, Config{Niche: "amapiano", TargetLocation: "Soweto"})
	assert.Equal(t, 100, lead.QualityScore)
}

func TestQualify_OverLimitFallback(t *testing.T) {
	fetcher := &fakeFetcher{
		platform: "instagram",
		profile:  &source.Profile{Followers: 200},
	}

	q := newQualifier(t, fetcher)
	res, err := q.Qualify(context.Background(), []model.Candidate{
		{Name: "Selected", Instagram: "sel", Confidence: model.ConfidenceLow},
		{Name: "HighConf", Confidence: model.ConfidenceHigh},
		{Name: "MedConf", Confidence: model.ConfidenceMedium},
		{Name: "LowConf", Confidence: model.ConfidenceLow},
	}, Config{MaxToQualify: 1, Platform: "instagram"}, nil)
	require.NoError(t, err)
	require.Len(t, res.Qualified, 4)

	byName := map[string]model.QualifiedLead{}
	for _, l := range res.Qualified {
		byName[l.Name] = l
	}

	assert.True(t, byName["Selected"].WasVerified)
	for _, name := range []string{"HighConf", "MedConf", "LowConf"} {
		assert.False(t, byName[name].WasVerified)
		assert.Contains(t, byName[name].QualityReasons, "not verified (over qualification limit)")
	}
	assert.Equal(t, 30, byName["HighConf"].QualityScore)
	assert.Equal(t, 20, byName["MedConf"].QualityScore)
	assert.Equal(t, 10, byName["LowConf"].QualityScore)
}

func TestQualify_FetchFailureBasicScoring(t *testing.T) {
	fetcher := &fakeFetcher{platform: "instagram", err: eris.New("rate limited")}

	q := newQualifier(t, fetcher)
	res, err := q.Qualify(context.Background(), []model.Candidate{
		{
			Name:       "Broken",
			Email:      "b@example.com",
			Instagram:  "broken",
			Followers:  "12.4K",
			Confidence: model.ConfidenceHigh,
		},
	}, Config{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Qualified, 1)

	lead := res.Qualified[0]
	assert.False(t, lead.WasVerified)
	assert.Contains(t, lead.QualityReasons, "unverified (basic scoring only)")
	// 15 email + 15 confidence + 10 handle + 5 followers string, capped at 50.
	assert.Equal(t, 45, lead.QualityScore)
}

func TestQualify_NoHandleBasicScoring(t *testing.T) {
	fetcher := &fakeFetcher{platform: "instagram", profile: &source.Profile{}}

	q := newQualifier(t, fetcher)
	res, err := q.Qualify(context.Background(), []model.Candidate{
		{Name: "NoSocials", Confidence: model.ConfidenceLow},
	}, Config{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Qualified, 1)

	assert.False(t, res.Qualified[0].WasVerified)
	assert.Equal(t, int32(0), fetcher.calls.Load())
	assert.Contains(t, res.Qualified[0].QualityReasons, "unverified (basic scoring only)")
}

func TestQualify_PreferredPlatformHandleWinsSelection(t *testing.T) {
	fetcher := &fakeFetcher{
		platform: "tiktok",
		profile:  &source.Profile{Followers: 100},
	}

	// The low-confidence TikTok candidate outranks the high-confidence one
	// with no handle when TikTok is the preferred platform.
	q := newQualifier(t, fetcher)
	res, err := q.Qualify(context.Background(), []model.Candidate{
		{Name: "NoHandle", Confidence: model.ConfidenceHigh},
		{Name: "TikTokster", TikTok: "tt", Confidence: model.ConfidenceLow},
	}, Config{MaxToQualify: 1, Platform: "tiktok"}, nil)
	require.NoError(t, err)
	require.Len(t, res.Qualified, 2)

	byName := map[string]model.QualifiedLead{}
	for _, l := range res.Qualified {
		byName[l.Name] = l
	}
	assert.True(t, byName["TikTokster"].WasVerified)
	assert.Contains(t, byName["NoHandle"].QualityReasons, "not verified (over qualification limit)")
}

func TestQualify_BatchProgressAndOrdering(t *testing.T) {
	fetcher := &fakeFetcher{
		platform: "instagram",
		profile:  &source.Profile{Followers: 5000},
	}

	cands := make([]model.Candidate, 7)
	for i := range cands {
		cands[i] = model.Candidate{Name: string(rune('A' + i)), Instagram: "h"}
	}

	var events []model.ProgressEvent
	q := newQualifier(t, fetcher)
	res, err := q.Qualify(context.Background(), cands, Config{MaxToQualify: 7}, func(e model.ProgressEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)
	require.Len(t, res.Qualified, 7)
	assert.Equal(t, int32(7), fetcher.calls.Load())

	// Three enriching events for batches of 3, 3, 1, then a done event.
	require.Len(t, events, 4)
	assert.Equal(t, "batch 1/3", events[0].CurrentSource)
	assert.Equal(t, 3, events[0].Found)
	assert.Equal(t, "batch 2/3", events[1].CurrentSource)
	assert.Equal(t, 6, events[1].Found)
	assert.Equal(t, "batch 3/3", events[2].CurrentSource)
	assert.Equal(t, 7, events[2].Found)
	assert.Equal(t, model.StatusDone, events[3].Status)

	for _, e := range events[:3] {
		assert.Equal(t, TierLabel, e.Tier)
		assert.Equal(t, model.StatusEnriching, e.Status)
		assert.Equal(t, 7, e.Target)
	}

	// Output is sorted best first.
	for i := 1; i < len(res.Qualified); i++ {
		assert.GreaterOrEqual(t, res.Qualified[i-1].QualityScore, res.Qualified[i].QualityScore)
	}
}

func TestQualify_EmptyInput(t *testing.T) {
	q := newQualifier(t)
	res, err := q.Qualify(context.Background(), nil, Config{}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Qualified)
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/leadscout/internal/model"
)

func TestRootSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"discover", "qualify", "serve", "contacts"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestPreferredPlatform(t *testing.T) {
	assert.Equal(t, "tiktok", preferredPlatform("TikTok"))
	assert.Equal(t, "instagram", preferredPlatform("ig"))
	assert.Empty(t, preferredPlatform(""))
	assert.Empty(t, preferredPlatform("myspace"))
}

func TestQualifyConfigForBrief(t *testing.T) {
	setTestConfig(t)

	qcfg := qualifyConfigForBrief(model.Brief{
		ContactTypes:      []string{"dancers", "bloggers"},
		Genre:             "amapiano",
		SpecificLocation:  "Soweto",
		PreferredPlatform: "TikTok",
	})

	assert.Equal(t, "dancers bloggers", qcfg.EntityType)
	assert.Equal(t, "amapiano", qcfg.Niche)
	assert.Equal(t, "Soweto", qcfg.TargetLocation)
	assert.Equal(t, "tiktok", qcfg.Platform)
	assert.Equal(t, 10, qcfg.MaxToQualify)
}

func TestReadCandidates_ResultDocument(t *testing.T) {
	res := model.DiscoveryResult{Contacts: []model.Candidate{{Name: "Thandi"}}, Total: 1}
	data, err := json.Marshal(res)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cands, err := readCandidates(path)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Thandi", cands[0].Name)
}

func TestReadCandidates_BareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cands.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Sipho"},{"name":"Lerato"}]`), 0644))

	cands, err := readCandidates(path)
	require.NoError(t, err)
	assert.Len(t, cands, 2)
}

func TestReadCandidates_MissingFile(t *testing.T) {
	_, err := readCandidates("/nonexistent.json")
	assert.Error(t, err)
}

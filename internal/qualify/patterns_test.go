package qualify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) *PatternSet {
	t.Helper()
	ps, err := LoadPatterns("")
	require.NoError(t, err)
	return ps
}

func TestDetectNiche_OrderAndCap(t *testing.T) {
	ps := loadDefaults(t)

	// Labels come out in table order, earlier entries first.
	assert.Equal(t, "amapiano, dj", ps.DetectNiche("amapiano DJ from Joburg"))

	// At most three labels are combined.
	assert.Equal(t, "dance, amapiano, dj",
		ps.DetectNiche("dance amapiano dj fashion beauty"))
}

func TestDetectNiche_Default(t *testing.T) {
	ps := loadDefaults(t)
	assert.Equal(t, "general", ps.DetectNiche("quarterly earnings report"))
}

func TestDetectLocation_CityBeforeCountry(t *testing.T) {
	ps := loadDefaults(t)
	assert.Equal(t, "Soweto", ps.DetectLocation("Soweto, South Africa"))
	assert.Equal(t, "Johannesburg", ps.DetectLocation("based in joburg"))
}

func TestDetectLocation_SlangAndEmojiFallback(t *testing.T) {
	ps := loadDefaults(t)
	assert.Equal(t, "South Africa", ps.DetectLocation("proudly mzansi"))
	assert.Equal(t, "South Africa", ps.DetectLocation("vibes 🇿🇦"))
	assert.Empty(t, ps.DetectLocation("somewhere else entirely"))
}

func TestLoadPatterns_MissingFile(t *testing.T) {
	_, err := LoadPatterns("/nonexistent/patterns.yaml")
	assert.Error(t, err)
}

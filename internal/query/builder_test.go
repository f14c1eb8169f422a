package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scoutline/leadscout/internal/model"
)

func TestMarketCode_Known(t *testing.T) {
	assert.Equal(t, "ZA", MarketCode("South Africa"))
	assert.Equal(t, "ZA", MarketCode("  south africa "))
	assert.Equal(t, "NG", MarketCode("Nigeria"))
	assert.Equal(t, "GB", MarketCode("UK"))
}

func TestMarketCode_FallbackIsLossy(t *testing.T) {
	// Unknown markets collapse to the first two uppercased characters.
	assert.Equal(t, "WA", MarketCode("Wakanda"))
	assert.Equal(t, "X", MarketCode("x"))
	assert.Empty(t, MarketCode(""))
}

func TestNormalize_StripsDiacritics(t *testing.T) {
	assert.Equal(t, "sao paulo", Normalize("São Paulo"))
	assert.Equal(t, "cote d'ivoire", Normalize("Côte d'Ivoire"))
}

func TestBuild_Ordering(t *testing.T) {
	q, codes := Build(model.Brief{
		ContactTypes:     []string{"bloggers", "promoters"},
		Markets:          []string{"South Africa", "Nigeria"},
		Genre:            "amapiano",
		SpecificLocation: "Soweto",
	})

	assert.Equal(t, "amapiano bloggers promoters Soweto South Africa Nigeria email contact", q)
	assert.Equal(t, []string{"ZA", "NG"}, codes)
}

func TestBuild_AlwaysNonEmpty(t *testing.T) {
	q, codes := Build(model.Brief{})
	assert.Equal(t, "email contact", q)
	assert.Empty(t, codes)
}

func TestBuild_FreeformPrepended(t *testing.T) {
	q, _ := Build(model.Brief{
		ContactTypes:  []string{"bloggers"},
		Markets:       []string{"South Africa"},
		FreeformQuery: "rising stars 2025",
	})
	assert.Equal(t, "rising stars 2025 bloggers South Africa email contact", q)
}

func TestBuild_FreeformAlreadyContained(t *testing.T) {
	// Case-insensitive containment suppresses the prepend.
	q, _ := Build(model.Brief{
		ContactTypes:  []string{"Bloggers"},
		Markets:       []string{"South Africa"},
		FreeformQuery: "bloggers south africa",
	})
	assert.Equal(t, "Bloggers South Africa email contact", q)
}

func TestBuild_CollapsesWhitespace(t *testing.T) {
	q, _ := Build(model.Brief{
		ContactTypes: []string{"  bloggers  "},
		Genre:        " amapiano ",
	})
	assert.Equal(t, "amapiano bloggers email contact", q)
}

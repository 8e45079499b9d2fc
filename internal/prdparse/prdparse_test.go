package prdparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/prdparse"
)

const sampleDoc = `# Customer Portal Revamp

Some introductory prose that should be ignored.

## Objectives

- Reduce support ticket volume
- Self-service password reset

## Tech Stack

- Go
- PostgreSQL

## Constraints

- Must ship before Q3
`

func TestParseExtractsTitleAndSections(t *testing.T) {
	prd, err := prdparse.Parse(sampleDoc)
	require.NoError(t, err)
	require.Equal(t, "Customer Portal Revamp", prd.Title)
	require.Equal(t, []string{"Reduce support ticket volume", "Self-service password reset"}, prd.Objectives)
	require.Equal(t, []string{"Go", "PostgreSQL"}, prd.TechStack)
	require.Equal(t, []string{"Must ship before Q3"}, prd.Constraints)
	require.Equal(t, sampleDoc, prd.Raw)
}

func TestParseIgnoresListsOutsideKnownSections(t *testing.T) {
	doc := "# Title\n\n## Open Questions\n\n- Should this ship at all?\n"
	prd, err := prdparse.Parse(doc)
	require.NoError(t, err)
	require.Empty(t, prd.Objectives)
	require.Empty(t, prd.TechStack)
	require.Empty(t, prd.Constraints)
}

func TestParseIsCaseInsensitiveOnHeadings(t *testing.T) {
	doc := "# Title\n\n## GOALS\n\n- Ship faster\n"
	prd, err := prdparse.Parse(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"Ship faster"}, prd.Objectives)
}

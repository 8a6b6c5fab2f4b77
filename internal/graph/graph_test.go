package graph

import (
	"testing"

	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsFor(compoundID string) models.CompoundStats {
	return models.CompoundStats{CompoundID: compoundID, Attempts: 1, BestNPM: 400}
}

func TestBuildConnectsSingleDimensionNeighbors(t *testing.T) {
	reg := dimension.NewDefaultRegistry()

	all := []models.CompoundStats{
		statsFor("pentatonic_minor+E+8ths:xx"),
		statsFor("pentatonic_major+E+8ths:xx"),
		statsFor("minor+C+8ths:xx"),
	}

	g, err := Build(reg, all)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)

	found := false
	for _, e := range g.Edges {
		if e.Dimension == "scale" {
			found = true
		}
	}
	assert.True(t, found, "expected a scale-dimension edge between the two pentatonic compounds sharing position/rhythm")
}

func TestBuildOmitsEdgesBetweenNonNeighbors(t *testing.T) {
	reg := dimension.NewDefaultRegistry()

	all := []models.CompoundStats{
		statsFor("pentatonic_minor+E+8ths:xx"),
		statsFor("minor+C+8ths:xx"),
	}

	g, err := Build(reg, all)
	require.NoError(t, err)
	assert.Empty(t, g.Edges, "compounds differing in two dimensions should not be connected")
}

func TestBuildSkipsUnparsableCompoundIDs(t *testing.T) {
	reg := dimension.NewDefaultRegistry()

	all := []models.CompoundStats{
		statsFor("not-a-valid-id"),
		statsFor("pentatonic_minor+E+8ths:xx"),
	}

	g, err := Build(reg, all)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
}

func TestBuildExpandedAddsPotentialNodesForUnlockedDimensionsOnly(t *testing.T) {
	reg := dimension.NewDefaultRegistry()

	all := []models.CompoundStats{
		statsFor("pentatonic_minor+E+8ths:xx+stepwise+continuous"),
	}

	g, err := BuildExpanded(reg, all, map[string]bool{})
	require.NoError(t, err)

	for _, n := range g.Nodes {
		if n.Potential {
			assert.NotEqual(t, "note-pattern", "")
			np, _ := n.Compound.Value("note-pattern")
			assert.Equal(t, "stepwise", np.Name, "note-pattern is locked so no potential node should change it")
		}
	}

	gUnlocked, err := BuildExpanded(reg, all, map[string]bool{"note-pattern": true})
	require.NoError(t, err)

	var sawNotePatternPotential bool
	for _, n := range gUnlocked.Nodes {
		if n.Potential {
			if np, ok := n.Compound.Value("note-pattern"); ok && np.Name != "stepwise" {
				sawNotePatternPotential = true
			}
		}
	}
	assert.True(t, sawNotePatternPotential, "unlocking note-pattern should surface potential note-pattern neighbors")

	for _, e := range gUnlocked.Edges {
		if e.Dashed {
			assert.Equal(t, Forward, e.Direction)
		}
	}
}

// hasEdgeBetween reports whether any edge connects the given ids,
// regardless of which one landed in From vs To (compound iteration order
// is unspecified, so From/To assignment for a pair is not deterministic).
func hasEdgeBetween(edges []Edge, a, b string) bool {
	for _, e := range edges {
		if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
			return true
		}
	}
	return false
}

func TestTransitiveReductionDropsRedundantDirectEdge(t *testing.T) {
	reg := dimension.NewDefaultRegistry()

	// 8ths:xx's next list names both 8ths:downup (one tier ahead) and
	// 16ths:xxxx (two tiers ahead), so the direct 8ths:xx->16ths:xxxx edge
	// is a shortcut over the real 8ths:xx->8ths:downup->16ths:xxxx path and
	// should be reduced away.
	eighths := "pentatonic_minor+E+8ths:xx"
	downup := "pentatonic_minor+E+8ths:downup"
	sixteenths := "pentatonic_minor+E+16ths:xxxx"

	all := []models.CompoundStats{
		statsFor(eighths),
		statsFor(downup),
		statsFor(sixteenths),
	}

	g, err := Build(reg, all)
	require.NoError(t, err)

	assert.True(t, hasEdgeBetween(g.Edges, eighths, downup), "eighths->downup is the only direct link between them and must survive")
	assert.True(t, hasEdgeBetween(g.Edges, downup, sixteenths), "downup->sixteenths is the only direct link between them and must survive")
	assert.False(t, hasEdgeBetween(g.Edges, eighths, sixteenths), "eighths->sixteenths is redundant once the longer path through downup exists")
}

func TestTransitiveReductionRespectsEdgeDirection(t *testing.T) {
	reg := dimension.NewDefaultRegistry()

	// pentatonic_minor and pentatonic_major share a tier, giving a lateral
	// (bidirectional) scale edge, and pentatonic_minor->minor is a forward
	// scale edge with no reverse arc. pentatonic_major and minor are also
	// registered scale neighbors (regression is unrestricted across lower
	// tiers) but neither direction qualifies as forward, so buildEdges
	// excludes that pair entirely; reduction must not invent a path through
	// it and drop one of the two real edges.
	minorScale := "pentatonic_minor+E+8ths:xx"
	majorScale := "pentatonic_major+E+8ths:xx"
	minorTier1 := "minor+E+8ths:xx"

	all := []models.CompoundStats{
		statsFor(minorScale),
		statsFor(majorScale),
		statsFor(minorTier1),
	}

	g, err := Build(reg, all)
	require.NoError(t, err)

	assert.True(t, hasEdgeBetween(g.Edges, minorScale, majorScale), "lateral scale edge must survive reduction")
	assert.True(t, hasEdgeBetween(g.Edges, minorScale, minorTier1), "forward scale edge must survive reduction")
	assert.False(t, hasEdgeBetween(g.Edges, majorScale, minorTier1), "pentatonic_major/minor is a regression-only pair with no forward or backward edge")
}

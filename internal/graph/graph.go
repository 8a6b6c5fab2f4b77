// Package graph assembles the practiced-compound graph for UI display:
// nodes are practiced compounds, edges connect compounds one valid
// dimension-neighbor apart, classified forward/lateral/backward and
// transitively reduced to immediate progression links only.
package graph

import (
	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/models"
)

// Direction classifies an edge relative to its lower-indexed endpoint.
type Direction string

const (
	Forward  Direction = "forward"
	Lateral  Direction = "lateral"
	Backward Direction = "backward"
)

// Node is one compound in the graph.
type Node struct {
	CompoundID string           `json:"compound_id"`
	Compound   models.Compound  `json:"compound"`
	Stats      *models.CompoundStats `json:"stats,omitempty"`
	Potential  bool             `json:"potential"`
}

// Edge connects two nodes one valid dimension-neighbor apart.
type Edge struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Dimension string    `json:"dimension"`
	Direction Direction `json:"direction"`
	Dashed    bool      `json:"dashed"`
}

// Graph is the full node-and-edge view handed to the UI renderer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build assembles the practiced-only graph from compound stats.
func Build(reg *dimension.Registry, allStats []models.CompoundStats) (Graph, error) {
	nodes, compounds, err := nodesFromStats(allStats)
	if err != nil {
		return Graph{}, err
	}

	edges := buildEdges(reg, compounds)
	edges = transitiveReduce(edges)

	return Graph{Nodes: nodes, Edges: edges}, nil
}

// BuildExpanded adds potential nodes: forward-only neighbors of every
// practiced node along each unlocked dimension, each with a single dashed
// incoming edge from its generating source.
func BuildExpanded(reg *dimension.Registry, allStats []models.CompoundStats, unlocked map[string]bool) (Graph, error) {
	base, err := Build(reg, allStats)
	if err != nil {
		return Graph{}, err
	}

	seen := map[string]bool{}
	for _, n := range base.Nodes {
		seen[n.CompoundID] = true
	}

	dimNames := append(append([]string{}, reg.TierZeroNames()...), reg.HigherTierNames()...)

	for _, n := range base.Nodes {
		for _, dimName := range dimNames {
			isTierZero := false
			for _, t0 := range reg.TierZeroNames() {
				if t0 == dimName {
					isTierZero = true
				}
			}
			if !isTierZero && !unlocked[dimName] {
				continue
			}

			dim := reg.Get(dimName)
			if dim == nil {
				continue
			}
			curSig, ok := n.Compound.Value(dimName)
			if !ok {
				continue
			}
			for _, neighborSig := range dim.Neighbors(curSig) {
				if !dim.IsForwardNeighbor(curSig, neighborSig) {
					continue
				}
				candidate := n.Compound.WithDimension(neighborSig)
				candID := compoundid.ID(candidate)
				if seen[candID] {
					continue
				}
				seen[candID] = true
				base.Nodes = append(base.Nodes, Node{CompoundID: candID, Compound: candidate, Potential: true})
				base.Edges = append(base.Edges, Edge{
					From: n.CompoundID, To: candID, Dimension: dimName, Direction: Forward, Dashed: true,
				})
			}
		}
	}

	return base, nil
}

func nodesFromStats(allStats []models.CompoundStats) ([]Node, map[string]models.Compound, error) {
	nodes := make([]Node, 0, len(allStats))
	compounds := map[string]models.Compound{}
	for i := range allStats {
		st := allStats[i]
		c, err := compoundid.Parse(st.CompoundID)
		if err != nil {
			continue
		}
		compounds[st.CompoundID] = c
		nodes = append(nodes, Node{CompoundID: st.CompoundID, Compound: c, Stats: &st})
	}
	return nodes, compounds, nil
}

func buildEdges(reg *dimension.Registry, compounds map[string]models.Compound) []Edge {
	ids := make([]string, 0, len(compounds))
	for id := range compounds {
		ids = append(ids, id)
	}

	var edges []Edge
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := compounds[ids[i]], compounds[ids[j]]
			dimName, ok := compoundid.ChangedDimension(a, b)
			if !ok {
				continue
			}
			dim := reg.Get(dimName)
			if dim == nil {
				continue
			}
			sigA, okA := a.Value(dimName)
			sigB, okB := b.Value(dimName)
			if !okA || !okB {
				continue
			}
			if !isNeighbor(dim, sigA, sigB) {
				continue
			}

			fwd := dim.IsForwardNeighbor(sigA, sigB)
			bwd := dim.IsForwardNeighbor(sigB, sigA)
			var direction Direction
			switch {
			case fwd && bwd:
				direction = Lateral
			case fwd:
				direction = Forward
			case bwd:
				direction = Backward
			default:
				continue
			}
			edges = append(edges, Edge{From: ids[i], To: ids[j], Dimension: dimName, Direction: direction})
		}
	}
	return edges
}

func isNeighbor(dim dimension.Dimension, a, b models.Signature) bool {
	for _, n := range dim.Neighbors(a) {
		if n == b {
			return true
		}
	}
	for _, n := range dim.Neighbors(b) {
		if n == a {
			return true
		}
	}
	return false
}

// progressionArc returns the (src, dst) pair an edge's Direction says
// progression actually flows along: From->To for Forward, To->From for
// Backward, both for Lateral.
func progressionArc(e Edge) (src, dst string) {
	if e.Direction == Backward {
		return e.To, e.From
	}
	return e.From, e.To
}

// transitiveReduce removes any edge whose progression direction is already
// reachable by a longer directed path through the remaining edge set. The
// adjacency only follows edges in their actual progression direction, so
// a path can never be formed by walking a forward or backward edge
// against its grain; lateral edges alone are traversable either way.
func transitiveReduce(edges []Edge) []Edge {
	adj := map[string][]string{}
	for _, e := range edges {
		src, dst := progressionArc(e)
		adj[src] = append(adj[src], dst)
		if e.Direction == Lateral {
			adj[dst] = append(adj[dst], src)
		}
	}

	var kept []Edge
	for _, e := range edges {
		src, dst := progressionArc(e)
		if hasLongerPath(adj, src, dst) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// hasLongerPath reports whether a directed path from src to dst exists in
// adj other than stepping directly from src to dst.
func hasLongerPath(adj map[string][]string, src, dst string) bool {
	visited := map[string]bool{src: true}
	var queue []string
	for _, n := range adj[src] {
		if n == dst {
			continue // skip the direct edge itself
		}
		if !visited[n] {
			visited[n] = true
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			return true
		}
		for _, n := range adj[cur] {
			if visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}

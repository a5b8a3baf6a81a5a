// Package graph builds the two-hop relationship graph around a stakeholder.
package graph

import (
	"context"
	"strconv"

	"github.com/Dan9191/control-center/internal/models"
)

// Store is the read side needed to build a graph
type Store interface {
	GetStakeholder(ctx context.Context, id int64) (*models.Stakeholder, error)
	ListEdgesTouching(ctx context.Context, ids []int64) ([]models.Relationship, error)
	ListEdgesWithin(ctx context.Context, ids []int64) ([]models.Relationship, error)
}

// Node is a stakeholder in the graph. Exactly one node is the center.
type Node struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TypeLabel string `json:"type_label"`
	IsCenter  bool   `json:"is_center"`
}

// Edge keeps the stored direction of a relationship
type Edge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label"`
}

// Graph is the serializable result of Build
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type builder struct {
	graph Graph
	seen  map[int64]bool
}

func (b *builder) addNode(ref models.StakeholderRef, center bool) {
	if b.seen[ref.ID] {
		return
	}
	b.seen[ref.ID] = true
	b.graph.Nodes = append(b.graph.Nodes, Node{
		ID:        nodeID(ref.ID),
		Name:      ref.Name,
		TypeLabel: ref.EntityType.Label(),
		IsCenter:  center,
	})
}

func (b *builder) addEdge(rel models.Relationship) {
	b.graph.Edges = append(b.graph.Edges, Edge{
		SourceID: nodeID(rel.FromStakeholderID),
		TargetID: nodeID(rel.ToStakeholderID),
		Label:    rel.RelationshipType,
	})
}

// Build returns the root, its direct neighbors, and the edges among them.
// Nodes are unique by id. Edges are not: a self-loop on the root puts the
// root in the neighbor set, so its direct edges are reported again by the
// second pass.
func Build(ctx context.Context, store Store, rootID int64) (Graph, error) {
	root, err := store.GetStakeholder(ctx, rootID)
	if err != nil {
		return Graph{}, err
	}

	b := &builder{
		graph: Graph{Nodes: []Node{}, Edges: []Edge{}},
		seen:  make(map[int64]bool),
	}
	b.addNode(models.StakeholderRef{ID: root.ID, Name: root.Name, EntityType: root.EntityType}, true)

	direct, err := store.ListEdgesTouching(ctx, []int64{root.ID})
	if err != nil {
		return Graph{}, err
	}

	var neighbors []int64
	inNeighbors := make(map[int64]bool)
	for _, rel := range direct {
		other := rel.To
		if rel.ToStakeholderID == root.ID {
			other = rel.From
		}
		b.addNode(other, false)
		b.addEdge(rel)
		if !inNeighbors[other.ID] {
			inNeighbors[other.ID] = true
			neighbors = append(neighbors, other.ID)
		}
	}

	if len(neighbors) == 0 {
		return b.graph, nil
	}
	second, err := store.ListEdgesWithin(ctx, neighbors)
	if err != nil {
		return Graph{}, err
	}
	for _, rel := range second {
		b.addNode(rel.From, false)
		b.addNode(rel.To, false)
		b.addEdge(rel)
	}
	return b.graph, nil
}

func nodeID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Package canvas models the workflow connector: a directed graph whose nodes
// are workflows and whose edges mean "run next after completion". The graph
// is a convenience view over each workflow's ConnectedWorkflows list; nothing
// persists until Save writes the lists back through the store.
package canvas

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/store"
)

// Position is the node placement hint kept for the editor.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node places one workflow on the canvas.
type Node struct {
	WorkflowID string   `json:"workflowId"`
	Position   Position `json:"position"`
}

// Edge connects two workflows: From runs first, To runs next.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Canvas is an in-memory connector graph. All mutation is local until Save.
// Removed nodes are remembered so the next Save clears their stored lists.
type Canvas struct {
	nodes   map[string]Node
	edges   map[Edge]struct{}
	removed map[string]struct{}
}

// New constructs an empty canvas.
func New() *Canvas {
	return &Canvas{
		nodes:   make(map[string]Node),
		edges:   make(map[Edge]struct{}),
		removed: make(map[string]struct{}),
	}
}

// Load builds the canvas view from stored workflows and their
// ConnectedWorkflows lists. Edges pointing at workflows outside the given
// set are dropped.
func Load(workflows []schema.Workflow) *Canvas {
	c := New()
	for i, w := range workflows {
		c.nodes[w.ID] = Node{WorkflowID: w.ID, Position: Position{X: float64(i) * 220}}
	}
	for _, w := range workflows {
		for _, next := range w.ConnectedWorkflows {
			if _, ok := c.nodes[next]; ok {
				c.edges[Edge{From: w.ID, To: next}] = struct{}{}
			}
		}
	}
	return c
}

// AddNode places a workflow on the canvas.
func (c *Canvas) AddNode(workflowID string, pos Position) {
	c.nodes[workflowID] = Node{WorkflowID: workflowID, Position: pos}
	delete(c.removed, workflowID)
}

// RemoveNode deletes a node and every edge touching it. The workflow stays
// marked as affected so the next Save empties its stored list.
func (c *Canvas) RemoveNode(workflowID string) {
	if _, ok := c.nodes[workflowID]; !ok {
		return
	}
	delete(c.nodes, workflowID)
	c.removed[workflowID] = struct{}{}
	for edge := range c.edges {
		if edge.From == workflowID || edge.To == workflowID {
			delete(c.edges, edge)
		}
	}
}

// AddEdge connects two placed workflows. Self-loops and edges to unplaced
// workflows are rejected.
func (c *Canvas) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("canvas: workflow %s cannot connect to itself", from)
	}
	if _, ok := c.nodes[from]; !ok {
		return fmt.Errorf("canvas: workflow %s is not on the canvas", from)
	}
	if _, ok := c.nodes[to]; !ok {
		return fmt.Errorf("canvas: workflow %s is not on the canvas", to)
	}
	c.edges[Edge{From: from, To: to}] = struct{}{}
	return nil
}

// RemoveEdge disconnects two workflows.
func (c *Canvas) RemoveEdge(from, to string) {
	delete(c.edges, Edge{From: from, To: to})
}

// Nodes returns the placed nodes sorted by workflow id.
func (c *Canvas) Nodes() []Node {
	out := make([]Node, 0, len(c.nodes))
	for _, node := range c.nodes {
		out = append(out, node)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkflowID < out[j].WorkflowID })
	return out
}

// Edges returns the edges sorted for deterministic output.
func (c *Canvas) Edges() []Edge {
	out := make([]Edge, 0, len(c.edges))
	for edge := range c.edges {
		out = append(out, edge)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Save writes the graph back: every placed workflow's ConnectedWorkflows is
// replaced with its outgoing edge targets in one pass, and workflows removed
// from the canvas since the last save get an empty list. An edge A→B is
// reflected by B's id in A's list. Returns the ids that were persisted.
func (c *Canvas) Save(ctx context.Context, st store.Store) ([]string, error) {
	outgoing := make(map[string][]string, len(c.nodes)+len(c.removed))
	for id := range c.nodes {
		outgoing[id] = nil
	}
	for id := range c.removed {
		outgoing[id] = nil
	}
	for edge := range c.edges {
		outgoing[edge.From] = append(outgoing[edge.From], edge.To)
	}

	ids := make([]string, 0, len(outgoing))
	for id := range outgoing {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		targets := outgoing[id]
		sort.Strings(targets)
		connected := targets
		if _, err := st.Update(ctx, id, store.Patch{ConnectedWorkflows: &connected}); err != nil {
			return nil, fmt.Errorf("canvas: persist workflow %s: %w", id, err)
		}
	}
	c.removed = make(map[string]struct{})
	return ids, nil
}

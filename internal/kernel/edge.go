package kernel

import (
	"context"
	"strconv"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/store"
)

// AddEdge creates a typed relationship between two task ids. There is no
// check that the tasks exist, no cycle detection and no duplicate-edge
// detection: edges are keyed by their own fresh id, and consumers of the
// graph must tolerate cycles and parallel edges.
func (k *Kernel) AddEdge(ctx context.Context, source, target string, edgeType entity.EdgeType) (entity.Edge, error) {
	if source == "" || target == "" {
		return entity.Edge{}, validationErr("edge source and target must not be empty")
	}
	if !edgeType.Valid() {
		return entity.Edge{}, validationErr("unknown edge type " + strconv.Quote(string(edgeType)))
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	edge := entity.Edge{
		ID:     k.newID(),
		Source: source,
		Target: target,
		Type:   edgeType,
	}
	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.PutEdge(ctx, edge); err != nil {
			return storageErr("persist edge", err)
		}
		details := map[string]string{
			"source": source,
			"target": target,
			"type":   string(edgeType),
		}
		return k.audit(ctx, tx, entity.ActionEdgeAdded, entity.EntityEdge, edge.ID, details)
	})
	if err != nil {
		return entity.Edge{}, err
	}
	k.apply(Event{Kind: evEdgePut, Edge: &edge})
	return edge, nil
}

// RemoveEdge deletes an edge by id.
func (k *Kernel) RemoveEdge(ctx context.Context, id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	edge, ok := k.state.Edges[id]
	if !ok {
		return notFoundErr("edge", id)
	}
	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteEdge(ctx, id); err != nil {
			return storageErr("delete edge", err)
		}
		details := map[string]string{
			"source": edge.Source,
			"target": edge.Target,
			"type":   string(edge.Type),
		}
		return k.audit(ctx, tx, entity.ActionEdgeRemoved, entity.EntityEdge, id, details)
	})
	if err != nil {
		return err
	}
	k.apply(Event{Kind: evEdgeRemoved, ID: id})
	return nil
}

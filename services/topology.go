// Package services provides the derived-view and coordination logic that
// turns raw entity collections into the picture the dashboard reads.
package services

import "github.com/securecomm/backend/models"

// Edge is an inferred live connection between a vehicle and an
// infrastructure node, with both endpoint positions for map rendering.
type Edge struct {
	VehicleID string          `json:"vehicleId"`
	NodeID    string          `json:"nodeId"`
	From      models.Position `json:"fromPosition"`
	To        models.Position `json:"toPosition"`
}

// ResolveTopology derives the active vehicle-to-node connection edges from
// the current collections. An edge exists for every node id an online
// vehicle claims in connectedNodes, provided that node exists and is
// active. Only the vehicle-side claim is consulted; node-side
// connectedVehicles lists lag behind in practice and are not required to
// agree.
//
// The result is deterministic for identical inputs: vehicles are visited in
// slice order and claimed nodes in declaration order.
func ResolveTopology(vehicles []models.Vehicle, nodes []models.InfrastructureNode) []Edge {
	nodeByID := make(map[string]models.InfrastructureNode, len(nodes))
	for _, n := range nodes {
		nodeByID[n.ID] = n
	}

	edges := make([]Edge, 0)
	for _, v := range vehicles {
		if v.Status != models.VehicleOnline {
			continue
		}
		for _, nodeID := range v.ConnectedNodes {
			node, ok := nodeByID[nodeID]
			if !ok || node.Status != models.NodeActive {
				continue
			}
			edges = append(edges, Edge{
				VehicleID: v.ID,
				NodeID:    node.ID,
				From:      v.Position,
				To:        node.Position,
			})
		}
	}
	return edges
}

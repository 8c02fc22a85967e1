package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securecomm/backend/models"
)

func TestResolveTopologySingleEdge(t *testing.T) {
	vehicles := []models.Vehicle{
		{ID: "v1", Status: models.VehicleOnline, Position: models.Position{Lat: 40.7, Lng: -74.0}, ConnectedNodes: []string{"n1"}},
	}
	nodes := []models.InfrastructureNode{
		{ID: "n1", Status: models.NodeActive, Position: models.Position{Lat: 40.8, Lng: -73.9}},
	}

	edges := ResolveTopology(vehicles, nodes)
	require.Len(t, edges, 1)
	assert.Equal(t, "v1", edges[0].VehicleID)
	assert.Equal(t, "n1", edges[0].NodeID)
	assert.Equal(t, vehicles[0].Position, edges[0].From)
	assert.Equal(t, nodes[0].Position, edges[0].To)

	// flipping the node inactive removes the edge
	nodes[0].Status = models.NodeInactive
	assert.Empty(t, ResolveTopology(vehicles, nodes))
}

func TestResolveTopologyOfflineVehicleHasNoEdges(t *testing.T) {
	vehicles := []models.Vehicle{
		{ID: "v1", Status: models.VehicleOffline, ConnectedNodes: []string{"n1", "n2"}},
		{ID: "v2", Status: models.VehicleMaintenance, ConnectedNodes: []string{"n1"}},
	}
	nodes := []models.InfrastructureNode{
		{ID: "n1", Status: models.NodeActive},
		{ID: "n2", Status: models.NodeActive},
	}

	assert.Empty(t, ResolveTopology(vehicles, nodes))
}

func TestResolveTopologySkipsErrorAndMissingNodes(t *testing.T) {
	vehicles := []models.Vehicle{
		{ID: "v1", Status: models.VehicleOnline, ConnectedNodes: []string{"n1", "n2", "n3"}},
	}
	nodes := []models.InfrastructureNode{
		{ID: "n1", Status: models.NodeError},
		{ID: "n2", Status: models.NodeActive},
		// n3 does not exist: a claimed link to an unknown node yields nothing
	}

	edges := ResolveTopology(vehicles, nodes)
	require.Len(t, edges, 1)
	assert.Equal(t, "n2", edges[0].NodeID)
}

func TestResolveTopologyDeterministic(t *testing.T) {
	vehicles := []models.Vehicle{
		{ID: "v1", Status: models.VehicleOnline, ConnectedNodes: []string{"n2", "n1"}},
		{ID: "v2", Status: models.VehicleOnline, ConnectedNodes: []string{"n1"}},
	}
	nodes := []models.InfrastructureNode{
		{ID: "n1", Status: models.NodeActive},
		{ID: "n2", Status: models.NodeActive},
	}

	first := ResolveTopology(vehicles, nodes)
	second := ResolveTopology(vehicles, nodes)
	assert.Equal(t, first, second)

	// output follows vehicle order, then claim declaration order
	require.Len(t, first, 3)
	assert.Equal(t, "n2", first[0].NodeID)
	assert.Equal(t, "n1", first[1].NodeID)
	assert.Equal(t, "v2", first[2].VehicleID)
}

func TestResolveTopologyIgnoresNodeSideClaims(t *testing.T) {
	// the node claims v1 but the vehicle claims nothing: no edge, the
	// vehicle-side list is the one consulted
	vehicles := []models.Vehicle{
		{ID: "v1", Status: models.VehicleOnline},
	}
	nodes := []models.InfrastructureNode{
		{ID: "n1", Status: models.NodeActive, ConnectedVehicles: []string{"v1"}},
	}

	assert.Empty(t, ResolveTopology(vehicles, nodes))
}

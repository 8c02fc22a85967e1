// Package source defines the snapshot feed capability the dashboard polls,
// plus the concrete feeds: a NATS request/reply client, a NATS responder
// and a simulated generator for standalone operation.
package source

import (
	"context"

	"github.com/securecomm/backend/models"
)

// Source supplies full point-in-time snapshots of the V2X network. Each
// fetch is independent and may fail with a transport error; messages are
// returned most-recent-first.
type Source interface {
	FetchVehicles(ctx context.Context) ([]models.Vehicle, error)
	FetchInfrastructureNodes(ctx context.Context) ([]models.InfrastructureNode, error)
	FetchMessages(ctx context.Context) ([]models.CommunicationMessage, error)
	FetchAlerts(ctx context.Context) ([]models.SecurityAlert, error)
}

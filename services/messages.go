package services

import (
	"go.uber.org/zap"

	"github.com/securecomm/backend/models"
)

// DirectionMismatches returns the messages in batch whose declared comm
// type disagrees with the kinds of their endpoints, resolved against the
// current vehicle and node collections. Messages with an endpoint matching
// neither collection are skipped: the feed may reference participants that
// have already churned out of a snapshot.
func DirectionMismatches(batch []models.CommunicationMessage, vehicles []models.Vehicle, nodes []models.InfrastructureNode) []models.CommunicationMessage {
	isVehicle := make(map[string]bool, len(vehicles))
	for _, v := range vehicles {
		isVehicle[v.ID] = true
	}
	isNode := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		isNode[n.ID] = true
	}

	var mismatched []models.CommunicationMessage
	for _, m := range batch {
		if (!isVehicle[m.From] && !isNode[m.From]) || (!isVehicle[m.To] && !isNode[m.To]) {
			continue
		}
		if m.Type != models.ExpectedCommType(isVehicle[m.From], isVehicle[m.To]) {
			mismatched = append(mismatched, m)
		}
	}
	return mismatched
}

// logDirectionMismatches runs the advisory direction check over a freshly
// merged batch. Mismatches are logged, never rejected.
func (p *Poller) logDirectionMismatches(batch []models.CommunicationMessage) {
	for _, m := range DirectionMismatches(batch, p.st.Vehicles(), p.st.Nodes()) {
		p.log.Debug("message direction disagrees with its endpoints",
			zap.String("id", m.ID),
			zap.String("from", m.From),
			zap.String("to", m.To),
			zap.String("declared", string(m.Type)))
	}
}

package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/securecomm/backend/models"
)

// Snapshot request/reply subjects
const (
	SubjectVehicles = "v2x.snapshot.vehicles"
	SubjectNodes    = "v2x.snapshot.nodes"
	SubjectMessages = "v2x.snapshot.messages"
	SubjectAlerts   = "v2x.snapshot.alerts"
)

// responderTimeout bounds one upstream fetch made on behalf of a request
const responderTimeout = 5 * time.Second

// NATSSource fetches snapshots over NATS request/reply. The caller's
// context bounds each request; a request that gets no reply in time fails
// with the context error and is handled by the poller's failure policy.
type NATSSource struct {
	conn *nats.Conn
}

// NewNATSSource creates a Source backed by the given NATS connection
func NewNATSSource(conn *nats.Conn) *NATSSource {
	return &NATSSource{conn: conn}
}

func (s *NATSSource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return request[models.Vehicle](ctx, s.conn, SubjectVehicles)
}

func (s *NATSSource) FetchInfrastructureNodes(ctx context.Context) ([]models.InfrastructureNode, error) {
	return request[models.InfrastructureNode](ctx, s.conn, SubjectNodes)
}

func (s *NATSSource) FetchMessages(ctx context.Context) ([]models.CommunicationMessage, error) {
	return request[models.CommunicationMessage](ctx, s.conn, SubjectMessages)
}

func (s *NATSSource) FetchAlerts(ctx context.Context) ([]models.SecurityAlert, error) {
	return request[models.SecurityAlert](ctx, s.conn, SubjectAlerts)
}

func request[T any](ctx context.Context, conn *nats.Conn, subject string) ([]T, error) {
	msg, err := conn.RequestWithContext(ctx, subject, nil)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(msg.Data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Responder serves an arbitrary Source over the snapshot subjects, so any
// process holding a NATS connection can act as the telemetry feed. A fetch
// failure is logged and the request left unanswered; the requester times
// out and applies its own failure policy.
type Responder struct {
	subs []*nats.Subscription
}

// NewResponder subscribes the given source to all four snapshot subjects
func NewResponder(conn *nats.Conn, src Source, log *zap.Logger) (*Responder, error) {
	r := &Responder{}

	serve := func(subject string, fetch func(context.Context) (any, error)) error {
		sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), responderTimeout)
			defer cancel()

			snapshot, err := fetch(ctx)
			if err != nil {
				log.Warn("snapshot fetch failed", zap.String("subject", subject), zap.Error(err))
				return
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				log.Warn("snapshot encode failed", zap.String("subject", subject), zap.Error(err))
				return
			}
			if err := msg.Respond(data); err != nil {
				log.Warn("snapshot reply failed", zap.String("subject", subject), zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		r.subs = append(r.subs, sub)
		return nil
	}

	steps := []struct {
		subject string
		fetch   func(context.Context) (any, error)
	}{
		{SubjectVehicles, func(ctx context.Context) (any, error) { return src.FetchVehicles(ctx) }},
		{SubjectNodes, func(ctx context.Context) (any, error) { return src.FetchInfrastructureNodes(ctx) }},
		{SubjectMessages, func(ctx context.Context) (any, error) { return src.FetchMessages(ctx) }},
		{SubjectAlerts, func(ctx context.Context) (any, error) { return src.FetchAlerts(ctx) }},
	}
	for _, s := range steps {
		if err := serve(s.subject, s.fetch); err != nil {
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

// Close drops all snapshot subscriptions
func (r *Responder) Close() {
	for _, sub := range r.subs {
		sub.Unsubscribe()
	}
	r.subs = nil
}

package source

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/securecomm/backend/models"
)

// Fleet and network shape of the simulated feed
const (
	simVehicleCount = 24
	simNodeCount    = 12
	simMessageCount = 15
	simAlertCount   = 10
)

// New York City center, the simulated deployment area
var simCenter = models.Position{Lat: 40.7128, Lng: -74.0060}

var simVehicleModels = []struct {
	Model string
	Type  models.VehicleType
}{
	{"Tesla Model S", models.VehicleTypeCar},
	{"BMW i8", models.VehicleTypeCar},
	{"Audi e-tron", models.VehicleTypeCar},
	{"Mercedes EQS", models.VehicleTypeCar},
	{"Ford Transit", models.VehicleTypeTruck},
	{"Volvo FH16", models.VehicleTypeTruck},
	{"MAN TGX", models.VehicleTypeTruck},
	{"Mercedes Sprinter", models.VehicleTypeTruck},
	{"City Bus 2024", models.VehicleTypeBus},
	{"Electric Bus Pro", models.VehicleTypeBus},
	{"Ambulance Unit", models.VehicleTypeEmergency},
	{"Fire Truck", models.VehicleTypeEmergency},
	{"Police Cruiser", models.VehicleTypeEmergency},
}

var simPlates = []string{
	"ABC-123", "XYZ-789", "EMG-911", "BUS-001", "TRK-456", "CAR-789",
	"VAN-234", "SUV-567", "POL-999", "AMB-112", "FIR-911", "BUS-002",
	"CAR-101", "TRK-202", "VAN-303", "SUV-404", "CAR-505", "BUS-606",
	"TRK-707", "EMG-808", "CAR-909", "VAN-010", "SUV-111", "BUS-212",
}

var simNodeNames = []string{
	"Traffic Light - 5th Ave", "Highway Sensor - I-95", "RSU Gateway - Downtown",
	"Emergency Gateway", "Traffic Light - Broadway", "Sensor - FDR Drive",
	"Gateway - Midtown", "RSU - Brooklyn Bridge", "Traffic Light - Times Square",
	"Sensor - Lincoln Tunnel", "Gateway - Central Park", "RSU - Queens Borough",
}

var simMessageContents = []string{
	"Requesting traffic light status",
	"Emergency vehicle approaching - clear lane",
	"Speed limit change detected - 35 mph",
	"Traffic congestion ahead - alternate route suggested",
	"Weather alert: Heavy rain detected",
	"Parking space available at location",
	"Road construction ahead - reduce speed",
	"Vehicle breakdown assistance requested",
	"Collision avoidance warning",
	"Traffic light malfunction reported",
	"Emergency broadcast: Amber alert",
	"Fuel station information update",
	"Route optimization data",
	"Vehicle diagnostic information",
	"Security checkpoint ahead",
}

var simAlertMessages = []string{
	"Vehicle authentication token expires in 10 minutes",
	"Encryption key rotation completed successfully",
	"Suspicious communication pattern detected from unknown source",
	"Failed authentication attempt from vehicle v15",
	"Malformed message received from infrastructure node",
	"Intrusion detection system triggered",
	"Certificate validation failed",
	"Unusual traffic pattern detected",
	"Security protocol violation detected",
	"Unauthorized access attempt blocked",
}

// SimSource generates randomized network snapshots standing in for a real
// telemetry feed. Safe for concurrent use.
type SimSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimSource creates a simulated feed. A zero seed picks a time-based one.
func NewSimSource(seed int64) *SimSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimSource{rng: rand.New(rand.NewSource(seed))}
}

// FetchVehicles returns the simulated 24-vehicle fleet snapshot
func (s *SimSource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	statuses := models.AllVehicleStatuses
	vehicles := make([]models.Vehicle, 0, simVehicleCount)
	for i := 0; i < simVehicleCount; i++ {
		vm := simVehicleModels[i%len(simVehicleModels)]
		status := models.VehicleOnline
		if i >= 18 {
			status = statuses[s.rng.Intn(len(statuses))]
		}
		speed := 0
		if status == models.VehicleOnline {
			speed = s.rng.Intn(80) + 10
		}
		connected := make([]string, 0, 4)
		for j := 0; j < s.rng.Intn(4)+1; j++ {
			connected = append(connected, fmt.Sprintf("n%d", s.rng.Intn(simNodeCount)+1))
		}
		vehicles = append(vehicles, models.Vehicle{
			ID:                fmt.Sprintf("v%d", i+1),
			PlateNumber:       simPlates[i],
			Model:             vm.Model,
			Type:              vm.Type,
			Status:            status,
			Position:          s.jitteredPosition(0.2),
			Speed:             speed,
			SecurityLevel:     s.randomSecurityLevel(),
			LastCommunication: now.Add(-time.Duration(s.rng.Int63n(int64(5 * time.Minute)))),
			ConnectedNodes:    connected,
		})
	}
	return vehicles, nil
}

// FetchInfrastructureNodes returns the simulated 12-node roadside snapshot
func (s *SimSource) FetchInfrastructureNodes(ctx context.Context) ([]models.InfrastructureNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	statuses := models.AllNodeStatuses
	nodes := make([]models.InfrastructureNode, 0, simNodeCount)
	for i := 0; i < simNodeCount; i++ {
		status := models.NodeActive
		if i >= 10 {
			status = statuses[s.rng.Intn(len(statuses))]
		}
		connected := make([]string, 0, 6)
		for j := 0; j < s.rng.Intn(6)+1; j++ {
			connected = append(connected, fmt.Sprintf("v%d", s.rng.Intn(simVehicleCount)+1))
		}
		nodes = append(nodes, models.InfrastructureNode{
			ID:                fmt.Sprintf("n%d", i+1),
			Name:              simNodeNames[i],
			Type:              models.AllNodeTypes[i%len(models.AllNodeTypes)],
			Status:            status,
			Position:          s.jitteredPosition(0.15),
			SecurityLevel:     s.randomSecurityLevel(),
			ConnectedVehicles: connected,
			LastUpdate:        now.Add(-time.Duration(s.rng.Int63n(int64(3 * time.Minute)))),
		})
	}
	return nodes, nil
}

// FetchMessages returns a fresh batch of simulated traffic, most recent first
func (s *SimSource) FetchMessages(ctx context.Context) ([]models.CommunicationMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	commTypes := []models.CommType{models.CommV2V, models.CommV2I, models.CommI2V}
	messages := make([]models.CommunicationMessage, 0, simMessageCount)
	for i := 0; i < simMessageCount; i++ {
		messages = append(messages, models.CommunicationMessage{
			ID:           uuid.NewString(),
			From:         s.randomParticipant(),
			To:           s.randomParticipant(),
			Type:         commTypes[s.rng.Intn(len(commTypes))],
			MessageType:  models.AllMessageTypes[s.rng.Intn(len(models.AllMessageTypes))],
			Content:      simMessageContents[i],
			Encrypted:    s.rng.Float64() > 0.2,
			Timestamp:    now.Add(-time.Duration(s.rng.Int63n(int64(time.Hour)))),
			SecurityHash: fmt.Sprintf("sha256:%016x...", s.rng.Uint64()),
		})
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.After(messages[j].Timestamp)
	})
	return messages, nil
}

// FetchAlerts returns the simulated security alert snapshot
func (s *SimSource) FetchAlerts(ctx context.Context) ([]models.SecurityAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	alerts := make([]models.SecurityAlert, 0, simAlertCount)
	for i := 0; i < simAlertCount; i++ {
		alerts = append(alerts, models.SecurityAlert{
			ID:        uuid.NewString(),
			Level:     models.AllAlertLevels[s.rng.Intn(len(models.AllAlertLevels))],
			Type:      models.AllAlertTypes[s.rng.Intn(len(models.AllAlertTypes))],
			Message:   simAlertMessages[i],
			Timestamp: now.Add(-time.Duration(s.rng.Int63n(int64(2 * time.Hour)))),
			Resolved:  s.rng.Float64() > 0.4,
		})
	}
	return alerts, nil
}

func (s *SimSource) jitteredPosition(radius float64) models.Position {
	return models.Position{
		Lat: simCenter.Lat + (s.rng.Float64()-0.5)*radius,
		Lng: simCenter.Lng + (s.rng.Float64()-0.5)*radius,
	}
}

func (s *SimSource) randomSecurityLevel() models.SecurityLevel {
	return models.AllSecurityLevels[s.rng.Intn(len(models.AllSecurityLevels))]
}

func (s *SimSource) randomParticipant() string {
	if s.rng.Float64() > 0.5 {
		return fmt.Sprintf("v%d", s.rng.Intn(simVehicleCount)+1)
	}
	return fmt.Sprintf("n%d", s.rng.Intn(simNodeCount)+1)
}

// Package models defines the V2X network entities shared by the store,
// the derived-view services and the HTTP layer.
package models

import "time"

// VehicleType enum
type VehicleType string

const (
	VehicleTypeCar       VehicleType = "car"
	VehicleTypeTruck     VehicleType = "truck"
	VehicleTypeBus       VehicleType = "bus"
	VehicleTypeEmergency VehicleType = "emergency"
)

// VehicleStatus enum
type VehicleStatus string

const (
	VehicleOnline      VehicleStatus = "online"
	VehicleOffline     VehicleStatus = "offline"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// SecurityLevel enum, shared by vehicles and infrastructure nodes
type SecurityLevel string

const (
	SecurityLow    SecurityLevel = "low"
	SecurityMedium SecurityLevel = "medium"
	SecurityHigh   SecurityLevel = "high"
)

// NodeType enum
type NodeType string

const (
	NodeTypeTrafficLight NodeType = "traffic_light"
	NodeTypeSensor       NodeType = "sensor"
	NodeTypeGateway      NodeType = "gateway"
	NodeTypeRSU          NodeType = "rsu" // Road Side Unit
)

// NodeStatus enum
type NodeStatus string

const (
	NodeActive   NodeStatus = "active"
	NodeInactive NodeStatus = "inactive"
	NodeError    NodeStatus = "error"
)

// CommType enum - direction of a communication message
type CommType string

const (
	CommV2V CommType = "v2v" // vehicle to vehicle
	CommV2I CommType = "v2i" // vehicle to infrastructure
	CommI2V CommType = "i2v" // infrastructure to vehicle
)

// MessageType enum - payload category of a communication message
type MessageType string

const (
	MessageSafety    MessageType = "safety"
	MessageTraffic   MessageType = "traffic"
	MessageEmergency MessageType = "emergency"
	MessageInfo      MessageType = "info"

	// MessageOther is the bucket for values outside the declared set.
	// Feeds are not trusted to only send known categories.
	MessageOther MessageType = "other"
)

// AlertLevel enum, ordered low < medium < high < critical
type AlertLevel string

const (
	AlertLow      AlertLevel = "low"
	AlertMedium   AlertLevel = "medium"
	AlertHigh     AlertLevel = "high"
	AlertCritical AlertLevel = "critical"

	// AlertUnknown is the bucket for values outside the declared set.
	AlertUnknown AlertLevel = "unknown"
)

// AlertType enum
type AlertType string

const (
	AlertAuthentication AlertType = "authentication"
	AlertEncryption     AlertType = "encryption"
	AlertIntrusion      AlertType = "intrusion"
	AlertMalformed      AlertType = "malformed_message"
)

// Position is a WGS84 coordinate pair
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Vehicle is a fleet vehicle participating in the V2X network
type Vehicle struct {
	ID                string        `json:"id"`
	PlateNumber       string        `json:"plateNumber"`
	Model             string        `json:"model"`
	Type              VehicleType   `json:"type"`
	Status            VehicleStatus `json:"status"`
	Position          Position      `json:"position"`
	Speed             int           `json:"speed"` // mph, 0 unless online
	SecurityLevel     SecurityLevel `json:"securityLevel"`
	LastCommunication time.Time     `json:"lastCommunication"`
	ConnectedNodes    []string      `json:"connectedNodes"`
}

// InfrastructureNode is a roadside unit, sensor, gateway or traffic light
type InfrastructureNode struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Type              NodeType      `json:"type"`
	Status            NodeStatus    `json:"status"`
	Position          Position      `json:"position"`
	SecurityLevel     SecurityLevel `json:"securityLevel"`
	ConnectedVehicles []string      `json:"connectedVehicles"`
	LastUpdate        time.Time     `json:"lastUpdate"`
}

// CommunicationMessage is one observed message between network participants.
// SecurityHash is an opaque token; it is carried, never verified.
type CommunicationMessage struct {
	ID           string      `json:"id"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	Type         CommType    `json:"type"`
	MessageType  MessageType `json:"messageType"`
	Content      string      `json:"content"`
	Encrypted    bool        `json:"encrypted"`
	Timestamp    time.Time   `json:"timestamp"`
	SecurityHash string      `json:"securityHash"`
}

// SecurityAlert is a security finding derived from network traffic
type SecurityAlert struct {
	ID        string     `json:"id"`
	Level     AlertLevel `json:"level"`
	Type      AlertType  `json:"type"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Resolved  bool       `json:"resolved"`
}

// AllVehicleTypes lists every declared VehicleType
var AllVehicleTypes = []VehicleType{VehicleTypeCar, VehicleTypeTruck, VehicleTypeBus, VehicleTypeEmergency}

// AllVehicleStatuses lists every declared VehicleStatus
var AllVehicleStatuses = []VehicleStatus{VehicleOnline, VehicleOffline, VehicleMaintenance}

// AllNodeTypes lists every declared NodeType
var AllNodeTypes = []NodeType{NodeTypeTrafficLight, NodeTypeSensor, NodeTypeGateway, NodeTypeRSU}

// AllNodeStatuses lists every declared NodeStatus
var AllNodeStatuses = []NodeStatus{NodeActive, NodeInactive, NodeError}

// AllSecurityLevels lists every declared SecurityLevel
var AllSecurityLevels = []SecurityLevel{SecurityLow, SecurityMedium, SecurityHigh}

// AllMessageTypes lists every declared MessageType (excluding the Other bucket)
var AllMessageTypes = []MessageType{MessageSafety, MessageTraffic, MessageEmergency, MessageInfo}

// AllAlertLevels lists every declared AlertLevel (excluding the Unknown bucket)
var AllAlertLevels = []AlertLevel{AlertLow, AlertMedium, AlertHigh, AlertCritical}

// AllAlertTypes lists every declared AlertType
var AllAlertTypes = []AlertType{AlertAuthentication, AlertEncryption, AlertIntrusion, AlertMalformed}

// Normalize maps any out-of-set message type to MessageOther
func (t MessageType) Normalize() MessageType {
	switch t {
	case MessageSafety, MessageTraffic, MessageEmergency, MessageInfo:
		return t
	}
	return MessageOther
}

// Normalize maps any out-of-set alert level to AlertUnknown
func (l AlertLevel) Normalize() AlertLevel {
	switch l {
	case AlertLow, AlertMedium, AlertHigh, AlertCritical:
		return l
	}
	return AlertUnknown
}

// Rank returns the strict severity ordering low < medium < high < critical.
// Unknown levels rank below low.
func (l AlertLevel) Rank() int {
	switch l {
	case AlertLow:
		return 1
	case AlertMedium:
		return 2
	case AlertHigh:
		return 3
	case AlertCritical:
		return 4
	}
	return 0
}

// ExpectedCommType returns the direction implied by the kinds of the two
// endpoints. Enforcement is advisory: endpoint ids are plain strings, so a
// message whose declared type disagrees is logged, not rejected.
func ExpectedCommType(fromIsVehicle, toIsVehicle bool) CommType {
	switch {
	case fromIsVehicle && toIsVehicle:
		return CommV2V
	case fromIsVehicle && !toIsVehicle:
		return CommV2I
	}
	return CommI2V
}

package models

// Display holds the presentation attributes for one enum variant. The tables
// below must cover every declared variant; completeness is asserted by tests
// since the compiler cannot check map coverage.
type Display struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// VehicleTypeDisplay maps each vehicle type to its display attributes
var VehicleTypeDisplay = map[VehicleType]Display{
	VehicleTypeCar:       {Label: "Car", Color: "#3B82F6"},
	VehicleTypeTruck:     {Label: "Truck", Color: "#F59E0B"},
	VehicleTypeBus:       {Label: "Bus", Color: "#8B5CF6"},
	VehicleTypeEmergency: {Label: "Emergency", Color: "#EF4444"},
}

// VehicleStatusDisplay maps each vehicle status to its display attributes
var VehicleStatusDisplay = map[VehicleStatus]Display{
	VehicleOnline:      {Label: "Online", Color: "#10B981"},
	VehicleOffline:     {Label: "Offline", Color: "#6B7280"},
	VehicleMaintenance: {Label: "Maintenance", Color: "#F59E0B"},
}

// NodeTypeDisplay maps each node type to its display attributes
var NodeTypeDisplay = map[NodeType]Display{
	NodeTypeTrafficLight: {Label: "Traffic Light", Color: "#F59E0B"},
	NodeTypeSensor:       {Label: "Sensor", Color: "#3B82F6"},
	NodeTypeGateway:      {Label: "Gateway", Color: "#8B5CF6"},
	NodeTypeRSU:          {Label: "RSU", Color: "#10B981"},
}

// NodeStatusDisplay maps each node status to its display attributes
var NodeStatusDisplay = map[NodeStatus]Display{
	NodeActive:   {Label: "Active", Color: "#10B981"},
	NodeInactive: {Label: "Inactive", Color: "#6B7280"},
	NodeError:    {Label: "Error", Color: "#EF4444"},
}

// SecurityLevelDisplay maps each security level to its display attributes
var SecurityLevelDisplay = map[SecurityLevel]Display{
	SecurityLow:    {Label: "Low", Color: "#EF4444"},
	SecurityMedium: {Label: "Medium", Color: "#F59E0B"},
	SecurityHigh:   {Label: "High", Color: "#10B981"},
}

// AlertLevelDisplay maps each alert level to its display attributes,
// including the bucket for out-of-set values.
var AlertLevelDisplay = map[AlertLevel]Display{
	AlertLow:      {Label: "Low", Color: "#4ADE80"},
	AlertMedium:   {Label: "Medium", Color: "#FACC15"},
	AlertHigh:     {Label: "High", Color: "#F87171"},
	AlertCritical: {Label: "Critical", Color: "#EF4444"},
	AlertUnknown:  {Label: "Unknown", Color: "#6B7280"},
}

// AlertTypeDisplay maps each alert type to its display attributes
var AlertTypeDisplay = map[AlertType]Display{
	AlertAuthentication: {Label: "Authentication", Color: "#3B82F6"},
	AlertEncryption:     {Label: "Encryption", Color: "#8B5CF6"},
	AlertIntrusion:      {Label: "Intrusion Detection", Color: "#EF4444"},
	AlertMalformed:      {Label: "Message Validation", Color: "#F59E0B"},
}

// MessageTypeDisplay maps each message category to its display attributes,
// including the bucket for out-of-set values. Colors match the analytics
// charts consumed by the dashboard.
var MessageTypeDisplay = map[MessageType]Display{
	MessageSafety:    {Label: "Safety", Color: "#EF4444"},
	MessageTraffic:   {Label: "Traffic", Color: "#3B82F6"},
	MessageEmergency: {Label: "Emergency", Color: "#F59E0B"},
	MessageInfo:      {Label: "Info", Color: "#10B981"},
	MessageOther:     {Label: "Other", Color: "#6B7280"},
}

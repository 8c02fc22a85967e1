package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/securecomm/backend/models"
	"github.com/securecomm/backend/services"
)

// ExportDocument is the self-describing audit snapshot: every entity
// collection plus the derived views, tagged with an export id and time.
type ExportDocument struct {
	Platform   string                        `json:"platform"`
	ExportID   string                        `json:"exportId"`
	ExportDate time.Time                     `json:"exportDate"`
	Vehicles   []models.Vehicle              `json:"vehicles"`
	Nodes      []models.InfrastructureNode   `json:"infrastructureNodes"`
	Messages   []models.CommunicationMessage `json:"messages"`
	Alerts     []models.SecurityAlert        `json:"alerts"`
	Analytics  services.AnalyticsSnapshot    `json:"analyticsData"`
	Topology   []services.Edge               `json:"topology"`
	Security   services.AlertSummary         `json:"securitySummary"`
}

// ExportData handles GET /api/export - a downloadable JSON document of the
// aggregated state, for offline inspection and audit.
func ExportData(c *gin.Context) {
	snap := st.SnapshotAll()
	now := time.Now().UTC()

	doc := ExportDocument{
		Platform:   "SecureComm Platform",
		ExportID:   uuid.NewString(),
		ExportDate: now,
		Vehicles:   snap.Vehicles,
		Nodes:      snap.Nodes,
		Messages:   snap.Messages,
		Alerts:     snap.Alerts,
		Analytics:  services.BuildAnalytics(snap),
		Topology:   services.ResolveTopology(snap.Vehicles, snap.Nodes),
		Security:   services.ClassifyAlerts(snap.Alerts),
	}

	filename := fmt.Sprintf("vehicle-communication-data-%s.json", now.Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.JSON(http.StatusOK, doc)
}

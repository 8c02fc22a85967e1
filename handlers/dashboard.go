package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/securecomm/backend/models"
	"github.com/securecomm/backend/services"
)

// GetOverview handles GET /api/overview - the top-line dashboard figures
func GetOverview(c *gin.Context) {
	snap := st.SnapshotAll()

	online := 0
	for _, v := range snap.Vehicles {
		if v.Status == models.VehicleOnline {
			online++
		}
	}
	active := 0
	for _, n := range snap.Nodes {
		if n.Status == models.NodeActive {
			active++
		}
	}
	summary := services.ClassifyAlerts(snap.Alerts)

	c.JSON(http.StatusOK, gin.H{
		"onlineVehicles": online,
		"activeNodes":    active,
		"messages":       len(snap.Messages),
		"criticalAlerts": summary.CriticalCount,
		"state":          poll.State(),
	})
}

// GetVehicles handles GET /api/vehicles
func GetVehicles(c *gin.Context) {
	vehicles := st.Vehicles()
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "total": len(vehicles)})
}

// GetNodes handles GET /api/nodes
func GetNodes(c *gin.Context) {
	nodes := st.Nodes()
	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "total": len(nodes)})
}

// GetMessages handles GET /api/messages - the bounded log, most recent first
func GetMessages(c *gin.Context) {
	messages := st.Messages()
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages), "cap": st.MessageCap()})
}

// GetAlerts handles GET /api/alerts
func GetAlerts(c *gin.Context) {
	alerts := st.Alerts()
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

// ResolveAlert handles PATCH /api/alerts/:id/resolve
func ResolveAlert(c *gin.Context) {
	id := c.Param("id")
	if !st.ResolveAlert(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved", "id": id})
}

// GetTopology handles GET /api/topology - the inferred vehicle/node edges
func GetTopology(c *gin.Context) {
	snap := st.SnapshotAll()
	edges := services.ResolveTopology(snap.Vehicles, snap.Nodes)
	c.JSON(http.StatusOK, gin.H{"edges": edges, "total": len(edges)})
}

// GetSecuritySummary handles GET /api/security/summary
func GetSecuritySummary(c *gin.Context) {
	c.JSON(http.StatusOK, services.ClassifyAlerts(st.Alerts()))
}

// GetAnalytics handles GET /api/analytics - hourly traffic, message-type
// distribution and security metrics in one response
func GetAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, services.BuildAnalytics(st.SnapshotAll()))
}

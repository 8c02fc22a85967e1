package services

import "github.com/securecomm/backend/models"

// AlertSummary partitions the alert collection into resolved and unresolved
// and buckets the unresolved alerts by severity. CriticalCount is the
// top-line status figure: unresolved alerts at high OR critical level, the
// union the dashboard header displays as "Critical Alerts".
type AlertSummary struct {
	Total             int                       `json:"total"`
	Resolved          int                       `json:"resolved"`
	Unresolved        int                       `json:"unresolved"`
	UnresolvedByLevel map[models.AlertLevel]int `json:"unresolvedByLevel"`
	CriticalCount     int                       `json:"criticalCount"`
}

// ClassifyAlerts summarizes the alert collection. It is total: every alert
// lands in exactly one resolved/unresolved partition and exactly one level
// bucket, with out-of-set levels counted under AlertUnknown instead of
// being dropped.
func ClassifyAlerts(alerts []models.SecurityAlert) AlertSummary {
	summary := AlertSummary{
		Total:             len(alerts),
		UnresolvedByLevel: make(map[models.AlertLevel]int, len(models.AllAlertLevels)),
	}
	for _, level := range models.AllAlertLevels {
		summary.UnresolvedByLevel[level] = 0
	}

	for _, a := range alerts {
		if a.Resolved {
			summary.Resolved++
			continue
		}
		summary.Unresolved++
		level := a.Level.Normalize()
		summary.UnresolvedByLevel[level]++
		if level == models.AlertHigh || level == models.AlertCritical {
			summary.CriticalCount++
		}
	}
	return summary
}

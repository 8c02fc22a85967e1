package services

import (
	"github.com/securecomm/backend/models"
	"github.com/securecomm/backend/store"
)

// HourBucket is one hour of communication traffic: how many messages were
// logged in that UTC hour and how many distinct online vehicles were
// observed as a message endpoint during it.
type HourBucket struct {
	Hour     int `json:"hour"`
	Messages int `json:"messages"`
	Vehicles int `json:"vehicles"`
}

// TypeSlice is one category of the message-type distribution
type TypeSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Metric is a named percentage score in [0, 100]
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AnalyticsSnapshot bundles the three derived analytics views
type AnalyticsSnapshot struct {
	HourlyTraffic           []HourBucket `json:"hourlyTraffic"`
	MessageTypeDistribution []TypeSlice  `json:"messageTypeDistribution"`
	SecurityMetrics         []Metric     `json:"securityMetrics"`
}

// BuildAnalytics computes the full analytics snapshot from one consistent
// store snapshot. Pure function, no hidden state.
func BuildAnalytics(snap store.Snapshot) AnalyticsSnapshot {
	return AnalyticsSnapshot{
		HourlyTraffic:           HourlyTraffic(snap.Messages, snap.Vehicles),
		MessageTypeDistribution: MessageTypeDistribution(snap.Messages),
		SecurityMetrics:         SecurityMetrics(snap.Messages, snap.Alerts),
	}
}

// HourlyTraffic buckets the message log into 24 UTC-hour buckets. All 24
// buckets are always present, hour 0 through 23. A vehicle counts toward a
// bucket when it is currently online and appears as sender or recipient of
// a message stamped in that hour.
func HourlyTraffic(messages []models.CommunicationMessage, vehicles []models.Vehicle) []HourBucket {
	online := make(map[string]bool, len(vehicles))
	for _, v := range vehicles {
		if v.Status == models.VehicleOnline {
			online[v.ID] = true
		}
	}

	buckets := make([]HourBucket, 24)
	seen := make([]map[string]bool, 24)
	for h := range buckets {
		buckets[h].Hour = h
		seen[h] = make(map[string]bool)
	}

	for _, m := range messages {
		h := m.Timestamp.UTC().Hour()
		buckets[h].Messages++
		for _, id := range []string{m.From, m.To} {
			if online[id] && !seen[h][id] {
				seen[h][id] = true
				buckets[h].Vehicles++
			}
		}
	}
	return buckets
}

// MessageTypeDistribution counts messages per category. The four declared
// categories are always present, in fixed order with their fixed display
// colors, even at zero; out-of-set categories are folded into an "Other"
// slice that appears only when occupied.
func MessageTypeDistribution(messages []models.CommunicationMessage) []TypeSlice {
	counts := make(map[models.MessageType]int, len(models.AllMessageTypes)+1)
	for _, m := range messages {
		counts[m.MessageType.Normalize()]++
	}

	dist := make([]TypeSlice, 0, len(models.AllMessageTypes)+1)
	for _, t := range models.AllMessageTypes {
		d := models.MessageTypeDisplay[t]
		dist = append(dist, TypeSlice{Name: d.Label, Value: counts[t], Color: d.Color})
	}
	if counts[models.MessageOther] > 0 {
		d := models.MessageTypeDisplay[models.MessageOther]
		dist = append(dist, TypeSlice{Name: d.Label, Value: counts[models.MessageOther], Color: d.Color})
	}
	return dist
}

// SecurityMetrics produces the named percentage scores shown on the
// overview charts:
//
//	Encrypted     - share of logged messages carrying an encrypted payload
//	Authenticated - share of authentication-type alerts that are resolved
//	Verified      - share of logged messages carrying a security hash
//
// An empty denominator scores 100 (nothing observed, nothing failing).
// Every score is clamped to [0, 100].
func SecurityMetrics(messages []models.CommunicationMessage, alerts []models.SecurityAlert) []Metric {
	encrypted, hashed := 0, 0
	for _, m := range messages {
		if m.Encrypted {
			encrypted++
		}
		if m.SecurityHash != "" {
			hashed++
		}
	}

	authTotal, authResolved := 0, 0
	for _, a := range alerts {
		if a.Type != models.AlertAuthentication {
			continue
		}
		authTotal++
		if a.Resolved {
			authResolved++
		}
	}

	return []Metric{
		{Name: "Encrypted", Value: percentage(encrypted, len(messages))},
		{Name: "Authenticated", Value: percentage(authResolved, authTotal)},
		{Name: "Verified", Value: percentage(hashed, len(messages))},
	}
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 100
	}
	p := float64(part) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

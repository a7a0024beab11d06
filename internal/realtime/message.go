package realtime

import (
	"encoding/json"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
)

// Message is the JSON frame sent to subscribers and mirrored to the event log.
type Message struct {
	Type        events.Type    `json:"type"`
	OrderNumber *string        `json:"order_number"`
	DeliveryID  string         `json:"delivery_id,omitempty"`
	Status      string         `json:"status,omitempty"`
	Lat         *float64       `json:"lat,omitempty"`
	Lng         *float64       `json:"lng,omitempty"`
	DriverName  string         `json:"driver_name,omitempty"`
	Driver      *DriverMessage `json:"driver,omitempty"`
	Receipt     string         `json:"receipt,omitempty"`
	AssignedAt  *time.Time     `json:"assigned_at,omitempty"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

type DriverMessage struct {
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Vehicle    *string    `json:"vehicle"`
	CurrentLat *float64   `json:"current_lat"`
	CurrentLng *float64   `json:"current_lng"`
	LastUpdate *time.Time `json:"last_update"`
}

// NewMessage converts a domain event to its wire frame. The order number is
// null for greetings on the global channel.
func NewMessage(e events.Event) Message {
	m := Message{
		Type:        e.Type,
		DeliveryID:  e.DeliveryID,
		Status:      e.Status,
		Lat:         e.Lat,
		Lng:         e.Lng,
		DriverName:  e.DriverName,
		Receipt:     e.Receipt,
		AssignedAt:  e.AssignedAt,
		StartedAt:   e.StartedAt,
		DeliveredAt: e.DeliveredAt,
		Timestamp:   e.Timestamp.UTC(),
	}
	if e.OrderNumber != "" {
		n := e.OrderNumber
		m.OrderNumber = &n
	}
	if d := e.Driver; d != nil {
		m.Driver = &DriverMessage{
			Name:       d.Name,
			Phone:      d.Phone,
			Vehicle:    d.Vehicle,
			CurrentLat: d.Lat,
			CurrentLng: d.Lng,
			LastUpdate: d.LastFixAt,
		}
	}
	return m
}

func Encode(e events.Event) ([]byte, error) {
	return json.Marshal(NewMessage(e))
}

package service

import (
	"time"

	"parking_enforcement/internal/domain"
)

// Notifier fans a notification out to connected officers. The websocket hub
// implements it; nil-safe helpers below let services run without one.
type Notifier interface {
	Broadcast(n domain.Notification)
}

func notify(n Notifier, kind domain.NotificationType, payload any) {
	if n == nil {
		return
	}
	n.Broadcast(domain.Notification{Type: kind, Timestamp: time.Now().UTC(), Payload: payload})
}

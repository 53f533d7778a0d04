package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"go.uber.org/zap"
)

const MessageTypeSpotStatus = "spot_status"

// ErrMalformedEvent marks a message that can never be processed; the consumer
// drops it instead of waiting for redelivery.
var ErrMalformedEvent = errors.New("malformed spot event")

type SpotEventService struct {
	parking *ParkingService
	log     *zap.SugaredLogger
}

func NewSpotEventService(parking *ParkingService, log *zap.SugaredLogger) *SpotEventService {
	return &SpotEventService{parking: parking, log: log}
}

// HandleMessage dispatches one sensor message on its message_type.
func (s *SpotEventService) HandleMessage(ctx context.Context, body string) error {
	var event domain.SpotEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	event.RawPayload = json.RawMessage(body)

	switch event.MessageType {
	case MessageTypeSpotStatus:
		if event.ParkingSpotID <= 0 {
			return fmt.Errorf("%w: missing parking_spot_id", ErrMalformedEvent)
		}
		spot, err := s.parking.SetSpotAvailability(ctx, event.ParkingSpotID, event.IsAvailable)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: spot %d: %w", ErrMalformedEvent, event.ParkingSpotID, err)
		}
		if err != nil {
			return fmt.Errorf("SpotEventService.HandleMessage: spot %d: %w", event.ParkingSpotID, err)
		}
		s.log.Debugw("spot availability updated from sensor",
			"spot_id", spot.ID, "is_available", spot.IsAvailable, "device_id", event.DeviceID)
		return nil
	default:
		s.log.Warnw("ignoring spot event with unknown message_type",
			"message_type", event.MessageType, "payload", string(event.RawPayload))
		return nil
	}
}

package events

import (
	"context"
	"fmt"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
)

// NewAuditHandler writes one structured log line per reservation event.
// Malformed payloads fail permanently so they are dead-lettered rather than
// retried.
func NewAuditHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event ReservationEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}

		switch event.Type {
		case TypeReservationCreated, TypeReservationUpdated, TypeReservationDeleted:
		default:
			return kafka.NewPermanentError(fmt.Sprintf("unknown event type %q", event.Type), nil)
		}

		if event.RoomID != msg.Key {
			log.Warn("Reservation event key does not match room",
				"key", msg.Key,
				"room_id", event.RoomID,
				"event_id", msg.GetEventID(),
			)
		}

		if tenantID := msg.GetTenantID(); tenantID != "" && tenantID != event.TenantID {
			log.Warn("Reservation event tenant header does not match payload",
				"header_tenant_id", tenantID,
				"tenant_id", event.TenantID,
				"event_id", msg.GetEventID(),
			)
		}

		log.Info("Reservation audit",
			"event_type", event.Type,
			"event_id", msg.GetEventID(),
			"request_id", msg.GetRequestID(),
			"reservation_id", event.ReservationID,
			"tenant_id", event.TenantID,
			"room_id", event.RoomID,
			"title", event.Title,
			"start_time", event.StartTime,
			"end_time", event.EndTime,
			"occurred_at", event.OccurredAt,
			"partition", msg.Partition,
			"offset", msg.Offset,
		)
		return nil
	}
}

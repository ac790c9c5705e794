package lifecycle

import (
	"context"

	"holdfast/server/logging"
)

const (
	// EventPlayerJoined is emitted when a connection claims a player slot.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerDisconnected is emitted when a subscriber drops.
	EventPlayerDisconnected logging.EventType = "lifecycle.player_disconnected"
	// EventPlayerDefeated is emitted when a player's base is destroyed.
	EventPlayerDefeated logging.EventType = "lifecycle.player_defeated"
)

// PlayerDefeatedPayload records the tick a base fell.
type PlayerDefeatedPayload struct {
	BaseID string `json:"baseId"`
}

// PlayerJoined publishes a player join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}

// PlayerDisconnected publishes a disconnect event.
func PlayerDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerDisconnected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  map[string]string{"reason": reason},
	})
}

// PlayerDefeated publishes a defeat event.
func PlayerDefeated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDefeatedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerDefeated,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

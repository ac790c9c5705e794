package economy

import (
	"context"

	"holdfast/server/logging"
)

const (
	// EventCommandRejected is emitted when a build/spawn command fails a
	// precondition and becomes a no-op.
	EventCommandRejected logging.EventType = "economy.command_rejected"
	// EventIncomeGranted is emitted when the income scheduler pays mines.
	EventIncomeGranted logging.EventType = "economy.income_granted"
)

// CommandRejectedPayload names the command and the failed precondition.
type CommandRejectedPayload struct {
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

// IncomeGrantedPayload describes one income pass.
type IncomeGrantedPayload struct {
	Gold  int `json:"gold"`
	Mines int `json:"mines"`
}

// CommandRejected publishes a rejected-command event.
func CommandRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CommandRejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCommandRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// IncomeGranted publishes an income event for one player.
func IncomeGranted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload IncomeGrantedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventIncomeGranted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

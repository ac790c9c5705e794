package combat

import (
	"context"

	"holdfast/server/logging"
)

const (
	// EventAttack is emitted whenever an attacker lands a hit.
	EventAttack logging.EventType = "combat.attack"
	// EventEntityDestroyed is emitted when the end-of-tick sweep removes
	// an entity whose hp reached zero.
	EventEntityDestroyed logging.EventType = "combat.entity_destroyed"
	// EventBountyGranted is emitted when a zombie kill pays out.
	EventBountyGranted logging.EventType = "combat.bounty_granted"
)

// AttackPayload describes a single resolved hit.
type AttackPayload struct {
	Damage    float64 `json:"damage"`
	TargetHP  float64 `json:"targetHp"`
	TargetMax float64 `json:"targetMax"`
}

// EntityDestroyedPayload describes an entity removed by the sweep.
type EntityDestroyedPayload struct {
	EntityType string `json:"entityType"`
	Owner      string `json:"owner"`
	KilledBy   string `json:"killedBy,omitempty"`
}

// BountyGrantedPayload describes a kill reward.
type BountyGrantedPayload struct {
	Gold int `json:"gold"`
}

// Attack publishes a hit event.
func Attack(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AttackPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAttack,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// EntityDestroyed publishes a sweep removal event.
func EntityDestroyed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload EntityDestroyedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEntityDestroyed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// BountyGranted publishes a kill reward event.
func BountyGranted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload BountyGrantedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBountyGranted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

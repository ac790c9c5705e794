package game

import "holdfast/server/internal/geom"

// Player is one human-controlled faction slot. Slots are created at
// session start and never removed; defeated players remain addressable
// for spectating.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Base     geom.Vec2 `json:"base"`
	Gold     int       `json:"gold"`
	Pop      int       `json:"pop"`
	MaxPop   int       `json:"maxPop"`
	Defeated bool      `json:"defeated"`
}

func (p *Player) canAct() bool {
	return p != nil && !p.Defeated
}

// spendGold deducts amount if the balance covers it.
func (p *Player) spendGold(amount int) bool {
	if p == nil || p.Gold < amount {
		return false
	}
	p.Gold -= amount
	return true
}

func (p *Player) dropPop() {
	if p == nil {
		return
	}
	p.Pop--
	if p.Pop < 0 {
		p.Pop = 0
	}
}

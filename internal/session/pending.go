// Package session holds the short-lived per-chat state of multi-turn
// conversations and the stores that keep it.
package session

import (
	"time"

	"github.com/Veraticus/penny/internal/model"
	"github.com/shopspring/decimal"
)

// State is the dialogue state of one chat. A chat with no stored
// PendingConversation is idle.
type State string

// Dialogue states.
const (
	StateIdle                  State = "idle"
	StateAwaitingAddName       State = "awaiting_add_name"
	StateAwaitingAddCost       State = "awaiting_add_cost"
	StateAwaitingAddDate       State = "awaiting_add_date"
	StateAwaitingTypeChoice    State = "awaiting_type_choice"
	StateAwaitingRemovalChoice State = "awaiting_removal_choice"
)

// DefaultTTL is how long a pending conversation survives without a
// state transition.
const DefaultTTL = 10 * time.Minute

// MaxCandidates caps the removal choice list.
const MaxCandidates = 10

// Draft is a record being assembled across turns.
type Draft struct {
	TransactionDate time.Time           `json:"transaction_date,omitempty"`
	Cost            decimal.Decimal     `json:"cost"`
	Currency        model.Currency      `json:"currency"`
	Kind            model.RecordKind    `json:"kind"`
	Name            string              `json:"name,omitempty"`
	BillingPeriod   model.BillingPeriod `json:"billing_period,omitempty"`
	Category        string              `json:"category,omitempty"`
	HasCost         bool                `json:"has_cost"`
}

// PendingConversation is the stored state of a chat that is waiting for a
// follow-up answer.
type PendingConversation struct {
	CreatedAt   time.Time         `json:"created_at"`
	ChatKey     string            `json:"chat_key"`
	State       State             `json:"state"`
	RemovalKind model.RecordKind  `json:"removal_kind,omitempty"`
	RawText     string            `json:"raw_text,omitempty"`
	Lang        string            `json:"lang"`
	Candidates  []model.Candidate `json:"candidates,omitempty"`
	Draft       Draft             `json:"draft"`
}

// Expired reports whether the conversation is older than ttl at now.
func (p *PendingConversation) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.CreatedAt) >= ttl
}

// clone returns a copy that shares no slices with p.
func (p *PendingConversation) clone() *PendingConversation {
	c := *p
	if p.Candidates != nil {
		c.Candidates = make([]model.Candidate, len(p.Candidates))
		copy(c.Candidates, p.Candidates)
	}
	return &c
}

// Package session keeps the per-conversation scratchpad of the bot: which
// step is active and what the current form has collected so far.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoConversation is returned by Store.Load when nothing is stored for an id.
var ErrNoConversation = errors.New("conversation not found")

// Draft holds the partially built answers of the add-game form and the
// transient delete candidates.
type Draft struct {
	GameDate        time.Time       `json:"game_date"`
	City            string          `json:"city,omitempty"`
	PlayersCount    int             `json:"players_count,omitempty"`
	Winner          string          `json:"winner,omitempty"`
	SecondPlace     string          `json:"second_place,omitempty"`
	SelectedPlayers []string        `json:"selected_players,omitempty"`
	Rebuys          int             `json:"rebuys,omitempty"`
	Buyin           decimal.Decimal `json:"buyin"`
	BigBlind        int             `json:"big_blind,omitempty"`
	Bank            decimal.Decimal `json:"bank"`

	// DeleteOptions maps the label shown to the user to a game id.
	DeleteOptions map[string]uint `json:"delete_options,omitempty"`
}

// Conversation is everything the bot remembers about one chat.
type Conversation struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Draft Draft  `json:"draft"`
}

// Reset clears the draft. The state is left to the caller.
func (c *Conversation) Reset() {
	c.Draft = Draft{}
}

// IsEmpty reports whether the draft holds no answers.
func (d *Draft) IsEmpty() bool {
	return d.GameDate.IsZero() && d.City == "" && d.PlayersCount == 0 &&
		d.Winner == "" && d.SecondPlace == "" && len(d.SelectedPlayers) == 0 &&
		d.Rebuys == 0 && d.Buyin.IsZero() && d.BigBlind == 0 && d.Bank.IsZero() &&
		len(d.DeleteOptions) == 0
}

// IsSelected reports whether name was already picked as a participant.
func (d *Draft) IsSelected(name string) bool {
	for _, p := range d.SelectedPlayers {
		if p == name {
			return true
		}
	}
	return false
}

// Select appends name to the picked participants. It returns false when the
// name was already there.
func (d *Draft) Select(name string) bool {
	if d.IsSelected(name) {
		return false
	}
	d.SelectedPlayers = append(d.SelectedPlayers, name)
	return true
}

// clone returns a deep copy so stored conversations are never aliased by
// callers.
func (c *Conversation) clone() *Conversation {
	out := *c
	if c.Draft.SelectedPlayers != nil {
		out.Draft.SelectedPlayers = append([]string(nil), c.Draft.SelectedPlayers...)
	}
	if c.Draft.DeleteOptions != nil {
		out.Draft.DeleteOptions = make(map[string]uint, len(c.Draft.DeleteOptions))
		for k, v := range c.Draft.DeleteOptions {
			out.Draft.DeleteOptions[k] = v
		}
	}
	return &out
}

// Store persists conversations keyed by conversation id. Conversations are
// never shared between ids.
type Store interface {
	// Load returns the stored conversation or ErrNoConversation.
	Load(ctx context.Context, id string) (*Conversation, error)
	// Save replaces the stored conversation for conv.ID.
	Save(ctx context.Context, conv *Conversation) error
	// Delete forgets a conversation. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

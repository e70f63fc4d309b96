// internal/models/card.go
package models

// CardType classifies how a card resolves when played. Only Normal cards
// carry a resolution rule today; Combo and Special are reserved.
type CardType string

const (
	CardTypeNormal  CardType = "Normal"
	CardTypeCombo   CardType = "Combo"
	CardTypeSpecial CardType = "Special"
)

// Card is one catalog entry. The engine treats cards as read-only; Value is
// meaningful for Normal cards only.
type Card struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Type  CardType `json:"type"`
	Value int      `json:"value"`
}

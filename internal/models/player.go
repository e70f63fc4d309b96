// internal/models/player.go
package models

// PlayerInfo pairs a connection identity with its display name, in the shape
// sent to clients in player lists.
type PlayerInfo struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

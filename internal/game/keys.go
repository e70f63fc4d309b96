// internal/game/keys.go
package game

import "fmt"

// Redis key layout. The keys are shared with any other process reading the
// same store, so the shapes below are a wire contract:
//
//	game-{code}                          hash: host, code, active, score, turn
//	game-{code}-players                  list of playerId (insertion order = turn order)
//	host-{playerId}                      string -> code
//	{playerId}-display-name              string
//	game-{code}-player-{playerId}-hand   list of cardId
//	game-{code}-score                    hash: playerId -> score
//	game-{code}-lock                     lease token for the lobby lock
const (
	fieldHost   = "host"
	fieldCode   = "code"
	fieldActive = "active"
	fieldScore  = "score"
	fieldTurn   = "turn"
)

func gameKey(code string) string    { return "game-" + code }
func playersKey(code string) string { return fmt.Sprintf("game-%s-players", code) }
func hostKey(playerID string) string { return "host-" + playerID }
func nameKey(playerID string) string { return playerID + "-display-name" }
func handKey(code, playerID string) string {
	return fmt.Sprintf("game-%s-player-%s-hand", code, playerID)
}
func scoreKey(code string) string { return fmt.Sprintf("game-%s-score", code) }
func lockKey(code string) string  { return fmt.Sprintf("game-%s-lock", code) }

// internal/game/turns.go
package game

import "fmt"

// TurnSequencer computes round-robin turn order over the live member list.
type TurnSequencer struct{}

// Next returns the member after current in rotation order. The scan is
// linear; lobbies are small. Returns ErrNotFound when current is no longer a
// member (kicked mid-turn); callers fall back to the first member instead of
// failing the rotation.
func (TurnSequencer) Next(memberIDs []string, current string) (string, error) {
	for i, id := range memberIDs {
		if id == current {
			return memberIDs[(i+1)%len(memberIDs)], nil
		}
	}
	return "", fmt.Errorf("%w: player %s is not a member", ErrNotFound, current)
}

// internal/game/coordinator.go
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/overflow-online/overflow-server/internal/catalog"
	"github.com/overflow-online/overflow-server/internal/models"
)

// handSize is the number of cards dealt to every member at game start.
const handSize = 5

// lockWait bounds how long a command waits for the lobby lease before
// failing retryable.
const lockWait = 2 * time.Second

// Coordinator executes the command surface of the game engine. Every command
// validates first, takes the lobby lease around compound mutations, persists
// through the component stores, and only then returns its ordered event
// queue for the transport layer to broadcast.
type Coordinator struct {
	Directory *SessionDirectory
	Registry  *PlayerRegistry
	Hands     *HandStore
	Scores    *ScoreEngine
	Turns     TurnSequencer
	Catalog   *catalog.Catalog

	rdb  *redis.Client
	lock *lobbyLock
	log  *logrus.Logger
}

func NewCoordinator(rdb *redis.Client, cat *catalog.Catalog, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		Directory: NewSessionDirectory(rdb),
		Registry:  NewPlayerRegistry(rdb),
		Hands:     NewHandStore(rdb),
		Scores:    NewScoreEngine(rdb),
		Catalog:   cat,
		rdb:       rdb,
		lock:      newLobbyLock(rdb),
		log:       logger,
	}
}

// SetName stores the player's display name.
func (c *Coordinator) SetName(ctx context.Context, playerID, name string) ([]Event, error) {
	if err := c.Registry.SetName(ctx, playerID, name); err != nil {
		return nil, err
	}
	return []Event{response(EvtSetNameResponse, true, name)}, nil
}

// CreateLobby instantiates a lobby with the caller as host and sole member.
func (c *Coordinator) CreateLobby(ctx context.Context, code, playerID string) ([]Event, error) {
	if err := c.Directory.Create(ctx, code, playerID); err != nil {
		return nil, err
	}
	return []Event{response(EvtCreateLobbyResponse, true, code)}, nil
}

// JoinLobby appends the caller to an existing lobby and announces them.
func (c *Coordinator) JoinLobby(ctx context.Context, code, playerID string) ([]Event, error) {
	if err := c.Directory.Join(ctx, code, playerID); err != nil {
		return nil, err
	}
	name, _, err := c.Registry.Name(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return []Event{
		broadcast(EvtPlayerJoin, PlayerJoinPayload{DisplayName: name, PlayerID: playerID}),
		response(EvtJoinLobbyResponse, true, code),
	}, nil
}

// GetPlayers returns the lobby's member list in turn order.
func (c *Coordinator) GetPlayers(ctx context.Context, code string) ([]Event, error) {
	players, err := c.Directory.Members(ctx, code, c.Registry)
	if err != nil {
		return nil, err
	}
	return []Event{
		{Name: EvtGetPlayersResponse, Target: TargetSender, Payload: PlayersPayload{Players: players}},
	}, nil
}

// KickPlayer removes every membership occurrence of playerID and tells the
// room.
func (c *Coordinator) KickPlayer(ctx context.Context, code, playerID string) ([]Event, error) {
	if err := c.Directory.Kick(ctx, code, playerID); err != nil {
		return nil, err
	}
	return []Event{broadcast(EvtKick, KickPayload{PlayerID: playerID})}, nil
}

// StartGame flips the lobby from Forming to Active: resets the board and
// every member's score, deals five cards to each member and gives the host
// the first turn. With fewer than two members the command aborts before any
// mutation.
func (c *Coordinator) StartGame(ctx context.Context, code string) ([]Event, error) {
	release, err := c.acquire(ctx, code)
	if err != nil {
		return nil, err
	}
	defer release()

	exists, err := c.Directory.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("Lobby does not exist")
	}
	active, err := c.Directory.Active(ctx, code)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, conflict("Game already started")
	}
	count, err := c.Directory.MemberCount(ctx, code)
	if err != nil {
		return nil, err
	}
	if count < 2 {
		return nil, conflict("Cannot start game with only one player")
	}

	members, err := c.Directory.MemberIDs(ctx, code)
	if err != nil {
		return nil, err
	}
	host, err := c.Directory.Host(ctx, code)
	if err != nil {
		return nil, err
	}
	cards, err := c.Catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	// Sample every hand up front so the whole transition commits as one
	// batch; a store failure leaves the lobby Forming with no hands dealt.
	hands := make([][]string, len(members))
	for i := range members {
		ids, err := c.Hands.Sample(handSize, cards)
		if err != nil {
			return nil, err
		}
		hands[i] = ids
	}

	pipe := c.rdb.TxPipeline()
	c.Directory.Activate(ctx, pipe, code, host)
	c.Scores.ResetScores(ctx, pipe, code, members)
	for i, id := range members {
		c.Hands.stageDeal(ctx, pipe, code, id, hands[i])
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, storeErr("start game", err)
	}

	return []Event{broadcast(EvtGameStart, struct{}{})}, nil
}

// GetGameData returns the member list plus the caller's private hand, and
// grants the first action to the host.
func (c *Coordinator) GetGameData(ctx context.Context, code, playerID string) ([]Event, error) {
	players, err := c.Directory.Members(ctx, code, c.Registry)
	if err != nil {
		return nil, err
	}
	hand, err := c.Hands.Get(ctx, code, playerID)
	if err != nil {
		return nil, err
	}
	host, err := c.Directory.Host(ctx, code)
	if err != nil {
		return nil, err
	}
	return []Event{
		{Name: EvtGetGameDataResponse, Target: TargetSender, Payload: GameDataPayload{Players: players, Hand: hand}},
		direct(host, EvtActionGiven, struct{}{}),
	}, nil
}

// PlayCard removes the addressed card from the caller's hand and resolves it.
// Normal cards run through the score engine; Combo and Special are accepted
// without effect until a resolution rule is attached. Turn advancement is the
// caller's responsibility via AdvanceTurn, applied only after this persists.
func (c *Coordinator) PlayCard(ctx context.Context, code, playerID string, cardIndex int) ([]Event, error) {
	release, err := c.acquire(ctx, code)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.checkTurn(ctx, code, playerID); err != nil {
		return nil, err
	}

	cardID, rest, err := c.Hands.PlanRemoval(ctx, code, playerID, cardIndex)
	if err != nil {
		return nil, err
	}
	card, found, err := c.Catalog.Lookup(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: card %s referenced by a hand but missing from catalog", ErrDataIntegrity, cardID)
	}

	// Resolve the full outcome before writing, then commit the hand
	// overwrite and the score changes as one batch so the card is never
	// consumed without its effect.
	normal := card.Type == models.CardTypeNormal
	var (
		newBoard int
		scored   []ScoredEntry
	)
	if normal {
		members, err := c.Directory.MemberIDs(ctx, code)
		if err != nil {
			return nil, err
		}
		newBoard, scored, err = c.Scores.ResolveNormalCard(ctx, code, playerID, card.Value, members)
		if err != nil {
			return nil, err
		}
	}

	pipe := c.rdb.TxPipeline()
	c.Hands.stageOverwrite(ctx, pipe, code, playerID, rest)
	if normal {
		c.Scores.stageScores(ctx, pipe, code, newBoard, scored)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, storeErr("play card", err)
	}

	events := []Event{
		broadcast(EvtCardPlayed, CardPlayedPayload{PlayerID: playerID, CardID: cardID, HandSize: len(rest)}),
	}
	if normal {
		for _, e := range scored {
			events = append(events, broadcast(EvtPlayerScored, e))
		}
		events = append(events, broadcast(EvtBoardUpdated, BoardUpdatedPayload{NewScore: newBoard}))
	}
	return events, nil
}

// DrawCards appends n freshly sampled cards to the caller's hand. Turn
// advancement follows the same external protocol as PlayCard.
func (c *Coordinator) DrawCards(ctx context.Context, code, playerID string, n int) ([]Event, error) {
	if n <= 0 {
		return nil, invalidInput("Invalid number of cards to draw")
	}
	release, err := c.acquire(ctx, code)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.checkTurn(ctx, code, playerID); err != nil {
		return nil, err
	}

	cards, err := c.Catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := c.Hands.Deal(ctx, code, playerID, n, cards); err != nil {
		return nil, err
	}
	size, err := c.Hands.Count(ctx, code, playerID)
	if err != nil {
		return nil, err
	}
	return []Event{
		broadcast(EvtCardsDrawn, CardsDrawnPayload{PlayerID: playerID, CardsDrawn: n, HandSize: size}),
	}, nil
}

// AdvanceTurn hands the turn to the member after playerID and persists the
// new holder. When playerID is no longer a member (kicked mid-turn), the
// first member is the deterministic fallback.
func (c *Coordinator) AdvanceTurn(ctx context.Context, code, playerID string) ([]Event, error) {
	members, err := c.Directory.MemberIDs(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, notFound("Lobby does not exist")
	}
	next, err := c.Turns.Next(members, playerID)
	if errors.Is(err, ErrNotFound) {
		next = members[0]
	} else if err != nil {
		return nil, err
	}
	if err := c.Directory.SetTurn(ctx, code, next); err != nil {
		return nil, err
	}
	return []Event{direct(next, EvtActionGiven, struct{}{})}, nil
}

// Disconnect cleans up after a departed connection. A host takes their lobby
// down with them; any other player is removed from the lobby they had
// joined. code is the lobby the connection was in, empty when none was
// tracked. The departing player's display name is dropped in both paths.
func (c *Coordinator) Disconnect(ctx context.Context, playerID, code string) ([]Event, error) {
	hosted, isHost, err := c.Directory.HostedLobby(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if isHost {
		release, err := c.acquire(ctx, hosted)
		if err != nil {
			return nil, err
		}
		defer release()
		members, err := c.Directory.MemberIDs(ctx, hosted)
		if err != nil {
			return nil, err
		}
		if err := c.Directory.Destroy(ctx, hosted, playerID, members); err != nil {
			return nil, err
		}
		if err := c.Registry.Delete(ctx, playerID); err != nil {
			return nil, err
		}
		return []Event{broadcast(EvtKick, KickPayload{PlayerID: playerID})}, nil
	}

	if code == "" {
		return nil, nil
	}
	release, err := c.acquire(ctx, code)
	if err != nil {
		return nil, err
	}
	defer release()
	if err := c.Directory.RemovePlayer(ctx, code, playerID); err != nil {
		return nil, err
	}
	if err := c.Registry.Delete(ctx, playerID); err != nil {
		return nil, err
	}
	return []Event{broadcast(EvtKick, KickPayload{PlayerID: playerID})}, nil
}

// acquire takes the lobby lease with the command's bounded wait.
func (c *Coordinator) acquire(ctx context.Context, code string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()
	return c.lock.Acquire(lockCtx, code)
}

// checkTurn rejects play/draw commands from anyone but the turn holder
// before any mutation happens. An empty turn record (game not started via
// the turn protocol) is permissive.
func (c *Coordinator) checkTurn(ctx context.Context, code, playerID string) error {
	turn, err := c.Directory.Turn(ctx, code)
	if err != nil {
		return err
	}
	if turn != "" && turn != playerID {
		return conflict("It is not your turn")
	}
	return nil
}

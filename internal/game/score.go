// internal/game/score.go
package game

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ScoreEngine resolves Normal-card plays against the shared board score and
// the per-player score hash.
type ScoreEngine struct {
	rdb *redis.Client
}

func NewScoreEngine(rdb *redis.Client) *ScoreEngine {
	return &ScoreEngine{rdb: rdb}
}

// ScoredEntry reports one player's new score after a play.
type ScoredEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// BoardScore returns the lobby's current board score, zero when unset.
func (s *ScoreEngine) BoardScore(ctx context.Context, code string) (int, error) {
	v, err := s.rdb.HGet(ctx, gameKey(code), fieldScore).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr("read board score", err)
	}
	score, err := strconv.Atoi(v)
	if err != nil {
		return 0, storeErr("parse board score", err)
	}
	return score, nil
}

// PlayerScore returns one player's score, zero when unset.
func (s *ScoreEngine) PlayerScore(ctx context.Context, code, playerID string) (int, error) {
	v, err := s.rdb.HGet(ctx, scoreKey(code), playerID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr("read player score", err)
	}
	score, err := strconv.Atoi(v)
	if err != nil {
		return 0, storeErr("parse player score", err)
	}
	return score, nil
}

// ResetScores queues a zeroing of every member's score on the caller's
// pipeline. The board score itself is reset by SessionDirectory.Activate.
func (s *ScoreEngine) ResetScores(ctx context.Context, pipe redis.Pipeliner, code string, memberIDs []string) {
	for _, id := range memberIDs {
		pipe.HSet(ctx, scoreKey(code), id, 0)
	}
}

// ResolveNormalCard computes the fifteen/overflow outcome of a play without
// writing anything:
//
//	total == 15  -> the acting player scores, board resets to 0
//	total >= 16  -> every other member scores, board wraps to total mod 16
//	total <  15  -> board accumulates, nobody scores
//
// Returned entries are in membership order.
func (s *ScoreEngine) ResolveNormalCard(ctx context.Context, code, actingID string, cardValue int, memberIDs []string) (int, []ScoredEntry, error) {
	board, err := s.BoardScore(ctx, code)
	if err != nil {
		return 0, nil, err
	}

	total := board + cardValue
	var newBoard int
	var scored []ScoredEntry
	switch {
	case total == 15:
		newBoard = 0
		cur, err := s.PlayerScore(ctx, code, actingID)
		if err != nil {
			return 0, nil, err
		}
		scored = append(scored, ScoredEntry{PlayerID: actingID, Score: cur + 1})
	case total >= 16:
		newBoard = total % 16
		for _, id := range memberIDs {
			if id == actingID {
				continue
			}
			cur, err := s.PlayerScore(ctx, code, id)
			if err != nil {
				return 0, nil, err
			}
			scored = append(scored, ScoredEntry{PlayerID: id, Score: cur + 1})
		}
	default:
		newBoard = total
	}
	return newBoard, scored, nil
}

// stageScores queues the board score and any changed player scores on the
// caller's pipeline.
func (s *ScoreEngine) stageScores(ctx context.Context, pipe redis.Pipeliner, code string, newBoard int, scored []ScoredEntry) {
	pipe.HSet(ctx, gameKey(code), fieldScore, newBoard)
	for _, e := range scored {
		pipe.HSet(ctx, scoreKey(code), e.PlayerID, e.Score)
	}
}

// ApplyNormalCard resolves a Normal-card play and persists the outcome in
// one transaction. Standalone form of ResolveNormalCard plus the staged
// write, for callers with nothing else to batch.
func (s *ScoreEngine) ApplyNormalCard(ctx context.Context, code, actingID string, cardValue int, memberIDs []string) (int, []ScoredEntry, error) {
	newBoard, scored, err := s.ResolveNormalCard(ctx, code, actingID, cardValue, memberIDs)
	if err != nil {
		return 0, nil, err
	}
	pipe := s.rdb.TxPipeline()
	s.stageScores(ctx, pipe, code, newBoard, scored)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, nil, storeErr("persist scores", err)
	}
	return newBoard, scored, nil
}

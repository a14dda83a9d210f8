package model

import (
	"fmt"
	"sort"
)

// TurnData is the resolved outcome of one round for one player.
type TurnData struct {
	Round      RoundKey
	Index      int
	Value      int
	Taken      bool
	Score      float64
	DeltaScore float64
	Stats      TurnStats
}

// PlayerGameResult is one player's resolved outcome of one game.
type PlayerGameResult struct {
	PlayerID string
	Complete bool
	Score    float64
	Turns    []TurnData
	AllTurns []TurnData
	Position int
	Tied     []string
}

// Turn looks up a taken turn by round key.
func (r *PlayerGameResult) Turn(key RoundKey) (TurnData, bool) {
	for _, t := range r.Turns {
		if t.Round == key {
			return t, true
		}
	}
	return TurnData{}, false
}

// RoundsTaken returns the number of rounds the player actually played.
func (r *PlayerGameResult) RoundsTaken() int {
	return len(r.Turns)
}

// ResolvePlayer computes turn data for one player from raw round values.
// Rounds missing from values are untaken.
func (d *GameDefinition) ResolvePlayer(playerID string, values map[RoundKey]int) (PlayerGameResult, error) {
	for key := range values {
		if _, ok := d.RoundIndex(key); !ok {
			return PlayerGameResult{}, fmt.Errorf("player %s: unknown round %s for %s", playerID, key, d.Type)
		}
	}
	res := PlayerGameResult{
		PlayerID: playerID,
		Score:    d.StartScore,
		Turns:    make([]TurnData, 0, len(values)),
		AllTurns: make([]TurnData, 0, len(d.Rounds)),
	}
	projected := d.StartScore
	for i, round := range d.Rounds {
		value, taken := values[round.Key]
		if !taken {
			value = d.UntakenValue
		}
		delta := round.DeltaScore(value, playerID, i)
		projected += delta
		turn := TurnData{
			Round:      round.Key,
			Index:      i,
			Value:      value,
			Taken:      taken,
			Score:      projected,
			DeltaScore: delta,
		}
		if round.TurnStats != nil {
			turn.Stats = round.TurnStats(value)
		}
		if taken {
			res.Score += delta
			res.Turns = append(res.Turns, turn)
		}
		res.AllTurns = append(res.AllTurns, turn)
	}
	res.Complete = len(res.Turns) == len(d.Rounds)
	return res, nil
}

// ResolveGame resolves every player of a stored game and assigns positions.
func (d *GameDefinition) ResolveGame(rec GameRecord) ([]PlayerGameResult, error) {
	if rec.GameType != "" && rec.GameType != d.Type {
		return nil, fmt.Errorf("game %s is %s, not %s", rec.ID, rec.GameType, d.Type)
	}
	if len(rec.Players) == 0 {
		return nil, fmt.Errorf("game %s has no players", rec.ID)
	}
	results := make([]PlayerGameResult, 0, len(rec.Players))
	for _, pid := range rec.Players {
		res, err := d.ResolvePlayer(pid, rec.Values[pid])
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", rec.ID, err)
		}
		results = append(results, res)
	}
	AssignPositions(results, d.SortOrder)
	return results, nil
}

// AssignPositions ranks results by score. Equal scores share a position and
// list each other as tied; the next position skips the tied places.
func AssignPositions(results []PlayerGameResult, order SortOrder) {
	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := results[idx[a]].Score, results[idx[b]].Score
		if order == LowestFirst {
			return sa < sb
		}
		return sa > sb
	})
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && results[idx[j]].Score == results[idx[i]].Score {
			j++
		}
		for k := i; k < j; k++ {
			r := &results[idx[k]]
			r.Position = i + 1
			r.Tied = r.Tied[:0]
			for t := i; t < j; t++ {
				if t != k {
					r.Tied = append(r.Tied, results[idx[t]].PlayerID)
				}
			}
			if len(r.Tied) == 0 {
				r.Tied = nil
			}
		}
		i = j
	}
}

// ValidateResult checks that a result matches the definition's shape.
func (d *GameDefinition) ValidateResult(r *PlayerGameResult) error {
	if len(r.AllTurns) != len(d.Rounds) {
		return fmt.Errorf("result for %s has %d rounds, %s has %d", r.PlayerID, len(r.AllTurns), d.Type, len(d.Rounds))
	}
	if len(r.Turns) > len(r.AllTurns) {
		return fmt.Errorf("result for %s has more taken turns than rounds", r.PlayerID)
	}
	if r.Complete != (len(r.Turns) == len(d.Rounds)) {
		return fmt.Errorf("result for %s: complete flag does not match %d taken turns", r.PlayerID, len(r.Turns))
	}
	for i, t := range r.AllTurns {
		if t.Round != d.Rounds[i].Key {
			return fmt.Errorf("result for %s: round %d is %s, want %s", r.PlayerID, i, t.Round, d.Rounds[i].Key)
		}
		if len(d.StatKeys) > 0 {
			if err := d.checkStats(t.Stats); err != nil {
				return fmt.Errorf("result for %s, round %s: %w", r.PlayerID, t.Round, err)
			}
		}
	}
	for _, t := range r.Turns {
		if !t.Taken || t.Index < 0 || t.Index >= len(r.AllTurns) || r.AllTurns[t.Index].Round != t.Round {
			return fmt.Errorf("result for %s: taken turn %s not in all turns", r.PlayerID, t.Round)
		}
	}
	return nil
}

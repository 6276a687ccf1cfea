package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/darling/digsite/game/board"
	"github.com/darling/digsite/game/config"
	"github.com/darling/digsite/game/party"
	"github.com/darling/digsite/geometry"
	"github.com/darling/digsite/metrics"
)

// directions maps move tokens to unit deltas. Tokens are resolved before any
// lock is acquired; anything else is ignored.
var directions = map[string]geometry.Point{
	"up":    {X: 0, Y: -1},
	"down":  {X: 0, Y: 1},
	"left":  {X: -1, Y: 0},
	"right": {X: 1, Y: 0},
}

// gameService implements GameService on top of the party registry and the
// board engine.
type gameService struct {
	registry *party.Registry
	rules    *config.Manager
	hub      Broadcaster
	metrics  *metrics.Metrics
	newRand  func() *rand.Rand
}

// NewGameService wires a controller. The registry is injected rather than
// process-global so tests and multiple services can each carry their own.
func NewGameService(registry *party.Registry, rules *config.Manager, hub Broadcaster, m *metrics.Metrics) GameService {
	return &gameService{
		registry: registry,
		rules:    rules,
		hub:      hub,
		metrics:  m,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// rulesFor resolves the ruleset for a room: a ruleset file named after the
// room wins, otherwise the default applies.
func (s *gameService) rulesFor(roomID string) *config.Rules {
	r, err := s.rules.Load(roomID)
	if err != nil {
		if !errors.Is(err, config.ErrRulesNotFound) {
			log.Printf("room %s: falling back to default rules: %v", roomID, err)
		}
		return s.rules.Default()
	}
	return r
}

// generator returns the board factory for a room. It runs inside the party's
// critical section, so it stays CPU-only.
func (s *gameService) generator(roomID string) func() (*board.Board, error) {
	rules := s.rulesFor(roomID)
	return func() (*board.Board, error) {
		b, err := board.Generate(s.newRand(), rules.BoardSize, rules.Bones, rules.Spawn)
		if err != nil {
			return nil, err
		}
		s.metrics.BoardsGenerated.Inc()
		return b, nil
	}
}

func (s *gameService) Join(ctx context.Context, roomID, playerID string) error {
	p := s.registry.Ensure(roomID, playerID)
	s.metrics.ActiveParties.Set(float64(s.registry.Count()))

	log.Printf("Party %s now %d large", roomID, p.Len())
	s.hub.BroadcastRoster(roomID, p.Players())

	var view [][]string
	err := p.EnsureBoard(s.generator(roomID), func(b *board.Board) error {
		b.AddPlayer(playerID)
		view = b.Output()
		return nil
	})
	if err != nil {
		// The room never got a playable board; it is broken for everyone in
		// it, not just this player.
		s.metrics.EventErrors.WithLabelValues("join").Inc()
		s.teardown(roomID)
		return fmt.Errorf("room %s: board generation failed: %w", roomID, err)
	}

	s.hub.BroadcastBoard(roomID, view)
	return nil
}

func (s *gameService) Move(ctx context.Context, roomID, playerID, direction string) error {
	delta, ok := directions[direction]
	if !ok {
		// Unrecognized tokens are dropped without touching the room.
		return nil
	}

	p, ok := s.registry.Get(roomID)
	if !ok {
		s.metrics.EventErrors.WithLabelValues("move").Inc()
		return fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
	}

	var view [][]string
	err := p.WithBoard(func(b *board.Board) error {
		b.MovePlayer(playerID, delta)
		view = b.Output()
		return nil
	})
	if err != nil {
		s.metrics.EventErrors.WithLabelValues("move").Inc()
		return fmt.Errorf("room %s: %w", roomID, err)
	}

	s.metrics.MovesTotal.WithLabelValues(direction).Inc()
	s.hub.BroadcastBoard(roomID, view)
	return nil
}

func (s *gameService) NewGame(ctx context.Context, roomID string) error {
	p, ok := s.registry.Get(roomID)
	if !ok {
		s.metrics.EventErrors.WithLabelValues("game").Inc()
		return fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
	}

	players := p.Players()
	var view [][]string
	err := p.ResetBoard(s.generator(roomID), func(b *board.Board) error {
		for _, id := range players {
			b.AddPlayer(id)
		}
		view = b.Output()
		return nil
	})
	if err != nil {
		// Regeneration failed mid-game: the room cannot be trusted anymore.
		// Its participants are disconnected rather than left hanging; other
		// rooms are unaffected.
		s.metrics.EventErrors.WithLabelValues("game").Inc()
		s.teardown(roomID)
		return fmt.Errorf("room %s: board generation failed: %w", roomID, err)
	}

	s.hub.BroadcastBoard(roomID, view)
	return nil
}

func (s *gameService) Leave(ctx context.Context, roomID, playerID string) (bool, error) {
	deleted := s.registry.OnPlayerLeft(roomID, playerID)
	s.metrics.ActiveParties.Set(float64(s.registry.Count()))

	if deleted {
		s.hub.CloseRoom(roomID)
		return true, nil
	}

	p, ok := s.registry.Get(roomID)
	if !ok {
		return false, nil
	}

	log.Printf("Party %s now %d large", roomID, p.Len())

	var view [][]string
	if err := p.WithBoard(func(b *board.Board) error {
		b.RemovePlayer(playerID)
		view = b.Output()
		return nil
	}); err != nil && !errors.Is(err, party.ErrNoBoard) {
		return false, err
	}

	s.hub.BroadcastRoster(roomID, p.Players())
	if view != nil {
		s.hub.BroadcastBoard(roomID, view)
	}
	return false, nil
}

func (s *gameService) Snapshot(ctx context.Context, roomID string) (*RoomSnapshot, error) {
	p, ok := s.registry.Get(roomID)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
	}

	snap := &RoomSnapshot{ID: roomID, Players: p.Players()}
	if err := p.WithBoard(func(b *board.Board) error {
		snap.Board = b.Output()
		return nil
	}); err != nil && !errors.Is(err, party.ErrNoBoard) {
		return nil, err
	}
	return snap, nil
}

func (s *gameService) Rooms(ctx context.Context) []RoomInfo {
	ids := s.registry.Rooms()
	infos := make([]RoomInfo, 0, len(ids))
	for _, id := range ids {
		p, ok := s.registry.Get(id)
		if !ok {
			continue
		}
		infos = append(infos, RoomInfo{ID: id, Players: p.Len(), HasBoard: p.HasBoard()})
	}
	return infos
}

// teardown declares a room fatally broken: every participant is disconnected
// and the party is dropped from the registry.
func (s *gameService) teardown(roomID string) {
	s.hub.CloseRoom(roomID)
	s.registry.Delete(roomID)
	s.metrics.ActiveParties.Set(float64(s.registry.Count()))
}

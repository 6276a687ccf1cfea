package config

import (
	"fmt"

	"github.com/darling/digsite/geometry"
)

// Rules is the fixed game configuration for a room: board dimensions, bone
// count, and spawn point. Rooms never negotiate these; the surrounding
// service supplies them.
type Rules struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	BoardSize   geometry.Size  `json:"board_size"`
	Bones       int            `json:"bones"`
	Spawn       geometry.Point `json:"spawn"`
}

// Default returns the stock ruleset: a 10x10 board with 15 bones and a
// centered spawn.
func Default() *Rules {
	return &Rules{
		Name:        "standard",
		Description: "10x10 digsite, 15 bones, centered spawn",
		BoardSize:   geometry.Size{X: 10, Y: 10},
		Bones:       15,
		Spawn:       geometry.Point{X: 5, Y: 5},
	}
}

// Validate checks that the rules describe a generatable board. The bone
// budget is checked against the eligible cell count up front so generation
// can never fail at runtime for a validated ruleset.
func Validate(r *Rules) error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRules)
	}
	if r.BoardSize.X <= 0 || r.BoardSize.Y <= 0 {
		return fmt.Errorf("%w: board size %s must be positive", ErrInvalidRules, r.BoardSize)
	}
	bounds := r.BoardSize.Area()
	if !bounds.Contains(r.Spawn) {
		return fmt.Errorf("%w: spawn %s outside %s board", ErrInvalidRules, r.Spawn, r.BoardSize)
	}
	if r.Bones < 0 {
		return fmt.Errorf("%w: bone count %d must not be negative", ErrInvalidRules, r.Bones)
	}

	exclusion := bounds.Intersect(geometry.AroundPoint(r.Spawn, 1))
	eligible := r.BoardSize.Count() - exclusion.Size().Count()
	if r.Bones > eligible {
		return fmt.Errorf("%w: %d bones exceed the %d eligible cells on a %s board",
			ErrInvalidRules, r.Bones, eligible, r.BoardSize)
	}
	return nil
}

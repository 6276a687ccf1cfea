package board

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/darling/digsite/geometry"
)

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func boneCount(b *Board) int {
	count := 0
	for _, c := range b.cells {
		if c.IsBone() {
			count++
		}
	}
	return count
}

func TestGenerate_PlacesExactBoneCount(t *testing.T) {
	sizes := []geometry.Size{
		{X: 10, Y: 10},
		{X: 5, Y: 8},
		{X: 20, Y: 3},
	}

	for _, size := range sizes {
		for _, bones := range []int{0, 1, 10, 15} {
			spawn := geometry.Point{X: size.X / 2, Y: size.Y / 2}
			b, err := Generate(testRNG(1), size, bones, spawn)
			if err != nil {
				t.Fatalf("Generate(%s, %d bones): %v", size, bones, err)
			}
			if got := boneCount(b); got != bones {
				t.Errorf("%s board: expected %d bones, got %d", size, bones, got)
			}
		}
	}
}

func TestGenerate_ExclusionZoneIsBoneFree(t *testing.T) {
	size := geometry.Size{X: 10, Y: 10}
	spawn := geometry.Point{X: 5, Y: 5}
	bounds := size.Area()
	exclusion := bounds.Intersect(geometry.AroundPoint(spawn, 1))

	for seed := int64(0); seed < 25; seed++ {
		b, err := Generate(testRNG(seed), size, 15, spawn)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for i, c := range b.cells {
			if c.IsBone() && exclusion.Contains(bounds.PointFromIndex(i)) {
				t.Fatalf("seed %d: bone at %s inside exclusion zone", seed, bounds.PointFromIndex(i))
			}
		}
	}
}

func TestGenerate_CornerSpawnClampsExclusion(t *testing.T) {
	// A corner spawn has only a 2x2 in-bounds exclusion zone; the other 96
	// cells are eligible.
	size := geometry.Size{X: 10, Y: 10}
	b, err := Generate(testRNG(3), size, 96, geometry.Origin)
	if err != nil {
		t.Fatalf("expected 96 bones to fit around a corner spawn: %v", err)
	}
	if got := boneCount(b); got != 96 {
		t.Errorf("expected 96 bones, got %d", got)
	}

	if _, err := Generate(testRNG(3), size, 97, geometry.Origin); !errors.Is(err, ErrTooManyBones) {
		t.Errorf("expected ErrTooManyBones for 97 bones, got %v", err)
	}
}

func TestGenerate_RejectsExcessBones(t *testing.T) {
	size := geometry.Size{X: 5, Y: 5}
	spawn := geometry.Point{X: 2, Y: 2}

	// 25 cells minus the 3x3 exclusion zone leaves 16 eligible.
	if _, err := Generate(testRNG(1), size, 16, spawn); err != nil {
		t.Errorf("16 bones should fit: %v", err)
	}
	_, err := Generate(testRNG(1), size, 17, spawn)
	if !errors.Is(err, ErrTooManyBones) {
		t.Errorf("expected ErrTooManyBones, got %v", err)
	}
}

func TestGenerate_RejectsOutOfBoundsSpawn(t *testing.T) {
	_, err := Generate(testRNG(1), geometry.Size{X: 5, Y: 5}, 1, geometry.Point{X: 9, Y: 9})
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestGenerate_NeighborCountsAreExact(t *testing.T) {
	size := geometry.Size{X: 12, Y: 9}
	spawn := geometry.Point{X: 6, Y: 4}
	bounds := size.Area()

	for seed := int64(0); seed < 10; seed++ {
		b, err := Generate(testRNG(seed), size, 20, spawn)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		for i, c := range b.cells {
			if c.IsBone() {
				continue
			}
			p := bounds.PointFromIndex(i)
			around := bounds.Intersect(geometry.AroundPoint(p, 1))
			want := 0
			for n := 0; n < around.Size().Count(); n++ {
				if b.cells[bounds.IndexFromPoint(around.PointFromIndex(n))].IsBone() {
					want++
				}
			}
			if c.Count() != want {
				t.Fatalf("seed %d: cell %s has count %d, expected %d", seed, p, c.Count(), want)
			}
		}
	}
}

func TestFlood_RevealsMaximalZeroRegionAndBorder(t *testing.T) {
	size := geometry.Size{X: 10, Y: 10}
	spawn := geometry.Point{X: 5, Y: 5}
	bounds := size.Area()

	b, err := Generate(testRNG(7), size, 15, spawn)
	if err != nil {
		t.Fatal(err)
	}

	// Every visible zero cell must have all in-bounds neighbors visible, and
	// every visible non-zero cell must border the revealed zero region (or be
	// the spawn itself).
	for i, c := range b.cells {
		p := bounds.PointFromIndex(i)
		if !b.visible.get(i) {
			continue
		}
		around := bounds.Intersect(geometry.AroundPoint(p, 1))
		if c == 0 {
			for n := 0; n < around.Size().Count(); n++ {
				np := around.PointFromIndex(n)
				if !b.visible.get(bounds.IndexFromPoint(np)) {
					t.Fatalf("hidden neighbor %s of revealed zero cell %s", np, p)
				}
			}
		} else if p != spawn {
			bordersZero := false
			for n := 0; n < around.Size().Count(); n++ {
				j := bounds.IndexFromPoint(around.PointFromIndex(n))
				if b.cells[j] == 0 && b.visible.get(j) {
					bordersZero = true
					break
				}
			}
			if !bordersZero {
				t.Fatalf("revealed cell %s (count %d) does not border the zero region", p, c.Count())
			}
		}
	}

	// Bones are never adjacent to a zero cell, so flood cannot reveal one.
	for i, c := range b.cells {
		if c.IsBone() && b.visible.get(i) {
			t.Fatalf("flood revealed a bone at %s", bounds.PointFromIndex(i))
		}
	}
}

func TestFlood_Idempotent(t *testing.T) {
	size := geometry.Size{X: 10, Y: 10}
	spawn := geometry.Point{X: 5, Y: 5}

	b, err := Generate(testRNG(11), size, 15, spawn)
	if err != nil {
		t.Fatal(err)
	}

	before := b.visible.count()
	b.Flood(spawn)
	if after := b.visible.count(); after != before {
		t.Errorf("re-flood revealed %d additional cells", after-before)
	}

	// Flooding an out-of-bounds point is a no-op.
	b.Flood(geometry.Point{X: -1, Y: 50})
	if b.visible.count() != before {
		t.Error("out-of-bounds flood changed visibility")
	}
}

func TestMovePlayer_BoundsClamp(t *testing.T) {
	size := geometry.Size{X: 5, Y: 5}
	b, err := Generate(testRNG(1), size, 0, geometry.Point{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}

	b.AddPlayer("ada")

	// Moving off the board is a silent no-op.
	b.MovePlayer("ada", geometry.Point{X: -1, Y: 0})
	if pos, _ := b.PlayerPosition("ada"); pos != geometry.Origin {
		t.Errorf("expected player to stay at origin, got %s", pos)
	}
	b.MovePlayer("ada", geometry.Point{X: 0, Y: -1})
	if pos, _ := b.PlayerPosition("ada"); pos != geometry.Origin {
		t.Errorf("expected player to stay at origin, got %s", pos)
	}

	// Valid moves apply.
	b.MovePlayer("ada", geometry.Point{X: 1, Y: 0})
	b.MovePlayer("ada", geometry.Point{X: 0, Y: 1})
	if pos, _ := b.PlayerPosition("ada"); (pos != geometry.Point{X: 1, Y: 1}) {
		t.Errorf("expected (1,1), got %s", pos)
	}

	// Unknown players are ignored.
	b.MovePlayer("ghost", geometry.Point{X: 1, Y: 0})
	if _, ok := b.PlayerPosition("ghost"); ok {
		t.Error("moving an unknown player must not register them")
	}
}

func TestAddPlayer_Idempotent(t *testing.T) {
	b, err := Generate(testRNG(1), geometry.Size{X: 5, Y: 5}, 0, geometry.Point{X: 2, Y: 2})
	if err != nil {
		t.Fatal(err)
	}

	b.AddPlayer("ada")
	b.MovePlayer("ada", geometry.Point{X: 1, Y: 0})
	b.AddPlayer("ada")

	if pos, _ := b.PlayerPosition("ada"); (pos != geometry.Point{X: 3, Y: 2}) {
		t.Errorf("re-adding a player must not reset their position, got %s", pos)
	}

	b.RemovePlayer("ada")
	if _, ok := b.PlayerPosition("ada"); ok {
		t.Error("expected player to be removed")
	}
}

func TestOutput_Scenario10x10(t *testing.T) {
	size := geometry.Size{X: 10, Y: 10}
	spawn := geometry.Point{X: 5, Y: 5}

	b, err := Generate(testRNG(42), size, 15, spawn)
	if err != nil {
		t.Fatal(err)
	}

	out := b.Output()
	if len(out) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(out))
	}
	for y, row := range out {
		if len(row) != 10 {
			t.Fatalf("row %d: expected 10 columns, got %d", y, len(row))
		}
	}

	// The spawn cell is revealed: the exclusion zone is bone-free, so it must
	// render as "." and its whole 3x3 block must be visible.
	if out[5][5] != zeroSymbol {
		t.Errorf("expected spawn cell to render %q, got %q", zeroSymbol, out[5][5])
	}
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			if out[y][x] == hiddenSymbol {
				t.Errorf("cell (%d,%d) in the spawn block is hidden", x, y)
			}
			if out[y][x] == boneSymbol {
				t.Errorf("bone rendered at (%d,%d) inside the spawn block", x, y)
			}
		}
	}

	if got := boneCount(b); got != 15 {
		t.Errorf("expected 15 bones on the board, got %d", got)
	}

	// A player marker overrides the cell symbol at their position.
	b.AddPlayer("ada")
	out = b.Output()
	if out[5][5] != "A" {
		t.Errorf("expected player marker 'A' at spawn, got %q", out[5][5])
	}
}

func TestOutput_HiddenCellsMasked(t *testing.T) {
	size := geometry.Size{X: 10, Y: 10}
	b, err := Generate(testRNG(5), size, 30, geometry.Point{X: 5, Y: 5})
	if err != nil {
		t.Fatal(err)
	}

	bounds := size.Area()
	out := b.Output()
	for i := range b.cells {
		p := bounds.PointFromIndex(i)
		got := out[p.Y][p.X]
		if b.visible.get(i) {
			if got == hiddenSymbol {
				t.Fatalf("revealed cell %s rendered hidden", p)
			}
		} else if got != hiddenSymbol {
			t.Fatalf("hidden cell %s leaked symbol %q", p, got)
		}
	}
}

func TestCellSymbols(t *testing.T) {
	cases := []struct {
		cell Cell
		want string
	}{
		{Bone, "b"},
		{Cell(0), "."},
		{Cell(3), "3"},
		{Cell(8), "8"},
	}
	for _, c := range cases {
		if got := c.cell.Symbol(); got != c.want {
			t.Errorf("Symbol(%d) = %q, want %q", c.cell, got, c.want)
		}
	}
}

func TestBitset(t *testing.T) {
	bs := newBitset(130)
	for _, i := range []int{0, 63, 64, 129} {
		if bs.get(i) {
			t.Errorf("bit %d set in fresh bitset", i)
		}
		bs.set(i)
		if !bs.get(i) {
			t.Errorf("bit %d not set after set", i)
		}
	}
	if bs.count() != 4 {
		t.Errorf("expected 4 bits set, got %d", bs.count())
	}

	// Out-of-range access is inert.
	bs.set(500)
	if bs.get(500) || bs.get(-1) {
		t.Error("out-of-range bits must read false")
	}
}

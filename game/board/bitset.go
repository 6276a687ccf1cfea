package board

// bitset is a fixed-length visibility bitmap, one bit per board cell.
type bitset struct {
	words []uint64
	n     int
}

func newBitset(n int) bitset {
	return bitset{words: make([]uint64, (n+63)/64), n: n}
}

func (b bitset) get(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.words[i/64]&(1<<(uint(i)%64)) != 0
}

func (b bitset) set(i int) {
	if i < 0 || i >= b.n {
		return
	}
	b.words[i/64] |= 1 << (uint(i) % 64)
}

func (b bitset) count() int {
	total := 0
	for i := 0; i < b.n; i++ {
		if b.get(i) {
			total++
		}
	}
	return total
}

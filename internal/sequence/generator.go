// Package sequence builds the randomized order in which targets are presented.
//
// Generation is a pure function of its inputs: the same counts and a source
// seeded the same way always yield the same sequence.
package sequence

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/CodexForgeBR/target-drill/internal/target"
)

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Build lays out every peripheral target counts.Of(id) times, in
// target.BuildOrder.
func Build(counts target.Counts) []target.ID {
	seq := make([]target.ID, 0, counts.Total())
	for _, id := range target.BuildOrder {
		for i := 0; i < counts.Of(id); i++ {
			seq = append(seq, id)
		}
	}
	return seq
}

// Shuffle permutes ids in place with the Fisher-Yates algorithm: for i from
// the last index down to 1, swap element i with a uniformly chosen element at
// index <= i.
func Shuffle(ids []target.ID, src Source) {
	for i := len(ids) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// Generate returns a uniformly random permutation of the multiset described
// by counts. Empty counts yield an empty, non-nil sequence.
func Generate(counts target.Counts, src Source) []target.ID {
	seq := Build(counts)
	Shuffle(seq, src)
	return seq
}

// NewSource returns a deterministic source for seed. A zero seed draws a
// fresh seed from crypto/rand.
func NewSource(seed int64) (*rand.Rand, int64, error) {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, 0, err
		}
		seed = s
	}
	return rand.New(rand.NewSource(seed)), seed, nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]))
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}

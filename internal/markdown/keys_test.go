package markdown

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingKeyer() *Keyer {
	n := 0
	return &Keyer{newKey: func() string {
		n++
		return fmt.Sprintf("k%d", n)
	}}
}

func keysOf(blocks []Block) []string {
	keys := make([]string, len(blocks))
	for i, b := range blocks {
		keys[i] = b.Key
	}
	return keys
}

func TestKeyerAssignsFreshKeysOnFirstParse(t *testing.T) {
	k := countingKeyer()
	blocks := k.Assign(nil, Parse("# A\n\nB\n\nC").Blocks)
	assert.Equal(t, []string{"k1", "k2", "k3"}, keysOf(blocks))
}

func TestKeyerKeepsKeysAcrossEditInPlace(t *testing.T) {
	k := countingKeyer()
	prev := k.Assign(nil, Parse("# A\n\nB\n\nC").Blocks)
	next := k.Assign(prev, Parse("# A\n\nB changed\nover two lines\n\nC").Blocks)

	assert.Equal(t, []string{"k1", "k2", "k3"}, keysOf(next))
	lines := LineMap(next)
	assert.Equal(t, 6, lines["k3"], "C moved down but kept its key")
}

func TestKeyerSplitKeepsHeadKey(t *testing.T) {
	k := countingKeyer()
	prev := k.Assign(nil, Parse("# A\n\nBC\n\nD").Blocks)
	next := k.Assign(prev, Parse("# A\n\nB\n\nC\n\nD").Blocks)

	require.Len(t, next, 4)
	assert.Equal(t, []string{"k1", "k2", "k4", "k3"}, keysOf(next))
}

func TestKeyerMergeKeepsPreviousKey(t *testing.T) {
	k := countingKeyer()
	prev := k.Assign(nil, Parse("X\n\nY\n\nZ").Blocks)
	next := k.Assign(prev, Parse("XY\n\nZ").Blocks)

	assert.Equal(t, []string{"k1", "k3"}, keysOf(next))
}

func TestKeyerDuplicateSourcesGetDistinctKeys(t *testing.T) {
	k := countingKeyer()
	prev := k.Assign(nil, Parse("same\n\nsame").Blocks)
	next := k.Assign(prev, Parse("same\n\nsame\n\nsame").Blocks)

	keys := keysOf(next)
	assert.Len(t, keys, 3)
	assert.NotEqual(t, keys[0], keys[1])
	assert.NotEqual(t, keys[1], keys[2])
	assert.NotEqual(t, keys[0], keys[2])
}

func TestNewKeyerUsesUUIDs(t *testing.T) {
	blocks := NewKeyer().Assign(nil, Parse("a\n\nb").Blocks)
	require.Len(t, blocks, 2)
	assert.Len(t, blocks[0].Key, 36)
	assert.NotEqual(t, blocks[0].Key, blocks[1].Key)
}

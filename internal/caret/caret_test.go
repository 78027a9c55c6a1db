package caret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNode struct {
	text     string
	leaf     bool
	children []*testNode
}

func (n *testNode) Text() (string, bool) { return n.text, n.leaf }

func (n *testNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func text(s string) *testNode { return &testNode{text: s, leaf: true} }

func elem(children ...*testNode) *testNode { return &testNode{children: children} }

// <h1>Hello <em>wo<b>rl</b></em>d !</h1>
func sampleTree() (root, hello, wo, rl, tail *testNode) {
	hello = text("Hello ")
	wo = text("wo")
	rl = text("rl")
	tail = text("d !")
	root = elem(hello, elem(wo, elem(rl)), tail)
	return
}

func TestLength(t *testing.T) {
	root, _, _, _, _ := sampleTree()
	assert.Equal(t, 13, Length(root))
	assert.Equal(t, 0, Length(nil))
	assert.Equal(t, 3, Length(text("żół")))
}

func TestOffsetAccumulatesPrecedingLeaves(t *testing.T) {
	root, hello, wo, rl, tail := sampleTree()

	tests := []struct {
		name   string
		anchor *testNode
		offset int
		want   int
	}{
		{"start of first leaf", hello, 0, 0},
		{"inside first leaf", hello, 3, 3},
		{"inside nested leaf", wo, 1, 7},
		{"deeply nested leaf", rl, 2, 10},
		{"last leaf", tail, 1, 11},
		{"local offset clamped", tail, 99, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Offset(root, tt.anchor, tt.offset))
		})
	}
}

func TestOffsetWithElementAnchorCountsChildren(t *testing.T) {
	root, _, _, _, _ := sampleTree()

	assert.Equal(t, 0, Offset(root, root, 0))
	assert.Equal(t, 6, Offset(root, root, 1))
	assert.Equal(t, 10, Offset(root, root, 2))
	assert.Equal(t, 13, Offset(root, root, 3))
}

func TestOffsetUnknownAnchorYieldsLength(t *testing.T) {
	root, _, _, _, _ := sampleTree()
	assert.Equal(t, 13, Offset(root, text("elsewhere"), 0))
}

func TestRestoreFindsLeaf(t *testing.T) {
	root, hello, wo, rl, tail := sampleTree()

	tests := []struct {
		name      string
		offset    int
		wantLeaf  *testNode
		wantLocal int
	}{
		{"start", 0, hello, 0},
		{"inside first", 4, hello, 4},
		{"boundary goes to next leaf", 6, wo, 0},
		{"nested", 9, rl, 1},
		{"last leaf", 12, tail, 2},
		{"end clamps to end of last leaf", 13, tail, 3},
		{"beyond end clamps", 500, tail, 3},
		{"negative clamps to start", -4, hello, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf, local := Restore(root, tt.offset)
			require.NotNil(t, leaf)
			assert.Same(t, tt.wantLeaf, leaf.(*testNode))
			assert.Equal(t, tt.wantLocal, local)
		})
	}
}

func TestRestoreIsInverseOfOffset(t *testing.T) {
	root, _, _, _, _ := sampleTree()
	for offset := 0; offset <= Length(root); offset++ {
		leaf, local := Restore(root, offset)
		assert.Equal(t, offset, Offset(root, leaf, local), "offset %d", offset)
	}
}

func TestRestoreWithoutLeaves(t *testing.T) {
	leaf, local := Restore(elem(elem()), 3)
	assert.Nil(t, leaf)
	assert.Equal(t, 0, local)

	leaf, local = Restore(nil, 0)
	assert.Nil(t, leaf)
	assert.Equal(t, 0, local)
}

func TestLeaves(t *testing.T) {
	root, hello, wo, rl, tail := sampleTree()
	leaves := Leaves(root)
	require.Len(t, leaves, 4)
	assert.Same(t, hello, leaves[0].(*testNode))
	assert.Same(t, wo, leaves[1].(*testNode))
	assert.Same(t, rl, leaves[2].(*testNode))
	assert.Same(t, tail, leaves[3].(*testNode))
}

func TestPositionActive(t *testing.T) {
	assert.False(t, Unfocused.Active())
	assert.False(t, Position{}.Active())
	assert.True(t, Position{Block: 1}.Active())
}

package markdown

import "github.com/google/uuid"

// Keyer assigns block keys that survive re-parsing. Line numbers change
// whenever an earlier block grows or shrinks; keys only change when a block
// is created.
type Keyer struct {
	newKey func() string
}

// NewKeyer returns a Keyer that mints uuid keys.
func NewKeyer() *Keyer {
	return &Keyer{newKey: uuid.NewString}
}

// Assign copies keys from prev onto next and returns next. Blocks in the
// unchanged prefix and suffix keep their keys; blocks in the changed middle
// keep positional keys while both sides have one, the rest get fresh keys.
func (k *Keyer) Assign(prev, next []Block) []Block {
	out := make([]Block, len(next))
	copy(out, next)

	prefix := 0
	for prefix < len(prev) && prefix < len(out) && sameBlock(prev[prefix], out[prefix]) {
		out[prefix].Key = prev[prefix].Key
		prefix++
	}

	suffix := 0
	for suffix < len(prev)-prefix && suffix < len(out)-prefix {
		p := prev[len(prev)-1-suffix]
		n := &out[len(out)-1-suffix]
		if !sameBlock(p, *n) {
			break
		}
		n.Key = p.Key
		suffix++
	}

	prevMiddle := prev[prefix : len(prev)-suffix]
	for i := prefix; i < len(out)-suffix; i++ {
		if j := i - prefix; j < len(prevMiddle) {
			out[i].Key = prevMiddle[j].Key
		}
	}

	seen := make(map[string]bool, len(out))
	for i := range out {
		if out[i].Key == "" || seen[out[i].Key] {
			out[i].Key = k.newKey()
		}
		seen[out[i].Key] = true
	}
	return out
}

func sameBlock(a, b Block) bool {
	return a.Kind == b.Kind && a.Level == b.Level && a.Source == b.Source
}

// LineMap reports the current start line of every keyed block.
func LineMap(blocks []Block) map[string]int {
	lines := make(map[string]int, len(blocks))
	for _, block := range blocks {
		if block.Key != "" {
			lines[block.Key] = block.Span.StartLine
		}
	}
	return lines
}

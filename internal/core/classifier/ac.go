package classifier

// A small Aho-Corasick automaton over lower-cased UTF-8 bytes.
// One pass over the message reports every keyword it contains, so scoring
// cost does not grow with the number of keywords in the table.

type acNode struct {
	// trans[b] = next state or -1 if absent
	trans  [256]int32
	fail   int32
	output []int // keyword ids ending at this node
}

type acAutomaton struct {
	nodes []acNode
}

func newAutomaton() *acAutomaton {
	a := &acAutomaton{nodes: make([]acNode, 1)}
	for i := range a.nodes[0].trans {
		a.nodes[0].trans[i] = -1
	}
	return a
}

// AddPattern inserts a keyword and associates it with an id
func (a *acAutomaton) AddPattern(pat []byte, id int) {
	if len(pat) == 0 {
		return
	}
	state := int32(0)
	for _, b := range pat {
		nxt := a.nodes[state].trans[b]
		if nxt == -1 {
			nxt = int32(len(a.nodes))
			a.nodes[state].trans[b] = nxt
			var n acNode
			for i := range n.trans {
				n.trans[i] = -1
			}
			a.nodes = append(a.nodes, n)
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, id)
}

// Build computes failure links breadth first
func (a *acAutomaton) Build() {
	q := make([]int32, 0, 64)
	for b := range 256 {
		if s := a.nodes[0].trans[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}

	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := range 256 {
			s := a.nodes[r].trans[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].trans[b] == -1 {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].trans[b]; nxt != -1 && nxt != s {
				a.nodes[s].fail = nxt
			} else {
				a.nodes[s].fail = 0
			}

			a.nodes[s].output = append(a.nodes[s].output, a.nodes[a.nodes[s].fail].output...)
		}
	}
}

// FindAll scans text and calls cb(end, id) for each keyword occurrence.
// Returning false from cb stops the scan
func (a *acAutomaton) FindAll(text []byte, cb func(end int, id int) bool) {
	state := int32(0)
	for i, b := range text {
		for state != 0 && a.nodes[state].trans[b] == -1 {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].trans[b]; nxt != -1 {
			state = nxt
		}
		for _, id := range a.nodes[state].output {
			if !cb(i+1, id) {
				return
			}
		}
	}
}

package combine

// PlayerIndex assigns each distinct player name a stable index in
// first-seen order. Names are matched exactly, case included.
type PlayerIndex struct {
	names []string
	index map[string]int
}

// NewPlayerIndex returns an empty index.
func NewPlayerIndex() *PlayerIndex {
	return &PlayerIndex{
		names: []string{},
		index: make(map[string]int),
	}
}

// Resolve returns the index of name, appending it if it is new.
func (p *PlayerIndex) Resolve(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	i := len(p.names)
	p.names = append(p.names, name)
	p.index[name] = i
	return i
}

// Names returns the players in index order.
func (p *PlayerIndex) Names() []string {
	return p.names
}

// Len returns the number of distinct players.
func (p *PlayerIndex) Len() int {
	return len(p.names)
}

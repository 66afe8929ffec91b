package toc

// DefaultCollapseAfter is the number of outline items shown before the rest
// are collapsed behind a toggle.
const DefaultCollapseAfter = 5

// Node is an outline item. Children always have a deeper level than their parent.
type Node struct {
	Level     int     `json:"level"`
	Text      string  `json:"text"`
	ID        string  `json:"id"`
	Position  int     `json:"position"` // 1-based, across the whole outline
	Collapsed bool    `json:"collapsed,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Outline is the table of contents of one document. Multiple roots are allowed.
type Outline struct {
	Roots       []*Node `json:"roots"`
	Count       int     `json:"count"`
	Collapsible bool    `json:"collapsible"`
	Expanded    bool    `json:"expanded"`
}

// Build turns a heading sequence into a nested outline. Headings without an
// ID are ignored. It returns nil when there is nothing to outline.
//
// Each heading closes every open item at the same or a deeper level, then
// opens either a new root (nothing left open) or a child of the innermost
// open item. Levels need not start at 1 or be contiguous.
func Build(headings []Heading, collapseAfter int) *Outline {
	if collapseAfter <= 0 {
		collapseAfter = DefaultCollapseAfter
	}

	type stackEntry struct {
		node  *Node
		level int
	}
	var stack []stackEntry
	out := &Outline{}

	for _, h := range headings {
		if h.ID == "" {
			continue
		}
		out.Count++
		node := &Node{
			Level:    h.Level,
			Text:     h.Text,
			ID:       h.ID,
			Position: out.Count,
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			out.Roots = append(out.Roots, node)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, stackEntry{node: node, level: h.Level})
	}

	if out.Count == 0 {
		return nil
	}

	if out.Count > collapseAfter {
		out.Collapsible = true
		out.Walk(func(n *Node) {
			n.Collapsed = n.Position > collapseAfter
		})
	}
	return out
}

// Walk visits every node in document order.
func (o *Outline) Walk(fn func(*Node)) {
	if o == nil {
		return
	}
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			fn(n)
			walk(n.Children)
		}
	}
	walk(o.Roots)
}

// Toggle flips between showing all items and hiding the collapsed ones.
// It has no effect on an outline that is not collapsible.
func (o *Outline) Toggle() {
	if o == nil || !o.Collapsible {
		return
	}
	o.Expanded = !o.Expanded
}

// Hidden reports whether n is currently hidden behind the toggle.
func (o *Outline) Hidden(n *Node) bool {
	return o != nil && n.Collapsed && !o.Expanded
}

// Copy returns an outline that shares the node tree but has its own
// expansion state.
func (o *Outline) Copy() *Outline {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

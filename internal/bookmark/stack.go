package bookmark

// Node is a realized table-of-contents entry pointing into the
// assembled document. Once created, a node never moves: Page is fixed
// at realization time and only Children grows.
type Node struct {
	// Title is the entry's label.
	Title string `json:"title"`

	// Page is the zero-based document position the entry points at.
	Page int `json:"page"`

	// Children are entries nested under this one, in visitation order.
	Children []*Node `json:"children,omitempty"`
}

// entry is one level of the heading stack. node is nil while the
// heading is pending and set exactly once when it is realized.
type entry struct {
	label   string
	nesting bool
	node    *Node
}

// Hierarchy tracks the table-of-contents headings that are open during
// traversal and the outline tree of realized entries.
//
// Headings are pushed when the traversal enters a navigation group and
// popped when it leaves. A pushed heading starts out pending: it has no
// outline node and leaves no trace if popped before any content appears
// beneath it. The first append under a heading realizes the whole
// pending prefix of the stack bottom-up, so every ancestor points at
// the first page of its subtree. Realized entries stay in the outline
// after being popped.
type Hierarchy struct {
	stack []*entry
	roots []*Node
}

// New creates an empty Hierarchy.
func New() *Hierarchy {
	return &Hierarchy{}
}

// Push opens a new pending heading. Subsequent bookmarks become
// descendants of it (or siblings, if nesting is false) until Pop.
func (h *Hierarchy) Push(label string, nesting bool) {
	h.stack = append(h.stack, &entry{label: label, nesting: nesting})
}

// Pop closes the top heading. The pop cascades: trailing headings that
// are non-nesting and still pending are removed together, so a chain of
// empty decorative separators never leaves stale context behind.
// Realized entries already live in the outline and are unaffected.
func (h *Hierarchy) Pop() {
	if len(h.stack) == 0 {
		return
	}
	h.stack = h.stack[:len(h.stack)-1]

	for len(h.stack) > 0 {
		top := h.stack[len(h.stack)-1]
		if top.node != nil || top.nesting {
			break
		}
		h.stack = h.stack[:len(h.stack)-1]
	}
}

// RealizePending materializes every still-pending heading on the stack
// at the given document position, bottom-up. Each realized entry is
// parented to the nearest nesting entry below it; non-nesting entries
// share the position but are recorded as siblings, not parents, of what
// follows. The call is idempotent: already-realized entries are left
// untouched.
func (h *Hierarchy) RealizePending(page int) {
	var parent *Node
	for _, e := range h.stack {
		if e.node == nil {
			e.node = &Node{Title: e.label, Page: page}
			h.attach(parent, e.node)
		}
		if e.nesting {
			parent = e.node
		}
	}
}

// CurrentParent returns the nearest realized nesting heading, or nil if
// none is open. Leaf bookmarks written by the assembler nest under it.
func (h *Hierarchy) CurrentParent() *Node {
	for i := len(h.stack) - 1; i >= 0; i-- {
		if e := h.stack[i]; e.node != nil && e.nesting {
			return e.node
		}
	}
	return nil
}

// AddLeaf records a leaf bookmark at the given position under the
// current parent. Callers must realize pending headings first so the
// leaf nests under its freshly materialized ancestors.
func (h *Hierarchy) AddLeaf(label string, page int) *Node {
	n := &Node{Title: label, Page: page}
	h.attach(h.CurrentParent(), n)
	return n
}

// Outline returns the realized bookmark tree in visitation order.
func (h *Hierarchy) Outline() []*Node {
	return h.roots
}

// Depth returns the number of headings currently open.
func (h *Hierarchy) Depth() int {
	return len(h.stack)
}

// PendingCount returns the number of open headings not yet realized.
func (h *Hierarchy) PendingCount() int {
	var n int
	for _, e := range h.stack {
		if e.node == nil {
			n++
		}
	}
	return n
}

func (h *Hierarchy) attach(parent, n *Node) {
	if parent == nil {
		h.roots = append(h.roots, n)
		return
	}
	parent.Children = append(parent.Children, n)
}

package model

// NodeKind identifies the variant of a NavigationNode.
type NodeKind int

// Navigation node kinds.
const (
	// KindGroup is a heading with nested child nodes.
	KindGroup NodeKind = iota

	// KindLeaf is a single linked page.
	KindLeaf
)

// String returns the human-readable name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// NavigationNode is one entry of a documentation site's navigation menu.
// It is a tagged union: a Group carries Label, Nesting, and Children;
// a Leaf carries Label and URL. Nodes are produced transiently by the
// navigation extractor for each visited page and are not persisted.
type NavigationNode struct {
	// Kind selects the variant (group or leaf).
	Kind NodeKind

	// Label is the menu text of the entry.
	Label string

	// URL is the absolute target URL. Set only for leaves.
	URL string

	// Nesting reports whether child entries nest under this group in the
	// output table of contents. Decorative separator headings group
	// children visually but do not introduce a nesting level.
	Nesting bool

	// Children are the nested nodes of a group, in document order.
	Children []NavigationNode
}

// Group creates a group node.
func Group(label string, nesting bool, children ...NavigationNode) NavigationNode {
	return NavigationNode{Kind: KindGroup, Label: label, Nesting: nesting, Children: children}
}

// Leaf creates a leaf node.
func Leaf(label, url string) NavigationNode {
	return NavigationNode{Kind: KindLeaf, Label: label, URL: url}
}

// IsGroup reports whether the node is a group.
func (n NavigationNode) IsGroup() bool {
	return n.Kind == KindGroup
}

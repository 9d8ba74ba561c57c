package dom

// NodeStack is a LIFO list of nodes, the shape shared by the stack of open
// elements and the list of active formatting elements.
type NodeStack []*Node

func (s *NodeStack) Push(n *Node) { *s = append(*s, n) }

func (s *NodeStack) Pop() *Node {
	if len(*s) == 0 {
		return nil
	}
	n := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return n
}

func (s NodeStack) Top() *Node {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (s NodeStack) Index(n *Node) int {
	for i := range s {
		if s[i] == n {
			return i
		}
	}
	return -1
}

// Remove deletes the node at index i.
func (s *NodeStack) Remove(i int) {
	if i < 0 || i >= len(*s) {
		return
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
}

// RemoveNode deletes n from the stack, wherever it is.
func (s *NodeStack) RemoveNode(n *Node) {
	s.Remove(s.Index(n))
}

// InsertAt inserts n immediately before index i (appending if i is past the
// end), used by the adoption agency to re-home bookmarked nodes.
func (s *NodeStack) InsertAt(i int, n *Node) {
	if i < 0 {
		i = 0
	}
	if i >= len(*s) {
		*s = append(*s, n)
		return
	}
	*s = append(*s, nil)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = n
}

// PopUntilName pops elements off the stack until (and including) one whose
// NodeName matches one of names.
func (s *NodeStack) PopUntilName(names ...string) {
	for {
		n := s.Pop()
		if n == nil {
			return
		}
		for _, name := range names {
			if n.NodeName == name {
				return
			}
		}
	}
}

// Contains reports whether any element in the stack has NodeName == name.
func (s NodeStack) Contains(name string) bool {
	for _, n := range s {
		if n.NodeName == name {
			return true
		}
	}
	return false
}

// ScopeMarker is the sentinel inserted into the active formatting elements
// list at the boundary of a table cell, caption, object, applet, template,
// or (for the top of the list) the start of fragment/document parsing.
var ScopeMarker = &Node{NodeType: scopeMarkerNode, NodeName: "#marker"}

// defaultScopeStoppers is the "specific scope" element list used by the
// default/list-item/button scope predicates; the list-item and button
// predicates extend it, while table and select scope use their own lists.
var defaultScopeStoppers = []string{
	"applet", "caption", "html", "table", "td", "th", "marquee", "object",
	"template", "mi", "mo", "mn", "ms", "mtext", "annotation-xml",
	"foreignObject", "desc", "title",
}

func (s NodeStack) inSpecificScope(target string, stoppers []string) bool {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].NodeName == target {
			return true
		}
		for _, name := range stoppers {
			if s[i].NodeName == name {
				return false
			}
		}
	}
	return false
}

// InScope implements https://html.spec.whatwg.org/#has-an-element-in-the-specific-scope
// with the default stopper list.
func (s NodeStack) InScope(target string) bool {
	return s.inSpecificScope(target, defaultScopeStoppers)
}

// InListItemScope extends the default scope with ol/ul.
func (s NodeStack) InListItemScope(target string) bool {
	return s.inSpecificScope(target, append(append([]string{}, defaultScopeStoppers...), "ol", "ul"))
}

// InButtonScope extends the default scope with button.
func (s NodeStack) InButtonScope(target string) bool {
	return s.inSpecificScope(target, append(append([]string{}, defaultScopeStoppers...), "button"))
}

// InTableScope uses the table-specific stopper list.
func (s NodeStack) InTableScope(target string) bool {
	return s.inSpecificScope(target, []string{"html", "table", "template"})
}

// InSelectScope is the inverse-sense scope used for <select>: everything
// stops the search except optgroup/option.
func (s NodeStack) InSelectScope(target string) bool {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].NodeName == target {
			return true
		}
		if s[i].NodeName != "optgroup" && s[i].NodeName != "option" {
			return false
		}
	}
	return false
}

func sameAttrs(a, b *Node) bool {
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for _, av := range a.Attrs {
		found := false
		for _, bv := range b.Attrs {
			if av.Name == bv.Name && av.Namespace == bv.Namespace {
				found = av.Value == bv.Value
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sameFormattingElement(a, b *Node) bool {
	return a.NodeName == b.NodeName && a.Namespace == b.Namespace && sameAttrs(a, b)
}

// PushFormatting implements https://html.spec.whatwg.org/#push-onto-the-list-of-active-formatting-elements,
// including the Noah's Ark clause: never let more than three matching
// elements accumulate between the last marker and the end of the list.
func (s *NodeStack) PushFormatting(n *Node) {
	matches := 0
	markerAt := -1
	for i := len(*s) - 1; i >= 0; i-- {
		if (*s)[i].NodeType == scopeMarkerNode {
			markerAt = i
			break
		}
		if sameFormattingElement((*s)[i], n) {
			matches++
			if matches == 3 {
				s.Remove(i)
				break
			}
		}
	}
	_ = markerAt
	*s = append(*s, n)
}

// ClearFormattingToLastMarker implements
// https://html.spec.whatwg.org/#clear-the-list-of-active-formatting-elements-up-to-the-last-marker.
func (s *NodeStack) ClearFormattingToLastMarker() {
	for {
		n := s.Pop()
		if n == nil || n.NodeType == scopeMarkerNode {
			return
		}
	}
}

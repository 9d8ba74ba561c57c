// Package dom implements the small slice of the DOM node model a parser
// needs to build and serialize a document tree: a single tagged Node type
// (rather than an interface hierarchy with downcasting), elements with
// namespace-aware attributes, and the document/doctype/text/comment leaf
// kinds the tree construction stage instantiates.
package dom

import (
	"sort"
	"strings"
)

// NodeType names the DOM's Node.nodeType kinds, trimmed to the kinds the
// parser can actually produce. The numeric values are this package's own
// and do not match the DOM's nodeType numbers.
type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	TextNode
	CDATASectionNode
	ProcessingInstructionNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
	scopeMarkerNode
)

// Namespace identifies the three content namespaces the tokenizer's foreign
// content dispatch distinguishes between, plus the attribute namespaces
// used for xlink:/xml:/xmlns: qualified attributes.
type Namespace uint8

const (
	HTMLNS Namespace = iota
	MathMLNS
	SVGNS
	XLinkNS
	XMLNS
	XMLNSNS
)

// Attr is a single namespaced attribute on an Element.
type Attr struct {
	Namespace Namespace
	Prefix    string
	Name      string
	Value     string
}

// Node is the DOM's single concrete node type. Which of the kind-specific
// fields is populated is determined by NodeType; callers switch on NodeType
// rather than type-asserting, matching the DOM's own single-interface model
// rather than Go's idiomatic sum-via-interfaces (there is exactly one
// concrete node shape in this tree, not a family of them).
type Node struct {
	NodeType NodeType
	NodeName string

	OwnerDocument *Node
	ParentNode    *Node
	FirstChild    *Node
	LastChild     *Node
	PreviousSibling, NextSibling *Node
	ChildNodes    []*Node

	// Element fields, valid when NodeType == ElementNode.
	Namespace  Namespace
	Prefix     string
	LocalName  string
	Attrs      []*Attr

	// CharacterData fields, valid for Text/Comment/CDATASection/PI nodes.
	Data string

	// DocumentType fields.
	Name     string
	PublicID string
	SystemID string

	// Document fields.
	QuirksMode  string // "no-quirks", "quirks", "limited-quirks"
	HeadElement *Node  // first <head> ever inserted, nil until then
	BodyElement *Node  // first <body> ever inserted, nil until then
}

// Head returns the document's head pointer: the first head element ever
// inserted during tree construction, or nil if none has been.
func (n *Node) Head() *Node { return n.HeadElement }

// Body returns the document's body pointer: the first body element ever
// inserted during tree construction, or nil if none has been.
func (n *Node) Body() *Node { return n.BodyElement }

// NewElement builds an element node in the given namespace, owned by od.
func NewElement(od *Node, localName string, ns Namespace) *Node {
	return &Node{
		NodeType:      ElementNode,
		NodeName:      localName,
		OwnerDocument: od,
		Namespace:     ns,
		LocalName:     localName,
	}
}

// NewText builds a text node holding data.
func NewText(od *Node, data string) *Node {
	return &Node{NodeType: TextNode, NodeName: "#text", OwnerDocument: od, Data: data}
}

// NewComment builds a comment node holding data.
func NewComment(od *Node, data string) *Node {
	return &Node{NodeType: CommentNode, NodeName: "#comment", OwnerDocument: od, Data: data}
}

// NewDocument builds an empty document node.
func NewDocument() *Node {
	d := &Node{NodeType: DocumentNode, NodeName: "#document", QuirksMode: "no-quirks"}
	d.OwnerDocument = nil
	return d
}

// NewDocumentFragment builds an empty document fragment node.
func NewDocumentFragment(od *Node) *Node {
	return &Node{NodeType: DocumentFragmentNode, NodeName: "#document-fragment", OwnerDocument: od}
}

// NewDocumentType builds a doctype node. pub/sys use the sentinel "MISSING"
// when the source token carried no identifier, matching the tokenizer's own
// convention for an absent identifier.
func NewDocumentType(name, pub, sys string) *Node {
	return &Node{NodeType: DocumentTypeNode, NodeName: name, Name: name, PublicID: pub, SystemID: sys}
}

// GetAttribute returns the value of the first attribute with the given
// local name in the HTML namespace, and whether it was present.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttribute adds an attribute if name isn't already present; the tree
// builder relies on "first attribute wins" per the tokenizer's own
// duplicate-attribute suppression, so this never overwrites.
func (n *Node) SetAttribute(name, value string) {
	if _, ok := n.GetAttribute(name); ok {
		return
	}
	n.Attrs = append(n.Attrs, &Attr{Name: name, Value: value})
}

// HasChildNodes reports whether n has at least one child.
func (n *Node) HasChildNodes() bool { return len(n.ChildNodes) > 0 }

// AppendChild appends on to n's children, wiring sibling and parent links.
func (n *Node) AppendChild(on *Node) *Node {
	if on.ParentNode != nil {
		on.ParentNode.RemoveChild(on)
	}
	if n.LastChild != nil {
		on.PreviousSibling = n.LastChild
		n.LastChild.NextSibling = on
	} else {
		n.FirstChild = on
	}
	on.NextSibling = nil
	on.ParentNode = n
	n.LastChild = on
	n.ChildNodes = append(n.ChildNodes, on)
	return on
}

// InsertBefore inserts on immediately before child in n's children. If
// child is nil, on is appended.
func (n *Node) InsertBefore(on, child *Node) *Node {
	if child == nil {
		return n.AppendChild(on)
	}
	if on.ParentNode != nil {
		on.ParentNode.RemoveChild(on)
	}
	idx := n.indexOf(child)
	if idx == -1 {
		return n.AppendChild(on)
	}

	n.ChildNodes = append(n.ChildNodes, nil)
	copy(n.ChildNodes[idx+1:], n.ChildNodes[idx:])
	n.ChildNodes[idx] = on

	on.ParentNode = n
	on.NextSibling = child
	on.PreviousSibling = child.PreviousSibling
	if child.PreviousSibling != nil {
		child.PreviousSibling.NextSibling = on
	} else {
		n.FirstChild = on
	}
	child.PreviousSibling = on
	return on
}

// RemoveChild detaches child from n, repairing sibling/first/last links.
func (n *Node) RemoveChild(child *Node) *Node {
	idx := n.indexOf(child)
	if idx == -1 {
		return nil
	}
	n.ChildNodes = append(n.ChildNodes[:idx], n.ChildNodes[idx+1:]...)

	if child.PreviousSibling != nil {
		child.PreviousSibling.NextSibling = child.NextSibling
	} else {
		n.FirstChild = child.NextSibling
	}
	if child.NextSibling != nil {
		child.NextSibling.PreviousSibling = child.PreviousSibling
	} else {
		n.LastChild = child.PreviousSibling
	}
	child.ParentNode = nil
	child.PreviousSibling = nil
	child.NextSibling = nil
	return child
}

// MoveChildrenTo reparents all of n's children onto dst, in order,
// preserving order (used by the adoption agency and fragment parsing when
// moving a node's whole subtree to a new parent).
func (n *Node) MoveChildrenTo(dst *Node) {
	for _, c := range append([]*Node{}, n.ChildNodes...) {
		n.RemoveChild(c)
		dst.AppendChild(c)
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.ChildNodes {
		if c == child {
			return i
		}
	}
	return -1
}

// Serialize renders the subtree rooted at n using the indented debug format
// used by parser conformance fixtures: one node per line, "| " per depth
// level, attributes sorted and indented one level deeper than their owner.
func (n *Node) Serialize() string {
	return strings.TrimRight(n.serialize(0), "\n")
}

func (n *Node) serialize(depth int) string {
	var b strings.Builder
	if n.NodeType != DocumentNode && depth > 0 {
		b.WriteString(strings.Repeat("  ", depth-1))
		b.WriteString("| ")
	}
	b.WriteString(n.describe(depth))
	b.WriteString("\n")
	for _, c := range n.ChildNodes {
		b.WriteString(c.serialize(depth + 1))
	}
	return b.String()
}

func (n *Node) describe(depth int) string {
	switch n.NodeType {
	case ElementNode:
		var b strings.Builder
		b.WriteString("<")
		switch n.Namespace {
		case SVGNS:
			b.WriteString("svg ")
		case MathMLNS:
			b.WriteString("math ")
		}
		b.WriteString(n.LocalName)
		b.WriteString(">")
		if len(n.Attrs) > 0 {
			attrs := append([]*Attr{}, n.Attrs...)
			sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
			indent := strings.Repeat("  ", depth) + "| "
			for _, a := range attrs {
				b.WriteString("\n")
				b.WriteString(indent)
				b.WriteString(a.Name)
				b.WriteString("=\"")
				b.WriteString(a.Value)
				b.WriteString("\"")
			}
		}
		return b.String()
	case TextNode:
		return "\"" + n.Data + "\""
	case CommentNode:
		return "<!-- " + n.Data + " -->"
	case DocumentTypeNode:
		return "<!DOCTYPE " + n.Name + ">"
	case DocumentNode:
		return "#document"
	case ProcessingInstructionNode:
		return "<?" + n.Data + ">"
	default:
		return ""
	}
}

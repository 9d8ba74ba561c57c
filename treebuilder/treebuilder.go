package treebuilder

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/corvidlabs/htmlparser/dom"
	"github.com/corvidlabs/htmlparser/token"
	"github.com/corvidlabs/htmlparser/tokenizer"
)

// ErrForeignContentUnsupported is returned when a token would need to be
// handled under the foreign content dispatch branch (an element in the
// MathML or SVG namespace as the adjusted current node). The HTML-content
// dispatch branch is fully implemented; MathML/SVG integration points are
// not recognised, and the foreign-content algorithm itself is not attested
// anywhere in the available reference material, so this is a named stub
// rather than a guess.
var ErrForeignContentUnsupported = errors.New("treebuilder: foreign content dispatch not implemented")

// impliedEndTagNames is the set popped by "generate implied end tags".
var impliedEndTagNames = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

// impliedEndTagNamesThorough is the set popped by "generate all implied end
// tags thoroughly": the plain set plus the table-family elements. It is used
// when closing a <template>.
var impliedEndTagNamesThorough = map[string]bool{
	"caption": true, "colgroup": true, "dd": true, "dt": true, "li": true,
	"optgroup": true, "option": true, "p": true, "rb": true, "rp": true,
	"rt": true, "rtc": true, "tbody": true, "td": true, "tfoot": true,
	"th": true, "thead": true, "tr": true,
}

var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true, "aside": true,
	"base": true, "basefont": true, "bgsound": true, "blockquote": true, "body": true,
	"br": true, "button": true, "caption": true, "center": true, "col": true,
	"colgroup": true, "dd": true, "details": true, "dir": true, "div": true,
	"dl": true, "dt": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true, "frameset": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hgroup": true, "hr": true, "html": true,
	"iframe": true, "img": true, "input": true, "keygen": true, "li": true,
	"link": true, "listing": true, "main": true, "marquee": true, "menu": true,
	"meta": true, "nav": true, "noembed": true, "noframes": true, "noscript": true,
	"object": true, "ol": true, "p": true, "param": true, "plaintext": true,
	"pre": true, "script": true, "section": true, "select": true, "source": true,
	"style": true, "summary": true, "table": true, "tbody": true, "td": true,
	"template": true, "textarea": true, "tfoot": true, "th": true, "thead": true,
	"title": true, "tr": true, "track": true, "ul": true, "wbr": true, "xmp": true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

var formattingElements = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}

func isWhitespace(s string) bool {
	switch s {
	case "\t", "\n", "\f", "\r", " ":
		return true
	}
	return false
}

// Builder drives tree construction: it consumes tokens from the tokenizer
// and mutates a dom.Node tree, tracking the stack of open elements, the
// active formatting elements list, and the current insertion mode.
type Builder struct {
	Document *dom.Node

	openElements dom.NodeStack
	afe          dom.NodeStack

	mode          Mode
	originalMode  Mode
	templateModes []Mode

	headElement *dom.Node
	formElement *dom.Node

	fragmentContext *dom.Node

	scriptingEnabled bool
	framesetOK       bool
	done             bool

	pendingTableChars          []string
	pendingTableCharsNonSpace  bool

	forceTokenizerState *tokenizer.State

	log *logrus.Entry
}

// New creates a Builder that will build into a fresh document.
func New(scriptingEnabled bool, log *logrus.Entry) *Builder {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Builder{
		Document:         dom.NewDocument(),
		scriptingEnabled: scriptingEnabled,
		framesetOK:       true,
		log:              log,
	}
}

// CurrentNode is the top of the stack of open elements, or nil before any
// element has been pushed.
func (b *Builder) CurrentNode() *dom.Node { return b.openElements.Top() }

// AdjustedCurrentNode is the context element in fragment parsing when the
// open-elements stack holds only the fragment's single entry, else the
// current node; the tokenizer uses it to decide CDATA-section eligibility.
func (b *Builder) AdjustedCurrentNode() *dom.Node {
	if b.fragmentContext != nil && len(b.openElements) == 1 {
		return b.fragmentContext
	}
	return b.CurrentNode()
}

// TakePendingTokenizerState returns and clears a forced tokenizer state
// transition queued by the last ProcessToken call (set after inserting an
// element like <title> or <script> that switches the tokenizer into
// RCDATA/RAWTEXT/script-data/PLAINTEXT).
func (b *Builder) TakePendingTokenizerState() *tokenizer.State {
	s := b.forceTokenizerState
	b.forceTokenizerState = nil
	return s
}

// Done reports whether stop parsing has run.
func (b *Builder) Done() bool { return b.done }

// ProcessToken advances tree construction by one token: reprocessing a
// token re-enters this dispatch with the same token rather than returning
// control to the caller.
func (b *Builder) ProcessToken(t token.Token) error {
	if b.done {
		return nil
	}
	if !b.inHTMLContent(t) {
		return ErrForeignContentUnsupported
	}
	for {
		reprocess, next, err := b.dispatch(b.mode, t)
		if err != nil {
			return err
		}
		b.mode = next
		if !reprocess {
			break
		}
	}
	if t.Type == token.EOF {
		b.stopParsing()
	}
	return nil
}

// inHTMLContent implements the tree construction dispatcher's branch
// selection: true when the stack is empty, the adjusted current node is in
// the HTML namespace, or the token is EOF. Integration points are not
// checked, so any other token under a MathML/SVG element yields false.
func (b *Builder) inHTMLContent(t token.Token) bool {
	acn := b.AdjustedCurrentNode()
	if acn == nil || len(b.openElements) == 0 {
		return true
	}
	if acn.Namespace == dom.HTMLNS {
		return true
	}
	if t.Type == token.EOF {
		return true
	}
	return false
}

func (b *Builder) dispatch(m Mode, t token.Token) (bool, Mode, error) {
	switch m {
	case Initial:
		return b.initialMode(t)
	case BeforeHTML:
		return b.beforeHTMLMode(t)
	case BeforeHead:
		return b.beforeHeadMode(t)
	case InHead:
		return b.inHeadMode(t)
	case InHeadNoscript:
		return b.inHeadNoscriptMode(t)
	case AfterHead:
		return b.afterHeadMode(t)
	case InBody:
		return b.inBodyMode(t)
	case Text:
		return b.textMode(t)
	case InTable:
		return b.inTableMode(t)
	case InTableText:
		return b.inTableTextMode(t)
	case InCaption:
		return b.inCaptionMode(t)
	case InColumnGroup:
		return b.inColumnGroupMode(t)
	case InTableBody:
		return b.inTableBodyMode(t)
	case InRow:
		return b.inRowMode(t)
	case InCell:
		return b.inCellMode(t)
	case InSelect:
		return b.inSelectMode(t)
	case InSelectInTable:
		return b.inSelectInTableMode(t)
	case InTemplate:
		return b.inTemplateMode(t)
	case AfterBody:
		return b.afterBodyMode(t)
	case InFrameset:
		return b.inFramesetMode(t)
	case AfterFrameset:
		return b.afterFramesetMode(t)
	case AfterAfterBody:
		return b.afterAfterBodyMode(t)
	case AfterAfterFrameset:
		return b.afterAfterFramesetMode(t)
	}
	return false, m, errors.Errorf("treebuilder: unknown insertion mode %v", m)
}

func (b *Builder) parseError(reason string, t token.Token) {
	b.log.WithFields(logrus.Fields{"mode": b.mode, "token": t.Type}).Debug(reason)
}

func (b *Builder) internalError(reason string) {
	b.log.WithField("mode", b.mode).Error(reason)
}

// --- insertion algorithms ---

// appropriatePlace computes the target parent and "before" sibling per the
// appropriate place for inserting a node algorithm, including foster
// parenting when the current node is a table-family element.
func (b *Builder) appropriatePlace(override *dom.Node) (parent *dom.Node, before *dom.Node) {
	target := override
	if target == nil {
		target = b.CurrentNode()
	}
	if target == nil {
		return b.Document, nil
	}
	if !b.fosterParentingNeeded(target) {
		return b.templateRedirect(target), nil
	}
	return b.fosterParentTarget()
}

func (b *Builder) fosterParentingNeeded(target *dom.Node) bool {
	switch target.NodeName {
	case "table", "tbody", "tfoot", "thead", "tr":
		return true
	}
	return false
}

// templateRedirect redirects insertion into a template element's content
// document fragment, synthesizing one on first use.
func (b *Builder) templateRedirect(n *dom.Node) *dom.Node {
	if n.NodeName != "template" || n.Namespace != dom.HTMLNS {
		return n
	}
	if n.FirstChild == nil || n.FirstChild.NodeType != dom.DocumentFragmentNode {
		n.AppendChild(dom.NewDocumentFragment(n.OwnerDocument))
	}
	return n.FirstChild
}

// fosterParentTarget implements "foster parenting": find the last table in
// the stack of open elements; insert before it in its parent (or inside the
// last template, or appended to <html> in fragment mode if no table).
func (b *Builder) fosterParentTarget() (*dom.Node, *dom.Node) {
	var lastTable, lastTemplate *dom.Node
	lastTableIdx, lastTemplateIdx := -1, -1
	for i := len(b.openElements) - 1; i >= 0; i-- {
		n := b.openElements[i]
		if n.NodeName == "table" && lastTable == nil {
			lastTable, lastTableIdx = n, i
		}
		if n.NodeName == "template" && lastTemplate == nil {
			lastTemplate, lastTemplateIdx = n, i
		}
	}
	if lastTemplate != nil && (lastTable == nil || lastTemplateIdx > lastTableIdx) {
		return b.templateRedirect(lastTemplate), nil
	}
	if lastTable == nil {
		return b.openElements[0], nil
	}
	if lastTable.ParentNode != nil {
		return lastTable.ParentNode, lastTable
	}
	// table has no parent (detached): insert into the element below it on
	// the stack, per the algorithm's fallback.
	if lastTableIdx > 0 {
		return b.openElements[lastTableIdx-1], nil
	}
	return b.openElements[0], nil
}

func (b *Builder) createElement(t token.Token, ns dom.Namespace) *dom.Node {
	n := dom.NewElement(b.Document, t.TagName, ns)
	for _, a := range t.Attributes {
		n.SetAttribute(a.Name, a.Value)
	}
	return n
}

// insertHTMLElement implements "insert an HTML element for the token":
// create, insert at the appropriate place, push onto open elements.
func (b *Builder) insertHTMLElement(t token.Token) *dom.Node {
	return b.insertForeignElement(t, dom.HTMLNS)
}

func (b *Builder) insertForeignElement(t token.Token, ns dom.Namespace) *dom.Node {
	n := b.createElement(t, ns)
	parent, before := b.appropriatePlace(nil)
	parent.InsertBefore(n, before)
	b.openElements.Push(n)
	return n
}

// insertAndPopVoid inserts an HTML element for a void/self-closing-in-tree
// tag and immediately pops it back off.
func (b *Builder) insertAndPopVoid(t token.Token) *dom.Node {
	n := b.insertHTMLElement(t)
	b.openElements.Pop()
	return n
}

// insertCharacter implements "insert a character": appends to an existing
// trailing text node at the insertion point, or creates one.
func (b *Builder) insertCharacter(c string) {
	parent, before := b.appropriatePlace(nil)
	if parent.NodeType == dom.DocumentNode {
		return
	}
	var prev *dom.Node
	if before != nil {
		prev = before.PreviousSibling
	} else {
		prev = parent.LastChild
	}
	if prev != nil && prev.NodeType == dom.TextNode {
		prev.Data += c
		return
	}
	text := dom.NewText(b.Document, c)
	parent.InsertBefore(text, before)
}

// insertComment implements "insert a comment", optionally at an override
// position (used by the Initial/BeforeHTML/AfterAfterBody/AfterAfterFrameset
// modes to attach a comment directly to the Document, and by AfterBody to
// attach it to the <html> element).
func (b *Builder) insertComment(data string, override *dom.Node) {
	n := dom.NewComment(b.Document, data)
	if override != nil {
		override.AppendChild(n)
		return
	}
	parent, before := b.appropriatePlace(nil)
	parent.InsertBefore(n, before)
}

// genericTextParsing implements the shared RCDATA/RAWTEXT entry algorithm
// used by <title> (RCDATA), <style>/<xmp>/<iframe>/<noembed>/<noframes> and
// scripting-enabled <noscript> (RAWTEXT), and <script> (script data).
// <textarea> switches to RCDATA inline in inBodyStartTag.
func (b *Builder) genericTextParsing(t token.Token, state tokenizer.State) {
	b.insertHTMLElement(t)
	b.forceTokenizerState = &state
	b.originalMode = b.mode
	b.mode = Text
}

func (b *Builder) generateImpliedEndTags(except string) {
	for {
		cur := b.CurrentNode()
		if cur == nil || cur.NodeName == except || !impliedEndTagNames[cur.NodeName] {
			return
		}
		b.openElements.Pop()
	}
}

func (b *Builder) generateImpliedEndTagsThorough(except string) {
	for {
		cur := b.CurrentNode()
		if cur == nil || cur.NodeName == except || !impliedEndTagNamesThorough[cur.NodeName] {
			return
		}
		b.openElements.Pop()
	}
}

// reconstructActiveFormattingElements implements
// https://html.spec.whatwg.org/#reconstruct-the-active-formatting-elements.
func (b *Builder) reconstructActiveFormattingElements() {
	if len(b.afe) == 0 {
		return
	}
	last := len(b.afe) - 1
	entry := b.afe[last]
	if entry == dom.ScopeMarker || b.openElements.Index(entry) != -1 {
		return
	}
	i := last
	for i > 0 {
		i--
		entry = b.afe[i]
		if entry == dom.ScopeMarker || b.openElements.Index(entry) != -1 {
			i++
			break
		}
	}
	for i <= last {
		entry = b.afe[i]
		clone := cloneShallow(entry)
		parent, before := b.appropriatePlace(nil)
		parent.InsertBefore(clone, before)
		b.openElements.Push(clone)
		b.afe[i] = clone
		i++
	}
}

func cloneShallow(n *dom.Node) *dom.Node {
	clone := dom.NewElement(n.OwnerDocument, n.LocalName, n.Namespace)
	clone.Prefix = n.Prefix
	for _, a := range n.Attrs {
		clone.SetAttribute(a.Name, a.Value)
	}
	return clone
}

// adoptionAgency implements https://html.spec.whatwg.org/#adoption-agency-algorithm
// for a mis-nested formatting end tag with the given tag name.
func (b *Builder) adoptionAgency(subject string) {
	for outer := 0; outer < 8; outer++ {
		var formattingElement *dom.Node
		afeIndex := -1
		for i := len(b.afe) - 1; i >= 0; i-- {
			if b.afe[i] == dom.ScopeMarker {
				break
			}
			if b.afe[i].NodeName == subject {
				formattingElement, afeIndex = b.afe[i], i
				break
			}
		}
		if formattingElement == nil {
			b.anyOtherEndTag(subject)
			return
		}
		stackIndex := b.openElements.Index(formattingElement)
		if stackIndex == -1 {
			b.parseError("adoption agency: formatting element not in open elements", token.Token{})
			b.afe.Remove(afeIndex)
			return
		}
		if !b.openElements.InScope(formattingElement.NodeName) {
			b.parseError("adoption agency: formatting element not in scope", token.Token{})
			return
		}

		var furthestBlock *dom.Node
		furthestIndex := -1
		for i := stackIndex + 1; i < len(b.openElements); i++ {
			if specialElements[b.openElements[i].NodeName] {
				furthestBlock, furthestIndex = b.openElements[i], i
				break
			}
		}

		if furthestBlock == nil {
			for len(b.openElements) > stackIndex {
				b.openElements.Pop()
			}
			b.afe.Remove(afeIndex)
			return
		}

		commonAncestor := b.openElements[stackIndex-1]
		bookmark := afeIndex + 1
		node := furthestBlock
		lastNode := furthestBlock
		nodeIndex := furthestIndex

		for inner := 0; inner < 3; inner++ {
			nodeIndex--
			if nodeIndex < 0 {
				break
			}
			node = b.openElements[nodeIndex]
			if node == formattingElement {
				break
			}
			nodeAFEIndex := b.afe.Index(node)
			if nodeAFEIndex == -1 {
				b.openElements.RemoveNode(node)
				continue
			}
			clone := cloneShallow(node)
			b.afe[nodeAFEIndex] = clone
			b.openElements[nodeIndex] = clone
			node = clone
			if lastNode == furthestBlock {
				bookmark = nodeAFEIndex + 1
			}
			if lastNode.ParentNode != nil {
				lastNode.ParentNode.RemoveChild(lastNode)
			}
			node.AppendChild(lastNode)
			lastNode = node
		}

		if lastNode.ParentNode != nil {
			lastNode.ParentNode.RemoveChild(lastNode)
		}
		if b.fosterParentingNeeded(commonAncestor) {
			parent, before := b.fosterParentTarget()
			parent.InsertBefore(lastNode, before)
		} else {
			b.templateRedirect(commonAncestor).AppendChild(lastNode)
		}

		clone := cloneShallow(formattingElement)
		for _, c := range append([]*dom.Node{}, furthestBlock.ChildNodes...) {
			furthestBlock.RemoveChild(c)
			clone.AppendChild(c)
		}
		furthestBlock.AppendChild(clone)

		b.afe.Remove(b.afe.Index(formattingElement))
		if bookmark > len(b.afe) {
			bookmark = len(b.afe)
		}
		b.afe.InsertAt(bookmark, clone)

		b.openElements.RemoveNode(formattingElement)
		fbIndex := b.openElements.Index(furthestBlock)
		b.openElements.InsertAt(fbIndex+1, clone)
	}
}

// anyOtherEndTag implements "any other end tag" in the InBody rules: walk
// the stack of open elements looking for a match, popping up to and
// including it, unless a special-category element is hit first.
func (b *Builder) anyOtherEndTag(name string) {
	for i := len(b.openElements) - 1; i >= 0; i-- {
		node := b.openElements[i]
		if node.NodeName == name {
			b.generateImpliedEndTags(name)
			for len(b.openElements) > i {
				b.openElements.Pop()
			}
			return
		}
		if specialElements[node.NodeName] {
			b.parseError("any other end tag hit a special element", token.Token{})
			return
		}
	}
}

func (b *Builder) closePElementIfInButtonScope() {
	if b.openElements.InButtonScope("p") {
		b.closePElement()
	}
}

func (b *Builder) closePElement() {
	b.generateImpliedEndTags("p")
	if cur := b.CurrentNode(); cur == nil || cur.NodeName != "p" {
		b.internalError("closePElement: current node is not <p>")
	}
	b.openElements.PopUntilName("p")
}

// resetInsertionModeAppropriately implements https://html.spec.whatwg.org/#reset-the-insertion-mode-appropriately,
// used after popping elements (table, select, template) and when seeding
// fragment parsing.
func (b *Builder) resetInsertionModeAppropriately() {
	for i := len(b.openElements) - 1; i >= 0; i-- {
		node := b.openElements[i]
		last := i == 0
		if last && b.fragmentContext != nil {
			node = b.fragmentContext
		}
		switch node.NodeName {
		case "select":
			for j := i; j > 0; j-- {
				ancestor := b.openElements[j-1]
				if ancestor.NodeName == "template" {
					break
				}
				if ancestor.NodeName == "table" {
					b.mode = InSelectInTable
					return
				}
			}
			b.mode = InSelect
			return
		case "td", "th":
			if !last {
				b.mode = InCell
				return
			}
		case "tr":
			b.mode = InRow
			return
		case "tbody", "thead", "tfoot":
			b.mode = InTableBody
			return
		case "caption":
			b.mode = InCaption
			return
		case "colgroup":
			b.mode = InColumnGroup
			return
		case "table":
			b.mode = InTable
			return
		case "template":
			if len(b.templateModes) > 0 {
				b.mode = b.templateModes[len(b.templateModes)-1]
				return
			}
		case "head":
			if !last {
				b.mode = InHead
				return
			}
		case "body":
			b.mode = InBody
			return
		case "frameset":
			b.mode = InFrameset
			return
		case "html":
			if b.headElement == nil {
				b.mode = BeforeHead
			} else {
				b.mode = AfterHead
			}
			return
		}
		if last {
			b.mode = InBody
			return
		}
	}
}

func (b *Builder) stopParsing() {
	b.openElements = nil
	b.done = true
}

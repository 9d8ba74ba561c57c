package treebuilder

import (
	"github.com/corvidlabs/htmlparser/dom"
	"github.com/corvidlabs/htmlparser/token"
	"github.com/corvidlabs/htmlparser/tokenizer"
)

// initialMode implements https://html.spec.whatwg.org/#the-initial-insertion-mode.
func (b *Builder) initialMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			return false, Initial, nil
		}
	case token.Comment:
		b.insertComment(t.Data, b.Document)
		return false, Initial, nil
	case token.DOCTYPE:
		if t.TagName != "html" || t.PublicIdentifier != token.Missing ||
			(t.SystemIdentifier != token.Missing && t.SystemIdentifier != "about:legacy-compat") {
			b.parseError("malformed doctype", t)
		}
		doctype := dom.NewDocumentType(t.TagName, t.PublicIdentifier, t.SystemIdentifier)
		b.Document.AppendChild(doctype)
		switch Detect(t.TagName, t.PublicIdentifier, t.SystemIdentifier, t.ForceQuirks) {
		case Quirks:
			b.Document.QuirksMode = "quirks"
		case LimitedQuirks:
			b.Document.QuirksMode = "limited-quirks"
		default:
			b.Document.QuirksMode = "no-quirks"
		}
		return false, BeforeHTML, nil
	}
	return true, BeforeHTML, nil
}

func (b *Builder) beforeHTMLMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.DOCTYPE:
		b.parseError("doctype before html", t)
		return false, BeforeHTML, nil
	case token.Comment:
		b.insertComment(t.Data, b.Document)
		return false, BeforeHTML, nil
	case token.Character:
		if isWhitespace(t.Data) {
			return false, BeforeHTML, nil
		}
	case token.StartTag:
		if t.TagName == "html" {
			elem := b.createElement(t, dom.HTMLNS)
			b.Document.AppendChild(elem)
			b.openElements.Push(elem)
			return false, BeforeHead, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			b.parseError("unexpected end tag before html", t)
			return false, BeforeHTML, nil
		}
	}
	elem := dom.NewElement(b.Document, "html", dom.HTMLNS)
	b.Document.AppendChild(elem)
	b.openElements.Push(elem)
	return true, BeforeHead, nil
}

func (b *Builder) beforeHeadMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			return false, BeforeHead, nil
		}
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, BeforeHead, nil
	case token.DOCTYPE:
		b.parseError("doctype in before-head", t)
		return false, BeforeHead, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "head":
			b.headElement = b.insertHTMLElement(t)
			b.Document.HeadElement = b.headElement
			return false, InHead, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			b.parseError("unexpected end tag before head", t)
			return false, BeforeHead, nil
		}
	}
	headTok := token.Token{Type: token.StartTag, TagName: "head"}
	b.headElement = b.insertHTMLElement(headTok)
	b.Document.HeadElement = b.headElement
	return true, InHead, nil
}

func (b *Builder) inHeadMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			b.insertCharacter(t.Data)
			return false, InHead, nil
		}
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, InHead, nil
	case token.DOCTYPE:
		b.parseError("doctype in head", t)
		return false, InHead, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "base", "basefont", "bgsound", "link":
			b.insertAndPopVoid(t)
			return false, InHead, nil
		case "meta":
			b.insertAndPopVoid(t)
			return false, InHead, nil
		case "title":
			b.genericTextParsing(t, tokenizer.RCDataState)
			return false, Text, nil
		case "noscript":
			if b.scriptingEnabled {
				b.genericTextParsing(t, tokenizer.RawTextState)
				return false, Text, nil
			}
			b.insertHTMLElement(t)
			return false, InHeadNoscript, nil
		case "noframes", "style":
			b.genericTextParsing(t, tokenizer.RawTextState)
			return false, Text, nil
		case "script":
			b.genericTextParsing(t, tokenizer.ScriptDataState)
			return false, Text, nil
		case "template":
			b.insertHTMLElement(t)
			b.afe.Push(dom.ScopeMarker)
			b.framesetOK = false
			b.templateModes = append(b.templateModes, InTemplate)
			return false, InTemplate, nil
		case "head":
			b.parseError("nested head", t)
			return false, InHead, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "head":
			b.openElements.Pop()
			return false, AfterHead, nil
		case "body", "html", "br":
			b.openElements.Pop()
			return true, AfterHead, nil
		case "template":
			return b.endTemplateInHead(t)
		default:
			b.parseError("unexpected end tag in head", t)
			return false, InHead, nil
		}
	}
	b.openElements.Pop()
	return true, AfterHead, nil
}

func (b *Builder) endTemplateInHead(t token.Token) (bool, Mode, error) {
	if !b.openElements.Contains("template") {
		b.parseError("end template without matching start", t)
		return false, b.mode, nil
	}
	b.generateImpliedEndTagsThorough("")
	if cur := b.CurrentNode(); cur == nil || cur.NodeName != "template" {
		b.internalError("end template: current node is not template")
	}
	b.openElements.PopUntilName("template")
	b.afe.ClearFormattingToLastMarker()
	if len(b.templateModes) > 0 {
		b.templateModes = b.templateModes[:len(b.templateModes)-1]
	}
	b.resetInsertionModeAppropriately()
	return false, b.mode, nil
}

func (b *Builder) inHeadNoscriptMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.DOCTYPE:
		b.parseError("doctype in head-noscript", t)
		return false, InHeadNoscript, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return b.inHeadMode(t)
		case "head", "noscript":
			b.parseError("nested head/noscript", t)
			return false, InHeadNoscript, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "noscript":
			b.openElements.Pop()
			return false, InHead, nil
		case "br":
			b.openElements.Pop()
			return true, InHead, nil
		default:
			b.parseError("unexpected end tag in head-noscript", t)
			return false, InHeadNoscript, nil
		}
	case token.Character:
		if isWhitespace(t.Data) {
			return b.inHeadMode(t)
		}
	case token.Comment:
		return b.inHeadMode(t)
	}
	b.parseError("unexpected token in head-noscript", t)
	b.openElements.Pop()
	return true, InHead, nil
}

func (b *Builder) afterHeadMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			b.insertCharacter(t.Data)
			return false, AfterHead, nil
		}
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, AfterHead, nil
	case token.DOCTYPE:
		b.parseError("doctype after head", t)
		return false, AfterHead, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "body":
			body := b.insertHTMLElement(t)
			if b.Document.BodyElement == nil {
				b.Document.BodyElement = body
			}
			b.framesetOK = false
			return false, InBody, nil
		case "frameset":
			b.insertHTMLElement(t)
			return false, InFrameset, nil
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
			"style", "template", "title":
			b.parseError("head element after head", t)
			b.openElements.Push(b.headElement)
			reprocess, mode, err := b.inHeadMode(t)
			b.openElements.RemoveNode(b.headElement)
			return reprocess, mode, err
		case "head":
			b.parseError("nested head", t)
			return false, AfterHead, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "template":
			return b.inHeadMode(t)
		case "body", "html", "br":
		default:
			b.parseError("unexpected end tag after head", t)
			return false, AfterHead, nil
		}
	}
	bodyTok := token.Token{Type: token.StartTag, TagName: "body"}
	body := b.insertHTMLElement(bodyTok)
	if b.Document.BodyElement == nil {
		b.Document.BodyElement = body
	}
	return true, InBody, nil
}

func (b *Builder) closeImpliedListItems(tag string) {
	switch tag {
	case "li":
		if b.openElements.InListItemScope("li") {
			b.generateImpliedEndTags("li")
			b.openElements.PopUntilName("li")
		}
	case "dd", "dt":
		for _, name := range []string{"dd", "dt"} {
			if b.openElements.InScope(name) {
				b.generateImpliedEndTags(name)
				b.openElements.PopUntilName(name)
			}
		}
	}
}

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

// inBodyMode implements https://html.spec.whatwg.org/#parsing-main-inbody,
// the bulk of tree construction.
func (b *Builder) inBodyMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if t.Data == "\x00" {
			b.parseError("null character in body", t)
			return false, InBody, nil
		}
		b.reconstructActiveFormattingElements()
		b.insertCharacter(t.Data)
		if !isWhitespace(t.Data) {
			b.framesetOK = false
		}
		return false, InBody, nil

	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, InBody, nil

	case token.DOCTYPE:
		b.parseError("doctype in body", t)
		return false, InBody, nil

	case token.EOF:
		if len(b.templateModes) > 0 {
			return b.inTemplateMode(t)
		}
		return false, InBody, nil

	case token.StartTag:
		return b.inBodyStartTag(t)

	case token.EndTag:
		return b.inBodyEndTag(t)
	}
	return false, InBody, nil
}

func (b *Builder) inBodyStartTag(t token.Token) (bool, Mode, error) {
	switch t.TagName {
	case "html":
		b.parseError("nested html", t)
		if htmlEl := b.openElements[0]; htmlEl != nil {
			for _, a := range t.Attributes {
				htmlEl.SetAttribute(a.Name, a.Value)
			}
		}
		return false, InBody, nil

	case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
		"style", "template", "title":
		return b.inHeadMode(t)

	case "body":
		b.parseError("nested body", t)
		return false, InBody, nil

	case "frameset":
		b.parseError("frameset after body content", t)
		return false, InBody, nil

	case "address", "article", "aside", "blockquote", "center", "details",
		"dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
		"footer", "header", "hgroup", "main", "menu", "nav", "ol", "p",
		"section", "summary", "ul":
		b.closePElementIfInButtonScope()
		b.insertHTMLElement(t)
		return false, InBody, nil

	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.closePElementIfInButtonScope()
		if headingTags[b.CurrentNode().NodeName] {
			b.parseError("nested heading", t)
			b.openElements.Pop()
		}
		b.insertHTMLElement(t)
		return false, InBody, nil

	case "pre", "listing":
		b.closePElementIfInButtonScope()
		b.insertHTMLElement(t)
		b.framesetOK = false
		return false, InBody, nil

	case "form":
		if b.formElement != nil && !b.openElements.Contains("template") {
			b.parseError("nested form", t)
			return false, InBody, nil
		}
		b.closePElementIfInButtonScope()
		elem := b.insertHTMLElement(t)
		if !b.openElements.Contains("template") {
			b.formElement = elem
		}
		return false, InBody, nil

	case "li":
		b.framesetOK = false
		b.closeImpliedListItems("li")
		b.closePElementIfInButtonScope()
		b.insertHTMLElement(t)
		return false, InBody, nil

	case "dd", "dt":
		b.framesetOK = false
		b.closeImpliedListItems(t.TagName)
		b.closePElementIfInButtonScope()
		b.insertHTMLElement(t)
		return false, InBody, nil

	case "plaintext":
		b.closePElementIfInButtonScope()
		b.insertHTMLElement(t)
		st := tokenizer.PlaintextState
		b.forceTokenizerState = &st
		return false, InBody, nil

	case "button":
		if b.openElements.InScope("button") {
			b.parseError("nested button", t)
			b.generateImpliedEndTags("")
			b.openElements.PopUntilName("button")
		}
		b.reconstructActiveFormattingElements()
		b.insertHTMLElement(t)
		b.framesetOK = false
		return false, InBody, nil

	case "a":
		for i := len(b.afe) - 1; i >= 0; i-- {
			if b.afe[i] == dom.ScopeMarker {
				break
			}
			if b.afe[i].NodeName == "a" {
				b.parseError("nested a", t)
				b.adoptionAgency("a")
				b.openElements.RemoveNode(b.afe[i])
				b.afe.RemoveNode(b.afe[i])
				break
			}
		}
		b.reconstructActiveFormattingElements()
		elem := b.insertHTMLElement(t)
		b.afe.PushFormatting(elem)
		return false, InBody, nil

	case "b", "big", "code", "em", "font", "i", "s", "small", "strike",
		"strong", "tt", "u":
		b.reconstructActiveFormattingElements()
		elem := b.insertHTMLElement(t)
		b.afe.PushFormatting(elem)
		return false, InBody, nil

	case "nobr":
		b.reconstructActiveFormattingElements()
		if b.openElements.InScope("nobr") {
			b.parseError("nested nobr", t)
			b.adoptionAgency("nobr")
			b.reconstructActiveFormattingElements()
		}
		elem := b.insertHTMLElement(t)
		b.afe.PushFormatting(elem)
		return false, InBody, nil

	case "applet", "marquee", "object":
		b.reconstructActiveFormattingElements()
		b.insertHTMLElement(t)
		b.afe.Push(dom.ScopeMarker)
		b.framesetOK = false
		return false, InBody, nil

	case "table":
		if b.Document.QuirksMode != "quirks" {
			b.closePElementIfInButtonScope()
		}
		b.insertHTMLElement(t)
		b.framesetOK = false
		return false, InTable, nil

	case "area", "br", "embed", "img", "keygen", "wbr":
		b.reconstructActiveFormattingElements()
		b.insertAndPopVoid(t)
		b.framesetOK = false
		return false, InBody, nil

	case "input":
		b.reconstructActiveFormattingElements()
		b.insertAndPopVoid(t)
		if typ, ok := t.Attr("type"); !ok || typ != "hidden" {
			b.framesetOK = false
		}
		return false, InBody, nil

	case "param", "source", "track":
		b.insertAndPopVoid(t)
		return false, InBody, nil

	case "hr":
		b.closePElementIfInButtonScope()
		b.insertAndPopVoid(t)
		b.framesetOK = false
		return false, InBody, nil

	case "image":
		b.parseError("image treated as img", t)
		t.TagName = "img"
		return true, InBody, nil

	case "textarea":
		elem := b.insertHTMLElement(t)
		st := tokenizer.RCDataState
		b.forceTokenizerState = &st
		_ = elem
		b.originalMode = InBody
		b.framesetOK = false
		return false, Text, nil

	case "xmp":
		b.closePElementIfInButtonScope()
		b.reconstructActiveFormattingElements()
		b.framesetOK = false
		b.genericTextParsing(t, tokenizer.RawTextState)
		return false, Text, nil

	case "iframe":
		b.framesetOK = false
		b.genericTextParsing(t, tokenizer.RawTextState)
		return false, Text, nil

	case "noembed":
		b.genericTextParsing(t, tokenizer.RawTextState)
		return false, Text, nil

	case "select":
		b.reconstructActiveFormattingElements()
		b.insertHTMLElement(t)
		b.framesetOK = false
		switch b.mode {
		case InTable, InCaption, InTableBody, InRow, InCell:
			return false, InSelectInTable, nil
		default:
			return false, InSelect, nil
		}

	case "optgroup", "option":
		if b.CurrentNode() != nil && b.CurrentNode().NodeName == "option" {
			b.openElements.Pop()
		}
		b.reconstructActiveFormattingElements()
		b.insertHTMLElement(t)
		return false, InBody, nil

	case "rb", "rtc":
		if b.openElements.InScope("ruby") {
			b.generateImpliedEndTags("")
		}
		b.insertHTMLElement(t)
		return false, InBody, nil

	case "rp", "rt":
		if b.openElements.InScope("ruby") {
			b.generateImpliedEndTags("rtc")
		}
		b.insertHTMLElement(t)
		return false, InBody, nil

	case "math", "svg":
		b.reconstructActiveFormattingElements()
		ns := dom.MathMLNS
		if t.TagName == "svg" {
			ns = dom.SVGNS
		}
		elem := b.insertForeignElement(t, ns)
		if t.SelfClosing {
			b.openElements.RemoveNode(elem)
		}
		return false, InBody, nil

	case "caption", "col", "colgroup", "frame", "head", "tbody", "td",
		"tfoot", "th", "thead", "tr":
		b.parseError("stray table-context start tag in body", t)
		return false, InBody, nil

	default:
		b.reconstructActiveFormattingElements()
		b.insertHTMLElement(t)
		return false, InBody, nil
	}
}

func (b *Builder) inBodyEndTag(t token.Token) (bool, Mode, error) {
	switch t.TagName {
	case "template":
		return b.inHeadMode(t)

	case "body":
		if !b.openElements.InScope("body") {
			b.parseError("end body without matching scope", t)
			return false, InBody, nil
		}
		return false, AfterBody, nil

	case "html":
		if !b.openElements.InScope("body") {
			b.parseError("end html without matching scope", t)
			return false, InBody, nil
		}
		return true, AfterBody, nil

	case "address", "article", "aside", "blockquote", "button", "center",
		"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption",
		"figure", "footer", "header", "hgroup", "listing", "main", "menu",
		"nav", "ol", "pre", "section", "summary", "ul":
		if !b.openElements.InScope(t.TagName) {
			b.parseError("end tag without matching scope", t)
			return false, InBody, nil
		}
		b.generateImpliedEndTags("")
		if cur := b.CurrentNode(); cur == nil || cur.NodeName != t.TagName {
			b.parseError("end tag does not match current node", t)
		}
		b.openElements.PopUntilName(t.TagName)
		return false, InBody, nil

	case "form":
		if !b.openElements.Contains("template") {
			node := b.formElement
			b.formElement = nil
			if node == nil || !b.openElements.InScope("form") {
				b.parseError("end form without matching scope", t)
				return false, InBody, nil
			}
			b.generateImpliedEndTags("")
			b.openElements.RemoveNode(node)
			return false, InBody, nil
		}
		if !b.openElements.InScope("form") {
			b.parseError("end form without matching scope", t)
			return false, InBody, nil
		}
		b.generateImpliedEndTags("")
		if cur := b.CurrentNode(); cur == nil || cur.NodeName != "form" {
			b.parseError("end tag does not match current node", t)
		}
		b.openElements.PopUntilName("form")
		return false, InBody, nil

	case "p":
		if !b.openElements.InButtonScope("p") {
			b.parseError("end p without an open p", t)
			b.insertHTMLElement(token.Token{Type: token.StartTag, TagName: "p"})
		}
		b.closePElement()
		return false, InBody, nil

	case "li":
		if !b.openElements.InListItemScope("li") {
			b.parseError("end li without matching scope", t)
			return false, InBody, nil
		}
		b.generateImpliedEndTags("li")
		if cur := b.CurrentNode(); cur == nil || cur.NodeName != "li" {
			b.parseError("end tag does not match current node", t)
		}
		b.openElements.PopUntilName("li")
		return false, InBody, nil

	case "dd", "dt":
		if !b.openElements.InScope(t.TagName) {
			b.parseError("end tag without matching scope", t)
			return false, InBody, nil
		}
		b.generateImpliedEndTags(t.TagName)
		if cur := b.CurrentNode(); cur == nil || cur.NodeName != t.TagName {
			b.parseError("end tag does not match current node", t)
		}
		b.openElements.PopUntilName(t.TagName)
		return false, InBody, nil

	case "h1", "h2", "h3", "h4", "h5", "h6":
		anyHeadingInScope := false
		for name := range headingTags {
			if b.openElements.InScope(name) {
				anyHeadingInScope = true
				break
			}
		}
		if !anyHeadingInScope {
			b.parseError("end heading without matching scope", t)
			return false, InBody, nil
		}
		b.generateImpliedEndTags("")
		if cur := b.CurrentNode(); cur == nil || cur.NodeName != t.TagName {
			b.parseError("end tag does not match current node", t)
		}
		for {
			n := b.openElements.Pop()
			if n == nil || headingTags[n.NodeName] {
				break
			}
		}
		return false, InBody, nil

	case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small",
		"strike", "strong", "tt", "u":
		b.adoptionAgency(t.TagName)
		return false, InBody, nil

	case "applet", "marquee", "object":
		if !b.openElements.InScope(t.TagName) {
			b.parseError("end tag without matching scope", t)
			return false, InBody, nil
		}
		b.generateImpliedEndTags("")
		if cur := b.CurrentNode(); cur == nil || cur.NodeName != t.TagName {
			b.parseError("end tag does not match current node", t)
		}
		b.openElements.PopUntilName(t.TagName)
		b.afe.ClearFormattingToLastMarker()
		return false, InBody, nil

	case "br":
		b.parseError("end br treated as start tag", t)
		b.reconstructActiveFormattingElements()
		b.insertAndPopVoid(token.Token{Type: token.StartTag, TagName: "br"})
		b.framesetOK = false
		return false, InBody, nil

	default:
		b.anyOtherEndTag(t.TagName)
		return false, InBody, nil
	}
}

// textMode implements https://html.spec.whatwg.org/#parsing-main-incdata.
func (b *Builder) textMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		b.insertCharacter(t.Data)
		return false, Text, nil
	case token.EOF:
		b.parseError("eof in text mode", t)
		b.openElements.Pop()
		return true, b.originalMode, nil
	case token.EndTag:
		if t.TagName == "script" {
			b.openElements.Pop()
			return false, b.originalMode, nil
		}
		b.openElements.Pop()
		return false, b.originalMode, nil
	}
	return false, Text, nil
}

func (b *Builder) clearTheStackBackToTableContext(names ...string) {
	for {
		cur := b.CurrentNode()
		if cur == nil {
			return
		}
		for _, n := range names {
			if cur.NodeName == n {
				return
			}
		}
		b.openElements.Pop()
	}
}

// inTableMode implements https://html.spec.whatwg.org/#the-in-table-insertion-mode.
func (b *Builder) inTableMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		switch b.CurrentNode().NodeName {
		case "table", "tbody", "tfoot", "thead", "tr":
			b.pendingTableChars = nil
			b.pendingTableCharsNonSpace = false
			b.originalMode = b.mode
			return true, InTableText, nil
		}
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, InTable, nil
	case token.DOCTYPE:
		b.parseError("doctype in table", t)
		return false, InTable, nil
	case token.StartTag:
		switch t.TagName {
		case "caption":
			b.clearTheStackBackToTableContext("table", "template", "html")
			b.afe.Push(dom.ScopeMarker)
			b.insertHTMLElement(t)
			return false, InCaption, nil
		case "colgroup":
			b.clearTheStackBackToTableContext("table", "template", "html")
			b.insertHTMLElement(t)
			return false, InColumnGroup, nil
		case "col":
			b.clearTheStackBackToTableContext("table", "template", "html")
			colgroupTok := token.Token{Type: token.StartTag, TagName: "colgroup"}
			b.insertHTMLElement(colgroupTok)
			return true, InColumnGroup, nil
		case "tbody", "tfoot", "thead":
			b.clearTheStackBackToTableContext("table", "template", "html")
			b.insertHTMLElement(t)
			return false, InTableBody, nil
		case "td", "th", "tr":
			b.clearTheStackBackToTableContext("table", "template", "html")
			tbodyTok := token.Token{Type: token.StartTag, TagName: "tbody"}
			b.insertHTMLElement(tbodyTok)
			return true, InTableBody, nil
		case "table":
			b.parseError("nested table", t)
			if !b.openElements.InTableScope("table") {
				return false, InTable, nil
			}
			b.openElements.PopUntilName("table")
			b.resetInsertionModeAppropriately()
			return true, b.mode, nil
		case "style", "script", "template":
			return b.inHeadMode(t)
		case "input":
			if typ, ok := t.Attr("type"); ok && typ == "hidden" {
				b.parseError("hidden input in table", t)
				b.insertAndPopVoid(t)
				return false, InTable, nil
			}
		case "form":
			if b.formElement == nil && !b.openElements.Contains("template") {
				b.parseError("form in table", t)
				b.formElement = b.insertHTMLElement(t)
				b.openElements.Pop()
			}
			return false, InTable, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "table":
			if !b.openElements.InTableScope("table") {
				b.parseError("end table without matching scope", t)
				return false, InTable, nil
			}
			b.openElements.PopUntilName("table")
			b.resetInsertionModeAppropriately()
			return false, b.mode, nil
		case "body", "caption", "col", "colgroup", "html", "tbody", "td",
			"tfoot", "th", "thead", "tr":
			b.parseError("stray end tag in table", t)
			return false, InTable, nil
		case "template":
			return b.inHeadMode(t)
		}
	case token.EOF:
		return b.inBodyMode(t)
	}
	b.parseError("foster-parented content in table", t)
	return b.inBodyModeFosterParented(t)
}

// inBodyModeFosterParented runs the InBody "anything else" handling for
// content that appears directly in a table context: the char/other-token
// handling is identical to InBody, with inserts automatically foster
// parented by appropriatePlace/fosterParentingNeeded.
func (b *Builder) inBodyModeFosterParented(t token.Token) (bool, Mode, error) {
	savedMode := b.mode
	b.mode = InBody
	reprocess, _, err := b.dispatch(InBody, t)
	b.mode = savedMode
	return reprocess, InTable, err
}

// inTableTextMode implements https://html.spec.whatwg.org/#the-in-table-text-insertion-mode.
func (b *Builder) inTableTextMode(t token.Token) (bool, Mode, error) {
	if t.Type == token.Character {
		if t.Data == "\x00" {
			b.parseError("null character in table text", t)
			return false, InTableText, nil
		}
		b.pendingTableChars = append(b.pendingTableChars, t.Data)
		if !isWhitespace(t.Data) {
			b.pendingTableCharsNonSpace = true
		}
		return false, InTableText, nil
	}
	if b.pendingTableCharsNonSpace {
		for _, c := range b.pendingTableChars {
			b.parseError("non-whitespace character in table", t)
			reprocess, _, err := b.inBodyModeFosterParented(token.Token{Type: token.Character, Data: c})
			_ = reprocess
			if err != nil {
				return false, InTableText, err
			}
		}
	} else {
		for _, c := range b.pendingTableChars {
			b.insertCharacter(c)
		}
	}
	b.pendingTableChars = nil
	return true, b.originalMode, nil
}

// inCaptionMode implements https://html.spec.whatwg.org/#the-in-caption-insertion-mode.
func (b *Builder) inCaptionMode(t token.Token) (bool, Mode, error) {
	closeCaption := func() bool {
		if !b.openElements.InTableScope("caption") {
			b.parseError("end caption without matching scope", t)
			return false
		}
		b.generateImpliedEndTags("")
		if cur := b.CurrentNode(); cur == nil || cur.NodeName != "caption" {
			b.parseError("end tag does not match current node", t)
		}
		b.openElements.PopUntilName("caption")
		b.afe.ClearFormattingToLastMarker()
		return true
	}
	switch t.Type {
	case token.StartTag:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th",
			"thead", "tr":
			if closeCaption() {
				return true, InTable, nil
			}
			return false, InCaption, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "caption":
			closeCaption()
			return false, InTable, nil
		case "table":
			if closeCaption() {
				return true, InTable, nil
			}
			return false, InCaption, nil
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot",
			"th", "thead", "tr":
			b.parseError("stray end tag in caption", t)
			return false, InCaption, nil
		}
	}
	return b.inBodyMode(t)
}

// inColumnGroupMode implements https://html.spec.whatwg.org/#the-in-column-group-insertion-mode.
func (b *Builder) inColumnGroupMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			b.insertCharacter(t.Data)
			return false, InColumnGroup, nil
		}
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, InColumnGroup, nil
	case token.DOCTYPE:
		b.parseError("doctype in column group", t)
		return false, InColumnGroup, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "col":
			b.insertAndPopVoid(t)
			return false, InColumnGroup, nil
		case "template":
			return b.inHeadMode(t)
		}
	case token.EndTag:
		switch t.TagName {
		case "colgroup":
			if b.CurrentNode() == nil || b.CurrentNode().NodeName != "colgroup" {
				b.parseError("end colgroup without matching start", t)
				return false, InColumnGroup, nil
			}
			b.openElements.Pop()
			return false, InTable, nil
		case "col":
			b.parseError("stray end col", t)
			return false, InColumnGroup, nil
		case "template":
			return b.inHeadMode(t)
		}
	case token.EOF:
		return b.inBodyMode(t)
	}
	if b.CurrentNode() == nil || b.CurrentNode().NodeName != "colgroup" {
		b.parseError("stray token in column group", t)
		return false, InColumnGroup, nil
	}
	b.openElements.Pop()
	return true, InTable, nil
}

// inTableBodyMode implements https://html.spec.whatwg.org/#the-in-table-body-insertion-mode.
func (b *Builder) inTableBodyMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.StartTag:
		switch t.TagName {
		case "tr":
			b.clearTheStackBackToTableContext("tbody", "tfoot", "thead", "template", "html")
			b.insertHTMLElement(t)
			return false, InRow, nil
		case "th", "td":
			b.parseError("td/th without enclosing tr", t)
			b.clearTheStackBackToTableContext("tbody", "tfoot", "thead", "template", "html")
			trTok := token.Token{Type: token.StartTag, TagName: "tr"}
			b.insertHTMLElement(trTok)
			return true, InRow, nil
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !b.openElements.InTableScope("tbody") && !b.openElements.InTableScope("thead") &&
				!b.openElements.InTableScope("tfoot") {
				b.parseError("stray table-section tag", t)
				return false, InTableBody, nil
			}
			b.clearTheStackBackToTableContext("tbody", "tfoot", "thead", "template", "html")
			b.openElements.Pop()
			return true, InTable, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "tbody", "tfoot", "thead":
			if !b.openElements.InTableScope(t.TagName) {
				b.parseError("stray end table-section tag", t)
				return false, InTableBody, nil
			}
			b.clearTheStackBackToTableContext("tbody", "tfoot", "thead", "template", "html")
			b.openElements.Pop()
			return false, InTable, nil
		case "table":
			if !b.openElements.InTableScope("tbody") && !b.openElements.InTableScope("thead") &&
				!b.openElements.InTableScope("tfoot") {
				b.parseError("stray end table tag", t)
				return false, InTableBody, nil
			}
			b.clearTheStackBackToTableContext("tbody", "tfoot", "thead", "template", "html")
			b.openElements.Pop()
			return true, InTable, nil
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			b.parseError("stray end tag in table body", t)
			return false, InTableBody, nil
		}
	}
	return b.inTableMode(t)
}

// inRowMode implements https://html.spec.whatwg.org/#the-in-row-insertion-mode.
func (b *Builder) inRowMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.StartTag:
		switch t.TagName {
		case "th", "td":
			b.clearTheStackBackToTableContext("tr", "template", "html")
			b.insertHTMLElement(t)
			b.afe.Push(dom.ScopeMarker)
			return false, InCell, nil
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !b.openElements.InTableScope("tr") {
				b.parseError("stray table tag in row", t)
				return false, InRow, nil
			}
			b.clearTheStackBackToTableContext("tr", "template", "html")
			b.openElements.Pop()
			return true, InTableBody, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "tr":
			if !b.openElements.InTableScope("tr") {
				b.parseError("stray end tr", t)
				return false, InRow, nil
			}
			b.clearTheStackBackToTableContext("tr", "template", "html")
			b.openElements.Pop()
			return false, InTableBody, nil
		case "table":
			if !b.openElements.InTableScope("tr") {
				b.parseError("stray end table in row", t)
				return false, InRow, nil
			}
			b.clearTheStackBackToTableContext("tr", "template", "html")
			b.openElements.Pop()
			return true, InTableBody, nil
		case "tbody", "tfoot", "thead":
			if !b.openElements.InTableScope(t.TagName) || !b.openElements.InTableScope("tr") {
				b.parseError("stray end table-section in row", t)
				return false, InRow, nil
			}
			b.clearTheStackBackToTableContext("tr", "template", "html")
			b.openElements.Pop()
			return true, InTableBody, nil
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			b.parseError("stray end tag in row", t)
			return false, InRow, nil
		}
	}
	return b.inTableMode(t)
}

// inCellMode implements https://html.spec.whatwg.org/#the-in-cell-insertion-mode.
func (b *Builder) inCellMode(t token.Token) (bool, Mode, error) {
	closeCell := func() {
		b.generateImpliedEndTags("")
		b.openElements.PopUntilName("td", "th")
		b.afe.ClearFormattingToLastMarker()
	}
	switch t.Type {
	case token.StartTag:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th",
			"thead", "tr":
			if !b.openElements.InTableScope("td") && !b.openElements.InTableScope("th") {
				b.parseError("stray table tag in cell", t)
				return false, InCell, nil
			}
			closeCell()
			return true, InRow, nil
		}
	case token.EndTag:
		switch t.TagName {
		case "td", "th":
			if !b.openElements.InTableScope(t.TagName) {
				b.parseError("stray end cell tag", t)
				return false, InCell, nil
			}
			b.generateImpliedEndTags("")
			if cur := b.CurrentNode(); cur == nil || cur.NodeName != t.TagName {
				b.parseError("end tag does not match current node", t)
			}
			b.openElements.PopUntilName(t.TagName)
			b.afe.ClearFormattingToLastMarker()
			return false, InRow, nil
		case "body", "caption", "col", "colgroup", "html":
			b.parseError("stray end tag in cell", t)
			return false, InCell, nil
		case "table", "tbody", "tfoot", "thead", "tr":
			if !b.openElements.InTableScope(t.TagName) {
				b.parseError("stray end tag in cell", t)
				return false, InCell, nil
			}
			closeCell()
			return true, InRow, nil
		}
	}
	return b.inBodyMode(t)
}

// inSelectMode implements https://html.spec.whatwg.org/#the-in-select-insertion-mode.
func (b *Builder) inSelectMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if t.Data == "\x00" {
			b.parseError("null character in select", t)
			return false, InSelect, nil
		}
		b.insertCharacter(t.Data)
		return false, InSelect, nil
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, InSelect, nil
	case token.DOCTYPE:
		b.parseError("doctype in select", t)
		return false, InSelect, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "option":
			if b.CurrentNode() != nil && b.CurrentNode().NodeName == "option" {
				b.openElements.Pop()
			}
			b.insertHTMLElement(t)
			return false, InSelect, nil
		case "optgroup":
			if b.CurrentNode() != nil && b.CurrentNode().NodeName == "option" {
				b.openElements.Pop()
			}
			if b.CurrentNode() != nil && b.CurrentNode().NodeName == "optgroup" {
				b.openElements.Pop()
			}
			b.insertHTMLElement(t)
			return false, InSelect, nil
		case "select":
			b.parseError("nested select treated as end select", t)
			if !b.openElements.InSelectScope("select") {
				return false, InSelect, nil
			}
			b.openElements.PopUntilName("select")
			b.resetInsertionModeAppropriately()
			return false, b.mode, nil
		case "input", "keygen", "textarea":
			b.parseError("form control in select", t)
			if !b.openElements.InSelectScope("select") {
				return false, InSelect, nil
			}
			b.openElements.PopUntilName("select")
			b.resetInsertionModeAppropriately()
			return true, b.mode, nil
		case "script", "template":
			return b.inHeadMode(t)
		}
	case token.EndTag:
		switch t.TagName {
		case "optgroup":
			cur := b.CurrentNode()
			if cur != nil && cur.NodeName == "option" && len(b.openElements) > 1 &&
				b.openElements[len(b.openElements)-2].NodeName == "optgroup" {
				b.openElements.Pop()
			}
			if b.CurrentNode() != nil && b.CurrentNode().NodeName == "optgroup" {
				b.openElements.Pop()
			} else {
				b.parseError("stray end optgroup", t)
			}
			return false, InSelect, nil
		case "option":
			if b.CurrentNode() != nil && b.CurrentNode().NodeName == "option" {
				b.openElements.Pop()
			} else {
				b.parseError("stray end option", t)
			}
			return false, InSelect, nil
		case "select":
			if !b.openElements.InSelectScope("select") {
				b.parseError("stray end select", t)
				return false, InSelect, nil
			}
			b.openElements.PopUntilName("select")
			b.resetInsertionModeAppropriately()
			return false, b.mode, nil
		case "template":
			return b.inHeadMode(t)
		}
	case token.EOF:
		return b.inBodyMode(t)
	}
	b.parseError("unexpected token in select", t)
	return false, InSelect, nil
}

func (b *Builder) inSelectInTableMode(t token.Token) (bool, Mode, error) {
	if t.Type == token.StartTag {
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			b.parseError("table context start tag in select", t)
			b.openElements.PopUntilName("select")
			b.resetInsertionModeAppropriately()
			return true, b.mode, nil
		}
	}
	if t.Type == token.EndTag {
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			b.parseError("table context end tag in select", t)
			if !b.openElements.InTableScope(t.TagName) {
				return false, InSelectInTable, nil
			}
			b.openElements.PopUntilName("select")
			b.resetInsertionModeAppropriately()
			return true, b.mode, nil
		}
	}
	return b.inSelectMode(t)
}

// inTemplateMode implements https://html.spec.whatwg.org/#the-in-template-insertion-mode.
func (b *Builder) inTemplateMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character, token.Comment, token.DOCTYPE:
		return b.inBodyMode(t)
	case token.StartTag:
		switch t.TagName {
		case "base", "basefont", "bgsound", "link", "meta", "noframes",
			"script", "style", "template", "title":
			return b.inHeadMode(t)
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			b.templateModes[len(b.templateModes)-1] = InTable
			b.mode = InTable
			return true, InTable, nil
		case "col":
			b.templateModes[len(b.templateModes)-1] = InColumnGroup
			b.mode = InColumnGroup
			return true, InColumnGroup, nil
		case "tr":
			b.templateModes[len(b.templateModes)-1] = InTableBody
			b.mode = InTableBody
			return true, InTableBody, nil
		case "td", "th":
			b.templateModes[len(b.templateModes)-1] = InRow
			b.mode = InRow
			return true, InRow, nil
		default:
			b.templateModes[len(b.templateModes)-1] = InBody
			b.mode = InBody
			return true, InBody, nil
		}
	case token.EndTag:
		if t.TagName == "template" {
			return b.inHeadMode(t)
		}
		b.parseError("stray end tag in template", t)
		return false, InTemplate, nil
	case token.EOF:
		if !b.openElements.Contains("template") {
			b.stopParsing()
			return false, InTemplate, nil
		}
		b.parseError("eof inside template", t)
		b.openElements.PopUntilName("template")
		b.afe.ClearFormattingToLastMarker()
		if len(b.templateModes) > 0 {
			b.templateModes = b.templateModes[:len(b.templateModes)-1]
		}
		b.resetInsertionModeAppropriately()
		return true, b.mode, nil
	}
	return false, InTemplate, nil
}

func (b *Builder) afterBodyMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			return b.inBodyMode(t)
		}
	case token.Comment:
		b.insertComment(t.Data, b.openElements[0])
		return false, AfterBody, nil
	case token.DOCTYPE:
		b.parseError("doctype after body", t)
		return false, AfterBody, nil
	case token.StartTag:
		if t.TagName == "html" {
			return b.inBodyMode(t)
		}
	case token.EndTag:
		if t.TagName == "html" {
			return false, AfterAfterBody, nil
		}
	case token.EOF:
		b.stopParsing()
		return false, AfterBody, nil
	}
	b.parseError("unexpected token after body", t)
	return true, InBody, nil
}

func (b *Builder) inFramesetMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			b.insertCharacter(t.Data)
			return false, InFrameset, nil
		}
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, InFrameset, nil
	case token.DOCTYPE:
		b.parseError("doctype in frameset", t)
		return false, InFrameset, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "frameset":
			b.insertHTMLElement(t)
			return false, InFrameset, nil
		case "frame":
			b.insertAndPopVoid(t)
			return false, InFrameset, nil
		case "noframes":
			return b.inHeadMode(t)
		}
	case token.EndTag:
		if t.TagName == "frameset" {
			if len(b.openElements) == 1 {
				b.parseError("end frameset at root", t)
				return false, InFrameset, nil
			}
			b.openElements.Pop()
			if b.CurrentNode() != nil && b.CurrentNode().NodeName != "frameset" {
				return false, AfterFrameset, nil
			}
			return false, InFrameset, nil
		}
	case token.EOF:
		b.stopParsing()
		return false, InFrameset, nil
	}
	b.parseError("unexpected token in frameset", t)
	return false, InFrameset, nil
}

func (b *Builder) afterFramesetMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Character:
		if isWhitespace(t.Data) {
			b.insertCharacter(t.Data)
			return false, AfterFrameset, nil
		}
	case token.Comment:
		b.insertComment(t.Data, nil)
		return false, AfterFrameset, nil
	case token.DOCTYPE:
		b.parseError("doctype after frameset", t)
		return false, AfterFrameset, nil
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "noframes":
			return b.inHeadMode(t)
		}
	case token.EndTag:
		if t.TagName == "html" {
			return false, AfterAfterFrameset, nil
		}
	case token.EOF:
		b.stopParsing()
		return false, AfterFrameset, nil
	}
	b.parseError("unexpected token after frameset", t)
	return false, AfterFrameset, nil
}

func (b *Builder) afterAfterBodyMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Comment:
		b.insertComment(t.Data, b.Document)
		return false, AfterAfterBody, nil
	case token.DOCTYPE:
		return b.inBodyMode(t)
	case token.Character:
		if isWhitespace(t.Data) {
			return b.inBodyMode(t)
		}
	case token.StartTag:
		if t.TagName == "html" {
			return b.inBodyMode(t)
		}
	case token.EOF:
		b.stopParsing()
		return false, AfterAfterBody, nil
	}
	b.parseError("unexpected token after html document", t)
	return true, InBody, nil
}

func (b *Builder) afterAfterFramesetMode(t token.Token) (bool, Mode, error) {
	switch t.Type {
	case token.Comment:
		b.insertComment(t.Data, b.Document)
		return false, AfterAfterFrameset, nil
	case token.DOCTYPE:
		return b.inBodyMode(t)
	case token.Character:
		if isWhitespace(t.Data) {
			return b.inBodyMode(t)
		}
	case token.StartTag:
		switch t.TagName {
		case "html":
			return b.inBodyMode(t)
		case "noframes":
			return b.inHeadMode(t)
		}
	case token.EOF:
		b.stopParsing()
		return false, AfterAfterFrameset, nil
	}
	b.parseError("unexpected token after frameset document", t)
	return false, AfterAfterFrameset, nil
}

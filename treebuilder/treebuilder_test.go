package treebuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/htmlparser/dom"
)

func parse(t *testing.T, html string) *dom.Node {
	t.Helper()
	b := New(true, nil)
	require.NoError(t, b.Run(strings.NewReader(html), nil))
	return b.Document
}

func findFirst(n *dom.Node, name string) *dom.Node {
	if n.NodeName == name && n.NodeType == dom.ElementNode {
		return n
	}
	for _, c := range n.ChildNodes {
		if found := findFirst(c, name); found != nil {
			return found
		}
	}
	return nil
}

func TestMinimalDocumentHasHeadAndBody(t *testing.T) {
	doc := parse(t, "<html><head></head><body></body></html>")
	html := findFirst(doc, "html")
	require.NotNil(t, html)
	assert.NotNil(t, findFirst(doc, "head"))
	assert.NotNil(t, findFirst(doc, "body"))
}

func TestBareTextImpliesHTMLHeadBody(t *testing.T) {
	doc := parse(t, "hello")
	body := findFirst(doc, "body")
	require.NotNil(t, body)
	require.NotNil(t, body.FirstChild)
	assert.Equal(t, dom.TextNode, body.FirstChild.NodeType)
	assert.Equal(t, "hello", body.FirstChild.Data)
}

func TestUnclosedPIsImplicitlyClosedByAnotherP(t *testing.T) {
	doc := parse(t, "<body><p>one<p>two</body>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)
	var ps []*dom.Node
	for _, c := range body.ChildNodes {
		if c.NodeName == "p" {
			ps = append(ps, c)
		}
	}
	require.Len(t, ps, 2)
	assert.Equal(t, "one", ps[0].FirstChild.Data)
	assert.Equal(t, "two", ps[1].FirstChild.Data)
}

func TestMisnestedFormattingElementsTriggerAdoptionAgency(t *testing.T) {
	doc := parse(t, "<body><b>1<i>2</b>3</i></body>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)
	assert.NotNil(t, findFirst(body, "b"))
	assert.NotNil(t, findFirst(body, "i"))
}

func TestTableTextIsFosterParentedOutOfTable(t *testing.T) {
	doc := parse(t, "<body><table>foo<tr><td>bar</td></tr></table></body>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)
	table := findFirst(body, "table")
	require.NotNil(t, table)
	// "foo" must land as a sibling before <table>, not as a child of it.
	var sawFosteredText bool
	for _, c := range body.ChildNodes {
		if c.NodeType == dom.TextNode && c.Data == "foo" {
			sawFosteredText = true
		}
	}
	assert.True(t, sawFosteredText, "expected foster-parented text sibling of <table>")
	td := findFirst(table, "td")
	require.NotNil(t, td)
	assert.Equal(t, "bar", td.FirstChild.Data)
}

func TestDoctypeSelectsQuirksMode(t *testing.T) {
	doc := parse(t, `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01 Frameset//EN">`)
	assert.Equal(t, "quirks", doc.QuirksMode)
}

func TestDoctypeHTML5IsNoQuirks(t *testing.T) {
	doc := parse(t, "<!DOCTYPE html><html></html>")
	assert.Equal(t, "no-quirks", doc.QuirksMode)
}

func TestSelectInsideOptgroupClosesPreviousOption(t *testing.T) {
	doc := parse(t, "<body><select><optgroup><option>a<option>b</optgroup></select></body>")
	optgroup := findFirst(doc, "optgroup")
	require.NotNil(t, optgroup)
	var options []*dom.Node
	for _, c := range optgroup.ChildNodes {
		if c.NodeName == "option" {
			options = append(options, c)
		}
	}
	assert.Len(t, options, 2)
}

func TestParseFragmentParsesAsContextContent(t *testing.T) {
	context := dom.NewElement(nil, "td", dom.HTMLNS)
	children, err := ParseFragment(context, strings.NewReader("hello <b>world</b>"), true, nil)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, dom.TextNode, children[0].NodeType)
	assert.Equal(t, "b", children[1].NodeName)
}

func TestCommentBeforeHTMLAttachesToDocument(t *testing.T) {
	doc := parse(t, "<!-- top --><html></html>")
	require.NotNil(t, doc.FirstChild)
	assert.Equal(t, dom.CommentNode, doc.FirstChild.NodeType)
	assert.Equal(t, " top ", doc.FirstChild.Data)
}

func TestQuirksDetectForceQuirks(t *testing.T) {
	assert.Equal(t, Quirks, Detect("html", "MISSING", "MISSING", true))
	assert.Equal(t, NoQuirks, Detect("html", "MISSING", "MISSING", false))
}

func TestDocumentHeadAndBodyPointers(t *testing.T) {
	doc := parse(t, "<html><head><title>t</title></head><body><p>hi</p></body></html>")
	head := doc.Head()
	require.NotNil(t, head)
	assert.Equal(t, "head", head.NodeName)
	body := doc.Body()
	require.NotNil(t, body)
	assert.Equal(t, "body", body.NodeName)
}

func TestDocumentHeadAndBodyPointersWithImpliedTags(t *testing.T) {
	doc := parse(t, "hello")
	require.NotNil(t, doc.Head())
	require.NotNil(t, doc.Body())
	assert.Equal(t, "hello", doc.Body().FirstChild.Data)
}

// Package treebuilder implements the WHATWG tree construction stage: a
// 23-mode insertion-mode dispatcher sitting on top of the tokenizer,
// mutating a dom.Node tree per the standard's tree construction section.
package treebuilder

// Mode identifies one of the 23 insertion modes.
type Mode uint8

const (
	Initial Mode = iota
	BeforeHTML
	BeforeHead
	InHead
	InHeadNoscript
	AfterHead
	InBody
	Text
	InTable
	InTableText
	InCaption
	InColumnGroup
	InTableBody
	InRow
	InCell
	InSelect
	InSelectInTable
	InTemplate
	AfterBody
	InFrameset
	AfterFrameset
	AfterAfterBody
	AfterAfterFrameset
)

var modeNames = [...]string{
	"initial", "before-html", "before-head", "in-head", "in-head-noscript",
	"after-head", "in-body", "text", "in-table", "in-table-text", "in-caption",
	"in-column-group", "in-table-body", "in-row", "in-cell", "in-select",
	"in-select-in-table", "in-template", "after-body", "in-frameset",
	"after-frameset", "after-after-body", "after-after-frameset",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "insertion-mode"
}

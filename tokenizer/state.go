package tokenizer

// State identifies one of the tokenizer's ~80 states. The tree builder can
// force a transition into RCDATA/RAWTEXT/PLAINTEXT/script-data states
// ahead of a start tag it just inserted (e.g. <title>, <textarea>,
// <script>), so State is exported and accepted back in via Progress.
type State uint8

const (
	DataState State = iota
	RCDataState
	RawTextState
	ScriptDataState
	PlaintextState
	tagOpenState
	endTagOpenState
	tagNameState
	rcDataLessThanSignState
	rcDataEndTagOpenState
	rcDataEndTagNameState
	rawTextLessThanSignState
	rawTextEndTagOpenState
	rawTextEndTagNameState
	scriptDataLessThanSignState
	scriptDataEndTagOpenState
	scriptDataEndTagNameState
	scriptDataEscapeStartState
	scriptDataEscapeStartDashState
	scriptDataEscapedState
	scriptDataEscapedDashState
	scriptDataEscapedDashDashState
	scriptDataEscapedLessThanSignState
	scriptDataEscapedEndTagOpenState
	scriptDataEscapedEndTagNameState
	scriptDataDoubleEscapeStartState
	scriptDataDoubleEscapedState
	scriptDataDoubleEscapedDashState
	scriptDataDoubleEscapedDashDashState
	scriptDataDoubleEscapedLessThanSignState
	scriptDataDoubleEscapeEndState
	beforeAttributeNameState
	attributeNameState
	afterAttributeNameState
	beforeAttributeValueState
	attributeValueDoubleQuotedState
	attributeValueSingleQuotedState
	attributeValueUnquotedState
	afterAttributeValueQuotedState
	selfClosingStartTagState
	bogusCommentState
	markupDeclarationOpenState
	commentStartState
	commentStartDashState
	commentState
	commentLessThanSignState
	commentLessThanSignBangState
	commentLessThanSignBangDashState
	commentLessThanSignBangDashDashState
	commentEndDashState
	commentEndState
	commentEndBangState
	doctypeState
	beforeDoctypeNameState
	doctypeNameState
	afterDoctypeNameState
	afterDoctypePublicKeywordState
	beforeDoctypePublicIdentifierState
	doctypePublicIdentifierDoubleQuotedState
	doctypePublicIdentifierSingleQuotedState
	afterDoctypePublicIdentifierState
	betweenDoctypePublicAndSystemIdentifiersState
	afterDoctypeSystemKeywordState
	beforeDoctypeSystemIdentifierState
	doctypeSystemIdentifierDoubleQuotedState
	doctypeSystemIdentifierSingleQuotedState
	afterDoctypeSystemIdentifierState
	bogusDoctypeState
	CDATASectionState
	cdataSectionBracketState
	cdataSectionEndState
	characterReferenceState
	namedCharacterReferenceState
	ambiguousAmpersandState
	numericCharacterReferenceState
	hexadecimalCharacterReferenceStartState
	decimalCharacterReferenceStartState
	hexadecimalCharacterReferenceState
	decimalCharacterReferenceState
	numericCharacterReferenceEndState
)

var stateNames = map[State]string{
	DataState: "data", RCDataState: "rcdata", RawTextState: "rawtext",
	ScriptDataState: "script-data", PlaintextState: "plaintext",
	tagOpenState: "tag-open", endTagOpenState: "end-tag-open", tagNameState: "tag-name",
	beforeAttributeNameState: "before-attribute-name", attributeNameState: "attribute-name",
	bogusCommentState: "bogus-comment", markupDeclarationOpenState: "markup-declaration-open",
	commentState: "comment", doctypeState: "doctype", CDATASectionState: "cdata-section",
	characterReferenceState: "character-reference",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "tokenizer-state"
}

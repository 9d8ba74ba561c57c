package tokenizer

import (
	"strings"

	"github.com/corvidlabs/htmlparser/charref"
	"github.com/corvidlabs/htmlparser/dom"
)

func (t *Tokenizer) dispatch(s State) handler {
	switch s {
	case DataState:
		return t.data
	case RCDataState:
		return t.rcdata
	case RawTextState:
		return t.rawtext
	case ScriptDataState:
		return t.scriptData
	case PlaintextState:
		return t.plaintext
	case tagOpenState:
		return t.tagOpen
	case endTagOpenState:
		return t.endTagOpen
	case tagNameState:
		return t.tagName
	case rcDataLessThanSignState:
		return t.rcDataLessThanSign
	case rcDataEndTagOpenState:
		return t.rcDataEndTagOpen
	case rcDataEndTagNameState:
		return t.rcDataEndTagName
	case rawTextLessThanSignState:
		return t.rawTextLessThanSign
	case rawTextEndTagOpenState:
		return t.rawTextEndTagOpen
	case rawTextEndTagNameState:
		return t.rawTextEndTagName
	case scriptDataLessThanSignState:
		return t.scriptDataLessThanSign
	case scriptDataEndTagOpenState:
		return t.scriptDataEndTagOpen
	case scriptDataEndTagNameState:
		return t.scriptDataEndTagName
	case scriptDataEscapeStartState:
		return t.scriptDataEscapeStart
	case scriptDataEscapeStartDashState:
		return t.scriptDataEscapeStartDash
	case scriptDataEscapedState:
		return t.scriptDataEscaped
	case scriptDataEscapedDashState:
		return t.scriptDataEscapedDash
	case scriptDataEscapedDashDashState:
		return t.scriptDataEscapedDashDash
	case scriptDataEscapedLessThanSignState:
		return t.scriptDataEscapedLessThanSign
	case scriptDataEscapedEndTagOpenState:
		return t.scriptDataEscapedEndTagOpen
	case scriptDataEscapedEndTagNameState:
		return t.scriptDataEscapedEndTagName
	case scriptDataDoubleEscapeStartState:
		return t.scriptDataDoubleEscapeStart
	case scriptDataDoubleEscapedState:
		return t.scriptDataDoubleEscaped
	case scriptDataDoubleEscapedDashState:
		return t.scriptDataDoubleEscapedDash
	case scriptDataDoubleEscapedDashDashState:
		return t.scriptDataDoubleEscapedDashDash
	case scriptDataDoubleEscapedLessThanSignState:
		return t.scriptDataDoubleEscapedLessThanSign
	case scriptDataDoubleEscapeEndState:
		return t.scriptDataDoubleEscapeEnd
	case beforeAttributeNameState:
		return t.beforeAttributeName
	case attributeNameState:
		return t.attributeName
	case afterAttributeNameState:
		return t.afterAttributeName
	case beforeAttributeValueState:
		return t.beforeAttributeValue
	case attributeValueDoubleQuotedState:
		return t.attributeValueDoubleQuoted
	case attributeValueSingleQuotedState:
		return t.attributeValueSingleQuoted
	case attributeValueUnquotedState:
		return t.attributeValueUnquoted
	case afterAttributeValueQuotedState:
		return t.afterAttributeValueQuoted
	case selfClosingStartTagState:
		return t.selfClosingStartTag
	case bogusCommentState:
		return t.bogusComment
	case markupDeclarationOpenState:
		return t.markupDeclarationOpen
	case commentStartState:
		return t.commentStart
	case commentStartDashState:
		return t.commentStartDash
	case commentState:
		return t.comment
	case commentLessThanSignState:
		return t.commentLessThanSign
	case commentLessThanSignBangState:
		return t.commentLessThanSignBang
	case commentLessThanSignBangDashState:
		return t.commentLessThanSignBangDash
	case commentLessThanSignBangDashDashState:
		return t.commentLessThanSignBangDashDash
	case commentEndDashState:
		return t.commentEndDash
	case commentEndState:
		return t.commentEnd
	case commentEndBangState:
		return t.commentEndBang
	case doctypeState:
		return t.doctype
	case beforeDoctypeNameState:
		return t.beforeDoctypeName
	case doctypeNameState:
		return t.doctypeName
	case afterDoctypeNameState:
		return t.afterDoctypeName
	case afterDoctypePublicKeywordState:
		return t.afterDoctypePublicKeyword
	case beforeDoctypePublicIdentifierState:
		return t.beforeDoctypePublicIdentifier
	case doctypePublicIdentifierDoubleQuotedState:
		return t.doctypePublicIdentifierDoubleQuoted
	case doctypePublicIdentifierSingleQuotedState:
		return t.doctypePublicIdentifierSingleQuoted
	case afterDoctypePublicIdentifierState:
		return t.afterDoctypePublicIdentifier
	case betweenDoctypePublicAndSystemIdentifiersState:
		return t.betweenDoctypePublicAndSystemIdentifiers
	case afterDoctypeSystemKeywordState:
		return t.afterDoctypeSystemKeyword
	case beforeDoctypeSystemIdentifierState:
		return t.beforeDoctypeSystemIdentifier
	case doctypeSystemIdentifierDoubleQuotedState:
		return t.doctypeSystemIdentifierDoubleQuoted
	case doctypeSystemIdentifierSingleQuotedState:
		return t.doctypeSystemIdentifierSingleQuoted
	case afterDoctypeSystemIdentifierState:
		return t.afterDoctypeSystemIdentifier
	case bogusDoctypeState:
		return t.bogusDoctype
	case CDATASectionState:
		return t.cdataSection
	case cdataSectionBracketState:
		return t.cdataSectionBracket
	case cdataSectionEndState:
		return t.cdataSectionEnd
	case characterReferenceState:
		return t.characterReference
	case namedCharacterReferenceState:
		return t.namedCharacterReference
	case ambiguousAmpersandState:
		return t.ambiguousAmpersand
	case numericCharacterReferenceState:
		return t.numericCharacterReference
	case hexadecimalCharacterReferenceStartState:
		return t.hexadecimalCharacterReferenceStart
	case decimalCharacterReferenceStartState:
		return t.decimalCharacterReferenceStart
	case hexadecimalCharacterReferenceState:
		return t.hexadecimalCharacterReference
	case decimalCharacterReferenceState:
		return t.decimalCharacterReference
	case numericCharacterReferenceEndState:
		return t.numericCharacterReferenceEnd
	}
	return t.data
}

func (t *Tokenizer) data(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '&':
		t.returnState = DataState
		return false, characterReferenceState
	case '<':
		return false, tagOpenState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, DataState
	}
}

func (t *Tokenizer) rcdata(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '&':
		t.returnState = RCDataState
		return false, characterReferenceState
	case '<':
		return false, rcDataLessThanSignState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, RCDataState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, RCDataState
	}
}

func (t *Tokenizer) rawtext(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '<':
		return false, rawTextLessThanSignState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, RawTextState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, RawTextState
	}
}

func (t *Tokenizer) scriptData(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '<':
		return false, scriptDataLessThanSignState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, ScriptDataState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, ScriptDataState
	}
}

func (t *Tokenizer) plaintext(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	if r == '\x00' {
		t.emit(t.b.CharacterToken('�'))
	} else {
		t.emit(t.b.CharacterToken(r))
	}
	return false, PlaintextState
}

func (t *Tokenizer) tagOpen(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CharacterToken('<'), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case r == '!':
		return false, markupDeclarationOpenState
	case r == '/':
		return false, endTagOpenState
	case isAlpha(r):
		t.b.Reset()
		t.b.SetTagType(false)
		return true, tagNameState
	case r == '?':
		t.b.Reset()
		return true, bogusCommentState
	default:
		t.emit(t.b.CharacterToken('<'))
		return true, DataState
	}
}

func (t *Tokenizer) endTagOpen(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CharacterToken('<'), t.b.CharacterToken('/'), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isAlpha(r):
		t.b.Reset()
		t.b.SetTagType(true)
		return true, tagNameState
	case r == '>':
		return false, DataState
	default:
		t.b.Reset()
		return true, bogusCommentState
	}
}

func (t *Tokenizer) tagName(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, t.emitCurrentTag()
	case isUpper(r):
		t.b.WriteName(toLower(r))
		return false, tagNameState
	case r == '\x00':
		t.b.WriteName('�')
		return false, tagNameState
	default:
		t.b.WriteName(r)
		return false, tagNameState
	}
}

// lessThanSign implements the shared shape of the RCDATA/RAWTEXT "<"
// states, parameterized on the data state to return to and the end-tag-open
// state to enter on "/".
func (t *Tokenizer) lessThanSign(r rune, eof bool, dataSt, endOpenSt State) (bool, State) {
	if eof {
		t.emit(t.b.CharacterToken('<'))
		return true, dataSt
	}
	if r == '/' {
		t.b.ResetTempBuffer()
		return false, endOpenSt
	}
	t.emit(t.b.CharacterToken('<'))
	return true, dataSt
}

func (t *Tokenizer) rcDataLessThanSign(r rune, eof bool) (bool, State) {
	return t.lessThanSign(r, eof, RCDataState, rcDataEndTagOpenState)
}
func (t *Tokenizer) rawTextLessThanSign(r rune, eof bool) (bool, State) {
	return t.lessThanSign(r, eof, RawTextState, rawTextEndTagOpenState)
}

func (t *Tokenizer) endTagOpenLike(r rune, eof bool, dataSt, endNameSt State) (bool, State) {
	if eof {
		t.emit(t.b.CharacterToken('<'), t.b.CharacterToken('/'))
		return true, dataSt
	}
	if isAlpha(r) {
		t.b.Reset()
		t.b.SetTagType(true)
		return true, endNameSt
	}
	t.emit(t.b.CharacterToken('<'), t.b.CharacterToken('/'))
	return true, dataSt
}

func (t *Tokenizer) rcDataEndTagOpen(r rune, eof bool) (bool, State) {
	return t.endTagOpenLike(r, eof, RCDataState, rcDataEndTagNameState)
}
func (t *Tokenizer) rawTextEndTagOpen(r rune, eof bool) (bool, State) {
	return t.endTagOpenLike(r, eof, RawTextState, rawTextEndTagNameState)
}

func (t *Tokenizer) endTagNameLike(r rune, eof bool, dataSt State) (bool, State) {
	fail := func() (bool, State) {
		t.emit(t.b.CharacterToken('<'), t.b.CharacterToken('/'))
		t.emit(t.b.TempBufferCharTokens()...)
		return true, dataSt
	}
	if eof {
		return fail()
	}
	switch {
	case isWhitespace(r):
		if t.isAppropriateEndTag() {
			return false, beforeAttributeNameState
		}
		return fail()
	case r == '/':
		if t.isAppropriateEndTag() {
			return false, selfClosingStartTagState
		}
		return fail()
	case r == '>':
		if t.isAppropriateEndTag() {
			return false, t.emitCurrentTag()
		}
		return fail()
	case isUpper(r):
		t.b.WriteTempBuffer(r)
		t.b.WriteName(toLower(r))
		return false, t.currentState
	case isLower(r):
		t.b.WriteTempBuffer(r)
		t.b.WriteName(r)
		return false, t.currentState
	default:
		return fail()
	}
}

func (t *Tokenizer) rcDataEndTagName(r rune, eof bool) (bool, State) {
	return t.endTagNameLike(r, eof, RCDataState)
}
func (t *Tokenizer) rawTextEndTagName(r rune, eof bool) (bool, State) {
	return t.endTagNameLike(r, eof, RawTextState)
}
func (t *Tokenizer) scriptDataEndTagName(r rune, eof bool) (bool, State) {
	return t.endTagNameLike(r, eof, ScriptDataState)
}
func (t *Tokenizer) scriptDataEscapedEndTagName(r rune, eof bool) (bool, State) {
	return t.endTagNameLike(r, eof, scriptDataEscapedState)
}

func (t *Tokenizer) scriptDataLessThanSign(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CharacterToken('<'))
		return true, ScriptDataState
	}
	switch r {
	case '/':
		t.b.ResetTempBuffer()
		return false, scriptDataEndTagOpenState
	case '!':
		t.emit(t.b.CharacterToken('<'), t.b.CharacterToken('!'))
		return false, scriptDataEscapeStartState
	default:
		t.emit(t.b.CharacterToken('<'))
		return true, ScriptDataState
	}
}

func (t *Tokenizer) scriptDataEndTagOpen(r rune, eof bool) (bool, State) {
	return t.endTagOpenLike(r, eof, ScriptDataState, scriptDataEndTagNameState)
}

func (t *Tokenizer) scriptDataEscapeStart(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataEscapeStartDashState
	}
	return true, ScriptDataState
}

func (t *Tokenizer) scriptDataEscapeStartDash(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	}
	return true, ScriptDataState
}

func (t *Tokenizer) scriptDataEscaped(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataEscapedDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, scriptDataEscapedState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (t *Tokenizer) scriptDataEscapedDash(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, scriptDataEscapedState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (t *Tokenizer) scriptDataEscapedDashDash(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '>':
		t.emit(t.b.CharacterToken('>'))
		return false, ScriptDataState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, scriptDataEscapedState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (t *Tokenizer) scriptDataEscapedLessThanSign(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CharacterToken('<'))
		return true, scriptDataEscapedState
	}
	switch {
	case r == '/':
		t.b.ResetTempBuffer()
		return false, scriptDataEscapedEndTagOpenState
	case isAlpha(r):
		t.b.ResetTempBuffer()
		t.emit(t.b.CharacterToken('<'))
		return true, scriptDataDoubleEscapeStartState
	default:
		t.emit(t.b.CharacterToken('<'))
		return true, scriptDataEscapedState
	}
}

func (t *Tokenizer) scriptDataEscapedEndTagOpen(r rune, eof bool) (bool, State) {
	return t.endTagOpenLike(r, eof, scriptDataEscapedState, scriptDataEscapedEndTagNameState)
}

func (t *Tokenizer) doubleEscapeLike(r rune, eof bool, matchState, mismatchState State) (bool, State) {
	if eof {
		return true, mismatchState
	}
	switch {
	case isWhitespace(r) || r == '/' || r == '>':
		t.emit(t.b.CharacterToken(r))
		if t.b.TempBuffer() == "script" {
			return false, matchState
		}
		return false, mismatchState
	case isAlpha(r):
		t.emit(t.b.CharacterToken(r))
		t.b.WriteTempBuffer(toLower(r))
		return false, t.currentState
	default:
		return true, mismatchState
	}
}

func (t *Tokenizer) scriptDataDoubleEscapeStart(r rune, eof bool) (bool, State) {
	return t.doubleEscapeLike(r, eof, scriptDataDoubleEscapedState, scriptDataEscapedState)
}
func (t *Tokenizer) scriptDataDoubleEscapeEnd(r rune, eof bool) (bool, State) {
	return t.doubleEscapeLike(r, eof, scriptDataEscapedState, scriptDataDoubleEscapedState)
}

func (t *Tokenizer) scriptDataDoubleEscaped(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashState
	case '<':
		t.emit(t.b.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, scriptDataDoubleEscapedState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) scriptDataDoubleEscapedDash(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashDashState
	case '<':
		t.emit(t.b.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, scriptDataDoubleEscapedState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) scriptDataDoubleEscapedDashDash(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		t.emit(t.b.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashDashState
	case '<':
		t.emit(t.b.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '>':
		t.emit(t.b.CharacterToken('>'))
		return false, ScriptDataState
	case '\x00':
		t.emit(t.b.CharacterToken('�'))
		return false, scriptDataDoubleEscapedState
	default:
		t.emit(t.b.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) scriptDataDoubleEscapedLessThanSign(r rune, eof bool) (bool, State) {
	if !eof && r == '/' {
		t.b.ResetTempBuffer()
		t.emit(t.b.CharacterToken('/'))
		return false, scriptDataDoubleEscapeEndState
	}
	return true, scriptDataDoubleEscapedState
}

func (t *Tokenizer) beforeAttributeName(r rune, eof bool) (bool, State) {
	if eof {
		return true, afterAttributeNameState
	}
	switch {
	case isWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/' || r == '>':
		return true, afterAttributeNameState
	case r == '=':
		t.b.StartNewAttribute()
		t.b.WriteAttributeName(r)
		return false, attributeNameState
	default:
		t.b.StartNewAttribute()
		return true, attributeNameState
	}
}

func (t *Tokenizer) attributeName(r rune, eof bool) (bool, State) {
	if eof {
		t.b.CommitAttribute()
		return true, afterAttributeNameState
	}
	switch {
	case isWhitespace(r) || r == '/' || r == '>':
		t.b.CommitAttribute()
		return true, afterAttributeNameState
	case r == '=':
		return false, beforeAttributeValueState
	case isUpper(r):
		t.b.WriteAttributeName(toLower(r))
		return false, attributeNameState
	case r == '\x00':
		t.b.WriteAttributeName('�')
		return false, attributeNameState
	default:
		t.b.WriteAttributeName(r)
		return false, attributeNameState
	}
}

func (t *Tokenizer) afterAttributeName(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, afterAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '=':
		return false, beforeAttributeValueState
	case r == '>':
		return false, t.emitCurrentTag()
	default:
		t.b.StartNewAttribute()
		return true, attributeNameState
	}
}

func (t *Tokenizer) beforeAttributeValue(r rune, eof bool) (bool, State) {
	if eof {
		return true, attributeValueUnquotedState
	}
	switch {
	case isWhitespace(r):
		return false, beforeAttributeValueState
	case r == '"':
		return false, attributeValueDoubleQuotedState
	case r == '\'':
		return false, attributeValueSingleQuotedState
	case r == '>':
		t.b.CommitAttribute()
		return false, t.emitCurrentTag()
	default:
		return true, attributeValueUnquotedState
	}
}

func (t *Tokenizer) attributeValueQuoted(r rune, eof bool, quote rune, next State) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case quote:
		t.b.CommitAttribute()
		return false, afterAttributeValueQuotedState
	case '&':
		t.returnState = t.currentState
		return false, characterReferenceState
	case '\x00':
		t.b.WriteAttributeValue('�')
		return false, t.currentState
	default:
		t.b.WriteAttributeValue(r)
		return false, t.currentState
	}
}

func (t *Tokenizer) attributeValueDoubleQuoted(r rune, eof bool) (bool, State) {
	return t.attributeValueQuoted(r, eof, '"', afterAttributeValueQuotedState)
}
func (t *Tokenizer) attributeValueSingleQuoted(r rune, eof bool) (bool, State) {
	return t.attributeValueQuoted(r, eof, '\'', afterAttributeValueQuotedState)
}

func (t *Tokenizer) attributeValueUnquoted(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		t.b.CommitAttribute()
		return false, beforeAttributeNameState
	case r == '&':
		t.returnState = attributeValueUnquotedState
		return false, characterReferenceState
	case r == '>':
		t.b.CommitAttribute()
		return false, t.emitCurrentTag()
	case r == '\x00':
		t.b.WriteAttributeValue('�')
		return false, attributeValueUnquotedState
	default:
		t.b.WriteAttributeValue(r)
		return false, attributeValueUnquotedState
	}
}

func (t *Tokenizer) afterAttributeValueQuoted(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, t.emitCurrentTag()
	default:
		return true, beforeAttributeNameState
	}
}

func (t *Tokenizer) selfClosingStartTag(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	if r == '>' {
		t.b.EnableSelfClosing()
		return false, t.emitCurrentTag()
	}
	return true, beforeAttributeNameState
}

func (t *Tokenizer) bogusComment(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CommentToken(), t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '>':
		t.emit(t.b.CommentToken())
		return false, DataState
	case '\x00':
		t.b.WriteData('�')
		return false, bogusCommentState
	default:
		t.b.WriteData(r)
		return false, bogusCommentState
	}
}

var doctypeKeyword = []byte("octype")
var cdataKeyword = []byte("CDATA[")

func (t *Tokenizer) markupDeclarationOpen(r rune, eof bool) (bool, State) {
	fallback := func() (bool, State) {
		t.b.Reset()
		return true, bogusCommentState
	}
	if eof {
		return fallback()
	}
	switch r {
	case '-':
		if peeked, err := t.in.Peek(1); err == nil && len(peeked) == 1 && peeked[0] == '-' {
			t.in.Discard(1)
			t.b.Reset()
			return false, commentStartState
		}
		return fallback()
	case 'D', 'd':
		if peeked, err := t.in.Peek(len(doctypeKeyword)); err == nil && strings.EqualFold(string(peeked), string(doctypeKeyword)) {
			t.in.Discard(len(doctypeKeyword))
			return false, doctypeState
		}
		return fallback()
	case '[':
		if peeked, err := t.in.Peek(len(cdataKeyword)); err == nil && string(peeked) == string(cdataKeyword) {
			t.in.Discard(len(cdataKeyword))
			if t.adjustedCurrentNode != nil && t.adjustedCurrentNode.Namespace != dom.HTMLNS {
				return false, CDATASectionState
			}
			t.b.Reset()
			for _, c := range "[CDATA[" {
				t.b.WriteData(c)
			}
			return false, bogusCommentState
		}
		return fallback()
	default:
		return fallback()
	}
}

func (t *Tokenizer) commentStart(r rune, eof bool) (bool, State) {
	if eof {
		return true, commentState
	}
	switch r {
	case '-':
		return false, commentStartDashState
	case '>':
		t.emit(t.b.CommentToken())
		return false, DataState
	default:
		return true, commentState
	}
}

func (t *Tokenizer) commentStartDash(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CommentToken(), t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		return false, commentEndState
	case '>':
		t.emit(t.b.CommentToken())
		return false, DataState
	default:
		t.b.WriteData('-')
		return true, commentState
	}
}

func (t *Tokenizer) comment(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CommentToken(), t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '<':
		t.b.WriteData(r)
		return false, commentLessThanSignState
	case '-':
		return false, commentEndDashState
	case '\x00':
		t.b.WriteData('�')
		return false, commentState
	default:
		t.b.WriteData(r)
		return false, commentState
	}
}

func (t *Tokenizer) commentLessThanSign(r rune, eof bool) (bool, State) {
	if eof {
		return true, commentState
	}
	switch r {
	case '!':
		t.b.WriteData(r)
		return false, commentLessThanSignBangState
	case '<':
		t.b.WriteData(r)
		return false, commentLessThanSignState
	default:
		return true, commentState
	}
}

func (t *Tokenizer) commentLessThanSignBang(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		return false, commentLessThanSignBangDashState
	}
	return true, commentState
}

func (t *Tokenizer) commentLessThanSignBangDash(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		return false, commentLessThanSignBangDashDashState
	}
	return true, commentEndDashState
}

func (t *Tokenizer) commentLessThanSignBangDashDash(r rune, eof bool) (bool, State) {
	return true, commentEndState
}

func (t *Tokenizer) commentEndDash(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CommentToken(), t.b.EOFToken())
		return false, DataState
	}
	if r == '-' {
		return false, commentEndState
	}
	t.b.WriteData('-')
	return true, commentState
}

func (t *Tokenizer) commentEnd(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CommentToken(), t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '>':
		t.emit(t.b.CommentToken())
		return false, DataState
	case '!':
		return false, commentEndBangState
	case '-':
		t.b.WriteData('-')
		return false, commentEndState
	default:
		t.b.WriteData('-')
		t.b.WriteData('-')
		return true, commentState
	}
}

func (t *Tokenizer) commentEndBang(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CommentToken(), t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case '-':
		t.b.WriteData('-')
		t.b.WriteData('-')
		t.b.WriteData('!')
		return false, commentEndDashState
	case '>':
		t.emit(t.b.CommentToken())
		return false, DataState
	default:
		t.b.WriteData('-')
		t.b.WriteData('-')
		t.b.WriteData('!')
		return true, commentState
	}
}

func (t *Tokenizer) doctype(r rune, eof bool) (bool, State) {
	if eof {
		t.b.Reset()
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	if isWhitespace(r) {
		return false, beforeDoctypeNameState
	}
	return true, beforeDoctypeNameState
}

func (t *Tokenizer) beforeDoctypeName(r rune, eof bool) (bool, State) {
	if eof {
		t.b.Reset()
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, beforeDoctypeNameState
	case isUpper(r):
		t.b.Reset()
		t.b.WriteName(toLower(r))
		return false, doctypeNameState
	case r == '\x00':
		t.b.Reset()
		t.b.WriteName('�')
		return false, doctypeNameState
	case r == '>':
		t.b.Reset()
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		t.b.Reset()
		t.b.WriteName(r)
		return false, doctypeNameState
	}
}

func (t *Tokenizer) doctypeName(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, afterDoctypeNameState
	case r == '>':
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	case isUpper(r):
		t.b.WriteName(toLower(r))
		return false, doctypeNameState
	case r == '\x00':
		t.b.WriteName('�')
		return false, doctypeNameState
	default:
		t.b.WriteName(r)
		return false, doctypeNameState
	}
}

func (t *Tokenizer) afterDoctypeName(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, afterDoctypeNameState
	case r == '>':
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		b, err := t.in.Peek(5)
		full := append([]byte{byte(r)}, b...)
		if err == nil && strings.EqualFold(string(full), "PUBLIC") {
			t.in.Discard(5)
			return false, afterDoctypePublicKeywordState
		}
		if err == nil && strings.EqualFold(string(full), "SYSTEM") {
			t.in.Discard(5)
			return false, afterDoctypeSystemKeywordState
		}
		t.b.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) afterDoctypePublicKeyword(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, beforeDoctypePublicIdentifierState
	case r == '"':
		t.b.WritePublicIdentifierEmpty()
		return false, doctypePublicIdentifierDoubleQuotedState
	case r == '\'':
		t.b.WritePublicIdentifierEmpty()
		return false, doctypePublicIdentifierSingleQuotedState
	case r == '>':
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		t.b.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) beforeDoctypePublicIdentifier(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, beforeDoctypePublicIdentifierState
	case r == '"':
		t.b.WritePublicIdentifierEmpty()
		return false, doctypePublicIdentifierDoubleQuotedState
	case r == '\'':
		t.b.WritePublicIdentifierEmpty()
		return false, doctypePublicIdentifierSingleQuotedState
	case r == '>':
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		t.b.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) doctypeIdentifierQuoted(r rune, eof bool, quote rune, next State, write func(rune), empty func()) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch r {
	case quote:
		return false, next
	case '\x00':
		write('�')
		return false, t.currentState
	case '>':
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		write(r)
		return false, t.currentState
	}
}

func (t *Tokenizer) doctypePublicIdentifierDoubleQuoted(r rune, eof bool) (bool, State) {
	return t.doctypeIdentifierQuoted(r, eof, '"', afterDoctypePublicIdentifierState, t.b.WritePublicIdentifier, t.b.WritePublicIdentifierEmpty)
}
func (t *Tokenizer) doctypePublicIdentifierSingleQuoted(r rune, eof bool) (bool, State) {
	return t.doctypeIdentifierQuoted(r, eof, '\'', afterDoctypePublicIdentifierState, t.b.WritePublicIdentifier, t.b.WritePublicIdentifierEmpty)
}
func (t *Tokenizer) doctypeSystemIdentifierDoubleQuoted(r rune, eof bool) (bool, State) {
	return t.doctypeIdentifierQuoted(r, eof, '"', afterDoctypeSystemIdentifierState, t.b.WriteSystemIdentifier, t.b.WriteSystemIdentifierEmpty)
}
func (t *Tokenizer) doctypeSystemIdentifierSingleQuoted(r rune, eof bool) (bool, State) {
	return t.doctypeIdentifierQuoted(r, eof, '\'', afterDoctypeSystemIdentifierState, t.b.WriteSystemIdentifier, t.b.WriteSystemIdentifierEmpty)
}

func (t *Tokenizer) afterDoctypePublicIdentifier(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, betweenDoctypePublicAndSystemIdentifiersState
	case r == '>':
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	case r == '"':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierSingleQuotedState
	default:
		t.b.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) betweenDoctypePublicAndSystemIdentifiers(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, betweenDoctypePublicAndSystemIdentifiersState
	case r == '>':
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	case r == '"':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierSingleQuotedState
	default:
		t.b.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) afterDoctypeSystemKeyword(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, beforeDoctypeSystemIdentifierState
	case r == '"':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierSingleQuotedState
	case r == '>':
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		t.b.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) beforeDoctypeSystemIdentifier(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, beforeDoctypeSystemIdentifierState
	case r == '"':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		t.b.WriteSystemIdentifierEmpty()
		return false, doctypeSystemIdentifierSingleQuotedState
	case r == '>':
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		t.b.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) afterDoctypeSystemIdentifier(r rune, eof bool) (bool, State) {
	if eof {
		t.b.EnableForceQuirks()
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, afterDoctypeSystemIdentifierState
	case r == '>':
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	default:
		return true, bogusDoctypeState
	}
}

func (t *Tokenizer) bogusDoctype(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.DOCTYPEToken(), t.b.EOFToken())
		return false, DataState
	}
	if r == '>' {
		t.emit(t.b.DOCTYPEToken())
		return false, DataState
	}
	return false, bogusDoctypeState
}

func (t *Tokenizer) cdataSection(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.EOFToken())
		return false, DataState
	}
	if r == ']' {
		return false, cdataSectionBracketState
	}
	t.emit(t.b.CharacterToken(r))
	return false, CDATASectionState
}

func (t *Tokenizer) cdataSectionBracket(r rune, eof bool) (bool, State) {
	if !eof && r == ']' {
		return false, cdataSectionEndState
	}
	t.emit(t.b.CharacterToken(']'))
	return true, CDATASectionState
}

func (t *Tokenizer) cdataSectionEnd(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.CharacterToken(']'), t.b.CharacterToken(']'))
		return true, CDATASectionState
	}
	switch r {
	case ']':
		t.emit(t.b.CharacterToken(']'))
		return false, cdataSectionEndState
	case '>':
		return false, DataState
	default:
		t.emit(t.b.CharacterToken(']'), t.b.CharacterToken(']'))
		return true, CDATASectionState
	}
}

func (t *Tokenizer) flushCodePointsAsCharacterReference() {
	if wasConsumedAsPartOfAttribute(t.returnState) {
		for _, r := range t.b.TempBuffer() {
			t.b.WriteAttributeValue(r)
		}
		return
	}
	t.emit(t.b.TempBufferCharTokens()...)
}

func (t *Tokenizer) characterReference(r rune, eof bool) (bool, State) {
	t.b.ResetTempBuffer()
	t.b.WriteTempBuffer('&')
	if eof {
		t.flushCodePointsAsCharacterReference()
		return true, t.returnState
	}
	switch {
	case isAlpha(r) || isDigit(r):
		return true, namedCharacterReferenceState
	case r == '#':
		t.b.WriteTempBuffer(r)
		return false, numericCharacterReferenceState
	default:
		t.flushCodePointsAsCharacterReference()
		return true, t.returnState
	}
}

// namedCharacterReference implements the greedy longest-prefix-match named
// reference lookup by growing a candidate string from the input stream
// until no table entry could extend it further, then taking the longest
// match seen along the way.
func (t *Tokenizer) namedCharacterReference(r rune, eof bool) (bool, State) {
	var candidate strings.Builder
	candidate.WriteRune(r)

	if !eof {
		for charref.HasPrefixMatch(candidate.String()) {
			peeked, err := t.in.Peek(1)
			if err != nil {
				break
			}
			next := candidate.String() + string(peeked[0])
			if !charref.HasPrefixMatch(next) {
				break
			}
			t.in.Discard(1)
			candidate.WriteByte(peeked[0])
		}
	}

	matchLen, replacement, ok := charref.LongestMatch(candidate.String())
	if !ok {
		t.b.WriteTempBuffer(r)
		for _, c := range candidate.String()[1:] {
			t.b.WriteTempBuffer(c)
		}
		t.flushCodePointsAsCharacterReference()
		return false, ambiguousAmpersandState
	}

	matched := candidate.String()[:matchLen]
	unconsumed := candidate.String()[matchLen:]
	// put back any runes beyond the match onto the input stream isn't
	// possible with bufio.Reader for >1 byte, so track them via the temp
	// buffer and replay them as plain characters instead.
	endsInSemicolon := strings.HasSuffix(matched, ";")
	if wasConsumedAsPartOfAttribute(t.returnState) && !endsInSemicolon && len(unconsumed) > 0 {
		c := rune(unconsumed[0])
		if c == '=' || isAlpha(c) || isDigit(c) {
			t.b.WriteTempBuffer(r)
			for _, ch := range candidate.String()[1:] {
				t.b.WriteTempBuffer(ch)
			}
			t.flushCodePointsAsCharacterReference()
			return false, t.returnState
		}
	}

	t.b.ResetTempBuffer()
	for _, ch := range replacement {
		t.b.WriteTempBuffer(ch)
	}
	for _, ch := range unconsumed {
		t.b.WriteTempBuffer(ch)
	}
	t.flushCodePointsAsCharacterReference()
	return false, t.returnState
}

func (t *Tokenizer) ambiguousAmpersand(r rune, eof bool) (bool, State) {
	if eof {
		return true, t.returnState
	}
	switch {
	case isAlpha(r) || isDigit(r):
		if wasConsumedAsPartOfAttribute(t.returnState) {
			t.b.WriteAttributeValue(r)
		} else {
			t.emit(t.b.CharacterToken(r))
		}
		return false, ambiguousAmpersandState
	default:
		return true, t.returnState
	}
}

func (t *Tokenizer) numericCharacterReference(r rune, eof bool) (bool, State) {
	t.b.SetCharRef(0)
	if !eof && (r == 'x' || r == 'X') {
		t.b.WriteTempBuffer(r)
		return false, hexadecimalCharacterReferenceStartState
	}
	return true, decimalCharacterReferenceStartState
}

func (t *Tokenizer) hexadecimalCharacterReferenceStart(r rune, eof bool) (bool, State) {
	if !eof && isHexDigit(r) {
		return true, hexadecimalCharacterReferenceState
	}
	t.flushCodePointsAsCharacterReference()
	return true, t.returnState
}

func (t *Tokenizer) decimalCharacterReferenceStart(r rune, eof bool) (bool, State) {
	if !eof && isDigit(r) {
		return true, decimalCharacterReferenceState
	}
	t.flushCodePointsAsCharacterReference()
	return true, t.returnState
}

func hexDigitValue(r rune) int {
	switch {
	case isDigit(r):
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}

func (t *Tokenizer) hexadecimalCharacterReference(r rune, eof bool) (bool, State) {
	if eof {
		return true, numericCharacterReferenceEndState
	}
	switch {
	case isHexDigit(r):
		t.b.MultiplyCharRef(16)
		t.b.AddToCharRef(hexDigitValue(r))
		return false, hexadecimalCharacterReferenceState
	case r == ';':
		return false, numericCharacterReferenceEndState
	default:
		return true, numericCharacterReferenceEndState
	}
}

func (t *Tokenizer) decimalCharacterReference(r rune, eof bool) (bool, State) {
	if eof {
		return true, numericCharacterReferenceEndState
	}
	switch {
	case isDigit(r):
		t.b.MultiplyCharRef(10)
		t.b.AddToCharRef(int(r - '0'))
		return false, decimalCharacterReferenceState
	case r == ';':
		return false, numericCharacterReferenceEndState
	default:
		return true, numericCharacterReferenceEndState
	}
}

func (t *Tokenizer) numericCharacterReferenceEnd(r rune, eof bool) (bool, State) {
	if !eof {
		t.reconsumeAcrossCall(r)
	}
	resolved, isErr := charref.Numeric(t.b.CharRef())
	if isErr {
		t.log.WithField("codepoint", t.b.CharRef()).Debug("numeric character reference required substitution")
	}
	t.b.ResetTempBuffer()
	t.b.WriteTempBuffer(resolved)
	t.flushCodePointsAsCharacterReference()
	return false, t.returnState
}

// Package token defines the HTML tokenizer's output token type and the
// accumulator the tokenizer's state machine builds one up with.
package token

import "strings"

// Type identifies which of the six token shapes a Token is.
type Type uint8

const (
	Character Type = iota
	StartTag
	EndTag
	Comment
	DOCTYPE
	EOF
)

func (t Type) String() string {
	switch t {
	case Character:
		return "character"
	case StartTag:
		return "start-tag"
	case EndTag:
		return "end-tag"
	case Comment:
		return "comment"
	case DOCTYPE:
		return "doctype"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Missing is the DOCTYPE public/system identifier sentinel for "not set",
// distinguishing an absent identifier from an empty-string one.
const Missing = "MISSING"

// Attribute is a single name/value pair collected on a start or end tag
// token, in source order, with duplicates already suppressed by the
// builder.
type Attribute struct {
	Name  string
	Value string
}

// Token is a fully-built, ready-to-emit tokenizer output.
type Token struct {
	Type             Type
	TagName          string
	Attributes       []Attribute
	SelfClosing      bool
	Data             string
	PublicIdentifier string
	SystemIdentifier string
	ForceQuirks      bool
}

// Attr looks up an attribute by name on a start/end tag token.
func (t Token) Attr(name string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Builder accumulates the pieces of whichever token the tokenizer's state
// machine is currently constructing. A single Builder is reused across
// tokens; Reset clears it between them.
type Builder struct {
	attrNames      []string
	attrValues     []strings.Builder
	attrSeen       map[string]int
	skipCurrentAttr bool

	name       strings.Builder
	data       strings.Builder
	tempBuffer strings.Builder
	publicID   strings.Builder
	systemID   strings.Builder

	selfClosing bool
	forceQuirks bool
	isEndTag    bool

	charRefCode int
}

// NewBuilder returns a ready-to-use Builder.
func NewBuilder() *Builder {
	b := &Builder{attrSeen: map[string]int{}}
	b.Reset()
	return b
}

// Reset clears all per-token state, ready to build the next tag/doctype
// token. It does not touch the temp buffer, whose lifetime spans character
// reference and RAWTEXT-family end-tag matching independent of token
// boundaries.
func (b *Builder) Reset() {
	b.attrNames = nil
	b.attrValues = nil
	b.attrSeen = map[string]int{}
	b.skipCurrentAttr = false
	b.name.Reset()
	b.data.Reset()
	b.publicID.Reset()
	b.publicID.WriteString(Missing)
	b.systemID.Reset()
	b.systemID.WriteString(Missing)
	b.selfClosing = false
	b.forceQuirks = false
}

// StartNewAttribute opens a fresh, unnamed attribute slot.
func (b *Builder) StartNewAttribute() {
	b.attrNames = append(b.attrNames, "")
	b.attrValues = append(b.attrValues, strings.Builder{})
	b.skipCurrentAttr = false
}

// WriteAttributeName appends a rune to the attribute name currently being
// built. Duplicate names are not checked here; CommitAttribute discards an
// attribute whose completed name duplicates an earlier one, matching "when
// the attribute name is complete... if there is already an attribute...
// with the same name, then this is a duplicate-attribute parse error".
func (b *Builder) WriteAttributeName(r rune) {
	i := len(b.attrNames) - 1
	b.attrNames[i] += string(r)
}

// WriteAttributeValue appends a rune to the current attribute's value.
func (b *Builder) WriteAttributeValue(r rune) {
	i := len(b.attrValues) - 1
	b.attrValues[i].WriteRune(r)
}

// CommitAttribute finalizes the current attribute, dropping it if its name
// duplicates a previously committed attribute on this token.
func (b *Builder) CommitAttribute() {
	i := len(b.attrNames) - 1
	if i < 0 {
		return
	}
	name := b.attrNames[i]
	if name == "" {
		b.attrNames = b.attrNames[:i]
		b.attrValues = b.attrValues[:i]
		return
	}
	if j, dup := b.attrSeen[name]; dup {
		if j == i {
			return
		}
		b.attrNames = b.attrNames[:i]
		b.attrValues = b.attrValues[:i]
		return
	}
	b.attrSeen[name] = i
}

// HasCurrentAttribute reports whether an attribute slot is open.
func (b *Builder) HasCurrentAttribute() bool { return len(b.attrNames) > 0 }

func (b *Builder) attributes() []Attribute {
	attrs := make([]Attribute, 0, len(b.attrNames))
	for i, name := range b.attrNames {
		if name == "" {
			continue
		}
		attrs = append(attrs, Attribute{Name: name, Value: b.attrValues[i].String()})
	}
	return attrs
}

// SetTagType records whether the tag under construction is a start or end
// tag; EndTagToken/StartTagToken read it back.
func (b *Builder) SetTagType(isEnd bool) { b.isEndTag = isEnd }
func (b *Builder) IsEndTag() bool        { return b.isEndTag }

func (b *Builder) EnableSelfClosing() { b.selfClosing = true }
func (b *Builder) EnableForceQuirks()  { b.forceQuirks = true }

func (b *Builder) WriteName(r rune) { b.name.WriteRune(r) }
func (b *Builder) Name() string     { return b.name.String() }

func (b *Builder) WriteData(r rune) { b.data.WriteRune(r) }

func (b *Builder) WritePublicIdentifierEmpty() { b.publicID.Reset() }
func (b *Builder) WritePublicIdentifier(r rune) { b.publicID.WriteRune(r) }
func (b *Builder) WriteSystemIdentifierEmpty()  { b.systemID.Reset() }
func (b *Builder) WriteSystemIdentifier(r rune) { b.systemID.WriteRune(r) }

func (b *Builder) ResetTempBuffer()        { b.tempBuffer.Reset() }
func (b *Builder) WriteTempBuffer(r rune)  { b.tempBuffer.WriteRune(r) }
func (b *Builder) TempBuffer() string      { return b.tempBuffer.String() }

// TempBufferCharTokens turns the temp buffer's contents into one character
// token per code point, for the RAWTEXT-family "emit each code point of the
// buffer" recovery paths.
func (b *Builder) TempBufferCharTokens() []Token {
	toks := make([]Token, 0, b.tempBuffer.Len())
	for _, r := range b.tempBuffer.String() {
		toks = append(toks, Token{Type: Character, Data: string(r)})
	}
	return toks
}

// SetCharRef/AddToCharRef/MultiplyCharRef/CharRef implement the numeric
// character reference accumulator.
func (b *Builder) SetCharRef(v int)       { b.charRefCode = v }
func (b *Builder) AddToCharRef(v int)     { b.charRefCode += v }
func (b *Builder) MultiplyCharRef(v int)  { b.charRefCode *= v }
func (b *Builder) CharRef() int           { return b.charRefCode }

// StartTagToken builds a start tag token from the builder's contents.
func (b *Builder) StartTagToken() Token {
	return Token{Type: StartTag, TagName: b.name.String(), Attributes: b.attributes(), SelfClosing: b.selfClosing}
}

// EndTagToken builds an end tag token. Per the tokenizer's "emit as end tag
// token" step, attributes and the self-closing flag are dropped even if
// somehow populated.
func (b *Builder) EndTagToken() Token {
	return Token{Type: EndTag, TagName: b.name.String()}
}

// CharacterToken builds a single-rune character token.
func (b *Builder) CharacterToken(r rune) Token {
	return Token{Type: Character, Data: string(r)}
}

// EOFToken builds the end-of-file token.
func (b *Builder) EOFToken() Token { return Token{Type: EOF} }

// CommentToken builds a comment token from the data buffer.
func (b *Builder) CommentToken() Token {
	return Token{Type: Comment, Data: b.data.String()}
}

// DOCTYPEToken builds a DOCTYPE token from the name/identifier buffers.
func (b *Builder) DOCTYPEToken() Token {
	return Token{
		Type:             DOCTYPE,
		TagName:          b.name.String(),
		ForceQuirks:      b.forceQuirks,
		PublicIdentifier: b.publicID.String(),
		SystemIdentifier: b.systemID.String(),
	}
}

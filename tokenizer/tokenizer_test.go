package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/htmlparser/token"
)

type attributeAccuracyTestcase struct {
	inHTML string
	attrs  map[string]string
}

var attributeAccuracyTests = []attributeAccuracyTestcase{
	{"<head></head>", map[string]string{}},
	{"<script src='123' onload='test'></script>", map[string]string{
		"src":    "123",
		"onload": "test",
	}},
	{"<script src='123' src='456'></script>", map[string]string{
		"src": "123",
	}},
	{"<script src=123 onload=test></script>", map[string]string{
		"src":    "123",
		"onload": "test",
	}},
	{"<script src></script>", map[string]string{
		"src": "",
	}},
	{"<script ABC=123></script>", map[string]string{
		"abc": "123",
	}},
}

// TestAttributeAccuracy checks that the first start tag out of each snippet
// collects exactly the expected attribute set.
func TestAttributeAccuracy(t *testing.T) {
	for _, tt := range attributeAccuracyTests {
		tt := tt
		t.Run(tt.inHTML, func(t *testing.T) {
			tok := collectTokens(t, tt.inHTML)
			require.NotEmpty(t, tok)
			var startTag *token.Token
			for i := range tok {
				if tok[i].Type == token.StartTag {
					startTag = &tok[i]
					break
				}
			}
			require.NotNil(t, startTag, "no start tag produced")
			assert.Len(t, startTag.Attributes, len(tt.attrs))
			for name, want := range tt.attrs {
				got, ok := startTag.Attr(name)
				assert.True(t, ok, "missing attribute %q", name)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestDataStateEmitsCharacters(t *testing.T) {
	toks := collectTokens(t, "hello")
	// one character token per code point, then EOF
	require.Len(t, toks, 6)
	assert.Equal(t, token.Character, toks[0].Type)
	assert.Equal(t, "h", toks[0].Data)
}

// TestNullCharacterPassesThroughInDataState checks that the data state emits
// U+0000 unchanged; the tree builder, not the tokenizer, drops it in body
// content.
func TestNullCharacterPassesThroughInDataState(t *testing.T) {
	toks := collectTokens(t, "a\x00b")
	var data strings.Builder
	for _, tok := range toks {
		if tok.Type == token.Character {
			data.WriteString(tok.Data)
		}
	}
	assert.Equal(t, "a\x00b", data.String())
}

func TestCommentTokenization(t *testing.T) {
	toks := collectTokens(t, "<!-- hi -->")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Comment, toks[0].Type)
	assert.Equal(t, " hi ", toks[0].Data)
}

func TestDoctypeTokenization(t *testing.T) {
	toks := collectTokens(t, "<!DOCTYPE html>")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.DOCTYPE, toks[0].Type)
	assert.Equal(t, "html", toks[0].TagName)
}

func TestEndTagSelfClosingFlagIgnored(t *testing.T) {
	toks := collectTokens(t, "<div></div/>")
	var endTag *token.Token
	for i := range toks {
		if toks[i].Type == token.EndTag {
			endTag = &toks[i]
		}
	}
	require.NotNil(t, endTag)
	assert.False(t, endTag.SelfClosing)
}

func TestCRLFNormalization(t *testing.T) {
	toks := collectTokens(t, "a\r\nb\rc")
	var data strings.Builder
	for _, tok := range toks {
		if tok.Type == token.Character {
			data.WriteString(tok.Data)
		}
	}
	assert.Equal(t, "a\nb\nc", data.String())
}

func TestNamedCharacterReference(t *testing.T) {
	toks := collectTokens(t, "&amp;")
	var data strings.Builder
	for _, tok := range toks {
		if tok.Type == token.Character {
			data.WriteString(tok.Data)
		}
	}
	assert.Equal(t, "&", data.String())
}

func TestNumericCharacterReferenceWindows1252Remap(t *testing.T) {
	toks := collectTokens(t, "&#128;")
	var data strings.Builder
	for _, tok := range toks {
		if tok.Type == token.Character {
			data.WriteString(tok.Data)
		}
	}
	assert.Equal(t, "€", data.String())
}

// TestUnterminatedNumericReferenceFollowedByCRLF guards against the
// terminator rune getting silently dropped when it is the normalized '\n'
// of a CRLF pair: the reconsume into the return state must still see it.
func TestUnterminatedNumericReferenceFollowedByCRLF(t *testing.T) {
	toks := collectTokens(t, "&#65\r\nX")
	var data strings.Builder
	for _, tok := range toks {
		if tok.Type == token.Character {
			data.WriteString(tok.Data)
		}
	}
	assert.Equal(t, "A\nX", data.String())
}

func TestRCDataStateDoesNotInterpretTags(t *testing.T) {
	tok := New(strings.NewReader("<b>bold</title>"), nil)
	// as if a <title> start tag had just been emitted, so </title> is an
	// appropriate end tag
	tok.lastEmittedStartTagName = "title"
	rc := RCDataState
	toks := drain(t, tok, &rc)
	var data strings.Builder
	for _, tt := range toks {
		if tt.Type == token.Character {
			data.WriteString(tt.Data)
		}
	}
	assert.Equal(t, "<b>bold", data.String())
}

func collectTokens(t *testing.T, in string) []token.Token {
	t.Helper()
	return drain(t, New(strings.NewReader(in), nil), nil)
}

func drain(t *testing.T, tok *Tokenizer, startState *State) []token.Token {
	t.Helper()
	var toks []token.Token
	progress := Progress{State: startState}
	for tok.Next() {
		tt, err := tok.Token(progress)
		require.NoError(t, err)
		toks = append(toks, tt)
		progress = Progress{}
		if tt.Type == token.EOF {
			break
		}
	}
	return toks
}

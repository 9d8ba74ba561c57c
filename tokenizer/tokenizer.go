// Package tokenizer implements the WHATWG HTML tokenization stage: an
// input stream normalizer feeding a flat state-dispatch state machine that
// emits token.Token values, mirroring the state names and transitions of
// the standard's tokenization section.
package tokenizer

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/corvidlabs/htmlparser/dom"
	"github.com/corvidlabs/htmlparser/token"
)

// Progress carries the tree construction stage's feedback back into the
// tokenizer ahead of producing the next token: which element it should
// treat as "the adjusted current node" for the CDATA/foreign-content
// dispatch check, and an optional forced state change (used when a start
// tag like <title> or <script> was just inserted and RCDATA/RAWTEXT/
// script-data must be entered before the next token is read).
type Progress struct {
	AdjustedCurrentNode *dom.Node
	State               *State
}

// Tokenizer turns a byte stream into a sequence of token.Token values.
type Tokenizer struct {
	done                    bool
	returnState             State
	currentState            State
	in                      *bufio.Reader
	adjustedCurrentNode     *dom.Node
	pending                 []token.Token
	b                       *token.Builder
	lastEmittedStartTagName string
	log                     *logrus.Entry

	// pendingRune holds a rune a state handler reconsumed into the next
	// state but across a Token() call boundary (the numeric character
	// reference terminator). bufio.Reader.UnreadRune is not used for this:
	// normalizeNewlines's Discard(1) call invalidates the reader's
	// unread-rune tracking, so UnreadRune would silently fail to push the
	// terminator back whenever it had just been normalized from a CRLF
	// pair.
	pendingRune    rune
	hasPendingRune bool
}

// New creates a Tokenizer reading from r, starting in DataState. log may be
// nil, in which case a discarding logger is used.
func New(r io.Reader, log *logrus.Entry) *Tokenizer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Tokenizer{
		in:  bufio.NewReader(r),
		b:   token.NewBuilder(),
		log: log,
	}
}

// Next reports whether another call to Token will return a token rather
// than signal exhaustion; it is false only after the EOF token has been
// produced.
func (t *Tokenizer) Next() bool { return !t.done }

// Token reads and returns the next token, applying progress from the
// previous round of tree construction first.
func (t *Tokenizer) Token(progress Progress) (token.Token, error) {
	t.adjustedCurrentNode = progress.AdjustedCurrentNode
	if progress.State != nil {
		t.currentState = *progress.State
	}

	for {
		if len(t.pending) > 0 {
			tok := t.pending[0]
			t.pending = t.pending[1:]
			if tok.Type == token.EOF {
				t.done = true
			}
			return tok, nil
		}

		if t.hasPendingRune {
			r := t.pendingRune
			t.hasPendingRune = false
			t.step(r, false)
			continue
		}

		r, _, err := t.in.ReadRune()
		if err != nil && err != io.EOF {
			return token.Token{}, errors.Wrap(err, "tokenizer: read input")
		}
		t.step(t.normalizeNewlines(r), err == io.EOF)
	}
}

// reconsumeAcrossCall records r to be replayed as the next rune on a future
// Token() call, for a state that needs to hand an already-consumed rune to
// the tokenizer's return state rather than its own reconsume loop.
func (t *Tokenizer) reconsumeAcrossCall(r rune) {
	t.pendingRune = r
	t.hasPendingRune = true
}

func (t *Tokenizer) emit(toks ...token.Token) {
	for _, tok := range toks {
		switch tok.Type {
		case token.EndTag:
			tok.SelfClosing = false
		case token.StartTag:
			t.lastEmittedStartTagName = tok.TagName
		}
		t.pending = append(t.pending, tok)
	}
}

func (t *Tokenizer) isAppropriateEndTag() bool {
	return t.lastEmittedStartTagName != "" && t.lastEmittedStartTagName == t.b.Name()
}

func (t *Tokenizer) emitCurrentTag() State {
	if t.b.IsEndTag() {
		t.emit(t.b.EndTagToken())
	} else {
		t.emit(t.b.StartTagToken())
	}
	return DataState
}

// normalizeNewlines implements the input stream preprocessing step that
// collapses CRLF and lone CR into LF before tokenization ever sees them.
func (t *Tokenizer) normalizeNewlines(r rune) rune {
	if r != '\r' {
		return r
	}
	if b, err := t.in.Peek(1); err == nil && len(b) > 0 && b[0] == '\n' {
		t.in.Discard(1)
	}
	return '\n'
}

func (t *Tokenizer) step(r rune, eof bool) {
	reconsume := true
	for reconsume {
		reconsume, t.currentState = t.dispatch(t.currentState)(r, eof)
	}
}

type handler func(r rune, eof bool) (reconsume bool, next State)

func wasConsumedAsPartOfAttribute(s State) bool {
	switch s {
	case attributeValueDoubleQuotedState, attributeValueSingleQuotedState, attributeValueUnquotedState:
		return true
	}
	return false
}

func isAlpha(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', ' ':
		return true
	}
	return false
}

func toLower(r rune) rune {
	if isUpper(r) {
		return r + 0x20
	}
	return r
}

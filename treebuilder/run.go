package treebuilder

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/corvidlabs/htmlparser/dom"
	"github.com/corvidlabs/htmlparser/token"
	"github.com/corvidlabs/htmlparser/tokenizer"
)

// Run drives the tokenizer/tree-construction feedback loop to completion:
// read a token, hand the tree builder's pending state and adjusted current
// node back to the tokenizer ahead of the next read, feed the token to
// ProcessToken, repeat until stop parsing has run or the tokenizer is
// exhausted.
func (b *Builder) Run(r io.Reader, log *logrus.Entry) error {
	return b.run(tokenizer.New(r, log), tokenizer.DataState)
}

func (b *Builder) run(tok *tokenizer.Tokenizer, startState tokenizer.State) error {
	progress := tokenizer.Progress{State: &startState}
	for tok.Next() && !b.Done() {
		progress.AdjustedCurrentNode = b.AdjustedCurrentNode()
		if forced := b.TakePendingTokenizerState(); forced != nil {
			progress.State = forced
		} else {
			progress.State = nil
		}
		t, err := tok.Token(progress)
		if err != nil {
			return err
		}
		if err := b.ProcessToken(t); err != nil {
			return err
		}
		if t.Type == token.EOF {
			return nil
		}
	}
	return nil
}

// fragmentStartState implements the fragment case's "appropriate tokenizer
// state" table keyed on the context element's local name.
func fragmentStartState(contextName string, scriptingEnabled bool) tokenizer.State {
	switch contextName {
	case "title", "textarea":
		return tokenizer.RCDataState
	case "style", "xmp", "iframe", "noembed", "noframes":
		return tokenizer.RawTextState
	case "script":
		return tokenizer.ScriptDataState
	case "noscript":
		if scriptingEnabled {
			return tokenizer.RawTextState
		}
	case "plaintext":
		return tokenizer.PlaintextState
	}
	return tokenizer.DataState
}

// ParseFragment implements https://html.spec.whatwg.org/#parsing-html-fragments:
// parse r as if it were the contents of context, returning the resulting
// child nodes of a detached <html> root.
func ParseFragment(context *dom.Node, r io.Reader, scriptingEnabled bool, log *logrus.Entry) ([]*dom.Node, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	b := New(scriptingEnabled, log)
	b.fragmentContext = context

	root := dom.NewElement(b.Document, "html", dom.HTMLNS)
	b.Document.AppendChild(root)
	b.openElements.Push(root)

	for n := context.ParentNode; n != nil; n = n.ParentNode {
		if n.NodeName == "form" {
			b.formElement = n
			break
		}
	}

	if context.NodeName == "template" {
		b.templateModes = append(b.templateModes, InTemplate)
	}
	b.resetInsertionModeAppropriately()

	startState := fragmentStartState(context.NodeName, scriptingEnabled)
	if err := b.run(tokenizer.New(r, log), startState); err != nil {
		return nil, err
	}
	return root.ChildNodes, nil
}

// Package htmlparser is the parser façade: it wires the tokenizer to tree
// construction behind a small functional-options surface.
package htmlparser

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/corvidlabs/htmlparser/dom"
	"github.com/corvidlabs/htmlparser/treebuilder"
)

// ParseError is handed to a caller-supplied sink (WithErrorSink) for every
// entry the tokenizer or tree builder logs at Debug (recoverable parse
// errors) or Error (internal invariant violations).
type ParseError struct {
	Reason string
	Mode   string
}

// InternalError marks a failure that comes from this implementation rather
// than from the input, so callers can errors.As around it. Parse returns it
// for treebuilder.ErrForeignContentUnsupported. Invariant violations found
// during tree construction are logged at Error and do not stop the parse.
type InternalError struct {
	cause error
}

func (e *InternalError) Error() string { return "htmlparser: internal error: " + e.cause.Error() }
func (e *InternalError) Unwrap() error { return e.cause }

type config struct {
	logger           *logrus.Logger
	scriptingEnabled bool
	errorSink        func(ParseError)
	fragmentContext  *dom.Node
}

// Option configures a Parse call.
type Option func(*config)

// WithLogger sets the logrus.Logger used for parse-error (Debug) and
// internal-error (Error) reporting. The default discards output.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithScriptingEnabled controls whether <noscript> is treated as RAWTEXT
// (scripting enabled, the default assumption for a browser-shaped consumer)
// or ordinary HTML content.
func WithScriptingEnabled(enabled bool) Option {
	return func(c *config) { c.scriptingEnabled = enabled }
}

// WithErrorSink registers a callback invoked for every parse error the tree
// builder reports and every numeric character reference substitution the
// tokenizer reports, plus internal invariant violations logged at Error.
func WithErrorSink(sink func(ParseError)) Option {
	return func(c *config) { c.errorSink = sink }
}

// WithFragmentContext switches Parse into fragment-parsing mode
// (https://html.spec.whatwg.org/#parsing-html-fragments), parsing input as
// if it were the contents of context rather than a whole document.
func WithFragmentContext(context *dom.Node) Option {
	return func(c *config) { c.fragmentContext = context }
}

func newConfig(opts []Option) *config {
	c := &config{scriptingEnabled: true}
	for _, o := range opts {
		o(c)
	}
	return c
}

// errorSinkHook forwards every Debug-level ("parse error") and Error-level
// ("internal error") log entry emitted during a single Parse call to the
// caller's sink, translating the logrus.Fields the tree builder/tokenizer
// attach (mode, token) back into a ParseError.
type errorSinkHook struct{ sink func(ParseError) }

func (h *errorSinkHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.DebugLevel, logrus.ErrorLevel}
}

func (h *errorSinkHook) Fire(e *logrus.Entry) error {
	mode, _ := e.Data["mode"].(interface{ String() string })
	pe := ParseError{Reason: e.Message}
	if mode != nil {
		pe.Mode = mode.String()
	}
	h.sink(pe)
	return nil
}

func (c *config) entry() *logrus.Entry {
	l := c.logger
	if l == nil {
		l = logrus.New()
		l.SetOutput(io.Discard)
	}
	if c.errorSink != nil {
		l.SetLevel(logrus.DebugLevel)
		l.AddHook(&errorSinkHook{sink: c.errorSink})
	}
	return logrus.NewEntry(l)
}

// Parse reads r as a complete HTML document (or, with WithFragmentContext,
// as a fragment) and returns the resulting dom.Node tree.
func Parse(r io.Reader, opts ...Option) (*dom.Node, error) {
	c := newConfig(opts)
	log := c.entry()

	if c.fragmentContext != nil {
		children, err := treebuilder.ParseFragment(c.fragmentContext, r, c.scriptingEnabled, log)
		if err != nil {
			return nil, wrapParseErr(err)
		}
		frag := dom.NewDocumentFragment(c.fragmentContext.OwnerDocument)
		for _, child := range append([]*dom.Node{}, children...) {
			frag.AppendChild(child)
		}
		return frag, nil
	}

	b := treebuilder.New(c.scriptingEnabled, log)
	if err := b.Run(r, log); err != nil {
		return nil, wrapParseErr(err)
	}
	return b.Document, nil
}

func wrapParseErr(err error) error {
	if err == treebuilder.ErrForeignContentUnsupported {
		return &InternalError{cause: err}
	}
	return errors.Wrap(err, "htmlparser: parse")
}

// Command htmlparse parses an HTML document from a file argument or stdin
// and prints the resulting tree in the indented debug format used by
// conformance fixtures, in the spirit of original_source's TestRunner:
// run something, report pass/fail via exit code.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/corvidlabs/htmlparser/htmlparser"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log := logrus.New()
	log.SetOutput(stderr)

	var in io.Reader = stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer f.Close()
		in = f
	}

	var errCount int
	doc, err := htmlparser.Parse(in,
		htmlparser.WithLogger(log),
		htmlparser.WithErrorSink(func(pe htmlparser.ParseError) {
			errCount++
			fmt.Fprintf(stderr, "parse error (%s): %s\n", pe.Mode, pe.Reason)
		}),
	)
	if err != nil {
		var internal *htmlparser.InternalError
		if errors.As(err, &internal) {
			fmt.Fprintln(stderr, internal)
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintln(stdout, doc.Serialize())
	if errCount > 0 {
		fmt.Fprintf(stderr, "%d parse error(s)\n", errCount)
	}
	return 0
}

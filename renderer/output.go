package renderer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format is an output format.
type Format string

const (
	FormatAuto     Format = ""         // Terminal on a tty, Markdown otherwise
	FormatMarkdown Format = "markdown" // the raw markdown
	FormatTerminal Format = "terminal" // styled by glamour
	FormatHTML     Format = "html"     // converted by goldmark
)

// ParseFormat validates a -format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatAuto, FormatMarkdown, FormatTerminal, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q, want one of markdown, terminal, html", s)
}

// Terminal styles md for a terminal.
func Terminal(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

var htmlConverter = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts md to an HTML fragment. Tables are supported.
func HTML(md string) (string, error) {
	var b bytes.Buffer
	if err := htmlConverter.Convert([]byte(md), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Print writes md to w in format. With FormatAuto, md is styled when w is a
// terminal and written as is otherwise. When styling fails the raw markdown is
// printed.
func Print(w io.Writer, md string, format Format) error {
	if format == FormatAuto {
		format = FormatMarkdown
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = FormatTerminal
		}
	}
	out := md
	switch format {
	case FormatTerminal:
		if s, err := Terminal(md); err == nil {
			out = s
		}
	case FormatHTML:
		s, err := HTML(md)
		if err != nil {
			return err
		}
		out = s
	}
	_, err := io.WriteString(w, out)
	return err
}

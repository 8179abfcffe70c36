package theme

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownStyle is returned for a highlight style chroma does not know.
var ErrUnknownStyle = errors.New("unknown highlight style")

// Highlight names the chroma style per color mode. Dark and Sepia are
// optional.
type Highlight struct {
	Default string
	Dark    string
	Sepia   string
}

// WriteHighlightCSS writes the stylesheet for class-based code highlighting.
// The default style applies unscoped; the dark and sepia styles are scoped
// under html.dark and html.sepia.
func WriteHighlightCSS(w io.Writer, h Highlight) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	modes := []struct {
		style string
		scope string
	}{
		{style: h.Default},
		{style: h.Dark, scope: "html.dark"},
		{style: h.Sepia, scope: "html.sepia"},
	}

	for _, m := range modes {
		if m.style == "" {
			continue
		}
		style, ok := styles.Registry[strings.ToLower(m.style)]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStyle, m.style)
		}

		var buf bytes.Buffer
		if err := formatter.WriteCSS(&buf, style); err != nil {
			return fmt.Errorf("write %s css: %w", m.style, err)
		}
		fmt.Fprintf(w, "/* %s */\n", style.Name)
		if err := scopeCSS(w, &buf, m.scope); err != nil {
			return err
		}
	}
	return nil
}

// scopeCSS copies rules from r to w, prefixing each selector with scope.
// chroma writes one rule per line, optionally led by a comment.
func scopeCSS(w io.Writer, r io.Reader, scope string) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/*") {
			if _, rest, ok := strings.Cut(line, "*/"); ok {
				line = strings.TrimSpace(rest)
			}
		}
		if line == "" {
			continue
		}
		if scope != "" {
			line = scope + " " + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

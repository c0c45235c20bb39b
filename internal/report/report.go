// Package report renders register maps of analyzed bitfields as Markdown
// or HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"

	"github.com/alexhholmes/bitfield/internal/analyzer"
	"github.com/alexhholmes/bitfield/internal/parser"
)

// Markdown returns a register map for containers: one section per container
// with a field table and a bit map per byte.
func Markdown(title string, containers []*analyzer.Container) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	for _, c := range containers {
		writeContainer(&b, c)
	}
	return b.Bytes()
}

// HTML renders Markdown as a complete HTML page.
func HTML(title string, containers []*analyzer.Container) []byte {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(Markdown(title, containers), p, r)
}

func writeContainer(b *bytes.Buffer, c *analyzer.Container) {
	fmt.Fprintf(b, "## %s\n\n", escape(c.Name))
	if len(c.Doc) > 0 {
		b.WriteString(escape(strings.Join(c.Doc, "\n")))
		b.WriteString("\n\n")
	}

	vis := "private"
	if c.Pub {
		vis = "pub"
	}
	fmt.Fprintf(b, "`%s`, %d bits, %s, data mask `%#0*x`", c.Type.Name, c.Width, vis, c.ByteCount*2, c.DataMask)
	if c.Overlap == parser.OverlapDeny {
		b.WriteString(", overlap denied")
	}
	b.WriteString("\n\n")

	if len(c.Fields) == 0 {
		b.WriteString("No fields.\n\n")
		return
	}

	b.WriteString("| Field | Bits | Type | Returns | Transform | Description |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, f := range c.Fields {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			escape(f.Name), bits(f.Range), escape(f.Type.Name), escape(f.Output.Name),
			escape(transform(f.Transform)), escape(strings.Join(f.Doc, " ")))
	}
	b.WriteString("\n")

	writeBitMap(b, c)
}

// bits formats a range the way it is written in declarations, closed when
// it is a single bit.
func bits(r analyzer.Range) string {
	if r.Len() == 1 {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

func transform(t *analyzer.Transform) string {
	switch {
	case t == nil:
		return ""
	case t.Kind == parser.FuncTransform:
		return t.Func
	}
	return fmt.Sprintf("|%s| %s", t.Param, t.Expr)
}

// writeBitMap writes one row per byte, most significant bit first. A bit
// claimed by several fields lists all of them.
func writeBitMap(b *bytes.Buffer, c *analyzer.Container) {
	b.WriteString("| Byte | 7 | 6 | 5 | 4 | 3 | 2 | 1 | 0 |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for i := c.ByteCount - 1; i >= 0; i-- {
		fmt.Fprintf(b, "| %d |", i)
		for bit := 8*i + 7; bit >= 8*i; bit-- {
			var owners []string
			for _, f := range c.Fields {
				if bit >= f.Range.Start && bit < f.Range.End {
					owners = append(owners, escape(f.Name))
				}
			}
			if len(owners) == 0 {
				b.WriteString(" - |")
				continue
			}
			fmt.Fprintf(b, " %s |", strings.Join(owners, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

func escape(s string) string {
	return escaper.Replace(s)
}

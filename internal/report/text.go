package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mrafa3/journal-prompts/internal/prompts"
)

// printer writes lines to w, optionally colored.
type printer struct {
	w     io.Writer
	color bool
	err   error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// status prints a status line with only the symbol colored.
func (p *printer) status(symbol string, attr color.Attribute, format string, args ...any) {
	if p.err != nil {
		return
	}
	c := color.New(attr)
	if !p.color {
		c.DisableColor()
	}
	_, p.err = fmt.Fprintf(p.w, "%s %s\n", c.Sprint(symbol), fmt.Sprintf(format, args...))
}

// Text writes the human-readable report.
func Text(w io.Writer, res *prompts.Result, opts Options) error {
	p := &printer{w: w, color: opts.Color}

	if res.Fatal != nil {
		p.status("✗", color.FgRed, "Error: %v", res.Fatal)
		return p.err
	}

	p.line("Total prompts: %d", res.Total)
	p.line("Unique prompts: %d", res.Unique)
	p.line("")
	p.line("Category distribution:")
	for _, c := range res.Categories {
		p.line("  %s: %d", c.Name, c.Count)
	}
	p.line("")

	switch res.Outcome() {
	case prompts.OutcomeFailed:
		p.status("✗", color.FgRed, "Found %d error(s):", len(res.Errors))
		shown := res.Errors
		if opts.MaxErrors >= 0 && len(shown) > opts.MaxErrors {
			shown = shown[:opts.MaxErrors]
		}
		for _, e := range shown {
			p.line("  - %s", e.Message)
		}
		if hidden := len(res.Errors) - len(shown); hidden > 0 {
			p.line("  ... and %d more", hidden)
		}
	case prompts.OutcomeBelowTarget:
		p.status("⚠", color.FgYellow, "Warning: Only %d prompts (target: %d)", res.Total, res.MinPrompts)
	default:
		p.status("✓", color.FgGreen, "All validations passed!")
	}

	return p.err
}

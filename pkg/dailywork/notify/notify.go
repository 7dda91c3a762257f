// Package notify presents batch summaries to the teacher.
package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ButtonSet is the set of buttons a dialog offers.
type ButtonSet int

const (
	ButtonsOK ButtonSet = iota
	ButtonsOKCancel
)

func (b ButtonSet) String() string {
	if b == ButtonsOKCancel {
		return "[ OK ]  [ Cancel ]"
	}
	return "[ OK ]"
}

// Well-known dialog titles.
const (
	TitleSuccess = "Success"
	TitlePartial = "Completed with errors"
	TitleError   = "Error"
)

// Notifier shows a summary dialog.
type Notifier interface {
	Alert(title, body string, buttons ButtonSet) error
}

// Console renders dialogs as a framed block of text.
type Console struct {
	out     io.Writer
	noColor bool
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// WithoutColor disables ANSI colors.
func (c *Console) WithoutColor() *Console {
	c.noColor = true
	return c
}

// Alert writes a framed dialog: title, body, then the button row.
func (c *Console) Alert(title, body string, buttons ButtonSet) error {
	titleColor := color.New(titleAttr(title), color.Bold)
	if c.noColor {
		titleColor.DisableColor()
	} else {
		titleColor.EnableColor()
	}

	rule := strings.Repeat("─", 48)
	if _, err := fmt.Fprintln(c.out, rule); err != nil {
		return err
	}
	if _, err := titleColor.Fprintln(c.out, title); err != nil {
		return err
	}
	if body != "" {
		if _, err := fmt.Fprintln(c.out, body); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(c.out, "%s\n%s\n", buttons, rule)
	return err
}

func titleAttr(title string) color.Attribute {
	switch title {
	case TitleSuccess:
		return color.FgGreen
	case TitlePartial:
		return color.FgYellow
	case TitleError:
		return color.FgRed
	default:
		return color.FgCyan
	}
}

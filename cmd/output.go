package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

// printer writes prefixed status lines to a command's output stream.
type printer struct {
	w io.Writer
}

func (p printer) info(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func (p printer) success(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

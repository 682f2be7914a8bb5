package errtypes

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
	ansiReset  = "\x1b[0m"
)

// DumpOnThrow renders e's frame chain to w in the teacher's style: the
// error kind and message in red, then each frame's function name with a
// basename-only source file, dimmed. Colour is applied only when w is a
// real terminal (isatty), matching §4.9's "colored (isatty-gated)" rule —
// a redirected-to-file run gets plain text so logs stay greppable.
func DumpOnThrow(w io.Writer, e *Error) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	red, yellow, dim, reset := "", "", "", ""
	if color {
		red, yellow, dim, reset = ansiRed, ansiYellow, ansiDim, ansiReset
	}
	fmt.Fprintf(w, "%s%s: %s%s\n", red, e.kind, e.message, reset)
	for _, fr := range e.stack {
		file := fr.File
		if i := strings.LastIndexByte(file, '/'); i >= 0 {
			file = file[i+1:]
		}
		loc := file
		if fr.Line > 0 {
			loc = fmt.Sprintf("%s:%d", file, fr.Line)
		}
		fmt.Fprintf(w, "  %sat %s%s %s(%s)%s\n", yellow, fr.FuncName, reset, dim, loc, reset)
	}
}

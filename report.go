package snippet

import (
	"fmt"
	"io"
	"strings"
)

func printers(w io.Writer) (printh func(header ...any), println func(a ...any), printsep func()) {
	printsep = func() {
		fmt.Fprintln(w, "-----------------------------------------------------------------------------")
	}
	println = func(a ...any) {
		fmt.Fprintln(w, a...)
	}
	printh = func(header ...any) {
		printsep()
		println(header...)
		printsep()
	}
	return
}

// PrintResult writes a plain text report of r
func PrintResult(w io.Writer, r Result) {
	printh, println, _ := printers(w)
	printh("Detected language:", r.Language)
	if r.Err != nil && r.Message != "" {
		println("Error:", r.Message)
		return
	}
	if r.Output != "" {
		printh("Output / Logs:")
		println(strings.TrimRight(r.Output, "\n"))
	}
	if r.Markup != "" {
		printh("Interpreted markup:")
		println(r.Markup)
	}
	if r.Structure != nil {
		printh("Structure:")
		if r.Structure.Title != "" {
			println("title:", r.Structure.Title)
		}
		for _, h := range r.Structure.Headings {
			println(strings.Repeat("  ", h.Level-1)+fmt.Sprint("h", h.Level, ":"), h.Text)
		}
		println("elements:", r.Structure.Elements, "styled:", r.Structure.Styled)
	}
	if len(r.Warnings) > 0 {
		printh("Warnings:")
		for _, warning := range r.Warnings {
			println(warning.String())
		}
	}
}

package tui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"stickies/internal/canvas"
	"stickies/internal/errs"
	"stickies/internal/render"
)

// exportVisualTXT writes the document as it currently appears on screen,
// without colors, to filename.
func exportVisualTXT(filename string, doc *canvas.Document, cols, rows int, cellW, cellH float64) error {
	if doc.Graph().Len() == 0 {
		return errs.New(errs.CodeNothingToExport, "nothing to export")
	}
	s := render.NewSurface(cols, rows, cellW, cellH, render.Theme{})
	doc.Draw(s)

	f, err := os.Create(filename)
	if err != nil {
		return errs.Wrap(errs.CodeIO, err, "create %s", filename)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range s.Plain() {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	if err := w.Flush(); err != nil {
		return errs.Wrap(errs.CodeIO, err, "write %s", filename)
	}
	return nil
}

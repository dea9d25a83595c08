package app

import (
	"fmt"
	"strings"

	"github.com/Faultbox/fieldplot/internal/drawing"
)

// hudTitle is the window title status line.
func hudTitle(kind drawing.Kind, active *drawing.Session, invalid bool, fields int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s", title, kind)
	if active != nil {
		fmt.Fprintf(&b, " | %d/%d points", len(active.Points()), kind.MinPoints())
	}
	if invalid {
		b.WriteString(" | slope too steep")
	}
	fmt.Fprintf(&b, " | %d fields", fields)
	return b.String()
}

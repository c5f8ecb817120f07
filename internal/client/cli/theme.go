package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memoria/internal/client/theme"
)

// ToggleTheme flips between light and dark. A failed save is reported but
// the new theme stays active.
func (a *App) ToggleTheme(ctx context.Context) error {
	err := a.theme.Toggle(ctx)
	p := a.theme.Palette()
	printlnFn("Theme:", colorize(p.Primary, string(a.theme.Mode())))
	if err != nil {
		printlnFn("Warning: the theme could not be saved.")
	}
	return nil
}

// colorize wraps s in a 24-bit ANSI foreground color. Unparseable colors
// leave s unchanged.
func colorize(hex, s string) string {
	r, g, b, ok := theme.RGB(hex)
	if !ok {
		return s
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
}

package cli

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/memoria/internal/client/services"
	"github.com/dmitrijs2005/memoria/internal/client/session"
	"github.com/dmitrijs2005/memoria/internal/client/theme"
	"github.com/dmitrijs2005/memoria/internal/logging"
)

// App is the terminal client. It holds no auth state of its own; the
// session store is the single source.
type App struct {
	session   *session.Store
	memorials services.MemorialService
	theme     *theme.Store
	logger    logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	now       func() time.Time
}

// Deps are the collaborators of App.
type Deps struct {
	Session   *session.Store
	Memorials services.MemorialService
	Theme     *theme.Store
	Logger    logging.Logger
	In        io.Reader
	Out       io.Writer
}

func NewApp(d Deps) *App {
	return &App{
		session:   d.Session,
		memorials: d.Memorials,
		theme:     d.Theme,
		logger:    d.Logger.With("component", "cli"),
		reader:    bufio.NewReader(d.In),
		out:       d.Out,
		now:       time.Now,
	}
}

// Run loads the theme, restores the session and serves commands until EOF
// or exit.
func (a *App) Run(ctx context.Context) {
	defer a.session.Close()

	_ = a.theme.Load(ctx)
	a.session.Start(ctx)

	printlnFn("Welcome to memoria (type 'help' for commands)")
	if u := a.session.Snapshot().User; u != nil {
		printlnFn("Signed in as", u.Name)
	}

	runREPL(ctx, a, a.prompt, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Status == session.Authenticated
}

func (a *App) prompt() string {
	p := a.theme.Palette()
	s := "memoria"
	if u := a.session.Snapshot().User; u != nil {
		s += " (" + u.Name + ")"
	}
	return colorize(p.Primary, s) + "> "
}

// Package cli provides the interactive memoria terminal client.
//
// The REPL is a thin layer over the core: the session store for sign-in
// state, the memorial service for reading and creating memorials, and the
// theme store for the prompt colors. Forms are validated with package forms
// before any remote call is made.
//
// Commands:
//   - help, register, login, logout, whoami
//   - list, mine, show <id>, create
//   - theme
//   - exit | quit
package cli

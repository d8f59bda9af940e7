// Package setup implements the interactive first-run configuration wizard.
package setup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hy4ri/tuidoist/internal/config"
)

// TokenURL is where users create a personal API token.
const TokenURL = "https://app.todoist.com/app/settings/integrations/developer"

// Options wires the wizard to its terminal. Zero values use the process stdio.
type Options struct {
	In         io.Reader
	Out        io.Writer
	ConfigPath string
}

type wizard struct {
	in         *bufio.Reader
	secretFd   int
	secret     bool
	out        io.Writer
	configPath string

	title   *color.Color
	ok      *color.Color
	warn    *color.Color
	subtle  *color.Color
	keyword *color.Color
}

// Run asks for a Todoist token and stores it where the user chooses.
// Cancelling is not an error.
func Run(opts Options) error {
	w := newWizard(opts)

	w.title.Fprintln(w.out, "🔧 Tuidoist Configuration Setup")
	w.title.Fprintln(w.out, strings.Repeat("=", 32))
	fmt.Fprintln(w.out)

	cfg, err := config.Load(w.configPath)
	if err != nil {
		return err
	}

	if token, source := cfg.ResolveToken(); token != "" {
		w.ok.Fprintf(w.out, "✓ An API token is already configured (%s): %s\n", source, mask(token))
		fmt.Fprintln(w.out, "  Continuing will replace it.")
		fmt.Fprintln(w.out)
	}

	choice, err := w.menu()
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return w.saveToConfig(cfg)
	case "2":
		return w.saveToKeyring()
	case "3":
		w.envInstructions()
		return nil
	case "4":
		return w.removeFromKeyring()
	default:
		w.warn.Fprintln(w.out, "Setup cancelled.")
		return nil
	}
}

func newWizard(opts Options) *wizard {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	w := &wizard{
		in:         bufio.NewReader(in),
		out:        out,
		configPath: opts.ConfigPath,
		title:      color.New(color.FgCyan, color.Bold),
		ok:         color.New(color.FgGreen),
		warn:       color.New(color.FgYellow),
		subtle:     color.New(color.Faint),
		keyword:    color.New(color.Bold),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w.secret = true
		w.secretFd = int(f.Fd())
	}
	return w
}

func (w *wizard) menu() (string, error) {
	fmt.Fprintln(w.out, "Where should the API token be stored?")
	fmt.Fprintln(w.out, "  1) Config file")
	fmt.Fprintln(w.out, "  2) System keyring")
	fmt.Fprintln(w.out, "  3) Environment variable or .env file")
	fmt.Fprintln(w.out, "  4) Remove the token from the system keyring")
	fmt.Fprintln(w.out, "  5) Exit")

	for {
		fmt.Fprint(w.out, "\nChoice [1-5]: ")
		line, err := w.readLine()
		if errors.Is(err, io.EOF) && line == "" {
			return "5", nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		switch line {
		case "1", "2", "3", "4", "5":
			return line, nil
		}
		w.warn.Fprintf(w.out, "Invalid choice %q\n", line)
		if errors.Is(err, io.EOF) {
			return "5", nil
		}
	}
}

func (w *wizard) readLine() (string, error) {
	line, err := w.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

// readToken prompts for the token without echo when stdin is a terminal.
func (w *wizard) readToken() (string, error) {
	fmt.Fprintln(w.out)
	fmt.Fprint(w.out, "Get your API token from: ")
	w.keyword.Fprintln(w.out, TokenURL)
	fmt.Fprint(w.out, "API token: ")

	if w.secret {
		raw, err := term.ReadPassword(w.secretFd)
		fmt.Fprintln(w.out)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := w.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return line, nil
}

func (w *wizard) saveToConfig(cfg *config.Config) error {
	token, err := w.readToken()
	if err != nil {
		return err
	}
	if token == "" {
		w.warn.Fprintln(w.out, "Setup cancelled.")
		return nil
	}

	cfg.APIToken = token
	path, err := config.Save(cfg, "")
	if err != nil {
		return err
	}
	w.ok.Fprintf(w.out, "✓ Token saved to %s\n", path)
	w.subtle.Fprintln(w.out, "  Run tuidoist to start.")
	return nil
}

func (w *wizard) saveToKeyring() error {
	token, err := w.readToken()
	if err != nil {
		return err
	}
	if token == "" {
		w.warn.Fprintln(w.out, "Setup cancelled.")
		return nil
	}

	if err := config.SaveKeyringToken(token); err != nil {
		return err
	}
	w.ok.Fprintln(w.out, "✓ Token stored in the system keyring")
	w.subtle.Fprintln(w.out, "  Run tuidoist to start.")
	return nil
}

func (w *wizard) removeFromKeyring() error {
	if err := config.ClearKeyringToken(); err != nil {
		return err
	}
	w.ok.Fprintln(w.out, "✓ Token removed from the system keyring")
	return nil
}

func (w *wizard) envInstructions() {
	fmt.Fprintln(w.out)
	fmt.Fprint(w.out, "Get your API token from: ")
	w.keyword.Fprintln(w.out, TokenURL)
	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, "Then either export it in your shell profile:")
	w.keyword.Fprintf(w.out, "  export %s=\"your-token\"\n", config.TokenEnv)
	fmt.Fprintln(w.out)
	fmt.Fprintf(w.out, "or add it to a %s file in the directory you start tuidoist from:\n", config.DotEnvFile)
	w.keyword.Fprintf(w.out, "  %s=your-token\n", config.TokenEnv)
	fmt.Fprintln(w.out)
	w.subtle.Fprintln(w.out, "A .env file takes precedence over the config file, which takes precedence over the environment.")
}

func mask(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + strings.Repeat("*", 8)
}

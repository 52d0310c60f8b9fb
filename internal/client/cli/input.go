package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// secretReader reads a line from the terminal without echo.
type secretReader func() ([]byte, error)

func terminalSecret() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// ask prints "label: " and returns the next input line, trimmed.
// A final line without a newline is accepted.
func (a *App) ask(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askSecret is ask without echo.
func (a *App) askSecret(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	b, err := a.readSecret()
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// intArgs parses exactly n integer arguments of a command.
func intArgs(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numeric argument(s), got %d", n, len(args))
	}
	out := make([]int, n)
	for i, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		out[i] = v
	}
	return out, nil
}

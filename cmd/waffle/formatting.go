package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setupStyling turns pterm styling off unless w is a terminal and NO_COLOR is unset.
func setupStyling(w io.Writer) {
	if isTerminal(w) && os.Getenv("NO_COLOR") == "" {
		pterm.EnableStyling()
		return
	}
	pterm.DisableStyling()
}

func formatBold(s string) string {
	return pterm.Bold.Sprint(s)
}

func formatState(enabled bool) string {
	if enabled {
		return pterm.FgGreen.Sprint("on")
	}
	return pterm.FgGray.Sprint("off")
}

func formatTarget(target string, ok bool) string {
	if !ok {
		return pterm.FgGray.Sprint("no override")
	}
	return pterm.FgCyan.Sprint(target)
}

func formatError(err error) string {
	return pterm.Error.Sprint(err.Error())
}

// renderTable writes rows with the first row as header.
func renderTable(w io.Writer, rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

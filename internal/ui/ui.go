// Package ui provides console output helpers.
package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// PrintTable renders tabular data with a header row.
func PrintTable(data [][]string, writer io.Writer) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}

func Green(a any) string {
	return pterm.Green(a)
}

func Red(a any) string {
	return pterm.Red(a)
}

func Yellow(a any) string {
	return pterm.Yellow(a)
}

func Highlight(a any) string {
	return pterm.LightWhite(a)
}

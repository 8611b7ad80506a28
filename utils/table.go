// Package utils holds small output helpers shared by the CLI commands.
package utils

import (
	"os"

	"github.com/olekukonko/tablewriter"
)

// RenderTable prints rows to stdout as an ASCII table, one header per column.
func RenderTable(headers []string, data [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header(headers)
	table.Bulk(data)
	table.Render()
}

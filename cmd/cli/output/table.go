package output

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable prints an admin listing (users, desserts, audit entries) as a
// table on stdout. An empty listing prints a short note instead of a bare
// header row.
func RenderTable(headers []string, rows [][]interface{}) {
	if len(rows) == 0 {
		fmt.Println("Nothing to show.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}

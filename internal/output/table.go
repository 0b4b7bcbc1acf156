package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/melih/grf/internal/core/domain"
)

// ContainerTable renders containers as a table.
func ContainerTable(w io.Writer, containers []domain.Container) {
	if len(containers) == 0 {
		fmt.Fprintf(w, "%s\n", text.FgYellow.Sprint("No grafana containers running"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("CONTAINER ID"),
		text.FgHiCyan.Sprint("IMAGE"),
		text.FgHiCyan.Sprint("STATUS"),
		text.FgHiCyan.Sprint("URL"),
		text.FgHiCyan.Sprint("NAME"),
	})

	for _, c := range containers {
		url := "-"
		if c.HostPort != 0 {
			url = fmt.Sprintf("http://localhost:%d/explore", c.HostPort)
		}
		t.AppendRow(table.Row{c.ShortID(), c.Image, c.Status, url, c.Name})
	}
	t.Render()
}

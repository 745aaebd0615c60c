package ui

import (
	"fmt"
	"strings"
)

// tableColumn defines a column in the endpoint table.
type tableColumn struct {
	label string
	width int
}

var tableColumns = []tableColumn{
	{"TARGET", 28},
	{"PATH", 12},
	{"STATUS", 9},
	{"PEND", 5},
	{"DONE", 5},
	{"OK", 5},
	{"FAIL", 5},
}

// rowCounts tallies how many targets sit in each status.
func (m Model) rowCounts() map[Status]int {
	counts := make(map[Status]int, 5)
	for _, t := range m.targets {
		counts[statusOf(t.Select(m.snapshot))]++
	}
	return counts
}

// renderHeader renders the top status line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	counts := m.rowCounts()

	parts := []string{styles.Logo.Render("courier")}
	for _, s := range []Status{StatusOK, StatusPending, StatusStale, StatusError} {
		if n := counts[s]; n > 0 {
			parts = append(parts, styles.StatusStyle(s).Render(fmt.Sprintf("%d %s", n, s)))
		}
	}
	parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%d targets", len(m.targets))))
	if !m.lastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+m.lastUpdated.Format("15:04:05")))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderCommandBar renders the key hints or the current notice.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	if m.notice != "" {
		return styles.Footer.Width(m.width).Render(styles.DangerText.Render(m.notice))
	}

	var hints []string
	switch m.currentView {
	case ViewLogs:
		follow := "off"
		if m.logFollow {
			follow = "on"
		}
		hints = []string{"<space> follow:" + follow, "<l/esc> endpoints", "<j/k> scroll"}
	default:
		hints = []string{"<r> request", "<R> request all", "<l> logs", "<T> theme", "<h> help", "<e> exit"}
	}
	return styles.Footer.Width(m.width).Render(strings.Join(hints, "  "))
}

// renderTable renders one row per target with its lifecycle chip and
// counters.
func (m Model) renderTable() string {
	styles := m.theme.Styles()

	var header strings.Builder
	for _, col := range tableColumns {
		header.WriteString(padRight(col.label, col.width))
		header.WriteString(" ")
	}
	header.WriteString("URL")

	lines := []string{styles.MutedText.Bold(true).Render(truncate(header.String(), m.width))}
	if len(m.targets) == 0 {
		lines = append(lines, styles.FaintText.Render("no targets configured"))
		return strings.Join(lines, "\n")
	}

	fixed := 0
	for _, col := range tableColumns {
		fixed += col.width + 1
	}

	for i, t := range m.targets {
		ps := t.Select(m.snapshot)
		status := statusOf(ps)

		chip := styles.StatusStyle(status).Width(tableColumns[2].width).Render(string(status))
		cells := []string{
			padRight(truncate(t.Label(), tableColumns[0].width), tableColumns[0].width),
			padRight(truncate(formatPath(t.Path()), tableColumns[1].width), tableColumns[1].width),
			chip,
			padRight(fmt.Sprint(ps.PendingRequests), tableColumns[3].width),
			padRight(fmt.Sprint(ps.CompletedRequests), tableColumns[4].width),
			padRight(fmt.Sprint(ps.SuccessfulRequests), tableColumns[5].width),
			padRight(fmt.Sprint(ps.FailedRequests()), tableColumns[6].width),
			truncate(t.Endpoint.URL(t.Params), max(m.width-fixed, 0)),
		}
		row := strings.Join(cells, " ")

		style := styles.Text
		if i == m.selectedRow {
			style = styles.Selected
		}
		lines = append(lines, style.Render(row))
	}
	return strings.Join(lines, "\n")
}

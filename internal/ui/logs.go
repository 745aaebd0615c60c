package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/courier/internal/logtail"
)

// logTailLines is how many lines of the log file the log view keeps.
const logTailLines = 500

func readLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logLinesMsg{"error: " + err.Error()}
		}
		return logLinesMsg(lines)
	}
}

func (m *Model) updateLogViewport() {
	styles := m.theme.Styles()
	if len(m.logLines) == 0 {
		m.logViewport.SetContent(styles.FaintText.Render("no log lines yet"))
		return
	}

	rendered := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		rendered = append(rendered, renderLogLine(styles, logtail.Parse(line)))
	}
	m.logViewport.SetContent(strings.Join(rendered, "\n"))
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

// renderLogLine colors one parsed entry: time, level, message, then attrs.
func renderLogLine(styles Styles, e logtail.Entry) string {
	if e.Level == "" && e.Time == "" {
		return styles.Text.Render(e.Message)
	}

	var parts []string
	if e.Time != "" {
		parts = append(parts, styles.FaintText.Render(shortTime(e.Time)))
	}
	parts = append(parts, levelStyle(styles, e.Level).Render(padRight(e.Level, 5)))
	parts = append(parts, styles.Text.Render(e.Message))
	for _, a := range e.Attrs {
		parts = append(parts, styles.MutedText.Render(a.Key+"=")+styles.InfoText.Render(a.Value))
	}
	return strings.Join(parts, " ")
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.SuccessText
	}
}

// shortTime keeps the clock part of an RFC 3339 timestamp.
func shortTime(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+9 {
		return ts[i+1 : i+9]
	}
	return ts
}

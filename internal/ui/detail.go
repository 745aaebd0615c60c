package ui

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/five82/courier/internal/endpoint"
	"github.com/five82/courier/internal/state"
)

// maxStackLines caps how much of a captured stack the detail pane shows.
const maxStackLines = 12

func (m *Model) updateDetailViewport() {
	m.detailViewport.SetContent(m.renderDetail())
}

// renderDetail describes the selected target: its request, counters, and
// either the last error or the current data.
func (m Model) renderDetail() string {
	t, ok := m.selectedTarget()
	if !ok {
		return ""
	}
	styles := m.theme.Styles()
	ps := t.Select(m.snapshot)

	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(styles.MutedText.Render(padRight(label, 12)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(styles.AccentText.Bold(true).Render(t.Label()))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(statusOf(ps)).Render(string(statusOf(ps))))
	b.WriteString("\n\n")

	field("url", t.Endpoint.URL(t.Params))
	field("path", formatPath(t.Path()))
	field("requests", fmt.Sprintf("%d pending, %d completed, %d ok, %d failed",
		ps.PendingRequests, ps.CompletedRequests, ps.SuccessfulRequests, ps.FailedRequests()))

	if info := endpoint.SelectError(ps); info != nil {
		b.WriteString("\n")
		b.WriteString(renderError(styles, info))
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("data"))
	b.WriteString("\n")
	if !endpoint.SelectHasCompletedOnce(ps) && ps.Data == nil {
		b.WriteString(styles.FaintText.Render("waiting for first response"))
	} else {
		b.WriteString(styles.Text.Render(formatData(ps.Data)))
	}
	return b.String()
}

func renderError(styles Styles, info *endpoint.ErrorInfo) string {
	var b strings.Builder
	b.WriteString(styles.DangerText.Render(info.Name))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(info.Message))
	b.WriteString("\n")

	for _, k := range slices.Sorted(maps.Keys(info.Fields)) {
		b.WriteString(styles.MutedText.Render("  " + k + "="))
		b.WriteString(styles.Text.Render(fmt.Sprint(info.Fields[k])))
		b.WriteString("\n")
	}

	if info.Stack != "" {
		lines := strings.Split(strings.TrimSpace(info.Stack), "\n")
		if len(lines) > maxStackLines {
			lines = append(lines[:maxStackLines], "...")
		}
		b.WriteString(styles.FaintText.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

// formatData renders response data as indented JSON, falling back to its
// Go form when it does not marshal.
func formatData(v any) string {
	if v == nil {
		return "null"
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}

// selectedTarget returns the target under the cursor.
func (m Model) selectedTarget() (state.Target, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.targets) {
		return state.Target{}, false
	}
	return m.targets[m.selectedRow], true
}

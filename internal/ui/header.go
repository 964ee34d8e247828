package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/portscope/internal/engine"
)

// renderMain renders the header, the row list, the status bar and the prompt.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	return b.String()
}

// renderHeader shows the active query and the view flags.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	status := m.engine.Status()
	staged := m.engine.Staged()
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("portscope", styles.Logo)}

	pattern := staged.Query.Pattern
	if pattern == "" {
		parts = append(parts, bg.Render("no search", styles.FaintText))
	} else {
		patternStyle := styles.AccentText
		if !status.Valid {
			patternStyle = styles.DangerText
		}
		parts = append(parts, bg.Render("/"+truncate(visible(pattern), 32), patternStyle))
	}

	flag := func(label string, on bool) string {
		if on {
			return bg.Render(label, styles.SuccessText)
		}
		return bg.Render(strings.ToLower(label), styles.FaintText)
	}
	flags := []string{
		flag("RE", staged.Query.Regex),
		flag("CASE", staged.Query.CaseSensitive),
		flag("XLINE", staged.Query.CrossLine),
	}
	parts = append(parts, bg.Join(flags, " "))

	filterLabel := "FILTER"
	if !compact {
		filterLabel = fmt.Sprintf("FILTER ±%d", staged.Context)
	}
	parts = append(parts, flag(filterLabel, status.Filtering))
	if staged.Replacement != "" || status.Preview {
		parts = append(parts, flag("PREVIEW", status.Preview))
	}

	parts = append(parts, bg.Render(strings.ToUpper(status.Mode.String()), styles.InfoText))

	if status.AutoFollow {
		parts = append(parts, bg.Render("● FOLLOW", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("○ PAUSED", styles.WarningText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// renderStatus shows counts, the match position and transient messages.
func (m Model) renderStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	status := m.engine.Status()

	parts := []string{
		bg.Render("Records:", styles.MutedText) + bg.Space() +
			bg.Render(fmt.Sprintf("%d", status.Total), styles.Text),
	}
	if status.Rows != status.Total {
		parts = append(parts,
			bg.Render("Rows:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", status.Rows), styles.Text))
	}
	if status.Dropped > 0 {
		parts = append(parts,
			bg.Render("Dropped:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", status.Dropped), styles.WarningText))
	}
	if part := matchPart(status, styles, bg); part != "" {
		parts = append(parts, part)
	}
	if status.Searching {
		parts = append(parts, bg.Render("searching…", styles.FaintText))
	}
	if m.message != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.message, max(m.width/2, 20)), styles.InfoText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Width(m.width).
		MaxHeight(1).
		Padding(0, 1).
		Render(bg.Join(parts, "  "))
}

func matchPart(status engine.Status, styles Styles, bg BgStyle) string {
	switch {
	case !status.Valid:
		msg := "invalid pattern"
		if status.PatternErr != nil {
			msg = status.PatternErr.Error()
		}
		return bg.Render("!", styles.DangerText) + bg.Space() + bg.Render(truncate(msg, 60), styles.DangerText)
	case status.Inputs.Query.Pattern == "":
		return ""
	case !status.Mode.Searchable():
		return bg.Render("search off in hex", styles.FaintText)
	case status.Matches == 0:
		return bg.Render("no matches", styles.WarningText)
	}
	return bg.Render("Match:", styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d/%d", status.Position, status.Matches), styles.AccentText)
}

// renderPrompt shows the active line editor, or the short key help.
func (m Model) renderPrompt() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	switch m.input {
	case inputSearch:
		return bg.FillLine(m.searchInput.View(), m.width)
	case inputReplace:
		return bg.FillLine(m.replaceInput.View(), m.width)
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		hints = append(hints,
			bg.Render("<"+h.Key+">", styles.AccentText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	return bg.FillLine(bg.Join(hints, "  "), m.width)
}

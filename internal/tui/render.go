package tui

import (
	"fmt"
	"strings"

	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/theme"
)

// renderAnalysis formats an analysis result for the side panel. Fields the
// backend did not send are skipped.
func renderAnalysis(st styles, res *model.AnalysisResult, strategy model.Strategy, width int) string {
	if res == nil {
		return st.hint.Render("  no analysis yet, press ctrl+a")
	}
	s, err := res.Summary()
	if err != nil {
		return st.err.Render("  unreadable analysis: " + err.Error())
	}

	var b strings.Builder
	scoreStyle := st.scoreLow
	switch {
	case s.MatchingScore >= 70:
		scoreStyle = st.scoreHigh
	case s.MatchingScore >= 40:
		scoreStyle = st.scoreMid
	}
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%.0f%%  %s", s.MatchingScore, s.Level())))
	b.WriteByte('\n')
	b.WriteString(st.hint.Render("via " + strategyLabel(strategy)))
	b.WriteString("\n")

	wrapWidth := max(width-4, 20)
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteByte('\n')
		b.WriteString(divider(st, title, wrapWidth) + "\n")
		for _, it := range items {
			if it == "" {
				continue
			}
			b.WriteString(st.body.Render(indent(wordWrap(it, wrapWidth-4), "  • ", "    ")) + "\n")
		}
	}
	section("Reasons", s.Reasons)
	section("Missing skills", s.MissingSkills)
	section("Nice to have", s.NiceToHave)
	section("Suggestions", s.Suggestions)

	if s.Note != "" {
		b.WriteByte('\n')
		b.WriteString(st.hint.Render(wordWrap(s.Note, wrapWidth)) + "\n")
	}
	return b.String()
}

// RenderAnalysis formats res for printing outside the full-screen builder.
func RenderAnalysis(res *model.AnalysisResult, strategy model.Strategy, pal theme.Palette, width int) string {
	return renderAnalysis(newStyles(pal), res, strategy, width)
}

func strategyLabel(s model.Strategy) string {
	switch s {
	case model.StrategyFallback:
		return "fast analysis (AI unavailable)"
	case model.StrategyFast:
		return "fast analysis"
	default:
		return "AI analysis"
	}
}

func divider(st styles, label string, width int) string {
	label = "── " + label + " "
	fill := strings.Repeat("─", max(width-len([]rune(label)), 3))
	return st.divider.Render(label + fill)
}

// indent prefixes the first line with first and the rest with rest.
func indent(text, first, rest string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = rest + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

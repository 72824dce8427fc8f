package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/codequal/codequal/internal/domain"
)

var (
	accent    = lipgloss.Color("#D97706")
	fg        = lipgloss.Color("#E8E6E3")
	dim       = lipgloss.Color("#6B7280")
	faint     = lipgloss.Color("#3F3F46")
	success   = lipgloss.Color("#22C55E")
	danger    = lipgloss.Color("#EF4444")
	warning   = lipgloss.Color("#F59E0B")
	info      = lipgloss.Color("#8B949E")
	lime      = lipgloss.Color("#A3E635")
	orange    = lipgloss.Color("#FB923C")
	skipColor = lipgloss.Color("#4B5563")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A": success,
		"B": lime,
		"C": warning,
		"D": orange,
		"F": danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// messageWidth bounds a finding line so long messages do not wrap.
const messageWidth = 72

// RenderReport formats a report for the terminal: a score box, one section
// per category with its count and first topN findings, per-file errors, and a
// closing "Quality score: N/100" line.
func RenderReport(r *domain.QualityReport, topN int) string {
	var b strings.Builder

	grade := r.Grade()
	title := headerStyle.Render("codequal")
	subtitle := dimStyle.Render(fmt.Sprintf("%d %s files scanned", r.TotalFiles, r.Language))
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(FormatScore(r.QualityScore) + " / 100")
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(grade)

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + gradeStyled))
	b.WriteString("\n\n")

	for _, c := range domain.AllCategories {
		renderCategory(&b, c, r.Findings[c], topN)
	}

	if len(r.Errors) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n",
			titleStyle.Render("Errors"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(r.Errors))),
		)
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "    %s %s  %s\n", errorTagStyle.Render("error"), fileStyle.Render(e.File), dimStyle.Render(e.Err))
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")
	if r.TotalFindings() == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n\n")
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Quality score: %s/100", FormatScore(r.QualityScore))))
	b.WriteString("\n")
	return b.String()
}

func renderCategory(b *strings.Builder, c domain.Category, findings []domain.Finding, topN int) {
	count := len(findings)
	countStyle := passStyle
	if count > 0 {
		countStyle = warnStyle
		if c == domain.CategorySecurity {
			countStyle = failStyle
		}
	}
	fmt.Fprintf(b, "  %s %s\n", catNameStyle.Render(padRight(string(c), 14)), countStyle.Render(strconv.Itoa(count)))

	shown := topFindings(findings, topN)
	for _, f := range shown {
		renderFinding(b, f)
	}
	if rest := count - len(shown); rest > 0 {
		fmt.Fprintf(b, "    %s\n", skipStyle.Render(fmt.Sprintf("… %d more", rest)))
	}
}

// topFindings returns the first n findings, security findings ordered by
// severity first.
func topFindings(findings []domain.Finding, n int) []domain.Finding {
	if n <= 0 || len(findings) == 0 {
		return nil
	}
	sorted := append([]domain.Finding(nil), findings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	loc := f.File
	if f.Line > 0 {
		loc = fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	msg := truncate(f.Message, messageWidth)
	if f.Severity != "" {
		fmt.Fprintf(b, "    %s %s\n", severityTag(f.Severity), fileStyle.Render(loc))
		fmt.Fprintf(b, "         %s\n", dimStyle.Render(msg))
		return
	}
	fmt.Fprintf(b, "    %s %s\n", fileStyle.Render(loc), dimStyle.Render(msg))
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityHigh:
		return errorTagStyle.Render("high  ")
	case domain.SeverityMedium:
		return warnTagStyle.Render("medium")
	default:
		return infoTagStyle.Render("low   ")
	}
}

// FormatScore prints a score without trailing zeros: "100", "81.9".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// RenderHistory formats score history for terminal output.
func RenderHistory(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No score history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Score History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(e.QualityScore)).
			Render(FormatScore(e.QualityScore) + "/100")

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			scoreStyled,
			e.Grade,
		)

		if i > 0 {
			diff := e.QualityScore - entries[i-1].QualityScore
			if diff > 0 {
				line += "  " + passStyle.Render("↑"+FormatScore(roundTenth(diff)))
			} else if diff < 0 {
				line += "  " + failStyle.Render("↓"+FormatScore(roundTenth(-diff)))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}

package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/codequal/codequal/internal/domain"
)

// RenderFixSummary lists every file the fixer touched, or would touch in a
// dry run, with the transforms that changed it.
func RenderFixSummary(s *domain.FixSummary) string {
	var out strings.Builder

	verb := "Fixed"
	if s.DryRun {
		verb = "Would fix"
	}

	changed := s.ChangedFiles()
	if changed == 0 && !hasErrors(s) {
		out.WriteString("  " + passStyle.Render("Nothing to fix.") + "\n")
		return out.String()
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Edits", "Transforms"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, r := range s.Results {
		switch {
		case r.Err != "":
			table.Append([]string{r.File, "-", "error: " + r.Err})
		case r.Changed:
			table.Append([]string{r.File, fmt.Sprintf("%d", r.Applied), strings.Join(r.Transforms, ", ")})
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("%s %d files", verb, changed),
		fmt.Sprintf("%d", s.TotalApplied()),
		"",
	})
	table.Render()

	out.WriteString("\n")
	out.WriteString(buf.String())
	return out.String()
}

// RenderFixWarning is printed before any rewrite of source files.
func RenderFixWarning(dryRun bool) string {
	if dryRun {
		return "  " + dimStyle.Render("Dry run: no files will be written.") + "\n"
	}
	return "  " + warnTagStyle.Render("warning") + " " +
		dimStyle.Render("codequal fix rewrites source files in place; review the diff before committing.") + "\n"
}

func hasErrors(s *domain.FixSummary) bool {
	for _, r := range s.Results {
		if r.Err != "" {
			return true
		}
	}
	return false
}

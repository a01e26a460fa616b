package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/catalogcheck/pkg/catalog"
	"github.com/matzehuels/catalogcheck/pkg/checker"
	"github.com/matzehuels/catalogcheck/pkg/errors"
)

// Report formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// writeReport renders res in format.
func writeReport(w io.Writer, res *checker.Result, format string) error {
	switch format {
	case formatText, "":
		writeText(w, res)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s or %s)", format, formatText, formatJSON)
	}
}

func writeText(w io.Writer, res *checker.Result) {
	if res.Len() == 0 {
		printSuccess(w, "All %d dependencies are up to date", res.Checked)
		return
	}

	for _, cat := range res.Catalogs {
		var libs, plugins []checker.UpdateResult
		for _, u := range res.ForCatalog(cat.Path) {
			if u.Dependency.Kind == catalog.Plugin {
				plugins = append(plugins, u)
			} else {
				libs = append(libs, u)
			}
		}
		if len(libs)+len(plugins) == 0 {
			continue
		}
		fmt.Fprintln(w, StyleTitle.Render(cat.Path))
		if len(libs) > 0 {
			fmt.Fprintln(w, updateTable("Library", libs))
		}
		if len(plugins) > 0 {
			fmt.Fprintln(w, updateTable("Plugin", plugins))
		}
	}

	if bt := res.BuildTool; bt != nil {
		fmt.Fprintf(w, "%s %s %s %s\n", StyleTitle.Render("Gradle"),
			styleCurrent.Render(bt.Current.String()), StyleDim.Render(iconArrow), styleUpdate.Render(bt.Update.String()))
	}
}

func updateTable(kind string, updates []checker.UpdateResult) string {
	rows := make([][]string, 0, len(updates))
	for _, u := range updates {
		module := u.ModuleID
		if u.Name != "" {
			module = u.Name + " (" + u.ModuleID + ")"
		}
		rows = append(rows, []string{u.Key, module, u.Current.String(), u.Update.String(), u.Repository.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(kind, "Module", "Current", "Update", "Repository").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 2:
				return base.Inherit(styleCurrent)
			case col == 3:
				return base.Inherit(styleUpdate)
			case col == 4:
				return base.Inherit(StyleDim)
			default:
				return base
			}
		}).
		String()
}

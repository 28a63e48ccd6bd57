package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

func formatBytes(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	value := float64(size)
	for _, unit := range units {
		value /= 1024
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
	}
	return fmt.Sprintf("%.2f %s", value, units[len(units)-1])
}

func hashColumnTitle(algo string) string {
	if algo == hashXXHash {
		return "XXH64 Hash"
	}
	return "SHA-256 Hash"
}

func renderGroupTable(groups []DuplicateGroup, algo string) string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			formatBytes(g.Size),
			g.Digest.Short(),
			strings.Join(g.Paths(), "\n"),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.border).
		BorderRow(true).
		Headers("File Size", hashColumnTitle(algo), "File Paths").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return ui.header
			}
			switch col {
			case 0:
				return ui.size
			case 1:
				return ui.digest
			default:
				return ui.path
			}
		})
	return t.Render()
}

func renderSummary(summary DeletionSummary) string {
	var b strings.Builder
	b.WriteString(ui.title.Render("--- Deletion Summary ---") + "\n")
	deleted, failed := len(summary.Report.Deleted), len(summary.Report.Failed)
	if deleted > 0 {
		b.WriteString(ui.success.Render(fmt.Sprintf("Successfully deleted %d file(s).", deleted)) + "\n")
	}
	if failed > 0 {
		b.WriteString(ui.danger.Render(fmt.Sprintf("Failed to delete %d file(s) due to errors.", failed)) + "\n")
		for _, f := range summary.Report.Failed {
			b.WriteString(fmt.Sprintf("  - %s: %v\n", f.Path, f.Err))
		}
	}
	if deleted == 0 && failed == 0 {
		b.WriteString(ui.accent.Render("No files were marked for deletion.") + "\n")
	}
	if summary.Interrupted {
		b.WriteString(ui.warning.Render("Interrupted: the remaining groups were not processed.") + "\n")
	}
	if errs := summary.KeeperErrors(); len(errs) > 0 {
		b.WriteString(ui.warning.Render(fmt.Sprintf("%d group(s) skipped because a file changed during processing.", len(errs))) + "\n")
		for _, o := range errs {
			b.WriteString(fmt.Sprintf("  - group %d: %v\n", o.Index+1, o.Err))
		}
	}
	return b.String()
}

type reportFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type reportGroup struct {
	Size   int64    `json:"size"`
	Digest string   `json:"digest"`
	Files  []string `json:"files"`
	State  string   `json:"state,omitempty"`
	Keeper string   `json:"keeper,omitempty"`
}

type reportDoc struct {
	RunID       string          `json:"run_id"`
	Root        string          `json:"root"`
	Hash        string          `json:"hash"`
	Generated   time.Time       `json:"generated"`
	Groups      []reportGroup   `json:"groups"`
	Declined    bool            `json:"declined"`
	Interrupted bool            `json:"interrupted"`
	Deleted     []string        `json:"deleted"`
	Failed      []reportFailure `json:"failed"`
}

func buildReport(result ScanResult, summary DeletionSummary, now time.Time) reportDoc {
	doc := reportDoc{
		RunID:       result.RunID,
		Root:        result.Root,
		Hash:        result.Hash,
		Generated:   now.UTC(),
		Groups:      make([]reportGroup, 0, len(result.Groups)),
		Declined:    summary.Declined,
		Interrupted: summary.Interrupted,
		Deleted:     append([]string{}, summary.Report.Deleted...),
		Failed:      make([]reportFailure, 0, len(summary.Report.Failed)),
	}
	for i, g := range result.Groups {
		rg := reportGroup{Size: g.Size, Digest: string(g.Digest), Files: g.Paths()}
		if i < len(summary.Outcomes) {
			rg.State = summary.Outcomes[i].State.String()
			if summary.Outcomes[i].Plan.Keeper.Path != "" {
				rg.Keeper = summary.Outcomes[i].Plan.Keeper.Path
			}
		}
		doc.Groups = append(doc.Groups, rg)
	}
	for _, f := range summary.Report.Failed {
		doc.Failed = append(doc.Failed, reportFailure{Path: f.Path, Error: f.Err.Error()})
	}
	return doc
}

func (d reportDoc) markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Duplicate report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n- Root: `%s`\n- Hash: %s\n- Generated: %s\n\n", d.RunID, d.Root, d.Hash, d.Generated.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Groups\n\n")
	if len(d.Groups) == 0 {
		b.WriteString("No duplicates found.\n\n")
	} else {
		b.WriteString("| # | Size | Digest | Files | State |\n|---|---|---|---|---|\n")
		for i, g := range d.Groups {
			files := make([]string, len(g.Files))
			for j, f := range g.Files {
				files[j] = "`" + f + "`"
			}
			fmt.Fprintf(&b, "| %d | %s | `%s` | %s | %s |\n", i+1, formatBytes(g.Size), Digest(g.Digest).Short(), strings.Join(files, ", "), g.State)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Deletions\n\n")
	switch {
	case d.Declined:
		b.WriteString("Deletion was skipped.\n")
	case len(d.Deleted) == 0 && len(d.Failed) == 0:
		b.WriteString("Nothing was deleted.\n")
	default:
		for _, p := range d.Deleted {
			fmt.Fprintf(&b, "- deleted `%s`\n", p)
		}
		for _, f := range d.Failed {
			fmt.Fprintf(&b, "- failed `%s`: %s\n", f.Path, f.Error)
		}
	}
	if d.Interrupted && !d.Declined {
		b.WriteString("\nDeletion was interrupted before the last group.\n")
	}
	return b.String()
}

// reportFormat maps a report path to its canonical extension, or "" when the
// extension is not supported.
func reportFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ".json"
	case ".md", ".markdown":
		return ".md"
	case ".html", ".htm":
		return ".html"
	}
	return ""
}

// exportReport writes the run to path; the format follows the extension
// (.json, .md, .html).
func exportReport(fsys afero.Fs, path string, result ScanResult, summary DeletionSummary) error {
	doc := buildReport(result, summary, time.Now())

	var data []byte
	switch reportFormat(path) {
	case ".json":
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		data = append(raw, '\n')
	case ".md":
		data = []byte(doc.markdown())
	case ".html":
		var buf bytes.Buffer
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		buf.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>Duplicate report</title></head><body>\n")
		if err := md.Convert([]byte(doc.markdown()), &buf); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		buf.WriteString("</body></html>\n")
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported report format %q (use .json, .md or .html)", filepath.Ext(path))
	}

	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type menuState int

const (
	menuMain menuState = iota
	menuCustomPath
	menuBrowseDrive
	menuExit
)

const (
	choiceCustomPath = "Enter a custom path to scan"
	choiceBrowse     = "Select a drive to browse"
	choiceExit       = "Exit"
	choiceScanDrive  = "[SCAN ENTIRE DRIVE]"
	choiceBack       = "[ Back ]"
	choiceReturn     = "Return to main menu"
)

var backKeywords = map[string]struct{}{"back": {}, "exit": {}, "[back]": {}}

// App wires the interactive front end to the scan pipeline.
type App struct {
	cfg      Config
	fs       afero.Fs
	prompt   Prompter
	volumes  VolumeLister
	workflow *Workflow
	out      io.Writer
	log      *slog.Logger

	// scan runs both phases for root; the terminal progress view by default.
	scan func(ctx context.Context, root string) (ScanResult, error)
}

func NewApp(cfg Config, fsys afero.Fs, prompt Prompter, volumes VolumeLister, in io.Reader, out io.Writer, log *slog.Logger) (*App, error) {
	if log == nil {
		log = discardLogger()
	}
	hasher, err := NewHasher(fsys, cfg.Hash)
	if err != nil {
		return nil, err
	}
	scanner := NewScanner(fsys, hasher, cfg, log)
	confirm := cfg.Confirm == nil || *cfg.Confirm

	app := &App{
		cfg:      cfg,
		fs:       fsys,
		prompt:   prompt,
		volumes:  volumes,
		workflow: NewWorkflow(fsys, prompt, NewExecutor(fsys, log), out, confirm, log),
		out:      out,
		log:      log.With(slog.String("item", "App")),
	}
	app.scan = func(ctx context.Context, root string) (ScanResult, error) {
		return runScanView(ctx, scanner, root, in, out)
	}
	return app, nil
}

func (a *App) runMenu(ctx context.Context) error {
	state := menuMain
	for state != menuExit {
		var err error
		switch state {
		case menuMain:
			state, err = a.mainMenu(ctx)
		case menuCustomPath:
			state, err = a.customPath(ctx)
		case menuBrowseDrive:
			state, err = a.browseDrive(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) mainMenu(ctx context.Context) (menuState, error) {
	fmt.Fprintln(a.out, ui.chip.Render("dupekill"))
	fmt.Fprintln(a.out, ui.subtitle.Render("Welcome to dupekill! A tool to find duplicate files.")+"\n")

	choice, err := a.prompt.Select(ctx, "What would you like to do?", []string{choiceCustomPath, choiceBrowse, choiceExit})
	if err != nil {
		if errors.Is(err, errPromptCancelled) {
			return menuExit, nil
		}
		return menuExit, err
	}
	switch choice {
	case choiceCustomPath:
		return menuCustomPath, nil
	case choiceBrowse:
		return menuBrowseDrive, nil
	default:
		return menuExit, nil
	}
}

func (a *App) customPath(ctx context.Context) (menuState, error) {
	for {
		raw, err := a.prompt.Input(ctx, "Please enter the directory path (or type 'back' to return):")
		if err != nil {
			return backToMain(err)
		}
		if _, back := backKeywords[strings.ToLower(strings.TrimSpace(raw))]; back {
			return menuMain, nil
		}
		if ok, _ := afero.IsDir(a.fs, raw); !ok {
			fmt.Fprintln(a.out, ui.danger.Render(fmt.Sprintf("Error: The path '%s' is not a valid directory. Please try again.", raw)))
			continue
		}
		if err := a.runScanner(ctx, raw); err != nil {
			return menuExit, err
		}
		return menuMain, a.pause(ctx)
	}
}

func (a *App) browseDrive(ctx context.Context) (menuState, error) {
	volumes, err := a.volumes.Volumes()
	if err != nil {
		a.log.Warn("Cannot list volumes", slog.Any("error", err))
		fmt.Fprintln(a.out, ui.danger.Render(fmt.Sprintf("An error occurred while browsing drives: %v", err)))
		return menuMain, a.pause(ctx)
	}

	drive, err := a.prompt.Select(ctx, "Which drive do you want to scan?", append(volumes, choiceBack))
	if err != nil {
		return backToMain(err)
	}
	if drive == choiceBack {
		return menuMain, nil
	}

	folders, err := listFolders(a.fs, drive)
	if err != nil {
		a.log.Warn("Cannot list folders", slog.String("path", drive), slog.Any("error", err))
		fmt.Fprintln(a.out, ui.danger.Render(fmt.Sprintf("Could not access folders in %s. Try running as administrator.", drive)))
		return menuMain, a.pause(ctx)
	}

	options := append([]string{choiceScanDrive}, folders...)
	folder, err := a.prompt.Select(ctx, "Which folder do you want to scan?", append(options, choiceBack))
	if err != nil {
		return backToMain(err)
	}
	switch folder {
	case choiceBack:
		return menuMain, nil
	case choiceScanDrive:
		err = a.runScanner(ctx, drive)
	default:
		err = a.runScanner(ctx, filepath.Join(drive, folder))
	}
	if err != nil {
		return menuExit, err
	}
	return menuMain, a.pause(ctx)
}

func (a *App) pause(ctx context.Context) error {
	_, err := a.prompt.Select(ctx, "Scan finished.", []string{choiceReturn})
	if err == nil {
		return nil
	}
	_, err = backToMain(err)
	return err
}

// backToMain handles a failed prompt below the main menu. Esc and ctrl+c
// both abandon the current step; anything else ends the loop.
func backToMain(err error) (menuState, error) {
	if errors.Is(err, errPromptCancelled) || errors.Is(err, ErrInterrupted) {
		return menuMain, nil
	}
	return menuExit, err
}

// runScanner scans root, shows the duplicate groups and hands them to the
// deletion workflow. An interrupted scan or workflow still ends here, so the
// caller gets control back; only a broken prompt is returned.
func (a *App) runScanner(ctx context.Context, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	if err := ValidateRoot(a.fs, abs); err != nil {
		a.log.Warn("Invalid root", slog.Any("error", err))
		fmt.Fprintln(a.out, ui.danger.Render(fmt.Sprintf("Error: Invalid directory path '%s'", abs)))
		return nil
	}

	fmt.Fprintln(a.out, ui.accent.Render("\nScanning directory: ")+abs)
	result, err := a.scan(ctx, abs)
	if err != nil {
		if errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled) {
			a.log.Info("Scan interrupted", slog.String("root", abs))
			fmt.Fprintln(a.out, ui.warning.Render("\nScan interrupted."))
			return nil
		}
		a.log.Error("Scan failed", slog.Any("error", err))
		fmt.Fprintln(a.out, ui.danger.Render(fmt.Sprintf("Error: %v", err)))
		return nil
	}

	var summary DeletionSummary
	switch {
	case result.Buckets == 0:
		fmt.Fprintln(a.out, ui.warning.Render("\nNo files with matching sizes found. No duplicates."))
	case len(result.Groups) == 0:
		fmt.Fprintln(a.out, ui.accent.Render(fmt.Sprintf("\nFound %d groups of files with matching sizes.", result.Buckets)))
		fmt.Fprintln(a.out, ui.success.Render("Scan complete."))
		fmt.Fprintln(a.out, ui.warning.Render("No content-identical duplicates found."))
	default:
		fmt.Fprintln(a.out, ui.accent.Render(fmt.Sprintf("\nFound %d groups of files with matching sizes.", result.Buckets)))
		fmt.Fprintln(a.out, ui.success.Render("Scan complete."))
		fmt.Fprintln(a.out, ui.title.Render(fmt.Sprintf("Found %d groups of confirmed duplicate files", len(result.Groups))))
		fmt.Fprintln(a.out, renderGroupTable(result.Groups, result.Hash))

		summary, err = a.workflow.Run(ctx, result.Groups)
		if err != nil {
			return err
		}
		if !summary.Declined {
			fmt.Fprintln(a.out, "\n"+renderSummary(summary))
		}
	}

	if a.cfg.Report != "" {
		if err := exportReport(a.fs, a.cfg.Report, result, summary); err != nil {
			a.log.Error("Cannot export report", slog.Any("error", err))
			fmt.Fprintln(a.out, ui.danger.Render(fmt.Sprintf("Error: %v", err)))
		} else {
			fmt.Fprintln(a.out, ui.muted.Render("Report written to "+a.cfg.Report))
		}
	}
	return nil
}

// listFolders returns the names of the directories directly under dir.
func listFolders(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	folders := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}
	return folders, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
)

// GroupState tracks one duplicate group through the deletion workflow.
type GroupState int

const (
	StateProposed GroupState = iota
	StateAwaitingSelection
	StateSkipped
	StatePlanComputed
	StateAwaitingConfirmation
	StateCancelled
	StateExecuted
)

func (s GroupState) String() string {
	switch s {
	case StateProposed:
		return "proposed"
	case StateAwaitingSelection:
		return "awaiting selection"
	case StateSkipped:
		return "skipped"
	case StatePlanComputed:
		return "plan computed"
	case StateAwaitingConfirmation:
		return "awaiting confirmation"
	case StateCancelled:
		return "cancelled"
	case StateExecuted:
		return "executed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s GroupState) Terminal() bool {
	return s == StateSkipped || s == StateCancelled || s == StateExecuted
}

var groupTransitions = map[GroupState][]GroupState{
	StateProposed:             {StateAwaitingSelection, StateSkipped},
	StateAwaitingSelection:    {StateSkipped, StatePlanComputed},
	StatePlanComputed:         {StateAwaitingConfirmation, StateSkipped},
	StateAwaitingConfirmation: {StateCancelled, StateExecuted},
}

func canTransition(from, to GroupState) bool {
	for _, next := range groupTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type GroupOutcome struct {
	Index  int
	Group  DuplicateGroup
	State  GroupState
	Plan   DeletionPlan
	Report DeletionReport
	Err    error
}

func (o *GroupOutcome) advance(to GroupState) {
	if !canTransition(o.State, to) {
		panic(fmt.Sprintf("workflow: invalid transition %s -> %s", o.State, to))
	}
	o.State = to
}

type DeletionSummary struct {
	Declined    bool
	// Interrupted is set when ctrl+c ended the workflow early.
	Interrupted bool
	Outcomes    []GroupOutcome
	Report      DeletionReport
}

func (s DeletionSummary) KeeperErrors() []GroupOutcome {
	var out []GroupOutcome
	for _, o := range s.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

type Workflow struct {
	fs      afero.Fs
	prompt  Prompter
	exec    *Executor
	out     io.Writer
	confirm bool
	log     *slog.Logger
}

func NewWorkflow(fs afero.Fs, prompt Prompter, exec *Executor, out io.Writer, confirm bool, log *slog.Logger) *Workflow {
	if log == nil {
		log = discardLogger()
	}
	return &Workflow{
		fs:      fs,
		prompt:  prompt,
		exec:    exec,
		out:     out,
		confirm: confirm,
		log:     log.With(slog.String("item", "Workflow")),
	}
}

// Run walks every group in order. Failures stay inside their group. An
// interrupt stops the walk but still returns the summary so far, with every
// visited group in a terminal state.
func (w *Workflow) Run(ctx context.Context, groups []DuplicateGroup) (DeletionSummary, error) {
	var summary DeletionSummary

	fmt.Fprintln(w.out, ui.warning.Render("\n--- Deletion Module ---"))
	proceed, err := w.prompt.Confirm(ctx, "Do you want to proceed with deleting duplicate files?")
	if err != nil && !errors.Is(err, errPromptCancelled) && !errors.Is(err, ErrInterrupted) {
		return summary, err
	}
	if !proceed {
		fmt.Fprintln(w.out, ui.accent.Render("Deletion process skipped."))
		summary.Declined = true
		summary.Interrupted = errors.Is(err, ErrInterrupted)
		return summary, nil
	}

	for i, group := range groups {
		outcome, err := w.processGroup(ctx, i, len(groups), group)
		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.Report.merge(outcome.Report)
		if errors.Is(err, ErrInterrupted) {
			w.log.Info("Workflow interrupted", slog.Int("group", i+1), slog.Int("remaining", len(groups)-i-1))
			fmt.Fprintln(w.out, ui.warning.Render("Deletion interrupted. Remaining groups were left untouched."))
			summary.Interrupted = true
			return summary, nil
		}
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (w *Workflow) processGroup(ctx context.Context, idx, total int, group DuplicateGroup) (GroupOutcome, error) {
	outcome := GroupOutcome{Index: idx, Group: group, State: StateProposed}
	log := w.log.With(slog.Int("group", idx+1), slog.String("digest", string(group.Digest)))

	fmt.Fprintln(w.out, ui.status.Render(fmt.Sprintf("\nProcessing duplicate group %d/%d (%d identical files):", idx+1, total, len(group.Files))))

	keeper, err := ChooseKeeper(w.fs, group)
	if err != nil {
		log.Warn("Skip group", slog.Any("error", err))
		fmt.Fprintln(w.out, ui.danger.Render("Error: One of the files was deleted during processing. Skipping group."))
		outcome.Err = err
		outcome.advance(StateSkipped)
		return outcome, nil
	}
	outcome.advance(StateAwaitingSelection)

	sentinel := allButKeeperChoice(keeper)
	options := append([]string{sentinel}, group.Paths()...)
	chosen, err := w.prompt.Checkbox(ctx, "Select files to DELETE. Use space to toggle.", options)
	if err != nil {
		fmt.Fprintln(w.out, ui.warning.Render("Skipping this group."))
		outcome.advance(StateSkipped)
		if errors.Is(err, errPromptCancelled) {
			return outcome, nil
		}
		return outcome, err
	}

	sel := selectionFromChoices(sentinel, chosen)
	outcome.Plan = DeletionPlan{Group: group, Keeper: keeper, Delete: DeletionSet(group, keeper, sel)}
	if outcome.Plan.Empty() {
		fmt.Fprintln(w.out, ui.warning.Render("No files selected for deletion in this group."))
		outcome.advance(StateSkipped)
		return outcome, nil
	}
	outcome.advance(StatePlanComputed)

	fmt.Fprintln(w.out, ui.status.Render("\nYou have selected the following files for deletion:"))
	for _, p := range outcome.Plan.Delete {
		fmt.Fprintf(w.out, "  - %s\n", ui.danger.Render(p))
	}
	outcome.advance(StateAwaitingConfirmation)

	if w.confirm {
		ok, err := w.prompt.Confirm(ctx, "Are you sure you want to permanently delete these files?")
		if err != nil || !ok {
			fmt.Fprintln(w.out, ui.warning.Render("Deletion cancelled for this group."))
			outcome.advance(StateCancelled)
			if errors.Is(err, errPromptCancelled) {
				return outcome, nil
			}
			return outcome, err
		}
	}

	outcome.Report = w.exec.Execute(outcome.Plan.Delete)
	outcome.advance(StateExecuted)
	log.Info("Group executed", slog.Int("deleted", len(outcome.Report.Deleted)), slog.Int("failed", len(outcome.Report.Failed)))
	fmt.Fprintln(w.out, ui.success.Render("Deletion for this group complete."))
	return outcome, nil
}

func allButKeeperChoice(keeper FileRecord) string {
	return fmt.Sprintf("✨ Mark all for deletion (keeps oldest: %s)", filepath.Base(keeper.Path))
}

// selectionFromChoices splits checkbox output into the sentinel flag and the
// literal paths.
func selectionFromChoices(sentinel string, chosen []string) Selection {
	var sel Selection
	for _, c := range chosen {
		if c == sentinel {
			sel.AllButKeeper = true
			continue
		}
		sel.Paths = append(sel.Paths, c)
	}
	return sel
}

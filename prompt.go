package main

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Prompter is everything the workflow and menu need from an interactive
// terminal. Esc/back returns errPromptCancelled, ctrl+c returns ErrInterrupted.
type Prompter interface {
	Select(ctx context.Context, title string, options []string) (string, error)
	Input(ctx context.Context, title string) (string, error)
	Checkbox(ctx context.Context, title string, options []string) ([]string, error)
	Confirm(ctx context.Context, title string) (bool, error)
}

type promptOutcome int

const (
	promptPending promptOutcome = iota
	promptDone
	promptCancelled
	promptInterrupted
)

func (o promptOutcome) err() error {
	switch o {
	case promptCancelled:
		return errPromptCancelled
	case promptInterrupted:
		return ErrInterrupted
	default:
		return nil
	}
}

type promptModel interface {
	tea.Model
	outcome() promptOutcome
}

type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func newTeaPrompter() *teaPrompter {
	return &teaPrompter{in: os.Stdin, out: os.Stdout}
}

func (p *teaPrompter) run(ctx context.Context, m promptModel) (promptModel, error) {
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil, ErrInterrupted
		}
		return nil, err
	}
	result, ok := final.(promptModel)
	if !ok {
		return nil, errors.New("prompt: unexpected model type")
	}
	if err := result.outcome().err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *teaPrompter) Select(ctx context.Context, title string, options []string) (string, error) {
	final, err := p.run(ctx, newSelectModel(title, options))
	if err != nil {
		return "", err
	}
	return final.(selectModel).chosen(), nil
}

func (p *teaPrompter) Input(ctx context.Context, title string) (string, error) {
	final, err := p.run(ctx, newInputModel(title))
	if err != nil {
		return "", err
	}
	return final.(inputModel).value(), nil
}

func (p *teaPrompter) Checkbox(ctx context.Context, title string, options []string) ([]string, error) {
	final, err := p.run(ctx, newCheckboxModel(title, options))
	if err != nil {
		return nil, err
	}
	return final.(checkboxModel).selected(), nil
}

func (p *teaPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	final, err := p.run(ctx, newConfirmModel(title))
	if err != nil {
		return false, err
	}
	return final.(confirmModel).answer, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type scanStreamMsg struct {
	Ch <-chan tea.Msg
}

type scanPhaseMsg struct {
	Phase scanPhase
	Total int
}

type scanProgressMsg struct {
	Visited int
}

type scanBucketMsg struct {
	Done  int
	Total int
}

type scanFinishedMsg struct {
	Result ScanResult
	Err    error
}

// chanObserver forwards scan events to the UI, dropping them once ctx is done
// so the scanning goroutine never blocks on a closed program.
type chanObserver struct {
	ctx          context.Context
	out          chan<- tea.Msg
	lastProgress time.Time
}

func (o *chanObserver) send(msg tea.Msg) {
	select {
	case <-o.ctx.Done():
	case o.out <- msg:
	}
}

func (o *chanObserver) OnPhase(phase scanPhase, total int) {
	o.send(scanPhaseMsg{Phase: phase, Total: total})
}

func (o *chanObserver) OnVisited(files int) {
	if time.Since(o.lastProgress) > 200*time.Millisecond {
		o.send(scanProgressMsg{Visited: files})
		o.lastProgress = time.Now()
	}
}

func (o *chanObserver) OnBucket(done, total int) {
	o.send(scanBucketMsg{Done: done, Total: total})
}

type scanModel struct {
	root         string
	scanner      *Scanner
	ctx          context.Context
	cancel       context.CancelFunc
	spinner      spinner.Model
	bar          progress.Model
	keys         keyMap
	stream       <-chan tea.Msg
	phase        scanPhase
	visited      int
	bucketsDone  int
	bucketsTotal int
	start        time.Time
	result       ScanResult
	err          error
	done         bool
	interrupted  bool
}

func newScanModel(ctx context.Context, scanner *Scanner, root string) scanModel {
	scanCtx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return scanModel{
		root:    root,
		scanner: scanner,
		ctx:     scanCtx,
		cancel:  cancel,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		keys:    newKeyMap(),
		start:   time.Now(),
	}
}

func (m scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, scanStartCmd(m.ctx, m.scanner, m.root))
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(msg.Width-28, 20)
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case scanStreamMsg:
		m.stream = msg.Ch
		return m, waitScanMsg(msg.Ch)
	case scanPhaseMsg:
		m.phase = msg.Phase
		m.bucketsTotal = msg.Total
		return m, waitScanMsg(m.stream)
	case scanProgressMsg:
		m.visited = msg.Visited
		return m, waitScanMsg(m.stream)
	case scanBucketMsg:
		m.bucketsDone = msg.Done
		m.bucketsTotal = msg.Total
		return m, waitScanMsg(m.stream)
	case scanFinishedMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		m.cancel()
		return m, tea.Quit
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m scanModel) View() string {
	if m.done {
		return ""
	}
	elapsed := time.Since(m.start).Truncate(100 * time.Millisecond)
	if m.phase == phaseSizes {
		line := fmt.Sprintf("%s %s visited %d · %s", m.spinner.View(), m.phase, m.visited, elapsed)
		return ui.success.Render(line) + "\n"
	}

	percent := 1.0
	if m.bucketsTotal > 0 {
		percent = float64(m.bucketsDone) / float64(m.bucketsTotal)
	}
	line := fmt.Sprintf("%s %s %d/%d size groups · %s", m.spinner.View(), m.phase, m.bucketsDone, m.bucketsTotal, elapsed)
	return lipgloss.JoinVertical(lipgloss.Left, ui.success.Render(line), m.bar.ViewAs(percent)) + "\n"
}

func scanStartCmd(ctx context.Context, scanner *Scanner, root string) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan tea.Msg)
		go runScanStream(ctx, scanner, root, ch)
		return scanStreamMsg{Ch: ch}
	}
}

func runScanStream(ctx context.Context, scanner *Scanner, root string, out chan<- tea.Msg) {
	defer close(out)

	obs := &chanObserver{ctx: ctx, out: out}
	result, err := scanner.Run(ctx, root, obs)
	obs.send(scanFinishedMsg{Result: result, Err: err})
}

func waitScanMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// runScanView runs the scan behind a live progress display.
func runScanView(ctx context.Context, scanner *Scanner, root string, in io.Reader, out io.Writer) (ScanResult, error) {
	m := newScanModel(ctx, scanner, root)
	defer m.cancel()

	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return ScanResult{}, ErrInterrupted
		}
		return ScanResult{}, err
	}
	fm, ok := final.(scanModel)
	if !ok {
		return ScanResult{}, errors.New("scan: unexpected model type")
	}
	if fm.interrupted || errors.Is(fm.err, context.Canceled) {
		return ScanResult{}, ErrInterrupted
	}
	return fm.result, fm.err
}

package main

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func testScanModel(t *testing.T) scanModel {
	t.Helper()
	fsys := afero.NewMemMapFs()
	hasher, err := NewHasher(fsys, "")
	require.NoError(t, err)
	return newScanModel(context.Background(), NewScanner(fsys, hasher, Config{}, nil), "/r")
}

func TestScanModelProgress(t *testing.T) {
	m := testScanModel(t)
	defer m.cancel()

	next, _ := m.Update(scanProgressMsg{Visited: 42})
	m = next.(scanModel)
	require.Contains(t, m.View(), "visited 42")
	require.Contains(t, m.View(), "Analyzing file sizes")

	next, _ = m.Update(scanPhaseMsg{Phase: phaseHashing, Total: 4})
	m = next.(scanModel)
	next, _ = m.Update(scanBucketMsg{Done: 1, Total: 4})
	m = next.(scanModel)
	require.Contains(t, m.View(), "1/4 size groups")

	result := ScanResult{RunID: "x"}
	next, cmd := m.Update(scanFinishedMsg{Result: result})
	m = next.(scanModel)
	require.NotNil(t, cmd)
	require.True(t, m.done)
	require.Equal(t, "x", m.result.RunID)
	require.Empty(t, m.View())
}

func TestScanModelCtrlCCancelsScan(t *testing.T) {
	m := testScanModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(scanModel)
	require.NotNil(t, cmd)
	require.True(t, m.interrupted)
	require.ErrorIs(t, m.ctx.Err(), context.Canceled)
}

func TestRunScanStream(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/r/a", "dup", baseTime)
	writeFile(t, fsys, "/r/b", "dup", baseTime)
	hasher, err := NewHasher(fsys, "")
	require.NoError(t, err)
	scanner := NewScanner(fsys, hasher, Config{}, nil)

	ch := make(chan tea.Msg)
	go runScanStream(context.Background(), scanner, "/r", ch)

	var finished *scanFinishedMsg
	timeout := time.After(5 * time.Second)
	for finished == nil {
		select {
		case msg, ok := <-ch:
			require.True(t, ok, "stream closed before finishing")
			if f, isFinished := msg.(scanFinishedMsg); isFinished {
				finished = &f
			}
		case <-timeout:
			t.Fatal("scan stream timed out")
		}
	}
	require.NoError(t, finished.Err)
	require.Len(t, finished.Result.Groups, 1)

	_, open := <-ch
	require.False(t, open)
}

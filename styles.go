package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	status   lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	success  lipgloss.Style
	danger   lipgloss.Style
	warning  lipgloss.Style
	confirm  lipgloss.Style
	chip     lipgloss.Style
	cursor   lipgloss.Style
	header   lipgloss.Style
	size     lipgloss.Style
	digest   lipgloss.Style
	path     lipgloss.Style
	border   lipgloss.Style
}

var ui = styles{
	title:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	status:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	success:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
	danger:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	confirm:  lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("203")).Bold(true).Padding(0, 1),
	chip:     lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1),
	cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true),
	header:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
	size:     lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Padding(0, 1),
	digest:   lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Padding(0, 1),
	path:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Padding(0, 1),
	border:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

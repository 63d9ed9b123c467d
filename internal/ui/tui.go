// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the toy
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run creates the toy program with mouse reporting in the alternate screen
func Run(opts Options) *tea.Program {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(opts.Context))
}

// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewRepositories is the repository picker.
	ViewRepositories
	// ViewSetup is the run setup form (terms and types).
	ViewSetup
	// ViewRun shows live progress of a collection run.
	ViewRun
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRepositories:
		return "repositories"
	case ViewSetup:
		return "setup"
	case ViewRun:
		return "run"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// RepositorySelected signals a repository was chosen in the picker.
type RepositorySelected struct {
	Info driving.RepositoryInfo
}

// RunRequested signals the setup form submitted a collection request.
type RunRequested struct {
	Request driving.RunRequest
}

// RunTick carries a status snapshot of the active run.
type RunTick struct {
	State domain.RunState
}

// RunFinished signals the run goroutine returned.
type RunFinished struct {
	State domain.RunState
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

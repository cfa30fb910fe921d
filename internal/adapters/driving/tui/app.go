package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/keymap"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/messages"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/views/menu"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/views/repositories"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/views/run"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/views/setup"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView  *menu.View
	picker    *repositories.View
	setupView *setup.View
	runView   *run.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		menuView:    menu.NewView(s),
		picker:      repositories.NewView(s, km, ports.Catalog),
		setupView:   setup.NewView(s, km),
		runView:     run.NewView(s, km, ports.Runner),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.runView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("curator - Metadata Collection"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.picker.SetDimensions(msg.Width, msg.Height)
		a.setupView.SetDimensions(msg.Width, msg.Height)
		a.runView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd
		case messages.ViewRepositories:
			a.picker, cmd = a.picker.Update(msg)
			return a, cmd
		case messages.ViewSetup:
			a.setupView, cmd = a.setupView.Update(msg)
			return a, cmd
		case messages.ViewRun:
			a.runView, cmd = a.runView.Update(msg)
			return a, cmd
		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewRepositories {
			return a, a.picker.Init()
		}
		return a, nil

	case messages.RepositorySelected:
		a.setupView.SetRepository(msg.Info)
		a.currentView = messages.ViewSetup
		return a, a.setupView.Init()

	case messages.RunRequested:
		a.currentView = messages.ViewRun
		return a, a.runView.Start(msg.Request)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (ticks, run events) to the active view.
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRepositories:
		a.picker, cmd = a.picker.Update(msg)
	case messages.ViewSetup:
		a.setupView, cmd = a.setupView.Update(msg)
	case messages.ViewRun:
		a.runView, cmd = a.runView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewRepositories:
		return a.picker.View()
	case messages.ViewSetup:
		return a.setupView.View()
	case messages.ViewRun:
		return a.runView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Setup:
  (type)      Enter search terms, comma-separated
  tab         Switch between terms and types
  space       Toggle a search type
  enter       Start the run

Run:
  t           Terminate the run
  esc         Back to menu (after the run settles)

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.picker.SetDimensions(width, height)
	a.setupView.SetDimensions(width, height)
	a.runView.SetDimensions(width, height)
}

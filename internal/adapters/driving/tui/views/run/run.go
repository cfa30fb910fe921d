// Package run provides the live run view for the TUI: progress,
// status messages, per-combination outcomes, and termination.
package run

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/keymap"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/messages"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// pollInterval is how often the view polls run status.
const pollInterval = 250 * time.Millisecond

// View shows a collection run in flight.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	runner driving.CollectionRunner

	ctx      context.Context
	spinner  spinner.Model
	progress progress.Model

	runID    string
	state    domain.RunState
	finished bool
	runErr   error

	width  int
	height int
	ready  bool
}

// NewView creates a new run view.
func NewView(s *styles.Styles, km *keymap.KeyMap, runner driving.CollectionRunner) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &View{
		styles:   s,
		keymap:   km,
		runner:   runner,
		ctx:      context.Background(),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for runs.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.spinner.Tick
}

// Start launches a collection for the given request and begins status
// polling. The request's run ID is assigned here when empty.
func (v *View) Start(req driving.RunRequest) tea.Cmd {
	if req.RunID == "" {
		req.RunID = uuid.New().String()
	}
	v.runID = req.RunID
	v.state = domain.RunState{RunID: req.RunID, Repository: req.Repository, Status: domain.RunRunning}
	v.finished = false
	v.runErr = nil

	runner := v.runner
	ctx := v.ctx
	return tea.Batch(
		v.spinner.Tick,
		func() tea.Msg {
			state, err := runner.Run(ctx, req)
			return messages.RunFinished{State: state, Err: err}
		},
		v.poll(),
	)
}

// poll schedules the next status snapshot.
func (v *View) poll() tea.Cmd {
	runner := v.runner
	runID := v.runID
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		state, err := runner.Status(runID)
		if err != nil {
			// Run already settled; the RunFinished message carries the
			// terminal state.
			return messages.RunTick{}
		}
		return messages.RunTick{State: state}
	})
}

// Update handles messages for the run view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Terminate):
			if !v.finished {
				_ = v.runner.Terminate(v.runID)
			}
			return v, nil
		case keymap.Matches(keyStr, v.keymap.Back):
			if v.finished {
				return v, func() tea.Msg {
					return messages.ViewChanged{View: messages.ViewMenu}
				}
			}
			return v, nil
		}
		return v, nil

	case messages.RunTick:
		if v.finished {
			return v, nil
		}
		if msg.State.RunID == v.runID {
			v.state = msg.State
		}
		return v, v.poll()

	case messages.RunFinished:
		v.finished = true
		v.runErr = msg.Err
		if msg.Err == nil {
			v.state = msg.State
		}
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

// View renders the run view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Collecting from %s", v.state.Repository)))
	b.WriteString("\n\n")

	switch {
	case v.runErr != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Run failed to start: %v", v.runErr)))
		b.WriteString("\n")
	case v.finished:
		b.WriteString(v.renderSummary())
	default:
		b.WriteString(v.renderProgress())
	}

	b.WriteString("\n")
	if v.finished {
		b.WriteString(v.styles.Help.Render("[Esc] Back to menu"))
	} else {
		b.WriteString(v.styles.Help.Render("[t] Terminate"))
	}

	return b.String()
}

// renderProgress renders the in-flight state: a progress bar when the
// run reports determinate progress, a spinner otherwise.
func (v *View) renderProgress() string {
	var b strings.Builder

	if v.state.Progress.Determinate {
		b.WriteString(v.progress.ViewAs(v.state.Progress.Fraction))
	} else {
		b.WriteString(v.spinner.View())
		b.WriteString(" working...")
	}
	b.WriteString("\n\n")

	if v.state.LastMessage != "" {
		b.WriteString(v.styles.Normal.Render(v.state.LastMessage))
		b.WriteString("\n")
	}
	if v.state.Status == domain.RunCancelling {
		b.WriteString(v.styles.Warning.Render("Terminating..."))
		b.WriteString("\n")
	}

	b.WriteString(v.renderOutcomes())
	return b.String()
}

// renderSummary renders the terminal state of the run.
func (v *View) renderSummary() string {
	var b strings.Builder

	if v.state.Status == domain.RunFailed {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Run failed: %s", v.state.LastMessage)))
	} else {
		b.WriteString(v.styles.Success.Render(fmt.Sprintf(
			"Collected %d records (%d failed combinations).",
			v.state.RecordsCollected(), v.state.FailureCount())))
	}
	b.WriteString("\n\n")
	b.WriteString(v.renderOutcomes())
	return b.String()
}

// renderOutcomes lists per-combination results so far.
func (v *View) renderOutcomes() string {
	var b strings.Builder
	for _, outcome := range v.state.Outcomes {
		if outcome.Failed() {
			b.WriteString(v.styles.Error.Render(
				fmt.Sprintf("  %s: %s", outcome.Query, outcome.Err)))
		} else {
			b.WriteString(v.styles.Normal.Render(
				fmt.Sprintf("  %s: %d records", outcome.Query, outcome.Records)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.progress.Width = width - 4
	v.ready = true
}

// RunID returns the active run's identifier.
func (v *View) RunID() string {
	return v.runID
}

// Finished reports whether the run has settled.
func (v *View) Finished() bool {
	return v.finished
}

// State returns the latest observed run state.
func (v *View) State() domain.RunState {
	return v.state
}

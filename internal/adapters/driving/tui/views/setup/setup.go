// Package setup provides the run setup form for the TUI: search terms
// and type selection for a chosen repository.
package setup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/keymap"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/messages"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// View is the run setup form.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	info       driving.RepositoryInfo
	terms      textinput.Model
	typeChecks []bool
	typeCursor int
	focusTypes bool
	errMsg     string

	width  int
	height int
	ready  bool
}

// NewView creates a new setup view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	terms := textinput.New()
	terms.Placeholder = "comma-separated search terms"
	terms.CharLimit = 256

	return &View{
		styles: s,
		keymap: km,
		terms:  terms,
		width:  80,
		height: 24,
	}
}

// SetRepository resets the form for a newly selected repository.
func (v *View) SetRepository(info driving.RepositoryInfo) {
	v.info = info
	v.terms.Reset()
	v.typeChecks = make([]bool, len(info.TypeOptions))
	v.typeCursor = 0
	v.errMsg = ""
	v.focusTypes = !info.SupportsTerms
	if info.SupportsTerms {
		v.terms.Focus()
	} else {
		v.terms.Blur()
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the setup form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.terms, cmd = v.terms.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewRepositories}
		}

	case keymap.Matches(keyStr, v.keymap.NextField):
		if v.info.SupportsTerms && v.info.SupportsTypes {
			v.focusTypes = !v.focusTypes
			if v.focusTypes {
				v.terms.Blur()
			} else {
				v.terms.Focus()
			}
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Select):
		return v.submit()
	}

	if v.focusTypes {
		switch {
		case keymap.Matches(keyStr, v.keymap.Up):
			if v.typeCursor > 0 {
				v.typeCursor--
			}
		case keymap.Matches(keyStr, v.keymap.Down):
			if v.typeCursor < len(v.typeChecks)-1 {
				v.typeCursor++
			}
		case keyStr == " ":
			if v.typeCursor < len(v.typeChecks) {
				v.typeChecks[v.typeCursor] = !v.typeChecks[v.typeCursor]
			}
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.terms, cmd = v.terms.Update(msg)
	return v, cmd
}

// submit validates the form and emits the run request. Unselected types
// are left empty so the runner fans out over all options.
func (v *View) submit() (*View, tea.Cmd) {
	terms := splitTerms(v.terms.Value())
	if v.info.SupportsTerms && len(terms) == 0 {
		v.errMsg = "Enter at least one search term."
		return v, nil
	}

	var types []string
	for i, checked := range v.typeChecks {
		if checked {
			types = append(types, v.info.TypeOptions[i])
		}
	}

	req := driving.RunRequest{
		Repository: v.info.Name,
		Params: domain.SearchParameters{
			Terms: terms,
			Types: types,
		},
	}
	return v, func() tea.Msg {
		return messages.RunRequested{Request: req}
	}
}

// splitTerms parses the comma-separated terms input.
func splitTerms(value string) []string {
	var terms []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	return terms
}

// View renders the setup form.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Collect from %s", v.info.Name)))
	b.WriteString("\n\n")

	if v.info.SupportsTerms {
		b.WriteString(v.styles.Normal.Render("Search terms"))
		b.WriteString("\n")
		b.WriteString(v.terms.View())
		b.WriteString("\n\n")
	}

	if v.info.SupportsTypes {
		b.WriteString(v.styles.Normal.Render("Search types"))
		b.WriteString(v.styles.Muted.Render("  (space to toggle, all when none selected)"))
		b.WriteString("\n")
		for i, opt := range v.info.TypeOptions {
			cursor := "  "
			if v.focusTypes && i == v.typeCursor {
				cursor = "> "
			}
			check := "[ ]"
			if v.typeChecks[i] {
				check = "[x]"
			}
			style := v.styles.Normal
			if v.focusTypes && i == v.typeCursor {
				style = v.styles.Selected
			}
			b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, style.Render(opt)))
		}
		b.WriteString("\n")
	}

	if v.info.RequiresAuth {
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Requires credentials: curator auth set %s", v.info.Name)))
		b.WriteString("\n\n")
	}

	if v.errMsg != "" {
		b.WriteString(v.styles.Error.Render(v.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Help.Render("[Tab] Switch field  [Enter] Start  [Esc] Back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Repository returns the repository the form is configured for.
func (v *View) Repository() driving.RepositoryInfo {
	return v.info
}

// SelectedTypes returns the currently checked type options.
func (v *View) SelectedTypes() []string {
	var types []string
	for i, checked := range v.typeChecks {
		if checked {
			types = append(types, v.info.TypeOptions[i])
		}
	}
	return types
}

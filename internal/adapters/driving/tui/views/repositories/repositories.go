// Package repositories provides the repository picker view for the TUI.
package repositories

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/keymap"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/messages"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// View lists the available repositories for selection.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	catalog driving.RepositoryCatalog

	infos    []driving.RepositoryInfo
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new repository picker.
func NewView(s *styles.Styles, km *keymap.KeyMap, catalog driving.RepositoryCatalog) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:  s,
		keymap:  km,
		catalog: catalog,
		width:   80,
		height:  24,
	}
}

// Init loads the repository list.
func (v *View) Init() tea.Cmd {
	if v.catalog != nil {
		v.infos = v.catalog.Repositories()
	}
	if v.selected >= len(v.infos) {
		v.selected = 0
	}
	return nil
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(keyStr, v.keymap.Down):
			if v.selected < len(v.infos)-1 {
				v.selected++
			}
		case keymap.Matches(keyStr, v.keymap.Select):
			if len(v.infos) == 0 {
				return v, nil
			}
			info := v.infos[v.selected]
			return v, func() tea.Msg {
				return messages.RepositorySelected{Info: info}
			}
		case keymap.Matches(keyStr, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}

	return v, nil
}

// View renders the picker.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Select a repository"))
	b.WriteString("\n\n")

	if len(v.infos) == 0 {
		b.WriteString(v.styles.Muted.Render("No repositories registered."))
		return b.String()
	}

	for i, info := range v.infos {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		}
		b.WriteString(fmt.Sprintf("%s%-18s %s\n",
			cursor, style.Render(info.Name), v.styles.Muted.Render(describe(info))))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [Esc] Back"))

	return b.String()
}

// describe summarises a repository's search axes for the list row.
func describe(info driving.RepositoryInfo) string {
	var axes []string
	if info.SupportsTerms {
		axes = append(axes, "terms")
	}
	if info.SupportsTypes {
		axes = append(axes, "types")
	}
	desc := strings.Join(axes, "+")
	if desc == "" {
		desc = "enumeration"
	}
	if info.RequiresAuth {
		desc += ", auth"
	}
	return desc
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Repositories returns the loaded repository list.
func (v *View) Repositories() []driving.RepositoryInfo {
	return v.infos
}

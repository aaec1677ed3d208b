package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	wsclient "github.com/dohr-michael/banner/clients/ws"
	"github.com/dohr-michael/banner/internal/composer"
	wsprotocol "github.com/dohr-michael/banner/internal/gateway/ws"
)

// FrameMsg wraps a gateway frame as a bubbletea message.
type FrameMsg wsprotocol.Frame

// ErrMsg reports a connection failure.
type ErrMsg struct{ Err error }

// App is the preview TUI model: a status bar with the document flags, the
// active entity list, and the live stylesheet text in a viewport.
type App struct {
	client *wsclient.Client

	width    int
	height   int
	ready    bool
	quitting bool

	state   composer.RenderState
	notices []string
	err     error

	sheet viewport.Model
}

// NewApp creates the preview application.
func NewApp(client *wsclient.Client) *App {
	return &App{client: client}
}

// Init requests the current state and starts the read loop.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.client.GetStylesheet(); err != nil {
				return ErrMsg{Err: err}
			}
			return nil
		},
		a.listen(),
	)
}

// listen reads the next frame from the gateway.
func (a *App) listen() tea.Cmd {
	return func() tea.Msg {
		frame, err := a.client.ReadFrame()
		if err != nil {
			return ErrMsg{Err: err}
		}
		return FrameMsg(frame)
	}
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		case "r":
			return a, func() tea.Msg {
				if err := a.client.GetStylesheet(); err != nil {
					return ErrMsg{Err: err}
				}
				return nil
			}
		default:
			var cmd tea.Cmd
			a.sheet, cmd = a.sheet.Update(msg)
			return a, cmd
		}

	case FrameMsg:
		a.handleFrame(wsprotocol.Frame(msg))
		return a, a.listen()

	case ErrMsg:
		a.err = msg.Err
		return a, nil
	}

	return a, nil
}

func (a *App) handleFrame(f wsprotocol.Frame) {
	switch f.Type {
	case wsprotocol.FrameTypeEvent:
		switch f.Event {
		case "stylesheet.updated":
			var payload struct {
				Payload struct {
					State composer.RenderState `json:"state"`
				} `json:"payload"`
			}
			if err := json.Unmarshal(f.Payload, &payload); err == nil {
				a.setState(payload.Payload.State)
			}
		case "notice":
			var payload struct {
				Payload struct {
					Message string `json:"message"`
				} `json:"payload"`
			}
			if err := json.Unmarshal(f.Payload, &payload); err == nil && payload.Payload.Message != "" {
				a.notices = append(a.notices, payload.Payload.Message)
				if len(a.notices) > 5 {
					a.notices = a.notices[len(a.notices)-5:]
				}
			}
		}

	case wsprotocol.FrameTypeResponse:
		// get_stylesheet responses carry the state directly.
		var state composer.RenderState
		if err := json.Unmarshal(f.Payload, &state); err == nil && state.Entities != nil {
			a.setState(state)
		}
	}
}

func (a *App) setState(state composer.RenderState) {
	a.state = state
	a.sheet.SetContent(state.CSS)
}

func (a *App) layout() {
	headerHeight := 4 + len(a.notices)
	h := a.height - headerHeight - 1
	if h < 3 {
		h = 3
	}
	if !a.ready {
		a.sheet = viewport.New(a.width-4, h)
		a.ready = true
	} else {
		a.sheet.Width = a.width - 4
		a.sheet.Height = h
	}
	a.sheet.SetContent(a.state.CSS)
}

// View renders the application.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("gateway connection lost: %v", a.err)) + "\n"
	}
	if !a.ready {
		return MutedStyle.Render("connecting...")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("banner preview"))
	b.WriteString("  ")
	b.WriteString(a.flagsLine())
	b.WriteString("\n")
	b.WriteString(a.entitiesLine())
	b.WriteString("\n")
	for _, n := range a.notices {
		b.WriteString(ErrorStyle.Render("! " + n))
		b.WriteString("\n")
	}
	b.WriteString(SheetBorderStyle.Render(a.sheet.View()))
	b.WriteString("\n")
	b.WriteString(StatusBarStyle.Width(a.width).Render("q quit · r refresh · ↑/↓ scroll"))
	return b.String()
}

func (a *App) flagsLine() string {
	return strings.Join([]string{
		flag("banner", a.state.AnyBanner),
		flag("panel", a.state.PanelBanner),
		flag("compact", a.state.CompactMode),
		flag("persona", a.state.PersonaBanner != ""),
	}, " ")
}

func (a *App) entitiesLine() string {
	if len(a.state.Entities) == 0 {
		return MutedStyle.Render("no active entities")
	}
	names := make([]string, 0, len(a.state.Entities))
	for name, er := range a.state.Entities {
		label := name
		if er.Banner != "" {
			label += "*"
		}
		names = append(names, label)
	}
	sort.Strings(names)
	return MutedStyle.Render("entities: ") + strings.Join(names, ", ")
}

func flag(name string, on bool) string {
	if on {
		return FlagOnStyle.Render("[" + name + "]")
	}
	return FlagOffStyle.Render("[" + name + "]")
}

var _ tea.Model = (*App)(nil)

// Run starts the TUI against a connected client.
func Run(client *wsclient.Client) error {
	p := tea.NewProgram(NewApp(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

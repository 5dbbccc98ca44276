package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/panel"
	"github.com/HaiFongPan/hanbatbox-cli/internal/telemetry"
	tuiconfig "github.com/HaiFongPan/hanbatbox-cli/internal/tui/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/tui/messaging"
	"github.com/HaiFongPan/hanbatbox-cli/internal/tui/theme"
	"github.com/HaiFongPan/hanbatbox-cli/internal/upload"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

// Routes of the interactive client
const (
	RouteBoxes  = "/boxes"
	RouteUpload = "/upload"
)

// BoxService is the backend the interactive client talks to
type BoxService interface {
	panel.Remote
	upload.Creator
	CreateBoxWithProgress(ctx context.Context, draft *box.Draft, callback box.ProgressCallback) (box.Ref, error)
	List(ctx context.Context, q box.Query) ([]box.Summary, error)
}

// Options wire the interactive client
type Options struct {
	Service   BoxService
	Config    *config.Config
	User      *config.UserData
	Clipboard utils.Clipboard
	Saver     panel.Saver
	Tracker   telemetry.Tracker
}

// App is the root bubbletea model. It owns the notice registry and loading
// indicator shared by the box browser, the download panels and the upload page.
type App struct {
	opts    Options
	notices *notice.Registry
	loading *notice.Indicator
	links   *utils.URLGenerator
	status  messaging.StatusManager

	keyMap   KeyMap
	help     help.Model
	spinner  spinner.Model
	showHelp bool

	route    string
	browser  *browserPage
	upload   *uploadPage
	complete *completePage

	// pendingRoute is set by GoTo from command goroutines
	mu           sync.Mutex
	pendingRoute string

	program       *tea.Program
	width, height int
}

// NewApp creates the interactive client on the box browser
func NewApp(opts Options) *App {
	if opts.Tracker == nil {
		opts.Tracker = telemetry.Nop{}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = utils.SystemClipboard{}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.CreateLoadingStyle()

	a := &App{
		opts:    opts,
		notices: notice.NewRegistry(),
		loading: notice.NewIndicator(nil),
		links:   utils.NewURLGenerator(opts.Config.Share.BaseURL),
		status:  messaging.NewStatusManager(),
		keyMap:  DefaultKeyMap(),
		help:    help.New(),
		spinner: s,
		route:   RouteBoxes,
		width:   80,
		height:  24,
	}
	a.browser = newBrowserPage(a)
	return a
}

// SetProgram sets the tea.Program reference for direct message sending
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

// GoTo implements upload.Navigator. The route is applied on the next update.
func (a *App) GoTo(route string) {
	a.mu.Lock()
	a.pendingRoute = route
	a.mu.Unlock()
}

func (a *App) takeRoute() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	route := a.pendingRoute
	a.pendingRoute = ""
	return route
}

// send delivers msg through the program when one is attached
func (a *App) send(msg tea.Msg) {
	if a.program != nil {
		a.program.Send(msg)
	}
}

// alert implements panel.Alerter with a notice
func (a *App) alert(message string) {
	a.notices.Register(notice.BoxDeleted, notice.Notice{Header: "Deleted", Body: message})
	a.notices.Open(notice.BoxDeleted)
}

// Close releases resources held by the pages. Call it after the program exits.
func (a *App) Close() {
	if a.upload != nil {
		a.upload.close()
	}
}

// Route returns the current page route
func (a *App) Route() string {
	return a.route
}

// Notices exposes the shared notice registry
func (a *App) Notices() *notice.Registry {
	return a.notices
}

// Init implements the bubbletea.Model interface
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.browser.load(), a.spinner.Tick)
}

func (a *App) navigate(route string) tea.Cmd {
	logrus.Debugf("tui: navigate %s -> %s", a.route, route)
	if a.route == RouteUpload && a.upload != nil {
		a.upload.close()
	}
	a.route = route
	a.showHelp = false

	switch route {
	case RouteBoxes:
		return a.browser.load()
	case RouteUpload:
		a.upload = newUploadPage(a)
		return a.upload.focusCmd()
	case upload.RouteUploadComplete:
		if a.upload != nil {
			a.complete = &completePage{app: a, ref: a.upload.created, title: a.upload.form.Title()}
		}
	}
	return nil
}

// Update implements the bubbletea.Model interface
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.resize(msg.Width, msg.Height-tuiconfig.ChromeHeight)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case boxesLoadedMsg, panelDoneMsg:
		return a, a.browser.update(msg)

	case filesCollectedMsg, uploadProgressMsg:
		if a.upload != nil {
			return a, a.upload.update(msg)
		}
		return a, nil

	case submitDoneMsg:
		var cmd tea.Cmd
		if a.upload != nil {
			cmd = a.upload.update(msg)
		}
		if route := a.takeRoute(); route != "" {
			return a, tea.Batch(cmd, a.navigate(route))
		}
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	// A notice on top of everything takes the keyboard until dismissed.
	if id, _, ok := a.notices.Top(); ok && !a.browser.ownsNotice(id) {
		if key.Matches(msg, a.keyMap.Dismiss) {
			a.notices.Close(id)
		}
		return nil
	}

	if a.showHelp {
		if key.Matches(msg, a.keyMap.Help) || key.Matches(msg, a.keyMap.Back) {
			a.showHelp = false
		}
		return nil
	}

	switch a.route {
	case RouteUpload:
		return a.upload.handleKey(msg)
	case upload.RouteUploadComplete:
		return a.complete.handleKey(msg)
	default:
		return a.browser.handleKey(msg)
	}
}

// View implements the bubbletea.Model interface
func (a *App) View() string {
	header := theme.CreateHeaderStyle().Render(a.title())

	var body string
	switch a.route {
	case RouteUpload:
		body = a.upload.view()
	case upload.RouteUploadComplete:
		body = a.complete.view()
	default:
		body = a.browser.view()
	}

	footer := theme.CreateFooterStyle().Render(a.footer())
	baseView := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if id, n, ok := a.notices.Top(); ok {
		if a.browser.ownsNotice(id) {
			return a.overlay(a.browser.panelView())
		}
		return a.overlay(renderNotice(id, n))
	}
	if a.showHelp {
		return a.overlay(a.renderHelp())
	}
	return baseView
}

func (a *App) title() string {
	switch a.route {
	case RouteUpload:
		return "📤 New box"
	case upload.RouteUploadComplete:
		return "✅ Box created"
	default:
		return "📦 Hanbat Box"
	}
}

func (a *App) footer() string {
	var parts []string
	if a.loading.Active() {
		parts = append(parts, theme.CreateLoadingStyle().Render(a.spinner.View()+" Working..."))
	}
	if a.status.HasMessage() {
		parts = append(parts, a.status.RenderMessage())
	}
	parts = append(parts, a.help.ShortHelpView(a.keyMap.ShortHelp()))
	return strings.Join(parts, "\n")
}

func (a *App) overlay(dialog string) string {
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (a *App) renderHelp() string {
	title := theme.CreateSectionHeaderStyle().Render("Hanbat Box - Help")
	body := a.help.FullHelpView(a.keyMap.FullHelp())
	hint := theme.CreateSecondaryTextStyle().Render("Press ? or esc to close")
	return theme.CreateDialogStyle(tuiconfig.DialogLargeWidth, theme.ColorBrightYellow).
		Align(lipgloss.Left).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}

// renderNotice draws a modal notice. Error notices get a red border.
func renderNotice(id string, n notice.Notice) string {
	border := theme.ColorBrightGreen
	switch id {
	case notice.PasswordInvalid, notice.DownloadFailed, notice.ValidationError:
		border = theme.ColorBrightRed
	}

	var b strings.Builder
	b.WriteString(theme.CreateSectionHeaderStyle().Foreground(lipgloss.Color(border)).Render(n.Header))
	b.WriteString("\n\n")
	b.WriteString(n.Body)
	b.WriteString("\n\n")
	b.WriteString(theme.CreateDialogButtonStyle(true).Render("OK"))

	return theme.CreateDialogStyle(tuiconfig.DialogDefaultWidth, border).Render(b.String())
}

// completePage is shown after a box has been created
type completePage struct {
	app   *App
	ref   box.Ref
	title string
}

func (c *completePage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.app.keyMap.CopyLink), msg.String() == "c":
		if _, err := utils.CopyLink(c.app.opts.Clipboard, c.app.links, c.ref.ID); err != nil {
			c.app.status.SetMessage(err.Error(), messaging.MessageError)
			return nil
		}
		c.app.status.SetMessage("Link copied to clipboard", messaging.MessageSuccess)
	case key.Matches(msg, c.app.keyMap.Open), key.Matches(msg, c.app.keyMap.Back):
		return c.app.navigate(RouteBoxes)
	case key.Matches(msg, c.app.keyMap.Quit):
		return tea.Quit
	}
	return nil
}

func (c *completePage) view() string {
	link := c.app.links.DownloadLink(c.ref.ID)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Box #%d %q is ready.\n\n", c.ref.ID, c.title))
	b.WriteString(theme.CreateURLStyle().Render(theme.FormatClickableURL(utils.DisplayURL(link), link)))
	b.WriteString("\n\n")
	b.WriteString(theme.CreateSecondaryTextStyle().Render("c copy link • enter back to boxes"))
	return lipgloss.NewStyle().MarginLeft(1).Render(b.String())
}

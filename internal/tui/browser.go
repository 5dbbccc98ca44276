package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/panel"
	tuiconfig "github.com/HaiFongPan/hanbatbox-cli/internal/tui/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/tui/messaging"
	"github.com/HaiFongPan/hanbatbox-cli/internal/tui/theme"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

// Message types for tea.Cmd communication
type boxesLoadedMsg struct {
	boxes []box.Summary
	err   error
}

type panelAction int

const (
	actionDownload panelAction = iota
	actionDelete
	actionCopy
)

type panelDoneMsg struct {
	action panelAction
	state  panel.State
	link   string
	err    error
}

// browserPage lists boxes and hosts the download panel of the selected one
type browserPage struct {
	app *App

	boxes   []box.Summary
	table   table.Model
	loading bool
	err     error

	query     box.Query
	cursors   []int64
	searching bool
	search    textinput.Model

	panel    *panel.Panel
	current  box.Summary
	password textinput.Model
	busy     bool
}

func newBrowserPage(app *App) *browserPage {
	t := table.New(
		table.WithColumns(boxColumns(tuiconfig.ColumnTitleWidth)),
		table.WithHeight(tuiconfig.DefaultTableHeight),
		table.WithFocused(true),
		table.WithStyles(table.Styles{
			Header: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(theme.ColorBrightCyan)).
				BorderBottom(true).
				Bold(true).
				Foreground(lipgloss.Color(theme.ColorBrightCyan)),
			Selected: lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)).
				Background(lipgloss.Color(theme.ColorBrightBlue)).
				Bold(true),
			Cell: lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)),
		}),
	)

	search := textinput.New()
	search.Placeholder = "keyword"
	search.Prompt = "🔍 "
	search.Width = tuiconfig.InputWidth

	password := textinput.New()
	password.Placeholder = "box password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 30

	return &browserPage{
		app:      app,
		table:    t,
		loading:  true,
		search:   search,
		password: password,
	}
}

func boxColumns(titleWidth int) []table.Column {
	return []table.Column{
		{Title: "ID", Width: tuiconfig.ColumnIDWidth},
		{Title: "TITLE", Width: titleWidth},
		{Title: "UPLOADER", Width: tuiconfig.ColumnUploaderWidth},
		{Title: "TYPE", Width: tuiconfig.ColumnTypeWidth},
		{Title: "CREATED", Width: tuiconfig.ColumnCreatedWidth},
	}
}

func (b *browserPage) resize(width, height int) {
	fixed := tuiconfig.ColumnIDWidth + tuiconfig.ColumnUploaderWidth + tuiconfig.ColumnTypeWidth + tuiconfig.ColumnCreatedWidth
	titleWidth := width - fixed - 12
	if titleWidth < 20 {
		titleWidth = 20
	}
	b.table.SetColumns(boxColumns(titleWidth))
	if height > 3 {
		b.table.SetHeight(height)
	}
}

// load fetches the current page of boxes
func (b *browserPage) load() tea.Cmd {
	b.loading = true
	b.err = nil
	svc := b.app.opts.Service
	q := b.query
	return func() tea.Msg {
		boxes, err := svc.List(context.Background(), q)
		return boxesLoadedMsg{boxes: boxes, err: err}
	}
}

// ownsNotice reports whether id is the notice of the open download panel
func (b *browserPage) ownsNotice(id string) bool {
	return b.panel != nil && id == notice.PanelID(b.panel.ID())
}

func (b *browserPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case boxesLoadedMsg:
		b.loading = false
		b.err = msg.err
		if msg.err != nil {
			logrus.WithError(msg.err).Error("tui: failed to list boxes")
			return nil
		}
		b.boxes = msg.boxes
		b.updateTable()

	case panelDoneMsg:
		b.busy = false
		return b.finish(msg)
	}
	return nil
}

func (b *browserPage) finish(msg panelDoneMsg) tea.Cmd {
	var cmd tea.Cmd
	status := b.app.status

	switch msg.action {
	case actionDownload:
		if msg.state == panel.StateSuccess && b.panel != nil {
			status.SetMessage(fmt.Sprintf("Saved to %s", b.panel.SavedPath()), messaging.MessageSuccess)
		}
	case actionDelete:
		if msg.err == nil {
			b.cursors = nil
			b.query.Cursor = 0
			cmd = b.load()
		}
	case actionCopy:
		if msg.err != nil {
			status.SetMessage(msg.err.Error(), messaging.MessageError)
		} else {
			status.SetMessage(fmt.Sprintf("Copied %s", msg.link), messaging.MessageSuccess)
		}
	}

	// The panel closes itself at the end of a download or delete.
	if b.panel != nil && !b.app.notices.IsOpen(notice.PanelID(b.panel.ID())) {
		b.releasePanel()
	}
	return cmd
}

func (b *browserPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if b.panel != nil {
		return b.handlePanelKey(msg)
	}
	if b.searching {
		return b.handleSearchKey(msg)
	}

	keys := b.app.keyMap
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit

	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		var cmd tea.Cmd
		b.table, cmd = b.table.Update(msg)
		return cmd

	case key.Matches(msg, keys.Refresh):
		return b.load()

	case key.Matches(msg, keys.Open):
		return b.openPanel()

	case key.Matches(msg, keys.Upload):
		return b.app.navigate(RouteUpload)

	case key.Matches(msg, keys.Search):
		b.searching = true
		b.search.SetValue(b.query.Keyword)
		return b.search.Focus()

	case key.Matches(msg, keys.NextPage):
		if b.loading || len(b.boxes) == 0 {
			return nil
		}
		b.cursors = append(b.cursors, b.query.Cursor)
		b.query.Cursor = b.boxes[len(b.boxes)-1].ID
		return b.load()

	case key.Matches(msg, keys.PrevPage):
		if b.loading || len(b.cursors) == 0 {
			return nil
		}
		b.query.Cursor = b.cursors[len(b.cursors)-1]
		b.cursors = b.cursors[:len(b.cursors)-1]
		return b.load()

	case key.Matches(msg, keys.Help):
		b.app.showHelp = true
	}
	return nil
}

func (b *browserPage) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		b.searching = false
		b.search.Blur()
		b.query.Keyword = strings.TrimSpace(b.search.Value())
		b.query.Cursor = 0
		b.cursors = nil
		return b.load()
	case tea.KeyEsc:
		b.searching = false
		b.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	return cmd
}

// openPanel mounts a download panel for the selected box
func (b *browserPage) openPanel() tea.Cmd {
	if len(b.boxes) == 0 {
		return nil
	}
	idx := b.table.Cursor()
	if idx < 0 || idx >= len(b.boxes) {
		return nil
	}

	b.current = b.boxes[idx]
	opts := b.app.opts
	b.panel = panel.New(b.current.ID, panel.Deps{
		Remote:    opts.Service,
		Saver:     opts.Saver,
		Clipboard: opts.Clipboard,
		Links:     b.app.links,
		Notices:   b.app.notices,
		Loading:   b.app.loading,
		Tracker:   opts.Tracker,
		Alerter:   panel.AlerterFunc(b.app.alert),
	})
	b.app.notices.Open(notice.PanelID(b.current.ID))

	b.password.Reset()
	return b.password.Focus()
}

func (b *browserPage) releasePanel() {
	b.app.notices.Close(notice.PanelID(b.panel.ID()))
	b.panel.Unmount()
	b.panel = nil
	b.password.Blur()
}

func (b *browserPage) handlePanelKey(msg tea.KeyMsg) tea.Cmd {
	keys := b.app.keyMap
	if b.busy {
		return nil
	}

	p := b.panel
	switch {
	case key.Matches(msg, keys.Back):
		b.releasePanel()
		return nil

	case key.Matches(msg, keys.Download):
		b.busy = true
		p.SetPassword(b.password.Value())
		return func() tea.Msg {
			state, err := p.Download(context.Background())
			return panelDoneMsg{action: actionDownload, state: state, err: err}
		}

	case key.Matches(msg, keys.Delete):
		b.busy = true
		p.SetPassword(b.password.Value())
		return func() tea.Msg {
			err := p.Delete(context.Background())
			return panelDoneMsg{action: actionDelete, err: err}
		}

	case key.Matches(msg, keys.CopyLink):
		return func() tea.Msg {
			link, err := p.CopyLink()
			return panelDoneMsg{action: actionCopy, link: link, err: err}
		}
	}

	var cmd tea.Cmd
	b.password, cmd = b.password.Update(msg)
	return cmd
}

// updateTable updates table rows from the boxes slice
func (b *browserPage) updateTable() {
	rows := make([]table.Row, len(b.boxes))
	for i, s := range b.boxes {
		title := s.Title
		if s.FileCount > 0 {
			title = fmt.Sprintf("%s (%d)", title, s.FileCount)
		}
		rows[i] = table.Row{
			strconv.FormatInt(s.ID, 10),
			title,
			s.Uploader,
			s.Type,
			utils.FormatCreated(s.CreatedAt),
		}
	}
	b.table.SetRows(rows)
	if len(rows) > 0 && b.table.Cursor() >= len(rows) {
		b.table.SetCursor(0)
	}
}

func (b *browserPage) view() string {
	if b.loading && len(b.boxes) == 0 {
		return theme.CreateLoadingStyle().Render(fmt.Sprintf(" %s Loading boxes...", b.app.spinner.View()))
	}
	if b.err != nil {
		return theme.CreateErrorStyle().Render(fmt.Sprintf(" Error: %v", b.err))
	}

	var sections []string
	if b.searching {
		sections = append(sections, " "+b.search.View())
	} else if b.query.Keyword != "" {
		sections = append(sections, theme.CreateSecondaryTextStyle().Render(fmt.Sprintf(" Filter: %q", b.query.Keyword)))
	}

	if len(b.boxes) == 0 {
		sections = append(sections, theme.CreateSecondaryTextStyle().Render(" No boxes found"))
	} else {
		sections = append(sections, b.table.View())
		info := fmt.Sprintf(" Page %d • %d boxes", len(b.cursors)+1, len(b.boxes))
		sections = append(sections, theme.CreateSecondaryTextStyle().Render(info))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// panelView renders the download panel dialog
func (b *browserPage) panelView() string {
	s := b.current
	link := b.app.links.DownloadLink(s.ID)

	var sb strings.Builder
	sb.WriteString(theme.CreateSectionHeaderStyle().Render(fmt.Sprintf("📦 Box #%d %s", s.ID, s.Title)))
	sb.WriteString("\n")
	meta := []string{s.Uploader}
	if s.Type != "" {
		meta = append(meta, s.Type)
	}
	if s.FileCount > 0 {
		meta = append(meta, fmt.Sprintf("%d files", s.FileCount))
	}
	sb.WriteString(theme.CreateSecondaryTextStyle().Render(strings.Join(meta, " • ")))
	sb.WriteString("\n\n")
	sb.WriteString(b.password.View())
	sb.WriteString("\n\n")
	sb.WriteString(theme.CreateURLStyle().Render(theme.FormatClickableURL(utils.DisplayURL(link), link)))
	sb.WriteString("\n\n")

	if b.busy {
		sb.WriteString(theme.CreateLoadingStyle().Render(b.app.spinner.View() + " Working..."))
	} else {
		buttons := lipgloss.JoinHorizontal(lipgloss.Center,
			theme.CreateDialogButtonStyle(true).Render("enter Download"),
			theme.CreateDialogButtonStyle(false).Render("ctrl+y Copy link"),
			theme.CreateDialogButtonStyle(false).Render("ctrl+d Delete"),
		)
		sb.WriteString(buttons)
	}
	sb.WriteString("\n")
	sb.WriteString(theme.CreateSecondaryTextStyle().Render("esc to close"))

	return theme.CreateDialogStyle(tuiconfig.DialogLargeWidth, "").Render(sb.String())
}

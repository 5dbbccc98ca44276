package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	tuiconfig "github.com/HaiFongPan/hanbatbox-cli/internal/tui/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/tui/messaging"
	"github.com/HaiFongPan/hanbatbox-cli/internal/tui/theme"
	"github.com/HaiFongPan/hanbatbox-cli/internal/upload"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

type filesCollectedMsg struct {
	files []box.File
	err   error
}

type uploadProgressMsg struct {
	sent, total int64
	percent     float64
}

type submitDoneMsg struct {
	ref     box.Ref
	outcome upload.Outcome
	err     error
}

// Focusable parts of the upload page, in tab order
const (
	fieldTitle = iota
	fieldPassword
	fieldType
	fieldPath
	fieldFiles
	fieldCount
)

var fieldLabels = [...]string{"Title", "Password", "Type", "Add files"}

// progressCreator reports multipart progress to the running program
type progressCreator struct {
	app *App
}

func (c progressCreator) CreateBox(ctx context.Context, draft *box.Draft) (box.Ref, error) {
	return c.app.opts.Service.CreateBoxWithProgress(ctx, draft, func(sent, total int64, percentage float64) {
		c.app.send(uploadProgressMsg{sent: sent, total: total, percent: percentage})
	})
}

// uploadPage is the box creation form
type uploadPage struct {
	app *App

	form       *upload.Form
	inputs     []textinput.Model
	focus      int
	fileCursor int

	submitter *upload.Submitter
	collector upload.Collector
	workDir   string

	progress progress.Model
	percent  float64
	sending  bool
	created  box.Ref
}

func newUploadPage(app *App) *uploadPage {
	cfg := app.opts.Config

	inputs := make([]textinput.Model, len(fieldLabels))
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = tuiconfig.InputWidth
		inputs[i] = ti
	}
	inputs[fieldTitle].Placeholder = "taken from the first file when empty"
	inputs[fieldTitle].CharLimit = 100
	inputs[fieldPassword].Placeholder = "at least 4 characters"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'
	inputs[fieldType].Placeholder = "optional"
	inputs[fieldType].SetValue(cfg.Upload.DefaultType)
	inputs[fieldPath].Placeholder = "paths or globs, e.g. ~/Documents/*.pdf"

	form := upload.NewForm()
	form.SetType(cfg.Upload.DefaultType)

	p := &uploadPage{
		app:      app,
		form:     form,
		inputs:   inputs,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(tuiconfig.InputWidth)),
	}

	// Compressed copies live in one work dir per page, removed by close
	if cfg.Upload.DefaultCompress != "" {
		dir, err := os.MkdirTemp("", "hanbatbox-upload-")
		if err != nil {
			logrus.Warnf("Image compression disabled: failed to create work directory: %v", err)
		} else {
			p.workDir = dir
			p.collector = upload.Collector{Compress: cfg.Upload.DefaultCompress, WorkDir: dir}
		}
	}
	p.submitter = upload.NewSubmitter(upload.DefaultRules(), progressCreator{app: app}, app.notices, app.loading, app)
	return p
}

// close removes the compressed copies made for this page
func (p *uploadPage) close() {
	if p.workDir == "" {
		return
	}
	if err := os.RemoveAll(p.workDir); err != nil {
		logrus.Warnf("Failed to remove work directory %s: %v", p.workDir, err)
	}
	p.workDir = ""
}

func (p *uploadPage) focusCmd() tea.Cmd {
	for i := range p.inputs {
		p.inputs[i].Blur()
	}
	if p.focus < len(p.inputs) {
		return p.inputs[p.focus].Focus()
	}
	return nil
}

func (p *uploadPage) uploader() string {
	if p.app.opts.User == nil {
		return ""
	}
	return p.app.opts.User.Nickname
}

func (p *uploadPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := p.app.keyMap
	if p.sending {
		return nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		return p.app.navigate(RouteBoxes)

	case key.Matches(msg, keys.Submit):
		return p.submit()

	case key.Matches(msg, keys.NextField):
		p.focus = (p.focus + 1) % fieldCount
		return p.focusCmd()

	case key.Matches(msg, keys.PrevField):
		p.focus = (p.focus + fieldCount - 1) % fieldCount
		return p.focusCmd()
	}

	if p.focus == fieldFiles {
		return p.handleFileListKey(msg)
	}

	if p.focus == fieldPath && key.Matches(msg, keys.AddFile) {
		paths := strings.Fields(p.inputs[fieldPath].Value())
		p.inputs[fieldPath].Reset()
		if len(paths) == 0 {
			return nil
		}
		collector := p.collector
		return func() tea.Msg {
			files, err := collector.Collect(paths...)
			return filesCollectedMsg{files: files, err: err}
		}
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	p.syncForm()
	return cmd
}

func (p *uploadPage) handleFileListKey(msg tea.KeyMsg) tea.Cmd {
	keys := p.app.keyMap
	files := p.form.Files()

	switch {
	case key.Matches(msg, keys.Up):
		if p.fileCursor > 0 {
			p.fileCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.fileCursor < len(files)-1 {
			p.fileCursor++
		}
	case key.Matches(msg, keys.RemoveFile):
		if err := p.form.RemoveFile(p.fileCursor); err != nil {
			logrus.Debugf("tui: %v", err)
			return nil
		}
		if p.fileCursor >= len(p.form.Files()) && p.fileCursor > 0 {
			p.fileCursor--
		}
	}
	return nil
}

// syncForm copies the text fields into the draft
func (p *uploadPage) syncForm() {
	p.form.SetTitle(p.inputs[fieldTitle].Value())
	p.form.SetPassword(p.inputs[fieldPassword].Value())
	p.form.SetType(strings.TrimSpace(p.inputs[fieldType].Value()))
}

func (p *uploadPage) submit() tea.Cmd {
	p.syncForm()
	p.sending = true
	p.percent = 0

	submitter := p.submitter
	draft := p.form.Draft()
	uploader := p.uploader()
	return func() tea.Msg {
		ref, outcome, err := submitter.Submit(context.Background(), draft, uploader)
		return submitDoneMsg{ref: ref, outcome: outcome, err: err}
	}
}

func (p *uploadPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case filesCollectedMsg:
		if msg.err != nil {
			p.app.status.SetMessage(msg.err.Error(), messaging.MessageError)
			return nil
		}
		p.form.AddFiles(msg.files...)
		p.inputs[fieldTitle].SetValue(p.form.Title())
		p.app.status.SetMessage(fmt.Sprintf("Added %d file(s)", len(msg.files)), messaging.MessageInfo)

	case uploadProgressMsg:
		p.percent = msg.percent / 100

	case submitDoneMsg:
		p.sending = false
		logrus.Debugf("tui: submit finished: %s", msg.outcome)
		if msg.outcome == upload.OutcomeCreated {
			p.created = msg.ref
			if user := p.app.opts.User; user != nil {
				if err := user.SetLastBoxID(msg.ref.ID); err != nil {
					logrus.Warnf("Failed to remember last box: %v", err)
				}
			}
		}
	}
	return nil
}

func (p *uploadPage) view() string {
	var b strings.Builder

	for i, label := range fieldLabels {
		b.WriteString(theme.CreateLabelStyle(p.focus == i).Render(label))
		b.WriteString(" ")
		b.WriteString(p.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString(theme.CreateLabelStyle(false).Render("Uploader"))
	b.WriteString(" ")
	b.WriteString(p.uploader())
	b.WriteString("\n\n")

	b.WriteString(p.fileListView())

	if p.sending {
		b.WriteString("\n")
		b.WriteString(theme.CreateLoadingStyle().Render(theme.FormatProgressMessage("Uploading", p.form.Title(), p.percent*100)))
		b.WriteString("\n")
		b.WriteString(p.progress.ViewAs(p.percent))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().MarginLeft(1).Render(b.String())
}

func (p *uploadPage) fileListView() string {
	files := p.form.Files()
	header := theme.CreateSectionHeaderStyle()
	if p.focus == fieldFiles {
		header = header.Foreground(lipgloss.Color(theme.ColorBrightYellow))
	}

	var b strings.Builder
	total := int64(0)
	for _, f := range files {
		total += f.Size
	}
	b.WriteString(header.Render(fmt.Sprintf("Files (%d, %s)", len(files), humanize.IBytes(uint64(total)))))
	b.WriteString("\n")

	if len(files) == 0 {
		b.WriteString(theme.CreateSecondaryTextStyle().Render("No files yet"))
		b.WriteString("\n")
		return b.String()
	}

	start := 0
	if p.fileCursor >= tuiconfig.MaxVisibleFiles {
		start = p.fileCursor - tuiconfig.MaxVisibleFiles + 1
	}
	end := start + tuiconfig.MaxVisibleFiles
	if end > len(files) {
		end = len(files)
	}

	for i := start; i < end; i++ {
		f := files[i]
		category := utils.GetFileCategory(f.Name)
		name := truncateName(f.Name, tuiconfig.FileNameTruncateLength)

		cursor := "  "
		if p.focus == fieldFiles && i == p.fileCursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%s %s  %s", cursor, theme.GetCategoryEmoji(category),
			lipgloss.NewStyle().Foreground(lipgloss.Color(theme.GetFileColor(category))).Render(name),
			theme.CreateSecondaryTextStyle().Render(humanize.IBytes(uint64(f.Size))))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// truncateName shortens name to width terminal cells without splitting characters
func truncateName(name string, width int) string {
	return ansi.Truncate(name, width, "...")
}

package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/config"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/upload"
)

// fakeService is an in-memory BoxService
type fakeService struct {
	boxes       []box.Summary
	queries     []box.Query
	created     []box.Draft
	downloadErr error
	deleteErr   error
	deleted     []int64
}

func (f *fakeService) List(_ context.Context, q box.Query) ([]box.Summary, error) {
	f.queries = append(f.queries, q)
	return f.boxes, nil
}

func (f *fakeService) CreateBox(ctx context.Context, d *box.Draft) (box.Ref, error) {
	return f.CreateBoxWithProgress(ctx, d, nil)
}

func (f *fakeService) CreateBoxWithProgress(_ context.Context, d *box.Draft, cb box.ProgressCallback) (box.Ref, error) {
	f.created = append(f.created, *d)
	if cb != nil {
		cb(10, 10, 100)
	}
	return box.Ref{ID: 7}, nil
}

func (f *fakeService) Download(_ context.Context, id int64, password string) (*box.Payload, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return &box.Payload{Body: io.NopCloser(strings.NewReader("zip")), Filename: "report.pdf"}, nil
}

func (f *fakeService) Delete(_ context.Context, id int64, password string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type memorySaver struct {
	names []string
}

func (s *memorySaver) Save(filename string, r io.Reader) (string, error) {
	s.names = append(s.names, filename)
	return "/downloads/" + filename, nil
}

type memoryClipboard struct {
	text string
}

func (c *memoryClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestApp(t *testing.T, svc *fakeService) (*App, *memorySaver) {
	t.Helper()
	return newTestAppWithConfig(t, svc, &config.Config{Share: config.ShareConfig{BaseURL: "https://hanbatbox.kr"}})
}

func newTestAppWithConfig(t *testing.T, svc *fakeService, cfg *config.Config) (*App, *memorySaver) {
	t.Helper()
	saver := &memorySaver{}
	app := NewApp(Options{
		Service:   svc,
		Config:    cfg,
		User:      &config.UserData{Nickname: "guest-1"},
		Clipboard: &memoryClipboard{},
		Saver:     saver,
	})
	t.Cleanup(app.Close)

	// Deliver the initial listing synchronously.
	app.Update(app.browser.load()())
	return app, saver
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func typeText(app *App, s string) {
	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// run executes cmd and feeds its message back into the app
func run(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	app.Update(cmd())
}

func sampleBoxes() []box.Summary {
	return []box.Summary{
		{ID: 42, Title: "Quarterly report", Uploader: "kim", FileCount: 2},
		{ID: 41, Title: "Photos", Uploader: "lee"},
	}
}

func TestApp_ListsBoxes(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{boxes: sampleBoxes()})

	view := app.View()
	assert.Contains(t, view, "Quarterly report")
	assert.Contains(t, view, "Photos")
}

func TestApp_DownloadSuccess(t *testing.T) {
	app, saver := newTestApp(t, &fakeService{boxes: sampleBoxes()})

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, app.notices.IsOpen(notice.PanelID(42)))
	assert.Contains(t, app.View(), "Box #42")

	typeText(app, "pw")
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, []string{"report.pdf"}, saver.names)
	assert.True(t, app.notices.IsOpen(notice.DownloadComplete))
	assert.False(t, app.notices.IsOpen(notice.PanelID(42)))
	assert.Nil(t, app.browser.panel)
	assert.False(t, app.loading.Active())

	// Dismiss the completion notice.
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, app.notices.OpenIDs())
}

func TestApp_DownloadWrongPassword(t *testing.T) {
	svc := &fakeService{
		boxes:       sampleBoxes(),
		downloadErr: &box.Error{Kind: box.KindUnauthorized, Status: 401},
	}
	app, saver := newTestApp(t, svc)

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "nope")
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Empty(t, saver.names)
	assert.True(t, app.notices.IsOpen(notice.PasswordInvalid))
	assert.False(t, app.notices.IsOpen(notice.DownloadFailed))
	assert.Contains(t, app.View(), "Wrong password")
}

func TestApp_DeleteFailureKeepsPanel(t *testing.T) {
	svc := &fakeService{
		boxes:     sampleBoxes(),
		deleteErr: &box.Error{Kind: box.KindRemoteFailure, Status: 404},
	}
	app, _ := newTestApp(t, svc)

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlD}))

	assert.True(t, app.notices.IsOpen(notice.PasswordInvalid))
	assert.NotNil(t, app.browser.panel)

	// Closing the notice reveals the panel again.
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	id, _, ok := app.notices.Top()
	require.True(t, ok)
	assert.Equal(t, notice.PanelID(42), id)
}

func TestApp_DeleteSuccessReloads(t *testing.T) {
	svc := &fakeService{boxes: sampleBoxes()}
	app, _ := newTestApp(t, svc)

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "pw")
	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	_, reload := app.Update(cmd())

	assert.Equal(t, []int64{42}, svc.deleted)
	assert.True(t, app.notices.IsOpen(notice.BoxDeleted))
	assert.Nil(t, app.browser.panel)
	require.NotNil(t, reload)
	app.Update(reload())
	assert.Len(t, svc.queries, 2)
}

func TestApp_SearchSetsKeyword(t *testing.T) {
	svc := &fakeService{boxes: sampleBoxes()}
	app, _ := newTestApp(t, svc)

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	typeText(app, "report")
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))

	require.Len(t, svc.queries, 2)
	assert.Equal(t, "report", svc.queries[1].Keyword)
}

func TestApp_NextPageUsesLastID(t *testing.T) {
	svc := &fakeService{boxes: sampleBoxes()}
	app, _ := newTestApp(t, svc)

	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}))
	assert.Equal(t, int64(41), svc.queries[1].Cursor)

	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}))
	assert.Equal(t, int64(0), svc.queries[2].Cursor)
}

func TestApp_UploadFlow(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestApp(t, svc)

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	require.Equal(t, RouteUpload, app.Route())

	app.Update(filesCollectedMsg{files: []box.File{
		{Path: "/tmp/minutes.docx", Name: "minutes.docx", Size: 1024},
		{Path: "/tmp/slides.pptx", Name: "slides.pptx", Size: 2048},
	}})
	assert.Equal(t, "minutes", app.upload.inputs[fieldTitle].Value())

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	typeText(app, "secret")
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlS}))

	require.Len(t, svc.created, 1)
	assert.Equal(t, "minutes", svc.created[0].Title)
	assert.Equal(t, "guest-1", svc.created[0].Uploader)
	assert.Len(t, svc.created[0].Files, 2)

	assert.Equal(t, upload.RouteUploadComplete, app.Route())
	assert.Equal(t, int64(7), app.opts.User.LastBoxID)
	assert.Contains(t, app.View(), "Box #7")
	assert.False(t, app.loading.Active())
}

func TestApp_UploadInvalidShowsReasons(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestApp(t, svc)

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlS}))

	assert.Empty(t, svc.created)
	assert.Equal(t, RouteUpload, app.Route())
	assert.True(t, app.notices.IsOpen(notice.ValidationError))
	assert.Contains(t, app.View(), "select at least one file")

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, app.notices.IsOpen(notice.ValidationError))
}

func TestApp_UploadRemoveFile(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{})

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	app.Update(filesCollectedMsg{files: []box.File{{Name: "a.txt"}, {Name: "b.txt"}}})

	for i := 0; i < fieldFiles; i++ {
		press(app, tea.KeyMsg{Type: tea.KeyTab})
	}
	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	files := app.upload.form.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "b.txt", files[0].Name)
}

func compressingConfig() *config.Config {
	return &config.Config{
		Share:  config.ShareConfig{BaseURL: "https://hanbatbox.kr"},
		Upload: config.UploadConfig{DefaultCompress: "normal"},
	}
}

func TestApp_UploadWorkDirRemovedOnLeave(t *testing.T) {
	app, _ := newTestAppWithConfig(t, &fakeService{}, compressingConfig())

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	workDir := app.upload.collector.WorkDir
	require.NotEmpty(t, workDir)
	assert.DirExists(t, workDir)

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, RouteBoxes, app.Route())
	assert.NoDirExists(t, workDir)
}

func TestApp_UploadWorkDirRemovedAfterCreate(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestAppWithConfig(t, svc, compressingConfig())

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	workDir := app.upload.collector.WorkDir
	app.Update(filesCollectedMsg{files: []box.File{{Path: "/tmp/a.txt", Name: "a.txt", Size: 1}}})
	press(app, tea.KeyMsg{Type: tea.KeyTab})
	typeText(app, "secret")
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlS}))

	require.Equal(t, upload.RouteUploadComplete, app.Route())
	assert.NoDirExists(t, workDir)
}

func TestApp_CloseRemovesUploadWorkDir(t *testing.T) {
	app, _ := newTestAppWithConfig(t, &fakeService{}, compressingConfig())

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	workDir := app.upload.collector.WorkDir
	app.Close()
	assert.NoDirExists(t, workDir)
}

func TestApp_UploadFileListKeepsMultibyteNamesIntact(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{})

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	long := strings.Repeat("한밭대학교", 6) + ".pdf"
	app.Update(filesCollectedMsg{files: []box.File{{Name: long, Size: 10}}})

	view := app.View()
	assert.True(t, utf8.ValidString(view))
	assert.Contains(t, view, "...")
	assert.NotContains(t, view, long)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short.txt", truncateName("short.txt", 40))

	got := truncateName(strings.Repeat("가", 30), 10)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, lipgloss.Width(got), 10)
}

func TestApp_CompletePageCopiesLink(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestApp(t, svc)
	clip := app.opts.Clipboard.(*memoryClipboard)

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	app.Update(filesCollectedMsg{files: []box.File{{Path: "/tmp/a.txt", Name: "a.txt", Size: 1}}})
	press(app, tea.KeyMsg{Type: tea.KeyTab})
	typeText(app, "secret")
	run(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlS}))
	require.Equal(t, upload.RouteUploadComplete, app.Route())

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.Equal(t, "https://hanbatbox.kr/download/7", clip.text)
}

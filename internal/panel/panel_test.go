package panel

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/telemetry"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

// MockRemote is a mock implementation of Remote
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Download(ctx context.Context, id int64, password string) (*box.Payload, error) {
	args := m.Called(ctx, id, password)
	payload, _ := args.Get(0).(*box.Payload)
	return payload, args.Error(1)
}

func (m *MockRemote) Delete(ctx context.Context, id int64, password string) error {
	args := m.Called(ctx, id, password)
	return args.Error(0)
}

type savedFile struct {
	name    string
	content string
}

type memorySaver struct {
	saved []savedFile
	err   error
}

func (s *memorySaver) Save(filename string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.saved = append(s.saved, savedFile{name: filename, content: string(data)})
	return "/downloads/" + filename, nil
}

type memoryClipboard struct {
	writes []string
	err    error
}

func (c *memoryClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

type recordingTracker struct {
	actions []string
}

func (t *recordingTracker) Track(e telemetry.Event) error {
	t.actions = append(t.actions, e.Action)
	return nil
}

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

type fixture struct {
	remote    *MockRemote
	saver     *memorySaver
	clipboard *memoryClipboard
	notices   *notice.Registry
	loading   *notice.Indicator
	tracker   *recordingTracker
	alerts    []string
	panel     *Panel
}

func newFixture(t *testing.T, id int64) *fixture {
	t.Helper()
	f := &fixture{
		remote:    new(MockRemote),
		saver:     &memorySaver{},
		clipboard: &memoryClipboard{},
		notices:   notice.NewRegistry(),
		loading:   notice.NewIndicator(nil),
		tracker:   &recordingTracker{},
	}
	f.panel = New(id, Deps{
		Remote:    f.remote,
		Saver:     f.saver,
		Clipboard: f.clipboard,
		Links:     utils.NewURLGenerator("https://hanbatbox.kr"),
		Notices:   f.notices,
		Loading:   f.loading,
		Tracker:   f.tracker,
		Alerter:   AlerterFunc(func(m string) { f.alerts = append(f.alerts, m) }),
	})
	f.panel.SetPassword("pw")
	f.notices.Open(notice.PanelID(id))
	return f
}

func TestNew_RegistersNotices(t *testing.T) {
	f := newFixture(t, 42)

	for _, id := range []string{
		notice.PanelID(42),
		notice.PasswordInvalid,
		notice.CopyComplete,
		notice.DownloadFailed,
		notice.DownloadComplete,
	} {
		assert.True(t, f.notices.Registered(id), id)
	}
	assert.Equal(t, StateIdle, f.panel.State())
}

func TestDownload_Unauthorized(t *testing.T) {
	f := newFixture(t, 42)
	f.remote.On("Download", mock.Anything, int64(42), "pw").
		Return(nil, &box.Error{Kind: box.KindUnauthorized, Status: 401})

	state, err := f.panel.Download(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StateUnauthorized, state)
	assert.True(t, f.notices.IsOpen(notice.PasswordInvalid))
	assert.False(t, f.notices.IsOpen(notice.DownloadFailed))
	assert.False(t, f.notices.IsOpen(notice.PanelID(42)))
	assert.False(t, f.loading.Active())
	assert.Equal(t, []string{telemetry.ActionDownloadTry}, f.tracker.actions)
}

func TestDownload_Success(t *testing.T) {
	f := newFixture(t, 42)
	body := &trackedBody{Reader: strings.NewReader("zip bytes")}
	f.remote.On("Download", mock.Anything, int64(42), "pw").
		Return(&box.Payload{Body: body, Filename: "report.pdf"}, nil)

	state, err := f.panel.Download(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, state)
	require.Len(t, f.saver.saved, 1)
	assert.Equal(t, "report.pdf", f.saver.saved[0].name)
	assert.Equal(t, "zip bytes", f.saver.saved[0].content)
	assert.True(t, body.closed)
	assert.Equal(t, "/downloads/report.pdf", f.panel.SavedPath())

	assert.True(t, f.notices.IsOpen(notice.DownloadComplete))
	n, _ := f.notices.Get(notice.DownloadComplete)
	assert.Contains(t, n.Body, "/downloads/report.pdf")
	assert.False(t, f.notices.IsOpen(notice.PanelID(42)))
	assert.False(t, f.loading.Active())
	assert.Equal(t, []string{telemetry.ActionDownloadTry, telemetry.ActionDownloadOK}, f.tracker.actions)
}

func TestDownload_ServerError(t *testing.T) {
	f := newFixture(t, 42)
	f.remote.On("Download", mock.Anything, int64(42), "pw").
		Return(nil, &box.Error{Kind: box.KindRemoteFailure, Status: 500})

	state, err := f.panel.Download(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StateFailed, state)
	assert.True(t, f.notices.IsOpen(notice.DownloadFailed))
	assert.False(t, f.notices.IsOpen(notice.PasswordInvalid))
	assert.False(t, f.notices.IsOpen(notice.PanelID(42)))
	assert.False(t, f.loading.Active())
	assert.Equal(t, []string{telemetry.ActionDownloadTry, telemetry.ActionDownloadFail}, f.tracker.actions)
}

func TestDownload_SaveErrorIsFailure(t *testing.T) {
	f := newFixture(t, 7)
	f.saver.err = errors.New("disk full")
	body := &trackedBody{Reader: strings.NewReader("data")}
	f.remote.On("Download", mock.Anything, int64(7), "pw").
		Return(&box.Payload{Body: body, Filename: "a.zip"}, nil)

	state, err := f.panel.Download(context.Background())

	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, StateFailed, state)
	assert.True(t, body.closed)
	assert.True(t, f.notices.IsOpen(notice.DownloadFailed))
	assert.False(t, f.loading.Active())
}

func TestDownload_TelemetryFailureIsIgnored(t *testing.T) {
	f := newFixture(t, 42)
	f.panel.deps.Tracker = panickingTracker{}
	f.remote.On("Download", mock.Anything, int64(42), "pw").
		Return(&box.Payload{Body: io.NopCloser(strings.NewReader("x")), Filename: "x.bin"}, nil)

	state, err := f.panel.Download(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, state)
}

type panickingTracker struct{}

func (panickingTracker) Track(telemetry.Event) error { panic("collector exploded") }

func TestCopyLink_IsStable(t *testing.T) {
	f := newFixture(t, 42)

	first, err := f.panel.CopyLink()
	require.NoError(t, err)
	second, err := f.panel.CopyLink()
	require.NoError(t, err)

	assert.Equal(t, "https://hanbatbox.kr/download/42", first)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{first, second}, f.clipboard.writes)
	assert.True(t, f.notices.IsOpen(notice.CopyComplete))
}

func TestCopyLink_ClipboardFailure(t *testing.T) {
	f := newFixture(t, 42)
	f.clipboard.err = errors.New("no clipboard")

	_, err := f.panel.CopyLink()

	assert.Error(t, err)
	assert.False(t, f.notices.IsOpen(notice.CopyComplete))
}

func TestDelete_Success(t *testing.T) {
	f := newFixture(t, 9)
	f.remote.On("Delete", mock.Anything, int64(9), "pw").Return(nil)

	require.NoError(t, f.panel.Delete(context.Background()))

	assert.Len(t, f.alerts, 1)
	assert.False(t, f.notices.IsOpen(notice.PanelID(9)))
	assert.False(t, f.notices.IsOpen(notice.PasswordInvalid))
	assert.False(t, f.loading.Active())
}

func TestDelete_AnyFailureIsWrongPassword(t *testing.T) {
	for _, err := range []error{
		&box.Error{Kind: box.KindUnauthorized, Status: 401},
		&box.Error{Kind: box.KindRemoteFailure, Status: 404},
		errors.New("connection reset"),
	} {
		f := newFixture(t, 9)
		f.remote.On("Delete", mock.Anything, int64(9), "pw").Return(err)

		assert.Error(t, f.panel.Delete(context.Background()))
		assert.True(t, f.notices.IsOpen(notice.PasswordInvalid))
		assert.Empty(t, f.alerts)
		assert.True(t, f.notices.IsOpen(notice.PanelID(9)))
		assert.False(t, f.loading.Active())
	}
}

func TestUnmount_KeepsSharedNotices(t *testing.T) {
	f := newFixture(t, 3)

	f.panel.Unmount()

	assert.False(t, f.notices.Registered(notice.PanelID(3)))
	assert.True(t, f.notices.Registered(notice.PasswordInvalid))
}

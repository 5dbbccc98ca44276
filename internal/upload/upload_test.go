package upload

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
)

// MockCreator is a mock implementation of Creator
type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) CreateBox(ctx context.Context, draft *box.Draft) (box.Ref, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(box.Ref), args.Error(1)
}

type recordingNavigator struct {
	routes []string
	// loadingAtGoTo captures the indicator state when GoTo runs
	loading       *notice.Indicator
	loadingAtGoTo []bool
}

func (n *recordingNavigator) GoTo(route string) {
	n.routes = append(n.routes, route)
	if n.loading != nil {
		n.loadingAtGoTo = append(n.loadingAtGoTo, n.loading.Active())
	}
}

func files(names ...string) []box.File {
	out := make([]box.File, 0, len(names))
	for _, n := range names {
		out = append(out, box.File{Path: "/tmp/" + n, Name: n, Size: 10})
	}
	return out
}

func validDraft() box.Draft {
	form := NewForm()
	form.AddFiles(files("report.pdf")...)
	form.SetPassword("secret")
	return form.Draft()
}

func TestRemoveExt(t *testing.T) {
	tests := map[string]string{
		"report.pdf":     "report",
		"archive.tar.gz": "archive.tar",
		"README":         "README",
		".bashrc":        "",
		"photo.":         "photo",
	}
	for in, want := range tests {
		assert.Equal(t, want, RemoveExt(in), in)
	}
}

func TestAddFiles_ConcatenatesInOrder(t *testing.T) {
	a := files("a.txt", "b.txt")
	b := files("c.txt")

	result := AddFiles(a, b)

	require.Len(t, result, len(a)+len(b))
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names(result))
}

func TestAddFiles_ReturnsNewSlice(t *testing.T) {
	a := make([]box.File, 1, 10)
	a[0] = box.File{Name: "a.txt"}

	result := AddFiles(a, nil)
	result[0].Name = "changed"

	assert.Equal(t, "a.txt", a[0].Name)
}

func TestForm_AddFilesFillsBlankTitle(t *testing.T) {
	form := NewForm()
	form.SetTitle("   ")

	form.AddFiles(files("holiday.jpeg", "notes.txt")...)

	assert.Equal(t, "holiday", form.Title())
}

func TestForm_AddFilesUsesFirstFileOfResult(t *testing.T) {
	form := NewForm()
	form.AddFiles(files("first.png")...)
	form.SetTitle("")

	form.AddFiles(files("second.png")...)

	assert.Equal(t, "first", form.Title())
}

func TestForm_AddFilesKeepsExistingTitle(t *testing.T) {
	form := NewForm()
	form.SetTitle("My box")

	form.AddFiles(files("report.pdf")...)
	form.AddFiles(files("other.pdf")...)

	assert.Equal(t, "My box", form.Title())
	assert.Len(t, form.Files(), 2)
}

func TestForm_AddFilesEmptyIsNoop(t *testing.T) {
	form := NewForm()

	form.AddFiles()
	form.AddFiles()

	assert.Equal(t, "", form.Title())
	assert.Empty(t, form.Files())
}

func TestForm_FilesBacksDraft(t *testing.T) {
	form := NewForm()
	shown := form.AddFiles(files("a.txt", "b.txt")...)

	assert.Equal(t, shown, form.Draft().Files)

	require.NoError(t, form.RemoveFile(0))
	assert.Equal(t, []string{"b.txt"}, names(form.Files()))
	assert.Equal(t, form.Files(), form.Draft().Files)
}

func TestForm_RemoveFileOutOfRange(t *testing.T) {
	form := NewForm()
	form.AddFiles(files("a.txt")...)

	assert.Error(t, form.RemoveFile(1))
	assert.Error(t, form.RemoveFile(-1))
	assert.Len(t, form.Files(), 1)
}

func TestRules_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *box.Draft)
		reasons int
	}{
		{"valid", func(d *box.Draft) {}, 0},
		{"blank title", func(d *box.Draft) { d.Title = " " }, 1},
		{"no uploader", func(d *box.Draft) { d.Uploader = "" }, 1},
		{"short password", func(d *box.Draft) { d.Password = "abc" }, 1},
		{"no files", func(d *box.Draft) { d.Files = nil }, 1},
		{"everything missing", func(d *box.Draft) { *d = box.Draft{} }, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.Uploader = "guest"
			tt.mutate(&d)

			result := DefaultRules().Validate(&d)
			assert.Equal(t, tt.reasons == 0, result.Valid)
			assert.Len(t, result.Reasons, tt.reasons)
			if tt.reasons > 0 {
				assert.Equal(t, box.KindValidationFailure, box.KindOf(result.Err()))
			} else {
				assert.NoError(t, result.Err())
			}
		})
	}
}

func TestRules_ValidateTotalSize(t *testing.T) {
	rules := DefaultRules()
	rules.MaxTotalSize = 15

	d := validDraft()
	d.Uploader = "guest"
	d.Files = files("a.bin", "b.bin")

	result := rules.Validate(&d)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reasons[0], "limit")
}

func TestSubmit_InvalidNeverCallsCreator(t *testing.T) {
	creator := new(MockCreator)
	notices := notice.NewRegistry()
	nav := &recordingNavigator{}
	s := NewSubmitter(nil, creator, notices, notice.NewIndicator(nil), nav)

	_, outcome, err := s.Submit(context.Background(), box.Draft{}, "guest")

	assert.Equal(t, OutcomeInvalid, outcome)
	assert.Equal(t, box.KindValidationFailure, box.KindOf(err))
	assert.True(t, notices.IsOpen(notice.ValidationError))
	assert.Empty(t, nav.routes)
	creator.AssertNotCalled(t, "CreateBox", mock.Anything, mock.Anything)
}

func TestSubmit_SuccessNavigatesOnceAfterLoadingCleared(t *testing.T) {
	creator := new(MockCreator)
	creator.On("CreateBox", mock.Anything, mock.MatchedBy(func(d *box.Draft) bool {
		return d.Uploader == "guest-1234" && d.Title == "report"
	})).Return(box.Ref{ID: 42}, nil).Once()

	loading := notice.NewIndicator(nil)
	nav := &recordingNavigator{loading: loading}
	s := NewSubmitter(nil, creator, notice.NewRegistry(), loading, nav)

	ref, outcome, err := s.Submit(context.Background(), validDraft(), " guest-1234 ")

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, int64(42), ref.ID)
	assert.Equal(t, []string{RouteUploadComplete}, nav.routes)
	assert.Equal(t, []bool{false}, nav.loadingAtGoTo)
	assert.False(t, loading.Active())
	creator.AssertExpectations(t)
}

func TestSubmit_RemoteFailureIsLogOnly(t *testing.T) {
	creator := new(MockCreator)
	creator.On("CreateBox", mock.Anything, mock.Anything).
		Return(box.Ref{}, &box.Error{Kind: box.KindRemoteFailure, Status: 500}).Once()

	loading := notice.NewIndicator(nil)
	notices := notice.NewRegistry()
	nav := &recordingNavigator{}
	s := NewSubmitter(nil, creator, notices, loading, nav)

	_, outcome, err := s.Submit(context.Background(), validDraft(), "guest")

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Error(t, err)
	assert.False(t, loading.Active())
	assert.Empty(t, nav.routes)
	assert.Empty(t, notices.OpenIDs())
	creator.AssertExpectations(t)
}

func TestSubmit_RemoteFailureShowsNotice(t *testing.T) {
	t.Skip("submit failures are currently log-only; enable once a failure notice is added")

	creator := new(MockCreator)
	creator.On("CreateBox", mock.Anything, mock.Anything).Return(box.Ref{}, errors.New("offline"))

	notices := notice.NewRegistry()
	s := NewSubmitter(nil, creator, notices, notice.NewIndicator(nil), &recordingNavigator{})
	s.Submit(context.Background(), validDraft(), "guest")

	assert.NotEmpty(t, notices.OpenIDs())
}

func TestSubmit_SecondSubmitWhileRunningIsBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	creator := new(MockCreator)
	creator.On("CreateBox", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(box.Ref{ID: 7}, nil).Once()

	s := NewSubmitter(nil, creator, notice.NewRegistry(), notice.NewIndicator(nil), &recordingNavigator{})

	done := make(chan Outcome)
	go func() {
		_, outcome, _ := s.Submit(context.Background(), validDraft(), "guest")
		done <- outcome
	}()

	<-started
	assert.True(t, s.Busy())
	_, outcome, err := s.Submit(context.Background(), validDraft(), "guest")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeBusy, outcome)

	close(release)
	assert.Equal(t, OutcomeCreated, <-done)
	assert.False(t, s.Busy())
	creator.AssertNumberOfCalls(t, "CreateBox", 1)
}

func names(fs []box.File) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

func TestCollector_ExpandsGlobsAndCompresses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("world!"), 0644))
	require.NoError(t, imaging.Save(imaging.New(40, 20, image.White.C), filepath.Join(dir, "pic.png")))

	c := Collector{Compress: "normal", WorkDir: t.TempDir()}
	got, err := c.Collect(filepath.Join(dir, "*.txt"), filepath.Join(dir, "pic.png"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt", "pic.jpg"}, names(got))
	assert.Equal(t, int64(5), got[0].Size)
	assert.Equal(t, c.WorkDir, filepath.Dir(got[2].Path))
}

func TestCollector_Errors(t *testing.T) {
	dir := t.TempDir()
	c := Collector{}

	_, err := c.Collect(dir)
	assert.ErrorContains(t, err, "is a directory")

	_, err = c.Collect(filepath.Join(dir, "*.none"))
	assert.ErrorContains(t, err, "no files match")

	_, err = c.Collect(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestCollector_SameBaseNameKeepsEachImage(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0755))
	}
	require.NoError(t, imaging.Save(imaging.New(400, 200, image.White.C), filepath.Join(dir, "a", "photo.png")))
	require.NoError(t, imaging.Save(imaging.New(40, 20, image.White.C), filepath.Join(dir, "b", "photo.png")))
	require.NoError(t, imaging.Save(imaging.New(60, 30, image.White.C), filepath.Join(dir, "b", "photo.bmp")))

	c := Collector{Compress: "normal", WorkDir: t.TempDir()}
	got, err := c.Collect(
		filepath.Join(dir, "a", "photo.png"),
		filepath.Join(dir, "b", "photo.png"),
		filepath.Join(dir, "b", "photo.bmp"),
	)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"photo.jpg", "photo.jpg", "photo.jpg"}, names(got))
	assert.NotEqual(t, got[0].Path, got[1].Path)
	assert.NotEqual(t, got[1].Path, got[2].Path)
	assert.NotEqual(t, got[0].Path, got[2].Path)

	for i, want := range []int{400, 40, 60} {
		img, err := imaging.Open(got[i].Path)
		require.NoError(t, err)
		assert.Equal(t, want, img.Bounds().Dx(), got[i].Path)
	}
}

func TestCollector_CompressWithoutWorkDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pic.png")
	require.NoError(t, imaging.Save(imaging.New(10, 10, image.White.C), src))

	_, err := Collector{Compress: "normal"}.Collect(src)
	assert.ErrorContains(t, err, "needs a work directory")
}

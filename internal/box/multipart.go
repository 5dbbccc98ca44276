package box

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// newMultipartBody returns a rewindable streaming body holding the draft's
// metadata part and one "files" part per file. Every call of the returned
// ReaderFunc reopens the files, so retries resend the whole form.
func newMultipartBody(draft *Draft, detectType bool, callback ProgressCallback) (retryablehttp.ReaderFunc, string, error) {
	meta, err := json.Marshal(metadata{
		Title:    draft.Title,
		Uploader: draft.Uploader,
		Password: draft.Password,
		Type:     draft.Type,
		Tags:     draft.Tags,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	boundary := multipart.NewWriter(io.Discard).Boundary()
	files := append([]File(nil), draft.Files...)
	total := draft.TotalSize()

	body := func() (io.Reader, error) {
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(writeMultipart(pw, boundary, meta, files, detectType, total, callback))
		}()
		return pr, nil
	}

	return body, "multipart/form-data; boundary=" + boundary, nil
}

func writeMultipart(w io.Writer, boundary string, meta []byte, files []File, detectType bool, total int64, callback ProgressCallback) error {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="data"`)
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(meta); err != nil {
		return err
	}

	progress := &progressWriter{total: total, callback: callback}
	for _, f := range files {
		if err := writeFilePart(mw, f, detectType, progress); err != nil {
			return err
		}
	}

	return mw.Close()
}

func writeFilePart(mw *multipart.Writer, f File, detectType bool, progress *progressWriter) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer file.Close()

	contentType := "application/octet-stream"
	if detectType {
		if detected, err := utils.DetectContentType(f.Name, nil); err == nil && detected != "" {
			contentType = detected
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	progress.w = part
	if _, err := io.Copy(progress, file); err != nil {
		return fmt.Errorf("failed to stream %s: %w", f.Name, err)
	}
	return nil
}

// progressWriter counts file bytes that made it into the request body
type progressWriter struct {
	w        io.Writer
	sent     int64
	total    int64
	callback ProgressCallback
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	if n > 0 {
		pw.sent += int64(n)
		if pw.callback != nil && pw.total > 0 {
			percentage := float64(pw.sent) / float64(pw.total) * 100
			if percentage > 100 {
				percentage = 100
			}
			pw.callback(pw.sent, pw.total, percentage)
		}
	}
	return n, err
}

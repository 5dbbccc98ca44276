package utils

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses pbcopy, xclip/xsel/wl-copy or clip.exe depending on the platform
type SystemClipboard struct{}

// WriteAll implements Clipboard
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available (install xclip, xsel or wl-clipboard)")
	}
	return clipboard.WriteAll(text)
}

// CopyLink writes the download link of box id to c.
// The link is returned even when the write fails so callers can still show it.
func CopyLink(c Clipboard, links *URLGenerator, id int64) (string, error) {
	link := links.DownloadLink(id)
	if err := c.WriteAll(link); err != nil {
		return link, fmt.Errorf("failed to copy link: %w", err)
	}
	return link, nil
}

package utils

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// URLGenerator builds shareable download links for boxes
type URLGenerator struct {
	baseURL string
}

// NewURLGenerator creates a generator rooted at the web client's base URL
func NewURLGenerator(baseURL string) *URLGenerator {
	return &URLGenerator{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// DownloadLink returns the download page URL of box id. It depends only on id and the base URL.
func (g *URLGenerator) DownloadLink(id int64) string {
	return fmt.Sprintf("%s/download/%d", g.baseURL, id)
}

// DisplayURL shortens long paths for display in narrow panels
func DisplayURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if len(u.Path) > 50 {
		dir := path.Dir(u.Path)
		base := path.Base(u.Path)
		if len(base) > 30 {
			base = base[:27] + "..."
		}
		u.Path = dir + "/" + base
	}

	return u.String()
}

package clientcli

import (
	"net/url"

	"github.com/sagarc03/jirafeau"
)

// Links are the share URLs for an uploaded file.
type Links struct {
	File     string `json:"file_url"`
	Preview  string `json:"file_preview_url"`
	Download string `json:"file_download_url"`
	Delete   string `json:"file_delete_url"`
}

// LinksFor builds the share URLs for a successful upload. The crypt key,
// when present, is appended to the preview and download links.
func LinksFor(host string, outcome *jirafeau.UploadOutcome) Links {
	if outcome == nil || outcome.FileID == "" {
		return Links{}
	}

	file := host + downloadPath + "?h=" + url.QueryEscape(outcome.FileID)
	crypt := ""
	if outcome.Encrypted() {
		crypt = "&k=" + url.QueryEscape(outcome.Crypt())
	}

	return Links{
		File:     file,
		Preview:  file + "&p=1" + crypt,
		Download: file + "&d=1" + crypt,
		Delete:   file + "&d=" + url.QueryEscape(outcome.DeleteKey),
	}
}

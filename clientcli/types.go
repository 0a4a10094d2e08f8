package clientcli

// UploadOptions configures an upload operation.
// Empty optional fields are not sent to the server.
type UploadOptions struct {
	LocalPath       string
	Time            string // e.g. "minute", "hour", "day", "week", "month", "year", "none"
	UploadPassword  string // defaults to Config.UploadPassword
	OneTimeDownload bool
	Key             string // access key protecting the download
	Filename        string // overrides the name sent to the server
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	FileID     string
	OutputPath string // empty = current directory
	Key        string // access key, sent as a form field
	CryptKey   string // sent as the k query parameter
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	FileID    string
	DeleteKey string
}

// ProgressFunc receives the cumulative number of bytes written to disk
// during a download.
type ProgressFunc func(written int64)

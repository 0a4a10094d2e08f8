// Package jirafeau holds the types shared by every part of the Jirafeau client:
// the Status enumeration, the typed outcomes of the upload, download and delete
// operations, the error taxonomy, and the response classifier that turns a
// Jirafeau server reply into a Status.
//
// # Wire contract
//
// Jirafeau signals most of its states in plain text rather than through HTTP
// status codes. The two strings the client relies on are exported as
// NotFoundMarker and DeletedMarker; nothing outside this package matches on
// response text.
//
//	switch jirafeau.Classify(body) {
//	case jirafeau.SignalNotFound:
//	    // the identifier is unknown, expired, or already consumed
//	case jirafeau.SignalDeleted:
//	    // a delete request was honoured
//	}
//
// # Errors and Status
//
// Operations return a typed outcome carrying a Status and the underlying error.
// The error always wraps one of the sentinels in errors.go, and StatusOf maps
// any error to the Status a caller would see:
//
//	outcome, err := client.Download(ctx, opts)
//	if errors.Is(err, jirafeau.ErrNotFound) {
//	    // outcome.Status == jirafeau.StatusNotFound
//	}
//
// See the clientcli package for the HTTP client and the transport package for
// the single-round-trip HTTP layer.
package jirafeau

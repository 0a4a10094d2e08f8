// Package transport performs the single HTTP round trip behind every Jirafeau
// operation.
//
// A Request is built from one of three body shapes: none (NewRequest), an
// url-encoded form (NewFormRequest) or a multipart form with an optional file
// attachment streamed from disk (NewMultipartRequest). Transport.Do sends it
// and feeds the reply to a Handler: every header first, then the body in the
// order the bytes arrive.
//
//	req, err := transport.NewMultipartRequest(host+"/script.php", fields, &transport.FilePart{
//		FieldName: "file",
//		Path:      "./report.pdf",
//	})
//	if err != nil {
//		return err
//	}
//
//	var body bytes.Buffer
//	resp, err := transport.New(nil, nil).Do(ctx, req, transport.Collect(&body, 0))
//
// The package never interprets status codes or body content.
package transport

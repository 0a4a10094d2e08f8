// Package jirafeautest provides an in-process Jirafeau server for tests.
//
// The stub implements the three endpoints the client uses: script.php for
// uploads and f.php for downloads and deletions. It replies the way Jirafeau
// does, including the "file is not found" page and the "File has been
// deleted" confirmation, so client code can be exercised end to end without
// a PHP installation.
//
//	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{Encrypt: true})
//	client, _ := clientcli.New(&clientcli.Config{Host: srv.URL})
//	outcome, _ := client.Upload(ctx, clientcli.UploadOptions{LocalPath: path})
//	require.True(t, stub.Has(outcome.FileID))
package jirafeautest

// Package clientcli provides a client for Jirafeau file-sharing servers.
//
// It supports upload, download and delete operations. Every operation makes
// exactly one HTTP request and reports its result as a typed outcome whose
// Status is one of success, not found or error. The package also manages
// host profiles and formats outcomes for the jirafeau-cli binary.
//
// # Basic Usage
//
// Create a client and upload a file:
//
//	client, err := clientcli.New(&clientcli.Config{Host: "https://jirafeau.example.com"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./report.pdf",
//		Time:      "week",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	links := clientcli.LinksFor(client.Host(), outcome)
//	fmt.Println(links.Download)
//
// Download it again into a directory; the file name comes from the server:
//
//	outcome, err := client.Download(ctx, clientcli.DownloadOptions{
//		FileID:     id,
//		OutputPath: "/tmp/out",
//	})
//
// # Outcomes
//
// Operations return (*Outcome, error). The error is the same value as
// Outcome.Err, and jirafeau.StatusOf(err) always equals Outcome.Status, so
// callers can use whichever style fits. A file that is unknown, expired or
// already consumed yields jirafeau.StatusNotFound and jirafeau.ErrNotFound.
//
// # Profile Configuration
//
// Use profiles to manage several servers:
//
//	profiles, err := clientcli.LoadProfiles(clientcli.DefaultProfilesPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := profiles.GetProfile("work")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(clientcli.FormatOptions{JSON: jsonOutput, Quiet: quiet})
//	formatter.FormatUpload(os.Stdout, clientcli.LinksFor(client.Host(), outcome), outcome)
package clientcli

package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"os"
	"path"
	"strings"

	"github.com/jpfielding/dicomview.go/pkg/dicomview"
	"github.com/jpfielding/dicomview.go/pkg/files"
	"github.com/jpfielding/dicomview.go/pkg/ingest"
)

// source is a DICOM file named on the command line
type source struct {
	Name    string
	Entries []dicomview.Entry
}

// readURI loads a DICOM file from a path, "-" for stdin, or an http(s) url
func readURI(ctx context.Context, uri string, insecure, verbose bool) (source, error) {
	uri = strings.TrimPrefix(uri, "file://")
	var in io.Reader
	switch {
	case uri == "-":
		in = os.Stdin
	case strings.HasPrefix(uri, "http"):
		cl := &http.Client{}
		if insecure {
			cl.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return source{}, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := cl.Do(req)
		if err != nil {
			return source{}, fmt.Errorf("failed to download: %w", err)
		}
		defer resp.Body.Close()
		if verbose {
			reqDump, _ := httputil.DumpRequest(req, true)
			os.Stderr.Write(reqDump)
			resDump, _ := httputil.DumpResponse(resp, false)
			os.Stderr.Write(resDump)
		}
		if resp.StatusCode != http.StatusOK {
			return source{}, fmt.Errorf("failed to download %s: %s", uri, resp.Status)
		}
		in = resp.Body
	default:
		entries, err := ingest.ReadFile(uri, files.Black)
		if err != nil {
			return source{}, err
		}
		slog.DebugContext(ctx, "read file", "file", uri, "entries", len(entries))
		return source{Name: path.Base(uri), Entries: entries}, nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return source{}, fmt.Errorf("failed to read %s: %w", uri, err)
	}
	entries, err := ingest.ReadBytes(data, uri, files.Black)
	if err != nil {
		return source{}, err
	}
	slog.DebugContext(ctx, "read stream", "uri", uri, "bytes", len(data), "entries", len(entries))
	return source{Name: path.Base(uri), Entries: entries}, nil
}

func readURIs(ctx context.Context, uris []string, insecure, verbose bool) ([]source, error) {
	out := make([]source, 0, len(uris))
	for _, uri := range uris {
		src, err := readURI(ctx, uri, insecure, verbose)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

package reader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Timeout for fetching remote scene documents.
const remoteFetchTimeout = 30 * time.Second

var httpClient = &http.Client{Timeout: remoteFetchTimeout}

// The resource type wraps a streamable scene document that lives either on
// the local filesystem or on a remote http(s) server.
type resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *resource) Path() string {
	return r.url.String()
}

// Returns true if the resource is streamed over http/https.
func (r *resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a scene document. If relTo is specified and pathToResource does not
// define a scheme, the document path is resolved relative to the directory
// that contains relTo. This allows scene files to include sibling files
// regardless of whether they were loaded from disk or over http.
//
// The caller must close the returned resource.
func newResource(pathToResource string, relTo *resource) (*resource, error) {
	target, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid path '%s': %w", pathToResource, err)
	}

	if target.Scheme == "" && relTo != nil && !filepath.IsAbs(target.Path) {
		relPath := target.Path
		target, _ = url.Parse(relTo.url.String())
		prefix := target.Path
		if target.Scheme == "" {
			prefix, err = filepath.Abs(relTo.url.String())
			if err != nil {
				return nil, fmt.Errorf("resource: could not detect abs path for %s: %w", relTo.url.String(), err)
			}
		}
		target.Path = strings.TrimSuffix(filepath.ToSlash(filepath.Dir(prefix)), "/") + "/" + relPath
	}

	var reader io.ReadCloser
	switch target.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(target.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := httpClient.Get(target.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %w", target.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", target.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", target.Scheme)
	}

	return &resource{
		ReadCloser: reader,
		url:        target,
	}, nil
}

// Wrap an in-memory stream as a resource.
func newResourceFromStream(name string, source io.Reader) *resource {
	target, err := url.Parse(name)
	if err != nil {
		target = &url.URL{Path: name}
	}
	return &resource{
		ReadCloser: io.NopCloser(source),
		url:        target,
	}
}

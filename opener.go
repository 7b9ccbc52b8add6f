package sparkprep

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Opener fetches the content of an archive. Each call returns a ReadCloser
// which reads the resource from the beginning.
type Opener interface {
	Open(url string) (io.ReadCloser, error)
}

// OpenerFunc can be wrapped around a function to make it implement the
// Opener interface. Similar to http.HandlerFunc.
type OpenerFunc func(url string) (io.ReadCloser, error)

// Open implements Opener for OpenerFunc.
func (o OpenerFunc) Open(url string) (io.ReadCloser, error) {
	return o(url)
}

// DefaultOpener handles http(s) URLs and local file paths.
var DefaultOpener Opener = OpenerFunc(openURL)

func openURL(u string) (io.ReadCloser, error) {
	if strings.HasPrefix(u, "http") {
		resp, err := http.Get(u)
		if err != nil {
			return nil, errors.Wrap(err, "getting via http")
		}
		if resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, errors.Errorf("getting via http: status %s", resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(u)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

// LocalName maps an archive URL to a bare file name: the base of the URL
// path with any query string stripped and '+' replaced by '_'. The public
// trip archives use '+' for spaces in their S3 keys, which makes for
// awkward local file names and glob patterns.
func LocalName(rawurl string) string {
	s := rawurl
	if u, err := url.Parse(rawurl); err == nil && u.Path != "" {
		s = u.Path
	}
	return strings.ReplaceAll(path.Base(s), "+", "_")
}

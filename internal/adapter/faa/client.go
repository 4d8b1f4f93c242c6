// Package faa downloads the NASR 28-day subscription and extracts the files
// the registry loads.
package faa

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zip"
	"golang.org/x/net/html"

	"github.com/couchcryptid/navaid-service/internal/nasr"
)

// zipPattern matches the subscription archive link on the NASR page.
var zipPattern = regexp.MustCompile(`28DaySubscription_Effective_[\d-]+\.zip$`)

// ErrStalled is returned when a response body stops delivering bytes for
// longer than the client timeout.
var ErrStalled = errors.New("download stalled")

// ErrNoArchiveLink is returned when the NASR page links no subscription archive.
var ErrNoArchiveLink = errors.New("could not find NASR subscription ZIP download link")

// Client fetches the NASR subscription.
type Client struct {
	pageURL    string
	httpClient *http.Client
	stallAfter time.Duration
	logger     *slog.Logger
}

// NewClient creates a client for the subscription page at pageURL. timeout
// bounds connecting, waiting for response headers and any pause in the body
// stream. A download that keeps making progress is never cut off; ctx bounds
// the whole transfer.
func NewClient(pageURL string, timeout time.Duration, logger *slog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return &Client{
		pageURL:    pageURL,
		httpClient: &http.Client{Transport: transport},
		stallAfter: timeout,
		logger:     logger,
	}
}

// ExtractedFile is one subscription file written to the data directory.
type ExtractedFile struct {
	Name    string
	Path    string
	Records int // base records of the file's layout
}

// Result describes a completed download.
type Result struct {
	ArchiveURL string
	Files      []ExtractedFile
}

// FindArchiveURL scrapes the subscription page for the current archive link.
// The page is small, so the client timeout bounds the whole fetch.
func (c *Client) FindArchiveURL(ctx context.Context) (string, error) {
	if c.stallAfter > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.stallAfter)
		defer cancel()
	}

	c.logger.Info("fetching NASR subscription page", "url", c.pageURL)
	resp, err := c.get(ctx, c.pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "parse NASR page")
	}

	href := findLink(doc)
	if href == "" {
		return "", ErrNoArchiveLink
	}

	base, err := url.Parse(c.pageURL)
	if err != nil {
		return "", errors.Wrap(err, "parse page URL")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", errors.Wrapf(err, "parse archive link %q", href)
	}
	return base.ResolveReference(ref).String(), nil
}

// findLink returns the first anchor whose href names a subscription archive.
func findLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" && zipPattern.MatchString(strings.TrimSpace(attr.Val)) {
				return strings.TrimSpace(attr.Val)
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if href := findLink(child); href != "" {
			return href
		}
	}
	return ""
}

// Download fetches the current archive and writes APT.txt, NAV.txt and
// FIX.txt into dataDir, replacing any existing copies.
func (c *Client) Download(ctx context.Context, dataDir string) (Result, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Result{}, errors.Wrapf(err, "create %s", dataDir)
	}

	archiveURL, err := c.FindArchiveURL(ctx)
	if err != nil {
		return Result{}, err
	}

	c.logger.Info("downloading NASR subscription", "url", archiveURL)
	archive, err := c.fetchToTemp(ctx, archiveURL, dataDir)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(archive)

	zr, err := zip.OpenReader(archive)
	if err != nil {
		return Result{}, errors.Wrap(err, "open subscription archive")
	}
	defer zr.Close()

	res := Result{ArchiveURL: archiveURL}
	for _, layout := range nasr.Layouts() {
		path := filepath.Join(dataDir, layout.File)
		c.logger.Info("extracting", "file", layout.File)
		if err := extract(&zr.Reader, layout.File, path); err != nil {
			return Result{}, err
		}
		n, err := countRecords(path, layout)
		if err != nil {
			return Result{}, err
		}
		res.Files = append(res.Files, ExtractedFile{Name: layout.File, Path: path, Records: n})
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, errors.Newf("GET %s: status %d: %s", rawURL, resp.StatusCode, body)
	}
	return resp, nil
}

// fetchToTemp streams rawURL into a temporary file in dir and returns its path.
func (c *Client) fetchToTemp(ctx context.Context, rawURL, dir string) (string, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(dir, "nasr-*.zip")
	if err != nil {
		return "", errors.Wrap(err, "create temp archive")
	}
	body := newStallReader(resp.Body, c.stallAfter, func() { cancel(ErrStalled) })
	n, err := io.Copy(tmp, body)
	body.stop()
	if err != nil && errors.Is(context.Cause(ctx), ErrStalled) {
		err = errors.Wrapf(ErrStalled, "no data for %s after %d bytes", c.stallAfter, n)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "download archive")
	}
	c.logger.Info("archive downloaded", "bytes", n)
	return tmp.Name(), nil
}

// extract copies name from the archive to dest. The file may sit at the
// archive root or in any subdirectory. dest is replaced by rename so readers
// never see a partial file.
func extract(zr *zip.Reader, name, dest string) error {
	var match *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			match = f
			break
		}
		if match == nil && strings.HasSuffix(f.Name, "/"+name) {
			match = f
		}
	}
	if match == nil {
		return errors.Newf("%s not found in ZIP archive", name)
	}

	src, err := match.Open()
	if err != nil {
		return errors.Wrapf(err, "open %s in archive", match.Name)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+name+".*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", name)
	}
	_, err = io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "extract %s", name)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "install %s", dest)
	}
	return nil
}

func countRecords(path string, layout nasr.Layout) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return nasr.Count(f, layout)
}

// stallReader calls onStall when no bytes arrive within idle. Each read that
// returns data restarts the window. A zero idle disables the check.
type stallReader struct {
	r     io.Reader
	idle  time.Duration
	timer *time.Timer
}

func newStallReader(r io.Reader, idle time.Duration, onStall func()) *stallReader {
	s := &stallReader{r: r, idle: idle}
	if idle > 0 {
		s.timer = time.AfterFunc(idle, onStall)
	}
	return s
}

func (s *stallReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n > 0 && s.timer != nil {
		s.timer.Reset(s.idle)
	}
	return n, err
}

func (s *stallReader) stop() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

package fetcher

import (
	"context"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPOptions configures the export-drop FTP client.
type FTPOptions struct {
	Host     string // host[:port], port defaults to 21
	User     string
	Password string
	Dir      string // remote drop directory
	Timeout  time.Duration
}

// FTPFetcher retrieves export files from the ticketing platform's FTP
// drop.
type FTPFetcher struct {
	opts FTPOptions
}

// NewFTPFetcher creates an FTPFetcher. Anonymous login is assumed when
// no user is configured.
func NewFTPFetcher(opts FTPOptions) *FTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.User == "" {
		opts.User = "anonymous"
		opts.Password = "anonymous@"
	}
	if _, _, err := net.SplitHostPort(opts.Host); err != nil {
		opts.Host = net.JoinHostPort(opts.Host, "21")
	}
	return &FTPFetcher{opts: opts}
}

func (f *FTPFetcher) connect(ctx context.Context) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(f.opts.Host, ftp.DialWithTimeout(f.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "ftp: dial")
	}
	if err := conn.Login(f.opts.User, f.opts.Password); err != nil {
		conn.Quit()
		return nil, eris.Wrap(err, "ftp: login")
	}
	return conn, nil
}

// ListExports returns the export file names in the drop directory,
// newest first by server modification time.
func (f *FTPFetcher) ListExports(ctx context.Context) ([]string, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	entries, err := conn.List(f.opts.Dir)
	if err != nil {
		return nil, eris.Wrapf(err, "ftp: list %s", f.opts.Dir)
	}

	var names []string
	for _, e := range entries {
		if e.Type != ftp.EntryTypeFile {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name)) {
		case ".csv", ".tsv", ".txt", ".xlsx":
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// DownloadToFile retrieves one export from the drop directory into a
// local file. Returns bytes written.
func (f *FTPFetcher) DownloadToFile(ctx context.Context, name, localPath string) (int64, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Quit()

	remote := path.Join(f.opts.Dir, name)
	zap.L().Debug("ftp: retrieving", zap.String("remote", remote))

	resp, err := conn.Retr(remote)
	if err != nil {
		return 0, eris.Wrapf(err, "ftp: retrieve %s", remote)
	}
	defer resp.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return 0, eris.Wrap(err, "ftp: create local file")
	}
	defer file.Close()

	n, err := io.Copy(file, resp)
	if err != nil {
		return n, eris.Wrap(err, "ftp: copy")
	}
	return n, nil
}

// Package ftp lists and reads files from FTP servers.
package ftp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/utilitywarehouse/iolib/frame"
)

// DefaultPort is appended to hosts given without a port.
const DefaultPort = "21"

// ErrUnsupportedFormat indicates a non-CSV file read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options configures the FTP connection.
type Options struct {
	User     string
	Password string
	Timeout  time.Duration

	// TLS enables explicit FTPS. TLSConfig may customize it; when nil a
	// config validating against the host name is used.
	TLS       bool
	TLSConfig *tls.Config

	// CSV configures CSV parsing for Read.
	CSV frame.CSVOptions
}

// Connect dials the host and logs in. Hosts without a port get the default
// FTP port. Anonymous login is used when no user is configured.
func Connect(ctx context.Context, host string, opts Options) (*ftp.ServerConn, error) {
	addr := host
	if !strings.Contains(host, ":") {
		addr = host + ":" + DefaultPort
	}

	dialOpts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if opts.Timeout > 0 {
		dialOpts = append(dialOpts, ftp.DialWithTimeout(opts.Timeout))
	}
	if opts.TLS {
		cfg := opts.TLSConfig
		if cfg == nil {
			cfg = &tls.Config{ServerName: host}
		}
		dialOpts = append(dialOpts, ftp.DialWithExplicitTLS(cfg))
	}

	conn, err := ftp.Dial(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	user, password := opts.User, opts.Password
	if user == "" {
		user, password = "anonymous", "anonymous"
	}
	if err := conn.Login(user, password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("login: %w", err)
	}
	return conn, nil
}

// List lists names under the directory as a frame with a single "name"
// column. Names are relative to the listed path.
func List(ctx context.Context, host, dir string, opts Options) (*frame.Frame, error) {
	conn, err := Connect(ctx, host, opts)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	names, err := conn.NameList(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	result := frame.New("name")
	for _, name := range names {
		if err := result.AppendRow(RelativeName(name, dir)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Read retrieves the file at path and parses it as CSV into a frame.
func Read(ctx context.Context, host, filePath string, opts Options) (*frame.Frame, error) {
	if !strings.EqualFold(path.Ext(filePath), ".csv") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filePath)
	}

	conn, err := Connect(ctx, host, opts)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	resp, err := conn.Retr(filePath)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", filePath, err)
	}
	defer resp.Close()

	fr, err := frame.ReadCSV(resp, opts.CSV)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return fr, nil
}

// RelativeName strips one leading occurrence of dir from the listed name.
// Servers differ on whether NLST returns absolute or relative names.
func RelativeName(name, dir string) string {
	if strings.HasPrefix(name, dir) {
		return name[len(dir):]
	}
	return name
}

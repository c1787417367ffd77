// Package storage reads CSV blobs from Google Cloud Storage into frames.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/utilitywarehouse/iolib/frame"
	"github.com/utilitywarehouse/iolib/googleauth"
)

// maxListedBlobs caps how many blobs a prefix read will consume.
const maxListedBlobs = 500

// Errors returned by the storage package.
var (
	// ErrMissingSelector indicates neither a blob name nor a prefix was given.
	ErrMissingSelector = errors.New("blob name or prefix is required")

	// ErrUnsupportedFormat indicates a non-CSV blob.
	ErrUnsupportedFormat = errors.New("only CSV currently supported")

	// ErrObjectNotFound indicates the blob does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrNoObjects indicates a prefix matched no objects.
	ErrNoObjects = errors.New("no objects match prefix")
)

// ReadOptions configures Read. Exactly one of Blob or Prefix selects the
// input; Blob wins when both are set.
type ReadOptions struct {
	// Blob is a single object name to read.
	Blob string

	// Prefix reads and concatenates every object under the prefix.
	Prefix string

	// ServiceAccountJSON is the credentials file path. Defaults to the
	// environment (GOOGLE_APPLICATION_CREDENTIALS).
	ServiceAccountJSON string

	// CSV configures CSV parsing for every blob read.
	CSV frame.CSVOptions
}

// Read reads one blob, or all blobs under a prefix, from the bucket as a
// single frame. Only CSV objects are supported. A prefix matching no
// objects returns ErrNoObjects.
func Read(ctx context.Context, bucketName string, opts ReadOptions) (*frame.Frame, error) {
	if opts.Blob == "" && opts.Prefix == "" {
		return nil, ErrMissingSelector
	}

	client, err := gcs.NewClient(ctx, googleauth.Options(opts.ServiceAccountJSON)...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	bucket := client.Bucket(bucketName)

	if opts.Blob != "" {
		return readBlob(ctx, bucket, opts.Blob, opts.CSV)
	}

	var result *frame.Frame
	it := bucket.Objects(ctx, &gcs.Query{Prefix: opts.Prefix})
	for n := 0; n < maxListedBlobs; n++ {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		fr, err := readBlob(ctx, bucket, attrs.Name, opts.CSV)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = fr
			continue
		}
		if err := result.Concat(fr); err != nil {
			return nil, fmt.Errorf("concat %s: %w", attrs.Name, err)
		}
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoObjects, opts.Prefix)
	}
	return result, nil
}

func readBlob(ctx context.Context, bucket *gcs.BucketHandle, name string, csvOpts frame.CSVOptions) (*frame.Frame, error) {
	if err := ValidateBlobName(name); err != nil {
		return nil, err
	}

	r, err := bucket.Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer r.Close()

	fr, err := frame.ReadCSV(r, csvOpts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return fr, nil
}

// ValidateBlobName checks that the blob's extension is supported.
func ValidateBlobName(name string) error {
	if !strings.EqualFold(path.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return nil
}

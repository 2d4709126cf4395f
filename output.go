package snpstat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// BufferSize is the write buffer placed in front of every output.
const BufferSize = 4096 * 8

// Output is a destination whose content only becomes visible at its final
// path once Close succeeds. Abort discards everything written so far. Calling
// either method after the other is a nop.
type Output interface {
	io.Writer
	Close() error
	Abort() error
}

type atomicOutput struct {
	path       string
	buf        *bufio.Writer
	compressor io.WriteCloser
	w          io.Writer
	commit     func() error
	discard    func() error
	done       bool
}

func (o *atomicOutput) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

func (o *atomicOutput) Close() error {
	if o.done {
		return nil
	}

	if o.compressor != nil {
		if err := o.compressor.Close(); err != nil {
			o.Abort()
			return pfx.Err(fmt.Errorf("%s: %w", o.path, err))
		}
	}

	if err := o.buf.Flush(); err != nil {
		o.Abort()
		return pfx.Err(fmt.Errorf("%s: %w", o.path, err))
	}

	o.done = true
	if err := o.commit(); err != nil {
		o.discard()
		return pfx.Err(fmt.Errorf("%s: %w", o.path, err))
	}

	return nil
}

func (o *atomicOutput) Abort() error {
	if o.done {
		return nil
	}
	o.done = true

	return o.discard()
}

// CreateOutput opens path for writing. Local files are written to a temporary
// sibling and renamed into place on Close. Paths beginning with gs:// are
// uploaded to Google Storage; Abort cancels the upload so no object is
// created. A path of "-" writes to stdout. Paths ending in .gz or .zst are
// compressed.
func CreateOutput(ctx context.Context, path string, client *storage.Client) (Output, error) {
	out := &atomicOutput{path: path}

	switch {
	case path == "-":
		out.buf = bufio.NewWriterSize(os.Stdout, BufferSize)
		out.commit = func() error { return nil }
		out.discard = func() error { return nil }

	case IsGoogleStoragePath(path):
		if client == nil {
			return nil, pfx.Err(fmt.Errorf("%s: no google storage client is available", path))
		}

		bucketName, objectName, err := splitGoogleStoragePath(path)
		if err != nil {
			return nil, pfx.Err(err)
		}

		uploadCtx, cancel := context.WithCancel(ctx)
		w := client.Bucket(bucketName).Object(objectName).NewWriter(uploadCtx)
		out.buf = bufio.NewWriterSize(w, BufferSize)
		out.commit = func() error {
			defer cancel()
			return w.Close()
		}
		out.discard = func() error {
			cancel()
			// The writer reports the cancellation; that is the expected outcome.
			_ = w.Close()
			return nil
		}

	default:
		finalPath := ExpandHome(path)
		tmp, err := os.CreateTemp(filepath.Dir(finalPath), "."+filepath.Base(finalPath)+".tmp-*")
		if err != nil {
			return nil, pfx.Err(err)
		}

		out.buf = bufio.NewWriterSize(tmp, BufferSize)
		out.commit = func() error {
			if err := tmp.Close(); err != nil {
				return err
			}
			return os.Rename(tmp.Name(), finalPath)
		}
		out.discard = func() error {
			tmp.Close()
			return os.Remove(tmp.Name())
		}
	}

	out.w = out.buf

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz := gzip.NewWriter(out.buf)
		out.compressor, out.w = gz, gz
	case strings.HasSuffix(path, ".zst"):
		enc, err := zstd.NewWriter(out.buf)
		if err != nil {
			out.discard()
			return nil, pfx.Err(err)
		}
		out.compressor, out.w = enc, enc
	}

	return out, nil
}

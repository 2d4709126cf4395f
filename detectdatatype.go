package snpstat

import (
	"bufio"
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
	DataTypeZstd
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
	DataTypeZstd:  {0x28, 0xb5, 0x2f, 0xfd},
}

// DetectDataType peeks at the first bytes of a buffered stream and matches
// them against a set of known compression signatures. Nothing is consumed from
// the reader. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(r *bufio.Reader) (DataType, error) {
	buff, err := r.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser wraps rc with a decompressor if its content is
// compressed. Closing the result closes rc as well.
func MaybeDecompressReadCloser(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(rc, 1<<16)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, err
	}

	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: gz, closers: []io.Closer{gz, rc}}, nil
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		// Only the first entry of an archive is read
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{rc}}, nil
	case DataTypeBZip2:
		return &stackedReadCloser{Reader: bzip2.NewReader(br), closers: []io.Closer{rc}}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: reader, closers: []io.Closer{rc}}, nil
	case DataTypeZ:
		zl, err := zlib.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: zl, closers: []io.Closer{zl, rc}}, nil
	case DataTypeZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		zc := dec.IOReadCloser()
		return &stackedReadCloser{Reader: zc, closers: []io.Closer{zc, rc}}, nil
	}

	// No data type detected. For now, we assume this is uncompressed.
	return &stackedReadCloser{Reader: br, closers: []io.Closer{rc}}, nil
}

// stackedReadCloser reads from the outermost decompressor and closes every
// layer beneath it, innermost last.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *stackedReadCloser) Close() error {
	var first error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

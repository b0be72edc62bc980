// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fetch

import (
	"context"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// File reads an image from a file system.
type File struct {
	fs       afero.Fs
	path     string
	maxBytes int64
	log      *zap.Logger
}

// NewFile returns a File fetcher reading path from fs.
func NewFile(fs afero.Fs, path string, maxBytes int64, logger *zap.Logger) *File {
	return &File{
		fs:       fs,
		path:     path,
		maxBytes: maxBytes,
		log:      logger.With(zap.String("path", path)),
	}
}

func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, err := f.fs.Stat(f.path)
	if err != nil {
		return nil, errors.Wrap(err, "fetch: stat failed")
	}
	if st.IsDir() {
		return nil, errors.Errorf("fetch: %s is a directory", f.path)
	}
	if f.maxBytes > 0 && st.Size() > f.maxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "%s", bytesize.New(float64(st.Size())))
	}

	bs, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return nil, errors.Wrap(err, "fetch: read failed")
	}

	f.log.Debug("loaded", zap.Stringer("size", bytesize.New(float64(len(bs)))))
	return bs, nil
}

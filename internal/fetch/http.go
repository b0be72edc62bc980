// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// HTTP downloads an image with a GET request. Only a final 200 response is
// accepted, redirects are followed.
type HTTP struct {
	URL      string
	MaxBytes int64
	// Progress receives a progress bar when set.
	Progress io.Writer

	cli *resty.Client
	log *zap.Logger
}

// NewHTTP returns an HTTP fetcher for url.
func NewHTTP(url string, timeout time.Duration, maxBytes int64, logger *zap.Logger) *HTTP {
	return &HTTP{
		URL:      url,
		MaxBytes: maxBytes,
		cli:      resty.New().SetDoNotParseResponse(true).SetTimeout(timeout),
		log:      logger.With(zap.String("url", url)),
	}
}

func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()

	resp, err := h.cli.R().SetContext(ctx).Get(h.URL)
	if err != nil {
		return nil, errors.Wrap(err, "fetch: request failed")
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.StatusCode() != http.StatusOK {
		return nil, errors.Errorf("fetch: %s returned %q", h.URL, resp.Status())
	}

	length := resp.RawResponse.ContentLength
	if h.MaxBytes > 0 && length > h.MaxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "announced %s", bytesize.New(float64(length)))
	}

	var buf bytes.Buffer
	var w io.Writer = &buf
	if h.Progress != nil {
		bar := progressbar.NewOptions64(length,
			progressbar.OptionSetWriter(h.Progress),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish())
		w = io.MultiWriter(&buf, bar)
	}

	var r io.Reader = resp.RawBody()
	if h.MaxBytes > 0 {
		r = io.LimitReader(r, h.MaxBytes+1)
	}
	n, err := io.Copy(w, r)
	if err != nil {
		return nil, errors.Wrap(err, "fetch: read body failed")
	}
	if h.MaxBytes > 0 && n > h.MaxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "more than %s", bytesize.New(float64(h.MaxBytes)))
	}

	h.log.Info("downloaded",
		zap.Stringer("size", bytesize.New(float64(n))),
		zap.Duration("spent", time.Since(start)))
	return buf.Bytes(), nil
}

// Package normalize turns uploaded documents into the payload sent to the
// extraction model.
package normalize

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
)

const (
	DefaultMaxEdge     = 2048
	DefaultJPEGQuality = 85
)

// Payload is a document encoded for transmission to the extraction model.
type Payload struct {
	Kind     constants.DocumentKind
	MIMEType string
	Base64   string
}

// DataURL renders the payload as a data: URL.
func (p Payload) DataURL() string {
	return "data:" + p.MIMEType + ";base64," + p.Base64
}

type Options struct {
	MaxEdge     int
	JPEGQuality int
}

// Normalizer is a pure transform; it never touches storage.
type Normalizer struct {
	opts   Options
	logger zerolog.Logger
}

func New(opts Options, logger zerolog.Logger) *Normalizer {
	if opts.MaxEdge <= 0 {
		opts.MaxEdge = DefaultMaxEdge
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	return &Normalizer{opts: opts, logger: logger.With().Str("component", "normalize").Logger()}
}

// Normalize passes PDFs through (base64 only) and re-encodes images as JPEG,
// downscaled so the longer edge is at most MaxEdge.
func (n *Normalizer) Normalize(data []byte, kind constants.DocumentKind) (Payload, error) {
	switch kind {
	case constants.KindPDF:
		return Payload{
			Kind:     kind,
			MIMEType: "application/pdf",
			Base64:   base64.StdEncoding.EncodeToString(data),
		}, nil
	case constants.KindImage:
		out, err := n.JPEG(data)
		if err != nil {
			return Payload{}, err
		}
		return Payload{
			Kind:     kind,
			MIMEType: "image/jpeg",
			Base64:   base64.StdEncoding.EncodeToString(out),
		}, nil
	default:
		return Payload{}, common.NewAppError("UNSUPPORTED_FORMAT", fmt.Sprintf("unsupported document kind %q", kind), common.ErrUnsupportedFormat)
	}
}

// JPEG decodes an image, flattens it to opaque RGB, fits it within MaxEdge using
// Lanczos resampling and encodes it at the configured quality.
func (n *Normalizer) JPEG(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		n.logger.Warn().Err(err).Int("bytes", len(data)).Msg("normalize.decode_failed")
		return nil, common.NewAppError("UNSUPPORTED_FORMAT", "file is not a decodable image", common.ErrUnsupportedFormat)
	}

	b := src.Bounds()
	fitted := imaging.Fit(src, n.opts.MaxEdge, n.opts.MaxEdge, imaging.Lanczos)
	fb := fitted.Bounds()
	flat := imaging.Overlay(imaging.New(fb.Dx(), fb.Dy(), color.White), fitted, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(n.opts.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	n.logger.Debug().
		Int("src_w", b.Dx()).Int("src_h", b.Dy()).
		Int("out_w", fb.Dx()).Int("out_h", fb.Dy()).
		Int("out_bytes", buf.Len()).
		Msg("normalize.image.ok")
	return buf.Bytes(), nil
}

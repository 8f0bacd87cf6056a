// Package encode serializes finished surfaces and handles data URIs.
package encode

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Format is an output image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// DefaultJPEGQuality is used when no quality is given.
const DefaultJPEGQuality = 95

// ParseFormat accepts png, jpeg and jpg; empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidInput, "unsupported output format %q", s)
}

// MIME returns the media type of f.
func MIME(f Format) string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Ext returns the file extension of f, with the dot.
func Ext(f Format) string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// Quality clamps q to 1..100; zero or negative means the default.
func Quality(q int) int {
	if q <= 0 {
		return DefaultJPEGQuality
	}
	return min(q, 100)
}

// Encode writes img as f. PNG is lossless and keeps alpha; JPEG drops
// alpha and uses the clamped quality. Failures are EncodingError.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, apperr.New(apperr.ErrCodeEncoding, "nothing to encode")
	}
	var buf bytes.Buffer
	var err error
	switch f {
	case PNG, "":
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		err = enc.Encode(&buf, img)
	case JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality(quality)})
	default:
		return nil, apperr.New(apperr.ErrCodeEncoding, "unsupported output format %q", f)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeEncoding, err, "encode %s", f)
	}
	return buf.Bytes(), nil
}

// DataURI renders data as data:<mime>;base64,<payload>.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a base64 data URI into its media type and bytes.
// A bare base64 payload without the data: prefix is accepted with an
// empty media type, as some clients strip the header.
func ParseDataURI(s string) (mime string, data []byte, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, apperr.New(apperr.ErrCodeInvalidInput, "empty image payload")
	}
	payload := s
	if strings.HasPrefix(s, "data:") {
		header, body, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return "", nil, apperr.New(apperr.ErrCodeInvalidInput, "malformed data URI")
		}
		params := strings.Split(header, ";")
		if params[len(params)-1] != "base64" {
			return "", nil, apperr.New(apperr.ErrCodeInvalidInput, "data URI must be base64 encoded")
		}
		mime = params[0]
		payload = body
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return "", nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid base64 image payload")
	}
	if len(data) == 0 {
		return "", nil, apperr.New(apperr.ErrCodeInvalidInput, "empty image payload")
	}
	return mime, data, nil
}

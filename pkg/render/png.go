package render

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/accumap/pkg/errors"
)

// encoder compresses harder than png.Encode's default; heatmaps are mostly
// background and shrink well.
var encoder = png.Encoder{CompressionLevel: png.BestCompression}

// EncodePNG writes c to w as a lossless RGB(A) PNG.
func EncodePNG(w io.Writer, c *Canvas) error {
	return encoder.Encode(w, c.Image())
}

// RenderPNG encodes c into memory.
func RenderPNG(c *Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// WritePNG encodes c to path. The image is written to a temporary file in the
// same directory and renamed into place, so a failed run never leaves a
// truncated file behind.
func WritePNG(path string, c *Canvas) error {
	data, err := RenderPNG(c)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".accumap-*.png")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	return nil
}

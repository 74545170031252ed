package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/marben/dist_brot/fractal"
)

const captionSize = 12

// softwareName is written into the software text chunk of every PNG.
const softwareName = "brot3"

func writePNG(w io.Writer, spec fractal.TileSpec, tiles []*fractal.Tile, opts Options) error {
	var img draw.Image = Image(spec, tiles)

	if opts.Downsample > 1 {
		img = downsample(img, opts.Downsample)
	}
	info := caption(spec, tiles)
	if opts.Caption {
		if err := drawCaption(img, info); err != nil {
			return fmt.Errorf("caption: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return writeWithText(w, buf.Bytes(), "software", softwareName, "comment", info)
}

// pngHeaderLen covers the signature and the IHDR chunk, which must come
// first in the file.
const pngHeaderLen = 8 + 4 + 4 + 13 + 4

// writeWithText copies the encoded PNG to w with a tEXt chunk for each
// keyword and text pair inserted after the header.
func writeWithText(w io.Writer, encoded []byte, kv ...string) error {
	if len(encoded) < pngHeaderLen || string(encoded[12:16]) != "IHDR" {
		return errors.New("png: encoder output does not start with IHDR")
	}
	out := bytes.NewBuffer(make([]byte, 0, len(encoded)+256))
	out.Write(encoded[:pngHeaderLen])
	for i := 0; i+1 < len(kv); i += 2 {
		writeTextChunk(out, kv[i], kv[i+1])
	}
	out.Write(encoded[pngHeaderLen:])
	_, err := w.Write(out.Bytes())
	return err
}

// writeTextChunk appends a tEXt chunk: length, type, keyword NUL text, and
// a CRC over type and data.
func writeTextChunk(buf *bytes.Buffer, keyword, text string) {
	data := make([]byte, 0, len(keyword)+1+len(text))
	data = append(data, keyword...)
	data = append(data, 0)
	data = append(data, text...)

	buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(data))))
	crc := crc32.NewIEEE()
	chunk := io.MultiWriter(buf, crc)
	_, _ = chunk.Write([]byte("tEXt"))
	_, _ = chunk.Write(data)
	buf.Write(binary.BigEndian.AppendUint32(nil, crc.Sum32()))
}

func caption(spec fractal.TileSpec, tiles []*fractal.Tile) string {
	maxIter := uint32(0)
	for _, t := range tiles {
		maxIter = max(maxIter, t.MaxIterPlotted())
	}
	return fmt.Sprintf("%s maxiter=%d", spec, maxIter)
}

// downsample shrinks src by factor; the plot is computed at factor times
// the output size and filtered down to smooth jagged edges.
func downsample(src image.Image, factor int) draw.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, max(b.Dx()/factor, 1), max(b.Dy()/factor, 1)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// drawCaption writes text in white along the bottom left of img.
func drawCaption(img draw.Image, text string) error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("new face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	b := img.Bounds()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(b.Min.X+4, b.Max.Y-face.Metrics().Descent.Ceil()-2),
	}
	d.DrawString(text)
	return nil
}

package pix

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"
)

// The spix format is an uncompressed or zstd compressed dump of a Pix:
//
//	magic "spix"
//	w, h, d, wpl, flags           uint32 little endian
//	cmap depth, cmap count        uint32 (depth 0 means no colormap)
//	count x {r, g, b, a}          bytes
//	wpl*h words                   uint32 little endian, zstd stream if flagged
var spixMagic = []byte("spix")

const spixZstd = 1 << 0

type spixHeader struct {
	W         uint32
	H         uint32
	D         uint32
	WPL       uint32
	Flags     uint32
	CmapDepth uint32
	CmapCount uint32
}

// WriteSpix serializes p. With compress set, the raster words are zstd
// compressed.
func WriteSpix(w io.Writer, p *Pix, compress bool) error {
	hdr := spixHeader{
		W:   uint32(p.w),
		H:   uint32(p.h),
		D:   uint32(p.d),
		WPL: uint32(p.wpl),
	}
	if compress {
		hdr.Flags |= spixZstd
	}
	if p.cmap != nil {
		hdr.CmapDepth = uint32(p.cmap.depth)
		hdr.CmapCount = uint32(p.cmap.Count())
	}
	if _, err := w.Write(spixMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	if p.cmap != nil {
		buf := make([]byte, 0, 4*p.cmap.Count())
		for _, c := range p.cmap.colors {
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	if !compress {
		return binary.Write(w, binary.LittleEndian, p.data)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if err := binary.Write(enc, binary.LittleEndian, p.data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadSpix deserializes an image written by WriteSpix
func ReadSpix(r io.Reader) (*Pix, error) {
	magic := make([]byte, len(spixMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("pix: spix: %w", err)
	}
	if !bytes.Equal(magic, spixMagic) {
		return nil, fmt.Errorf("pix: %w: bad spix magic %q", ErrFormat, magic)
	}
	var hdr spixHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("pix: spix header: %w", err)
	}
	p, err := New(int(hdr.W), int(hdr.H), int(hdr.D))
	if err != nil {
		return nil, err
	}
	if uint32(p.wpl) != hdr.WPL {
		return nil, fmt.Errorf("pix: %w: spix wpl %d, expected %d", ErrFormat, hdr.WPL, p.wpl)
	}
	if hdr.CmapDepth != 0 {
		cm, err := NewColormap(int(hdr.CmapDepth))
		if err != nil {
			return nil, err
		}
		if int(hdr.CmapCount) > cm.Capacity() {
			return nil, fmt.Errorf("pix: %w: spix colormap holds %d colors", ErrFormat, hdr.CmapCount)
		}
		buf := make([]byte, 4*hdr.CmapCount)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("pix: spix colormap: %w", err)
		}
		for i := 0; i < len(buf); i += 4 {
			cm.colors = append(cm.colors, RGBA{buf[i], buf[i+1], buf[i+2], buf[i+3]})
		}
		if err := p.SetColormap(cm); err != nil {
			return nil, err
		}
	}
	if hdr.Flags&spixZstd == 0 {
		if err := binary.Read(r, binary.LittleEndian, p.data); err != nil {
			return nil, fmt.Errorf("pix: spix data: %w", err)
		}
		return p, nil
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	if err := binary.Read(dec, binary.LittleEndian, p.data); err != nil {
		return nil, fmt.Errorf("pix: spix data: %w", err)
	}
	return p, nil
}

type peekReader struct {
	*bufio.Reader
}

func newPeekReader(r io.Reader) peekReader {
	return peekReader{bufio.NewReader(r)}
}

func (r peekReader) hasPrefix(prefix []byte) bool {
	b, err := r.Peek(len(prefix))
	if err != nil {
		return false
	}
	return bytes.Equal(b, prefix)
}

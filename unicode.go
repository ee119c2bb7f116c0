package transcode

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var (
	errIllegalSurrogate = errors.New("illegal UTF-16 surrogate")
	errTruncatedData    = errors.New("truncated data")
	errCodePointRange   = errors.New("code point not in range(0x110000)")
)

// unicodeCharset is a UTF-16 or UTF-32 form.
//
// With bom set the encoder writes a little-endian byte order mark and the
// decoder honours a leading mark in either order, defaulting to little
// endian without one. Without bom the order is fixed and marks are data.
type unicodeCharset struct {
	name  string
	mime  string
	width int // code unit size, 2 or 4
	order binary.ByteOrder
	bom   bool
}

func (c *unicodeCharset) Name() string     { return c.name }
func (c *unicodeCharset) MIMEName() string { return c.mime }

func (c *unicodeCharset) NewEncoder() transform.Transformer {
	return &unicodeEncoder{cs: c}
}

func (c *unicodeCharset) NewDecoder() transform.Transformer {
	return &unicodeDecoder{cs: c, order: c.order}
}

// invalidSpan reports one code unit, or the truncated tail.
func (c *unicodeCharset) invalidSpan(b []byte) int {
	return min(c.width, len(b))
}

type unicodeEncoder struct {
	cs       *unicodeCharset
	wroteBOM bool
}

func (e *unicodeEncoder) Reset() { e.wroteBOM = false }

func (e *unicodeEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if e.cs.bom && !e.wroteBOM {
		if len(dst) < e.cs.width {
			return 0, 0, transform.ErrShortDst
		}
		nDst = e.put(dst, 0xfeff)
		e.wroteBOM = true
	}

	for nSrc < len(src) {
		r, size := rune(src[nSrc]), 1
		if r >= utf8.RuneSelf {
			r, size = utf8.DecodeRune(src[nSrc:])
			if size == 1 {
				if !atEOF && !utf8.FullRune(src[nSrc:]) {
					return nDst, nSrc, transform.ErrShortSrc
				}
				return nDst, nSrc, encoding.ErrInvalidUTF8
			}
		}

		need := e.cs.width
		if e.cs.width == 2 && r > 0xffff {
			need = 4
		}
		if nDst+need > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		if need == 4 && e.cs.width == 2 {
			hi, lo := utf16.EncodeRune(r)
			nDst += e.put(dst[nDst:], hi)
			nDst += e.put(dst[nDst:], lo)
		} else {
			nDst += e.put(dst[nDst:], r)
		}
		nSrc += size
	}
	return nDst, nSrc, nil
}

// put writes one code unit in the charset's byte order.
func (e *unicodeEncoder) put(dst []byte, u rune) int {
	if e.cs.width == 2 {
		e.cs.order.PutUint16(dst, uint16(u))
		return 2
	}
	e.cs.order.PutUint32(dst, uint32(u))
	return 4
}

type unicodeDecoder struct {
	cs      *unicodeCharset
	order   binary.ByteOrder
	checked bool // byte order mark handled
}

func (d *unicodeDecoder) Reset() {
	d.order = d.cs.order
	d.checked = false
}

func (d *unicodeDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	w := d.cs.width
	if d.cs.bom && !d.checked {
		if len(src) < w && !atEOF {
			return 0, 0, transform.ErrShortSrc
		}
		if len(src) >= w {
			switch {
			case d.unit(binary.LittleEndian, src) == 0xfeff:
				d.order, nSrc = binary.LittleEndian, w
			case d.unit(binary.BigEndian, src) == 0xfeff:
				d.order, nSrc = binary.BigEndian, w
			}
		}
		d.checked = true
	}

	for nSrc < len(src) {
		if len(src)-nSrc < w {
			if !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, errTruncatedData
		}
		r, size := d.unit(d.order, src[nSrc:]), w

		switch {
		case w == 4 && (r > utf8.MaxRune || r < 0):
			return nDst, nSrc, errCodePointRange
		case w == 4 && utf16.IsSurrogate(r):
			return nDst, nSrc, errIllegalSurrogate
		case w == 2 && r >= 0xdc00 && r <= 0xdfff:
			return nDst, nSrc, errIllegalSurrogate
		case w == 2 && r >= 0xd800 && r <= 0xdbff:
			if len(src)-nSrc < 4 {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				return nDst, nSrc, errTruncatedData
			}
			lo := d.unit(d.order, src[nSrc+2:])
			if lo < 0xdc00 || lo > 0xdfff {
				return nDst, nSrc, errIllegalSurrogate
			}
			r, size = utf16.DecodeRune(r, lo), 4
		}

		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// unit reads one code unit from b in the given order.
func (d *unicodeDecoder) unit(order binary.ByteOrder, b []byte) rune {
	if d.cs.width == 2 {
		return rune(order.Uint16(b))
	}
	return rune(int32(order.Uint32(b)))
}

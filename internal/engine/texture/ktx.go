package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ktxIdentifier opens every KTX 1.1 file.
var ktxIdentifier = []byte{0xAB, 'K', 'T', 'X', ' ', '1', '1', 0xBB, '\r', '\n', 0x1A, '\n'}

const (
	ktxHeaderSize     = 64
	ktxEndianness     = 0x04030201
	ktxEndiannessSwap = 0x01020304
)

// KTXHeader is the fixed part of a KTX 1.1 file after the identifier.
type KTXHeader struct {
	Endianness            uint32
	GLType                uint32
	GLTypeSize            uint32
	GLFormat              uint32
	GLInternalFormat      uint32
	GLBaseInternalFormat  uint32
	PixelWidth            uint32
	PixelHeight           uint32
	PixelDepth            uint32
	NumberOfArrayElements uint32
	NumberOfFaces         uint32
	NumberOfMipmapLevels  uint32
	BytesOfKeyValueData   uint32
}

// DecodeKTX parses a KTX 1.1 container holding a single 2D texture.
// The header's glType/glFormat/glInternalFormat triple is used as-is for upload;
// glType 0 marks block-compressed data.
func DecodeKTX(data []byte) (*Pixels, error) {
	if len(data) < ktxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKTX, len(data))
	}
	if !bytes.Equal(data[:len(ktxIdentifier)], ktxIdentifier) {
		return nil, fmt.Errorf("%w: bad identifier", ErrInvalidKTX)
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch binary.LittleEndian.Uint32(data[12:16]) {
	case ktxEndianness:
	case ktxEndiannessSwap:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: bad endianness marker", ErrInvalidKTX)
	}

	var h KTXHeader
	if err := binary.Read(bytes.NewReader(data[12:ktxHeaderSize]), order, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidKTX, err)
	}

	if h.PixelHeight == 0 || h.PixelDepth > 1 || h.NumberOfArrayElements > 0 || h.NumberOfFaces != 1 {
		return nil, fmt.Errorf("%w: %dx%dx%d, %d faces, %d array elements", ErrUnsupportedKTX,
			h.PixelWidth, h.PixelHeight, h.PixelDepth, h.NumberOfFaces, h.NumberOfArrayElements)
	}

	levels := int(h.NumberOfMipmapLevels)
	if levels == 0 {
		levels = 1
	}

	offset := ktxHeaderSize + int(h.BytesOfKeyValueData)
	px := &Pixels{
		Width:          int(h.PixelWidth),
		Height:         int(h.PixelHeight),
		InternalFormat: h.GLInternalFormat,
		Format:         h.GLFormat,
		Type:           h.GLType,
		Compressed:     h.GLType == 0,
		Levels:         make([][]byte, 0, levels),
	}
	if !px.Compressed {
		px.BytesPerPixel = bytesPerPixel(h.GLFormat, h.GLTypeSize)
	}

	for level := 0; level < levels; level++ {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("%w: level %d size truncated", ErrInvalidKTX, level)
		}
		size := int(order.Uint32(data[offset : offset+4]))
		offset += 4
		if offset+size > len(data) {
			return nil, fmt.Errorf("%w: level %d needs %d bytes", ErrInvalidKTX, level, size)
		}
		px.Levels = append(px.Levels, data[offset:offset+size])
		// mipPadding aligns each level to 4 bytes
		offset += (size + 3) &^ 3
	}

	return px, nil
}

func bytesPerPixel(format, typeSize uint32) int {
	components := 4
	switch format {
	case gl.RED:
		components = 1
	case gl.RG:
		components = 2
	case gl.RGB, gl.BGR:
		components = 3
	case gl.RGBA, gl.BGRA:
		components = 4
	}
	return components * int(typeSize)
}

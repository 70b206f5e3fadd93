package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func buildKTX(t *testing.T, order binary.ByteOrder, h KTXHeader, levels ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(ktxIdentifier)
	if err := binary.Write(&buf, order, h); err != nil {
		t.Fatalf("write header: %v", err)
	}
	buf.Write(make([]byte, h.BytesOfKeyValueData))
	for _, l := range levels {
		binary.Write(&buf, order, uint32(len(l)))
		buf.Write(l)
		buf.Write(make([]byte, (4-len(l)%4)%4))
	}
	return buf.Bytes()
}

func baseHeader() KTXHeader {
	return KTXHeader{
		Endianness:           ktxEndianness,
		GLType:               gl.UNSIGNED_BYTE,
		GLTypeSize:           1,
		GLFormat:             gl.RGB,
		GLInternalFormat:     gl.RGB8,
		GLBaseInternalFormat: gl.RGB,
		PixelWidth:           2,
		PixelHeight:          2,
		NumberOfFaces:        1,
		NumberOfMipmapLevels: 2,
		BytesOfKeyValueData:  8,
	}
}

func TestDecodeKTX_Uncompressed(t *testing.T) {
	level0 := bytes.Repeat([]byte{1}, 2*2*3)
	level1 := []byte{9, 9, 9} // padded to 4 bytes on disk
	data := buildKTX(t, binary.LittleEndian, baseHeader(), level0, level1)

	px, err := DecodeKTX(data)
	if err != nil {
		t.Fatalf("DecodeKTX: %v", err)
	}
	if px.Width != 2 || px.Height != 2 {
		t.Errorf("unexpected size %dx%d", px.Width, px.Height)
	}
	if px.Compressed {
		t.Error("glType UNSIGNED_BYTE is not compressed")
	}
	if px.Format != gl.RGB || px.InternalFormat != gl.RGB8 || px.Type != gl.UNSIGNED_BYTE {
		t.Errorf("format triple not carried: %x %x %x", px.Format, px.InternalFormat, px.Type)
	}
	if px.BytesPerPixel != 3 {
		t.Errorf("expected 3 bytes per pixel, got %d", px.BytesPerPixel)
	}
	if len(px.Levels) != 2 || !bytes.Equal(px.Levels[1], level1) {
		t.Errorf("unexpected levels %v", px.Levels)
	}
}

func TestDecodeKTX_CompressedBigEndian(t *testing.T) {
	h := baseHeader()
	h.GLType = 0
	h.GLTypeSize = 1
	h.GLFormat = 0
	h.GLInternalFormat = gl.COMPRESSED_RGBA
	h.NumberOfMipmapLevels = 0
	h.BytesOfKeyValueData = 0

	data := buildKTX(t, binary.BigEndian, h, make([]byte, 16))
	px, err := DecodeKTX(data)
	if err != nil {
		t.Fatalf("DecodeKTX: %v", err)
	}
	if !px.Compressed || px.BytesPerPixel != 0 {
		t.Errorf("expected compressed data, got compressed=%v bpp=%d", px.Compressed, px.BytesPerPixel)
	}
	if len(px.Levels) != 1 || len(px.Levels[0]) != 16 {
		t.Errorf("expected one 16-byte level, got %d levels", len(px.Levels))
	}
}

func TestDecodeKTX_Errors(t *testing.T) {
	cube := baseHeader()
	cube.NumberOfFaces = 6

	badMarker := baseHeader()
	badMarker.Endianness = 0xDEADBEEF

	truncated := buildKTX(t, binary.LittleEndian, baseHeader(), make([]byte, 12))
	truncated = truncated[:len(truncated)-4]

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"too short", []byte{0xAB, 'K'}, ErrInvalidKTX},
		{"bad identifier", bytes.Repeat([]byte{0}, 80), ErrInvalidKTX},
		{"bad endianness", buildKTX(t, binary.LittleEndian, badMarker), ErrInvalidKTX},
		{"cube map", buildKTX(t, binary.LittleEndian, cube), ErrUnsupportedKTX},
		{"truncated level", truncated, ErrInvalidKTX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeKTX(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

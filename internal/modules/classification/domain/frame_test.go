package domain

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestNewFrame(t *testing.T) {
	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, image.NewRGBA(image.Rect(0, 0, 8, 6)), nil); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	var gifBuf bytes.Buffer
	if err := gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White}), nil); err != nil {
		t.Fatalf("gif.Encode() error = %v", err)
	}

	tests := []struct {
		name       string
		data       []byte
		wantErr    bool
		wantFormat string
		wantWidth  int
	}{
		{
			name:       "正常系: PNG",
			data:       encodePNG(t, 16, 9),
			wantFormat: "png",
			wantWidth:  16,
		},
		{
			name:       "正常系: JPEG",
			data:       jpegBuf.Bytes(),
			wantFormat: "jpeg",
			wantWidth:  8,
		},
		{
			name:    "異常系: 空データ",
			data:    []byte{},
			wantErr: true,
		},
		{
			name:    "異常系: nil",
			data:    nil,
			wantErr: true,
		},
		{
			name:    "異常系: 画像ではないデータ",
			data:    []byte("not an image"),
			wantErr: true,
		},
		{
			name:    "異常系: 非対応形式（GIF）",
			data:    gifBuf.Bytes(),
			wantErr: true,
		},
		{
			name:    "境界値: サイズ超過",
			data:    make([]byte, MaxFrameSize+1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := NewFrame(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFrame() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if frame.Format() != tt.wantFormat {
				t.Errorf("Format() = %s, want %s", frame.Format(), tt.wantFormat)
			}
			if frame.Width() != tt.wantWidth {
				t.Errorf("Width() = %d, want %d", frame.Width(), tt.wantWidth)
			}
			if frame.MediaType() != "image/"+tt.wantFormat {
				t.Errorf("MediaType() = %s", frame.MediaType())
			}
			if !bytes.Equal(frame.Bytes(), tt.data) {
				t.Error("Bytes() should return the original data")
			}
		})
	}
}

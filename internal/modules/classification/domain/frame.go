package domain

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG形式のサポート
	_ "image/png"  // PNG形式のサポート
)

// MaxFrameSize 受け付ける画像の最大サイズ
const MaxFrameSize = 10 * 1024 * 1024

// Frame 分類対象の静止画1枚
//
// 呼び出し側が所有し、分類処理は読み取りのみ行う。コピーは作らないため、
// 撮影を続ける場合は呼び出し側がリクエストごとに別のバッファを渡すこと。
type Frame struct {
	data   []byte
	format string
	width  int
	height int
}

// NewFrame エンコード済み画像データからFrameを作成
func NewFrame(data []byte) (*Frame, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image data is empty", ErrInvalidInput)
	}

	if len(data) > MaxFrameSize {
		return nil, fmt.Errorf("%w: image size exceeds 10MB", ErrInvalidInput)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid image format: %v", ErrInvalidInput, err)
	}

	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("%w: unsupported format: %s", ErrInvalidInput, format)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrInvalidInput)
	}

	return &Frame{
		data:   data,
		format: format,
		width:  cfg.Width,
		height: cfg.Height,
	}, nil
}

// Bytes エンコード済みの画像データ（変更禁止）
func (f *Frame) Bytes() []byte {
	return f.data
}

// Format 画像形式（png / jpeg）
func (f *Frame) Format() string {
	return f.format
}

// MediaType 画像形式のMIMEタイプ
func (f *Frame) MediaType() string {
	return "image/" + f.format
}

// Width 画像の幅
func (f *Frame) Width() int {
	return f.width
}

// Height 画像の高さ
func (f *Frame) Height() int {
	return f.height
}

package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   string
		wantOK bool
	}{
		{name: "JPEG", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, want: "image/jpeg", wantOK: true},
		{name: "PNG", data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, want: "image/png", wantOK: true},
		{name: "GIF", data: []byte("GIF89a"), want: "image/gif", wantOK: true},
		{name: "WebP", data: append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...), want: "image/webp", wantOK: true},
		{name: "RIFF but not WebP", data: append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...)},
		{name: "PDF posing as image", data: []byte("%PDF-1.4 malicious content")},
		{name: "SVG upload", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)},
		{name: "empty", data: []byte{}},
		{name: "too short for WebP check", data: []byte("RIFF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := allowedImageMIME(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemIcon(t *testing.T) {
	for _, name := range []string{"lampadas.svg", "baterias.svg", "papeis-papelao.svg", "eletronicos.svg", "organicos.svg", "oleo.svg"} {
		data, ok := itemIcon(name)
		assert.True(t, ok, name)
		assert.Contains(t, string(data), "<svg", name)
	}

	for _, name := range []string{"missing.svg", "../icons.go", "icons/oleo.svg", "oleo.png", ""} {
		_, ok := itemIcon(name)
		assert.False(t, ok, name)
	}
}

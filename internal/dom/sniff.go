package dom

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	sniffSampleSize          = 4096
	nonPrintableLimitPercent = 30
)

type byteOrderMark int

const (
	bomNone byteOrderMark = iota
	bomUTF8
	bomUTF16LE
	bomUTF16BE
)

var binaryExtensions = map[string]struct{}{
	".7z": {}, ".avi": {}, ".bin": {}, ".bmp": {}, ".bz2": {}, ".class": {},
	".dll": {}, ".docx": {}, ".dylib": {}, ".exe": {}, ".gif": {}, ".gz": {},
	".ico": {}, ".iso": {}, ".jar": {}, ".jpeg": {}, ".jpg": {}, ".mp3": {},
	".mp4": {}, ".pdf": {}, ".png": {}, ".so": {}, ".tar": {}, ".tgz": {},
	".ttf": {}, ".wasm": {}, ".woff": {}, ".woff2": {}, ".xlsx": {}, ".xz": {},
	".zip": {},
}

// LooksLikeText reports whether content can be shown as a document. Obvious
// binary extensions are rejected before the content is sniffed.
func LooksLikeText(path string, content []byte) bool {
	if path != "" {
		if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			return false
		}
	}
	sample := content
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}
	if len(sample) == 0 || detectBOM(sample) != bomNone {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	bad := 0
	for _, b := range sample {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != 0x1b {
			bad++
		}
	}
	return bad*100/len(sample) < nonPrintableLimitPercent
}

// DecodeText converts BOM-marked UTF-8 or UTF-16 content into a UTF-8 string.
func DecodeText(content []byte) string {
	switch detectBOM(content) {
	case bomUTF8:
		return string(content[3:])
	case bomUTF16LE:
		return decodeUTF16(content, unicode.LittleEndian)
	case bomUTF16BE:
		return decodeUTF16(content, unicode.BigEndian)
	default:
		return string(content)
	}
}

func detectBOM(sample []byte) byteOrderMark {
	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return bomUTF8
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return bomUTF16LE
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return bomUTF16BE
	}
	return bomNone
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}

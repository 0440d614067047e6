package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressTextRoundTrip(t *testing.T) {
	original := strings.Repeat("Invoice #12345 issued to Acme Corp for services rendered. ", 50)

	compressed, algorithm, err := CompressText(original)
	if err != nil {
		t.Fatalf("CompressText error: %v", err)
	}
	if algorithm != CompressionBrotli {
		t.Fatalf("algorithm = %s, want %s", algorithm, CompressionBrotli)
	}
	if len(compressed) >= len(original) {
		t.Errorf("compressed size %d not smaller than original %d", len(compressed), len(original))
	}

	restored, err := DecompressText(compressed, algorithm)
	if err != nil {
		t.Fatalf("DecompressText error: %v", err)
	}
	if restored != original {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(restored), len(original))
	}
}

func TestSmallPayloadSkipsCompression(t *testing.T) {
	original := "short extracted text"

	compressed, algorithm, err := CompressText(original)
	if err != nil {
		t.Fatalf("CompressText error: %v", err)
	}
	if algorithm != CompressionNone {
		t.Fatalf("algorithm = %s, want %s", algorithm, CompressionNone)
	}
	if !bytes.Equal(compressed, []byte(original)) {
		t.Fatalf("payload modified without compression")
	}
}

func TestDecompressGzip(t *testing.T) {
	data := []byte(strings.Repeat("row data ", 200))

	compressed, err := CompressData(data, CompressionGzip)
	if err != nil {
		t.Fatalf("CompressData error: %v", err)
	}
	restored, err := DecompressData(compressed, CompressionGzip)
	if err != nil {
		t.Fatalf("DecompressData error: %v", err)
	}
	if !bytes.Equal(restored, data) {
		t.Fatalf("gzip round trip mismatch")
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	if _, err := CompressData([]byte("data"), CompressionAlgorithm("zstd")); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
	if _, err := DecompressData([]byte("data"), CompressionAlgorithm("zstd")); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

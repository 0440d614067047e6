package services

import (
	"strings"
	"testing"
)

func TestExtractTextPlain(t *testing.T) {
	content := "Invoice total: ₹500. Due 12/05/2024."
	if got := ExtractText("notes.txt", []byte(content)); got != content {
		t.Errorf("ExtractText = %q, want the file content verbatim", got)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	got := ExtractText("broken.pdf", []byte("not a pdf at all"))
	if !strings.Contains(got, "PDF parsing failed") {
		t.Errorf("expected parsing sentinel, got %q", got)
	}
}

func TestExtractTextCorruptXLSX(t *testing.T) {
	got := ExtractText("broken.xlsx", []byte("not a workbook"))
	if !strings.Contains(got, "Spreadsheet parsing failed") {
		t.Errorf("expected parsing sentinel, got %q", got)
	}
}

func TestExtractTextUnknownExtensionFallsBackToText(t *testing.T) {
	content := "plain enough"
	if got := ExtractText("readme.md", []byte(content)); got != content {
		t.Errorf("ExtractText = %q", got)
	}
}

package extract

import (
	"context"
	"strings"
	"testing"
)

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("hello resume"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("extract plain text: %v", err)
	}
	if text != "hello resume" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_OctetStreamFallsBackToExtension(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("from file"), "application/octet-stream", "resume.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "from file" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_UnsupportedMime(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("<html>"), "text/html", "resume.html")
	if err == nil {
		t.Fatal("expected unsupported mime error")
	}
	if !strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_InvalidPDF(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), []byte("not a pdf"), "application/pdf", "resume.pdf"); err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}

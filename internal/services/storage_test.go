package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("parcelImage", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(content)
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["parcelImage"][0]
}

func TestLocalStorage_UploadImage(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := storage.UploadImage(fileHeader(t, "box.png", []byte("png-bytes")), "parcels")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(path, "parcels/") || !strings.HasSuffix(path, ".png") {
		t.Errorf("unexpected stored path %q", path)
	}

	saved, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(saved) != "png-bytes" {
		t.Errorf("unexpected content %q", saved)
	}

	if url := storage.ImageURL(path); url != "http://localhost:8080/uploads/"+path {
		t.Errorf("unexpected url %q", url)
	}
}

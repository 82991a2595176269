// Package testutil builds in-memory GTFS archives for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ZipBuilder assembles a zip archive from table name to content pairs.
type ZipBuilder struct {
	m map[string]string
}

func NewZipBuilder() *ZipBuilder {
	return &ZipBuilder{m: map[string]string{}}
}

// Add sets the content of one file in the archive; multiple content strings
// are joined with newlines.
func (z *ZipBuilder) Add(fileName string, fileContent ...string) *ZipBuilder {
	z.m[fileName] = strings.Join(fileContent, "\n")
	return z
}

func (z *ZipBuilder) Build() []byte {
	var b bytes.Buffer
	zipWriter := zip.NewWriter(&b)
	for fileName, fileContent := range z.m {
		fileWriter, err := zipWriter.Create(fileName)
		if err != nil {
			panic(err)
		}
		if _, err := io.Copy(fileWriter, bytes.NewBufferString(fileContent)); err != nil {
			panic(err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		panic(err)
	}
	return b.Bytes()
}

// Write writes the archive into dir under the given file name and returns
// its path.
func (z *ZipBuilder) Write(t *testing.T, dir, fileName string) string {
	t.Helper()
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, z.Build(), 0644); err != nil {
		t.Fatalf("failed to write archive %s: %s", path, err)
	}
	return path
}

package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip and .7z) yield their first file, gzip streams (.gz)
// their contents. Any other file is returned as is.
func LoadFile(filename string) ([]byte, error) {
	// read the file into a byte slice
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	decoded, err := Decompress(filepath.Ext(filename), data)
	if err != nil {
		return nil, fmt.Errorf("utils: loading %s: %w", filename, err)
	}
	return decoded, nil
}

// Decompress decodes data according to the file extension ext.
func Decompress(ext string, data []byte) ([]byte, error) {
	r := bytes.NewReader(data)

	// try to assert the compression type from the file extension
	var decoder io.ReadCloser
	var err error
	switch strings.ToLower(ext) {
	case ".gz":
		decoder, err = gzip.NewReader(r)
	case ".zip":
		zipReader, zerr := zip.NewReader(r, int64(len(data)))
		if zerr != nil {
			return nil, zerr
		}
		if len(zipReader.File) == 0 {
			return nil, fmt.Errorf("empty zip archive")
		}

		// read the first file in the zip file
		decoder, err = zipReader.File[0].Open()
	case ".7z":
		szReader, serr := sevenzip.NewReader(r, int64(len(data)))
		if serr != nil {
			return nil, serr
		}
		if len(szReader.File) == 0 {
			return nil, fmt.Errorf("empty 7z archive")
		}

		// read the first file in the archive
		decoder, err = szReader.File[0].Open()
	default:
		// return the data as is
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	// read the decompressed data into a byte slice
	return io.ReadAll(decoder)
}

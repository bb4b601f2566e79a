// Package fileutils provides the file operations of the statement pipeline:
// reading a statement export and writing report files.
package fileutils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"fjacquet/statement-report/internal/parsererror"
)

const (
	statementFormat = "UTF-8 text, rows separated by CRLF, fields by ';'"
	snippetLength   = 40
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadStatement reads a whole statement export as one text blob. A leading
// UTF-8 byte order mark is dropped. Missing files, directories and content
// that is not valid UTF-8 yield *parsererror.InvalidFormatError.
func ReadStatement(filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", &parsererror.InvalidFormatError{
			FilePath:       filePath,
			ExpectedFormat: statementFormat,
			Msg:            "file does not exist",
		}
	}
	if info.IsDir() {
		return "", &parsererror.InvalidFormatError{
			FilePath:       filePath,
			ExpectedFormat: statementFormat,
			Msg:            "path is a directory",
		}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		return "", &parsererror.InvalidFormatError{
			FilePath:             filePath,
			ExpectedFormat:       statementFormat,
			ActualContentSnippet: snippet(data),
			Msg:                  "content is not valid UTF-8",
		}
	}
	return string(data), nil
}

func snippet(data []byte) string {
	if len(data) > snippetLength {
		data = data[:snippetLength]
	}
	return fmt.Sprintf("%q", data)
}

// WriteFile writes data to a file, creating the file if it doesn't exist
// and creating any parent directories if needed
func WriteFile(filePath string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// CreateFile creates or truncates a file for writing
func CreateFile(filePath string) (*os.File, error) {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

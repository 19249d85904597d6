package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/sourcerer/domain"
)

// FileOutputWriter writes reports to files or provided writers.
type FileOutputWriter struct {
	status io.Writer // where to print status messages (typically stderr)
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status}
}

// Write implements domain.ReportWriter.
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		out := writer
		if out == nil {
			out = os.Stdout
		}
		if err := writeFunc(out); err != nil {
			return domain.NewOutputError("failed to write output", err)
		}
		return nil
	}

	if err := saveFile(outputPath, "output", writeFunc); err != nil {
		return err
	}
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}
	fmt.Fprintf(w.status, "%s report generated: %s\n", strings.ToUpper(string(format)), absPath)
	return nil
}

// createFile opens path for writing, creating parent directories
func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.NewOutputError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", path), err)
	}
	return f, nil
}

// saveFile creates path, hands it to write and closes it. A failed close is
// reported like a failed write since the data may not have reached the disk.
func saveFile(path, what string, write func(io.Writer) error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return domain.NewOutputError("failed to write "+what, err)
	}
	if err := f.Close(); err != nil {
		return domain.NewOutputError("failed to write "+what, err)
	}
	return nil
}

// openListing opens an input listing and returns its size for progress reporting
func openListing(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, domain.NewFileNotFoundError(path, err)
		}
		return nil, 0, domain.NewInvalidInputError(fmt.Sprintf("cannot open %s", path), err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func baseName(path string) string {
	return filepath.Base(path)
}

package parse

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/pkg/xlog"
)

const zstdSuffix = ".zst"

var ErrMalformedRecord = errors.New("malformed optimization log record")

// Record is one compilation found in an optimization log. Its trees are parsed on demand by Loader.
type Record struct {
	MethodName    string
	CompilationID string
	Loader        experiment.TreeLoader
}

type recordHeader struct {
	MethodName    string          `json:"methodName"`
	CompilationID json.RawMessage `json:"compilationId"`
}

// ReadOptimizationLog reads the compilations recorded in a log file or in every file of a log directory.
// Each file holds one JSON object per line and may be compressed with zstd.
// Only the method name and the compilation id are decoded here.
func ReadOptimizationLog(ctx context.Context, logger xlog.Logger, path string) ([]*Record, error) {
	files, err := listLogFiles(path)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileRecords, err := readLogFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read optimization log %s: %w", file, err)
		}
		logger.Debug(ctx, "Read optimization log file",
			zap.String("path", file),
			zap.Int("compilations", len(fileRecords)),
		)
		records = append(records, fileRecords...)
	}
	return records, nil
}

func listLogFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}

func readLogFile(path string) ([]*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.HasSuffix(path, zstdSuffix) {
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return readRecords(decoder, func(line []byte, _ int64) experiment.TreeLoader {
			return rawLineLoader(bytes.Clone(line))
		})
	}

	return readRecords(file, func(line []byte, offset int64) experiment.TreeLoader {
		return &fileLineLoader{path: path, offset: offset, length: len(line)}
	})
}

func readRecords(r io.Reader, newLoader func(line []byte, offset int64) experiment.TreeLoader) ([]*Record, error) {
	reader := bufio.NewReader(r)
	records := make([]*Record, 0)

	var offset int64
	for lineno := 1; ; lineno++ {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		start := offset
		offset += int64(len(line))

		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			record, parseErr := parseHeader(trimmed)
			if parseErr != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, parseErr)
			}
			record.Loader = newLoader(line, start)
			records = append(records, record)
		}

		if errors.Is(err, io.EOF) {
			return records, nil
		}
	}
}

func parseHeader(line []byte) (*Record, error) {
	var header recordHeader
	if err := json.Unmarshal(line, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if header.MethodName == "" {
		return nil, fmt.Errorf("%w: no method name", ErrMalformedRecord)
	}
	return &Record{
		MethodName:    header.MethodName,
		CompilationID: compilationID(header.CompilationID),
	}, nil
}

// compilationID accepts both string and numeric ids.
func compilationID(raw json.RawMessage) string {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	return string(bytes.TrimSpace(raw))
}

////////////////////////////////////////////////////////////////////////////////

// fileLineLoader re-reads one line of an uncompressed log file.
type fileLineLoader struct {
	path   string
	offset int64
	length int
}

func (l *fileLineLoader) LoadTrees() (experiment.TreePair, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return experiment.TreePair{}, err
	}
	defer file.Close()

	line := make([]byte, l.length)
	if _, err := file.ReadAt(line, l.offset); err != nil {
		return experiment.TreePair{}, fmt.Errorf("failed to read %s at offset %d: %w", l.path, l.offset, err)
	}
	return ParseTrees(line)
}

// rawLineLoader keeps the line of a compressed log in memory.
type rawLineLoader []byte

func (l rawLineLoader) LoadTrees() (experiment.TreePair, error) {
	return ParseTrees(l)
}

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func ReadFloatPairs(filename string) ([][2]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()
	return ParseFloatPairs(file)
}

// ParseFloatPairs reads two whitespace separated numbers per line.
// Empty lines and lines starting with '#' are skipped.
func ParseFloatPairs(r io.Reader) ([][2]float64, error) {
	var result [][2]float64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.Fields(line)

		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}

		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format in line: %q - expected 2 numbers, got %d", line, len(parts))
		}

		x, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
		}

		y, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
		}

		result = append(result, [2]float64{x, y})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return result, nil
}

func GetFilename(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OpenFile creates outputDir/name_suffix.csv, or outputDir/name/suffix.csv when makeDir is set.
func OpenFile(makeDir bool, outputDir, name, suffix string) (*os.File, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if makeDir {
		dir := filepath.Join(outputDir, name)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, err
		}
		return os.Create(filepath.Join(dir, suffix+".csv"))
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(outputDir, name+"_"+suffix+".csv"))
}

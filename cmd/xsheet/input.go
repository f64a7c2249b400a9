package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// newLogger builds the CLI logger: debug output on the console when verbose,
// errors only as JSON otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// readInput reads a whole file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return os.ReadFile(path)
}

// readHTML reads markup and converts it to UTF-8. An explicit label names
// the encoding; otherwise it is sniffed from a BOM or meta charset.
func readHTML(path, label string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("file not found: %s", path)
			}
			return "", err
		}
		defer f.Close()
		r = f
	}
	return decodeHTML(r, label)
}

func decodeHTML(r io.Reader, label string) (string, error) {
	if label == "" {
		br := bufio.NewReader(r)
		head, _ := br.Peek(1024)
		enc, _, _ := charset.DetermineEncoding(head, "text/html")
		r = transform.NewReader(br, enc.NewDecoder())
	} else {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return "", fmt.Errorf("unknown charset %q: %w", label, err)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

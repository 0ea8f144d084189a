package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// WriteResult encodes v as indented JSON to path, or to stdout when path is empty.
func WriteResult(path string, v any) error {
	if path == "" {
		return EncodeResult(os.Stdout, v)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: couldn't create %s", err, path)
	}
	defer file.Close()

	fw := bufio.NewWriter(file)
	if err := EncodeResult(fw, v); err != nil {
		return err
	}
	if err := fw.Flush(); err != nil {
		return fmt.Errorf("%w: couldn't write %s", err, path)
	}

	log.Debug().Str("path", path).Msg("wrote to disk")

	return nil
}

func EncodeResult(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: couldn't encode result", err)
	}
	return nil
}

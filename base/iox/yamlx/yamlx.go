// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package yamlx provides easy YAML file and byte encoding
// and decoding for any value, using [gopkg.in/yaml.v3].
package yamlx

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Open reads the given object from the given filename.
func Open(v any, filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	return Read(v, bufio.NewReader(fp))
}

// Read reads the given object from the given reader.
func Read(v any, reader io.Reader) error {
	return yaml.NewDecoder(reader).Decode(v)
}

// ReadBytes reads the given object from the given bytes.
func ReadBytes(v any, data []byte) error {
	return Read(v, bytes.NewReader(data))
}

// Save writes the given object to the given filename.
func Save(v any, filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriter(fp)
	if err := Write(v, bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Write writes the given object to the given writer.
func Write(v any, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteBytes writes the given object, returning bytes of the encoding.
func WriteBytes(v any) ([]byte, error) {
	var b bytes.Buffer
	if err := Write(v, &b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

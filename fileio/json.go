// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/table"
)

// readJSON reads either an array of row objects,
// or an object of column arrays. Key order is column order.
func readJSON(rd *Reader, rawName string, data []byte, fm *Format) ([]*table.Table, errors.Warnings, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	var header []string
	var rows [][]string
	switch tok {
	case json.Delim('['):
		header, rows, err = jsonRows(dec)
	case json.Delim('{'):
		header, rows, err = jsonColumns(dec)
	default:
		return nil, nil, fmt.Errorf("expected an array or object, got %v", tok)
	}
	if err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, nil, err
	}
	return rd.readRecords(rawName, header, rows)
}

// jsonRows reads an array of objects after the opening bracket.
func jsonRows(dec *json.Decoder) ([]string, [][]string, error) {
	var header []string
	var objs []map[string]string
	for dec.More() {
		if tok, err := dec.Token(); err != nil {
			return nil, nil, err
		} else if tok != json.Delim('{') {
			return nil, nil, fmt.Errorf("array element %d is not an object", len(objs))
		}
		obj := map[string]string{}
		for dec.More() {
			key, val, err := jsonMember(dec)
			if err != nil {
				return nil, nil, err
			}
			if !slices.Contains(header, key) {
				header = append(header, key)
			}
			obj[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, nil, err
		}
		objs = append(objs, obj)
	}
	rows := make([][]string, len(objs))
	for i, obj := range objs {
		row := make([]string, len(header))
		for c, key := range header {
			row[c] = obj[key]
		}
		rows[i] = row
	}
	return header, rows, nil
}

// jsonColumns reads an object of arrays after the opening brace.
func jsonColumns(dec *json.Decoder) ([]string, [][]string, error) {
	var header []string
	var cols [][]any
	nrows := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var vals []any
		if err := dec.Decode(&vals); err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", key, err)
		}
		header = append(header, key)
		cols = append(cols, vals)
		nrows = max(nrows, len(vals))
	}
	rows := make([][]string, nrows)
	for r := range rows {
		row := make([]string, len(header))
		for c, vals := range cols {
			if r < len(vals) {
				row[c] = jsonCell(vals[r])
			}
		}
		rows[r] = row
	}
	return header, rows, nil
}

func jsonMember(dec *json.Decoder) (string, string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", "", err
	}
	key, _ := tok.(string)
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", "", fmt.Errorf("key %q: %w", key, err)
	}
	return key, jsonCell(v), nil
}

func jsonCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case json.Number:
		return x.String()
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	b, _ := json.Marshal(v)
	return string(b)
}

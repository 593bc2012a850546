// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileio

import "github.com/h2non/filetype"

// Cat is a broad functional category of a file, computed from the
// magic bytes at the start of its content. Only [Text] files can be
// read as tables.
type Cat int32

const (
	// Text is any file without a recognized binary signature.
	Text Cat = iota

	// Archive is a collection of files, e.g., zip tar.
	Archive

	// Doc is a binary document, e.g., a word processing file.
	Doc

	// Image is an image, including PDF.
	Image

	// Audio is an audio file.
	Audio

	// Video is a video file.
	Video

	// Font is a font file.
	Font

	// Bin is some other type of binary (executables, libraries, etc).
	Bin
)

var catNames = [...]string{"text", "archive", "document", "image", "audio", "video", "font", "binary"}

func (c Cat) String() string {
	if c < 0 || int(c) >= len(catNames) {
		return "unknown"
	}
	return catNames[c]
}

// CatFromHead returns the category of a file from its first bytes.
func CatFromHead(head []byte) Cat {
	switch {
	case filetype.IsImage(head):
		return Image
	case filetype.IsAudio(head):
		return Audio
	case filetype.IsVideo(head):
		return Video
	case filetype.IsFont(head):
		return Font
	case filetype.IsDocument(head):
		return Doc
	case filetype.IsArchive(head):
		return Archive
	}
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return Bin
	}
	return Text
}

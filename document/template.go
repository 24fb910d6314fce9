// Package document owns the HTML file that buttons are spliced into.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BodyAnchor is the literal closing tag new buttons are inserted before.
const BodyAnchor = "</body>"

// Skeleton is the document written when none exists yet.
const Skeleton = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Dynamic HTML Elements</title>
  <style>
    /* Static styles */
    body { font-family: Arial, sans-serif; margin: 20px; }
    button { color: white; padding: 12px 24px; font-size: 16px; border: none; border-radius: 5px; cursor: pointer; margin: 5px; }
  </style>
</head>
<body>
</body>
</html>`

// EnsureDocument writes Skeleton to path unless a file is already there.
// created reports whether the file was written.
func EnsureDocument(path string) (created bool, err error) {
	_, err = os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("create document directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(Skeleton), 0644); err != nil {
		return false, fmt.Errorf("write document skeleton: %w", err)
	}
	return true, nil
}

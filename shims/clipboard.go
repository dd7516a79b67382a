package shims

import "github.com/atotto/clipboard"

// ClipboardReadText reads the system clipboard as text.
func ClipboardReadText() (string, error) {
	return clipboard.ReadAll()
}

// ClipboardWriteText writes text to the system clipboard.
func ClipboardWriteText(text string) error {
	return clipboard.WriteAll(text)
}

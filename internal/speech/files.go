package speech

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// engineTimeout caps one HTTP call to a speech engine, on top of the caller's ctx.
const engineTimeout = 3 * time.Minute

// writeAudio streams an engine response body into outPath.
func writeAudio(outPath string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		return fmt.Errorf("write audio: %w", err)
	}
	return out.Close()
}

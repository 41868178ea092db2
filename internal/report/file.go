package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Save writes content to path. A ".zst" suffix stores it zstd-compressed.
func Save(path string, content []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		if _, err := enc.Write(content); err != nil {
			enc.Close()
			return fmt.Errorf("failed to write report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush report: %w", err)
		}
		return nil
	}

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

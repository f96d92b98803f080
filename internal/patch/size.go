package patch

import (
	"fmt"
	"os"
	"path/filepath"
)

var sizeUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// EstimateSize sums the byte sizes of all regular files under each
// path. Symlinks and other non-regular entries are excluded.
func EstimateSize(paths []string) (int64, error) {
	var total int64
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			return 0, fmt.Errorf("stat %s: %w", p, err)
		}

		if info.Mode().IsRegular() {
			total += info.Size()
			continue
		}
		if !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	return total, nil
}

// FormatSize renders n in the largest binary unit where the value stays
// below 1024, with two decimals.
func FormatSize(n int64) string {
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}

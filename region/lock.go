package region

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const generatorLockName = "generator.lock"

// ErrSeedMismatch is returned when opening a save directory whose
// generator.lock records a different seed than the one requested.
var ErrSeedMismatch = fmt.Errorf("region: save directory seed does not match requested seed")

// OpenGeneratorLock checks the save directory's generator.lock against
// seed. If the lock file is absent, the save is treated as fresh and the
// lock is written (spec §4.7: "absence of the lock implies a fresh
// save"). If present with a different seed, it fails loudly.
func OpenGeneratorLock(saveDir string, seed int64) error {
	path := filepath.Join(saveDir, generatorLockName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return writeGeneratorLock(path, seed)
		}
		return fmt.Errorf("region: read %s: %w", path, err)
	}
	existing, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return fmt.Errorf("region: parse %s: %w", path, err)
	}
	if existing != seed {
		return fmt.Errorf("%w: lock has %d, requested %d", ErrSeedMismatch, existing, seed)
	}
	return nil
}

func writeGeneratorLock(path string, seed int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("region: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(strconv.FormatInt(seed, 10)+"\n"), 0o644); err != nil {
		return fmt.Errorf("region: write %s: %w", path, err)
	}
	return nil
}

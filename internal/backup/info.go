package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"howett.net/plist"

	"github.com/mstone/msgstats/internal/sqliteutil"
)

// Info describes the device a backup was taken from, read from the
// backup's Info.plist.
type Info struct {
	DeviceName     string    `plist:"Device Name"`
	DisplayName    string    `plist:"Display Name"`
	ProductName    string    `plist:"Product Name"`
	ProductType    string    `plist:"Product Type"`
	ProductVersion string    `plist:"Product Version"`
	SerialNumber   string    `plist:"Serial Number"`
	LastBackupDate time.Time `plist:"Last Backup Date"`
}

// ReadInfo parses <root>/Info.plist. Returns sqliteutil.NotFoundError
// when the file is absent so callers can distinguish "not a backup
// directory" from a parse failure.
func ReadInfo(root string) (*Info, error) {
	path := filepath.Join(root, "Info.plist")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &sqliteutil.NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var info Info
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &info, nil
}

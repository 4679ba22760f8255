package pending

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"KickRelay/internal/model"
)

// LoadState reads the pending kick from a JSON file. Returns nil if the file doesn't exist.
func LoadState(filePath string) (*model.PendingKick, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var kick model.PendingKick
	if err := json.Unmarshal(data, &kick); err != nil {
		return nil, err
	}
	return &kick, nil
}

// SaveState writes the pending kick to a JSON file.
func SaveState(filePath string, kick *model.PendingKick) error {
	kick.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(kick, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// Package prefs keeps small per-user state outside the database.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const draftsFile = "drafts.json"

// Draft holds the masked value of each field of one form.
type Draft map[string]string

func draftsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "jaskmask")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, draftsFile), nil
}

func loadAll() (map[string]Draft, error) {
	path, err := draftsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Draft{}, nil
		}
		return nil, err
	}
	all := map[string]Draft{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func saveAll(all map[string]Draft) error {
	path, err := draftsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SaveDraft stores d for form, replacing any earlier draft. An empty
// draft clears it.
func SaveDraft(form string, d Draft) error {
	all, err := loadAll()
	if err != nil {
		return err
	}
	empty := true
	for _, v := range d {
		if v != "" {
			empty = false
			break
		}
	}
	if empty {
		delete(all, form)
	} else {
		all[form] = d
	}
	return saveAll(all)
}

// LoadDraft returns the draft for form, or nil when there is none.
func LoadDraft(form string) (Draft, error) {
	all, err := loadAll()
	if err != nil {
		return nil, err
	}
	return all[form], nil
}

func ClearDraft(form string) error {
	all, err := loadAll()
	if err != nil {
		return err
	}
	if _, ok := all[form]; !ok {
		return nil
	}
	delete(all, form)
	return saveAll(all)
}

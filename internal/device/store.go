package device

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"skinsync/internal/errors"
)

// Store is the persisted paired-device list. Insertion order is preserved
// for display; IDs are unique. Updating an existing ID replaces its address,
// hostname and timestamp in place without moving the entry.
type Store struct {
	mu      sync.Mutex
	path    string
	devices []Device
	loaded  bool
}

// NewStore creates a store backed by the JSON file at path.
// The file is loaded lazily on first access; a missing file is an empty store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// AddOrUpdate inserts a device, or replaces the entry with the same ID.
func (s *Store) AddOrUpdate(d Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	for i, existing := range s.devices {
		if existing.ID == d.ID {
			s.devices[i] = d
			return s.save()
		}
	}

	s.devices = append(s.devices, d)
	return s.save()
}

// Remove deletes the device with the given ID. Removing an unknown ID is a
// no-op, not an error.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	for i, existing := range s.devices {
		if existing.ID == id {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// Get returns the device with the given ID, or false if absent.
func (s *Store) Get(id string) (Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return Device{}, false
	}

	for _, d := range s.devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// List returns all paired devices in insertion order.
func (s *Store) List() ([]Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	out := make([]Device, len(s.devices))
	copy(out, s.devices)
	return out, nil
}

// Len returns the number of paired devices.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return 0
	}
	return len(s.devices)
}

// load reads the backing file once. Caller holds the mutex.
func (s *Store) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read the paired device list",
			"Check permissions on "+s.path)
	}

	if err := json.Unmarshal(data, &s.devices); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Paired device list is corrupted",
			"Delete "+s.path+" and pair devices again")
	}

	s.loaded = true
	return nil
}

// save writes the device list atomically (tmp file + rename).
// Caller holds the mutex.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.devices, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't encode the paired device list", "")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create "+dir,
			"Check permissions on the parent directory")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the paired device list",
			"Check permissions on "+dir)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the paired device list",
			"Check permissions on "+dir)
	}

	return nil
}

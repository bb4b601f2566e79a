// Package store loads and saves column-roles profiles.
//
// A profile records which statement column holds which role so a statement
// layout can be classified once and reused non-interactively.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fjacquet/statement-report/internal/fileutils"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
	"fjacquet/statement-report/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// DefaultRolesFile is the profile name used when none is configured.
const DefaultRolesFile = "roles.yaml"

// ColumnEntry is the role of one column in a profile.
type ColumnEntry struct {
	Column int             `yaml:"column"`
	Role   models.RoleKind `yaml:"role"`
	Label  string          `yaml:"label,omitempty"`
}

// Profile is the on-disk form of a roles profile.
type Profile struct {
	HasHeaders bool          `yaml:"has_headers"`
	Columns    []ColumnEntry `yaml:"columns"`
}

// Roles converts the profile into an assignment map. Unset entries are
// skipped.
func (p Profile) Roles() map[int]models.ColumnRole {
	roles := make(map[int]models.ColumnRole, len(p.Columns))
	for _, c := range p.Columns {
		if c.Role == models.RoleUnset {
			continue
		}
		roles[c.Column] = models.ColumnRole{Kind: c.Role, Label: c.Label}
	}
	return roles
}

// NewProfile builds a profile from an assignment map, ordered by column.
func NewProfile(roles map[int]models.ColumnRole, hasHeaders bool) Profile {
	p := Profile{HasHeaders: hasHeaders, Columns: make([]ColumnEntry, 0, len(roles))}
	for col, role := range roles {
		if role.Kind == models.RoleUnset {
			continue
		}
		p.Columns = append(p.Columns, ColumnEntry{Column: col, Role: role.Kind, Label: role.Label})
	}
	sort.Slice(p.Columns, func(i, j int) bool { return p.Columns[i].Column < p.Columns[j].Column })
	return p
}

// Validate checks that no column appears twice and that each exclusive role
// is held by at most one column.
func (p Profile) Validate() error {
	seen := make(map[int]bool, len(p.Columns))
	owners := make(map[models.RoleKind]int)
	for _, c := range p.Columns {
		if c.Column < 0 {
			return fmt.Errorf("column %d: negative index", c.Column)
		}
		if seen[c.Column] {
			return fmt.Errorf("column %d listed twice", c.Column)
		}
		seen[c.Column] = true
		if !c.Role.IsSingleton() {
			continue
		}
		if prev, ok := owners[c.Role]; ok {
			return fmt.Errorf("role %s assigned to columns %d and %d", c.Role, prev, c.Column)
		}
		owners[c.Role] = c.Column
	}
	return nil
}

// Repository is what callers need from a roles store.
type Repository interface {
	Load() (Profile, error)
	Save(Profile) error
}

// RolesStore reads and writes a roles profile file.
type RolesStore struct {
	RolesFile string
	logger    logging.Logger
}

// NewRolesStore creates a store for the given profile path.
func NewRolesStore(rolesFile string, logger logging.Logger) *RolesStore {
	return &RolesStore{
		RolesFile: rolesFile,
		logger:    logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a profile in the standard locations.
func (s *RolesStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join(".statement-report", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".statement-report", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *RolesStore) filename() string {
	if s.RolesFile == "" {
		return DefaultRolesFile
	}
	return s.RolesFile
}

// Load reads and validates the profile.
func (s *RolesStore) Load() (Profile, error) {
	filename := s.filename()
	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		return Profile{}, fmt.Errorf("roles file %s: %w", filename, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return Profile{}, fmt.Errorf("error reading roles file: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, &parsererror.ValidationError{FilePath: filePath, Reason: err.Error()}
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, &parsererror.ValidationError{FilePath: filePath, Reason: err.Error()}
	}

	s.logger.Debug("Loaded roles profile",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(profile.Columns)))
	return profile, nil
}

// Save writes the profile, creating parent directories as needed. An
// existing profile found through FindConfigFile is overwritten in place.
func (s *RolesStore) Save(profile Profile) error {
	if err := profile.Validate(); err != nil {
		return &parsererror.ValidationError{FilePath: s.filename(), Reason: err.Error()}
	}

	filename := s.filename()
	filePath, err := s.FindConfigFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		filePath = filename
	} else if err != nil {
		return fmt.Errorf("error resolving roles file: %w", err)
	}

	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("error marshaling roles profile: %w", err)
	}
	if err := fileutils.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing roles profile: %w", err)
	}

	s.logger.Debug("Saved roles profile",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(profile.Columns)))
	return nil
}

package store

// MockRolesStore is an in-memory Repository for tests.
type MockRolesStore struct {
	Profile Profile
	Saved   []Profile

	LoadError error
	SaveError error
}

// Load returns the mock profile.
func (m *MockRolesStore) Load() (Profile, error) {
	if m.LoadError != nil {
		return Profile{}, m.LoadError
	}
	return m.Profile, nil
}

// Save records the profile and makes it the one returned by Load.
func (m *MockRolesStore) Save(p Profile) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saved = append(m.Saved, p)
	m.Profile = p
	return nil
}

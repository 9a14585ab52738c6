package store

// MockCodeStore is a CodeSource for tests.
type MockCodeStore struct {
	Overrides Overrides

	LoadOverridesError error
}

// LoadOverrides returns a copy of the mock overrides.
func (m *MockCodeStore) LoadOverrides() (Overrides, error) {
	if m.LoadOverridesError != nil {
		return nil, m.LoadOverridesError
	}
	result := make(Overrides, len(m.Overrides))
	for name, entries := range m.Overrides {
		copied := make(map[string]string, len(entries))
		for k, v := range entries {
			copied[k] = v
		}
		result[name] = copied
	}
	return result, nil
}

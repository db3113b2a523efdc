package shell

// Store reads and writes the persisted user search path.
type Store interface {
	Get() (string, error)
	Set(value string) error
}

// MemoryStore is an in-memory Store for tests and simulated hosts.
type MemoryStore struct {
	Value  string
	Writes int

	GetErr error // returned by Get when set
	SetErr error // returned by Set when set
}

// NewMemoryStore creates a store holding value.
func NewMemoryStore(value string) *MemoryStore {
	return &MemoryStore{Value: value}
}

// Get returns the stored value.
func (m *MemoryStore) Get() (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	return m.Value, nil
}

// Set replaces the stored value and counts the write.
func (m *MemoryStore) Set(value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Value = value
	m.Writes++
	return nil
}

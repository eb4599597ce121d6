package catalogs

import "sync"

// Models is a thread-safe container for managing catalog records by ID.
// The sync pipeline never mutates a Models directly; callers own the
// container and apply merge results to it.
type Models struct {
	mu     sync.RWMutex
	models map[string]Model
	order  []string // insertion order for stable listing
}

// NewModels creates a new Models instance.
func NewModels() *Models {
	return &Models{
		models: make(map[string]Model),
	}
}

// Get returns a model by ID.
func (m *Models) Get(id string) (Model, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	model, found := m.models[id]
	return model, found
}

// Set stores a model by ID, preserving first-insertion order.
func (m *Models) Set(model Model) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.models[model.ID]; !exists {
		m.order = append(m.order, model.ID)
	}
	m.models[model.ID] = model
}

// Delete removes a model by ID.
func (m *Models) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.models[id]; !exists {
		return
	}
	delete(m.models, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of models.
func (m *Models) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.models)
}

// List returns all models in insertion order.
func (m *Models) List() []Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	models := make([]Model, 0, len(m.models))
	for _, id := range m.order {
		models = append(models, m.models[id])
	}
	return models
}

// Replace swaps the entire contents for the given records, keeping their
// slice order as the new insertion order.
func (m *Models) Replace(models []Model) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = make(map[string]Model, len(models))
	m.order = m.order[:0]
	for _, model := range models {
		if _, exists := m.models[model.ID]; !exists {
			m.order = append(m.order, model.ID)
		}
		m.models[model.ID] = model
	}
}

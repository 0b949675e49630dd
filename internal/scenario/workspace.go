package scenario

import "sync"

// Workspace holds the mutable working copy of each scenario's parameters,
// one per preset, the way the UI keeps an editable copy per scenario tab.
// Copies live in memory only; nothing is persisted across restarts.
type Workspace struct {
	mu      sync.RWMutex
	working map[string]Params
}

// NewWorkspace creates a workspace seeded with the preset defaults.
func NewWorkspace() *Workspace {
	working := make(map[string]Params, len(presets))
	for name, p := range presets {
		working[name] = p
	}
	return &Workspace{working: working}
}

// Get returns a copy of the current working parameters for a scenario.
func (w *Workspace) Get(name string) (Params, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	p, ok := w.working[name]
	if !ok {
		return Params{}, ErrUnknownScenario
	}
	return p, nil
}

// Put replaces the working parameters for a scenario. The scenario must be
// one of the known presets; the workspace never grows new entries.
func (w *Workspace) Put(name string, p Params) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.working[name]; !ok {
		return ErrUnknownScenario
	}
	w.working[name] = p
	return nil
}

// Reset restores a scenario's working copy to its preset defaults and
// returns the restored parameters.
func (w *Workspace) Reset(name string) (Params, error) {
	preset, ok := presets[name]
	if !ok {
		return Params{}, ErrUnknownScenario
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.working[name] = preset
	return preset, nil
}

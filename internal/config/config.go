// Package config persists session preferences: sidebar state, layout
// orientation, and remembered panel sizes. It is the only component that
// touches durable storage; everything else goes through it with explicit
// snapshot/restore calls. File payload caches are deliberately never
// persisted — they are session-scoped.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atelier-studio/atelier/internal/logger"
)

// Defaults applied when a preference is absent from durable storage.
const (
	DefaultSidebarVisible    = true
	DefaultSidebarWidth      = 32
	DefaultLayoutOrientation = "horizontal"
)

// Preferences holds the durable session preferences. Mutations are
// written through to disk immediately so a reload always sees the last
// state.
type Preferences struct {
	SidebarVisible    bool                 `json:"sidebar_visible"`
	SidebarWidth      int                  `json:"sidebar_width"`
	LayoutOrientation string               `json:"layout_orientation"`
	ServerURL         string               `json:"server_url,omitempty"`
	LastProjectID     string               `json:"last_project_id,omitempty"`
	PanelSizes        map[string][]float64 `json:"panel_sizes,omitempty"` // keyed by (project, files...) pairing

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".atelier"), nil
}

// configPath returns the path to the preferences file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "preferences.json"), nil
}

// Load reads preferences from the default location, applying defaults if
// the file does not exist.
func Load() (*Preferences, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads preferences from an explicit path. Used directly by
// tests so they never touch the real home directory.
func LoadFrom(path string) (*Preferences, error) {
	p := &Preferences{
		SidebarVisible:    DefaultSidebarVisible,
		SidebarWidth:      DefaultSidebarWidth,
		LayoutOrientation: DefaultLayoutOrientation,
		PanelSizes:        make(map[string][]float64),
		filePath:          path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing preferences %s: %w", path, err)
	}
	p.ensureInitialized()
	return p, nil
}

// ensureInitialized ensures maps are initialized and values sane after
// unmarshaling. Only called during single-threaded Load.
func (p *Preferences) ensureInitialized() {
	if p.PanelSizes == nil {
		p.PanelSizes = make(map[string][]float64)
	}
	if p.SidebarWidth <= 0 {
		p.SidebarWidth = DefaultSidebarWidth
	}
	if p.LayoutOrientation != "horizontal" && p.LayoutOrientation != "vertical" {
		p.LayoutOrientation = DefaultLayoutOrientation
	}
}

// save writes the preferences to disk. Must be called with the lock held.
func (p *Preferences) save() {
	if p.filePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		logger.Warn("Config: Failed to create config dir: %v", err)
		return
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		logger.Warn("Config: Failed to marshal preferences: %v", err)
		return
	}
	if err := os.WriteFile(p.filePath, data, 0644); err != nil {
		logger.Warn("Config: Failed to write preferences: %v", err)
	}
}

// GetSidebarVisible returns whether the sidebar is shown.
func (p *Preferences) GetSidebarVisible() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.SidebarVisible
}

// SetSidebarVisible updates sidebar visibility, writing through to disk.
func (p *Preferences) SetSidebarVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SidebarVisible == visible {
		return
	}
	p.SidebarVisible = visible
	p.save()
}

// GetSidebarWidth returns the sidebar width in columns.
func (p *Preferences) GetSidebarWidth() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.SidebarWidth
}

// SetSidebarWidth updates the sidebar width, writing through to disk.
func (p *Preferences) SetSidebarWidth(width int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if width <= 0 || p.SidebarWidth == width {
		return
	}
	p.SidebarWidth = width
	p.save()
}

// GetLayoutOrientation returns "horizontal" or "vertical".
func (p *Preferences) GetLayoutOrientation() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.LayoutOrientation
}

// SetLayoutOrientation updates the layout axis, writing through to disk.
func (p *Preferences) SetLayoutOrientation(orientation string) {
	if orientation != "horizontal" && orientation != "vertical" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.LayoutOrientation == orientation {
		return
	}
	p.LayoutOrientation = orientation
	p.save()
}

// GetServerURL returns the configured workspace server URL.
func (p *Preferences) GetServerURL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ServerURL
}

// SetServerURL updates the workspace server URL, writing through to disk.
func (p *Preferences) SetServerURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ServerURL == url {
		return
	}
	p.ServerURL = url
	p.save()
}

// GetLastProjectID returns the project the session last had open.
func (p *Preferences) GetLastProjectID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.LastProjectID
}

// SetLastProjectID records the project in use, writing through to disk.
func (p *Preferences) SetLastProjectID(projectID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.LastProjectID == projectID {
		return
	}
	p.LastProjectID = projectID
	p.save()
}

// GetPanelSizes returns the remembered sizes for a panel pairing, or nil
// if that pairing has never been sized.
func (p *Preferences) GetPanelSizes(pairingKey string) []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sizes, ok := p.PanelSizes[pairingKey]
	if !ok {
		return nil
	}
	out := make([]float64, len(sizes))
	copy(out, sizes)
	return out
}

// SetPanelSizes remembers the sizes for a panel pairing, writing through
// to disk. Sizes settle here after a resize drag, not on every tick.
func (p *Preferences) SetPanelSizes(pairingKey string, sizes []float64) {
	if pairingKey == "" || len(sizes) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := make([]float64, len(sizes))
	copy(stored, sizes)
	p.PanelSizes[pairingKey] = stored
	p.save()
}

// FilePath returns the backing file location.
func (p *Preferences) FilePath() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filePath
}

// Clear removes the preferences file and resets in-memory state to
// defaults. Used by the clean subcommand.
func (p *Preferences) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SidebarVisible = DefaultSidebarVisible
	p.SidebarWidth = DefaultSidebarWidth
	p.LayoutOrientation = DefaultLayoutOrientation
	p.PanelSizes = make(map[string][]float64)
	p.LastProjectID = ""

	if p.filePath == "" {
		return nil
	}
	if err := os.Remove(p.filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

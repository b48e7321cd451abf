// Package profile manages named, isolated database profiles: creation,
// deletion, the active-profile selection, and atomic persistence of the
// per-profile FuzzyConfig, PathTemplate and enabled file type set to a
// single TOML configuration file.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/fuzzyconfig"
	"github.com/crateindex/crateindex/internal/logging"
	"github.com/crateindex/crateindex/internal/pathtemplate"
)

// DefaultEnabledFileTypes is the file type set seeded onto a new profile
// when the caller does not specify one, per spec.md §6.
var DefaultEnabledFileTypes = []string{
	"mp3", "flac", "wav", "ogg", "m4a", "aac", "wma", "aiff", "ape", "opus",
}

// DefaultTemplate is the path template settings seeded onto a new profile.
var DefaultTemplate = TemplateSettings{
	Template:                "{album_artist}/{album}/{track_number:02d} {title}.{file_type}",
	TextFormat:              pathtemplate.TextFormatNone,
	UseSubdirectoryGrouping: false,
	SubdirectoryLevels:      1,
}

// TemplateSettings is the persisted, uncompiled form of a Profile's
// PathTemplate. Compile parses it into a pathtemplate.Template ready for
// Render calls.
type TemplateSettings struct {
	Template                string
	TextFormat              pathtemplate.TextFormat
	UseSubdirectoryGrouping bool
	SubdirectoryLevels      int
}

// Compile parses t.Template into a ready-to-render pathtemplate.Template.
func (t TemplateSettings) Compile() (*pathtemplate.Template, error) {
	return pathtemplate.Parse(t.Template, t.TextFormat, t.UseSubdirectoryGrouping, t.SubdirectoryLevels)
}

// Profile is a named, isolated database location with its own fuzzy and
// template configuration, per spec.md §3.
type Profile struct {
	ID               string
	Name             string
	DatabasePath     string
	CreatedDate      time.Time
	LastUsedDate     time.Time
	Fuzzy            fuzzyconfig.Config
	Template         TemplateSettings
	EnabledFileTypes map[string]bool
}

// Manager owns the set of Profiles and the identity of the active one. Its
// on-disk configuration file is rewritten atomically (write-temp, rename)
// on every mutation, per spec.md §5's shared-resource policy. Callers must
// cancel any in-flight scan against the active profile's Catalog before
// switching it; Manager itself only tracks identity, not live connections.
type Manager struct {
	mu         sync.Mutex
	configPath string
	logger     logging.Logger

	profiles []*Profile
	activeID string
}

// NewManager constructs a Manager bound to configPath. Call Load before
// use to populate it from an existing file; a Manager with no Load call
// starts with zero profiles. A nil logger falls back to logging.Noop.
func NewManager(configPath string, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Manager{configPath: configPath, logger: logger}
}

// Load reads configPath, replacing the in-memory profile set. A missing
// file is not an error: Load leaves the Manager with zero profiles, the
// same as a first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.profiles = nil
		m.activeID = ""
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(m.configPath), toml.Parser()); err != nil {
		return fmt.Errorf("load profile configuration %s: %w", m.configPath, catalogerr.ErrIO)
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return fmt.Errorf("parse profile configuration %s: %w", m.configPath, catalogerr.ErrIO)
	}

	profiles := make([]*Profile, 0, len(fc.Profiles))
	for _, fp := range fc.Profiles {
		profiles = append(profiles, fp.toProfile())
	}

	m.profiles = profiles
	m.activeID = fc.ActiveProfileID
	return nil
}

// CreateProfile adds a new profile named name backed by databasePath, with
// Balanced fuzzy defaults, DefaultTemplate, and enabledFileTypes (falling
// back to DefaultEnabledFileTypes when empty). The first profile created
// becomes active automatically. Fails with catalogerr.ErrInvalidConfig if
// name or databasePath is empty or already in use by another profile.
func (m *Manager) CreateProfile(name, databasePath string, enabledFileTypes []string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("profile name must not be empty: %w", catalogerr.ErrInvalidConfig)
	}
	if databasePath == "" {
		return nil, fmt.Errorf("databasePath must not be empty: %w", catalogerr.ErrInvalidConfig)
	}
	for _, p := range m.profiles {
		if p.Name == name {
			return nil, fmt.Errorf("profile name %q already in use: %w", name, catalogerr.ErrInvalidConfig)
		}
		if p.DatabasePath == databasePath {
			return nil, fmt.Errorf("database path %q already in use: %w", databasePath, catalogerr.ErrInvalidConfig)
		}
	}

	if len(enabledFileTypes) == 0 {
		enabledFileTypes = DefaultEnabledFileTypes
	}
	types := make(map[string]bool, len(enabledFileTypes))
	for _, t := range enabledFileTypes {
		types[t] = true
	}

	now := time.Now()
	p := &Profile{
		ID:               uuid.NewString(),
		Name:             name,
		DatabasePath:     databasePath,
		CreatedDate:      now,
		LastUsedDate:     now,
		Fuzzy:            fuzzyconfig.Balanced,
		Template:         DefaultTemplate,
		EnabledFileTypes: types,
	}

	m.profiles = append(m.profiles, p)
	if m.activeID == "" {
		m.activeID = p.ID
	}

	if err := m.saveLocked(); err != nil {
		return nil, err
	}
	m.logger.Info("created profile", "id", p.ID, "name", p.Name)
	return p, nil
}

// DeleteProfile removes the profile with id. Fails with
// catalogerr.ErrInvalidConfig when it is the only remaining profile.
// Deleting the active profile atomically switches active to another
// remaining profile. Database files on disk are not touched.
func (m *Manager) DeleteProfile(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.profiles) <= 1 {
		return fmt.Errorf("cannot delete the only remaining profile: %w", catalogerr.ErrInvalidConfig)
	}

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("profile %s: %w", id, catalogerr.ErrNotFound)
	}

	m.profiles = append(m.profiles[:idx], m.profiles[idx+1:]...)

	if m.activeID == id {
		m.activeID = m.profiles[0].ID
	}

	if err := m.saveLocked(); err != nil {
		return err
	}
	m.logger.Info("deleted profile", "id", id)
	return nil
}

// Profiles returns every known profile, in creation order.
func (m *Manager) Profiles() []*Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Profile, len(m.profiles))
	copy(out, m.profiles)
	return out
}

// Get returns the profile with id, or catalogerr.ErrNotFound.
func (m *Manager) Get(id string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("profile %s: %w", id, catalogerr.ErrNotFound)
	}
	return m.profiles[idx], nil
}

// ActiveProfile returns the currently active profile, or
// catalogerr.ErrNotFound if none has been created yet.
func (m *Manager) ActiveProfile() (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(m.activeID)
	if idx < 0 {
		return nil, fmt.Errorf("no active profile: %w", catalogerr.ErrNotFound)
	}
	return m.profiles[idx], nil
}

// SetActive switches the active profile to id, updating its LastUsedDate.
// Callers must have already cancelled any scan or duplicate search bound
// to the previously active profile's Catalog.
func (m *Manager) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("profile %s: %w", id, catalogerr.ErrNotFound)
	}

	m.activeID = id
	m.profiles[idx].LastUsedDate = time.Now()

	return m.saveLocked()
}

// UpdateFuzzyConfig replaces the FuzzyConfig embedded in the profile with
// id. Fails with catalogerr.ErrInvalidConfig if cfg does not validate.
func (m *Manager) UpdateFuzzyConfig(id string, cfg fuzzyconfig.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("profile %s: %w", id, catalogerr.ErrNotFound)
	}
	m.profiles[idx].Fuzzy = cfg
	return m.saveLocked()
}

// UpdateTemplate replaces the TemplateSettings embedded in the profile with
// id. Fails with catalogerr.ErrInvalidTemplate if t does not compile.
func (m *Manager) UpdateTemplate(id string, t TemplateSettings) error {
	if _, err := t.Compile(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("profile %s: %w", id, catalogerr.ErrNotFound)
	}
	m.profiles[idx].Template = t
	return m.saveLocked()
}

// UpdateEnabledFileTypes replaces the profile's enabled file type set.
func (m *Manager) UpdateEnabledFileTypes(id string, types []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("profile %s: %w", id, catalogerr.ErrNotFound)
	}

	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	m.profiles[idx].EnabledFileTypes = set
	return m.saveLocked()
}

func (m *Manager) indexOf(id string) int {
	for i, p := range m.profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// saveLocked serializes the current profile set to m.configPath by writing
// a temp file in the same directory and renaming it into place, so readers
// never observe a partially written configuration. Callers must hold m.mu.
func (m *Manager) saveLocked() error {
	data, err := toml.Parser().Marshal(m.toMap())
	if err != nil {
		return fmt.Errorf("marshal profile configuration: %w", catalogerr.ErrIO)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, catalogerr.ErrIO)
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", catalogerr.ErrIO)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp config file: %w", catalogerr.ErrIO)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", catalogerr.ErrIO)
	}
	if err := os.Rename(tmpPath, m.configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file into place: %w", catalogerr.ErrIO)
	}
	return nil
}

func sortedFileTypes(types map[string]bool) []string {
	out := make([]string, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

package repositories

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/statusarea/presenced/internal/models"
)

const (
	generalGroup  = "General"
	profileHeader = "Profile "
	accountHeader = "Account-"

	keyActiveProfile   = "ActiveProfile"
	keyLocationLevel   = "LocationLevel"
	keyStatusMessage   = "StatusMessage"
	keyIcon            = "Icon"
	keyDefaultPresence = "DefaultPresence"
)

// FileStateRepository stores the persisted state as a YAML document of
// key-value groups: the General group and one "Profile <name>" group per
// user profile. Group order in the document is the profile load order.
type FileStateRepository struct {
	path string
}

func NewFileStateRepository(path string) *FileStateRepository {
	return &FileStateRepository{path: path}
}

// Load reads and parses the state file. A missing file yields an empty
// state, not an error.
func (r *FileStateRepository) Load() (*PersistedState, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &PersistedState{LocationLevel: models.LocationLevelNone}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	state := &PersistedState{LocationLevel: models.LocationLevelNone}
	if len(doc.Content) == 0 {
		return state, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse state file: top level is not a group mapping")
	}

	// Mapping content alternates key, value; iterating preserves the
	// on-disk group order.
	for i := 0; i+1 < len(root.Content); i += 2 {
		group := root.Content[i].Value
		entries, err := decodeGroup(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse group %q: %w", group, err)
		}

		switch {
		case group == generalGroup:
			state.ActiveProfile = intEntry(entries, keyActiveProfile, 0)
			state.LocationLevel = models.LocationLevel(
				intEntry(entries, keyLocationLevel, int(models.LocationLevelNone)))
			if message, ok := lookupEntry(entries, keyStatusMessage); ok {
				state.StatusMessage = message
				state.HasStatusMessage = true
			}
		case strings.HasPrefix(group, profileHeader):
			state.Profiles = append(state.Profiles, decodeProfile(group, entries))
		}
	}

	return state, nil
}

// Save writes the state atomically: a temp file in the same directory,
// synced, then renamed over the old one.
func (r *FileStateRepository) Save(state *PersistedState) error {
	root := &yaml.Node{Kind: yaml.MappingNode}

	general := &yaml.Node{Kind: yaml.MappingNode}
	appendScalar(general, keyActiveProfile, strconv.Itoa(state.ActiveProfile), true)
	appendScalar(general, keyLocationLevel, strconv.Itoa(int(state.LocationLevel)), true)
	if state.HasStatusMessage {
		appendScalar(general, keyStatusMessage, state.StatusMessage, false)
	}
	appendGroup(root, generalGroup, general)

	for _, profile := range state.Profiles {
		group := &yaml.Node{Kind: yaml.MappingNode}
		appendScalar(group, keyIcon, profile.Icon, false)
		appendScalar(group, keyDefaultPresence, profile.DefaultPresence, false)
		for _, id := range sortedKeys(profile.Accounts) {
			appendScalar(group, accountHeader+id, profile.Accounts[id], false)
		}
		appendGroup(root, profileHeader+profile.Name, group)
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".presenced-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

type groupEntry struct {
	key   string
	value string
}

func decodeGroup(node *yaml.Node) ([]groupEntry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("group is not a key-value mapping")
	}
	entries := make([]groupEntry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		entries = append(entries, groupEntry{
			key:   node.Content[i].Value,
			value: node.Content[i+1].Value,
		})
	}
	return entries, nil
}

func decodeProfile(group string, entries []groupEntry) PersistedProfile {
	profile := PersistedProfile{Name: strings.TrimPrefix(group, profileHeader)}
	for _, entry := range entries {
		switch {
		case entry.key == keyIcon:
			profile.Icon = entry.value
		case entry.key == keyDefaultPresence:
			profile.DefaultPresence = entry.value
		case strings.HasPrefix(entry.key, accountHeader):
			if profile.Accounts == nil {
				profile.Accounts = make(map[string]string)
			}
			profile.Accounts[strings.TrimPrefix(entry.key, accountHeader)] = entry.value
		}
	}
	return profile
}

func lookupEntry(entries []groupEntry, key string) (string, bool) {
	for _, entry := range entries {
		if entry.key == key {
			return entry.value, true
		}
	}
	return "", false
}

func intEntry(entries []groupEntry, key string, fallback int) int {
	raw, ok := lookupEntry(entries, key)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func appendScalar(group *yaml.Node, key, value string, isInt bool) {
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if isInt {
		valueNode.Tag = "!!int"
	} else {
		valueNode.Tag = "!!str"
	}
	group.Content = append(group.Content, keyNode, valueNode)
}

func appendGroup(root *yaml.Node, name string, group *yaml.Node) {
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: name}, group)
}

// Deterministic file output; override order is not significant.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

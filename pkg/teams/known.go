package teams

import (
	_ "embed"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
)

//go:embed known_teams.yaml
var defaultKnownTeams []byte

// Team is one code to display name entry.
type Team struct {
	Code int    `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// KnownCodes is the configured table of team codes with known names. It is
// configuration, not runtime state: a sync run only writes it back when
// discovered codes are explicitly persisted.
type KnownCodes struct {
	Teams []Team `yaml:"teams" json:"teams"`
}

// DefaultKnownCodes returns the table shipped with the binary.
func DefaultKnownCodes() (KnownCodes, error) {
	return parseKnownCodes(defaultKnownTeams, "embedded")
}

// LoadKnownCodes reads a known-codes YAML file. An empty path selects the
// embedded default.
func LoadKnownCodes(path string) (KnownCodes, error) {
	if path == "" {
		return DefaultKnownCodes()
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return KnownCodes{}, errors.NewConfigError("teams", "cannot read known team codes", err)
	}
	return parseKnownCodes(data, path)
}

func parseKnownCodes(data []byte, name string) (KnownCodes, error) {
	var known KnownCodes
	if err := yaml.Unmarshal(data, &known); err != nil {
		return KnownCodes{}, errors.WrapParse("yaml", name, err)
	}
	return known, nil
}

// SaveKnownCodes writes the table to path, sorted by code.
func SaveKnownCodes(path string, known KnownCodes) error {
	known = known.sorted()
	data, err := yaml.MarshalWithOptions(known, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.NewConfigError("teams", "cannot create directory for known team codes", err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.NewConfigError("teams", "cannot write known team codes", err)
	}
	return nil
}

// Map returns the table as a code to name map. Later duplicates win.
func (k KnownCodes) Map() map[int]string {
	out := make(map[int]string, len(k.Teams))
	for _, t := range k.Teams {
		out[t.Code] = t.Name
	}
	return out
}

func (k KnownCodes) sorted() KnownCodes {
	teams := make([]Team, len(k.Teams))
	copy(teams, k.Teams)
	sort.Slice(teams, func(i, j int) bool { return teams[i].Code < teams[j].Code })
	return KnownCodes{Teams: teams}
}

func knownFromMap(m map[int]string) KnownCodes {
	teams := make([]Team, 0, len(m))
	for code, name := range m {
		teams = append(teams, Team{Code: code, Name: name})
	}
	return KnownCodes{Teams: teams}.sorted()
}

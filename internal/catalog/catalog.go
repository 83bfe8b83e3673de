// Package catalog loads the read-only reference data (anomalies,
// competencies and roles) that drives the character sheet form.
package catalog

import (
	"context"
	"log/slog"
	"os"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

// Default file names inside the settings directory.
const (
	DefaultAnomalyFile    = "Anomaly.json"
	DefaultCompetencyFile = "Reality.json"
	DefaultRoleFile       = "Competency.json"
)

// Ability is one entry of an anomaly category.
type Ability struct {
	Title       string
	Description string
	Success     string
	Failure     string
	Specially   string
	Question    string
	Options     []agency.Option
}

// Trigger is one reality trigger of a competency.
type Trigger struct {
	Title       string
	Description string
	Mechanics   string
}

// Overload is one overload release of a competency.
type Overload struct {
	Title       string
	Description string
}

// Competency is the configuration of one competency name.
type Competency struct {
	Name      string
	Triggers  []Trigger
	Overloads []Overload
	Types     []string
}

// Role is the first entry of a role catalog item.
type Role struct {
	Name             string
	Main             string
	MainDescription  string
	PermittedActions []string
}

// Anomalies maps category names to ordered ability lists.
type Anomalies struct {
	names   []string
	entries map[string][]Ability
}

// Names returns the category names in document order.
func (a *Anomalies) Names() []string {
	if a == nil {
		return nil
	}
	return a.names
}

// Abilities returns the abilities of a category.
func (a *Anomalies) Abilities(name string) ([]Ability, bool) {
	if a == nil {
		return nil, false
	}
	abilities, ok := a.entries[name]
	return abilities, ok
}

// Competencies maps competency names to their configuration.
type Competencies struct {
	names   []string
	entries map[string]Competency
}

// Names returns the selectable competency names (those with at least one
// type) in document order.
func (c *Competencies) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.names))
	for _, name := range c.names {
		if len(c.entries[name].Types) > 0 {
			out = append(out, name)
		}
	}
	return out
}

// Get returns the configuration of a competency.
func (c *Competencies) Get(name string) (Competency, bool) {
	if c == nil {
		return Competency{}, false
	}
	comp, ok := c.entries[name]
	return comp, ok
}

// Types returns the type choices of a competency, empty when unknown.
func (c *Competencies) Types(name string) []string {
	comp, _ := c.Get(name)
	return comp.Types
}

// Roles maps role names to their first entry.
type Roles struct {
	names   []string
	entries map[string]Role
}

// Names returns the role names in document order.
func (r *Roles) Names() []string {
	if r == nil {
		return nil
	}
	return r.names
}

// Get returns a role by name.
func (r *Roles) Get(name string) (Role, bool) {
	if r == nil {
		return Role{}, false
	}
	role, ok := r.entries[name]
	return role, ok
}

// Catalogs bundles the three reference catalogs.
type Catalogs struct {
	Anomalies    *Anomalies
	Competencies *Competencies
	Roles        *Roles
}

// Paths locates the catalog files.
type Paths struct {
	Anomaly    string
	Competency string
	Role       string
}

// Load reads all three catalogs. A missing or malformed file yields an empty
// catalog and a warning; Load itself never fails.
func Load(ctx context.Context, paths Paths) *Catalogs {
	out := &Catalogs{
		Anomalies:    &Anomalies{entries: map[string][]Ability{}},
		Competencies: &Competencies{entries: map[string]Competency{}},
		Roles:        &Roles{entries: map[string]Role{}},
	}

	if data, ok := readCatalog(ctx, "anomaly", paths.Anomaly); ok {
		if parsed, err := ParseAnomalies(data); err != nil {
			slog.WarnContext(ctx, "ignoring malformed catalog", "catalog", "anomaly", "path", paths.Anomaly, "error", err)
		} else {
			out.Anomalies = parsed
		}
	}
	if data, ok := readCatalog(ctx, "competency", paths.Competency); ok {
		if parsed, err := ParseCompetencies(data); err != nil {
			slog.WarnContext(ctx, "ignoring malformed catalog", "catalog", "competency", "path", paths.Competency, "error", err)
		} else {
			out.Competencies = parsed
		}
	}
	if data, ok := readCatalog(ctx, "role", paths.Role); ok {
		if parsed, err := ParseRoles(data); err != nil {
			slog.WarnContext(ctx, "ignoring malformed catalog", "catalog", "role", "path", paths.Role, "error", err)
		} else {
			out.Roles = parsed
		}
	}

	slog.DebugContext(ctx, "catalogs loaded",
		"anomalies", len(out.Anomalies.Names()),
		"competencies", len(out.Competencies.Names()),
		"roles", len(out.Roles.Names()))

	return out
}

func readCatalog(ctx context.Context, kind, path string) ([]byte, bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.WarnContext(ctx, "catalog unavailable", "catalog", kind, "path", path, "error", err)
		return nil, false
	}
	return data, true
}

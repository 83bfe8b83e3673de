package form

import (
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/agency-sheet/internal/catalog"
	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

// Mode controls whether selection changes derive dependent fields.
type Mode int

const (
	// ModeEdit runs derivations, as when a user changes a selection.
	ModeEdit Mode = iota
	// ModeLoad suppresses derivations so loaded values are kept as stored, and
	// resets fields the loaded record does not carry.
	ModeLoad
)

// Default values of fields that are not blank on a fresh sheet.
const (
	DefaultStatMax = "0"
)

// Aggregator applies the catalog-driven rules of the sheet form.
type Aggregator struct {
	catalogs *catalog.Catalogs
}

// NewAggregator creates an aggregator over the given catalogs. A nil
// catalogs value behaves like three empty catalogs.
func NewAggregator(catalogs *catalog.Catalogs) *Aggregator {
	if catalogs == nil {
		catalogs = &catalog.Catalogs{}
	}
	return &Aggregator{catalogs: catalogs}
}

// Catalogs returns the reference data the aggregator derives from.
func (a *Aggregator) Catalogs() *catalog.Catalogs {
	return a.catalogs
}

// NewDraft returns a draft populated with defaults: zeroed stat maximums,
// the first stat on every ability, and the first entry of each catalog with
// its derived fields.
func (a *Aggregator) NewDraft() *agency.Draft {
	return a.newDraft(ModeEdit)
}

// newDraft builds the default draft. In load mode the catalog selections are
// stored without deriving their dependent fields.
func (a *Aggregator) newDraft(mode Mode) *agency.Draft {
	d := &agency.Draft{
		Values:    make(map[string]string),
		Abilities: []agency.AbilityView{},
	}
	for _, key := range agency.StatMaxKeys {
		d.SetValue(key, DefaultStatMax)
	}
	for i := 0; i < agency.MaxAbilities; i++ {
		d.SetValue(agency.AbilityStatKey(i), agency.StatNames[0])
	}

	if names := a.catalogs.Anomalies.Names(); len(names) > 0 {
		a.SelectAnomaly(d, names[0], mode)
	}
	if names := a.catalogs.Competencies.Names(); len(names) > 0 {
		_ = a.SelectCompetency(d, names[0], "", mode)
	}
	if names := a.catalogs.Roles.Names(); len(names) > 0 {
		a.SelectRole(d, names[0], mode)
	}
	return d
}

// reset returns every form field of d to its default without deriving.
// The ID and timestamps are kept.
func (a *Aggregator) reset(d *agency.Draft) {
	fresh := a.newDraft(ModeLoad)
	d.Values = fresh.Values
	d.CompetencyName = fresh.CompetencyName
	d.CompetencyType = fresh.CompetencyType
	d.ImagePath = ""
	d.Abilities = fresh.Abilities
}

// Set stores a raw field value. Selections derive their dependent fields in
// edit mode. The composite 现实 field accepts "name-type".
func (a *Aggregator) Set(d *agency.Draft, key, value string, mode Mode) error {
	if key == agency.KeyImagePath {
		d.ImagePath = value
		return nil
	}

	field, ok := Lookup(key)
	if !ok {
		return errors.InvalidArgumentf("unknown field %q", key)
	}

	switch field.Kind {
	case KindComposite:
		name, typ := splitComposite(value)
		return a.SelectCompetency(d, name, typ, mode)
	case KindStatSelect:
		if value != "" && !agency.IsStatName(value) {
			vb := errors.NewValidationBuilder()
			errors.ValidateEnum(key, value, agency.StatNames, vb)
			return vb.Build()
		}
		d.SetValue(key, value)
	default:
		d.SetValue(key, value)
		if mode == ModeEdit && field.derive != nil {
			field.derive(a, d)
		}
	}
	return nil
}

// SelectAnomaly stores the anomaly selection. In edit mode the ability
// selection is replaced by the category's projected abilities; an unknown
// category leaves it unchanged. The current selection is returned.
func (a *Aggregator) SelectAnomaly(d *agency.Draft, name string, mode Mode) []agency.AbilityView {
	d.SetValue(agency.KeyAnomaly, name)
	if mode == ModeEdit {
		a.deriveAbilities(d)
	}
	return d.Abilities
}

// SelectCompetency stores the competency name and type. The type falls back
// to the name's first type; in edit mode a type the catalog does not offer is
// rejected and the trigger texts are re-derived.
func (a *Aggregator) SelectCompetency(d *agency.Draft, name, typ string, mode Mode) error {
	types := a.catalogs.Competencies.Types(name)
	if mode == ModeEdit && typ != "" && len(types) > 0 && !contains(types, typ) {
		return errors.InvalidArgumentf("competency %q has no type %q", name, typ).
			WithMeta("types", types)
	}

	d.CompetencyName = name
	d.CompetencyType = resolveType(types, typ)
	if mode == ModeEdit {
		a.deriveCompetency(d)
	}
	return nil
}

// SelectRole stores the role selection and, in edit mode, fills the prime
// directive and permitted actions from the role catalog.
func (a *Aggregator) SelectRole(d *agency.Draft, name string, mode Mode) {
	d.SetValue(agency.KeyRole, name)
	if mode == ModeEdit {
		a.deriveRole(d)
	}
}

// SetImage stores the portrait path, relative to root when it lies inside it.
func (a *Aggregator) SetImage(d *agency.Draft, path, root string) {
	d.ImagePath = RelativeToRoot(root, path)
}

// Choices returns the values a selection field currently offers.
func (a *Aggregator) Choices(key string) []string {
	switch key {
	case agency.KeyAnomaly:
		return a.catalogs.Anomalies.Names()
	case agency.KeyRole:
		return a.catalogs.Roles.Names()
	case agency.KeyReality:
		return a.catalogs.Competencies.Names()
	}
	if field, ok := Lookup(key); ok && field.Kind == KindStatSelect {
		return agency.StatNames
	}
	return nil
}

// CompetencyTypes returns the type choices offered for a competency name.
func (a *Aggregator) CompetencyTypes(name string) []string {
	return a.catalogs.Competencies.Types(name)
}

// Gather produces the character record for the draft: trimmed values with
// blanks omitted, the competency composite, and up to three abilities with
// their assigned stats.
func (a *Aggregator) Gather(d *agency.Draft) agency.Record {
	var rec agency.Record
	rec.ImagePath = strings.TrimSpace(d.ImagePath)

	for _, f := range Fields {
		if v := strings.TrimSpace(f.read(d)); v != "" {
			rec.Set(f.Key, v)
		}
	}

	n := min(len(d.Abilities), agency.MaxAbilities)
	if n > 0 {
		rec.Abilities = make([]agency.AbilityView, 0, n)
		for i := 0; i < n; i++ {
			ability := d.Abilities[i].Clone()
			if stat := rec.Get(agency.AbilityStatKey(i)); stat != "" {
				ability.Stat = stat
			}
			rec.Abilities = append(rec.Abilities, ability)
		}
	}
	return rec
}

// Apply writes a record back into the draft. In load mode the draft is first
// reset to its defaults, so keys absent from the record get the default value;
// no derivation runs and the ability selection is taken from the record as
// stored. In edit mode absent keys keep the draft's current value. Stat
// selections outside the stat names are ignored.
func (a *Aggregator) Apply(d *agency.Draft, rec agency.Record, mode Mode) {
	if mode == ModeLoad {
		a.reset(d)
	}
	if mode == ModeLoad || rec.ImagePath != "" {
		d.ImagePath = rec.ImagePath
	}

	for _, f := range Fields {
		val := rec.Get(f.Key)
		switch f.Kind {
		case KindComposite:
			name, typ := splitComposite(val)
			if name == "" {
				name = d.CompetencyName
			}
			changed := name != d.CompetencyName
			d.CompetencyName = name
			d.CompetencyType = resolveType(a.catalogs.Competencies.Types(name), typ)
			if mode == ModeEdit && changed {
				a.deriveCompetency(d)
			}
		case KindSelection:
			if val == "" {
				continue
			}
			d.SetValue(f.Key, val)
			if mode == ModeEdit && f.derive != nil {
				f.derive(a, d)
			}
		case KindStatSelect:
			if agency.IsStatName(val) {
				d.SetValue(f.Key, val)
			}
		default:
			if val != "" {
				d.SetValue(f.Key, val)
			}
		}
	}

	if mode == ModeLoad || len(rec.Abilities) > 0 {
		d.Abilities = make([]agency.AbilityView, 0, len(rec.Abilities))
		for _, ability := range rec.Abilities {
			d.Abilities = append(d.Abilities, ability.Clone())
		}
	}
}

// Validate checks the fields a record needs before it can be saved.
func Validate(rec agency.Record) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired(agency.KeyName, rec.Name, vb)
	errors.ValidateRequired(agency.KeyAnomaly, rec.Anomaly, vb)
	return vb.Build()
}

// RelativeToRoot expresses path relative to root when it lies inside root.
// Other paths are returned unchanged.
func RelativeToRoot(root, path string) string {
	if path == "" || root == "" {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func resolveType(types []string, typ string) string {
	if typ != "" && contains(types, typ) {
		return typ
	}
	if len(types) > 0 {
		return types[0]
	}
	return ""
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

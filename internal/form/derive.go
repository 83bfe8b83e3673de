package form

import (
	"strings"

	"github.com/KirkDiggler/agency-sheet/internal/catalog"
	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

// deriveAbilities replaces the ability selection with the projection of the
// selected anomaly category. Unknown categories leave it untouched.
func (a *Aggregator) deriveAbilities(d *agency.Draft) {
	abilities, ok := a.catalogs.Anomalies.Abilities(d.Value(agency.KeyAnomaly))
	if !ok {
		return
	}
	d.Abilities = ProjectAbilities(abilities)
}

// ProjectAbilities flattens anomaly catalog entries into ability views. The
// description doubles as the trigger text.
func ProjectAbilities(abilities []catalog.Ability) []agency.AbilityView {
	out := make([]agency.AbilityView, 0, len(abilities))
	for _, ab := range abilities {
		view := agency.AbilityView{
			Title:    ab.Title,
			Trigger:  ab.Description,
			Success:  ab.Success,
			Failure:  ab.Failure,
			Special:  ab.Specially,
			Question: ab.Question,
			Options:  make([]agency.Option, len(ab.Options)),
		}
		copy(view.Options, ab.Options)
		out = append(out, view)
	}
	return out
}

// deriveCompetency overwrites the reality trigger and overload texts from
// the selected competency.
func (a *Aggregator) deriveCompetency(d *agency.Draft) {
	comp, ok := a.catalogs.Competencies.Get(d.CompetencyName)
	if !ok {
		return
	}
	triggers, overloads := CompetencyTexts(comp)
	d.SetValue(agency.KeyRealityTriggers, triggers)
	d.SetValue(agency.KeyOverloadRelease, overloads)
}

// CompetencyTexts joins the present parts of each trigger and overload with
// newlines, and the items with blank lines.
func CompetencyTexts(comp catalog.Competency) (triggers, overloads string) {
	parts := make([]string, 0, len(comp.Triggers))
	for _, t := range comp.Triggers {
		if block := joinPresent(t.Title, t.Description, t.Mechanics); block != "" {
			parts = append(parts, block)
		}
	}
	triggers = strings.Join(parts, "\n\n")

	parts = parts[:0]
	for _, o := range comp.Overloads {
		if block := joinPresent(o.Title, o.Description); block != "" {
			parts = append(parts, block)
		}
	}
	overloads = strings.Join(parts, "\n\n")
	return triggers, overloads
}

func joinPresent(values ...string) string {
	lines := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			lines = append(lines, v)
		}
	}
	return strings.Join(lines, "\n")
}

// deriveRole fills the prime directive and the permitted action slots from
// the selected role. Slots past the role's list are cleared.
func (a *Aggregator) deriveRole(d *agency.Draft) {
	role, ok := a.catalogs.Roles.Get(d.Value(agency.KeyRole))
	if !ok {
		return
	}
	directive, actions := RoleTexts(role)
	d.SetValue(agency.KeyPrimeDirective, directive)
	for i, action := range actions {
		d.SetValue(agency.PermittedActionKey(i), action)
	}
}

// RoleTexts returns "MAIN：description" (either half alone when the other is
// empty) and the four permitted action slots.
func RoleTexts(role catalog.Role) (string, [agency.PermittedActionCount]string) {
	var directive string
	switch {
	case role.Main != "" && role.MainDescription != "":
		directive = role.Main + "：" + role.MainDescription
	case role.Main != "":
		directive = role.Main
	default:
		directive = role.MainDescription
	}

	var actions [agency.PermittedActionCount]string
	for i := range actions {
		if i < len(role.PermittedActions) {
			actions[i] = role.PermittedActions[i]
		}
	}
	return directive, actions
}

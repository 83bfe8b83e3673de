package catalog

import (
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

func parseObject(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.InvalidArgument("catalog is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, errors.InvalidArgument("catalog root must be an object")
	}
	return root, nil
}

// arrayOf returns the elements of r, or nil when r is not an array.
func arrayOf(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

// nonEmptyString returns the value when it is a non-empty JSON string.
func nonEmptyString(r gjson.Result) (string, bool) {
	if r.Type != gjson.String || r.Str == "" {
		return "", false
	}
	return r.Str, true
}

// truthy mirrors how a loosely typed catalog marks a present value: empty
// strings, zero, false and null are absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}

// ParseAnomalies parses an anomaly catalog. Only keys holding an array are
// categories; non-object entries and options are skipped.
func ParseAnomalies(data []byte) (*Anomalies, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, err
	}

	out := &Anomalies{entries: map[string][]Ability{}}
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		name := key.String()
		abilities := make([]Ability, 0)
		for _, item := range value.Array() {
			if !item.IsObject() {
				continue
			}
			ability := Ability{
				Title:       item.Get("title").String(),
				Description: item.Get("description").String(),
				Success:     item.Get("outcomes.success").String(),
				Failure:     item.Get("outcomes.failure").String(),
				Specially:   item.Get("outcomes.specially").String(),
				Question:    item.Get("interactions.question").String(),
				Options:     make([]agency.Option, 0),
			}
			for _, opt := range arrayOf(item.Get("interactions.options")) {
				if !opt.IsObject() {
					continue
				}
				ability.Options = append(ability.Options, agency.Option{
					Answer: opt.Get("answer").String(),
					Code:   opt.Get("code").String(),
				})
			}
			abilities = append(abilities, ability)
		}
		if _, seen := out.entries[name]; !seen {
			out.names = append(out.names, name)
		}
		out.entries[name] = abilities
		return true
	})

	return out, nil
}

// ParseCompetencies parses a competency catalog. Every object-valued key is
// retrievable; only those with types are offered as names.
func ParseCompetencies(data []byte) (*Competencies, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, err
	}

	out := &Competencies{entries: map[string]Competency{}}
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		comp := Competency{Name: key.String()}

		for _, item := range arrayOf(value.Get("现实触发器")) {
			if !item.IsObject() {
				continue
			}
			var t Trigger
			t.Title, _ = nonEmptyString(item.Get("title"))
			t.Description, _ = nonEmptyString(item.Get("description"))
			t.Mechanics, _ = nonEmptyString(item.Get("mechanics"))
			comp.Triggers = append(comp.Triggers, t)
		}

		for _, item := range arrayOf(value.Get("过载解除")) {
			if !item.IsObject() {
				continue
			}
			var o Overload
			o.Title, _ = nonEmptyString(item.Get("title"))
			o.Description, _ = nonEmptyString(item.Get("description"))
			comp.Overloads = append(comp.Overloads, o)
		}

		for _, t := range arrayOf(value.Get("类型")) {
			if truthy(t) {
				comp.Types = append(comp.Types, t.String())
			}
		}

		if _, seen := out.entries[comp.Name]; !seen {
			out.names = append(out.names, comp.Name)
		}
		out.entries[comp.Name] = comp
		return true
	})

	return out, nil
}

// ParseRoles parses a role catalog. A role is a key whose value is a
// non-empty array starting with an object.
func ParseRoles(data []byte) (*Roles, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, err
	}

	out := &Roles{entries: map[string]Role{}}
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		items := value.Array()
		if len(items) == 0 || !items[0].IsObject() {
			return true
		}
		first := items[0]
		role := Role{Name: key.String()}
		if main := first.Get("MAIN"); truthy(main) {
			role.Main = main.String()
		}
		if desc := first.Get("MAIN_description"); truthy(desc) {
			role.MainDescription = desc.String()
		}
		for _, action := range arrayOf(first.Get("permitted_actions.list")) {
			if s, ok := nonEmptyString(action); ok {
				role.PermittedActions = append(role.PermittedActions, s)
			}
		}

		if _, seen := out.entries[role.Name]; !seen {
			out.names = append(out.names, role.Name)
		}
		out.entries[role.Name] = role
		return true
	})

	return out, nil
}

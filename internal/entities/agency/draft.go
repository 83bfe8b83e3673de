package agency

// Draft is the editing-session state of a character sheet: the raw value of
// every form field plus the ability selection derived from the anomaly.
type Draft struct {
	ID string `json:"id"`

	// Values holds entry, text, selection and stat fields keyed by record key.
	Values map[string]string `json:"values"`

	// CompetencyName and CompetencyType are the two halves of the 现实 field.
	CompetencyName string `json:"competency_name"`
	CompetencyType string `json:"competency_type"`

	ImagePath string `json:"image_path,omitempty"`

	// Abilities is the current selection derived from the anomaly catalog.
	Abilities []AbilityView `json:"abilities"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// Value returns the raw value of a form field.
func (d *Draft) Value(key string) string {
	if d.Values == nil {
		return ""
	}
	return d.Values[key]
}

// SetValue stores the raw value of a form field.
func (d *Draft) SetValue(key, value string) {
	if d.Values == nil {
		d.Values = make(map[string]string)
	}
	d.Values[key] = value
}

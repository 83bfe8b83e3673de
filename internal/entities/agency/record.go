// Package agency holds the character sheet entities shared by the form,
// renderer and storage layers.
package agency

// Option is one answer/code row of an ability's interaction question.
type Option struct {
	Answer string `json:"answer"`
	Code   string `json:"code"`
}

// AbilityView is the render-ready projection of an anomaly catalog ability,
// annotated with the stat the player rolls for it.
type AbilityView struct {
	Title    string   `json:"title"`
	Trigger  string   `json:"trigger"`
	Success  string   `json:"success"`
	Failure  string   `json:"failure"`
	Special  string   `json:"special"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
	Stat     string   `json:"stat,omitempty"`
}

// Clone returns a deep copy of the ability.
func (a AbilityView) Clone() AbilityView {
	out := a
	out.Options = make([]Option, len(a.Options))
	copy(out.Options, a.Options)
	return out
}

// StatLabel returns the assigned stat or the generic label when none is set.
func (a AbilityView) StatLabel() string {
	if a.Stat == "" {
		return DefaultStatLabel
	}
	return a.Stat
}

// Record is the persisted character document. Field order is the order of
// keys in the saved JSON; blank fields are omitted.
type Record struct {
	ImagePath   string `json:"图片路径,omitempty"`
	Name        string `json:"姓名,omitempty"`
	Pronoun     string `json:"人称代词,omitempty"`
	AgencyTitle string `json:"机构头衔,omitempty"`
	AgencyRank  string `json:"机构评级,omitempty"`
	Anomaly     string `json:"异常体,omitempty"`
	Reality     string `json:"现实,omitempty"`
	Role        string `json:"职能,omitempty"`

	FocusMax       string `json:"专注MAX,omitempty"`
	DeceptionMax   string `json:"欺瞒MAX,omitempty"`
	VitalityMax    string `json:"活力MAX,omitempty"`
	EmpathyMax     string `json:"共情MAX,omitempty"`
	InitiativeMax  string `json:"主动MAX,omitempty"`
	PersistenceMax string `json:"坚毅MAX,omitempty"`
	PresenceMax    string `json:"气场MAX,omitempty"`
	ExpertiseMax   string `json:"专业MAX,omitempty"`
	MysteryMax     string `json:"诡秘MAX,omitempty"`

	Appearance  string `json:"问题0A,omitempty"`
	Personality string `json:"问题0B,omitempty"`

	RealityTriggers string `json:"现实触发器,omitempty"`
	OverloadRelease string `json:"过载解除,omitempty"`
	PrimeDirective  string `json:"首要指令,omitempty"`

	PermittedAction1 string `json:"许可行为1,omitempty"`
	PermittedAction2 string `json:"许可行为2,omitempty"`
	PermittedAction3 string `json:"许可行为3,omitempty"`
	PermittedAction4 string `json:"许可行为4,omitempty"`

	Question1 string `json:"问题1,omitempty"`
	Question2 string `json:"问题2,omitempty"`
	Question3 string `json:"问题3,omitempty"`
	Question4 string `json:"问题4,omitempty"`
	Question5 string `json:"问题5,omitempty"`
	Question6 string `json:"问题6,omitempty"`
	Question7 string `json:"问题7,omitempty"`
	Notes     string `json:"补充说明,omitempty"`

	AbilityStat1 string `json:"能力1资质,omitempty"`
	AbilityStat2 string `json:"能力2资质,omitempty"`
	AbilityStat3 string `json:"能力3资质,omitempty"`

	Abilities []AbilityView `json:"abilities,omitempty"`
}

var recordFields = map[string]func(*Record) *string{
	KeyImagePath:        func(r *Record) *string { return &r.ImagePath },
	KeyName:             func(r *Record) *string { return &r.Name },
	KeyPronoun:          func(r *Record) *string { return &r.Pronoun },
	KeyAgencyTitle:      func(r *Record) *string { return &r.AgencyTitle },
	KeyAgencyRank:       func(r *Record) *string { return &r.AgencyRank },
	KeyAnomaly:          func(r *Record) *string { return &r.Anomaly },
	KeyReality:          func(r *Record) *string { return &r.Reality },
	KeyRole:             func(r *Record) *string { return &r.Role },
	KeyFocusMax:         func(r *Record) *string { return &r.FocusMax },
	KeyDeceptionMax:     func(r *Record) *string { return &r.DeceptionMax },
	KeyVitalityMax:      func(r *Record) *string { return &r.VitalityMax },
	KeyEmpathyMax:       func(r *Record) *string { return &r.EmpathyMax },
	KeyInitiativeMax:    func(r *Record) *string { return &r.InitiativeMax },
	KeyPersistenceMax:   func(r *Record) *string { return &r.PersistenceMax },
	KeyPresenceMax:      func(r *Record) *string { return &r.PresenceMax },
	KeyExpertiseMax:     func(r *Record) *string { return &r.ExpertiseMax },
	KeyMysteryMax:       func(r *Record) *string { return &r.MysteryMax },
	KeyAppearance:       func(r *Record) *string { return &r.Appearance },
	KeyPersonality:      func(r *Record) *string { return &r.Personality },
	KeyRealityTriggers:  func(r *Record) *string { return &r.RealityTriggers },
	KeyOverloadRelease:  func(r *Record) *string { return &r.OverloadRelease },
	KeyPrimeDirective:   func(r *Record) *string { return &r.PrimeDirective },
	KeyPermittedAction1: func(r *Record) *string { return &r.PermittedAction1 },
	KeyPermittedAction2: func(r *Record) *string { return &r.PermittedAction2 },
	KeyPermittedAction3: func(r *Record) *string { return &r.PermittedAction3 },
	KeyPermittedAction4: func(r *Record) *string { return &r.PermittedAction4 },
	KeyQuestion1:        func(r *Record) *string { return &r.Question1 },
	KeyQuestion2:        func(r *Record) *string { return &r.Question2 },
	KeyQuestion3:        func(r *Record) *string { return &r.Question3 },
	KeyQuestion4:        func(r *Record) *string { return &r.Question4 },
	KeyQuestion5:        func(r *Record) *string { return &r.Question5 },
	KeyQuestion6:        func(r *Record) *string { return &r.Question6 },
	KeyQuestion7:        func(r *Record) *string { return &r.Question7 },
	KeyNotes:            func(r *Record) *string { return &r.Notes },
	KeyAbilityStat1:     func(r *Record) *string { return &r.AbilityStat1 },
	KeyAbilityStat2:     func(r *Record) *string { return &r.AbilityStat2 },
	KeyAbilityStat3:     func(r *Record) *string { return &r.AbilityStat3 },
}

// Get returns the value stored under key, or "" for unknown keys.
func (r *Record) Get(key string) string {
	ref, ok := recordFields[key]
	if !ok {
		return ""
	}
	return *ref(r)
}

// Set stores value under key. It reports false for keys outside the record
// vocabulary.
func (r *Record) Set(key, value string) bool {
	ref, ok := recordFields[key]
	if !ok {
		return false
	}
	*ref(r) = value
	return true
}

// HasField reports whether key is a scalar field of the record.
func HasField(key string) bool {
	_, ok := recordFields[key]
	return ok
}

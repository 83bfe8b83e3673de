// Package form turns editable sheet state into character records and back.
//
// Every sheet field is described by a Field whose Kind decides how it is read
// from and written to a draft. Selection fields carry a derivation hook that
// fills dependent fields from the reference catalogs.
package form

import (
	"strings"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

// Kind tags how a field is edited and stored.
type Kind int

const (
	// KindEntry is a single-line text field.
	KindEntry Kind = iota
	// KindText is a multi-line text field.
	KindText
	// KindSelection is a catalog selection that derives other fields.
	KindSelection
	// KindComposite is the two-part competency selection stored as "name-type".
	KindComposite
	// KindStatSelect is a choice among the nine stat names.
	KindStatSelect
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindText:
		return "text"
	case KindSelection:
		return "selection"
	case KindComposite:
		return "composite"
	case KindStatSelect:
		return "stat"
	default:
		return "unknown"
	}
}

// Page identifies the sheet tab a field is shown on.
type Page int

const (
	PageBasics Page = iota
	PageDetails
)

// Field describes one form field.
type Field struct {
	Key   string
	Label string
	Kind  Kind
	Page  Page

	// derive runs after the field changes in edit mode.
	derive func(a *Aggregator, d *agency.Draft)
}

// Fields lists every form field in sheet order. The order is also the key
// order of a gathered record.
var Fields = []Field{
	{Key: agency.KeyName, Label: "姓名", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyPronoun, Label: "人称代词", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyAgencyTitle, Label: "机构头衔", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyAgencyRank, Label: "机构评级", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyAnomaly, Label: "异常体", Kind: KindSelection, Page: PageBasics, derive: (*Aggregator).deriveAbilities},
	{Key: agency.KeyReality, Label: "现实", Kind: KindComposite, Page: PageBasics, derive: (*Aggregator).deriveCompetency},
	{Key: agency.KeyRole, Label: "职能", Kind: KindSelection, Page: PageBasics, derive: (*Aggregator).deriveRole},
	{Key: agency.KeyFocusMax, Label: "专注MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyDeceptionMax, Label: "欺瞒MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyVitalityMax, Label: "活力MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyEmpathyMax, Label: "共情MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyInitiativeMax, Label: "主动MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyPersistenceMax, Label: "坚毅MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyPresenceMax, Label: "气场MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyExpertiseMax, Label: "专业MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyMysteryMax, Label: "诡秘MAX", Kind: KindEntry, Page: PageBasics},
	{Key: agency.KeyAppearance, Label: "0.A 描述你的外貌", Kind: KindText, Page: PageBasics},
	{Key: agency.KeyPersonality, Label: "0.B 描述你的性格", Kind: KindText, Page: PageBasics},

	{Key: agency.KeyRealityTriggers, Label: "现实触发器", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyOverloadRelease, Label: "过载解除", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyPrimeDirective, Label: "首要指令", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyPermittedAction1, Label: "许可行为1", Kind: KindEntry, Page: PageDetails},
	{Key: agency.KeyPermittedAction2, Label: "许可行为2", Kind: KindEntry, Page: PageDetails},
	{Key: agency.KeyPermittedAction3, Label: "许可行为3", Kind: KindEntry, Page: PageDetails},
	{Key: agency.KeyPermittedAction4, Label: "许可行为4", Kind: KindEntry, Page: PageDetails},
	{Key: agency.KeyQuestion1, Label: "1 你是如何与你的异常体接触的？", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyQuestion2, Label: "2 机构是如何找到你的？", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyQuestion3, Label: "3 你的能力有独特的外在视觉表现吗？", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyQuestion4, Label: "4 你喝咖啡有什么偏好？", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyQuestion5, Label: "5 请描述你过往的工作经历。", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyQuestion6, Label: "6 你对办公套件的熟悉程度？", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyQuestion7, Label: "7 协作中你能做出什么贡献？", Kind: KindText, Page: PageDetails},
	{Key: agency.KeyNotes, Label: "补充说明", Kind: KindText, Page: PageDetails},

	{Key: agency.KeyAbilityStat1, Label: "能力1资质", Kind: KindStatSelect, Page: PageBasics},
	{Key: agency.KeyAbilityStat2, Label: "能力2资质", Kind: KindStatSelect, Page: PageBasics},
	{Key: agency.KeyAbilityStat3, Label: "能力3资质", Kind: KindStatSelect, Page: PageBasics},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(Fields))
	for i, f := range Fields {
		idx[f.Key] = i
	}
	return idx
}()

// Lookup returns the field registered under key.
func Lookup(key string) (Field, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// read returns the raw draft value of the field.
func (f Field) read(d *agency.Draft) string {
	if f.Kind == KindComposite {
		return compositeValue(d.CompetencyName, d.CompetencyType)
	}
	return d.Value(f.Key)
}

// compositeValue joins the competency halves; it is empty unless both are set.
func compositeValue(name, typ string) string {
	name = strings.TrimSpace(name)
	typ = strings.TrimSpace(typ)
	if name == "" || typ == "" {
		return ""
	}
	return name + "-" + typ
}

// splitComposite splits a stored competency on the first separator. A value
// without separator is all name.
func splitComposite(value string) (name, typ string) {
	name, typ, found := strings.Cut(value, "-")
	if !found {
		return value, ""
	}
	return name, typ
}

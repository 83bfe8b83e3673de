package agency

// Record field keys. These are the JSON keys of a saved character and the
// placeholder names used by the sheet template.
const (
	KeyImagePath   = "图片路径"
	KeyName        = "姓名"
	KeyPronoun     = "人称代词"
	KeyAgencyTitle = "机构头衔"
	KeyAgencyRank  = "机构评级"
	KeyAnomaly     = "异常体"
	KeyReality     = "现实"
	KeyRole        = "职能"

	KeyFocusMax       = "专注MAX"
	KeyDeceptionMax   = "欺瞒MAX"
	KeyVitalityMax    = "活力MAX"
	KeyEmpathyMax     = "共情MAX"
	KeyInitiativeMax  = "主动MAX"
	KeyPersistenceMax = "坚毅MAX"
	KeyPresenceMax    = "气场MAX"
	KeyExpertiseMax   = "专业MAX"
	KeyMysteryMax     = "诡秘MAX"

	KeyAppearance  = "问题0A"
	KeyPersonality = "问题0B"

	KeyRealityTriggers = "现实触发器"
	KeyOverloadRelease = "过载解除"
	KeyPrimeDirective  = "首要指令"

	KeyPermittedAction1 = "许可行为1"
	KeyPermittedAction2 = "许可行为2"
	KeyPermittedAction3 = "许可行为3"
	KeyPermittedAction4 = "许可行为4"

	KeyQuestion1 = "问题1"
	KeyQuestion2 = "问题2"
	KeyQuestion3 = "问题3"
	KeyQuestion4 = "问题4"
	KeyQuestion5 = "问题5"
	KeyQuestion6 = "问题6"
	KeyQuestion7 = "问题7"
	KeyNotes     = "补充说明"

	KeyAbilityStat1 = "能力1资质"
	KeyAbilityStat2 = "能力2资质"
	KeyAbilityStat3 = "能力3资质"

	KeyAbilities = "abilities"
)

// MaxAbilities is the number of ability cards a sheet holds.
const MaxAbilities = 3

// PermittedActionCount is the number of permitted action slots on a sheet.
const PermittedActionCount = 4

// DefaultStatLabel is printed on an ability card that has no assigned stat.
const DefaultStatLabel = "资质"

// StatNames lists the nine stats in sheet order.
var StatNames = []string{"专注", "欺瞒", "活力", "共情", "主动", "坚毅", "气场", "专业", "诡秘"}

// StatMaxKeys lists the stat maximum fields in sheet order.
var StatMaxKeys = []string{
	KeyFocusMax,
	KeyDeceptionMax,
	KeyVitalityMax,
	KeyEmpathyMax,
	KeyInitiativeMax,
	KeyPersistenceMax,
	KeyPresenceMax,
	KeyExpertiseMax,
	KeyMysteryMax,
}

// PermittedActionKey returns the key of the i-th (0-based) permitted action slot.
func PermittedActionKey(i int) string {
	return [...]string{KeyPermittedAction1, KeyPermittedAction2, KeyPermittedAction3, KeyPermittedAction4}[i]
}

// AbilityStatKey returns the key of the stat selection for the i-th (0-based) ability.
func AbilityStatKey(i int) string {
	return [...]string{KeyAbilityStat1, KeyAbilityStat2, KeyAbilityStat3}[i]
}

// IsStatName reports whether name is one of the nine stats.
func IsStatName(name string) bool {
	for _, s := range StatNames {
		if s == name {
			return true
		}
	}
	return false
}

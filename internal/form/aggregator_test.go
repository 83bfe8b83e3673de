package form_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/form"
	"github.com/KirkDiggler/agency-sheet/internal/testutils"
)

type AggregatorTestSuite struct {
	suite.Suite
	agg *form.Aggregator
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorTestSuite))
}

func (s *AggregatorTestSuite) SetupTest() {
	s.agg = form.NewAggregator(testutils.LoadCatalogs(s.T()))
}

func (s *AggregatorTestSuite) TestNewDraftUsesFirstCatalogEntries() {
	d := s.agg.NewDraft()

	s.Equal("低语", d.Value(agency.KeyAnomaly))
	s.Len(d.Abilities, 4)
	s.Equal("Ghost", d.CompetencyName)
	s.Equal("Stealth", d.CompetencyType)
	s.Equal("潜入\n进入禁区\n掷诡秘\n\n隐没", d.Value(agency.KeyRealityTriggers))
	s.Equal("显形\n被人看见", d.Value(agency.KeyOverloadRelease))
	s.Equal("Agent", d.Value(agency.KeyRole))
	s.Equal("0", d.Value(agency.KeyFocusMax))
	s.Equal("专注", d.Value(agency.KeyAbilityStat3))
}

func (s *AggregatorTestSuite) TestNewDraftWithoutCatalogs() {
	d := form.NewAggregator(nil).NewDraft()

	s.Empty(d.Abilities)
	s.Equal("", d.Value(agency.KeyAnomaly))
	s.Equal("", d.CompetencyName)

	rec := form.NewAggregator(nil).Gather(d)
	s.Empty(rec.Reality)
	s.Nil(rec.Abilities)
}

func (s *AggregatorTestSuite) TestGatherCapsAbilitiesAndAssignsStats() {
	d := s.agg.NewDraft()
	s.Require().NoError(s.agg.Set(d, agency.KeyAbilityStat2, "气场", form.ModeEdit))

	rec := s.agg.Gather(d)

	s.Require().Len(rec.Abilities, agency.MaxAbilities)
	s.Equal("听见", rec.Abilities[0].Title)
	s.Equal("你听见了不该听见的声音，掷专注。", rec.Abilities[0].Trigger)
	s.Equal("专注", rec.Abilities[0].Stat)
	s.Equal("气场", rec.Abilities[1].Stat)
	s.Equal("静默", rec.Abilities[2].Title)
	s.Len(d.Abilities, 4, "gather must not truncate the draft selection")
	s.Equal("", d.Abilities[0].Stat, "gather must not mutate the draft selection")
}

func (s *AggregatorTestSuite) TestGatherLeavesStatUnsetWithoutSelection() {
	d := s.agg.NewDraft()
	s.Require().NoError(s.agg.Set(d, agency.KeyAbilityStat1, "", form.ModeEdit))

	rec := s.agg.Gather(d)
	s.Equal("", rec.Abilities[0].Stat)
	s.Equal(agency.DefaultStatLabel, rec.Abilities[0].StatLabel())
}

func (s *AggregatorTestSuite) TestGatherTrimsAndOmitsBlanks() {
	d := s.agg.NewDraft()
	s.Require().NoError(s.agg.Set(d, agency.KeyName, "  林默  ", form.ModeEdit))
	s.Require().NoError(s.agg.Set(d, agency.KeyPronoun, "   ", form.ModeEdit))
	s.Require().NoError(s.agg.Set(d, agency.KeyQuestion1, "\n答案\n", form.ModeEdit))

	rec := s.agg.Gather(d)
	s.Equal("林默", rec.Name)
	s.Equal("", rec.Pronoun)
	s.Equal("答案", rec.Question1)
	s.Equal("", rec.PermittedAction3)
}

func (s *AggregatorTestSuite) TestSelectCompetencyDerivesTexts() {
	d := s.agg.NewDraft()

	s.Require().NoError(s.agg.SelectCompetency(d, "A", "", form.ModeEdit))

	s.Equal("T1\nD1", d.Value(agency.KeyRealityTriggers))
	s.Equal("T2", d.Value(agency.KeyOverloadRelease))
	s.Equal("Loud", d.CompetencyType)

	s.Require().NoError(s.agg.SelectCompetency(d, "A", "Quiet", form.ModeEdit))
	s.Equal("A-Quiet", s.agg.Gather(d).Reality)
}

func (s *AggregatorTestSuite) TestSelectCompetencyRejectsUnofferedType() {
	d := s.agg.NewDraft()

	err := s.agg.SelectCompetency(d, "A", "Stealth", form.ModeEdit)
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("Ghost", d.CompetencyName, "draft must be unchanged on error")
}

func (s *AggregatorTestSuite) TestRealityComposite() {
	d := s.agg.NewDraft()
	s.Equal("Ghost-Stealth", s.agg.Gather(d).Reality)

	d.CompetencyType = ""
	s.Equal("", s.agg.Gather(d).Reality)

	s.Require().NoError(s.agg.SelectCompetency(d, "NoTypes", "", form.ModeEdit))
	s.Equal("", d.CompetencyType)
	s.Equal("", s.agg.Gather(d).Reality)
	s.Equal("X", d.Value(agency.KeyRealityTriggers))
}

func (s *AggregatorTestSuite) TestSelectRoleFillsDirectiveAndActions() {
	d := s.agg.NewDraft()
	s.agg.SelectRole(d, "Clerk", form.ModeEdit)
	s.agg.SelectRole(d, "Agent", form.ModeEdit)

	s.Equal("Obey：orders", d.Value(agency.KeyPrimeDirective))
	s.Equal("run", d.Value(agency.KeyPermittedAction1))
	s.Equal("hide", d.Value(agency.KeyPermittedAction2))
	s.Equal("", d.Value(agency.KeyPermittedAction3))
	s.Equal("", d.Value(agency.KeyPermittedAction4))
}

func (s *AggregatorTestSuite) TestSelectRoleWithoutDescription() {
	d := s.agg.NewDraft()
	s.agg.SelectRole(d, "Clerk", form.ModeEdit)

	s.Equal("File", d.Value(agency.KeyPrimeDirective))
	s.Equal("stamp", d.Value(agency.KeyPermittedAction1))
	s.Equal("shred", d.Value(agency.KeyPermittedAction4))
}

func (s *AggregatorTestSuite) TestSelectUnknownEntriesKeepDerivedData() {
	d := s.agg.NewDraft()

	s.agg.SelectAnomaly(d, "不存在", form.ModeEdit)
	s.Len(d.Abilities, 4)
	s.Equal("不存在", d.Value(agency.KeyAnomaly))

	s.agg.SelectRole(d, "Nobody", form.ModeEdit)
	s.Equal("Obey：orders", d.Value(agency.KeyPrimeDirective))
}

func (s *AggregatorTestSuite) TestSelectAnomalyReplacesSelection() {
	d := s.agg.NewDraft()

	abilities := s.agg.SelectAnomaly(d, "缺位", form.ModeEdit)

	s.Require().Len(abilities, 1)
	s.Equal("不在场", abilities[0].Title)
	s.Equal("特殊", abilities[0].Special)
	s.Equal([]agency.Option{{Answer: "这里", Code: "B1"}}, abilities[0].Options)
}

func (s *AggregatorTestSuite) TestSet() {
	d := s.agg.NewDraft()

	s.Require().NoError(s.agg.Set(d, agency.KeyAnomaly, "缺位", form.ModeEdit))
	s.Len(d.Abilities, 1)

	s.Require().NoError(s.agg.Set(d, agency.KeyReality, "A-Quiet", form.ModeEdit))
	s.Equal("A", d.CompetencyName)
	s.Equal("Quiet", d.CompetencyType)

	s.Require().NoError(s.agg.Set(d, agency.KeyImagePath, "img/me.png", form.ModeEdit))
	s.Equal("img/me.png", d.ImagePath)

	err := s.agg.Set(d, "力量", "1", form.ModeEdit)
	s.True(errors.IsInvalidArgument(err))

	err = s.agg.Set(d, agency.KeyAbilityStat1, "力量", form.ModeEdit)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("专注", d.Value(agency.KeyAbilityStat1))
}

func (s *AggregatorTestSuite) TestRoundTrip() {
	d := s.agg.NewDraft()
	for key, value := range map[string]string{
		agency.KeyName:         "林默",
		agency.KeyAgencyRank:   "B",
		agency.KeyAnomaly:      "缺位",
		agency.KeyRole:         "Clerk",
		agency.KeyReality:      "A-Quiet",
		agency.KeyNotes:        "多行\n说明",
		agency.KeyAbilityStat1: "诡秘",
	} {
		s.Require().NoError(s.agg.Set(d, key, value, form.ModeEdit))
	}
	s.agg.SetImage(d, "portraits/me.gif", "")

	rec := s.agg.Gather(d)

	loaded := s.agg.NewDraft()
	s.agg.Apply(loaded, rec, form.ModeLoad)

	s.Equal(rec, s.agg.Gather(loaded))
}

func (s *AggregatorTestSuite) TestApplyLoadSuppressesDerivation() {
	d := s.agg.NewDraft()
	rec := agency.Record{
		Name:           "林默",
		Anomaly:        "缺位",
		Role:           "Clerk",
		PrimeDirective: "我自己的指令",
	}

	s.agg.Apply(d, rec, form.ModeLoad)

	s.Equal("缺位", d.Value(agency.KeyAnomaly))
	s.Empty(d.Abilities, "abilities come from the record, not the catalog")
	s.Equal("我自己的指令", d.Value(agency.KeyPrimeDirective))
	s.Equal("", d.Value(agency.KeyPermittedAction1), "role derivation must not run")
	s.Equal("", d.Value(agency.KeyRealityTriggers))
}

func (s *AggregatorTestSuite) TestApplyEditDerives() {
	d := s.agg.NewDraft()

	s.agg.Apply(d, agency.Record{Anomaly: "缺位", Role: "Clerk"}, form.ModeEdit)

	s.Len(d.Abilities, 1)
	s.Equal("stamp", d.Value(agency.KeyPermittedAction1))
}

func (s *AggregatorTestSuite) TestApplySplitsReality() {
	testCases := []struct {
		name     string
		value    string
		wantName string
		wantType string
	}{
		{"name and type", "A-Quiet", "A", "Quiet"},
		{"no separator uses first type", "A", "A", "Loud"},
		{"unknown type falls back", "A-Bogus", "A", "Loud"},
		{"missing keeps default", "", "Ghost", "Stealth"},
		{"split on first separator", "Solo-Type-B", "Solo", ""},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			d := s.agg.NewDraft()
			s.agg.Apply(d, agency.Record{Reality: tc.value}, form.ModeLoad)
			s.Equal(tc.wantName, d.CompetencyName)
			s.Equal(tc.wantType, d.CompetencyType)
		})
	}
}

func (s *AggregatorTestSuite) TestApplyMissingKeysKeepDefaults() {
	d := s.agg.NewDraft()
	s.agg.Apply(d, agency.Record{Name: "林默"}, form.ModeLoad)

	s.Equal("0", d.Value(agency.KeyFocusMax))
	s.Equal("低语", d.Value(agency.KeyAnomaly))
	s.Equal("Agent", d.Value(agency.KeyRole))
}

func (s *AggregatorTestSuite) TestApplyLoadReplacesPreviousCharacter() {
	d := s.agg.NewDraft()
	for key, value := range map[string]string{
		agency.KeyName:         "Alice",
		agency.KeyQuestion1:    "Alice's backstory",
		agency.KeyFocusMax:     "7",
		agency.KeyRole:         "Clerk",
		agency.KeyReality:      "A-Quiet",
		agency.KeyAbilityStat2: "气场",
	} {
		s.Require().NoError(s.agg.Set(d, key, value, form.ModeEdit))
	}
	s.agg.SetImage(d, "alice.png", "")
	d.ID = "draft_1"
	d.CreatedAt = 1_700_000_000

	s.agg.Apply(d, agency.Record{Name: "Bob", Anomaly: "缺位"}, form.ModeLoad)

	s.Equal("draft_1", d.ID)
	s.Equal(int64(1_700_000_000), d.CreatedAt)
	s.Equal("", d.ImagePath)

	rec := s.agg.Gather(d)
	s.Equal("Bob", rec.Name)
	s.Equal("缺位", rec.Anomaly)
	s.Empty(rec.Question1)
	s.Equal("0", rec.FocusMax)
	s.Equal("Agent", rec.Role)
	s.Empty(rec.PermittedAction1)
	s.Empty(rec.RealityTriggers)
	s.Equal("Ghost-Stealth", rec.Reality)
	s.Equal("专注", rec.AbilityStat2)
}

func (s *AggregatorTestSuite) TestApplyIgnoresUnknownStatNames() {
	ability := agency.AbilityView{Title: "不在场", Stat: "力量", Options: []agency.Option{}}
	rec := agency.Record{
		Name:         "林默",
		Anomaly:      "缺位",
		AbilityStat1: "力量",
		AbilityStat2: "气场",
		Abilities:    []agency.AbilityView{ability, ability},
	}

	d := s.agg.NewDraft()
	s.agg.Apply(d, rec, form.ModeLoad)

	s.Equal("专注", d.Value(agency.KeyAbilityStat1))
	s.Equal("气场", d.Value(agency.KeyAbilityStat2))

	gathered := s.agg.Gather(d)
	s.Require().Len(gathered.Abilities, 2)
	for _, a := range gathered.Abilities {
		s.True(agency.IsStatName(a.Stat), a.Stat)
	}
}

func (s *AggregatorTestSuite) TestValidate() {
	rec := testutils.CreateTestRecord()
	s.NoError(form.Validate(rec))

	rec.Name = ""
	err := form.Validate(rec)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), agency.KeyName)

	rec = testutils.CreateTestRecord()
	rec.Anomaly = " "
	s.Contains(form.Validate(rec).Error(), agency.KeyAnomaly)
}

func (s *AggregatorTestSuite) TestRelativeToRoot() {
	root := s.T().TempDir()

	s.Equal(filepath.Join("img", "a.png"), form.RelativeToRoot(root, filepath.Join(root, "img", "a.png")))
	s.Equal("/elsewhere/a.png", form.RelativeToRoot(root, "/elsewhere/a.png"))
	s.Equal(root+"2/a.png", form.RelativeToRoot(root, root+"2/a.png"))
	s.Equal("", form.RelativeToRoot(root, ""))
}

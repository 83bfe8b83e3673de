package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-sheet/internal/catalog"
	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/testutils"
)

type CatalogTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *CatalogTestSuite) TestParseAnomaliesKeepsDocumentOrder() {
	anomalies, err := catalog.ParseAnomalies([]byte(testutils.AnomalyCatalogJSON))
	s.Require().NoError(err)

	s.Equal([]string{"低语", "缺位"}, anomalies.Names())

	abilities, ok := anomalies.Abilities("低语")
	s.Require().True(ok)
	s.Len(abilities, 4)
	s.Equal("听见", abilities[0].Title)
	s.Equal("再听一次", abilities[0].Specially)
	s.Equal([]agency.Option{{Answer: "同事", Code: "A1"}, {Answer: "自己", Code: "A2"}}, abilities[0].Options)

	s.Equal("", abilities[2].Success)
	s.Equal("", abilities[2].Question)
	s.Empty(abilities[2].Options)

	_, ok = anomalies.Abilities("meta")
	s.False(ok)
}

func (s *CatalogTestSuite) TestParseCompetencies() {
	comps, err := catalog.ParseCompetencies([]byte(testutils.CompetencyCatalogJSON))
	s.Require().NoError(err)

	s.Equal([]string{"Ghost", "A"}, comps.Names())
	s.Equal([]string{"Stealth"}, comps.Types("Ghost"))
	s.Empty(comps.Types("missing"))

	ghost, ok := comps.Get("Ghost")
	s.Require().True(ok)
	s.Equal([]catalog.Trigger{
		{Title: "潜入", Description: "进入禁区", Mechanics: "掷诡秘"},
		{Title: "隐没"},
	}, ghost.Triggers)

	noTypes, ok := comps.Get("NoTypes")
	s.True(ok, "competencies without types are still retrievable")
	s.Empty(noTypes.Types)
}

func (s *CatalogTestSuite) TestParseRoles() {
	roles, err := catalog.ParseRoles([]byte(testutils.RoleCatalogJSON))
	s.Require().NoError(err)

	s.Equal([]string{"Agent", "Clerk"}, roles.Names())

	clerk, ok := roles.Get("Clerk")
	s.Require().True(ok)
	s.Equal("File", clerk.Main)
	s.Equal("", clerk.MainDescription)
	s.Equal([]string{"stamp", "sort", "copy", "shred", "archive"}, clerk.PermittedActions)
}

func (s *CatalogTestSuite) TestParseRejectsNonObjects() {
	_, err := catalog.ParseAnomalies([]byte(`[1, 2]`))
	s.Error(err)

	_, err = catalog.ParseRoles([]byte(`{not json`))
	s.Error(err)
}

func (s *CatalogTestSuite) TestLoad() {
	dir := s.T().TempDir()
	paths := testutils.WriteCatalogs(s.T(), dir)

	catalogs := catalog.Load(s.ctx, paths)
	s.Equal([]string{"低语", "缺位"}, catalogs.Anomalies.Names())
	s.Equal([]string{"Ghost", "A"}, catalogs.Competencies.Names())
	s.Equal([]string{"Agent", "Clerk"}, catalogs.Roles.Names())
}

func (s *CatalogTestSuite) TestLoadToleratesMissingAndMalformedFiles() {
	dir := s.T().TempDir()
	broken := filepath.Join(dir, "broken.json")
	s.Require().NoError(os.WriteFile(broken, []byte(`{"oops":`), 0o600))

	catalogs := catalog.Load(s.ctx, catalog.Paths{
		Anomaly:    filepath.Join(dir, "missing.json"),
		Competency: broken,
	})

	s.Empty(catalogs.Anomalies.Names())
	s.Empty(catalogs.Competencies.Names())
	s.Empty(catalogs.Roles.Names())

	_, ok := catalogs.Roles.Get("Agent")
	s.False(ok)
}

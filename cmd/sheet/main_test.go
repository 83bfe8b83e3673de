package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
	"github.com/KirkDiggler/agency-sheet/internal/testutils"
)

type CLITestSuite struct {
	suite.Suite
	root string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) SetupTest() {
	s.root = s.T().TempDir()
	settings := filepath.Join(s.root, "ARC_setting")
	s.Require().NoError(os.MkdirAll(settings, 0o755))
	testutils.WriteCatalogs(s.T(), settings)
}

func (s *CLITestSuite) execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--root", s.root}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (s *CLITestSuite) TestDraftLifecycle() {
	out, err := s.execute("draft", "create")
	s.Require().NoError(err)

	var draft agency.Draft
	s.Require().NoError(json.Unmarshal([]byte(out), &draft))
	s.Require().NotEmpty(draft.ID)
	s.Equal("低语", draft.Value(agency.KeyAnomaly))

	out, err = s.execute("draft", "set", draft.ID, "姓名=林 默", "异常体=缺位")
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal([]byte(out), &draft))
	s.Len(draft.Abilities, 1)

	out, err = s.execute("draft", "save", draft.ID, "--skip-pdf")
	s.Require().NoError(err)

	jsonPath := filepath.Join(s.root, "output", "林_默", "林_默.json")
	htmlPath := filepath.Join(s.root, "output", "林_默", "林_默.html")
	s.Contains(out, "[OK] JSON "+jsonPath)
	s.Contains(out, "[OK] HTML "+htmlPath)
	s.Contains(out, "[--] PDF")
	s.FileExists(jsonPath)
	s.FileExists(htmlPath)

	rendered := filepath.Join(s.root, "again.html")
	out, err = s.execute("render", "--json", jsonPath, "--out", rendered)
	s.Require().NoError(err)
	s.Contains(out, "[OK] HTML "+rendered)
	s.FileExists(rendered)

	out, err = s.execute("draft", "load", jsonPath)
	s.Require().NoError(err)
	var loaded agency.Draft
	s.Require().NoError(json.Unmarshal([]byte(out), &loaded))
	s.NotEqual(draft.ID, loaded.ID)
	s.Equal("林 默", loaded.Value(agency.KeyName))

	_, err = s.execute("draft", "delete", draft.ID)
	s.Require().NoError(err)
	_, err = s.execute("draft", "get", draft.ID)
	s.True(errors.IsNotFound(err))
}

func (s *CLITestSuite) TestSaveRequiresName() {
	out, err := s.execute("draft", "create")
	s.Require().NoError(err)
	var draft agency.Draft
	s.Require().NoError(json.Unmarshal([]byte(out), &draft))

	_, err = s.execute("draft", "save", draft.ID, "--skip-pdf")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	entries, err := os.ReadDir(filepath.Join(s.root, "output"))
	s.Require().NoError(err)
	for _, e := range entries {
		s.Equal(".drafts", e.Name())
	}
}

func (s *CLITestSuite) TestCatalogList() {
	out, err := s.execute("catalog", "list", "--json")
	s.Require().NoError(err)

	var got sheet.ListCatalogsOutput
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Equal([]string{"低语", "缺位"}, got.Anomalies)
	s.Equal([]string{"Agent", "Clerk"}, got.Roles)
}

func (s *CLITestSuite) TestSetRejectsMalformedArguments() {
	_, err := s.execute("draft", "set", "draft_x", "姓名")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *CLITestSuite) TestParseUpdates() {
	updates, err := parseUpdates([]string{"姓名=a=b", "人称代词="})
	s.Require().NoError(err)
	s.Equal([]sheet.FieldUpdate{
		{Key: "姓名", Value: "a=b"},
		{Key: "人称代词", Value: ""},
	}, updates)

	_, err = parseUpdates([]string{"=x"})
	s.True(errors.IsInvalidArgument(err))
}

// Package testutils provides fixtures and helpers shared by package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/agency-sheet/internal/catalog"
	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

// AnomalyCatalogJSON has a four-ability category, a one-ability category and
// a non-category key.
const AnomalyCatalogJSON = `{
  "低语": [
    {
      "title": "听见",
      "description": "你听见了不该听见的声音，掷专注。",
      "outcomes": {"success": "获得线索", "failure": "陷入混乱", "specially": "再听一次"},
      "interactions": {
        "question": "你听见了谁？",
        "options": [
          {"answer": "同事", "code": "A1"},
          "not an option",
          {"answer": "自己", "code": "A2"}
        ]
      }
    },
    {
      "title": "回声",
      "description": "声音回荡，掷气场。",
      "outcomes": {"success": "回声成功"},
      "interactions": {"question": "", "options": []}
    },
    {"title": "静默", "description": "一切归于寂静。"},
    {"title": "第四", "description": "第四个能力。"}
  ],
  "缺位": [
    {
      "title": "不在场",
      "description": "他们似乎永远不知道你在哪里，掷欺瞒。",
      "outcomes": {"success": "成功", "failure": "失败", "specially": "特殊"},
      "interactions": {"question": "你在哪里？", "options": [{"answer": "这里", "code": "B1"}]}
    }
  ],
  "meta": {"version": 2}
}`

// CompetencyCatalogJSON has two selectable competencies and one without types.
const CompetencyCatalogJSON = `{
  "Ghost": {
    "现实触发器": [
      {"title": "潜入", "description": "进入禁区", "mechanics": "掷诡秘"},
      {"title": "隐没"},
      "skip me"
    ],
    "过载解除": [{"title": "显形", "description": "被人看见"}],
    "类型": ["Stealth", ""]
  },
  "A": {
    "现实触发器": [{"title": "T1", "description": "D1"}],
    "过载解除": [{"title": "T2"}],
    "类型": ["Loud", "Quiet"]
  },
  "NoTypes": {
    "现实触发器": [{"title": "X"}],
    "类型": []
  }
}`

// RoleCatalogJSON has two roles and one malformed entry.
const RoleCatalogJSON = `{
  "Agent": [
    {
      "MAIN": "Obey",
      "MAIN_description": "orders",
      "permitted_actions": {"list": ["run", "hide"]}
    }
  ],
  "Clerk": [
    {
      "MAIN": "File",
      "MAIN_description": "",
      "permitted_actions": {"list": ["stamp", "", "sort", "copy", "shred", "archive"]}
    }
  ],
  "Broken": "not a list"
}`

// WriteCatalogs writes the fixture catalogs into dir and returns their paths.
func WriteCatalogs(t *testing.T, dir string) catalog.Paths {
	t.Helper()

	paths := catalog.Paths{
		Anomaly:    filepath.Join(dir, catalog.DefaultAnomalyFile),
		Competency: filepath.Join(dir, catalog.DefaultCompetencyFile),
		Role:       filepath.Join(dir, catalog.DefaultRoleFile),
	}
	require.NoError(t, os.WriteFile(paths.Anomaly, []byte(AnomalyCatalogJSON), 0o600))
	require.NoError(t, os.WriteFile(paths.Competency, []byte(CompetencyCatalogJSON), 0o600))
	require.NoError(t, os.WriteFile(paths.Role, []byte(RoleCatalogJSON), 0o600))
	return paths
}

// LoadCatalogs parses the fixture catalogs.
func LoadCatalogs(t *testing.T) *catalog.Catalogs {
	t.Helper()

	anomalies, err := catalog.ParseAnomalies([]byte(AnomalyCatalogJSON))
	require.NoError(t, err)
	competencies, err := catalog.ParseCompetencies([]byte(CompetencyCatalogJSON))
	require.NoError(t, err)
	roles, err := catalog.ParseRoles([]byte(RoleCatalogJSON))
	require.NoError(t, err)

	return &catalog.Catalogs{
		Anomalies:    anomalies,
		Competencies: competencies,
		Roles:        roles,
	}
}

// TestCharacterName is the default character name for test fixtures
const TestCharacterName = "林 默"

// CreateTestRecord returns a saveable record with two abilities.
func CreateTestRecord() agency.Record {
	return agency.Record{
		Name:           TestCharacterName,
		Pronoun:        "她",
		AgencyTitle:    "外勤专员",
		Anomaly:        "缺位",
		Reality:        "Ghost-Stealth",
		Role:           "Agent",
		FocusMax:       "3",
		PrimeDirective: "Obey：orders",
		Question1:      "在地铁站。",
		AbilityStat1:   "欺瞒",
		Abilities: []agency.AbilityView{
			{
				Title:    "不在场",
				Trigger:  "他们似乎永远不知道你在哪里，掷欺瞒。",
				Success:  "成功",
				Failure:  "失败",
				Special:  "特殊",
				Question: "你在哪里？",
				Options:  []agency.Option{{Answer: "这里", Code: "B1"}},
				Stat:     "欺瞒",
			},
			{
				Title:   "回声",
				Trigger: "声音回荡",
				Options: []agency.Option{},
			},
		},
	}
}

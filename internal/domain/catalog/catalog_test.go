package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/medalist/internal/domain/catalog"
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

func TestLoadYAMLFixture(t *testing.T) {
	c, err := catalog.LoadFile(filepath.Join("testdata", "awards.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", c.Version())
	assert.Equal(t, 3, c.Len())

	ids := make([]string, 0, c.Len())
	for _, d := range c.All() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"marksman-bronze", "marksman-silver", "marksman-gold"}, ids)

	bronze, ok := c.Award("marksman-bronze")
	require.True(t, ok)
	leaves := requirement.Leaves(bronze.Requirements)
	require.Len(t, leaves, 1)
	streak, ok := leaves[0].Spec.(requirement.Streak)
	require.True(t, ok)
	assert.Equal(t, 3, streak.MinCount)
	require.Len(t, streak.AgeCategories, 2)
	assert.Equal(t, 42.0, *streak.AgeCategories[0].Thresholds["*"].MinPoints)

	silver, ok := c.Award("marksman-silver")
	require.True(t, ok)
	assert.Equal(t, requirement.OpOr, silver.Requirements.Op())
	require.Len(t, silver.Prerequisites, 1)
	assert.Equal(t, 1, *silver.Prerequisites[0].MinYearGap)

	_, ok = c.Award("missing")
	assert.False(t, ok)
}

func TestLoadJSONSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing awards":      `{"version":"1.0.0"}`,
		"award without id":    `{"awards":[{"name":"x"}]}`,
		"bad prerequisite":    `{"awards":[{"id":"a","prerequisites":[{"kind":"height"}]}]}`,
		"award prereq no id":  `{"awards":[{"id":"a","prerequisites":[{"kind":"award"}]}]}`,
		"negative gap":        `{"awards":[{"id":"a"},{"id":"b","prerequisites":[{"kind":"award","awardId":"a","minYearGap":-1}]}]}`,
		"scalar requirements": `{"awards":[{"id":"a","requirements":3}]}`,
		"not json":            `{`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.LoadJSON([]byte(doc))
			require.ErrorIs(t, err, catalog.ErrSchema)
		})
	}
}

func TestLoadJSONRejectsBadContent(t *testing.T) {
	_, err := catalog.LoadJSON([]byte(`{"version":"one","awards":[]}`))
	require.ErrorIs(t, err, catalog.ErrInvalidVersion)

	_, err = catalog.LoadJSON([]byte(`{"awards":[{"id":"a","requirements":{"and":[],"or":[]}}]}`))
	require.ErrorIs(t, err, catalog.ErrInvalidAward)

	_, err = catalog.LoadJSON([]byte(`{"awards":[{"id":"a","references":["ghost"]}]}`))
	require.ErrorIs(t, err, catalog.ErrUnknownReference)
}

func TestNewValidation(t *testing.T) {
	t.Run("duplicate ids", func(t *testing.T) {
		_, err := catalog.New(model.AwardDefinition{ID: "a"}, model.AwardDefinition{ID: "a"})
		require.ErrorIs(t, err, catalog.ErrDuplicateAward)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := catalog.New(model.AwardDefinition{})
		require.ErrorIs(t, err, catalog.ErrInvalidAward)
	})

	t.Run("unknown prerequisite", func(t *testing.T) {
		_, err := catalog.New(model.AwardDefinition{
			ID:            "b",
			Prerequisites: []model.PrerequisiteSpec{{Kind: model.PrerequisiteAward, AwardID: "a"}},
		})
		require.ErrorIs(t, err, catalog.ErrUnknownReference)
	})

	t.Run("unknown leaf reference", func(t *testing.T) {
		_, err := catalog.New(model.AwardDefinition{
			ID: "b",
			Requirements: requirement.Leaf{Spec: requirement.Sustained{
				RequiredYears: 2,
				PerYear:       requirement.YearAny{Tests: []requirement.YearTest{requirement.YearReferences{AwardIDs: []string{"ghost"}}}},
			}},
		})
		require.ErrorIs(t, err, catalog.ErrUnknownReference)
	})

	t.Run("reference cycle", func(t *testing.T) {
		_, err := catalog.New(
			model.AwardDefinition{ID: "a", References: []string{"b"}},
			model.AwardDefinition{ID: "b", Requirements: requirement.Leaf{Spec: requirement.Sustained{References: []string{"a"}}}},
		)
		require.ErrorIs(t, err, catalog.ErrReferenceCycle)
	})

	t.Run("self reference", func(t *testing.T) {
		_, err := catalog.New(model.AwardDefinition{ID: "a", References: []string{"a"}})
		require.ErrorIs(t, err, catalog.ErrReferenceCycle)
	})

	t.Run("inverted age window", func(t *testing.T) {
		lo, hi := 40, 30
		_, err := catalog.New(model.AwardDefinition{
			ID:            "a",
			Prerequisites: []model.PrerequisiteSpec{{Kind: model.PrerequisiteAge, MinAge: &lo, MaxAge: &hi}},
		})
		require.ErrorIs(t, err, catalog.ErrInvalidAward)
	})

	t.Run("missing requirements become an empty AND", func(t *testing.T) {
		c, err := catalog.New(model.AwardDefinition{ID: "a"})
		require.NoError(t, err)
		d, _ := c.Award("a")
		assert.Equal(t, requirement.And{}, d.Requirements)
		assert.Empty(t, c.Version())
	})
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "awards.toml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, err := catalog.LoadFile(path)
	require.ErrorIs(t, err, catalog.ErrUnsupportedFormat)
}

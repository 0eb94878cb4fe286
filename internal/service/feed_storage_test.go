package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedCSV(t *testing.T) {
	t.Run("header-driven parsing with unknown columns ignored", func(t *testing.T) {
		feed := strings.Join([]string{
			"name,category,base_cost,weight,internal_note",
			"Widget A,gadgets,3.50,1.25,ignore me",
			"Widget B,,,,",
		}, "\n")

		records, skipped, err := parseFeedCSV(strings.NewReader(feed))

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 0, skipped)

		assert.Equal(t, "Widget A", records[0].Name)
		assert.Equal(t, "gadgets", *records[0].Category)
		assert.Equal(t, "3.50", records[0].BaseCost.String())
		assert.Equal(t, 1.25, *records[0].Weight)

		assert.Equal(t, "Widget B", records[1].Name)
		assert.Nil(t, records[1].Category)
		assert.Nil(t, records[1].BaseCost)
	})

	t.Run("rows with bad numeric cells are skipped and counted", func(t *testing.T) {
		feed := strings.Join([]string{
			"name,base_cost,weight",
			"Widget A,not-a-number,1.0",
			"Widget B,2.00,heavy",
			"Widget C,2.50,0.5",
		}, "\n")

		records, skipped, err := parseFeedCSV(strings.NewReader(feed))

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 2, skipped)
		assert.Equal(t, "Widget C", records[0].Name)
	})

	t.Run("header matching is case-insensitive and trimmed", func(t *testing.T) {
		feed := strings.Join([]string{
			" Name , CATEGORY ",
			"Widget A,gadgets",
		}, "\n")

		records, _, err := parseFeedCSV(strings.NewReader(feed))

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "gadgets", *records[0].Category)
	})

	t.Run("feed without a name column is rejected", func(t *testing.T) {
		feed := "category,base_cost\ngadgets,1.00\n"

		_, _, err := parseFeedCSV(strings.NewReader(feed))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no name column")
	})

	t.Run("empty feed is rejected", func(t *testing.T) {
		_, _, err := parseFeedCSV(strings.NewReader(""))
		require.Error(t, err)
	})
}

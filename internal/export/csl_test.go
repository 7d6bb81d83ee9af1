// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/idresolve/internal/dataset"
	"github.com/pdiddy/idresolve/pkg/types"
)

func testDataset() *types.Dataset {
	return &types.Dataset{
		Cand: types.Candidates{"2016": {"1": {"PA": types.FieldSet{"01-A1": {
			"Rossi Luca": {
				Fullname: types.FullName{"Rossi", "Luca"},
				Pubbs: []types.Publication{
					{DOI: "10.2/b", Title: "Secondo", Year: 2018},
					{Title: "Senza DOI", Year: 2017},
					{DOI: "10.1/A", Title: "Primo", Year: 2019},
				},
			},
		}}}}},
		Comm: types.Commissions{"2016": types.FieldSet{"01-A1": {
			"Bianchi Anna": {
				Fullname: types.FullName{"Bianchi", "Anna"},
				Pubbs:    []types.Publication{{DOI: "10.1/a", Title: "Primo", Year: 2019}},
			},
		}}},
	}
}

func TestCollect(t *testing.T) {
	items := Collect(testDataset(), dataset.AllGroups)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "10.1/A", first.DOI)
	assert.Equal(t, "Primo", first.Title)
	assert.Equal(t, "article-journal", first.Type)
	assert.Equal(t, [][]int{{2019}}, first.Issued.DateParts)
	assert.Equal(t, []CSLName{
		{Family: "Rossi", Given: "Luca"},
		{Family: "Bianchi", Given: "Anna"},
	}, first.Author, "DOIs are matched case-insensitively")

	assert.Equal(t, "10.2/b", items[1].DOI)
	assert.Len(t, items[1].Author, 1)
}

func TestCollectCandidatesOnly(t *testing.T) {
	items := Collect(testDataset(), dataset.Candidates)
	require.Len(t, items, 2)
	assert.Len(t, items[0].Author, 1)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Collect(testDataset(), dataset.Commissions)))

	assert.Contains(t, buf.String(), "DOI: 10.1/a")
	assert.Contains(t, buf.String(), "date-parts:")

	var got []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Bianchi", got[0].Author[0].Family)
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Collect(&types.Dataset{}, dataset.AllGroups)))
	assert.Equal(t, "[]\n", buf.String())
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/idresolve/pkg/types"
)

const sample = `{
  "cand": {
    "2016": {"1": {"PA": {"01-A1": {
      "Rossi Luca": {
        "fullname": ["Rossi", "Luca"],
        "pubbs": [{"doi": "10.1/x", "title": "Un titolo", "year": "2019", "venue": "J"}],
        "born": 1970
      }
    }}}},
    "2012": {"2": {"PO": {"02-B1": {
      "Verdi Anna": {"fullname": ["Verdi", "Anna"], "pubbs": []}
    }}}}
  },
  "comm": {
    "2016": {"01-A1": {
      "Bianchi Marco": {"fullname": ["Bianchi", "Marco"], "pubbs": [{"title": "Altro", "year": 2018}]}
    }}
  },
  "version": 3
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	ds, err := Load(writeSample(t))
	require.NoError(t, err)

	rossi := ds.Cand["2016"]["1"]["PA"]["01-A1"]["Rossi Luca"]
	require.NotNil(t, rossi)
	assert.Equal(t, types.FullName{"Rossi", "Luca"}, rossi.Fullname)
	require.Len(t, rossi.Pubbs, 1)
	assert.Equal(t, 2019, rossi.Pubbs[0].Year)
	assert.True(t, rossi.Pubbs[0].HasDOI())
	assert.Nil(t, rossi.AuIds)

	bianchi := ds.Comm["2016"]["01-A1"]["Bianchi Marco"]
	require.NotNil(t, bianchi)
	assert.False(t, bianchi.Pubbs[0].HasDOI())
	assert.Equal(t, 2018, bianchi.Pubbs[0].Year)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading dataset")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"cand": [`), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parsing dataset")
}

func TestSaveRoundTripPreservesUnknownKeys(t *testing.T) {
	ds, err := Load(writeSample(t))
	require.NoError(t, err)

	rossi := ds.Cand["2016"]["1"]["PA"]["01-A1"]["Rossi Luca"]
	rossi.AuIds = []string{"100"}
	rossi.Pubbs[0].PId = 42

	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(out, ds))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"version": 3`)
	assert.Contains(t, text, `"born": 1970`)
	assert.Contains(t, text, `"venue": "J"`)
	assert.Contains(t, text, `"AuIds": [`)
	assert.Contains(t, text, `"PId": 42`)
	assert.True(t, strings.HasSuffix(text, "\n"))

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, again.Cand["2016"]["1"]["PA"]["01-A1"]["Rossi Luca"].AuIds)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWalkOrder(t *testing.T) {
	ds, err := Load(writeSample(t))
	require.NoError(t, err)

	var got []string
	err = Walk(ds, AllGroups, func(pos Position, set types.AuthorSet) error {
		got = append(got, strings.Join(pos, "/")+":"+strings.Join(Keys(set), ","))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cand/2012/2/PO/02-B1:Verdi Anna",
		"cand/2016/1/PA/01-A1:Rossi Luca",
		"comm/2016/01-A1:Bianchi Marco",
	}, got)
}

func TestWalkGroupsAndStop(t *testing.T) {
	ds, err := Load(writeSample(t))
	require.NoError(t, err)

	var n int
	require.NoError(t, Walk(ds, Commissions, func(Position, types.AuthorSet) error {
		n++
		return nil
	}))
	assert.Equal(t, 1, n)

	stop := os.ErrClosed
	n = 0
	err = Walk(ds, AllGroups, func(Position, types.AuthorSet) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestParseGroups(t *testing.T) {
	tests := []struct {
		in      string
		want    Groups
		wantErr bool
	}{
		{"", AllGroups, false},
		{"cand", Candidates, false},
		{"comm", Commissions, false},
		{"all", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGroups(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

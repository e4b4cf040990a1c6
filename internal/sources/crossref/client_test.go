package crossref_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap/internal/sources/crossref"
	"github.com/agentstation/playermap/internal/transport"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/sources"
)

const masterCSV = `first_name,second_name,code,understat,fbref
Bukayo,Saka,223340,7322,bc7dc64d
Test,Player,100,,
Bad,Row,n/a,99,
Float,Export,200,1234.0,
Dup,Later,100,555,
`

func TestFetchCrossRef(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/csv", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(masterCSV))
	}))
	defer srv.Close()

	client := crossref.NewClient(srv.URL)
	assert.Equal(t, sources.CrossRefID, client.ID())

	ref, err := client.FetchCrossRef(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ref.Len())
	id, ok := ref.Get(223340)
	require.True(t, ok)
	assert.Equal(t, "7322", id)

	id, ok = ref.Get(100)
	require.True(t, ok)
	assert.Equal(t, "555", id, "later non-empty value fills an empty one")

	id, _ = ref.Get(200)
	assert.Equal(t, "1234", id)

	assert.Equal(t, []int64{223340, 100, 200}, ref.Codes())
}

func TestParse(t *testing.T) {
	t.Run("skips non-integer codes", func(t *testing.T) {
		_, skipped, err := crossref.Parse(strings.NewReader(masterCSV), crossref.DefaultCodeColumn, crossref.DefaultIDColumn)
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
	})

	t.Run("header matching ignores case and accepts fpl_code", func(t *testing.T) {
		doc := " FPL_Code ,Understat\n5,50\n"
		ref, _, err := crossref.Parse(strings.NewReader(doc), crossref.DefaultCodeColumn, crossref.DefaultIDColumn)
		require.NoError(t, err)
		id, ok := ref.Get(5)
		require.True(t, ok)
		assert.Equal(t, "50", id)
	})

	t.Run("custom columns", func(t *testing.T) {
		doc := "player_code,fbref\n5,abc\n"
		ref, _, err := crossref.Parse(strings.NewReader(doc), "player_code", "fbref")
		require.NoError(t, err)
		id, _ := ref.Get(5)
		assert.Equal(t, "abc", id)
	})

	t.Run("short rows", func(t *testing.T) {
		doc := "understat,code\n7\n"
		ref, skipped, err := crossref.Parse(strings.NewReader(doc), crossref.DefaultCodeColumn, crossref.DefaultIDColumn)
		require.NoError(t, err)
		assert.Equal(t, 0, ref.Len())
		assert.Equal(t, 1, skipped)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, _, err := crossref.Parse(strings.NewReader("code,name\n1,x\n"), crossref.DefaultCodeColumn, crossref.DefaultIDColumn)
		var pe *errors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, pe.Message, "understat")
	})

	t.Run("empty document", func(t *testing.T) {
		_, _, err := crossref.Parse(strings.NewReader(""), crossref.DefaultCodeColumn, crossref.DefaultIDColumn)
		var pe *errors.ParseError
		require.ErrorAs(t, err, &pe)
	})
}

func TestFetchCrossRefFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := crossref.NewClient(srv.URL, crossref.WithTransport(transport.New()), crossref.WithColumns("", ""))
	_, err := client.FetchCrossRef(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.True(t, errors.IsSourceUnavailable(err))
}

package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/Makepad-fr/planner/internal/model"
	"github.com/Makepad-fr/planner/internal/planner"
	"github.com/Makepad-fr/planner/internal/remote"
	"github.com/Makepad-fr/planner/internal/store/memstore"
)

const base = "/summer2023planner-stage"

func start(t *testing.T, plain bool, seed ...model.Item) (*httptest.Server, *remote.Client) {
	t.Helper()
	s := New(memstore.New(seed...), Options{BasePath: base, Plain: plain})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, remote.New(srv.URL + base)
}

func post(t *testing.T, url string, body []byte) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestClientAgainstServer(t *testing.T) {
	for _, plain := range []bool{false, true} {
		name := "legacy"
		if plain {
			name = "plain"
		}
		t.Run(name, func(t *testing.T) {
			_, c := start(t, plain, model.Item{ID: "1", Name: "rice"})
			ctx := context.Background()

			msg, err := c.Append(ctx, "kimchi")
			require.NoError(t, err)
			assert.Equal(t, MsgAdded, msg)

			msg, err = c.Append(ctx, "kimchi")
			assert.ErrorIs(t, err, remote.ErrRejected)
			assert.Equal(t, MsgExists, msg)

			items, err := c.List(ctx)
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "rice", items[0].Name)
			assert.Equal(t, "kimchi", items[1].Name)

			msg, err = c.Delete(ctx, "rice")
			require.NoError(t, err)
			assert.Equal(t, MsgDeleted, msg)

			msg, err = c.Delete(ctx, "rice")
			assert.ErrorIs(t, err, remote.ErrRejected)
			assert.Equal(t, MsgNotFound, msg)
		})
	}
}

func TestPlannerFlowAgainstServer(t *testing.T) {
	_, c := start(t, false)
	ctx := context.Background()

	s := planner.Drive(ctx, c, planner.New(), planner.Mounted{})
	s, _ = planner.Update(s, planner.NameChanged{Text: "kimchi"})
	s = planner.Drive(ctx, c, s, planner.Submitted{})

	assert.Equal(t, MsgAdded, s.Status)
	assert.Empty(t, s.PendingName)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "kimchi", s.Items[0].Name)
	assert.Nil(t, s.Err)
}

func TestPlannerRejectedDeleteAgainstServer(t *testing.T) {
	_, c := start(t, false, model.Item{ID: "1", Name: "kimchi"})

	s := planner.Drive(context.Background(), c, planner.New(), planner.DeleteRequested{Name: "rice"})

	assert.Nil(t, s.Err)
	assert.Equal(t, MsgNotFound, s.Status)
	assert.True(t, s.Rejected)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "kimchi", s.Items[0].Name)
}

func TestLegacyWireFormat(t *testing.T) {
	srv, _ := start(t, false)

	resp, body := post(t, srv.URL+base+remote.PathAppend, []byte(`{"food":"rice"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"%7B%22message%22%3A%22added%22%7D"`, string(body))
}

func TestPlainWireFormat(t *testing.T) {
	srv, _ := start(t, true)

	resp, body := post(t, srv.URL+base+remote.PathAppend, []byte(`{"food":"rice"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"added"}`, string(body))
}

func TestStatusCodes(t *testing.T) {
	srv, _ := start(t, true, model.Item{ID: "1", Name: "rice"})

	resp, _ := post(t, srv.URL+base+remote.PathAppend, []byte(`{"food":"rice"}`))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = post(t, srv.URL+base+remote.PathDelete, []byte(`{"food":"bread"}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := post(t, srv.URL+base+remote.PathDelete, []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"invalid request"}`, string(body))
}

func TestListIsJSONArray(t *testing.T) {
	srv, _ := start(t, false)

	resp, err := http.Get(srv.URL + base + remote.PathList)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", strings.TrimSpace(string(b)))
}

func TestEUCKRBodyIsConverted(t *testing.T) {
	srv, c := start(t, false)
	euckr, err := korean.EUCKR.NewEncoder().Bytes([]byte(`{"food":"김치"}`))
	require.NoError(t, err)

	resp, _ := post(t, srv.URL+base+remote.PathAppend, euckr)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "김치", items[0].Name)
}

func TestHealthzAndCORS(t *testing.T) {
	srv, _ := start(t, false)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+base+remote.PathAppend, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(memstore.New(), Options{Addr: "127.0.0.1:0", BasePath: base})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-lite/internal/ledger"
)

var headsUpDeck = []string{"1e", "1b", "7o", "5c", "4c", "6c"}

func newTestServer(t *testing.T) (*httptest.Server, *ledger.MemoryService) {
	t.Helper()
	store := ledger.NewMemoryService(10)
	srv := httptest.NewServer(New(store).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createHeadsUp(t *testing.T, srv *httptest.Server, threshold uint8) matchView {
	t.Helper()
	var view matchView
	status := postJSON(t, srv.URL+"/matches", createMatchRequest{
		Players:   []string{"ana", "beto"},
		Threshold: threshold,
		Deck:      headsUpDeck,
	}, &view)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, view.MatchID)
	return view
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/health", &body))
	assert.Equal(t, true, body["ok"])
}

func TestCreateMatch_RefusedBuilder(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]any
	status := postJSON(t, srv.URL+"/matches", createMatchRequest{Players: []string{"ana", "beto", "carla"}, Threshold: 15}, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "determined/3", body["builder_state"])

	status = postJSON(t, srv.URL+"/matches", createMatchRequest{
		Players:   []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"},
		Threshold: 15,
	}, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = postJSON(t, srv.URL+"/matches", createMatchRequest{Players: []string{"ana", "ana"}, Threshold: 15}, &body)
	assert.Equal(t, http.StatusBadRequest, status)

	status = postJSON(t, srv.URL+"/matches", createMatchRequest{Players: []string{"ana", ""}, Threshold: 15}, &body)
	assert.Equal(t, http.StatusBadRequest, status)

	status = postJSON(t, srv.URL+"/matches", createMatchRequest{Players: []string{"ana", "beto"}, Deck: []string{"99z"}}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCommands_FinishedMatchIsSaved(t *testing.T) {
	srv, store := newTestServer(t)
	created := createHeadsUp(t, srv, 1)
	base := srv.URL + "/matches/" + created.MatchID

	var errBody errorResponse
	status := postJSON(t, base+"/commands", commandRequest{Player: "beto", Command: "play 0"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, errBody.Error, "out of turn")

	status = postJSON(t, base+"/commands", commandRequest{Player: "ana", Command: "juggle"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	var view matchView
	status = postJSON(t, base+"/commands", commandRequest{Player: "ana", Command: "fold"}, &view)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, view.Terminal)
	assert.Equal(t, "them", view.Winner)
	assert.Equal(t, 1, view.ScoreThem)

	rec, err := store.GetMatch(context.Background(), created.MatchID)
	require.NoError(t, err)
	assert.Equal(t, ledger.SourceLive, rec.Source)
	assert.Equal(t, "them", rec.Winner)
	assert.Equal(t, 1, rec.ScoreThem)
	var types []string
	for _, e := range rec.Events {
		types = append(types, e.EventType)
	}
	assert.Contains(t, types, "commandRejected")
	assert.Contains(t, types, "gameEnd")

	status = postJSON(t, base+"/commands", commandRequest{Player: "beto", Command: "fold"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	var recent map[string][]ledger.MatchRecord
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/matches", &recent))
	require.Len(t, recent["items"], 1)
	assert.Equal(t, created.MatchID, recent["items"][0].MatchID)
}

func TestGetMatch_FallsBackToLedger(t *testing.T) {
	srv, store := newTestServer(t)
	id, err := store.SaveMatch(context.Background(), ledger.MatchRecord{
		Source:  ledger.SourceReplay,
		Players: []string{"ana", "beto"},
		Winner:  "us",
	})
	require.NoError(t, err)

	var rec ledger.MatchRecord
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/matches/"+id, &rec))
	assert.Equal(t, "us", rec.Winner)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/matches/nope", nil))
}

func TestPlayerView(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createHeadsUp(t, srv, 15)
	base := srv.URL + "/matches/" + created.MatchID

	var view playerView
	require.Equal(t, http.StatusOK, getJSON(t, base+"/players/ana", &view))
	assert.Equal(t, "ana", view.Player)
	assert.Contains(t, view.Commands, "play 0")
	assert.Contains(t, view.Text, "1 espada")
	assert.NotContains(t, view.Text, "1 basto")

	require.Equal(t, http.StatusOK, getJSON(t, base+"/players/beto", &view))
	assert.Empty(t, view.Commands)

	assert.Equal(t, http.StatusNotFound, getJSON(t, base+"/players/nobody", nil))
}

func TestWebSocket_PlayerReceivesUpdates(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createHeadsUp(t, srv, 15)
	base := srv.URL + "/matches/" + created.MatchID
	wsURL := "ws" + strings.TrimPrefix(base, "http") + "/ws?player=beto"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readFrame := func() serverFrame {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var frame serverFrame
		require.NoError(t, conn.ReadJSON(&frame))
		return frame
	}

	first := readFrame()
	require.Equal(t, "state", first.Type)
	require.NotNil(t, first.View)
	assert.Equal(t, "beto", first.View.Player)
	assert.Empty(t, first.View.Commands)

	require.Equal(t, http.StatusOK, postJSON(t, base+"/commands", commandRequest{Player: "ana", Command: "play 0"}, nil))
	update := readFrame()
	require.NotNil(t, update.View)
	assert.Contains(t, update.View.Commands, "play 0")

	require.NoError(t, conn.WriteJSON(clientFrame{Player: "ana", Command: "fold"}))
	refused := readFrame()
	assert.Equal(t, "error", refused.Type)

	require.NoError(t, conn.WriteJSON(clientFrame{Command: "play 0"}))
	after := readFrame()
	require.Equal(t, "state", after.Type)
	assert.Contains(t, after.View.Text, "trick 1:")
}

func TestWebSocket_UnknownTargets(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createHeadsUp(t, srv, 15)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/matches/nope/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/matches/"+created.MatchID+"/ws?player=zoe", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommands_NameSpellingsMatch(t *testing.T) {
	srv, store := newTestServer(t)
	var created matchView
	require.Equal(t, http.StatusCreated, postJSON(t, srv.URL+"/matches", createMatchRequest{
		Players:   []string{"Jose\u0301", "beto"},
		Threshold: 1,
		Deck:      headsUpDeck,
	}, &created))
	base := srv.URL + "/matches/" + created.MatchID

	var view playerView
	require.Equal(t, http.StatusOK, getJSON(t, base+"/players/Jos%C3%A9", &view))
	assert.Contains(t, view.Commands, "fold")

	var after matchView
	require.Equal(t, http.StatusOK, postJSON(t, base+"/commands", commandRequest{Player: "Jose\u0301", Command: "fold"}, &after))
	assert.True(t, after.Terminal)

	rec, err := store.GetMatch(context.Background(), created.MatchID)
	require.NoError(t, err)
	assert.Equal(t, "them", rec.Winner)
}

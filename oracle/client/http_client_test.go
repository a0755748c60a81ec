package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wargame/game"
	"wargame/oracle"
)

func TestProposeMoves(t *testing.T) {
	t.Run("decodes a well-formed proposal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/oracle/proposeMoves", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"moves": ["Undercut", "Bundle"]}`))
		}))
		defer srv.Close()

		c := New(srv.URL, time.Second)
		proposal, err := c.ProposeMoves(context.Background(), oracle.MoveRequest{
			Profile:  game.PlayerProfile{Name: "Competitor_A"},
			NumMoves: 2,
		})

		require.NoError(t, err)
		require.Equal(t, []string{"Undercut", "Bundle"}, proposal.Moves)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := New(srv.URL, time.Second)
		_, err := c.ProposeMoves(context.Background(), oracle.MoveRequest{})

		require.Error(t, err, "The engine's fallback path needs the failure surfaced")
	})

	t.Run("unparsable body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("I will definitely not answer in JSON"))
		}))
		defer srv.Close()

		c := New(srv.URL, time.Second)
		_, err := c.ProposeMoves(context.Background(), oracle.MoveRequest{})

		require.Error(t, err)
	})
}

func TestScoreScenarios(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oracle/scoreScenarios", r.URL.Path)
		w.Write([]byte(`{"scores": {"s0": 0.3, "s1": 0.8}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	sheet, err := c.ScoreScenarios(context.Background(), oracle.ScoreRequest{
		Scenarios: []game.Scenario{{ID: "s0"}, {ID: "s1"}},
		Periods:   1,
	})

	require.NoError(t, err)
	require.Equal(t, map[string]float64{"s0": 0.3, "s1": 0.8}, sheet.Scores)
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, time.Second)
	_, err := c.ProposeMoves(ctx, oracle.MoveRequest{})

	require.Error(t, err)
}

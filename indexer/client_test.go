package indexer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chainseal/chainseal-go/ledger"
	"github.com/chainseal/chainseal-go/verify"
)

const (
	testAgent  = "7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2"
	testAsset  = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"
	testClient = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

func testDigestHex(b byte) string {
	return fmt.Sprintf("%064x", uint64(b)) // low byte set, rest zero
}

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, srv.Client())
	c.MaxElapsed = 2 * time.Second
	return c
}

func TestSummary(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		want := "/v1/agents/" + testAgent + "/summary"
		if r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		fmt.Fprintf(w, `{
			"agent": %q,
			"feedback": {"digest": %q, "count": 12},
			"response": {"digest": %q, "count": 3},
			"revoke":   {"digest": %q, "count": 1}
		}`, testAgent, testDigestHex(0xA1), testDigestHex(0xA2), testDigestHex(0xA3))
	})

	heads, err := c.Summary(context.Background(), testAgent)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if heads.Feedback.Count != 12 || heads.Response.Count != 3 || heads.Revoke.Count != 1 {
		t.Fatalf("counts = %+v", heads)
	}
	if heads.Feedback.Digest[31] != 0xA1 {
		t.Fatalf("feedback digest = %s", heads.Feedback.Digest)
	}
}

func TestLatestCheckpoint(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("chain"); got != "feedback" {
			t.Errorf("chain query = %q", got)
		}
		fmt.Fprintf(w, `{"digest": %q, "count": 40}`, testDigestHex(0xB7))
	})

	st, err := c.LatestCheckpoint(context.Background(), testAgent, ledger.KindFeedback)
	if err != nil {
		t.Fatalf("LatestCheckpoint: %v", err)
	}
	if st.Count != 40 || st.Digest[31] != 0xB7 {
		t.Fatalf("state = %+v", st)
	}
}

func TestLatestCheckpoint_None(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.LatestCheckpoint(context.Background(), testAgent, ledger.KindRevoke)
	if !errors.Is(err, verify.ErrNoCheckpoint) {
		t.Fatalf("got %v, want ErrNoCheckpoint", err)
	}
}

func TestLatestCheckpoint_UnknownKind(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request reached server for bad kind")
	})
	if _, err := c.LatestCheckpoint(context.Background(), testAgent, ledger.Kind("bogus")); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}

func TestFeedbackEvents(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("offset") != "5" || q.Get("limit") != "2" {
			t.Errorf("paging query = %s", r.URL.RawQuery)
		}
		fmt.Fprintf(w, `[
			{"asset": %q, "client": %q, "index": 5, "sealHash": %q, "slot": 900, "digest": %q,
			 "seal": {"value": 9000, "decimals": 2, "score": 85, "tag1": "uptime", "uri": "https://r.example.com/5"}},
			{"asset": %q, "client": %q, "index": 6, "sealHash": %q, "slot": 901}
		]`, testAsset, testClient, testDigestHex(0x05), testDigestHex(0x50),
			testAsset, testClient, testDigestHex(0x06))
	})

	events, err := c.FeedbackEvents(context.Background(), testAgent, 5, 2)
	if err != nil {
		t.Fatalf("FeedbackEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	ev := events[0]
	if ev.Index != 5 || ev.Slot != 900 || ev.SealHash[31] != 0x05 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.StoredDigest == nil || ev.StoredDigest[31] != 0x50 {
		t.Fatalf("stored digest not decoded")
	}
	if ev.Seal == nil || ev.Seal.Value != 9000 || ev.Seal.Score == nil || *ev.Seal.Score != 85 {
		t.Fatalf("seal payload = %+v", ev.Seal)
	}
	if events[1].StoredDigest != nil || events[1].Seal != nil {
		t.Fatalf("absent optional fields must stay nil")
	}
}

func TestFeedbackEvents_BadIdentity(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"asset": "nope", "client": %q, "index": 0, "sealHash": %q, "slot": 1}]`,
			testClient, testDigestHex(0x01))
	})
	if _, err := c.FeedbackEvents(context.Background(), testAgent, 0, 10); err == nil {
		t.Fatalf("malformed identity accepted")
	}
}

func TestResponseAt(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		want := "/v1/agents/" + testAgent + "/responses/3"
		if r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		fmt.Fprintf(w, `{"asset": %q, "client": %q, "feedbackIndex": 3, "responder": %q,
			"contentHash": %q, "slot": 777}`,
			testAsset, testClient, testAgent, testDigestHex(0xDD))
	})

	ev, err := c.ResponseAt(context.Background(), testAgent, 3)
	if err != nil {
		t.Fatalf("ResponseAt: %v", err)
	}
	if ev.FeedbackIndex != 3 || ev.Slot != 777 || ev.ContentHash[31] != 0xDD {
		t.Fatalf("event = %+v", ev)
	}
}

func TestPointLookup_NotFound(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	if _, err := c.FeedbackAt(context.Background(), testAgent, 99); !errors.Is(err, verify.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, err := c.RevokeAt(context.Background(), testAgent, 99); !errors.Is(err, verify.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRetry_TransientServerError(t *testing.T) {
	var calls atomic.Int32
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, `{"digest": %q, "count": 1}`, testDigestHex(0x01))
	})

	if _, err := c.LatestCheckpoint(context.Background(), testAgent, ledger.KindFeedback); err != nil {
		t.Fatalf("transient failure not retried: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("server called %d times, want 3", calls.Load())
	}
}

func TestNoRetry_ClientError(t *testing.T) {
	var calls atomic.Int32
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	if _, err := c.Summary(context.Background(), testAgent); err == nil {
		t.Fatalf("4xx response accepted")
	}
	if calls.Load() != 1 {
		t.Fatalf("client error retried %d times", calls.Load())
	}
}

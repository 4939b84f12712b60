package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyflow/core/model"
)

var testAssignment = model.Assignment{
	Title:          "Essay",
	DueDate:        time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC),
	EstimatedHours: 2,
}

const planBody = `{"plan":{"slots":[{"startISO":"2025-03-12T14:00:00Z","durationHours":1,"note":"focus"}],"remainingHours":0,"note":"done"}}`

func newTestClient(url string) *Client {
	return NewClient(Config{URL: url, APIKey: "secret", TimeoutSeconds: 2})
}

func TestGeneratePlanEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(planBody))
	}))
	defer srv.Close()

	plan, err := newTestClient(srv.URL).GeneratePlan(context.Background(), testAssignment, nil)
	require.NoError(t, err)
	require.Len(t, plan.Slots, 1)
	require.Equal(t, "done", plan.Note)
	require.Equal(t, float64(1), plan.Slots[0].DurationHours)
}

func TestGeneratePlanFreeText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":"Sure, here is your schedule: ` +
			`{\"slots\":[{\"startISO\":\"2025-03-12T14:00:00Z\",\"durationHours\":0.5,\"note\":\"x\"}],\"remainingHours\":1.5,\"note\":\"partial\"} hope it helps"}`))
	}))
	defer srv.Close()

	plan, err := newTestClient(srv.URL).GeneratePlan(context.Background(), testAssignment, nil)
	require.NoError(t, err)
	require.Len(t, plan.Slots, 1)
	require.Equal(t, 1.5, plan.RemainingHours)
}

func TestGeneratePlanNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GeneratePlan(context.Background(), testAssignment, nil)
	require.Error(t, err)
}

func TestGeneratePlanGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("I could not produce a schedule, sorry."))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GeneratePlan(context.Background(), testAssignment, nil)
	require.Error(t, err)
}

func TestGeneratePlanTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(planBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newTestClient(srv.URL).GeneratePlan(ctx, testAssignment, nil)
	require.Error(t, err)
}

func TestDecodePlanShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"bare plan", `{"slots":[],"remainingHours":2,"note":"n"}`, true},
		{"nested output", `{"output":{"plan":{"slots":[],"remainingHours":0,"note":"n"}}}`, true},
		{"empty object", `{}`, false},
		{"no slots key", `{"note":"n"}`, false},
		{"text without json", `{"text":"nothing here"}`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan, err := DecodePlan([]byte(c.body))
			if c.ok {
				require.NoError(t, err)
				require.NotNil(t, plan)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	span, ok := firstJSONObject(`noise {"a":{"b":"}"}} trailing {"c":1}`)
	require.True(t, ok)
	require.Equal(t, `{"a":{"b":"}"}}`, span)

	_, ok = firstJSONObject("no braces here")
	require.False(t, ok)

	_, ok = firstJSONObject(`unbalanced {"a":`)
	require.False(t, ok)
}

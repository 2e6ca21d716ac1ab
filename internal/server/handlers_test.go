package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nameeraazam/health-wellness-project/internal/planner"
	"github.com/nameeraazam/health-wellness-project/internal/session"
)

const validMealResponse = `[
	{"day": "Monday", "breakfast": "Eggs", "lunch": "Salad", "dinner": "Soup", "snacks": "Apple"},
	{"day": "Tuesday", "breakfast": "Toast", "lunch": "Bowl", "dinner": "Pasta", "snacks": "Nuts"}
]`

const validWorkoutResponse = `[
	{"day": "Monday", "exercises": ["Squats"], "duration": "45 minutes", "intensity": "Moderate"}
]`

// newTestApp spins up the full route stack against a stub generator and
// returns an HTTP client with a cookie jar, so consecutive requests share the
// same session.
func newTestApp(t *testing.T, gen planner.TextGenerator) (*httptest.Server, *http.Client) {
	t.Helper()

	store, err := session.NewStore(16)
	require.NoError(t, err)

	s := &Server{
		store:     store,
		cookies:   newCookieStore("test-secret"),
		generator: gen,
		startTime: time.Now(),
	}

	ts := httptest.NewServer(s.RegisterRoutes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return ts, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := client.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func validProfilePayload() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Alex",
		"age":           30,
		"gender":        "Male",
		"weight":        70.0,
		"height":        170.0,
		"goal":          "Lose 5kg in 2 months",
		"dietary_prefs": "Vegetarian",
		"fitness_level": "Beginner",
	}
}

func TestSaveProfileRejectsInvalidPayload(t *testing.T) {
	ts, client := newTestApp(t, staticGen("[]"))

	payload := validProfilePayload()
	payload["fitness_level"] = "Superhuman"

	resp := postJSON(t, client, ts.URL+"/profile", payload)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlanGenerationRequiresProfile(t *testing.T) {
	var calls int
	gen := planner.GeneratorFunc(func(ctx context.Context, prompt string, jsonOnly bool) (string, error) {
		calls++
		return validMealResponse, nil
	})
	ts, client := newTestApp(t, gen)

	resp := postJSON(t, client, ts.URL+"/plans/meal", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The rejection must short-circuit: no generation call was made and no
	// plan was stored for the session.
	assert.Zero(t, calls)

	resp2 := postJSON(t, client, ts.URL+"/profile", validProfilePayload())
	resp2.Body.Close()

	getResp, err := client.Get(ts.URL + "/plans/meal")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestProfileThenMealPlanFlow(t *testing.T) {
	ts, client := newTestApp(t, staticGen(validMealResponse))

	resp := postJSON(t, client, ts.URL+"/profile", validProfilePayload())
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, client, ts.URL+"/plans/meal", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var planResp MealPlanResponse
	decodeBody(t, resp, &planResp)
	require.Len(t, planResp.Plan, 2)
	assert.Equal(t, "Monday", planResp.Plan[0].Day)
	assert.Empty(t, planResp.Notices)

	// The generated plan is now retrievable within the same session.
	getResp, err := client.Get(ts.URL + "/plans/meal")
	require.NoError(t, err)
	var stored MealPlanResponse
	decodeBody(t, getResp, &stored)
	assert.Equal(t, planResp.Plan, stored.Plan)
}

func TestGenerationFailureStillReturnsRenderablePlan(t *testing.T) {
	gen := planner.GeneratorFunc(func(ctx context.Context, prompt string, jsonOnly bool) (string, error) {
		return "I'm sorry, I cannot help.", nil
	})
	ts, client := newTestApp(t, gen)

	resp := postJSON(t, client, ts.URL+"/profile", validProfilePayload())
	resp.Body.Close()

	resp = postJSON(t, client, ts.URL+"/plans/workout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var planResp WorkoutPlanResponse
	decodeBody(t, resp, &planResp)
	assert.Equal(t, planner.FallbackWorkoutPlan(), planResp.Plan)
	require.NotEmpty(t, planResp.Notices)
	assert.Equal(t, planner.LevelWarning, planResp.Notices[0].Level)
}

func TestGenerateAllPlansPopulatesBoth(t *testing.T) {
	gen := planner.GeneratorFunc(func(ctx context.Context, prompt string, jsonOnly bool) (string, error) {
		// The meal prompt carries dietary preferences; the workout one does not.
		if bytes.Contains([]byte(prompt), []byte("Dietary preferences")) {
			return validMealResponse, nil
		}
		return validWorkoutResponse, nil
	})
	ts, client := newTestApp(t, gen)

	resp := postJSON(t, client, ts.URL+"/profile", validProfilePayload())
	resp.Body.Close()

	resp = postJSON(t, client, ts.URL+"/plans", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all AllPlansResponse
	decodeBody(t, resp, &all)
	require.Len(t, all.MealPlan.Plan, 2)
	require.Len(t, all.WorkoutPlan.Plan, 1)
	assert.Equal(t, []string{"Squats"}, all.WorkoutPlan.Plan[0].Exercises)
}

func TestProgressLogFlow(t *testing.T) {
	ts, client := newTestApp(t, staticGen("[]"))

	// Progress requires a profile too, and the rejected entry is not logged.
	resp := postJSON(t, client, ts.URL+"/progress", map[string]string{"update": "Lost 1kg"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, client, ts.URL+"/profile", validProfilePayload())
	resp.Body.Close()

	getResp, err := client.Get(ts.URL + "/progress")
	require.NoError(t, err)
	var empty struct {
		Count int `json:"count"`
	}
	decodeBody(t, getResp, &empty)
	assert.Zero(t, empty.Count)

	resp = postJSON(t, client, ts.URL+"/progress", map[string]string{"update": ""})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, client, ts.URL+"/progress", map[string]string{"update": "Lost 1kg this week!"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, client, ts.URL+"/progress", map[string]string{"update": "Ran 5k without stopping"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getResp, err = client.Get(ts.URL + "/progress")
	require.NoError(t, err)
	var progress struct {
		Entries []session.ProgressEntry `json:"entries"`
		Count   int                     `json:"count"`
	}
	decodeBody(t, getResp, &progress)
	assert.Equal(t, 2, progress.Count)
	assert.Equal(t, "Lost 1kg this week!", progress.Entries[0].Update)

	// limit trims to the most recent entries but count reports the full log.
	getResp, err = client.Get(ts.URL + "/progress?limit=1")
	require.NoError(t, err)
	decodeBody(t, getResp, &progress)
	assert.Equal(t, 2, progress.Count)
	require.Len(t, progress.Entries, 1)
	assert.Equal(t, "Ran 5k without stopping", progress.Entries[0].Update)
}

func TestSessionCookieStoredOverPlainHTTP(t *testing.T) {
	ts, client := newTestApp(t, staticGen("[]"))

	resp := postJSON(t, client, ts.URL+"/profile", validProfilePayload())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The test server speaks plain HTTP, so the jar only keeps the session
	// cookie if it is not marked Secure.
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	cookies := client.Jar.Cookies(u)
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookieName, cookies[0].Name)

	// A follow-up request rides the same session and sees the saved profile.
	getResp, err := client.Get(ts.URL + "/profile")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var profile planner.Profile
	decodeBody(t, getResp, &profile)
	assert.Equal(t, "Alex", profile.Name)
}

func TestHealthEndpoint(t *testing.T) {
	ts, client := newTestApp(t, staticGen("[]"))

	resp, err := client.Get(ts.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "online", body["status"])
	require.Contains(t, body, "runtime")
	require.Contains(t, body, "sessions")
}

func staticGen(response string) planner.TextGenerator {
	return planner.GeneratorFunc(func(ctx context.Context, prompt string, jsonOnly bool) (string, error) {
		return response, nil
	})
}

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphQLRequest is the decoded body of one request to the fake server.
type graphQLRequest struct {
	Variables map[string]any `json:"variables"`
	Query     string         `json:"query"`
}

// fakeAPI answers each request with the next canned response.
type fakeAPI struct {
	t         *testing.T
	responses []fakeResponse
	requests  []graphQLRequest
	mu        sync.Mutex
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T, responses ...fakeResponse) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{t: t, responses: responses}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIURL:       server.URL,
		Token:        "test-token",
		Organization: "acme",
		PageSize:     2,
		HTTPClient:   server.Client(),
		Triage: domain.TriageConfig{
			Enabled:        true,
			ProjectID:      "PVT_1",
			StatusFieldID:  "PVTF_1",
			StatusOptionID: "opt_todo",
		},
	})
	require.NoError(t, err)
	return api, client
}

func ok(data string) fakeResponse {
	return fakeResponse{status: http.StatusOK, body: `{"data":` + data + `}`}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	assert.Equal(f.t, http.MethodPost, r.Method)
	assert.Equal(f.t, "bearer test-token", r.Header.Get("Authorization"))

	var req graphQLRequest
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	f.requests = append(f.requests, req)

	if len(f.responses) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeAPI) request(i int) graphQLRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Greater(f.t, len(f.requests), i)
	return f.requests[i]
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{Organization: "acme"})
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = NewClient(Config{Token: "t"})
	assert.Error(t, err)

	c, err := NewClient(Config{Token: "t", Organization: "acme"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultGitHubAPIURL, c.apiURL)
	assert.Equal(t, domain.DefaultPageSize, c.pageSize)
}

func TestClient_ListRepositories(t *testing.T) {
	tests := []struct {
		name string
		page domain.PageCursor
		want map[string]any
	}{
		{"first page", domain.PageCursor{},
			map[string]any{"org": "acme", "first": float64(2), "last": nil, "after": nil, "before": nil}},
		{"after cursor", domain.PageCursor{Direction: domain.DirectionAfter, Cursor: "c2"},
			map[string]any{"org": "acme", "first": float64(2), "last": nil, "after": "c2", "before": nil}},
		{"before cursor", domain.PageCursor{Direction: domain.DirectionBefore, Cursor: "c1"},
			map[string]any{"org": "acme", "first": nil, "last": float64(2), "after": nil, "before": "c1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			api, client := newFakeAPI(t, ok(`{"organization":{"repositories":{
				"nodes":[{"id":"R_1","name":"api"},{"id":"R_2","name":"web"}],
				"pageInfo":{"startCursor":"c1","endCursor":"c2","hasPreviousPage":false,"hasNextPage":true}}}}`))

			// Execute
			page, err := client.ListRepositories(context.Background(), tt.page)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, []domain.RepoRef{{ID: "R_1", Name: "api"}, {ID: "R_2", Name: "web"}}, page.Items)
			assert.Equal(t, domain.PageInfo{StartCursor: "c1", EndCursor: "c2", HasNextPage: true}, page.Page)
			req := api.request(0)
			assert.Equal(t, tt.want, req.Variables)
			assert.Contains(t, req.Query, "repositories(")
		})
	}
}

func TestClient_ListRepositories_DefaultOrder(t *testing.T) {
	// Setup
	api, client := newFakeAPI(t, ok(`{"organization":{"repositories":{"nodes":[],
		"pageInfo":{"startCursor":null,"endCursor":null,"hasPreviousPage":false,"hasNextPage":false}}}}`))

	// Execute
	page, err := client.ListRepositories(context.Background(), domain.PageCursor{})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, domain.PageInfo{}, page.Page)
	assert.NotContains(t, api.request(0).Query, "orderBy")
}

func TestClient_ListMembers(t *testing.T) {
	// Setup
	api, client := newFakeAPI(t, ok(`{"organization":{"membersWithRole":{
		"nodes":[{"id":"U_1","login":"octo"}],
		"pageInfo":{"startCursor":"m0","endCursor":"m1","hasPreviousPage":true,"hasNextPage":false}}}}`))

	// Execute
	page, err := client.ListMembers(context.Background(), domain.PageCursor{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []domain.MemberRef{{ID: "U_1", Login: "octo"}}, page.Items)
	assert.True(t, page.Page.HasPreviousPage)
	assert.Contains(t, api.request(0).Query, "membersWithRole(")
}

func TestClient_ListRepositories_UnknownOrganization(t *testing.T) {
	// Setup
	_, client := newFakeAPI(t, fakeResponse{http.StatusOK, `{"data":{"organization":null},
		"errors":[{"type":"NOT_FOUND","path":["organization"],"message":"Could not resolve to an Organization with the login of 'acme'."}]}`})

	// Execute
	_, err := client.ListRepositories(context.Background(), domain.PageCursor{})

	// Assert
	reason, isTracker := domain.ReasonOf(err)
	require.True(t, isTracker)
	assert.Equal(t, domain.ReasonNotFound, reason)
}

// input returns the "input" variable of a mutation request.
func (f *fakeAPI) input(i int) map[string]any {
	req := f.request(i)
	input, isMap := req.Variables["input"].(map[string]any)
	require.True(f.t, isMap, "variables %v", req.Variables)
	return input
}

func TestClient_CreateIssue(t *testing.T) {
	// Setup
	api, client := newFakeAPI(t, ok(`{"createIssue":{"issue":{
		"id":"I_1","url":"https://github.com/acme/api/issues/7","title":"Fix crash","body":"body","assignees":{"nodes":[]}}}}`))

	// Execute
	ref, err := client.CreateIssue(context.Background(), "R_1", "Fix crash", "body")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &domain.IssueRef{ID: "I_1", URL: "https://github.com/acme/api/issues/7", Title: "Fix crash", Body: "body"}, ref)
	input := api.input(0)
	assert.Equal(t, "R_1", input["repositoryId"])
	assert.Equal(t, "Fix crash", input["title"])
	assert.Equal(t, "body", input["body"])
	assert.Contains(t, api.request(0).Query, "createIssue(input: $input)")
}

func TestClient_CreateIssue_NoIssueReturned(t *testing.T) {
	// Setup
	_, client := newFakeAPI(t, ok(`{"createIssue":{"issue":null}}`))

	// Execute
	_, err := client.CreateIssue(context.Background(), "R_1", "Fix crash", "")

	// Assert
	reason, isTracker := domain.ReasonOf(err)
	require.True(t, isTracker)
	assert.Equal(t, domain.ReasonNotFound, reason)
}

func TestClient_TransferIssue(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		assignee string
	}{
		{"with assignee", `{"nodes":[{"login":"octo"}]}`, "octo"},
		{"without assignee", `{"nodes":[]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			api, client := newFakeAPI(t, ok(`{"transferIssue":{"issue":{
				"id":"I_2","url":"https://github.com/acme/web/issues/3","title":"Fix crash","body":"","assignees":`+tt.data+`}}}`))

			// Execute
			ref, err := client.TransferIssue(context.Background(), "R_2", "I_1")

			// Assert
			require.NoError(t, err)
			assert.Equal(t, "I_2", ref.ID)
			assert.Equal(t, tt.assignee, ref.Assignee)
			input := api.input(0)
			assert.Equal(t, "R_2", input["repositoryId"])
			assert.Equal(t, "I_1", input["issueId"])
		})
	}
}

func TestClient_SetAssignee(t *testing.T) {
	// Setup
	api, client := newFakeAPI(t, ok(`{"updateIssue":{"issue":{"id":"I_1","url":"","title":"","body":"","assignees":{"nodes":[{"login":"octo"}]}}}}`))

	// Execute
	login, err := client.SetAssignee(context.Background(), "I_1", "U_1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "octo", login)
	input := api.input(0)
	assert.Equal(t, "I_1", input["id"])
	assert.Equal(t, []any{"U_1"}, input["assigneeIds"])
}

func TestClient_CloseAndReopen(t *testing.T) {
	// Setup
	api, client := newFakeAPI(t,
		ok(`{"closeIssue":{"issue":{"id":"I_1"}}}`),
		ok(`{"reopenIssue":{"issue":{"id":"I_1","url":"https://github.com/acme/api/issues/7",
			"title":"Fix crash","body":"text\n> Issue open by Ann","assignees":{"nodes":[]}}}}`),
	)

	// Execute
	closeErr := client.CloseIssue(context.Background(), "I_1")
	ref, reopenErr := client.ReopenIssue(context.Background(), "I_1")

	// Assert
	require.NoError(t, closeErr)
	require.NoError(t, reopenErr)
	assert.Equal(t, "text\n> Issue open by Ann", ref.Body)
	assert.Empty(t, ref.Assignee)
	assert.Equal(t, "I_1", api.input(0)["issueId"])
	assert.Equal(t, "I_1", api.input(1)["issueId"])
}

func TestClient_AddToTriageBoard(t *testing.T) {
	// Setup
	api, client := newFakeAPI(t,
		ok(`{"addProjectV2ItemById":{"item":{"id":"PVTI_1"}}}`),
		ok(`{"updateProjectV2ItemFieldValue":{"projectV2Item":{"id":"PVTI_1"}}}`),
	)

	// Execute
	err := client.AddToTriageBoard(context.Background(), "I_1")

	// Assert
	require.NoError(t, err)
	added := api.input(0)
	assert.Equal(t, "PVT_1", added["projectId"])
	assert.Equal(t, "I_1", added["contentId"])
	status := api.input(1)
	assert.Equal(t, "PVT_1", status["projectId"])
	assert.Equal(t, "PVTI_1", status["itemId"])
	assert.Equal(t, "PVTF_1", status["fieldId"])
	assert.Equal(t, map[string]any{"singleSelectOptionId": "opt_todo"}, status["value"])
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		resp   fakeResponse
		reason domain.Reason
	}{
		{"graphql not found", fakeResponse{http.StatusOK, `{"data":null,"errors":[{"type":"NOT_FOUND","message":"Could not resolve"}]}`}, domain.ReasonNotFound},
		{"graphql forbidden", fakeResponse{http.StatusOK, `{"errors":[{"type":"FORBIDDEN","message":"Issues are disabled"}]}`}, domain.ReasonForbidden},
		{"graphql rate limited", fakeResponse{http.StatusOK, `{"errors":[{"type":"RATE_LIMITED","message":"API rate limit exceeded"}]}`}, domain.ReasonRateLimited},
		{"graphql other", fakeResponse{http.StatusOK, `{"errors":[{"message":"Title can't be blank"}]}`}, domain.ReasonOther},
		{"http 429", fakeResponse{http.StatusTooManyRequests, `{"message":"slow down"}`}, domain.ReasonRateLimited},
		{"http 403 rate limit", fakeResponse{http.StatusForbidden, `{"message":"You have exceeded a secondary rate limit"}`}, domain.ReasonRateLimited},
		{"http 401", fakeResponse{http.StatusUnauthorized, `{"message":"Bad credentials"}`}, domain.ReasonForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			_, client := newFakeAPI(t, tt.resp)

			// Execute
			_, err := client.CreateIssue(context.Background(), "R_1", "T", "")

			// Assert
			reason, isTracker := domain.ReasonOf(err)
			require.True(t, isTracker, "got %v", err)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestClient_ServerErrorIsTransport(t *testing.T) {
	// Setup
	_, client := newFakeAPI(t, fakeResponse{http.StatusBadGateway, "bad gateway"})

	// Execute
	err := client.CloseIssue(context.Background(), "I_1")

	// Assert
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, domain.IsTransient(err))
	assert.Equal(t, "github close issue", te.Op)
}

func TestClient_NetworkErrorIsTransport(t *testing.T) {
	// Setup
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	client, err := NewClient(Config{APIURL: url, Token: "t", Organization: "acme"})
	require.NoError(t, err)

	// Execute
	err = client.CloseIssue(context.Background(), "I_1")

	// Assert
	var te *domain.TransportError
	assert.ErrorAs(t, err, &te)
}

package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	perr "autoscrum/internal/platform/errors"
)

// IssueInput is the payload for CreateIssue
type IssueInput struct {
	ProjectKey  string
	IssueType   string // defaults to Story
	Summary     string
	Description string
	StoryPoints int
	Assignee    string // account id or email, empty leaves the issue unassigned
}

// IssueResult is the dispatch outcome of CreateIssue
// Failures are carried in Error rather than aborting the caller
type IssueResult struct {
	Success bool   `json:"success"`
	Key     string `json:"key,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CapacityMember is one roster entry from BoardCapacity
type CapacityMember struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	JobTitle          string   `json:"job_title"`
	ExperienceLevel   string   `json:"experience_level"`
	Skills            []string `json:"skills"`
	MaxCapacity       int      `json:"max_capacity"`
	CurrentLoad       int      `json:"current_load"`
	AvailableCapacity int      `json:"available_capacity"`
}

// CreateIssue creates a story-type issue and reports the outcome
// Transport and status failures land in the result, not in the error return,
// so batch callers can record them and move on
func (c *Client) CreateIssue(ctx context.Context, in IssueInput) IssueResult {
	if in.IssueType == "" {
		in.IssueType = "Story"
	}
	fields := map[string]any{
		"project":     map[string]any{"key": in.ProjectKey},
		"issuetype":   map[string]any{"name": in.IssueType},
		"summary":     in.Summary,
		"description": in.Description,
	}
	if in.StoryPoints > 0 {
		fields["customfield_10016"] = in.StoryPoints // story points estimate
	}
	if in.Assignee != "" {
		fields["assignee"] = map[string]any{"id": in.Assignee}
	}
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return IssueResult{Error: err.Error()}
	}

	resp, err := c.do(ctx, http.MethodPost, "/rest/api/2/issue", body)
	if err != nil {
		return IssueResult{Error: err.Error()}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("jira close body failed")
		}
	}()

	var out struct {
		Key string `json:"key"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(b, &out); err != nil {
		return IssueResult{Error: fmt.Sprintf("decode create response: %v", err)}
	}
	return IssueResult{Success: true, Key: out.Key}
}

// AssignIssue sets the assignee on an existing issue
func (c *Client) AssignIssue(ctx context.Context, issueKey, accountID string) error {
	body, err := json.Marshal(map[string]any{"accountId": accountID})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeTicketService, "jira marshal assignee failed")
	}
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/rest/api/2/issue/%s/assignee", issueKey), body)
	if err != nil {
		return err
	}
	return drainAndClose(resp.Body)
}

// BoardCapacity fetches the team roster with capacity data for a board
func (c *Client) BoardCapacity(ctx context.Context, boardID int) ([]CapacityMember, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rest/capacity/1.0/board/%d", boardID), nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("jira close body failed")
		}
	}()

	var out struct {
		Team []CapacityMember `json:"team"`
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTicketService, "jira read capacity failed")
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTicketService, "jira decode capacity failed")
	}
	return out.Team, nil
}

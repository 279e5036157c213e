// Package servicenow provides a minimal ServiceNow table API client for
// incident creation
package servicenow

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"autoscrum/internal/platform/config"
	perr "autoscrum/internal/platform/errors"
	"autoscrum/internal/platform/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
)

// Options configures the Client
type Options struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration

	MaxRetries int
	RetryBase  time.Duration
}

// FromConfig reads client options from ADAPTER_SERVICENOW_* env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ADAPTER_SERVICENOW_")
	return Options{
		BaseURL:    c.MustString("BASE_URL"),
		Username:   c.MustString("USERNAME"),
		Password:   c.MustString("PASSWORD"),
		Timeout:    c.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries: c.MayInt("MAX_RETRIES", defaultMaxRetry),
		RetryBase:  c.MayDuration("RETRY_BASE", defaultRetryBase),
	}
}

// IncidentInput is the payload for CreateIncident
type IncidentInput struct {
	ShortDescription string
	Description      string
	AssignmentGroup  string
	Priority         string
	CallerID         string
	ContactType      string
}

// IncidentResult is the dispatch outcome of CreateIncident
type IncidentResult struct {
	Success bool   `json:"success"`
	Number  string `json:"number,omitempty"`
	SysID   string `json:"sys_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client talks to one ServiceNow instance with basic auth
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("servicenow"),
		sleep: time.Sleep,
	}
}

// CreateIncident files an incident and reports the outcome
// Failures land in the result so batch callers can record them and move on
func (c *Client) CreateIncident(ctx context.Context, in IncidentInput) IncidentResult {
	if in.ContactType == "" {
		in.ContactType = "email"
	}
	body, err := json.Marshal(map[string]any{
		"short_description": in.ShortDescription,
		"description":       in.Description,
		"assignment_group":  in.AssignmentGroup,
		"priority":          in.Priority,
		"caller_id":         in.CallerID,
		"contact_type":      in.ContactType,
	})
	if err != nil {
		return IncidentResult{Error: err.Error()}
	}

	resp, err := c.post(ctx, "/api/now/table/incident", body)
	if err != nil {
		return IncidentResult{Error: err.Error()}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("servicenow close body failed")
		}
	}()

	var out struct {
		Result struct {
			Number string `json:"number"`
			SysID  string `json:"sys_id"`
		} `json:"result"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(b, &out); err != nil {
		return IncidentResult{Error: "decode incident response: " + err.Error()}
	}
	return IncidentResult{Success: true, Number: out.Result.Number, SysID: out.Result.SysID}
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	url := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeTicketService, "servicenow new request failed")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.opts.Username, c.opts.Password)

		resp, err := c.http.Do(req)
		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeTicketService, "servicenow do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("servicenow transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			return resp, nil
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeTicketService, "servicenow transient status %d", resp.StatusCode)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("status", resp.StatusCode).Msg("servicenow transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue
		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(perr.ErrorCodeTicketService, "servicenow unexpected status %d body %s", resp.StatusCode, string(b))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(15 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	return rc.Close()
}

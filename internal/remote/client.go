// Package remote talks to the cash register API over HTTP and implements
// register.Store on top of it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fret-backend/internal/envelope"
	"fret-backend/internal/identity"
	"fret-backend/internal/register"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const basePath = "/api/v1/cash-register"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/") + basePath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ register.Store = (*Client)(nil)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (c *Client) Open(ctx context.Context, user identity.CurrentUser, date register.Date) (register.Day, error) {
	q := url.Values{}
	if !date.IsZero() {
		q.Set("date", date.String())
	}
	return call[register.Day](ctx, c, user, http.MethodPost, "/open", q, struct{}{})
}

func (c *Client) Deposit(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (register.Day, error) {
	return call[register.Day](ctx, c, user, http.MethodPost, "/deposit", nil, amountRequest{Amount: amount})
}

func (c *Client) Withdraw(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (register.Day, error) {
	return call[register.Day](ctx, c, user, http.MethodPost, "/withdrawal", nil, amountRequest{Amount: amount})
}

func (c *Client) Close(ctx context.Context, user identity.CurrentUser) (register.Day, error) {
	return call[register.Day](ctx, c, user, http.MethodPost, "/close", nil, struct{}{})
}

func (c *Client) Summary(ctx context.Context, user identity.CurrentUser, date register.Date) (register.Day, error) {
	return call[register.Day](ctx, c, user, http.MethodGet, "/summary/"+date.String(), nil, nil)
}

func (c *Client) SummaryRange(ctx context.Context, user identity.CurrentUser, r register.DateRange) ([]register.Day, error) {
	return call[[]register.Day](ctx, c, user, http.MethodGet, "/summary-range", rangeQuery(r), nil)
}

func (c *Client) SiteSummaries(ctx context.Context, user identity.CurrentUser, siteID *uint, r register.DateRange) ([]register.Day, error) {
	q := rangeQuery(r)
	setID(q, "siteId", siteID)
	return call[[]register.Day](ctx, c, user, http.MethodGet, "/site-summaries", q, nil)
}

func (c *Client) GroupSummaries(ctx context.Context, user identity.CurrentUser, groupID *uint, r register.DateRange) ([]register.Day, error) {
	q := rangeQuery(r)
	setID(q, "groupId", groupID)
	return call[[]register.Day](ctx, c, user, http.MethodGet, "/summary/group", q, nil)
}

// Totals fetches the per-period breakdown the server computes over the
// registers visible to user.
func (c *Client) Totals(ctx context.Context, user identity.CurrentUser, scope register.Scope, r register.DateRange, p register.Period) (register.Breakdown, error) {
	q := rangeQuery(r)
	q.Set("period", string(p))
	setID(q, "siteId", scope.SiteID)
	setID(q, "groupId", scope.GroupID)
	return call[register.Breakdown](ctx, c, user, http.MethodGet, "/summary/totals", q, nil)
}

func (c *Client) OpenFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date register.Date) (register.Day, error) {
	q := url.Values{"date": {date.String()}}
	return call[register.Day](ctx, c, user, http.MethodPost, fmt.Sprintf("/%d/open", cashierID), q, struct{}{})
}

func (c *Client) CloseFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date register.Date) (register.Day, error) {
	q := url.Values{"date": {date.String()}}
	return call[register.Day](ctx, c, user, http.MethodPost, fmt.Sprintf("/%d/close", cashierID), q, struct{}{})
}

func (c *Client) Export(ctx context.Context, user identity.CurrentUser, format register.ExportFormat, r register.DateRange, f register.ExportFilter) (register.Report, error) {
	q := rangeQuery(r)
	setID(q, "targetUserId", f.TargetUserID)
	setID(q, "targetSiteId", f.TargetSiteID)
	setID(q, "targetGroupId", f.TargetGroupID)
	setID(q, "siteId", f.SiteID)
	setID(q, "groupId", f.GroupID)

	resp, err := c.do(ctx, user, http.MethodGet, "/summary/export/"+string(format), q, nil)
	if err != nil {
		return register.Report{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return register.Report{}, &register.TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return register.Report{}, failure(resp.StatusCode, body)
	}

	return register.Report{
		Filename:    attachmentName(resp.Header.Get("Content-Disposition"), format.Filename(r)),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        body,
	}, nil
}

func rangeQuery(r register.DateRange) url.Values {
	return url.Values{
		"startDate": {r.Start.String()},
		"endDate":   {r.End.String()},
	}
}

func setID(q url.Values, key string, id *uint) {
	if id != nil {
		q.Set(key, strconv.FormatUint(uint64(*id), 10))
	}
}

func (c *Client) do(ctx context.Context, user identity.CurrentUser, method, path string, q url.Values, payload any) (*http.Response, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if user.Token != "" {
		req.Header.Set("Authorization", "Bearer "+user.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &register.TransportError{Err: err}
	}
	return resp, nil
}

func call[T any](ctx context.Context, c *Client, user identity.CurrentUser, method, path string, q url.Values, payload any) (T, error) {
	var zero T

	resp, err := c.do(ctx, user, method, path, q, payload)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &register.TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, failure(resp.StatusCode, body)
	}

	var env envelope.Raw
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, &register.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if !env.Status {
		return zero, register.ErrorFromCode(env.Code, env.Message)
	}

	var data T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return zero, &register.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return data, nil
}

// failure turns a non-2xx answer into an error. Client errors that carry an
// envelope are business failures; everything else is transport.
func failure(status int, body []byte) error {
	var env envelope.Raw
	decoded := json.Unmarshal(body, &env) == nil && env.Message != ""

	if status == http.StatusUnauthorized || status >= 500 || !decoded {
		msg := http.StatusText(status)
		if decoded {
			msg = env.Message
		}
		return &register.TransportError{StatusCode: status, Err: errors.New(msg)}
	}
	return register.ErrorFromCode(env.Code, env.Message)
}

func attachmentName(disposition, fallback string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}

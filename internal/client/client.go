// Package client is the typed REST client for the appdeck API, used by the
// sync layer and the CLI subcommands.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Client wraps a resty client pointed at one appdeck server.
type Client struct {
	rest *resty.Client
}

// New builds a client for the server at baseURL.
func New(baseURL string) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{rest: rest}
}

// Response wrappers. Each resource is nested under its named key.
type appEnvelope struct {
	App types.App `json:"app"`
}

type appsEnvelope struct {
	Apps []types.App `json:"apps"`
}

type sharedEnvelope struct {
	App types.SharedApp `json:"app"`
}

type itemEnvelope struct {
	Item types.DataItem `json:"item"`
}

type itemsEnvelope struct {
	Items []types.DataItem `json:"items"`
}

type formEnvelope struct {
	Form types.Form `json:"form"`
}

type formsEnvelope struct {
	Forms []types.Form `json:"forms"`
}

type entryEnvelope struct {
	Entry types.FormEntry `json:"entry"`
}

// EntryPage is the paginated entry listing.
type EntryPage struct {
	Entries []types.FormEntry `json:"entries"`
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

type linkEnvelope struct {
	Link types.Link `json:"link"`
}

type linksEnvelope struct {
	Links []types.Link `json:"links"`
}

type errorBody struct {
	Error string `json:"error"`
}

// apiError maps a non-2xx response onto the shared error taxonomy so
// callers can branch with errors.Is.
func apiError(resp *resty.Response) error {
	msg := ""
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", types.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", types.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %s (status %d)", types.ErrBackendUnavailable, msg, resp.StatusCode())
	}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rest.R().SetContext(ctx).SetError(&errorBody{})
}

func transportErr(err error) error {
	return fmt.Errorf("%w: %v", types.ErrBackendUnavailable, err)
}

// --- apps ---

func (c *Client) ListApps(ctx context.Context) ([]types.App, error) {
	var body appsEnvelope
	resp, err := c.request(ctx).SetResult(&body).Get("/apps")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return body.Apps, nil
}

func (c *Client) GetApp(ctx context.Context, id string) (*types.App, error) {
	var body appEnvelope
	resp, err := c.request(ctx).SetResult(&body).Get("/apps/" + id)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.App, nil
}

// GetShared resolves a public share code. Unpublished and unknown codes both
// come back as ErrNotFound.
func (c *Client) GetShared(ctx context.Context, code string) (*types.SharedApp, error) {
	var body sharedEnvelope
	resp, err := c.request(ctx).SetResult(&body).Get("/apps/share/" + code)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.App, nil
}

func (c *Client) CreateApp(ctx context.Context, in types.NewApp) (*types.App, error) {
	var body appEnvelope
	resp, err := c.request(ctx).SetBody(in).SetResult(&body).Post("/apps")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.App, nil
}

func (c *Client) UpdateApp(ctx context.Context, id string, patch types.AppPatch) (*types.App, error) {
	var body appEnvelope
	resp, err := c.request(ctx).SetBody(patch).SetResult(&body).Put("/apps/" + id)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.App, nil
}

func (c *Client) DeleteApp(ctx context.Context, id string) error {
	resp, err := c.request(ctx).Delete("/apps/" + id)
	if err != nil {
		return transportErr(err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// --- data items ---

func (c *Client) ListItems(ctx context.Context, appID string) ([]types.DataItem, error) {
	var body itemsEnvelope
	req := c.request(ctx).SetResult(&body)
	if appID != "" {
		req.SetQueryParam("appId", appID)
	}
	resp, err := req.Get("/data-items")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return body.Items, nil
}

func (c *Client) CreateItem(ctx context.Context, in types.NewDataItem) (*types.DataItem, error) {
	var body itemEnvelope
	resp, err := c.request(ctx).SetBody(in).SetResult(&body).Post("/data-items")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.Item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id string, patch types.DataItemPatch) (*types.DataItem, error) {
	var body itemEnvelope
	resp, err := c.request(ctx).SetBody(patch).SetResult(&body).Put("/data-items/" + id)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.Item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	resp, err := c.request(ctx).Delete("/data-items/" + id)
	if err != nil {
		return transportErr(err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// --- forms ---

func (c *Client) ListForms(ctx context.Context, appID string) ([]types.Form, error) {
	var body formsEnvelope
	req := c.request(ctx).SetResult(&body)
	if appID != "" {
		req.SetQueryParam("appId", appID)
	}
	resp, err := req.Get("/forms")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return body.Forms, nil
}

func (c *Client) GetForm(ctx context.Context, id string) (*types.Form, error) {
	var body formEnvelope
	resp, err := c.request(ctx).SetResult(&body).Get("/forms/" + id)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.Form, nil
}

func (c *Client) CreateForm(ctx context.Context, in types.NewForm) (*types.Form, error) {
	var body formEnvelope
	resp, err := c.request(ctx).SetBody(in).SetResult(&body).Post("/forms")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.Form, nil
}

func (c *Client) UpdateForm(ctx context.Context, id string, patch types.FormPatch) (*types.Form, error) {
	var body formEnvelope
	resp, err := c.request(ctx).SetBody(patch).SetResult(&body).Put("/forms/" + id)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.Form, nil
}

func (c *Client) DeleteForm(ctx context.Context, id string) error {
	resp, err := c.request(ctx).Delete("/forms/" + id)
	if err != nil {
		return transportErr(err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// --- entries ---

func (c *Client) ListEntries(ctx context.Context, formID string, limit, offset int) (*EntryPage, error) {
	var body EntryPage
	req := c.request(ctx).SetResult(&body)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		req.SetQueryParam("offset", strconv.Itoa(offset))
	}
	resp, err := req.Get("/forms/" + formID + "/entries")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body, nil
}

// SubmitEntry posts a public form submission.
func (c *Client) SubmitEntry(ctx context.Context, in types.NewEntry) (*types.FormEntry, error) {
	var body entryEnvelope
	resp, err := c.request(ctx).SetBody(in).SetResult(&body).Post("/entries")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.Entry, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	resp, err := c.request(ctx).Delete("/entries/" + id)
	if err != nil {
		return transportErr(err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// --- links ---

func (c *Client) ListLinks(ctx context.Context, appID string) ([]types.Link, error) {
	var body linksEnvelope
	req := c.request(ctx).SetResult(&body)
	if appID != "" {
		req.SetQueryParam("appId", appID)
	}
	resp, err := req.Get("/links")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return body.Links, nil
}

func (c *Client) CreateLink(ctx context.Context, in types.NewLink) (*types.Link, error) {
	var body linkEnvelope
	resp, err := c.request(ctx).SetBody(in).SetResult(&body).Post("/links")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body.Link, nil
}

func (c *Client) DeleteLink(ctx context.Context, id string) error {
	resp, err := c.request(ctx).Delete("/links/" + id)
	if err != nil {
		return transportErr(err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// --- data sources (bare responses, no wrapper keys) ---

func (c *Client) ListSources(ctx context.Context, appID string) ([]types.DataSource, error) {
	var body []types.DataSource
	req := c.request(ctx).SetResult(&body)
	if appID != "" {
		req.SetQueryParam("appId", appID)
	}
	resp, err := req.Get("/data-sources")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return body, nil
}

func (c *Client) CreateSource(ctx context.Context, in types.NewDataSource) (*types.DataSource, error) {
	var body types.DataSource
	resp, err := c.request(ctx).SetBody(in).SetResult(&body).Post("/data-sources")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &body, nil
}

func (c *Client) DeleteSource(ctx context.Context, id string) error {
	resp, err := c.request(ctx).Delete("/data-sources/" + id)
	if err != nil {
		return transportErr(err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// ListSourceItems reads the alternate item surface scoped to a data source.
func (c *Client) ListSourceItems(ctx context.Context, sourceID string, favoritesOnly bool) ([]types.DataItem, error) {
	var body []types.DataItem
	req := c.request(ctx).SetResult(&body)
	if favoritesOnly {
		req.SetQueryParam("favorites", "true")
	}
	resp, err := req.Get("/data-sources/" + sourceID + "/items")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return body, nil
}

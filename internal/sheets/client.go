package sheets

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cast"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// ValuesClient is the slice of the spreadsheet values API the backend needs:
// read a range, append a row, overwrite a row range, and clear a row range.
// Production uses the HTTP implementation; tests use an in-memory fake.
type ValuesClient interface {
	GetRange(ctx context.Context, rng string) ([][]string, error)
	Append(ctx context.Context, rng string, row []string) error
	Update(ctx context.Context, rng string, row []string) error
	Clear(ctx context.Context, rng string) error
}

// defaultBaseURL is the public Sheets v4 values endpoint.
const defaultBaseURL = "https://sheets.googleapis.com"

// httpValuesClient talks to the Sheets v4 values REST API.
type httpValuesClient struct {
	rest          *resty.Client
	spreadsheetID string
}

// newHTTPValuesClient builds a client from the sheets config.
func newHTTPValuesClient(cfg types.SheetsConfig) *httpValuesClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	rest := resty.New().SetBaseURL(base)
	if cfg.Token != "" {
		rest.SetAuthToken(cfg.Token)
	}
	return &httpValuesClient{rest: rest, spreadsheetID: cfg.SpreadsheetID}
}

// valuesBody is the request/response shape of the values API. Cells arrive
// as arbitrary JSON scalars and are coerced to strings.
type valuesBody struct {
	Values [][]any `json:"values"`
}

func (c *httpValuesClient) GetRange(ctx context.Context, rng string) ([][]string, error) {
	var body valuesBody
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/v4/spreadsheets/%s/values/%s", c.spreadsheetID, rng))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: values get %s: status %d", types.ErrBackendUnavailable, rng, resp.StatusCode())
	}

	rows := make([][]string, len(body.Values))
	for i, cells := range body.Values {
		row := make([]string, len(cells))
		for j, cell := range cells {
			row[j] = cast.ToString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (c *httpValuesClient) Append(ctx context.Context, rng string, row []string) error {
	return c.write(ctx,
		fmt.Sprintf("/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED", c.spreadsheetID, rng),
		row)
}

func (c *httpValuesClient) Update(ctx context.Context, rng string, row []string) error {
	payload := valuesBody{Values: [][]any{toAnyRow(row)}}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(payload).
		Put(fmt.Sprintf("/v4/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED", c.spreadsheetID, rng))
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: values update %s: status %d", types.ErrBackendUnavailable, rng, resp.StatusCode())
	}
	return nil
}

func (c *httpValuesClient) Clear(ctx context.Context, rng string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/v4/spreadsheets/%s/values/%s:clear", c.spreadsheetID, rng))
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: values clear %s: status %d", types.ErrBackendUnavailable, rng, resp.StatusCode())
	}
	return nil
}

func (c *httpValuesClient) write(ctx context.Context, url string, row []string) error {
	payload := valuesBody{Values: [][]any{toAnyRow(row)}}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(payload).
		Post(url)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: values append: status %d", types.ErrBackendUnavailable, resp.StatusCode())
	}
	return nil
}

func toAnyRow(row []string) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}

// Package ibge is a small client for the IBGE localities API, used to expand
// a state abbreviation into its full official name
package ibge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "guia/internal/platform/errors"
	"guia/internal/platform/logger"
)

const (
	baseURLDefault = "https://servicodados.ibge.gov.br/api/v1"
	defaultTimeout = 10 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// State is one federative unit
type State struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"sigla"`
	Name         string `json:"nome"`
}

// Municipality is one municipality row
type Municipality struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// Client talks to the IBGE localities endpoints
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("ibge"),
	}
}

// StateByAbbreviation resolves a two-letter UF into its full record
func (c *Client) StateByAbbreviation(ctx context.Context, uf string) (State, error) {
	var st State
	if err := c.getJSON(ctx, "/localidades/estados/"+uf, &st); err != nil {
		return State{}, err
	}
	if st.ID == 0 {
		return State{}, perr.NotFoundf("unknown state %q", uf)
	}
	return st, nil
}

// MunicipalitiesOf lists the municipalities of one UF
func (c *Client) MunicipalitiesOf(ctx context.Context, uf string) ([]Municipality, error) {
	var ms []Municipality
	if err := c.getJSON(ctx, "/localidades/estados/"+uf+"/municipios", &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+path, nil)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "ibge new request failed")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ibge do failed")
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("ibge http response")

	if resp.StatusCode != http.StatusOK {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return perr.Newf(perr.ErrorCodeUnavailable, "ibge unexpected status %d body %s", resp.StatusCode, string(tail))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "ibge bad response body")
	}
	return nil
}

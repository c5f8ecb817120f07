package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/memoria/internal/client/models"
)

const (
	memorialsPath = "/rest/v1/memorials"

	// PostgREST passes through the Postgres code for an unparsable filter value
	codeInvalidText = "22P02"
)

func (c *RESTClient) SelectMemorials(ctx context.Context, q models.MemorialQuery) ([]models.MemorialRow, error) {
	c.ensureRestored(ctx)

	v := url.Values{}
	v.Set("select", "*")
	v.Set("order", "created_at.desc")
	if q.ID != "" {
		v.Set("id", "eq."+q.ID)
	}
	if q.CreatedBy != "" {
		v.Set("created_by", "eq."+q.CreatedBy)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	var rows []models.MemorialRow
	err := c.send(ctx, request{method: http.MethodGet, path: memorialsPath, query: v, withSession: true}, &rows)
	if err != nil {
		// a malformed id cannot match any row
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeInvalidText {
			return []models.MemorialRow{}, nil
		}
		return nil, err
	}
	if rows == nil {
		rows = []models.MemorialRow{}
	}
	return rows, nil
}

func (c *RESTClient) InsertMemorial(ctx context.Context, row models.MemorialRow) (*models.MemorialRow, error) {
	c.ensureRestored(ctx)

	r, err := jsonRequest(http.MethodPost, memorialsPath, nil, row)
	if err != nil {
		return nil, err
	}
	r.withSession = true
	r.header = http.Header{"Prefer": {"return=representation"}}

	var rows []models.MemorialRow
	if err := c.send(ctx, r, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("insert returned no row")
	}
	return &rows[0], nil
}

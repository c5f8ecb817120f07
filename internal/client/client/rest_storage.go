package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/memoria/internal/common"
)

// Upload stores data under key in the client's bucket. Existing objects are
// never replaced.
func (c *RESTClient) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	c.ensureRestored(ctx)

	if data == nil {
		data = []byte{}
	}
	r := request{
		method:      http.MethodPost,
		path:        c.objectPath("", key),
		header:      http.Header{http.CanonicalHeaderKey(common.UpsertHeaderName): {"false"}},
		body:        data,
		contentType: contentType,
		withSession: true,
	}
	return c.send(ctx, r, nil)
}

func (c *RESTClient) PublicURL(key string) string {
	return c.baseURL + c.objectPath("public", key)
}

func (c *RESTClient) objectPath(visibility, key string) string {
	parts := []string{"/storage/v1/object"}
	if visibility != "" {
		parts = append(parts, visibility)
	}
	parts = append(parts, url.PathEscape(c.bucket), escapeKey(key))
	return strings.Join(parts, "/")
}

func escapeKey(key string) string {
	segs := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

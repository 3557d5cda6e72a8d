package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xab-mack/mythx-cli/internal/model"
)

func (c *Client) CreateGroup(ctx context.Context, name string) (*model.Group, error) {
	body := map[string]string{}
	if name != "" {
		body["groupName"] = name
	}
	var out model.Group
	if err := c.do(ctx, request{method: http.MethodPost, path: "/v1/analysis-groups", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SealGroup closes a group so no further analyses can be added.
func (c *Client) SealGroup(ctx context.Context, id string) (*model.Group, error) {
	var out model.Group
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/v1/analysis-groups/" + url.PathEscape(id),
		body:   map[string]string{"type": "seal_group"},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GroupStatus(ctx context.Context, id string) (*model.Group, error) {
	var out model.Group
	if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/analysis-groups/" + url.PathEscape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGroups returns the n most recent groups.
func (c *Client) ListGroups(ctx context.Context, n int) (*model.GroupList, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	result := &model.GroupList{}
	for len(result.Groups) < n {
		q := url.Values{"offset": {strconv.Itoa(len(result.Groups))}}
		var page model.GroupList
		if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/analysis-groups", query: q}, &page); err != nil {
			return nil, err
		}
		result.Total = page.Total
		if len(page.Groups) == 0 {
			break
		}
		result.Groups = append(result.Groups, page.Groups...)
	}
	if len(result.Groups) > n {
		result.Groups = result.Groups[:n]
	}
	return result, nil
}

// Version returns the versions of the API and its analysis engines.
func (c *Client) Version(ctx context.Context) (*model.Version, error) {
	var out model.Version
	if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/version", anonymous: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

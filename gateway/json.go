package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// GetJSON dispatches a GET and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	response, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(response, out)
}

// PostJSON dispatches a POST with a JSON body, decoding any response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	response, err := c.Do(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return err
	}
	return decode(response, out)
}

// PatchJSON dispatches a partial update, decoding any response into out.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out any) error {
	response, err := c.Do(ctx, http.MethodPatch, path, nil, in)
	if err != nil {
		return err
	}
	return decode(response, out)
}

// PutJSON dispatches a full replacement, decoding any response into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	response, err := c.Do(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return err
	}
	return decode(response, out)
}

// Delete dispatches a DELETE, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func decode(response *Response, out any) error {
	if out == nil || len(response.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(response.Body, out); err != nil {
		return errors.Wrap(err, "gateway decode")
	}
	return nil
}

//nolint:ireturn
package apiclient

import (
	"context"
	"net/http"
)

func GetJSON[T any](ctx context.Context, c *Client, path string, params Params) (T, error) {
	return DoJSON[T](ctx, c, http.MethodGet, path, params)
}

func PostJSON[T any](ctx context.Context, c *Client, path string, params Params) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPost, path, params)
}

func PutJSON[T any](ctx context.Context, c *Client, path string, params Params) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPut, path, params)
}

func PatchJSON[T any](ctx context.Context, c *Client, path string, params Params) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPatch, path, params)
}

func DoJSON[T any](ctx context.Context, c *Client, method, path string, params Params) (T, error) {
	var result T

	resp, err := c.Do(ctx, method, path, params)
	if err != nil {
		return result, err
	}

	err = resp.Decode(&result)

	return result, err
}

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chhengkhim/confessboard/pkg/client"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// ErrNoData is returned when a successful response carries no data.
var ErrNoData = errors.New("response has no data")

// envelope is the backend's success shape: {success, message, data, meta}.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta"`
}

func (e *envelope) hasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// paginator is a page nested in data, as some list endpoints return it.
type paginator[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// send issues one request and decodes its envelope. Non-2xx responses
// and {success:false} bodies come back as *client.Failure.
func send(ctx context.Context, c *client.Client, method, url string, prepare func(*resty.Request)) (*envelope, error) {
	req := c.R(ctx)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, url)
	if err := client.CheckResponse(resp, err); err != nil {
		return nil, err
	}

	env := &envelope{}
	if len(resp.Body()) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(resp.Body(), env); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	if env.Success != nil && !*env.Success {
		return nil, &client.Failure{
			StatusCode: resp.StatusCode(),
			Kind:       client.KindUnknown,
			Message:    orDefault(env.Message, "The request was not successful."),
		}
	}
	return env, nil
}

func decodeOne[T any](env *envelope) (*T, error) {
	if !env.hasData() {
		return nil, ErrNoData
	}
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return &v, nil
}

func decodePage[T any](env *envelope) (*Page[T], error) {
	page := &Page[T]{Items: []T{}}
	if env.hasData() {
		var items []T
		if err := json.Unmarshal(env.Data, &items); err == nil {
			page.Items = items
		} else {
			var nested paginator[T]
			if err := json.Unmarshal(env.Data, &nested); err != nil {
				return nil, fmt.Errorf("decode list: %w", err)
			}
			if nested.Data != nil {
				page.Items = nested.Data
			}
			page.Meta = Meta{
				CurrentPage: nested.CurrentPage,
				PerPage:     nested.PerPage,
				Total:       nested.Total,
				LastPage:    nested.LastPage,
			}
		}
	}

	if env.Meta != nil {
		page.Meta = *env.Meta
	}
	if page.Meta == (Meta{}) {
		// Unpaginated endpoint: the whole list is one page
		page.Meta = Meta{CurrentPage: 1, PerPage: len(page.Items), Total: len(page.Items), LastPage: 1}
	}
	return page, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Resource is a REST collection of T: List/Get/Create/Update/Delete
// against Collection and Collection/{id}.
type Resource[T any] struct {
	client     *client.Client
	Name       string
	Collection string
}

// NewResource binds a collection path such as "/api/tags"
func NewResource[T any](c *client.Client, name, collection string) *Resource[T] {
	return &Resource[T]{client: c, Name: name, Collection: strings.TrimRight(collection, "/")}
}

// At returns the same resource under another collection path
func (r *Resource[T]) At(collection string) *Resource[T] {
	return NewResource[T](r.client, r.Name, collection)
}

// Member returns the path of one record, with optional sub-paths
func (r *Resource[T]) Member(id int64, sub ...string) string {
	path := fmt.Sprintf("%s/%d", r.Collection, id)
	if len(sub) > 0 {
		path += "/" + strings.Join(sub, "/")
	}
	return path
}

// Client returns the client the resource sends through
func (r *Resource[T]) Client() *client.Client {
	return r.client
}

// List fetches one page
func (r *Resource[T]) List(ctx context.Context, q ListQuery) (*Page[T], error) {
	logger.Debug("Listing "+r.Name, "page", q.Page, "per_page", q.PerPage, "search", q.Search)

	env, err := send(ctx, r.client, http.MethodGet, r.Collection, func(req *resty.Request) {
		req.SetQueryParams(q.Params())
	})
	if err != nil {
		return nil, err
	}
	return decodePage[T](env)
}

// Get fetches one record
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	logger.Debug("Getting "+r.Name, "id", id)

	env, err := send(ctx, r.client, http.MethodGet, r.Member(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](env)
}

// Create posts body to the collection and returns the stored record
func (r *Resource[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	logger.Debug("Creating " + r.Name)

	env, err := send(ctx, r.client, http.MethodPost, r.Collection, func(req *resty.Request) {
		req.SetBody(body)
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[T](env)
}

// Update puts body to the record and returns the stored record
func (r *Resource[T]) Update(ctx context.Context, id int64, body interface{}) (*T, error) {
	logger.Debug("Updating "+r.Name, "id", id)

	env, err := send(ctx, r.client, http.MethodPut, r.Member(id), func(req *resty.Request) {
		req.SetBody(body)
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[T](env)
}

// Delete removes the record
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	logger.Debug("Deleting "+r.Name, "id", id)

	_, err := send(ctx, r.client, http.MethodDelete, r.Member(id), nil)
	return err
}

// Do sends an arbitrary verb on a member path and decodes T from data
func (r *Resource[T]) Do(ctx context.Context, method, path string, body interface{}) (*T, error) {
	env, err := send(ctx, r.client, method, path, func(req *resty.Request) {
		if body != nil {
			req.SetBody(body)
		}
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[T](env)
}

// Upload is a file attached to a multipart request.
type Upload struct {
	FileName string
	Reader   io.Reader
}

func multipart(req *resty.Request, field string, file *Upload, fields map[string]string) {
	req.SetFormData(fields)
	if file != nil {
		req.SetFileReader(field, file.FileName, file.Reader)
	}
}

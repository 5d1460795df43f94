package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// PostQuery narrows the confession feed
type PostQuery struct {
	ListQuery
	Tag    string
	Status string
}

func (q PostQuery) list() ListQuery {
	return q.ListQuery.With("tag", q.Tag).With("status", q.Status)
}

// PostService manages confessions
type PostService struct {
	*Resource[Post]
}

// ListPosts fetches one page of the feed
func (s *PostService) ListPosts(ctx context.Context, q PostQuery) (*Page[Post], error) {
	return s.List(ctx, q.list())
}

// CreatePost submits a confession. With an image the request goes out
// as multipart/form-data.
func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest, image *Upload) (*Post, error) {
	if image == nil {
		return s.Create(ctx, req)
	}
	logger.Debug("Creating post with image", "file", image.FileName)

	env, err := send(ctx, s.client, http.MethodPost, s.Collection, func(r *resty.Request) {
		multipart(r, "image", image, postFields(req))
		for _, id := range req.TagIDs {
			r.FormData.Add("tag_ids[]", strconv.FormatInt(id, 10))
		}
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[Post](env)
}

func postFields(req CreatePostRequest) map[string]string {
	return map[string]string{
		"title":        req.Title,
		"content":      req.Content,
		"is_anonymous": strconv.FormatBool(req.IsAnonymous),
	}
}

// UpdatePost edits a confession
func (s *PostService) UpdatePost(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error) {
	return s.Update(ctx, id, req)
}

// ParseTagIDs reads a comma separated list of tag ids
func ParseTagIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/chhengkhim/confessboard/pkg/api"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/output"
	"github.com/chhengkhim/confessboard/pkg/store"
)

const (
	maxTitleLength   = 255
	maxContentLength = 5000
)

// PostService provides operations on confessions
type PostService struct {
	*Env
}

// NewPostService creates a new post service
func NewPostService(env *Env) *PostService {
	return &PostService{Env: env}
}

var postHeaders = []string{"ID", "Title", "Author", "Likes", "Comments", "Status"}

func postListQuery(q api.PostQuery) api.ListQuery {
	lq := q.ListQuery
	if q.Tag != "" {
		lq = lq.With("tag", q.Tag)
	}
	if q.Status != "" {
		lq = lq.With("status", q.Status)
	}
	return lq
}

// List shows one page of the feed
func (s *PostService) List(ctx context.Context, q api.PostQuery) error {
	if err := s.Store.Posts.Fetch(ctx, postListQuery(q)); err != nil {
		return err
	}
	return listResult(s.Out, s.Store.Posts.Snapshot(), postHeaders, postRow)
}

// Search reads search terms line by line until an empty line or the end
// of input. Terms entered within the debounce delay collapse into one
// request, and every settled search prints its results.
func (s *PostService) Search(ctx context.Context, q api.PostQuery) error {
	slice := s.Store.Posts
	base := postListQuery(q)

	var (
		mu       sync.Mutex
		printErr error
	)
	unsubscribe := slice.Subscribe(func(st store.State[api.Post]) {
		if st.IsLoading(store.OpFetch) || st.Query.Search == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if st.Error != nil {
			s.Out.Error("Search %q failed: %s", st.Query.Search, st.Error.Message)
			return
		}
		s.Out.Info("Results for %q", st.Query.Search)
		if err := listResult(s.Out, st, postHeaders, postRow); err != nil && printErr == nil {
			printErr = err
		}
	})
	defer unsubscribe()

	for ctx.Err() == nil {
		term, err := s.Prompt.String("Search: ")
		if errors.Is(err, io.EOF) || (err == nil && term == "") {
			break
		}
		if err != nil {
			return err
		}
		lq := base
		lq.Search = term
		lq.Page = 1
		slice.SetFilter(lq)
	}
	slice.FlushFilter()

	if err := ctx.Err(); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return printErr
}

func postRow(p api.Post) []string {
	title := output.Truncate(p.Title, 40)
	if p.IsLiked {
		title += " ♥"
	}
	return []string{
		fmt.Sprint(p.ID),
		title,
		author(p.User, p.IsAnonymous),
		fmt.Sprint(p.LikesCount),
		fmt.Sprint(p.CommentsCount),
		p.Status,
	}
}

// Show prints one confession
func (s *PostService) Show(ctx context.Context, id int64) error {
	post, err := s.Store.Posts.Select(ctx, id)
	if err != nil {
		return err
	}
	return printPost(s.Out, post)
}

func printPost(out *output.Printer, p *api.Post) error {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
	}
	fields := []output.Field{
		{Key: "id", Value: p.ID},
		{Key: "title", Value: p.Title},
		{Key: "author", Value: author(p.User, p.IsAnonymous)},
		{Key: "status", Value: p.Status},
		{Key: "likes", Value: p.LikesCount},
		{Key: "comments", Value: p.CommentsCount},
		{Key: "liked", Value: yesNo(p.IsLiked)},
	}
	if len(tags) > 0 {
		fields = append(fields, output.Field{Key: "tags", Value: strings.Join(tags, ", ")})
	}
	if p.ImageURL != "" {
		fields = append(fields, output.Field{Key: "image", Value: p.ImageURL})
	}
	if p.RejectReason != "" {
		fields = append(fields, output.Field{Key: "rejected", Value: p.RejectReason})
	}
	fields = append(fields,
		output.Field{Key: "created", Value: p.CreatedAt},
		output.Field{Key: "content", Value: p.Content},
	)
	return out.Record("Confession", fields)
}

// CreateInput holds a new confession
type CreateInput struct {
	Title     string
	Content   string
	Anonymous bool
	Tags      string
	ImagePath string
}

// Create submits a confession for moderation
func (s *PostService) Create(ctx context.Context, in CreateInput) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	var err error
	if in.Title == "" {
		if in.Title, err = s.Prompt.String("Title: "); err != nil {
			return err
		}
	}
	if in.Content == "" {
		if in.Content, err = s.Prompt.Multiline("Confession", 50); err != nil {
			return err
		}
	}
	if err := validatePost(in.Title, in.Content); err != nil {
		return err
	}
	tagIDs, err := api.ParseTagIDs(in.Tags)
	if err != nil {
		return cerrors.InvalidInputError("tags", err.Error())
	}

	req := api.CreatePostRequest{
		Title:       in.Title,
		Content:     in.Content,
		IsAnonymous: in.Anonymous,
		TagIDs:      tagIDs,
	}

	var image *api.Upload
	if in.ImagePath != "" {
		upload, closeFn, err := openUpload(in.ImagePath)
		if err != nil {
			return err
		}
		defer closeFn()
		image = upload
	}

	post, err := s.Store.Posts.CreateWithImage(ctx, req, image)
	if err != nil {
		return err
	}
	s.Out.Success("Confession %d submitted (status: %s)", post.ID, post.Status)
	return nil
}

func validatePost(title, content string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return cerrors.InvalidInputError("title", "title cannot be empty")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return cerrors.InvalidInputError("title", fmt.Sprintf("title exceeds %d characters", maxTitleLength))
	case strings.TrimSpace(content) == "":
		return cerrors.InvalidInputError("content", "content cannot be empty")
	case utf8.RuneCountInString(content) > maxContentLength:
		return cerrors.InvalidInputError("content", fmt.Sprintf("content exceeds %d characters", maxContentLength))
	}
	return nil
}

// Update edits an own confession
func (s *PostService) Update(ctx context.Context, id int64, title, content, tags string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	tagIDs, err := api.ParseTagIDs(tags)
	if err != nil {
		return cerrors.InvalidInputError("tags", err.Error())
	}
	req := api.UpdatePostRequest{Title: title, Content: content, TagIDs: tagIDs}
	if req.Title == "" && req.Content == "" && len(req.TagIDs) == 0 {
		return cerrors.InvalidInputError("post", "nothing to update")
	}

	post, err := s.Store.API.Posts.UpdatePost(ctx, id, req)
	if err != nil {
		return err
	}
	s.Store.Posts.Patch(id, func(p *api.Post) { *p = *post })
	s.Out.Success("Confession %d updated", post.ID)
	return nil
}

// Delete removes an own confession
func (s *PostService) Delete(ctx context.Context, id int64, force bool) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	ok, err := s.confirm(force, fmt.Sprintf("Delete confession %d?", id))
	if err != nil || !ok {
		return err
	}
	if err := s.Store.Posts.Delete(ctx, id); err != nil {
		return err
	}
	s.Out.Success("Confession %d deleted", id)
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chhengkhim/confessboard/pkg/api"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/output"
)

// CatalogService manages tags and FAQs. Reads are public, writes are
// admin only on the server.
type CatalogService struct {
	*Env
}

// NewCatalogService creates a new catalog service
func NewCatalogService(env *Env) *CatalogService {
	return &CatalogService{Env: env}
}

// ListTags shows the tags
func (s *CatalogService) ListTags(ctx context.Context, q api.ListQuery) error {
	if err := s.Store.Tags.Fetch(ctx, q); err != nil {
		return err
	}
	return listResult(s.Out, s.Store.Tags.Snapshot(), []string{"ID", "Name", "Posts"}, func(t api.Tag) []string {
		return []string{fmt.Sprint(t.ID), t.Name, fmt.Sprint(t.PostsCount)}
	})
}

// CreateTag adds a tag
func (s *CatalogService) CreateTag(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return cerrors.InvalidInputError("name", "tag name cannot be empty")
	}
	tag, err := s.Store.Tags.Create(ctx, api.TagRequest{Name: name})
	if err != nil {
		return err
	}
	s.Out.Success("Tag %d (%s) created", tag.ID, tag.Name)
	return nil
}

// RenameTag changes a tag's name
func (s *CatalogService) RenameTag(ctx context.Context, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return cerrors.InvalidInputError("name", "tag name cannot be empty")
	}
	tag, err := s.Store.Tags.Update(ctx, id, api.TagRequest{Name: name})
	if err != nil {
		return err
	}
	s.Out.Success("Tag %d renamed to %s", tag.ID, tag.Name)
	return nil
}

// DeleteTag removes a tag
func (s *CatalogService) DeleteTag(ctx context.Context, id int64, force bool) error {
	ok, err := s.confirm(force, fmt.Sprintf("Delete tag %d?", id))
	if err != nil || !ok {
		return err
	}
	if err := s.Store.Tags.Delete(ctx, id); err != nil {
		return err
	}
	s.Out.Success("Tag %d deleted", id)
	return nil
}

// ListFAQs shows the FAQs
func (s *CatalogService) ListFAQs(ctx context.Context, q api.ListQuery) error {
	if err := s.Store.FAQs.Fetch(ctx, q); err != nil {
		return err
	}
	st := s.Store.FAQs.Snapshot()
	if s.Out.Format != output.FormatText {
		return listResult(s.Out, st, []string{"ID", "Question", "Published"}, func(f api.FAQ) []string {
			return []string{fmt.Sprint(f.ID), output.Truncate(f.Question, 60), yesNo(f.IsPublished)}
		})
	}
	if len(st.Items) == 0 {
		s.Out.Info("No FAQs.")
		return nil
	}
	for _, f := range st.Items {
		fmt.Fprintf(s.Out.Out, "Q%d. %s\n    %s\n\n", f.ID, f.Question, f.Answer)
	}
	return nil
}

// SaveFAQ creates an FAQ, or updates it when id is set
func (s *CatalogService) SaveFAQ(ctx context.Context, id int64, req api.FAQRequest) error {
	if id == 0 && (strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "") {
		return cerrors.InvalidInputError("faq", "question and answer are required")
	}
	var (
		faq *api.FAQ
		err error
	)
	if id == 0 {
		faq, err = s.Store.FAQs.Create(ctx, req)
	} else {
		faq, err = s.Store.FAQs.Update(ctx, id, req)
	}
	if err != nil {
		return err
	}
	s.Out.Success("FAQ %d saved", faq.ID)
	return nil
}

// DeleteFAQ removes an FAQ
func (s *CatalogService) DeleteFAQ(ctx context.Context, id int64, force bool) error {
	ok, err := s.confirm(force, fmt.Sprintf("Delete FAQ %d?", id))
	if err != nil || !ok {
		return err
	}
	if err := s.Store.FAQs.Delete(ctx, id); err != nil {
		return err
	}
	s.Out.Success("FAQ %d deleted", id)
	return nil
}

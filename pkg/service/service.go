// Package service implements what each command does: gather input,
// dispatch through the store and print the result.
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chhengkhim/confessboard/pkg/api"
	cerrors "github.com/chhengkhim/confessboard/pkg/errors"
	"github.com/chhengkhim/confessboard/pkg/output"
	"github.com/chhengkhim/confessboard/pkg/prompter"
	"github.com/chhengkhim/confessboard/pkg/session"
	"github.com/chhengkhim/confessboard/pkg/store"
)

// Env is what every service works with
type Env struct {
	Store  *store.Store
	Prompt *prompter.Prompter
	Out    *output.Printer
}

// Session returns the session behind the store's client
func (e *Env) Session() *session.Session {
	return e.Store.API.Client.Session()
}

// requireLogin fails early when no token is held
func (e *Env) requireLogin() error {
	if !e.Session().IsAuthenticated() {
		return cerrors.NotLoggedInError()
	}
	return nil
}

// confirm asks unless force is set
func (e *Env) confirm(force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	return e.Prompt.Confirm(question)
}

// ParseID reads a positive numeric id argument
func ParseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, cerrors.InvalidInputError(field, fmt.Sprintf("%q is not a valid id", raw))
	}
	return id, nil
}

// openUpload opens a file for a multipart request. The caller closes it.
func openUpload(path string) (*api.Upload, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, cerrors.FileNotFoundError(path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &api.Upload{FileName: filepath.Base(path), Reader: f}, f.Close, nil
}

func pageFooter(p store.Pagination) string {
	return fmt.Sprintf("Page %d of %d (%d total)", p.Page, max(p.LastPage, 1), p.Total)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func author(u *api.User, anonymous bool) string {
	if anonymous || u == nil {
		return "anonymous"
	}
	return u.Name
}

// listResult prints a fetched slice as a table followed by its footer
func listResult[T api.Entity](out *output.Printer, st store.State[T], headers []string, row func(T) []string) error {
	rows := make([][]string, 0, len(st.Items))
	for _, item := range st.Items {
		rows = append(rows, row(item))
	}
	if err := out.Table(headers, rows, st); err != nil {
		return err
	}
	if out.Format != output.FormatJSON && len(rows) > 0 {
		out.Info(pageFooter(st.Pagination))
	}
	return nil
}

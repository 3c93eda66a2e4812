package web

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/database"
)

var errInvalidGroupChoice = errors.New("select a valid group")

// postForm is the submitted create/edit form.
type postForm struct {
	Text     string // trimmed, as stored
	TextRaw  string // as submitted
	GroupRaw string
	GroupID  *int
	Err      error
}

func newPostForm(values url.Values) *postForm {
	form := &postForm{
		TextRaw:  values.Get("text"),
		GroupRaw: strings.TrimSpace(values.Get("group")),
	}
	form.Text = strings.TrimSpace(form.TextRaw)

	if form.Text == "" {
		form.Err = database.ErrEmptyText
		return form
	}

	if form.GroupRaw != "" {
		id, err := strconv.Atoi(form.GroupRaw)
		if err != nil || id <= 0 {
			form.Err = errInvalidGroupChoice
			return form
		}
		form.GroupID = &id
	}

	return form
}

func (f *postForm) Valid() bool {
	return f.Err == nil
}

// Data returns the submitted values to refill the form with.
func (f *postForm) Data() map[string]string {
	return map[string]string{
		"text":  f.TextRaw,
		"group": f.GroupRaw,
	}
}

// formError converts a service error into the message shown on the form.
// ok is false for errors that are not the submitter's fault.
func formError(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, database.ErrEmptyText):
		return err.Error(), true
	case errors.Is(err, database.ErrGroupNotFound), errors.Is(err, errInvalidGroupChoice):
		return errInvalidGroupChoice.Error(), true
	default:
		return "", false
	}
}

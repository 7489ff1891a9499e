package handlers

import "github.com/danielgtaylor/huma/v2"

// apiError is the error envelope the legacy frontend expects:
// {"ok": false, "msg": "..."} with the HTTP status on the wire only.
type apiError struct {
	status int
	OK     bool   `json:"ok"`
	Msg    string `json:"msg"`
}

func (e *apiError) Error() string  { return e.Msg }
func (e *apiError) GetStatus() int { return e.status }

// init swaps huma's default error model for the legacy envelope so every
// handler can keep using huma.Error400BadRequest and friends.
func init() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if msg == "" && len(errs) > 0 {
			msg = errs[0].Error()
		}
		return &apiError{status: status, OK: false, Msg: msg}
	}
}

const defaultPageSize = 10

// pageParams are the shared pagination query parameters.
type pageParams struct {
	Page  int `query:"page" minimum:"1" doc:"Page number, starting at 1"`
	Limit int `query:"limit" minimum:"1" doc:"Page size"`
}

func (p pageParams) normalize() (page, limit, offset int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	limit = p.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	return page, limit, (page - 1) * limit
}

func totalPages(count int64, limit int) int {
	pages := int(count) / limit
	if int(count)%limit != 0 {
		pages++
	}
	return pages
}

package model

// PageMeta describes the window a listing returned.
type PageMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// Page is the list envelope: {"data": [...], "meta": {...}}.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPage builds a Page and never leaves Data nil, so it encodes as [].
func NewPage[T any](items []T, total int64, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data: items,
		Meta: PageMeta{Total: total, Limit: limit, Offset: offset},
	}
}

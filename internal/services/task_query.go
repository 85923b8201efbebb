package services

import (
	"fmt"
	"strings"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

const (
	StatusAll    = "all"
	StatusDone   = "done"
	StatusUndone = "undone"

	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultPage  = 1
	DefaultLimit = 20
)

type TaskQuery struct {
	// Zero values mean "no constraint".
	Search    string
	Status    string
	Category  string
	SortField string
	SortBy    string
	Page      int
	Limit     int
}

// normalized fills in the documented paging defaults so the
// window math never sees a zero or negative page or limit.
func (q TaskQuery) normalized() TaskQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}

type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

type TaskPage struct {
	Tasks      []*models.Task
	Pagination Pagination
}

// buildTaskPredicate renders the query's active filters into one
// WHERE fragment over tasks t LEFT JOIN categories c, all ANDed.
// The page fetch and the total count must both use the returned
// fragment and args unchanged, which is what keeps the fetched
// page a subset of the counted total.
func buildTaskPredicate(q TaskQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.Search != "" {
		args = append(args, likePattern(q.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(t.title ILIKE $%d OR t.description ILIKE $%d)", n, n))
	}

	switch q.Status {
	case StatusDone:
		args = append(args, true)
		conds = append(conds, fmt.Sprintf("t.is_done = $%d", len(args)))
	case StatusUndone:
		args = append(args, false)
		conds = append(conds, fmt.Sprintf("t.is_done = $%d", len(args)))
	}

	if q.Category != "" {
		args = append(args, NormalizeCategoryName(q.Category))
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// likePattern wraps user text for a contains match, escaping the
// pattern metacharacters so the text is matched literally.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

type sortKey int

const (
	sortCreatedAt sortKey = iota
	sortTitle
	sortCategory
	sortPriority
)

// resolveSort maps the request's sort field through the fixed
// whitelist. Anything outside it, or a missing field or order,
// falls back to newest-first.
func resolveSort(field, by string) (sortKey, bool) {
	if field == "" || by == "" {
		return sortCreatedAt, false
	}
	asc := by == SortAsc

	switch field {
	case "title":
		return sortTitle, asc
	case "category":
		return sortCategory, asc
	case "priority":
		return sortPriority, asc
	case "createdAt":
		return sortCreatedAt, asc
	default:
		return sortCreatedAt, false
	}
}

func (k sortKey) orderBy(asc bool) string {
	dir := "DESC"
	if asc {
		dir = "ASC"
	}

	switch k {
	case sortTitle:
		return "t.title " + dir
	case sortCategory:
		return "c.name " + dir
	case sortPriority:
		return "t.priority " + dir
	default:
		return "t.created_at " + dir
	}
}

func computePages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

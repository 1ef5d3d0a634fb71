package sqlite

import (
	"strings"

	repo "emaktab-snapshot/internal/account/repository"
)

// buildGetOneQuery builds the WHERE clause + args for GetOneAccount.
// Returns an empty clause when no filter is set.
func (r *implRepository) buildGetOneQuery(opt repo.GetOneAccountOptions) (string, []any) {
	var conditions []string
	var args []any

	if opt.ID != "" {
		conditions = append(conditions, "id = ?")
		args = append(args, opt.ID)
	}
	if opt.Login != "" {
		conditions = append(conditions, "login = ?")
		args = append(args, opt.Login)
	}
	if opt.NameOrLogin != "" {
		conditions = append(conditions, "(name = ? OR login = ?)")
		args = append(args, opt.NameOrLogin, opt.NameOrLogin)
	}

	return strings.Join(conditions, " AND "), args
}

func orderClause(orderBy string) string {
	switch orderBy {
	case repo.OrderByCreatedAsc:
		return "created_at ASC"
	default:
		return "name ASC, created_at ASC"
	}
}

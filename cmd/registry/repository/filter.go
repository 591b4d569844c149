package repository

import (
	"fmt"
	"strings"

	"github.com/asaase-aban/registry/cmd/registry/models"
)

// buildSubmissionWhere renders the WHERE clause for a submission filter.
// The same clause backs both the page query and the COUNT, so the reported
// total always matches the predicate.
func buildSubmissionWhere(f models.SubmissionFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(location ILIKE $%d OR description ILIKE $%d OR owner_wallet ILIKE $%d)",
			n, n, n,
		))
	}

	if len(conds) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

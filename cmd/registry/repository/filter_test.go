package repository

import (
	"strings"
	"testing"

	"github.com/asaase-aban/registry/cmd/registry/models"
)

func TestBuildSubmissionWhereEmpty(t *testing.T) {
	where, args := buildSubmissionWhere(models.SubmissionFilter{})
	if where != "" {
		t.Errorf("where = %q, want empty", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildSubmissionWhereStatus(t *testing.T) {
	where, args := buildSubmissionWhere(models.SubmissionFilter{
		Status: models.StatusPending,
	})

	if where != "WHERE status = $1" {
		t.Errorf("where = %q", where)
	}
	if len(args) != 1 || args[0] != "pending" {
		t.Errorf("args = %v, want [pending]", args)
	}
}

func TestBuildSubmissionWhereSearch(t *testing.T) {
	where, args := buildSubmissionWhere(models.SubmissionFilter{
		Search: "Kumasi",
	})

	for _, col := range []string{"location", "description", "owner_wallet"} {
		if !strings.Contains(where, col+" ILIKE") {
			t.Errorf("where %q should search %s", where, col)
		}
	}
	if len(args) != 1 || args[0] != "%Kumasi%" {
		t.Errorf("args = %v, want one wildcarded term", args)
	}
}

func TestBuildSubmissionWhereCombined(t *testing.T) {
	where, args := buildSubmissionWhere(models.SubmissionFilter{
		Status: models.StatusApproved,
		Search: "farm",
	})

	if !strings.HasPrefix(where, "WHERE ") {
		t.Errorf("where = %q", where)
	}
	if !strings.Contains(where, "status = $1") || !strings.Contains(where, "ILIKE $2") {
		t.Errorf("where %q should combine status and search with stable placeholders", where)
	}
	if !strings.Contains(where, " AND ") {
		t.Errorf("where %q should AND the conditions", where)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2", args)
	}
}

func TestFilterOffset(t *testing.T) {
	cases := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
		{0, 10, 0}, // unset page behaves as page 1
	}

	for _, tc := range cases {
		f := models.SubmissionFilter{Page: tc.page, Limit: tc.limit}
		if got := f.Offset(); got != tc.want {
			t.Errorf("Offset(page=%d, limit=%d) = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}

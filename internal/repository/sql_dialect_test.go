package repository

import (
	"strings"
	"testing"
)

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres should use ILIKE, got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite should use LIKE, got %s", got)
	}
}

func TestBuildLikeCondition(t *testing.T) {
	db := openRepositoryTestDB(t, "like_condition")

	cond, args := buildLikeCondition(db, "  rice ", "name", "", "category")
	if cond != "(name LIKE ? OR category LIKE ?)" {
		t.Fatalf("unexpected condition: %s", cond)
	}
	if len(args) != 2 || args[0] != "%rice%" {
		t.Fatalf("unexpected args: %+v", args)
	}

	cond, args = buildLikeCondition(db, "   ", "name")
	if cond != "" || args != nil {
		t.Fatalf("blank keyword should produce no condition, got %q %+v", cond, args)
	}
	if strings.Contains(cond, "ILIKE") {
		t.Fatalf("sqlite should not use ILIKE")
	}
}

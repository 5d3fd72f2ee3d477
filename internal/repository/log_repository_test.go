package repository

import (
	"testing"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
)

func TestUserLoginLogFilters(t *testing.T) {
	db := openRepositoryTestDB(t, "login_log_filters")
	repo := NewUserLoginLogRepository(db)

	logs := []models.UserLoginLog{
		{UserID: 1, Mobile: "9876543210", Status: constants.LoginLogStatusSuccess, ClientIP: "10.0.0.1"},
		{UserID: 0, Mobile: "9876543210", Status: constants.LoginLogStatusFailed, FailReason: "otp_invalid", ClientIP: "10.0.0.1"},
		{UserID: 2, Mobile: "9123456780", Status: constants.LoginLogStatusSuccess, ClientIP: "10.0.0.2"},
	}
	for i := range logs {
		if err := repo.Create(&logs[i]); err != nil {
			t.Fatalf("create login log failed: %v", err)
		}
	}
	if err := repo.Create(nil); err != nil {
		t.Fatalf("nil log should be ignored: %v", err)
	}

	rows, total, err := repo.ListAdmin(UserLoginLogListFilter{Mobile: "9876543210", Page: 1, PageSize: 10})
	if err != nil || total != 2 || len(rows) != 2 {
		t.Fatalf("mobile filter mismatch: total=%d len=%d err=%v", total, len(rows), err)
	}
	if rows[0].ID < rows[1].ID {
		t.Fatalf("expected newest first, got ids %d,%d", rows[0].ID, rows[1].ID)
	}

	rows, total, err = repo.ListAdmin(UserLoginLogListFilter{Status: constants.LoginLogStatusFailed, FailReason: "otp_invalid"})
	if err != nil || total != 1 || rows[0].UserID != 0 {
		t.Fatalf("failure filter mismatch: total=%d rows=%+v err=%v", total, rows, err)
	}

	rows, total, err = repo.ListByUser(2, 1, 10)
	if err != nil || total != 1 || rows[0].Mobile != "9123456780" {
		t.Fatalf("list by user mismatch: total=%d rows=%+v err=%v", total, rows, err)
	}
	rows, total, err = repo.ListByUser(0, 1, 10)
	if err != nil || total != 0 || rows == nil {
		t.Fatalf("anonymous list should be empty, got total=%d rows=%v err=%v", total, rows, err)
	}

	future := time.Now().Add(time.Hour)
	_, total, err = repo.ListAdmin(UserLoginLogListFilter{CreatedFrom: &future})
	if err != nil || total != 0 {
		t.Fatalf("time range filter mismatch: total=%d err=%v", total, err)
	}
}

func TestAdminAuditLogPaging(t *testing.T) {
	db := openRepositoryTestDB(t, "audit_log_paging")
	repo := NewAdminAuditLogRepository(db)

	for i := 0; i < 5; i++ {
		entry := &models.AdminAuditLog{
			OperatorAdminID: 1,
			Action:          constants.AuditActionStockAdjust,
			TargetType:      constants.AuditTargetVariant,
			TargetID:        uint(10 + i%2),
		}
		if err := repo.Create(entry); err != nil {
			t.Fatalf("create audit log failed: %v", err)
		}
	}
	if err := repo.Create(&models.AdminAuditLog{OperatorAdminID: 2, Action: constants.AuditActionOrderShip, TargetType: constants.AuditTargetOrder, TargetID: 3}); err != nil {
		t.Fatalf("create audit log failed: %v", err)
	}

	rows, total, err := repo.ListAdmin(AdminAuditLogListFilter{OperatorAdminID: 1, Page: 2, PageSize: 2})
	if err != nil || total != 5 || len(rows) != 2 {
		t.Fatalf("paging mismatch: total=%d len=%d err=%v", total, len(rows), err)
	}

	_, total, err = repo.ListAdmin(AdminAuditLogListFilter{TargetType: constants.AuditTargetVariant, TargetID: 11})
	if err != nil || total != 2 {
		t.Fatalf("target filter mismatch: total=%d err=%v", total, err)
	}

	rows, _, err = repo.ListAdmin(AdminAuditLogListFilter{Action: constants.AuditActionOrderShip})
	if err != nil || len(rows) != 1 || rows[0].OperatorAdminID != 2 {
		t.Fatalf("action filter mismatch: rows=%+v err=%v", rows, err)
	}
}

func TestAdminRepositoryLookups(t *testing.T) {
	db := openRepositoryTestDB(t, "admin_lookups")
	repo := NewAdminRepository(db)

	if err := repo.Create(&models.Admin{Username: "ops", PasswordHash: "x"}); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if err := repo.Create(&models.Admin{Username: "admin", PasswordHash: "x", IsSuper: true}); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	found, err := repo.GetByUsername("  ops ")
	if err != nil || found == nil || found.Username != "ops" {
		t.Fatalf("lookup by username failed: %+v err=%v", found, err)
	}
	missing, err := repo.GetByUsername("nobody")
	if err != nil || missing != nil {
		t.Fatalf("missing admin should be nil,nil: %+v err=%v", missing, err)
	}
	if admin, err := repo.GetByID(0); err != nil || admin != nil {
		t.Fatalf("zero id should be nil,nil: %+v err=%v", admin, err)
	}

	admins, err := repo.List()
	if err != nil || len(admins) != 2 || !admins[0].IsSuper {
		t.Fatalf("super admin should be listed first: %+v err=%v", admins, err)
	}

	if err := repo.Delete(found.ID); err != nil {
		t.Fatalf("delete admin failed: %v", err)
	}
	count, err := repo.Count()
	if err != nil || count != 1 {
		t.Fatalf("count after soft delete mismatch: %d err=%v", count, err)
	}
}

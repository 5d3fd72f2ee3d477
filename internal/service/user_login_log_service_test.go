package service

import (
	"errors"
	"testing"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestUserLoginLogRecordNormalizesInput(t *testing.T) {
	f := setupOrderFixture(t)
	svc := NewUserLoginLogService(repository.NewUserLoginLogRepository(f.db))

	require.NoError(t, svc.Record(RecordUserLoginInput{
		UserID:      7,
		Mobile:      "+91 98765 43210",
		Status:      "SUCCESS",
		FailReason:  "ignored",
		LoginSource: "APP",
	}))
	require.NoError(t, svc.Record(RecordUserLoginInput{
		Mobile:      "9876543210",
		Status:      "weird",
		LoginSource: "kiosk",
	}))

	logs, total, err := svc.ListForAdmin(repository.UserLoginLogListFilter{Page: 1, PageSize: 10, Mobile: "+919876543210"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	failed := logs[0]
	require.Equal(t, constants.LoginLogStatusFailed, failed.Status)
	require.Equal(t, constants.LoginLogFailReasonInternalError, failed.FailReason)
	require.Equal(t, constants.LoginLogSourceWeb, failed.LoginSource)

	success := logs[1]
	require.Equal(t, "9876543210", success.Mobile)
	require.Equal(t, constants.LoginLogStatusSuccess, success.Status)
	require.Empty(t, success.FailReason)
	require.Equal(t, constants.LoginLogSourceApp, success.LoginSource)

	mine, total, err := svc.ListByUser(7, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
}

func TestResolveLoginFailReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrOTPInvalid, constants.LoginLogFailReasonOTPInvalid},
		{ErrOTPExpired, constants.LoginLogFailReasonOTPExpired},
		{ErrOTPTooManyTries, constants.LoginLogFailReasonOTPExhausted},
		{ErrInvalidMobile, constants.LoginLogFailReasonMobileInvalid},
		{ErrUserDisabled, constants.LoginLogFailReasonUserDisabled},
		{errors.New("redis: connection refused"), constants.LoginLogFailReasonInternalError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ResolveLoginFailReason(tc.err))
	}
}

func TestAdminAuditRecordAndFilter(t *testing.T) {
	f := setupOrderFixture(t)
	svc := NewAdminAuditService(repository.NewAdminAuditLogRepository(f.db))

	require.NoError(t, svc.Record(AdminAuditRecordInput{
		OperatorAdminID:  1,
		OperatorUsername: " admin ",
		Action:           constants.AuditActionStockAdjust,
		TargetType:       constants.AuditTargetVariant,
		TargetID:         12,
		Method:           "post",
		Path:             "/api/v1/admin/variants/:id/stock",
	}))
	require.NoError(t, svc.Record(AdminAuditRecordInput{
		OperatorAdminID: 2,
		Action:          constants.AuditActionOrderCancel,
		TargetType:      constants.AuditTargetOrder,
		TargetID:        5,
	}))
	// 缺少操作人或动作时不落库
	require.NoError(t, svc.Record(AdminAuditRecordInput{Action: constants.AuditActionOrderShip}))
	require.NoError(t, svc.Record(AdminAuditRecordInput{OperatorAdminID: 3}))

	all, total, err := svc.ListForAdmin(repository.AdminAuditLogListFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, all, 2)

	stock, total, err := svc.ListForAdmin(repository.AdminAuditLogListFilter{Page: 1, PageSize: 20, TargetType: constants.AuditTargetVariant, TargetID: 12})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "admin", stock[0].OperatorUsername)
	require.Equal(t, "POST", stock[0].Method)
}

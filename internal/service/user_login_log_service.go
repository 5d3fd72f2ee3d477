package service

import (
	"errors"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
)

// UserLoginLogService 记录并查询顾客 OTP 登录结果
type UserLoginLogService struct {
	repo repository.UserLoginLogRepository
}

func NewUserLoginLogService(repo repository.UserLoginLogRepository) *UserLoginLogService {
	return &UserLoginLogService{repo: repo}
}

// RecordUserLoginInput 失败记录的 UserID 为 0
type RecordUserLoginInput struct {
	UserID      uint
	Mobile      string
	Status      string
	FailReason  string
	ClientIP    string
	UserAgent   string
	LoginSource string
	RequestID   string
}

func (s *UserLoginLogService) available() bool {
	return s != nil && s.repo != nil
}

// Record 规范化后写入一条记录；未知状态按失败处理，未知来源按 web 处理
func (s *UserLoginLogService) Record(input RecordUserLoginInput) error {
	if !s.available() {
		return nil
	}
	entry := &models.UserLoginLog{
		UserID:      input.UserID,
		Mobile:      canonicalMobile(input.Mobile),
		Status:      constants.LoginLogStatusFailed,
		FailReason:  strings.ToLower(strings.TrimSpace(input.FailReason)),
		ClientIP:    strings.TrimSpace(input.ClientIP),
		UserAgent:   strings.TrimSpace(input.UserAgent),
		LoginSource: constants.LoginLogSourceWeb,
		RequestID:   strings.TrimSpace(input.RequestID),
		CreatedAt:   time.Now(),
	}
	if strings.EqualFold(strings.TrimSpace(input.Status), constants.LoginLogStatusSuccess) {
		entry.Status, entry.FailReason = constants.LoginLogStatusSuccess, ""
	} else if entry.FailReason == "" {
		entry.FailReason = constants.LoginLogFailReasonInternalError
	}
	if strings.EqualFold(strings.TrimSpace(input.LoginSource), constants.LoginLogSourceApp) {
		entry.LoginSource = constants.LoginLogSourceApp
	}
	return s.repo.Create(entry)
}

// ListForAdmin 手机号过滤条件与写入时同样规范化
func (s *UserLoginLogService) ListForAdmin(filter repository.UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	if !s.available() {
		return []models.UserLoginLog{}, 0, nil
	}
	if filter.Mobile != "" {
		filter.Mobile = canonicalMobile(filter.Mobile)
	}
	return s.repo.ListAdmin(filter)
}

func (s *UserLoginLogService) ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if !s.available() {
		return []models.UserLoginLog{}, 0, nil
	}
	return s.repo.ListByUser(userID, page, pageSize)
}

// canonicalMobile 能规范化就规范化，否则原样保留（去空白）
func canonicalMobile(raw string) string {
	if mobile, err := NormalizeMobile(raw); err == nil {
		return mobile
	}
	return strings.TrimSpace(raw)
}

var loginFailReasons = []struct {
	err    error
	reason string
}{
	{ErrOTPInvalid, constants.LoginLogFailReasonOTPInvalid},
	{ErrOTPExpired, constants.LoginLogFailReasonOTPExpired},
	{ErrOTPTooManyTries, constants.LoginLogFailReasonOTPExhausted},
	{ErrInvalidMobile, constants.LoginLogFailReasonMobileInvalid},
	{ErrUserDisabled, constants.LoginLogFailReasonUserDisabled},
}

// ResolveLoginFailReason OTP 登录错误到失败原因枚举，其余错误为 internal_error
func ResolveLoginFailReason(err error) string {
	if err == nil {
		return ""
	}
	for _, candidate := range loginFailReasons {
		if errors.Is(err, candidate.err) {
			return candidate.reason
		}
	}
	return constants.LoginLogFailReasonInternalError
}

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/queue"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// UserAuthService 用户短信验证码登录服务
type UserAuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	store       OTPStore
	sender      SMSSender
	queueClient *queue.Client
	now         func() time.Time
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, store OTPStore, sender SMSSender, queueClient *queue.Client) *UserAuthService {
	if sender == nil {
		sender = LogSMSSender{}
	}
	return &UserAuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		store:       store,
		sender:      sender,
		queueClient: queueClient,
		now:         time.Now,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Mobile       string `json:"mobile"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// OTPSendResult 验证码发送结果
type OTPSendResult struct {
	ExpiresAt   time.Time `json:"expires_at"`
	ResendAfter int       `json:"resend_after_seconds"`
	DebugCode   string    `json:"debug_code,omitempty"`
}

// GenerateUserJWT 签发顾客 token，默认有效期 7 天
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	tokens := s.tokenIssuer()
	registered, expiresAt := tokens.registered(user.ID, s.now())
	token, err := tokens.sign(UserJWTClaims{
		UserID:           user.ID,
		Mobile:           user.Mobile,
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: registered,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	return parseClaims[UserJWTClaims](s.tokenIssuer(), tokenString)
}

func (s *UserAuthService) tokenIssuer() tokenIssuer {
	return newTokenIssuer(s.cfg.UserJWT, 24*7)
}

// SendOTP 生成并下发短信验证码，同一手机号受重发间隔限制
func (s *UserAuthService) SendOTP(ctx context.Context, rawMobile string) (*OTPSendResult, error) {
	mobile, err := NormalizeMobile(rawMobile)
	if err != nil {
		return nil, err
	}
	otpCfg := s.cfg.Security.OTP
	now := s.now()
	interval := time.Duration(resolveOTPSendInterval(otpCfg)) * time.Second

	existing, err := s.store.Get(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if existing != nil && now.Sub(existing.SentAt) < interval {
		return nil, ErrOTPTooFrequent
	}

	code, err := randomNumericCode(resolveOTPLength(otpCfg))
	if err != nil {
		return nil, err
	}
	hash, err := hashSecret(code)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(resolveOTPExpireMinutes(otpCfg)) * time.Minute
	entry := &OTPEntry{
		CodeHash:  hash,
		SentAt:    now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.store.Save(ctx, mobile, entry); err != nil {
		return nil, err
	}

	if err := s.dispatchOTP(ctx, mobile, code, ttl); err != nil {
		_ = s.store.Delete(ctx, mobile)
		logger.Warnw("otp_dispatch_failed", "mobile", MaskMobile(mobile), "error", err)
		return nil, ErrOTPDeliverFailed
	}
	logger.Infow("otp_sent", "mobile", MaskMobile(mobile), "expires_at", entry.ExpiresAt)

	result := &OTPSendResult{ExpiresAt: entry.ExpiresAt, ResendAfter: int(interval.Seconds())}
	if otpCfg.DebugEcho && !strings.EqualFold(s.cfg.Server.Mode, "release") {
		result.DebugCode = code
	}
	return result, nil
}

// DeliverOTP 直接经短信通道下发（队列消费者调用）
func (s *UserAuthService) DeliverOTP(ctx context.Context, mobile, code string) error {
	return s.sender.Send(ctx, mobile, code)
}

func (s *UserAuthService) dispatchOTP(ctx context.Context, mobile, code string, ttl time.Duration) error {
	if s.queueClient != nil && s.queueClient.Enabled() {
		return s.queueClient.EnqueueOTPDeliver(queue.OTPDeliverPayload{Mobile: mobile, Code: code}, ttl)
	}
	return s.sender.Send(ctx, mobile, code)
}

// VerifyOTP 校验验证码（一次性），首次登录自动注册，返回用户与 JWT
func (s *UserAuthService) VerifyOTP(ctx context.Context, rawMobile, code string) (*models.User, string, time.Time, error) {
	mobile, err := NormalizeMobile(rawMobile)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, "", time.Time{}, ErrOTPInvalid
	}

	entry, err := s.store.Get(ctx, mobile)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if entry == nil || entry.Expired(s.now()) {
		return nil, "", time.Time{}, ErrOTPExpired
	}
	maxAttempts := resolveOTPMaxAttempts(s.cfg.Security.OTP)
	if entry.Attempts >= maxAttempts {
		_ = s.store.Delete(ctx, mobile)
		return nil, "", time.Time{}, ErrOTPTooManyTries
	}
	if !matchSecret(entry.CodeHash, code) {
		entry.Attempts++
		if entry.Attempts >= maxAttempts {
			_ = s.store.Delete(ctx, mobile)
			return nil, "", time.Time{}, ErrOTPTooManyTries
		}
		if err := s.store.Save(ctx, mobile, entry); err != nil {
			return nil, "", time.Time{}, err
		}
		return nil, "", time.Time{}, ErrOTPInvalid
	}
	if err := s.store.Delete(ctx, mobile); err != nil {
		return nil, "", time.Time{}, err
	}

	user, err := s.findOrRegister(mobile)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user.Status == constants.UserStatusDisabled {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	logger.Infow("user_login_otp", "user_id", user.ID, "mobile", MaskMobile(mobile))
	return user, token, expiresAt, nil
}

func (s *UserAuthService) findOrRegister(mobile string) (*models.User, error) {
	user, err := s.userRepo.GetByMobile(mobile)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	user = &models.User{
		Mobile: mobile,
		Locale: "en-US",
		Status: constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		// 并发首次登录时唯一索引冲突，回读已创建的用户
		existing, getErr := s.userRepo.GetByMobile(mobile)
		if getErr != nil || existing == nil {
			return nil, err
		}
		return existing, nil
	}
	logger.Infow("user_registered", "user_id", user.ID, "mobile", MaskMobile(mobile))
	return user, nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新姓名、邮箱与语言
func (s *UserAuthService) UpdateProfile(userID uint, fullName, email, locale *string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if fullName != nil {
		user.FullName = strings.TrimSpace(*fullName)
	}
	if email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		if normalized != "" {
			if _, err := mail.ParseAddress(normalized); err != nil {
				return nil, ErrInvalidEmail
			}
		}
		user.Email = normalized
	}
	if locale != nil && strings.TrimSpace(*locale) != "" {
		user.Locale = strings.TrimSpace(*locale)
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// NormalizeMobile 规范化印度手机号（去掉 +91/0 前缀与空白）
func NormalizeMobile(raw string) (string, error) {
	mobile := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	mobile = strings.TrimPrefix(mobile, "+91")
	if len(mobile) == 11 && strings.HasPrefix(mobile, "0") {
		mobile = mobile[1:]
	}
	if !mobilePattern.MatchString(mobile) {
		return "", ErrInvalidMobile
	}
	return mobile, nil
}

func resolveOTPExpireMinutes(cfg config.OTPConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 5
	}
	return cfg.ExpireMinutes
}

func resolveOTPSendInterval(cfg config.OTPConfig) int {
	if cfg.SendIntervalSeconds < 0 {
		return 0
	}
	if cfg.SendIntervalSeconds == 0 {
		return 60
	}
	return cfg.SendIntervalSeconds
}

func resolveOTPMaxAttempts(cfg config.OTPConfig) int {
	if cfg.MaxAttempts <= 0 {
		return 5
	}
	return cfg.MaxAttempts
}

func resolveOTPLength(cfg config.OTPConfig) int {
	if cfg.Length < 4 || cfg.Length > 8 {
		return 6
	}
	return cfg.Length
}

func randomNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("otp: invalid code length")
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("otp: random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

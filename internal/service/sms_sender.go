package service

import (
	"context"

	"github.com/brundhavanam/grocery/internal/logger"
)

// SMSSender 短信下发接口
type SMSSender interface {
	Send(ctx context.Context, mobile, code string) error
}

// LogSMSSender 仅记录日志的短信通道（未接入真实运营商）
type LogSMSSender struct{}

// Send 记录一条掩码后的下发日志
func (LogSMSSender) Send(_ context.Context, mobile, code string) error {
	logger.Infow("otp_sms_dispatched", "mobile", MaskMobile(mobile), "code_length", len(code))
	return nil
}

// MaskMobile 手机号脱敏
func MaskMobile(mobile string) string {
	if len(mobile) < 4 {
		return "****"
	}
	return "******" + mobile[len(mobile)-4:]
}

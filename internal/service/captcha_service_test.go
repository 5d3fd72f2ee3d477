package service

import (
	"errors"
	"testing"

	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/constants"
)

func TestCaptchaSceneSwitches(t *testing.T) {
	disabled := NewCaptchaService(config.CaptchaConfig{Enabled: false, Scenes: config.CaptchaSceneConfig{AdminLogin: true}})
	if err := disabled.Verify(constants.CaptchaSceneAdminLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha must pass, got %v", err)
	}

	svc := NewCaptchaService(config.CaptchaConfig{Enabled: true, Scenes: config.CaptchaSceneConfig{AdminLogin: true}})
	if err := svc.Verify(constants.CaptchaSceneSendOTP, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("scene switched off must pass, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneAdminLogin, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
	err = svc.Verify(constants.CaptchaSceneAdminLogin, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "zzzzzz"})
	if !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected ErrCaptchaInvalid, got %v", err)
	}
}

package usecase

import "github.com/tarkhineh/tarkhineh/internal/pkg/i18n"

// Message keys of the identity catalog.
const (
	MsgCodeSent        = "identity.code_sent"
	MsgCodeExpired     = "identity.code_expired"
	MsgCodeMismatch    = "identity.code_mismatch"
	MsgCodeThrottled   = "identity.code_throttled"
	MsgLoginSucceeded  = "identity.login_succeeded"
	MsgInvalidToken    = "identity.invalid_token"
	MsgTokenRefreshed  = "identity.token_refreshed"
	MsgAccessIssued    = "identity.access_issued"
	MsgLogoutSucceeded = "identity.logout_succeeded"
	MsgUserNotFound    = "identity.user_not_found"
	MsgInvalidPhone    = "identity.invalid_phone"
	MsgAuthRequired    = "identity.auth_required"
	MsgSessionActive   = "identity.session_active"
	MsgSMSVerification = "identity.sms_verification"
	MsgSMSResend       = "identity.sms_resend"
)

// Messages is the identity catalog per locale. SMS texts take the code as {0}.
var Messages = map[string]map[string]string{
	i18n.LocalePersian: {
		MsgCodeSent:        "کد با موفقیت ارسال شد",
		MsgCodeExpired:     "کد وارد شده منقضی شده است",
		MsgCodeMismatch:    "کد وارد شده اشتباه است",
		MsgCodeThrottled:   "مدت زمان ارسال کد مجدد ۲ دقیقه می باشد",
		MsgLoginSucceeded:  "ورود با موفقیت انجام شد",
		MsgInvalidToken:    "توکن نا معتبر",
		MsgTokenRefreshed:  "توکن جدید تولید شد",
		MsgAccessIssued:    "توکن دسترسی تولید شد",
		MsgLogoutSucceeded: "خروج کاربر با موفقیت انجام شد",
		MsgUserNotFound:    "کاربری با این شماره یافت نشد",
		MsgInvalidPhone:    "شماره تلفن وارد شده صحیح نمیباشد",
		MsgAuthRequired:    "ابتدا وارد حساب کاربری شوید",
		MsgSessionActive:   "نشست کاربر فعال است",
		MsgSMSVerification: "ترخینه\n کد تایید : {0}",
		MsgSMSResend:       "ترخینه\n ارسال مجدد : {0}",
	},
	i18n.LocaleEnglish: {
		MsgCodeSent:        "Code sent successfully",
		MsgCodeExpired:     "The code has expired",
		MsgCodeMismatch:    "The code is incorrect",
		MsgCodeThrottled:   "A new code can be requested every 2 minutes",
		MsgLoginSucceeded:  "Logged in successfully",
		MsgInvalidToken:    "Invalid token",
		MsgTokenRefreshed:  "New tokens issued",
		MsgAccessIssued:    "Access token issued",
		MsgLogoutSucceeded: "Logged out successfully",
		MsgUserNotFound:    "No user is registered with this phone",
		MsgInvalidPhone:    "The phone number is invalid",
		MsgAuthRequired:    "Authentication required",
		MsgSessionActive:   "Session is active",
		MsgSMSVerification: "Tarkhineh\n verification code: {0}",
		MsgSMSResend:       "Tarkhineh\n resent code: {0}",
	},
}

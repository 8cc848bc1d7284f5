package internaldefs

import (
	shopAuth "github.com/MrEthical07/shopAuth"
)

// CounterDef binds a shopAuth counter to its exported name.
type CounterDef struct {
	ID   shopAuth.MetricID
	Name string
	Help string
}

// HistogramDef binds a shopAuth histogram to its exported name.
type HistogramDef struct {
	ID   shopAuth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: shopAuth.MetricOTPSent, Name: "shopauth_otp_sent_total", Help: "Verification codes delivered."},
	{ID: shopAuth.MetricOTPVerifySuccess, Name: "shopauth_otp_verify_success_total", Help: "Successful code verifications."},
	{ID: shopAuth.MetricOTPVerifyFailure, Name: "shopauth_otp_verify_failure_total", Help: "Failed code verifications."},
	{ID: shopAuth.MetricOTPLockout, Name: "shopauth_otp_lockout_total", Help: "Verification lockouts after exhausted attempts."},
	{ID: shopAuth.MetricOTPSpamLock, Name: "shopauth_otp_spam_lock_total", Help: "Send requests blocked by the hourly request cap."},
	{ID: shopAuth.MetricOTPCooldownHit, Name: "shopauth_otp_cooldown_hit_total", Help: "Send requests rejected during cooldown."},
	{ID: shopAuth.MetricOTPDeliveryFailure, Name: "shopauth_otp_delivery_failure_total", Help: "Code deliveries rejected by the mail transport."},
	{ID: shopAuth.MetricRegisterRequest, Name: "shopauth_register_request_total", Help: "Registration requests."},
	{ID: shopAuth.MetricRegisterSuccess, Name: "shopauth_register_success_total", Help: "Completed registrations."},
	{ID: shopAuth.MetricRegisterDuplicate, Name: "shopauth_register_duplicate_total", Help: "Registrations rejected as duplicate email."},
	{ID: shopAuth.MetricLoginSuccess, Name: "shopauth_login_success_total", Help: "Successful logins."},
	{ID: shopAuth.MetricLoginFailure, Name: "shopauth_login_failure_total", Help: "Failed logins."},
	{ID: shopAuth.MetricRefreshSuccess, Name: "shopauth_refresh_success_total", Help: "Successful access token refreshes."},
	{ID: shopAuth.MetricRefreshFailure, Name: "shopauth_refresh_failure_total", Help: "Failed access token refreshes."},
	{ID: shopAuth.MetricLogout, Name: "shopauth_logout_total", Help: "Logouts."},
	{ID: shopAuth.MetricPasswordResetRequest, Name: "shopauth_password_reset_request_total", Help: "Forgot-password requests."},
	{ID: shopAuth.MetricPasswordResetSuccess, Name: "shopauth_password_reset_success_total", Help: "Completed password resets."},
	{ID: shopAuth.MetricPasswordResetReuseRejected, Name: "shopauth_password_reset_reuse_rejected_total", Help: "Password resets rejected for reusing the current password."},
	{ID: shopAuth.MetricAuthenticateSuccess, Name: "shopauth_authenticate_success_total", Help: "Authenticated requests."},
	{ID: shopAuth.MetricAuthenticateFailure, Name: "shopauth_authenticate_failure_total", Help: "Rejected requests."},
	{ID: shopAuth.MetricRoleDenied, Name: "shopauth_role_denied_total", Help: "Requests rejected by the role gate."},
	{ID: shopAuth.MetricShopCreated, Name: "shopauth_shop_created_total", Help: "Shops created."},
	{ID: shopAuth.MetricPaymentLinked, Name: "shopauth_payment_linked_total", Help: "Payment accounts linked to sellers."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: shopAuth.MetricAuthenticateLatency, Name: "shopauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the upper bounds, in seconds, of the core latency buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix names each bucket in instrument names, which cannot
// carry labels for observable gauges.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling missing
// buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

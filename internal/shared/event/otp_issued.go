package event

const OTPIssuedDestination string = "identity.otp_issued"
const OTPIssuedConsumerNotification string = "identity_otp_issued_notification"

// OTPIssuedMessage carries a rendered SMS for one OTP challenge. CorrelationID
// duplicates the cID header for brokers without headers.
type OTPIssuedMessage struct {
	EventID       int64  `json:"event_id"`
	Phone         string `json:"phone"`
	Text          string `json:"text"`
	Resend        bool   `json:"resend"`
	ExpireAt      int64  `json:"expire_at"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

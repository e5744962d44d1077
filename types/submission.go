package types

// ContactMethod is the channel the visitor asked to be reached on. The value
// comes straight from the form, so comparisons are case-insensitive.
type ContactMethod string

const (
	ContactMethodEmail ContactMethod = "email"
	ContactMethodPhone ContactMethod = "phone call"
	ContactMethodText  ContactMethod = "text"
	ContactMethodAny   ContactMethod = "any"
)

// Submission carries one contact-form submission through the pipeline.
// Website and TimingToken are filled by the hidden form fields; ClientID is
// resolved from the request by the handler, never by the client.
type Submission struct {
	Name           string `json:"name" form:"name"`
	Email          string `json:"email" form:"email"`
	PhoneNumber    string `json:"phone" form:"phone"`
	Message        string `json:"message" form:"message"`
	ServiceType    string `json:"service_type" form:"service_type"`
	DeviceType     string `json:"device_type" form:"device_type"`
	ServiceMode    string `json:"service_mode" form:"service_mode"`
	ContactMethod  string `json:"contact_method" form:"contact_method"`
	PrivacyConsent bool   `json:"privacy_consent" form:"privacy_consent"`

	// Website is the honeypot field. Humans never see it; bots fill it.
	Website     string `json:"website" form:"website"`
	TimingToken string `json:"form_token" form:"form_token"`

	ClientID string `json:"-" form:"-"`
}

// DecisionKind enumerates the terminal outcomes of the pipeline.
type DecisionKind string

const (
	// DecisionAccepted means the submission passed every gate and the
	// notification email went out.
	DecisionAccepted DecisionKind = "accepted"
	// DecisionSoftRejected means the submission was classified as bot
	// traffic and silently discarded. Callers must present it as success.
	DecisionSoftRejected DecisionKind = "soft_rejected"
	DecisionValidationFailed DecisionKind = "validation_failed"
	DecisionQuotaExceeded    DecisionKind = "quota_exceeded"
	DecisionSendFailed       DecisionKind = "send_failed"
)

// Decision is the pipeline's verdict on a single submission.
type Decision struct {
	Kind DecisionKind
	// FieldErrors maps form field names to human-readable messages.
	// Populated only for DecisionValidationFailed.
	FieldErrors map[string][]string
	// Cause holds the underlying transport error for DecisionSendFailed.
	// Logged internally, never shown verbatim to the visitor.
	Cause error
}

func Accepted() Decision              { return Decision{Kind: DecisionAccepted} }
func SoftRejected() Decision          { return Decision{Kind: DecisionSoftRejected} }
func QuotaExceeded() Decision         { return Decision{Kind: DecisionQuotaExceeded} }
func SendFailed(cause error) Decision { return Decision{Kind: DecisionSendFailed, Cause: cause} }

func ValidationFailed(fieldErrors map[string][]string) Decision {
	return Decision{Kind: DecisionValidationFailed, FieldErrors: fieldErrors}
}

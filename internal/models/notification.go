package models

// ServiceNotificationRequest asks for the standard e-mail of one kind.
type ServiceNotificationRequest struct {
	VesselID    string `json:"vesselId"`
	ServiceType string `json:"serviceType"`
}

// CustomNotificationRequest composes an ad-hoc e-mail. Empty optional fields
// fall back to the kind defaults or the generic wording.
type CustomNotificationRequest struct {
	VesselID    string `json:"vesselId"`
	EmailType   string `json:"emailType"`
	ToAddress   string `json:"toAddress"`
	CcAddress   string `json:"ccAddress,omitempty"`
	Greeting    string `json:"greeting,omitempty"`
	ServiceText string `json:"serviceText,omitempty"`
	RequestText string `json:"requestText,omitempty"`
}

// NotificationResult is returned after a message was handed to the transport.
type NotificationResult struct {
	Message string `json:"message"`
	EmailID string `json:"emailId"`
}

package notify

// Notification kinds gated by contact settings.
const (
	KindCurrent = "current"
	KindDaily   = "daily"
)

// IconAttachmentType is the media type of weather icon attachments.
const IconAttachmentType = "image/png"

// Record is one push notification ready for dispatch. It is transient:
// constructed, dispatched, discarded.
type Record struct {
	Group            string `json:"group"`
	Message          string `json:"message"`
	Title            string `json:"title"`
	AttachmentBase64 string `json:"attachment_base64,omitempty"`
	AttachmentType   string `json:"attachment_type,omitempty"`
	Priority         int    `json:"priority"`
}

// Outcome is whatever the push provider reported for one dispatch.
type Outcome struct {
	Status int
	Body   string
}

package models

// NotificationStatus is the outcome of a notification run
type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "sent"
	NotificationSkipped NotificationStatus = "skipped"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationLog records one dispatch attempt of a scheduled check
type NotificationLog struct {
	ID        int64              `json:"id"`
	Job       string             `json:"job"`
	Subject   string             `json:"subject"`
	Recipient string             `json:"recipient"`
	ItemCount int                `json:"item_count"`
	Status    NotificationStatus `json:"status"`
	Error     string             `json:"error"`
	CreatedAt Timestamp          `json:"created_at"`
}

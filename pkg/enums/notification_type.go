package enums

import "fmt"

// NotificationType distinguishes in-app notification payloads.
type NotificationType string

const (
	NotificationTypeExpiryDigest NotificationType = "expiry_digest"
	NotificationTypeLowStock     NotificationType = "low_stock"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeExpiryDigest,
	NotificationTypeLowStock,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value matches a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

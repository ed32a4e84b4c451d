package notify

import "probectl/internal/domain"

// Info builds an info notification
func Info(title, message string) domain.Notification {
	return domain.Notification{Severity: domain.SeverityInfo, Title: title, Message: message}
}

// Success builds a success notification
func Success(title, message string) domain.Notification {
	return domain.Notification{Severity: domain.SeveritySuccess, Title: title, Message: message}
}

// Warning builds a warning notification
func Warning(title, message string) domain.Notification {
	return domain.Notification{Severity: domain.SeverityWarning, Title: title, Message: message}
}

// Error builds an error notification
func Error(title, message string) domain.Notification {
	return domain.Notification{Severity: domain.SeverityError, Title: title, Message: message}
}

package medication

import (
	"fmt"

	"github.com/tubocare/medtrack/pkg/interfaces"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/types"
)

// NotificationService implements dose reminder delivery
type NotificationService struct {
	logger *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(log *logger.Logger) interfaces.NotificationService {
	return &NotificationService{
		logger: log,
	}
}

// SendPushNotification sends a push notification
func (n *NotificationService) SendPushNotification(userID, title, message string) error {
	n.logger.Infof("Sending push notification to user %s: %s - %s", userID, title, message)

	// TODO: Integrate with push notification service (Firebase, AWS SNS, etc.)
	// For now, just log the push notification
	n.logger.Infof("Push notification sent successfully to user %s", userID)
	return nil
}

// SendSMS sends an SMS notification
func (n *NotificationService) SendSMS(to, message string) error {
	n.logger.Infof("Sending SMS to %s: %s", to, message)

	// TODO: Integrate with SMS service (Twilio, AWS SNS, etc.)
	// For now, just log the SMS
	n.logger.Infof("SMS sent successfully to %s", to)
	return nil
}

// DoseNotificationManager turns fired reminder alarms into user-facing
// notifications. The alarm payload carries everything needed to render
// the message, so no medication lookup happens on the firing path.
type DoseNotificationManager struct {
	notificationService interfaces.NotificationService
	logger              *logger.Logger
}

// NewDoseNotificationManager creates a new dose notification manager
func NewDoseNotificationManager(notificationService interfaces.NotificationService, log *logger.Logger) *DoseNotificationManager {
	return &DoseNotificationManager{
		notificationService: notificationService,
		logger:              log,
	}
}

// DeliverDoseReminder sends the notification for one fired alarm.
func (m *DoseNotificationManager) DeliverDoseReminder(payload types.AlarmPayload) error {
	var title, message string

	switch payload.Kind {
	case types.AlarmLead:
		title = "Upcoming Dose"
		message = fmt.Sprintf("%s is due at %s", payload.MedicationName, payload.DoseTime)
	default:
		title = "Time to Take Your Medication"
		message = fmt.Sprintf("Take %s now (%s dose at %s)", payload.MedicationName, payload.Day.Label(), payload.DoseTime)
	}

	if err := m.notificationService.SendPushNotification(payload.UserID, title, message); err != nil {
		return fmt.Errorf("failed to send dose reminder: %w", err)
	}

	m.logger.Infof("Dose reminder delivered for medication %s (%s dose %d)", payload.MedicationID, payload.Day.Label(), payload.DoseIndex)
	return nil
}

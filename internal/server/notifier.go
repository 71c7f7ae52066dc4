package server

import (
	"github.com/sirupsen/logrus"

	"truth-or-dare/internal/db"
)

// logNotifier is the stand-in notifier used when no chat transport is
// attached: terminal outcomes are logged instead of DM'd. The bot process
// registers its own implementation.
type logNotifier struct {
	log *logrus.Entry
}

func newLogNotifier(log *logrus.Logger) *logNotifier {
	return &logNotifier{log: log.WithField("component", "notifier")}
}

func (n *logNotifier) SubmissionResolved(sub *db.Submission, promptID, reason string) error {
	n.log.WithFields(logrus.Fields{
		"submission": sub.ID,
		"submitter":  sub.SubmitterID,
		"status":     sub.Status,
		"prompt":     promptID,
		"reason":     reason,
	}).Info("submission resolved")
	return nil
}

package services

import "log"

// LogNotifier writes notification requests to the process log. The device
// build replaces it with the platform sound and banner services.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) PlayConnected() {
	log.Println("Notification: connected sound")
}

func (n *LogNotifier) PlayDisconnected() {
	log.Println("Notification: disconnected sound")
}

func (n *LogNotifier) ShowBanner(message string) {
	log.Printf("Notification: %s", message)
}

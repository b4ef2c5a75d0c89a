// Package notify surfaces app events outside the TUI, mainly for the
// scripted subcommands and the one-shot record flow.
package notify

import (
	"fmt"
	"log"
	"os/exec"

	"changuito/internal/config"
)

const appName = "Changuito"

type Notifier interface {
	RecordingStarted()
	RecordingEnded()
	Extracting()
	ItemsAdded(count int, list string)
	Error(msg string)
	Notify(title, message string)
}

// New picks the notifier the config asks for.
func New(cfg config.NotificationsConfig) Notifier {
	if !cfg.Enabled {
		return Nop{}
	}
	switch cfg.Type {
	case "desktop":
		return Desktop{}
	case "log":
		return Log{}
	default:
		return Nop{}
	}
}

// Desktop sends notifications via notify-send.
type Desktop struct{}

func (Desktop) send(args ...string) {
	cmd := exec.Command("notify-send", append([]string{"-a", appName}, args...)...)
	if err := cmd.Run(); err != nil {
		log.Printf("notify: failed to send notification: %v", err)
	}
}

func (d Desktop) RecordingStarted() { d.send(appName + ": Recording Started") }
func (d Desktop) RecordingEnded()   { d.send(appName + ": Recording Ended") }
func (d Desktop) Extracting()       { d.send(appName + ": Extracting Items") }

func (d Desktop) ItemsAdded(count int, list string) {
	d.send(fmt.Sprintf("%s: Added %d item(s) to %s", appName, count, list))
}

func (d Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", appName, "-u", "critical", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("notify: failed to send error notification: %v", err)
	}
}

func (d Desktop) Notify(title, message string) { d.send(title, message) }

// Log writes notifications to the process log.
type Log struct{}

func (Log) RecordingStarted() { log.Printf("notify: %s Recording Started", appName) }
func (Log) RecordingEnded()   { log.Printf("notify: %s Recording Ended", appName) }
func (Log) Extracting()       { log.Printf("notify: %s Extracting Items", appName) }

func (Log) ItemsAdded(count int, list string) {
	log.Printf("notify: %s added %d item(s) to %s", appName, count, list)
}

func (Log) Error(msg string) { log.Printf("notify: %s Error: %s", appName, msg) }

func (Log) Notify(title, message string) { log.Printf("notify: %s: %s", title, message) }

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) RecordingStarted()                 {}
func (Nop) RecordingEnded()                   {}
func (Nop) Extracting()                       {}
func (Nop) ItemsAdded(count int, list string) {}
func (Nop) Error(msg string)                  {}
func (Nop) Notify(title, message string)      {}

// Package deps inspects the external tools the app shells out to.
package deps

import (
	"os/exec"
	"strings"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// CheckPwRecord checks if pw-record (PipeWire) is installed. Voice
// capture does not work without it.
func CheckPwRecord() Status {
	return check("pw-record", "--version")
}

// CheckNotifySend checks if notify-send is installed. Only needed for
// desktop notifications.
func CheckNotifySend() Status {
	return check("notify-send", "--version")
}

func check(binary, versionFlag string) Status {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	cmd := exec.Command(path, versionFlag)
	output, err := cmd.Output()
	if err == nil {
		// first line carries the version info
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}

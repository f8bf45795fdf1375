//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
)

// Notify displays n through Notification Center.
func Notify(ctx context.Context, n Notification) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", n.Body, n.AppName, n.Title)
	return exec.CommandContext(ctx, "osascript", "-e", script).Run()
}

package viewer

import (
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs string
	}{
		{"linux", "xdg-open", "fig.png"},
		{"freebsd", "xdg-open", "fig.png"},
		{"darwin", "open", "fig.png"},
		{"windows", "cmd", "/c start  fig.png"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := command(tt.goos, "fig.png")
			if err != nil {
				t.Fatalf("command: %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if got := strings.Join(args, " "); got != tt.wantArgs {
				t.Errorf("args = %q, want %q", got, tt.wantArgs)
			}
		})
	}
}

func TestCommand_Unsupported(t *testing.T) {
	if _, _, err := command("plan9", "fig.png"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

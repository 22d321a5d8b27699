package editor

import (
	"errors"
	"reflect"
	"testing"
)

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		onPath   []string
		expected []string
		wantErr  bool
	}{
		{
			name:     "editor with arguments",
			env:      map[string]string{"EDITOR": "code --wait"},
			expected: []string{"code", "--wait", "/tmp/w.json"},
		},
		{
			name:     "own variable wins",
			env:      map[string]string{"EDITOR": "vim", "VISUAL": "emacs", "KBSTUDIO_EDITOR": "hx"},
			expected: []string{"hx", "/tmp/w.json"},
		},
		{
			name:     "visual before editor",
			env:      map[string]string{"EDITOR": "vim", "VISUAL": "emacs"},
			expected: []string{"emacs", "/tmp/w.json"},
		},
		{
			name:     "fallback on path",
			onPath:   []string{"vi", "nano"},
			expected: []string{"/usr/bin/vi", "/tmp/w.json"},
		},
		{
			name:    "nothing available",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{
				getenv: func(key string) string { return tt.env[key] },
				lookPath: func(name string) (string, error) {
					for _, p := range tt.onPath {
						if p == name {
							return "/usr/bin/" + name, nil
						}
					}
					return "", errors.New("not found")
				},
			}

			cmd, err := o.Command("/tmp/w.json")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cmd.Args, tt.expected) {
				t.Errorf("Args = %v, expected %v", cmd.Args, tt.expected)
			}
		})
	}
}

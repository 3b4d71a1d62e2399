package gitsource

import (
	"path/filepath"
	"testing"
)

func TestLocalPathFor(t *testing.T) {
	testCases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "https url",
			url:  "https://github.com/alice/notes.git",
			want: filepath.Join("cache", "github.com", "alice", "notes"),
		},
		{
			name: "https url without .git",
			url:  "https://gitlab.com/alice/notes",
			want: filepath.Join("cache", "gitlab.com", "alice", "notes"),
		},
		{
			name: "scp style remote",
			url:  "git@github.com:alice/notes.git",
			want: filepath.Join("cache", "github.com", "alice", "notes"),
		},
		{
			name:    "unparseable",
			url:     "not a url",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := localPathFor("cache", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("localPathFor: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

package app

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestAddFormatFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		allowedFormats []string
		wantUsage      string
	}{
		{
			name:      "default formats",
			wantUsage: "Output format (json, text)",
		},
		{
			name:           "custom formats",
			allowedFormats: []string{"json", "yaml"},
			wantUsage:      "Output format (json, yaml)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := &cobra.Command{}
			var format string

			AddFormatFlag(cmd, &format, tt.allowedFormats...)

			flag := cmd.Flags().Lookup("format")
			if flag == nil {
				t.Fatal("format flag was not added")
			}

			if flag.DefValue != FormatText {
				t.Errorf("expected default value %q, got %q", FormatText, flag.DefValue)
			}

			if flag.Usage != tt.wantUsage {
				t.Errorf("expected description %q, got %q", tt.wantUsage, flag.Usage)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		format         string
		allowedFormats []string
		wantErr        bool
	}{
		{
			name:   "json is allowed by default",
			format: "json",
		},
		{
			name:   "text is allowed by default",
			format: "text",
		},
		{
			name:    "unknown format is rejected",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "empty format is rejected",
			format:  "",
			wantErr: true,
		},
		{
			name:           "custom allowed format",
			format:         "wide",
			allowedFormats: []string{"wide"},
		},
		{
			name:           "default format rejected when custom list given",
			format:         "text",
			allowedFormats: []string{"wide"},
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			format := tt.format
			preRunE := ValidateFormat(&format, tt.allowedFormats...)

			err := preRunE(nil, nil)
			if tt.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

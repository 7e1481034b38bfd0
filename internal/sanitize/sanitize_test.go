package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "Great article, thanks!",
			want:  "Great article, thanks!",
		},
		{
			name:  "script tag stripped",
			input: `Nice <script>alert("x")</script> post`,
			want:  "Nice  post",
		},
		{
			name:  "tags removed, content kept",
			input: "<b>bold</b> and <i>italic</i>",
			want:  "bold and italic",
		},
		{
			name:  "whitespace trimmed",
			input: "  padded  ",
			want:  "padded",
		},
		{
			name:  "anchor stripped",
			input: `<a href="https://spam.example">click</a>`,
			want:  "click",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	got := Fields(map[string]string{
		"message": "<img src=x onerror=alert(1)>hello",
		"serial":  "SN-001",
	})
	if got["message"] != "hello" {
		t.Errorf("message: got %q, want %q", got["message"], "hello")
	}
	if got["serial"] != "SN-001" {
		t.Errorf("serial: got %q, want %q", got["serial"], "SN-001")
	}
}

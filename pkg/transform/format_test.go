package transform

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		token string
		want  Format
		ok    bool
	}{
		{"", FormatUnknown, true},
		{"auto", FormatUnknown, true},
		{"webp", FormatUnknown, true},
		{"png", FormatPNG, true},
		{"jpeg", FormatJPEG, true},
		{"jpg", FormatJPEG, true},
		{"gif", FormatGIF, true},
		{"apng", FormatAPNG, true},
		{"tiff", FormatUnknown, false},
		{"nonsense", FormatUnknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseFormat(tt.token)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = (%v, %v), want (%v, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTransformable(t *testing.T) {
	transformable := []Format{FormatPNG, FormatAPNG, FormatJPEG, FormatGIF, FormatWebP}
	for _, f := range transformable {
		if !Transformable(f) {
			t.Errorf("Transformable(%v) = false, want true", f)
		}
	}
	passthrough := []Format{FormatAnimatedWebP, FormatBMP, FormatTIFF, FormatICO, FormatSVG, FormatUnknown}
	for _, f := range passthrough {
		if Transformable(f) {
			t.Errorf("Transformable(%v) = true, want false", f)
		}
	}
}

func TestFormatMIME(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPNG, "image/png"},
		{FormatAPNG, "image/apng"},
		{FormatJPEG, "image/jpeg"},
		{FormatGIF, "image/gif"},
		{FormatWebP, "image/webp"},
		{FormatAnimatedWebP, "image/webp"},
		{FormatSVG, "image/svg+xml"},
		{FormatUnknown, ""},
	}
	for _, tt := range tests {
		if got := tt.format.MIME(); got != tt.want {
			t.Errorf("%v.MIME() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	if got := FormatAPNG.Ext(); got != ".png" {
		t.Errorf("FormatAPNG.Ext() = %q, want .png", got)
	}
	if got := FormatJPEG.Ext(); got != ".jpg" {
		t.Errorf("FormatJPEG.Ext() = %q, want .jpg", got)
	}
	if got := FormatUnknown.Ext(); got != "" {
		t.Errorf("FormatUnknown.Ext() = %q, want empty", got)
	}
}

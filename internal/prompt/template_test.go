package prompt

import "testing"

func TestFormatTemplate(t *testing.T) {
	out, err := FormatTemplate("Practice your {language}!", map[string]string{"language": "Spanish"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Practice your Spanish!" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestFormatTemplateEscapedBraces(t *testing.T) {
	out, err := FormatTemplate("literal {{braces}} and {key}", map[string]string{"key": "value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "literal {braces} and value" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestFormatTemplateMissingValue(t *testing.T) {
	if _, err := FormatTemplate("{missing}", nil); err == nil {
		t.Fatalf("expected error for missing value")
	}
}

func TestFormatTemplateUnbalanced(t *testing.T) {
	if _, err := FormatTemplate("{open", nil); err == nil {
		t.Fatalf("expected error for unbalanced brace")
	}
	if _, err := FormatTemplate("close}", nil); err == nil {
		t.Fatalf("expected error for stray closing brace")
	}
}

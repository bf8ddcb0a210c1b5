package emoji

import "testing"

func TestSymbolsDistinct(t *testing.T) {
	if Success == Stop {
		t.Errorf("Success and Stop share the symbol %q", Success)
	}
	for name, s := range map[string]string{"Success": Success, "Stop": Stop, "Info": Info} {
		if s == "" {
			t.Errorf("%s is empty", name)
		}
	}
}

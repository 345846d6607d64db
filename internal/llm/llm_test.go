package llm

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}

func TestNewClientFallsBackToViperKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GEMINI_API_KEY", "")
	viper.Set("gemini.api_key", "from-config")

	client, err := NewClient("custom-model")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.ModelName() != "custom-model" {
		t.Errorf("unexpected model: %q", client.ModelName())
	}
}

func TestBuildPrompts(t *testing.T) {
	long := BuildSummaryPrompt("Title A", "Abstract A")
	if !strings.Contains(long, "約300字") || !strings.Contains(long, "Title A") {
		t.Errorf("long prompt malformed: %s", long)
	}

	short := BuildShortSummaryPrompt("Title A", "Abstract A")
	if !strings.Contains(short, "約150字") || !strings.Contains(short, "Abstract A") {
		t.Errorf("short prompt malformed: %s", short)
	}

	narrative := BuildNarrativePrompt("現在の文章", "- 新しい要約")
	if !strings.Contains(narrative, "現在の文章") || !strings.Contains(narrative, "- 新しい要約") {
		t.Errorf("narrative prompt malformed: %s", narrative)
	}
}

package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	resp := "Sure! Here is the recipe:\n```json\n{\"name\": \"Soup\"}\n```\nEnjoy!"
	raw, err := ExtractJSON(resp)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if raw != `{"name": "Soup"}` {
		t.Errorf("Expected the bare JSON object, got %q", raw)
	}

	if _, err := ExtractJSON("no json here at all"); err == nil {
		t.Error("Expected an error when no JSON object is present")
	}
}

func TestRepairJSON(t *testing.T) {
	sloppy := `{
  "items": [1, 2, 3,], // counts
  "name": "Soup",
}`
	repaired := RepairJSON(sloppy)

	var parsed struct {
		Items []int  `json:"items"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		t.Fatalf("Repaired JSON still does not parse: %v\n%s", err, repaired)
	}
	if len(parsed.Items) != 3 || parsed.Name != "Soup" {
		t.Errorf("Repair changed the content: %+v", parsed)
	}
}

package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"mealmind/internal/llm"
)

// Importer fetches a recipe page and normalizes it into a Recipe via the LLM.
type Importer struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewImporter creates a new Importer.
func NewImporter(textGen llm.TextGenerator) *Importer {
	return &Importer{
		textGen: textGen,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

const importPrompt = `You are a recipe extraction expert. Extract the recipe from the following page text.
Return ONLY valid JSON (no markdown, no explanation) with this structure:
{
  "name": "Recipe Name",
  "description": "Brief 1-2 sentence description",
  "ingredients": [
    {"name": "flour", "amount": "2", "unit": "cup", "category": "pantry"}
  ],
  "instructions": ["Step 1", "Step 2"],
  "prepTimeMinutes": 15,
  "cookTimeMinutes": 30,
  "servings": 4,
  "cuisine": "Italian",
  "tags": ["tag1", "tag2"]
}

Page text:
%s
`

// ImportFromURL fetches the URL, extracts the recipe text, and asks the LLM
// to normalize it. The returned recipe is not yet persisted; callers run the
// safety filter and save it themselves.
func (i *Importer) ImportFromURL(ctx context.Context, householdID, url string) (*Recipe, error) {
	content, err := i.fetchPageText(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	resp, err := i.textGen.GenerateContent(ctx, fmt.Sprintf(importPrompt, content))
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	raw, err := llm.ExtractJSON(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to locate JSON in AI response: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp)
	}

	if rec.Name == "" || len(rec.Ingredients) == 0 {
		return nil, fmt.Errorf("extracted recipe is incomplete (name or ingredients missing)")
	}

	rec.ID = uuid.NewString()
	rec.HouseholdID = householdID
	rec.SourceURL = url
	return &rec, nil
}

// fetchPageText downloads the page and strips markup noise to save LLM tokens.
func (i *Importer) fetchPageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

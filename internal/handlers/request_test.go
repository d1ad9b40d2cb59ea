package handlers

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"pagecms/internal/models"
)

func sampleStored(page string) *models.ContentItem {
	return &models.ContentItem{
		Page:        page,
		Section:     "hero",
		SectionKey:  "hero",
		SectionType: models.SectionTypeText,
		Layout:      models.LayoutDefault,
		SortOrder:   1,
		Title:       models.Bilingual{En: "Welcome", Ta: "வணக்கம்"},
		Content:     models.Bilingual{En: "Body"},
		IsActive:    true,
		IsVisible:   true,
		Version:     3,
	}
}

func TestApply_TracksChangedFieldNamesOnly(t *testing.T) {
	item := sampleStored("home")
	in := decodeInput(t, `{"title":{"en":"Updated"},"isActive":false}`)

	changed := in.apply(item)

	want := []string{"title", "isActive"}
	if !reflect.DeepEqual(changed, want) {
		t.Errorf("changed: got %v, want %v", changed, want)
	}
	if item.Title.En != "Updated" {
		t.Errorf("title: got %q", item.Title.En)
	}
	if item.IsActive {
		t.Error("isActive not applied")
	}
	// An object replaces the whole pair, dropping the old Tamil side.
	if item.Title.Ta != "" {
		t.Errorf("title ta: got %q, want cleared", item.Title.Ta)
	}
}

func TestApply_SameValuesChangeNothing(t *testing.T) {
	item := sampleStored("home")
	in := decodeInput(t, `{"page":"home","section":"hero","isActive":true,"order":1}`)

	if changed := in.apply(item); len(changed) != 0 {
		t.Errorf("no-op patch reported changes: %v", changed)
	}
}

func TestApply_FlatTamilTouchesOnlyTamilSide(t *testing.T) {
	item := sampleStored("home")
	in := decodeInput(t, `{"contentTamil":"உள்ளடக்கம்"}`)

	changed := in.apply(item)

	if !reflect.DeepEqual(changed, []string{"content"}) {
		t.Errorf("changed: got %v", changed)
	}
	if item.Content.En != "Body" {
		t.Errorf("english side touched: %q", item.Content.En)
	}
	if item.Content.Ta != "உள்ளடக்கம்" {
		t.Errorf("tamil side: got %q", item.Content.Ta)
	}
	if !item.HasTamilTranslation {
		t.Error("tamil flag not derived")
	}
}

func TestApply_ObjectTamilWinsOverFlat(t *testing.T) {
	item := sampleStored("home")
	in := decodeInput(t, `{"title":{"en":"Hi","ta":"object"},"titleTamil":"flat"}`)

	in.apply(item)

	if item.Title.Ta != "object" {
		t.Errorf("title ta: got %q, want the object value", item.Title.Ta)
	}
}

func TestNewItem_AppliesCreationDefaults(t *testing.T) {
	in := decodeInput(t, `{"page":"landing"}`)
	caller := adminCaller(uuid.New())

	c := in.newItem(caller)

	if c.Section != "main" || c.SectionKey != "main" {
		t.Errorf("section defaults: got %q/%q", c.Section, c.SectionKey)
	}
	if c.Title.En != "landing Content" {
		t.Errorf("placeholder title: got %q", c.Title.En)
	}
	if !c.IsActive || !c.IsVisible || c.SortOrder != 1 || c.Version != 1 {
		t.Errorf("defaults: active=%v visible=%v order=%d version=%d",
			c.IsActive, c.IsVisible, c.SortOrder, c.Version)
	}
	if c.CreatedBy == nil || *c.CreatedBy != caller.ID {
		t.Errorf("createdBy: got %v", c.CreatedBy)
	}
}

func TestNewItem_SectionKeyFollowsSection(t *testing.T) {
	in := decodeInput(t, `{"page":"landing","section":"cta"}`)

	c := in.newItem(nil)

	if c.Section != "cta" || c.SectionKey != "cta" {
		t.Errorf("got %q/%q, want cta/cta", c.Section, c.SectionKey)
	}
	if c.CreatedBy != nil {
		t.Errorf("anonymous creation stamped createdBy: %v", c.CreatedBy)
	}
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr only", "203.0.113.9:52314", nil, "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"x-forwarded-for single", "10.0.0.1:1234",
			map[string]string{"X-Forwarded-For": "192.0.2.4"}, "192.0.2.4"},
		{"x-forwarded-for chain takes first", "10.0.0.1:1234",
			map[string]string{"X-Forwarded-For": "192.0.2.4, 10.0.0.2, 10.0.0.3"}, "192.0.2.4"},
		{"forwarded-for beats real-ip", "10.0.0.1:1234",
			map[string]string{"X-Forwarded-For": "192.0.2.4", "X-Real-IP": "198.51.100.7"}, "192.0.2.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientAddr(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBoolParam(t *testing.T) {
	if v := parseBoolParam(""); v != nil {
		t.Errorf("empty: got %v, want nil", *v)
	}
	if v := parseBoolParam("true"); v == nil || !*v {
		t.Error("true not parsed")
	}
	if v := parseBoolParam("false"); v == nil || *v {
		t.Error("false not parsed")
	}
	if v := parseBoolParam("banana"); v != nil {
		t.Errorf("garbage: got %v, want nil", *v)
	}
}

func TestDecodeReorderBatch(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		body      string
		wantPairs int
		wantErr   bool
	}{
		{"wrapper object", `{"items":[{"id":"` + id.String() + `","order":5}]}`, 1, false},
		{"bare array", `[{"id":"` + id.String() + `","order":5}]`, 1, false},
		{"empty wrapper", `{"items":[]}`, 0, false},
		{"wrapper without items", `{}`, 0, false},
		{"malformed", `{"items":`, 0, true},
		{"wrong element type", `[1,2,3]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := decodeReorderBatch([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pairs) != tt.wantPairs {
				t.Errorf("pairs: got %d, want %d", len(pairs), tt.wantPairs)
			}
			if tt.wantPairs > 0 && (pairs[0].ID != id || pairs[0].Order != 5) {
				t.Errorf("pair: got %+v", pairs[0])
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	if got := parseIntParam("", 50); got != 50 {
		t.Errorf("empty: got %d, want default", got)
	}
	if got := parseIntParam("25", 50); got != 25 {
		t.Errorf("valid: got %d, want 25", got)
	}
	if got := parseIntParam("nope", 50); got != 50 {
		t.Errorf("garbage: got %d, want default", got)
	}
}

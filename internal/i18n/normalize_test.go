// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecms/internal/models"
)

func TestTextUnmarshalObject(t *testing.T) {
	var v struct {
		Title Text `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title": {"en": "Welcome", "ta": "வணக்கம்"}}`), &v))

	assert.True(t, v.Title.Set())
	assert.Equal(t, models.Bilingual{En: "Welcome", Ta: "வணக்கம்"}, v.Title.Bilingual)
}

func TestTextUnmarshalBareString(t *testing.T) {
	var v struct {
		Title Text `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Welcome"}`), &v))

	assert.True(t, v.Title.Set())
	assert.Equal(t, models.Bilingual{En: "Welcome"}, v.Title.Bilingual)
}

func TestTextAbsentAndNull(t *testing.T) {
	var absent struct {
		Title Text `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Title.Set())

	var null struct {
		Title Text `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title": null}`), &null))
	assert.False(t, null.Title.Set())
}

func TestTextUnmarshalRejectsNumbers(t *testing.T) {
	var v struct {
		Title Text `json:"title"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"title": 7}`), &v))
}

func TestTextNormalizeMergesFlatTamil(t *testing.T) {
	var v struct {
		Title Text `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Welcome"}`), &v))

	merged := v.Title.Normalize("வணக்கம்")
	assert.Equal(t, models.Bilingual{En: "Welcome", Ta: "வணக்கம்"}, merged)
}

func TestTextNormalizeObjectTamilWins(t *testing.T) {
	var v struct {
		Title Text `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title": {"en": "Welcome", "ta": "முதல்"}}`), &v))

	// The explicit ta inside the object beats the flat companion field.
	merged := v.Title.Normalize("இரண்டாம்")
	assert.Equal(t, "முதல்", merged.Ta)
}

func TestKeywordListShapes(t *testing.T) {
	var obj struct {
		Keywords KeywordList `json:"seoKeywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"seoKeywords": {"en": ["temple"], "ta": ["கோவில்"]}}`), &obj))
	assert.True(t, obj.Keywords.Set())
	assert.Equal(t, []string{"கோவில்"}, obj.Keywords.Ta)

	var bare struct {
		Keywords KeywordList `json:"seoKeywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"seoKeywords": ["temple", "events"]}`), &bare))
	assert.True(t, bare.Keywords.Set())
	assert.Equal(t, []string{"temple", "events"}, bare.Keywords.En)
	assert.Empty(t, bare.Keywords.Ta)

	var absent struct {
		Keywords KeywordList `json:"seoKeywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Keywords.Set())
}

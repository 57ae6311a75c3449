package validation

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,nickname"`
	Password string `json:"password" validate:"required,pwd"`
}

func TestStructUsesJSONNames(t *testing.T) {
	details := Struct(signup{Email: "nope", Nickname: "a", Password: "short"})
	require.NotNil(t, details)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 2 characters long", details["nickname"])
	assert.Equal(t, "must be at least 8 characters long", details["password"])
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(signup{Email: "a@b.io", Nickname: "초록숲", Password: "12345678"}))
}

func TestRuneLength(t *testing.T) {
	type box struct {
		Name string `json:"name" validate:"min=2,max=3"`
	}
	assert.Nil(t, Struct(box{Name: "숲숲숲"}))
	assert.Equal(t, "must be at most 3 characters long", Struct(box{Name: "숲숲숲숲"})["name"])
}

func TestStructConcurrentCalls(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]map[string]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i] = Struct(signup{Email: "a@b.io", Nickname: "forest", Password: "12345678"})
			} else {
				results[i] = Struct(signup{Email: "bad", Nickname: "forest", Password: "12345678"})
			}
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if i%2 == 0 {
			assert.Nil(t, got, i)
		} else {
			assert.Equal(t, map[string]string{"email": "must be a valid email"}, got, i)
		}
	}
}

func TestRegisterAliasDescribesActualTag(t *testing.T) {
	RegisterAlias("test_color", "oneof=red blue")
	type paint struct {
		Color string `json:"color" validate:"test_color"`
	}
	assert.Nil(t, Struct(paint{Color: "red"}))
	assert.Equal(t, "must be one of: red, blue", Struct(paint{Color: "neon"})["color"])
}

func TestToDetailsJSONErrors(t *testing.T) {
	var v struct {
		IsPublic bool `json:"isPublic"`
	}
	err := json.Unmarshal([]byte(`{"isPublic":"yes"}`), &v)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"isPublic": "must be a bool"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &v)
	require.Error(t, err)
	assert.Equal(t, "invalid json", ToDetails(err)["payload"])

	assert.Nil(t, ToDetails(nil))
}

func TestIsStudyID(t *testing.T) {
	valid := []string{
		"3f1c2a8e-5b7d-4c9e-8a1b-2d3e4f5a6b7c",
		"3F1C2A8E-5B7D-4C9E-AA1B-2D3E4F5A6B7C",
		"00000000-0000-1000-8000-000000000000",
	}
	for _, id := range valid {
		assert.True(t, IsStudyID(id), id)
	}

	invalid := []string{
		"",
		"not-a-uuid",
		"3f1c2a8e5b7d4c9e8a1b2d3e4f5a6b7c",
		"3f1c2a8e-5b7d-6c9e-8a1b-2d3e4f5a6b7c", // version 6
		"3f1c2a8e-5b7d-4c9e-ca1b-2d3e4f5a6b7c", // variant c
		"{3f1c2a8e-5b7d-4c9e-8a1b-2d3e4f5a6b7c}",
		" 3f1c2a8e-5b7d-4c9e-8a1b-2d3e4f5a6b7c",
		strings.Repeat("a", 36),
	}
	for _, id := range invalid {
		assert.False(t, IsStudyID(id), id)
	}
}

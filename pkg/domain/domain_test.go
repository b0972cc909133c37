package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityID_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		id   domain.CityID
		out  string
	}{
		{"number", `42`, "42", `42`},
		{"string", `"spb"`, "spb", `"spb"`},
		{"numeric string stays a number", `"7"`, "7", `7`},
		{"float", `1.5`, "1.5", `1.5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id domain.CityID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.id, id)

			data, err := json.Marshal(id)
			require.NoError(t, err)
			assert.JSONEq(t, tt.out, string(data))
		})
	}
}

func TestCityID_UnmarshalRejectsObjects(t *testing.T) {
	var id domain.CityID
	assert.Error(t, json.Unmarshal([]byte(`{"id": 1}`), &id))
}

func TestNewCategorySet(t *testing.T) {
	set, err := domain.NewCategorySet([]domain.Category{
		{Code: "B", Label: "Бары"},
		{Code: "A"},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.Category{{Code: "B", Label: "Бары"}, {Code: "A", Label: "A"}}, set.All(),
		"order is kept and an empty label falls back to the code")

	c, ok := set.Lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "Бары", c.Label)

	_, ok = set.Lookup("C")
	assert.False(t, ok)

	all := set.All()
	all[0].Label = "changed"
	c, _ = set.Lookup("B")
	assert.Equal(t, "Бары", c.Label, "All returns a copy")
}

func TestNewCategorySet_Invalid(t *testing.T) {
	_, err := domain.NewCategorySet([]domain.Category{{Label: "no code"}})
	assert.Error(t, err)

	_, err = domain.NewCategorySet([]domain.Category{{Code: "A"}, {Code: "A"}})
	assert.ErrorContains(t, err, "duplicate")

	assert.Panics(t, func() { domain.MustCategorySet([]domain.Category{{Code: ""}}) })
}

func TestSession_Reset(t *testing.T) {
	s := domain.NewSession("42")
	s.State = domain.StateSelectingCity
	s.CityID = "1"
	s.CityName = "Москва"
	s.Offered = []domain.City{{ID: "1", Name: "Москва"}}
	s.PromptID = "p1"

	s.Reset()
	assert.Equal(t, domain.StateIdle, s.State)
	assert.Empty(t, s.CityID)
	assert.Empty(t, s.CityName)
	assert.Nil(t, s.Offered)
	assert.Empty(t, s.PromptID)
	assert.Equal(t, "42", s.UserID)
}

func TestSession_Snapshot(t *testing.T) {
	s := domain.NewSession("42")
	s.Offered = []domain.City{{ID: "1", Name: "Москва"}}

	cp := s.Snapshot()
	cp.Offered[0].Name = "changed"
	assert.Equal(t, "Москва", s.Offered[0].Name)

	var nilSession *domain.Session
	assert.Nil(t, nilSession.Snapshot())
}

func TestSession_OfferedCity(t *testing.T) {
	s := domain.NewSession("42")
	s.Offered = []domain.City{{ID: "4", Name: "Новосибирск"}, {ID: "5", Name: "Новоалтайск"}}

	c, ok := s.OfferedCity("Новоалтайск")
	assert.True(t, ok)
	assert.Equal(t, domain.CityID("5"), c.ID)

	_, ok = s.OfferedCity("Москва")
	assert.False(t, ok)
}

func TestEvent_IsTap(t *testing.T) {
	assert.True(t, domain.Event{Payload: "cat_X"}.IsTap())
	assert.False(t, domain.Event{Text: "hi"}.IsTap())
}

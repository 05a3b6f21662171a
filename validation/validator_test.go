package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/foodgram-api/dto"
)

func TestStruct_RecipeCreateRequest(t *testing.T) {
	valid := func() dto.RecipeCreateRequest {
		return dto.RecipeCreateRequest{
			Name:        "Borscht",
			Text:        "Boil beets",
			CookingTime: 60,
			Tags:        []uint{1, 2},
			Ingredients: []dto.IngredientAmountInput{{ID: 1, Amount: 5}, {ID: 2, Amount: 1}},
			Image:       "data:image/png;base64,AAAA",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*dto.RecipeCreateRequest)
		wantField string
		wantMsg   string
	}{
		{name: "valid", mutate: func(*dto.RecipeCreateRequest) {}},
		{
			name:      "cooking time zero",
			mutate:    func(r *dto.RecipeCreateRequest) { r.CookingTime = 0 },
			wantField: "cooking_time",
			wantMsg:   MsgMinValue,
		},
		{
			name:      "duplicate tags",
			mutate:    func(r *dto.RecipeCreateRequest) { r.Tags = []uint{3, 3} },
			wantField: "tags",
			wantMsg:   MsgTagsNotUnique,
		},
		{
			name: "duplicate ingredients",
			mutate: func(r *dto.RecipeCreateRequest) {
				r.Ingredients = []dto.IngredientAmountInput{{ID: 7, Amount: 1}, {ID: 7, Amount: 2}}
			},
			wantField: "ingredients",
			wantMsg:   MsgIngredientsNotUnique,
		},
		{
			name: "amount zero",
			mutate: func(r *dto.RecipeCreateRequest) {
				r.Ingredients = []dto.IngredientAmountInput{{ID: 7, Amount: 0}}
			},
			wantField: "ingredients",
			wantMsg:   MsgMinValue,
		},
		{
			name:      "missing name",
			mutate:    func(r *dto.RecipeCreateRequest) { r.Name = "" },
			wantField: "name",
			wantMsg:   MsgRequired,
		},
		{
			name:      "empty tag list",
			mutate:    func(r *dto.RecipeCreateRequest) { r.Tags = []uint{} },
			wantField: "tags",
			wantMsg:   MsgEmptyList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := Struct(&req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *Errors
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *Errors", err)
			}
			msgs := verr.Fields[tt.wantField]
			found := false
			for _, m := range msgs {
				if m == tt.wantMsg {
					found = true
				}
			}
			if !found {
				t.Errorf("fields = %v, want %q under %q", verr.Fields, tt.wantMsg, tt.wantField)
			}
		})
	}
}

func TestStruct_CustomRules(t *testing.T) {
	tag := dto.TagRequest{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"}
	if err := Struct(&tag); err != nil {
		t.Fatalf("valid tag rejected: %v", err)
	}

	tag.Slug = "завтрак"
	tag.Color = "red"
	var verr *Errors
	if !errors.As(Struct(&tag), &verr) {
		t.Fatal("invalid tag accepted")
	}
	if verr.Fields["slug"][0] != MsgInvalidSlug {
		t.Errorf("slug messages = %v", verr.Fields["slug"])
	}
	if verr.Fields["color"][0] != MsgInvalidColor {
		t.Errorf("color messages = %v", verr.Fields["color"])
	}

	reg := dto.RegisterRequest{Email: "x@example.com", Username: "bad name", FirstName: "X", LastName: "Y", Password: "password1"}
	if !errors.As(Struct(&reg), &verr) || verr.Fields["username"][0] != MsgInvalidUsername {
		t.Errorf("username with a space accepted: %v", verr)
	}
}

func TestFromBinding_JSONErrors(t *testing.T) {
	var req dto.RecipeCreateRequest
	err := json.Unmarshal([]byte(`{"cooking_time": "soon"}`), &req)
	verr := FromBinding(err)
	if len(verr.Fields["cooking_time"]) != 1 || verr.Fields["cooking_time"][0] != MsgInvalidType {
		t.Errorf("fields = %v", verr.Fields)
	}

	err = json.Unmarshal([]byte(`{`), &req)
	verr = FromBinding(err)
	if verr.Fields[NonFieldErrors][0] != MsgInvalidJSON {
		t.Errorf("fields = %v", verr.Fields)
	}
}

func TestErrors_ErrorIsSorted(t *testing.T) {
	e := New()
	e.Add("tags", "b")
	e.Add("name", "a")
	e.Add("name", "a")

	if got := e.Error(); !strings.HasPrefix(got, "validation failed: name: a; tags: b") {
		t.Errorf("Error() = %q", got)
	}
	if New().Err() != nil {
		t.Error("empty collection should not be an error")
	}
}

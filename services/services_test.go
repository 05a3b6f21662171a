package services

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/foodgram-api/database/dbtest"
	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/metrics"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/repositories"
	"github.com/foodgram-api/validation"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type env struct {
	svc       *Services
	metrics   *metrics.Metrics
	mediaRoot string
}

func newEnv(t *testing.T) env {
	t.Helper()
	m := metrics.New()
	root := t.TempDir()
	svc := New(dbtest.New(t), Options{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
		MediaRoot: root,
		MediaURL:  "/media",
	}, m)
	return env{svc: svc, metrics: m, mediaRoot: root}
}

func (e env) register(t *testing.T, name string, staff bool) *models.User {
	t.Helper()
	req := dto.RegisterRequest{
		Email:     name + "@example.com",
		Username:  name,
		FirstName: name,
		LastName:  name,
		Password:  "password123",
	}
	register := e.svc.Auth.Register
	if staff {
		register = e.svc.Auth.CreateSuperuser
	}
	u, err := register(context.Background(), req)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return &u
}

func (e env) ingredient(t *testing.T, staff *models.User, name, unit string) models.Ingredient {
	t.Helper()
	ing, err := e.svc.Ingredients.Create(context.Background(), staff, dto.IngredientRequest{Name: name, MeasurementUnit: unit})
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	return ing
}

func (e env) tag(t *testing.T, staff *models.User, slug string) models.Tag {
	t.Helper()
	tag, err := e.svc.Tags.Create(context.Background(), staff, dto.TagRequest{Name: slug, Color: "#49B64E", Slug: slug})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	return tag
}

func (e env) recipe(t *testing.T, author *models.User, tags []uint, ingredients ...dto.IngredientAmountInput) dto.RecipeResponse {
	t.Helper()
	r, err := e.svc.Recipes.Create(context.Background(), author, dto.RecipeCreateRequest{
		Name:        "Recipe",
		Text:        "Cook it",
		CookingTime: 15,
		Tags:        tags,
		Ingredients: ingredients,
		Image:       pngDataURI,
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	return r
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", false)

	resp, err := e.svc.Auth.Login(ctx, dto.LoginRequest{Email: "ALICE@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := e.svc.Auth.Authenticate(ctx, resp.AuthToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated as %d, want %d", got.ID, u.ID)
	}

	if _, err := e.svc.Auth.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := e.svc.Auth.Authenticate(ctx, resp.AuthToken+"x"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("tampered token error = %v", err)
	}

	e.svc.Auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := e.svc.Auth.Authenticate(ctx, resp.AuthToken); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expired token error = %v", err)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", false)

	_, err := e.svc.Auth.Register(context.Background(), dto.RegisterRequest{
		Email: "alice@example.com", Username: "alice", FirstName: "A", LastName: "A", Password: "password123",
	})
	var verr *validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want validation errors", err)
	}
	if verr.Fields["email"][0] != validation.MsgEmailTaken || verr.Fields["username"][0] != validation.MsgUsernameTaken {
		t.Errorf("fields = %v", verr.Fields)
	}
}

func TestAuthService_RegisterRaceReportsCollidingField(t *testing.T) {
	db := dbtest.New(t)
	auth := NewAuthService(repositories.NewUserRepository(db), "test-secret", time.Hour)

	// a rival signup with the same username commits between the availability
	// check and the insert
	raced := false
	err := db.Callback().Create().Before("gorm:begin_transaction").Register("test:rival_signup", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		rival := models.User{Email: "rival@example.com", Username: "chef", FirstName: "R", LastName: "R", Password: "x", IsActive: true}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			t.Errorf("rival signup: %v", err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = auth.Register(context.Background(), dto.RegisterRequest{
		Email: "chef@example.com", Username: "chef", FirstName: "C", LastName: "C", Password: "password123",
	})
	var verr *validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want validation errors", err)
	}
	if len(verr.Fields["username"]) != 1 || len(verr.Fields["email"]) != 0 {
		t.Errorf("fields = %v, want only username", verr.Fields)
	}
}

func TestAuthService_SetPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", false)

	err := e.svc.Auth.SetPassword(ctx, u, dto.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "newpassword"})
	var verr *validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("wrong current password error = %v", err)
	}

	if err := e.svc.Auth.SetPassword(ctx, u, dto.SetPasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword"}); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if _, err := e.svc.Auth.Login(ctx, dto.LoginRequest{Email: u.Email, Password: "newpassword"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestImageService_Decode(t *testing.T) {
	s := NewImageService(t.TempDir(), "/media")

	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{name: "png", uri: pngDataURI},
		{name: "no base64 marker", uri: "data:image/png,abc", wantErr: true},
		{name: "not an image type", uri: "data:text/plain;base64,aGVsbG8=", wantErr: true},
		{name: "text posing as png", uri: "data:image/png;base64,aGVsbG8gd29ybGQ=", wantErr: true},
		{name: "broken base64", uri: "data:image/png;base64,!!!", wantErr: true},
		{name: "empty payload", uri: "data:image/png;base64,", wantErr: true},
		{
			name:    "svg with script",
			uri:     "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)),
			wantErr: true,
		},
		{name: "svg declared as png", uri: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)), wantErr: true},
		{name: "bmp", uri: "data:image/bmp;base64," + base64.StdEncoding.EncodeToString(append([]byte("BM"), make([]byte, 60)...)), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := s.Decode(tt.uri)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImage) {
					t.Errorf("error = %v, want ErrInvalidImage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.MIME != "image/png" || img.Extension != ".png" {
				t.Errorf("decoded = %s %s", img.MIME, img.Extension)
			}
		})
	}
}

func TestImageService_StoreAndRemove(t *testing.T) {
	root := t.TempDir()
	s := NewImageService(root, "media/")

	public, err := s.Store(pngDataURI)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(public, "/media/recipes/") || !strings.HasSuffix(public, ".png") {
		t.Errorf("public path = %q", public)
	}
	onDisk := filepath.Join(root, "recipes", filepath.Base(public))
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("stored file: %v", err)
	}

	s.Remove("/media/../etc/passwd")
	s.Remove(public)
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Errorf("file still present after remove: %v", err)
	}
}

func TestRecipeService_CreateValidatesReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	author := e.register(t, "alice", false)
	lunch := e.tag(t, admin, "lunch")
	salt := e.ingredient(t, admin, "Salt", "g")

	_, err := e.svc.Recipes.Create(ctx, author, dto.RecipeCreateRequest{
		Name: "Soup", Text: "Boil", CookingTime: 5,
		Tags:        []uint{lunch.ID, 999},
		Ingredients: []dto.IngredientAmountInput{{ID: salt.ID, Amount: 1}, {ID: 777, Amount: 1}},
		Image:       pngDataURI,
	})
	var verr *validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want validation errors", err)
	}
	if !strings.Contains(verr.Fields["tags"][0], `"999"`) || !strings.Contains(verr.Fields["ingredients"][0], `"777"`) {
		t.Errorf("fields = %v", verr.Fields)
	}

	entries, _ := os.ReadDir(filepath.Join(e.mediaRoot, "recipes"))
	if len(entries) != 0 {
		t.Errorf("image stored for a rejected recipe: %d files", len(entries))
	}

	if _, err := e.svc.Recipes.Create(ctx, nil, dto.RecipeCreateRequest{}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous create error = %v", err)
	}
}

func TestRecipeService_Permissions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	owner := e.register(t, "owner", false)
	other := e.register(t, "other", false)
	salt := e.ingredient(t, admin, "Salt", "g")
	r := e.recipe(t, owner, []uint{e.tag(t, admin, "lunch").ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 1})

	name := "Renamed"
	tests := []struct {
		name  string
		actor *models.User
		want  error
	}{
		{name: "anonymous", actor: nil, want: ErrUnauthenticated},
		{name: "other user", actor: other, want: ErrPermissionDenied},
		{name: "owner", actor: owner, want: nil},
		{name: "staff", actor: admin, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Recipes.Update(ctx, tt.actor, r.ID, dto.RecipeUpdateRequest{Name: &name})
			if !errors.Is(err, tt.want) {
				t.Errorf("update error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := e.svc.Recipes.Delete(ctx, other, r.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("delete by other error = %v", err)
	}
	if err := e.svc.Recipes.Delete(ctx, owner, r.ID); err != nil {
		t.Errorf("delete by owner: %v", err)
	}
	if _, err := e.svc.Recipes.Get(ctx, nil, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted recipe error = %v", err)
	}
}

func TestRecipeService_UpdateReplacesImage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	salt := e.ingredient(t, admin, "Salt", "g")
	r := e.recipe(t, admin, []uint{e.tag(t, admin, "lunch").ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 1})

	image := pngDataURI
	updated, err := e.svc.Recipes.Update(ctx, admin, r.ID, dto.RecipeUpdateRequest{Image: &image})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Image == r.Image {
		t.Error("image path unchanged")
	}
	entries, _ := os.ReadDir(filepath.Join(e.mediaRoot, "recipes"))
	if len(entries) != 1 {
		t.Errorf("files on disk = %d, want only the new image", len(entries))
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].Name != "Salt" {
		t.Errorf("ingredients changed: %+v", updated.Ingredients)
	}
}

func TestRecipeService_FavoriteToggle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	u := e.register(t, "alice", false)
	salt := e.ingredient(t, admin, "Salt", "g")
	r := e.recipe(t, admin, []uint{e.tag(t, admin, "lunch").ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 1})

	short, err := e.svc.Recipes.AddFavorite(ctx, u, r.ID)
	if err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if short.ID != r.ID || short.Image != r.Image {
		t.Errorf("short = %+v", short)
	}
	if _, err := e.svc.Recipes.AddFavorite(ctx, u, r.ID); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("second favorite error = %v", err)
	}

	got, err := e.svc.Recipes.Get(ctx, u, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsFavorited || got.IsInShoppingCart {
		t.Errorf("flags favorited=%v cart=%v", got.IsFavorited, got.IsInShoppingCart)
	}
	anon, _ := e.svc.Recipes.Get(ctx, nil, r.ID)
	if anon.IsFavorited {
		t.Error("anonymous viewer sees is_favorited")
	}

	if err := e.svc.Recipes.RemoveFavorite(ctx, u, r.ID); err != nil {
		t.Fatalf("unfavorite: %v", err)
	}
	if err := e.svc.Recipes.RemoveFavorite(ctx, u, r.ID); !errors.Is(err, ErrRelationNotFound) {
		t.Errorf("second unfavorite error = %v", err)
	}
	if _, err := e.svc.Recipes.AddFavorite(ctx, u, r.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("favorite missing recipe error = %v", err)
	}

	if got := testutil.ToFloat64(e.metrics.RelationChanges.WithLabelValues("favorite", "add", "duplicate")); got != 1 {
		t.Errorf("duplicate metric = %v", got)
	}
}

func TestShoppingListService_Build(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	u := e.register(t, "alice", false)
	lunch := e.tag(t, admin, "lunch")
	salt := e.ingredient(t, admin, "Salt", "g")
	pepper := e.ingredient(t, admin, "Pepper", "g")

	r1 := e.recipe(t, admin, []uint{lunch.ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 5})
	r2 := e.recipe(t, admin, []uint{lunch.ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 10}, dto.IngredientAmountInput{ID: pepper.ID, Amount: 1})

	empty, err := e.svc.ShoppingList.Build(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if empty != "Список ингредиентов:\n\n" {
		t.Errorf("empty list = %q", empty)
	}

	for _, id := range []uint{r1.ID, r2.ID} {
		if _, err := e.svc.Recipes.AddToShoppingCart(ctx, u, id); err != nil {
			t.Fatal(err)
		}
	}
	got, err := e.svc.ShoppingList.Build(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	want := "Список ингредиентов:\n\nPepper (g) - 1\nSalt (g) - 15\n"
	if got != want {
		t.Errorf("list = %q, want %q", got, want)
	}

	if _, err := e.svc.ShoppingList.Build(ctx, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous error = %v", err)
	}
	if n := testutil.ToFloat64(e.metrics.ShoppingListDownloads); n != 2 {
		t.Errorf("downloads = %v, want 2", n)
	}
}

func TestUserService_Subscriptions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	reader := e.register(t, "reader", false)
	salt := e.ingredient(t, admin, "Salt", "g")
	lunch := e.tag(t, admin, "lunch")
	for i := 0; i < 3; i++ {
		e.recipe(t, admin, []uint{lunch.ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 1})
	}

	if _, err := e.svc.Users.Subscribe(ctx, reader, reader.ID, 0); !errors.Is(err, ErrSelfSubscription) {
		t.Errorf("self subscribe error = %v", err)
	}
	sub, err := e.svc.Users.Subscribe(ctx, reader, admin.ID, 2)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !sub.IsSubscribed || len(sub.Recipes) != 2 || sub.RecipesCount != 3 {
		t.Errorf("subscription = %+v", sub)
	}
	if _, err := e.svc.Users.Subscribe(ctx, reader, admin.ID, 0); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("second subscribe error = %v", err)
	}
	if _, err := e.svc.Users.Subscribe(ctx, reader, 9999, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("subscribe to missing user error = %v", err)
	}

	list, err := e.svc.Users.Subscriptions(ctx, reader, dto.Pagination{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Limit != DefaultPageSize || len(list.Results[0].Recipes) != 1 {
		t.Errorf("subscriptions = %+v", list)
	}

	profile, _ := e.svc.Users.Get(ctx, reader, admin.ID)
	if !profile.IsSubscribed {
		t.Error("profile not marked subscribed")
	}

	if err := e.svc.Users.Unsubscribe(ctx, reader, admin.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := e.svc.Users.Unsubscribe(ctx, reader, admin.ID); !errors.Is(err, ErrRelationNotFound) {
		t.Errorf("second unsubscribe error = %v", err)
	}
}

func TestUserService_DeleteKeepsRecipes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	author := e.register(t, "author", false)
	salt := e.ingredient(t, admin, "Salt", "g")
	r := e.recipe(t, author, []uint{e.tag(t, admin, "lunch").ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 1})

	if err := e.svc.Users.Delete(ctx, author, author.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("non-staff delete error = %v", err)
	}
	if err := e.svc.Users.Delete(ctx, admin, author.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := e.svc.Recipes.Get(ctx, nil, r.ID)
	if err != nil {
		t.Fatalf("recipe lost with its author: %v", err)
	}
	if got.Author != nil {
		t.Errorf("author = %+v, want nil", got.Author)
	}
	if err := e.svc.Recipes.Delete(ctx, author, r.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("orphaned recipe delete by non-staff error = %v", err)
	}
}

func TestCatalogServices(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin", true)
	u := e.register(t, "alice", false)

	if _, err := e.svc.Tags.Create(ctx, u, dto.TagRequest{Name: "x", Color: "#000000", Slug: "x"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("non-staff tag create error = %v", err)
	}
	lunch := e.tag(t, admin, "lunch")
	_, err := e.svc.Tags.Create(ctx, admin, dto.TagRequest{Name: "lunch", Color: "#000000", Slug: "lunch"})
	var verr *validation.Errors
	if !errors.As(err, &verr) || len(verr.Fields["slug"]) != 1 {
		t.Errorf("duplicate tag error = %v", err)
	}

	color := "#FFFFFF"
	updated, err := e.svc.Tags.Update(ctx, admin, lunch.ID, dto.TagUpdateRequest{Color: &color})
	if err != nil || updated.Color != color || updated.Slug != "lunch" {
		t.Errorf("update tag = %+v, %v", updated, err)
	}

	salt := e.ingredient(t, admin, "Salt", "g")
	e.recipe(t, admin, []uint{lunch.ID}, dto.IngredientAmountInput{ID: salt.ID, Amount: 1})
	if err := e.svc.Ingredients.Delete(ctx, admin, salt.ID); !errors.Is(err, ErrIngredientInUse) {
		t.Errorf("delete used ingredient error = %v", err)
	}
	if err := e.svc.Ingredients.Delete(ctx, admin, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing ingredient error = %v", err)
	}

	res, err := e.svc.Ingredients.Import(ctx, []dto.IngredientRequest{
		{Name: "Salt", MeasurementUnit: "g"},
		{Name: "Sugar", MeasurementUnit: "g"},
	})
	if err != nil || res.Created != 1 || res.Skipped != 1 {
		t.Errorf("import = %+v, %v", res, err)
	}
	if _, err := e.svc.Ingredients.Import(ctx, []dto.IngredientRequest{{Name: "", MeasurementUnit: "g"}}); err == nil {
		t.Error("import accepted an ingredient without a name")
	}
}

func TestRenderShoppingList(t *testing.T) {
	got := RenderShoppingList([]dto.ShoppingListItem{{Name: "Соль", MeasurementUnit: "г", TotalAmount: 15}})
	if got != "Список ингредиентов:\n\nСоль (г) - 15\n" {
		t.Errorf("render = %q", got)
	}
}

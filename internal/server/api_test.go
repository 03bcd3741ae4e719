package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// setupTestApp builds a Fiber app with the full route table over a fresh
// in-memory SQLite database. The Prometheus middleware is left out so each
// test can build its own app without double-registering collectors.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "test-secret-0123456789abcdef0123456789",
		Port:      "0",
		Env:       "test",
	}

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		profileRepo:  repository.NewProfileRepository(db),
		postRepo:     repository.NewPostRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		reactionRepo: repository.NewReactionRepository(db),
	}
	s.profileService = service.NewProfileService(s.profileRepo)
	s.postService = service.NewPostService(s.postRepo, s.profileRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.profileRepo)
	s.reactionService = service.NewReactionService(s.reactionRepo, s.postRepo, s.profileRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	_ = resp.Body.Close()
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	_ = resp.Body.Close()
	return resp, decoded
}

// registerUser registers an account and returns the token and profile ID.
func registerUser(t *testing.T, app *fiber.App, email, firstName string) (token string, profileID uint) {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email":      email,
		"password":   "Str0ng!Passw0rd",
		"first_name": firstName,
		"last_name":  "Tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	token, _ = body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	profile, _ := user["profile"].(map[string]any)
	require.NotNil(t, profile)
	return token, uint(profile["id"].(float64))
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupTestApp(t)

	token, profileID := registerUser(t, app, "alice@example.com", "Alice")
	assert.NotZero(t, profileID)

	t.Run("duplicate email rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
			"email":    "alice@example.com",
			"password": "Str0ng!Passw0rd",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
			"email":    "bob@example.com",
			"password": "weak",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login with valid credentials", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"email":    "alice@example.com",
			"password": "Str0ng!Passw0rd",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("login with wrong password", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"email":    "alice@example.com",
			"password": "Wrong!Passw0rd1",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me returns the account with profile", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice@example.com", body["email"])
		assert.NotContains(t, body, "password")
	})
}

func TestResourceRoutesRequireAuth(t *testing.T) {
	app := setupTestApp(t)

	paths := []string{
		"/api/v1/posts/",
		"/api/v1/profiles/",
		"/api/v1/reactions/",
		"/api/v1/comments/1",
		"/api/v1/auth/me",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, _ := doJSON(t, app, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	t.Run("garbage token rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/posts/", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestFeedFlow(t *testing.T) {
	app := setupTestApp(t)

	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, bobProfile := registerUser(t, app, "bob@example.com", "Bob")
	_, carolProfile := registerUser(t, app, "carol@example.com", "Carol")

	// Alice follows Bob but not Carol.
	resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/profiles/%d/follow", bobProfile), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/posts/", bobToken, fiber.Map{
		"title":       "from bob",
		"description": "hello feed",
		"tags":        []string{"greetings"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("feed contains followed author's post", func(t *testing.T) {
		resp, posts := doJSONList(t, app, http.MethodGet, "/api/v1/posts/", aliceToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, posts, 1)
		assert.Equal(t, "from bob", posts[0]["title"])
	})

	t.Run("self-follow rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/profiles/%d/follow", bobProfile), bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("tag filter", func(t *testing.T) {
		resp, posts := doJSONList(t, app, http.MethodGet, "/api/v1/posts/?tags=greet", aliceToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, posts, 1)

		resp, posts = doJSONList(t, app, http.MethodGet, "/api/v1/posts/?tags=nomatch", aliceToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, posts)
	})

	t.Run("unfollowed author invisible", func(t *testing.T) {
		_ = carolProfile
		resp, posts := doJSONList(t, app, http.MethodGet, "/api/v1/posts/", bobToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		// Bob follows nobody; he sees only his own post.
		require.Len(t, posts, 1)
	})
}

func TestPostOwnership(t *testing.T) {
	app := setupTestApp(t)

	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, _ := registerUser(t, app, "bob@example.com", "Bob")

	resp, post := doJSON(t, app, http.MethodPost, "/api/v1/posts/", aliceToken, fiber.Map{
		"title":       "alice post",
		"description": "mine",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := uint(post["id"].(float64))

	t.Run("non-owner update is forbidden", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/posts/%d", postID), bobToken, fiber.Map{
			"title": "hijacked",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("non-owner delete is forbidden", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner patch keeps pub_date and author", func(t *testing.T) {
		resp, before := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, after := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/posts/%d", postID), aliceToken, fiber.Map{
			"title": "renamed",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "renamed", after["title"])
		assert.Equal(t, before["pub_date"], after["pub_date"])
		assert.Equal(t, before["author"].(map[string]any)["id"], after["author"].(map[string]any)["id"])
	})

	t.Run("unknown post is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/posts/9999", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCommentFlow(t *testing.T) {
	app := setupTestApp(t)

	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, _ := registerUser(t, app, "bob@example.com", "Bob")

	resp, post := doJSON(t, app, http.MethodPost, "/api/v1/posts/", aliceToken, fiber.Map{
		"title":       "discussable",
		"description": "talk to me",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := uint(post["id"].(float64))

	resp, comment := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), bobToken, fiber.Map{
		"description": "nice one",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	commentID := uint(comment["id"].(float64))

	t.Run("comments listed on post", func(t *testing.T) {
		resp, comments := doJSONList(t, app, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", postID), aliceToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, comments, 1)
		assert.Equal(t, "nice one", comments[0]["description"])
	})

	t.Run("detail carries count and expanded comments", func(t *testing.T) {
		resp, got := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), got["comments_count"])

		expanded, _ := got["comments"].([]any)
		require.Len(t, expanded, 1)
		assert.Equal(t, "nice one", expanded[0].(map[string]any)["description"])
	})

	t.Run("only the author edits a comment", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/comments/%d", commentID), aliceToken, fiber.Map{
			"description": "edited by post owner",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/comments/%d", commentID), bobToken, fiber.Map{
			"description": "edited by author",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), bobToken, fiber.Map{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestReactionFlow(t *testing.T) {
	app := setupTestApp(t)

	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, _ := registerUser(t, app, "bob@example.com", "Bob")

	resp, post := doJSON(t, app, http.MethodPost, "/api/v1/posts/", aliceToken, fiber.Map{
		"title":       "reactable",
		"description": "like me",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := uint(post["id"].(float64))

	resp, reaction := doJSON(t, app, http.MethodPost, "/api/v1/reactions/", bobToken, fiber.Map{
		"post":          postID,
		"reaction_type": "LIKE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reactionID := uint(reaction["id"].(float64))

	t.Run("second reaction updates in place", func(t *testing.T) {
		resp, updated := doJSON(t, app, http.MethodPost, "/api/v1/reactions/", bobToken, fiber.Map{
			"post":          postID,
			"reaction_type": "DISLIKE",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "DISLIKE", updated["reaction_type"])
		assert.Equal(t, float64(reactionID), updated["id"])
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/reactions/", bobToken, fiber.Map{
			"post":          postID,
			"reaction_type": "LOVE",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("reaction on unknown post is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/reactions/", bobToken, fiber.Map{
			"post":          9999,
			"reaction_type": "LIKE",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("foreign reaction is invisible", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/reactions/%d", reactionID), aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, reactions := doJSONList(t, app, http.MethodGet, "/api/v1/reactions/", aliceToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, reactions)
	})

	t.Run("owner deletes own reaction", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/reactions/%d", reactionID), bobToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, reactions := doJSONList(t, app, http.MethodGet, "/api/v1/reactions/", bobToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, reactions)
	})
}

func TestProfileDetailExpandsFollowGraph(t *testing.T) {
	app := setupTestApp(t)

	aliceToken, aliceProfile := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, bobProfile := registerUser(t, app, "bob@example.com", "Bob")

	resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/profiles/%d/follow", bobProfile), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, detail := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/profiles/%d", bobProfile), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	followers, _ := detail["followers"].([]any)
	require.Len(t, followers, 1)
	follower := followers[0].(map[string]any)
	assert.Equal(t, float64(aliceProfile), follower["id"])
	assert.Equal(t, "Alice", follower["first_name"])
	assert.Empty(t, detail["following"])
}

func TestProfileLifecycle(t *testing.T) {
	app := setupTestApp(t)

	token, profileID := registerUser(t, app, "alice@example.com", "Alice")

	t.Run("second profile rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/profiles/", token, fiber.Map{
			"first_name": "Alice",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only the owner deletes", func(t *testing.T) {
		otherToken, _ := registerUser(t, app, "mallory@example.com", "Mallory")
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/profiles/%d", profileID), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("delete then recreate", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/profiles/%d", profileID), token, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/profiles/%d", profileID), token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, recreated := doJSON(t, app, http.MethodPost, "/api/v1/profiles/", token, fiber.Map{
			"first_name": "Alice",
			"last_name":  "Again",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Again", recreated["last_name"])
	})
}

func TestUpdateMe(t *testing.T) {
	app := setupTestApp(t)

	token, _ := registerUser(t, app, "alice@example.com", "Alice")

	t.Run("email change", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPut, "/api/v1/auth/me", token, fiber.Map{
			"email": "alice.new@example.com",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice.new@example.com", body["email"])
	})

	t.Run("taken email rejected", func(t *testing.T) {
		registerUser(t, app, "bob@example.com", "Bob")
		resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/auth/me", token, fiber.Map{
			"email": "bob@example.com",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("password change takes effect on login", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/auth/me", token, fiber.Map{
			"password": "N3w!Passw0rdXY",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"email":    "alice.new@example.com",
			"password": "Str0ng!Passw0rd",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"email":    "alice.new@example.com",
			"password": "N3w!Passw0rdXY",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestTopLevelComments(t *testing.T) {
	app := setupTestApp(t)

	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")

	resp, post := doJSON(t, app, http.MethodPost, "/api/v1/posts/", aliceToken, fiber.Map{
		"title":       "commentable",
		"description": "body",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := uint(post["id"].(float64))

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/comments/", aliceToken, fiber.Map{
		"post_id":     postID,
		"description": "via the flat route",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("missing post_id rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/comments/", aliceToken, fiber.Map{
			"description": "no target",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("global listing", func(t *testing.T) {
		resp, comments := doJSONList(t, app, http.MethodGet, "/api/v1/comments/", aliceToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, comments, 1)
		assert.Equal(t, "via the flat route", comments[0]["description"])
	})
}

func TestProfileFilters(t *testing.T) {
	app := setupTestApp(t)

	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")
	registerUser(t, app, "alicia@example.com", "Alicia")
	registerUser(t, app, "bob@example.com", "Bob")

	// Everyone above registers as "Tester"; Dora gets a distinct last name.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email":      "dora@example.com",
		"password":   "Str0ng!Passw0rd",
		"first_name": "Dora",
		"last_name":  "Moreau",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, profiles := doJSONList(t, app, http.MethodGet, "/api/v1/profiles/?first_name=ali", aliceToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, profiles, 2)

	resp, profiles = doJSONList(t, app, http.MethodGet, "/api/v1/profiles/?last_name=MOREA", aliceToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Dora", profiles[0]["first_name"])
}

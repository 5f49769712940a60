package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/testhelpers"
	"github.com/ezchef/ezchef/backend/internal/types"
)

func TestCookbooks(t *testing.T) {
	s := newTestServer(t, nil)
	owner := testhelpers.CreateTestUser(t, s.db, "owner")
	fan := testhelpers.CreateTestUser(t, s.db, "fan")
	soup := testhelpers.CreateTestRecipe(t, s.db, owner, "Soup")
	cake := testhelpers.CreateTestRecipe(t, s.db, fan, "Cake")
	token := s.tokenFor(t, owner)
	fanToken := s.tokenFor(t, fan)

	w := s.do(t, http.MethodPost, "/api/v1/cookbooks", token, gin.H{"cb_title": "Weeknight", "cb_description": "Quick meals"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cookbook types.CookbookView
	decode(t, w, &cookbook)
	path := "/api/v1/cookbooks/" + uintPath(cookbook.ID)

	w = s.do(t, http.MethodPost, "/api/v1/cookbooks", token, gin.H{"cb_title": "This title is far too long for a cookbook"})
	assertErrorCode(t, w, http.StatusBadRequest, middleware.CodeInvalidRequest)

	t.Run("entries", func(t *testing.T) {
		w := s.do(t, http.MethodPost, path+"/recipes/"+uintPath(soup.ID), token, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var entry types.CookbookEntryView
		decode(t, w, &entry)
		assert.Equal(t, "Soup", entry.Recipe.Name)
		assert.Equal(t, owner.ID, entry.UserID)

		w = s.do(t, http.MethodPost, path+"/entries", token, gin.H{"recipe": soup.ID})
		assertErrorCode(t, w, http.StatusBadRequest, middleware.CodeInvalidRequest)

		w = s.do(t, http.MethodPost, path+"/entries", token, gin.H{"recipe": cake.ID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = s.do(t, http.MethodPost, path+"/entries", fanToken, gin.H{"recipe": cake.ID})
		assertErrorCode(t, w, http.StatusForbidden, middleware.CodeForbidden)

		w = s.do(t, http.MethodGet, path+"/entries", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var entries []types.CookbookEntryView
		decode(t, w, &entries)
		assert.Len(t, entries, 2)

		w = s.do(t, http.MethodGet, "/api/v1/recipes?notInCookbook="+uintPath(cookbook.ID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page recipePage
		decode(t, w, &page)
		assert.Zero(t, page.Total)

		w = s.do(t, http.MethodDelete, path+"/recipes/"+uintPath(cake.ID), token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = s.do(t, http.MethodDelete, path+"/recipes/"+uintPath(cake.ID), token, nil)
		assertErrorCode(t, w, http.StatusNotFound, middleware.CodeNotFound)

		w = s.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var detail types.CookbookDetail
		decode(t, w, &detail)
		require.Len(t, detail.Recipes, 1)
		assert.Equal(t, "Soup", detail.Recipes[0].Name)
		assert.Equal(t, int64(1), detail.RecipeCount)
	})

	t.Run("subscriptions", func(t *testing.T) {
		w := s.do(t, http.MethodPost, path+"/subscribe", token, nil)
		assertErrorCode(t, w, http.StatusBadRequest, middleware.CodeInvalidRequest)

		w = s.do(t, http.MethodPost, "/api/v1/cookbooks/subscribe", fanToken, gin.H{"cookbook": cookbook.ID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var view types.CookbookView
		decode(t, w, &view)
		assert.Equal(t, 1, view.NumOfSaves)

		w = s.do(t, http.MethodPost, path+"/subscribe", fanToken, nil)
		assertErrorCode(t, w, http.StatusBadRequest, middleware.CodeInvalidRequest)

		w = s.do(t, http.MethodGet, "/api/v1/cookbooks", fanToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var listed []types.CookbookView
		decode(t, w, &listed)
		require.Len(t, listed, 1)
		assert.Equal(t, cookbook.ID, listed[0].ID)

		w = s.do(t, http.MethodDelete, path+"/subscribe", fanToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decode(t, w, &view)
		assert.Zero(t, view.NumOfSaves)

		w = s.do(t, http.MethodDelete, path+"/subscribe", fanToken, nil)
		assertErrorCode(t, w, http.StatusNotFound, middleware.CodeNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, fanToken, gin.H{"cb_title": "Mine now"})
		assertErrorCode(t, w, http.StatusForbidden, middleware.CodeForbidden)

		w = s.do(t, http.MethodPatch, path, token, gin.H{"cb_title": "Weekend"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var view types.CookbookView
		decode(t, w, &view)
		assert.Equal(t, "Weekend", view.Title)
		assert.Equal(t, "Quick meals", view.Description)

		w = s.do(t, http.MethodDelete, path, fanToken, nil)
		assertErrorCode(t, w, http.StatusForbidden, middleware.CodeForbidden)

		w = s.do(t, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, path, "", nil)
		assertErrorCode(t, w, http.StatusNotFound, middleware.CodeNotFound)
	})
}

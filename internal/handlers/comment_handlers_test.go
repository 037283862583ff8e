package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialite/internal/api"
)

func TestListAndGetComments(t *testing.T) {
	env := newTestEnv(t)
	gatorToken, _ := env.signupWithProfile(t, "gator")
	crocToken, _ := env.signupWithProfile(t, "croc")
	postID := env.createPost(t, gatorToken, "topic")

	w := env.do(t, "POST", fmt.Sprintf("/posts/%s/comments", postID), crocToken, CommentRequest{Content: "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[api.CommentView](t, w)

	w = env.do(t, "GET", "/comments/", gatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decodeBody[[]api.CommentView](t, w)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Content)
	assert.Equal(t, "croc", comments[0].OwnerNickname)

	w = env.do(t, "GET", "/comments/"+created.ID.String(), gatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comment := decodeBody[api.CommentView](t, w)
	assert.Equal(t, created.ID, comment.ID)
}

func TestCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signupWithProfile(t, "gator")
	postID := env.createPost(t, token, "topic")

	w := env.do(t, "POST", fmt.Sprintf("/posts/%s/comments", postID), token, CommentRequest{Content: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	gatorToken, _ := env.signupWithProfile(t, "gator")
	crocToken, _ := env.signupWithProfile(t, "croc")
	postID := env.createPost(t, gatorToken, "topic")

	w := env.do(t, "POST", fmt.Sprintf("/posts/%s/comments", postID), crocToken, CommentRequest{Content: "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	comment := decodeBody[api.CommentView](t, w)

	// Not even the post owner may delete someone else's comment.
	w = env.do(t, "DELETE", "/comments/"+comment.ID.String(), gatorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The author may.
	w = env.do(t, "DELETE", "/comments/"+comment.ID.String(), crocToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, "GET", "/comments/"+comment.ID.String(), crocToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUnknownComment(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signupWithProfile(t, "gator")

	w := env.do(t, "GET", "/comments/9b1a9c5e-3f2d-42f1-8a77-1f6c0d8e9a01", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

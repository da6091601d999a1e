package web

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/forms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 64)...)

func postMultipart(t *testing.T, client *http.Client, target string, fields url.Values, filename string, fileContent []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, writer.WriteField(k, v))
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	resp, err := client.Post(target, writer.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func TestNewPostWithImageRendersImgTag(t *testing.T) {
	env := newTestEnv(t, 20*time.Second)
	env.createUser(t, "alice")
	client := env.client(t, "alice")

	resp := postMultipart(t, client, env.ts.URL+"/new",
		url.Values{"text": {"picture post"}}, "file.png", pngBytes)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	_, body := getBody(t, client, env.ts.URL+"/alice")
	assert.Contains(t, body, `img class="card-img"`)
	assert.Contains(t, body, "/uploads/")
}

func TestNonImageUploadRejectedWithFieldError(t *testing.T) {
	env := newTestEnv(t, 20*time.Second)
	env.createUser(t, "alice")
	client := env.client(t, "alice")

	resp := postMultipart(t, client, env.ts.URL+"/new",
		url.Values{"text": {"sneaky upload"}}, "file.png", []byte("plain text pretending to be a png"))
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), forms.InvalidImageError)

	count, err := env.store.CountPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEditWithNonImageKeepsPostUnchanged(t *testing.T) {
	env := newTestEnv(t, 20*time.Second)
	alice := env.createUser(t, "alice")
	client := env.client(t, "alice")

	post, err := env.store.CreatePost(context.Background(), &domain.Post{Text: "original text", AuthorID: alice.ID})
	require.NoError(t, err)

	resp := postMultipart(t, client, env.ts.URL+"/alice/"+post.ID+"/edit",
		url.Values{"text": {"edited text"}}, "file.txt", []byte("not an image at all"))
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), forms.InvalidImageError)

	kept, err := env.store.GetPostByAuthorAndID(context.Background(), alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original text", kept.Text)
	assert.Empty(t, kept.Image)
}
